package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardService computes the read-only reconciliation views across
// assignments, answers and scores. Nothing here mutates state; soft-deleted
// rows are excluded from every view, so scores orphaned by a deleted answer
// never surface.
type DashboardService interface {
	UnscoredAnswersByUser(ctx context.Context, userID uint) ([]dto.UnscoredAnswerDTO, error)
	ScoredAnswersByUser(ctx context.Context, userID uint) ([]dto.ScoredAnswerDTO, error)
	ReviewerSummary(ctx context.Context) ([]dto.ReviewerSummaryDTO, error)
	UserTotalScores(ctx context.Context) ([]dto.UserTotalScoreDTO, error)
	UsersWithUnscoredAnswers(ctx context.Context) ([]dto.UserWithUnscoredDTO, error)
	UsersScoredStatus(ctx context.Context) (*dto.UsersScoredStatusDTO, error)
	MyMetrics(ctx context.Context, userID uint) (*dto.DashboardDTO, error)
}

type dashboardService struct {
	userRepo       repository.UserRepository
	answerRepo     repository.AnswerRepository
	assignmentRepo repository.AssignmentRepository
	db             *gorm.DB
}

func NewDashboardService(userRepo repository.UserRepository, answerRepo repository.AnswerRepository, assignmentRepo repository.AssignmentRepository, db *gorm.DB) DashboardService {
	return &dashboardService{userRepo: userRepo, answerRepo: answerRepo, assignmentRepo: assignmentRepo, db: db}
}

const noScoreExists = "NOT EXISTS (SELECT 1 FROM answer_scores s WHERE s.answer_id = answers.id AND s.deleted_at IS NULL)"

func (s *dashboardService) UnscoredAnswersByUser(ctx context.Context, userID uint) ([]dto.UnscoredAnswerDTO, error) {
	var answers []model.Answer
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(noScoreExists).
		Preload("QuestionItem").
		// NULLS FIRST keeps whole-question answers ahead of item answers on
		// Postgres, which otherwise sorts NULL last.
		Order("question_id ASC, question_item_id ASC NULLS FIRST").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("fetching unscored answers for user %d: %w", userID, err)
	}

	result := make([]dto.UnscoredAnswerDTO, 0, len(answers))
	for i := range answers {
		a := &answers[i]
		entry := dto.UnscoredAnswerDTO{
			AnswerID:       a.ID,
			QuestionID:     a.QuestionID,
			QuestionItemID: a.QuestionItemID,
			Value:          a.Value,
			SubmittedAt:    a.SubmittedAt,
		}
		if a.QuestionItem != nil {
			entry.ItemText = &a.QuestionItem.Text
		}
		result = append(result, entry)
	}
	return result, nil
}

func (s *dashboardService) ScoredAnswersByUser(ctx context.Context, userID uint) ([]dto.ScoredAnswerDTO, error) {
	scores, err := s.liveScores(ctx, s.db.WithContext(ctx).Where("answers.user_id = ?", userID))
	if err != nil {
		return nil, fmt.Errorf("fetching scored answers for user %d: %w", userID, err)
	}

	result := make([]dto.ScoredAnswerDTO, 0, len(scores))
	for i := range scores {
		sc := &scores[i]
		result = append(result, dto.ScoredAnswerDTO{
			AnswerID:         sc.AnswerID,
			QuestionID:       sc.Answer.QuestionID,
			QuestionItemID:   sc.Answer.QuestionItemID,
			Value:            sc.Answer.Value,
			Score:            sc.Score,
			Notes:            sc.Notes,
			ReviewerUserID:   sc.ReviewerUserID,
			ReviewerFullName: sc.Reviewer.FullName,
			ScoredAt:         sc.ScoredAt,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].QuestionID != result[j].QuestionID {
			return result[i].QuestionID < result[j].QuestionID
		}
		return lessItemID(result[i].QuestionItemID, result[j].QuestionItemID)
	})
	return result, nil
}

func (s *dashboardService) ReviewerSummary(ctx context.Context) ([]dto.ReviewerSummaryDTO, error) {
	scores, err := s.liveScores(ctx, s.db.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching scores for reviewer summary: %w", err)
	}

	type agg struct {
		reviewer model.User
		answers  map[uint]bool
		last     time.Time
	}
	byReviewer := make(map[uint]*agg)
	for i := range scores {
		sc := &scores[i]
		a, ok := byReviewer[sc.ReviewerUserID]
		if !ok {
			a = &agg{reviewer: sc.Reviewer, answers: make(map[uint]bool)}
			byReviewer[sc.ReviewerUserID] = a
		}
		a.answers[sc.AnswerID] = true
		if sc.ScoredAt.After(a.last) {
			a.last = sc.ScoredAt
		}
	}

	result := make([]dto.ReviewerSummaryDTO, 0, len(byReviewer))
	for id, a := range byReviewer {
		result = append(result, dto.ReviewerSummaryDTO{
			ReviewerUserID:   id,
			ReviewerFullName: a.reviewer.FullName,
			ReviewerUserName: a.reviewer.UserName,
			ReviewedAnswers:  len(a.answers),
			LastReviewedAt:   a.last,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].ReviewedAnswers != result[j].ReviewedAnswers {
			return result[i].ReviewedAnswers > result[j].ReviewedAnswers
		}
		return result[i].ReviewerUserID < result[j].ReviewerUserID
	})
	return result, nil
}

// UserTotalScores sums every score attached to each user's non-deleted
// answers across all reviewers. Sums are exact decimal arithmetic, never
// float64, so totals do not drift as reviewer counts grow.
func (s *dashboardService) UserTotalScores(ctx context.Context) ([]dto.UserTotalScoreDTO, error) {
	scores, err := s.liveScores(ctx, s.db.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching scores for totals: %w", err)
	}

	type agg struct {
		user    model.User
		total   decimal.Decimal
		answers map[uint]bool
	}
	byUser := make(map[uint]*agg)
	for i := range scores {
		sc := &scores[i]
		a, ok := byUser[sc.Answer.UserID]
		if !ok {
			a = &agg{user: sc.Answer.User, answers: make(map[uint]bool)}
			byUser[sc.Answer.UserID] = a
		}
		a.total = a.total.Add(sc.Score)
		a.answers[sc.AnswerID] = true
	}

	result := make([]dto.UserTotalScoreDTO, 0, len(byUser))
	for id, a := range byUser {
		result = append(result, dto.UserTotalScoreDTO{
			UserID:       id,
			FullName:     a.user.FullName,
			UserName:     a.user.UserName,
			TotalScore:   a.total,
			AnswersCount: len(a.answers),
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].TotalScore.Equal(result[j].TotalScore) {
			return result[i].TotalScore.GreaterThan(result[j].TotalScore)
		}
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}

func (s *dashboardService) UsersWithUnscoredAnswers(ctx context.Context) ([]dto.UserWithUnscoredDTO, error) {
	type row struct {
		UserID        uint
		UnscoredCount int
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&model.Answer{}).
		Select("user_id, COUNT(*) AS unscored_count").
		Where(noScoreExists).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting unscored answers: %w", err)
	}
	if len(rows) == 0 {
		return []dto.UserWithUnscoredDTO{}, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	var users []model.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	userByID := make(map[uint]*model.User, len(users))
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}

	result := make([]dto.UserWithUnscoredDTO, 0, len(rows))
	for _, r := range rows {
		u, ok := userByID[r.UserID]
		if !ok {
			// User was soft-deleted after answering; the view hides them.
			continue
		}
		result = append(result, dto.UserWithUnscoredDTO{
			UserID:        r.UserID,
			FullName:      u.FullName,
			UserName:      u.UserName,
			Email:         u.Email,
			IsActive:      u.IsActive,
			UnscoredCount: r.UnscoredCount,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].UnscoredCount != result[j].UnscoredCount {
			return result[i].UnscoredCount > result[j].UnscoredCount
		}
		return result[i].FullName < result[j].FullName
	})
	return result, nil
}

// UsersScoredStatus drives the two-pane reviewer dashboard: every user with
// at least one answer lands either in the "has scores" pane (most recent
// score first) or the "no scores yet" pane (alphabetical).
func (s *dashboardService) UsersScoredStatus(ctx context.Context) (*dto.UsersScoredStatusDTO, error) {
	var answers []model.Answer
	err := s.db.WithContext(ctx).
		Preload("User").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("fetching answers for scored status: %w", err)
	}

	scores, err := s.liveScores(ctx, s.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	scoredAnswers := make(map[uint]bool, len(scores))
	lastByUser := make(map[uint]time.Time)
	for i := range scores {
		sc := &scores[i]
		scoredAnswers[sc.AnswerID] = true
		if sc.ScoredAt.After(lastByUser[sc.Answer.UserID]) {
			lastByUser[sc.Answer.UserID] = sc.ScoredAt
		}
	}

	statusByUser := make(map[uint]*dto.UserScoredStatusDTO)
	for i := range answers {
		a := &answers[i]
		st, ok := statusByUser[a.UserID]
		if !ok {
			st = &dto.UserScoredStatusDTO{
				UserID:   a.UserID,
				FullName: a.User.FullName,
				UserName: a.User.UserName,
			}
			statusByUser[a.UserID] = st
		}
		st.Total++
		if scoredAnswers[a.ID] {
			st.Scored++
		} else {
			st.Unscored++
		}
	}

	out := &dto.UsersScoredStatusDTO{
		WithScores:    []dto.UserScoredStatusDTO{},
		WithoutScores: []dto.UserScoredStatusDTO{},
	}
	for id, st := range statusByUser {
		if last, ok := lastByUser[id]; ok && st.Scored > 0 {
			t := last
			st.LastScoredAt = &t
			out.WithScores = append(out.WithScores, *st)
		} else {
			out.WithoutScores = append(out.WithoutScores, *st)
		}
	}
	sort.SliceStable(out.WithScores, func(i, j int) bool {
		return out.WithScores[i].LastScoredAt.After(*out.WithScores[j].LastScoredAt)
	})
	sort.SliceStable(out.WithoutScores, func(i, j int) bool {
		return out.WithoutScores[i].FullName < out.WithoutScores[j].FullName
	})
	return out, nil
}

func (s *dashboardService) MyMetrics(ctx context.Context, userID uint) (*dto.DashboardDTO, error) {
	me, err := s.userRepo.FindByIDWithRole(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user %d not found", userID)
	}
	if err != nil {
		return nil, err
	}

	out := &dto.DashboardDTO{Metrics: map[string]int64{}}

	var assigned int64
	if err := s.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&assigned).Error; err != nil {
		return nil, err
	}
	answered, err := s.answerRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	answeredQuestions, err := s.answerRepo.CountDistinctQuestionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	pending := assigned - answeredQuestions
	if pending < 0 {
		pending = 0
	}
	out.Metrics["assigned_to_me"] = assigned
	out.Metrics["answered_by_me"] = answered
	out.Metrics["my_pending"] = pending

	if me.Role.CanSeeAllUsers {
		total, err := s.userRepo.Count(ctx)
		if err != nil {
			return nil, err
		}
		out.Metrics["total_users"] = total
	}
	if me.Role.CanSeeSystemStats {
		var total int64
		if err := s.db.WithContext(ctx).Model(&model.Question{}).Count(&total).Error; err != nil {
			return nil, err
		}
		out.Metrics["total_questions"] = total
	}
	if me.Role.CanSeeAssignmentsAll {
		var total int64
		if err := s.db.WithContext(ctx).Model(&model.Assignment{}).Count(&total).Error; err != nil {
			return nil, err
		}
		out.Metrics["total_assignments"] = total
	}
	if me.Role.CanSeeAnswersAll {
		var total int64
		if err := s.db.WithContext(ctx).Model(&model.Answer{}).Count(&total).Error; err != nil {
			return nil, err
		}
		out.Metrics["total_answers"] = total
	}
	return out, nil
}

// liveScores loads non-deleted scores whose parent answer is also
// non-deleted, with answer owner and reviewer populated. The join is what
// keeps orphaned scores out of every view.
func (s *dashboardService) liveScores(ctx context.Context, q *gorm.DB) ([]model.AnswerScore, error) {
	var scores []model.AnswerScore
	err := q.WithContext(ctx).Model(&model.AnswerScore{}).
		Joins("JOIN answers ON answers.id = answer_scores.answer_id AND answers.deleted_at IS NULL").
		Preload("Answer").
		Preload("Answer.User").
		Preload("Reviewer").
		Find(&scores).Error
	return scores, err
}

func lessItemID(a, b *uint) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil:
		return true
	case b == nil:
		return false
	default:
		return *a < *b
	}
}
