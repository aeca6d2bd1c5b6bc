package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ScoringService owns the (answer, reviewer) score ledger. Writes follow the
// read-validate-then-write-all pattern: a batch that fails validation writes
// nothing and reports every offending id at once.
type ScoringService interface {
	BatchUpsertScores(ctx context.Context, reviewerID uint, req dto.BatchScoreRequest) ([]dto.UserTotalScoreDTO, error)
	BatchUpdateOnly(ctx context.Context, reviewerID uint, req dto.BatchUpdateOnlyRequest) error
}

type scoringService struct {
	answerRepo repository.AnswerRepository
	scoreRepo  repository.AnswerScoreRepository
	dashboard  DashboardService
	db         *gorm.DB
}

func NewScoringService(answerRepo repository.AnswerRepository, scoreRepo repository.AnswerScoreRepository, dashboard DashboardService, db *gorm.DB) ScoringService {
	return &scoringService{answerRepo: answerRepo, scoreRepo: scoreRepo, dashboard: dashboard, db: db}
}

// BatchUpsertScores validates that every referenced answer exists before
// writing anything, then upserts one score row per (answer, reviewer) with a
// refreshed scored_at, and returns the recomputed per-user totals.
func (s *scoringService) BatchUpsertScores(ctx context.Context, reviewerID uint, req dto.BatchScoreRequest) ([]dto.UserTotalScoreDTO, error) {
	answerIDs := make([]uint, 0, len(req.Items))
	seen := make(map[uint]bool, len(req.Items))
	for _, item := range req.Items {
		if !seen[item.AnswerID] {
			seen[item.AnswerID] = true
			answerIDs = append(answerIDs, item.AnswerID)
		}
	}

	existing, err := s.answerRepo.FindExistingIDs(ctx, answerIDs)
	if err != nil {
		return nil, fmt.Errorf("validating answer ids: %w", err)
	}
	if len(existing) != len(answerIDs) {
		found := make(map[uint]bool, len(existing))
		for _, id := range existing {
			found[id] = true
		}
		var missing []uint
		for _, id := range answerIDs {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, apperr.Validation("answers not found", missing...)
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Items {
			score := item.Score
			notes := item.Notes
			answerID := item.AnswerID
			_, _, err := repository.UpsertByKey(tx,
				map[string]any{"answer_id": answerID, "reviewer_user_id": reviewerID},
				func(row *model.AnswerScore) {
					row.Score = score
					row.Notes = notes
					row.ScoredAt = now
				},
				func() *model.AnswerScore {
					return &model.AnswerScore{
						AnswerID:       answerID,
						ReviewerUserID: reviewerID,
						Score:          score,
						Notes:          notes,
						ScoredAt:       now,
					}
				})
			if err != nil {
				return fmt.Errorf("scoring answer %d: %w", answerID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("reviewer_id", reviewerID).Msg("Batch score upsert failed")
		return nil, err
	}

	log.Info().Uint("reviewer_id", reviewerID).Int("items", len(req.Items)).Msg("Batch scores recorded")
	return s.dashboard.UserTotalScores(ctx)
}

// BatchUpdateOnly is the strict re-open-and-fix flow: every referenced answer
// must belong to the stated user and must already carry a score from the
// acting reviewer. Any violation fails the whole call with zero rows written.
func (s *scoringService) BatchUpdateOnly(ctx context.Context, reviewerID uint, req dto.BatchUpdateOnlyRequest) error {
	answerIDs := make([]uint, 0, len(req.Items))
	for _, item := range req.Items {
		answerIDs = append(answerIDs, item.AnswerID)
	}

	var answers []model.Answer
	if err := s.db.WithContext(ctx).Where("id IN ?", answerIDs).Find(&answers).Error; err != nil {
		return fmt.Errorf("loading answers: %w", err)
	}
	ownerOf := make(map[uint]uint, len(answers))
	for _, a := range answers {
		ownerOf[a.ID] = a.UserID
	}

	var notOwned []uint
	for _, id := range answerIDs {
		owner, ok := ownerOf[id]
		if !ok || owner != req.UserID {
			notOwned = append(notOwned, id)
		}
	}
	if len(notOwned) > 0 {
		return apperr.Validation(fmt.Sprintf("answers missing or not owned by user %d", req.UserID), notOwned...)
	}

	scores, err := s.scoreRepo.FindByAnswerIDsAndReviewer(ctx, answerIDs, reviewerID)
	if err != nil {
		return fmt.Errorf("loading existing scores: %w", err)
	}
	scoreByAnswer := make(map[uint]*model.AnswerScore, len(scores))
	for i := range scores {
		scoreByAnswer[scores[i].AnswerID] = &scores[i]
	}

	var unscored []uint
	for _, id := range answerIDs {
		if _, ok := scoreByAnswer[id]; !ok {
			unscored = append(unscored, id)
		}
	}
	if len(unscored) > 0 {
		return apperr.Validation("answers have no prior score to update", unscored...)
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Items {
			row := scoreByAnswer[item.AnswerID]
			row.Score = item.Score
			row.Notes = item.Notes
			row.ScoredAt = now
			if err := tx.Save(row).Error; err != nil {
				return fmt.Errorf("updating score for answer %d: %w", item.AnswerID, err)
			}
		}
		return nil
	})
}
