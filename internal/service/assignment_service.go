package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AssignmentService owns the registry of (question, user) pairs that must be
// answered.
type AssignmentService interface {
	BulkAssign(ctx context.Context, req dto.BulkAssignRequest) (*dto.BulkAssignResult, error)
	Activate(ctx context.Context, id uint) error
	Deactivate(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint) ([]dto.PendingAssignmentDTO, error)
	ListByQuestion(ctx context.Context, questionID uint) (*dto.QuestionAssigneesDTO, error)
	ListAll(ctx context.Context) ([]dto.AssignmentDTO, error)
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	answerRepo     repository.AnswerRepository
	db             *gorm.DB
}

func NewAssignmentService(assignmentRepo repository.AssignmentRepository, answerRepo repository.AnswerRepository, db *gorm.DB) AssignmentService {
	return &assignmentService{assignmentRepo: assignmentRepo, answerRepo: answerRepo, db: db}
}

// BulkAssign idempotently ensures an active assignment exists for every
// (question, user) pair in the deduplicated cross-product. Existing active
// rows are left alone; inactive rows are reactivated with a fresh assigned_at.
func (s *assignmentService) BulkAssign(ctx context.Context, req dto.BulkAssignRequest) (*dto.BulkAssignResult, error) {
	questionIDs := dedupe(req.QuestionIDs)
	userIDs := dedupe(req.UserIDs)

	result := &dto.BulkAssignResult{}
	now := time.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, qID := range questionIDs {
			for _, uID := range userIDs {
				existing, found, err := repository.FindByKey[model.Assignment](tx, map[string]any{
					"question_id": qID,
					"user_id":     uID,
				})
				if err != nil {
					return fmt.Errorf("looking up assignment (%d, %d): %w", qID, uID, err)
				}
				switch {
				case found && existing.IsActive:
					result.Unchanged++
				case found:
					existing.IsActive = true
					existing.AssignedAt = now
					if err := tx.Save(existing).Error; err != nil {
						return fmt.Errorf("reactivating assignment %d: %w", existing.ID, err)
					}
					result.Reactivated++
				default:
					a := model.Assignment{QuestionID: qID, UserID: uID, AssignedAt: now, IsActive: true}
					// The insert runs in a savepoint so a lost race against a
					// concurrent BulkAssign does not abort the transaction on
					// Postgres; the invariant holds either way.
					err := tx.Transaction(func(inner *gorm.DB) error {
						return inner.Create(&a).Error
					})
					if err != nil {
						if errors.Is(err, gorm.ErrDuplicatedKey) {
							result.Unchanged++
							continue
						}
						return fmt.Errorf("creating assignment (%d, %d): %w", qID, uID, err)
					}
					result.Created++
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("BulkAssign failed")
		return nil, err
	}

	log.Info().Int("created", result.Created).Int("reactivated", result.Reactivated).
		Int("unchanged", result.Unchanged).Msg("Bulk assign completed")
	return result, nil
}

func (s *assignmentService) Activate(ctx context.Context, id uint) error {
	return s.setActive(ctx, id, true)
}

func (s *assignmentService) Deactivate(ctx context.Context, id uint) error {
	return s.setActive(ctx, id, false)
}

func (s *assignmentService) setActive(ctx context.Context, id uint, active bool) error {
	a, err := s.assignmentRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("assignment %d not found", id)
	}
	if err != nil {
		return err
	}
	a.IsActive = active
	return s.assignmentRepo.Save(ctx, a)
}

// ListByUser is a pending-work view, not a raw listing: an assignment appears
// only while its question still has at least one item the user has not
// answered, and the nested items are filtered to that unanswered subset.
// A whole-question answer (nil item id) counts as answering every item.
func (s *assignmentService) ListByUser(ctx context.Context, userID uint) ([]dto.PendingAssignmentDTO, error) {
	assignments, err := s.assignmentRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching assignments for user %d: %w", userID, err)
	}

	result := make([]dto.PendingAssignmentDTO, 0, len(assignments))
	for _, a := range assignments {
		answers, err := s.answerRepo.FindByUserAndQuestion(ctx, userID, a.QuestionID)
		if err != nil {
			return nil, fmt.Errorf("fetching answers for question %d: %w", a.QuestionID, err)
		}

		answeredItems := make(map[uint]bool, len(answers))
		wholeQuestionAnswered := false
		for _, ans := range answers {
			if ans.QuestionItemID == nil {
				wholeQuestionAnswered = true
			} else {
				answeredItems[*ans.QuestionItemID] = true
			}
		}
		if wholeQuestionAnswered {
			continue
		}

		var pending []dto.QuestionItemDTO
		for _, item := range a.Question.Items {
			if !answeredItems[item.ID] {
				var itemDTO dto.QuestionItemDTO
				copier.Copy(&itemDTO, &item)
				pending = append(pending, itemDTO)
			}
		}
		if len(pending) == 0 {
			continue
		}

		entry := dto.PendingAssignmentDTO{
			ID:           a.ID,
			QuestionID:   a.QuestionID,
			AssignedAt:   a.AssignedAt,
			PendingItems: pending,
		}
		entry.Question = questionToDTO(&a.Question)
		entry.Question.Items = nil
		result = append(result, entry)
	}
	return result, nil
}

func (s *assignmentService) ListByQuestion(ctx context.Context, questionID uint) (*dto.QuestionAssigneesDTO, error) {
	count, err := s.assignmentRepo.CountActiveByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignmentRepo.FindActiveByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	users := make([]dto.AssignedUserDTO, 0, len(assignments))
	for _, a := range assignments {
		users = append(users, dto.AssignedUserDTO{
			ID:       a.User.ID,
			UserName: a.User.UserName,
			FullName: a.User.FullName,
		})
	}
	return &dto.QuestionAssigneesDTO{Count: count, Users: users}, nil
}

func (s *assignmentService) ListAll(ctx context.Context) ([]dto.AssignmentDTO, error) {
	assignments, err := s.assignmentRepo.FindAllWithQuestions(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.AssignmentDTO, 0, len(assignments))
	for _, a := range assignments {
		entry := dto.AssignmentDTO{
			ID:         a.ID,
			QuestionID: a.QuestionID,
			UserID:     a.UserID,
			AssignedAt: a.AssignedAt,
			IsActive:   a.IsActive,
			Question:   questionToDTO(&a.Question),
		}
		result = append(result, entry)
	}
	return result, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
