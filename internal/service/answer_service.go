package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/lshigami/Quokka/internal/storage"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AnswerService owns answer submission, mutation and the attachment ledger.
// Every operation takes the acting user id explicitly; ownership checks never
// read ambient state.
type AnswerService interface {
	Submit(ctx context.Context, actingUserID uint, req dto.BatchSubmitRequest) ([]dto.AnswerDTO, error)
	Update(ctx context.Context, actingUserID, answerID uint, value *string) error
	SoftDelete(ctx context.Context, actingUserID, answerID uint) error
	AttachFile(ctx context.Context, actingUserID, answerID uint, fileName string, r io.Reader, contentType string) (*dto.AnswerFileDTO, error)
	DetachFile(ctx context.Context, actingUserID, answerFileID uint) error
	ListMine(ctx context.Context, actingUserID uint) ([]dto.AnswerDTO, error)
}

type answerService struct {
	answerRepo repository.AnswerRepository
	fileRepo   repository.FileRepository
	files      storage.FileStorage
	db         *gorm.DB

	// Serializes the detach-recount-delete sequence per blob so a concurrent
	// attach and detach cannot interleave into a dangling reference.
	blobLocks sync.Map // fileID uint -> *sync.Mutex
}

func NewAnswerService(answerRepo repository.AnswerRepository, fileRepo repository.FileRepository, files storage.FileStorage, db *gorm.DB) AnswerService {
	return &answerService{answerRepo: answerRepo, fileRepo: fileRepo, files: files, db: db}
}

// Submit upserts every (question, item) tuple in the batch for the acting
// user: an existing non-deleted answer gets the new value and a refreshed
// submitted_at, a missing one is inserted. The batch is atomic.
func (s *answerService) Submit(ctx context.Context, actingUserID uint, req dto.BatchSubmitRequest) ([]dto.AnswerDTO, error) {
	now := time.Now().UTC()
	result := make([]dto.AnswerDTO, 0, len(req.Items))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Items {
			key := map[string]any{
				"user_id":     actingUserID,
				"question_id": item.QuestionID,
			}
			if item.QuestionItemID != nil {
				key["question_item_id"] = *item.QuestionItemID
			} else {
				key["question_item_id"] = nil
			}

			value := item.Value
			questionID := item.QuestionID
			itemID := item.QuestionItemID
			answer, created, err := repository.UpsertByKey(tx, key,
				func(a *model.Answer) {
					a.Value = value
					t := now
					a.SubmittedAt = &t
				},
				func() *model.Answer {
					t := now
					return &model.Answer{
						UserID:         actingUserID,
						QuestionID:     questionID,
						QuestionItemID: itemID,
						Value:          value,
						SubmittedAt:    &t,
					}
				})
			if err != nil {
				return fmt.Errorf("submitting answer for question %d: %w", questionID, err)
			}
			if created {
				log.Debug().Uint("answer_id", answer.ID).Uint("question_id", questionID).Msg("Answer created")
			}
			result = append(result, answerToDTO(answer))
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("user_id", actingUserID).Msg("Batch submit failed")
		return nil, err
	}
	return result, nil
}

func (s *answerService) Update(ctx context.Context, actingUserID, answerID uint, value *string) error {
	a, err := s.ownedAnswer(ctx, actingUserID, answerID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	a.Value = value
	a.SubmittedAt = &now
	return s.answerRepo.Save(ctx, a)
}

// SoftDelete marks the answer deleted. Scores referencing it are left in
// place; they stop appearing in reconciliation views because those views only
// join through non-deleted answers.
func (s *answerService) SoftDelete(ctx context.Context, actingUserID, answerID uint) error {
	a, err := s.ownedAnswer(ctx, actingUserID, answerID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(a).Error
}

// AttachFile stores the blob first and only then commits the metadata; a
// failed blob write leaves no metadata, a failed metadata write releases the
// blob so neither side can orphan the other. Prior links are never replaced.
func (s *answerService) AttachFile(ctx context.Context, actingUserID, answerID uint, fileName string, r io.Reader, contentType string) (*dto.AnswerFileDTO, error) {
	a, err := s.ownedAnswer(ctx, actingUserID, answerID)
	if err != nil {
		return nil, err
	}

	saved, err := s.files.Save(ctx, fileName, r, contentType)
	if err != nil {
		return nil, apperr.Storage("saving uploaded file", err)
	}

	entry := model.FileEntry{
		FileName:         fileName,
		ContentType:      saved.ContentType,
		Length:           saved.Length,
		StoredRef:        saved.StoredRef,
		UploadedByUserID: actingUserID,
	}
	var link model.AnswerFile

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		link = model.AnswerFile{AnswerID: a.ID, FileID: entry.ID}
		return tx.Create(&link).Error
	})
	if err != nil {
		if delErr := s.files.Delete(ctx, saved.StoredRef); delErr != nil {
			log.Error().Err(delErr).Str("stored_ref", saved.StoredRef).Msg("Failed to release blob after metadata failure")
		}
		return nil, fmt.Errorf("recording attachment for answer %d: %w", answerID, err)
	}

	return &dto.AnswerFileDTO{
		ID:          link.ID,
		FileID:      entry.ID,
		FileName:    entry.FileName,
		ContentType: entry.ContentType,
		Length:      entry.Length,
	}, nil
}

// DetachFile soft-deletes the link and, when no other non-deleted link still
// references the same blob, physically releases it. The recount and the blob
// delete run inside the transaction while holding a per-blob lock, so a
// storage failure rolls the metadata back and state is unchanged.
func (s *answerService) DetachFile(ctx context.Context, actingUserID, answerFileID uint) error {
	link, err := s.fileRepo.FindLinkByID(ctx, answerFileID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("answer file %d not found", answerFileID)
	}
	if err != nil {
		return err
	}
	if _, err := s.ownedAnswer(ctx, actingUserID, link.AnswerID); err != nil {
		return err
	}

	mu := s.lockBlob(link.FileID)
	mu.Lock()
	defer mu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.AnswerFile{}, link.ID).Error; err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&model.AnswerFile{}).
			Where("file_id = ? AND id <> ?", link.FileID, link.ID).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}

		var entry model.FileEntry
		if err := tx.First(&entry, link.FileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&entry).Error; err != nil {
			return err
		}
		if err := s.files.Delete(ctx, entry.StoredRef); err != nil {
			return apperr.Storage("deleting blob", err)
		}
		log.Info().Uint("file_id", entry.ID).Str("stored_ref", entry.StoredRef).Msg("Blob physically released")
		return nil
	})
}

func (s *answerService) ListMine(ctx context.Context, actingUserID uint) ([]dto.AnswerDTO, error) {
	answers, err := s.answerRepo.FindByUserWithDetails(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.AnswerDTO, 0, len(answers))
	for i := range answers {
		result = append(result, answerToDTO(&answers[i]))
	}
	return result, nil
}

// ownedAnswer loads a non-deleted answer and verifies ownership. A missing
// row and a foreign row both read as NotFound so callers cannot probe for
// other users' answer ids.
func (s *answerService) ownedAnswer(ctx context.Context, actingUserID, answerID uint) (*model.Answer, error) {
	a, err := s.answerRepo.FindByID(ctx, answerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("answer %d not found", answerID)
	}
	if err != nil {
		return nil, err
	}
	if a.UserID != actingUserID {
		return nil, apperr.NotFound("answer %d not found", answerID)
	}
	return a, nil
}

func (s *answerService) lockBlob(fileID uint) *sync.Mutex {
	mu, _ := s.blobLocks.LoadOrStore(fileID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
