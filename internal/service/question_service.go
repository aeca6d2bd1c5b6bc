package service

import (
	"context"
	"errors"
	"sort"

	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"gorm.io/gorm"
)

type QuestionService interface {
	Create(ctx context.Context, req dto.QuestionCreateDTO) (*dto.QuestionDTO, error)
	GetByID(ctx context.Context, id uint) (*dto.QuestionDTO, error)
	List(ctx context.Context) ([]dto.QuestionDTO, error)
	Update(ctx context.Context, id uint, req dto.QuestionUpdateDTO) (*dto.QuestionDTO, error)
	Delete(ctx context.Context, id uint) error
}

type questionService struct {
	questionRepo repository.QuestionRepository
	lookupRepo   repository.LookupRepository
	db           *gorm.DB
}

func NewQuestionService(questionRepo repository.QuestionRepository, lookupRepo repository.LookupRepository, db *gorm.DB) QuestionService {
	return &questionService{questionRepo: questionRepo, lookupRepo: lookupRepo, db: db}
}

func (s *questionService) Create(ctx context.Context, req dto.QuestionCreateDTO) (*dto.QuestionDTO, error) {
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	question := &model.Question{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
	for _, item := range req.Items {
		question.Items = append(question.Items, model.QuestionItem{
			Text:       item.Text,
			Type:       item.Type,
			IsRequired: item.IsRequired,
			OptionsCsv: item.OptionsCsv,
		})
	}
	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, question.ID)
}

func (s *questionService) GetByID(ctx context.Context, id uint) (*dto.QuestionDTO, error) {
	question, err := s.questionRepo.FindByIDWithItems(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("question %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	out := questionToDTO(question)
	return &out, nil
}

func (s *questionService) List(ctx context.Context) ([]dto.QuestionDTO, error) {
	questions, err := s.questionRepo.FindAllWithItems(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.QuestionDTO, 0, len(questions))
	for i := range questions {
		result = append(result, questionToDTO(&questions[i]))
	}
	return result, nil
}

// Update reconciles the submitted item list against the stored one in a
// single transaction. Items with a matching id are updated, items without an
// id are created, and stored items absent from the request are soft-deleted.
// An id that matches no live item of this question fails the whole request
// with the full list of bad ids.
func (s *questionService) Update(ctx context.Context, id uint, req dto.QuestionUpdateDTO) (*dto.QuestionDTO, error) {
	question, err := s.questionRepo.FindByIDWithItems(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("question %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	existing := make(map[uint]*model.QuestionItem, len(question.Items))
	for i := range question.Items {
		existing[question.Items[i].ID] = &question.Items[i]
	}

	var unknown []uint
	keep := make(map[uint]bool, len(req.Items))
	for _, item := range req.Items {
		if item.ID == nil || *item.ID == 0 {
			continue
		}
		if _, ok := existing[*item.ID]; !ok {
			unknown = append(unknown, *item.ID)
			continue
		}
		keep[*item.ID] = true
	}
	if len(unknown) > 0 {
		sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
		return nil, apperr.Validation("items do not belong to this question", unknown...)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		question.Title = req.Title
		question.Description = req.Description
		question.CategoryID = req.CategoryID
		if err := tx.Model(&model.Question{}).Where("id = ?", question.ID).
			Updates(map[string]any{
				"title":       question.Title,
				"description": question.Description,
				"category_id": question.CategoryID,
			}).Error; err != nil {
			return err
		}

		for _, item := range req.Items {
			if item.ID != nil && *item.ID != 0 {
				stored := existing[*item.ID]
				stored.Text = item.Text
				stored.Type = item.Type
				stored.IsRequired = item.IsRequired
				stored.OptionsCsv = item.OptionsCsv
				if err := tx.Save(stored).Error; err != nil {
					return err
				}
				continue
			}
			created := &model.QuestionItem{
				QuestionID: question.ID,
				Text:       item.Text,
				Type:       item.Type,
				IsRequired: item.IsRequired,
				OptionsCsv: item.OptionsCsv,
			}
			if err := tx.Create(created).Error; err != nil {
				return err
			}
		}

		for itemID := range existing {
			if !keep[itemID] {
				if err := tx.Delete(&model.QuestionItem{}, itemID).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete soft-deletes the question and all of its items.
func (s *questionService) Delete(ctx context.Context, id uint) error {
	question, err := s.questionRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("question %d not found", id)
	}
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.QuestionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(question).Error
	})
}

func (s *questionService) checkCategory(ctx context.Context, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Lookup{}).
		Where("id = ?", *categoryID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return apperr.Validation("category does not exist", *categoryID)
	}
	return nil
}
