package repository

import (
	"context"

	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Answer, error)
	Save(ctx context.Context, answer *model.Answer) error
	FindExistingIDs(ctx context.Context, ids []uint) ([]uint, error)
	FindByUserWithDetails(ctx context.Context, userID uint) ([]model.Answer, error)
	FindByUserAndQuestion(ctx context.Context, userID, questionID uint) ([]model.Answer, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountDistinctQuestionsByUser(ctx context.Context, userID uint) (int64, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) FindByID(ctx context.Context, id uint) (*model.Answer, error) {
	var a model.Answer
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *answerRepository) Save(ctx context.Context, answer *model.Answer) error {
	return r.db.WithContext(ctx).Save(answer).Error
}

// FindExistingIDs returns the subset of ids that have a non-deleted answer
// row, used for batch pre-validation.
func (r *answerRepository) FindExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	var existing []uint
	err := r.db.WithContext(ctx).Model(&model.Answer{}).
		Where("id IN ?", ids).
		Pluck("id", &existing).Error
	return existing, err
}

func (r *answerRepository) FindByUserWithDetails(ctx context.Context, userID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Question").
		Preload("QuestionItem").
		Preload("Files", "deleted_at IS NULL").
		Preload("Files.File").
		Order("question_id ASC, question_item_id ASC").
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) FindByUserAndQuestion(ctx context.Context, userID, questionID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Answer{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *answerRepository) CountDistinctQuestionsByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Answer{}).
		Where("user_id = ?", userID).
		Distinct("question_id").
		Count(&count).Error
	return count, err
}
