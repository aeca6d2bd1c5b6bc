package repository

import (
	"context"

	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Assignment, error)
	Save(ctx context.Context, assignment *model.Assignment) error
	FindActiveByUser(ctx context.Context, userID uint) ([]model.Assignment, error)
	FindActiveByQuestion(ctx context.Context, questionID uint) ([]model.Assignment, error)
	CountActiveByQuestion(ctx context.Context, questionID uint) (int64, error)
	FindAllWithQuestions(ctx context.Context) ([]model.Assignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) FindByID(ctx context.Context, id uint) (*model.Assignment, error) {
	var a model.Assignment
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepository) Save(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepository) FindActiveByUser(ctx context.Context, userID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Preload("Question").
		Preload("Question.Category").
		Preload("Question.Items").
		Order("assigned_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) FindActiveByQuestion(ctx context.Context, questionID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Where("question_id = ? AND is_active = ?", questionID, true).
		Preload("User").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) CountActiveByQuestion(ctx context.Context, questionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("question_id = ? AND is_active = ?", questionID, true).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepository) FindAllWithQuestions(ctx context.Context) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Question").
		Preload("Question.Category").
		Preload("Question.Items").
		Preload("User").
		Order("assigned_at DESC").
		Find(&assignments).Error
	return assignments, err
}
