package repository

import (
	"context"

	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	FindByIDWithItems(ctx context.Context, id uint) (*model.Question, error)
	FindAllWithItems(ctx context.Context) ([]model.Question, error)
	Save(ctx context.Context, question *model.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	// Creates associated items in the same insert when question.Items is populated.
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	if err := r.db.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepository) FindByIDWithItems(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_items.id ASC")
		}).
		Preload("Category").
		First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepository) FindAllWithItems(ctx context.Context) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_items.id ASC")
		}).
		Preload("Category").
		Order("created_at DESC").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) Save(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Save(question).Error
}
