package repository

import (
	"context"

	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

type AnswerScoreRepository interface {
	FindByAnswerIDsAndReviewer(ctx context.Context, answerIDs []uint, reviewerID uint) ([]model.AnswerScore, error)
}

type answerScoreRepository struct {
	db *gorm.DB
}

func NewAnswerScoreRepository(db *gorm.DB) AnswerScoreRepository {
	return &answerScoreRepository{db: db}
}

func (r *answerScoreRepository) FindByAnswerIDsAndReviewer(ctx context.Context, answerIDs []uint, reviewerID uint) ([]model.AnswerScore, error) {
	var scores []model.AnswerScore
	err := r.db.WithContext(ctx).
		Where("answer_id IN ? AND reviewer_user_id = ?", answerIDs, reviewerID).
		Find(&scores).Error
	return scores, err
}
