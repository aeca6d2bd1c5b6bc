package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ScoreItemDTO struct {
	AnswerID uint            `json:"answer_id" binding:"required"`
	Score    decimal.Decimal `json:"score"`
	Notes    *string         `json:"notes,omitempty"`
}

type BatchScoreRequest struct {
	Items []ScoreItemDTO `json:"items" binding:"required,min=1,dive"`
}

// BatchUpdateOnlyRequest is the strict "re-open and fix" variant: every
// referenced answer must belong to UserID and must already carry a score from
// the acting reviewer.
type BatchUpdateOnlyRequest struct {
	UserID uint           `json:"user_id" binding:"required"`
	Items  []ScoreItemDTO `json:"items" binding:"required,min=1,dive"`
}

type UserTotalScoreDTO struct {
	UserID       uint            `json:"user_id"`
	FullName     string          `json:"full_name"`
	UserName     string          `json:"user_name"`
	TotalScore   decimal.Decimal `json:"total_score"`
	AnswersCount int             `json:"answers_count"`
}

type ReviewerSummaryDTO struct {
	ReviewerUserID   uint      `json:"reviewer_user_id"`
	ReviewerFullName string    `json:"reviewer_full_name"`
	ReviewerUserName string    `json:"reviewer_user_name"`
	ReviewedAnswers  int       `json:"reviewed_answers_count"`
	LastReviewedAt   time.Time `json:"last_reviewed_at"`
}
