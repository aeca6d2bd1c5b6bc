package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AnswerScore is one reviewer's judgment of one answer. At most one
// non-deleted row per (answer, reviewer); the same reviewer re-scoring the
// same answer updates in place, a different reviewer gets an independent row.
type AnswerScore struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	AnswerID       uint            `json:"answer_id" gorm:"not null;index;uniqueIndex:uq_answer_scores_pair,where:deleted_at IS NULL"`
	Answer         Answer          `json:"-" gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE"`
	ReviewerUserID uint            `json:"reviewer_user_id" gorm:"not null;index;uniqueIndex:uq_answer_scores_pair,where:deleted_at IS NULL"`
	Reviewer       User            `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerUserID"`
	Score          decimal.Decimal `json:"score" gorm:"type:decimal(10,2);not null"`
	Notes          *string         `json:"notes,omitempty"`
	ScoredAt       time.Time       `json:"scored_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}
