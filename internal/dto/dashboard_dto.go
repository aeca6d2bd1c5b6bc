package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type UnscoredAnswerDTO struct {
	AnswerID       uint       `json:"answer_id"`
	QuestionID     uint       `json:"question_id"`
	QuestionItemID *uint      `json:"question_item_id,omitempty"`
	ItemText       *string    `json:"item_text,omitempty"`
	Value          *string    `json:"value,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
}

type ScoredAnswerDTO struct {
	AnswerID         uint            `json:"answer_id"`
	QuestionID       uint            `json:"question_id"`
	QuestionItemID   *uint           `json:"question_item_id,omitempty"`
	Value            *string         `json:"value,omitempty"`
	Score            decimal.Decimal `json:"score"`
	Notes            *string         `json:"notes,omitempty"`
	ReviewerUserID   uint            `json:"reviewer_user_id"`
	ReviewerFullName string          `json:"reviewer_full_name"`
	ScoredAt         time.Time       `json:"scored_at"`
}

type UserWithUnscoredDTO struct {
	UserID        uint   `json:"user_id"`
	FullName      string `json:"full_name"`
	UserName      string `json:"user_name"`
	Email         string `json:"email"`
	IsActive      bool   `json:"is_active"`
	UnscoredCount int    `json:"unscored_count"`
}

// UserScoredStatusDTO carries the per-user total/scored/unscored split that
// drives the two-pane reviewer dashboard.
type UserScoredStatusDTO struct {
	UserID       uint       `json:"user_id"`
	FullName     string     `json:"full_name"`
	UserName     string     `json:"user_name"`
	Total        int        `json:"total"`
	Scored       int        `json:"scored"`
	Unscored     int        `json:"unscored"`
	LastScoredAt *time.Time `json:"last_scored_at,omitempty"`
}

type UsersScoredStatusDTO struct {
	WithScores    []UserScoredStatusDTO `json:"with_scores"`
	WithoutScores []UserScoredStatusDTO `json:"without_scores"`
}

// DashboardDTO mirrors the per-user metrics block; admin-wide totals appear
// only when the caller's role grants them.
type DashboardDTO struct {
	Metrics map[string]int64 `json:"metrics"`
}
