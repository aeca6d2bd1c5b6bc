package model

import (
	"time"

	"gorm.io/gorm"
)

// Answer holds the current value a user has supplied for one item of one
// question. QuestionItemID is nil for legacy whole-question answers.
// Resubmitting the same (user, question, item) tuple updates the row in place.
type Answer struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	QuestionID     uint           `json:"question_id" gorm:"not null;index;uniqueIndex:uq_answers_tuple,where:deleted_at IS NULL"`
	Question       Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	QuestionItemID *uint          `json:"question_item_id,omitempty" gorm:"index;uniqueIndex:uq_answers_tuple,where:deleted_at IS NULL"`
	QuestionItem   *QuestionItem  `json:"question_item,omitempty" gorm:"foreignKey:QuestionItemID"`
	UserID         uint           `json:"user_id" gorm:"not null;index;uniqueIndex:uq_answers_tuple,where:deleted_at IS NULL"`
	User           User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Value          *string        `json:"value,omitempty" gorm:"type:text"`
	SubmittedAt    *time.Time     `json:"submitted_at,omitempty"`
	Files          []AnswerFile   `json:"files,omitempty" gorm:"foreignKey:AnswerID"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// AnswerFile links one uploaded file to one answer. Links accumulate across
// uploads and are soft-deleted independently, so several files can hang off
// one answer without replacing each other.
type AnswerFile struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	AnswerID  uint           `json:"answer_id" gorm:"not null;index"`
	Answer    Answer         `json:"-" gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE"`
	FileID    uint           `json:"file_id" gorm:"not null;index"`
	File      FileEntry      `json:"file,omitempty" gorm:"foreignKey:FileID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
