package model

import (
	"time"

	"gorm.io/gorm"
)

// Assignment records that a user must answer a question. At most one
// non-deleted row may exist per (question, user) pair; IsActive is an
// administrative suspension flag, independent of soft delete.
type Assignment struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	QuestionID uint           `json:"question_id" gorm:"not null;index;uniqueIndex:uq_assignments_pair,where:deleted_at IS NULL"`
	Question   Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	UserID     uint           `json:"user_id" gorm:"not null;index;uniqueIndex:uq_assignments_pair,where:deleted_at IS NULL"`
	User       User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	AssignedAt time.Time      `json:"assigned_at"`
	IsActive   bool           `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
