package dto

import "time"

// BulkAssignRequest expands to the full cross-product of questions x users.
// Duplicate ids are deduplicated before expansion.
type BulkAssignRequest struct {
	QuestionIDs []uint `json:"question_ids" binding:"required,min=1"`
	UserIDs     []uint `json:"user_ids" binding:"required,min=1"`
}

// BulkAssignResult reports what the idempotent expansion actually did.
type BulkAssignResult struct {
	Created     int `json:"created"`
	Reactivated int `json:"reactivated"`
	Unchanged   int `json:"unchanged"`
}

type AssignmentDTO struct {
	ID         uint        `json:"id"`
	QuestionID uint        `json:"question_id"`
	UserID     uint        `json:"user_id"`
	AssignedAt time.Time   `json:"assigned_at"`
	IsActive   bool        `json:"is_active"`
	Question   QuestionDTO `json:"question,omitempty"`
}

// PendingAssignmentDTO is the "pending work" view: the nested question items
// are filtered down to the subset the user has not answered yet.
type PendingAssignmentDTO struct {
	ID           uint              `json:"id"`
	QuestionID   uint              `json:"question_id"`
	AssignedAt   time.Time         `json:"assigned_at"`
	Question     QuestionDTO       `json:"question"`
	PendingItems []QuestionItemDTO `json:"pending_items"`
}

type AssignedUserDTO struct {
	ID       uint   `json:"id"`
	UserName string `json:"user_name"`
	FullName string `json:"full_name"`
}

type QuestionAssigneesDTO struct {
	Count int64             `json:"count"`
	Users []AssignedUserDTO `json:"users"`
}
