package dto

import "time"

// SubmitItemDTO is one (question, item, value) tuple in a batch submission.
// A nil QuestionItemID targets the whole question (legacy mode).
type SubmitItemDTO struct {
	QuestionID     uint    `json:"question_id" binding:"required"`
	QuestionItemID *uint   `json:"question_item_id,omitempty"`
	Value          *string `json:"value,omitempty"`
}

type BatchSubmitRequest struct {
	Items []SubmitItemDTO `json:"items" binding:"required,min=1,dive"`
}

type AnswerUpdateDTO struct {
	Value *string `json:"value"`
}

type AnswerFileDTO struct {
	ID          uint   `json:"id"`
	FileID      uint   `json:"file_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Length      int64  `json:"length"`
}

type AnswerDTO struct {
	ID             uint            `json:"id"`
	QuestionID     uint            `json:"question_id"`
	QuestionItemID *uint           `json:"question_item_id,omitempty"`
	ItemText       *string         `json:"item_text,omitempty"`
	Value          *string         `json:"value,omitempty"`
	SubmittedAt    *time.Time      `json:"submitted_at,omitempty"`
	Files          []AnswerFileDTO `json:"files,omitempty"`
}
