package dto

import "time"

type QuestionItemDTO struct {
	ID         uint    `json:"id"`
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	IsRequired bool    `json:"is_required"`
	OptionsCsv *string `json:"options_csv,omitempty"`
}

type QuestionDTO struct {
	ID           uint              `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description,omitempty"`
	CategoryID   *uint             `json:"category_id,omitempty"`
	CategoryName *string           `json:"category_name,omitempty"`
	Items        []QuestionItemDTO `json:"items"`
	CreatedAt    time.Time         `json:"created_at"`
}

type QuestionItemCreateDTO struct {
	Text       string  `json:"text" binding:"required,max=256"`
	Type       string  `json:"type" binding:"required,oneof=text single_choice multi_choice number date"`
	IsRequired bool    `json:"is_required"`
	OptionsCsv *string `json:"options_csv,omitempty"`
}

type QuestionCreateDTO struct {
	Title       string                  `json:"title" binding:"required,max=256"`
	Description string                  `json:"description,omitempty"`
	CategoryID  *uint                   `json:"category_id,omitempty"`
	Items       []QuestionItemCreateDTO `json:"items" binding:"required,min=1,dive"`
}

// QuestionItemUpdateDTO with a nil or zero ID describes a new item; a
// positive ID must match an existing non-deleted item of the question.
type QuestionItemUpdateDTO struct {
	ID         *uint   `json:"id,omitempty"`
	Text       string  `json:"text" binding:"required,max=256"`
	Type       string  `json:"type" binding:"required,oneof=text single_choice multi_choice number date"`
	IsRequired bool    `json:"is_required"`
	OptionsCsv *string `json:"options_csv,omitempty"`
}

type QuestionUpdateDTO struct {
	Title       string                  `json:"title" binding:"required,max=256"`
	Description string                  `json:"description,omitempty"`
	CategoryID  *uint                   `json:"category_id,omitempty"`
	Items       []QuestionItemUpdateDTO `json:"items" binding:"required,min=1,dive"`
}
