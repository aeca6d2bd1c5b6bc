package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `json:"title" gorm:"size:256;not null"`
	Description string         `json:"description,omitempty"`
	CategoryID  *uint          `json:"category_id,omitempty" gorm:"index"`
	Category    *Lookup        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Items       []QuestionItem `json:"items,omitempty" gorm:"foreignKey:QuestionID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type QuestionItem struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	QuestionID    uint           `json:"question_id" gorm:"not null;index"`
	Text          string         `json:"text" gorm:"size:256;not null"`
	Type          string         `json:"type" gorm:"size:32;not null"` // "text", "single_choice", "multi_choice", "number", "date"
	IsRequired    bool           `json:"is_required"`
	OptionsCsv    *string        `json:"options_csv,omitempty" gorm:"size:1024"`
	ParentItemID  *uint          `json:"parent_item_id,omitempty"`
	ShowWhenValue *string        `json:"show_when_value,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
