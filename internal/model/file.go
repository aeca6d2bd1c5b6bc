package model

import (
	"time"

	"gorm.io/gorm"
)

// FileEntry is the metadata row for one stored blob. The blob itself lives
// behind storage.FileStorage and is physically removed only when no
// non-deleted AnswerFile references this entry.
type FileEntry struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	FileName         string         `json:"file_name" gorm:"size:256;not null"`
	ContentType      string         `json:"content_type" gorm:"size:128;not null"`
	Length           int64          `json:"length"`
	StoredRef        string         `json:"stored_ref" gorm:"size:512;not null"`
	UploadedByUserID uint           `json:"uploaded_by_user_id" gorm:"not null;index"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
