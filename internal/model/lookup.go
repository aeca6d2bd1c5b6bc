package model

import (
	"time"

	"gorm.io/gorm"
)

type Lookup struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Name       string         `json:"name" gorm:"size:128;not null;uniqueIndex:uq_lookups_type_name,where:deleted_at IS NULL"`
	Type       string         `json:"type" gorm:"size:64;not null;uniqueIndex:uq_lookups_type_name,where:deleted_at IS NULL"`
	Code       string         `json:"code" gorm:"size:64;not null;uniqueIndex:uq_lookups_code,where:deleted_at IS NULL"`
	SubLookups []SubLookup    `json:"sub_lookups,omitempty" gorm:"foreignKey:LookupID"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

type SubLookup struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	LookupID  uint           `json:"lookup_id" gorm:"not null;index;uniqueIndex:uq_sub_lookups_name,where:deleted_at IS NULL"`
	Name      string         `json:"name" gorm:"size:128;not null;uniqueIndex:uq_sub_lookups_name,where:deleted_at IS NULL"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
