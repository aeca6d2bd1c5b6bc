package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	UserName     string         `json:"user_name" gorm:"size:64;not null;uniqueIndex:uq_users_user_name,where:deleted_at IS NULL"`
	FullName     string         `json:"full_name" gorm:"size:128;not null"`
	Email        string         `json:"email" gorm:"size:256;not null"`
	PasswordHash string         `json:"-" gorm:"not null"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	RoleID       uint           `json:"role_id" gorm:"not null;index"`
	Role         Role           `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
