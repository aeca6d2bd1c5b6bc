package model

import (
	"time"

	"gorm.io/gorm"
)

// Role carries the permission flags that gate the admin-wide dashboard metrics.
type Role struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	Name                 string         `json:"name" gorm:"size:64;not null"`
	CanSeeAllUsers       bool           `json:"can_see_all_users"`
	CanSeeSystemStats    bool           `json:"can_see_system_stats"`
	CanSeeAssignmentsAll bool           `json:"can_see_assignments_all"`
	CanSeeAnswersAll     bool           `json:"can_see_answers_all"`
	Users                []User         `json:"users,omitempty" gorm:"foreignKey:RoleID"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}
