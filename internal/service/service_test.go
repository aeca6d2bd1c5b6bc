package service

import (
	"testing"

	"github.com/lshigami/Quokka/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Lookup{},
		&model.SubLookup{},
		&model.Question{},
		&model.QuestionItem{},
		&model.Assignment{},
		&model.Answer{},
		&model.FileEntry{},
		&model.AnswerFile{},
		&model.AnswerScore{},
	))
	return db
}

func seedRole(t *testing.T, db *gorm.DB, name string, allFlags bool) *model.Role {
	t.Helper()
	role := &model.Role{
		Name:                 name,
		CanSeeAllUsers:       allFlags,
		CanSeeSystemStats:    allFlags,
		CanSeeAssignmentsAll: allFlags,
		CanSeeAnswersAll:     allFlags,
	}
	require.NoError(t, db.Create(role).Error)
	return role
}

func seedUser(t *testing.T, db *gorm.DB, userName string, roleID uint) *model.User {
	t.Helper()
	user := &model.User{
		UserName:     userName,
		FullName:     "Test " + userName,
		Email:        userName + "@example.com",
		PasswordHash: "x",
		IsActive:     true,
		RoleID:       roleID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedQuestion(t *testing.T, db *gorm.DB, title string, itemTexts ...string) *model.Question {
	t.Helper()
	q := &model.Question{Title: title}
	for _, text := range itemTexts {
		q.Items = append(q.Items, model.QuestionItem{Text: text, Type: "text"})
	}
	require.NoError(t, db.Create(q).Error)
	return q
}

func strPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }
