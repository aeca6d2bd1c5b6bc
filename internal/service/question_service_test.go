package service

import (
	"context"
	"testing"

	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newQuestionService(db *gorm.DB) QuestionService {
	return NewQuestionService(repository.NewQuestionRepository(db), repository.NewLookupRepository(db), db)
}

func TestQuestionCreateWithItems(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.QuestionCreateDTO{
		Title: "Survey",
		Items: []dto.QuestionItemCreateDTO{
			{Text: "How was it?", Type: "text", IsRequired: true},
			{Text: "Rate it", Type: "number"},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Items, 2)
	assert.Equal(t, "How was it?", created.Items[0].Text)
}

func TestQuestionCreateRejectsUnknownCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)

	_, err := svc.Create(context.Background(), dto.QuestionCreateDTO{
		Title:      "Survey",
		CategoryID: uintPtr(42),
		Items:      []dto.QuestionItemCreateDTO{{Text: "a", Type: "text"}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, []uint{42}, apperr.OffendingIDs(err))
}

func TestQuestionUpdateReconcilesItems(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.QuestionCreateDTO{
		Title: "Survey",
		Items: []dto.QuestionItemCreateDTO{
			{Text: "keep me", Type: "text"},
			{Text: "drop me", Type: "text"},
		},
	})
	require.NoError(t, err)
	keepID := created.Items[0].ID

	updated, err := svc.Update(ctx, created.ID, dto.QuestionUpdateDTO{
		Title: "Survey v2",
		Items: []dto.QuestionItemUpdateDTO{
			{ID: uintPtr(keepID), Text: "kept and renamed", Type: "text"},
			{Text: "brand new", Type: "number"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Survey v2", updated.Title)
	require.Len(t, updated.Items, 2)

	texts := []string{updated.Items[0].Text, updated.Items[1].Text}
	assert.Contains(t, texts, "kept and renamed")
	assert.Contains(t, texts, "brand new")
	assert.NotContains(t, texts, "drop me")

	// The dropped item is soft-deleted, not destroyed.
	var total int64
	require.NoError(t, db.Unscoped().Model(&model.QuestionItem{}).Count(&total).Error)
	assert.EqualValues(t, 3, total)
}

func TestQuestionUpdateEnumeratesUnknownItemIDs(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.QuestionCreateDTO{
		Title: "Survey",
		Items: []dto.QuestionItemCreateDTO{{Text: "only item", Type: "text"}},
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, dto.QuestionUpdateDTO{
		Title: "Survey",
		Items: []dto.QuestionItemUpdateDTO{
			{ID: uintPtr(777), Text: "x", Type: "text"},
			{ID: uintPtr(888), Text: "y", Type: "text"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, []uint{777, 888}, apperr.OffendingIDs(err))

	// The question is untouched.
	fetched, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, "only item", fetched.Items[0].Text)
}

func TestQuestionDeleteCascadesToItems(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.QuestionCreateDTO{
		Title: "Survey",
		Items: []dto.QuestionItemCreateDTO{{Text: "a", Type: "text"}, {Text: "b", Type: "text"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	var liveItems int64
	require.NoError(t, db.Model(&model.QuestionItem{}).Count(&liveItems).Error)
	assert.Zero(t, liveItems)
}
