package service

import (
	"context"
	"testing"

	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newScoringService(db *gorm.DB) ScoringService {
	dash := NewDashboardService(repository.NewUserRepository(db), repository.NewAnswerRepository(db), repository.NewAssignmentRepository(db), db)
	return NewScoringService(repository.NewAnswerRepository(db), repository.NewAnswerScoreRepository(db), dash, db)
}

func seedAnswer(t *testing.T, db *gorm.DB, userID, questionID, itemID uint, value string) *model.Answer {
	t.Helper()
	a := &model.Answer{
		UserID:         userID,
		QuestionID:     questionID,
		QuestionItemID: &itemID,
		Value:          &value,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func TestBatchScoreUpsertPerReviewer(t *testing.T) {
	db := setupTestDB(t)
	svc := newScoringService(db)
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	student := seedUser(t, db, "student", role.ID)
	reviewer := seedUser(t, db, "reviewer", role.ID)
	question := seedQuestion(t, db, "Q1", "item")
	answer := seedAnswer(t, db, student.ID, question.ID, question.Items[0].ID, "v")

	_, err := svc.BatchUpsertScores(ctx, reviewer.ID, dto.BatchScoreRequest{Items: []dto.ScoreItemDTO{
		{AnswerID: answer.ID, Score: decimal.RequireFromString("7.5")},
	}})
	require.NoError(t, err)

	// Re-scoring the same answer updates the existing row.
	totals, err := svc.BatchUpsertScores(ctx, reviewer.ID, dto.BatchScoreRequest{Items: []dto.ScoreItemDTO{
		{AnswerID: answer.ID, Score: decimal.RequireFromString("8.5"), Notes: strPtr("better")},
	}})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.AnswerScore{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.Len(t, totals, 1)
	assert.Equal(t, student.ID, totals[0].UserID)
	assert.True(t, totals[0].TotalScore.Equal(decimal.RequireFromString("8.5")),
		"expected 8.5, got %s", totals[0].TotalScore)
}

func TestBatchScoreSecondReviewerGetsOwnRow(t *testing.T) {
	db := setupTestDB(t)
	svc := newScoringService(db)
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	student := seedUser(t, db, "student", role.ID)
	r1 := seedUser(t, db, "reviewer1", role.ID)
	r2 := seedUser(t, db, "reviewer2", role.ID)
	question := seedQuestion(t, db, "Q1", "item")
	answer := seedAnswer(t, db, student.ID, question.ID, question.Items[0].ID, "v")

	_, err := svc.BatchUpsertScores(ctx, r1.ID, dto.BatchScoreRequest{Items: []dto.ScoreItemDTO{
		{AnswerID: answer.ID, Score: decimal.RequireFromString("8.5")},
	}})
	require.NoError(t, err)

	totals, err := svc.BatchUpsertScores(ctx, r2.ID, dto.BatchScoreRequest{Items: []dto.ScoreItemDTO{
		{AnswerID: answer.ID, Score: decimal.RequireFromString("9.0")},
	}})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.AnswerScore{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	// Totals sum across reviewers with exact decimal arithmetic.
	require.Len(t, totals, 1)
	assert.True(t, totals[0].TotalScore.Equal(decimal.RequireFromString("17.5")),
		"expected 17.5, got %s", totals[0].TotalScore)
	assert.Equal(t, 1, totals[0].AnswersCount)
}

func TestBatchScoreEnumeratesAllMissingAnswers(t *testing.T) {
	db := setupTestDB(t)
	svc := newScoringService(db)
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	student := seedUser(t, db, "student", role.ID)
	reviewer := seedUser(t, db, "reviewer", role.ID)
	question := seedQuestion(t, db, "Q1", "item")
	answer := seedAnswer(t, db, student.ID, question.ID, question.Items[0].ID, "v")

	_, err := svc.BatchUpsertScores(ctx, reviewer.ID, dto.BatchScoreRequest{Items: []dto.ScoreItemDTO{
		{AnswerID: answer.ID, Score: decimal.RequireFromString("5")},
		{AnswerID: 9001, Score: decimal.RequireFromString("5")},
		{AnswerID: 9002, Score: decimal.RequireFromString("5")},
	}})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, []uint{9001, 9002}, apperr.OffendingIDs(err))

	// Validation failed before any write.
	var count int64
	require.NoError(t, db.Model(&model.AnswerScore{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestBatchScoreRejectsSoftDeletedAnswer(t *testing.T) {
	db := setupTestDB(t)
	svc := newScoringService(db)
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	student := seedUser(t, db, "student", role.ID)
	reviewer := seedUser(t, db, "reviewer", role.ID)
	question := seedQuestion(t, db, "Q1", "item")
	answer := seedAnswer(t, db, student.ID, question.ID, question.Items[0].ID, "v")

	require.NoError(t, db.Delete(answer).Error)

	_, err := svc.BatchUpsertScores(ctx, reviewer.ID, dto.BatchScoreRequest{Items: []dto.ScoreItemDTO{
		{AnswerID: answer.ID, Score: decimal.RequireFromString("5")},
	}})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, []uint{answer.ID}, apperr.OffendingIDs(err))
}

func TestBatchUpdateOnlyIsAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := newScoringService(db)
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	student := seedUser(t, db, "student", role.ID)
	reviewer := seedUser(t, db, "reviewer", role.ID)
	question := seedQuestion(t, db, "Q1", "first", "second")
	scored := seedAnswer(t, db, student.ID, question.ID, question.Items[0].ID, "v1")
	unscored := seedAnswer(t, db, student.ID, question.ID, question.Items[1].ID, "v2")

	_, err := svc.BatchUpsertScores(ctx, reviewer.ID, dto.BatchScoreRequest{Items: []dto.ScoreItemDTO{
		{AnswerID: scored.ID, Score: decimal.RequireFromString("6")},
	}})
	require.NoError(t, err)

	// One answer has no prior score: the whole batch is rejected.
	err = svc.BatchUpdateOnly(ctx, reviewer.ID, dto.BatchUpdateOnlyRequest{
		UserID: student.ID,
		Items: []dto.ScoreItemDTO{
			{AnswerID: scored.ID, Score: decimal.RequireFromString("7")},
			{AnswerID: unscored.ID, Score: decimal.RequireFromString("7")},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, []uint{unscored.ID}, apperr.OffendingIDs(err))

	var row model.AnswerScore
	require.NoError(t, db.Where("answer_id = ?", scored.ID).First(&row).Error)
	assert.True(t, row.Score.Equal(decimal.RequireFromString("6")), "score must be untouched, got %s", row.Score)
}

func TestBatchUpdateOnlyRejectsForeignAnswers(t *testing.T) {
	db := setupTestDB(t)
	svc := newScoringService(db)
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	student := seedUser(t, db, "student", role.ID)
	other := seedUser(t, db, "other", role.ID)
	reviewer := seedUser(t, db, "reviewer", role.ID)
	question := seedQuestion(t, db, "Q1", "item")
	answer := seedAnswer(t, db, other.ID, question.ID, question.Items[0].ID, "v")

	_, err := svc.BatchUpsertScores(ctx, reviewer.ID, dto.BatchScoreRequest{Items: []dto.ScoreItemDTO{
		{AnswerID: answer.ID, Score: decimal.RequireFromString("6")},
	}})
	require.NoError(t, err)

	err = svc.BatchUpdateOnly(ctx, reviewer.ID, dto.BatchUpdateOnlyRequest{
		UserID: student.ID,
		Items:  []dto.ScoreItemDTO{{AnswerID: answer.ID, Score: decimal.RequireFromString("9")}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, []uint{answer.ID}, apperr.OffendingIDs(err))
}

func TestBatchUpdateOnlyUpdatesInPlace(t *testing.T) {
	db := setupTestDB(t)
	svc := newScoringService(db)
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	student := seedUser(t, db, "student", role.ID)
	reviewer := seedUser(t, db, "reviewer", role.ID)
	question := seedQuestion(t, db, "Q1", "item")
	answer := seedAnswer(t, db, student.ID, question.ID, question.Items[0].ID, "v")

	_, err := svc.BatchUpsertScores(ctx, reviewer.ID, dto.BatchScoreRequest{Items: []dto.ScoreItemDTO{
		{AnswerID: answer.ID, Score: decimal.RequireFromString("6")},
	}})
	require.NoError(t, err)

	err = svc.BatchUpdateOnly(ctx, reviewer.ID, dto.BatchUpdateOnlyRequest{
		UserID: student.ID,
		Items:  []dto.ScoreItemDTO{{AnswerID: answer.ID, Score: decimal.RequireFromString("9.25"), Notes: strPtr("fixed")}},
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.AnswerScore{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var row model.AnswerScore
	require.NoError(t, db.Where("answer_id = ?", answer.ID).First(&row).Error)
	assert.True(t, row.Score.Equal(decimal.RequireFromString("9.25")))
	require.NotNil(t, row.Notes)
	assert.Equal(t, "fixed", *row.Notes)
}
