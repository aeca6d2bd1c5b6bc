package repository

import (
	"testing"

	"github.com/lshigami/Quokka/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUpsertDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Answer{}))
	return db
}

func TestUpsertByKeyCreatesThenUpdates(t *testing.T) {
	db := setupUpsertDB(t)

	key := map[string]any{"user_id": 1, "question_id": 2, "question_item_id": nil}

	first, created, err := UpsertByKey(db, key,
		func(a *model.Answer) { t.Fatal("update must not run on first upsert") },
		func() *model.Answer {
			v := "v1"
			return &model.Answer{UserID: 1, QuestionID: 2, Value: &v}
		})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := UpsertByKey(db, key,
		func(a *model.Answer) {
			v := "v2"
			a.Value = &v
		},
		func() *model.Answer {
			t.Fatal("create must not run when the row exists")
			return nil
		})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.Answer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertByKeyRecoversFromLostInsertRace(t *testing.T) {
	db := setupUpsertDB(t)

	itemID := uint(7)
	key := map[string]any{"user_id": 1, "question_id": 2, "question_item_id": itemID}
	winner := &model.Answer{UserID: 1, QuestionID: 2, QuestionItemID: &itemID}

	err := db.Transaction(func(tx *gorm.DB) error {
		row, created, err := UpsertByKey(tx, key,
			func(a *model.Answer) {
				v := "loser"
				a.Value = &v
			},
			func() *model.Answer {
				// The concurrent winner lands between the missed read and the
				// insert attempt, so the insert trips the unique index.
				require.NoError(t, tx.Create(winner).Error)
				return &model.Answer{UserID: 1, QuestionID: 2, QuestionItemID: &itemID}
			})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, winner.ID, row.ID)
		require.NotNil(t, row.Value)
		assert.Equal(t, "loser", *row.Value)

		// The rolled-back insert must not poison the enclosing transaction.
		return tx.Create(&model.Answer{UserID: 9, QuestionID: 9}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Answer{}).
		Where("user_id = ? AND question_id = ?", 1, 2).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertByKeyNilValueMatchesOnlyNull(t *testing.T) {
	db := setupUpsertDB(t)

	itemID := uint(7)
	withItem := &model.Answer{UserID: 1, QuestionID: 2, QuestionItemID: &itemID}
	require.NoError(t, db.Create(withItem).Error)

	// A nil item key must not match the row with an item id.
	_, created, err := UpsertByKey(db,
		map[string]any{"user_id": 1, "question_id": 2, "question_item_id": nil},
		func(a *model.Answer) { t.Fatal("must not match the item-scoped row") },
		func() *model.Answer {
			return &model.Answer{UserID: 1, QuestionID: 2}
		})
	require.NoError(t, err)
	assert.True(t, created)

	var count int64
	require.NoError(t, db.Model(&model.Answer{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestFindByKeyIgnoresSoftDeleted(t *testing.T) {
	db := setupUpsertDB(t)

	a := &model.Answer{UserID: 1, QuestionID: 2}
	require.NoError(t, db.Create(a).Error)
	require.NoError(t, db.Delete(a).Error)

	_, found, err := FindByKey[model.Answer](db, map[string]any{
		"user_id": 1, "question_id": 2, "question_item_id": nil,
	})
	require.NoError(t, err)
	assert.False(t, found)
}
