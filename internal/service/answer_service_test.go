package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/lshigami/Quokka/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeStorage records blob operations so tests can assert exactly when a
// blob is physically released.
type fakeStorage struct {
	saves      int
	deletes    []string
	failDelete bool
	failSave   bool
}

func (f *fakeStorage) Save(ctx context.Context, fileName string, r io.Reader, contentType string) (storage.SavedFile, error) {
	if f.failSave {
		return storage.SavedFile{}, errors.New("disk offline")
	}
	f.saves++
	n, _ := io.Copy(io.Discard, r)
	return storage.SavedFile{
		StoredRef:   fmt.Sprintf("ref-%d-%s", f.saves, fileName),
		Length:      n,
		ContentType: contentType,
	}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, storedRef string) error {
	if f.failDelete {
		return errors.New("disk offline")
	}
	f.deletes = append(f.deletes, storedRef)
	return nil
}

func newAnswerService(db *gorm.DB, files storage.FileStorage) AnswerService {
	return NewAnswerService(repository.NewAnswerRepository(db), repository.NewFileRepository(db), files, db)
}

func TestSubmitUpsertsByTuple(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnswerService(db, &fakeStorage{})
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	user := seedUser(t, db, "alice", role.ID)
	question := seedQuestion(t, db, "Q1", "item")
	itemID := question.Items[0].ID

	first, err := svc.Submit(ctx, user.ID, dto.BatchSubmitRequest{Items: []dto.SubmitItemDTO{
		{QuestionID: question.ID, QuestionItemID: uintPtr(itemID), Value: strPtr("draft")},
	}})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Submit(ctx, user.ID, dto.BatchSubmitRequest{Items: []dto.SubmitItemDTO{
		{QuestionID: question.ID, QuestionItemID: uintPtr(itemID), Value: strPtr("final")},
	}})
	require.NoError(t, err)
	require.Len(t, second, 1)

	// Same row, new value.
	assert.Equal(t, first[0].ID, second[0].ID)

	var count int64
	require.NoError(t, db.Model(&model.Answer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var stored model.Answer
	require.NoError(t, db.First(&stored, first[0].ID).Error)
	require.NotNil(t, stored.Value)
	assert.Equal(t, "final", *stored.Value)
}

func TestSubmitSeparatesUsersAndItems(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnswerService(db, &fakeStorage{})
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	alice := seedUser(t, db, "alice", role.ID)
	bob := seedUser(t, db, "bob", role.ID)
	question := seedQuestion(t, db, "Q1", "first", "second")

	_, err := svc.Submit(ctx, alice.ID, dto.BatchSubmitRequest{Items: []dto.SubmitItemDTO{
		{QuestionID: question.ID, QuestionItemID: uintPtr(question.Items[0].ID), Value: strPtr("a1")},
		{QuestionID: question.ID, QuestionItemID: uintPtr(question.Items[1].ID), Value: strPtr("a2")},
	}})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, bob.ID, dto.BatchSubmitRequest{Items: []dto.SubmitItemDTO{
		{QuestionID: question.ID, QuestionItemID: uintPtr(question.Items[0].ID), Value: strPtr("b1")},
	}})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Answer{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestSubmitMidBatchFailureWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnswerService(db, &fakeStorage{})
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	user := seedUser(t, db, "alice", role.ID)
	question := seedQuestion(t, db, "Q1", "first item", "second item")

	// The second tuple's insert is rejected at the storage layer; the first
	// tuple's row must roll back with it.
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("reject_poison", func(tx *gorm.DB) {
		if a, ok := tx.Statement.Dest.(*model.Answer); ok && a.Value != nil && *a.Value == "poison" {
			tx.AddError(errors.New("row rejected"))
		}
	}))
	t.Cleanup(func() { db.Callback().Create().Remove("reject_poison") })

	_, err := svc.Submit(ctx, user.ID, dto.BatchSubmitRequest{Items: []dto.SubmitItemDTO{
		{QuestionID: question.ID, QuestionItemID: uintPtr(question.Items[0].ID), Value: strPtr("fine")},
		{QuestionID: question.ID, QuestionItemID: uintPtr(question.Items[1].ID), Value: strPtr("poison")},
	}})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Answer{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSubmitCancelledContextWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnswerService(db, &fakeStorage{})

	role := seedRole(t, db, "User", false)
	user := seedUser(t, db, "alice", role.ID)
	question := seedQuestion(t, db, "Q1", "first item")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Submit(ctx, user.ID, dto.BatchSubmitRequest{Items: []dto.SubmitItemDTO{
		{QuestionID: question.ID, QuestionItemID: uintPtr(question.Items[0].ID), Value: strPtr("late")},
	}})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Answer{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSoftDeleteFreesTupleForResubmission(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnswerService(db, &fakeStorage{})
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	user := seedUser(t, db, "alice", role.ID)
	question := seedQuestion(t, db, "Q1", "item")
	itemID := question.Items[0].ID

	first, err := svc.Submit(ctx, user.ID, dto.BatchSubmitRequest{Items: []dto.SubmitItemDTO{
		{QuestionID: question.ID, QuestionItemID: uintPtr(itemID), Value: strPtr("v1")},
	}})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, user.ID, first[0].ID))

	second, err := svc.Submit(ctx, user.ID, dto.BatchSubmitRequest{Items: []dto.SubmitItemDTO{
		{QuestionID: question.ID, QuestionItemID: uintPtr(itemID), Value: strPtr("v2")},
	}})
	require.NoError(t, err)
	assert.NotEqual(t, first[0].ID, second[0].ID)

	// The deleted row is still there, just invisible.
	var total int64
	require.NoError(t, db.Unscoped().Model(&model.Answer{}).Count(&total).Error)
	assert.EqualValues(t, 2, total)
}

func TestUpdateForeignAnswerReadsAsNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnswerService(db, &fakeStorage{})
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	alice := seedUser(t, db, "alice", role.ID)
	bob := seedUser(t, db, "bob", role.ID)
	question := seedQuestion(t, db, "Q1", "item")

	answers, err := svc.Submit(ctx, alice.ID, dto.BatchSubmitRequest{Items: []dto.SubmitItemDTO{
		{QuestionID: question.ID, QuestionItemID: uintPtr(question.Items[0].ID), Value: strPtr("mine")},
	}})
	require.NoError(t, err)

	err = svc.Update(ctx, bob.ID, answers[0].ID, strPtr("stolen"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAttachAndDetachLastReferenceReleasesBlob(t *testing.T) {
	db := setupTestDB(t)
	files := &fakeStorage{}
	svc := newAnswerService(db, files)
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	user := seedUser(t, db, "alice", role.ID)
	question := seedQuestion(t, db, "Q1", "item")

	answers, err := svc.Submit(ctx, user.ID, dto.BatchSubmitRequest{Items: []dto.SubmitItemDTO{
		{QuestionID: question.ID, QuestionItemID: uintPtr(question.Items[0].ID), Value: strPtr("v")},
	}})
	require.NoError(t, err)

	link, err := svc.AttachFile(ctx, user.ID, answers[0].ID, "notes.txt", strings.NewReader("hello"), "text/plain")
	require.NoError(t, err)
	assert.EqualValues(t, 5, link.Length)
	assert.Equal(t, 1, files.saves)

	require.NoError(t, svc.DetachFile(ctx, user.ID, link.ID))
	assert.Len(t, files.deletes, 1)

	// The link and the entry are both gone from the live views.
	var links, entries int64
	require.NoError(t, db.Model(&model.AnswerFile{}).Count(&links).Error)
	require.NoError(t, db.Model(&model.FileEntry{}).Count(&entries).Error)
	assert.Zero(t, links)
	assert.Zero(t, entries)
}

func TestDetachKeepsSharedBlob(t *testing.T) {
	db := setupTestDB(t)
	files := &fakeStorage{}
	svc := newAnswerService(db, files)
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	user := seedUser(t, db, "alice", role.ID)
	question := seedQuestion(t, db, "Q1", "first", "second")

	answers, err := svc.Submit(ctx, user.ID, dto.BatchSubmitRequest{Items: []dto.SubmitItemDTO{
		{QuestionID: question.ID, QuestionItemID: uintPtr(question.Items[0].ID), Value: strPtr("v1")},
		{QuestionID: question.ID, QuestionItemID: uintPtr(question.Items[1].ID), Value: strPtr("v2")},
	}})
	require.NoError(t, err)

	link1, err := svc.AttachFile(ctx, user.ID, answers[0].ID, "shared.txt", strings.NewReader("data"), "text/plain")
	require.NoError(t, err)

	// Second answer links the same stored blob.
	secondLink := model.AnswerFile{AnswerID: answers[1].ID, FileID: link1.FileID}
	require.NoError(t, db.Create(&secondLink).Error)

	require.NoError(t, svc.DetachFile(ctx, user.ID, link1.ID))
	assert.Empty(t, files.deletes)

	// Detaching the final reference releases the blob exactly once.
	require.NoError(t, svc.DetachFile(ctx, user.ID, secondLink.ID))
	assert.Len(t, files.deletes, 1)
}

func TestDetachStorageFailureRollsBackMetadata(t *testing.T) {
	db := setupTestDB(t)
	files := &fakeStorage{}
	svc := newAnswerService(db, files)
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	user := seedUser(t, db, "alice", role.ID)
	question := seedQuestion(t, db, "Q1", "item")

	answers, err := svc.Submit(ctx, user.ID, dto.BatchSubmitRequest{Items: []dto.SubmitItemDTO{
		{QuestionID: question.ID, QuestionItemID: uintPtr(question.Items[0].ID), Value: strPtr("v")},
	}})
	require.NoError(t, err)

	link, err := svc.AttachFile(ctx, user.ID, answers[0].ID, "notes.txt", strings.NewReader("hello"), "text/plain")
	require.NoError(t, err)

	files.failDelete = true
	err = svc.DetachFile(ctx, user.ID, link.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))

	// Nothing was removed: link and entry are still live.
	var links, entries int64
	require.NoError(t, db.Model(&model.AnswerFile{}).Count(&links).Error)
	require.NoError(t, db.Model(&model.FileEntry{}).Count(&entries).Error)
	assert.EqualValues(t, 1, links)
	assert.EqualValues(t, 1, entries)
}

func TestAttachStorageFailureWritesNoMetadata(t *testing.T) {
	db := setupTestDB(t)
	files := &fakeStorage{failSave: true}
	svc := newAnswerService(db, files)
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	user := seedUser(t, db, "alice", role.ID)
	question := seedQuestion(t, db, "Q1", "item")

	answers, err := svc.Submit(ctx, user.ID, dto.BatchSubmitRequest{Items: []dto.SubmitItemDTO{
		{QuestionID: question.ID, QuestionItemID: uintPtr(question.Items[0].ID), Value: strPtr("v")},
	}})
	require.NoError(t, err)

	_, err = svc.AttachFile(ctx, user.ID, answers[0].ID, "notes.txt", strings.NewReader("hello"), "text/plain")
	require.Error(t, err)
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))

	var entries int64
	require.NoError(t, db.Model(&model.FileEntry{}).Count(&entries).Error)
	assert.Zero(t, entries)
}

func TestListMineIncludesItemTextAndFiles(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnswerService(db, &fakeStorage{})
	ctx := context.Background()

	role := seedRole(t, db, "User", false)
	user := seedUser(t, db, "alice", role.ID)
	question := seedQuestion(t, db, "Q1", "the item")

	answers, err := svc.Submit(ctx, user.ID, dto.BatchSubmitRequest{Items: []dto.SubmitItemDTO{
		{QuestionID: question.ID, QuestionItemID: uintPtr(question.Items[0].ID), Value: strPtr("v")},
	}})
	require.NoError(t, err)

	_, err = svc.AttachFile(ctx, user.ID, answers[0].ID, "a.txt", strings.NewReader("x"), "text/plain")
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].ItemText)
	assert.Equal(t, "the item", *mine[0].ItemText)
	require.Len(t, mine[0].Files, 1)
	assert.Equal(t, "a.txt", mine[0].Files[0].FileName)
}
