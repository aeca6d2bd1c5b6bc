package repository

import (
	"errors"

	"gorm.io/gorm"
)

// UpsertByKey enforces a natural-key uniqueness invariant the same way for
// every entity that needs one: find the single non-deleted row matching key,
// apply update to it and save; otherwise insert the row built by create.
//
// A nil map value in key matches SQL NULL, which is how the nullable
// question_item_id participates in the answer tuple.
//
// When two callers race on the same key, the loser's insert trips the partial
// unique index; it then re-reads and falls back to the update path, so the
// contract is last write wins. The insert runs inside a nested transaction
// (a savepoint when tx is already one): Postgres aborts the whole transaction
// on a unique violation, and without the savepoint rollback the re-read would
// fail instead of falling back.
func UpsertByKey[T any](tx *gorm.DB, key map[string]any, update func(*T), create func() *T) (*T, bool, error) {
	row, found, err := FindByKey[T](tx, key)
	if err != nil {
		return nil, false, err
	}
	if found {
		update(row)
		if err := tx.Save(row).Error; err != nil {
			return nil, false, err
		}
		return row, false, nil
	}

	fresh := create()
	err = tx.Transaction(func(inner *gorm.DB) error {
		return inner.Create(fresh).Error
	})
	if err == nil {
		return fresh, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}

	// Lost the insert race; the winner's row must exist now.
	row, found, err = FindByKey[T](tx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, gorm.ErrDuplicatedKey
	}
	update(row)
	if err := tx.Save(row).Error; err != nil {
		return nil, false, err
	}
	return row, false, nil
}

// FindByKey returns the non-deleted row of T matching key, if any.
func FindByKey[T any](tx *gorm.DB, key map[string]any) (*T, bool, error) {
	var row T
	err := tx.Where(key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &row, true, nil
}
