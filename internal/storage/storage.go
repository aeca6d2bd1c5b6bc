package storage

import (
	"context"
	"io"
)

// SavedFile describes a blob after it has been written to storage.
type SavedFile struct {
	StoredRef   string
	Length      int64
	ContentType string
}

// FileStorage is the external blob-store collaborator. Save must generate a
// collision-free storage key; Delete must not fail when the blob is already
// absent.
type FileStorage interface {
	Save(ctx context.Context, fileName string, r io.Reader, contentType string) (SavedFile, error)
	Delete(ctx context.Context, storedRef string) error
}
