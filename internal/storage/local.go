package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LocalFileStorage keeps blobs on the local disk under a single root
// directory. Keys are uuid-prefixed so concurrent uploads of the same file
// name never collide.
type LocalFileStorage struct {
	root string
}

func NewLocalFileStorage(root string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir %s: %w", root, err)
	}
	return &LocalFileStorage{root: root}, nil
}

func (s *LocalFileStorage) Save(ctx context.Context, fileName string, r io.Reader, contentType string) (SavedFile, error) {
	if err := ctx.Err(); err != nil {
		return SavedFile{}, err
	}

	safe := sanitizeFileName(fileName)
	name := uuid.New().String() + "_" + safe
	full := filepath.Join(s.root, name)

	f, err := os.Create(full)
	if err != nil {
		return SavedFile{}, fmt.Errorf("creating blob file: %w", err)
	}
	length, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(full)
		return SavedFile{}, fmt.Errorf("writing blob file: %w", err)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return SavedFile{StoredRef: name, Length: length, ContentType: contentType}, nil
}

// Delete removes the blob for storedRef. An already-absent blob is not an
// error, so repeated deletes are safe.
func (s *LocalFileStorage) Delete(ctx context.Context, storedRef string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Refs are plain file names; reject anything that escapes the root.
	if storedRef == "" || storedRef != filepath.Base(storedRef) {
		return fmt.Errorf("invalid stored ref %q", storedRef)
	}

	err := os.Remove(filepath.Join(s.root, storedRef))
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("stored_ref", storedRef).Msg("Blob already absent on delete")
		return nil
	}
	return err
}

func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "file"
	}
	return name
}
