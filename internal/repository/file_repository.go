package repository

import (
	"context"

	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

// FileRepository resolves attachment links outside of the transactional
// attach/detach paths, which write through their own tx handle.
type FileRepository interface {
	FindLinkByID(ctx context.Context, id uint) (*model.AnswerFile, error)
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) FindLinkByID(ctx context.Context, id uint) (*model.AnswerFile, error) {
	var l model.AnswerFile
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}
