package repository

import (
	"context"

	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

type LookupRepository interface {
	Create(ctx context.Context, lookup *model.Lookup) error
	FindByCode(ctx context.Context, code string) (*model.Lookup, error)
	FindByCodeWithSubs(ctx context.Context, code string) (*model.Lookup, error)
	FindAllWithSubs(ctx context.Context) ([]model.Lookup, error)
	Save(ctx context.Context, lookup *model.Lookup) error
	CreateSub(ctx context.Context, sub *model.SubLookup) error
	FindSubByID(ctx context.Context, id uint) (*model.SubLookup, error)
	SaveSub(ctx context.Context, sub *model.SubLookup) error
	CountSubs(ctx context.Context, lookupID uint) (int64, error)
}

type lookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) LookupRepository {
	return &lookupRepository{db: db}
}

func (r *lookupRepository) Create(ctx context.Context, lookup *model.Lookup) error {
	return r.db.WithContext(ctx).Create(lookup).Error
}

func (r *lookupRepository) FindByCode(ctx context.Context, code string) (*model.Lookup, error) {
	var l model.Lookup
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lookupRepository) FindByCodeWithSubs(ctx context.Context, code string) (*model.Lookup, error) {
	var l model.Lookup
	err := r.db.WithContext(ctx).
		Preload("SubLookups").
		Where("code = ?", code).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lookupRepository) FindAllWithSubs(ctx context.Context) ([]model.Lookup, error) {
	var lookups []model.Lookup
	err := r.db.WithContext(ctx).Preload("SubLookups").Find(&lookups).Error
	return lookups, err
}

func (r *lookupRepository) Save(ctx context.Context, lookup *model.Lookup) error {
	return r.db.WithContext(ctx).Save(lookup).Error
}

func (r *lookupRepository) CreateSub(ctx context.Context, sub *model.SubLookup) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *lookupRepository) FindSubByID(ctx context.Context, id uint) (*model.SubLookup, error) {
	var s model.SubLookup
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *lookupRepository) SaveSub(ctx context.Context, sub *model.SubLookup) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

// CountSubs counts non-deleted sublookups; the delete guard refuses to soft
// delete a lookup while this is non-zero.
func (r *lookupRepository) CountSubs(ctx context.Context, lookupID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SubLookup{}).
		Where("lookup_id = ?", lookupID).
		Count(&count).Error
	return count, err
}
