package service

import (
	"context"
	"errors"

	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"gorm.io/gorm"
)

// LookupService manages the flat lookup catalog and its sublookups. Lookups
// are addressed by their stable code, sublookups by numeric id.
type LookupService interface {
	Create(ctx context.Context, req dto.LookupCreateDTO) (*dto.LookupDTO, error)
	GetByCode(ctx context.Context, code string) (*dto.LookupDTO, error)
	List(ctx context.Context) ([]dto.LookupDTO, error)
	Update(ctx context.Context, code string, req dto.LookupUpdateDTO) (*dto.LookupDTO, error)
	Delete(ctx context.Context, code string) error
	AddSub(ctx context.Context, code string, req dto.SubLookupCreateDTO) (*dto.SubLookupDTO, error)
	UpdateSub(ctx context.Context, subID uint, req dto.SubLookupUpdateDTO) (*dto.SubLookupDTO, error)
	DeleteSub(ctx context.Context, subID uint) error
}

type lookupService struct {
	lookupRepo repository.LookupRepository
	db         *gorm.DB
}

func NewLookupService(lookupRepo repository.LookupRepository, db *gorm.DB) LookupService {
	return &lookupService{lookupRepo: lookupRepo, db: db}
}

func (s *lookupService) Create(ctx context.Context, req dto.LookupCreateDTO) (*dto.LookupDTO, error) {
	lookup := &model.Lookup{
		Name: req.Name,
		Type: req.Type,
		Code: req.Code,
	}
	if err := s.lookupRepo.Create(ctx, lookup); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("lookup with code %q or name %q already exists", req.Code, req.Name)
		}
		return nil, err
	}
	return lookupToDTO(lookup), nil
}

func (s *lookupService) GetByCode(ctx context.Context, code string) (*dto.LookupDTO, error) {
	lookup, err := s.lookupRepo.FindByCodeWithSubs(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("lookup %q not found", code)
	}
	if err != nil {
		return nil, err
	}
	return lookupToDTO(lookup), nil
}

func (s *lookupService) List(ctx context.Context) ([]dto.LookupDTO, error) {
	lookups, err := s.lookupRepo.FindAllWithSubs(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.LookupDTO, 0, len(lookups))
	for i := range lookups {
		result = append(result, *lookupToDTO(&lookups[i]))
	}
	return result, nil
}

func (s *lookupService) Update(ctx context.Context, code string, req dto.LookupUpdateDTO) (*dto.LookupDTO, error) {
	lookup, err := s.lookupRepo.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("lookup %q not found", code)
	}
	if err != nil {
		return nil, err
	}

	lookup.Name = req.Name
	lookup.Type = req.Type
	lookup.Code = req.Code
	if err := s.lookupRepo.Save(ctx, lookup); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("lookup with code %q or name %q already exists", req.Code, req.Name)
		}
		return nil, err
	}
	return lookupToDTO(lookup), nil
}

// Delete soft-deletes a lookup. Lookups still carrying sublookups are
// refused; the caller must delete the children first.
func (s *lookupService) Delete(ctx context.Context, code string) error {
	lookup, err := s.lookupRepo.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("lookup %q not found", code)
	}
	if err != nil {
		return err
	}

	count, err := s.lookupRepo.CountSubs(ctx, lookup.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validation("lookup has sublookups and cannot be deleted", lookup.ID)
	}
	return s.db.WithContext(ctx).Delete(lookup).Error
}

func (s *lookupService) AddSub(ctx context.Context, code string, req dto.SubLookupCreateDTO) (*dto.SubLookupDTO, error) {
	lookup, err := s.lookupRepo.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("lookup %q not found", code)
	}
	if err != nil {
		return nil, err
	}

	sub := &model.SubLookup{LookupID: lookup.ID, Name: req.Name}
	if err := s.lookupRepo.CreateSub(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("sublookup %q already exists under lookup %q", req.Name, code)
		}
		return nil, err
	}
	return subLookupToDTO(sub), nil
}

func (s *lookupService) UpdateSub(ctx context.Context, subID uint, req dto.SubLookupUpdateDTO) (*dto.SubLookupDTO, error) {
	sub, err := s.lookupRepo.FindSubByID(ctx, subID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("sublookup %d not found", subID)
	}
	if err != nil {
		return nil, err
	}

	sub.Name = req.Name
	if err := s.lookupRepo.SaveSub(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("sublookup %q already exists under this lookup", req.Name)
		}
		return nil, err
	}
	return subLookupToDTO(sub), nil
}

func (s *lookupService) DeleteSub(ctx context.Context, subID uint) error {
	sub, err := s.lookupRepo.FindSubByID(ctx, subID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("sublookup %d not found", subID)
	}
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(sub).Error
}

func lookupToDTO(l *model.Lookup) *dto.LookupDTO {
	out := &dto.LookupDTO{
		ID:         l.ID,
		Name:       l.Name,
		Type:       l.Type,
		Code:       l.Code,
		SubLookups: make([]dto.SubLookupDTO, 0, len(l.SubLookups)),
	}
	for i := range l.SubLookups {
		out.SubLookups = append(out.SubLookups, *subLookupToDTO(&l.SubLookups[i]))
	}
	return out
}

func subLookupToDTO(s *model.SubLookup) *dto.SubLookupDTO {
	return &dto.SubLookupDTO{ID: s.ID, LookupID: s.LookupID, Name: s.Name}
}
