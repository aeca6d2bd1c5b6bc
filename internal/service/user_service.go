package service

import (
	"context"
	"errors"

	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	Create(ctx context.Context, req dto.UserCreateDTO) (*dto.UserDTO, error)
	GetByID(ctx context.Context, id uint) (*dto.UserDTO, error)
	List(ctx context.Context) ([]dto.UserDTO, error)
	Update(ctx context.Context, id uint, req dto.UserUpdateDTO) (*dto.UserDTO, error)
	Delete(ctx context.Context, id uint) error
}

type userService struct {
	userRepo repository.UserRepository
	db       *gorm.DB
}

func NewUserService(userRepo repository.UserRepository, db *gorm.DB) UserService {
	return &userService{userRepo: userRepo, db: db}
}

func (s *userService) Create(ctx context.Context, req dto.UserCreateDTO) (*dto.UserDTO, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserName:     req.UserName,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     true,
		RoleID:       req.RoleID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("user name %q is already taken", req.UserName)
		}
		return nil, err
	}
	return s.GetByID(ctx, user.ID)
}

func (s *userService) GetByID(ctx context.Context, id uint) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByIDWithRole(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	out := userToDTO(user)
	return &out, nil
}

func (s *userService) List(ctx context.Context) ([]dto.UserDTO, error) {
	users, err := s.userRepo.FindAllWithRoles(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		result = append(result, userToDTO(&users[i]))
	}
	return result, nil
}

func (s *userService) Update(ctx context.Context, id uint, req dto.UserUpdateDTO) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	user.FullName = req.FullName
	user.Email = req.Email
	user.IsActive = req.IsActive
	user.RoleID = req.RoleID
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("user %d not found", id)
	}
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(user).Error
}
