package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/Quokka/config"
	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/middleware"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultRoleName is the role granted to self-registered users. The role row
// is seeded at startup.
const DefaultRoleName = "User"

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	db       *gorm.DB
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config, db *gorm.DB) AuthService {
	return &authService{userRepo: userRepo, cfg: cfg, db: db}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error) {
	var role model.Role
	err := s.db.WithContext(ctx).Where("name = ?", DefaultRoleName).First(&role).Error
	if err != nil {
		return nil, err
	}

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
		RoleID:       role.ID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("user name %q is already taken", req.UserName)
		}
		return nil, err
	}
	user.Role = role
	return s.issueToken(user)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByUserName(ctx, req.UserName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Forbidden("invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("account is deactivated")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperr.Forbidden("invalid credentials")
	}
	return s.issueToken(user)
}

func (s *authService) issueToken(user *model.User) (*dto.TokenResponse, error) {
	now := time.Now()
	claims := middleware.Claims{
		UserID: user.ID,
		Role:   user.Role.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.JWT.ExpiryHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: signed, User: userToDTO(user)}, nil
}
