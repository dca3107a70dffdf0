package auth

import (
	"context"
	"strings"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type userRepo interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthService struct {
	log        logger.Log
	jwtManager *JWTManager
	userRepo   userRepo
}

func NewAuthService(l logger.Log, manager *JWTManager, users userRepo) *AuthService {
	return &AuthService{
		log:        l,
		jwtManager: manager,
		userRepo:   users,
	}
}

func (s *AuthService) Register(ctx context.Context, user models.User) (*models.User, error) {
	if len(user.Password) < 6 || len(user.Password) > 72 {
		return nil, app_errors.ErrInvalidPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.Password = string(hashed)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = models.FarmerRole
	}
	user.IsActive = true

	return s.userRepo.CreateUser(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, app_errors.ErrIncorrectPassword
	}
	if !user.IsActive {
		return "", nil, app_errors.ErrIncorrectPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, app_errors.ErrIncorrectPassword
	}

	token, err := s.jwtManager.Generate(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.UserByID(ctx, id)
}

func (s *AuthService) AccessClaims(ctx context.Context, token string) (userID uuid.UUID, role string, err error) {
	claims, err := s.jwtManager.AccessClaims(token)
	if err != nil {
		return uuid.Nil, "", err
	}
	return claims.UserID, claims.Role, nil
}
