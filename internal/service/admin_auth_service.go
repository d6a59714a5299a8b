package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/MohFa13/Heights-Auto-Clinic-Full/internal/errors"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/repository"
)

type AdminAuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	CreateAdmin(ctx context.Context, username, password string) error
}

type adminAuthService struct {
	repo   repository.UserRepository
	secret string
}

func NewAdminAuthService(repo repository.UserRepository, secret string) AdminAuthService {
	return &adminAuthService{repo: repo, secret: secret}
}

func (s *adminAuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperrors.Unauthorized("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.Unauthorized("Invalid credentials")
	}

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *adminAuthService) CreateAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return apperrors.BadRequest("Username and password are required")
	}
	return s.repo.CreateUser(ctx, username, password)
}
