// Package auth содержит логику бизнес-уровня для регистрации и аутентификации.
package auth

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/ux-assistant/internal/lib/jwt"
	"github.com/magabrotheeeer/ux-assistant/internal/lib/password"
	"github.com/magabrotheeeer/ux-assistant/internal/models"
)

// Ошибки уровня сервиса, транслируемые хендлерами в 400/401.
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is deactivated")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// EmailTaken проверяет, занят ли email другим пользователем.
	EmailTaken(ctx context.Context, email, exceptUID string) (bool, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Занятые username или email возвращаются как явные ошибки.
func (s *Service) Register(ctx context.Context, email, username, rawPassword, fullName string) (string, error) {
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return "", ErrUsernameTaken
	}
	taken, err := s.users.EmailTaken(ctx, email, "")
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrEmailTaken
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		FullName:     fullName,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", ErrAccountInactive
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.jwtMaker.GenerateToken(user.Username, user.UID)
}

// ValidateToken проверяет JWT и возвращает username и UID владельца.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.User, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, false, err
	}
	return &models.User{
		Username: claims.Username,
		UID:      claims.UserUID,
	}, true, nil
}
