// Package user содержит логику бизнес-уровня для работы с профилем пользователя.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/ux-assistant/internal/lib/sl"
	"github.com/magabrotheeeer/ux-assistant/internal/models"
)

// profileCacheTTL — срок жизни профиля в кэше.
const profileCacheTTL = 5 * time.Minute

// ErrEmailTaken возвращается, когда новый email уже занят другим пользователем.
var ErrEmailTaken = errors.New("email already registered")

// Repository описывает контракт для работы с пользователями в базе данных.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) error
	DeactivateUser(ctx context.Context, userUID string) error
	EmailTaken(ctx context.Context, email, exceptUID string) (bool, error)
}

// Cache описывает контракт кэша профилей.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service отвечает за чтение и изменение профиля пользователя.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(userUID string) string {
	return fmt.Sprintf("user:profile:%s", userUID)
}

// Profile возвращает профиль пользователя, сперва проверяя кэш.
func (s *Service) Profile(ctx context.Context, userUID string) (*models.User, error) {
	const op = "user.Profile"

	key := cacheKey(userUID)
	var cached models.User
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("op", op), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	u, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(key, u, profileCacheTTL); err != nil {
		s.log.Warn("cache store failed", slog.String("op", op), sl.Err(err))
	}
	return u, nil
}

// UpdateProfile меняет имя и/или email пользователя и сбрасывает кэш.
// Новый email проверяется на уникальность.
func (s *Service) UpdateProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "user.UpdateProfile"

	if upd.Email != nil {
		taken, err := s.repo.EmailTaken(ctx, *upd.Email, userUID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	if err := s.repo.UpdateProfile(ctx, userUID, upd); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(cacheKey(userUID)); err != nil {
		s.log.Warn("cache invalidation failed", slog.String("op", op), sl.Err(err))
	}
	return s.repo.GetUser(ctx, userUID)
}

// Deactivate помечает учётную запись неактивной и сбрасывает кэш.
func (s *Service) Deactivate(ctx context.Context, userUID string) error {
	const op = "user.Deactivate"

	if err := s.repo.DeactivateUser(ctx, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(cacheKey(userUID)); err != nil {
		s.log.Warn("cache invalidation failed", slog.String("op", op), sl.Err(err))
	}
	return nil
}
