package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/ux-assistant/internal/lib/jwt"
	"github.com/magabrotheeeer/ux-assistant/internal/lib/password"
	"github.com/magabrotheeeer/ux-assistant/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UsersMock) EmailTaken(ctx context.Context, email, exceptUID string) (bool, error) {
	args := m.Called(ctx, email, exceptUID)
	return args.Bool(0), args.Error(1)
}

func newMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret", time.Hour)
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m *UsersMock)
		wantErr   error
	}{
		{
			name: "Успех",
			setupMock: func(m *UsersMock) {
				m.On("GetUserByUsername", mock.Anything, "alice").
					Return(nil, errors.New("not found"))
				m.On("EmailTaken", mock.Anything, "alice@example.com", "").
					Return(false, nil)
				m.On("RegisterUser", mock.Anything, mock.Anything).
					Return("uid-1", nil)
			},
		},
		{
			name: "Ошибка - username занят",
			setupMock: func(m *UsersMock) {
				m.On("GetUserByUsername", mock.Anything, "alice").
					Return(&models.User{Username: "alice"}, nil)
			},
			wantErr: ErrUsernameTaken,
		},
		{
			name: "Ошибка - email занят",
			setupMock: func(m *UsersMock) {
				m.On("GetUserByUsername", mock.Anything, "alice").
					Return(nil, errors.New("not found"))
				m.On("EmailTaken", mock.Anything, "alice@example.com", "").
					Return(true, nil)
			},
			wantErr: ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UsersMock)
			tt.setupMock(repo)
			svc := New(repo, newMaker())

			uid, err := svc.Register(context.Background(),
				"alice@example.com", "alice", "password123", "Alice")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "uid-1", uid)
				repo.AssertCalled(t, "RegisterUser", mock.Anything,
					mock.MatchedBy(func(u models.User) bool {
						return u.Username == "alice" && u.PasswordHash != "password123"
					}))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("correct-password")
	require.NoError(t, err)

	tests := []struct {
		name        string
		rawPassword string
		user        *models.User
		userErr     error
		wantErr     error
	}{
		{
			name:        "Успех",
			rawPassword: "correct-password",
			user:        &models.User{UID: "uid-1", Username: "alice", PasswordHash: hash, IsActive: true},
		},
		{
			name:        "Ошибка - неверный пароль",
			rawPassword: "wrong-password",
			user:        &models.User{UID: "uid-1", Username: "alice", PasswordHash: hash, IsActive: true},
			wantErr:     ErrInvalidCredentials,
		},
		{
			name:        "Ошибка - пользователь не найден",
			rawPassword: "correct-password",
			userErr:     errors.New("not found"),
			wantErr:     ErrInvalidCredentials,
		},
		{
			name:        "Ошибка - учётная запись деактивирована",
			rawPassword: "correct-password",
			user:        &models.User{UID: "uid-1", Username: "alice", PasswordHash: hash, IsActive: false},
			wantErr:     ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UsersMock)
			repo.On("GetUserByUsername", mock.Anything, "alice").
				Return(tt.user, tt.userErr)
			svc := New(repo, newMaker())

			token, err := svc.Login(context.Background(), "alice", tt.rawPassword)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			user, valid, err := svc.ValidateToken(context.Background(), token)
			require.NoError(t, err)
			assert.True(t, valid)
			assert.Equal(t, "alice", user.Username)
			assert.Equal(t, "uid-1", user.UID)
		})
	}
}

func TestService_ValidateToken_Invalid(t *testing.T) {
	svc := New(new(UsersMock), newMaker())

	_, valid, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.Error(t, err)
	assert.False(t, valid)
}
