package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/ux-assistant/internal/migrations"
	"github.com/magabrotheeeer/ux-assistant/internal/models"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func setupStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db, migrationsPath))

	cleanup := func() {
		_ = db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return &Storage{DB: db}, cleanup
}

func registerTestUser(t *testing.T, s *Storage, username string) string {
	uid, err := s.RegisterUser(context.Background(), models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hash",
		FullName:     "Test User",
	})
	require.NoError(t, err)
	return uid
}

func TestStorage_Users(t *testing.T) {
	s, cleanup := setupStorage(t)
	defer cleanup()
	ctx := context.Background()

	uid := registerTestUser(t, s, "alice")

	u, err := s.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsPremium)
	assert.Nil(t, u.SubscriptionID)

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uid, byName.UID)

	// Дубликат username отвергается на уровне базы.
	_, err = s.RegisterUser(ctx, models.User{
		Email: "other@example.com", Username: "alice", PasswordHash: "hash",
	})
	assert.Error(t, err)

	newName := "Alice Updated"
	require.NoError(t, s.UpdateProfile(ctx, uid, models.ProfileUpdate{FullName: &newName}))
	u, err = s.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, newName, u.FullName)
	assert.Equal(t, "alice@example.com", u.Email, "email без изменения остаётся прежним")

	taken, err := s.EmailTaken(ctx, "alice@example.com", uid)
	require.NoError(t, err)
	assert.False(t, taken, "собственный email не считается занятым")

	require.NoError(t, s.DeactivateUser(ctx, uid))
	u, err = s.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.False(t, u.IsActive)
}

func TestStorage_PaymentLifecycle(t *testing.T) {
	s, cleanup := setupStorage(t)
	defer cleanup()
	ctx := context.Background()

	uid := registerTestUser(t, s, "bob")

	_, err := s.CreatePayment(ctx, models.Payment{
		UserUID:          uid,
		ProviderIntentID: "pi_test_123",
		AmountCents:      9999,
		Currency:         "usd",
		Status:           models.PaymentStatusPending,
		SubscriptionType: "premium",
	})
	require.NoError(t, err)

	require.NoError(t, s.MarkPaymentSucceeded(ctx, "pi_test_123"))

	p, err := s.GetPaymentByIntentID(ctx, "pi_test_123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSucceeded, p.Status)

	u, err := s.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.True(t, u.IsPremium, "успешный платёж включает премиум")
	require.NotNil(t, u.SubscriptionID)
	assert.Equal(t, "pi_test_123", *u.SubscriptionID)

	// Платёж, покинувший pending, неизменяем.
	err = s.MarkPaymentFailed(ctx, "pi_test_123")
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	err = s.MarkPaymentSucceeded(ctx, "pi_unknown")
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	list, err := s.ListPayments(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStorage_ConversationSnapshot(t *testing.T) {
	s, cleanup := setupStorage(t)
	defer cleanup()
	ctx := context.Background()

	conv := models.Conversation{
		ID:        1,
		Username:  "carol",
		AgentType: "workflow",
		Title:     "How do I run a usability test?",
		Messages: []models.Message{
			{Role: models.RoleUser, Content: "How do I run a usability test?", Timestamp: time.Now().UTC()},
			{Role: models.RoleAssistant, Content: "Start with a test plan.", Timestamp: time.Now().UTC()},
		},
	}
	require.NoError(t, s.SnapshotConversation(ctx, conv))

	// Повторный снимок того же диалога перезаписывает запись.
	conv.Messages = append(conv.Messages, models.Message{
		Role: models.RoleUser, Content: "Thanks!", Timestamp: time.Now().UTC(),
	})
	require.NoError(t, s.SnapshotConversation(ctx, conv))

	var count int
	require.NoError(t, s.DB.QueryRow(
		`SELECT COUNT(*) FROM conversations WHERE conversation_id = 1`).Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, s.DeleteConversationSnapshot(ctx, 1))
	require.NoError(t, s.DB.QueryRow(
		`SELECT COUNT(*) FROM conversations`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestStorage_ListConversations(t *testing.T) {
	s, cleanup := setupStorage(t)
	defer cleanup()
	ctx := context.Background()

	first := models.Conversation{
		ID:        1,
		Username:  "carol",
		AgentType: "triage",
		Title:     "first question",
		Messages: []models.Message{
			{Role: models.RoleUser, Content: "first question", Timestamp: time.Now().UTC()},
		},
	}
	require.NoError(t, s.SnapshotConversation(ctx, first))
	require.NoError(t, s.SnapshotConversation(ctx, models.Conversation{
		ID:        2,
		Username:  "dave",
		AgentType: "workflow",
		Title:     "someone else's dialog",
		Messages:  []models.Message{},
	}))
	// Более поздний снимок того же пользователя поднимается в начало списка.
	require.NoError(t, s.SnapshotConversation(ctx, models.Conversation{
		ID:        3,
		Username:  "carol",
		AgentType: "workflow",
		Title:     "second question",
		Messages: []models.Message{
			{Role: models.RoleUser, Content: "second question", Timestamp: time.Now().UTC()},
		},
	}))

	list, err := s.ListConversations(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 3, list[0].ID)
	assert.Equal(t, "second question", list[0].Title)
	assert.Equal(t, 1, list[1].ID)
	require.Len(t, list[1].Messages, 1)
	assert.Equal(t, "first question", list[1].Messages[0].Content)

	empty, err := s.ListConversations(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
