package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/ux-assistant/internal/models"
)

// ErrPaymentNotFound возвращается, когда intent неизвестен хранилищу.
var ErrPaymentNotFound = errors.New("payment not found")

// CreatePayment сохраняет платёж в статусе pending и возвращает его ID.
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment) (int64, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `INSERT INTO payments (user_uid, provider_intent_id, amount_cents,
			      currency, status, subscription_type)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		p.UserUID, p.ProviderIntentID, p.AmountCents, p.Currency,
		p.Status, p.SubscriptionType).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetPaymentByIntentID возвращает платёж по идентификатору intent у провайдера.
func (s *Storage) GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	const op = "storage.GetPaymentByIntentID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, provider_intent_id, amount_cents, currency,
			      status, subscription_type, created_at
			  FROM payments
			  WHERE provider_intent_id = $1`
	p := &models.Payment{}
	err := s.DB.QueryRowContext(ctx, query, intentID).Scan(&p.ID, &p.UserUID,
		&p.ProviderIntentID, &p.AmountCents, &p.Currency, &p.Status,
		&p.SubscriptionType, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrPaymentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// MarkPaymentSucceeded в одной транзакции переводит платёж в succeeded
// и включает премиум-статус владельцу, привязывая intent как подписку.
// Платёж, уже покинувший статус pending, не изменяется.
func (s *Storage) MarkPaymentSucceeded(ctx context.Context, intentID string) error {
	const op = "storage.MarkPaymentSucceeded"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var userUID string
	query := `UPDATE payments
			  SET status = $1
			  WHERE provider_intent_id = $2 AND status = $3
			  RETURNING user_uid`
	err = tx.QueryRowContext(ctx, query,
		models.PaymentStatusSucceeded, intentID, models.PaymentStatusPending).Scan(&userUID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrPaymentNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query = `UPDATE users
			  SET is_premium = TRUE,
			      subscription_id = $1
			  WHERE uid = $2`
	if _, err = tx.ExecContext(ctx, query, intentID, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkPaymentFailed переводит платёж в failed, премиум-статус не трогает.
func (s *Storage) MarkPaymentFailed(ctx context.Context, intentID string) error {
	const op = "storage.MarkPaymentFailed"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET status = $1
			  WHERE provider_intent_id = $2 AND status = $3`
	res, err := s.DB.ExecContext(ctx, query,
		models.PaymentStatusFailed, intentID, models.PaymentStatusPending)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrPaymentNotFound)
	}
	return nil
}

// ListPayments возвращает платежи пользователя от новых к старым.
func (s *Storage) ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, provider_intent_id, amount_cents, currency,
			      status, subscription_type, created_at
			  FROM payments
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err = rows.Scan(&p.ID, &p.UserUID, &p.ProviderIntentID, &p.AmountCents,
			&p.Currency, &p.Status, &p.SubscriptionType, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
