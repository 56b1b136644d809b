// Package payment содержит логику бизнес-уровня для оплаты подписок через Stripe.
package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"

	"github.com/magabrotheeeer/ux-assistant/internal/models"
)

// Repository описывает контракт хранилища платежей и пользователей.
type Repository interface {
	CreatePayment(ctx context.Context, p models.Payment) (int64, error)
	GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error)
	MarkPaymentSucceeded(ctx context.Context, intentID string) error
	MarkPaymentFailed(ctx context.Context, intentID string) error
	ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// IntentClient абстрагирует создание PaymentIntent у провайдера.
type IntentClient interface {
	NewIntent(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeIntentClient — реализация IntentClient поверх stripe-go.
type StripeIntentClient struct{}

// NewIntent создаёт PaymentIntent через API Stripe.
func (StripeIntentClient) NewIntent(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return paymentintent.New(params)
}

// Notifier публикует уведомление об успешной оплате.
type Notifier interface {
	PublishPaymentConfirmed(msg models.PaymentConfirmation) error
}

// Plan описывает тарифный план подписки.
type Plan struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Interval    string `json:"interval"`
}

// Тарифы фиксированы: basic $29.99 и premium $99.99 в месяц.
var plans = []Plan{
	{Type: "basic", Name: "Basic", AmountCents: 2999, Currency: "usd", Interval: "month"},
	{Type: "premium", Name: "Premium", AmountCents: 9999, Currency: "usd", Interval: "month"},
}

// Service отвечает за создание платежей и обработку вебхуков Stripe.
type Service struct {
	repo     Repository
	intents  IntentClient
	notifier Notifier
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, intents IntentClient, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		intents:  intents,
		notifier: notifier,
		log:      log,
	}
}

// Pricing возвращает список тарифных планов.
func (s *Service) Pricing() []Plan {
	return plans
}

// CreateIntent создаёт PaymentIntent у Stripe и сохраняет платёж
// в статусе pending. Возвращает client secret и идентификатор intent.
func (s *Service) CreateIntent(ctx context.Context, userUID string, amountCents int64, currency, subscriptionType string) (clientSecret, intentID string, err error) {
	const op = "payment.CreateIntent"

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		Metadata: map[string]string{
			"user_uid":          userUID,
			"subscription_type": subscriptionType,
		},
	}
	params.SetIdempotencyKey(uuid.NewString())

	intent, err := s.intents.NewIntent(params)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.repo.CreatePayment(ctx, models.Payment{
		UserUID:          userUID,
		ProviderIntentID: intent.ID,
		AmountCents:      amountCents,
		Currency:         currency,
		Status:           models.PaymentStatusPending,
		SubscriptionType: subscriptionType,
	})
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("payment intent created",
		slog.String("intent_id", intent.ID),
		slog.String("user_uid", userUID),
		slog.Int64("amount_cents", amountCents))
	return intent.ClientSecret, intent.ID, nil
}

// ListPayments возвращает платежи пользователя.
func (s *Service) ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx, userUID)
}
