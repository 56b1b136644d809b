package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v79"

	"github.com/magabrotheeeer/ux-assistant/internal/lib/sl"
	"github.com/magabrotheeeer/ux-assistant/internal/models"
	"github.com/magabrotheeeer/ux-assistant/internal/storage/repository"
)

// ProcessWebhookEvent обрабатывает проверенное событие Stripe.
// Успешная оплата включает премиум владельцу платежа и публикует
// уведомление; неуспешная только помечает платёж failed. Неизвестный
// intent и нерелевантные события игнорируются с записью в лог.
func (s *Service) ProcessWebhookEvent(ctx context.Context, event stripe.Event) error {
	const op = "payment.ProcessWebhookEvent"

	switch event.Type {
	case "payment_intent.succeeded":
		intent, err := parseIntent(event)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := s.repo.MarkPaymentSucceeded(ctx, intent.ID); err != nil {
			if errors.Is(err, repository.ErrPaymentNotFound) {
				s.log.Warn("webhook for unknown intent",
					slog.String("intent_id", intent.ID))
				return nil
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("payment succeeded", slog.String("intent_id", intent.ID))
		s.notifyConfirmed(ctx, intent.ID)
		return nil

	case "payment_intent.payment_failed":
		intent, err := parseIntent(event)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := s.repo.MarkPaymentFailed(ctx, intent.ID); err != nil {
			if errors.Is(err, repository.ErrPaymentNotFound) {
				s.log.Warn("webhook for unknown intent",
					slog.String("intent_id", intent.ID))
				return nil
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("payment failed", slog.String("intent_id", intent.ID))
		return nil

	default:
		s.log.Debug("unhandled webhook event", slog.String("type", string(event.Type)))
		return nil
	}
}

func parseIntent(event stripe.Event) (*stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// notifyConfirmed публикует письмо-подтверждение. Ошибки не фатальны.
func (s *Service) notifyConfirmed(ctx context.Context, intentID string) {
	const op = "payment.notifyConfirmed"

	if s.notifier == nil {
		return
	}
	p, err := s.repo.GetPaymentByIntentID(ctx, intentID)
	if err != nil {
		s.log.Warn("failed to load payment for notification",
			slog.String("op", op), sl.Err(err))
		return
	}
	u, err := s.repo.GetUser(ctx, p.UserUID)
	if err != nil {
		s.log.Warn("failed to load user for notification",
			slog.String("op", op), sl.Err(err))
		return
	}
	msg := models.PaymentConfirmation{
		Email:            u.Email,
		Username:         u.Username,
		AmountCents:      p.AmountCents,
		Currency:         p.Currency,
		SubscriptionType: p.SubscriptionType,
	}
	if err := s.notifier.PublishPaymentConfirmed(msg); err != nil {
		s.log.Warn("failed to publish payment confirmation",
			slog.String("op", op), sl.Err(err))
	}
}
