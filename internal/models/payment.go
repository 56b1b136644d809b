// Package models содержит доменные структуры платежей.
package models

import "time"

// Статусы платежа. Платёж создаётся в pending и ровно один раз
// переводится вебхуком в succeeded или failed.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// Payment представляет одну попытку платежа через внешнего провайдера.
type Payment struct {
	ID               int       `json:"id"`
	UserUID          string    `json:"user_uid"`
	ProviderIntentID string    `json:"provider_intent_id"` // Уникальный ID платёжного интента у провайдера
	AmountCents      int64     `json:"amount_cents"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	SubscriptionType string    `json:"subscription_type"`
	CreatedAt        time.Time `json:"created_at"`
}

// PaymentConfirmation — сообщение для очереди уведомлений,
// публикуется после успешного подтверждения платежа.
type PaymentConfirmation struct {
	Email            string `json:"email"`
	Username         string `json:"username"`
	AmountCents      int64  `json:"amount_cents"`
	Currency         string `json:"currency"`
	SubscriptionType string `json:"subscription_type"`
}
