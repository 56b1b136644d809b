// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и признаки активности
// и премиум-доступа. Структуры используются в бизнес‑логике и при
// работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID            string    // Уникальный идентификатор пользователя
	Email          string    // Электронная почта
	Username       string    // Имя пользователя (уникальное)
	PasswordHash   string    // Хэш пароля пользователя
	FullName       string    // Полное имя (опционально)
	IsActive       bool      // Активна ли учётная запись, false = мягкое удаление
	IsPremium      bool      // Выставляется только подтверждённым платежом
	SubscriptionID *string   // Идентификатор подписки у платёжного провайдера
	CreatedAt      time.Time // Дата регистрации
}

// ProfileUpdate описывает изменяемые поля профиля.
// Nil означает «поле не менять».
type ProfileUpdate struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}
