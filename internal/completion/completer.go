// Package completion содержит клиенты внешних сервисов генерации текста.
//
// Любой сбой — транспортная ошибка, не-2xx ответ или пустой результат —
// возвращается вызывающему как явная ошибка; содержимое успешного ответа
// никак не анализируется. Повторных попыток нет.
package completion

import (
	"context"
	"errors"
)

// Фиксированные параметры генерации для всех клиентов.
const (
	Temperature     = 0.7
	MaxOutputTokens = 1000
)

// ErrEmptyCompletion возвращается, когда сервис ответил успешно,
// но не сгенерировал ни одного токена.
var ErrEmptyCompletion = errors.New("completion service returned empty response")

// Completer описывает клиент сервиса генерации ответов.
type Completer interface {
	// Complete отправляет составленный промпт и возвращает сырой текст ответа.
	Complete(ctx context.Context, prompt string) (string, error)
}
