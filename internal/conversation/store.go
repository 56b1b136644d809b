// Package conversation хранит историю диалогов в памяти процесса.
//
// Хранилище процесс-локальное: после перезапуска диалоги начинаются
// заново, долговременный снимок ведёт сервис чата в Postgres.
package conversation

import "github.com/magabrotheeeer/ux-assistant/internal/models"

// MaxMessages — предел хранимой истории одного диалога.
// При превышении самые старые сообщения отбрасываются.
const MaxMessages = 20

// Store — абстракция над хранилищем диалогов.
type Store interface {
	// GetOrCreate возвращает диалог по идентификатору. Неположительный
	// или неизвестный идентификатор создаёт новый диалог со следующим
	// по порядку номером, начиная с 1.
	GetOrCreate(id int) (int, []models.Message)

	// Append добавляет сообщение в диалог с текущей меткой времени.
	Append(id int, role, content string)

	// History возвращает копию сообщений диалога, от старых к новым.
	History(id int) []models.Message

	// Clear удаляет диалог. Неизвестный идентификатор — no-op.
	Clear(id int)

	// Exists сообщает, известен ли диалог.
	Exists(id int) bool
}
