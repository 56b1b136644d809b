package smtp

import "io"

// Client описывает минимальный набор операций SMTP клиента,
// необходимый сервису отправки писем. Позволяет подменять клиент в тестах.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
