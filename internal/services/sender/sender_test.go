package sender

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/ux-assistant/internal/lib/smtp"
	"github.com/magabrotheeeer/ux-assistant/internal/models"
)

type MockTransport struct{ mock.Mock }

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	return m.Called().String(0)
}

type MockSMTPClient struct{ mock.Mock }

func (m *MockSMTPClient) Mail(from string) error { return m.Called(from).Error(0) }
func (m *MockSMTPClient) Rcpt(to string) error   { return m.Called(to).Error(0) }
func (m *MockSMTPClient) Quit() error            { return m.Called().Error(0) }
func (m *MockSMTPClient) Close() error           { return m.Called().Error(0) }

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

type MockSMTPWriter struct{ mock.Mock }

func (m *MockSMTPWriter) Write(p []byte) (int, error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error { return m.Called().Error(0) }

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func confirmationBody(t *testing.T) []byte {
	body, err := json.Marshal(models.PaymentConfirmation{
		Email:            "test@example.com",
		Username:         "testuser",
		AmountCents:      9999,
		Currency:         "usd",
		SubscriptionType: "premium",
	})
	require.NoError(t, err)
	return body
}

func TestService_SendPaymentConfirmation(t *testing.T) {
	t.Run("Успех - письмо отправлено", func(t *testing.T) {
		transport := new(MockTransport)
		client := new(MockSMTPClient)
		writer := new(MockSMTPWriter)

		transport.On("GetSMTPUser").Return("sender@example.com")
		transport.On("Connect").Return(client, nil).Once()
		client.On("Mail", "sender@example.com").Return(nil).Once()
		client.On("Rcpt", "test@example.com").Return(nil).Once()
		client.On("Data").Return(writer, nil).Once()
		writer.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
		writer.On("Close").Return(nil).Once()
		client.On("Quit").Return(nil).Once()
		client.On("Close").Return(nil).Once()

		svc := New(transport, newNoopLogger())
		err := svc.SendPaymentConfirmation(confirmationBody(t))
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("Ошибка - битый JSON", func(t *testing.T) {
		transport := new(MockTransport)

		svc := New(transport, newNoopLogger())
		err := svc.SendPaymentConfirmation([]byte("{not json"))
		assert.Error(t, err)
		transport.AssertNotCalled(t, "Connect")
	})

	t.Run("Ошибка - SMTP недоступен", func(t *testing.T) {
		transport := new(MockTransport)
		transport.On("GetSMTPUser").Return("sender@example.com")
		transport.On("Connect").Return(nil, errors.New("connection refused")).Once()

		svc := New(transport, newNoopLogger())
		err := svc.SendPaymentConfirmation(confirmationBody(t))
		assert.Error(t, err)
	})
}
