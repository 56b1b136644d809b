package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации внутри exchange "notifications".
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// PaymentConfirmedQueue — очередь уведомлений об успешных платежах.
const PaymentConfirmedQueue = "payments.confirmed"

// GetNotificationQueues возвращает список очередей уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: PaymentConfirmedQueue, RoutingKey: "payment_confirmed"},
	}
}
