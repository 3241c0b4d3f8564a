package kafka

import "time"

// EventType определяет тип события.
type EventType string

const (
	// EventTypeOrderCompleted — заказ создан и оформление завершено.
	EventTypeOrderCompleted EventType = "order.completed"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "checkout.order.events"
	TopicDeadLetterQueue = "checkout.dlq"
)

// OrderEvent представляет событие заказа для внешних потребителей.
type OrderEvent struct {
	EventType  EventType      `json:"event_type"`
	OrderID    int64          `json:"order_id"`
	Username   string         `json:"username"`
	TotalMinor int64          `json:"total_minor"`
	Timestamp  time.Time      `json:"timestamp"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewOrderEvent создаёт новое событие заказа.
func NewOrderEvent(eventType EventType, orderID int64, username string, totalMinor int64, metadata map[string]any) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		Username:   username,
		TotalMinor: totalMinor,
		Timestamp:  time.Now().UTC(),
		Metadata:   metadata,
	}
}
