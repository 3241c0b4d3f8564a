package domain

import (
	"context"
	"time"
)

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ и присваивает ему идентификатор.
	// Строки корзины cartID удаляются в той же логической транзакции:
	// при ошибке сохранения корзина остаётся нетронутой.
	Create(ctx context.Context, order Order, cartID string) (int64, error)
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(ctx context.Context, id int64) (Order, error)
	// ListByOwner возвращает заказы пользователя, свежие первыми,
	// с опциональным ограничением на количество.
	ListByOwner(ctx context.Context, username string, limit int) ([]Order, error)
}

// CartRepository описывает сессионное хранилище строк корзины.
type CartRepository interface {
	// Items возвращает строки корзины в порядке добавления.
	// Пустая или неизвестная корзина — пустой срез, не ошибка.
	Items(ctx context.Context, cartID string) ([]CartItem, error)
	// Add добавляет строку либо увеличивает количество существующей
	// строки с тем же (CartID, AlbumID).
	Add(ctx context.Context, item CartItem) error
	// Clear удаляет все строки корзины.
	Clear(ctx context.Context, cartID string) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
