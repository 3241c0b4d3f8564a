package domain

import "errors"

var (
	// Ошибка отсутствующего владельца заказа.
	ErrOwnerRequired = errors.New("order owner is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrLinesRequired = errors.New("order must contain at least one line")
	// Ошибка отрицательной итоговой суммы заказа.
	ErrTotalNegative = errors.New("total_minor must be non-negative")
	// Ошибка при некорректном количестве в позиции (<= 0).
	ErrLineQtyInvalid = errors.New("line quantity must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrLinePriceInvalid = errors.New("line price must be non-negative")
	// Ошибка, если итог заказа превышает сумму позиций.
	ErrTotalExceedsLines = errors.New("order total exceeds lines sum")

	// ErrOrderNotFound возвращается, если заказ не найден или принадлежит
	// другому пользователю: снаружи эти случаи неразличимы намеренно.
	ErrOrderNotFound = errors.New("order not found")

	// ErrSessionRequired — пустой идентификатор сессии при обращении к корзине.
	ErrSessionRequired = errors.New("session id is required")
	// ErrIdentityRequired — операция требует аутентифицированного пользователя.
	ErrIdentityRequired = errors.New("authenticated identity is required")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)
