package checkout

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// CartResolver отображает идентификатор сессии на строки корзины.
type CartResolver struct {
	carts domain.CartRepository
}

// NewCartResolver создаёт resolver поверх сессионного хранилища корзин.
func NewCartResolver(carts domain.CartRepository) *CartResolver {
	return &CartResolver{carts: carts}
}

// Resolve возвращает строки корзины сессии в порядке добавления.
// Пустая или неизвестная корзина — валидное состояние: пустой срез без ошибки,
// отказ происходит выше, в оркестраторе. Побочных эффектов нет.
func (r *CartResolver) Resolve(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionRequired
	}

	items, err := r.carts.Items(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resolve cart for session %s: %w", sessionID, err)
	}
	return items, nil
}
