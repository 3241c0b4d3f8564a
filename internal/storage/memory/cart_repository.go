package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// cartRepositoryInMemory — простая in-memory реализация CartRepository.
// Строки хранятся в порядке добавления.
type cartRepositoryInMemory struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartItem
}

// NewCartRepository возвращает in-memory хранилище корзин для локальной
// разработки и тестов.
func NewCartRepository() domain.CartRepository {
	return &cartRepositoryInMemory{
		carts: make(map[string][]domain.CartItem),
	}
}

// Items возвращает копию строк корзины; неизвестная корзина — пустой срез.
func (r *cartRepositoryInMemory) Items(_ context.Context, cartID string) ([]domain.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.carts[cartID]
	items := make([]domain.CartItem, len(stored))
	copy(items, stored)
	return items, nil
}

// Add добавляет строку либо увеличивает количество существующей.
func (r *cartRepositoryInMemory) Add(_ context.Context, item domain.CartItem) error {
	if item.CartID == "" {
		return domain.ErrSessionRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.carts[item.CartID]
	for i := range stored {
		if stored[i].AlbumID == item.AlbumID {
			stored[i].Count += item.Count
			return nil
		}
	}
	r.carts[item.CartID] = append(stored, item)
	return nil
}

// Clear удаляет все строки корзины.
func (r *cartRepositoryInMemory) Clear(_ context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, cartID)
	return nil
}

var _ domain.CartRepository = (*cartRepositoryInMemory)(nil)
