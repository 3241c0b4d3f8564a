package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository.
// Идентификаторы выдаются монотонной последовательностью, как в БД.
type orderRepositoryInMemory struct {
	mu     sync.RWMutex
	nextID int64
	orders map[int64]domain.Order
	carts  domain.CartRepository
}

// NewOrderRepository возвращает in-memory репозиторий заказов. Переданное
// хранилище корзин очищается при создании заказа — эквивалент общей
// транзакции постоянного хранилища; carts может быть nil.
func NewOrderRepository(carts domain.CartRepository) domain.OrderRepository {
	return &orderRepositoryInMemory{
		nextID: 1,
		orders: make(map[int64]domain.Order),
		carts:  carts,
	}
}

// Create сохраняет заказ, присваивает идентификатор и очищает корзину.
func (r *orderRepositoryInMemory) Create(ctx context.Context, order domain.Order, cartID string) (int64, error) {
	r.mu.Lock()
	order.ID = r.nextID
	r.nextID++
	// Сохраняем копию строк, чтобы избежать мутаций извне.
	lines := make([]domain.OrderLine, len(order.Lines))
	copy(lines, order.Lines)
	order.Lines = lines
	r.orders[order.ID] = order
	r.mu.Unlock()

	if r.carts != nil && cartID != "" {
		if err := r.carts.Clear(ctx, cartID); err != nil {
			return 0, err
		}
	}

	return order.ID, nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(_ context.Context, id int64) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListByOwner возвращает заказы пользователя, свежие первыми.
func (r *orderRepositoryInMemory) ListByOwner(_ context.Context, username string, limit int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if order.Username != username {
			continue
		}
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].OrderDate.Equal(result[j].OrderDate) {
			return result[i].OrderDate.After(result[j].OrderDate)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
