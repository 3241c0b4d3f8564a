package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
)

func TestNewDependenciesDefaultsToMemory(t *testing.T) {
	deps, err := NewDependencies(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)
	defer deps.Close()

	require.NotNil(t, deps.Orders)
	require.NotNil(t, deps.Carts)
	require.NotNil(t, deps.Outbox)
	require.Nil(t, deps.PostgresStore())
	require.False(t, deps.HasRedis())
}

func TestMemoryDependenciesClearCartOnOrderCreate(t *testing.T) {
	ctx := context.Background()
	deps, err := NewDependencies(ctx, DefaultConfig(), nil)
	require.NoError(t, err)
	defer deps.Close()

	require.NoError(t, deps.Carts.Add(ctx, domain.CartItem{CartID: "s1", AlbumID: 1, Count: 1, UnitPriceMinor: 100}))

	order := domain.Order{
		Username:   "u1",
		TotalMinor: 100,
		Lines:      []domain.OrderLine{{AlbumID: 1, Quantity: 1, UnitPriceMinor: 100}},
	}
	_, err = deps.Orders.Create(ctx, order, "s1")
	require.NoError(t, err)

	items, err := deps.Carts.Items(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, items)
}

// failingClearCarts имитирует внешнее хранилище корзин с недоступным Clear.
type failingClearCarts struct {
	domain.CartRepository
}

func (c *failingClearCarts) Clear(context.Context, string) error {
	return errors.New("clear failed")
}

func TestCartClearingDecoratorKeepsOrderOnClearFailure(t *testing.T) {
	ctx := context.Background()
	orders := memory.NewOrderRepository(nil)
	carts := &failingClearCarts{CartRepository: memory.NewCartRepository()}

	decorated := newCartClearingOrderRepository(orders, carts, nil)

	id, err := decorated.Create(ctx, domain.Order{
		Username:   "u1",
		TotalMinor: 100,
		Lines:      []domain.OrderLine{{AlbumID: 1, Quantity: 1, UnitPriceMinor: 100}},
	}, "s1")
	require.NoError(t, err, "order must survive a failed post-commit cart clear")
	require.Equal(t, int64(1), id)

	stored, err := decorated.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "u1", stored.Username)
}

func TestCartClearingDecoratorClearsCart(t *testing.T) {
	ctx := context.Background()
	orders := memory.NewOrderRepository(nil)
	carts := memory.NewCartRepository()
	require.NoError(t, carts.Add(ctx, domain.CartItem{CartID: "s1", AlbumID: 1, Count: 1, UnitPriceMinor: 100}))

	decorated := newCartClearingOrderRepository(orders, carts, nil)

	_, err := decorated.Create(ctx, domain.Order{
		Username:   "u1",
		TotalMinor: 100,
		Lines:      []domain.OrderLine{{AlbumID: 1, Quantity: 1, UnitPriceMinor: 100}},
	}, "s1")
	require.NoError(t, err)

	items, err := carts.Items(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, items)
}
