package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository создаёт PostgreSQL-реализацию CartRepository.
// Корзины и заказы живут в одной базе, что позволяет очищать корзину
// в транзакции создания заказа.
func NewCartRepository(store *Store) domain.CartRepository {
	return &cartRepository{db: store.DB()}
}

func (r *cartRepository) Items(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT cart_id, album_id, count, unit_price_minor
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY added_at ASC, album_id ASC
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.CartID, &item.AlbumID, &item.Count, &item.UnitPriceMinor); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}

	return items, nil
}

func (r *cartRepository) Add(ctx context.Context, item domain.CartItem) error {
	if item.CartID == "" {
		return domain.ErrSessionRequired
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(opCtx, `
		INSERT INTO cart_items (cart_id, album_id, count, unit_price_minor)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (cart_id, album_id)
		DO UPDATE SET count = cart_items.count + EXCLUDED.count
	`, item.CartID, item.AlbumID, item.Count, item.UnitPriceMinor); err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) Clear(ctx context.Context, cartID string) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(opCtx, `
		DELETE FROM cart_items WHERE cart_id = $1
	`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	return nil
}

var _ domain.CartRepository = (*cartRepository)(nil)
