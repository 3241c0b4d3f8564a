package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Create вставляет заказ с позициями и удаляет строки корзины в одной
// транзакции: либо заказ создан и корзина пуста, либо ни то ни другое.
func (r *orderRepository) Create(ctx context.Context, order domain.Order, cartID string) (int64, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var id int64
	err = tx.QueryRowContext(opCtx, `
		INSERT INTO orders (
			username, order_date, total_minor,
			name, address, city, state, postal_code, country, phone, email
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`,
		order.Username, order.OrderDate, order.TotalMinor,
		order.Name, order.Address, order.City, order.State,
		order.PostalCode, order.Country, order.Phone, order.Email,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	for i, line := range order.Lines {
		if _, err = tx.ExecContext(opCtx, `
			INSERT INTO order_lines (
				order_id, line_no, album_id, quantity, unit_price_minor
			) VALUES ($1,$2,$3,$4,$5)
		`,
			id, i+1, line.AlbumID, line.Quantity, line.UnitPriceMinor,
		); err != nil {
			return 0, fmt.Errorf("insert order line: %w", err)
		}
	}

	if cartID != "" {
		if _, err = tx.ExecContext(opCtx, `
			DELETE FROM cart_items WHERE cart_id = $1
		`, cartID); err != nil {
			return 0, fmt.Errorf("clear cart on checkout: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create order: %w", err)
	}

	return id, nil
}

func (r *orderRepository) Get(ctx context.Context, id int64) (domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var order domain.Order
	err := r.db.QueryRowContext(opCtx, `
		SELECT id, username, order_date, total_minor,
		       name, address, city, state, postal_code, country, phone, email
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.Username, &order.OrderDate, &order.TotalMinor,
		&order.Name, &order.Address, &order.City, &order.State,
		&order.PostalCode, &order.Country, &order.Phone, &order.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	lines, err := r.loadLines(opCtx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Lines = lines

	return order, nil
}

func (r *orderRepository) ListByOwner(ctx context.Context, username string, limit int) ([]domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := `
		SELECT id, username, order_date, total_minor,
		       name, address, city, state, postal_code, country, phone, email
		FROM orders
		WHERE username = $1
		ORDER BY order_date DESC, id DESC
	`

	var (
		rows *sql.Rows
		err  error
	)

	if limit > 0 {
		rows, err = r.db.QueryContext(opCtx, query+" LIMIT $2", username, limit)
	} else {
		rows, err = r.db.QueryContext(opCtx, query, username)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.Username, &order.OrderDate, &order.TotalMinor,
			&order.Name, &order.Address, &order.City, &order.State,
			&order.PostalCode, &order.Country, &order.Phone, &order.Email,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		lines, err := r.loadLines(opCtx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Lines = lines
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) loadLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT album_id, quantity, unit_price_minor
		FROM order_lines
		WHERE order_id = $1
		ORDER BY line_no ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.OrderLine, 0)
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.AlbumID, &line.Quantity, &line.UnitPriceMinor); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}

	return lines, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
