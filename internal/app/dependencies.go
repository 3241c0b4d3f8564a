package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
	"github.com/vladislavdragonenkov/checkout/internal/storage/postgres"
	"github.com/vladislavdragonenkov/checkout/internal/storage/redis"
)

// Dependencies содержит хранилища и подключения приложения.
type Dependencies struct {
	Orders domain.OrderRepository
	Carts  domain.CartRepository
	Outbox domain.OutboxRepository
	Logger *log.Entry

	pgStore     *postgres.Store
	redisClient *goredis.Client
}

// NewDependencies собирает хранилища по конфигурации: PostgreSQL при
// заданном DSN, иначе in-memory; корзины уходят в Redis при заданном адресе.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	if cfg.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		deps.redisClient = client
		deps.Carts = redis.NewCartRepository(client)
		logger.WithField("addr", cfg.RedisAddr).Info("redis cart store initialized")
	}

	if cfg.PostgresDSN != "" {
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			deps.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		deps.pgStore = store
		deps.Orders = postgres.NewOrderRepository(store)
		deps.Outbox = postgres.NewOutboxRepository(store)
		if deps.Carts == nil {
			deps.Carts = postgres.NewCartRepository(store)
		} else {
			// Корзина живёт в Redis: транзакция заказа её не видит,
			// очистка выполняется после фиксации.
			deps.Orders = newCartClearingOrderRepository(deps.Orders, deps.Carts, logger)
		}
		logger.Info("postgres storage initialized")
		return deps, nil
	}

	if deps.Carts == nil {
		deps.Carts = memory.NewCartRepository()
	}
	deps.Orders = memory.NewOrderRepository(deps.Carts)
	deps.Outbox = memory.NewOutboxRepository()
	logger.Info("in-memory storage initialized")
	return deps, nil
}

// PostgresStore возвращает открытое PostgreSQL-подключение, если оно есть.
func (d *Dependencies) PostgresStore() *postgres.Store {
	return d.pgStore
}

// RedisPing проверяет доступность Redis, если он сконфигурирован.
func (d *Dependencies) RedisPing(ctx context.Context) error {
	if d.redisClient == nil {
		return nil
	}
	return d.redisClient.Ping(ctx).Err()
}

// HasRedis сообщает, сконфигурирован ли Redis.
func (d *Dependencies) HasRedis() bool {
	return d.redisClient != nil
}

// Close освобождает подключения к внешним хранилищам.
func (d *Dependencies) Close() {
	if d.pgStore != nil {
		if err := d.pgStore.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
		d.pgStore = nil
	}
	if d.redisClient != nil {
		if err := d.redisClient.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close redis client")
		}
		d.redisClient = nil
	}
}

// cartClearingOrderRepository очищает корзину во внешнем хранилище после
// успешного создания заказа. Нужен, когда заказы и корзины живут в разных
// системах и одна транзакция недостижима.
type cartClearingOrderRepository struct {
	domain.OrderRepository
	carts  domain.CartRepository
	logger *log.Entry
}

func newCartClearingOrderRepository(orders domain.OrderRepository, carts domain.CartRepository, logger *log.Entry) domain.OrderRepository {
	if logger == nil {
		logger = log.WithField("component", "storage")
	}
	return &cartClearingOrderRepository{
		OrderRepository: orders,
		carts:           carts,
		logger:          logger,
	}
}

func (r *cartClearingOrderRepository) Create(ctx context.Context, order domain.Order, cartID string) (int64, error) {
	id, err := r.OrderRepository.Create(ctx, order, cartID)
	if err != nil {
		return 0, err
	}

	if cartID != "" {
		// Заказ уже зафиксирован; неудачная очистка не отменяет его.
		if err := r.carts.Clear(ctx, cartID); err != nil {
			r.logger.WithError(err).WithFields(log.Fields{
				"order_id":   id,
				"session_id": cartID,
			}).Warn("failed to clear cart after order creation")
		}
	}

	return id, nil
}
