package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

const (
	cartKeyPrefix  = "checkout:cart:"
	defaultCartTTL = 30 * time.Minute
)

// cartEntry — сериализуемое представление строки корзины в hash-поле.
// AddedAt сохраняет порядок добавления: hash его не гарантирует.
type cartEntry struct {
	Count          int32     `json:"count"`
	UnitPriceMinor int64     `json:"unit_price_minor"`
	AddedAt        time.Time `json:"added_at"`
}

// cartRepositoryRedis хранит корзины в Redis: hash на корзину,
// поле на альбом. Альтернатива PostgreSQL-хранилищу для деплоя,
// где сессионные корзины живут отдельно от заказов.
type cartRepositoryRedis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository создаёт Redis-реализацию CartRepository.
func NewCartRepository(client *redis.Client) domain.CartRepository {
	return &cartRepositoryRedis{client: client, ttl: defaultCartTTL}
}

func (r *cartRepositoryRedis) Items(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	fields, err := r.client.HGetAll(ctx, cartKey(cartID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis cart read failed: %w", err)
	}

	type orderedItem struct {
		item    domain.CartItem
		addedAt time.Time
	}

	ordered := make([]orderedItem, 0, len(fields))
	for field, raw := range fields {
		albumID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid album id in cart %s: %w", cartID, err)
		}
		var entry cartEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("unmarshal cart entry failed: %w", err)
		}
		ordered = append(ordered, orderedItem{
			item: domain.CartItem{
				CartID:         cartID,
				AlbumID:        albumID,
				Count:          entry.Count,
				UnitPriceMinor: entry.UnitPriceMinor,
			},
			addedAt: entry.AddedAt,
		})
	}

	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].addedAt.Equal(ordered[j].addedAt) {
			return ordered[i].addedAt.Before(ordered[j].addedAt)
		}
		return ordered[i].item.AlbumID < ordered[j].item.AlbumID
	})

	items := make([]domain.CartItem, 0, len(ordered))
	for _, o := range ordered {
		items = append(items, o.item)
	}
	return items, nil
}

func (r *cartRepositoryRedis) Add(ctx context.Context, item domain.CartItem) error {
	if item.CartID == "" {
		return domain.ErrSessionRequired
	}

	key := cartKey(item.CartID)
	field := strconv.FormatInt(item.AlbumID, 10)

	entry := cartEntry{
		Count:          item.Count,
		UnitPriceMinor: item.UnitPriceMinor,
		AddedAt:        time.Now().UTC(),
	}

	raw, err := r.client.HGet(ctx, key, field).Result()
	if err == nil {
		var existing cartEntry
		if err := json.Unmarshal([]byte(raw), &existing); err != nil {
			return fmt.Errorf("unmarshal cart entry failed: %w", err)
		}
		entry.Count += existing.Count
		entry.AddedAt = existing.AddedAt
	} else if err != redis.Nil {
		return fmt.Errorf("redis cart read failed: %w", err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cart entry failed: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, field, data)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis cart write failed: %w", err)
	}
	return nil
}

func (r *cartRepositoryRedis) Clear(ctx context.Context, cartID string) error {
	if err := r.client.Del(ctx, cartKey(cartID)).Err(); err != nil {
		return fmt.Errorf("redis cart delete failed: %w", err)
	}
	return nil
}

func cartKey(cartID string) string {
	return cartKeyPrefix + cartID
}

var _ domain.CartRepository = (*cartRepositoryRedis)(nil)
