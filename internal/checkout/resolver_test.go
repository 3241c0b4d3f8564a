package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
)

func TestResolveRequiresSession(t *testing.T) {
	resolver := NewCartResolver(memory.NewCartRepository())

	_, err := resolver.Resolve(context.Background(), "")
	if !errors.Is(err, domain.ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
}

func TestResolveUnknownCartIsEmpty(t *testing.T) {
	resolver := NewCartResolver(memory.NewCartRepository())

	items, err := resolver.Resolve(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}

func TestResolveKeepsInsertionOrder(t *testing.T) {
	carts := memory.NewCartRepository()
	ctx := context.Background()

	first := domain.CartItem{CartID: "s1", AlbumID: 2, Count: 1, UnitPriceMinor: 700}
	second := domain.CartItem{CartID: "s1", AlbumID: 1, Count: 3, UnitPriceMinor: 400}
	if err := carts.Add(ctx, first); err != nil {
		t.Fatalf("add first item: %v", err)
	}
	if err := carts.Add(ctx, second); err != nil {
		t.Fatalf("add second item: %v", err)
	}

	items, err := NewCartResolver(carts).Resolve(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].AlbumID != 2 || items[1].AlbumID != 1 {
		t.Fatalf("expected insertion order [2 1], got [%d %d]", items[0].AlbumID, items[1].AlbumID)
	}
}
