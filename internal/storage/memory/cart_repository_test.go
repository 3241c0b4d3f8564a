package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func TestCartRepositoryAddRequiresSession(t *testing.T) {
	repo := NewCartRepository()

	err := repo.Add(context.Background(), domain.CartItem{AlbumID: 1, Count: 1})
	if !errors.Is(err, domain.ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
}

func TestCartRepositoryMergesSameAlbum(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	if err := repo.Add(ctx, domain.CartItem{CartID: "s1", AlbumID: 1, Count: 1, UnitPriceMinor: 500}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := repo.Add(ctx, domain.CartItem{CartID: "s1", AlbumID: 1, Count: 2, UnitPriceMinor: 500}); err != nil {
		t.Fatalf("add same album: %v", err)
	}

	items, err := repo.Items(ctx, "s1")
	if err != nil {
		t.Fatalf("read cart: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(items))
	}
	if items[0].Count != 3 {
		t.Fatalf("expected count 3, got %d", items[0].Count)
	}
}

func TestCartRepositoryKeepsInsertionOrder(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	for _, albumID := range []int64{5, 2, 9} {
		if err := repo.Add(ctx, domain.CartItem{CartID: "s1", AlbumID: albumID, Count: 1, UnitPriceMinor: 100}); err != nil {
			t.Fatalf("add album %d: %v", albumID, err)
		}
	}

	items, err := repo.Items(ctx, "s1")
	if err != nil {
		t.Fatalf("read cart: %v", err)
	}
	got := []int64{items[0].AlbumID, items[1].AlbumID, items[2].AlbumID}
	want := []int64{5, 2, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestCartRepositoryClear(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	if err := repo.Add(ctx, domain.CartItem{CartID: "s1", AlbumID: 1, Count: 1, UnitPriceMinor: 100}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := repo.Clear(ctx, "s1"); err != nil {
		t.Fatalf("clear cart: %v", err)
	}

	items, err := repo.Items(ctx, "s1")
	if err != nil {
		t.Fatalf("read cart: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart after clear, got %d items", len(items))
	}
}

func TestCartRepositoryItemsReturnsCopy(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	if err := repo.Add(ctx, domain.CartItem{CartID: "s1", AlbumID: 1, Count: 1, UnitPriceMinor: 100}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	items, err := repo.Items(ctx, "s1")
	if err != nil {
		t.Fatalf("read cart: %v", err)
	}
	items[0].Count = 99

	fresh, err := repo.Items(ctx, "s1")
	if err != nil {
		t.Fatalf("re-read cart: %v", err)
	}
	if fresh[0].Count != 1 {
		t.Fatalf("stored item mutated through returned slice: %+v", fresh[0])
	}
}
