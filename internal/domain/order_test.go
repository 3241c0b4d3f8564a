package domain

import (
	"errors"
	"testing"
)

func validOrder() Order {
	return Order{
		Username:   "TestUser",
		TotalMinor: 1500,
		Lines: []OrderLine{
			{AlbumID: 1, Quantity: 2, UnitPriceMinor: 500},
			{AlbumID: 2, Quantity: 1, UnitPriceMinor: 500},
		},
	}
}

func TestGrossMinor(t *testing.T) {
	order := validOrder()
	if got := order.GrossMinor(); got != 1500 {
		t.Fatalf("GrossMinor() = %d, want 1500", got)
	}
}

func TestValidateInvariantsAccepted(t *testing.T) {
	order := validOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no violations, got %v", errs)
	}

	// Итог со скидкой всё ещё валиден.
	order.TotalMinor = 0
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("zero total must be valid, got %v", errs)
	}
}

func TestValidateInvariantsViolations(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Order)
		want   error
	}{
		{name: "missing owner", mutate: func(o *Order) { o.Username = "" }, want: ErrOwnerRequired},
		{name: "no lines", mutate: func(o *Order) { o.Lines = nil; o.TotalMinor = 0 }, want: ErrLinesRequired},
		{name: "negative total", mutate: func(o *Order) { o.TotalMinor = -1 }, want: ErrTotalNegative},
		{name: "zero quantity", mutate: func(o *Order) { o.Lines[0].Quantity = 0; o.TotalMinor = 500 }, want: ErrLineQtyInvalid},
		{name: "negative price", mutate: func(o *Order) { o.Lines[0].UnitPriceMinor = -1; o.TotalMinor = 0 }, want: ErrLinePriceInvalid},
		{name: "total above lines sum", mutate: func(o *Order) { o.TotalMinor = 2000 }, want: ErrTotalExceedsLines},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := validOrder()
			tc.mutate(&order)

			errs := order.ValidateInvariants()
			for _, err := range errs {
				if errors.Is(err, tc.want) {
					return
				}
			}
			t.Fatalf("expected %v among violations, got %v", tc.want, errs)
		})
	}
}

func TestCartTotalMinor(t *testing.T) {
	items := []CartItem{
		{CartID: "s1", AlbumID: 1, Count: 2, UnitPriceMinor: 500},
		{CartID: "s1", AlbumID: 2, Count: 1, UnitPriceMinor: 300},
	}

	if got := CartTotalMinor(items); got != 1300 {
		t.Fatalf("CartTotalMinor() = %d, want 1300", got)
	}
	if got := CartTotalMinor(nil); got != 0 {
		t.Fatalf("CartTotalMinor(nil) = %d, want 0", got)
	}
}
