package checkout

import (
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// AssembleOrder собирает агрегат заказа из строк корзины, решения по промокоду
// и присланной формы. Чистая функция: без I/O, идентификатор не присваивается
// (это делает хранилище при вставке). Предусловия — непустые items и owner —
// обеспечивает оркестратор.
func AssembleOrder(
	items []domain.CartItem,
	promo domain.PromoDecision,
	form domain.Order,
	owner string,
	now time.Time,
) domain.Order {
	lines := make([]domain.OrderLine, 0, len(items))
	var gross int64
	for _, item := range items {
		lines = append(lines, domain.OrderLine{
			AlbumID:        item.AlbumID,
			Quantity:       item.Count,
			UnitPriceMinor: item.UnitPriceMinor,
		})
		gross += item.LineTotalMinor()
	}

	total := gross - promo.DiscountMinor
	if total < 0 {
		total = 0
	}

	// Адресные поля формы переносятся как есть; присланный клиентом
	// идентификатор заказа при создании игнорируется.
	order := form
	order.ID = 0
	order.Username = owner
	order.OrderDate = now
	order.TotalMinor = total
	order.Lines = lines

	return order
}
