package domain

// Album — неизменяемые справочные данные для ценообразования.
type Album struct {
	AlbumID    int64
	Title      string
	PriceMinor int64
}

// CartItem — строка корзины, привязанная к идентификатору сессии.
// Идентичность задаётся парой (CartID, AlbumID). Живёт до успешного
// оформления заказа, после чего удаляется вместе с созданием заказа.
type CartItem struct {
	CartID         string
	AlbumID        int64
	Count          int32
	UnitPriceMinor int64
}

// LineTotalMinor возвращает стоимость строки корзины.
func (c CartItem) LineTotalMinor() int64 {
	return int64(c.Count) * c.UnitPriceMinor
}

// CartTotalMinor суммирует стоимость всех строк корзины.
func CartTotalMinor(items []CartItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.LineTotalMinor()
	}
	return sum
}
