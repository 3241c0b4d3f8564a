package domain

// PromoDecision — результат проверки промокода. Производное значение:
// никогда не сохраняется отдельно, а учитывается при сборке заказа.
type PromoDecision struct {
	Valid         bool
	DiscountMinor int64
}
