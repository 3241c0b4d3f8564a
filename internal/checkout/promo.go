package checkout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// PromoRule задаёт процент скидки для распознанного промокода.
type PromoRule struct {
	DiscountPercent int
}

// PromoEvaluator проверяет промокод по фиксированной таблице кодов.
// Сравнение чувствительно к регистру; пустой код эквивалентен нераспознанному.
type PromoEvaluator struct {
	codes map[string]PromoRule
}

// DefaultPromoCodes возвращает таблицу кодов по умолчанию: FREE — полная скидка.
func DefaultPromoCodes() map[string]PromoRule {
	return map[string]PromoRule{
		"FREE": {DiscountPercent: 100},
	}
}

// NewPromoEvaluator создаёт evaluator с собственной копией таблицы кодов.
// При пустой таблице используются коды по умолчанию.
func NewPromoEvaluator(codes map[string]PromoRule) *PromoEvaluator {
	if len(codes) == 0 {
		codes = DefaultPromoCodes()
	}
	copied := make(map[string]PromoRule, len(codes))
	for code, rule := range codes {
		copied[code] = rule
	}
	return &PromoEvaluator{codes: copied}
}

// Recognized отвечает, известен ли код. Не требует данных корзины,
// поэтому вызывается до любого обращения к хранилищу.
func (e *PromoEvaluator) Recognized(code string) bool {
	_, ok := e.codes[code]
	return ok
}

// Evaluate возвращает решение по коду для корзины с указанной стоимостью.
// Для нераспознанного кода — {Valid: false, DiscountMinor: 0}, без ошибок.
func (e *PromoEvaluator) Evaluate(code string, cartTotalMinor int64) domain.PromoDecision {
	rule, ok := e.codes[code]
	if !ok {
		return domain.PromoDecision{}
	}

	discount := cartTotalMinor * int64(rule.DiscountPercent) / 100
	if discount > cartTotalMinor {
		discount = cartTotalMinor
	}
	if discount < 0 {
		discount = 0
	}

	return domain.PromoDecision{Valid: true, DiscountMinor: discount}
}

// ParsePromoCodes разбирает конфигурацию вида "FREE:100,HALF:50".
func ParsePromoCodes(raw string) (map[string]PromoRule, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	codes := make(map[string]PromoRule)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		code, percentRaw, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("invalid promo code entry: %q", entry)
		}
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, fmt.Errorf("promo code name is empty in entry: %q", entry)
		}

		percent, err := strconv.Atoi(strings.TrimSpace(percentRaw))
		if err != nil {
			return nil, fmt.Errorf("parse promo discount percent in %q: %w", entry, err)
		}
		if percent < 0 || percent > 100 {
			return nil, fmt.Errorf("promo discount percent out of range in %q", entry)
		}

		codes[code] = PromoRule{DiscountPercent: percent}
	}

	return codes, nil
}
