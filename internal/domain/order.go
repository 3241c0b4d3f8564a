package domain

import "time"

// OrderLine — позиция заказа: снимок цены альбома на момент оформления.
// После создания заказа позиция не меняется, даже если цена альбома изменится.
type OrderLine struct {
	// AlbumID — внешний идентификатор альбома.
	AlbumID int64
	// Quantity — количество единиц.
	Quantity int32
	// UnitPriceMinor — цена за единицу в минимальных денежных единицах (центы).
	UnitPriceMinor int64
}

// Order агрегирует результат завершённого оформления заказа.
// ID присваивается хранилищем при создании и далее неизменен.
type Order struct {
	ID         int64
	Username   string
	OrderDate  time.Time
	TotalMinor int64

	// Адресные поля переносятся из формы как есть: бизнес-валидация формы
	// выполняется внешним слоем до вызова оркестратора.
	Name       string
	Address    string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
	Email      string

	Lines []OrderLine
}

// GrossMinor возвращает сумму позиций до применения скидки.
func (o *Order) GrossMinor() int64 {
	var sum int64
	for _, line := range o.Lines {
		sum += int64(line.Quantity) * line.UnitPriceMinor
	}
	return sum
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.Username == "" {
		errs = append(errs, ErrOwnerRequired)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrLinesRequired)
	}
	if o.TotalMinor < 0 {
		errs = append(errs, ErrTotalNegative)
	}

	for _, line := range o.Lines {
		if line.Quantity <= 0 {
			errs = append(errs, ErrLineQtyInvalid)
		}
		if line.UnitPriceMinor < 0 {
			errs = append(errs, ErrLinePriceInvalid)
		}
	}

	// Итог не может превышать сумму позиций: скидка только уменьшает его.
	if o.TotalMinor > o.GrossMinor() {
		errs = append(errs, ErrTotalExceedsLines)
	}

	return errs
}
