package rest

import (
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// orderForm — форма адреса и оплаты, присылаемая на POST /checkout.
type orderForm struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// valid проверяет заполненность обязательных полей формы.
// Это внешняя валидация входа; ядро оформления получает только её итог.
func (f orderForm) valid() bool {
	required := []string{f.Name, f.Address, f.City, f.State, f.PostalCode, f.Country, f.Phone, f.Email}
	for _, field := range required {
		if field == "" {
			return false
		}
	}
	return true
}

func (f orderForm) toOrder() domain.Order {
	return domain.Order{
		Name:       f.Name,
		Address:    f.Address,
		City:       f.City,
		State:      f.State,
		PostalCode: f.PostalCode,
		Country:    f.Country,
		Phone:      f.Phone,
		Email:      f.Email,
	}
}

type submitRequest struct {
	SessionID string    `json:"session_id"`
	PromoCode string    `json:"promo_code"`
	Order     orderForm `json:"order"`
}

type submitAcceptedResponse struct {
	OrderID  int64  `json:"order_id"`
	Redirect string `json:"redirect"`
}

type submitRejectedResponse struct {
	Rejected bool          `json:"rejected"`
	Reason   string        `json:"reason"`
	Order    orderResponse `json:"order"`
}

type orderLineResponse struct {
	AlbumID        int64 `json:"album_id"`
	Quantity       int32 `json:"quantity"`
	UnitPriceMinor int64 `json:"unit_price_minor"`
}

type orderResponse struct {
	ID         int64               `json:"id"`
	Username   string              `json:"username,omitempty"`
	OrderDate  time.Time           `json:"order_date"`
	TotalMinor int64               `json:"total_minor"`
	Name       string              `json:"name"`
	Address    string              `json:"address"`
	City       string              `json:"city"`
	State      string              `json:"state"`
	PostalCode string              `json:"postal_code"`
	Country    string              `json:"country"`
	Phone      string              `json:"phone"`
	Email      string              `json:"email"`
	Lines      []orderLineResponse `json:"lines,omitempty"`
}

func toOrderResponse(order domain.Order) orderResponse {
	lines := make([]orderLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, orderLineResponse{
			AlbumID:        line.AlbumID,
			Quantity:       line.Quantity,
			UnitPriceMinor: line.UnitPriceMinor,
		})
	}

	return orderResponse{
		ID:         order.ID,
		Username:   order.Username,
		OrderDate:  order.OrderDate,
		TotalMinor: order.TotalMinor,
		Name:       order.Name,
		Address:    order.Address,
		City:       order.City,
		State:      order.State,
		PostalCode: order.PostalCode,
		Country:    order.Country,
		Phone:      order.Phone,
		Email:      order.Email,
		Lines:      lines,
	}
}

type addCartItemRequest struct {
	SessionID string `json:"session_id"`
	AlbumID   int64  `json:"album_id"`
	Count     int32  `json:"count"`
}

type cartItemResponse struct {
	CartID         string `json:"cart_id"`
	AlbumID        int64  `json:"album_id"`
	Count          int32  `json:"count"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
}

type errorResponse struct {
	Error string `json:"error"`
}
