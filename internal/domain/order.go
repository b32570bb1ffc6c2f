package domain

import (
	"fmt"
	"time"
)

type Order struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customerId"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	Status          OrderStatus `json:"status"`
	PaymentMethod   string      `json:"paymentMethod"`
	ShippingAddress Address     `json:"shippingAddress"`
	OrderDate       time.Time   `json:"orderDate"`
}

// OrderItem freezes the unit price at the moment of purchase. It must never
// be re-read from the current Product price.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"price"`
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusCompleted  OrderStatus = "completed"
)

// NormalizeStatus maps raw status strings onto the closed enum.
// "canceled" is accepted as an alias for "cancelled"; anything else outside
// the enum is rejected.
func NormalizeStatus(raw string) (OrderStatus, error) {
	if raw == "canceled" {
		return StatusCancelled, nil
	}
	switch s := OrderStatus(raw); s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusCompleted:
		return s, nil
	}
	return "", &InvalidInputError{Msg: fmt.Sprintf("unknown order status %q", raw)}
}
