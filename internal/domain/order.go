package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusExpired   OrderStatus = "EXPIRED"
)

type OrderChannel string

const (
	OrderChannelWeb    OrderChannel = "web"
	OrderChannelMobile OrderChannel = "mobile"
	OrderChannelPos    OrderChannel = "pos"
)

type OrderItemType string

const (
	OrderItemTicket  OrderItemType = "ticket"
	OrderItemProduct OrderItemType = "product"
)

type Order struct {
	ID        string
	UserID    *int
	Channel   OrderChannel
	Status    OrderStatus
	Total     decimal.Decimal
	Items     []OrderItem
	PaymentID string
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

type OrderItem struct {
	ID         int
	OrderID    string
	Type       OrderItemType
	ShowtimeID *int
	ProductID  *int
	Row        *string
	SeatNumber *int
	Quantity   int
	UnitPrice  decimal.Decimal
}

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetById(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error
	GetExpiredPending(ctx context.Context, olderThan time.Time) ([]*Order, error)
	GetSeatsByShowtime(ctx context.Context, showtimeID int) ([]SelectedSeat, error)
}
