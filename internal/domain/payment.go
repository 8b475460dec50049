package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusApproved  PaymentStatus = "APPROVED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

type Payment struct {
	ID          string
	OrderID     string
	Amount      decimal.Decimal
	Currency    string
	Status      PaymentStatus
	ProviderRef string
	QrCode      string
	QrCodeUrl   string
	ErrorMsg    *string
	ExpiresAt   time.Time
	PaidAt      *time.Time
	CreatedAt   time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetById(ctx context.Context, id string) (*Payment, error)
	GetByOrderId(ctx context.Context, orderID string) (*Payment, error)
	UpdateStatus(ctx context.Context, id string, status PaymentStatus, errMsg string) error
}

// PaymentIntent is what a provider hands back when a payment is opened for an
// order: an identifier plus whatever the customer needs to complete it.
type PaymentIntent struct {
	ID          string
	ProviderRef string
	QrCode      string
	QrCodeUrl   string
	RedirectUrl string
	ExpiresAt   time.Time
}

type PaymentProvider interface {
	CreatePayment(ctx context.Context, order *Order, customerEmail string) (*PaymentIntent, error)
}
