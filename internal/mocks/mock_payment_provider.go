package mocks

import (
	"context"

	"github.com/cinetick/cinema-pos/internal/domain"
)

type MockPaymentProvider struct {
	domain.PaymentProvider
	CreatePaymentFunc func(ctx context.Context, order *domain.Order, customerEmail string) (*domain.PaymentIntent, error)
}

func (m *MockPaymentProvider) CreatePayment(ctx context.Context, order *domain.Order, customerEmail string) (*domain.PaymentIntent, error) {
	return m.CreatePaymentFunc(ctx, order, customerEmail)
}
