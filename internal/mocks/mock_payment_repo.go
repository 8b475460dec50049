package mocks

import (
	"context"

	"github.com/cinetick/cinema-pos/internal/domain"
)

type MockPaymentRepo struct {
	domain.PaymentRepository
	CreateFunc       func(ctx context.Context, payment *domain.Payment) error
	GetByIdFunc      func(ctx context.Context, id string) (*domain.Payment, error)
	GetByOrderIdFunc func(ctx context.Context, orderID string) (*domain.Payment, error)
	UpdateStatusFunc func(ctx context.Context, id string, status domain.PaymentStatus, errMsg string) error
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	return m.CreateFunc(ctx, payment)
}

func (m *MockPaymentRepo) GetById(ctx context.Context, id string) (*domain.Payment, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockPaymentRepo) GetByOrderId(ctx context.Context, orderID string) (*domain.Payment, error) {
	return m.GetByOrderIdFunc(ctx, orderID)
}

func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, errMsg string) error {
	return m.UpdateStatusFunc(ctx, id, status, errMsg)
}
