package mocks

import (
	"context"
	"time"

	"github.com/cinetick/cinema-pos/internal/domain"
)

type MockOrderRepo struct {
	domain.OrderRepository
	CreateFunc             func(ctx context.Context, order *domain.Order) error
	GetByIdFunc            func(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatusFunc       func(ctx context.Context, id string, status domain.OrderStatus) error
	GetExpiredPendingFunc  func(ctx context.Context, olderThan time.Time) ([]*domain.Order, error)
	GetSeatsByShowtimeFunc func(ctx context.Context, showtimeID int) ([]domain.SelectedSeat, error)
}

func (m *MockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	return m.CreateFunc(ctx, order)
}

func (m *MockOrderRepo) GetById(ctx context.Context, id string) (*domain.Order, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *MockOrderRepo) GetExpiredPending(ctx context.Context, olderThan time.Time) ([]*domain.Order, error) {
	return m.GetExpiredPendingFunc(ctx, olderThan)
}

func (m *MockOrderRepo) GetSeatsByShowtime(ctx context.Context, showtimeID int) ([]domain.SelectedSeat, error) {
	return m.GetSeatsByShowtimeFunc(ctx, showtimeID)
}
