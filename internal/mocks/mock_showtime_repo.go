package mocks

import (
	"context"

	"github.com/cinetick/cinema-pos/internal/domain"
)

type MockShowtimeRepo struct {
	domain.ShowtimeRepository
	GetAllFunc  func(ctx context.Context, filters domain.ShowtimeFilters) ([]*domain.Showtime, error)
	GetByIdFunc func(ctx context.Context, id int) (*domain.Showtime, error)
	CreateFunc  func(ctx context.Context, showtime *domain.Showtime) error
}

func (m *MockShowtimeRepo) GetAll(ctx context.Context, filters domain.ShowtimeFilters) ([]*domain.Showtime, error) {
	return m.GetAllFunc(ctx, filters)
}

func (m *MockShowtimeRepo) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockShowtimeRepo) Create(ctx context.Context, showtime *domain.Showtime) error {
	return m.CreateFunc(ctx, showtime)
}
