package mocks

import (
	"context"

	"github.com/cinetick/cinema-pos/internal/domain"
)

type MockSeatRepo struct {
	domain.SeatRepository
	GetSeatsByShowtimeFunc func(ctx context.Context, showtimeID int) (*domain.SeatMap, error)
}

func (m *MockSeatRepo) GetSeatsByShowtime(ctx context.Context, showtimeID int) (*domain.SeatMap, error) {
	return m.GetSeatsByShowtimeFunc(ctx, showtimeID)
}
