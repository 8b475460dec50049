package mocks

import (
	"context"

	"github.com/cinetick/cinema-pos/internal/domain"
)

type MockRoomRepo struct {
	domain.RoomRepository
	GetAllFunc  func(ctx context.Context) ([]*domain.Room, error)
	GetByIdFunc func(ctx context.Context, id int) (*domain.Room, error)
	CreateFunc  func(ctx context.Context, room *domain.Room) error
	UpdateFunc  func(ctx context.Context, room *domain.Room) error
}

func (m *MockRoomRepo) GetAll(ctx context.Context) ([]*domain.Room, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockRoomRepo) GetById(ctx context.Context, id int) (*domain.Room, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockRoomRepo) Create(ctx context.Context, room *domain.Room) error {
	return m.CreateFunc(ctx, room)
}

func (m *MockRoomRepo) Update(ctx context.Context, room *domain.Room) error {
	return m.UpdateFunc(ctx, room)
}
