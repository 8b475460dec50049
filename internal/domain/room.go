package domain

import (
	"context"
	"time"
)

type Room struct {
	ID          int
	Name        string
	Rows        []string
	SeatsPerRow int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
}

type RoomRepository interface {
	GetAll(ctx context.Context) ([]*Room, error)
	GetById(ctx context.Context, id int) (*Room, error)
	Create(ctx context.Context, room *Room) error
	Update(ctx context.Context, room *Room) error
}
