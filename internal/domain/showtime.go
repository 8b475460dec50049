package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Showtime struct {
	ID        int
	MovieID   int
	RoomID    int
	Movie     *Movie
	RoomName  string
	StartsAt  time.Time
	EndsAt    time.Time
	BasePrice decimal.Decimal
	Language  string
	Format    string
	CreatedAt time.Time
	Version   int
}

type ShowtimeFilters struct {
	MovieID int
	Date    time.Time
}

type ShowtimeRepository interface {
	GetAll(ctx context.Context, filters ShowtimeFilters) ([]*Showtime, error)
	GetById(ctx context.Context, id int) (*Showtime, error)
	Create(ctx context.Context, showtime *Showtime) error
}
