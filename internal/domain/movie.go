package domain

import (
	"context"
	"time"
)

type Movie struct {
	ID          int
	Title       string
	Description string
	Genre       string
	PosterUrl   string
	DurationMin int
	Rating      string
	ReleaseDate time.Time
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
}

type MovieRepository interface {
	GetAll(ctx context.Context, pagination Pagination) ([]*Movie, *Metadata, error)
	GetById(ctx context.Context, id int) (*Movie, error)
	Create(ctx context.Context, movie *Movie) error
	Update(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id int) error
}
