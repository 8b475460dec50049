package repository

import (
	"context"
	"errors"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) GetAll(ctx context.Context, filters domain.ShowtimeFilters) ([]*domain.Showtime, error) {
	query := `SELECT s.id, s.movie_id, s.room_id, r.name, s.starts_at, s.ends_at, s.base_price, s.language, s.format, s.version,
			m.id, m.title, m.poster_url, m.duration_min, m.rating
		FROM showtimes s
		JOIN rooms r ON r.id = s.room_id
		JOIN movies m ON m.id = s.movie_id
		WHERE ($1 = 0 OR s.movie_id = $1)
			AND ($2::date IS NULL OR s.starts_at::date = $2::date)
		ORDER BY s.starts_at ASC`

	var date any
	if !filters.Date.IsZero() {
		date = filters.Date
	}

	rows, err := p.db.Query(ctx, query, filters.MovieID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	showtimes := []*domain.Showtime{}

	for rows.Next() {
		var showtime domain.Showtime
		var movie domain.Movie

		err := rows.Scan(
			&showtime.ID,
			&showtime.MovieID,
			&showtime.RoomID,
			&showtime.RoomName,
			&showtime.StartsAt,
			&showtime.EndsAt,
			&showtime.BasePrice,
			&showtime.Language,
			&showtime.Format,
			&showtime.Version,
			&movie.ID,
			&movie.Title,
			&movie.PosterUrl,
			&movie.DurationMin,
			&movie.Rating,
		)
		if err != nil {
			return nil, err
		}

		showtime.Movie = &movie
		showtimes = append(showtimes, &showtime)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return showtimes, nil
}

func (p *PostgresShowtimeRepository) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	query := `SELECT s.id, s.movie_id, s.room_id, r.name, s.starts_at, s.ends_at, s.base_price, s.language, s.format, s.version
		FROM showtimes s
		JOIN rooms r ON r.id = s.room_id
		WHERE s.id = $1`

	var showtime domain.Showtime

	err := p.db.QueryRow(ctx, query, id).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.RoomID,
		&showtime.RoomName,
		&showtime.StartsAt,
		&showtime.EndsAt,
		&showtime.BasePrice,
		&showtime.Language,
		&showtime.Format,
		&showtime.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &showtime, nil
}

func (p *PostgresShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime) error {
	query := `INSERT INTO showtimes (movie_id, room_id, starts_at, ends_at, base_price, language, format)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version`

	return p.db.QueryRow(ctx, query,
		showtime.MovieID,
		showtime.RoomID,
		showtime.StartsAt,
		showtime.EndsAt,
		showtime.BasePrice,
		showtime.Language,
		showtime.Format,
	).Scan(&showtime.ID, &showtime.CreatedAt, &showtime.Version)
}
