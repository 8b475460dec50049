package repository

import (
	"context"
	"errors"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRoomRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRoomRepository(db *pgxpool.Pool) *PostgresRoomRepository {
	return &PostgresRoomRepository{
		db: db,
	}
}

func (p *PostgresRoomRepository) GetAll(ctx context.Context) ([]*domain.Room, error) {
	query := `SELECT id, name, rows, seats_per_row, active, created_at, updated_at, version
		FROM rooms
		ORDER BY name`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := []*domain.Room{}

	for rows.Next() {
		var room domain.Room

		err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.Rows,
			&room.SeatsPerRow,
			&room.Active,
			&room.CreatedAt,
			&room.UpdatedAt,
			&room.Version,
		)
		if err != nil {
			return nil, err
		}

		rooms = append(rooms, &room)
	}

	return rooms, rows.Err()
}

func (p *PostgresRoomRepository) GetById(ctx context.Context, id int) (*domain.Room, error) {
	query := `SELECT id, name, rows, seats_per_row, active, created_at, updated_at, version
		FROM rooms
		WHERE id = $1`

	var room domain.Room

	err := p.db.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.Rows,
		&room.SeatsPerRow,
		&room.Active,
		&room.CreatedAt,
		&room.UpdatedAt,
		&room.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &room, nil
}

func (p *PostgresRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	query := `INSERT INTO rooms (name, rows, seats_per_row, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version`

	return p.db.QueryRow(ctx, query,
		room.Name,
		room.Rows,
		room.SeatsPerRow,
		room.Active,
	).Scan(&room.ID, &room.CreatedAt, &room.Version)
}

func (p *PostgresRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	query := `UPDATE rooms
		SET name = $1, rows = $2, seats_per_row = $3, active = $4,
			updated_at = now(), version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version`

	err := p.db.QueryRow(ctx, query,
		room.Name,
		room.Rows,
		room.SeatsPerRow,
		room.Active,
		room.ID,
		room.Version,
	).Scan(&room.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}
