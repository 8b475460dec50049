package repository

import (
	"context"
	"errors"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

// GetSeatsByShowtime expands the room layout of the showtime into a full
// seat map. Every seat starts out available; the caller overlays
// reservations and live locks.
func (p *PostgresSeatRepository) GetSeatsByShowtime(ctx context.Context, showtimeID int) (*domain.SeatMap, error) {
	query := `SELECT r.id, r.name, r.rows, r.seats_per_row
		FROM showtimes s
		JOIN rooms r ON r.id = s.room_id
		WHERE s.id = $1`

	var (
		roomID      int
		roomName    string
		rowLabels   []string
		seatsPerRow int
	)

	err := p.db.QueryRow(ctx, query, showtimeID).Scan(&roomID, &roomName, &rowLabels, &seatsPerRow)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	seatMap := &domain.SeatMap{
		ShowtimeID: showtimeID,
		RoomID:     roomID,
		RoomName:   roomName,
		Seats:      make([]domain.Seat, 0, len(rowLabels)*seatsPerRow),
	}

	for _, row := range rowLabels {
		for number := 1; number <= seatsPerRow; number++ {
			seatMap.Seats = append(seatMap.Seats, domain.Seat{
				Row:       row,
				Number:    number,
				Type:      "standard",
				Available: true,
			})
		}
	}

	return seatMap, nil
}

// GetReservedSeatsByShowtime returns the seats held by orders that still
// count against availability (pending or paid).
func (p *PostgresSeatRepository) GetReservedSeatsByShowtime(ctx context.Context, showtimeID int) ([]domain.SelectedSeat, error) {
	query := `SELECT oi.row, oi.seat_number
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.showtime_id = $1
			AND oi.item_type = 'ticket'
			AND o.status IN ('PENDING', 'PAID')`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := []domain.SelectedSeat{}

	for rows.Next() {
		var seat domain.SelectedSeat

		if err := rows.Scan(&seat.Row, &seat.SeatNumber); err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	return seats, rows.Err()
}
