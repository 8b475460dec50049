package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresOrderRepository struct {
	db *pgxpool.Pool
}

func NewPostgresOrderRepository(db *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db: db,
	}
}

// Create inserts the order and its items in one transaction so a partial
// order can never become visible.
func (p *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO orders (id, user_id, channel, status, total, payment_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, version`

	err = tx.QueryRow(ctx, query,
		order.ID,
		order.UserID,
		order.Channel,
		order.Status,
		order.Total,
		order.PaymentID,
	).Scan(&order.CreatedAt, &order.Version)
	if err != nil {
		return err
	}

	itemQuery := `INSERT INTO order_items (order_id, item_type, showtime_id, product_id, row, seat_number, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		err = tx.QueryRow(ctx, itemQuery,
			order.ID,
			item.Type,
			item.ShowtimeID,
			item.ProductID,
			item.Row,
			item.SeatNumber,
			item.Quantity,
			item.UnitPrice,
		).Scan(&item.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (p *PostgresOrderRepository) GetById(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT id, user_id, channel, status, total, payment_id, created_at, updated_at, version
		FROM orders
		WHERE id = $1`

	var order domain.Order

	err := p.db.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.Channel,
		&order.Status,
		&order.Total,
		&order.PaymentID,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	itemQuery := `SELECT id, item_type, showtime_id, product_id, row, seat_number, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`

	rows, err := p.db.Query(ctx, itemQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := domain.OrderItem{OrderID: id}

		err := rows.Scan(
			&item.ID,
			&item.Type,
			&item.ShowtimeID,
			&item.ProductID,
			&item.Row,
			&item.SeatNumber,
			&item.Quantity,
			&item.UnitPrice,
		)
		if err != nil {
			return nil, err
		}

		order.Items = append(order.Items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}

func (p *PostgresOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	query := `UPDATE orders
		SET status = $1, updated_at = now(), version = version + 1
		WHERE id = $2`

	result, err := p.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// GetExpiredPending returns pending orders created before the cutoff, used
// by the expiry sweep.
func (p *PostgresOrderRepository) GetExpiredPending(ctx context.Context, olderThan time.Time) ([]*domain.Order, error) {
	query := `SELECT id, user_id, channel, status, total, payment_id, created_at, updated_at, version
		FROM orders
		WHERE status = 'PENDING' AND created_at < $1`

	rows, err := p.db.Query(ctx, query, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*domain.Order{}

	for rows.Next() {
		var order domain.Order

		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Channel,
			&order.Status,
			&order.Total,
			&order.PaymentID,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.Version,
		)
		if err != nil {
			return nil, err
		}

		orders = append(orders, &order)
	}

	return orders, rows.Err()
}

func (p *PostgresOrderRepository) GetSeatsByShowtime(ctx context.Context, showtimeID int) ([]domain.SelectedSeat, error) {
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
