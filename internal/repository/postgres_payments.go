package repository

import (
	"context"
	"errors"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db: db,
	}
}

func (p *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `INSERT INTO payments (id, order_id, amount, currency, status, provider_ref, qr_code, qr_code_url, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	return p.db.QueryRow(ctx, query,
		payment.ID,
		payment.OrderID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.ProviderRef,
		payment.QrCode,
		payment.QrCodeUrl,
		payment.ExpiresAt,
	).Scan(&payment.CreatedAt)
}

func (p *PostgresPaymentRepository) GetById(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT id, order_id, amount, currency, status, provider_ref, qr_code, qr_code_url, error_msg, expires_at, paid_at, created_at
		FROM payments
		WHERE id = $1`

	return p.getOne(ctx, query, id)
}

func (p *PostgresPaymentRepository) GetByOrderId(ctx context.Context, orderID string) (*domain.Payment, error) {
	query := `SELECT id, order_id, amount, currency, status, provider_ref, qr_code, qr_code_url, error_msg, expires_at, paid_at, created_at
		FROM payments
		WHERE order_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	return p.getOne(ctx, query, orderID)
}

func (p *PostgresPaymentRepository) getOne(ctx context.Context, query string, arg any) (*domain.Payment, error) {
	var payment domain.Payment

	err := p.db.QueryRow(ctx, query, arg).Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.ProviderRef,
		&payment.QrCode,
		&payment.QrCodeUrl,
		&payment.ErrorMsg,
		&payment.ExpiresAt,
		&payment.PaidAt,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &payment, nil
}

func (p *PostgresPaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, errMsg string) error {
	query := `UPDATE payments
		SET status = $1,
			error_msg = NULLIF($2, ''),
			paid_at = CASE WHEN $1 = 'APPROVED' THEN now() ELSE paid_at END
		WHERE id = $3`

	result, err := p.db.Exec(ctx, query, status, errMsg, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
