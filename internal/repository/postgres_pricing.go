package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresPricingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPricingRepository(db *pgxpool.Pool) *PostgresPricingRepository {
	return &PostgresPricingRepository{
		db: db,
	}
}

func (p *PostgresPricingRepository) GetAll(ctx context.Context) ([]*domain.PricingRule, error) {
	query := `SELECT id, name, seat_type, weekday, multiplier, surcharge, active, created_at, version
		FROM pricing_rules
		ORDER BY id`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []*domain.PricingRule{}

	for rows.Next() {
		rule, err := scanPricingRule(rows)
		if err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

func (p *PostgresPricingRepository) GetById(ctx context.Context, id int) (*domain.PricingRule, error) {
	query := `SELECT id, name, seat_type, weekday, multiplier, surcharge, active, created_at, version
		FROM pricing_rules
		WHERE id = $1`

	rows, err := p.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}

		return nil, domain.ErrRecordNotFound
	}

	return scanPricingRule(rows)
}

func scanPricingRule(row pgx.Row) (*domain.PricingRule, error) {
	var rule domain.PricingRule
	var weekday *int

	err := row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.SeatType,
		&weekday,
		&rule.Multiplier,
		&rule.Surcharge,
		&rule.Active,
		&rule.CreatedAt,
		&rule.Version,
	)
	if err != nil {
		return nil, err
	}

	if weekday != nil {
		wd := time.Weekday(*weekday)
		rule.Weekday = &wd
	}

	return &rule, nil
}

func (p *PostgresPricingRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	query := `INSERT INTO pricing_rules (name, seat_type, weekday, multiplier, surcharge, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version`

	return p.db.QueryRow(ctx, query,
		rule.Name,
		rule.SeatType,
		weekdayArg(rule.Weekday),
		rule.Multiplier,
		rule.Surcharge,
		rule.Active,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.Version)
}

func (p *PostgresPricingRepository) Update(ctx context.Context, rule *domain.PricingRule) error {
	query := `UPDATE pricing_rules
		SET name = $1, seat_type = $2, weekday = $3, multiplier = $4, surcharge = $5, active = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version`

	err := p.db.QueryRow(ctx, query,
		rule.Name,
		rule.SeatType,
		weekdayArg(rule.Weekday),
		rule.Multiplier,
		rule.Surcharge,
		rule.Active,
		rule.ID,
		rule.Version,
	).Scan(&rule.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}

func (p *PostgresPricingRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM pricing_rules WHERE id = $1`

	result, err := p.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func weekdayArg(wd *time.Weekday) *int {
	if wd == nil {
		return nil
	}

	n := int(*wd)

	return &n
}
