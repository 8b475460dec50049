package repository

import (
	"context"
	"errors"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresProductRepository struct {
	db *pgxpool.Pool
}

func NewPostgresProductRepository(db *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{
		db: db,
	}
}

func (p *PostgresProductRepository) GetAll(ctx context.Context, filters domain.ProductFilters) ([]*domain.Product, error) {
	query := `SELECT id, name, category, price, image_url, active, created_at, version
		FROM products
		WHERE ($1 = '' OR category = $1)
			AND (NOT $2 OR active = true)
		ORDER BY category, name`

	rows, err := p.db.Query(ctx, query, filters.Category, filters.ActiveOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*domain.Product{}

	for rows.Next() {
		var product domain.Product

		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Category,
			&product.Price,
			&product.ImageUrl,
			&product.Active,
			&product.CreatedAt,
			&product.Version,
		)
		if err != nil {
			return nil, err
		}

		products = append(products, &product)
	}

	return products, rows.Err()
}

func (p *PostgresProductRepository) GetById(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT id, name, category, price, image_url, active, created_at, version
		FROM products
		WHERE id = $1`

	var product domain.Product

	err := p.db.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&product.Price,
		&product.ImageUrl,
		&product.Active,
		&product.CreatedAt,
		&product.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &product, nil
}

func (p *PostgresProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (name, category, price, image_url, active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING id, created_at, version`

	return p.db.QueryRow(ctx, query,
		product.Name,
		product.Category,
		product.Price,
		product.ImageUrl,
	).Scan(&product.ID, &product.CreatedAt, &product.Version)
}

func (p *PostgresProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `UPDATE products
		SET name = $1, category = $2, price = $3, image_url = $4, active = $5, version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version`

	err := p.db.QueryRow(ctx, query,
		product.Name,
		product.Category,
		product.Price,
		product.ImageUrl,
		product.Active,
		product.ID,
		product.Version,
	).Scan(&product.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}
