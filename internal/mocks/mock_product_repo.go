package mocks

import (
	"context"

	"github.com/cinetick/cinema-pos/internal/domain"
)

type MockProductRepo struct {
	domain.ProductRepository
	GetAllFunc  func(ctx context.Context, filters domain.ProductFilters) ([]*domain.Product, error)
	GetByIdFunc func(ctx context.Context, id int) (*domain.Product, error)
	CreateFunc  func(ctx context.Context, product *domain.Product) error
	UpdateFunc  func(ctx context.Context, product *domain.Product) error
}

func (m *MockProductRepo) GetAll(ctx context.Context, filters domain.ProductFilters) ([]*domain.Product, error) {
	return m.GetAllFunc(ctx, filters)
}

func (m *MockProductRepo) GetById(ctx context.Context, id int) (*domain.Product, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	return m.CreateFunc(ctx, product)
}

func (m *MockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	return m.UpdateFunc(ctx, product)
}
