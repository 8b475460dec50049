package mocks

import (
	"context"

	"github.com/cinetick/cinema-pos/internal/domain"
)

type MockPricingRepo struct {
	domain.PricingRepository
	GetAllFunc  func(ctx context.Context) ([]*domain.PricingRule, error)
	GetByIdFunc func(ctx context.Context, id int) (*domain.PricingRule, error)
	CreateFunc  func(ctx context.Context, rule *domain.PricingRule) error
	UpdateFunc  func(ctx context.Context, rule *domain.PricingRule) error
	DeleteFunc  func(ctx context.Context, id int) error
}

func (m *MockPricingRepo) GetAll(ctx context.Context) ([]*domain.PricingRule, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockPricingRepo) GetById(ctx context.Context, id int) (*domain.PricingRule, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockPricingRepo) Create(ctx context.Context, rule *domain.PricingRule) error {
	return m.CreateFunc(ctx, rule)
}

func (m *MockPricingRepo) Update(ctx context.Context, rule *domain.PricingRule) error {
	return m.UpdateFunc(ctx, rule)
}

func (m *MockPricingRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}
