package pos

import (
	"context"
	"sync"
	"time"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/shopspring/decimal"
)

// RulePricer prices draft seats through the admin pricing rules, the same
// logic the customer checkout uses. Rules are held as a snapshot refreshed at
// startup and after every pricing-rule mutation, so pricing a draft never
// blocks on the database.
type RulePricer struct {
	mu    sync.RWMutex
	repo  domain.PricingRepository
	rules []*domain.PricingRule
}

func NewRulePricer(repo domain.PricingRepository) *RulePricer {
	return &RulePricer{repo: repo}
}

// Refresh reloads the rule snapshot from the repository.
func (p *RulePricer) Refresh(ctx context.Context) error {
	rules, err := p.repo.GetAll(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.rules = rules
	p.mu.Unlock()

	return nil
}

func (p *RulePricer) UnitPrice(showtime *domain.Showtime, seat domain.SelectedSeat) decimal.Decimal {
	if showtime == nil {
		return decimal.Zero
	}

	p.mu.RLock()
	rules := p.rules
	p.mu.RUnlock()

	at := showtime.StartsAt
	if at.IsZero() {
		at = time.Now()
	}

	return domain.TicketPrice(showtime.BasePrice, "", at, rules)
}

// FixedPricer prices every seat at one unit price. Used by tests and as the
// fallback when no pricing repository is configured.
type FixedPricer struct {
	Price decimal.Decimal
}

func (p FixedPricer) UnitPrice(showtime *domain.Showtime, seat domain.SelectedSeat) decimal.Decimal {
	return p.Price
}
