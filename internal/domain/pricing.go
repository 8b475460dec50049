package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PricingRule adjusts a showtime's base ticket price. Rules are matched by
// seat type and weekday; the most specific active match wins (seat type and
// weekday beats seat type only beats weekday only).
type PricingRule struct {
	ID         int
	Name       string
	SeatType   string // empty matches any seat type
	Weekday    *time.Weekday
	Multiplier decimal.Decimal
	Surcharge  decimal.Decimal
	Active     bool
	CreatedAt  time.Time
	Version    int
}

// Matches reports whether the rule applies to the given seat type and date.
func (r PricingRule) Matches(seatType string, at time.Time) bool {
	if !r.Active {
		return false
	}
	if r.SeatType != "" && r.SeatType != seatType {
		return false
	}
	if r.Weekday != nil && *r.Weekday != at.Weekday() {
		return false
	}

	return true
}

func (r PricingRule) specificity() int {
	n := 0
	if r.SeatType != "" {
		n += 2
	}
	if r.Weekday != nil {
		n++
	}

	return n
}

// Apply returns the adjusted price for a base ticket price.
func (r PricingRule) Apply(base decimal.Decimal) decimal.Decimal {
	price := base
	if !r.Multiplier.IsZero() {
		price = price.Mul(r.Multiplier)
	}

	return price.Add(r.Surcharge)
}

type PricingRepository interface {
	GetAll(ctx context.Context) ([]*PricingRule, error)
	GetById(ctx context.Context, id int) (*PricingRule, error)
	Create(ctx context.Context, rule *PricingRule) error
	Update(ctx context.Context, rule *PricingRule) error
	Delete(ctx context.Context, id int) error
}

// TicketPrice resolves the unit price of one seat for a showtime by running
// the base price through the best matching rule. With no matching rule the
// base price stands.
func TicketPrice(base decimal.Decimal, seatType string, at time.Time, rules []*PricingRule) decimal.Decimal {
	var best *PricingRule

	for _, rule := range rules {
		if !rule.Matches(seatType, at) {
			continue
		}
		if best == nil || rule.specificity() > best.specificity() {
			best = rule
		}
	}

	if best == nil {
		return base
	}

	return best.Apply(base)
}
