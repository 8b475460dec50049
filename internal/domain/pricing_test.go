package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func weekday(d time.Weekday) *time.Weekday {
	return &d
}

func TestPricingRuleMatches(t *testing.T) {
	// 2026-09-05 is a Saturday.
	saturday := time.Date(2026, 9, 5, 19, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rule     PricingRule
		seatType string
		want     bool
	}{
		{name: "inactive never matches", rule: PricingRule{Active: false}, want: false},
		{name: "empty seat type matches any", rule: PricingRule{Active: true}, seatType: "vip", want: true},
		{name: "seat type mismatch", rule: PricingRule{Active: true, SeatType: "vip"}, seatType: "standard", want: false},
		{name: "weekday match", rule: PricingRule{Active: true, Weekday: weekday(time.Saturday)}, want: true},
		{name: "weekday mismatch", rule: PricingRule{Active: true, Weekday: weekday(time.Tuesday)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.rule.Matches(tt.seatType, saturday))
		})
	}
}

func TestPricingRuleApply(t *testing.T) {
	base := decimal.NewFromInt(10)

	tests := []struct {
		name string
		rule PricingRule
		want decimal.Decimal
	}{
		{name: "no adjustments keep the base", rule: PricingRule{}, want: decimal.NewFromInt(10)},
		{name: "multiplier only", rule: PricingRule{Multiplier: decimal.NewFromFloat(1.5)}, want: decimal.NewFromInt(15)},
		{name: "surcharge only", rule: PricingRule{Surcharge: decimal.NewFromInt(2)}, want: decimal.NewFromInt(12)},
		{
			name: "multiplier then surcharge",
			rule: PricingRule{Multiplier: decimal.NewFromFloat(1.5), Surcharge: decimal.NewFromInt(2)},
			want: decimal.NewFromInt(17),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule.Apply(base)
			require.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestTicketPricePicksMostSpecificRule(t *testing.T) {
	saturday := time.Date(2026, 9, 5, 19, 30, 0, 0, time.UTC)
	base := decimal.NewFromInt(10)

	rules := []*PricingRule{
		{Name: "weekend", Active: true, Weekday: weekday(time.Saturday), Surcharge: decimal.NewFromInt(1)},
		{Name: "vip", Active: true, SeatType: "vip", Surcharge: decimal.NewFromInt(5)},
		{Name: "vip weekend", Active: true, SeatType: "vip", Weekday: weekday(time.Saturday), Surcharge: decimal.NewFromInt(8)},
		{Name: "disabled blanket", Active: false, Surcharge: decimal.NewFromInt(100)},
	}

	tests := []struct {
		name     string
		seatType string
		at       time.Time
		want     decimal.Decimal
	}{
		{name: "vip on saturday takes the most specific rule", seatType: "vip", at: saturday, want: decimal.NewFromInt(18)},
		{name: "vip on a weekday takes the seat type rule", seatType: "vip", at: saturday.AddDate(0, 0, 3), want: decimal.NewFromInt(15)},
		{name: "standard on saturday takes the weekday rule", seatType: "standard", at: saturday, want: decimal.NewFromInt(11)},
		{name: "no match keeps the base", seatType: "standard", at: saturday.AddDate(0, 0, 3), want: decimal.NewFromInt(10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TicketPrice(base, tt.seatType, tt.at, rules)
			require.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}
