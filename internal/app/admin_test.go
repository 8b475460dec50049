package app

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cinetick/cinema-pos/api"
	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/cinetick/cinema-pos/internal/mocks"
	"github.com/cinetick/cinema-pos/internal/pos"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCreateRoom(t *testing.T) {
	tests := []struct {
		name       string
		body       api.RoomRequest
		wantStatus int
	}{
		{
			name:       "lowercase row label is rejected",
			body:       api.RoomRequest{Name: "Screen 2", Rows: []string{"A", "b"}, SeatsPerRow: 10},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "active defaults to true",
			body:       api.RoomRequest{Name: "Screen 2", Rows: []string{"A", "B"}, SeatsPerRow: 10},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "explicit inactive is honored",
			body:       api.RoomRequest{Name: "Screen 2", Rows: []string{"A", "B"}, SeatsPerRow: 10, Active: ptr(false)},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *domain.Room
			app := newTestApplication(func(a *Application) {
				a.roomRepo = &mocks.MockRoomRepo{
					CreateFunc: func(ctx context.Context, room *domain.Room) error {
						room.ID = 2
						created = room
						return nil
					},
				}
			})

			w, r := executeRequest(t, http.MethodPost, "/admin/rooms", tt.body)
			app.CreateRoom(w, r)

			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusCreated {
				wantActive := tt.body.Active == nil || *tt.body.Active
				require.Equal(t, wantActive, created.Active)

				var resp api.Room
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				require.Equal(t, 2, resp.Id)
			}
		})
	}
}

func TestUpdateRoom(t *testing.T) {
	tests := []struct {
		name       string
		roomID     string
		updateErr  error
		wantStatus int
	}{
		{name: "unknown room", roomID: "42", wantStatus: http.StatusNotFound},
		{name: "stale version", roomID: "1", updateErr: domain.ErrEditConflict, wantStatus: http.StatusConflict},
		{name: "updated", roomID: "1", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(func(a *Application) {
				a.roomRepo = &mocks.MockRoomRepo{
					GetByIdFunc: func(ctx context.Context, id int) (*domain.Room, error) {
						if id != 1 {
							return nil, domain.ErrRecordNotFound
						}
						return &domain.Room{ID: 1, Name: "Screen 1", Rows: []string{"A"}, SeatsPerRow: 8, Active: true}, nil
					},
					UpdateFunc: func(ctx context.Context, room *domain.Room) error {
						return tt.updateErr
					},
				}
			})

			body := api.RoomRequest{Name: "Screen 1 IMAX", Rows: []string{"A", "B"}, SeatsPerRow: 12}
			w, r := executeRequest(t, http.MethodPatch, "/admin/rooms/"+tt.roomID, body)
			r = withURLParams(r, map[string]string{"roomId": tt.roomID})
			app.UpdateRoom(w, r)

			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// pricingTestApp wires a pricing repo whose rule set the handlers mutate, so
// the test can observe that mutations re-snapshot the POS pricer.
func pricingTestApp(rules *[]*domain.PricingRule) *Application {
	repo := &mocks.MockPricingRepo{
		GetAllFunc: func(ctx context.Context) ([]*domain.PricingRule, error) {
			return *rules, nil
		},
		GetByIdFunc: func(ctx context.Context, id int) (*domain.PricingRule, error) {
			for _, rule := range *rules {
				if rule.ID == id {
					return rule, nil
				}
			}
			return nil, domain.ErrRecordNotFound
		},
		CreateFunc: func(ctx context.Context, rule *domain.PricingRule) error {
			rule.ID = len(*rules) + 1
			*rules = append(*rules, rule)
			return nil
		},
		DeleteFunc: func(ctx context.Context, id int) error {
			for i, rule := range *rules {
				if rule.ID == id {
					*rules = append((*rules)[:i], (*rules)[i+1:]...)
					return nil
				}
			}
			return domain.ErrRecordNotFound
		},
	}

	return newTestApplication(func(a *Application) {
		a.pricingRepo = repo
		a.pricer = pos.NewRulePricer(repo)
	})
}

func TestPricingRuleMutationsRefreshThePricer(t *testing.T) {
	rules := []*domain.PricingRule{}
	app := pricingTestApp(&rules)

	showtime := testShowtime(1, 10)
	seat := domain.SelectedSeat{Row: "A", SeatNumber: 1}

	require.True(t, app.pricer.UnitPrice(showtime, seat).Equal(decimal.NewFromInt(10)))

	w, r := executeRequest(t, http.MethodPost, "/admin/pricing-rules", api.PricingRuleRequest{
		Name:      "blanket surcharge",
		Surcharge: decimal.NewFromInt(2),
	})
	app.CreatePricingRule(w, r)
	require.Equal(t, http.StatusCreated, w.Code)

	// The very next draft prices through the new rule.
	require.True(t, app.pricer.UnitPrice(showtime, seat).Equal(decimal.NewFromInt(12)))

	w, r = executeRequest(t, http.MethodDelete, "/admin/pricing-rules/1", nil)
	r = withURLParams(r, map[string]string{"ruleId": "1"})
	app.DeletePricingRule(w, r)
	require.Equal(t, http.StatusNoContent, w.Code)

	require.True(t, app.pricer.UnitPrice(showtime, seat).Equal(decimal.NewFromInt(10)))
}

func TestDeletePricingRuleNotFound(t *testing.T) {
	rules := []*domain.PricingRule{}
	app := pricingTestApp(&rules)

	w, r := executeRequest(t, http.MethodDelete, "/admin/pricing-rules/9", nil)
	r = withURLParams(r, map[string]string{"ruleId": "9"})
	app.DeletePricingRule(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
}
