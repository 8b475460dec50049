package app

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/cinetick/cinema-pos/api"
	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/cinetick/cinema-pos/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestGetShowtimes(t *testing.T) {
	var gotFilters domain.ShowtimeFilters
	app := newTestApplication(func(a *Application) {
		a.showtimeRepo = &mocks.MockShowtimeRepo{
			GetAllFunc: func(ctx context.Context, filters domain.ShowtimeFilters) ([]*domain.Showtime, error) {
				gotFilters = filters
				return []*domain.Showtime{testShowtime(1, 10)}, nil
			},
		}
	})

	t.Run("should reject a malformed date", func(t *testing.T) {
		w, r := executeRequest(t, http.MethodGet, "/showtimes?date=05-09-2026", nil)
		app.GetShowtimes(w, r)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should pass filters through to the repository", func(t *testing.T) {
		w, r := executeRequest(t, http.MethodGet, "/showtimes?date=2026-09-05&movieId=7", nil)
		app.GetShowtimes(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 7, gotFilters.MovieID)
		require.Equal(t, time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), gotFilters.Date)

		var resp api.ShowtimesResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Showtimes, 1)
		require.Equal(t, "Screen 1", resp.Showtimes[0].RoomName)
	})
}

func TestCreateShowtime(t *testing.T) {
	starts := time.Date(2026, 9, 5, 19, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{
			name:       "missing movie",
			body:       map[string]any{"roomId": 1, "startsAt": starts, "endsAt": starts.Add(2 * time.Hour), "basePrice": "10"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "negative price",
			body:       map[string]any{"movieId": 1, "roomId": 1, "startsAt": starts, "endsAt": starts.Add(2 * time.Hour), "basePrice": "-1"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ends before it starts",
			body:       map[string]any{"movieId": 1, "roomId": 1, "startsAt": starts, "endsAt": starts.Add(-time.Hour), "basePrice": "10"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "valid",
			body:       map[string]any{"movieId": 1, "roomId": 1, "startsAt": starts, "endsAt": starts.Add(2 * time.Hour), "basePrice": "12.50", "format": "IMAX"},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *domain.Showtime
			app := newTestApplication(func(a *Application) {
				a.showtimeRepo = &mocks.MockShowtimeRepo{
					CreateFunc: func(ctx context.Context, showtime *domain.Showtime) error {
						showtime.ID = 11
						created = showtime
						return nil
					},
				}
			})

			w, r := executeRequest(t, http.MethodPost, "/admin/showtimes", tt.body)
			app.CreateShowtime(w, r)

			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusCreated {
				require.True(t, created.BasePrice.Equal(decimal.NewFromFloat(12.50)))
				require.Equal(t, "IMAX", created.Format)

				var resp api.Showtime
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				require.Equal(t, 11, resp.Id)
			}
		})
	}
}
