package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cinetick/cinema-pos/api"
	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/cinetick/cinema-pos/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func checkoutTestApp() *Application {
	return newTestApplication(func(a *Application) {
		a.showtimeRepo = &mocks.MockShowtimeRepo{
			GetByIdFunc: func(ctx context.Context, id int) (*domain.Showtime, error) {
				if id == 404 {
					return nil, domain.ErrRecordNotFound
				}
				return testShowtime(id, 10), nil
			},
		}
		a.productRepo = &mocks.MockProductRepo{
			GetByIdFunc: func(ctx context.Context, id int) (*domain.Product, error) {
				if id == 404 {
					return nil, domain.ErrRecordNotFound
				}
				return &domain.Product{ID: id, Name: "Nachos", Price: decimal.NewFromFloat(5.25), Active: true}, nil
			},
		}
	})
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) api.CheckoutSessionResponse {
	t.Helper()

	var resp api.CheckoutSessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	return resp
}

func TestGetCheckoutSessionStartsEmpty(t *testing.T) {
	app := checkoutTestApp()

	w, r := executeRequest(t, http.MethodGet, "/checkout/session", nil)
	r = withSession(t, app, r)

	app.GetCheckoutSession(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeSession(t, w)
	require.Zero(t, resp.Session.ShowtimeId)
	require.Empty(t, resp.Session.Seats)
	require.Empty(t, resp.Session.Cart)
}

func TestSetCheckoutTickets(t *testing.T) {
	t.Run("rejects a showtime from another movie", func(t *testing.T) {
		app := checkoutTestApp()

		body := api.SetTicketsRequest{
			MovieId:    2,
			ShowtimeId: 1,
			Seats:      []api.SelectedSeatRequest{{Row: "A", SeatNumber: 1}},
		}

		w, r := executeRequest(t, http.MethodPost, "/checkout/session/tickets", body)
		r = withSession(t, app, r)

		app.SetCheckoutTickets(w, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("replaces the selection wholesale", func(t *testing.T) {
		app := checkoutTestApp()

		first := api.SetTicketsRequest{
			MovieId:    1,
			ShowtimeId: 1,
			Seats: []api.SelectedSeatRequest{
				{Row: "A", SeatNumber: 1},
				{Row: "A", SeatNumber: 2},
			},
		}

		w, r := executeRequest(t, http.MethodPost, "/checkout/session/tickets", first)
		r = withSession(t, app, r)
		app.SetCheckoutTickets(w, r)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeSession(t, w)
		require.Len(t, resp.Session.Seats, 2)
		require.NotNil(t, resp.Session.SeatLock)
		require.Len(t, resp.Session.SeatLock.Locks, 2)
		require.Equal(t, 2, resp.Session.TicketQuantity)

		second := api.SetTicketsRequest{
			MovieId:    1,
			ShowtimeId: 2,
			Seats:      []api.SelectedSeatRequest{{Row: "C", SeatNumber: 5}},
		}

		w2, r2 := executeRequest(t, http.MethodPost, "/checkout/session/tickets", second)
		r2 = withSession(t, app, r2)
		app.SetCheckoutTickets(w2, r2)
		require.Equal(t, http.StatusOK, w2.Code)

		resp2 := decodeSession(t, w2)
		require.Equal(t, 2, resp2.Session.ShowtimeId)
		require.Equal(t, []domain.SelectedSeat{{Row: "C", SeatNumber: 5}}, resp2.Session.Seats)
	})
}

func TestAddToCheckoutCartUnknownProduct(t *testing.T) {
	app := checkoutTestApp()

	w, r := executeRequest(t, http.MethodPost, "/checkout/session/cart", api.AddToCartRequest{ProductId: 404})
	r = withSession(t, app, r)
	app.AddToCheckoutCart(w, r)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutCartQuantityLifecycle(t *testing.T) {
	app := checkoutTestApp()

	// All requests share one scs session so they mutate the same draft.
	w, r := executeRequest(t, http.MethodPost, "/checkout/session/cart", api.AddToCartRequest{ProductId: 3})
	r = withSession(t, app, r)
	sessionCtx := r.Context()
	app.AddToCheckoutCart(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSession(t, w)
	require.Len(t, resp.Session.Cart, 1)
	require.Equal(t, 1, resp.Session.Cart[0].Quantity)

	w2, r2 := executeRequest(t, http.MethodPatch, "/checkout/session/cart", api.SetCartQuantityRequest{ProductId: 3, Quantity: 4})
	r2 = r2.WithContext(sessionCtx)
	app.SetCheckoutCartQuantity(w2, r2)
	require.Equal(t, http.StatusOK, w2.Code)

	resp2 := decodeSession(t, w2)
	require.Len(t, resp2.Session.Cart, 1)
	require.Equal(t, 4, resp2.Session.Cart[0].Quantity)

	w3, r3 := executeRequest(t, http.MethodPatch, "/checkout/session/cart", api.SetCartQuantityRequest{ProductId: 3, Quantity: 0})
	r3 = r3.WithContext(sessionCtx)
	app.SetCheckoutCartQuantity(w3, r3)
	require.Equal(t, http.StatusOK, w3.Code)

	resp3 := decodeSession(t, w3)
	require.Empty(t, resp3.Session.Cart)

	w4, r4 := executeRequest(t, http.MethodDelete, "/checkout/session", nil)
	r4 = r4.WithContext(sessionCtx)
	app.ResetCheckoutSession(w4, r4)
	require.Equal(t, http.StatusOK, w4.Code)

	resp4 := decodeSession(t, w4)
	require.Zero(t, resp4.Session.ShowtimeId)
	require.Empty(t, resp4.Session.Seats)
	require.Empty(t, resp4.Session.Cart)
	require.Empty(t, resp4.Session.OrderId)
}

func TestSetCheckoutOrder(t *testing.T) {
	app := checkoutTestApp()
	app.orderRepo = &mocks.MockOrderRepo{
		GetByIdFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			if id != "ord-9" {
				return nil, domain.ErrRecordNotFound
			}
			return &domain.Order{ID: id}, nil
		},
	}

	t.Run("binds an existing order", func(t *testing.T) {
		w, r := executeRequest(t, http.MethodPost, "/checkout/session/order", api.SetOrderRequest{OrderId: "ord-9"})
		r = withSession(t, app, r)

		app.SetCheckoutOrder(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeSession(t, w)
		require.Equal(t, "ord-9", resp.Session.OrderId)
	})

	t.Run("404 for an unknown order", func(t *testing.T) {
		w, r := executeRequest(t, http.MethodPost, "/checkout/session/order", api.SetOrderRequest{OrderId: "nope"})
		r = withSession(t, app, r)

		app.SetCheckoutOrder(w, r)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
