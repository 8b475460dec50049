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
	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLockSeats(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		showtimeRepo   *mocks.MockShowtimeRepo
		orderRepo      *mocks.MockOrderRepo
		wantStatus     int
		wantErrMessage string
		wantLocks      int
	}{
		{
			name: "fails validation without seats",
			body: api.LockSeatsRequest{ShowtimeId: 1},

			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "fails when the showtime does not exist",
			body: api.LockSeatsRequest{
				ShowtimeId: 99,
				Seats:      []api.SelectedSeatRequest{{Row: "A", SeatNumber: 1}},
			},
			showtimeRepo: &mocks.MockShowtimeRepo{
				GetByIdFunc: func(ctx context.Context, id int) (*domain.Showtime, error) {
					return nil, domain.ErrRecordNotFound
				},
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "conflicts when a seat is already sold",
			body: api.LockSeatsRequest{
				ShowtimeId: 1,
				Seats:      []api.SelectedSeatRequest{{Row: "A", SeatNumber: 1}},
			},
			showtimeRepo: &mocks.MockShowtimeRepo{
				GetByIdFunc: func(ctx context.Context, id int) (*domain.Showtime, error) {
					return testShowtime(id, 12), nil
				},
			},
			orderRepo: &mocks.MockOrderRepo{
				GetSeatsByShowtimeFunc: func(ctx context.Context, showtimeID int) ([]domain.SelectedSeat, error) {
					return []domain.SelectedSeat{{Row: "A", SeatNumber: 1}}, nil
				},
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: "some of the selected seats are already reserved",
		},
		{
			name: "grants holds and dedupes repeated seats",
			body: api.LockSeatsRequest{
				ShowtimeId: 1,
				Seats: []api.SelectedSeatRequest{
					{Row: "A", SeatNumber: 1},
					{Row: "A", SeatNumber: 1},
					{Row: "A", SeatNumber: 2},
				},
			},
			showtimeRepo: &mocks.MockShowtimeRepo{
				GetByIdFunc: func(ctx context.Context, id int) (*domain.Showtime, error) {
					return testShowtime(id, 12), nil
				},
			},
			orderRepo: &mocks.MockOrderRepo{
				GetSeatsByShowtimeFunc: func(ctx context.Context, showtimeID int) ([]domain.SelectedSeat, error) {
					return nil, nil
				},
			},
			wantStatus: http.StatusOK,
			wantLocks:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(func(a *Application) {
				a.showtimeRepo = tt.showtimeRepo
				a.orderRepo = tt.orderRepo
			})

			w, r := executeRequest(t, http.MethodPost, "/orders/lock-seats", tt.body)
			r = withSession(t, app, r)

			app.LockSeats(w, r)

			require.Equal(t, tt.wantStatus, w.Code)
			checkErrorResponse(t, w, tt.wantStatus, tt.wantErrMessage)

			if tt.wantStatus == http.StatusOK {
				var resp api.LockSeatsResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				require.Len(t, resp.Locks, tt.wantLocks)
				require.False(t, resp.ExpiresAt.IsZero())
				for _, lock := range resp.Locks {
					require.Equal(t, 1, lock.ShowtimeID)
					require.NotEmpty(t, lock.ID)
				}
			}
		})
	}
}

func TestTryLockSeats(t *testing.T) {
	seats := []domain.SelectedSeat{
		{Row: "A", SeatNumber: 1},
		{Row: "B", SeatNumber: 3},
	}

	t.Run("locks every seat and registers set members", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		app := newTestApplication(func(a *Application) {
			a.redis = client
		})

		keys := []string{"seat_lock:7:A-1", "seat_lock:7:B-3"}
		mock.ExpectEvalSha(lockSeatsScript.Hash(), keys, "sess-1", int(seatLockTTL.Seconds())).SetVal("OK")
		mock.ExpectTxPipeline()
		mock.ExpectSAdd("seat_locks:7", "A-1", "B-3").SetVal(2)
		mock.ExpectTxPipelineExec()

		err := app.tryLockSeats(context.Background(), 7, seats, "sess-1")

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("noop without redis", func(t *testing.T) {
		app := newTestApplication()

		err := app.tryLockSeats(context.Background(), 7, seats, "sess-1")

		require.NoError(t, err)
	})
}

func TestCreateOrder(t *testing.T) {
	productID := 3

	app := newTestApplication(func(a *Application) {
		a.showtimeRepo = &mocks.MockShowtimeRepo{
			GetByIdFunc: func(ctx context.Context, id int) (*domain.Showtime, error) {
				return testShowtime(id, 10), nil
			},
		}
		a.productRepo = &mocks.MockProductRepo{
			GetByIdFunc: func(ctx context.Context, id int) (*domain.Product, error) {
				return &domain.Product{ID: id, Name: "Popcorn", Price: decimal.NewFromFloat(4.50), Active: true}, nil
			},
		}
	})

	var created *domain.Order
	app.orderRepo = &mocks.MockOrderRepo{
		CreateFunc: func(ctx context.Context, order *domain.Order) error {
			created = order
			return nil
		},
	}

	var storedPayment *domain.Payment
	app.paymentRepo = &mocks.MockPaymentRepo{
		CreateFunc: func(ctx context.Context, payment *domain.Payment) error {
			storedPayment = payment
			return nil
		},
	}

	app.paymentProvider = &mocks.MockPaymentProvider{
		CreatePaymentFunc: func(ctx context.Context, order *domain.Order, customerEmail string) (*domain.PaymentIntent, error) {
			return &domain.PaymentIntent{
				ID:        "pay-123",
				QrCodeUrl: "https://pay.example/qr/pay-123",
				ExpiresAt: time.Now().Add(10 * time.Minute),
			}, nil
		},
	}

	body := api.CreateOrderRequest{
		Channel: "web",
		Items: []api.OrderItemRequest{
			{Type: "ticket", ShowtimeId: ptr(1), Row: ptr("A"), SeatNumber: ptr(1), Quantity: 1},
			{Type: "ticket", ShowtimeId: ptr(1), Row: ptr("A"), SeatNumber: ptr(2), Quantity: 1},
			{Type: "product", ProductId: ptr(productID), Quantity: 2},
		},
	}

	w, r := executeRequest(t, http.MethodPost, "/orders", body)
	r = withSession(t, app, r)

	app.CreateOrder(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, created)
	require.Equal(t, domain.OrderStatusPending, created.Status)
	require.Equal(t, "pay-123", created.PaymentID)

	// 2 tickets at the base price of 10 plus 2 popcorns at 4.50.
	require.True(t, created.Total.Equal(decimal.NewFromInt(29)), "total = %s", created.Total)

	require.NotNil(t, storedPayment)
	require.Equal(t, created.ID, storedPayment.OrderID)
	require.Equal(t, domain.PaymentStatusPending, storedPayment.Status)

	var resp api.OrderResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, created.ID, resp.Order.Id)
	require.Len(t, resp.Order.Items, 3)
	require.NotNil(t, resp.Payment)
	require.Equal(t, "pay-123", resp.Payment.Id)
}

func TestCreateOrderRejectsBadItems(t *testing.T) {
	tests := []struct {
		name       string
		body       api.CreateOrderRequest
		wantStatus int
	}{
		{
			name:       "no items",
			body:       api.CreateOrderRequest{Channel: "web"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown channel",
			body: api.CreateOrderRequest{
				Channel: "kiosk",
				Items:   []api.OrderItemRequest{{Type: "product", ProductId: ptr(1), Quantity: 1}},
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "ticket without seat coordinates",
			body: api.CreateOrderRequest{
				Channel: "web",
				Items:   []api.OrderItemRequest{{Type: "ticket", ShowtimeId: ptr(1), Quantity: 1}},
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "ticket with quantity above one",
			body: api.CreateOrderRequest{
				Channel: "web",
				Items: []api.OrderItemRequest{
					{Type: "ticket", ShowtimeId: ptr(1), Row: ptr("A"), SeatNumber: ptr(1), Quantity: 2},
				},
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate ticket seats",
			body: api.CreateOrderRequest{
				Channel: "web",
				Items: []api.OrderItemRequest{
					{Type: "ticket", ShowtimeId: ptr(1), Row: ptr("A"), SeatNumber: ptr(1), Quantity: 1},
					{Type: "ticket", ShowtimeId: ptr(1), Row: ptr("A"), SeatNumber: ptr(1), Quantity: 1},
				},
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(func(a *Application) {
				a.showtimeRepo = &mocks.MockShowtimeRepo{
					GetByIdFunc: func(ctx context.Context, id int) (*domain.Showtime, error) {
						return testShowtime(id, 10), nil
					},
				}
			})

			w, r := executeRequest(t, http.MethodPost, "/orders", tt.body)
			r = withSession(t, app, r)

			app.CreateOrder(w, r)

			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestGetOrder(t *testing.T) {
	order := &domain.Order{
		ID:      "ord-1",
		Channel: domain.OrderChannelWeb,
		Status:  domain.OrderStatusPaid,
		Total:   decimal.NewFromInt(20),
	}

	app := newTestApplication(func(a *Application) {
		a.orderRepo = &mocks.MockOrderRepo{
			GetByIdFunc: func(ctx context.Context, id string) (*domain.Order, error) {
				if id != order.ID {
					return nil, domain.ErrRecordNotFound
				}
				return order, nil
			},
		}
		a.paymentRepo = &mocks.MockPaymentRepo{
			GetByOrderIdFunc: func(ctx context.Context, orderID string) (*domain.Payment, error) {
				return &domain.Payment{ID: "pay-1", OrderID: orderID, Status: domain.PaymentStatusApproved}, nil
			},
		}
	})

	t.Run("returns order with payment", func(t *testing.T) {
		w, r := executeRequest(t, http.MethodGet, "/orders/ord-1", nil)
		r = withURLParams(r, map[string]string{"orderId": "ord-1"})

		app.GetOrder(w, r)

		require.Equal(t, http.StatusOK, w.Code)

		var resp api.OrderResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Equal(t, "ord-1", resp.Order.Id)
		require.Equal(t, "PAID", resp.Order.Status)
		require.NotNil(t, resp.Payment)
		require.Equal(t, "APPROVED", resp.Payment.Status)
	})

	t.Run("404 for unknown order", func(t *testing.T) {
		w, r := executeRequest(t, http.MethodGet, "/orders/nope", nil)
		r = withURLParams(r, map[string]string{"orderId": "nope"})

		app.GetOrder(w, r)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestExpireOrders(t *testing.T) {
	pending := &domain.Order{
		ID:      "ord-old",
		Status:  domain.OrderStatusPending,
		Channel: domain.OrderChannelWeb,
		Items: []domain.OrderItem{
			{Type: domain.OrderItemTicket, ShowtimeID: ptr(5), Row: ptr("A"), SeatNumber: ptr(1), Quantity: 1},
		},
	}

	var updated []string
	app := newTestApplication(func(a *Application) {
		a.orderRepo = &mocks.MockOrderRepo{
			GetExpiredPendingFunc: func(ctx context.Context, olderThan time.Time) ([]*domain.Order, error) {
				return []*domain.Order{pending}, nil
			},
			UpdateStatusFunc: func(ctx context.Context, id string, status domain.OrderStatus) error {
				require.Equal(t, domain.OrderStatusExpired, status)
				updated = append(updated, id)
				return nil
			},
		}
	})

	app.expireOrders(context.Background())

	require.Equal(t, []string{"ord-old"}, updated)
}

func TestExpireOrdersToleratesRaces(t *testing.T) {
	pending := &domain.Order{ID: "ord-raced", Status: domain.OrderStatusPending}

	app := newTestApplication(func(a *Application) {
		a.orderRepo = &mocks.MockOrderRepo{
			GetExpiredPendingFunc: func(ctx context.Context, olderThan time.Time) ([]*domain.Order, error) {
				return []*domain.Order{pending}, nil
			},
			UpdateStatusFunc: func(ctx context.Context, id string, status domain.OrderStatus) error {
				return domain.ErrEditConflict
			},
		}
	})

	// Must not panic or error out; the order is simply skipped.
	app.expireOrders(context.Background())
}
