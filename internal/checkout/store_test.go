package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/cinetick/cinema-pos/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(storage.NewMemoryStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func popcorn() domain.Product {
	return domain.Product{ID: 1, Name: "Popcorn", Price: decimal.NewFromFloat(4.50), Active: true}
}

func soda() domain.Product {
	return domain.Product{ID: 2, Name: "Soda", Price: decimal.NewFromFloat(3.00), Active: true}
}

func TestLoadMissingSessionIsEmpty(t *testing.T) {
	store := newTestStore()

	session := store.Load(context.Background(), "tok-1")
	require.True(t, session.Empty())
}

func TestAddToCartIncrementsExistingLine(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	store.AddToCart(ctx, "tok-1", popcorn())
	store.AddToCart(ctx, "tok-1", soda())
	session := store.AddToCart(ctx, "tok-1", popcorn())

	require.Len(t, session.Cart, 2)
	require.Equal(t, 2, session.Cart[0].Quantity)
	require.Equal(t, 1, session.Cart[1].Quantity)
}

func TestSetCartQuantity(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	store.AddToCart(ctx, "tok-1", popcorn())

	session := store.SetCartQuantity(ctx, "tok-1", 1, 4)
	require.Equal(t, 4, session.Cart[0].Quantity)

	// Zero (and anything below) removes the line.
	session = store.SetCartQuantity(ctx, "tok-1", 1, -3)
	require.Empty(t, session.Cart)

	// A quantity for a product that was never added creates nothing.
	session = store.SetCartQuantity(ctx, "tok-1", 99, 5)
	require.Empty(t, session.Cart)
}

func TestSetTicketsReplacesSelectionWholesale(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	store.SetTickets(ctx, "tok-1", TicketSelection{
		MovieID:    1,
		ShowtimeID: 10,
		Seats: []domain.SelectedSeat{
			{Row: "A", SeatNumber: 1},
			{Row: "A", SeatNumber: 2},
		},
	})

	session := store.SetTickets(ctx, "tok-1", TicketSelection{
		MovieID:    2,
		ShowtimeID: 20,
		Seats:      []domain.SelectedSeat{{Row: "C", SeatNumber: 5}},
	})

	require.Equal(t, 20, session.ShowtimeID)
	require.Equal(t, []domain.SelectedSeat{{Row: "C", SeatNumber: 5}}, session.Seats)
	require.Equal(t, 1, session.TicketQuantity, "quantity defaults to the seat count")
}

func TestSessionSurvivesRehydration(t *testing.T) {
	port := storage.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	first := NewStore(port, logger)
	first.AddToCart(ctx, "tok-1", popcorn())
	first.SetOrderID(ctx, "tok-1", "ord-7")

	// A new Store over the same port sees the persisted state.
	second := NewStore(port, logger)
	session := second.Load(ctx, "tok-1")

	require.Len(t, session.Cart, 1)
	require.Equal(t, "ord-7", session.OrderID)
}

func TestResetClearsEverything(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	store.AddToCart(ctx, "tok-1", popcorn())
	store.SetOrderID(ctx, "tok-1", "ord-7")

	session := store.Reset(ctx, "tok-1")
	require.True(t, session.Empty())

	session = store.Load(ctx, "tok-1")
	require.True(t, session.Empty())
}

type failingPort struct{}

func (failingPort) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("backend down")
}

func (failingPort) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("backend down")
}

func (failingPort) Remove(ctx context.Context, key string) error {
	return errors.New("backend down")
}

func TestStorageFailureStillReturnsMutatedSnapshot(t *testing.T) {
	store := NewStore(failingPort{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	session := store.AddToCart(context.Background(), "tok-1", popcorn())

	require.Len(t, session.Cart, 1)
	require.Equal(t, 1, session.Cart[0].Quantity)
}
