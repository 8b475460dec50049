package pos

import (
	"testing"
	"time"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func draftShowtime() *domain.Showtime {
	return &domain.Showtime{
		ID:        5,
		MovieID:   1,
		BasePrice: decimal.NewFromInt(10),
		StartsAt:  time.Date(2026, 9, 5, 19, 30, 0, 0, time.UTC),
	}
}

func TestAddProduct(t *testing.T) {
	session := NewSession(FixedPricer{Price: decimal.NewFromInt(10)})

	popcorn := domain.Product{ID: 1, Name: "Popcorn", Price: decimal.NewFromFloat(4.50)}
	soda := domain.Product{ID: 2, Name: "Soda", Price: decimal.NewFromFloat(3.00)}

	session.AddProduct(popcorn)
	session.AddProduct(soda)
	snap := session.AddProduct(popcorn)

	require.Len(t, snap.Products, 2)
	require.Equal(t, 2, snap.Products[0].Quantity)
	require.True(t, snap.ProductsTotal.Equal(decimal.NewFromInt(12)), "products total = %s", snap.ProductsTotal)
}

func TestUpdateProductQuantity(t *testing.T) {
	session := NewSession(FixedPricer{})
	popcorn := domain.Product{ID: 1, Price: decimal.NewFromFloat(4.50)}

	session.AddProduct(popcorn)

	snap := session.UpdateProductQuantity(1, 6)
	require.Equal(t, 6, snap.Products[0].Quantity)

	// Zero and below route to removal.
	snap = session.UpdateProductQuantity(1, 0)
	require.Empty(t, snap.Products)

	// Updating an absent line creates nothing.
	snap = session.UpdateProductQuantity(99, 3)
	require.Empty(t, snap.Products)
}

func TestTicketDraftSeatOperations(t *testing.T) {
	session := NewSession(FixedPricer{Price: decimal.NewFromInt(12)})

	snap := session.SetTicketDraft(&TicketDraft{
		ShowtimeID: 5,
		Showtime:   draftShowtime(),
		Seats: []domain.SelectedSeat{
			{Row: "A", SeatNumber: 1},
			{Row: "A", SeatNumber: 1},
			{Row: "A", SeatNumber: 2},
		},
	})
	require.Len(t, snap.TicketDraft.Seats, 2, "duplicate seats in the input collapse")

	snap = session.AddSeatsToDraft([]domain.SelectedSeat{
		{Row: "A", SeatNumber: 2},
		{Row: "B", SeatNumber: 7},
	})
	require.Len(t, snap.TicketDraft.Seats, 3)
	require.True(t, snap.TicketsTotal.Equal(decimal.NewFromInt(36)), "tickets total = %s", snap.TicketsTotal)

	snap = session.RemoveSeatsFromDraft([]domain.SelectedSeat{
		{Row: "A", SeatNumber: 1},
		{Row: "Z", SeatNumber: 99},
	})
	require.Equal(t, []domain.SelectedSeat{
		{Row: "A", SeatNumber: 2},
		{Row: "B", SeatNumber: 7},
	}, snap.TicketDraft.Seats)

	snap = session.ClearTicketDraft()
	require.Nil(t, snap.TicketDraft)
	require.True(t, snap.TicketsTotal.IsZero())
}

func TestAddSeatsWithoutDraftIsNoop(t *testing.T) {
	session := NewSession(FixedPricer{})

	snap := session.AddSeatsToDraft([]domain.SelectedSeat{{Row: "A", SeatNumber: 1}})
	require.Nil(t, snap.TicketDraft)
}

func TestSetModeIgnoresUnknownModes(t *testing.T) {
	session := NewSession(FixedPricer{})

	snap := session.SetMode(ModeTickets)
	require.Equal(t, ModeTickets, snap.Mode)

	snap = session.SetMode(Mode("standby"))
	require.Equal(t, ModeTickets, snap.Mode)
}

func TestSnapshotIsACopy(t *testing.T) {
	session := NewSession(FixedPricer{})
	session.AddProduct(domain.Product{ID: 1, Price: decimal.NewFromInt(2)})
	session.SetTicketDraft(&TicketDraft{ShowtimeID: 5, Seats: []domain.SelectedSeat{{Row: "A", SeatNumber: 1}}})

	snap := session.Snapshot()
	snap.Products[0].Quantity = 99
	snap.TicketDraft.Seats[0].Row = "Z"

	fresh := session.Snapshot()
	require.Equal(t, 1, fresh.Products[0].Quantity)
	require.Equal(t, "A", fresh.TicketDraft.Seats[0].Row)
}

func TestCombinedTotal(t *testing.T) {
	session := NewSession(FixedPricer{Price: decimal.NewFromInt(12)})

	session.AddProduct(domain.Product{ID: 1, Price: decimal.NewFromFloat(4.50)})
	session.SetTicketDraft(&TicketDraft{
		ShowtimeID: 5,
		Showtime:   draftShowtime(),
		Seats:      []domain.SelectedSeat{{Row: "A", SeatNumber: 1}},
	})

	snap := session.Snapshot()
	require.True(t, snap.Total.Equal(decimal.NewFromFloat(16.50)), "total = %s", snap.Total)
}

func TestRegistryScopesSessionsByTerminal(t *testing.T) {
	registry := NewRegistry(FixedPricer{})

	registry.Get("till-1").AddProduct(domain.Product{ID: 1, Price: decimal.NewFromInt(2)})

	require.Same(t, registry.Get("till-1"), registry.Get("till-1"))
	require.Empty(t, registry.Get("till-2").Snapshot().Products)

	registry.Drop("till-1")
	require.Empty(t, registry.Get("till-1").Snapshot().Products)
}
