// Package pos implements the staff point-of-sale session: a volatile cart
// combining retail products with a single showtime's ticket draft. Sessions
// live in process memory only and are lost on restart; staff sessions are
// short and supervised, so nothing here is persisted.
package pos

import (
	"sync"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/shopspring/decimal"
)

type Mode string

const (
	ModeProducts Mode = "products"
	ModeTickets  Mode = "tickets"
	ModeCheckout Mode = "checkout"
)

// TicketDraft is the not-yet-submitted seat selection for one showtime,
// owned exclusively by the POS session. The seat list never contains
// duplicate (row, seatNumber) pairs.
type TicketDraft struct {
	ShowtimeID int                   `json:"showtimeId"`
	Showtime   *domain.Showtime      `json:"showtime,omitempty"`
	Seats      []domain.SelectedSeat `json:"seats"`
	Locks      *domain.SeatLock      `json:"locks,omitempty"`
}

// Session is one terminal's in-progress sale.
type Session struct {
	mu sync.Mutex

	products []domain.CartLine
	draft    *TicketDraft
	mode     Mode

	pricer Pricer
}

// Pricer resolves the unit price of one draft seat. The POS totals go
// through the same pricing rules as the customer checkout.
type Pricer interface {
	UnitPrice(showtime *domain.Showtime, seat domain.SelectedSeat) decimal.Decimal
}

func NewSession(pricer Pricer) *Session {
	return &Session{
		mode:   ModeProducts,
		pricer: pricer,
	}
}

// Snapshot is a point-in-time copy of the session for rendering.
type Snapshot struct {
	Products      []domain.CartLine `json:"products"`
	TicketDraft   *TicketDraft      `json:"ticketDraft,omitempty"`
	Mode          Mode              `json:"mode"`
	ProductsTotal decimal.Decimal   `json:"productsTotal"`
	TicketsTotal  decimal.Decimal   `json:"ticketsTotal"`
	Total         decimal.Decimal   `json:"total"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	products := make([]domain.CartLine, len(s.products))
	copy(products, s.products)

	var draft *TicketDraft
	if s.draft != nil {
		cp := *s.draft
		cp.Seats = append([]domain.SelectedSeat(nil), s.draft.Seats...)
		draft = &cp
	}

	productsTotal := s.productsTotal()
	ticketsTotal := s.ticketsTotal()

	return Snapshot{
		Products:      products,
		TicketDraft:   draft,
		Mode:          s.mode,
		ProductsTotal: productsTotal,
		TicketsTotal:  ticketsTotal,
		Total:         productsTotal.Add(ticketsTotal),
	}
}

// AddProduct increments the line for the product by one, appending a new
// line with quantity 1 when none exists.
func (s *Session) AddProduct(product domain.Product) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].Product.ID == product.ID {
			s.products[i].Quantity++
			return s.snapshot()
		}
	}

	s.products = append(s.products, domain.CartLine{Product: product, Quantity: 1})

	return s.snapshot()
}

func (s *Session) RemoveProduct(productID int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeProduct(productID)

	return s.snapshot()
}

func (s *Session) removeProduct(productID int) {
	for i := range s.products {
		if s.products[i].Product.ID == productID {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return
		}
	}
}

// UpdateProductQuantity sets the quantity of an existing line; anything at or
// below zero routes to removal.
func (s *Session) UpdateProductQuantity(productID, quantity int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeProduct(productID)
		return s.snapshot()
	}

	for i := range s.products {
		if s.products[i].Product.ID == productID {
			s.products[i].Quantity = quantity
			break
		}
	}

	return s.snapshot()
}

// SetTicketDraft replaces the draft wholesale; nil clears it.
func (s *Session) SetTicketDraft(draft *TicketDraft) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if draft != nil {
		draft.Seats = dedupeSeats(draft.Seats)
	}
	s.draft = draft

	return s.snapshot()
}

// AddSeatsToDraft appends only the seats not already present, keyed by
// (row, seatNumber). Calling it twice with overlapping input is a no-op for
// the overlap.
func (s *Session) AddSeatsToDraft(seats []domain.SelectedSeat) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return s.snapshot()
	}

	existing := make(map[string]bool, len(s.draft.Seats))
	for _, seat := range s.draft.Seats {
		existing[seat.Key()] = true
	}

	for _, seat := range seats {
		if existing[seat.Key()] {
			continue
		}
		existing[seat.Key()] = true
		s.draft.Seats = append(s.draft.Seats, seat)
	}

	return s.snapshot()
}

// RemoveSeatsFromDraft removes exactly the seats whose key matches; all
// others are untouched.
func (s *Session) RemoveSeatsFromDraft(seats []domain.SelectedSeat) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return s.snapshot()
	}

	remove := make(map[string]bool, len(seats))
	for _, seat := range seats {
		remove[seat.Key()] = true
	}

	kept := s.draft.Seats[:0]
	for _, seat := range s.draft.Seats {
		if !remove[seat.Key()] {
			kept = append(kept, seat)
		}
	}
	s.draft.Seats = kept

	return s.snapshot()
}

func (s *Session) ClearTicketDraft() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = nil

	return s.snapshot()
}

// SetMode switches the active panel. Transitions are free: there is no guard
// against switching away with a non-empty cart.
func (s *Session) SetMode(mode Mode) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch mode {
	case ModeProducts, ModeTickets, ModeCheckout:
		s.mode = mode
	}

	return s.snapshot()
}

func (s *Session) productsTotal() decimal.Decimal {
	total := decimal.Zero

	for _, line := range s.products {
		total = total.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return total
}

func (s *Session) ticketsTotal() decimal.Decimal {
	total := decimal.Zero

	if s.draft == nil {
		return total
	}

	for _, seat := range s.draft.Seats {
		total = total.Add(s.pricer.UnitPrice(s.draft.Showtime, seat))
	}

	return total
}

func dedupeSeats(seats []domain.SelectedSeat) []domain.SelectedSeat {
	seen := make(map[string]bool, len(seats))
	out := seats[:0]

	for _, seat := range seats {
		if seen[seat.Key()] {
			continue
		}
		seen[seat.Key()] = true
		out = append(out, seat)
	}

	return out
}
