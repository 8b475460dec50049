// Package checkout holds the single source of truth for an in-progress
// customer purchase: selected showtime and seats, the advisory seat lock,
// concession cart lines, and the resulting order id. State is keyed by the
// customer's browser session token and written through a storage port on
// every mutation, so it survives page reloads for the life of the session.
package checkout

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/cinetick/cinema-pos/internal/storage"
)

// Session is the persisted draft of one purchase. A session never holds
// seats for more than one showtime: SetTickets replaces the whole selection.
type Session struct {
	MovieID        int                   `json:"movieId,omitempty"`
	ShowtimeID     int                   `json:"showtimeId,omitempty"`
	Showtime       *domain.Showtime      `json:"showtime,omitempty"`
	Seats          []domain.SelectedSeat `json:"seats,omitempty"`
	SeatLock       *domain.SeatLock      `json:"seatLock,omitempty"`
	Cart           []domain.CartLine     `json:"cart,omitempty"`
	OrderID        string                `json:"orderId,omitempty"`
	TicketQuantity int                   `json:"ticketQuantity,omitempty"`
}

// Empty reports whether the session carries nothing worth keeping. The
// legacy migration uses this as its overwrite guard.
func (s Session) Empty() bool {
	return len(s.Seats) == 0 && len(s.Cart) == 0 && s.OrderID == "" && s.ShowtimeID == 0
}

// TicketSelection is the argument to SetTickets: everything that describes
// the chosen showtime, applied wholesale.
type TicketSelection struct {
	MovieID        int
	ShowtimeID     int
	Showtime       *domain.Showtime
	Seats          []domain.SelectedSeat
	SeatLock       *domain.SeatLock
	TicketQuantity int
}

// Store reads and mutates checkout sessions. All mutations are serialized by
// a single mutex, so two rapid cart additions both observe the latest state
// and neither increment is lost. Storage failures degrade: the mutated
// snapshot is still returned for the current call, and the miss is logged.
type Store struct {
	mu       sync.Mutex
	port     storage.Port
	logger   *slog.Logger
	migrated map[string]bool
}

func NewStore(port storage.Port, logger *slog.Logger) *Store {
	return &Store{
		port:     port,
		logger:   logger,
		migrated: make(map[string]bool),
	}
}

// Load rehydrates the session for the given token, falling back to an empty
// session when storage is unavailable or holds nothing.
func (s *Store) Load(ctx context.Context, sessionID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx, sessionID)
}

func (s *Store) load(ctx context.Context, sessionID string) Session {
	var session Session

	data, err := s.port.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error("failed to load checkout session", "error", err)
		return session
	}

	if len(data) == 0 {
		return session
	}

	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Error("failed to decode checkout session, starting fresh", "error", err)
		return Session{}
	}

	return session
}

func (s *Store) persist(ctx context.Context, sessionID string, session Session) {
	data, err := json.Marshal(session)
	if err != nil {
		s.logger.Error("failed to encode checkout session", "error", err)
		return
	}

	if err := s.port.Set(ctx, sessionID, data); err != nil {
		s.logger.Error("failed to persist checkout session", "error", err)
	}
}

// SetTickets replaces the movie, showtime, seat and lock fields wholesale.
// There is deliberately no partial merge: seats from a previously selected
// showtime must never leak into a new selection.
func (s *Store) SetTickets(ctx context.Context, sessionID string, sel TicketSelection) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.load(ctx, sessionID)

	session.MovieID = sel.MovieID
	session.ShowtimeID = sel.ShowtimeID
	session.Showtime = sel.Showtime
	session.Seats = sel.Seats
	session.SeatLock = sel.SeatLock
	session.TicketQuantity = sel.TicketQuantity
	if session.TicketQuantity == 0 {
		session.TicketQuantity = len(sel.Seats)
	}

	s.persist(ctx, sessionID, session)

	return session
}

// AddToCart increments the line for the product by one, appending a new line
// with quantity 1 when none exists.
func (s *Store) AddToCart(ctx context.Context, sessionID string, product domain.Product) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.load(ctx, sessionID)

	found := false
	for i := range session.Cart {
		if session.Cart[i].Product.ID == product.ID {
			session.Cart[i].Quantity++
			found = true
			break
		}
	}

	if !found {
		session.Cart = append(session.Cart, domain.CartLine{Product: product, Quantity: 1})
	}

	s.persist(ctx, sessionID, session)

	return session
}

// SetCartQuantity clamps quantity to >= 0; zero removes the line. A missing
// line is never created here: quantity steppers only adjust lines that were
// added through AddToCart.
func (s *Store) SetCartQuantity(ctx context.Context, sessionID string, productID, quantity int) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.load(ctx, sessionID)

	if quantity < 0 {
		quantity = 0
	}

	for i := range session.Cart {
		if session.Cart[i].Product.ID != productID {
			continue
		}

		if quantity == 0 {
			session.Cart = append(session.Cart[:i], session.Cart[i+1:]...)
		} else {
			session.Cart[i].Quantity = quantity
		}

		s.persist(ctx, sessionID, session)

		return session
	}

	return session
}

// ClearCart empties the cart lines, leaving tickets and order untouched.
func (s *Store) ClearCart(ctx context.Context, sessionID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.load(ctx, sessionID)
	session.Cart = nil

	s.persist(ctx, sessionID, session)

	return session
}

// SetOrderID records the order produced by checkout; the empty string clears it.
func (s *Store) SetOrderID(ctx context.Context, sessionID, orderID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.load(ctx, sessionID)
	session.OrderID = orderID

	s.persist(ctx, sessionID, session)

	return session
}

// Reset clears every field to the initial empty state, used after a completed
// or abandoned purchase.
func (s *Store) Reset(ctx context.Context, sessionID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.port.Remove(ctx, sessionID); err != nil {
		s.logger.Error("failed to reset checkout session", "error", err)
	}

	return Session{}
}
