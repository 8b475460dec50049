package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cinetick/cinema-pos/internal/domain"
)

// Legacy storage keys from before the checkout state was consolidated into a
// single session blob. They are read once per session, imported through the
// normal mutation operations, and then deleted.
const (
	legacyTicketsKey = "selectedTickets"
	legacyCartKey    = "cart"
)

type legacyTickets struct {
	MovieID        int                   `json:"movieId"`
	ShowtimeID     int                   `json:"showtimeId"`
	Showtime       *domain.Showtime      `json:"showtime"`
	Seats          []domain.SelectedSeat `json:"seats"`
	SeatLock       *domain.SeatLock      `json:"seatLock"`
	TicketQuantity int                   `json:"ticketQuantity"`
}

func legacyOrderKey(sessionID string, movieID int) string {
	return fmt.Sprintf("%s:order-%d", sessionID, movieID)
}

// MigrateLegacy imports the legacy flat keys into the consolidated session,
// at most once per session per process. It never overwrites live state: when
// the new store already has content the migration is skipped entirely and the
// legacy keys are left alone. Deleting the keys only after a successful
// import makes the whole procedure idempotent across page loads.
func (s *Store) MigrateLegacy(ctx context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.migrated[sessionID] {
		return
	}
	s.migrated[sessionID] = true

	session := s.load(ctx, sessionID)
	if !session.Empty() {
		return
	}

	ticketsKey := sessionID + ":" + legacyTicketsKey
	cartKey := sessionID + ":" + legacyCartKey

	ticketsData, err := s.port.Get(ctx, ticketsKey)
	if err != nil {
		s.logger.Error("failed to read legacy tickets key", "error", err)
		return
	}

	cartData, err := s.port.Get(ctx, cartKey)
	if err != nil {
		s.logger.Error("failed to read legacy cart key", "error", err)
		return
	}

	if len(ticketsData) == 0 && len(cartData) == 0 {
		return
	}

	touched := false

	if len(ticketsData) > 0 {
		var legacy legacyTickets

		if err := json.Unmarshal(ticketsData, &legacy); err != nil {
			s.logger.Warn("discarding undecodable legacy tickets data", "error", err)
		} else {
			session.MovieID = legacy.MovieID
			session.ShowtimeID = legacy.ShowtimeID
			session.Showtime = legacy.Showtime
			session.Seats = legacy.Seats
			session.SeatLock = legacy.SeatLock
			session.TicketQuantity = legacy.TicketQuantity
			if session.TicketQuantity == 0 {
				session.TicketQuantity = len(legacy.Seats)
			}
			touched = true

			// Legacy builds kept one order id per movie under its own key.
			orderData, err := s.port.Get(ctx, legacyOrderKey(sessionID, legacy.MovieID))
			if err != nil {
				s.logger.Error("failed to read legacy order key", "error", err)
			} else if len(orderData) > 0 {
				var orderID string
				if err := json.Unmarshal(orderData, &orderID); err != nil {
					orderID = string(orderData)
				}
				session.OrderID = orderID
				s.removeLegacy(ctx, legacyOrderKey(sessionID, legacy.MovieID))
			}
		}
	}

	if len(cartData) > 0 {
		var lines []domain.CartLine

		if err := json.Unmarshal(cartData, &lines); err != nil {
			s.logger.Warn("discarding undecodable legacy cart data", "error", err)
		} else {
			for _, line := range lines {
				if line.Quantity < 1 {
					continue
				}
				// Old builds could leave several lines for one product;
				// the cart keeps one line per product id.
				merged := false
				for i := range session.Cart {
					if session.Cart[i].Product.ID == line.Product.ID {
						session.Cart[i].Quantity += line.Quantity
						merged = true
						break
					}
				}
				if !merged {
					session.Cart = append(session.Cart, line)
				}
			}
			touched = len(session.Cart) > 0 || touched
		}
	}

	if !touched {
		return
	}

	s.persist(ctx, sessionID, session)
	s.removeLegacy(ctx, ticketsKey)
	s.removeLegacy(ctx, cartKey)
}

func (s *Store) removeLegacy(ctx context.Context, key string) {
	if err := s.port.Remove(ctx, key); err != nil {
		s.logger.Error("failed to delete legacy key", "key", key, "error", err)
	}
}
