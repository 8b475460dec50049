package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cinetick/cinema-pos/api"
	"github.com/cinetick/cinema-pos/internal/checkout"
	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/google/uuid"
)

// checkoutSessionID resolves the caller's checkout session token and folds in
// any state left behind by the legacy per-movie session keys.
func (app *Application) checkoutSessionID(r *http.Request) string {
	sessionID := app.sessionManager.Token(r.Context())
	app.checkoutStore.MigrateLegacy(r.Context(), sessionID)

	return sessionID
}

func checkoutSessionPayload(session checkout.Session) api.CheckoutSessionResponse {
	return api.CheckoutSessionResponse{Session: api.CheckoutSession{
		MovieId:        session.MovieID,
		ShowtimeId:     session.ShowtimeID,
		Showtime:       session.Showtime,
		Seats:          session.Seats,
		SeatLock:       session.SeatLock,
		Cart:           session.Cart,
		OrderId:        session.OrderID,
		TicketQuantity: session.TicketQuantity,
	}}
}

func (app *Application) GetCheckoutSession(w http.ResponseWriter, r *http.Request) {
	sessionID := app.checkoutSessionID(r)
	session := app.checkoutStore.Load(r.Context(), sessionID)

	err := app.writeJSON(w, http.StatusOK, checkoutSessionPayload(session), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// SetCheckoutTickets replaces the session's seat selection wholesale: the
// requested seats are locked first, and only a fully successful lock updates
// the session. Seats from an earlier selection are released.
func (app *Application) SetCheckoutTickets(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.SetTicketsRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	showtime, err := app.showtimeRepo.GetById(r.Context(), input.ShowtimeId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if showtime.MovieID != input.MovieId {
		app.badRequestResponse(w, r, fmt.Errorf("showtime %d does not belong to movie %d", input.ShowtimeId, input.MovieId))
		return
	}

	seats := dedupeSelectedSeats(toSelectedSeats(input.Seats))
	sessionID := app.checkoutSessionID(r)

	err = app.tryLockSeats(r.Context(), input.ShowtimeId, seats, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatAlreadyLocked):
			logger.Warn("ticket selection conflict: seat already locked", "showtime_id", input.ShowtimeId)
			app.metrics.lockConflicts.Inc()
			app.editConflictResponseWithErr(w, r, fmt.Errorf("some of the selected seats are already reserved"))
		default:
			app.serverErrorResponse(w, r, fmt.Errorf("seats couldn't be acquired: %w", err))
		}

		return
	}

	app.metrics.seatsLocked.Add(float64(len(seats)))

	// Release the previous selection before it expires on its own.
	previous := app.checkoutStore.Load(r.Context(), sessionID)
	if previous.ShowtimeID != 0 && len(previous.Seats) > 0 {
		app.releaseSeatLocks(r.Context(), previous.ShowtimeID, previous.Seats)
		app.publishSeatEvent(r.Context(), previous.ShowtimeID)
	}

	expiresAt := time.Now().Add(seatLockTTL)
	holds := make([]domain.SeatHold, len(seats))
	for i, seat := range seats {
		holds[i] = domain.SeatHold{
			ID:          uuid.NewString(),
			ShowtimeID:  input.ShowtimeId,
			Row:         seat.Row,
			SeatNumber:  seat.SeatNumber,
			LockedUntil: expiresAt,
		}
	}

	ticketQuantity := input.TicketQuantity
	if ticketQuantity == 0 {
		ticketQuantity = len(seats)
	}

	session := app.checkoutStore.SetTickets(r.Context(), sessionID, checkout.TicketSelection{
		MovieID:        input.MovieId,
		ShowtimeID:     input.ShowtimeId,
		Showtime:       showtime,
		Seats:          seats,
		SeatLock:       &domain.SeatLock{ExpiresAt: expiresAt, Locks: holds},
		TicketQuantity: ticketQuantity,
	})

	app.publishSeatEvent(r.Context(), input.ShowtimeId)

	err = app.writeJSON(w, http.StatusOK, checkoutSessionPayload(session), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) AddToCheckoutCart(w http.ResponseWriter, r *http.Request) {
	var input api.AddToCartRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	product, err := app.productRepo.GetById(r.Context(), input.ProductId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if !product.Active {
		app.badRequestResponse(w, r, fmt.Errorf("product %d is not available", product.ID))
		return
	}

	sessionID := app.checkoutSessionID(r)
	session := app.checkoutStore.AddToCart(r.Context(), sessionID, *product)

	err = app.writeJSON(w, http.StatusOK, checkoutSessionPayload(session), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) SetCheckoutCartQuantity(w http.ResponseWriter, r *http.Request) {
	var input api.SetCartQuantityRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	sessionID := app.checkoutSessionID(r)
	session := app.checkoutStore.SetCartQuantity(r.Context(), sessionID, input.ProductId, input.Quantity)

	err = app.writeJSON(w, http.StatusOK, checkoutSessionPayload(session), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ClearCheckoutCart(w http.ResponseWriter, r *http.Request) {
	sessionID := app.checkoutSessionID(r)
	session := app.checkoutStore.ClearCart(r.Context(), sessionID)

	err := app.writeJSON(w, http.StatusOK, checkoutSessionPayload(session), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// SetCheckoutOrder binds a created order to the session so the client can
// resume polling after a reload. An empty order id detaches the current one.
func (app *Application) SetCheckoutOrder(w http.ResponseWriter, r *http.Request) {
	var input api.SetOrderRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if input.OrderId != "" {
		_, err = app.orderRepo.GetById(r.Context(), input.OrderId)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrRecordNotFound):
				app.notFoundResponse(w, r)
			default:
				app.serverErrorResponse(w, r, err)
			}
			return
		}
	}

	sessionID := app.checkoutSessionID(r)
	session := app.checkoutStore.SetOrderID(r.Context(), sessionID, input.OrderId)

	err = app.writeJSON(w, http.StatusOK, checkoutSessionPayload(session), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ResetCheckoutSession drops the whole purchase draft and frees any seats the
// session still holds.
func (app *Application) ResetCheckoutSession(w http.ResponseWriter, r *http.Request) {
	sessionID := app.checkoutSessionID(r)

	previous := app.checkoutStore.Load(r.Context(), sessionID)
	if previous.ShowtimeID != 0 && len(previous.Seats) > 0 {
		app.releaseSeatLocks(r.Context(), previous.ShowtimeID, previous.Seats)
		app.publishSeatEvent(r.Context(), previous.ShowtimeID)
	}

	session := app.checkoutStore.Reset(r.Context(), sessionID)

	err := app.writeJSON(w, http.StatusOK, checkoutSessionPayload(session), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
