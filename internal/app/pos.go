package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cinetick/cinema-pos/api"
	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/cinetick/cinema-pos/internal/pos"
)

const audioFeedTopic = "audio-feed"

// terminalID scopes a POS session. Terminals announce themselves through the
// X-Terminal-Id header; without one the session follows the staff account, so
// a cashier moving between browser tabs keeps one cart.
func (app *Application) terminalID(r *http.Request) string {
	if id := r.Header.Get("X-Terminal-Id"); id != "" {
		return id
	}

	identity := app.contextGetIdentity(r)

	return fmt.Sprintf("staff-%d", identity.UserID)
}

func posStatePayload(snapshot pos.Snapshot) api.PosStateResponse {
	state := api.PosState{
		Products:      snapshot.Products,
		Mode:          string(snapshot.Mode),
		ProductsTotal: snapshot.ProductsTotal,
		TicketsTotal:  snapshot.TicketsTotal,
		Total:         snapshot.Total,
	}
	if snapshot.TicketDraft != nil {
		state.TicketDraft = &api.PosTicketDraft{
			ShowtimeId: snapshot.TicketDraft.ShowtimeID,
			Showtime:   snapshot.TicketDraft.Showtime,
			Seats:      snapshot.TicketDraft.Seats,
			Locks:      snapshot.TicketDraft.Locks,
		}
	}

	return api.PosStateResponse{State: state}
}

func (app *Application) writePosState(w http.ResponseWriter, r *http.Request, snapshot pos.Snapshot) {
	err := app.writeJSON(w, http.StatusOK, posStatePayload(snapshot), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetPosSession(w http.ResponseWriter, r *http.Request) {
	session := app.posRegistry.Get(app.terminalID(r))
	app.writePosState(w, r, session.Snapshot())
}

func (app *Application) ResetPosSession(w http.ResponseWriter, r *http.Request) {
	terminalID := app.terminalID(r)
	app.posRegistry.Drop(terminalID)

	app.writePosState(w, r, app.posRegistry.Get(terminalID).Snapshot())
}

func (app *Application) SetPosMode(w http.ResponseWriter, r *http.Request) {
	var input api.PosModeRequest

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

	session := app.posRegistry.Get(app.terminalID(r))
	app.writePosState(w, r, session.SetMode(pos.Mode(input.Mode)))
}

func (app *Application) AddPosProduct(w http.ResponseWriter, r *http.Request) {
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

	session := app.posRegistry.Get(app.terminalID(r))
	app.writePosState(w, r, session.AddProduct(*product))
}

func (app *Application) UpdatePosProductQuantity(w http.ResponseWriter, r *http.Request) {
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

	session := app.posRegistry.Get(app.terminalID(r))
	app.writePosState(w, r, session.UpdateProductQuantity(input.ProductId, input.Quantity))
}

func (app *Application) RemovePosProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := app.readIDParam(r, "productId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	session := app.posRegistry.Get(app.terminalID(r))
	app.writePosState(w, r, session.RemoveProduct(productID))
}

// SetPosDraft replaces the terminal's ticket draft with a new showtime and
// optional starting seats.
func (app *Application) SetPosDraft(w http.ResponseWriter, r *http.Request) {
	var input api.PosDraftRequest

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

	session := app.posRegistry.Get(app.terminalID(r))
	snapshot := session.SetTicketDraft(&pos.TicketDraft{
		ShowtimeID: input.ShowtimeId,
		Showtime:   showtime,
		Seats:      dedupeSelectedSeats(toSelectedSeats(input.Seats)),
	})

	app.writePosState(w, r, snapshot)
}

func (app *Application) AddPosDraftSeats(w http.ResponseWriter, r *http.Request) {
	var input api.PosSeatsRequest

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

	session := app.posRegistry.Get(app.terminalID(r))
	app.writePosState(w, r, session.AddSeatsToDraft(toSelectedSeats(input.Seats)))
}

func (app *Application) RemovePosDraftSeats(w http.ResponseWriter, r *http.Request) {
	var input api.PosSeatsRequest

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

	session := app.posRegistry.Get(app.terminalID(r))
	app.writePosState(w, r, session.RemoveSeatsFromDraft(toSelectedSeats(input.Seats)))
}

func (app *Application) ClearPosDraft(w http.ResponseWriter, r *http.Request) {
	session := app.posRegistry.Get(app.terminalID(r))
	app.writePosState(w, r, session.ClearTicketDraft())
}

// SimulatePayment lets staff settle a sandbox order at the counter without
// waiting for the provider, e.g. when the customer pays cash.
func (app *Application) SimulatePayment(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.SimulatePaymentRequest

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

	payment, err := app.paymentRepo.GetByOrderId(r.Context(), input.OrderId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	order, err := app.applyPaymentEvent(r.Context(), logger, payment.ID, domain.PaymentStatusApproved)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrOrderNotPending):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.OrderResponse{Order: toApiOrder(order)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// Audio feed controls. The underlying channel only runs when the live audio
// flag is on; the armed preference survives restarts either way.

func (app *Application) writeAudioState(w http.ResponseWriter, r *http.Request) {
	resp := api.AudioFeedResponse{
		State:     string(app.audioGate.State()),
		Preferred: app.audioGate.Preferred(r.Context()),
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetAudioFeed(w http.ResponseWriter, r *http.Request) {
	app.writeAudioState(w, r)
}

func (app *Application) ArmAudioFeed(w http.ResponseWriter, r *http.Request) {
	app.audioGate.Arm(r.Context())
	app.writeAudioState(w, r)
}

func (app *Application) DisarmAudioFeed(w http.ResponseWriter, r *http.Request) {
	app.audioGate.Disarm(r.Context())
	app.writeAudioState(w, r)
}
