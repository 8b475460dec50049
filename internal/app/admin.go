package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/cinetick/cinema-pos/api"
	"github.com/cinetick/cinema-pos/internal/domain"
)

// Room administration.

func (app *Application) GetRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := app.roomRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	out := make([]api.Room, len(rooms))
	for i, room := range rooms {
		out[i] = toApiRoom(room)
	}

	err = app.writeJSON(w, http.StatusOK, api.RoomsResponse{Rooms: out}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var input api.RoomRequest

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

	room := &domain.Room{
		Name:        input.Name,
		Rows:        input.Rows,
		SeatsPerRow: input.SeatsPerRow,
		Active:      true,
	}
	if input.Active != nil {
		room.Active = *input.Active
	}

	err = app.roomRepo.Create(r.Context(), room)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiRoom(room), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := app.readIDParam(r, "roomId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.RoomRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	room, err := app.roomRepo.GetById(r.Context(), roomID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	room.Name = input.Name
	room.Rows = input.Rows
	room.SeatsPerRow = input.SeatsPerRow
	if input.Active != nil {
		room.Active = *input.Active
	}

	err = app.roomRepo.Update(r.Context(), room)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiRoom(room), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiRoom(room *domain.Room) api.Room {
	return api.Room{
		Id:          room.ID,
		Name:        room.Name,
		Rows:        room.Rows,
		SeatsPerRow: room.SeatsPerRow,
		Active:      room.Active,
	}
}

// Pricing rule administration. Every mutation refreshes the POS pricer
// snapshot so drafts and new orders price consistently right away.

func (app *Application) GetPricingRules(w http.ResponseWriter, r *http.Request) {
	rules, err := app.pricingRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	out := make([]api.PricingRule, len(rules))
	for i, rule := range rules {
		out[i] = toApiPricingRule(rule)
	}

	err = app.writeJSON(w, http.StatusOK, api.PricingRulesResponse{PricingRules: out}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreatePricingRule(w http.ResponseWriter, r *http.Request) {
	var input api.PricingRuleRequest

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

	rule := &domain.PricingRule{
		Name:       input.Name,
		SeatType:   input.SeatType,
		Weekday:    toWeekday(input.Weekday),
		Multiplier: input.Multiplier,
		Surcharge:  input.Surcharge,
		Active:     true,
	}
	if input.Active != nil {
		rule.Active = *input.Active
	}

	err = app.pricingRepo.Create(r.Context(), rule)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.refreshPricer(r)

	err = app.writeJSON(w, http.StatusCreated, toApiPricingRule(rule), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdatePricingRule(w http.ResponseWriter, r *http.Request) {
	ruleID, err := app.readIDParam(r, "ruleId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.PricingRuleRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	rule, err := app.pricingRepo.GetById(r.Context(), ruleID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	rule.Name = input.Name
	rule.SeatType = input.SeatType
	rule.Weekday = toWeekday(input.Weekday)
	rule.Multiplier = input.Multiplier
	rule.Surcharge = input.Surcharge
	if input.Active != nil {
		rule.Active = *input.Active
	}

	err = app.pricingRepo.Update(r.Context(), rule)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.refreshPricer(r)

	err = app.writeJSON(w, http.StatusOK, toApiPricingRule(rule), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeletePricingRule(w http.ResponseWriter, r *http.Request) {
	ruleID, err := app.readIDParam(r, "ruleId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.pricingRepo.Delete(r.Context(), ruleID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.refreshPricer(r)

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) refreshPricer(r *http.Request) {
	if err := app.pricer.Refresh(r.Context()); err != nil {
		app.contextGetLogger(r).Error("failed to refresh pricing rules", "error", err)
	}
}

func toWeekday(weekday *int) *time.Weekday {
	if weekday == nil {
		return nil
	}

	wd := time.Weekday(*weekday)

	return &wd
}

func toApiPricingRule(rule *domain.PricingRule) api.PricingRule {
	out := api.PricingRule{
		Id:         rule.ID,
		Name:       rule.Name,
		SeatType:   rule.SeatType,
		Multiplier: rule.Multiplier,
		Surcharge:  rule.Surcharge,
		Active:     rule.Active,
	}

	if rule.Weekday != nil {
		wd := int(*rule.Weekday)
		out.Weekday = &wd
	}

	return out
}
