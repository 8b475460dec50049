package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cinetick/cinema-pos/api"
	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Redis Lua script to clean up expired seat locks and return the currently
// valid locked seat keys ("{row}-{number}" members of the showtime's lock set).
var filterValidLockSeats = redis.NewScript(`
	local setKey = KEYS[1]
	local showtimeId = ARGV[1]
	local cursor = "0"
	local batchSize = 100
	local expiredSeats = {}
	local validSeats = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
		cursor = result[1]
		local seatKeys = result[2]

		for _, seatKey in ipairs(seatKeys) do
			local lockKey = "seat_lock:" .. showtimeId .. ":" .. seatKey
			if redis.call("EXISTS", lockKey) == 0 then
				table.insert(expiredSeats, seatKey)
			else
				table.insert(validSeats, seatKey)
			end
		end
	until cursor == "0"

	if #expiredSeats > 0 then
		redis.call("SREM", setKey, unpack(expiredSeats))
	end

	return validSeats
`)

func (app *Application) GetSeatMapByShowtime(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seatMap, err := app.seatRepo.GetSeatsByShowtime(r.Context(), showtimeID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if len(seatMap.Seats) == 0 {
		logger.Warn("seat map not found for showtime", "showtime_id", showtimeID)
		app.notFoundResponse(w, r)
		return
	}

	err = app.updateSeatAvailability(r.Context(), showtimeID, seatMap)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := toSeatMapResponse(seatMap)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateSeatAvailability overlays the physical layout with everything that
// makes a seat unsellable right now: valid Redis seat locks and seats already
// sold on pending or paid orders.
func (app *Application) updateSeatAvailability(ctx context.Context, showtimeID int, seatMap *domain.SeatMap) error {
	lockedSeats, err := app.validLockedSeats(ctx, showtimeID)
	if err != nil {
		return err
	}

	soldSeats, err := app.orderRepo.GetSeatsByShowtime(ctx, showtimeID)
	if err != nil {
		return fmt.Errorf("failed to get sold seats from DB: %w", err)
	}

	unavailable := make(map[string]bool)

	for _, seat := range lockedSeats {
		unavailable[seat.Key()] = true
	}
	for _, seat := range soldSeats {
		unavailable[seat.Key()] = true
	}

	for i := range seatMap.Seats {
		seat := domain.SelectedSeat{Row: seatMap.Seats[i].Row, SeatNumber: seatMap.Seats[i].Number}
		if unavailable[seat.Key()] {
			seatMap.Seats[i].Available = false
		}
	}

	return nil
}

// validLockedSeats runs the lock-set sweep and returns the seats still under a
// live lock. Without Redis there are no locks to consult.
func (app *Application) validLockedSeats(ctx context.Context, showtimeID int) ([]domain.SelectedSeat, error) {
	if app.redis == nil {
		return nil, nil
	}

	cmd := filterValidLockSeats.Run(ctx, app.redis, []string{seatSetKey(showtimeID)}, showtimeID)
	seatKeys, err := cmd.StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to run filterValidLockSeats script: %w", err)
	}

	seats := make([]domain.SelectedSeat, 0, len(seatKeys))
	for _, key := range seatKeys {
		seat, err := parseSeatKey(key)
		if err != nil {
			app.logger.Warn("skipping malformed seat lock member", "member", key)
			continue
		}
		seats = append(seats, seat)
	}

	return seats, nil
}

// parseSeatKey reverses domain.SelectedSeat.Key. The row label may itself
// contain a dash, so split on the last one.
func parseSeatKey(key string) (domain.SelectedSeat, error) {
	idx := strings.LastIndex(key, "-")
	if idx <= 0 || idx == len(key)-1 {
		return domain.SelectedSeat{}, fmt.Errorf("malformed seat key: %q", key)
	}

	number, err := strconv.Atoi(key[idx+1:])
	if err != nil {
		return domain.SelectedSeat{}, fmt.Errorf("malformed seat key: %q", key)
	}

	return domain.SelectedSeat{Row: key[:idx], SeatNumber: number}, nil
}

func toSeatMapResponse(seatMap *domain.SeatMap) api.SeatMapResponse {
	return api.SeatMapResponse{
		ShowtimeId: seatMap.ShowtimeID,
		RoomId:     seatMap.RoomID,
		RoomName:   seatMap.RoomName,
		SeatRows:   toSeatRows(seatMap.Seats),
	}
}

func toSeatRows(seats []domain.Seat) []api.SeatRow {
	// Seats are pre-sorted by row then number, so one pass suffices.

	var seatRows []api.SeatRow
	currentRow := api.SeatRow{Row: seats[0].Row}

	for _, v := range seats {
		if v.Row != currentRow.Row {
			seatRows = append(seatRows, currentRow)
			currentRow = api.SeatRow{Row: v.Row}
		}

		currentRow.Seats = append(currentRow.Seats, api.Seat{
			Row:       v.Row,
			Number:    v.Number,
			Type:      v.Type,
			Available: v.Available,
		})
	}

	seatRows = append(seatRows, currentRow)

	return seatRows
}
