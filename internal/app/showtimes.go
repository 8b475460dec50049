package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/cinetick/cinema-pos/api"
	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/shopspring/decimal"
)

func (app *Application) GetShowtimes(w http.ResponseWriter, r *http.Request) {
	filters := domain.ShowtimeFilters{
		MovieID: app.readInt(r, "movieId", 0),
	}

	if date := app.readString(r, "date", ""); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("date must be in YYYY-MM-DD format"))
			return
		}
		filters.Date = parsed
	}

	showtimes, err := app.showtimeRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ShowtimesResponse{
		Showtimes: toApiShowtimes(showtimes),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateShowtime(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MovieId   int             `json:"movieId" validate:"required,gt=0"`
		RoomId    int             `json:"roomId" validate:"required,gt=0"`
		StartsAt  time.Time       `json:"startsAt" validate:"required"`
		EndsAt    time.Time       `json:"endsAt" validate:"required"`
		BasePrice decimal.Decimal `json:"basePrice" validate:"required"`
		Language  string          `json:"language"`
		Format    string          `json:"format"`
	}

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

	if input.BasePrice.IsNegative() {
		app.badRequestResponse(w, r, errors.New("basePrice must not be negative"))
		return
	}

	if !input.EndsAt.After(input.StartsAt) {
		app.badRequestResponse(w, r, errors.New("endsAt must be after startsAt"))
		return
	}

	showtime := &domain.Showtime{
		MovieID:   input.MovieId,
		RoomID:    input.RoomId,
		StartsAt:  input.StartsAt,
		EndsAt:    input.EndsAt,
		BasePrice: input.BasePrice,
		Language:  input.Language,
		Format:    input.Format,
	}

	err = app.showtimeRepo.Create(r.Context(), showtime)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiShowtime(showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiShowtimes(showtimes []*domain.Showtime) []api.Showtime {
	out := make([]api.Showtime, len(showtimes))
	for i, showtime := range showtimes {
		out[i] = toApiShowtime(showtime)
	}

	return out
}

func toApiShowtime(showtime *domain.Showtime) api.Showtime {
	out := api.Showtime{
		Id:        showtime.ID,
		MovieId:   showtime.MovieID,
		RoomId:    showtime.RoomID,
		RoomName:  showtime.RoomName,
		StartsAt:  showtime.StartsAt,
		EndsAt:    showtime.EndsAt,
		BasePrice: showtime.BasePrice,
		Language:  showtime.Language,
		Format:    showtime.Format,
	}

	if showtime.Movie != nil {
		movie := toApiMovie(showtime.Movie)
		out.Movie = &movie
	}

	return out
}
