package app

import (
	"errors"
	"net/http"

	"github.com/cinetick/cinema-pos/api"
	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/cinetick/cinema-pos/internal/query"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	DefaultSort     = "id"

	tagMovies = "movies"
)

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request) {
	pagination := domain.Pagination{
		Page:     app.readInt(r, "page", DefaultPage),
		PageSize: app.readInt(r, "pageSize", DefaultPageSize),
		Term:     app.readString(r, "term", ""),
		Sort:     app.readString(r, "sort", DefaultSort),
	}

	if pagination.Page < 1 || pagination.PageSize < 1 || pagination.PageSize > 100 {
		app.badRequestResponse(w, r, errors.New("page must be >= 1 and pageSize between 1 and 100"))
		return
	}

	switch pagination.SortColumn() {
	case "id", "title", "release_date":
	default:
		app.badRequestResponse(w, r, errors.New("sort must be one of id, title or release_date"))
		return
	}

	cacheKey := query.NewKey("movies", pagination.Page, pagination.PageSize, pagination.Term, pagination.Sort)

	if cached, ok := app.cache.Get(cacheKey); ok {
		if resp, ok := cached.(api.MoviesResponse); ok {
			app.writeJSON(w, http.StatusOK, resp, nil)
			return
		}
	}

	movies, metadata, err := app.movieRepo.GetAll(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MoviesResponse{
		Movies:   toApiMovies(movies),
		Metadata: toApiMetadata(metadata),
	}

	app.cache.Set(cacheKey, resp, tagMovies)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.MovieResponse{Movie: toApiMovie(movie)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var input api.CreateMovieRequest

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

	movie := &domain.Movie{
		Title:       input.Title,
		Description: input.Description,
		Genre:       input.Genre,
		PosterUrl:   input.PosterUrl,
		DurationMin: input.DurationMin,
		Rating:      input.Rating,
		ReleaseDate: input.ReleaseDate,
		Active:      true,
	}

	err = app.movieRepo.Create(r.Context(), movie)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.cache.InvalidateTags(tagMovies)

	resp := api.MovieResponse{Movie: toApiMovie(movie)}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	var input api.UpdateMovieRequest

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

	if input.Title != nil {
		movie.Title = *input.Title
	}
	if input.Description != nil {
		movie.Description = *input.Description
	}
	if input.Genre != nil {
		movie.Genre = *input.Genre
	}
	if input.PosterUrl != nil {
		movie.PosterUrl = *input.PosterUrl
	}
	if input.DurationMin != nil {
		movie.DurationMin = *input.DurationMin
	}
	if input.Rating != nil {
		movie.Rating = *input.Rating
	}
	if input.ReleaseDate != nil {
		movie.ReleaseDate = *input.ReleaseDate
	}
	if input.Active != nil {
		movie.Active = *input.Active
	}

	err = app.movieRepo.Update(r.Context(), movie)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.cache.InvalidateTags(tagMovies)

	resp := api.MovieResponse{Movie: toApiMovie(movie)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.movieRepo.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.cache.InvalidateTags(tagMovies)

	w.WriteHeader(http.StatusNoContent)
}

func toApiMovies(movies []*domain.Movie) []api.Movie {
	out := make([]api.Movie, len(movies))
	for i, movie := range movies {
		out[i] = toApiMovie(movie)
	}

	return out
}

func toApiMovie(movie *domain.Movie) api.Movie {
	return api.Movie{
		Id:          movie.ID,
		Title:       movie.Title,
		Description: movie.Description,
		Genre:       movie.Genre,
		PosterUrl:   movie.PosterUrl,
		DurationMin: movie.DurationMin,
		Rating:      movie.Rating,
		ReleaseDate: movie.ReleaseDate,
		Active:      movie.Active,
	}
}

func toApiMetadata(metadata *domain.Metadata) api.Metadata {
	if metadata == nil {
		return api.Metadata{}
	}

	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
