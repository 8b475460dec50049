package app

import (
	"errors"
	"net/http"

	"github.com/cinetick/cinema-pos/api"
	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/cinetick/cinema-pos/internal/query"
)

const tagProducts = "products"

func (app *Application) GetProducts(w http.ResponseWriter, r *http.Request) {
	filters := domain.ProductFilters{
		Category:   app.readString(r, "category", ""),
		ActiveOnly: app.readBool(r, "activeOnly", true),
	}

	key := query.NewKey("products", filters.Category, filters.ActiveOnly)
	if cached, ok := app.cache.Get(key); ok {
		if resp, ok := cached.(api.ProductsResponse); ok {
			err := app.writeJSON(w, http.StatusOK, resp, nil)
			if err != nil {
				app.serverErrorResponse(w, r, err)
			}
			return
		}
	}

	products, err := app.productRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	out := make([]domain.Product, len(products))
	for i, p := range products {
		out[i] = *p
	}

	resp := api.ProductsResponse{Products: out}
	app.cache.Set(key, resp, tagProducts)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input api.CreateProductRequest

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

	if input.Price.IsNegative() {
		app.badRequestResponse(w, r, errors.New("price must not be negative"))
		return
	}

	product := &domain.Product{
		Name:     input.Name,
		Category: input.Category,
		Price:    input.Price,
		ImageUrl: input.ImageUrl,
		Active:   true,
	}

	err = app.productRepo.Create(r.Context(), product)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.cache.InvalidateTags(tagProducts)

	err = app.writeJSON(w, http.StatusCreated, product, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
