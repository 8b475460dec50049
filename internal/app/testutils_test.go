package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/cinetick/cinema-pos/api"
	"github.com/cinetick/cinema-pos/internal/checkout"
	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/cinetick/cinema-pos/internal/mailer"
	"github.com/cinetick/cinema-pos/internal/mocks"
	"github.com/cinetick/cinema-pos/internal/pos"
	"github.com/cinetick/cinema-pos/internal/query"
	"github.com/cinetick/cinema-pos/internal/storage"
	appvalidator "github.com/cinetick/cinema-pos/internal/validator"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		validator:      appvalidator.NewValidator(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:        newMetrics(false),
		cache:          query.New(queryCacheTTL),
		sessionManager: scs.New(),
		mailer:         mailer.NewMockMailer(),
	}

	app.checkoutStore = checkout.NewStore(storage.NewMemoryStore(), app.logger)

	// An unrefreshed pricer prices every ticket at the showtime base price.
	app.pricer = pos.NewRulePricer(&mocks.MockPricingRepo{
		GetAllFunc: func(ctx context.Context) ([]*domain.PricingRule, error) {
			return nil, nil
		},
	})
	app.posRegistry = pos.NewRegistry(app.pricer)

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	} else {
		reader = http.NoBody
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

// withSession loads a fresh scs session context onto the request, the way the
// LoadAndSave middleware does for real traffic.
func withSession(t *testing.T, app *Application, r *http.Request) *http.Request {
	t.Helper()

	ctx, err := app.sessionManager.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}

	return r.WithContext(ctx)
}

// withURLParams attaches chi route parameters for handlers read via
// chi.URLParam.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	t.Helper()

	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	var errorResp api.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if wantErrMessage != "" && errorResp.Message != wantErrMessage {
		t.Errorf("error message = %v, want %v", errorResp.Message, wantErrMessage)
	}
}

func testShowtime(id int, price int64) *domain.Showtime {
	return &domain.Showtime{
		ID:        id,
		MovieID:   1,
		RoomID:    1,
		RoomName:  "Screen 1",
		StartsAt:  time.Date(2026, time.September, 5, 19, 30, 0, 0, time.UTC),
		EndsAt:    time.Date(2026, time.September, 5, 21, 30, 0, 0, time.UTC),
		BasePrice: decimal.NewFromInt(price),
	}
}

func ptr[T any](v T) *T {
	return &v
}
