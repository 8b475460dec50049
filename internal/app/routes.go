package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riandyrn/otelchi"
)

func (app *Application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("cinema-pos", otelchi.WithChiRoutes(r)))
	r.Use(app.recoverPanic)
	r.Use(app.requestLogger)
	r.Use(app.sessionManager.LoadAndSave)

	r.Get("/health", app.GetHealth)

	if app.config.MetricsEnabled {
		r.Handle("/metrics", promhttp.HandlerFor(app.metrics.registry, promhttp.HandlerOpts{}))
	}

	r.Post("/auth/login", app.Login)
	r.With(app.requireAuthentication).Get("/users/me", app.GetCurrentUser)

	r.Get("/movies", app.GetMovies)
	r.Get("/movies/{movieId}", app.GetMovie)

	r.Get("/showtimes", app.GetShowtimes)
	r.Get("/showtimes/{showtimeId}/seats", app.GetSeatMapByShowtime)

	r.Get("/products", app.GetProducts)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/lock-seats", app.LockSeats)
		r.Post("/", app.CreateOrder)
		r.Get("/{orderId}", app.GetOrder)
	})

	r.Post("/payments/mp/webhook", app.PaymentWebhook)

	r.Route("/checkout/session", func(r chi.Router) {
		r.Get("/", app.GetCheckoutSession)
		r.Post("/tickets", app.SetCheckoutTickets)
		r.Post("/cart", app.AddToCheckoutCart)
		r.Patch("/cart", app.SetCheckoutCartQuantity)
		r.Delete("/cart", app.ClearCheckoutCart)
		r.Post("/order", app.SetCheckoutOrder)
		r.Delete("/", app.ResetCheckoutSession)
	})

	r.Route("/pos", func(r chi.Router) {
		r.Use(app.requireAuthentication)
		r.Use(app.requireStaff)

		r.Get("/session", app.GetPosSession)
		r.Delete("/session", app.ResetPosSession)
		r.Post("/session/mode", app.SetPosMode)

		r.Post("/session/products", app.AddPosProduct)
		r.Patch("/session/products", app.UpdatePosProductQuantity)
		r.Delete("/session/products/{productId}", app.RemovePosProduct)

		r.Post("/session/draft", app.SetPosDraft)
		r.Post("/session/draft/seats", app.AddPosDraftSeats)
		r.Delete("/session/draft/seats", app.RemovePosDraftSeats)
		r.Delete("/session/draft", app.ClearPosDraft)

		r.Post("/simulate-payment", app.SimulatePayment)

		r.Get("/audio-feed", app.GetAudioFeed)
		r.Post("/audio-feed", app.ArmAudioFeed)
		r.Delete("/audio-feed", app.DisarmAudioFeed)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(app.requireAuthentication)
		r.Use(app.requireAdmin)

		r.Post("/movies", app.CreateMovie)
		r.Patch("/movies/{movieId}", app.UpdateMovie)
		r.Delete("/movies/{movieId}", app.DeleteMovie)

		r.Post("/showtimes", app.CreateShowtime)
		r.Post("/products", app.CreateProduct)

		r.Get("/rooms", app.GetRooms)
		r.Post("/rooms", app.CreateRoom)
		r.Patch("/rooms/{roomId}", app.UpdateRoom)

		r.Post("/realtime/kick", app.KickRealtimeFeeds)

		r.Get("/pricing-rules", app.GetPricingRules)
		r.Post("/pricing-rules", app.CreatePricingRule)
		r.Patch("/pricing-rules/{ruleId}", app.UpdatePricingRule)
		r.Delete("/pricing-rules/{ruleId}", app.DeletePricingRule)
	})

	return r
}
