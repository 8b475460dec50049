// Package app wires the HTTP surface: configuration, repositories, session
// stores, realtime channel managers, and the chi router.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/cinetick/cinema-pos/internal/auth"
	"github.com/cinetick/cinema-pos/internal/checkout"
	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/cinetick/cinema-pos/internal/mailer"
	"github.com/cinetick/cinema-pos/internal/payment"
	"github.com/cinetick/cinema-pos/internal/pos"
	"github.com/cinetick/cinema-pos/internal/query"
	"github.com/cinetick/cinema-pos/internal/realtime"
	"github.com/cinetick/cinema-pos/internal/repository"
	"github.com/cinetick/cinema-pos/internal/storage"
	appvalidator "github.com/cinetick/cinema-pos/internal/validator"
	"github.com/cinetick/cinema-pos/internal/vcs"
	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
)

var (
	version = vcs.Version()
)

const (
	sessionStorePrefix = "checkout:"
	sessionStoreTTL    = 20 * time.Minute
	queryCacheTTL      = 30 * time.Second
	orderPaymentTTL    = 10 * time.Minute
)

type Application struct {
	config         Config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	mailer         mailer.Mailer
	sessionManager *scs.SessionManager
	tokens         *auth.TokenManager

	checkoutStore *checkout.Store
	posRegistry   *pos.Registry
	pricer        *pos.RulePricer
	cache         *query.Cache
	metrics       *metrics

	seatFeed  *realtime.Manager
	orderFeed *realtime.Manager
	audioGate *realtime.AudioGate

	movieRepo    domain.MovieRepository
	showtimeRepo domain.ShowtimeRepository
	seatRepo     domain.SeatRepository
	productRepo  domain.ProductRepository
	roomRepo     domain.RoomRepository
	pricingRepo  domain.PricingRepository
	userRepo     domain.UserRepository
	orderRepo    domain.OrderRepository
	paymentRepo  domain.PaymentRepository

	paymentProvider domain.PaymentProvider
}

type Config struct {
	Port int
	Env  string

	MockMode bool

	DB struct {
		DSN          string
		MaxOpenConns int
		MaxIdleTime  time.Duration
		Migrate      bool
	}
	Redis struct {
		URL          string
		MaxOpenConns int
		MaxIdleConns int
		MaxIdleTime  time.Duration
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		Sender   string
	}
	Stripe struct {
		SecretKey  string
		SuccessUrl string
		FailureUrl string
	}
	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
	}
	Realtime struct {
		Enabled     bool
		AMQPUrl     string
		OrderQueue  string
		MaxAttempts int
		LiveAudio   bool
	}
	Payments struct {
		BaseUrl string
	}
	OtelCollectorUrl string
	MetricsEnabled   bool
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")
	flag.BoolVar(&cfg.MockMode, "mock-mode", envBool("MOCK_MODE"), "Serve fixture data without Postgres")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", os.Getenv("DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")
	flag.BoolVar(&cfg.DB.Migrate, "db-migrate", envBool("DB_MIGRATE"), "Run schema migrations on startup")

	flag.StringVar(&cfg.Redis.URL, "redis-url", os.Getenv("REDIS_URL"), "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", os.Getenv("SMTP_USERNAME"), "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", os.Getenv("SMTP_PASSWORD"), "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", "CineTick <no-reply@cinetick.example>", "SMTP sender")

	flag.StringVar(&cfg.Stripe.SecretKey, "stripe-key", os.Getenv("STRIPE_KEY"), "Stripe secret key")
	flag.StringVar(&cfg.Stripe.SuccessUrl, "stripe-success-url", "https://example.com/success.html", "Stripe payment success page")
	flag.StringVar(&cfg.Stripe.FailureUrl, "stripe-failure-url", "https://example.com/failure.html", "Stripe payment failure page")

	flag.StringVar(&cfg.Auth.JWTSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "HS256 signing secret for staff tokens")
	flag.DurationVar(&cfg.Auth.TokenTTL, "jwt-ttl", 12*time.Hour, "Staff token lifetime")

	flag.BoolVar(&cfg.Realtime.Enabled, "realtime", envBool("REALTIME_ENABLED"), "Enable realtime push channels")
	flag.StringVar(&cfg.Realtime.AMQPUrl, "amqp-url", os.Getenv("AMQP_URL"), "RabbitMQ URL for order events")
	flag.StringVar(&cfg.Realtime.OrderQueue, "amqp-order-queue", "order-events", "RabbitMQ queue for order events")
	flag.IntVar(&cfg.Realtime.MaxAttempts, "realtime-max-attempts", 5, "Reconnect attempts before a channel gives up")
	flag.BoolVar(&cfg.Realtime.LiveAudio, "live-audio", envBool("LIVE_AUDIO_ENABLED"), "Expose the experimental live audio feed")

	flag.StringVar(&cfg.Payments.BaseUrl, "payments-base-url", "http://localhost:3000", "Base URL for sandbox payment QR links")

	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", os.Getenv("OTEL_COLLECTOR_URL"), "OTLP gRPC collector endpoint")
	flag.BoolVar(&cfg.MetricsEnabled, "metrics", true, "Expose Prometheus metrics on /metrics")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	stripe.Key = cfg.Stripe.SecretKey

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	app, cleanup, err := newApplication(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	return app.run()
}

func newApplication(cfg Config, logger *slog.Logger) (*Application, func(), error) {
	app := &Application{
		config:    cfg,
		logger:    logger,
		validator: appvalidator.NewValidator(),
		mailer:    mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender),
		tokens:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		cache:     query.New(queryCacheTTL),
		metrics:   newMetrics(cfg.MetricsEnabled),
	}

	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if cfg.MockMode {
		logger.Warn("running in mock mode, all data is in-memory fixtures")
		app.wireFixtures()
	} else {
		db, err := newDatabasePool(cfg)
		if err != nil {
			return nil, nil, err
		}
		cleanups = append(cleanups, db.Close)

		if cfg.DB.Migrate {
			if err := repository.MigrateUp(cfg.DB.DSN); err != nil {
				cleanup()
				return nil, nil, err
			}
		}

		app.db = db
		app.movieRepo = repository.NewPostgresMovieRepository(db)
		app.showtimeRepo = repository.NewPostgresShowtimeRepository(db)
		app.seatRepo = repository.NewPostgresSeatRepository(db)
		app.productRepo = repository.NewPostgresProductRepository(db)
		app.roomRepo = repository.NewPostgresRoomRepository(db)
		app.pricingRepo = repository.NewPostgresPricingRepository(db)
		app.userRepo = repository.NewPostgresUserRepository(db)
		app.orderRepo = repository.NewPostgresOrderRepository(db)
		app.paymentRepo = repository.NewPostgresPaymentRepository(db)
	}

	var sessionPort storage.Port
	var audioPort storage.Port

	if cfg.Redis.URL != "" {
		redisClient, err := newRedisClient(cfg)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { redisClient.Close() })

		app.redis = redisClient
		app.sessionManager = newSessionManager(redisClient)
		sessionPort = storage.NewRedisStore(redisClient, sessionStorePrefix, sessionStoreTTL)
		audioPort = storage.NewRedisStore(redisClient, "pref:", 0)
	} else {
		logger.Warn("redis not configured, sessions and seat locks are in-memory")
		app.sessionManager = scs.New()
		sessionPort = storage.NewMemoryStore()
		audioPort = storage.NewMemoryStore()
	}

	app.checkoutStore = checkout.NewStore(sessionPort, logger)

	app.pricer = pos.NewRulePricer(app.pricingRepo)
	if err := app.pricer.Refresh(context.Background()); err != nil {
		logger.Error("failed to load pricing rules, drafts price at base", "error", err)
	}
	app.posRegistry = pos.NewRegistry(app.pricer)

	if cfg.Stripe.SecretKey != "" {
		app.paymentProvider = payment.NewStripeProvider(cfg.Stripe.FailureUrl, cfg.Stripe.SuccessUrl)
	} else {
		app.paymentProvider = payment.NewSandboxProvider(cfg.Payments.BaseUrl, orderPaymentTTL)
	}

	app.wireRealtime(audioPort)

	return app, cleanup, nil
}

// wireFixtures routes every repository through the shared in-memory fixture
// set, so mock mode serves a coherent catalog.
func (app *Application) wireFixtures() {
	fixtures := repository.NewFixtures()

	app.movieRepo = fixtures.Movies()
	app.showtimeRepo = fixtures.Showtimes()
	app.seatRepo = fixtures.Seats()
	app.productRepo = fixtures.Products()
	app.roomRepo = fixtures.Rooms()
	app.pricingRepo = fixtures.Pricing()
	app.userRepo = fixtures.Users()
	app.orderRepo = fixtures.Orders()
	app.paymentRepo = fixtures.Payments()
}

func (app *Application) wireRealtime(audioPort storage.Port) {
	sink := realtime.SinkFunc(func(severity realtime.Severity, message string) {
		app.logger.Info("realtime notification", "severity", string(severity), "message", message)
	})

	backoff := realtime.Backoff{
		Base:        time.Second,
		Max:         30 * time.Second,
		JitterRatio: 0.2,
	}

	seatChannel := realtime.NewRedisChannel(app.redis, []string{seatEventsTopic}, func(topic, payload string) {
		app.logger.Debug("seat availability event", "topic", topic, "payload", payload)
		app.metrics.seatEvents.Inc()
	})

	app.seatFeed = realtime.NewManager(seatChannel, realtime.ManagerConfig{
		Enabled:     app.config.Realtime.Enabled && app.redis != nil,
		MaxAttempts: app.config.Realtime.MaxAttempts,
		Backoff:     backoff,
		Logger:      app.logger,
		Sink:        sink,
	})

	orderChannel := realtime.NewAMQPChannel(app.config.Realtime.AMQPUrl, app.config.Realtime.OrderQueue, app.handleOrderEvent)

	app.orderFeed = realtime.NewManager(orderChannel, realtime.ManagerConfig{
		Enabled:     app.config.Realtime.Enabled && app.config.Realtime.AMQPUrl != "",
		MaxAttempts: app.config.Realtime.MaxAttempts,
		Backoff:     backoff,
		Logger:      app.logger,
		Sink:        sink,
	})

	audioChannel := realtime.NewRedisChannel(app.redis, []string{audioFeedTopic}, func(topic, payload string) {
		app.logger.Debug("live audio frame", "bytes", len(payload))
	})

	audioManager := realtime.NewManager(audioChannel, realtime.ManagerConfig{
		Enabled:     app.config.Realtime.LiveAudio && app.redis != nil,
		MaxAttempts: app.config.Realtime.MaxAttempts,
		Backoff:     backoff,
		Logger:      app.logger,
		Sink:        sink,
	})

	app.audioGate = realtime.NewAudioGate(audioManager, audioPort, app.logger)
}

func newSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func newRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func newDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	app.seatFeed.Start()
	app.orderFeed.Start()

	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	go app.expireOrdersLoop(sweepCtx)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		app.seatFeed.Stop()
		app.orderFeed.Stop()
		cancelSweep()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "mock", app.config.MockMode)

	err = srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func envBool(name string) bool {
	switch os.Getenv(name) {
	case "1", "true", "TRUE", "yes":
		return true
	}

	return false
}
