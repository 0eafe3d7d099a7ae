package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"remotewebdemo/internal/config"
	"remotewebdemo/internal/dispatch"
	apierrors "remotewebdemo/internal/errors"
	"remotewebdemo/internal/infrastructure"
	customMiddleware "remotewebdemo/internal/middleware"
	"remotewebdemo/internal/passwd"
	"remotewebdemo/internal/request"
	"remotewebdemo/internal/services"
	"remotewebdemo/internal/stream"
	transport "remotewebdemo/internal/transport/http"
	"remotewebdemo/internal/workerpool"
)

// Responses smaller than this are sent uncompressed
const compressMinSize = 1024

// Application represents the demo server and its wired components
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DemoMetrics
	Pool          *workerpool.Pool
	Responder     *stream.Responder
	ErrorHandler  *apierrors.ErrorHandler

	// Services
	PasswordService *services.PasswordService
	DigestService   *services.DigestService

	listener *workerpool.Listener
	stopOnce sync.Once
	stopErr  error
}

// NewApplication initializes the process logger from cfg and builds the
// application with it.
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires an application from cfg. Nothing listens until Start.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	providers, err := infrastructure.InitializeOTel(cfg.Observability, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateDemoMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create demo metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	app.createServer()

	return app, nil
}

// initializeServices creates the pool, the streaming responder and the
// hashing services
func (a *Application) initializeServices() error {
	a.Pool = workerpool.New(a.Config.PoolWorkers(), a.Config.Pool.QueueSize, a.Logger)
	if a.OTelProviders.Registry != nil {
		if err := a.OTelProviders.Registry.Register(workerpool.NewCollector(a.Pool)); err != nil {
			return fmt.Errorf("failed to register pool collector: %w", err)
		}
	}

	a.PasswordService = services.NewPasswordService(passwd.DefaultRegistry(), a.Metrics, a.Logger).
		WithRoundLimits(a.Config.Security.MaxRounds)
	a.DigestService = services.NewDigestService(a.Metrics, a.Logger)
	a.Responder = stream.NewResponder(a.Metrics, a.Logger)
	a.ErrorHandler = apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Level == "debug")

	a.Logger.Info("Services initialized",
		slog.Int("workers", a.Config.PoolWorkers()),
		slog.Int("queue_size", a.Config.Pool.QueueSize),
		slog.Duration("stream_interval", a.Config.Streams.Interval))
	return nil
}

// setupRouter builds the chi router.
// Middleware order: RequestID, RealIP, OTel, Logger, Recoverer, Compress, CORS.
func (a *Application) setupRouter() error {
	var compress func(http.Handler) http.Handler
	if a.Config.Server.EnableCompression {
		mw, err := customMiddleware.Compress(compressMinSize)
		if err != nil {
			return err
		}
		compress = mw
	}

	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	// Scrapes stay out of request metrics and logs
	if a.Config.Observability.EnableMetrics && a.Config.Observability.MetricsPath != "" && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(a.Config.Observability.MetricsPath, a.OTelProviders.PrometheusHTTP)
	}

	dispatcher := dispatch.New(
		a.PasswordService,
		a.DigestService,
		stream.Factory{Interval: a.Config.Streams.Interval},
		a.Logger,
	)
	demo := transport.NewDemoHandler(
		dispatcher,
		a.Responder,
		a.ErrorHandler,
		a.Config.ResolveWebDir(),
		request.Options{
			MaxBodyBytes:  a.Config.Server.MaxBodyBytes,
			DefaultOrigin: a.Config.Security.DefaultOrigin,
		},
		a.Logger,
	)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.ErrorHandler))
		if compress != nil {
			r.Use(compress)
		}
		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				DefaultOrigin: a.Config.Security.DefaultOrigin,
				Logger:        a.Logger,
			}))
		}

		r.Handle("/", demo)
		r.Handle("/*", demo)
	})

	r.NotFound(a.ErrorHandler.NotFound)

	a.Router = r
	return nil
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelWarn),
	}
	// A connection holds its pool worker until it closes, so each one
	// carries a single request
	a.Server.SetKeepAlivesEnabled(false)
}

// Start binds the listen address and starts the worker pool. Serve must be
// called to accept connections.
func (a *Application) Start(ctx context.Context) error {
	var lc net.ListenConfig
	inner, err := lc.Listen(ctx, "tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	a.Pool.Start()
	a.listener = workerpool.NewListener(inner, a.Pool, a.Logger)

	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("address", inner.Addr().String()),
		slog.String("web_dir", a.Config.ResolveWebDir()),
		slog.String("level", a.Config.Logging.Level))
	return nil
}

// Serve accepts connections until the server is shut down. It returns nil
// after a graceful Stop.
func (a *Application) Serve() error {
	if a.listener == nil {
		return errors.New("application not started")
	}
	if err := a.Server.Serve(a.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Addr returns the bound address, or nil before Start
func (a *Application) Addr() net.Addr {
	if a.listener == nil {
		return nil
	}
	return a.listener.Addr()
}

// Stop gracefully stops the application. Streams are ended first so that
// Shutdown does not wait on them.
func (a *Application) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		a.stopErr = a.stop(ctx)
	})
	return a.stopErr
}

func (a *Application) stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	a.Responder.Close()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.WarnContext(ctx, "Graceful shutdown incomplete, closing connections",
			slog.String("error", err.Error()))
		if cerr := a.Server.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("server close: %w", cerr))
		}
	}

	if a.listener != nil {
		if err := a.Pool.Stop(a.Config.Server.ShutdownTimeout); err != nil {
			errs = append(errs, fmt.Errorf("worker pool: %w", err))
		}
	}

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run starts the application and serves until SIGINT or SIGTERM
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.Serve)
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			a.Logger.Info("Received interrupt signal")
		}
		return a.Stop(context.Background())
	})

	err := g.Wait()
	if cerr := infrastructure.CloseLogFile(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
