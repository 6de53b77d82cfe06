package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poetbyte/poetbyte/backend/go-services/handlers"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/config"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/database"
	feedbackrepo "github.com/poetbyte/poetbyte/backend/go-services/internal/feedback/repository"
	feedbackservice "github.com/poetbyte/poetbyte/backend/go-services/internal/feedback/service"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/oidc"
	poemhandler "github.com/poetbyte/poetbyte/backend/go-services/internal/poem/handler"
	poemrepo "github.com/poetbyte/poetbyte/backend/go-services/internal/poem/repository"
	poemservice "github.com/poetbyte/poetbyte/backend/go-services/internal/poem/service"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/storage"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/tokens"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/logger"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/metrics"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// mongo startup retry, doubling the wait after each failure
var (
	connectAttempts = 5
	connectBackoff  = time.Second
)

// App is a fully wired API process.
type App struct {
	cfg     *config.Config
	Router  *gin.Engine
	Poems   poemservice.Service
	closers []func(context.Context) error
}

// New builds the stores, optional integrations and router described by cfg.
// Optional integrations (Redis, Keycloak, MinIO) that fail to initialize are
// logged and left out; only an unusable store configuration is an error.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}
	checks := map[string]handlers.Check{}

	var (
		poems     poemrepo.Repository
		feedbacks feedbackrepo.Repository
	)
	switch cfg.Store.Backend {
	case config.BackendMemory:
		logger.Warn("using the in-memory store: data is lost on restart")
		poems = poemrepo.NewMemoryRepo()
		feedbacks = feedbackrepo.NewMemoryRepo()
	case config.BackendMongo:
		mgr := database.NewManager(cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.Timeout)
		a.closers = append(a.closers, mgr.Close)
		pr := poemrepo.NewMongoRepo(mgr)
		fr := feedbackrepo.NewMongoRepo(mgr)
		if err := connectWithRetry(ctx, mgr); err != nil {
			logger.Warnf("could not connect to MongoDB at startup, will retry on first request: %v", err)
		} else {
			ensureIndexes(ctx, pr, fr)
		}
		poems, feedbacks = pr, fr
		checks["mongodb"] = mgr.Ping
	default:
		return nil, errors.New("unsupported store backend " + cfg.Store.Backend)
	}

	a.Poems = poemservice.New(poems)
	fbSvc := feedbackservice.New(feedbacks, poems)

	rdb := newRedis(ctx, cfg.Redis)
	if rdb != nil {
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := Deps{
		Poems:           a.Poems,
		Feedback:        fbSvc,
		Reads:           poemhandler.Options{DegradeReadsToEmpty: cfg.Store.DegradeReadsToEmpty},
		FeedbackLimiter: feedbackLimiter(cfg.RateLimit, rdb),
		Checks:          checks,
		CORSOrigins:     cfg.CORS.AllowedOrigins,
		Metrics:         promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	if ver := adminVerifier(ctx, cfg); ver != nil {
		deps.AdminAuth = middleware.AuthMiddleware(ver)
	}
	if cfg.MinIO.Endpoint != "" {
		store, err := storage.NewMinIOStore(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("snapshot export disabled: %v", err)
		} else {
			deps.Exporter = storage.NewExporter(store, poems, feedbacks)
		}
	}

	a.Router = NewRouter(deps)
	return a, nil
}

func connectWithRetry(ctx context.Context, mgr *database.Manager) error {
	backoff := connectBackoff
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if _, err = mgr.Client(ctx); err == nil {
			return nil
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, connectAttempts, err)
		if attempt == connectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func ensureIndexes(ctx context.Context, ix ...indexer) {
	for _, i := range ix {
		if err := i.EnsureIndexes(ctx); err != nil {
			logger.Warnf("ensure indexes: %v", err)
		}
	}
}

func newRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Password, DB: cfg.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		_ = client.Close()
		return nil
	}
	logger.Infof("connected to Redis at %s", addr)
	return client
}

func feedbackLimiter(cfg config.RateLimitConfig, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}
	if cfg.UseRedis && rdb != nil {
		window := time.Duration(cfg.WindowSeconds) * time.Second
		return middleware.RedisRateLimitMiddleware(rdb, "feedback", cfg.RPS, cfg.Burst, window)
	}
	if cfg.UseRedis {
		logger.Warn("RATE_LIMIT_USE_REDIS is set but Redis is unavailable, limiting per process")
	}
	return middleware.RateLimitMiddleware(cfg.RPS, cfg.Burst)
}

// adminVerifier combines every configured way of proving admin access, or
// returns nil when none is configured.
func adminVerifier(ctx context.Context, cfg *config.Config) middleware.Verifier {
	var vs middleware.Verifiers
	if cfg.Keycloak.URL != "" && cfg.Keycloak.Realm != "" {
		issuer := oidc.IssuerURL(cfg.Keycloak.URL, cfg.Keycloak.Realm)
		ver, err := oidc.NewVerifier(ctx, issuer, cfg.Keycloak.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			vs = append(vs, ver)
		}
	}
	if cfg.Admin.JWTSecret != "" {
		ver, err := tokens.NewHMACVerifier(cfg.Admin.JWTSecret)
		if err != nil {
			logger.Warnf("admin token verifier: %v", err)
		} else {
			vs = append(vs, ver)
		}
	}
	if cfg.Admin.AllowInsecureToken {
		logger.Warn("enabling insecure admin token verifier (signatures are not checked)")
		vs = append(vs, oidc.NewInsecureVerifier())
	}
	if len(vs) == 0 {
		return nil
	}
	return vs
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         net.JoinHostPort(a.cfg.Server.Host, a.cfg.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("poetbyte API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Close releases store and cache connections.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warnf("close: %v", err)
		}
	}
}
