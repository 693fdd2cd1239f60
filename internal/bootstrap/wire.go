package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/baechuer/credential-service/internal/application/auth"
	"github.com/baechuer/credential-service/internal/audit"
	"github.com/baechuer/credential-service/internal/config"
	"github.com/baechuer/credential-service/internal/infrastructure/db/mongo"
	"github.com/baechuer/credential-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/credential-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/credential-service/internal/infrastructure/redis"
	"github.com/baechuer/credential-service/internal/infrastructure/security"
	"github.com/baechuer/credential-service/internal/logger"
	http_handlers "github.com/baechuer/credential-service/internal/transport/http/handlers"
	"github.com/baechuer/credential-service/internal/transport/http/middleware"
	"github.com/baechuer/credential-service/internal/transport/http/response"
	"github.com/baechuer/credential-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewMongo func(ctx context.Context, m config.MongoConfig) (*gomongo.Client, *gomongo.Database, error)

	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(url, exchange string, lg zerolog.Logger) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type Publisher interface {
	auth.EventPublisher
	Close() error
}

const startupTimeout = 10 * time.Second

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 1) user store
	var users auth.UserStore
	var memUsers *memory.UserStore
	var readyChecks []http_handlers.ReadyCheck

	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Logger.Warn().Msg("using in-memory user store; data is lost on restart")
		memUsers = memory.NewUserStore()
		users = memUsers
		readyChecks = append(readyChecks, http_handlers.ReadyCheck{Name: "store", Pinger: memUsers})
	default:
		client, db, err := deps.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return fail(err)
		}
		cleanupFns = append(cleanupFns, func() {
			dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer dcancel()
			_ = client.Disconnect(dctx)
		})
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			return fail(err)
		}
		logger.Logger.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

		users = mongo.NewUserStore(db, logger.Logger)
		readyChecks = append(readyChecks, http_handlers.ReadyCheck{
			Name: "store",
			Pinger: http_handlers.PingFunc(func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			}),
		})
	}

	// 2) redis (best-effort)
	var ledger auth.RefreshLedger = memory.NewRefreshLedger()
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; refresh ledger is process-local")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			ledger = redis.NewRefreshLedger(c)
			readyChecks = append(readyChecks, http_handlers.ReadyCheck{Name: "redis", Pinger: c})
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) publisher
	var pub auth.EventPublisher = memory.NewNoopPublisher(logger.Logger)
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExch, logger.Logger)
		switch {
		case err == nil:
			pub = p
			cleanupFns = append(cleanupFns, func() { _ = p.Close() })
		case cfg.Env == "dev":
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		default:
			return fail(err)
		}
	}

	// 4) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt issuer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost, cfg.HashWorkers)
	issuer, err := security.NewJWTIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return fail(err)
	}

	// seed (dev only)
	if cfg.Env == "dev" && memUsers != nil {
		memory.SeedUsers(ctx, memUsers, hasher, memory.DefaultSeedUsers, logger.Logger)
	}

	// 5) service
	authSvc := auth.NewService(
		users,
		hasher,
		issuer,
		ledger,
		pub,
		auth.Config{SingleUseRefresh: cfg.RefreshSingleUse},
	)

	authSvc = authSvc.WithAudit(audit.New(logger.Logger).Record)

	// 6) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc)
	healthH := http_handlers.NewHealthHandler(readyChecks...)

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health:      healthH,
		Auth:        authH,
		AuthMW:      middleware.Auth(issuer, response.WriteError),
		RateLimitMW: middleware.RateLimit(cfg.RateLimitPerMin, time.Minute, response.WriteError),
	})
	if err != nil {
		return fail(err)
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewMongo:   config.NewMongo,
		NewRedis:   redis.New,
		NewPublisher: func(url, exchange string, lg zerolog.Logger) (Publisher, error) {
			p, err := rabbitmq_pub.NewPublisher(url, exchange, lg)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
