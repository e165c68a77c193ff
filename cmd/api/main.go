package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/apoio-comunitario-api/internal/audit"
	"github.com/harentsoaR/apoio-comunitario-api/internal/config"
	"github.com/harentsoaR/apoio-comunitario-api/internal/handlers"
	"github.com/harentsoaR/apoio-comunitario-api/internal/logger"
	"github.com/harentsoaR/apoio-comunitario-api/internal/middleware"
	"github.com/harentsoaR/apoio-comunitario-api/internal/repository"
	"github.com/harentsoaR/apoio-comunitario-api/internal/server"
	"github.com/harentsoaR/apoio-comunitario-api/internal/services"
	"github.com/harentsoaR/apoio-comunitario-api/internal/utils"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Provide(
			config.Load,
			newLogger,
			newDatabase,
			repository.NewManager,
			newTokenIssuer,
			newAuditLog,
			newNotificationService,
			services.NewAuthService,
			services.NewUsuarioService,
			newAcompanhamentoService,
			newRateLimiter,
			handlers.NewHandler,
			newRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(runMigrations, startHTTPServer),
	)

	app.Run()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

func newDatabase(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBConnectTimeout+5*time.Second)
	defer cancel()

	db, err := repository.Open(ctx, cfg.DatabaseURL, cfg.DBConnectTimeout, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return repository.Close(db)
		},
	})
	return db, nil
}

func newTokenIssuer(cfg config.Config) *utils.TokenIssuer {
	return utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTKeyID, cfg.AccessTokenTTL)
}

// newAuditLog stores events in MongoDB when MONGO_URI is set and falls back
// to the application log otherwise.
func newAuditLog(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (audit.Log, error) {
	if cfg.MongoURI == "" {
		logger.Info("audit trail: MONGO_URI not set, logging events only")
		return audit.NewLoggerLog(logger), nil
	}

	client, err := audit.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	logger.Info("audit trail: connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	return audit.NewMongoLog(client.Database(cfg.MongoDatabase)), nil
}

func newNotificationService(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) *services.NotificationService {
	svc := services.NewNotificationService(cfg.TextbeltAPIKey, cfg.TextbeltURL, logger)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			svc.Wait()
			return nil
		},
	})
	return svc
}

func newAcompanhamentoService(db *gorm.DB, repos repository.Manager, notifier *services.NotificationService, auditLog audit.Log, logger *zap.Logger) *services.AcompanhamentoService {
	return services.NewAcompanhamentoService(db, repos, notifier, auditLog, logger)
}

func newRateLimiter(cfg config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.LoginRateLimitRPM)
}

func newRouter(cfg config.Config, h *handlers.Handler, tokens *utils.TokenIssuer, usuarios *services.UsuarioService, limiter *middleware.RateLimiter, logger *zap.Logger) (*gin.Engine, error) {
	return server.NewRouter(server.Deps{
		Handler:                  h,
		Tokens:                   tokens,
		Finder:                   usuarios,
		RequiredSpecializationID: cfg.RequiredSpecializationID,
		CORSAllowedOrigins:       cfg.CORSAllowedOrigins,
		TrustedProxies:           cfg.TrustedProxies,
		RateLimiter:              limiter,
		Logger:                   logger,
	})
}

func runMigrations(db *gorm.DB, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := repository.RunMigrations(ctx, db); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}

func startHTTPServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.APIPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				logger.Info("starting server", zap.String("addr", addr))
				err := srv.Run(runCtx, addr)
				close(done)
				if err != nil {
					logger.Error("http server stopped", zap.Error(err))
					if shutdownErr := shutdowner.Shutdown(fx.ExitCode(1)); shutdownErr != nil {
						logger.Error("shutdown application", zap.Error(shutdownErr))
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
