package shadowlink

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/AvinFlower/shadow-link/internal/cache"
	"github.com/AvinFlower/shadow-link/internal/config"
	"github.com/AvinFlower/shadow-link/internal/lib/jwt"
	"github.com/AvinFlower/shadow-link/internal/lib/vless"
	"github.com/AvinFlower/shadow-link/internal/migrations"
	authservice "github.com/AvinFlower/shadow-link/internal/services/auth"
	configservice "github.com/AvinFlower/shadow-link/internal/services/configuration"
	serverservice "github.com/AvinFlower/shadow-link/internal/services/server"
	"github.com/AvinFlower/shadow-link/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и соединения с внешними хранилищами.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New собирает приложение: подключается к базе, применяет миграции,
// поднимает redis и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.SessionTTL)
	linkParams := vless.Params{
		PublicKey: cfg.ProxyLink.PublicKey,
		Domain:    cfg.ProxyLink.Domain,
		Flow:      cfg.ProxyLink.Flow,
	}

	authService := authservice.NewAuthService(db, cacheRedis, jwtMaker, cfg.JWTToken.SessionTTL)
	configurationService := configservice.NewConfigurationService(db, db, cacheRedis, linkParams, logger)
	serverService := serverservice.NewServerService(db)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, configurationService, serverService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает сервер и блокируется до ошибки или отмены контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close database connection", slog.String("error", cerr.Error()))
		}
		return err
	}
}
