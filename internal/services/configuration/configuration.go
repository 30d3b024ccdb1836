// Package services содержит бизнес-логику покупки прокси-конфигураций:
// расчёт цены, подбор сервера, генерацию ссылки и кеширование списков.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AvinFlower/shadow-link/internal/lib/month"
	"github.com/AvinFlower/shadow-link/internal/lib/vless"
	"github.com/AvinFlower/shadow-link/internal/models"
)

var purchasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shadowlink_purchases_total",
	Help: "Количество успешных покупок конфигураций по тарифам.",
}, []string{"tariff"})

// ConfigurationRepository определяет методы для работы с конфигурациями в хранилище.
type ConfigurationRepository interface {
	// CreateConfiguration вставляет купленную конфигурацию и возвращает её ID.
	CreateConfiguration(ctx context.Context, cfg models.Configuration) (int64, error)
	// ListConfigurations возвращает конфигурации пользователя, свежие первыми.
	ListConfigurations(ctx context.Context, userID int64) ([]*models.Configuration, error)
}

// ServerRepository определяет методы подбора backend-сервера под покупку.
type ServerRepository interface {
	// ClaimServerSlot атомарно занимает место на сервере страны.
	ClaimServerSlot(ctx context.Context, country string) (*models.Server, error)
	// ReleaseServerSlot возвращает место при откате покупки.
	ReleaseServerSlot(ctx context.Context, serverID int64) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// ConfigurationService реализует покупку и выдачу прокси-конфигураций.
type ConfigurationService struct {
	configs ConfigurationRepository
	servers ServerRepository
	cache   Cache
	link    vless.Params
	log     *slog.Logger
}

// NewConfigurationService создает новый экземпляр ConfigurationService.
func NewConfigurationService(configs ConfigurationRepository, servers ServerRepository,
	cache Cache, link vless.Params, log *slog.Logger) *ConfigurationService {
	return &ConfigurationService{
		configs: configs,
		servers: servers,
		cache:   cache,
		link:    link,
		log:     log,
	}
}

func listCacheKey(userID int64) string {
	return fmt.Sprintf("configurations:%d", userID)
}

// Purchase проводит покупку конфигурации: считает цену, занимает место на
// сервере страны, генерирует ссылку подключения и сохраняет запись.
// Срок действия — календарные месяцы от момента покупки.
// Если запись сохранить не удалось, занятое место возвращается серверу.
func (s *ConfigurationService) Purchase(ctx context.Context, userID int64, req models.PurchaseRequest) (*models.Configuration, error) {
	const op = "configuration.Purchase"

	tariff := req.Tariff
	if tariff == "" {
		tariff = TariffBasic
	}
	price, err := ComputePrice(tariff, req.Country, req.Months)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	server, err := s.servers.ClaimServerSlot(ctx, req.Country)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	cfg := models.Configuration{
		UserID:         userID,
		ServerID:       server.ID,
		ClientUID:      vless.NewClientUID(),
		Tariff:         tariff,
		Price:          price,
		ExpirationDate: month.Expiration(now, req.Months),
		CreatedAt:      now,
	}
	cfg.ConfigLink = s.link.Link(cfg.ClientUID, vless.NewClientTag(), server.Host, server.XUIPort)

	id, err := s.configs.CreateConfiguration(ctx, cfg)
	if err != nil {
		if relErr := s.servers.ReleaseServerSlot(ctx, server.ID); relErr != nil {
			s.log.Error("failed to release server slot after failed purchase",
				slog.Int64("server_id", server.ID), slog.Any("err", relErr))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cfg.ID = id

	purchasesTotal.WithLabelValues(tariff).Inc()
	s.log.Info("created new configuration",
		slog.Int64("id", id), slog.Int64("user_id", userID),
		slog.String("country", req.Country), slog.Int("price", price))

	if err := s.cache.Invalidate(ctx, listCacheKey(userID)); err != nil {
		s.log.Warn("failed to invalidate configurations cache",
			slog.Int64("user_id", userID), slog.Any("err", err))
	}
	return &cfg, nil
}

// List возвращает конфигурации пользователя, свежие первыми,
// используя кеш или репозиторий. Признак активности здесь не считается:
// он — мгновенная функция времени и вычисляется при отдаче ответа.
func (s *ConfigurationService) List(ctx context.Context, userID int64) ([]*models.Configuration, error) {
	const op = "configuration.List"

	cacheKey := listCacheKey(userID)
	var cached []*models.Configuration
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if found {
		return cached, nil
	}

	result, err := s.configs.ListConfigurations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache configurations",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}
