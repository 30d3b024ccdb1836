package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AvinFlower/shadow-link/internal/lib/vless"
	"github.com/AvinFlower/shadow-link/internal/models"
	services "github.com/AvinFlower/shadow-link/internal/services/configuration"
)

// Мок для ConfigurationRepository
type ConfigRepoMock struct {
	mock.Mock
}

func (m *ConfigRepoMock) CreateConfiguration(ctx context.Context, cfg models.Configuration) (int64, error) {
	args := m.Called(ctx, cfg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ConfigRepoMock) ListConfigurations(ctx context.Context, userID int64) ([]*models.Configuration, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Configuration), args.Error(1)
}

// Мок для ServerRepository
type ServerRepoMock struct {
	mock.Mock
}

func (m *ServerRepoMock) ClaimServerSlot(ctx context.Context, country string) (*models.Server, error) {
	args := m.Called(ctx, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Server), args.Error(1)
}

func (m *ServerRepoMock) ReleaseServerSlot(ctx context.Context, serverID int64) error {
	args := m.Called(ctx, serverID)
	return args.Error(0)
}

// Мок для Cache
type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var testLinkParams = vless.Params{
	PublicKey: "test-public-key",
	Domain:    "example.com",
	Flow:      "xtls-rprx-vision",
}

func newTestService(configs *ConfigRepoMock, servers *ServerRepoMock, cache *CacheMock) *services.ConfigurationService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewConfigurationService(configs, servers, cache, testLinkParams, log)
}

var testServer = &models.Server{
	ID:      3,
	Country: "Russia",
	Host:    "10.0.0.1",
	XUIPort: 443,
}

func TestConfigurationService_Purchase(t *testing.T) {
	t.Run("successful purchase", func(t *testing.T) {
		configs := new(ConfigRepoMock)
		servers := new(ServerRepoMock)
		cache := new(CacheMock)

		servers.On("ClaimServerSlot", mock.Anything, "Russia").Return(testServer, nil).Once()
		configs.On("CreateConfiguration", mock.Anything, mock.MatchedBy(func(cfg models.Configuration) bool {
			return cfg.UserID == 7 &&
				cfg.ServerID == 3 &&
				cfg.Price == 200 &&
				cfg.Tariff == services.TariffBasic &&
				strings.HasPrefix(cfg.ConfigLink, "vless://") &&
				strings.Contains(cfg.ConfigLink, "10.0.0.1:443")
		})).Return(int64(11), nil).Once()
		cache.On("Invalidate", mock.Anything, "configurations:7").Return(nil).Once()

		svc := newTestService(configs, servers, cache)

		got, err := svc.Purchase(context.Background(), 7, models.PurchaseRequest{
			Country: "Russia",
			Months:  1,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(11), got.ID)
		assert.Equal(t, 200, got.Price)

		// календарный месяц, не 30 дней
		wantExpiry := got.CreatedAt.AddDate(0, 1, 0)
		assert.Equal(t, wantExpiry, got.ExpirationDate)

		configs.AssertExpectations(t)
		servers.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("unknown country rejected before claiming a server", func(t *testing.T) {
		configs := new(ConfigRepoMock)
		servers := new(ServerRepoMock)
		cache := new(CacheMock)
		svc := newTestService(configs, servers, cache)

		_, err := svc.Purchase(context.Background(), 7, models.PurchaseRequest{
			Country: "Atlantis",
			Months:  1,
		})
		assert.ErrorIs(t, err, services.ErrUnknownTariff)
		servers.AssertNotCalled(t, "ClaimServerSlot", mock.Anything, mock.Anything)
	})

	t.Run("no available server", func(t *testing.T) {
		configs := new(ConfigRepoMock)
		servers := new(ServerRepoMock)
		cache := new(CacheMock)

		wantErr := errors.New("no available server")
		servers.On("ClaimServerSlot", mock.Anything, "Poland").Return(nil, wantErr).Once()

		svc := newTestService(configs, servers, cache)

		_, err := svc.Purchase(context.Background(), 7, models.PurchaseRequest{
			Country: "Poland",
			Months:  3,
		})
		assert.ErrorIs(t, err, wantErr)
		configs.AssertNotCalled(t, "CreateConfiguration", mock.Anything, mock.Anything)
	})

	t.Run("slot released when insert fails", func(t *testing.T) {
		configs := new(ConfigRepoMock)
		servers := new(ServerRepoMock)
		cache := new(CacheMock)

		servers.On("ClaimServerSlot", mock.Anything, "Russia").Return(testServer, nil).Once()
		configs.On("CreateConfiguration", mock.Anything, mock.Anything).
			Return(int64(0), errors.New("db error")).Once()
		servers.On("ReleaseServerSlot", mock.Anything, int64(3)).Return(nil).Once()

		svc := newTestService(configs, servers, cache)

		_, err := svc.Purchase(context.Background(), 7, models.PurchaseRequest{
			Country: "Russia",
			Months:  1,
		})
		assert.Error(t, err)
		servers.AssertExpectations(t)
	})

	t.Run("annual purchase uses flat price", func(t *testing.T) {
		configs := new(ConfigRepoMock)
		servers := new(ServerRepoMock)
		cache := new(CacheMock)

		servers.On("ClaimServerSlot", mock.Anything, "Russia").Return(testServer, nil).Once()
		configs.On("CreateConfiguration", mock.Anything, mock.MatchedBy(func(cfg models.Configuration) bool {
			return cfg.Price == 4000 && cfg.Tariff == services.TariffPremium
		})).Return(int64(12), nil).Once()
		cache.On("Invalidate", mock.Anything, "configurations:7").Return(nil).Once()

		svc := newTestService(configs, servers, cache)

		got, err := svc.Purchase(context.Background(), 7, models.PurchaseRequest{
			Country: "Russia",
			Months:  12,
			Tariff:  services.TariffPremium,
		})
		require.NoError(t, err)
		assert.Equal(t, 4000, got.Price)
	})
}

func TestConfigurationService_List(t *testing.T) {
	stored := []*models.Configuration{
		{ID: 2, UserID: 7, ConfigLink: "vless://second"},
		{ID: 1, UserID: 7, ConfigLink: "vless://first"},
	}

	t.Run("cache miss reads repository and fills cache", func(t *testing.T) {
		configs := new(ConfigRepoMock)
		servers := new(ServerRepoMock)
		cache := new(CacheMock)

		cache.On("Get", mock.Anything, "configurations:7", mock.Anything).Return(false, nil).Once()
		configs.On("ListConfigurations", mock.Anything, int64(7)).Return(stored, nil).Once()
		cache.On("Set", mock.Anything, "configurations:7", stored, time.Hour).Return(nil).Once()

		svc := newTestService(configs, servers, cache)

		got, err := svc.List(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, stored, got)

		configs.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		configs := new(ConfigRepoMock)
		servers := new(ServerRepoMock)
		cache := new(CacheMock)

		cache.On("Get", mock.Anything, "configurations:7", mock.Anything).Return(true, nil).Once()

		svc := newTestService(configs, servers, cache)

		_, err := svc.List(context.Background(), 7)
		require.NoError(t, err)
		configs.AssertNotCalled(t, "ListConfigurations", mock.Anything, mock.Anything)
	})

	t.Run("repository error", func(t *testing.T) {
		configs := new(ConfigRepoMock)
		servers := new(ServerRepoMock)
		cache := new(CacheMock)

		cache.On("Get", mock.Anything, "configurations:7", mock.Anything).Return(false, nil).Once()
		configs.On("ListConfigurations", mock.Anything, int64(7)).Return(nil, errors.New("db error")).Once()

		svc := newTestService(configs, servers, cache)

		_, err := svc.List(context.Background(), 7)
		assert.Error(t, err)
	})
}
