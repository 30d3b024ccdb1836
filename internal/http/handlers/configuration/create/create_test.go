package create

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

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AvinFlower/shadow-link/internal/http/response"
	"github.com/AvinFlower/shadow-link/internal/models"
	configservice "github.com/AvinFlower/shadow-link/internal/services/configuration"
	"github.com/AvinFlower/shadow-link/internal/storage/repository"
)

type ConfigServiceMock struct {
	mock.Mock
}

func (m *ConfigServiceMock) Purchase(ctx context.Context, userID int64, req models.PurchaseRequest) (*models.Configuration, error) {
	args := m.Called(ctx, userID, req)
	cfg, _ := args.Get(0).(*models.Configuration)
	return cfg, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequestWithUserID(method, target, userID string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userId", userID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ConfigServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	validRequest := models.PurchaseRequest{
		Country: "Russia",
		Months:  3,
		Tariff:  "Базовый сервер",
	}

	createdConfig := &models.Configuration{
		ID:             1,
		UserID:         7,
		ConfigLink:     "vless://abc@10.0.0.1:443?type=tcp#client-1",
		Tariff:         "Базовый сервер",
		Price:          600,
		ExpirationDate: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name           string
		pathUserID     string
		requestBody    any
		mockConfig     *models.Configuration
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "successful purchase",
			pathUserID:     "7",
			requestBody:    validRequest,
			mockConfig:     createdConfig,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid user id in path",
			pathUserID:     "abc",
			requestBody:    validRequest,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid user id",
		},
		{
			name:           "invalid json body",
			pathUserID:     "7",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - zero months",
			pathUserID:     "7",
			requestBody:    models.PurchaseRequest{Country: "Russia"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Months is a required field",
		},
		{
			name:           "unknown tariff",
			pathUserID:     "7",
			requestBody:    models.PurchaseRequest{Country: "Russia", Months: 3, Tariff: "Несуществующий"},
			mockErr:        configservice.ErrUnknownTariff,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "unknown tariff, country or duration",
		},
		{
			name:           "no available server",
			pathUserID:     "7",
			requestBody:    validRequest,
			mockErr:        repository.ErrNoAvailableServer,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "no available servers for this country",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockConfig != nil || tt.mockErr != nil {
				serviceMock.On("Purchase", mock.Anything, int64(7), tt.requestBody.(models.PurchaseRequest)).
					Return(tt.mockConfig, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := newRequestWithUserID(http.MethodPost, "/api/users/configurations/"+tt.pathUserID, tt.pathUserID, bodyBytes)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			if tt.wantError != "" {
				var resp response.Response
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, response.StatusError, resp.Status)
				assert.Contains(t, resp.Error, tt.wantError)
			} else {
				var resp struct {
					Status string `json:"status"`
					Data   struct {
						ConfigLink     string `json:"config_link"`
						ExpirationDate string `json:"expiration_date"`
						Country        string `json:"country"`
						Price          int    `json:"price"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, response.StatusOK, resp.Status)
				assert.Equal(t, createdConfig.ConfigLink, resp.Data.ConfigLink)
				assert.Equal(t, "Russia", resp.Data.Country)
				assert.Equal(t, 600, resp.Data.Price)
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
