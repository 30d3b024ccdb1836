package logout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AvinFlower/shadow-link/internal/http/response"
	authservice "github.com/AvinFlower/shadow-link/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLogoutHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, authMock)

	newRequest := func(authHeader string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		return req
	}

	t.Run("repeated logout with the same token stays successful", func(t *testing.T) {
		authMock.ExpectedCalls = nil
		authMock.Calls = nil
		authMock.On("Logout", mock.Anything, "the-token").Return(nil).Twice()

		for range 2 {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest("Bearer the-token"))

			assert.Equal(t, http.StatusOK, rec.Code)

			var resp response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, response.StatusOK, resp.Status)
		}

		authMock.AssertExpectations(t)
	})

	t.Run("missing authorization header", func(t *testing.T) {
		authMock.ExpectedCalls = nil
		authMock.Calls = nil

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(""))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		authMock.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
	})

	t.Run("basic auth instead of bearer", func(t *testing.T) {
		authMock.ExpectedCalls = nil
		authMock.Calls = nil

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("Basic dXNlcjpwYXNz"))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		authMock.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
	})

	t.Run("malformed token", func(t *testing.T) {
		authMock.ExpectedCalls = nil
		authMock.Calls = nil
		authMock.On("Logout", mock.Anything, "garbage").
			Return(authservice.ErrInvalidCredentials).Once()

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("Bearer garbage"))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("session store unavailable", func(t *testing.T) {
		authMock.ExpectedCalls = nil
		authMock.Calls = nil
		authMock.On("Logout", mock.Anything, "the-token").
			Return(errors.New("redis down")).Once()

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("Bearer the-token"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
