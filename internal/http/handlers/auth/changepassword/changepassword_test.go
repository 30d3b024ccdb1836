package changepassword

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AvinFlower/shadow-link/internal/http/middlewarectx"
	"github.com/AvinFlower/shadow-link/internal/http/response"
	"github.com/AvinFlower/shadow-link/internal/models"
	authservice "github.com/AvinFlower/shadow-link/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) (*models.User, error) {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestChangePasswordHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, authMock)

	tests := []struct {
		name           string
		requestBody    any
		withUserID     bool
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "successful change",
			requestBody:    Request{OldPassword: "oldpassword", NewPassword: "newpassword"},
			withUserID:     true,
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			withUserID:     true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - short new password",
			requestBody:    Request{OldPassword: "oldpassword", NewPassword: "abc"},
			withUserID:     true,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field NewPassword is too short",
		},
		{
			name:           "missing user identification",
			requestBody:    Request{OldPassword: "oldpassword", NewPassword: "newpassword"},
			withUserID:     false,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
		{
			name:           "wrong current password",
			requestBody:    Request{OldPassword: "wrongpassword", NewPassword: "newpassword"},
			withUserID:     true,
			mockCalled:     true,
			mockErr:        authservice.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.mockCalled {
				body := tt.requestBody.(Request)
				var user *models.User
				if tt.mockErr == nil {
					user = &models.User{ID: 7, Username: "user1"}
				}
				authMock.On("ChangePassword", mock.Anything, int64(7), body.OldPassword, body.NewPassword).
					Return(user, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/api/change-password", bytes.NewReader(bodyBytes))
			if tt.withUserID {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, int64(7)))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			if tt.wantError != "" {
				assert.Equal(t, response.StatusError, resp.Status)
				assert.Contains(t, resp.Error, tt.wantError)
			} else {
				assert.Equal(t, response.StatusOK, resp.Status)
			}

			authMock.AssertExpectations(t)
		})
	}
}
