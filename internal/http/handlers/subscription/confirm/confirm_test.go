package confirm_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/letterpost/newsletter-service/internal/http/handlers/subscription/confirm"
	"github.com/letterpost/newsletter-service/internal/services/subscription"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Confirm(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestConfirmHandler(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		mockToken      string
		mockErr        error
		wantStatusCode int
	}{
		{
			name:           "valid token",
			target:         "/subscriptions/confirm?subscription_token=abcDEF123",
			mockToken:      "abcDEF123",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing token",
			target:         "/subscriptions/confirm",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "unknown token",
			target:         "/subscriptions/confirm?subscription_token=nosuch",
			mockToken:      "nosuch",
			mockErr:        subscription.ErrUnknownToken,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "storage failure",
			target:         "/subscriptions/confirm?subscription_token=abcDEF123",
			mockToken:      "abcDEF123",
			mockErr:        errors.New("connection refused"),
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			if tt.mockToken != "" {
				service.On("Confirm", mock.Anything, tt.mockToken).
					Return(tt.mockErr).Once()
			}

			handler := confirm.New(newNoopLogger(), service)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			service.AssertExpectations(t)
		})
	}
}
