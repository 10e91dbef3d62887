package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/letterpost/newsletter-service/internal/http/middlewarectx"
	"github.com/letterpost/newsletter-service/internal/lib/cookietoken"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) Create(ctx context.Context, userUID string) (string, error) {
	args := m.Called(ctx, userUID)
	return args.String(0), args.Error(1)
}

func (m *StoreMock) UserUID(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *StoreMock) Destroy(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// sessionCookie выпускает валидную подписанную куку для запроса.
func sessionCookie(t *testing.T, maker *cookietoken.Maker, sessionID string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, maker.SetSession(rec, sessionID))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestSessionMiddleware(t *testing.T) {
	maker := cookietoken.NewMaker("test-secret-key", time.Hour)

	tests := []struct {
		name           string
		cookie         *http.Cookie
		storeUID       string
		storeErr       error
		storeCalled    bool
		wantStatusCode int
		wantLocation   string
		wantCalled     bool
	}{
		{
			name:           "no session cookie",
			cookie:         nil,
			wantStatusCode: http.StatusSeeOther,
			wantLocation:   "/login",
			wantCalled:     false,
		},
		{
			name:           "tampered session cookie",
			cookie:         &http.Cookie{Name: cookietoken.SessionCookie, Value: "not-a-signed-token"},
			wantStatusCode: http.StatusSeeOther,
			wantLocation:   "/login",
			wantCalled:     false,
		},
		{
			name:           "session missing from store",
			storeUID:       "",
			storeCalled:    true,
			wantStatusCode: http.StatusSeeOther,
			wantLocation:   "/login",
			wantCalled:     false,
		},
		{
			name:           "store lookup failure",
			storeErr:       errors.New("redis: connection refused"),
			storeCalled:    true,
			wantStatusCode: http.StatusInternalServerError,
			wantCalled:     false,
		},
		{
			name:           "live session",
			storeUID:       "uid-42",
			storeCalled:    true,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(StoreMock)
			if tt.storeCalled {
				store.On("UserUID", mock.Anything, "sess-1").
					Return(tt.storeUID, tt.storeErr).Once()
			}

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				assert.Equal(t, "uid-42", r.Context().Value(middlewarectx.UserUID))
				assert.Equal(t, "sess-1", r.Context().Value(middlewarectx.SessionID))
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.SessionMiddleware(maker, store, newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			switch {
			case tt.cookie != nil:
				req.AddCookie(tt.cookie)
			case tt.storeCalled:
				req.AddCookie(sessionCookie(t, maker, "sess-1"))
			}

			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
			store.AssertExpectations(t)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := middlewarectx.RateLimitMiddleware(newNoopLogger(), 1, 2)(next)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/subscriptions", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}
