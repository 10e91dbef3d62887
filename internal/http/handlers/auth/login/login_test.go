package login_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/letterpost/newsletter-service/internal/http/handlers/auth/login"
	"github.com/letterpost/newsletter-service/internal/lib/cookietoken"
	"github.com/letterpost/newsletter-service/internal/models"
	"github.com/letterpost/newsletter-service/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ValidateCredentials(ctx context.Context, creds models.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

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

func postLoginForm(handler http.Handler, username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	service := new(ServiceMock)
	service.On("ValidateCredentials", mock.Anything, mock.MatchedBy(func(c models.Credentials) bool {
		return c.Username == "admin" && c.Password.Expose() == "correct horse battery"
	})).Return("uid-42", nil).Once()

	store := new(StoreMock)
	store.On("Create", mock.Anything, "uid-42").Return("sess-1", nil).Once()

	maker := cookietoken.NewMaker("test-secret-key", time.Hour)
	handler := login.New(newNoopLogger(), service, store, maker)

	rec := postLoginForm(handler, "admin", "correct horse battery")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))

	sessionCookie := cookieByName(rec.Result().Cookies(), cookietoken.SessionCookie)
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.NotEmpty(t, sessionCookie.Value)
	service.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	service := new(ServiceMock)
	service.On("ValidateCredentials", mock.Anything, mock.Anything).
		Return("", auth.ErrInvalidCredentials).Once()

	store := new(StoreMock)
	maker := cookietoken.NewMaker("test-secret-key", time.Hour)
	handler := login.New(newNoopLogger(), service, store, maker)

	rec := postLoginForm(handler, "admin", "wrong password entirely")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	flashCookie := cookieByName(rec.Result().Cookies(), cookietoken.FlashCookie)
	require.NotNil(t, flashCookie, "failed login must leave a flash message")
	assert.Nil(t, cookieByName(rec.Result().Cookies(), cookietoken.SessionCookie))
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_ValidationFailure(t *testing.T) {
	service := new(ServiceMock)
	cause := errors.New("connection refused")
	service.On("ValidateCredentials", mock.Anything, mock.Anything).
		Return("", cause).Once()

	maker := cookietoken.NewMaker("test-secret-key", time.Hour)
	handler := login.New(newNoopLogger(), service, new(StoreMock), maker)

	rec := postLoginForm(handler, "admin", "correct horse battery")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogin_SessionStoreFailure(t *testing.T) {
	service := new(ServiceMock)
	service.On("ValidateCredentials", mock.Anything, mock.Anything).
		Return("uid-42", nil).Once()

	store := new(StoreMock)
	store.On("Create", mock.Anything, "uid-42").
		Return("", errors.New("redis: connection refused")).Once()

	maker := cookietoken.NewMaker("test-secret-key", time.Hour)
	handler := login.New(newNoopLogger(), service, store, maker)

	rec := postLoginForm(handler, "admin", "correct horse battery")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Nil(t, cookieByName(rec.Result().Cookies(), cookietoken.SessionCookie))
}
