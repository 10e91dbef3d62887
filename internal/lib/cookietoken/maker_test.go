package cookietoken_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letterpost/newsletter-service/internal/lib/cookietoken"
)

func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestMaker_SessionRoundTrip(t *testing.T) {
	maker := cookietoken.NewMaker("test-secret-key", time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, maker.SetSession(rec, "session-id-123"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookietoken.SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotContains(t, cookies[0].Value, "session-id-123")

	sid, ok := maker.ReadSession(requestWithCookies(t, rec))
	assert.True(t, ok)
	assert.Equal(t, "session-id-123", sid)
}

func TestMaker_ReadSession_NoCookie(t *testing.T) {
	maker := cookietoken.NewMaker("test-secret-key", time.Hour)

	sid, ok := maker.ReadSession(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
	assert.Empty(t, sid)
}

func TestMaker_ReadSession_TamperedToken(t *testing.T) {
	maker := cookietoken.NewMaker("test-secret-key", time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, maker.SetSession(rec, "session-id-123"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  cookietoken.SessionCookie,
		Value: rec.Result().Cookies()[0].Value + "x",
	})

	_, ok := maker.ReadSession(req)
	assert.False(t, ok)
}

func TestMaker_ReadSession_WrongKey(t *testing.T) {
	issuer := cookietoken.NewMaker("key-one", time.Hour)
	verifier := cookietoken.NewMaker("key-two", time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, issuer.SetSession(rec, "session-id-123"))

	_, ok := verifier.ReadSession(requestWithCookies(t, rec))
	assert.False(t, ok)
}

func TestMaker_ReadSession_Expired(t *testing.T) {
	maker := cookietoken.NewMaker("test-secret-key", -time.Minute)

	rec := httptest.NewRecorder()
	require.NoError(t, maker.SetSession(rec, "session-id-123"))

	_, ok := maker.ReadSession(requestWithCookies(t, rec))
	assert.False(t, ok)
}

func TestClearSession_ExpiresCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	cookietoken.ClearSession(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookietoken.SessionCookie, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestMaker_FlashRoundTrip(t *testing.T) {
	maker := cookietoken.NewMaker("test-secret-key", time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, maker.SetFlash(rec, "Authentication failed"))

	popRec := httptest.NewRecorder()
	msg, ok := maker.PopFlash(popRec, requestWithCookies(t, rec))
	assert.True(t, ok)
	assert.Equal(t, "Authentication failed", msg)

	// PopFlash затирает куку даже при успешном чтении.
	cleared := popRec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Negative(t, cleared[0].MaxAge)
}

func TestMaker_PopFlash_NoCookie(t *testing.T) {
	maker := cookietoken.NewMaker("test-secret-key", time.Hour)

	rec := httptest.NewRecorder()
	msg, ok := maker.PopFlash(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
	assert.Empty(t, msg)
	assert.Empty(t, rec.Result().Cookies())
}
