// Package cookietoken реализует подписанные куки на основе JWT (HS256).
//
// Кука сессии несет только непрозрачный идентификатор серверной сессии,
// кука flash-сообщения — одноразовый текст для следующей загрузки страницы.
// Подпись закрывает обе куки от подделки на клиенте: токен с битой подписью
// неотличим от отсутствующего.
package cookietoken

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Имена кук, выставляемых сервером.
const (
	SessionCookie = "session"
	FlashCookie   = "_flash"
)

const flashTTL = 5 * time.Minute

// Maker подписывает и проверяет токены кук секретным ключом.
type Maker struct {
	secretKey  string
	sessionTTL time.Duration
}

// NewMaker создает Maker с секретным ключом и временем жизни куки сессии.
func NewMaker(secretKey string, sessionTTL time.Duration) *Maker {
	return &Maker{secretKey: secretKey, sessionTTL: sessionTTL}
}

type sessionClaims struct {
	SessionID string `json:"sid"` // Идентификатор серверной сессии
	jwt.RegisteredClaims
}

type flashClaims struct {
	Message string `json:"msg"` // Текст одноразового сообщения
	jwt.RegisteredClaims
}

func (m *Maker) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

func (m *Maker) keyFunc(_ *jwt.Token) (any, error) {
	return []byte(m.secretKey), nil
}

// SetSession подписывает идентификатор сессии и выставляет куку сессии.
func (m *Maker) SetSession(w http.ResponseWriter, sessionID string) error {
	const op = "cookietoken.SetSession"

	now := time.Now()
	value, err := m.sign(sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.sessionTTL)),
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ReadSession извлекает идентификатор сессии из куки запроса.
//
// Отсутствующая, просроченная или подделанная кука дает ("", false):
// для вызывающего это просто "сессии нет".
func (m *Maker) ReadSession(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.SessionID == "" {
		return "", false
	}
	return claims.SessionID, true
}

// ClearSession затирает куку сессии на клиенте.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetFlash выставляет одноразовое сообщение для следующей загрузки страницы.
func (m *Maker) SetFlash(w http.ResponseWriter, message string) error {
	const op = "cookietoken.SetFlash"

	now := time.Now()
	value, err := m.sign(flashClaims{
		Message: message,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(flashTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// PopFlash читает flash-сообщение и сразу затирает его куку.
func (m *Maker) PopFlash(w http.ResponseWriter, r *http.Request) (string, bool) {
	cookie, err := r.Cookie(FlashCookie)
	if err != nil {
		return "", false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	claims := &flashClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", false
	}
	return claims.Message, true
}
