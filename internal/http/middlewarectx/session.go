// Package middlewarectx содержит HTTP middleware для проверки сессии пользователя.
//
// SessionMiddleware читает подписанную куку сессии, находит сессию в серверном
// хранилище и, в случае успеха, добавляет в контекст UID пользователя
// и идентификатор сессии для дальнейшего использования в обработчиках.
//
// Запросы без живой сессии перенаправляются на форму входа.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/letterpost/newsletter-service/internal/lib/cookietoken"
	"github.com/letterpost/newsletter-service/internal/lib/sl"
	"github.com/letterpost/newsletter-service/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для UID пользователя в контексте
	UserUID Key = "user_uid"
	// SessionID — ключ для идентификатора сессии в контексте
	SessionID Key = "session_id"
)

// SessionMiddleware возвращает HTTP middleware, который проверяет куку сессии.
//
// Если сессия жива, добавляет UID пользователя и идентификатор сессии
// в контекст запроса. Если куки нет, она подделана или сессия не найдена
// в хранилище, перенаправляет на /login без вызова обработчика. Ошибка
// самого хранилища — это 500, а не повод отправить пользователя на вход.
func SessionMiddleware(maker *cookietoken.Maker, sessions session.Store, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			sessionID, ok := maker.ReadSession(r)
			if !ok {
				log.Info("no valid session cookie, redirecting to login")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			userUID, err := sessions.UserUID(r.Context(), sessionID)
			if err != nil {
				log.Error("failed to look up session", sl.Err(err))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if userUID == "" {
				log.Info("session not found in store, redirecting to login")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, userUID)
			ctx = context.WithValue(ctx, SessionID, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
