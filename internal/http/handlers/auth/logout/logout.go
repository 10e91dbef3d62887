// Package logout реализует HTTP-обработчик выхода из кабинета.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/letterpost/newsletter-service/internal/http/middlewarectx"
	"github.com/letterpost/newsletter-service/internal/lib/cookietoken"
	"github.com/letterpost/newsletter-service/internal/lib/sl"
	"github.com/letterpost/newsletter-service/internal/session"
)

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log      *slog.Logger
	sessions session.Store
	maker    *cookietoken.Maker
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions session.Store, maker *cookietoken.Maker) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		maker:    maker,
	}
}

// ServeHTTP godoc
// @Summary Выход из кабинета
// @Description Уничтожает серверную сессию, затирает куку и перенаправляет
// @Description на форму входа с flash-сообщением.
// @Tags Auth
// @Success 303 {string} string "Перенаправление на /login"
// @Router /admin/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if sessionID, ok := r.Context().Value(middlewarectx.SessionID).(string); ok && sessionID != "" {
		if err := h.sessions.Destroy(r.Context(), sessionID); err != nil {
			log.Error("failed to destroy session", sl.Err(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	cookietoken.ClearSession(w)
	if err := h.maker.SetFlash(w, "You have successfully logged out."); err != nil {
		log.Error("failed to set flash cookie", sl.Err(err))
	}

	log.Info("logout success")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
