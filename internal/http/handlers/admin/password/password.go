// Package password реализует HTTP-обработчик смены пароля администратора.
//
// Все пользовательские ошибки (несовпадение подтверждения, слишком короткий
// или длинный пароль, неверный текущий пароль) возвращают на форму смены
// пароля с flash-сообщением. При успехе старая сессия уничтожается
// и заводится новая: куки, украденные до смены пароля, перестают работать.
package password

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/middleware"

	"github.com/letterpost/newsletter-service/internal/http/middlewarectx"
	"github.com/letterpost/newsletter-service/internal/lib/cookietoken"
	"github.com/letterpost/newsletter-service/internal/lib/secret"
	"github.com/letterpost/newsletter-service/internal/lib/sl"
	"github.com/letterpost/newsletter-service/internal/services/auth"
	"github.com/letterpost/newsletter-service/internal/session"
)

// Границы длины нового пароля в символах, по рекомендации OWASP.
const (
	minPasswordLen = 12
	maxPasswordLen = 128
)

// Service описывает интерфейс смены пароля.
type Service interface {
	// ChangePassword проверяет текущий пароль и сохраняет хеш нового.
	// Неверный текущий пароль — auth.ErrInvalidCredentials.
	ChangePassword(ctx context.Context, userUID string, current, newPassword secret.String) error
}

// Handler обрабатывает HTTP-запросы смены пароля.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions session.Store
	maker    *cookietoken.Maker
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessions session.Store, maker *cookietoken.Maker) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		maker:    maker,
	}
}

// backToForm возвращает пользователя на форму смены пароля с сообщением.
func (h *Handler) backToForm(w http.ResponseWriter, r *http.Request, log *slog.Logger, msg string) {
	if err := h.maker.SetFlash(w, msg); err != nil {
		log.Error("failed to set flash cookie", sl.Err(err))
	}
	http.Redirect(w, r, "/admin/password", http.StatusSeeOther)
}

// ServeHTTP godoc
// @Summary Смена пароля
// @Description Проверяет текущий пароль и политику нового, сохраняет новый хеш
// @Description и перевыпускает сессию. Ошибки возвращают на форму с flash-сообщением.
// @Tags Admin
// @Accept x-www-form-urlencoded
// @Param current_password formData string true "Текущий пароль"
// @Param new_password formData string true "Новый пароль"
// @Param new_password_check formData string true "Подтверждение нового пароля"
// @Success 303 {string} string "Перенаправление на /admin/password"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.password"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	current := secret.New(r.PostFormValue("current_password"))
	newPassword := secret.New(r.PostFormValue("new_password"))
	newPasswordCheck := secret.New(r.PostFormValue("new_password_check"))

	if newPassword.Expose() != newPasswordCheck.Expose() {
		h.backToForm(w, r, log,
			"You entered two different new passwords - the field values must match.")
		return
	}
	if n := utf8.RuneCountInString(newPassword.Expose()); n < minPasswordLen || n > maxPasswordLen {
		h.backToForm(w, r, log,
			"The new password must be between 12 and 128 characters long.")
		return
	}

	err := h.service.ChangePassword(r.Context(), userUID, current, newPassword)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Info("current password is incorrect")
		h.backToForm(w, r, log, "The current password is incorrect.")
		return
	}
	if err != nil {
		log.Error("failed to change password", sl.Err(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Смена пароля перевыпускает сессию.
	if oldSessionID, ok := r.Context().Value(middlewarectx.SessionID).(string); ok && oldSessionID != "" {
		if err := h.sessions.Destroy(r.Context(), oldSessionID); err != nil {
			log.Error("failed to destroy old session", sl.Err(err))
		}
	}
	newSessionID, err := h.sessions.Create(r.Context(), userUID)
	if err != nil {
		log.Error("failed to create new session", sl.Err(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := h.maker.SetSession(w, newSessionID); err != nil {
		log.Error("failed to set session cookie", sl.Err(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	log.Info("password changed", slog.String("user_uid", userUID))
	h.backToForm(w, r, log, "Your password has been changed.")
}
