// Package login реализует HTTP-обработчик входа администратора.
//
// Обработчик принимает форму с именем и паролем, проверяет учетные данные
// через сервис аутентификации и при успехе заводит серверную сессию,
// выставляя подписанную куку. Неверные учетные данные не раскрываются:
// пользователь возвращается на форму входа с flash-сообщением.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/letterpost/newsletter-service/internal/lib/cookietoken"
	"github.com/letterpost/newsletter-service/internal/lib/secret"
	"github.com/letterpost/newsletter-service/internal/lib/sl"
	"github.com/letterpost/newsletter-service/internal/models"
	"github.com/letterpost/newsletter-service/internal/services/auth"
	"github.com/letterpost/newsletter-service/internal/session"
)

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	// ValidateCredentials возвращает UID пользователя
	// или auth.ErrInvalidCredentials.
	ValidateCredentials(ctx context.Context, creds models.Credentials) (string, error)
}

// Handler обрабатывает HTTP-запросы входа.
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

// ServeHTTP godoc
// @Summary Вход администратора
// @Description Проверяет имя и пароль из формы. При успехе заводит сессию
// @Description и перенаправляет в кабинет; при неверных данных возвращает
// @Description на форму входа с flash-сообщением.
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Param username formData string true "Имя пользователя"
// @Param password formData string true "Пароль"
// @Success 303 {string} string "Перенаправление на /admin/dashboard"
// @Failure 303 {string} string "Перенаправление на /login с flash-сообщением"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	creds := models.Credentials{
		Username: r.PostFormValue("username"),
		Password: secret.New(r.PostFormValue("password")),
	}
	log.Info("login attempt", slog.String("username", creds.Username))

	userUID, err := h.service.ValidateCredentials(r.Context(), creds)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Info("invalid credentials", slog.String("username", creds.Username))
		if err := h.maker.SetFlash(w, "Authentication failed"); err != nil {
			log.Error("failed to set flash cookie", sl.Err(err))
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Error("failed to validate credentials", sl.Err(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	sessionID, err := h.sessions.Create(r.Context(), userUID)
	if err != nil {
		log.Error("failed to create session", sl.Err(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := h.maker.SetSession(w, sessionID); err != nil {
		log.Error("failed to set session cookie", sl.Err(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	log.Info("login success", slog.String("username", creds.Username))
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}
