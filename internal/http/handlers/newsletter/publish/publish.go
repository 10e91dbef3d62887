// Package publish реализует HTTP-обработчик публикации выпуска рассылки.
//
// Эндпоинт вызывается внешним инструментом, а не браузером, поэтому
// аутентификация здесь HTTP Basic, а не сессионная. Любая проблема
// с учетными данными (битый заголовок, неизвестный пользователь, неверный
// пароль) дает 401 с заголовком WWW-Authenticate; сбои инфраструктуры — 500.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/letterpost/newsletter-service/internal/http/response"
	"github.com/letterpost/newsletter-service/internal/lib/basicauth"
	"github.com/letterpost/newsletter-service/internal/lib/sl"
	"github.com/letterpost/newsletter-service/internal/models"
	"github.com/letterpost/newsletter-service/internal/services/auth"
	"github.com/letterpost/newsletter-service/internal/services/dispatch"
)

// Request — структура входных данных выпуска.
type Request struct {
	Title   string `json:"title" validate:"required"`
	Content struct {
		HTML string `json:"html" validate:"required"`
		Text string `json:"text" validate:"required"`
	} `json:"content" validate:"required"`
}

// Authenticator описывает интерфейс проверки учетных данных.
type Authenticator interface {
	ValidateCredentials(ctx context.Context, creds models.Credentials) (string, error)
}

// Dispatcher описывает интерфейс рассылки выпуска подписчикам.
type Dispatcher interface {
	PublishIssue(ctx context.Context, publisherUID string, issue models.Issue) (dispatch.Result, error)
}

// Handler обрабатывает HTTP-запросы публикации выпусков.
type Handler struct {
	log        *slog.Logger
	authSvc    Authenticator
	dispatcher Dispatcher
	validate   *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, authSvc Authenticator, dispatcher Dispatcher) *Handler {
	return &Handler{
		log:        log,
		authSvc:    authSvc,
		dispatcher: dispatcher,
		validate:   validator.New(),
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="publish"`)
	w.WriteHeader(http.StatusUnauthorized)
	render.JSON(w, r, response.Error(msg))
}

// ServeHTTP godoc
// @Summary Публикация выпуска рассылки
// @Description Проверяет учетные данные HTTP Basic и рассылает выпуск всем
// @Description подтвержденным подписчикам. Неудачи по отдельным получателям
// @Description не влияют на итог операции.
// @Tags Newsletter
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param request body Request true "Заголовок и тело выпуска"
// @Success 200 {object} response.Response "Выпуск разослан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /newsletter [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.newsletter.publish"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	creds, err := basicauth.Extract(r.Header.Get("Authorization"))
	if err != nil {
		log.Error("failed to extract basic auth credentials", sl.Err(err))
		unauthorized(w, r, "invalid authorization header")
		return
	}
	log = log.With(slog.String("username", creds.Username))

	publisherUID, err := h.authSvc.ValidateCredentials(r.Context(), creds)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Error("invalid credentials")
		unauthorized(w, r, "invalid credentials")
		return
	}
	if err != nil {
		log.Error("failed to validate credentials", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	issue := models.Issue{
		Title:    req.Title,
		HTMLBody: req.Content.HTML,
		TextBody: req.Content.Text,
	}
	result, err := h.dispatcher.PublishIssue(r.Context(), publisherUID, issue)
	if err != nil {
		log.Error("failed to publish issue", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("issue published",
		slog.Int("delivered", result.Delivered),
		slog.Int("skipped", result.Skipped))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"delivered": result.Delivered,
		"skipped":   result.Skipped,
	}))
}
