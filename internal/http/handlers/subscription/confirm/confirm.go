// Package confirm реализует HTTP-обработчик перехода по ссылке подтверждения.
package confirm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/letterpost/newsletter-service/internal/http/response"
	"github.com/letterpost/newsletter-service/internal/lib/sl"
	"github.com/letterpost/newsletter-service/internal/services/subscription"
)

// Service описывает интерфейс подтверждения подписки по токену.
type Service interface {
	Confirm(ctx context.Context, token string) error
}

// Handler обрабатывает переходы по ссылке из письма подтверждения.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтверждение подписки
// @Description Переводит подписку в confirmed по токену из письма.
// @Description Повторный переход по той же ссылке тоже успешен.
// @Tags Subscriptions
// @Produce json
// @Param subscription_token query string true "Токен подтверждения"
// @Success 200 {object} response.Response "Подписка подтверждена"
// @Failure 400 {object} response.ErrorResponse "Токен не передан"
// @Failure 401 {object} response.ErrorResponse "Неизвестный токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscriptions/confirm [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.confirm"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("subscription_token")
	if token == "" {
		log.Error("subscription token is missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("subscription_token is required"))
		return
	}

	err := h.service.Confirm(r.Context(), token)
	if errors.Is(err, subscription.ErrUnknownToken) {
		log.Error("unknown subscription token")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unknown subscription token"))
		return
	}
	if err != nil {
		log.Error("failed to confirm subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("subscription confirmed")
	render.JSON(w, r, response.OK())
}
