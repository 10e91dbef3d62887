// Package subscribe реализует HTTP-обработчик для заявок на подписку.
//
// Обработчик принимает форму с именем и почтой, валидирует поля и делегирует
// создание подписчика сервису подписок. При успехе подписчику уже отправлено
// письмо со ссылкой подтверждения.
package subscribe

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/letterpost/newsletter-service/internal/http/response"
	"github.com/letterpost/newsletter-service/internal/lib/sl"
)

// Request — структура входных данных формы подписки.
type Request struct {
	Name  string `validate:"required,max=256"`
	Email string `validate:"required,email"`
}

// Service описывает интерфейс бизнес-логики подписки.
type Service interface {
	Subscribe(ctx context.Context, name, email string) error
}

// Handler обрабатывает HTTP-запросы на подписку.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подписка на рассылку
// @Description Принимает имя и почту из формы, сохраняет подписчика в статусе
// @Description pending_confirmation и отправляет письмо со ссылкой подтверждения.
// @Tags Subscriptions
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name formData string true "Имя подписчика"
// @Param email formData string true "Почта подписчика"
// @Success 200 {object} response.Response "Подписчик сохранен"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid form data"))
		return
	}

	req := Request{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.Subscribe(r.Context(), req.Name, req.Email); err != nil {
		log.Error("failed to store subscriber", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("new subscriber accepted")
	render.JSON(w, r, response.OK())
}
