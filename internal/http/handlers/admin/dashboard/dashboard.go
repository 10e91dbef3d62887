// Package dashboard реализует HTTP-обработчик кабинета администратора.
package dashboard

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/letterpost/newsletter-service/internal/http/middlewarectx"
	"github.com/letterpost/newsletter-service/internal/lib/sl"
	"github.com/letterpost/newsletter-service/internal/models"
)

var dashboardPage = template.Must(template.New("dashboard").Parse(`<!doctype html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>Admin dashboard</title>
</head>
<body>
	<p>Welcome {{.Username}}!</p>
	<p>Available actions:</p>
	<ol>
		<li><a href="/admin/password">Change password</a></li>
		<li>
			<form name="logoutForm" action="/admin/logout" method="post">
				<input type="submit" value="Logout">
			</form>
		</li>
	</ol>
</body>
</html>`))

// UserProvider отдает пользователя по его UID.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Handler отдает страницу кабинета.
type Handler struct {
	log   *slog.Logger
	users UserProvider
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, users UserProvider) *Handler {
	return &Handler{
		log:   log,
		users: users,
	}
}

// ServeHTTP godoc
// @Summary Кабинет администратора
// @Description Отдает приветственную страницу вошедшего пользователя.
// @Tags Admin
// @Produce html
// @Success 200 {string} string "HTML-страница"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.dashboard"

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

	user, err := h.users.GetUser(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get user", sl.Err(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardPage.Execute(w, struct{ Username string }{Username: user.Username}); err != nil {
		log.Error("failed to render dashboard page", sl.Err(err))
	}
}
