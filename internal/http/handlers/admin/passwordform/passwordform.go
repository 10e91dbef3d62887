// Package passwordform реализует HTTP-обработчик страницы смены пароля.
package passwordform

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/letterpost/newsletter-service/internal/lib/cookietoken"
	"github.com/letterpost/newsletter-service/internal/lib/sl"
)

var passwordPage = template.Must(template.New("password").Parse(`<!doctype html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>Change password</title>
</head>
<body>
	{{if .Flash}}<p><i>{{.Flash}}</i></p>{{end}}
	<form action="/admin/password" method="post">
		<label>Current password
			<input type="password" name="current_password" placeholder="Enter current password">
		</label>
		<label>New password
			<input type="password" name="new_password" placeholder="Enter new password">
		</label>
		<label>Confirm new password
			<input type="password" name="new_password_check" placeholder="Type the new password again">
		</label>
		<button type="submit">Change password</button>
	</form>
	<p><a href="/admin/dashboard">&lt;- Back</a></p>
</body>
</html>`))

// Handler отдает страницу смены пароля.
type Handler struct {
	log   *slog.Logger
	maker *cookietoken.Maker
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, maker *cookietoken.Maker) *Handler {
	return &Handler{
		log:   log,
		maker: maker,
	}
}

// ServeHTTP godoc
// @Summary Страница смены пароля
// @Description Отдает HTML-форму смены пароля с flash-сообщением, если оно есть.
// @Tags Admin
// @Produce html
// @Success 200 {string} string "HTML-страница"
// @Router /admin/password [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.passwordform"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	flash, _ := h.maker.PopFlash(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := passwordPage.Execute(w, struct{ Flash string }{Flash: flash}); err != nil {
		log.Error("failed to render password page", sl.Err(err))
	}
}
