// Package loginform реализует HTTP-обработчик страницы входа.
//
// Страница отдается как HTML-форма; если предыдущий запрос оставил
// flash-сообщение (например, "Authentication failed"), оно показывается
// над формой и сразу затирается.
package loginform

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/letterpost/newsletter-service/internal/lib/cookietoken"
	"github.com/letterpost/newsletter-service/internal/lib/sl"
)

var loginPage = template.Must(template.New("login").Parse(`<!doctype html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>Login</title>
</head>
<body>
	{{if .Flash}}<p><i>{{.Flash}}</i></p>{{end}}
	<form action="/login" method="post">
		<label>Username
			<input type="text" name="username" placeholder="Enter username">
		</label>
		<label>Password
			<input type="password" name="password" placeholder="Enter password">
		</label>
		<button type="submit">Login</button>
	</form>
</body>
</html>`))

// Handler отдает страницу входа.
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
// @Summary Страница входа
// @Description Отдает HTML-форму входа. Показывает flash-сообщение, если оно есть.
// @Tags Auth
// @Produce html
// @Success 200 {string} string "HTML-страница"
// @Router /login [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.loginform"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	flash, _ := h.maker.PopFlash(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := loginPage.Execute(w, struct{ Flash string }{Flash: flash}); err != nil {
		log.Error("failed to render login page", sl.Err(err))
	}
}
