package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/hauwenw/ping-parking/internal/session"
	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/web"
)

const (
	loginPath = "/login"
	homePath  = "/agreements"
)

var errNoSession = errors.New("no session in request context")

type LoginView struct {
	Email      string
	RememberMe bool
}

func LoginPage(log *slog.Logger, rs *web.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sess := session.FromContext(r.Context()); sess != nil && sess.Authenticated() {
			rs.Redirect(w, r, homePath)
			return
		}

		rs.HTML(w, r, http.StatusOK, "login", "登入", LoginView{Email: r.URL.Query().Get("email")})
	}
}

// Login keeps the typed email on failure so the operator only retypes the password.
func Login(log *slog.Logger, rs *web.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Login"

		req := storage.LoginRequest{
			Email:      web.FormString(r, "email"),
			Password:   r.FormValue("password"),
			RememberMe: web.FormBool(r, "remember_me"),
		}
		back := loginPath
		if req.Email != "" {
			back += "?email=" + url.QueryEscape(req.Email)
		}

		if err := rs.Validate(req); err != nil {
			rs.Fail(w, r, op, err, back)
			return
		}

		sess := session.FromContext(r.Context())
		if sess == nil {
			rs.Fail(w, r, op, errNoSession, back)
			return
		}

		if err := sess.Login(r.Context(), req.Email, req.Password, req.RememberMe); err != nil {
			rs.Fail(w, r, op, err, back)
			return
		}

		log.Info("operator logged in",
			slog.String("op", op),
			slog.String("user_id", sess.User().ID),
			slog.Bool("remember_me", req.RememberMe),
		)
		rs.Success(w, r, "登入成功", homePath)
	}
}

// Logout always ends on the login page; a failed server notification is only logged.
func Logout(log *slog.Logger, rs *web.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Logout"

		if sess := session.FromContext(r.Context()); sess != nil {
			if err := sess.Logout(r.Context()); err != nil {
				log.Warn("logout notification failed", slog.String("op", op), slog.String("error", err.Error()))
			}
		}

		rs.Flash(w, r, session.FlashInfo, "已登出")
		rs.Redirect(w, r, loginPath)
	}
}
