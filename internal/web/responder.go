package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hauwenw/ping-parking/internal/session"
	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/storage/restapi"
)

const (
	msgSessionExpired = "登入已過期，請重新登入"
	msgUnexpected     = "發生未預期的錯誤，請稍後再試"
)

// Page is the data every template receives.
type Page struct {
	Title   string
	Path    string
	User    *storage.UserInfo
	Flashes []session.Flash
	CSRF    string
	Data    any
}

// Responder renders pages and turns handler outcomes into flashes and redirects.
type Responder struct {
	log       *slog.Logger
	renderer  *Renderer
	sessions  *session.Manager
	validator *Validator
}

func NewResponder(log *slog.Logger, renderer *Renderer, sessions *session.Manager, validator *Validator) *Responder {
	return &Responder{log: log, renderer: renderer, sessions: sessions, validator: validator}
}

func (rs *Responder) Validate(v any) error {
	return rs.validator.Struct(v)
}

func (rs *Responder) HTML(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	p := Page{
		Title: title,
		Path:  r.URL.Path,
		Data:  data,
	}
	p.Flashes, p.CSRF = rs.sessions.PageState(w, r)
	if sess := session.FromContext(r.Context()); sess != nil {
		p.User = sess.User()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := rs.renderer.Render(w, page, p); err != nil {
		rs.log.Error("failed to render page", slog.String("page", page), slog.String("error", err.Error()))
	}
}

func (rs *Responder) Flash(w http.ResponseWriter, r *http.Request, kind session.FlashKind, message string) {
	rs.sessions.AddFlash(w, r, kind, message)
}

// Redirect uses 303 so a POST is followed by a GET.
func (rs *Responder) Redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// Success flashes message and redirects to url.
func (rs *Responder) Success(w http.ResponseWriter, r *http.Request, message, url string) {
	rs.Flash(w, r, session.FlashSuccess, message)
	rs.Redirect(w, r, url)
}

// Fail reports err to the operator and redirects to back.
//   - ErrUnauthorized: the token is already cleared, go to the login page.
//   - *ValidationError and *restapi.Error: show the message verbatim.
//   - anything else: generic message, logged at error level.
func (rs *Responder) Fail(w http.ResponseWriter, r *http.Request, op string, err error, back string) {
	if errors.Is(err, restapi.ErrUnauthorized) {
		rs.Flash(w, r, session.FlashInfo, msgSessionExpired)
		rs.Redirect(w, r, "/login")
		return
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		rs.Flash(w, r, session.FlashError, verr.Message)
		rs.Redirect(w, r, back)
		return
	}

	if apiErr, ok := restapi.AsError(err); ok {
		rs.log.Warn("api rejected request",
			slog.String("op", op),
			slog.Int("status", apiErr.Status),
			slog.String("code", apiErr.Code),
			slog.String("message", apiErr.Message),
		)
		rs.Flash(w, r, session.FlashError, apiErr.Message)
		rs.Redirect(w, r, back)
		return
	}

	rs.log.Error("request failed", slog.String("op", op), slog.String("error", err.Error()))
	rs.Flash(w, r, session.FlashError, msgUnexpected)
	rs.Redirect(w, r, back)
}

// FailNotFound is Fail for detail pages: a 404 goes back to the list with message.
func (rs *Responder) FailNotFound(w http.ResponseWriter, r *http.Request, op string, err error, list, message string) {
	if restapi.IsNotFound(err) {
		rs.Flash(w, r, session.FlashError, message)
		rs.Redirect(w, r, list)
		return
	}
	rs.Fail(w, r, op, err, list)
}

// LoadFailed renders the error page for a failed page load. Redirecting back
// to the same page would loop.
func (rs *Responder) LoadFailed(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, restapi.ErrUnauthorized) {
		rs.Flash(w, r, session.FlashInfo, msgSessionExpired)
		rs.Redirect(w, r, "/login")
		return
	}

	message := msgUnexpected
	if apiErr, ok := restapi.AsError(err); ok {
		rs.log.Warn("page load rejected", slog.String("op", op), slog.Int("status", apiErr.Status), slog.String("message", apiErr.Message))
		message = apiErr.Message
	} else {
		rs.log.Error("page load failed", slog.String("op", op), slog.String("error", err.Error()))
	}

	rs.HTML(w, r, http.StatusBadGateway, "error", "錯誤", message)
}
