package auth

import (
	"log/slog"
	"net/http"

	"github.com/hauwenw/ping-parking/internal/session"
)

const (
	CSRFField  = "csrf_token"
	CSRFHeader = "X-CSRF-Token"

	msgCSRFRejected = "頁面已過期，請重新整理後再試一次"
)

// VerifyCSRF rejects state-changing requests that do not echo the token
// rendered into the session's pages.
func VerifyCSRF(log *slog.Logger, mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.auth.VerifyCSRF"

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get(CSRFHeader)
			if token == "" {
				token = r.PostFormValue(CSRFField)
			}

			if !mgr.CheckCSRF(r, token) {
				log.Warn("csrf token mismatch",
					slog.String("op", op),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				http.Error(w, msgCSRFRejected, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
