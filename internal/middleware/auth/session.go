package auth

import (
	"log/slog"
	"net/http"

	"github.com/hauwenw/ping-parking/internal/session"
	"github.com/hauwenw/ping-parking/internal/storage/restapi"
)

const loginPath = "/login"

// LoadSession binds the session cookie to the request, resolves the operator
// and only then hands over to the next handler.
func LoadSession(log *slog.Logger, mgr *session.Manager, authenticator session.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.auth.LoadSession"

			tokens := restapi.NewCachedTokens(mgr.Bind(w, r))
			ctx := restapi.ContextWithTokens(r.Context(), tokens)

			sess := session.New(authenticator, tokens, log)
			if err := sess.Init(ctx); err != nil {
				log.Error("failed to initialise session", slog.String("op", op), slog.String("error", err.Error()))
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(ctx, sess)))
		})
	}
}

// RequireUser sends anonymous visitors to the login page.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if sess == nil || !sess.Authenticated() {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
