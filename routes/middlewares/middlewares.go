package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth"

	"github.com/deceasedone/Surveyappl/httpx"
	"github.com/deceasedone/Surveyappl/model"
	"github.com/deceasedone/Surveyappl/service"
)

type ctxKey int

const userKey ctxKey = iota

// Authenticated verifies the Bearer token and resolves it to a user record,
// which is stashed in the request context for handlers to pick up with
// CurrentUser. Requests without a valid, unexpired token for an existing
// user are rejected with 401.
func Authenticated(auth *service.Auth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := jwtauth.TokenFromHeader(r)
			if raw == "" {
				httpx.RenderError(w, r, "auth.token_missing", model.ErrUnauthenticated)
				return
			}

			user, err := auth.Authenticate(r.Context(), raw)
			if err != nil {
				httpx.RenderError(w, r, "auth.verify", err)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the user resolved by Authenticated.
func CurrentUser(r *http.Request) (model.User, bool) {
	user, ok := r.Context().Value(userKey).(model.User)
	return user, ok
}
