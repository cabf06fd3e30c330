package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth"

	"github.com/deceasedone/Surveyappl/model"
	"github.com/deceasedone/Surveyappl/store"
)

// Auth issues and verifies signed session tokens and resolves them back to
// user records. Tokens are stateless: signature plus expiry is the whole
// story, there is no server side revocation list.
type Auth struct {
	tokens *jwtauth.JWTAuth
	users  *store.UserStore
	ttl    time.Duration
}

func NewAuth(tokens *jwtauth.JWTAuth, users *store.UserStore, ttl time.Duration) *Auth {
	return &Auth{tokens: tokens, users: users, ttl: ttl}
}

// Issue produces a signed token embedding the user id, valid for the
// configured TTL from now.
func (a *Auth) Issue(userID string) (string, error) {
	claims := map[string]any{"userId": userID}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, a.ttl)

	_, token, err := a.tokens.Encode(claims)
	return token, err
}

// Authenticate verifies a raw token's signature and expiry, then resolves the
// embedded user id against the identity store. The returned user carries no
// credential hash. Every failure mode collapses to ErrUnauthenticated.
func (a *Auth) Authenticate(ctx context.Context, rawToken string) (model.User, error) {
	token, err := jwtauth.VerifyToken(a.tokens, rawToken)
	if err != nil {
		return model.User{}, model.ErrUnauthenticated
	}

	claim, ok := token.Get("userId")
	userID, _ := claim.(string)
	if !ok || userID == "" {
		return model.User{}, model.ErrUnauthenticated
	}

	u, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, model.ErrUnauthenticated
	}
	u.PasswordHash = nil
	return u, nil
}

// RequireRole is a pure role check with no I/O.
func RequireRole(u model.User, role model.Role) error {
	if u.Role != role {
		return model.ErrForbidden
	}
	return nil
}

// Signup registers a new user and logs them in.
func (a *Auth) Signup(ctx context.Context, email, password, name string, role model.Role) (model.User, string, error) {
	if email == "" || password == "" || name == "" {
		return model.User{}, "", fmt.Errorf("%w: email, password and name are required", model.ErrInvalidInput)
	}
	if role != "" && !role.Valid() {
		return model.User{}, "", fmt.Errorf("%w: unknown role %q", model.ErrInvalidInput, role)
	}

	u, err := a.users.Create(ctx, email, password, name, role)
	if err != nil {
		return model.User{}, "", err
	}

	token, err := a.Issue(u.ID)
	if err != nil {
		return model.User{}, "", err
	}
	u.PasswordHash = nil
	return u, token, nil
}

// Login verifies a credential pair. Unknown email and bad password are
// indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (model.User, string, error) {
	u, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return model.User{}, "", model.ErrUnauthenticated
	}
	if !a.users.VerifyCredential(u, password) {
		return model.User{}, "", model.ErrUnauthenticated
	}

	token, err := a.Issue(u.ID)
	if err != nil {
		return model.User{}, "", err
	}
	u.PasswordHash = nil
	return u, token, nil
}
