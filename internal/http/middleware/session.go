package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/recettes/internal/auth"
	"github.com/tbourn/recettes/internal/domain"
	"github.com/tbourn/recettes/internal/http/flash"
	"github.com/tbourn/recettes/internal/services"
)

const (
	userIDKey = "userID"
	userKey   = "user"
)

// LoginPath is where RequireLogin sends anonymous visitors.
const LoginPath = "/connexion"

const msgLoginRequired = "Veuillez vous connecter pour accéder à cette page."

// SessionReader resolves the session cookie of a request and clears it.
type SessionReader interface {
	UserID(r *http.Request) (uint, error)
	Logout(w http.ResponseWriter)
}

// UserLoader loads the account a session refers to.
type UserLoader interface {
	Get(ctx context.Context, id uint) (*domain.User, error)
}

// Session resolves the current user from the session cookie and stores it
// under "user" and its id under "userID". An invalid cookie, or one naming
// a deleted account, is cleared and the request continues anonymously. A
// lookup failure keeps the cookie.
func Session(sessions SessionReader, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := sessions.UserID(c.Request)
		if err == nil {
			u, err := users.Get(c.Request.Context(), id)
			switch {
			case err == nil && u != nil:
				c.Set(userIDKey, u.ID)
				c.Set(userKey, u)
			case err == nil || errors.Is(err, services.ErrUserNotFound):
				sessions.Logout(c.Writer)
			default:
				LoggerFrom(c).Warn().Err(err).Uint("user_id", id).Msg("session user lookup failed")
			}
		} else if _, cerr := c.Request.Cookie(auth.CookieName); cerr == nil {
			sessions.Logout(c.Writer)
		}
		c.Next()
	}
}

// RequireLogin stops anonymous requests: HTML visitors are redirected to
// the login page with an info flash, API clients get 401.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) != 0 {
			c.Next()
			return
		}
		if IsAPI(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": RequestIDFrom(c),
				"code":       "unauthorized",
				"message":    "login required",
			})
			return
		}
		flash.Add(c, flash.Info, msgLoginRequired)
		c.Redirect(http.StatusFound, LoginPath)
		c.Abort()
	}
}

// CurrentUser returns the logged-in user, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// CurrentUserID returns the logged-in user's id, or 0.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
