package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// SessionChecker reports the last-issued token for an account. An empty
// return with nil error means no session record exists.
type SessionChecker interface {
	Current(ctx context.Context, username string) (string, error)
}

// Auth validates the bearer JWT and injects the caller identity into context.
// When a session record names a newer token, the presented token is rejected:
// logins overwrite the stored token, so only the latest one is live. Session
// lookups fail open — an unreachable store never locks every caller out.
func Auth(jwtSecret string, sessions SessionChecker, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			username, _ := claims["username"].(string)
			role, _ := claims["role"].(string)
			if username == "" || role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing identity claims")
			}

			if sessions != nil {
				current, serr := sessions.Current(c.Request().Context(), username)
				if serr != nil {
					log.Warn().Err(serr).Str("username", username).Msg("session check failed, accepting token on signature alone")
				} else if current != "" && current != parts[1] {
					return echo.NewHTTPError(http.StatusUnauthorized, "token superseded by a newer login")
				}
			}

			c.Set("user_id", claims["user_id"])
			c.Set("username", username)
			c.Set("role", role)

			return next(c)
		}
	}
}
