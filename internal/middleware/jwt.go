package middleware // reusable HTTP middleware for protected routes

import (
	"net/http" // HTTP status codes for responses
	"strings"  // prefix checking and trimming for the Authorization header

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// JWTAuth returns an Echo middleware that validates an access token and
// injects the token's subject into the request context.  The token is read
// from the Authorization header ("Bearer <jwt>") or, failing that, from the
// "token" cookie set at login, so browser clients work without a custom
// header.  Handlers downstream read the authenticated user via
// c.Get("user_id").
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				raw = strings.TrimPrefix(auth, "Bearer ")
			} else if ck, err := c.Cookie("token"); err == nil && ck.Value != "" {
				raw = ck.Value
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			// Parse with HS256 and our secret.  The callback ensures the
			// signing method matches what we issue; anything else is
			// rejected.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// Store the subject (user ID) in the context.  Type assertions
			// are left to downstream consumers.
			c.Set("user_id", claims["sub"])
			return next(c)
		}
	}
}
