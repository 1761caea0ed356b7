package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

const firebaseTokenKey = "firebaseToken"

// TokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware verifies the Firebase ID token sent as a Bearer
// header or as the "id_token" form field.
func FirebaseAuthMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken := c.FormValue("id_token")
			if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				tokenParts := strings.Split(authHeader, " ")
				if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
					return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
				}
				idToken = tokenParts[1]
			}
			if idToken == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Firebase ID token is missing")
			}

			token, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			c.Set(firebaseTokenKey, token)
			return next(c)
		}
	}
}

// FirebaseToken returns the token verified by FirebaseAuthMiddleware.
func FirebaseToken(c echo.Context) *auth.Token {
	token, _ := c.Get(firebaseTokenKey).(*auth.Token)
	return token
}
