package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/unet360/unet360/backend/pkg/logger"
	"github.com/unet360/unet360/backend/pkg/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		app := c.(*AppContext).App

		// Master API Key bypass
		if app.MasterAPIKey != "" && app.MasterUserID != "" && app.MasterUserRole != "" && token == app.MasterAPIKey {
			c.(*AppContext).User = &AppUser{
				UserID:      app.MasterUserID,
				Role:        app.MasterUserRole,
				Permissions: allPermissions,
			}
			return next(c)
		}

		if app.Key == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		parsed, err := jwt.Parse(token, app.Key)
		if err != nil || !parsed.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		userID, ok := userIDFromClaims(claims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid user ID"})
		}

		role := "user"
		if roleClaim, ok := claims["role"].(string); ok {
			role = roleClaim
		}

		var permissions []string
		if permsClaim, ok := claims["permissions"].([]any); ok {
			for _, p := range permsClaim {
				if pStr, ok := p.(string); ok {
					permissions = append(permissions, pStr)
				}
			}
		}

		c.(*AppContext).User = &AppUser{
			UserID:      userID,
			Role:        role,
			Permissions: permissions,
		}

		if app.Tenants != nil {
			signIn := signInFromClaims(userID, claims, time.Now())
			if err := app.Tenants.RecordSignIn(c.Request().Context(), signIn); err != nil {
				logger.Warn("[Auth] Failed to record sign-in", "user", userID, "err", err)
			}
		}

		return next(c)
	}
}

// userIDFromClaims reads the "id" claim, falling back to "sub".
func userIDFromClaims(claims jwt.MapClaims) (string, bool) {
	switch id := claims["id"].(type) {
	case string:
		if id != "" {
			return id, true
		}
	case float64:
		return strconv.FormatInt(int64(id), 10), true
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, true
	}
	return "", false
}

// signInFromClaims dates the sign-in by the token's issue time, falling
// back to now. Tokens that do not state whether the e-mail address is
// verified count as confirmed, since the identity provider only issues
// tokens to confirmed users by default.
func signInFromClaims(userID string, claims jwt.MapClaims, now time.Time) store.SignIn {
	signIn := store.SignIn{UserID: userID, EmailConfirmed: true, At: now}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		signIn.At = iat.Time
	}

	if verified, ok := claims["email_verified"].(bool); ok {
		signIn.EmailConfirmed = verified
	} else if meta, ok := claims["user_metadata"].(map[string]any); ok {
		if verified, ok := meta["email_verified"].(bool); ok {
			signIn.EmailConfirmed = verified
		}
	}
	return signIn
}
