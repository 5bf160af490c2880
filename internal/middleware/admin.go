package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/repositories"
)

// AdminMiddleware gates admin-only routes. The admin flag is re-read from
// the store on every request rather than trusted from the token, the account
// must not be locked, and tokens issued before the user's last password
// change are rejected. Must run after JWTAuthMiddleware.
func AdminMiddleware(userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*models.JwtCustomClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			user, err := userRepo.GetUserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			if !user.IsAdmin || user.Locked {
				return echo.NewHTTPError(http.StatusUnauthorized, "Admin access required")
			}

			if claims.IssuedAt != nil && claims.IssuedAt.Time.Before(user.PasswordChangedAt) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Session expired, please sign in again")
			}

			return next(c)
		}
	}
}
