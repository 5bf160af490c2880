package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spinshelf/backend/internal/notifications"
	"github.com/spinshelf/backend/internal/repositories"
)

// AdminHandler handles account moderation and operational admin actions
type AdminHandler struct {
	userRepository repositories.UserRepository
	cache          *notifications.Cache
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(userRepo repositories.UserRepository, cache *notifications.Cache) *AdminHandler {
	return &AdminHandler{userRepository: userRepo, cache: cache}
}

// RegisterAdminRoutes registers admin-only account and cache routes
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.PUT("/users/:id/lock", h.LockUser)
	g.PUT("/users/:id/unlock", h.UnlockUser)
	g.POST("/cache/notifications/clear", h.ClearNotificationCache)
}

// LockUser disables an account. Locked accounts cannot sign in and
// their admin sessions stop passing the admin gate.
func (h *AdminHandler) LockUser(c echo.Context) error {
	return h.setLocked(c, true)
}

// UnlockUser re-enables a locked account
func (h *AdminHandler) UnlockUser(c echo.Context) error {
	return h.setLocked(c, false)
}

func (h *AdminHandler) setLocked(c echo.Context, locked bool) error {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	if err := h.userRepository.SetLocked(c.Request().Context(), user.ID.Hex(), locked); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ClearNotificationCache drops every cached notification summary so the
// next reads hit the store
func (h *AdminHandler) ClearNotificationCache(c echo.Context) error {
	h.cache.ClearAll()
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
