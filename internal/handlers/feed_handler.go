package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spinshelf/backend/internal/feed"
)

// FeedHandler serves the aggregated social feed
type FeedHandler struct {
	aggregator *feed.Aggregator
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(aggregator *feed.Aggregator) *FeedHandler {
	return &FeedHandler{aggregator: aggregator}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the merged posts-and-activities feed for the
// authenticated user, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, limit := pagination(c, 20)

	items, err := h.aggregator.GetFeed(c.Request().Context(), currentUserID.Hex(), page, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"feed": items},
		"meta":    echo.Map{"page": page, "limit": limit},
	})
}
