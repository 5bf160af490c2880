package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spinshelf/backend/internal/activity"
	"github.com/spinshelf/backend/internal/integrations"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/notifications"
	"github.com/spinshelf/backend/internal/repositories"
)

// IntegrationHandler exposes the Discogs catalog and the music news feed
type IntegrationHandler struct {
	discogs          *integrations.DiscogsClient
	news             *integrations.NewsClient
	recordRepository repositories.RecordRepository
	userRepository   repositories.UserRepository
	recorder         *activity.Recorder
	dispatcher       *notifications.Dispatcher
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(
	discogs *integrations.DiscogsClient,
	news *integrations.NewsClient,
	recordRepo repositories.RecordRepository,
	userRepo repositories.UserRepository,
	recorder *activity.Recorder,
	dispatcher *notifications.Dispatcher,
) *IntegrationHandler {
	return &IntegrationHandler{
		discogs:          discogs,
		news:             news,
		recordRepository: recordRepo,
		userRepository:   userRepo,
		recorder:         recorder,
		dispatcher:       dispatcher,
	}
}

// RegisterIntegrationRoutes registers catalog search, import and news routes
func (h *IntegrationHandler) RegisterIntegrationRoutes(g *echo.Group) {
	g.GET("/catalog/search", h.SearchCatalog)
	g.POST("/catalog/import/:releaseId", h.ImportRelease)
	g.GET("/news", h.GetNews)
}

// SearchCatalog searches the Discogs release database
func (h *IntegrationHandler) SearchCatalog(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	results, err := h.discogs.Search(c.Request().Context(), query)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Catalog service unavailable")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"results": results}})
}

// ImportRelease pulls a Discogs release and adds it to the authenticated
// user's collection, with the same side effects as a manual add.
func (h *IntegrationHandler) ImportRelease(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	releaseID, err := strconv.Atoi(c.Param("releaseId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid release ID")
	}

	payload, err := h.discogs.GetRelease(c.Request().Context(), releaseID)
	if err != nil {
		if err == models.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Release not found")
		}
		return echo.NewHTTPError(http.StatusBadGateway, "Catalog service unavailable")
	}

	record := &models.Record{
		OwnerID:       currentUserID,
		Title:         payload.Title,
		Artist:        payload.Artist,
		Year:          payload.Year,
		Genre:         payload.Genre,
		Format:        payload.Format,
		Label:         payload.Label,
		ImageURL:      payload.ImageURL,
		CatalogNumber: payload.CatalogNumber,
	}

	if err := h.recordRepository.CreateRecord(c.Request().Context(), record); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.recorder.RecordRecordAction(c.Request().Context(), currentUserID, models.ActivityAddRecord, record)
	_ = h.userRepository.IncrementRecordsCount(c.Request().Context(), currentUserID, 1)

	if total, err := h.recordRepository.CountByOwner(c.Request().Context(), currentUserID); err == nil {
		h.dispatcher.CheckRecordMilestone(c.Request().Context(), currentUserID, int(total))
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"record": record}})
}

// GetNews returns the latest music news across the configured feeds
func (h *IntegrationHandler) GetNews(c echo.Context) error {
	_, limit := pagination(c, 30)

	items, err := h.news.Fetch(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "News feeds unavailable")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"news": items}})
}
