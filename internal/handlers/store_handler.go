package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spinshelf/backend/internal/integrations"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/repositories"
)

// StoreHandler handles the record store directory and nearby lookup
type StoreHandler struct {
	storeRepository repositories.StoreRepository
	geocoder        *integrations.GeocodeClient
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeRepo repositories.StoreRepository, geocoder *integrations.GeocodeClient) *StoreHandler {
	return &StoreHandler{storeRepository: storeRepo, geocoder: geocoder}
}

// RegisterStoreRoutes registers store-related routes
func (h *StoreHandler) RegisterStoreRoutes(g *echo.Group) {
	g.POST("/stores", h.CreateStore)
	g.GET("/stores", h.GetStores)
	g.GET("/stores/nearby", h.GetNearbyStores)
	g.GET("/stores/:id", h.GetStore)
}

// RegisterStoreAdminRoutes registers admin-only store management routes
func (h *StoreHandler) RegisterStoreAdminRoutes(g *echo.Group) {
	g.DELETE("/stores/:id", h.DeleteStore)
}

// CreateStore adds a record store to the directory. The address is
// geocoded at creation time so nearby lookups never need the external
// service.
func (h *StoreHandler) CreateStore(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateStoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lat, lng, err := h.geocoder.Geocode(c.Request().Context(), req.Address)
	if err != nil {
		if err == models.ErrNotFound {
			return echo.NewHTTPError(http.StatusBadRequest, "Address could not be resolved")
		}
		return echo.NewHTTPError(http.StatusBadGateway, "Geocoding service unavailable")
	}

	store := &models.Store{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Lat:     lat,
		Lng:     lng,
		AddedBy: currentUserID,
	}

	if err := h.storeRepository.CreateStore(c.Request().Context(), store); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"store": store}})
}

// GetStores lists stores in the directory
func (h *StoreHandler) GetStores(c echo.Context) error {
	page, limit := pagination(c, 20)
	skip := int64((page - 1) * limit)

	stores, err := h.storeRepository.GetStores(c.Request().Context(), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"stores": stores},
		"meta":    echo.Map{"page": page, "limit": limit},
	})
}

// GetNearbyStores lists stores within a radius of the given coordinates
func (h *StoreHandler) GetNearbyStores(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid latitude")
	}
	lng, err := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid longitude")
	}

	radiusKM := 25.0
	if raw := c.QueryParam("radius"); raw != "" {
		radiusKM, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKM <= 0 || radiusKM > 500 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid radius")
		}
	}

	stores, err := h.storeRepository.GetStoresNear(c.Request().Context(), lat, lng, radiusKM)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"stores": stores}})
}

// GetStore returns a single store
func (h *StoreHandler) GetStore(c echo.Context) error {
	store, err := h.storeRepository.GetStoreByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"store": store}})
}

// DeleteStore removes a store from the directory
func (h *StoreHandler) DeleteStore(c echo.Context) error {
	if err := h.storeRepository.DeleteStore(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
