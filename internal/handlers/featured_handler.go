package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/records"
	"github.com/spinshelf/backend/internal/repositories"
)

// FeaturedHandler manages the site-wide featured records carousel
type FeaturedHandler struct {
	slots            *records.SlotManager
	recordRepository repositories.RecordRepository
}

// NewFeaturedHandler creates a new FeaturedHandler
func NewFeaturedHandler(slots *records.SlotManager, recordRepo repositories.RecordRepository) *FeaturedHandler {
	return &FeaturedHandler{slots: slots, recordRepository: recordRepo}
}

// RegisterFeaturedRoutes registers the public featured listing and the
// owner-facing heavy rotation toggle
func (h *FeaturedHandler) RegisterFeaturedRoutes(g *echo.Group) {
	g.GET("/featured", h.GetFeatured)
	g.PUT("/records/:id/heavy-rotation", h.MarkHeavyRotation)
	g.DELETE("/records/:id/heavy-rotation", h.UnmarkHeavyRotation)
}

// RegisterFeaturedAdminRoutes registers admin-only slot management routes
func (h *FeaturedHandler) RegisterFeaturedAdminRoutes(g *echo.Group) {
	g.POST("/featured/:recordId", h.SetFeatured)
	g.DELETE("/featured/:recordId", h.UnsetFeatured)
	g.PUT("/featured/:slotId/order", h.ReorderFeatured)
}

// GetFeatured lists the featured records in display order
func (h *FeaturedHandler) GetFeatured(c echo.Context) error {
	featured, err := h.slots.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"featured": featured}})
}

// SetFeatured promotes a record into the featured carousel. The carousel
// holds at most five records; requests beyond the cap are rejected.
func (h *FeaturedHandler) SetFeatured(c echo.Context) error {
	record, err := h.recordRepository.GetRecordByID(c.Request().Context(), c.Param("recordId"))
	if err != nil {
		return httpError(err)
	}

	if err := h.slots.SetFeaturedStrict(c.Request().Context(), record); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

// UnsetFeatured removes a record from the carousel and closes the gap
func (h *FeaturedHandler) UnsetFeatured(c echo.Context) error {
	record, err := h.recordRepository.GetRecordByID(c.Request().Context(), c.Param("recordId"))
	if err != nil {
		return httpError(err)
	}

	if err := h.slots.UnsetFeatured(c.Request().Context(), record); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ReorderFeatured moves a slot to a new position in the carousel
func (h *FeaturedHandler) ReorderFeatured(c echo.Context) error {
	var req models.ReorderFeaturedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.slots.Reorder(c.Request().Context(), c.Param("slotId"), req.Order); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkHeavyRotation puts one of the user's own records into heavy rotation.
// The promoted set saturates at five; marking beyond that succeeds without
// taking a slot.
func (h *FeaturedHandler) MarkHeavyRotation(c echo.Context) error {
	record, err := h.requireRecordOwnership(c)
	if err != nil {
		return err
	}

	if err := h.slots.SetFeatured(c.Request().Context(), record); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UnmarkHeavyRotation takes one of the user's own records out of heavy
// rotation, freeing its slot if it held one
func (h *FeaturedHandler) UnmarkHeavyRotation(c echo.Context) error {
	record, err := h.requireRecordOwnership(c)
	if err != nil {
		return err
	}

	if err := h.slots.UnsetFeatured(c.Request().Context(), record); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *FeaturedHandler) requireRecordOwnership(c echo.Context) (*models.Record, error) {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	record, err := h.recordRepository.GetRecordByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, httpError(err)
	}

	if record.OwnerID != currentUserID {
		claims, _ := c.Get("user").(*models.JwtCustomClaims)
		if claims == nil || !claims.IsAdmin {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Resource not found")
		}
	}
	return record, nil
}
