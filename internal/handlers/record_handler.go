package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spinshelf/backend/internal/activity"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/notifications"
	"github.com/spinshelf/backend/internal/repositories"
)

// RecordHandler handles collection-related HTTP requests
type RecordHandler struct {
	recordRepository repositories.RecordRepository
	userRepository   repositories.UserRepository
	recorder         *activity.Recorder
	dispatcher       *notifications.Dispatcher
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(
	recordRepo repositories.RecordRepository,
	userRepo repositories.UserRepository,
	recorder *activity.Recorder,
	dispatcher *notifications.Dispatcher,
) *RecordHandler {
	return &RecordHandler{
		recordRepository: recordRepo,
		userRepository:   userRepo,
		recorder:         recorder,
		dispatcher:       dispatcher,
	}
}

// RegisterRecordRoutes registers record-related routes
func (h *RecordHandler) RegisterRecordRoutes(g *echo.Group) {
	g.POST("/records", h.CreateRecord)
	g.GET("/records", h.GetMyRecords)
	g.GET("/records/stats", h.GetMyStats)
	g.GET("/records/:id", h.GetRecord)
	g.PUT("/records/:id", h.UpdateRecord)
	g.DELETE("/records/:id", h.DeleteRecord)
	g.POST("/records/:id/plays", h.PlayRecord)
	g.POST("/records/:id/likes", h.LikeRecord)
	g.DELETE("/records/:id/likes", h.UnlikeRecord)
	g.GET("/users/:id/records", h.GetUserRecords)
}

// CreateRecord adds a record to the authenticated user's collection. The
// primary insert always wins; activity logging, counter maintenance and
// milestone checks are best-effort side effects.
func (h *RecordHandler) CreateRecord(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record := &models.Record{
		OwnerID:       currentUserID,
		Title:         req.Title,
		Artist:        req.Artist,
		Year:          req.Year,
		Genre:         req.Genre,
		Format:        req.Format,
		Label:         req.Label,
		ImageURL:      req.ImageURL,
		CatalogNumber: req.CatalogNumber,
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

// GetMyRecords returns the authenticated user's collection, paginated
func (h *RecordHandler) GetMyRecords(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, limit := pagination(c, 20)
	skip := int64((page - 1) * limit)

	records, err := h.recordRepository.GetRecordsByOwner(c.Request().Context(), currentUserID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"records": records}})
}

// GetMyStats returns collection statistics for the authenticated user
func (h *RecordHandler) GetMyStats(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	stats, err := h.recordRepository.GetStats(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"stats": stats}})
}

// GetRecord returns one record
func (h *RecordHandler) GetRecord(c echo.Context) error {
	record, err := h.recordRepository.GetRecordByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"record": record,
		"liked":  record.LikedBy(getUserIDFromContext(c)),
	}})
}

// GetUserRecords returns another user's collection, paginated
func (h *RecordHandler) GetUserRecords(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	page, limit := pagination(c, 20)
	skip := int64((page - 1) * limit)

	records, err := h.recordRepository.GetRecordsByOwner(c.Request().Context(), user.ID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"records": records}})
}

// UpdateRecord updates a record owned by the authenticated user
func (h *RecordHandler) UpdateRecord(c echo.Context) error {
	record, err := h.requireOwnership(c)
	if err != nil {
		return err
	}

	var req models.UpdateRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.recordRepository.UpdateRecord(c.Request().Context(), record.ID.Hex(), &req); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteRecord removes a record owned by the authenticated user
func (h *RecordHandler) DeleteRecord(c echo.Context) error {
	record, err := h.requireOwnership(c)
	if err != nil {
		return err
	}

	if err := h.recordRepository.DeleteRecord(c.Request().Context(), record.ID.Hex()); err != nil {
		return httpError(err)
	}
	_ = h.userRepository.IncrementRecordsCount(c.Request().Context(), record.OwnerID, -1)

	return c.NoContent(http.StatusNoContent)
}

// PlayRecord logs a spin: bumps the play counter, stamps last played,
// records the activity and checks play milestones.
func (h *RecordHandler) PlayRecord(c echo.Context) error {
	record, err := h.requireOwnership(c)
	if err != nil {
		return err
	}

	if err := h.recordRepository.RecordPlay(c.Request().Context(), record.ID.Hex()); err != nil {
		return httpError(err)
	}

	h.recorder.RecordRecordAction(c.Request().Context(), record.OwnerID, models.ActivityPlayRecord, record)
	_ = h.userRepository.IncrementPlaysCount(c.Request().Context(), record.OwnerID, 1)

	if stats, err := h.recordRepository.GetStats(c.Request().Context(), record.OwnerID); err == nil {
		h.dispatcher.CheckPlayMilestone(c.Request().Context(), record.OwnerID, stats.TotalPlays)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"plays": record.Plays + 1}})
}

// LikeRecord adds the authenticated user to the record's like set. The
// owner is notified only on the false->true transition, so re-toggling a
// like cannot pile up duplicate notifications.
func (h *RecordHandler) LikeRecord(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	record, err := h.recordRepository.GetRecordByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	added, err := h.recordRepository.AddLike(c.Request().Context(), record.ID.Hex(), currentUserID)
	if err != nil {
		return httpError(err)
	}

	if added {
		actor, err := h.userRepository.GetUserByID(c.Request().Context(), currentUserID.Hex())
		if err == nil {
			h.dispatcher.NotifyLike(c.Request().Context(), record.OwnerID, actor, &record.ID, nil, record.Title+" by "+record.Artist)
		}
		h.recorder.RecordRecordAction(c.Request().Context(), currentUserID, models.ActivityLikeRecord, record)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": true}})
}

// UnlikeRecord removes the authenticated user from the record's like set.
// Never notifies.
func (h *RecordHandler) UnlikeRecord(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.recordRepository.RemoveLike(c.Request().Context(), c.Param("id"), currentUserID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": false}})
}

// requireOwnership loads the record and verifies the authenticated user owns
// it, admins excepted. A foreign record is reported as not found.
func (h *RecordHandler) requireOwnership(c echo.Context) (*models.Record, error) {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	record, err := h.recordRepository.GetRecordByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Resource not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if record.OwnerID != currentUserID {
		claims, _ := c.Get("user").(*models.JwtCustomClaims)
		if claims == nil || !claims.IsAdmin {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Resource not found")
		}
	}
	return record, nil
}
