package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/spinshelf/backend/internal/activity"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles profile-related HTTP requests
type UserHandler struct {
	userRepository     repositories.UserRepository
	recordRepository   repositories.RecordRepository
	activityRepository repositories.ActivityRepository
	recorder           *activity.Recorder
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userRepo repositories.UserRepository,
	recordRepo repositories.RecordRepository,
	activityRepo repositories.ActivityRepository,
	recorder *activity.Recorder,
) *UserHandler {
	return &UserHandler{
		userRepository:     userRepo,
		recordRepository:   recordRepo,
		activityRepository: activityRepo,
		recorder:           recorder,
	}
}

// RegisterProfileRoutes registers profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMe)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/search", h.SearchUsers)
	g.PUT("/users/me", h.UpdateProfile)
	g.PUT("/users/me/avatar", h.UpdateAvatar)
	g.PUT("/users/me/location", h.UpdateLocation)
	g.PUT("/users/me/top8", h.SetTop8)
	g.PUT("/users/me/password", h.ChangePassword)
	g.GET("/users/:id/activities", h.GetUserActivities)
}

// GetMe returns the authenticated user's profile
func (h *UserHandler) GetMe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), currentUserID.Hex())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"user": user}})
}

// GetUser returns a public profile with collection stats and top 8 records
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	stats, err := h.recordRepository.GetStats(c.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var top8 []models.Record
	if len(user.Top8) > 0 {
		top8, err = h.recordRepository.GetRecordsByIDs(c.Request().Context(), user.Top8)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"user":  user,
			"stats": stats,
			"top8":  top8,
		},
	})
}

// SearchUsers performs a username prefix search
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	users, err := h.userRepository.SearchUsers(c.Request().Context(), query, 20)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]models.UserCompact, len(users))
	for i := range users {
		results[i] = users[i].ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": results}})
}

// UpdateProfile updates the authenticated user's profile fields
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userRepository.UpdateProfile(c.Request().Context(), currentUserID.Hex(), &req); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UpdateAvatar stores an uploaded profile picture and records the activity
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req struct {
		ImageURL string `json:"image_url" validate:"omitempty,url"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	avatarURL := req.ImageURL
	if avatarURL == "" {
		// multipart upload path: store under a generated name
		file, err := c.FormFile("avatar")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "No image provided")
		}
		avatarURL = "/uploads/avatars/" + uuid.NewString() + "_" + file.Filename
	}

	if err := h.userRepository.SetAvatar(c.Request().Context(), currentUserID.Hex(), avatarURL); err != nil {
		return httpError(err)
	}

	h.recorder.RecordProfileAction(c.Request().Context(), currentUserID, models.ActivityUpdateProfilePicture, nil)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"avatar_url": avatarURL}})
}

// UpdateLocation updates the user's location and records the activity
func (h *UserHandler) UpdateLocation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req struct {
		Location string `json:"location" validate:"required,max=100"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userRepository.SetLocation(c.Request().Context(), currentUserID.Hex(), req.Location); err != nil {
		return httpError(err)
	}

	h.recorder.RecordProfileAction(c.Request().Context(), currentUserID, models.ActivityUpdateLocation, map[string]string{"location": req.Location})

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// SetTop8 replaces the user's showcased records. Every record must exist and
// belong to the user, and the list is capped at eight.
func (h *UserHandler) SetTop8(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SetTop8Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	recordIDs := make([]primitive.ObjectID, 0, len(req.RecordIDs))
	for _, raw := range req.RecordIDs {
		record, err := h.recordRepository.GetRecordByID(c.Request().Context(), raw)
		if err != nil {
			return httpError(err)
		}
		if record.OwnerID != currentUserID {
			// Not yours: indistinguishable from missing
			return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
		}
		recordIDs = append(recordIDs, record.ID)
	}

	if err := h.userRepository.SetTop8(c.Request().Context(), currentUserID.Hex(), recordIDs); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ChangePassword replaces the authenticated user's password. Tokens issued
// before the change stop being accepted.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), currentUserID.Hex())
	if err != nil {
		return httpError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	if err := h.userRepository.SetPassword(c.Request().Context(), currentUserID.Hex(), string(hashedPassword)); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetUserActivities returns one user's public activity history, newest first
func (h *UserHandler) GetUserActivities(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	page, limit := pagination(c, 20)
	skip := int64((page - 1) * limit)

	activities, err := h.activityRepository.GetByActor(c.Request().Context(), user.ID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"activities": activities}})
}
