package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/repositories"
)

// ForumHandler handles forum categories, topics and replies
type ForumHandler struct {
	forumRepository repositories.ForumRepository
}

// NewForumHandler creates a new ForumHandler
func NewForumHandler(forumRepo repositories.ForumRepository) *ForumHandler {
	return &ForumHandler{forumRepository: forumRepo}
}

// RegisterForumRoutes registers forum routes for authenticated users
func (h *ForumHandler) RegisterForumRoutes(g *echo.Group) {
	g.GET("/forum/categories", h.GetCategories)
	g.GET("/forum/categories/:id/topics", h.GetTopics)
	g.POST("/forum/categories/:id/topics", h.CreateTopic)
	g.GET("/forum/topics/:id", h.GetTopic)
	g.GET("/forum/topics/:id/posts", h.GetPosts)
	g.POST("/forum/topics/:id/posts", h.CreatePost)
}

// RegisterForumAdminRoutes registers admin-only forum management routes
func (h *ForumHandler) RegisterForumAdminRoutes(g *echo.Group) {
	g.POST("/forum/categories", h.CreateCategory)
	g.PUT("/forum/topics/:id/lock", h.LockTopic)
	g.PUT("/forum/topics/:id/unlock", h.UnlockTopic)
	g.DELETE("/forum/posts/:id", h.DeletePost)
}

// GetCategories lists all forum categories in display order
func (h *ForumHandler) GetCategories(c echo.Context) error {
	categories, err := h.forumRepository.GetCategories(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"categories": categories}})
}

// CreateCategory creates a new forum category
func (h *ForumHandler) CreateCategory(c echo.Context) error {
	var req models.CreateForumCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category := &models.ForumCategory{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.forumRepository.CreateCategory(c.Request().Context(), category); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"category": category}})
}

// GetTopics lists topics in a category, most recently active first
func (h *ForumHandler) GetTopics(c echo.Context) error {
	category, err := h.forumRepository.GetCategoryByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	page, limit := pagination(c, 20)
	skip := int64((page - 1) * limit)

	topics, err := h.forumRepository.GetTopicsByCategory(c.Request().Context(), category.ID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"category": category, "topics": topics},
		"meta":    echo.Map{"page": page, "limit": limit},
	})
}

// CreateTopic opens a new topic in a category with its first post
func (h *ForumHandler) CreateTopic(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	category, err := h.forumRepository.GetCategoryByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	var req models.CreateForumTopicRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	topic := &models.ForumTopic{
		CategoryID: category.ID,
		AuthorID:   currentUserID,
		Title:      req.Title,
	}

	if err := h.forumRepository.CreateTopic(c.Request().Context(), topic); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	post := &models.ForumPost{
		TopicID:  topic.ID,
		AuthorID: currentUserID,
		Body:     req.Body,
	}

	if err := h.forumRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"topic": topic, "post": post}})
}

// GetTopic returns a single topic
func (h *ForumHandler) GetTopic(c echo.Context) error {
	topic, err := h.forumRepository.GetTopicByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"topic": topic}})
}

// GetPosts lists replies in a topic, oldest first
func (h *ForumHandler) GetPosts(c echo.Context) error {
	topic, err := h.forumRepository.GetTopicByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	page, limit := pagination(c, 20)
	skip := int64((page - 1) * limit)

	posts, err := h.forumRepository.GetPostsByTopic(c.Request().Context(), topic.ID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": posts},
		"meta":    echo.Map{"page": page, "limit": limit},
	})
}

// CreatePost replies to a topic. Locked topics reject new replies.
func (h *ForumHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	topic, err := h.forumRepository.GetTopicByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if topic.Locked {
		return echo.NewHTTPError(http.StatusBadRequest, "Topic is locked")
	}

	var req models.CreateForumPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.ForumPost{
		TopicID:  topic.ID,
		AuthorID: currentUserID,
		Body:     req.Body,
	}

	if err := h.forumRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"post": post}})
}

// LockTopic closes a topic to new replies
func (h *ForumHandler) LockTopic(c echo.Context) error {
	return h.setLocked(c, true)
}

// UnlockTopic reopens a locked topic
func (h *ForumHandler) UnlockTopic(c echo.Context) error {
	return h.setLocked(c, false)
}

func (h *ForumHandler) setLocked(c echo.Context, locked bool) error {
	if err := h.forumRepository.SetTopicLocked(c.Request().Context(), c.Param("id"), locked); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeletePost removes a forum reply and rolls its counters back
func (h *ForumHandler) DeletePost(c echo.Context) error {
	if _, err := h.forumRepository.DeletePost(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
