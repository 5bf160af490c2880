package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/notifications"
	"github.com/spinshelf/backend/internal/repositories"
)

// BlogHandler handles blog submissions and the moderation workflow
type BlogHandler struct {
	blogRepository repositories.BlogRepository
	userRepository repositories.UserRepository
	dispatcher     *notifications.Dispatcher
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blogRepo repositories.BlogRepository, userRepo repositories.UserRepository, dispatcher *notifications.Dispatcher) *BlogHandler {
	return &BlogHandler{
		blogRepository: blogRepo,
		userRepository: userRepo,
		dispatcher:     dispatcher,
	}
}

// RegisterBlogRoutes registers blog routes for authenticated users
func (h *BlogHandler) RegisterBlogRoutes(g *echo.Group) {
	g.POST("/blog", h.SubmitBlogPost)
	g.GET("/blog", h.GetPublished)
	g.GET("/blog/:id", h.GetBlogPost)
}

// RegisterBlogAdminRoutes registers the moderation queue routes
func (h *BlogHandler) RegisterBlogAdminRoutes(g *echo.Group) {
	g.GET("/blog/pending", h.GetPending)
	g.PUT("/blog/:id/approve", h.ApproveBlogPost)
	g.PUT("/blog/:id/reject", h.RejectBlogPost)
	g.DELETE("/blog/:id", h.DeleteBlogPost)
}

// SubmitBlogPost submits a new blog post into the moderation queue
func (h *BlogHandler) SubmitBlogPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateBlogPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.BlogPost{
		AuthorID: currentUserID,
		Title:    req.Title,
		Body:     req.Body,
		ImageURL: req.ImageURL,
		Status:   models.BlogPending,
	}

	if err := h.blogRepository.CreateBlogPost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"post": post}})
}

// GetPublished lists approved blog posts, newest first
func (h *BlogHandler) GetPublished(c echo.Context) error {
	page, limit := pagination(c, 10)
	skip := int64((page - 1) * limit)

	posts, total, err := h.blogRepository.GetPublished(c.Request().Context(), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": posts},
		"meta":    echo.Map{"page": page, "limit": limit, "total": total},
	})
}

// GetBlogPost returns a single blog post. Unapproved posts are only
// visible to their author and to admins.
func (h *BlogHandler) GetBlogPost(c echo.Context) error {
	post, err := h.blogRepository.GetBlogPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	if post.Status != models.BlogApproved {
		currentUserID := getUserIDFromContext(c)
		claims, _ := c.Get("user").(*models.JwtCustomClaims)
		isAdmin := claims != nil && claims.IsAdmin
		if post.AuthorID != currentUserID && !isAdmin {
			return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"post": post}})
}

// GetPending lists blog posts awaiting moderation
func (h *BlogHandler) GetPending(c echo.Context) error {
	posts, err := h.blogRepository.GetPending(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": posts}})
}

// ApproveBlogPost publishes a pending blog post and notifies its author
func (h *BlogHandler) ApproveBlogPost(c echo.Context) error {
	return h.review(c, models.BlogApproved, "Your blog post was approved and published")
}

// RejectBlogPost rejects a pending blog post and notifies its author
func (h *BlogHandler) RejectBlogPost(c echo.Context) error {
	return h.review(c, models.BlogRejected, "Your blog post was not approved")
}

func (h *BlogHandler) review(c echo.Context, status models.BlogStatus, message string) error {
	currentUserID := getUserIDFromContext(c)

	post, err := h.blogRepository.GetBlogPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	if err := h.blogRepository.SetStatus(c.Request().Context(), post.ID.Hex(), status, currentUserID); err != nil {
		return httpError(err)
	}

	h.dispatcher.NotifyModeration(c.Request().Context(), post.AuthorID, message+": "+post.Title, "/blog/"+post.ID.Hex())

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteBlogPost removes a blog post regardless of its status
func (h *BlogHandler) DeleteBlogPost(c echo.Context) error {
	if err := h.blogRepository.DeleteBlogPost(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
