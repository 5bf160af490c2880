package handlers

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spinshelf/backend/internal/activity"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/notifications"
	"github.com/spinshelf/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentHandler handles comments on records, posts and blog entries
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	recordRepository  repositories.RecordRepository
	postRepository    repositories.PostRepository
	blogRepository    repositories.BlogRepository
	userRepository    repositories.UserRepository
	dispatcher        *notifications.Dispatcher
	recorder          *activity.Recorder
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	recordRepo repositories.RecordRepository,
	postRepo repositories.PostRepository,
	blogRepo repositories.BlogRepository,
	userRepo repositories.UserRepository,
	dispatcher *notifications.Dispatcher,
	recorder *activity.Recorder,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		recordRepository:  recordRepo,
		postRepository:    postRepo,
		blogRepository:    blogRepo,
		userRepository:    userRepo,
		dispatcher:        dispatcher,
		recorder:          recorder,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/records/:id/comments", h.CreateRecordComment)
	g.GET("/records/:id/comments", h.GetRecordComments)
	g.POST("/posts/:id/comments", h.CreatePostComment)
	g.GET("/posts/:id/comments", h.GetPostComments)
	g.POST("/blog/:id/comments", h.CreateBlogComment)
	g.GET("/blog/:id/comments", h.GetBlogComments)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateRecordComment comments on a record and notifies its owner
func (h *CommentHandler) CreateRecordComment(c echo.Context) error {
	record, err := h.recordRepository.GetRecordByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return h.createComment(c, models.CommentTargetRecord, record.ID, record.OwnerID,
		record.Title+" by "+record.Artist, "/records/"+record.ID.Hex())
}

// CreatePostComment comments on a post and notifies its author. The
// embedded post's denormalized comment counter is bumped alongside.
func (h *CommentHandler) CreatePostComment(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	err = h.createComment(c, models.CommentTargetPost, post.ID, post.AuthorID,
		"your post", "/posts/"+post.ID.Hex())
	if err == nil {
		_ = h.postRepository.IncrementCommentsCount(c.Request().Context(), post.ID.Hex(), 1)
	}
	return err
}

// CreateBlogComment comments on a published blog post and notifies its author
func (h *CommentHandler) CreateBlogComment(c echo.Context) error {
	post, err := h.blogRepository.GetBlogPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if post.Status != models.BlogApproved {
		return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
	}
	return h.createComment(c, models.CommentTargetBlog, post.ID, post.AuthorID,
		post.Title, "/blog/"+post.ID.Hex())
}

// GetRecordComments lists comments on a record
func (h *CommentHandler) GetRecordComments(c echo.Context) error {
	return h.listComments(c, models.CommentTargetRecord)
}

// GetPostComments lists comments on a post
func (h *CommentHandler) GetPostComments(c echo.Context) error {
	return h.listComments(c, models.CommentTargetPost)
}

// GetBlogComments lists comments on a blog post
func (h *CommentHandler) GetBlogComments(c echo.Context) error {
	return h.listComments(c, models.CommentTargetBlog)
}

// UpdateComment updates a comment owned by the authenticated user
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.requireCommentOwnership(c.Request().Context(), c, currentUserID)
	if err != nil {
		return err
	}

	if err := h.commentRepository.UpdateComment(c.Request().Context(), comment.ID.Hex(), req.Content); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteComment removes a comment owned by the authenticated user
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	comment, err := h.requireCommentOwnership(c.Request().Context(), c, currentUserID)
	if err != nil {
		return err
	}

	if err := h.commentRepository.DeleteComment(c.Request().Context(), comment.ID.Hex()); err != nil {
		return httpError(err)
	}

	if comment.TargetKind == models.CommentTargetPost {
		_ = h.postRepository.IncrementCommentsCount(c.Request().Context(), comment.TargetID.Hex(), -1)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) createComment(c echo.Context, kind models.CommentTarget, targetID, ownerID primitive.ObjectID, what, link string) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment := &models.Comment{
		AuthorID:   currentUserID,
		TargetKind: kind,
		TargetID:   targetID,
		Content:    req.Content,
	}

	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// best-effort side channel: notification + activity log
	actor, err := h.userRepository.GetUserByID(c.Request().Context(), currentUserID.Hex())
	if err == nil {
		h.dispatcher.NotifyComment(c.Request().Context(), ownerID, actor, link, what)
	}
	h.recorder.RecordComment(c.Request().Context(), currentUserID, comment.ID, map[string]string{"target": what})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"comment": comment}})
}

func (h *CommentHandler) listComments(c echo.Context, kind models.CommentTarget) error {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}

	page, limit := pagination(c, 20)
	skip := int64((page - 1) * limit)

	comments, err := h.commentRepository.GetByTarget(c.Request().Context(), kind, targetID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": comments}})
}

func (h *CommentHandler) requireCommentOwnership(ctx context.Context, c echo.Context, userID primitive.ObjectID) (*models.Comment, error) {
	comment, err := h.commentRepository.GetCommentByID(ctx, c.Param("id"))
	if err != nil {
		return nil, httpError(err)
	}
	if comment.AuthorID != userID {
		claims, _ := c.Get("user").(*models.JwtCustomClaims)
		if claims == nil || !claims.IsAdmin {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Resource not found")
		}
	}
	return comment, nil
}
