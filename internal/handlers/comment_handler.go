package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository) *CommentHandler {
	return &CommentHandler{commentRepository: commentRepo}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(writes *echo.Group) {
	writes.POST("/posts/:postId/comments", h.CreateComment)
}

// CreateComment appends a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	me, err := callerID(c)
	if err != nil {
		return respondError(c, "create_comment", err)
	}
	postID, err := models.ParseID("post id", c.Param("postId"))
	if err != nil {
		return respondError(c, "create_comment", err)
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, "create_comment", err)
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return respondError(c, "create_comment", models.NewValidationError("text is required"))
	}

	comment := &models.Comment{User: me, Text: text}
	if err := h.commentRepository.AddComment(c.Request().Context(), postID, comment); err != nil {
		return respondError(c, "create_comment", notFoundAs(err, "Post", postID.Hex()))
	}
	return respondData(c, http.StatusCreated, comment)
}
