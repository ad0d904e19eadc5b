package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const postImageFolder = "posts"

// Uploader stores a post image and returns where it lives
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename, contentType, folder string) (*firebase.StoredObject, error)
}

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	cascade        *services.CascadeExecutor
	uploader       Uploader
}

// NewPostHandler creates a new PostHandler. uploader may be nil when object storage is not configured.
func NewPostHandler(postRepo repositories.PostRepository, cascade *services.CascadeExecutor, uploader Uploader) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		cascade:        cascade,
		uploader:       uploader,
	}
}

// RegisterPostRoutes registers post reads on api and mutations on writes
func (h *PostHandler) RegisterPostRoutes(api, writes *echo.Group) {
	api.GET("/posts/:postId", h.GetPost)
	writes.POST("/posts", h.CreatePost)
	writes.DELETE("/posts/:postId", h.DeletePost)
}

// CreatePost creates a post from a multipart form with a description and an optional image
func (h *PostHandler) CreatePost(c echo.Context) error {
	me, err := callerID(c)
	if err != nil {
		return respondError(c, "create_post", err)
	}

	req := models.CreatePostRequest{Description: strings.TrimSpace(c.FormValue("description"))}
	if err := c.Validate(&req); err != nil {
		return respondError(c, "create_post", models.NewValidationError(err.Error()))
	}

	file, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		return respondError(c, "create_post", models.NewValidationError("Invalid image upload"))
	}
	if file == nil && req.Description == "" {
		return respondError(c, "create_post", models.NewValidationError("description is required unless an image is attached"))
	}

	post := &models.Post{
		User:        me,
		Description: req.Description,
	}

	if file != nil {
		if h.uploader == nil {
			return respondError(c, "create_post", models.NewValidationError("Image uploads are not enabled"))
		}
		src, err := file.Open()
		if err != nil {
			return respondError(c, "create_post", models.NewValidationError("Invalid image upload"))
		}
		defer src.Close()

		stored, err := h.uploader.Upload(c.Request().Context(), src, file.Filename, file.Header.Get(echo.HeaderContentType), postImageFolder)
		if err != nil {
			return respondError(c, "upload_post_image", err)
		}
		post.Image = stored.URL
		post.ImageRef = stored.Ref
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return respondError(c, "create_post", err)
	}

	log.Info().Str("post_id", post.ID.Hex()).Str("user_id", me.Hex()).Bool("has_image", post.ImageRef != "").Msg("post created")
	return respondData(c, http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := models.ParseID("post id", c.Param("postId"))
	if err != nil {
		return respondError(c, "get_post", err)
	}
	post, err := h.postRepository.GetPostByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, "get_post", notFoundAs(err, "Post", id.Hex()))
	}
	return respondData(c, http.StatusOK, post)
}

// DeletePost lets the owner delete their post; dependent data is cleaned up like an admin removal
func (h *PostHandler) DeletePost(c echo.Context) error {
	me, err := callerID(c)
	if err != nil {
		return respondError(c, "delete_post", err)
	}
	id, err := models.ParseID("post id", c.Param("postId"))
	if err != nil {
		return respondError(c, "delete_post", err)
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, "delete_post", notFoundAs(err, "Post", id.Hex()))
	}
	if post.User != me {
		return respondError(c, "delete_post", models.NewForbiddenError("You are not authorized to delete this post"))
	}

	if _, err := h.cascade.DeletePostCascade(c.Request().Context(), id); err != nil {
		return respondError(c, "delete_post", err)
	}
	return respondMessage(c, http.StatusOK, "Post deleted")
}
