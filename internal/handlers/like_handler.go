package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeHandler handles like and share toggles on posts
type LikeHandler struct {
	engagementRepository repositories.EngagementRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(engagementRepo repositories.EngagementRepository) *LikeHandler {
	return &LikeHandler{engagementRepository: engagementRepo}
}

// RegisterLikeRoutes registers like and share routes; both mutate, so they belong on writes
func (h *LikeHandler) RegisterLikeRoutes(writes *echo.Group) {
	writes.PUT("/posts/:postId/like", h.ToggleLike)
	writes.PUT("/posts/:postId/share", h.ToggleShare)
}

// ToggleLike likes the post, or removes the caller's like when already present
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	return h.toggle(c, "toggle_like", h.engagementRepository.ToggleLike)
}

// ToggleShare shares the post, or removes the caller's share when already present
func (h *LikeHandler) ToggleShare(c echo.Context) error {
	return h.toggle(c, "toggle_share", h.engagementRepository.ToggleShare)
}

type toggleFunc func(ctx context.Context, postID, userID primitive.ObjectID) (*models.Engagement, error)

func (h *LikeHandler) toggle(c echo.Context, op string, fn toggleFunc) error {
	me, err := callerID(c)
	if err != nil {
		return respondError(c, op, err)
	}
	postID, err := models.ParseID("post id", c.Param("postId"))
	if err != nil {
		return respondError(c, op, err)
	}

	state, err := fn(c.Request().Context(), postID, me)
	if err != nil {
		return respondError(c, op, notFoundAs(err, "Post", postID.Hex()))
	}
	return respondData(c, http.StatusOK, state)
}
