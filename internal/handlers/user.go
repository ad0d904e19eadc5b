package handlers

import (
	"net/http"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users and follow edges
type UserHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo, followRepository: followRepo}
}

// RegisterUserRoutes registers profile routes on api and follow toggling on writes
func (h *UserHandler) RegisterUserRoutes(api, writes *echo.Group) {
	api.GET("/profile", h.GetProfile)
	api.PUT("/profile", h.UpdateProfile)
	api.GET("/users/:userId", h.GetUser)
	writes.PUT("/users/:userId/follow", h.ToggleFollow)
}

// GetUser returns a public profile
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := models.ParseID("user id", c.Param("userId"))
	if err != nil {
		return respondError(c, "get_user", err)
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, "get_user", notFoundAs(err, "User", id.Hex()))
	}
	return respondData(c, http.StatusOK, user)
}

// GetProfile returns the caller's own profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return respondError(c, "get_profile", err)
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, "get_profile", err)
	}
	return respondData(c, http.StatusOK, user)
}

// UpdateProfile changes the caller's editable profile fields; empty fields are left as they are
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return respondError(c, "update_profile", err)
	}

	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, "update_profile", err)
	}

	user, err := h.userRepository.UpdateProfile(c.Request().Context(), id, &req)
	if err != nil {
		return respondError(c, "update_profile", err)
	}
	return respondData(c, http.StatusOK, user)
}

// ToggleFollow follows the target user, or unfollows when already following
func (h *UserHandler) ToggleFollow(c echo.Context) error {
	me, err := callerID(c)
	if err != nil {
		return respondError(c, "toggle_follow", err)
	}
	target, err := models.ParseID("user id", c.Param("userId"))
	if err != nil {
		return respondError(c, "toggle_follow", err)
	}
	if me == target {
		return respondError(c, "toggle_follow", models.NewValidationError("Cannot follow yourself"))
	}

	following, err := h.followRepository.ToggleFollow(c.Request().Context(), me, target)
	if err != nil {
		return respondError(c, "toggle_follow", notFoundAs(err, "User", target.Hex()))
	}
	return respondData(c, http.StatusOK, echo.Map{"userId": target.Hex(), "following": following})
}
