package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// VerificationSender delivers the account verification mail
type VerificationSender interface {
	SendVerification(to, displayName, token string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	mailer         VerificationSender
	jwtSecret      string
	jwtTTL         time.Duration

	// linkBase, when set, makes signup log the verification link if no mailer is configured
	linkBase string
}

// NewAuthHandler creates a new AuthHandler. mailer may be nil, in which case no mail is sent.
func NewAuthHandler(userRepo repositories.UserRepository, mailer VerificationSender, jwtSecret string, jwtTTL time.Duration) *AuthHandler {
	if jwtTTL <= 0 {
		jwtTTL = 72 * time.Hour
	}
	return &AuthHandler{
		userRepository: userRepo,
		mailer:         mailer,
		jwtSecret:      jwtSecret,
		jwtTTL:         jwtTTL,
	}
}

// LogVerificationLinks makes signup log the verification link under baseURL while no
// mailer is configured, so local accounts can still be verified. Never enable in production.
func (h *AuthHandler) LogVerificationLinks(baseURL string) {
	h.linkBase = strings.TrimRight(baseURL, "/")
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.GET("/verify/:token", h.Verify)
}

// Signup handles local user registration with email and password.
// The account stays unverified until the mailed link is followed.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, "signup", err)
	}
	ctx := c.Request().Context()

	_, err := h.userRepository.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return respondError(c, "signup", models.NewValidationError("User with this email already registered"))
	}
	if !errors.Is(err, models.ErrNotFound) {
		return respondError(c, "signup", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, "signup", err)
	}

	token := uuid.NewString()
	user := &models.User{
		Email:             req.Email,
		Password:          string(hashedPassword),
		DisplayName:       strings.TrimSpace(req.DisplayName),
		VerificationToken: &token,
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return respondError(c, "signup", models.NewValidationError("User with this email already registered"))
		}
		return respondError(c, "create_user", err)
	}

	switch {
	case h.mailer != nil:
		if err := h.mailer.SendVerification(user.Email, user.DisplayName, token); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID.Hex()).Msg("verification email not sent")
		}
	case h.linkBase != "":
		log.Info().Str("user_id", user.ID.Hex()).
			Str("link", h.linkBase+"/api/v1/auth/verify/"+token).
			Msg("mail disabled, verification link")
	default:
		log.Warn().Str("user_id", user.ID.Hex()).Msg("mail disabled, verification token not delivered")
	}

	log.Info().Str("user_id", user.ID.Hex()).Msg("user signed up")
	return respondData(c, http.StatusCreated, echo.Map{"id": user.ID.Hex()})
}

// Verify consumes a verification token. Tokens are single use.
func (h *AuthHandler) Verify(c echo.Context) error {
	token := c.Param("token")
	user, err := h.userRepository.VerifyByToken(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return respondError(c, "verify", &models.AppError{Code: models.CodeNotFound, Message: "Verification link is invalid or already used"})
		}
		return respondError(c, "verify", err)
	}
	return respondData(c, http.StatusOK, echo.Map{"id": user.ID.Hex(), "isVerified": user.IsVerified})
}

// SignIn handles local user authentication with email and password.
// Banned users may still sign in; the ban gate only blocks writes.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SigninRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, "signin", err)
	}
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return respondError(c, "signin", models.NewUnauthorizedError("Invalid email or password"))
		}
		return respondError(c, "signin", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return respondError(c, "signin", models.NewUnauthorizedError("Invalid email or password"))
	}
	if !user.IsVerified {
		return respondError(c, "signin", models.NewForbiddenError("Please verify your email before signing in"))
	}

	if err := h.userRepository.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.Hex()).Msg("failed to record last login")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return respondError(c, "signin", err)
	}
	return respondData(c, http.StatusOK, echo.Map{"token": token})
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(h.jwtTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
