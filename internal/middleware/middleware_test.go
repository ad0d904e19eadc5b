package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories/repotest"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, userID string, ttl time.Duration) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		Email:  "u@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJWTAuth(t *testing.T) {
	userID := primitive.NewObjectID()

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad format", "Token abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", userID.Hex(), time.Hour), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, userID.Hex(), -time.Hour), http.StatusUnauthorized},
		{"bad subject", "Bearer " + signToken(t, testSecret, "nope", time.Hour), http.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, testSecret, userID.Hex(), time.Hour), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seen primitive.ObjectID
			h := JWTAuth(testSecret)(func(c echo.Context) error {
				seen, _ = CurrentUserID(c)
				return okHandler(c)
			})

			require.NoError(t, h(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID, seen)
				return
			}
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, models.CodeUnauthorized, body["error"])
		})
	}
}

func gateContext(userID primitive.ObjectID) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(UserIDKey, userID)
	return c, rec
}

func usersWith(u *models.User) *repotest.UserRepo {
	return &repotest.UserRepo{
		GetUserByIDFn: func(_ context.Context, id primitive.ObjectID) (*models.User, error) {
			if u == nil || id != u.ID {
				return nil, models.ErrNotFound
			}
			return u, nil
		},
	}
}

func TestBanGate(t *testing.T) {
	t.Run("banned caller is rejected before the handler", func(t *testing.T) {
		user := &models.User{ID: primitive.NewObjectID(), IsBanned: true}
		c, rec := gateContext(user.ID)
		called := false

		err := BanGate(usersWith(user))(func(c echo.Context) error {
			called = true
			return okHandler(c)
		})(c)
		require.NoError(t, err)

		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, models.CodeForbidden, decode(t, rec)["error"])
	})

	t.Run("active caller passes", func(t *testing.T) {
		user := &models.User{ID: primitive.NewObjectID()}
		c, rec := gateContext(user.ID)

		require.NoError(t, BanGate(usersWith(user))(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		got, ok := CurrentUser(c)
		require.True(t, ok)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("deleted account", func(t *testing.T) {
		c, rec := gateContext(primitive.NewObjectID())
		require.NoError(t, BanGate(usersWith(nil))(okHandler)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAdminRequired(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
	}{
		{"flagged admin", &models.User{ID: primitive.NewObjectID(), IsAdmin: true, Email: "x@example.com"}, http.StatusOK},
		{"listed email", &models.User{ID: primitive.NewObjectID(), Email: "Boss@Example.com"}, http.StatusOK},
		{"regular user", &models.User{ID: primitive.NewObjectID(), Email: "pleb@example.com"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := gateContext(tt.user.ID)
			mw := AdminRequired(usersWith(tt.user), []string{" boss@example.com "})
			require.NoError(t, mw(okHandler)(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		require.NoError(t, AdminRequired(usersWith(nil), nil)(okHandler)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGatesShareLoadedCaller(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), IsAdmin: true}
	loads := 0
	users := &repotest.UserRepo{
		GetUserByIDFn: func(context.Context, primitive.ObjectID) (*models.User, error) {
			loads++
			return user, nil
		},
	}
	c, rec := gateContext(user.ID)

	h := AdminRequired(users, nil)(BanGate(users)(okHandler))
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, loads)
}
