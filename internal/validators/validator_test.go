package validators

import (
	"testing"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomValidator(t *testing.T) {
	cv := NewCustomValidator()

	assert.NoError(t, cv.Validate(&models.CreateReportRequest{Reason: "spam"}))

	err := cv.Validate(&models.CreateReportRequest{})
	require.Error(t, err)
	assert.Equal(t, "reason is required", err.Error())

	err = cv.Validate(&models.SignupRequest{Email: "nope", Password: "short", DisplayName: "Al"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email")
	assert.Contains(t, err.Error(), "password must be at least 8 characters")
}
