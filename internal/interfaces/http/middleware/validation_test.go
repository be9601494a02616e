package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendorverse/backend/internal/interfaces/http/dto"
)

type validationTestRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Pincode  string `json:"pincode" binding:"required,len=6,numeric"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

func TestFormatValidationErrors(t *testing.T) {
	SetupValidator()

	router := gin.New()
	var resp dto.Response
	router.POST("/test", func(c *gin.Context) {
		var req validationTestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			resp = FormatValidationErrors(err, "req-1")
			c.JSON(http.StatusBadRequest, resp)
			return
		}
		c.Status(http.StatusOK)
	})

	body := `{"email": "not-an-email", "pincode": "56", "quantity": 0}`
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 3)

	// Field names come from JSON tags, not Go field names
	fields := make(map[string]string, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "pincode")
	assert.Contains(t, fields, "quantity")
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "Must be exactly 6 characters", fields["pincode"])
}

func TestHandleValidationError_NonValidatorError(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req validationTestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	// Malformed JSON produces a syntax error, not validator.ValidationErrors
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
