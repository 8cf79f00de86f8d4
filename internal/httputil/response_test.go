package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/assetvault/internal/errors"
)

func TestHandleErrorGin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "not found",
			err:            apperrors.Wrap(apperrors.ErrNotFound, "asset not found"),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"not_found","message":"The requested resource was not found"}`,
		},
		{
			name:           "conflict",
			err:            apperrors.Wrap(apperrors.ErrConflict, "email already registered"),
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"error":"conflict","message":"A conflict occurred with existing data"}`,
		},
		{
			name:           "invalid input exposes message",
			err:            apperrors.Wrap(apperrors.ErrInvalidInput, "responsible user belongs to another company"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"error":"invalid_input","message":"responsible user belongs to another company: invalid input"}`,
		},
		{
			name:           "unavailable",
			err:            apperrors.Wrap(apperrors.ErrUnavailable, "database"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"error":"unavailable","message":"The service is temporarily unavailable"}`,
		},
		{
			name:           "internal error hides details",
			err:            errors.New("pq: relation assets does not exist"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal_error","message":"An internal error occurred"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleErrorGin(c, nil, nil)

		assert.Empty(t, w.Body.String())
	})
}

func TestHandleBadRequestGin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleBadRequestGin(c, errors.New("invalid character '}'"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"bad_request","message":"invalid character '}'"}`, w.Body.String())
}

func TestHandleValidationErrorGin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleValidationErrorGin(c, errors.New("brand: cannot be blank."), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"validation_error","message":"brand: cannot be blank."}`, w.Body.String())
}
