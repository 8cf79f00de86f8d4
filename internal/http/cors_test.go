package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "Empty", input: "", want: nil},
		{name: "OnlySeparators", input: " , ,", want: nil},
		{
			name:  "TrimsWhitespaceAndSlash",
			input: " https://panel.example.com/ , https://admin.example.com",
			want:  []string{"https://panel.example.com", "https://admin.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitOrigins(tt.input))
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	logger := discardLogger()

	t.Run("Success_DisabledReturnsNil", func(t *testing.T) {
		assert.Nil(t, corsMiddleware(false, "https://panel.example.com", logger))
	})

	t.Run("Success_NoOriginsReturnsNil", func(t *testing.T) {
		assert.Nil(t, corsMiddleware(true, " , ", logger))
	})

	t.Run("Success_PreflightForAssetUpdate", func(t *testing.T) {
		middleware := corsMiddleware(true, "https://panel.example.com", logger)
		require.NotNil(t, middleware)

		router := gin.New()
		router.Use(middleware)
		router.PUT("/v1/assets/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/v1/assets/123", nil)
		req.Header.Set("Origin", "https://panel.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://panel.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("Error_UnknownOriginRejected", func(t *testing.T) {
		router := gin.New()
		router.Use(corsMiddleware(true, "https://panel.example.com", logger))
		router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
