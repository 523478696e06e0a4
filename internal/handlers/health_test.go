package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/titleguard/api/internal/database"
)

// setupTestRouter creates a test Gin router with the handler.
func setupTestRouter(handler *HealthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

func TestHealthHandler_Health(t *testing.T) {
	// Create handler with no database (health check doesn't use it)
	handler := &HealthHandler{
		db:        nil,
		startTime: time.Now(),
		env:       "test",
	}

	// Setup router and route
	router := setupTestRouter(handler)
	router.GET("/health", handler.Health)

	// Create request
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	// Serve request
	router.ServeHTTP(w, req)

	// Assert status code
	assert.Equal(t, http.StatusOK, w.Code)

	// Assert response body
	var response HealthResponse
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, HealthResponse{Status: "healthy"}, response)
}

func TestHealthHandler_Info(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		startTime   time.Time
		checkUptime bool
	}{
		{
			name:        "returns API info with development environment",
			env:         "development",
			startTime:   time.Now().Add(-2 * time.Hour),
			checkUptime: true,
		},
		{
			name:        "returns API info with production environment",
			env:         "production",
			startTime:   time.Now().Add(-24 * time.Hour),
			checkUptime: true,
		},
		{
			name:        "returns API info with test environment",
			env:         "test",
			startTime:   time.Now(),
			checkUptime: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create handler
			handler := &HealthHandler{
				db:        nil,
				startTime: tt.startTime,
				env:       tt.env,
			}

			// Setup router and route
			router := setupTestRouter(handler)
			router.GET("/api/v1/info", handler.Info)

			// Create request
			req := httptest.NewRequest(http.MethodGet, "/api/v1/info", nil)
			w := httptest.NewRecorder()

			// Serve request
			router.ServeHTTP(w, req)

			// Assert status code
			assert.Equal(t, http.StatusOK, w.Code)

			// Assert response body
			var response InfoResponse
			err := json.NewDecoder(w.Body).Decode(&response)
			require.NoError(t, err)

			assert.Equal(t, APIVersion, response.Version)
			assert.Equal(t, tt.env, response.Environment)

			if tt.checkUptime {
				assert.NotEmpty(t, response.Uptime)
			}
		})
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{
			name:     "formats seconds only",
			duration: 45 * time.Second,
			expected: "0h 0m 45s",
		},
		{
			name:     "formats minutes and seconds",
			duration: 5*time.Minute + 30*time.Second,
			expected: "0h 5m 30s",
		},
		{
			name:     "formats hours, minutes and seconds",
			duration: 2*time.Hour + 15*time.Minute + 45*time.Second,
			expected: "2h 15m 45s",
		},
		{
			name:     "formats days, hours, minutes and seconds",
			duration: 3*24*time.Hour + 5*time.Hour + 30*time.Minute + 15*time.Second,
			expected: "3d 5h 30m 15s",
		},
		{
			name:     "formats exactly one day",
			duration: 24 * time.Hour,
			expected: "1d 0h 0m 0s",
		},
		{
			name:     "formats zero duration",
			duration: 0,
			expected: "0h 0m 0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatUptime(tt.duration)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNewHealthHandler(t *testing.T) {
	db := &database.Database{Pool: nil}
	handler := NewHealthHandler(db, "development")

	assert.NotNil(t, handler)
	assert.Equal(t, db, handler.db)
	assert.Equal(t, "development", handler.env)
	assert.False(t, handler.startTime.IsZero())
}

func TestReadyResponse_JSON(t *testing.T) {
	tests := []struct {
		name     string
		response ReadyResponse
		expected string
	}{
		{
			name: "connected state",
			response: ReadyResponse{
				Status:   "ready",
				Database: "connected",
			},
			expected: `{"status":"ready","database":"connected"}`,
		},
		{
			name: "disconnected state",
			response: ReadyResponse{
				Status:   "not_ready",
				Database: "disconnected",
			},
			expected: `{"status":"not_ready","database":"disconnected"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.response)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestHealthCheckTimeout(t *testing.T) {
	// Verify the constant is set to expected value
	assert.Equal(t, 2*time.Second, HealthCheckTimeout)
}

func TestAPIVersion(t *testing.T) {
	// Verify the API version constant
	assert.Equal(t, "0.1.0", APIVersion)
}
