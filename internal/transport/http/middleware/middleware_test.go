package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"excel-analytics/internal/pkg/jwtutil"
)

const testSecret = "test-secret"

func newTestRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()), Metrics())
	r.GET("/protected", AuthJWT(testSecret), RequireRoles(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetUint(ContextUserIDKey),
			"role":    c.GetString(ContextRoleKey),
		})
	})
	return r
}

func bearer(t *testing.T, userID uint, role string) string {
	t.Helper()
	token, err := jwtutil.GenerateToken(testSecret, time.Hour, userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthAndRoles(t *testing.T) {
	r := newTestRouter("user", "admin")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "user", header: bearer(t, 1, "user"), want: http.StatusOK},
		{name: "admin", header: bearer(t, 2, "admin"), want: http.StatusOK},
		{name: "unknown role", header: bearer(t, 3, "guest"), want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestMetricsCountsRequests(t *testing.T) {
	r := newTestRouter("user")

	before := testutil.ToFloat64(metrics.requestTotal.WithLabelValues(http.MethodGet, "/protected", "401"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	after := testutil.ToFloat64(metrics.requestTotal.WithLabelValues(http.MethodGet, "/protected", "401"))
	assert.Equal(t, before+1, after)
}
