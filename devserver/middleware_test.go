package devserver

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(r http.Handler, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":40000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewStore("", 1), WithRateLimit(2, time.Minute))

	assert.Equal(t, http.StatusOK, get(r, "/health", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, get(r, "/health", "10.0.0.1").Code)
	w := get(r, "/health", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")

	assert.Equal(t, http.StatusOK, get(r, "/health", "10.0.0.2").Code)
}

func TestRateLimitWindowSlides(t *testing.T) {
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newIPLimiter(1, time.Minute, func() time.Time { return clock })

	require.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))

	clock = clock.Add(61 * time.Second)
	assert.True(t, l.allow("a"))
}

func TestRequestLogging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := NewRouter(NewStore("", 1), WithLogger(log.New(&buf)))

	get(r, "/health", "10.0.0.1")
	get(r, "/api/invoices/missing", "10.0.0.1")

	out := buf.String()
	assert.Contains(t, out, "path=/health")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "status=404")
}
