package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(t *testing.T) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	c := testContext(t)
	c.Request.RemoteAddr = "10.0.0.1:443"
	c.Request.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")

	assert.Equal(t, "203.0.113.9", getClientIP(c))
}

func TestClientIPFallsBackToRealIP(t *testing.T) {
	c := testContext(t)
	c.Request.RemoteAddr = "10.0.0.1:443"
	c.Request.Header.Set("X-Real-IP", "203.0.113.9")

	assert.Equal(t, "203.0.113.9", getClientIP(c))
}

func TestClientIPStripsPeerPort(t *testing.T) {
	c := testContext(t)
	c.Request.RemoteAddr = "203.0.113.9:52011"

	assert.Equal(t, "203.0.113.9", getClientIP(c))
}
