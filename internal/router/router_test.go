package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Subasree2717/agropredictor/config"
	"github.com/Subasree2717/agropredictor/internal/api"
	"github.com/Subasree2717/agropredictor/internal/middleware"
)

func TestSetupRouterCORS(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	router := SetupRouter(&config.Config{CORSOrigins: []string{"*"}}, api.Dependencies{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/predict", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetupRouterRestrictedOrigins(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	router := SetupRouter(&config.Config{CORSOrigins: []string{"http://farm.example"}}, api.Dependencies{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://farm.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://farm.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func clientIPFor(t *testing.T, cfg *config.Config, remoteAddr, forwardedFor string) string {
	t.Helper()
	router := SetupRouter(cfg, api.Dependencies{}, nil)
	router.GET("/client-ip", func(c *gin.Context) {
		c.String(http.StatusOK, c.ClientIP())
	})

	req := httptest.NewRequest(http.MethodGet, "/client-ip", nil)
	req.RemoteAddr = remoteAddr
	req.Header.Set("X-Forwarded-For", forwardedFor)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestSetupRouterIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	cfg := &config.Config{CORSOrigins: []string{"*"}}

	assert.Equal(t, "203.0.113.7", clientIPFor(t, cfg, "203.0.113.7:51000", "1.1.1.1"))
	assert.Equal(t, "203.0.113.7", clientIPFor(t, cfg, "203.0.113.7:51001", "2.2.2.2"))
}

func TestSetupRouterHonoursTrustedProxy(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	cfg := &config.Config{CORSOrigins: []string{"*"}, TrustedProxies: []string{"10.0.0.0/8"}}

	assert.Equal(t, "1.1.1.1", clientIPFor(t, cfg, "10.1.2.3:443", "1.1.1.1"))
	assert.Equal(t, "203.0.113.7", clientIPFor(t, cfg, "203.0.113.7:443", "1.1.1.1"))
}

func TestSetupRouterInvalidTrustedProxyTrustsNone(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	cfg := &config.Config{CORSOrigins: []string{"*"}, TrustedProxies: []string{"not-an-ip"}}

	assert.Equal(t, "203.0.113.7", clientIPFor(t, cfg, "203.0.113.7:443", "1.1.1.1"))
}
