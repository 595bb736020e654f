package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mall/backend/internal/infrastructure/config"
	"github.com/mall/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSwaggerRouter(cfg config.SwaggerConfig, auth gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, auth), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func serveSwagger(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection(t *testing.T) {
	t.Run("disabled answers not found", func(t *testing.T) {
		router := newSwaggerRouter(config.SwaggerConfig{}, nil)

		w := serveSwagger(router, "10.1.2.3:5000")

		require.Equal(t, http.StatusNotFound, w.Code)
		var body dto.ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, dto.ErrCodeNotFound, body.Code)
	})

	t.Run("enabled without restrictions serves docs", func(t *testing.T) {
		router := newSwaggerRouter(config.SwaggerConfig{Enabled: true}, nil)

		w := serveSwagger(router, "10.1.2.3:5000")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "docs", w.Body.String())
	})

	t.Run("allow list admits exact IPs and CIDR ranges", func(t *testing.T) {
		router := newSwaggerRouter(config.SwaggerConfig{
			Enabled:    true,
			AllowedIPs: []string{"192.168.1.20", "10.0.0.0/8"},
		}, nil)

		assert.Equal(t, http.StatusOK, serveSwagger(router, "192.168.1.20:5000").Code)
		assert.Equal(t, http.StatusOK, serveSwagger(router, "10.200.0.7:5000").Code)

		w := serveSwagger(router, "172.16.0.1:5000")
		require.Equal(t, http.StatusForbidden, w.Code)
		var body dto.ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, dto.ErrCodeForbidden, body.Code)
		assert.Equal(t, http.StatusForbidden, dto.GetHTTPStatus(body.Code))
	})

	t.Run("auth abort stops the request", func(t *testing.T) {
		deny := func(c *gin.Context) {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		}
		router := newSwaggerRouter(config.SwaggerConfig{Enabled: true, RequireAuth: true}, deny)

		w := serveSwagger(router, "10.1.2.3:5000")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotContains(t, w.Body.String(), "docs")
	})

	t.Run("auth pass lets the request through", func(t *testing.T) {
		allow := func(c *gin.Context) {}
		router := newSwaggerRouter(config.SwaggerConfig{Enabled: true, RequireAuth: true}, allow)

		assert.Equal(t, http.StatusOK, serveSwagger(router, "10.1.2.3:5000").Code)
	})
}

func TestIsIPAllowed(t *testing.T) {
	ips, nets := parseAllowList([]string{" 127.0.0.1 ", "::1", "fd00::/8", "not-an-ip", "300.0.0.0/8"})
	require.Len(t, ips, 2)
	require.Len(t, nets, 1)

	tests := []struct {
		name string
		ip   net.IP
		want bool
	}{
		{"loopback v4", net.ParseIP("127.0.0.1"), true},
		{"loopback v6", net.ParseIP("::1"), true},
		{"inside v6 range", net.ParseIP("fd12::1"), true},
		{"outside", net.ParseIP("8.8.8.8"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isIPAllowed(tt.ip, ips, nets))
		})
	}
}
