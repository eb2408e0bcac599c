package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-gin-mongo-users/internal/core/health"
	"go-gin-mongo-users/internal/core/limiter"
	"go-gin-mongo-users/internal/repo"
	"go-gin-mongo-users/internal/service"
	"go-gin-mongo-users/internal/transport/http/handler"
	"go-gin-mongo-users/internal/transport/http/middleware"
	"go-gin-mongo-users/internal/transport/http/router"
)

func init() { gin.SetMode(gin.TestMode) }

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func usersModule() router.APIModule {
	return handler.NewUserHandler(service.NewUserService(repo.NewMemoryUserStore()), zap.NewNop())
}

func TestWelcome(t *testing.T) {
	r := router.NewAPIEngine(zap.NewNop(), router.Options{Name: "User Management API", Version: "1.0.0"})

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Welcome to User Management API", body.Data["message"])
	assert.Equal(t, "1.0.0", body.Data["version"])
	assert.Equal(t, "/api/v1", body.Data["api"])
	assert.NotEmpty(t, w.Header().Get(middleware.KeyRequestID))
}

func TestHealth(t *testing.T) {
	cases := []struct {
		desc   string
		ready  *health.Service
		status int
		body   string
	}{
		{desc: "no checkers", ready: nil, status: http.StatusOK, body: `"status":"healthy"`},
		{
			desc:   "store up",
			ready:  health.NewService(health.Func("mongo", func(context.Context) error { return nil })),
			status: http.StatusOK,
			body:   `"status":"healthy"`,
		},
		{
			desc:   "store down",
			ready:  health.NewService(health.Func("mongo", func(context.Context) error { return errors.New("no reachable servers") })),
			status: http.StatusServiceUnavailable,
			body:   `"msg":"mongo: no reachable servers"`,
		},
	}
	for _, tc := range cases {
		r := router.NewAPIEngine(zap.NewNop(), router.Options{Ready: tc.ready})
		w := get(r, "/health")
		assert.Equal(t, tc.status, w.Code, tc.desc)
		assert.Contains(t, w.Body.String(), tc.body, tc.desc)
	}
}

func TestUsersMountedUnderPrefix(t *testing.T) {
	r := router.NewAPIEngine(zap.NewNop(), router.Options{APIPrefix: "/api/v2"}, usersModule())

	assert.Equal(t, http.StatusOK, get(r, "/api/v2/users").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/users").Code)
}

func TestRateLimit(t *testing.T) {
	r := router.NewAPIEngine(zap.NewNop(), router.Options{
		Limiter: limiter.NewLocal(1, 2),
	}, usersModule())

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/users").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/users").Code)
	w := get(r, "/api/v1/users")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"code":429`)
}

func TestCORSPreflight(t *testing.T) {
	r := router.NewAPIEngine(zap.NewNop(), router.Options{CORSOrigins: []string{"http://localhost:3000"}}, usersModule())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/users", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminEngine(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := service.NewMetricsService(service.NewUserService(repo.NewMemoryUserStore()), reg)
	api := router.NewAPIEngine(zap.NewNop(), router.Options{Metrics: reg},
		handler.NewUserHandler(svc, zap.NewNop()))
	require.Equal(t, http.StatusOK, get(api, "/api/v1/users").Code)

	r := router.NewAdminEngine(zap.NewNop(), nil, reg)

	assert.Equal(t, http.StatusOK, get(r, "/health").Code)

	w := get(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `users_service_calls_total{method="list",outcome="ok"} 1`), body)
	assert.True(t, strings.Contains(body, `users_http_requests_total{method="GET",route="/api/v1/users",status="200"} 1`), body)
}

type orderedModule struct {
	name     string
	priority int
	log      *[]string
}

func (m orderedModule) Priority() int { return m.priority }
func (m orderedModule) MountAPI(*gin.RouterGroup) {
	*m.log = append(*m.log, m.name)
}

func TestMountAllAPIOrder(t *testing.T) {
	var mounted []string
	router.MountAllAPI(gin.New().Group("/api"),
		orderedModule{name: "late", priority: 50, log: &mounted},
		orderedModule{name: "early", priority: 1, log: &mounted},
		orderedModule{name: "middle", priority: 10, log: &mounted},
	)
	assert.Equal(t, []string{"early", "middle", "late"}, mounted)
}
