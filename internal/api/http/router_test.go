package http

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/EternisAI/node-status-server/internal/api/http/middleware"
	"github.com/EternisAI/node-status-server/internal/node"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouteCatchAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	store := node.NewStore(filepath.Join(dir, "api_key.txt"), filepath.Join(dir, "setup_status.txt"))
	svc := node.NewService(store, node.NewExecRunner(0), []string{"true"}, []string{"true"})

	engine := gin.New()
	SetupRoute(engine, &Services{NodeService: svc})

	for _, path := range []string{"/", "/status", "/anything/else"} {
		req, _ := http.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader), path)
	}
}

func TestSetupDashboardRouteServesEmbeddedPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	store := node.NewStore(filepath.Join(dir, "api_key.txt"), filepath.Join(dir, "setup_status.txt"))
	svc := node.NewService(store, node.NewExecRunner(0), []string{"true"}, []string{"true"})

	engine := gin.New()
	require.NoError(t, SetupDashboardRoute(engine, &Services{NodeService: svc}, 8080))

	for _, path := range []string{"/", "/styles.css", "/scripts.js", "/api/status"} {
		req, _ := http.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Body.String(), path)
	}

	req, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "Node Manager")
}

func TestConfigAddr(t *testing.T) {
	assert.Equal(t, "[::]:8080", Config{}.Addr())
	assert.Equal(t, "0.0.0.0:9000", Config{Host: "0.0.0.0", Port: 9000}.Addr())
	assert.Equal(t, "[::1]:8080", Config{Host: "::1"}.Addr())
}
