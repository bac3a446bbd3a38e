package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/EternisAI/node-status-server/internal/api/http/dto"
	"github.com/EternisAI/node-status-server/internal/node"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAssets = fstest.MapFS{
	"index.html": {Data: []byte("<html>Node Manager</html>")},
	"scripts.js": {Data: []byte("console.log('ok');")},
}

func setupDashboardRouter(t *testing.T) (*gin.Engine, *node.Store) {
	t.Helper()
	dir := t.TempDir()
	store := node.NewStore(filepath.Join(dir, "api_key.txt"), filepath.Join(dir, "setup_status.txt"))
	svc := node.NewService(store, &stubRunner{}, []string{"gala-node", "status"}, []string{"setup.sh"})

	h, err := NewDashboardHandler(svc, 8080, testAssets, "index.html")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/api/status", h.Status)
	r.NoRoute(h.Page)
	return r, store
}

func getDashboardStatus(t *testing.T, r *gin.Engine) dto.DashboardStatusResponse {
	t.Helper()
	req, _ := http.NewRequest("GET", "/api/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.DashboardStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestDashboardStatusFollowsNodeState(t *testing.T) {
	r, store := setupDashboardRouter(t)

	resp := getDashboardStatus(t, r)
	assert.Equal(t, uint(8080), resp.BackendPort)
	assert.Equal(t, "UNCONFIGURED", resp.NodeState)
	require.Len(t, resp.Servers, 2)
	assert.Equal(t, dto.ServerInfo{Name: "Backend Server", Status: ServerStatusNotConfigured}, resp.Servers[0])
	assert.Equal(t, dto.ServerInfo{Name: "Frontend Server", Status: ServerStatusRunning}, resp.Servers[1])

	require.NoError(t, store.WriteCredential("XYZ"))
	resp = getDashboardStatus(t, r)
	assert.Equal(t, "CONFIGURING", resp.NodeState)
	assert.Equal(t, ServerStatusSetupPending, resp.Servers[0].Status)

	require.NoError(t, store.MarkSetupComplete())
	resp = getDashboardStatus(t, r)
	assert.Equal(t, "READY", resp.NodeState)
	assert.Equal(t, ServerStatusRunning, resp.Servers[0].Status)
}

func TestDashboardServesAssets(t *testing.T) {
	r, _ := setupDashboardRouter(t)

	req, _ := http.NewRequest("GET", "/scripts.js", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log('ok');", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "javascript")
}

func TestDashboardFallsBackToIndex(t *testing.T) {
	r, _ := setupDashboardRouter(t)

	for _, p := range []string{"/", "/index.html", "/nodes/1", "/../etc/passwd"} {
		req, _ := http.NewRequest("GET", p, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, p)
		assert.Contains(t, w.Body.String(), "Node Manager", p)
	}
}

func TestDashboardRejectsWrites(t *testing.T) {
	r, _ := setupDashboardRouter(t)

	req, _ := http.NewRequest("POST", "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestNewDashboardHandlerMissingIndex(t *testing.T) {
	_, err := NewDashboardHandler(nil, 8080, fstest.MapFS{}, "index.html")
	assert.Error(t, err)
}
