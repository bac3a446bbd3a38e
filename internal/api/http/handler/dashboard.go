package handler

import (
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/EternisAI/node-status-server/internal/api/http/dto"
	"github.com/EternisAI/node-status-server/internal/node"
	"github.com/gin-gonic/gin"
)

const (
	ServerStatusRunning       = "Running"
	ServerStatusSetupPending  = "Setup Pending"
	ServerStatusNotConfigured = "Not Configured"
	ServerStatusUnknown       = "Unknown"
)

// DashboardHandler serves the Node Manager page and a summary endpoint the
// page uses to find the status server.
type DashboardHandler struct {
	nodeService *node.Service
	backendPort uint
	assets      fs.FS
	indexFile   string
	index       []byte
}

func NewDashboardHandler(nodeService *node.Service, backendPort uint, assets fs.FS, indexFile string) (*DashboardHandler, error) {
	index, err := fs.ReadFile(assets, indexFile)
	if err != nil {
		return nil, err
	}
	return &DashboardHandler{
		nodeService: nodeService,
		backendPort: backendPort,
		assets:      assets,
		indexFile:   indexFile,
		index:       index,
	}, nil
}

// Status reports the state of both servers without running any node command.
func (h *DashboardHandler) Status(ctx *gin.Context) {
	backend := ServerStatusUnknown
	nodeState := ServerStatusUnknown
	state, err := h.nodeService.State()
	if err != nil {
		slog.Warn("Unable to determine node state", "error", err)
	} else {
		nodeState = state.String()
		switch state {
		case node.StateReady:
			backend = ServerStatusRunning
		case node.StateConfiguring:
			backend = ServerStatusSetupPending
		case node.StateUnconfigured:
			backend = ServerStatusNotConfigured
		}
	}

	ctx.JSON(http.StatusOK, dto.DashboardStatusResponse{
		Servers: []dto.ServerInfo{
			{Name: "Backend Server", Status: backend},
			{Name: "Frontend Server", Status: ServerStatusRunning},
		},
		NodeState:   nodeState,
		BackendPort: h.backendPort,
	})
}

// Page serves an embedded asset when the path names one, and the index page
// for every other path.
func (h *DashboardHandler) Page(ctx *gin.Context) {
	if ctx.Request.Method != http.MethodGet && ctx.Request.Method != http.MethodHead {
		ctx.Header("Allow", "GET, HEAD")
		ctx.JSON(http.StatusMethodNotAllowed, dto.ErrorMessage(MsgMethodNotAllowed))
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+ctx.Request.URL.Path), "/")
	// http.FileServer redirects index.html to its directory, so the index is
	// always written directly.
	if name != "" && name != h.indexFile {
		if info, err := fs.Stat(h.assets, name); err == nil && !info.IsDir() {
			ctx.FileFromFS(name, http.FS(h.assets))
			return
		}
	}

	ctx.Data(http.StatusOK, "text/html; charset=utf-8", h.index)
}
