package http

import (
	"github.com/EternisAI/node-status-server/internal/api/http/handler"
	"github.com/EternisAI/node-status-server/internal/api/http/middleware"
	"github.com/EternisAI/node-status-server/internal/api/http/web"
	"github.com/EternisAI/node-status-server/internal/node"
	"github.com/gin-gonic/gin"
)

type Services struct {
	NodeService *node.Service
}

// SetupRoute wires the node endpoint. There is no path routing: every
// request falls through to the status handler.
func SetupRoute(engine *gin.Engine, srvs *Services) {
	engine.Use(middleware.RequestLogger())

	statusHandler := handler.NewStatusHandler(srvs.NodeService)
	engine.NoRoute(statusHandler.Handle)
}

// SetupDashboardRoute wires the Node Manager page. backendPort is the port of
// the status server the page talks to.
func SetupDashboardRoute(engine *gin.Engine, srvs *Services, backendPort uint) error {
	engine.Use(middleware.RequestLogger())

	dashboardHandler, err := handler.NewDashboardHandler(srvs.NodeService, backendPort, web.Assets, web.IndexFile)
	if err != nil {
		return err
	}
	engine.GET("/api/status", dashboardHandler.Status)
	engine.NoRoute(dashboardHandler.Page)
	return nil
}
