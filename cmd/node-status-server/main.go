package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	internalhttp "github.com/EternisAI/node-status-server/internal/api/http"
	"github.com/EternisAI/node-status-server/internal/node"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var AppVersion string

func main() {
	if len(os.Args) > 1 {
		if err := runSubcommand(os.Args[1], os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	InitConfig()

	slog.Info("Node Status Server", "version", AppVersion)

	if config.Node.CommandTimeout <= 0 {
		slog.Warn("Command timeout disabled, a hung node command blocks its request indefinitely")
	}

	store := node.NewStore(config.Node.CredentialFile, config.Node.MarkerFile)
	runner := node.NewExecRunner(config.Node.CommandTimeout)
	services := &internalhttp.Services{
		NodeService: node.NewService(store, runner, config.Node.StatusCommand, config.Node.SetupCommand),
	}

	state, err := services.NodeService.State()
	if err != nil {
		slog.Warn("Unable to determine node state", "error", err)
	} else {
		slog.Info("Node state", "state", state, "credential_file", store.CredentialPath(), "marker_file", store.MarkerPath())
	}

	gin.SetMode(gin.ReleaseMode)
	servers := []*namedServer{{
		name: "HTTP server",
		server: &http.Server{
			Addr:              config.Http.Addr(),
			Handler:           newStatusEngine(services),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}}

	if config.Dashboard.Enabled {
		dashboardEngine, err := newDashboardEngine(services, config.Http.Port)
		if err != nil {
			slog.Error("Failed to set up dashboard", "error", err)
			os.Exit(1)
		}
		servers = append(servers, &namedServer{
			name: "Dashboard server",
			server: &http.Server{
				Addr:              config.Dashboard.Addr(),
				Handler:           dashboardEngine,
				ReadHeaderTimeout: 10 * time.Second,
			},
		})
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, len(servers))
	for _, s := range servers {
		go func() {
			slog.Info("Starting "+s.name, "address", s.server.Addr)
			if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- fmt.Errorf("%s: %w", s.name, err)
			}
		}()
	}

	select {
	case sig := <-quit:
		slog.Info("Received shutdown signal", "signal", sig)
	case err := <-errChan:
		slog.Error("Server error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.server.Shutdown(ctx); err != nil {
				slog.Error(s.name+" shutdown error", "error", err)
			} else {
				slog.Info(s.name + " stopped")
			}
		}()
	}
	wg.Wait()
	slog.Info("Shutdown complete")
}

type namedServer struct {
	name   string
	server *http.Server
}

func newStatusEngine(services *internalhttp.Services) *gin.Engine {
	engine := gin.New()
	engine.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	engine.Use(gin.Recovery())
	internalhttp.SetupRoute(engine, services)
	return engine
}

func newDashboardEngine(services *internalhttp.Services, backendPort uint) (*gin.Engine, error) {
	engine := gin.New()
	engine.Use(gin.Recovery())
	if err := internalhttp.SetupDashboardRoute(engine, services, backendPort); err != nil {
		return nil, err
	}
	return engine, nil
}
