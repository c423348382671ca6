// Package server exposes the host bridge over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeebo/errs/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"loov.dev/recordview/host"
	"loov.dev/recordview/render"
	"loov.dev/recordview/trace"
)

var Error = errs.Tag("server")

// Server keeps the most recent render result and forwards selections
// made against it to the hub.
type Server struct {
	log *slog.Logger
	hub *host.Hub

	mu      sync.RWMutex
	current *render.Result
}

func New(log *slog.Logger, hub *host.Hub) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{log: log, hub: hub}
}

// Handler returns the routes of the bridge. Unless the logger is at debug
// level, gin's debug mode is turned off.
func (server *Server) Handler() http.Handler {
	if gin.Mode() == gin.DebugMode && !server.log.Enabled(context.Background(), slog.LevelDebug) {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.POST("/render", server.handleRender)
	api.GET("/current", server.handleCurrent)
	api.POST("/select", server.handleSelect)
	api.GET("/selection", gin.WrapH(server.hub))

	return router
}

// Publish renders tr and makes it the current result.
func (server *Server) Publish(ctx context.Context, source string, tr trace.Trace) *render.Result {
	ctx, span := tracer.Start(ctx, "render")
	defer span.End()

	started := time.Now()
	result := render.Render(tr)
	renderDuration.Observe(time.Since(started).Seconds())

	rendersTotal.WithLabelValues(source).Inc()
	renderInvocations.Observe(float64(len(tr.Invocations)))
	prunedNodes.Add(float64(result.Pruned()))

	span.SetAttributes(
		attribute.String("app", tr.App),
		attribute.String("source", source),
		attribute.Int("invocations", len(tr.Invocations)),
		attribute.Int("nodes", result.Tree.Len()),
		attribute.Int("pruned", result.Pruned()),
	)

	server.mu.Lock()
	server.current = result
	server.mu.Unlock()

	server.log.InfoContext(ctx, "rendered input",
		"source", source,
		"app", tr.App,
		"invocations", len(tr.Invocations),
		"nodes", result.Tree.Len(),
		"pruned", result.Pruned())
	return result
}

// LoadFile renders the file at path.
func (server *Server) LoadFile(ctx context.Context, path string, format render.Format, app string) error {
	f, err := os.Open(path)
	if err != nil {
		renderFailures.WithLabelValues("file").Inc()
		return Error.Wrap(err)
	}
	defer func() { _ = f.Close() }()

	tr, err := render.Load(f, format, app)
	if err != nil {
		renderFailures.WithLabelValues("file").Inc()
		return Error.Wrap(err)
	}
	server.Publish(ctx, "file", tr)
	return nil
}

func (server *Server) Current() *render.Result {
	server.mu.RLock()
	defer server.mu.RUnlock()
	return server.current
}

// Run serves on addr until ctx is canceled.
func (server *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		server.log.Info("listening", "addr", addr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return Error.Wrap(err)
	case <-ctx.Done():
		server.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return Error.Wrap(httpServer.Shutdown(shutdownCtx))
	}
}

func (server *Server) handleRender(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "api.render")
	defer span.End()

	args, err := host.DecodeArgs(c.Request.Body)
	if err == nil {
		var tr trace.Trace
		tr, err = args.Trace()
		if err == nil {
			c.JSON(http.StatusOK, server.Publish(ctx, "http", tr))
			return
		}
	}

	renderFailures.WithLabelValues("http").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, "invalid input")
	server.log.WarnContext(ctx, "invalid render request", "error", err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (server *Server) handleCurrent(c *gin.Context) {
	result := server.Current()
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "nothing rendered yet"})
		return
	}
	c.JSON(http.StatusOK, result)
}

type selectRequest struct {
	NodeID trace.NodeID `json:"node_id" binding:"required"`
}

func (server *Server) handleSelect(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := server.Current()
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "nothing rendered yet"})
		return
	}

	node, ok := result.Index[req.NodeID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown node"})
		return
	}

	value := host.Select(node, server.hub)
	selectionsTotal.Inc()
	server.log.DebugContext(c.Request.Context(), "selected", "node", string(req.NodeID), "timestamp", value)
	c.JSON(http.StatusAccepted, gin.H{"timestamp": value, "selector": trace.Selector(node)})
}
