// file: internal/server/server.go
// version: 1.0.0
// guid: 4f5a6b7c-8d9e-0f1a-2b3c-4d5e6f7a8b9c

// Package server exposes the local status listener: health check,
// Prometheus metrics, and a JSON snapshot of active tasks.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdfalk/streamrip-bot/internal/metrics"
	"github.com/jdfalk/streamrip-bot/internal/store"
	"github.com/jdfalk/streamrip-bot/internal/task"
)

// HistoryLister reads completed-download history. Implemented by the pebble
// store; nil disables the history endpoint.
type HistoryLister interface {
	ListDownloads(limit int) ([]store.DownloadRecord, error)
}

// Server is the optional HTTP status listener.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	tasks      *task.Registry
	history    HistoryLister
}

// New builds the listener around a task registry. history may be nil.
func New(tasks *task.Registry, history HistoryLister) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// Register metrics (idempotent)
	metrics.Register()

	s := &Server{
		router:  router,
		tasks:   tasks,
		history: history,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.health)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/api/tasks", s.listTasks)
	s.router.GET("/api/history", s.listHistory)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// taskView is the JSON shape of one active task.
type taskView struct {
	GID       string `json:"gid"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Platform  string `json:"platform"`
	MediaType string `json:"media_type"`
	Quality   int    `json:"quality"`
	Codec     string `json:"codec"`
	Status    string `json:"status"`
	Leech     bool   `json:"leech"`
	ElapsedS  int    `json:"elapsed_seconds"`
}

func (s *Server) listTasks(c *gin.Context) {
	all := s.tasks.All()
	views := make([]taskView, 0, len(all))
	for _, t := range all {
		views = append(views, taskView{
			GID:       t.GID,
			UserID:    t.UserID,
			Name:      t.Name(),
			Platform:  t.Platform,
			MediaType: t.MediaType,
			Quality:   t.Quality,
			Codec:     t.Codec,
			Status:    t.Status(),
			Leech:     t.Leech,
			ElapsedS:  int(t.Elapsed().Seconds()),
		})
	}
	c.JSON(http.StatusOK, gin.H{"tasks": views, "count": len(views)})
}

// historyLimit caps one /api/history response.
const historyLimit = 100

func (s *Server) listHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusOK, gin.H{"downloads": []store.DownloadRecord{}, "count": 0})
		return
	}
	records, err := s.history.ListDownloads(historyLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []store.DownloadRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"downloads": records, "count": len(records)})
}

// Start serves on addr until Shutdown. It runs the listener in a goroutine
// and returns immediately.
func (s *Server) Start(addr string) {
	s.httpServer = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Status server error: %v", err)
		}
	}()
	log.Printf("Status server listening on %s", addr)
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
