package web

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"task-list/internal/logging"
	"task-list/internal/notify"
	"task-list/internal/services"
)

// Server exposes the task service as a JSON API
type Server struct {
	service *services.TaskService
	feed    *notify.Feed
	router  *gin.Engine
}

// NewServer creates a new web server. feed must be the notifier the service
// was built with. Each API response carries the notices its own request
// raised; feed collects every notice, including those of deferred adds, for
// GET /api/notices.
func NewServer(service *services.TaskService, feed *notify.Feed) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	if logging.DebugEnabled() {
		router.Use(gin.Logger())
	}

	s := &Server{
		service: service,
		feed:    feed,
		router:  router,
	}

	api := router.Group("/api")
	api.Use(scopeNotices)
	{
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleAddTask)
		api.DELETE("/tasks", s.handleClearTasks)
		api.DELETE("/tasks/:name", s.handleDeleteTask)

		api.POST("/views", s.handleOpenView)
		api.GET("/views/:id", s.handleGetView)
		api.DELETE("/views/:id", s.handleCloseView)
		api.PUT("/views/:id/rows/:index", s.handleToggleRow)
		api.POST("/views/:id/save", s.handleSaveView)

		api.GET("/notices", s.handleNotices)
	}

	return s
}

const noticesKey = "notices"

// scopeNotices gives each request its own feed and routes the notices the
// service raises for that request into it.
func scopeNotices(c *gin.Context) {
	feed := notify.NewFeed(0)
	c.Set(noticesKey, feed)
	c.Request = c.Request.WithContext(notify.NewContext(c.Request.Context(), feed))
	c.Next()
}

// requestNotices drains the notices raised by the current request
func requestNotices(c *gin.Context) []notify.Notice {
	if v, ok := c.Get(noticesKey); ok {
		if feed, ok := v.(*notify.Feed); ok {
			return feed.Drain()
		}
	}
	return []notify.Notice{}
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Debugf("web: listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
