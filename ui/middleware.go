package ui

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())

	static, err := staticFS()
	if err != nil {
		s.logger.Error("[setupMiddleware] Error creating static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(static))
}

// requestLogger logs one line per request through the application logger
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		logf := s.logger.Info
		if status >= http.StatusInternalServerError {
			logf = s.logger.Error
		} else if path := c.Request.URL.Path; path == "/healthz" || strings.HasPrefix(path, "/static/") {
			logf = s.logger.Trace
		}
		logf("[HTTP] %s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, time.Since(start).Round(time.Microsecond))
	}
}
