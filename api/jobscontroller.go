package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterJobRoutes registers job status lookup.
func (s *Server) RegisterJobRoutes(r *gin.Engine) {
	r.GET("/api/jobs/:id", s.handleGetJob)
}

func (s *Server) handleGetJob(c *gin.Context) {
	if s.jobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "job tracker not configured"})
		return
	}

	record, err := s.jobs.Get(c.Request.Context(), c.Param("id"))
	if err == redis.Nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "job tracker unavailable"})
		return
	}
	c.JSON(http.StatusOK, record)
}
