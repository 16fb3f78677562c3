package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shortform/providers/timestamps"
)

// RegisterBrollRoutes registers the b-roll matching endpoint.
func (s *Server) RegisterBrollRoutes(r *gin.Engine) {
	r.POST("/api/broll/match", s.handleBrollMatch)
}

// BrollMatchRequest carries a timed transcript to match footage against.
type BrollMatchRequest struct {
	Transcript         []timestamps.Segment `json:"transcript" binding:"required"`
	MinSegmentDuration float64              `json:"min_segment_duration,omitempty"`
	MaxClipsPerSegment int                  `json:"max_clips_per_segment,omitempty"`
}

func (s *Server) handleBrollMatch(c *gin.Context) {
	if s.broll == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "b-roll engine not configured"})
		return
	}

	var req BrollMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Transcript) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transcript is required"})
		return
	}

	minDuration := req.MinSegmentDuration
	if minDuration <= 0 {
		minDuration = 3.0
	}
	maxClips := req.MaxClipsPerSegment
	if maxClips <= 0 {
		maxClips = 1
	}

	comp := s.broll.ProcessTranscript(c.Request.Context(), req.Transcript, minDuration, maxClips)
	c.JSON(http.StatusOK, gin.H{
		"segments_count": len(comp.Segments),
		"clips_count":    len(comp.Clips),
		"coverage":       comp.Coverage,
		"total_duration": comp.TotalDuration,
		"clips":          comp.Clips,
	})
}
