package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"shortform/orchestrator"
	"shortform/store"
)

// RegisterOrchestrateRoutes registers the per-mode generation endpoints.
func (s *Server) RegisterOrchestrateRoutes(r *gin.Engine) {
	g := r.Group("/api/orchestrate")
	g.GET("", handleListModes)
	g.POST("/text", s.handleOrchestrateText)
	g.POST("/music", s.handleOrchestrateMusic)
	g.POST("/audio", s.handleOrchestrateAudio)
	g.POST("/long", s.handleOrchestrateLong)
}

// handleListModes lists the available generation modes.
func handleListModes(c *gin.Context) {
	modes := []orchestrator.Mode{
		orchestrator.ModeText,
		orchestrator.ModeMusic,
		orchestrator.ModeAudio,
		orchestrator.ModeLong,
	}
	out := make([]gin.H, 0, len(modes))
	for _, m := range modes {
		out = append(out, gin.H{"mode": m, "display_name": m.DisplayName()})
	}
	c.JSON(http.StatusOK, gin.H{"modes": out})
}

func (s *Server) handleOrchestrateText(c *gin.Context) {
	var req orchestrator.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.orchestrate(c, req, func(ctx context.Context) (*orchestrator.Result, error) {
		return orchestrator.NewText(s.deps).BuildRenderJob(ctx, req)
	})
}

func (s *Server) handleOrchestrateMusic(c *gin.Context) {
	var req orchestrator.MusicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.orchestrate(c, req, func(ctx context.Context) (*orchestrator.Result, error) {
		return orchestrator.NewMusic(s.deps).BuildRenderJob(ctx, req)
	})
}

func (s *Server) handleOrchestrateAudio(c *gin.Context) {
	var req orchestrator.AudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.orchestrate(c, req, func(ctx context.Context) (*orchestrator.Result, error) {
		return orchestrator.NewAudio(s.deps).BuildRenderJob(ctx, req)
	})
}

func (s *Server) handleOrchestrateLong(c *gin.Context) {
	var req orchestrator.LongVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.orchestrate(c, req, func(ctx context.Context) (*orchestrator.Result, error) {
		return orchestrator.NewLongVideo(s.deps).BuildRenderJob(ctx, req)
	})
}

// orchestrate runs the shared submission flow: claim the idempotency key,
// build the render job, deduct credits, publish to the queue, track the
// jobs, and store the response for replay.
func (s *Server) orchestrate(c *gin.Context, reqBody any, build func(ctx context.Context) (*orchestrator.Result, error)) {
	ctx := c.Request.Context()

	idemKey := c.GetHeader("Idempotency-Key")
	if idemKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Idempotency-Key header is required"})
		return
	}
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		userID = "anonymous"
	}

	requestHash, err := store.HashRequest(reqBody)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if s.idempotency != nil {
		stored, err := s.idempotency.Begin(ctx, idemKey, requestHash)
		switch {
		case errors.Is(err, store.ErrKeyReused):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "idempotency key reused with a different request"})
			return
		case errors.Is(err, store.ErrInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "request already in flight"})
			return
		case err != nil:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "idempotency store unavailable"})
			return
		case stored != nil:
			c.Data(http.StatusAccepted, "application/json", stored)
			return
		}
	}

	result, err := build(ctx)
	if err != nil {
		s.abandon(ctx, idemKey, requestHash)
		if errors.Is(err, orchestrator.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("orchestration failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare render job"})
		return
	}

	cost := result.EstimatedCostCredits
	if s.credits != nil && cost > 0 {
		if _, err := s.credits.Debit(ctx, userID, cost); err != nil {
			s.abandon(ctx, idemKey, requestHash)
			if errors.Is(err, store.ErrInsufficientCredits) {
				c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient credits"})
				return
			}
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "credit ledger unavailable"})
			return
		}
	}

	if s.queue != nil {
		if err := s.queue.SubmitAll(ctx, result.Jobs); err != nil {
			log.Printf("queue submission failed: %v", err)
			if s.credits != nil && cost > 0 {
				if rerr := s.credits.Refund(ctx, userID, cost); rerr != nil {
					log.Printf("credit refund failed for %s: %v", userID, rerr)
				}
			}
			s.abandon(ctx, idemKey, requestHash)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to queue render job"})
			return
		}
	}

	if s.jobs != nil {
		for _, job := range result.Jobs {
			record := store.JobRecord{
				JobID:    job.JobID,
				Mode:     string(result.Mode),
				UserID:   userID,
				Status:   "queued",
				Metadata: result.Metadata,
			}
			if err := s.jobs.Create(ctx, record); err != nil {
				log.Printf("job tracking failed for %s: %v", job.JobID, err)
			}
		}
	}

	response := gin.H{
		"mode":                       result.Mode,
		"status":                     "queued",
		"estimated_duration_seconds": result.EstimatedDurationSeconds,
		"estimated_cost_credits":     result.EstimatedCostCredits,
		"metadata":                   result.Metadata,
	}
	if len(result.Jobs) == 1 {
		response["job_id"] = result.Jobs[0].JobID
	} else {
		ids := make([]string, 0, len(result.Jobs))
		for _, job := range result.Jobs {
			ids = append(ids, job.JobID)
		}
		response["job_ids"] = ids
	}

	if s.idempotency != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.idempotency.Complete(ctx, idemKey, requestHash, payload); err != nil {
				log.Printf("idempotency completion failed: %v", err)
			}
		}
	}

	c.JSON(http.StatusCreated, response)
}

// abandon releases the idempotency claim so the client may retry.
func (s *Server) abandon(ctx context.Context, key, requestHash string) {
	if s.idempotency == nil {
		return
	}
	if err := s.idempotency.Fail(ctx, key, requestHash); err != nil {
		log.Printf("idempotency release failed: %v", err)
	}
}
