// Package api exposes the HTTP surface: per-mode orchestrate endpoints with
// idempotent submission, credit accounting, job tracking, and the b-roll
// matcher.
package api

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"shortform/broll"
	"shortform/pipeline"
	"shortform/store"
	"shortform/taskqueue"
)

// IdempotencyStore is the slice of the idempotency repository the handlers
// need.
type IdempotencyStore interface {
	Begin(ctx context.Context, key, requestHash string) (json.RawMessage, error)
	Complete(ctx context.Context, key, requestHash string, response json.RawMessage) error
	Fail(ctx context.Context, key, requestHash string) error
}

// CreditLedger debits and refunds render credits.
type CreditLedger interface {
	Debit(ctx context.Context, userID string, cost int) (int, error)
	Refund(ctx context.Context, userID string, amount int) error
}

// JobTracker records submitted jobs.
type JobTracker interface {
	Create(ctx context.Context, record store.JobRecord) error
	Get(ctx context.Context, jobID string) (*store.JobRecord, error)
}

var (
	_ IdempotencyStore = (*store.Idempotency)(nil)
	_ CreditLedger     = (*store.Credits)(nil)
	_ JobTracker       = (*store.Jobs)(nil)
)

// Server holds the handler dependencies. Store, ledger, tracker, and queue
// may be nil for local runs; the corresponding steps are skipped.
type Server struct {
	deps        pipeline.Deps
	idempotency IdempotencyStore
	credits     CreditLedger
	jobs        JobTracker
	queue       taskqueue.Submitter
	broll       *broll.Engine
}

// ServerConfig wires the server.
type ServerConfig struct {
	Deps        pipeline.Deps
	Idempotency IdempotencyStore
	Credits     CreditLedger
	Jobs        JobTracker
	Queue       taskqueue.Submitter
	Broll       *broll.Engine
}

// NewServer creates the server.
func NewServer(cfg ServerConfig) *Server {
	return &Server{
		deps:        cfg.Deps,
		idempotency: cfg.Idempotency,
		credits:     cfg.Credits,
		jobs:        cfg.Jobs,
		queue:       cfg.Queue,
		broll:       cfg.Broll,
	}
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	s.RegisterOrchestrateRoutes(r)
	s.RegisterBrollRoutes(r)
	s.RegisterJobRoutes(r)
	RegisterHealthRoutes(r)
	return r
}
