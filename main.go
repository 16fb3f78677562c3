package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"shortform/api"
	"shortform/broll"
	"shortform/common"
	"shortform/config"
	"shortform/pipeline"
	"shortform/providers/assets"
	"shortform/store"
	"shortform/taskqueue"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	ctx := context.Background()
	deps := pipeline.DefaultDeps()

	cfg := api.ServerConfig{Deps: deps}

	if client, err := store.NewClientFromEnv(); err != nil {
		log.Printf("redis unavailable, idempotency and credits disabled: %v", err)
	} else {
		cfg.Idempotency = store.NewIdempotency(client)
		cfg.Credits = store.NewCredits(client)
		jobs := store.NewJobs(client)
		cfg.Jobs = jobs

		if brokers := config.KafkaBrokers(); len(brokers) > 0 {
			if _, err := taskqueue.StartStatusConsumer(ctx, brokers, func(ctx context.Context, update *taskqueue.StatusUpdate) error {
				return jobs.UpdateStatus(ctx, update.JobID, update.Status, update.Progress, update.OutputPath, update.Error)
			}); err != nil {
				log.Printf("status consumer unavailable: %v", err)
			}
		}
	}

	if brokers := config.KafkaBrokers(); len(brokers) > 0 {
		archive, err := common.NewArtifactStoreFromEnv(ctx)
		if err != nil {
			log.Printf("artifact store unavailable: %v", err)
		}
		queue, err := taskqueue.New(brokers, archive)
		if err != nil {
			log.Printf("task queue unavailable, jobs will not be published: %v", err)
		} else {
			defer queue.Close()
			cfg.Queue = queue
		}
	} else {
		log.Println("KAFKA_BROKERS not set, task queue disabled")
	}

	cfg.Broll = broll.NewEngine(assets.WithFallback("auto"), broll.NewKeywordRanker())

	r := api.NewRouter(api.NewServer(cfg))
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  GET  /api/orchestrate")
	log.Println("  POST /api/orchestrate/text")
	log.Println("  POST /api/orchestrate/music")
	log.Println("  POST /api/orchestrate/audio")
	log.Println("  POST /api/orchestrate/long")
	log.Println("  POST /api/broll/match")
	log.Println("  GET  /api/jobs/:id")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
