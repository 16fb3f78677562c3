// Package taskqueue publishes prepared render jobs to the render executor
// and consumes its status reports.
package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"shortform/common"
	"shortform/config"
	"shortform/pipeline"
	"shortform/shared/kafka"
)

// Submitter is the queue surface the HTTP layer depends on.
type Submitter interface {
	Submit(ctx context.Context, job pipeline.RenderJob) error
	SubmitAll(ctx context.Context, jobs []pipeline.RenderJob) error
}

var _ Submitter = (*Queue)(nil)

// Queue publishes render jobs. When an artifact store is attached, every
// published payload is also archived to S3 for replay and audit.
type Queue struct {
	producer *kafka.Producer
	archive  *common.ArtifactStore
	topic    string
}

// New creates a queue over the given brokers. archive may be nil.
func New(brokers []string, archive *common.ArtifactStore) (*Queue, error) {
	producer, err := kafka.NewProducer(brokers)
	if err != nil {
		return nil, fmt.Errorf("connect task queue: %w", err)
	}
	return &Queue{producer: producer, archive: archive, topic: config.RenderJobsTopic}, nil
}

// Submit publishes one render job keyed by its job ID.
func (q *Queue) Submit(ctx context.Context, job pipeline.RenderJob) error {
	partition, offset, err := q.producer.SendJSON(q.topic, job.JobID, job)
	if err != nil {
		return fmt.Errorf("publish render job %s: %w", job.JobID, err)
	}
	log.Printf("render job %s queued (partition=%d, offset=%d)", job.JobID, partition, offset)

	if q.archive != nil {
		payload, err := json.Marshal(job)
		if err != nil {
			log.Printf("encode render job %s for archive: %v", job.JobID, err)
			return nil
		}
		key := "jobs/" + job.JobID + ".json"
		if err := q.archive.PutJSON(ctx, key, payload); err != nil {
			log.Printf("archive render job %s: %v", job.JobID, err)
		}
	}
	return nil
}

// SubmitAll publishes a batch of jobs, stopping at the first failure.
func (q *Queue) SubmitAll(ctx context.Context, jobs []pipeline.RenderJob) error {
	for _, job := range jobs {
		if err := q.Submit(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// Close shuts down the producer.
func (q *Queue) Close() error {
	return q.producer.Close()
}
