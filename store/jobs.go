package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// JobRecord tracks one submitted render job across its lifecycle.
type JobRecord struct {
	JobID      string         `json:"job_id"`
	Mode       string         `json:"mode"`
	UserID     string         `json:"user_id,omitempty"`
	Status     string         `json:"status"`
	Progress   float64        `json:"progress,omitempty"`
	OutputPath string         `json:"output_path,omitempty"`
	Error      string         `json:"error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Jobs persists job records keyed by job ID.
type Jobs struct {
	client *redis.Client
	ttl    time.Duration
}

// NewJobs creates the tracker. Records are kept for seven days.
func NewJobs(client *redis.Client) *Jobs {
	return &Jobs{client: client, ttl: 7 * 24 * time.Hour}
}

func jobKey(jobID string) string {
	return "job:" + jobID
}

// Create stores a fresh record in queued state.
func (j *Jobs) Create(ctx context.Context, record JobRecord) error {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	if record.Status == "" {
		record.Status = "queued"
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return j.client.Set(ctx, jobKey(record.JobID), payload, j.ttl).Err()
}

// Get returns the record, or redis.Nil via the wrapped error when unknown.
func (j *Jobs) Get(ctx context.Context, jobID string) (*JobRecord, error) {
	raw, err := j.client.Get(ctx, jobKey(jobID)).Bytes()
	if err != nil {
		return nil, err
	}
	var record JobRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateStatus applies a render executor status report to the record.
// Unknown job IDs are ignored.
func (j *Jobs) UpdateStatus(ctx context.Context, jobID, status string, progress float64, outputPath, errMsg string) error {
	record, err := j.Get(ctx, jobID)
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	record.Status = status
	if progress > 0 {
		record.Progress = progress
	}
	if outputPath != "" {
		record.OutputPath = outputPath
	}
	if errMsg != "" {
		record.Error = errMsg
	}
	record.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return j.client.Set(ctx, jobKey(jobID), payload, j.ttl).Err()
}
