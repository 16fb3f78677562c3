package taskqueue

import (
	"context"

	"shortform/config"
	"shortform/shared/kafka"
)

// StatusUpdate is the render executor's progress report.
type StatusUpdate struct {
	JobID      string  `json:"job_id"`
	Status     string  `json:"status"`
	Progress   float64 `json:"progress,omitempty"`
	OutputPath string  `json:"output_path,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Render executor status values.
const (
	StatusQueued    = "queued"
	StatusRendering = "rendering"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// StartStatusConsumer subscribes to the render status topic and invokes
// process for each valid update. It returns once the group session is up.
func StartStatusConsumer(ctx context.Context, brokers []string, process func(ctx context.Context, update *StatusUpdate) error) (*kafka.Consumer, error) {
	handler := &kafka.TypedMessageHandler[StatusUpdate]{
		Validate: func(msg *StatusUpdate) bool {
			return msg.JobID != "" && msg.Status != ""
		},
		Process:    process,
		AlwaysMark: true,
	}

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: brokers,
		Topic:   config.RenderStatusTopic,
		GroupID: config.RenderStatusGroup,
		Handler: handler,
	})
	if err != nil {
		return nil, err
	}
	if err := consumer.Start(ctx); err != nil {
		consumer.Close()
		return nil, err
	}
	return consumer, nil
}
