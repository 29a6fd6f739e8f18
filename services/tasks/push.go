package tasks

import (
	"encoding/json"
	"time"

	"masterbook/models"

	"github.com/hibiken/asynq"
)

const TypePushSend = "push:send"

// NewPushTask builds a push delivery task. Delivery is retried a few times
// and dropped after a day.
func NewPushTask(payload models.PushPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePushSend, b)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Retention(24 * time.Hour),
		asynq.Timeout(30 * time.Second),
	}
	return task, opts, nil
}

// ParsePushTask decodes the payload of a push task.
func ParsePushTask(task *asynq.Task) (models.PushPayload, error) {
	var p models.PushPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
