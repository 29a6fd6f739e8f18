package notification

import (
	"context"

	"masterbook/models"
	"masterbook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// enqueuer is the part of the asynq client we use.
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueDispatcher hands notifications to the background worker. Failures
// are logged and never reach the caller.
type QueueDispatcher struct {
	queue  enqueuer
	logger *zap.Logger
}

func NewQueueDispatcher(client *asynq.Client, logger *zap.Logger) *QueueDispatcher {
	return &QueueDispatcher{queue: client, logger: logger}
}

func (d *QueueDispatcher) NotifyMaster(ctx context.Context, masterID, title, body string, data map[string]string) {
	d.dispatch(ctx, models.PushPayload{RecipientID: masterID, Role: models.RoleMaster, Title: title, Body: body, Data: data})
}

func (d *QueueDispatcher) NotifyClient(ctx context.Context, clientID, title, body string, data map[string]string) {
	d.dispatch(ctx, models.PushPayload{RecipientID: clientID, Role: models.RoleClient, Title: title, Body: body, Data: data})
}

func (d *QueueDispatcher) dispatch(ctx context.Context, p models.PushPayload) {
	task, opts, err := tasks.NewPushTask(p)
	if err != nil {
		d.logger.Warn("Failed to build push task", zap.String("recipientId", p.RecipientID), zap.Error(err))
		return
	}
	// The request may end before the queue answers.
	if _, err := d.queue.EnqueueContext(context.WithoutCancel(ctx), task, opts...); err != nil {
		d.logger.Warn("Failed to enqueue push",
			zap.String("recipientId", p.RecipientID),
			zap.String("role", p.Role),
			zap.Error(err))
	}
}
