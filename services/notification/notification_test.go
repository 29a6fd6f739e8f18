package notification

import (
	"context"
	"errors"
	"testing"

	"masterbook/models"
	"masterbook/services/tasks"

	"firebase.google.com/go/v4/messaging"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type stubDevices map[string]string

func (s stubDevices) Upsert(context.Context, *models.Device) error { return nil }
func (s stubDevices) GetToken(_ context.Context, ownerID, role string) (string, error) {
	return s[role+":"+ownerID], nil
}
func (s stubDevices) EnsureIndexes() error { return nil }

type recordingFCM struct {
	sent []*messaging.Message
	err  error
}

func (r *recordingFCM) Send(_ context.Context, m *messaging.Message) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.sent = append(r.sent, m)
	return "msg-1", nil
}

func TestFCMSenderSend(t *testing.T) {
	fcm := &recordingFCM{}
	sender := &FCMSender{Devices: stubDevices{"master:m-1": "token-1"}, Client: fcm}

	err := sender.Send(context.Background(), models.PushPayload{
		RecipientID: "m-1",
		Role:        models.RoleMaster,
		Title:       "New order",
		Body:        "body",
		Data:        map[string]string{"orderId": "o-1"},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(fcm.sent) != 1 {
		t.Fatalf("sent %d messages", len(fcm.sent))
	}
	msg := fcm.sent[0]
	if msg.Token != "token-1" || msg.Data["role"] != models.RoleMaster || msg.Data["orderId"] != "o-1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestFCMSenderWithoutDevice(t *testing.T) {
	sender := &FCMSender{Devices: stubDevices{}, Client: &recordingFCM{}}
	err := sender.Send(context.Background(), models.PushPayload{RecipientID: "c-1", Role: models.RoleClient})
	if !errors.Is(err, ErrNoDevice) {
		t.Fatalf("err = %v, want ErrNoDevice", err)
	}
}

type recordingQueue struct {
	tasks []*asynq.Task
	err   error
}

func (q *recordingQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func TestQueueDispatcherEnqueues(t *testing.T) {
	q := &recordingQueue{}
	d := &QueueDispatcher{queue: q, logger: zap.NewNop()}

	d.NotifyClient(context.Background(), "c-1", "Order cancelled", "body", nil)

	if len(q.tasks) != 1 {
		t.Fatalf("enqueued %d tasks", len(q.tasks))
	}
	p, err := tasks.ParsePushTask(q.tasks[0])
	if err != nil {
		t.Fatalf("ParsePushTask: %v", err)
	}
	if p.RecipientID != "c-1" || p.Role != models.RoleClient {
		t.Fatalf("payload = %+v", p)
	}
}

func TestQueueDispatcherSwallowsErrors(t *testing.T) {
	d := &QueueDispatcher{queue: &recordingQueue{err: errors.New("redis down")}, logger: zap.NewNop()}
	// Must not panic or block.
	d.NotifyMaster(context.Background(), "m-1", "t", "b", nil)
}
