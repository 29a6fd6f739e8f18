package cron

import (
	"context"
	"errors"
	"time"

	"masterbook/config"
	"masterbook/services/notification"
	"masterbook/services/tasks"
	"masterbook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitPushWorker runs the push delivery worker in background.
func InitPushWorker(sender notification.PushSender, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		utils.QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePushSend, handlePushTask(sender, logger))

	go monitorRedisConnection(logger)

	go func() {
		logger.Info("Starting push worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil || errors.Is(err, asynq.ErrServerClosed) {
				return
			}
			logger.Error("Push worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Push worker: max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handlePushTask(sender notification.PushSender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParsePushTask(task)
		if err != nil {
			logger.Error("Invalid push payload", zap.Error(err))
			// A malformed payload will never decode; retrying is pointless.
			return errors.Join(err, asynq.SkipRetry)
		}

		logger.Debug("Delivering push",
			zap.String("role", p.Role),
			zap.String("recipientId", p.RecipientID),
			zap.String("title", p.Title))

		err = sender.Send(ctx, p)
		if errors.Is(err, notification.ErrNoDevice) {
			logger.Info("Push dropped, recipient has no device",
				zap.String("role", p.Role),
				zap.String("recipientId", p.RecipientID))
			return nil
		}
		if err != nil {
			logger.Warn("Push delivery failed", zap.String("recipientId", p.RecipientID), zap.Error(err))
		}
		return err
	}
}

// monitorRedisConnection pings the queue Redis periodically to detect failures at runtime.
func monitorRedisConnection(logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("Queue Redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
