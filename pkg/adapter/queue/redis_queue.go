package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gitlab.apk-group.net/siem/backend/project-analyzer/config"
	jobDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
	jobPort "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/port"
)

// dequeueBlock keeps BRPOP short so worker shutdown stays responsive.
const dequeueBlock = 2 * time.Second

// redisTaskQueue is a single-list task queue over Redis. LPUSH on submit,
// BRPOP in the workers. Redis list semantics make delivery at-least-once;
// the consumer is expected to tolerate redelivery.
type redisTaskQueue struct {
	client   *redis.Client
	queueKey string
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})
}

func NewRedisTaskQueue(client *redis.Client, queueKey string) jobPort.TaskQueue {
	if queueKey == "" {
		queueKey = "project_analyzer:jobs"
	}
	return &redisTaskQueue{
		client:   client,
		queueKey: queueKey,
	}
}

func (q *redisTaskQueue) Enqueue(ctx context.Context, jobID jobDomain.JobUUID) error {
	if err := q.client.LPush(ctx, q.queueKey, jobID.String()).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job %s: %w", jobID.String(), err)
	}
	return nil
}

func (q *redisTaskQueue) Dequeue(ctx context.Context) (*jobDomain.JobUUID, error) {
	values, err := q.client.BRPop(ctx, dequeueBlock, q.queueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	// BRPOP returns [key, value].
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of length %d", len(values))
	}

	jobID, err := jobDomain.JobUUIDFromString(values[1])
	if err != nil {
		return nil, fmt.Errorf("queue held a malformed job ID %q: %w", values[1], err)
	}

	return &jobID, nil
}
