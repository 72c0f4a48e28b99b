package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mfigueira/aventuria/pkg/queue"
)

const turnJobsKey = "turn-jobs"

// TurnQueue is the global FIFO of asynchronous turn jobs. The API
// produces; the worker consumes.
type TurnQueue struct {
	client *Client
}

// NewTurnQueue creates a turn queue on a client.
func NewTurnQueue(client *Client) *TurnQueue {
	return &TurnQueue{client: client}
}

// Enqueue appends a job to the queue.
func (q *TurnQueue) Enqueue(ctx context.Context, job *queue.TurnJob) error {
	data, err := job.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize turn job: %w", err)
	}
	if err := q.client.rdb.RPush(ctx, turnJobsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue turn job: %w", err)
	}
	q.client.logger.Debug("turn job enqueued",
		"job_id", job.JobID, "type", string(job.Type), "session_id", job.SessionID.String())
	return nil
}

// Dequeue blocks up to timeout for the next job. Returns nil when the
// queue stays empty for the whole window.
func (q *TurnQueue) Dequeue(ctx context.Context, timeout time.Duration) (*queue.TurnJob, error) {
	result, err := q.client.rdb.BLPop(ctx, timeout, turnJobsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue turn job: %w", err)
	}
	// BLPop returns [key, value].
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPOP reply of %d elements", len(result))
	}
	job, err := queue.FromJSON([]byte(result[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse turn job: %w", err)
	}
	return job, nil
}

// Depth reports how many jobs are waiting.
func (q *TurnQueue) Depth(ctx context.Context) (int, error) {
	n, err := q.client.rdb.LLen(ctx, turnJobsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(n), nil
}
