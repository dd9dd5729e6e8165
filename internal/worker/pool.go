package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	QueueEmail = "jobs:email"

	JobSaleReceipt   = "sale_receipt"
	JobLowStockAlert = "low_stock_alert"

	// MaxRetries is how many times a failed job is re-queued before it
	// lands in the dead letter queue.
	MaxRetries = 3

	popTimeout = 5 * time.Second
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts,omitempty"`
}

// HandlerFunc processes one job payload. Returning an error wrapped with
// Permanent skips the remaining retries.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Handlers maps job types to their processors.
type Handlers map[string]HandlerFunc

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error { return permanentError{err: err} }

func isPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

// listPusher is the slice of the Redis client used to enqueue.
type listPusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb listPusher
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueSaleReceipt queues the receipt email for a recorded sale.
func (d *Dispatcher) EnqueueSaleReceipt(ctx context.Context, saleID uuid.UUID, email string) error {
	return d.enqueue(ctx, QueueEmail, JobSaleReceipt, SaleReceiptPayload{SaleID: saleID.String(), Email: email})
}

// EnqueueLowStockAlert queues one alert email listing the given products.
func (d *Dispatcher) EnqueueLowStockAlert(ctx context.Context, payload LowStockAlertPayload) error {
	return d.enqueue(ctx, QueueEmail, JobLowStockAlert, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return pushJob(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func pushJob(ctx context.Context, rdb listPusher, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers Handlers
	size     int
}

func NewPool(rdb *redis.Client, handlers Handlers, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{rdb: rdb, handlers: handlers, size: size}
}

// Run blocks until ctx is cancelled and every worker has returned.
// Each goroutine blocks on BRPOP.
func (p *Pool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.size; i++ {
		id := i
		g.Go(func() error {
			p.runWorker(ctx, id)
			return nil
		})
	}
	log.Info().Msgf("worker pool started with %d workers", p.size)
	return g.Wait()
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, popTimeout, QueueEmail).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("worker: brpop failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, p.rdb, p.handlers, result[0], result[1])
		}
	}
}

// processJob runs the handler for one raw job. Failures are re-queued
// until MaxRetries is reached, then moved to the dead letter queue.
func processJob(ctx context.Context, rdb listPusher, handlers Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		SendToDLQ(ctx, rdb, queue, "unknown", quoted, "malformed job: "+err.Error(), 0)
		return
	}

	handle, ok := handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, "no handler for job type", job.Attempts)
		return
	}

	err := handle(ctx, job.Payload)
	if err == nil {
		log.Debug().Str("type", job.Type).Str("queue", queue).Msg("job processed")
		return
	}

	job.Attempts++
	if isPermanent(err) || job.Attempts > MaxRetries {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}

	log.Warn().Err(err).
		Str("type", job.Type).
		Int("attempt", job.Attempts).
		Msg("job failed, re-queued")
	if err := pushJob(ctx, rdb, queue, job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to re-queue job")
	}
}
