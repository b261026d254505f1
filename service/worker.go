package service

import (
	"context"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// JobHandler runs one job. Handlers must be safe to re-run because the
// queue delivers at least once.
type JobHandler func(ctx context.Context, j *Job) error

const dequeueTimeout = 5 * time.Second

// WorkerPool consumes one queue with a fixed number of goroutines
type WorkerPool struct {
	Queue      *Queue
	Handler    JobHandler
	Workers    int
	JobTimeout time.Duration
}

func NewWorkerPool(q *Queue, h JobHandler) *WorkerPool {
	workers := viper.GetInt("queue.workers")
	if workers <= 0 {
		workers = 4
	}

	timeout := viper.GetDuration("queue.job_timeout")
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &WorkerPool{
		Queue:      q,
		Handler:    h,
		Workers:    workers,
		JobTimeout: timeout,
	}
}

// Start spins up the workers. They run until ctx is cancelled.
func (p *WorkerPool) Start(ctx context.Context) {
	zap.L().Info("Starting worker pool",
		zap.String("queue", p.Queue.Name),
		zap.Int("workers", p.Workers))

	for range p.Workers {
		go p.run(ctx)
	}
}

func (p *WorkerPool) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		job, raw, err := p.Queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			zap.L().Error("Failed to dequeue job",
				zap.String("queue", p.Queue.Name),
				zap.Error(err))
			continue
		}

		if job == nil {
			continue
		}

		if err := p.handle(ctx, job); err != nil {
			if err := p.Queue.Nack(ctx, raw, job, err); err != nil {
				zap.L().Error("Failed to nack job", zap.Error(err))
			}
			continue
		}

		if err := p.Queue.Ack(ctx, raw); err != nil {
			zap.L().Error("Failed to ack job", zap.Error(err))
		}
	}
}

func (p *WorkerPool) handle(ctx context.Context, job *Job) error {
	jctx, cancel := context.WithTimeout(ctx, p.JobTimeout)
	defer cancel()

	return p.Handler(jctx, job)
}
