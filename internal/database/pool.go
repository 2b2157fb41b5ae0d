// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package database

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/tomtom215/playerstats/internal/logging"
	"github.com/tomtom215/playerstats/internal/metrics"
)

// PoolConfig sizes a Pool.
type PoolConfig struct {
	Workers   int
	QueueSize int

	// NonCriticalRate limits non-critical dispatches per second; 0 disables the limit.
	NonCriticalRate float64
}

type job struct {
	db       *sqlDatabase
	tx       *Transaction
	priority Priority
	handle   *Handle
}

// Pool executes submitted transactions on a fixed set of workers. Critical
// transactions are always dispatched before waiting non-critical ones.
//
// Pool implements suture.Service; workers run while Serve runs. Transactions
// execute on the Serve context, not on the submitter's.
type Pool struct {
	workers     int
	critical    chan *job
	nonCritical chan *job
	limiter     *rate.Limiter

	stopped  atomic.Bool
	stopOnce sync.Once
}

// NewPool creates a pool. It does nothing until Serve is called.
func NewPool(cfg PoolConfig) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	queue := cfg.QueueSize
	if queue <= 0 {
		queue = 1024
	}
	p := &Pool{
		workers:     workers,
		critical:    make(chan *job, queue),
		nonCritical: make(chan *job, queue),
	}
	if cfg.NonCriticalRate > 0 {
		burst := int(cfg.NonCriticalRate)
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(cfg.NonCriticalRate), burst)
	}
	return p
}

// String implements fmt.Stringer for suture logging.
func (p *Pool) String() string {
	return "transaction-pool"
}

// Serve runs the workers until ctx is canceled.
func (p *Pool) Serve(ctx context.Context) error {
	logging.Info().Int("workers", p.workers).Msg("Transaction pool started")

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.work(ctx)
		}()
	}
	wg.Wait()

	logging.Info().Msg("Transaction pool stopped")
	return ctx.Err()
}

// Stop rejects further submissions and fails every queued transaction with
// ErrPoolStopped. Call it after the supervisor has stopped Serve.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.stopped.Store(true)
		p.drain(p.critical, Critical)
		p.drain(p.nonCritical, NonCritical)
	})
}

func (p *Pool) drain(queue chan *job, priority Priority) {
	for {
		select {
		case j := <-queue:
			metrics.PoolQueueDepth.WithLabelValues(priority.String()).Dec()
			j.handle.finish(false, ErrPoolStopped)
		default:
			return
		}
	}
}

// submit enqueues tx. A full queue blocks the submitter until a worker frees a slot.
func (p *Pool) submit(db *sqlDatabase, tx *Transaction, priority Priority) *Handle {
	if p.stopped.Load() {
		return finishedHandle(false, ErrPoolStopped)
	}
	j := &job{db: db, tx: tx, priority: priority, handle: newHandle()}
	queue := p.nonCritical
	if priority == Critical {
		queue = p.critical
	}
	queue <- j
	metrics.PoolQueueDepth.WithLabelValues(priority.String()).Inc()
	return j.handle
}

func (p *Pool) work(ctx context.Context) {
	for {
		j, ok := p.next(ctx)
		if !ok {
			return
		}
		metrics.PoolQueueDepth.WithLabelValues(j.priority.String()).Dec()

		if j.priority == NonCritical && p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				// Shutting down; put it back for the next Serve or Stop.
				p.requeue(j)
				return
			}
		}

		metrics.PoolWorkersBusy.Inc()
		did, err := j.db.execute(ctx, j.tx)
		metrics.PoolWorkersBusy.Dec()
		j.handle.finish(did, err)
	}
}

// next returns the next job, preferring the critical queue.
func (p *Pool) next(ctx context.Context) (*job, bool) {
	select {
	case j := <-p.critical:
		return j, true
	default:
	}

	select {
	case j := <-p.critical:
		return j, true
	case j := <-p.nonCritical:
		return j, true
	case <-ctx.Done():
		return nil, false
	}
}

func (p *Pool) requeue(j *job) {
	queue := p.nonCritical
	if j.priority == Critical {
		queue = p.critical
	}
	select {
	case queue <- j:
		metrics.PoolQueueDepth.WithLabelValues(j.priority.String()).Inc()
	default:
		j.handle.finish(false, ErrPoolStopped)
	}
}
