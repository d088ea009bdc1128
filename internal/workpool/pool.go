// Package workpool implements the fixed-worker priority job queue that
// services meshing, lighting, and save tasks. Jobs are closures, queued
// from any goroutine, with clean shutdown: after Stop returns no new job
// starts, and Join waits for whatever was already in flight.
package workpool

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Priority is the queue level a job is submitted at. Jobs at High are
// always drained before Medium, which is always drained before Low.
type Priority int

const (
	Low Priority = iota
	Medium
	High

	numPriorities = int(High) + 1
)

// Job is a unit of work. id is used for log correlation only; it plays
// no role in ordering or cancellation (version tags, not job identity,
// are the cancellation mechanism per the engine's concurrency design).
type Job struct {
	ID    uuid.UUID
	Label string
	Run   func()
}

// Pool is a fixed set of worker goroutines draining a three-level
// priority queue. The queue itself is a condition-variable-guarded set
// of slices, mirroring the reference server's chan-based message queue
// but needing priority levels a plain channel can't express.
type Pool struct {
	log *zap.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	queues   [numPriorities][]Job
	stopped  bool
	draining bool

	wg sync.WaitGroup
}

// New starts workerCount worker goroutines. If log is nil a no-op
// logger is used so the pool never panics for lack of one.
func New(workerCount int, log *zap.Logger) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pool{log: log}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < workerCount; i++ {
		p.wg.Add(1)
		go p.workerLoop()
	}
	return p
}

// Enqueue submits a job at the given priority. It is safe to call from
// any goroutine, including from within a running job.
func (p *Pool) Enqueue(priority Priority, label string, run func()) uuid.UUID {
	id := uuid.New()
	p.mu.Lock()
	if !p.stopped {
		p.queues[priority] = append(p.queues[priority], Job{ID: id, Label: label, Run: run})
		p.cond.Signal()
	}
	p.mu.Unlock()
	return id
}

// EnqueueBatch submits one job per item at the given priority, each
// running fn with that item. This mirrors the reference engine's batch
// mesh job: a lighting operation's remesh set can name several chunks,
// and each gets its own version-tagged job rather than sharing one.
func EnqueueBatch[T any](p *Pool, priority Priority, label string, items []T, fn func(T)) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		item := item
		ids[i] = p.Enqueue(priority, label, func() { fn(item) })
	}
	return ids
}

func (p *Pool) workerLoop() {
	defer p.wg.Done()

	for {
		job, ok := p.dequeue()
		if !ok {
			return
		}
		p.runJob(job)
	}
}

// dequeue blocks until a job is available or the pool is stopped. Once
// the pool is stopped it returns no further jobs; anything still queued
// is discarded.
func (p *Pool) dequeue() (Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		if p.stopped {
			return Job{}, false
		}
		for priority := High; priority >= Low; priority-- {
			q := p.queues[priority]
			if len(q) > 0 {
				job := q[0]
				p.queues[priority] = q[1:]
				return job, true
			}
		}
		p.cond.Wait()
	}
}

// runJob recovers a panicking job so one bad closure (for example an
// invalid block id fault from the registry, see engineerr) cannot take
// the whole pool down.
func (p *Pool) runJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("worker job panicked",
				zap.String("job_id", job.ID.String()),
				zap.String("label", job.Label),
				zap.Any("recovered", r),
			)
		}
	}()
	job.Run()
}

// Stop marks the pool as not accepting new jobs and wakes every worker
// so they can observe it. It does not wait for in-flight jobs; call Join
// for that.
func (p *Pool) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

// Join blocks until every worker has exited, which happens once the
// pool is stopped and each worker has finished the job it was running.
func (p *Pool) Join() {
	p.wg.Wait()
}

// Pending reports the total number of queued jobs across all
// priorities, for callers that want to wait for quiescence.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, q := range p.queues {
		total += len(q)
	}
	return total
}
