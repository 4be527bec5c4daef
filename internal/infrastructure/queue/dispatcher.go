package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mindcare/wellbeing-api/internal/api/metrics"
	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256

	markTimeout = 2 * time.Second
)

// Job is one background summary run for a user.
type Job struct {
	ID         string
	UserID     uint
	EnqueuedAt time.Time
}

// PendingMarker tracks users that already have a job waiting in a queue.
type PendingMarker interface {
	// MarkPending sets the marker and reports whether it was newly set.
	MarkPending(ctx context.Context, userID uint) (bool, error)
	Clear(ctx context.Context, userID uint) error
}

// Dispatcher runs background summaries on a fixed set of workers. Jobs are
// sharded by user id, so the jobs of one user run one at a time and in order.
// While a job for a user is queued but not started, further requests for that
// user are coalesced into it.
type Dispatcher struct {
	workers   []chan Job
	summaries ports.SummaryService
	pending   PendingMarker
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used; a nil pending keeps markers in memory.
func NewDispatcher(numWorkers int, summaries ports.SummaryService, pending PendingMarker, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if pending == nil {
		pending = NewMemoryPending()
	}
	d := &Dispatcher{
		workers:   make([]chan Job, numWorkers),
		summaries: summaries,
		pending:   pending,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// jobs still queued at that point are dropped and their markers cleared.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Schedule queues a summary for userID. It never blocks: a request for a user
// with a queued job is coalesced, and a request hitting a full queue is dropped.
func (d *Dispatcher) Schedule(userID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), markTimeout)
	defer cancel()

	marked, err := d.pending.MarkPending(ctx, userID)
	if err != nil {
		// Fail open: the job may duplicate one already queued.
		d.log.Warn().Err(err).Uint("user_id", userID).Msg("pending marker unavailable")
		marked = true
	}
	if !marked {
		metrics.SummaryJobsTotal.WithLabelValues("coalesced").Inc()
		d.log.Debug().Uint("user_id", userID).Msg("summary already pending")
		return
	}

	job := Job{ID: uuid.NewString(), UserID: userID, EnqueuedAt: time.Now()}
	idx := d.shardIndex(userID)
	select {
	case d.workers[idx] <- job:
		metrics.SummaryJobsTotal.WithLabelValues("enqueued").Inc()
		metrics.SummaryQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		d.log.Debug().Str("job_id", job.ID).Uint("user_id", userID).Int("worker_id", idx).Msg("summary job enqueued")
	default:
		metrics.SummaryJobsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Uint("user_id", userID).Int("worker_id", idx).Msg("summary queue full, dropping job")
		if err := d.pending.Clear(ctx, userID); err != nil {
			d.log.Warn().Err(err).Uint("user_id", userID).Msg("clear pending marker")
		}
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatUint(uint64(userID), 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Job) {
	defer d.wg.Done()
	depth := metrics.SummaryQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		if ctx.Err() != nil {
			d.release(id, ch)
			return
		}
		select {
		case <-ctx.Done():
			d.release(id, ch)
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.run(ctx, id, job)
		}
	}
}

// release empties ch without running the jobs and clears their pending
// markers, so a marker kept in Redis does not outlive the process.
func (d *Dispatcher) release(workerID int, ch <-chan Job) {
	ctx, cancel := context.WithTimeout(context.Background(), markTimeout)
	defer cancel()
	depth := metrics.SummaryQueueDepth.WithLabelValues(strconv.Itoa(workerID))

	dropped := 0
	for {
		select {
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			dropped++
			if err := d.pending.Clear(ctx, job.UserID); err != nil {
				d.log.Warn().Err(err).Uint("user_id", job.UserID).Msg("clear pending marker")
			}
		default:
			if dropped > 0 {
				metrics.SummaryJobsTotal.WithLabelValues("dropped").Add(float64(dropped))
				d.log.Info().Int("worker_id", workerID).Int("jobs", dropped).Msg("worker stopped, queued summaries dropped")
			}
			return
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, workerID int, job Job) {
	log := d.log.With().Str("job_id", job.ID).Uint("user_id", job.UserID).Int("worker_id", workerID).Logger()

	// Clearing before the run lets requests that arrive meanwhile queue a
	// follow-up job that sees their data.
	if err := d.pending.Clear(ctx, job.UserID); err != nil {
		log.Warn().Err(err).Msg("clear pending marker")
	}

	res := d.summaries.Generate(ctx, job.UserID)
	log.Info().
		Bool("succeeded", res.Succeeded).
		Str("error", res.ErrorMessage()).
		Dur("queued_for", time.Since(job.EnqueuedAt)).
		Msg("background summary finished")
}

// MemoryPending is a process-local PendingMarker.
type MemoryPending struct {
	mu    sync.Mutex
	users map[uint]struct{}
}

func NewMemoryPending() *MemoryPending {
	return &MemoryPending{users: make(map[uint]struct{})}
}

func (m *MemoryPending) MarkPending(_ context.Context, userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; ok {
		return false, nil
	}
	m.users[userID] = struct{}{}
	return true, nil
}

func (m *MemoryPending) Clear(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
	return nil
}
