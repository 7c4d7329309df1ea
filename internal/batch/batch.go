// Package batch runs multi-URL scrape jobs over a bounded worker pool.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fundsift/fundsift/internal/monitoring"
)

// Status describes a job's lifecycle phase.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
)

// Summary aggregates per-URL outcomes for one job.
type Summary struct {
	Total      int       `json:"total"`
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
	Errors     []string  `json:"errors"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Job is one submitted batch run.
type Job struct {
	ID     string  `json:"id"`
	Status Status  `json:"status"`
	Result Summary `json:"result"`
}

// ProcessFunc handles one URL. Called concurrently.
type ProcessFunc func(ctx context.Context, url string) error

// Runner executes jobs and keeps their summaries in memory.
type Runner struct {
	workers int
	process ProcessFunc
	log     *zap.Logger
	metrics *monitoring.Metrics

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewRunner builds a runner with the given pool size. metrics may be
// nil.
func NewRunner(workers int, process ProcessFunc, log *zap.Logger, metrics *monitoring.Metrics) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		workers: workers,
		process: process,
		log:     log,
		metrics: metrics,
		jobs:    make(map[string]*Job),
	}
}

// Submit starts a job asynchronously and returns its initial state.
func (r *Runner) Submit(ctx context.Context, urls []string) *Job {
	job := &Job{
		ID:     uuid.NewString(),
		Status: StatusRunning,
		Result: Summary{
			Total:     len(urls),
			Errors:    []string{},
			StartedAt: time.Now(),
		},
	}
	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	go r.run(ctx, job.ID, urls)

	snapshot := *job
	return &snapshot
}

// Run executes urls synchronously and returns the summary.
func (r *Runner) Run(ctx context.Context, urls []string) Summary {
	summary := Summary{
		Total:     len(urls),
		Errors:    []string{},
		StartedAt: time.Now(),
	}

	type outcome struct {
		url string
		err error
	}

	work := make(chan string)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range work {
				results <- outcome{url: url, err: r.process(ctx, url)}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, url := range urls {
			select {
			case work <- url:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if res.err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", res.url, res.err))
			if r.metrics != nil {
				r.metrics.RecordBatchURL("failed")
			}
			r.log.Warn("batch url failed", zap.String("url", res.url), zap.Error(res.err))
			continue
		}
		summary.Successful++
		if r.metrics != nil {
			r.metrics.RecordBatchURL("ok")
		}
	}

	summary.FinishedAt = time.Now()
	return summary
}

// Job returns a snapshot of a job by ID.
func (r *Runner) Job(id string) (*Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, false
	}
	snapshot := *job
	return &snapshot, true
}

func (r *Runner) run(ctx context.Context, id string, urls []string) {
	if r.metrics != nil {
		r.metrics.BatchJobsActive.Inc()
		defer r.metrics.BatchJobsActive.Dec()
	}

	summary := r.Run(ctx, urls)

	r.mu.Lock()
	if job, ok := r.jobs[id]; ok {
		job.Status = StatusCompleted
		job.Result = summary
	}
	r.mu.Unlock()

	r.log.Info("batch completed",
		zap.String("job", id),
		zap.Int("total", summary.Total),
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed))
}
