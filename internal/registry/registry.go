// Package registry keeps the in-memory job table. It is the single owner of
// Job records: callers get value snapshots and mutate only through the
// transition methods, which hold the lock for the whole read-check-write so
// concurrent status checks for the same job cannot double-transition it.
package registry

import (
	"context"
	"sync"
	"time"

	"example.com/knoxify/internal/speech"
)

// DefaultTerminalTTL bounds how long a finished job stays queryable.
// Without eviction the map grows for the life of the process.
const DefaultTerminalTTL = time.Hour

// Registry is a concurrency-safe map of job id to job record.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*speech.Job
	ttl  time.Duration
	now  func() time.Time
}

// New creates an empty registry. A non-positive ttl falls back to
// DefaultTerminalTTL.
func New(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTerminalTTL
	}
	return &Registry{
		jobs: make(map[string]*speech.Job),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Create inserts a new job record. The job id must be unused;
// speech.ErrDuplicateJob is returned otherwise and the registry is
// unchanged.
func (r *Registry) Create(job speech.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.jobs[job.ID]; taken {
		return speech.ErrDuplicateJob
	}
	j := job
	r.jobs[job.ID] = &j
	return nil
}

// Get returns a copy of the job record.
func (r *Registry) Get(id string) (speech.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return speech.Job{}, speech.ErrJobNotFound
	}
	return *j, nil
}

// Len reports the number of tracked jobs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// MarkReady transitions a processing job to ready and records the observed
// outbound key. Once a job is terminal the call is a no-op, so two racing
// status checks cannot apply the transition twice.
func (r *Registry) MarkReady(id, outboundKey string) (speech.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok {
		return speech.Job{}, speech.ErrJobNotFound
	}
	if !j.Status.Terminal() {
		j.Status = speech.StatusReady
		j.OutboundKey = outboundKey
		j.TerminalAt = r.now()
	}
	return *j, nil
}

// MarkError transitions a processing job to error with the failure detail.
// Terminal jobs are left untouched.
func (r *Registry) MarkError(id, detail string) (speech.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok {
		return speech.Job{}, speech.ErrJobNotFound
	}
	if !j.Status.Terminal() {
		j.Status = speech.StatusError
		j.ErrorDetail = detail
		j.TerminalAt = r.now()
	}
	return *j, nil
}

// RecordProbeFailure bumps the consecutive-failure counter for a processing
// job and returns the new count.
func (r *Registry) RecordProbeFailure(id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok {
		return 0, speech.ErrJobNotFound
	}
	j.ProbeFailures++
	return j.ProbeFailures, nil
}

// ResetProbeFailures clears the counter after a probe that reached the
// store, so only consecutive failures accumulate.
func (r *Registry) ResetProbeFailures(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if j, ok := r.jobs[id]; ok {
		j.ProbeFailures = 0
	}
}

// EvictExpired drops terminal jobs older than the retention TTL and returns
// how many were removed. Processing jobs are never evicted.
func (r *Registry) EvictExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	evicted := 0
	for id, j := range r.jobs {
		if j.Status.Terminal() && j.TerminalAt.Before(cutoff) {
			delete(r.jobs, id)
			evicted++
		}
	}
	return evicted
}

// Janitor sweeps expired terminal jobs at the given interval until the
// context is cancelled.
func (r *Registry) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictExpired()
		}
	}
}
