// Package orchestrator implements the API-facing job logic: validate and
// submit text to the inbound bucket, probe the outbound bucket on status
// checks, and issue time-limited download links once the audio exists.
//
// The orchestrator never talks to the conversion lambda directly; the two
// sides meet only through the buckets and the shared key derivation in
// package speech.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"example.com/knoxify/internal/cloud"
	"example.com/knoxify/internal/registry"
	"example.com/knoxify/internal/speech"
)

const (
	// LinkTTL bounds how long an issued download link stays valid.
	LinkTTL = 5 * time.Minute

	// maxProbeFailures is how many consecutive transient existence-check
	// failures a job survives before it is marked terminal. A single
	// network blip on a poll must not permanently fail the job.
	maxProbeFailures = 3

	// idAttempts bounds regeneration on the unlikely short-id collision.
	idAttempts = 5
)

// Buckets names the two logical storage areas.
type Buckets struct {
	Inbound  string
	Outbound string
}

// Orchestrator owns submission, status polling and link issuance.
type Orchestrator struct {
	store   cloud.ArtifactStore
	jobs    *registry.Registry
	buckets Buckets
	log     *slog.Logger
}

// New wires an orchestrator to its store, registry and bucket names.
func New(store cloud.ArtifactStore, jobs *registry.Registry, buckets Buckets, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:   store,
		jobs:    jobs,
		buckets: buckets,
		log:     log,
	}
}

// Voices returns the fixed voice set offered to clients.
func (o *Orchestrator) Voices() []string {
	return speech.Voices
}

// Submit validates the submission, writes the text to the inbound bucket
// and registers a processing job. On a storage failure the job record is
// kept and marked error so the failure is never silently dropped.
func (o *Orchestrator) Submit(ctx context.Context, text, voice, sourceName string) (string, error) {
	if err := speech.ValidateSubmission(text, voice, sourceName); err != nil {
		return "", err
	}

	job := speech.Job{
		Status:      speech.StatusProcessing,
		Voice:       voice,
		SourceName:  sourceName,
		TextContent: text,
		CreatedAt:   time.Now(),
	}
	var err error
	for attempt := 0; attempt < idAttempts; attempt++ {
		job.ID = speech.NewJobID()
		job.InboundKey = speech.TextKey(job.ID, sourceName)
		if err = o.jobs.Create(job); err == nil {
			break
		}
	}
	if err != nil {
		return "", err
	}

	err = o.store.Put(ctx, o.buckets.Inbound, job.InboundKey, []byte(text), "text/plain",
		map[string]string{"voice": voice, "job_id": job.ID})
	if err != nil {
		serr := &speech.StorageError{Op: "put " + job.InboundKey, Err: err}
		o.jobs.MarkError(job.ID, serr.Error())
		o.log.Error("inbound upload failed", "job_id", job.ID, "error", err)
		return "", serr
	}

	o.log.Info("job submitted", "job_id", job.ID, "voice", voice, "file", sourceName)
	return job.ID, nil
}

// CheckStatus returns the current snapshot for a job. While the job is
// processing, it performs one existence check against the outbound bucket:
// found flips the job to ready, not-found leaves it processing, and any
// other failure counts toward the terminal threshold.
//
// Terminal jobs are pure reads; no storage call is made.
func (o *Orchestrator) CheckStatus(ctx context.Context, jobID string) (speech.Snapshot, error) {
	job, err := o.jobs.Get(jobID)
	if err != nil {
		return speech.Snapshot{}, err
	}
	if job.Status.Terminal() {
		return job.Snapshot(), nil
	}

	audioKey := speech.AudioKeyFor(job.InboundKey)
	exists, err := o.store.HeadExists(ctx, o.buckets.Outbound, audioKey)
	switch {
	case err != nil:
		failures, ferr := o.jobs.RecordProbeFailure(jobID)
		if ferr != nil {
			return speech.Snapshot{}, ferr
		}
		o.log.Warn("outbound probe failed", "job_id", jobID, "failures", failures, "error", err)
		if failures >= maxProbeFailures {
			serr := &speech.StorageError{Op: "head " + audioKey, Err: err}
			job, err = o.jobs.MarkError(jobID, serr.Error())
			if err != nil {
				return speech.Snapshot{}, err
			}
		}
	case exists:
		job, err = o.jobs.MarkReady(jobID, audioKey)
		if err != nil {
			return speech.Snapshot{}, err
		}
		o.log.Info("audio ready", "job_id", jobID, "key", audioKey)
	default:
		// Still converting; expected steady state between submission
		// and the lambda finishing.
		o.jobs.ResetProbeFailures(jobID)
	}

	return job.Snapshot(), nil
}

// Retrieve issues a time-limited download link for a ready job's audio.
func (o *Orchestrator) Retrieve(ctx context.Context, jobID string) (string, error) {
	job, err := o.jobs.Get(jobID)
	if err != nil {
		return "", err
	}
	if job.Status != speech.StatusReady {
		return "", speech.ErrNotReady
	}

	url, err := o.store.PresignedGet(o.buckets.Outbound, job.OutboundKey, LinkTTL)
	if err != nil {
		return "", &speech.StorageError{Op: "presign " + job.OutboundKey, Err: err}
	}
	return url, nil
}
