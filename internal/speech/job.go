// Package speech holds the domain model for text-to-speech conversion jobs:
// the job record and its state machine, the fixed voice set, submission
// validation and the storage key derivation shared by the submitting side
// and the conversion lambda.
package speech

import (
	"time"

	"github.com/google/uuid"
)

// Status is the client-visible lifecycle state of a job.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// Terminal reports whether a job in this status can still transition.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusError
}

// Job is one conversion request tracked by the registry.
//
// OutboundKey is set exactly once, when the orchestrator first observes the
// audio object; ErrorDetail is set exactly once, on the transition to error.
type Job struct {
	ID          string
	Status      Status
	Voice       string
	SourceName  string
	TextContent string
	CreatedAt   time.Time
	InboundKey  string
	OutboundKey string
	ErrorDetail string

	// ProbeFailures counts consecutive transient failures of the outbound
	// existence check. The job only goes terminal once the count reaches
	// the orchestrator's threshold, so a single network blip does not
	// permanently fail the job.
	ProbeFailures int

	// TerminalAt records when the job reached ready or error, for TTL
	// eviction of finished jobs.
	TerminalAt time.Time
}

// Snapshot is the status view returned to callers. It never exposes the
// text content or registry bookkeeping fields.
type Snapshot struct {
	ID          string    `json:"job_id"`
	Status      Status    `json:"status"`
	Voice       string    `json:"voice"`
	SourceName  string    `json:"filename"`
	OutboundKey string    `json:"-"`
	ErrorDetail string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Snapshot copies the client-visible fields of a job.
func (j Job) Snapshot() Snapshot {
	return Snapshot{
		ID:          j.ID,
		Status:      j.Status,
		Voice:       j.Voice,
		SourceName:  j.SourceName,
		OutboundKey: j.OutboundKey,
		ErrorDetail: j.ErrorDetail,
		CreatedAt:   j.CreatedAt,
	}
}

// NewJobID returns a short opaque job identifier. Eight hex characters are
// enough for a process-lifetime registry; the registry rejects the rare
// collision and the caller regenerates.
func NewJobID() string {
	return uuid.NewString()[:8]
}
