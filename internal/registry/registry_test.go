package registry_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/knoxify/internal/registry"
	"example.com/knoxify/internal/speech"
)

func newJob(id string) speech.Job {
	return speech.Job{
		ID:         id,
		Status:     speech.StatusProcessing,
		Voice:      "Joanna",
		SourceName: "greeting.txt",
		InboundKey: id + "/greeting.txt",
		CreatedAt:  time.Now(),
	}
}

func TestCreateAndGet(t *testing.T) {
	r := registry.New(0)

	require.NoError(t, r.Create(newJob("ab12cd34")))

	job, err := r.Get("ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, speech.StatusProcessing, job.Status)
	assert.Equal(t, 1, r.Len())
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	r := registry.New(0)

	require.NoError(t, r.Create(newJob("ab12cd34")))
	err := r.Create(newJob("ab12cd34"))
	assert.ErrorIs(t, err, speech.ErrDuplicateJob)
	assert.Equal(t, 1, r.Len())
}

func TestGetUnknownJob(t *testing.T) {
	r := registry.New(0)

	_, err := r.Get("nope")
	assert.ErrorIs(t, err, speech.ErrJobNotFound)
}

func TestMarkReady(t *testing.T) {
	r := registry.New(0)
	require.NoError(t, r.Create(newJob("ab12cd34")))

	job, err := r.MarkReady("ab12cd34", "ab12cd34/greeting.mp3")
	require.NoError(t, err)
	assert.Equal(t, speech.StatusReady, job.Status)
	assert.Equal(t, "ab12cd34/greeting.mp3", job.OutboundKey)
	assert.Empty(t, job.ErrorDetail)
	assert.False(t, job.TerminalAt.IsZero())
}

func TestMarkErrorSetsDetail(t *testing.T) {
	r := registry.New(0)
	require.NoError(t, r.Create(newJob("ab12cd34")))

	job, err := r.MarkError("ab12cd34", "head object: connection reset")
	require.NoError(t, err)
	assert.Equal(t, speech.StatusError, job.Status)
	assert.Equal(t, "head object: connection reset", job.ErrorDetail)
	assert.Empty(t, job.OutboundKey)
}

func TestTerminalStatesAreFinal(t *testing.T) {
	r := registry.New(0)
	require.NoError(t, r.Create(newJob("ready1")))
	require.NoError(t, r.Create(newJob("error1")))

	_, err := r.MarkReady("ready1", "ready1/greeting.mp3")
	require.NoError(t, err)
	_, err = r.MarkError("error1", "boom")
	require.NoError(t, err)

	// Neither direction of cross-transition may take effect.
	job, err := r.MarkError("ready1", "late failure")
	require.NoError(t, err)
	assert.Equal(t, speech.StatusReady, job.Status)
	assert.Empty(t, job.ErrorDetail)

	job, err = r.MarkReady("error1", "error1/greeting.mp3")
	require.NoError(t, err)
	assert.Equal(t, speech.StatusError, job.Status)
	assert.Empty(t, job.OutboundKey)
}

func TestProbeFailureCounter(t *testing.T) {
	r := registry.New(0)
	require.NoError(t, r.Create(newJob("ab12cd34")))

	n, err := r.RecordProbeFailure("ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = r.RecordProbeFailure("ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// A successful probe clears the streak.
	r.ResetProbeFailures("ab12cd34")
	n, err = r.RecordProbeFailure("ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = r.RecordProbeFailure("nope")
	assert.ErrorIs(t, err, speech.ErrJobNotFound)
}

func TestEvictExpired(t *testing.T) {
	r := registry.New(time.Nanosecond)
	require.NoError(t, r.Create(newJob("done1")))
	require.NoError(t, r.Create(newJob("live1")))

	_, err := r.MarkReady("done1", "done1/greeting.mp3")
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	assert.Equal(t, 1, r.EvictExpired())
	assert.Equal(t, 1, r.Len())

	// Processing jobs are never evicted, no matter how old.
	_, err = r.Get("live1")
	assert.NoError(t, err)
	_, err = r.Get("done1")
	assert.ErrorIs(t, err, speech.ErrJobNotFound)
}

func TestConcurrentTransitionsApplyOnce(t *testing.T) {
	r := registry.New(0)
	require.NoError(t, r.Create(newJob("ab12cd34")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = r.MarkReady("ab12cd34", "ab12cd34/greeting.mp3")
		}()
		go func() {
			defer wg.Done()
			_, _ = r.MarkError("ab12cd34", "boom")
		}()
	}
	wg.Wait()

	job, err := r.Get("ab12cd34")
	require.NoError(t, err)
	require.True(t, job.Status.Terminal())
	if job.Status == speech.StatusReady {
		assert.Equal(t, "ab12cd34/greeting.mp3", job.OutboundKey)
		assert.Empty(t, job.ErrorDetail)
	} else {
		assert.Equal(t, "boom", job.ErrorDetail)
		assert.Empty(t, job.OutboundKey)
	}
}
