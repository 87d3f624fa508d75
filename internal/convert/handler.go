// Package convert implements the S3-event-triggered conversion stage: read
// an inbound text object, synthesize speech for it, write the audio next to
// it in the outbound bucket.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"example.com/knoxify/internal/cloud"
	"example.com/knoxify/internal/speech"
)

// Handler converts one inbound text object per S3 event record.
type Handler struct {
	store     cloud.ArtifactStore
	synth     cloud.Synthesizer
	outBucket string
	log       *slog.Logger
}

// New wires a handler to its store, synthesizer and destination bucket.
func New(store cloud.ArtifactStore, synth cloud.Synthesizer, outBucket string, log *slog.Logger) *Handler {
	return &Handler{
		store:     store,
		synth:     synth,
		outBucket: outBucket,
		log:       log,
	}
}

// HandleEvent processes every record of an object-created event. Failures
// propagate to the lambda runtime, which owns retry policy; the handler
// itself never retries and never writes a partial audio object. Re-running
// the same record reproduces the same output at the same key, so
// at-least-once delivery is safe.
func (h *Handler) HandleEvent(ctx context.Context, event events.S3Event) error {
	for _, record := range event.Records {
		bucket := record.S3.Bucket.Name
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return fmt.Errorf("decode object key %q: %w", record.S3.Object.Key, err)
		}
		if err := h.convert(ctx, bucket, key); err != nil {
			return err
		}
	}
	return nil
}

// convert performs one text-to-audio conversion. Objects without the text
// extension are skipped; the bucket may receive unrelated uploads.
func (h *Handler) convert(ctx context.Context, bucket, key string) error {
	if !strings.HasSuffix(strings.ToLower(key), speech.TextExt) {
		h.log.Info("skipping non-text object", "bucket", bucket, "key", key)
		return nil
	}

	body, metadata, err := h.store.Get(ctx, bucket, key)
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", bucket, key, err)
	}

	voice := voiceFrom(metadata)
	audio, err := h.synth.Synthesize(ctx, string(body), voice, "mp3")
	if err != nil {
		return fmt.Errorf("synthesize %s with voice %s: %w", key, voice, err)
	}

	audioKey := speech.AudioKeyFor(key)
	err = h.store.Put(ctx, h.outBucket, audioKey, audio, "audio/mpeg", nil)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", h.outBucket, audioKey, err)
	}

	h.log.Info("converted", "key", key, "audio_key", audioKey, "voice", voice, "bytes", len(audio))
	return nil
}

// voiceFrom reads the requested voice from object metadata, falling back to
// the default voice when absent. S3 canonicalizes metadata keys, so the
// lookup is case-insensitive.
func voiceFrom(metadata map[string]string) string {
	for k, v := range metadata {
		if strings.EqualFold(k, "voice") && v != "" {
			return v
		}
	}
	return speech.DefaultVoice
}
