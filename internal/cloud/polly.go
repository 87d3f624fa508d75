package cloud

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/polly"
	"github.com/aws/aws-sdk-go/service/polly/pollyiface"
)

// Synthesizer converts text plus a voice id into an encoded audio stream.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID, format string) ([]byte, error)
}

// PollyEngine implements Synthesizer on Amazon Polly's neural engine.
type PollyEngine struct {
	svc pollyiface.PollyAPI
}

// NewPollyEngine wraps a Polly client (or a test fake).
func NewPollyEngine(svc pollyiface.PollyAPI) *PollyEngine {
	return &PollyEngine{svc: svc}
}

// Synthesize returns the complete audio payload. The stream is drained
// before returning so callers never write a partial object downstream.
func (p *PollyEngine) Synthesize(ctx context.Context, text, voiceID, format string) ([]byte, error) {
	out, err := p.svc.SynthesizeSpeechWithContext(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(text),
		VoiceId:      aws.String(voiceID),
		OutputFormat: aws.String(format),
		Engine:       aws.String(polly.EngineNeural),
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	defer out.AudioStream.Close()

	audio, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("read audio stream: %w", err)
	}
	return audio, nil
}
