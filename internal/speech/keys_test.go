package speech_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"example.com/knoxify/internal/speech"
)

func TestTextKey(t *testing.T) {
	assert.Equal(t, "ab12cd34/greeting.txt", speech.TextKey("ab12cd34", "greeting.txt"))
}

func TestAudioKeyFor(t *testing.T) {
	tests := []struct {
		name    string
		textKey string
		want    string
	}{
		{"with folder", "ab12cd34/greeting.txt", "ab12cd34/greeting.mp3"},
		{"no folder", "greeting.txt", "greeting.mp3"},
		{"nested folders", "a/b/notes.txt", "a/b/notes.mp3"},
		{"dot in name", "ab12cd34/my.notes.txt", "ab12cd34/my.notes.mp3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, speech.AudioKeyFor(tt.textKey))
		})
	}
}

func TestAudioKeyForMatchesBothDerivationSites(t *testing.T) {
	// The orchestrator derives from (jobID, sourceName); the lambda derives
	// from the full inbound key. Both must land on the same object.
	jobID := "ab12cd34"
	inbound := speech.TextKey(jobID, "greeting.txt")
	assert.Equal(t, speech.AudioKeyFor(inbound), jobID+"/greeting"+speech.AudioExt)
}

func TestNewJobID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := speech.NewJobID()
		assert.Len(t, id, 8)
		assert.False(t, seen[id], "id %q issued twice", id)
		seen[id] = true
	}
}
