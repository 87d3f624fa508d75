package speech

import (
	"path"
	"strings"
)

const (
	// TextExt is the only accepted source extension.
	TextExt = ".txt"
	// AudioExt is the extension of produced audio objects.
	AudioExt = ".mp3"
)

// TextKey builds the inbound storage key for a submission.
func TextKey(jobID, sourceName string) string {
	return jobID + "/" + sourceName
}

// AudioKeyFor derives the outbound storage key from an inbound text key:
// the last path segment loses its extension and gains AudioExt, the folder
// prefix is preserved. So "ab12cd34/greeting.txt" becomes
// "ab12cd34/greeting.mp3".
//
// Both the orchestrator (to probe for completion) and the conversion lambda
// (to name its output) derive the key through this one function; duplicating
// the rule would let the two sides silently disagree.
func AudioKeyFor(textKey string) string {
	dir, file := path.Split(textKey)
	base := strings.TrimSuffix(file, path.Ext(file))
	return dir + base + AudioExt
}
