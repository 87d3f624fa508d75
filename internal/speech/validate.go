package speech

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTextChars is the synthesis ceiling per submission.
const MaxTextChars = 3000

// ValidateSubmission checks a submission before any job is created.
// It returns a *ValidationError describing the first problem found.
func ValidateSubmission(text, voice, sourceName string) error {
	if !strings.HasSuffix(strings.ToLower(sourceName), TextExt) {
		return &ValidationError{Reason: "only .txt files are allowed"}
	}
	if !utf8.ValidString(text) {
		return &ValidationError{Reason: "file must be valid UTF-8 text"}
	}
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Reason: "file is empty"}
	}
	if n := utf8.RuneCountInString(text); n > MaxTextChars {
		return &ValidationError{
			Reason: fmt.Sprintf("text exceeds maximum length (%d characters)", MaxTextChars),
		}
	}
	if !ValidVoice(voice) {
		return &ValidationError{Reason: "invalid voice selected"}
	}
	return nil
}
