package question

import "strings"

// Answer is one entry in a question's answer pool: canonical text plus the
// ordered spoken forms the matcher accepts. Synonyms[0] is the preferred
// spoken/display form.
type Answer struct {
	Text     string   `json:"text"`
	Synonyms []string `json:"synonyms"`
}

// DisplayText returns the trimmed preferred form, falling back to the
// canonical text when no synonyms were curated.
func (a Answer) DisplayText() string {
	if len(a.Synonyms) > 0 {
		return strings.TrimSpace(a.Synonyms[0])
	}
	return strings.TrimSpace(a.Text)
}

// Question is an immutable entry in the pool. Answers[0] is always the
// correct answer; the presented order is decided per round.
type Question struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	Answers     []Answer `json:"answers"`
	IsTrueFalse bool     `json:"is_true_false"`
}

// Rand is the subset of math/rand the selection code draws from. Injected
// so tests can fix the seed and callers can share one locked source.
type Rand interface {
	Intn(n int) int
}
