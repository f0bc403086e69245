package matcher

import (
	"context"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"

	"github.com/hiteshrepo/voice-trivia/internal/question"
)

// DefaultFuzzyThreshold is the maximum normalized edit distance accepted by
// the fuzzy step: one edit in a five-letter word passes, two do not.
const DefaultFuzzyThreshold = 0.34

// Expander resolves an arbitrary phrase to its canonical entity's synonym
// list via the external synonym-generation service.
type Expander interface {
	Generate(ctx context.Context, terms []string) ([][]string, error)
}

// Matcher resolves free-form spoken input to an index into the presented
// answer set. The step order is load-bearing: exact synonym, numeric,
// fuzzy, token partial, entity expansion — first success wins.
type Matcher struct {
	expander  Expander
	threshold float64
	logger    zerolog.Logger
}

func New(expander Expander, logger zerolog.Logger) *Matcher {
	return &Matcher{
		expander:  expander,
		threshold: DefaultFuzzyThreshold,
		logger:    logger,
	}
}

// Resolve runs the full matching chain. The second return is false when no
// step matched; that is an expected outcome, never an error. Only the
// entity-expansion step performs I/O, and its failure degrades to no-match.
func (m *Matcher) Resolve(ctx context.Context, raw string, presented []question.Answer) (int, bool) {
	if idx, ok := matchExact(raw, presented); ok {
		return idx, true
	}
	if idx, ok := matchNumeric(raw, len(presented)); ok {
		return idx, true
	}
	if idx, ok := m.matchFuzzy(raw, presented); ok {
		return idx, true
	}
	if idx, ok := matchToken(raw, presented); ok {
		return idx, true
	}
	if idx, ok := m.matchEntity(ctx, raw, presented); ok {
		return idx, true
	}
	return 0, false
}

// ResolveExact runs only the exact-synonym step. The session engine checks
// spoken input against the synonym lists before trusting platform-extracted
// numeric arguments: "7" can name the answer Seven, not option seven.
func (m *Matcher) ResolveExact(raw string, presented []question.Answer) (int, bool) {
	return matchExact(raw, presented)
}

// RecoverLastResort retries only the deterministic local steps beyond exact
// matching — fuzzy then token partial. The session engine runs it on inputs
// the intent classifier already gave up on, before advancing the fallback
// counter.
func (m *Matcher) RecoverLastResort(raw string, presented []question.Answer) (int, bool) {
	if idx, ok := m.matchFuzzy(raw, presented); ok {
		return idx, true
	}
	return matchToken(raw, presented)
}

func matchExact(raw string, presented []question.Answer) (int, bool) {
	normalized := Normalize(raw)
	if normalized == "" {
		return 0, false
	}
	for i, answer := range presented {
		for _, synonym := range answer.Synonyms {
			if Normalize(synonym) == normalized {
				return i, true
			}
		}
	}
	return 0, false
}

func matchNumeric(raw string, optionCount int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	if n < 1 || n > optionCount {
		return 0, false
	}
	return n - 1, true
}

func (m *Matcher) matchFuzzy(raw string, presented []question.Answer) (int, bool) {
	normalized := Normalize(raw)
	if normalized == "" {
		return 0, false
	}
	// First synonym clearing the threshold wins, in answer order then
	// synonym order. No global best-of search.
	for i, answer := range presented {
		for _, synonym := range answer.Synonyms {
			if m.fuzzyEqual(normalized, Normalize(synonym)) {
				return i, true
			}
		}
	}
	return 0, false
}

func (m *Matcher) fuzzyEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	distance := levenshtein.ComputeDistance(a, b)
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	return float64(distance)/float64(longest) <= m.threshold
}

func matchToken(raw string, presented []question.Answer) (int, bool) {
	parts := tokens(raw)
	if len(parts) == 0 {
		return 0, false
	}
	for i, answer := range presented {
		for _, synonym := range answer.Synonyms {
			normalized := Normalize(synonym)
			for _, part := range parts {
				if part == normalized {
					return i, true
				}
			}
		}
	}
	return 0, false
}

// matchEntity asks the synonym service what entity the input names, then
// compares that entity's alternate forms against each answer's alternate
// forms. Head forms on both sides are skipped: they were already covered by
// the exact step, and the head form is the display name, not an alias.
func (m *Matcher) matchEntity(ctx context.Context, raw string, presented []question.Answer) (int, bool) {
	if m.expander == nil {
		return 0, false
	}
	results, err := m.expander.Generate(ctx, []string{strings.TrimSpace(raw)})
	if err != nil {
		m.logger.Debug().Err(err).Msg("synonym expansion unavailable")
		return 0, false
	}
	if len(results) == 0 || len(results[0]) < 2 {
		return 0, false
	}
	entities := results[0]
	for i, answer := range presented {
		if len(answer.Synonyms) < 2 {
			continue
		}
		for _, synonym := range answer.Synonyms[1:] {
			normalized := Normalize(synonym)
			for _, entity := range entities[1:] {
				if Normalize(entity) == normalized {
					return i, true
				}
			}
		}
	}
	return 0, false
}
