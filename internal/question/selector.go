package question

import (
	"slices"

	"github.com/rs/zerolog"

	"github.com/hiteshrepo/voice-trivia/internal/history"
)

// MaxPreviousQuestions caps the per-user rolling history window. Once the
// window exceeds this ceiling (or covers the whole pool) the oldest entries
// are dropped a round's worth at a time.
const MaxPreviousQuestions = 100

// Select picks roundLength distinct pool indices for a round, avoiding the
// user's recent history. A round length larger than the pool is clamped, not
// rejected. When history plus the current selection exhausts the pool, the
// remaining slots are filled from the history list oldest-first; repeats are
// a degraded outcome, not a failure.
//
// The returned history has the selection appended and any window trim
// applied; the caller persists it.
func Select(pool []Question, hist history.UserHistory, roundLength int, rng Rand, logger zerolog.Logger) ([]int, history.UserHistory, error) {
	if len(pool) == 0 {
		return nil, hist, ErrInsufficientContent
	}
	if roundLength > len(pool) {
		logger.Warn().
			Int("round_length", roundLength).
			Int("pool_size", len(pool)).
			Msg("round length exceeds pool, clamping")
		roundLength = len(pool)
	}

	previous := slices.Clone(hist.PreviousQuestions)
	if len(previous) > MaxPreviousQuestions || len(previous) >= len(pool) {
		if roundLength < len(previous) {
			previous = previous[roundLength:]
		} else {
			previous = nil
		}
	}

	selected := make([]int, 0, roundLength)
	var checked []int
	previousIndex := 0

	for len(selected) < roundLength {
		found := false
		for len(checked) != len(pool) {
			index := rng.Intn(len(pool))
			if !slices.Contains(selected, index) && !slices.Contains(previous, index) {
				selected = append(selected, index)
				found = true
				break
			}
			if !slices.Contains(checked, index) {
				checked = append(checked, index)
			}
		}
		if !found {
			// Every unselected index is in the history window: repeat an old
			// question rather than fail the round.
			if previousIndex < len(previous) {
				selected = append(selected, previous[previousIndex])
				previousIndex++
			} else {
				selected = append(selected, rng.Intn(len(pool)))
			}
		}
	}

	updated := hist
	updated.PreviousQuestions = append(previous, selected...)
	return selected, updated, nil
}
