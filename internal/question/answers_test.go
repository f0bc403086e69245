package question

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildAnswerSetPlacesCorrectAnswer(t *testing.T) {
	q := Question{
		ID:     "capital-france",
		Prompt: "What is the capital of France?",
		Answers: []Answer{
			{Text: "Paris", Synonyms: []string{"Paris"}},
			{Text: "London", Synonyms: []string{"London"}},
			{Text: "Berlin", Synonyms: []string{"Berlin"}},
			{Text: "Madrid", Synonyms: []string{"Madrid"}},
		},
	}

	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		presented, correctIndex, err := BuildAnswerSet(q, rng)
		assert.NoError(t, err)
		assert.Len(t, presented, len(q.Answers))
		assert.Equal(t, "Paris", presented[correctIndex].Text)

		// Every stored answer appears exactly once.
		counts := map[string]int{}
		for _, a := range presented {
			counts[a.Text]++
		}
		for _, a := range q.Answers {
			assert.Equal(t, 1, counts[a.Text], "answer %q", a.Text)
		}
	}
}

func TestBuildAnswerSetCoversAllPositions(t *testing.T) {
	q := Question{
		Answers: []Answer{
			{Text: "right"},
			{Text: "wrong one"},
			{Text: "wrong two"},
		},
	}

	positions := map[int]bool{}
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		_, correctIndex, err := BuildAnswerSet(q, rng)
		assert.NoError(t, err)
		positions[correctIndex] = true
	}
	assert.Len(t, positions, len(q.Answers), "correct answer never landed in some position")
}

func TestBuildAnswerSetTrueFalse(t *testing.T) {
	q := Question{
		Prompt:      "The sky is green.",
		IsTrueFalse: true,
		Answers: []Answer{
			{Text: "False", Synonyms: []string{"False", "no"}},
			{Text: "True", Synonyms: []string{"True", "yes"}},
		},
	}

	rng := rand.New(rand.NewSource(1))
	presented, correctIndex, err := BuildAnswerSet(q, rng)
	assert.NoError(t, err)
	assert.Equal(t, 0, correctIndex)
	assert.Equal(t, q.Answers, presented)
}

func TestBuildAnswerSetInsufficientAnswers(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, _, err := BuildAnswerSet(Question{Answers: []Answer{{Text: "only"}}}, rng)
	assert.ErrorIs(t, err, ErrInsufficientAnswers)

	_, _, err = BuildAnswerSet(Question{IsTrueFalse: true, Answers: []Answer{{Text: "True"}}}, rng)
	assert.ErrorIs(t, err, ErrInsufficientAnswers)
}
