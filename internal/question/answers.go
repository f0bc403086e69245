package question

import "slices"

// BuildAnswerSet turns a question's answer pool into the presented answer
// set. Answers[0] is the correct answer; it lands at a uniformly random
// position and the rest fill the remaining slots drawn without replacement.
// True/false questions are presented exactly as stored, correct answer
// first.
func BuildAnswerSet(q Question, rng Rand) (presented []Answer, correctIndex int, err error) {
	if q.IsTrueFalse {
		if len(q.Answers) != 2 {
			return nil, 0, ErrInsufficientAnswers
		}
		return slices.Clone(q.Answers), 0, nil
	}
	if len(q.Answers) < 2 {
		return nil, 0, ErrInsufficientAnswers
	}

	correctIndex = rng.Intn(len(q.Answers))
	remaining := slices.Clone(q.Answers[1:])
	presented = make([]Answer, 0, len(q.Answers))
	for i := range q.Answers {
		if i == correctIndex {
			presented = append(presented, q.Answers[0])
			continue
		}
		j := rng.Intn(len(remaining))
		presented = append(presented, remaining[j])
		remaining = slices.Delete(remaining, j, j+1)
	}
	return presented, correctIndex, nil
}
