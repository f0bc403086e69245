package question

import "errors"

var (
	// ErrInsufficientContent means the question pool is empty. A pool merely
	// smaller than the requested round length is not an error; the round
	// shrinks instead.
	ErrInsufficientContent = errors.New("question pool is empty")

	// ErrInsufficientAnswers means a question's answer pool is too small to
	// present a choice. Fatal to the round.
	ErrInsufficientAnswers = errors.New("not enough answers for question")
)
