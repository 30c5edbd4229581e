package progress

import "errors"

var (
	// ErrInvalidChallenge indicates a malformed challenge definition: a
	// single-flag challenge with no flag, a multi-question challenge with no
	// questions, or a question missing its flag.
	ErrInvalidChallenge = errors.New("invalid challenge definition")
	// ErrQuestionIndex indicates the submitted question index does not name a
	// question of the challenge.
	ErrQuestionIndex = errors.New("question index out of range")
	// ErrEmptyFlag is returned before any comparison when the submitted flag
	// is empty after trimming.
	ErrEmptyFlag = errors.New("empty flag")
	// ErrAlreadyLocked is returned when points were already awarded for the
	// question; no submission is recorded.
	ErrAlreadyLocked = errors.New("question already solved")
)
