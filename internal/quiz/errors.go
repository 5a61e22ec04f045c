package quiz

import "errors"

var (
	// ErrInvalidQuestionSet is returned by Load for an empty or malformed set.
	ErrInvalidQuestionSet = errors.New("invalid question set")

	// ErrEmptyQuiz is returned when scoring a session without questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")

	// ErrIndexOutOfRange is returned for question or option indices outside
	// the loaded set.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidState is returned when an operation is not allowed in the
	// session's current state.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrConcurrentGeneration is returned when a generation is already
	// running for the session.
	ErrConcurrentGeneration = errors.New("question generation already in progress")

	// ErrIncompleteQuiz is returned by Submit in strict mode while questions
	// are unanswered.
	ErrIncompleteQuiz = errors.New("not all questions have been answered")

	// ErrInvalidDirection is returned by ParseDirection.
	ErrInvalidDirection = errors.New("invalid direction")
)
