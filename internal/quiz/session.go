package quiz

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"pdfquiz/internal/models"
)

// State is the lifecycle stage of a Session.
type State int

const (
	// StateIdle means no questions are loaded.
	StateIdle State = iota
	// StateInProgress means the user is navigating and answering.
	StateInProgress
	// StateCompleted means the quiz was submitted and can be scored.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText renders the state by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name written by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{StateIdle, StateInProgress, StateCompleted} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown quiz state %q", text)
}

// Unanswered marks a question with no selected option.
const Unanswered = -1

// Direction moves the current question.
type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// ParseDirection reads "previous"/"prev" or "next".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "previous", "prev":
		return Previous, nil
	case "next":
		return Next, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Generator produces questions from source text.
type Generator interface {
	Generate(ctx context.Context, text string, n int) (models.QuestionSet, error)
}

// Option configures a Session.
type Option func(*Session)

// WithStrictSubmit makes Submit fail with ErrIncompleteQuiz while any
// question is unanswered.
func WithStrictSubmit() Option {
	return func(s *Session) { s.strictSubmit = true }
}

// Session is one quiz run. All methods are safe for concurrent use and each
// operation is applied atomically.
type Session struct {
	mu           sync.Mutex
	state        State
	questions    models.QuestionSet
	answers      []int
	current      int
	generating   bool
	strictSubmit bool
}

// NewSession returns an idle session.
func NewSession(opts ...Option) *Session {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load installs a question set. The session must be idle. On error the
// session is left unchanged.
func (s *Session) Load(questions models.QuestionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generating {
		return ErrConcurrentGeneration
	}
	return s.loadLocked(questions)
}

func (s *Session) loadLocked(questions models.QuestionSet) error {
	if s.state != StateIdle {
		return s.stateError("load", StateIdle)
	}
	if len(questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidQuestionSet)
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("%w: question %d: %v", ErrInvalidQuestionSet, i, err)
		}
	}

	s.questions = questions.Clone()
	s.answers = unansweredRecord(len(questions))
	s.current = 0
	s.state = StateInProgress
	return nil
}

// Generate asks gen for n questions about text and loads them. The session
// must be idle and only one generation may run at a time. The call to gen
// is detached from ctx cancellation so an accepted generation runs to
// completion or failure. On failure the session stays idle.
func (s *Session) Generate(ctx context.Context, gen Generator, text string, n int) error {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return ErrConcurrentGeneration
	}
	if s.state != StateIdle {
		err := s.stateError("generate", StateIdle)
		s.mu.Unlock()
		return err
	}
	s.generating = true
	s.mu.Unlock()

	questions, genErr := gen.Generate(context.WithoutCancel(ctx), text, n)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	if genErr != nil {
		return genErr
	}
	return s.loadLocked(questions)
}

// SelectAnswer records optionIndex for questionIndex, replacing any
// earlier choice.
func (s *Session) SelectAnswer(questionIndex, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return s.stateError("select answer", StateInProgress)
	}
	if questionIndex < 0 || questionIndex >= len(s.questions) {
		return fmt.Errorf("%w: question %d not in [0,%d]", ErrIndexOutOfRange, questionIndex, len(s.questions)-1)
	}
	if optionIndex < 0 || optionIndex >= len(s.questions[questionIndex].Options) {
		return fmt.Errorf("%w: option %d not in [0,%d]", ErrIndexOutOfRange, optionIndex, models.OptionCount-1)
	}

	s.answers[questionIndex] = optionIndex
	return nil
}

// Navigate moves the current question one step. Moving past either end is
// a no-op.
func (s *Session) Navigate(d Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return s.stateError("navigate", StateInProgress)
	}
	if d != Previous && d != Next {
		return fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}

	next := s.current + int(d)
	if next >= 0 && next < len(s.questions) {
		s.current = next
	}
	return nil
}

// IsComplete reports whether every question has an answer.
func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completeLocked()
}

func (s *Session) completeLocked() bool {
	if len(s.answers) == 0 {
		return false
	}
	for _, a := range s.answers {
		if a == Unanswered {
			return false
		}
	}
	return true
}

// Submit finishes the quiz. Unanswered questions are allowed unless the
// session was created WithStrictSubmit.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return s.stateError("submit", StateInProgress)
	}
	if s.strictSubmit && !s.completeLocked() {
		return ErrIncompleteQuiz
	}
	s.state = StateCompleted
	return nil
}

// Score grades a completed quiz.
func (s *Session) Score() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.questions) == 0 {
		return Result{}, ErrEmptyQuiz
	}
	if s.state != StateCompleted {
		return Result{}, s.stateError("score", StateCompleted)
	}
	return Grade(s.questions, s.answers)
}

// Review lists each question of a completed quiz with the chosen and the
// correct answer.
func (s *Session) Review() ([]ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCompleted {
		return nil, s.stateError("review", StateCompleted)
	}
	return review(s.questions, s.answers), nil
}

// Retry restarts a completed quiz with the same questions.
func (s *Session) Retry() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCompleted {
		return s.stateError("retry", StateCompleted)
	}
	s.answers = unansweredRecord(len(s.questions))
	s.current = 0
	s.state = StateInProgress
	return nil
}

// Reset discards the questions and answers and returns to idle.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions = nil
	s.answers = nil
	s.current = 0
	s.state = StateIdle
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Questions returns a copy of the loaded questions.
func (s *Session) Questions() models.QuestionSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions.Clone()
}

// Answers returns a copy of the answer record.
func (s *Session) Answers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.answers...)
}

// CurrentIndex returns the index of the displayed question.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentQuestion returns the displayed question, or false when idle.
func (s *Session) CurrentQuestion() (models.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.questions) == 0 {
		return models.Question{}, false
	}
	q := s.questions[s.current]
	q.Options = append([]string(nil), q.Options...)
	return q, true
}

func (s *Session) stateError(op string, want State) error {
	return fmt.Errorf("%w: %s requires %s, session is %s", ErrInvalidState, op, want, s.state)
}

func unansweredRecord(n int) []int {
	answers := make([]int, n)
	for i := range answers {
		answers[i] = Unanswered
	}
	return answers
}
