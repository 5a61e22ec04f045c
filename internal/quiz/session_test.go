package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfquiz/internal/models"
)

func sampleQuestions(correct ...int) models.QuestionSet {
	qs := make(models.QuestionSet, len(correct))
	for i, c := range correct {
		qs[i] = models.Question{
			Text:         fmt.Sprintf("Question %d?", i+1),
			Options:      []string{"A", "B", "C", "D"},
			CorrectIndex: c,
		}
	}
	return qs
}

func loadedSession(t *testing.T, correct ...int) *Session {
	t.Helper()
	s := NewSession()
	require.NoError(t, s.Load(sampleQuestions(correct...)))
	return s
}

func TestLoad(t *testing.T) {
	s := loadedSession(t, 0, 1, 2)

	assert.Equal(t, StateInProgress, s.State())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, []int{Unanswered, Unanswered, Unanswered}, s.Answers())
	assert.Len(t, s.Questions(), 3)
	assert.False(t, s.IsComplete())
}

func TestLoad_Rejects(t *testing.T) {
	badOptions := sampleQuestions(0)
	badOptions[0].Options = []string{"A", "B", "C"}
	badIndex := sampleQuestions(0)
	badIndex[0].CorrectIndex = 4

	tests := []struct {
		name      string
		questions models.QuestionSet
	}{
		{"empty", models.QuestionSet{}},
		{"nil", nil},
		{"three options", badOptions},
		{"correct index out of range", badIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			err := s.Load(tt.questions)
			assert.ErrorIs(t, err, ErrInvalidQuestionSet)
			assert.Equal(t, StateIdle, s.State())
		})
	}
}

func TestLoad_RequiresIdle(t *testing.T) {
	s := loadedSession(t, 0)
	err := s.Load(sampleQuestions(1))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestLoad_CopiesQuestions(t *testing.T) {
	qs := sampleQuestions(0)
	s := NewSession()
	require.NoError(t, s.Load(qs))

	qs[0].Options[0] = "mutated"
	assert.Equal(t, "A", s.Questions()[0].Options[0])
}

func TestSelectAnswer_LastWriteWins(t *testing.T) {
	s := loadedSession(t, 0, 1)

	require.NoError(t, s.SelectAnswer(1, 2))
	require.NoError(t, s.SelectAnswer(1, 3))

	assert.Equal(t, []int{Unanswered, 3}, s.Answers())
}

func TestSelectAnswer_OutOfRange(t *testing.T) {
	s := loadedSession(t, 0, 1)

	for _, tc := range [][2]int{{-1, 0}, {2, 0}, {0, -1}, {0, 4}} {
		err := s.SelectAnswer(tc[0], tc[1])
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "select(%d,%d)", tc[0], tc[1])
	}
	assert.Equal(t, []int{Unanswered, Unanswered}, s.Answers())
}

func TestSelectAnswer_WrongState(t *testing.T) {
	s := NewSession()
	assert.ErrorIs(t, s.SelectAnswer(0, 0), ErrInvalidState)

	s = loadedSession(t, 0)
	require.NoError(t, s.Submit())
	assert.ErrorIs(t, s.SelectAnswer(0, 0), ErrInvalidState)
}

func TestNavigate_Clamps(t *testing.T) {
	s := loadedSession(t, 0, 1, 2)

	require.NoError(t, s.Navigate(Previous))
	assert.Equal(t, 0, s.CurrentIndex())

	require.NoError(t, s.Navigate(Next))
	require.NoError(t, s.Navigate(Next))
	assert.Equal(t, 2, s.CurrentIndex())

	require.NoError(t, s.Navigate(Next))
	assert.Equal(t, 2, s.CurrentIndex())

	require.NoError(t, s.Navigate(Previous))
	assert.Equal(t, 1, s.CurrentIndex())

	q, ok := s.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, "Question 2?", q.Text)
}

func TestNavigate_Invalid(t *testing.T) {
	s := loadedSession(t, 0)
	assert.ErrorIs(t, s.Navigate(Direction(3)), ErrInvalidDirection)
	assert.ErrorIs(t, NewSession().Navigate(Next), ErrInvalidState)
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"next", Next, false},
		{"NEXT", Next, false},
		{"previous", Previous, false},
		{"prev", Previous, false},
		{"sideways", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDirection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateText(t *testing.T) {
	for _, st := range []State{StateIdle, StateInProgress, StateCompleted} {
		text, err := st.MarshalText()
		require.NoError(t, err)

		var got State
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, st, got)
	}

	var s State
	assert.Error(t, s.UnmarshalText([]byte("paused")))
}

func TestIsComplete(t *testing.T) {
	s := loadedSession(t, 0, 1, 2)

	require.NoError(t, s.SelectAnswer(0, 0))
	require.NoError(t, s.SelectAnswer(2, 1))
	assert.False(t, s.IsComplete())

	require.NoError(t, s.SelectAnswer(1, 3))
	assert.True(t, s.IsComplete())

	assert.False(t, NewSession().IsComplete())
}

func TestSubmit_LenientByDefault(t *testing.T) {
	s := loadedSession(t, 0, 1)
	require.NoError(t, s.SelectAnswer(0, 0))

	require.NoError(t, s.Submit())
	assert.Equal(t, StateCompleted, s.State())

	assert.ErrorIs(t, s.Submit(), ErrInvalidState)
}

func TestSubmit_Strict(t *testing.T) {
	s := NewSession(WithStrictSubmit())
	require.NoError(t, s.Load(sampleQuestions(0, 1)))
	require.NoError(t, s.SelectAnswer(0, 0))

	assert.ErrorIs(t, s.Submit(), ErrIncompleteQuiz)
	assert.Equal(t, StateInProgress, s.State())

	require.NoError(t, s.SelectAnswer(1, 1))
	require.NoError(t, s.Submit())
	assert.Equal(t, StateCompleted, s.State())
}

func TestScore_Scenario(t *testing.T) {
	s := loadedSession(t, 0, 1, 2)
	require.NoError(t, s.SelectAnswer(0, 0))
	require.NoError(t, s.SelectAnswer(1, 1))
	require.NoError(t, s.SelectAnswer(2, 3))
	require.NoError(t, s.Submit())

	res, err := s.Score()
	require.NoError(t, err)
	assert.Equal(t, Result{CorrectCount: 2, Total: 3, Percentage: 67, Passed: true}, res)
}

func TestScore_RequiresCompleted(t *testing.T) {
	s := loadedSession(t, 0)
	_, err := s.Score()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestScore_EmptyQuiz(t *testing.T) {
	_, err := NewSession().Score()
	assert.ErrorIs(t, err, ErrEmptyQuiz)
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name    string
		correct []int
		answers []int
		want    Result
	}{
		{"all correct", []int{0, 1}, []int{0, 1}, Result{2, 2, 100, true}},
		{"unanswered is wrong", []int{0, 1}, []int{0, Unanswered}, Result{1, 2, 50, false}},
		{"rounds down", []int{0, 0, 0}, []int{0, 1, 1}, Result{1, 3, 33, false}},
		{"exact threshold", []int{0, 0, 0, 0, 0}, []int{0, 0, 0, 1, 1}, Result{3, 5, 60, true}},
		{"none", []int{2}, []int{Unanswered}, Result{0, 1, 0, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Grade(sampleQuestions(tt.correct...), tt.answers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Grade(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyQuiz)

	_, err = Grade(sampleQuestions(0, 1), []int{0})
	assert.ErrorIs(t, err, ErrInvalidQuestionSet)
}

func TestReview(t *testing.T) {
	s := loadedSession(t, 0, 1)
	require.NoError(t, s.SelectAnswer(0, 0))

	_, err := s.Review()
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, s.Submit())
	items, err := s.Review()
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.True(t, items[0].Correct)
	assert.Equal(t, "A", items[0].SelectedAnswer)
	assert.Equal(t, "A", items[0].CorrectAnswer)

	assert.False(t, items[1].Correct)
	assert.Equal(t, Unanswered, items[1].SelectedIndex)
	assert.Empty(t, items[1].SelectedAnswer)
	assert.Equal(t, "B", items[1].CorrectAnswer)
}

func TestRetry_RoundTrip(t *testing.T) {
	s := loadedSession(t, 0, 1, 2)
	original := s.Questions()
	require.NoError(t, s.SelectAnswer(0, 1))
	require.NoError(t, s.Navigate(Next))

	assert.ErrorIs(t, s.Retry(), ErrInvalidState)

	require.NoError(t, s.Submit())
	require.NoError(t, s.Retry())

	assert.Equal(t, StateInProgress, s.State())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, []int{Unanswered, Unanswered, Unanswered}, s.Answers())
	assert.Equal(t, original, s.Questions())
}

func TestReset(t *testing.T) {
	s := loadedSession(t, 0, 1)
	require.NoError(t, s.Submit())

	s.Reset()

	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.Questions())
	assert.Empty(t, s.Answers())
	_, ok := s.CurrentQuestion()
	assert.False(t, ok)

	require.NoError(t, s.Load(sampleQuestions(3)))
}

func TestSnapshot_HidesCorrectIndexUntilCompleted(t *testing.T) {
	s := loadedSession(t, 2, 1)
	require.NoError(t, s.SelectAnswer(0, 2))

	snap := s.Snapshot()
	assert.Equal(t, StateInProgress, snap.State)
	assert.Equal(t, 2, snap.Total)
	assert.Equal(t, 1, snap.Answered)
	assert.False(t, snap.Complete)
	assert.Nil(t, snap.Questions[0].CorrectIndex)

	require.NoError(t, s.Submit())
	snap = s.Snapshot()
	require.NotNil(t, snap.Questions[0].CorrectIndex)
	assert.Equal(t, 2, *snap.Questions[0].CorrectIndex)
}

type stubGenerator struct {
	questions models.QuestionSet
	err       error
	started   chan struct{}
	release   chan struct{}
	gotCtxErr error
}

func (g *stubGenerator) Generate(ctx context.Context, text string, n int) (models.QuestionSet, error) {
	if g.started != nil {
		close(g.started)
		<-g.release
	}
	g.gotCtxErr = ctx.Err()
	return g.questions, g.err
}

func TestGenerate_LoadsOnSuccess(t *testing.T) {
	s := NewSession()
	gen := &stubGenerator{questions: sampleQuestions(0, 1, 2)}

	require.NoError(t, s.Generate(context.Background(), gen, "text", 3))

	assert.Equal(t, StateInProgress, s.State())
	assert.Len(t, s.Questions(), 3)
	assert.Equal(t, []int{Unanswered, Unanswered, Unanswered}, s.Answers())
}

func TestGenerate_FailureLeavesIdle(t *testing.T) {
	s := NewSession()
	genErr := errors.New("could not generate questions")

	err := s.Generate(context.Background(), &stubGenerator{err: genErr}, "text", 3)

	assert.ErrorIs(t, err, genErr)
	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.Questions())
}

func TestGenerate_InvalidSetLeavesIdle(t *testing.T) {
	s := NewSession()

	err := s.Generate(context.Background(), &stubGenerator{questions: models.QuestionSet{}}, "text", 3)

	assert.ErrorIs(t, err, ErrInvalidQuestionSet)
	assert.Equal(t, StateIdle, s.State())
}

func TestGenerate_RequiresIdle(t *testing.T) {
	s := loadedSession(t, 0)
	err := s.Generate(context.Background(), &stubGenerator{questions: sampleQuestions(1)}, "text", 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestGenerate_RejectsConcurrentCalls(t *testing.T) {
	s := NewSession()
	gen := &stubGenerator{
		questions: sampleQuestions(0),
		started:   make(chan struct{}),
		release:   make(chan struct{}),
	}

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = s.Generate(context.Background(), gen, "text", 1)
	}()
	<-gen.started

	assert.True(t, s.Snapshot().Generating)
	err := s.Generate(context.Background(), &stubGenerator{questions: sampleQuestions(1)}, "text", 1)
	assert.ErrorIs(t, err, ErrConcurrentGeneration)
	assert.ErrorIs(t, s.Load(sampleQuestions(1)), ErrConcurrentGeneration)

	close(gen.release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, StateInProgress, s.State())
	assert.False(t, s.Snapshot().Generating)
}

func TestGenerate_IgnoresCallerCancellation(t *testing.T) {
	s := NewSession()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := &stubGenerator{questions: sampleQuestions(0)}

	require.NoError(t, s.Generate(ctx, gen, "text", 1))
	assert.NoError(t, gen.gotCtxErr)
	assert.Equal(t, StateInProgress, s.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "in_progress", StateInProgress.String())
	assert.Equal(t, "completed", StateCompleted.String())
}
