// Package terminal plays a quiz session over line-based input and output.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pdfquiz/internal/quiz"
)

var (
	colorTitle    = lipgloss.Color("33")
	colorDim      = lipgloss.Color("242")
	colorSelected = lipgloss.Color("63")
	colorCorrect  = lipgloss.Color("34")
	colorWrong    = lipgloss.Color("161")
)

// Player reads commands from in and renders the session to out.
type Player struct {
	in      *bufio.Scanner
	out     io.Writer
	session *quiz.Session
	noColor bool
}

// Option configures a Player.
type Option func(*Player)

// WithNoColor disables styled output.
func WithNoColor() Option {
	return func(p *Player) { p.noColor = true }
}

// New creates a Player for a session that already holds a quiz.
func New(in io.Reader, out io.Writer, session *quiz.Session, opts ...Option) *Player {
	p := &Player{
		in:      bufio.NewScanner(in),
		out:     out,
		session: session,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run plays until the user quits, the input ends or ctx is cancelled.
func (p *Player) Run(ctx context.Context) error {
	if p.session.State() == quiz.StateIdle {
		return fmt.Errorf("%w: no quiz loaded", quiz.ErrInvalidState)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var done bool
		var err error
		switch p.session.State() {
		case quiz.StateInProgress:
			done, err = p.playTurn()
		case quiz.StateCompleted:
			done, err = p.resultsTurn()
		default:
			return nil
		}
		if err != nil || done {
			return err
		}
	}
}

func (p *Player) playTurn() (bool, error) {
	p.renderQuestion()
	line, ok := p.prompt("Answer 1-4, [n]ext, [p]revious, [s]ubmit, [q]uit: ")
	if !ok {
		return true, p.in.Err()
	}

	switch line {
	case "q", "quit":
		return true, nil
	case "n", "next":
		return false, p.session.Navigate(quiz.Next)
	case "p", "prev", "previous":
		return false, p.session.Navigate(quiz.Previous)
	case "s", "submit":
		err := p.session.Submit()
		if errors.Is(err, quiz.ErrIncompleteQuiz) {
			p.printf("Answer every question before submitting.\n")
			return false, nil
		}
		return false, err
	}

	choice, err := strconv.Atoi(line)
	if err != nil {
		p.printf("Unknown command %q\n", line)
		return false, nil
	}
	return false, p.answer(choice - 1)
}

// answer records the choice for the current question and moves on unless
// it was the last one.
func (p *Player) answer(option int) error {
	current := p.session.CurrentIndex()
	if err := p.session.SelectAnswer(current, option); err != nil {
		if errors.Is(err, quiz.ErrIndexOutOfRange) {
			p.printf("Choose an option between 1 and %d.\n", len(p.session.Questions()[current].Options))
			return nil
		}
		return err
	}
	if current < len(p.session.Questions())-1 {
		return p.session.Navigate(quiz.Next)
	}
	return nil
}

func (p *Player) resultsTurn() (bool, error) {
	result, err := p.session.Score()
	if err != nil {
		return true, err
	}
	review, err := p.session.Review()
	if err != nil {
		return true, err
	}
	p.renderResults(result, review)

	for {
		line, ok := p.prompt("[r]etry or [q]uit: ")
		if !ok {
			return true, p.in.Err()
		}
		switch line {
		case "r", "retry":
			return false, p.session.Retry()
		case "q", "quit":
			return true, nil
		}
		p.printf("Unknown command %q\n", line)
	}
}

func (p *Player) renderQuestion() {
	snap := p.session.Snapshot()
	q := snap.Questions[snap.CurrentIndex]
	selected := snap.Answers[snap.CurrentIndex]

	p.printf("\n%s\n", p.style(fmt.Sprintf("Question %d of %d", snap.CurrentIndex+1, snap.Total), colorDim, false))
	p.printf("%s\n", p.style(q.Question, colorTitle, true))
	for i, opt := range q.Answers {
		line := fmt.Sprintf("  %d) %s", i+1, opt)
		if i == selected {
			p.printf("%s\n", p.style(line+" *", colorSelected, true))
			continue
		}
		p.printf("%s\n", line)
	}
	p.printf("%s\n", p.style(fmt.Sprintf("Answered %d of %d", snap.Answered, snap.Total), colorDim, false))
}

func (p *Player) renderResults(result quiz.Result, review []quiz.ReviewItem) {
	verdict, color := "Failed", colorWrong
	if result.Passed {
		verdict, color = "Passed", colorCorrect
	}
	p.printf("\n%s\n", p.style(fmt.Sprintf("Score: %d/%d (%d%%) %s",
		result.CorrectCount, result.Total, result.Percentage, verdict), color, true))

	for _, item := range review {
		mark, markColor := "x", colorWrong
		if item.Correct {
			mark, markColor = "+", colorCorrect
		}
		p.printf("%s %d. %s\n", p.style(mark, markColor, true), item.Index+1, item.Question)

		yours := item.SelectedAnswer
		if item.SelectedIndex == quiz.Unanswered {
			yours = "(no answer)"
		}
		p.printf("     Your answer: %s\n", yours)
		if !item.Correct {
			p.printf("     Correct answer: %s\n", item.CorrectAnswer)
		}
	}
}

// prompt prints label and reads one trimmed, lower-cased line. It reports
// false at end of input.
func (p *Player) prompt(label string) (string, bool) {
	p.printf("%s", label)
	if !p.in.Scan() {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(p.in.Text())), true
}

func (p *Player) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Player) style(text string, color lipgloss.Color, bold bool) string {
	if p.noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Bold(bold).Render(text)
}
