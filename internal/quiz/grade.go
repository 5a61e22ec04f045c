package quiz

import (
	"fmt"
	"math"

	"pdfquiz/internal/models"
)

// PassThreshold is the lowest percentage that passes a quiz.
const PassThreshold = 60

// Result is the outcome of a finished quiz.
type Result struct {
	CorrectCount int  `json:"correctCount"`
	Total        int  `json:"total"`
	Percentage   int  `json:"percentage"`
	Passed       bool `json:"passed"`
}

// ReviewItem shows one question after completion next to the user's answer.
type ReviewItem struct {
	Index          int    `json:"index"`
	Question       string `json:"question"`
	SelectedIndex  int    `json:"selectedIndex"`
	SelectedAnswer string `json:"selectedAnswer,omitempty"`
	CorrectIndex   int    `json:"correctIndex"`
	CorrectAnswer  string `json:"correctAnswer"`
	Correct        bool   `json:"correct"`
}

// Grade scores answers against questions. Unanswered questions count as
// incorrect. The percentage is rounded to the nearest integer.
func Grade(questions models.QuestionSet, answers []int) (Result, error) {
	total := len(questions)
	if total == 0 {
		return Result{}, ErrEmptyQuiz
	}
	if len(answers) != total {
		return Result{}, fmt.Errorf("%w: %d answers for %d questions", ErrInvalidQuestionSet, len(answers), total)
	}

	correct := 0
	for i, q := range questions {
		if answers[i] == q.CorrectIndex {
			correct++
		}
	}

	percentage := int(math.Round(float64(correct) / float64(total) * 100))
	return Result{
		CorrectCount: correct,
		Total:        total,
		Percentage:   percentage,
		Passed:       percentage >= PassThreshold,
	}, nil
}

func review(questions models.QuestionSet, answers []int) []ReviewItem {
	items := make([]ReviewItem, len(questions))
	for i, q := range questions {
		item := ReviewItem{
			Index:         i,
			Question:      q.Text,
			SelectedIndex: answers[i],
			CorrectIndex:  q.CorrectIndex,
			CorrectAnswer: q.Options[q.CorrectIndex],
			Correct:       answers[i] == q.CorrectIndex,
		}
		if answers[i] != Unanswered {
			item.SelectedAnswer = q.Options[answers[i]]
		}
		items[i] = item
	}
	return items
}
