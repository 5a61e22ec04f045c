package quizgen

import (
	"fmt"

	"pdfquiz/internal/llm"
	"pdfquiz/internal/models"
)

// SystemPrompt sets the model's role for every generation request.
const SystemPrompt = `You are a quiz generator that only asks factual questions about the text you are given.`

// questionPromptTemplate takes the question count and the source text.
const questionPromptTemplate = `You are a quiz maker. Generate %d multiple choice questions based ONLY on the following text.

IMPORTANT RULES:
- Use ONLY information from the text below
- Do NOT make anything up
- Every correct answer must come literally from the text
- Give 3 wrong but plausible answers per question
- Make the questions clear and unambiguous

TEXT:
%s

Return the result as a JSON array in this format:
[
  {
    "question": "Question here?",
    "answers": ["Answer A", "Answer B", "Answer C", "Answer D"],
    "correctIndex": 0
  }
]

Return ONLY the JSON array, no other text.`

// BuildPrompt renders the user prompt for n questions about text.
func BuildPrompt(text string, n int) string {
	return fmt.Sprintf(questionPromptTemplate, n, text)
}

// questionItem is the JSON Schema of one generated question.
func questionItem(strict bool) map[string]any {
	question := map[string]any{"type": "string"}
	answer := map[string]any{"type": "string"}
	answers := map[string]any{"type": "array", "items": answer}
	correct := map[string]any{"type": "integer"}

	if strict {
		question["minLength"] = 1
		answer["minLength"] = 1
		answers["minItems"] = models.OptionCount
		answers["maxItems"] = models.OptionCount
		answers["uniqueItems"] = true
		correct["minimum"] = 0
		correct["maximum"] = models.OptionCount - 1
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":     question,
			"answers":      answers,
			"correctIndex": correct,
		},
		"required": []any{"question", "answers", "correctIndex"},
	}
}

// responseSchema is sent to providers with native structured output. It
// carries no constraint keywords since not every backend accepts them.
var responseSchema = &llm.Schema{
	Name:        "question-set",
	Description: "Multiple choice questions generated from the source text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": questionItem(false),
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// questionArraySchema is the strict shape every parsed reply must satisfy.
var questionArraySchema = &llm.Schema{
	Name: "question-array",
	Definition: map[string]any{
		"type":     "array",
		"minItems": 1,
		"items":    questionItem(true),
	},
}
