package app

import (
	"sort"
	"strings"

	"quizhub-service/internal/domain"
)

const (
	feedbackCorrect      = "Your answer is correct!"
	feedbackWrongPattern = "Your answer is wrong! The correct answer is: "
)

// Grade scores a submission against a quiz. It is a pure function: the quiz
// and the answers are read, never modified.
//
// Questions without an entry in selected are skipped for scoring and get no
// feedback, but every question still contributes to CorrectAnswers.
// A scalar submission is compared with the first correct answer only, so a
// multiple-choice question accepts any single answer equal to its first
// correct option.
func Grade(quiz domain.Quiz, selected map[string]domain.Answer) domain.GradeResult {
	result := domain.GradeResult{
		Feedback:       make(map[string]string),
		CorrectAnswers: make([]domain.CorrectAnswer, 0, len(quiz.Questions)),
	}

	for _, question := range quiz.Questions {
		correct := question.CorrectAnswer.Values()
		result.CorrectAnswers = append(result.CorrectAnswers, domain.CorrectAnswer{
			QuestionID:    question.ID,
			CorrectAnswer: correct,
		})

		submitted, ok := selected[question.ID]
		if !ok || submitted.IsZero() {
			continue
		}

		if answerMatches(submitted, correct) {
			result.Score++
			result.Feedback[question.ID] = feedbackCorrect
		} else {
			result.Feedback[question.ID] = feedbackWrongPattern + question.CorrectAnswer.String()
		}
	}
	return result
}

func answerMatches(submitted domain.Answer, correct []string) bool {
	if submitted.IsSet() {
		return equalSorted(normalizeAll(submitted.Values()), normalizeAll(correct))
	}
	if len(correct) == 0 {
		return false
	}
	s, _ := submitted.ScalarValue()
	return normalize(s) == normalize(correct[0])
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeAll returns a sorted, normalized copy of values.
func normalizeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = normalize(v)
	}
	sort.Strings(out)
	return out
}

func equalSorted(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
