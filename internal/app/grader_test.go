package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizhub-service/internal/domain"
)

func geoQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-geo",
		Title: "Geo101",
		Questions: []domain.Question{
			{
				ID:            "Q1",
				Prompt:        "Which are continents?",
				Type:          domain.MultipleChoice,
				Options:       []string{"A", "B", "C"},
				CorrectAnswer: domain.Set("A", "B"),
			},
		},
	}
}

func mixedQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-mixed",
		Title: "Mixed",
		Questions: []domain.Question{
			{ID: "sc", Prompt: "Capital of France?", Type: domain.SingleChoice, Options: []string{"Paris", "Rome"}, CorrectAnswer: domain.Scalar("Paris")},
			{ID: "mc", Prompt: "Primes?", Type: domain.MultipleChoice, Options: []string{"2", "3", "4"}, CorrectAnswer: domain.Set("3", "2")},
			{ID: "tf", Prompt: "Water is wet", Type: domain.TrueFalse, Options: []string{"True", "False"}, CorrectAnswer: domain.Scalar("True")},
		},
	}
}

func TestGradeExampleScenarios(t *testing.T) {
	t.Run("unordered set with noise", func(t *testing.T) {
		res := Grade(geoQuiz(), map[string]domain.Answer{"Q1": domain.Set("b", " a ")})
		assert.Equal(t, 1, res.Score)
		assert.Equal(t, feedbackCorrect, res.Feedback["Q1"])
		assert.Equal(t, []domain.CorrectAnswer{{QuestionID: "Q1", CorrectAnswer: []string{"A", "B"}}}, res.CorrectAnswers)
	})

	t.Run("scalar against multiple-choice checks first answer only", func(t *testing.T) {
		res := Grade(geoQuiz(), map[string]domain.Answer{"Q1": domain.Scalar("A")})
		assert.Equal(t, 1, res.Score)
		assert.Equal(t, feedbackCorrect, res.Feedback["Q1"])

		res = Grade(geoQuiz(), map[string]domain.Answer{"Q1": domain.Scalar("B")})
		assert.Equal(t, 0, res.Score)
	})
}

func TestGradeComparison(t *testing.T) {
	tests := []struct {
		name     string
		question string
		answer   domain.Answer
		want     bool
	}{
		{"single exact", "sc", domain.Scalar("Paris"), true},
		{"single case and space", "sc", domain.Scalar("  pARIS "), true},
		{"single wrong", "sc", domain.Scalar("Rome"), false},
		{"single as one element set", "sc", domain.Set("paris"), true},
		{"single as two element set", "sc", domain.Set("paris", "rome"), false},
		{"multi exact", "mc", domain.Set("2", "3"), true},
		{"multi reversed", "mc", domain.Set("3", "2"), true},
		{"multi subset", "mc", domain.Set("2"), false},
		{"multi superset", "mc", domain.Set("2", "3", "4"), false},
		{"multi duplicate", "mc", domain.Set("2", "2"), false},
		{"multi scalar first correct", "mc", domain.Scalar("3"), true},
		{"multi scalar second correct", "mc", domain.Scalar("2"), false},
		{"multi empty set", "mc", domain.Set(), false},
		{"multi null element", "mc", domain.Set("2", ""), false},
		{"true-false padded", "tf", domain.Scalar(" True "), true},
		{"true-false lowercase", "tf", domain.Scalar("true"), true},
		{"true-false wrong", "tf", domain.Scalar("False"), false},
		{"arbitrary text", "tf", domain.Scalar("maybe"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Grade(mixedQuiz(), map[string]domain.Answer{tc.question: tc.answer})
			if tc.want {
				assert.Equal(t, 1, res.Score)
				assert.Equal(t, feedbackCorrect, res.Feedback[tc.question])
			} else {
				assert.Equal(t, 0, res.Score)
				assert.Contains(t, res.Feedback[tc.question], feedbackWrongPattern)
			}
			assert.Len(t, res.Feedback, 1)
		})
	}
}

func TestGradeWrongFeedbackNamesCorrectAnswer(t *testing.T) {
	res := Grade(mixedQuiz(), map[string]domain.Answer{
		"sc": domain.Scalar("Rome"),
		"mc": domain.Set("4"),
	})
	assert.Equal(t, feedbackWrongPattern+"Paris", res.Feedback["sc"])
	assert.Equal(t, feedbackWrongPattern+"3,2", res.Feedback["mc"])
}

func TestGradeUnansweredQuestions(t *testing.T) {
	res := Grade(mixedQuiz(), map[string]domain.Answer{
		"tf":      domain.Scalar("True"),
		"unknown": domain.Scalar("x"),
		"sc":      {},
	})

	assert.Equal(t, 1, res.Score)
	assert.Len(t, res.Feedback, 1)
	_, ok := res.Feedback["sc"]
	assert.False(t, ok, "unanswered question must not get feedback")

	require.Len(t, res.CorrectAnswers, 3)
	assert.Equal(t, "sc", res.CorrectAnswers[0].QuestionID)
	assert.Equal(t, []string{"Paris"}, res.CorrectAnswers[0].CorrectAnswer)
	assert.Equal(t, "mc", res.CorrectAnswers[1].QuestionID)
	assert.Equal(t, []string{"3", "2"}, res.CorrectAnswers[1].CorrectAnswer)
	assert.Equal(t, "tf", res.CorrectAnswers[2].QuestionID)
}

func TestGradeEmptySubmission(t *testing.T) {
	res := Grade(mixedQuiz(), nil)
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Feedback)
	assert.Len(t, res.CorrectAnswers, 3)
}

func TestGradeAllCorrect(t *testing.T) {
	res := Grade(mixedQuiz(), map[string]domain.Answer{
		"sc": domain.Scalar("paris"),
		"mc": domain.Set("2", "3"),
		"tf": domain.Scalar("TRUE"),
	})
	assert.Equal(t, 3, res.Score)
}

func TestGradeIsDeterministicAndDoesNotMutateInput(t *testing.T) {
	quiz := mixedQuiz()
	answers := map[string]domain.Answer{
		"sc": domain.Scalar("Rome"),
		"mc": domain.Set("3", "2"),
	}

	first := Grade(quiz, answers)
	second := Grade(quiz, answers)
	assert.Equal(t, first, second)

	assert.Equal(t, mixedQuiz(), quiz)
	assert.Equal(t, []string{"3", "2"}, answers["mc"].Values())
}

func TestGradeScoreBounds(t *testing.T) {
	quiz := mixedQuiz()
	candidates := []domain.Answer{
		domain.Scalar("Paris"), domain.Scalar("2"), domain.Scalar("3"),
		domain.Set("2", "3"), domain.Scalar("True"), domain.Set(), domain.Scalar(""),
	}
	for _, sc := range candidates {
		for _, mc := range candidates {
			for _, tf := range candidates {
				res := Grade(quiz, map[string]domain.Answer{"sc": sc, "mc": mc, "tf": tf})
				assert.GreaterOrEqual(t, res.Score, 0)
				assert.LessOrEqual(t, res.Score, len(quiz.Questions))
				assert.Len(t, res.CorrectAnswers, len(quiz.Questions))
			}
		}
	}
}
