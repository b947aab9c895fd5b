package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizhub-service/internal/app"
	"quizhub-service/internal/domain"
	"quizhub-service/internal/infra/memory"
)

const seedYAML = `
quizzes:
  - title: Geo101
    questions:
      - question: Which are continents?
        questionType: multiple-choice
        options: [Asia, Africa, Paris]
        correctAnswer: [Asia, Africa]
      - question: The Nile is in Africa.
        questionType: true-false
        options: ["True", "False"]
        correctAnswer: "True"
`

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizzes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	quizzes, err := loadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	require.Len(t, quizzes[0].Questions, 2)

	mc := quizzes[0].Questions[0]
	assert.Equal(t, domain.MultipleChoice, mc.Type)
	assert.True(t, mc.CorrectAnswer.IsSet())
	assert.Equal(t, []string{"Asia", "Africa"}, mc.CorrectAnswer.Values())

	tf := quizzes[0].Questions[1]
	v, ok := tf.CorrectAnswer.ScalarValue()
	assert.True(t, ok)
	assert.Equal(t, "True", v)

	log, _ := logtest.NewNullLogger()
	service := app.NewQuizService(memory.NewQuizStore(), log)
	_, created, err := service.AddQuestions(context.Background(), quizzes[0].Title, quizzes[0].Questions)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestLoadSeedFileErrors(t *testing.T) {
	_, err := loadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quizzes: [unclosed"), 0o600))
	_, err = loadSeedFile(path)
	assert.Error(t, err)
}

func TestSampleConfigSeedParses(t *testing.T) {
	quizzes, err := loadSeedFile(filepath.Join("..", "..", "config", "quizzes.yaml"))
	require.NoError(t, err)
	for _, q := range quizzes {
		for _, question := range q.Questions {
			assert.NoError(t, domain.ValidateQuestion(question), question.Prompt)
		}
	}
}
