package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizhub-service/internal/domain"
)

func TestQuizStoreLookups(t *testing.T) {
	ctx := context.Background()
	store := NewQuizStore(sampleQuiz())

	byTitle, err := store.FindByTitle(ctx, "Geo101")
	require.NoError(t, err)
	assert.Equal(t, "quiz-1", byTitle.ID)

	byQuestion, err := store.FindByQuestionID(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "Geo101", byQuestion.Title)

	_, err = store.FindByQuestionID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)

	_, err = store.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrQuizNotFound)
}

func TestQuizStoreRejectsDuplicateTitle(t *testing.T) {
	store := NewQuizStore(sampleQuiz())
	err := store.Save(context.Background(), domain.Quiz{ID: "other", Title: "Geo101"})
	assert.ErrorIs(t, err, domain.ErrQuizExists)
}

func TestScoreStoreUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Upsert(ctx, domain.ScoreRecord{UserID: "u1", QuizID: "q", Score: 1, Date: t0}))
	require.NoError(t, store.Upsert(ctx, domain.ScoreRecord{UserID: "u1", QuizID: "q", Score: 3, Date: t0.Add(time.Hour)}))
	require.NoError(t, store.Upsert(ctx, domain.ScoreRecord{UserID: "u2", QuizID: "q", Score: 2, Date: t0}))

	rec, err := store.Find(ctx, "u1", "q")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Score)

	all, _ := store.List(ctx)
	assert.Len(t, all, 2)
	byUser, _ := store.ListByUser(ctx, "u1")
	assert.Len(t, byUser, 1)
	byQuiz, _ := store.ListByQuiz(ctx, "q")
	assert.Len(t, byQuiz, 2)

	_, err = store.Find(ctx, "u3", "q")
	assert.ErrorIs(t, err, domain.ErrScoreNotFound)
}

func TestUserStoreUniqueUsername(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	require.NoError(t, store.Create(ctx, domain.User{ID: "1", Username: "alice"}))
	assert.ErrorIs(t, store.Create(ctx, domain.User{ID: "2", Username: "alice"}), domain.ErrUserExists)

	u, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	_, err = store.FindByID(ctx, "2")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
