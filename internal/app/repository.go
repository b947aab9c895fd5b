package app

import (
	"context"

	"quizhub-service/internal/domain"
)

// QuizStore persists quizzes (memory, Postgres, Mongo, or a cache in front of one).
type QuizStore interface {
	FindByTitle(ctx context.Context, title string) (domain.Quiz, error)
	FindByID(ctx context.Context, id string) (domain.Quiz, error)
	// FindByQuestionID returns the quiz that owns the question.
	FindByQuestionID(ctx context.Context, questionID string) (domain.Quiz, error)
	List(ctx context.Context) ([]domain.Quiz, error)
	// Save inserts the quiz or replaces the stored quiz with the same ID.
	Save(ctx context.Context, quiz domain.Quiz) error
}

// ScoreStore persists one ScoreRecord per (user, quiz).
type ScoreStore interface {
	Find(ctx context.Context, userID, quizID string) (domain.ScoreRecord, error)
	Upsert(ctx context.Context, rec domain.ScoreRecord) error
	ListByUser(ctx context.Context, userID string) ([]domain.ScoreRecord, error)
	ListByQuiz(ctx context.Context, quizID string) ([]domain.ScoreRecord, error)
	List(ctx context.Context) ([]domain.ScoreRecord, error)
}

// UserStore persists accounts. Usernames are unique.
type UserStore interface {
	Create(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
}
