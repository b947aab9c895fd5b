package memory

import (
	"context"
	"sort"
	"sync"

	"quizhub-service/internal/domain"
)

// QuizStore is an in-memory implementation of app.QuizStore (useful for tests/demos).
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
}

func NewQuizStore(seed ...domain.Quiz) *QuizStore {
	s := &QuizStore{quizzes: make(map[string]domain.Quiz)}
	for _, q := range seed {
		s.quizzes[q.ID] = q.Clone()
	}
	return s
}

func (s *QuizStore) FindByTitle(_ context.Context, title string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.quizzes {
		if q.Title == title {
			return q.Clone(), nil
		}
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (s *QuizStore) FindByID(_ context.Context, id string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if q, ok := s.quizzes[id]; ok {
		return q.Clone(), nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (s *QuizStore) FindByQuestionID(_ context.Context, questionID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.quizzes {
		if _, ok := q.QuestionByID(questionID); ok {
			return q.Clone(), nil
		}
	}
	return domain.Quiz{}, domain.ErrQuestionNotFound
}

func (s *QuizStore) List(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quiz, 0, len(s.quizzes))
	for _, q := range s.quizzes {
		out = append(out, q.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *QuizStore) Save(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, q := range s.quizzes {
		if q.Title == quiz.Title && id != quiz.ID {
			return domain.ErrQuizExists
		}
	}
	s.quizzes[quiz.ID] = quiz.Clone()
	return nil
}
