package memory

import (
	"context"
	"sort"
	"sync"

	"quizhub-service/internal/domain"
)

type scoreKey struct {
	userID string
	quizID string
}

// ScoreStore is an in-memory implementation of app.ScoreStore.
type ScoreStore struct {
	mu     sync.RWMutex
	scores map[scoreKey]domain.ScoreRecord
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{scores: make(map[scoreKey]domain.ScoreRecord)}
}

func (s *ScoreStore) Find(_ context.Context, userID, quizID string) (domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.scores[scoreKey{userID, quizID}]
	if !ok {
		return domain.ScoreRecord{}, domain.ErrScoreNotFound
	}
	return rec, nil
}

func (s *ScoreStore) Upsert(_ context.Context, rec domain.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[scoreKey{rec.UserID, rec.QuizID}] = rec
	return nil
}

func (s *ScoreStore) ListByUser(_ context.Context, userID string) ([]domain.ScoreRecord, error) {
	return s.filter(func(rec domain.ScoreRecord) bool { return rec.UserID == userID }), nil
}

func (s *ScoreStore) ListByQuiz(_ context.Context, quizID string) ([]domain.ScoreRecord, error) {
	return s.filter(func(rec domain.ScoreRecord) bool { return rec.QuizID == quizID }), nil
}

func (s *ScoreStore) List(_ context.Context) ([]domain.ScoreRecord, error) {
	return s.filter(func(domain.ScoreRecord) bool { return true }), nil
}

// filter returns matching records, newest first.
func (s *ScoreStore) filter(keep func(domain.ScoreRecord) bool) []domain.ScoreRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ScoreRecord, 0)
	for _, rec := range s.scores {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].QuizID < out[j].QuizID
	})
	return out
}
