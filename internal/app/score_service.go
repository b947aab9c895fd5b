package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"quizhub-service/internal/domain"
)

// ScoreService grades submissions and manages the resulting score records.
type ScoreService struct {
	quizzes QuizStore
	scores  ScoreStore
	users   UserStore
	hub     *LeaderboardHub
	now     func() time.Time
	log     logrus.FieldLogger
}

func NewScoreService(quizzes QuizStore, scores ScoreStore, users UserStore, hub *LeaderboardHub, log logrus.FieldLogger) *ScoreService {
	return NewScoreServiceWithClock(quizzes, scores, users, hub, log, time.Now)
}

// NewScoreServiceWithClock allows deterministic timestamps in tests.
func NewScoreServiceWithClock(quizzes QuizStore, scores ScoreStore, users UserStore, hub *LeaderboardHub, log logrus.FieldLogger, now func() time.Time) *ScoreService {
	return &ScoreService{
		quizzes: quizzes,
		scores:  scores,
		users:   users,
		hub:     hub,
		now:     now,
		log:     log,
	}
}

// Submit grades the submission and stores the score, replacing any earlier
// score of the same user on the same quiz. Nothing is written when grading
// inputs cannot be resolved.
func (s *ScoreService) Submit(ctx context.Context, sub domain.Submission) (domain.GradeResult, error) {
	if strings.TrimSpace(sub.UserID) == "" || strings.TrimSpace(sub.QuizTitle) == "" || sub.SelectedAnswers == nil {
		return domain.GradeResult{}, domain.Invalid("", "Invalid data format")
	}

	if _, err := s.users.FindByID(ctx, sub.UserID); err != nil {
		return domain.GradeResult{}, err
	}
	quiz, err := s.quizzes.FindByTitle(ctx, sub.QuizTitle)
	if err != nil {
		return domain.GradeResult{}, err
	}

	result := Grade(quiz, sub.AnswerMap())

	// Read-then-write without a lock: concurrent submissions for the same
	// pair race and the last write wins.
	_, err = s.scores.Find(ctx, sub.UserID, quiz.ID)
	created := errors.Is(err, domain.ErrScoreNotFound)
	if err != nil && !created {
		return domain.GradeResult{}, err
	}
	rec := domain.ScoreRecord{
		UserID: sub.UserID,
		QuizID: quiz.ID,
		Score:  result.Score,
		Date:   s.now().UTC(),
	}
	if err := s.scores.Upsert(ctx, rec); err != nil {
		return domain.GradeResult{}, err
	}

	s.log.WithFields(logrus.Fields{
		"user":    sub.UserID,
		"quiz":    quiz.Title,
		"score":   result.Score,
		"of":      len(quiz.Questions),
		"created": created,
	}).Info("quiz submitted")

	s.publish(ctx, quiz)
	return result, nil
}

func (s *ScoreService) publish(ctx context.Context, quiz domain.Quiz) {
	if s.hub == nil || s.hub.Subscribers(quiz.Title) == 0 {
		return
	}
	lb, err := s.leaderboard(ctx, quiz)
	if err != nil {
		s.log.WithError(err).WithField("quiz", quiz.Title).Warn("leaderboard refresh failed")
		return
	}
	s.hub.Publish(lb)
}

// UserScores lists every score of one user.
func (s *ScoreService) UserScores(ctx context.Context, userID string) ([]domain.ScoreView, error) {
	records, err := s.scores.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, records)
}

// AllScores lists every stored score.
func (s *ScoreService) AllScores(ctx context.Context) ([]domain.ScoreView, error) {
	records, err := s.scores.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, records)
}

// Leaderboard returns the ordered scoreboard of a quiz.
func (s *ScoreService) Leaderboard(ctx context.Context, quizTitle string) (domain.Leaderboard, error) {
	quiz, err := s.quizzes.FindByTitle(ctx, quizTitle)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return s.leaderboard(ctx, quiz)
}

// Subscribe returns a channel of leaderboard snapshots for a quiz, starting
// with the current one. The caller must invoke cancel.
func (s *ScoreService) Subscribe(ctx context.Context, quizTitle string) (<-chan domain.Leaderboard, func(), error) {
	lb, err := s.Leaderboard(ctx, quizTitle)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.Subscribe(lb.QuizTitle, lb)
	return ch, cancel, nil
}

func (s *ScoreService) leaderboard(ctx context.Context, quiz domain.Quiz) (domain.Leaderboard, error) {
	records, err := s.scores.ListByQuiz(ctx, quiz.ID)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	names := make(map[string]string)
	entries := make([]domain.LeaderboardEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:   rec.UserID,
			Username: s.username(ctx, names, rec.UserID),
			Score:    rec.Score,
			Date:     rec.Date,
		})
	}
	sortLeaderboard(entries)
	return domain.Leaderboard{QuizTitle: quiz.Title, Entries: entries, UpdatedAt: s.now().UTC()}, nil
}

// views joins records with usernames and quiz titles. Dangling references
// keep empty names. An empty listing is ErrScoreNotFound.
func (s *ScoreService) views(ctx context.Context, records []domain.ScoreRecord) ([]domain.ScoreView, error) {
	if len(records) == 0 {
		return nil, domain.ErrScoreNotFound
	}
	names := make(map[string]string)
	titles := make(map[string]string)
	out := make([]domain.ScoreView, 0, len(records))
	for _, rec := range records {
		title, ok := titles[rec.QuizID]
		if !ok {
			if quiz, err := s.quizzes.FindByID(ctx, rec.QuizID); err == nil {
				title = quiz.Title
			}
			titles[rec.QuizID] = title
		}
		out = append(out, domain.ScoreView{
			ScoreRecord: rec,
			Username:    s.username(ctx, names, rec.UserID),
			QuizTitle:   title,
		})
	}
	return out, nil
}

func (s *ScoreService) username(ctx context.Context, cache map[string]string, userID string) string {
	if name, ok := cache[userID]; ok {
		return name
	}
	var name string
	if user, err := s.users.FindByID(ctx, userID); err == nil {
		name = user.Username
	}
	cache[userID] = name
	return name
}
