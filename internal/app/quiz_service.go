package app

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"quizhub-service/internal/domain"
)

// QuizService contains the admin quiz use cases.
type QuizService struct {
	quizzes QuizStore
	newID   func() string
	log     logrus.FieldLogger
}

func NewQuizService(quizzes QuizStore, log logrus.FieldLogger) *QuizService {
	return &QuizService{quizzes: quizzes, newID: uuid.NewString, log: log}
}

// AddQuestions appends questions to the quiz with the given title, creating
// the quiz when it does not exist yet. Every question is validated before
// anything is written; created reports whether a new quiz was made.
func (s *QuizService) AddQuestions(ctx context.Context, title string, questions []domain.Question) (quiz domain.Quiz, created bool, err error) {
	title = strings.TrimSpace(title)
	if title == "" || len(questions) == 0 {
		return domain.Quiz{}, false, domain.Invalid("", "Title and questions are required")
	}

	fresh := make([]domain.Question, len(questions))
	for i, q := range questions {
		q.ID = s.newID()
		if err := domain.ValidateQuestion(q); err != nil {
			return domain.Quiz{}, false, err
		}
		fresh[i] = q
	}

	quiz, err = s.quizzes.FindByTitle(ctx, title)
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		quiz = domain.Quiz{ID: s.newID(), Title: title}
		created = true
	case err != nil:
		return domain.Quiz{}, false, err
	}

	quiz.Questions = append(quiz.Questions, fresh...)
	if err := s.quizzes.Save(ctx, quiz); err != nil {
		return domain.Quiz{}, false, err
	}

	s.log.WithFields(logrus.Fields{
		"quiz":    quiz.Title,
		"added":   len(fresh),
		"created": created,
	}).Info("quiz questions added")
	return quiz, created, nil
}

// List returns every stored quiz.
func (s *QuizService) List(ctx context.Context) ([]domain.Quiz, error) {
	return s.quizzes.List(ctx)
}

// ListIDs returns the id of every stored quiz.
func (s *QuizService) ListIDs(ctx context.Context) ([]string, error) {
	quizzes, err := s.quizzes.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(quizzes))
	for _, q := range quizzes {
		ids = append(ids, q.ID)
	}
	return ids, nil
}

func (s *QuizService) GetByTitle(ctx context.Context, title string) (domain.Quiz, error) {
	return s.quizzes.FindByTitle(ctx, title)
}

// EditQuestion replaces the question with the given id in place. The id is
// kept; everything else comes from q and must pass validation.
func (s *QuizService) EditQuestion(ctx context.Context, id string, q domain.Question) (domain.Quiz, error) {
	if id == "" {
		return domain.Quiz{}, domain.Invalid("id", "question id is required")
	}
	q.ID = id
	if err := domain.ValidateQuestion(q); err != nil {
		return domain.Quiz{}, err
	}

	quiz, err := s.quizzes.FindByQuestionID(ctx, id)
	if err != nil {
		return domain.Quiz{}, err
	}
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == id {
			quiz.Questions[i] = q
		}
	}
	if err := s.quizzes.Save(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}

	s.log.WithFields(logrus.Fields{"quiz": quiz.Title, "question": id}).Info("quiz question updated")
	return quiz, nil
}

// DeleteQuestion removes the question with the given id from its quiz.
func (s *QuizService) DeleteQuestion(ctx context.Context, id string) error {
	quiz, err := s.quizzes.FindByQuestionID(ctx, id)
	if err != nil {
		return err
	}
	kept := make([]domain.Question, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	quiz.Questions = kept
	if err := s.quizzes.Save(ctx, quiz); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"quiz": quiz.Title, "question": id}).Info("quiz question deleted")
	return nil
}
