package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizhub-service/internal/domain"
)

// QuizStore keeps each quiz as one JSONB document.
type QuizStore struct {
	pool *pgxpool.Pool
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

func (s *QuizStore) FindByTitle(ctx context.Context, title string) (domain.Quiz, error) {
	row := s.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE title=$1`, title)
	return scanQuiz(row, domain.ErrQuizNotFound, "find quiz by title")
}

func (s *QuizStore) FindByID(ctx context.Context, id string) (domain.Quiz, error) {
	row := s.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, id)
	return scanQuiz(row, domain.ErrQuizNotFound, "find quiz by id")
}

func (s *QuizStore) FindByQuestionID(ctx context.Context, questionID string) (domain.Quiz, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT data FROM quizzes WHERE data->'questions' @> jsonb_build_array(jsonb_build_object('id', $1::text)) LIMIT 1`,
		questionID)
	return scanQuiz(row, domain.ErrQuestionNotFound, "find quiz by question")
}

func (s *QuizStore) List(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM quizzes ORDER BY title`)
	if err != nil {
		return nil, domain.Persistence("list quizzes", err)
	}
	defer rows.Close()

	var out []domain.Quiz
	for rows.Next() {
		quiz, err := scanQuiz(rows, domain.ErrQuizNotFound, "list quizzes")
		if err != nil {
			return nil, err
		}
		out = append(out, quiz)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list quizzes", err)
	}
	return out, nil
}

func (s *QuizStore) Save(ctx context.Context, quiz domain.Quiz) error {
	raw, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO quizzes (id, title, data, updated_at) VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, data=EXCLUDED.data, updated_at=now()`,
		quiz.ID, quiz.Title, string(raw))
	if isUniqueViolation(err) {
		return domain.ErrQuizExists
	}
	return domain.Persistence("save quiz", err)
}

func scanQuiz(row pgx.Row, notFound error, op string) (domain.Quiz, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if isNoRows(err) {
			return domain.Quiz{}, notFound
		}
		return domain.Quiz{}, domain.Persistence(op, err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}
