package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"quizhub-service/internal/domain"
)

type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

func (s *ScoreStore) Find(ctx context.Context, userID, quizID string) (domain.ScoreRecord, error) {
	rec := domain.ScoreRecord{UserID: userID, QuizID: quizID}
	err := s.pool.QueryRow(ctx,
		`SELECT score, date FROM scores WHERE user_id=$1 AND quiz_id=$2`,
		userID, quizID).Scan(&rec.Score, &rec.Date)
	if isNoRows(err) {
		return domain.ScoreRecord{}, domain.ErrScoreNotFound
	}
	if err != nil {
		return domain.ScoreRecord{}, domain.Persistence("find score", err)
	}
	return rec, nil
}

// Upsert keeps one row per (user, quiz); the latest write wins.
func (s *ScoreStore) Upsert(ctx context.Context, rec domain.ScoreRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scores (user_id, quiz_id, score, date) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, quiz_id) DO UPDATE SET score=EXCLUDED.score, date=EXCLUDED.date`,
		rec.UserID, rec.QuizID, rec.Score, rec.Date)
	return domain.Persistence("upsert score", err)
}

func (s *ScoreStore) ListByUser(ctx context.Context, userID string) ([]domain.ScoreRecord, error) {
	return s.list(ctx, "list user scores",
		`SELECT user_id, quiz_id, score, date FROM scores WHERE user_id=$1 ORDER BY date DESC`, userID)
}

func (s *ScoreStore) ListByQuiz(ctx context.Context, quizID string) ([]domain.ScoreRecord, error) {
	return s.list(ctx, "list quiz scores",
		`SELECT user_id, quiz_id, score, date FROM scores WHERE quiz_id=$1 ORDER BY date DESC`, quizID)
}

func (s *ScoreStore) List(ctx context.Context) ([]domain.ScoreRecord, error) {
	return s.list(ctx, "list scores", `SELECT user_id, quiz_id, score, date FROM scores ORDER BY date DESC`)
}

func (s *ScoreStore) list(ctx context.Context, op, query string, args ...interface{}) ([]domain.ScoreRecord, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Persistence(op, err)
	}
	defer rows.Close()

	var out []domain.ScoreRecord
	for rows.Next() {
		var rec domain.ScoreRecord
		if err := rows.Scan(&rec.UserID, &rec.QuizID, &rec.Score, &rec.Date); err != nil {
			return nil, domain.Persistence(op, err)
		}
		rec.Date = rec.Date.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence(op, err)
	}
	return out, nil
}
