package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizhub-service/internal/domain"
)

type ScoreStore struct {
	col *mongo.Collection
}

func NewScoreStore(db *mongo.Database) *ScoreStore {
	return &ScoreStore{col: db.Collection(scoresCollection)}
}

func (s *ScoreStore) Find(ctx context.Context, userID, quizID string) (domain.ScoreRecord, error) {
	var rec domain.ScoreRecord
	err := s.col.FindOne(ctx, bson.M{"user": userID, "quizId": quizID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ScoreRecord{}, domain.ErrScoreNotFound
	}
	if err != nil {
		return domain.ScoreRecord{}, domain.Persistence("find score", err)
	}
	rec.Date = rec.Date.UTC()
	return rec, nil
}

// Upsert keeps one document per (user, quiz); the latest write wins.
func (s *ScoreStore) Upsert(ctx context.Context, rec domain.ScoreRecord) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"user": rec.UserID, "quizId": rec.QuizID},
		bson.M{"$set": bson.M{"score": rec.Score, "date": rec.Date}},
		options.Update().SetUpsert(true),
	)
	return domain.Persistence("upsert score", err)
}

func (s *ScoreStore) ListByUser(ctx context.Context, userID string) ([]domain.ScoreRecord, error) {
	return s.list(ctx, bson.M{"user": userID})
}

func (s *ScoreStore) ListByQuiz(ctx context.Context, quizID string) ([]domain.ScoreRecord, error) {
	return s.list(ctx, bson.M{"quizId": quizID})
}

func (s *ScoreStore) List(ctx context.Context) ([]domain.ScoreRecord, error) {
	return s.list(ctx, bson.M{})
}

func (s *ScoreStore) list(ctx context.Context, filter bson.M) ([]domain.ScoreRecord, error) {
	cur, err := s.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, domain.Persistence("list scores", err)
	}
	var out []domain.ScoreRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, domain.Persistence("list scores", err)
	}
	for i := range out {
		out[i].Date = out[i].Date.UTC()
	}
	return out, nil
}
