package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizhub-service/internal/domain"
)

// QuizStore keeps one document per quiz with its questions embedded.
type QuizStore struct {
	col *mongo.Collection
}

func NewQuizStore(db *mongo.Database) *QuizStore {
	return &QuizStore{col: db.Collection(quizzesCollection)}
}

func (s *QuizStore) FindByTitle(ctx context.Context, title string) (domain.Quiz, error) {
	return s.findOne(ctx, bson.M{"title": title}, domain.ErrQuizNotFound)
}

func (s *QuizStore) FindByID(ctx context.Context, id string) (domain.Quiz, error) {
	return s.findOne(ctx, bson.M{"_id": id}, domain.ErrQuizNotFound)
}

func (s *QuizStore) FindByQuestionID(ctx context.Context, questionID string) (domain.Quiz, error) {
	return s.findOne(ctx, bson.M{"questions.id": questionID}, domain.ErrQuestionNotFound)
}

func (s *QuizStore) findOne(ctx context.Context, filter bson.M, notFound error) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := s.col.FindOne(ctx, filter).Decode(&quiz)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Quiz{}, notFound
	}
	if err != nil {
		return domain.Quiz{}, domain.Persistence("find quiz", err)
	}
	return quiz, nil
}

func (s *QuizStore) List(ctx context.Context) ([]domain.Quiz, error) {
	cur, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, domain.Persistence("list quizzes", err)
	}
	var out []domain.Quiz
	if err := cur.All(ctx, &out); err != nil {
		return nil, domain.Persistence("list quizzes", err)
	}
	return out, nil
}

func (s *QuizStore) Save(ctx context.Context, quiz domain.Quiz) error {
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": quiz.ID}, quiz, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrQuizExists
	}
	return domain.Persistence("save quiz", err)
}
