package store

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "zetaexams/internal/models"
)

// AttemptStore is append only: attempts are recorded and removed with their
// test, never edited.
type AttemptStore struct {
	coll *mongo.Collection
}

func NewAttemptStore(coll *mongo.Collection) *AttemptStore {
	return &AttemptStore{coll: coll}
}

func (s *AttemptStore) Record(ctx context.Context, a *models.Attempt) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, a)
	return wrap(err, "record attempt")
}

// DeleteForTest removes every attempt of a test and reports how many went.
func (s *AttemptStore) DeleteForTest(ctx context.Context, testID primitive.ObjectID) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"testId": testID})
	if err != nil {
		return 0, wrap(err, "delete attempts")
	}
	return res.DeletedCount, nil
}

func (s *AttemptStore) ListForTest(ctx context.Context, testID primitive.ObjectID) ([]models.Attempt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{"testId": testID}, opts)
	if err != nil {
		return nil, wrap(err, "list attempts")
	}
	attempts, err := decodeAll[models.Attempt](ctx, cur)
	return attempts, wrap(err, "decode attempts")
}

// Stats aggregates the attempts of a test. A test nobody attempted yields
// zero values.
func (s *AttemptStore) Stats(ctx context.Context, testID primitive.ObjectID) (models.AttemptStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"testId": testID}}},
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"attempts":     bson.M{"$sum": 1},
			"highestScore": bson.M{"$max": "$score"},
			"averageScore": bson.M{"$avg": "$score"},
			"averageTime":  bson.M{"$avg": "$timeTaken"},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.AttemptStats{}, wrap(err, "aggregate attempts")
	}
	rows, err := decodeAll[models.AttemptStats](ctx, cur)
	if err != nil || len(rows) == 0 {
		return models.AttemptStats{}, wrap(err, "decode attempt stats")
	}
	stats := rows[0]
	stats.AverageScore = round2(stats.AverageScore)
	stats.AverageTime = round2(stats.AverageTime)
	return stats, nil
}

// Rank places score among the attempts of a test: one more than the number
// of attempts that scored strictly higher, so ties share a rank.
func (s *AttemptStore) Rank(ctx context.Context, testID primitive.ObjectID, score float64) (int64, error) {
	above, err := s.coll.CountDocuments(ctx, bson.M{"testId": testID, "score": bson.M{"$gt": score}})
	if err != nil {
		return 0, wrap(err, "rank attempt")
	}
	return above + 1, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
