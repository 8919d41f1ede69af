package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "zetaexams/internal/models"
)

type MockTestStore struct {
	coll *mongo.Collection
}

func NewMockTestStore(coll *mongo.Collection) *MockTestStore {
	return &MockTestStore{coll: coll}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// List returns every test without its questions, newest first.
func (s *MockTestStore) List(ctx context.Context) ([]models.MockTest, error) {
	opts := options.Find().
		SetProjection(bson.M{"questions": 0}).
		SetSort(newestFirst)
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrap(err, "list mock tests")
	}
	tests, err := decodeAll[models.MockTest](ctx, cur)
	return tests, wrap(err, "decode mock tests")
}

// AdminList returns one row per test with the stored question count.
func (s *MockTestStore) AdminList(ctx context.Context) ([]models.MockTestAdminSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"testName":      1,
			"duration":      1,
			"createdAt":     1,
			"questionCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$questions", bson.A{}}}},
		}}},
		{{Key: "$sort", Value: newestFirst}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrap(err, "list mock tests")
	}
	rows, err := decodeAll[models.MockTestAdminSummary](ctx, cur)
	return rows, wrap(err, "decode mock tests")
}

func (s *MockTestStore) Get(ctx context.Context, id primitive.ObjectID) (*models.MockTest, error) {
	var t models.MockTest
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, wrap(err, "find mock test")
	}
	return &t, nil
}

// Create inserts the whole test, questions included, in one write.
func (s *MockTestStore) Create(ctx context.Context, t *models.MockTest) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, t)
	return wrap(err, "create mock test")
}

func (s *MockTestStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "delete mock test")
	}
	if res.DeletedCount == 0 {
		return wrap(mongo.ErrNoDocuments, "delete mock test")
	}
	return nil
}
