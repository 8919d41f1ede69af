package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "zetaexams/internal/models"
)

type AdminStore struct {
	coll *mongo.Collection
}

func NewAdminStore(coll *mongo.Collection) *AdminStore {
	return &AdminStore{coll: coll}
}

func (s *AdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	if err := s.coll.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&a); err != nil {
		return nil, wrap(err, "find admin")
	}
	return &a, nil
}

func (s *AdminStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var a models.Admin
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, wrap(err, "find admin")
	}
	return &a, nil
}

func (s *AdminStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	return n, wrap(err, "count admins")
}

// Create stores an admin whose Password is already hashed.
func (s *AdminStore) Create(ctx context.Context, a *models.Admin) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.Created_at = time.Now()
	_, err := s.coll.InsertOne(ctx, a)
	return wrap(err, "create admin")
}
