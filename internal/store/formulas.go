package store

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "zetaexams/internal/models"
)

// FormulaStore holds at most one formula sheet per (subject, chapter); the
// unique index turns a second one into utility.ErrDuplicate.
type FormulaStore struct {
	coll *mongo.Collection
}

func NewFormulaStore(coll *mongo.Collection) *FormulaStore {
	return &FormulaStore{coll: coll}
}

func (s *FormulaStore) Get(ctx context.Context, subject, chapter string) (*models.Formula, error) {
	var f models.Formula
	if err := s.coll.FindOne(ctx, bson.M{"subject": subject, "chapter": chapter}).Decode(&f); err != nil {
		return nil, wrap(err, "find formula")
	}
	return &f, nil
}

func (s *FormulaStore) All(ctx context.Context) ([]models.Formula, error) {
	opts := options.Find().SetSort(bson.D{{Key: "subject", Value: 1}, {Key: "chapter", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrap(err, "list formulas")
	}
	formulas, err := decodeAll[models.Formula](ctx, cur)
	return formulas, wrap(err, "decode formulas")
}

func (s *FormulaStore) Subjects(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "subject", bson.M{})
	if err != nil {
		return nil, wrap(err, "distinct formula subjects")
	}
	out := distinctStrings(values)
	sort.Strings(out)
	return out, nil
}

func (s *FormulaStore) Chapters(ctx context.Context, subject string) ([]string, error) {
	filter := bson.M{}
	if subject != "" {
		filter["subject"] = subject
	}
	values, err := s.coll.Distinct(ctx, "chapter", filter)
	if err != nil {
		return nil, wrap(err, "distinct formula chapters")
	}
	out := distinctStrings(values)
	sort.Strings(out)
	return out, nil
}

func (s *FormulaStore) Create(ctx context.Context, f *models.Formula) error {
	now := time.Now()
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	f.CreatedAt, f.UpdatedAt = now, now
	_, err := s.coll.InsertOne(ctx, f)
	return wrap(err, "create formula")
}

func (s *FormulaStore) Update(ctx context.Context, id primitive.ObjectID, u models.FormulaUpdate) (*models.Formula, error) {
	set := u.Fields()
	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var f models.Formula
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&f); err != nil {
		return nil, wrap(err, "update formula")
	}
	return &f, nil
}

// Delete removes a formula and returns it so its PDF can be cleaned up.
func (s *FormulaStore) Delete(ctx context.Context, id primitive.ObjectID) (*models.Formula, error) {
	var f models.Formula
	if err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return nil, wrap(err, "delete formula")
	}
	return &f, nil
}
