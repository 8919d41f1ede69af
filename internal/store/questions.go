package store

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zetaexams/internal/importer"
	models "zetaexams/internal/models"
	"zetaexams/internal/utility"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

type QuestionStore struct {
	coll *mongo.Collection
}

func NewQuestionStore(coll *mongo.Collection) *QuestionStore {
	return &QuestionStore{coll: coll}
}

func questionQuery(f models.QuestionFilter) bson.M {
	q := bson.M{}
	if f.Subject != "" {
		q["subject"] = f.Subject
	}
	if f.Chapter != "" {
		q["chapter"] = f.Chapter
	}
	return q
}

// List pages through the bank ordered by question id.
func (s *QuestionStore) List(ctx context.Context, f models.QuestionFilter, page, limit int) ([]models.Question, models.Pagination, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	query := questionQuery(f)

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, models.Pagination{}, wrap(err, "count questions")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "questionId", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, models.Pagination{}, wrap(err, "find questions")
	}
	questions, err := decodeAll[models.Question](ctx, cur)
	if err != nil {
		return nil, models.Pagination{}, wrap(err, "decode questions")
	}
	return questions, models.NewPagination(total, page, limit), nil
}

func (s *QuestionStore) Subjects(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "subject", bson.M{})
	if err != nil {
		return nil, wrap(err, "distinct subjects")
	}
	out := distinctStrings(values)
	sort.Strings(out)
	return out, nil
}

func (s *QuestionStore) Chapters(ctx context.Context, subject string) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "chapter", questionQuery(models.QuestionFilter{Subject: subject}))
	if err != nil {
		return nil, wrap(err, "distinct chapters")
	}
	out := distinctStrings(values)
	sort.Strings(out)
	return out, nil
}

// Find looks a question up by question id, or by serial number when
// questionID is empty.
func (s *QuestionStore) Find(ctx context.Context, questionID, serialNumber string) (*models.Question, error) {
	var query bson.M
	switch {
	case questionID != "":
		query = bson.M{"questionId": questionID}
	case serialNumber != "":
		query = bson.M{"serialNumber": serialNumber}
	default:
		return nil, utility.ErrValidation
	}
	var q models.Question
	if err := s.coll.FindOne(ctx, query).Decode(&q); err != nil {
		return nil, wrap(err, "find question")
	}
	return &q, nil
}

// MaxQuestionID returns the highest numeric question id, or 0 for an empty bank.
func (s *QuestionStore) MaxQuestionID(ctx context.Context) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "questionId", Value: -1}}).
		SetProjection(bson.M{"questionId": 1})
	var last models.Question
	err := s.coll.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, wrap(err, "last question id")
	}
	return importer.ParseQuestionID(last.QuestionID), nil
}

// CountByBuckets counts the existing questions of every bucket in a single
// aggregation. Buckets with no questions are absent from the result.
func (s *QuestionStore) CountByBuckets(ctx context.Context, buckets []importer.Bucket) (map[importer.Bucket]int, error) {
	out := make(map[importer.Bucket]int, len(buckets))
	if len(buckets) == 0 {
		return out, nil
	}
	or := make(bson.A, 0, len(buckets))
	for _, b := range buckets {
		or = append(or, bson.M{"subject": b.Subject, "chapter": b.Chapter})
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": or}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"subject": "$subject", "chapter": "$chapter"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrap(err, "count chapters")
	}
	rows, err := decodeAll[struct {
		ID struct {
			Subject string `bson:"subject"`
			Chapter string `bson:"chapter"`
		} `bson:"_id"`
		Count int `bson:"count"`
	}](ctx, cur)
	if err != nil {
		return nil, wrap(err, "decode chapter counts")
	}
	for _, r := range rows {
		out[importer.Bucket{Subject: r.ID.Subject, Chapter: r.ID.Chapter}] = r.Count
	}
	return out, nil
}

func (s *QuestionStore) InsertMany(ctx context.Context, questions []models.Question) (int, error) {
	docs := make([]interface{}, len(questions))
	for i := range questions {
		if questions[i].ID.IsZero() {
			questions[i].ID = primitive.NewObjectID()
		}
		docs[i] = questions[i]
	}
	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, wrap(err, "insert questions")
	}
	return len(res.InsertedIDs), nil
}

func (s *QuestionStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	var q models.Question
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		return nil, wrap(err, "get question")
	}
	return &q, nil
}

// Update applies the set fields of u and returns the updated question.
func (s *QuestionStore) Update(ctx context.Context, id primitive.ObjectID, u models.QuestionUpdate) (*models.Question, error) {
	set := u.Fields()
	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var q models.Question
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&q)
	if err != nil {
		return nil, wrap(err, "update question")
	}
	return &q, nil
}

// Delete removes a question and returns it as it was stored.
func (s *QuestionStore) Delete(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	var q models.Question
	if err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		return nil, wrap(err, "delete question")
	}
	return &q, nil
}
