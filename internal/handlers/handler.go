package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"zetaexams/internal/importer"
	models "zetaexams/internal/models"
	"zetaexams/internal/utility"
)

var validate = validator.New()

type QuestionStore interface {
	importer.QuestionBank
	List(ctx context.Context, f models.QuestionFilter, page, limit int) ([]models.Question, models.Pagination, error)
	Subjects(ctx context.Context) ([]string, error)
	Chapters(ctx context.Context, subject string) ([]string, error)
	Find(ctx context.Context, questionID, serialNumber string) (*models.Question, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Question, error)
	Update(ctx context.Context, id primitive.ObjectID, u models.QuestionUpdate) (*models.Question, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Question, error)
}

type MockTestStore interface {
	List(ctx context.Context) ([]models.MockTest, error)
	AdminList(ctx context.Context) ([]models.MockTestAdminSummary, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.MockTest, error)
	Create(ctx context.Context, t *models.MockTest) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AttemptStore interface {
	Record(ctx context.Context, a *models.Attempt) error
	DeleteForTest(ctx context.Context, testID primitive.ObjectID) (int64, error)
	ListForTest(ctx context.Context, testID primitive.ObjectID) ([]models.Attempt, error)
	Stats(ctx context.Context, testID primitive.ObjectID) (models.AttemptStats, error)
	Rank(ctx context.Context, testID primitive.ObjectID, score float64) (int64, error)
}

type FormulaStore interface {
	Get(ctx context.Context, subject, chapter string) (*models.Formula, error)
	All(ctx context.Context) ([]models.Formula, error)
	Subjects(ctx context.Context) ([]string, error)
	Chapters(ctx context.Context, subject string) ([]string, error)
	Create(ctx context.Context, f *models.Formula) error
	Update(ctx context.Context, id primitive.ObjectID, u models.FormulaUpdate) (*models.Formula, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Formula, error)
}

type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	Create(ctx context.Context, a *models.Admin) error
	Count(ctx context.Context) (int64, error)
}

// Handler serves the REST API. Files may be nil, which disables uploads.
type Handler struct {
	Questions QuestionStore
	MockTests MockTestStore
	Attempts  AttemptStore
	Formulas  FormulaStore
	Admins    AdminStore
	Files     utility.FileStore
	Tokens    *utility.TokenManager
	Now       func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// decodeJSON reads r's body into v and runs its validate tags.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", utility.ErrValidation)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%v: %w", err, utility.ErrValidation)
	}
	return nil
}

func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
