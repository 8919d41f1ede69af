package handlers

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"zetaexams/internal/importer"
	models "zetaexams/internal/models"
	"zetaexams/internal/utility"
)

type fakeQuestions struct {
	mu   sync.Mutex
	rows []models.Question
}

func (f *fakeQuestions) MaxQuestionID(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for _, q := range f.rows {
		if n := importer.ParseQuestionID(q.QuestionID); n > max {
			max = n
		}
	}
	return max, nil
}

func (f *fakeQuestions) CountByBuckets(_ context.Context, buckets []importer.Bucket) (map[importer.Bucket]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[importer.Bucket]int{}
	for _, b := range buckets {
		for _, q := range f.rows {
			if q.Subject == b.Subject && q.Chapter == b.Chapter {
				out[b]++
			}
		}
	}
	return out, nil
}

func (f *fakeQuestions) InsertMany(_ context.Context, qs []models.Question) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range qs {
		qs[i].ID = primitive.NewObjectID()
	}
	f.rows = append(f.rows, qs...)
	return len(qs), nil
}

func (f *fakeQuestions) matching(filter models.QuestionFilter) []models.Question {
	var out []models.Question
	for _, q := range f.rows {
		if (filter.Subject == "" || q.Subject == filter.Subject) && (filter.Chapter == "" || q.Chapter == filter.Chapter) {
			out = append(out, q)
		}
	}
	return out
}

func (f *fakeQuestions) List(_ context.Context, filter models.QuestionFilter, page, limit int) ([]models.Question, models.Pagination, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.matching(filter)
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], models.NewPagination(int64(len(all)), page, limit), nil
}

func (f *fakeQuestions) distinct(pick func(models.Question) string, filter models.QuestionFilter) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, q := range f.matching(filter) {
		if v := pick(q); !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func (f *fakeQuestions) Subjects(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.distinct(func(q models.Question) string { return q.Subject }, models.QuestionFilter{}), nil
}

func (f *fakeQuestions) Chapters(_ context.Context, subject string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.distinct(func(q models.Question) string { return q.Chapter }, models.QuestionFilter{Subject: subject}), nil
}

func (f *fakeQuestions) Find(_ context.Context, questionID, serial string) (*models.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.rows {
		if (questionID != "" && q.QuestionID == questionID) || (questionID == "" && q.SerialNumber == serial) {
			q := q
			return &q, nil
		}
	}
	return nil, utility.ErrNotFound
}

func (f *fakeQuestions) Get(_ context.Context, id primitive.ObjectID) (*models.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.rows {
		if q.ID == id {
			q := q
			return &q, nil
		}
	}
	return nil, utility.ErrNotFound
}

func (f *fakeQuestions) Update(_ context.Context, id primitive.ObjectID, u models.QuestionUpdate) (*models.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Apply(u)
			q := f.rows[i]
			return &q, nil
		}
	}
	return nil, utility.ErrNotFound
}

func (f *fakeQuestions) Delete(_ context.Context, id primitive.ObjectID) (*models.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			q := f.rows[i]
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return &q, nil
		}
	}
	return nil, utility.ErrNotFound
}

type fakeMockTests struct {
	mu    sync.Mutex
	tests map[primitive.ObjectID]*models.MockTest
}

func newFakeMockTests() *fakeMockTests {
	return &fakeMockTests{tests: map[primitive.ObjectID]*models.MockTest{}}
}

func (f *fakeMockTests) List(context.Context) ([]models.MockTest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.MockTest{}
	for _, t := range f.tests {
		c := *t
		c.Questions = nil
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMockTests) AdminList(context.Context) ([]models.MockTestAdminSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.MockTestAdminSummary{}
	for _, t := range f.tests {
		out = append(out, models.MockTestAdminSummary{ID: t.ID, TestName: t.TestName, TotalQuestions: len(t.Questions), Duration: t.Duration, CreatedAt: t.CreatedAt})
	}
	return out, nil
}

func (f *fakeMockTests) Get(_ context.Context, id primitive.ObjectID) (*models.MockTest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tests[id]
	if !ok {
		return nil, utility.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (f *fakeMockTests) Create(_ context.Context, t *models.MockTest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.tests {
		if existing.TestName == t.TestName {
			return utility.ErrDuplicate
		}
	}
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	c := *t
	f.tests[t.ID] = &c
	return nil
}

func (f *fakeMockTests) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tests[id]; !ok {
		return utility.ErrNotFound
	}
	delete(f.tests, id)
	return nil
}

type fakeAttempts struct {
	mu   sync.Mutex
	rows []models.Attempt
	err  error
}

func (f *fakeAttempts) Record(_ context.Context, a *models.Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	a.ID = primitive.NewObjectID()
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeAttempts) DeleteForTest(_ context.Context, testID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	var n int64
	for _, a := range f.rows {
		if a.TestID == testID {
			n++
			continue
		}
		kept = append(kept, a)
	}
	f.rows = kept
	return n, nil
}

func (f *fakeAttempts) ListForTest(_ context.Context, testID primitive.ObjectID) ([]models.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Attempt{}
	for _, a := range f.rows {
		if a.TestID == testID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttempts) Stats(_ context.Context, testID primitive.ObjectID) (models.AttemptStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats models.AttemptStats
	var total, minutes float64
	for _, a := range f.rows {
		if a.TestID != testID {
			continue
		}
		if stats.Attempts == 0 || a.Score > stats.HighestScore {
			stats.HighestScore = a.Score
		}
		stats.Attempts++
		total += a.Score
		minutes += float64(a.TimeTaken)
	}
	if stats.Attempts > 0 {
		stats.AverageScore = total / float64(stats.Attempts)
		stats.AverageTime = minutes / float64(stats.Attempts)
	}
	return stats, nil
}

func (f *fakeAttempts) Rank(_ context.Context, testID primitive.ObjectID, score float64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rank := int64(1)
	for _, a := range f.rows {
		if a.TestID == testID && a.Score > score {
			rank++
		}
	}
	return rank, nil
}

func (f *fakeAttempts) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeFormulas struct {
	mu   sync.Mutex
	rows []models.Formula
}

func (f *fakeFormulas) Get(_ context.Context, subject, chapter string) (*models.Formula, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.Subject == subject && r.Chapter == chapter {
			r := r
			return &r, nil
		}
	}
	return nil, utility.ErrNotFound
}

func (f *fakeFormulas) All(context.Context) ([]models.Formula, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Formula{}, f.rows...), nil
}

func (f *fakeFormulas) Subjects(context.Context) ([]string, error) { return []string{"Physics"}, nil }

func (f *fakeFormulas) Chapters(context.Context, string) ([]string, error) { return []string{"Optics"}, nil }

func (f *fakeFormulas) Create(_ context.Context, formula *models.Formula) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.Subject == formula.Subject && r.Chapter == formula.Chapter {
			return utility.ErrDuplicate
		}
	}
	formula.ID = primitive.NewObjectID()
	f.rows = append(f.rows, *formula)
	return nil
}

func (f *fakeFormulas) Update(_ context.Context, id primitive.ObjectID, u models.FormulaUpdate) (*models.Formula, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			if u.PdfURL != nil {
				f.rows[i].PdfURL = *u.PdfURL
			}
			r := f.rows[i]
			return &r, nil
		}
	}
	return nil, utility.ErrNotFound
}

func (f *fakeFormulas) Delete(_ context.Context, id primitive.ObjectID) (*models.Formula, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			r := f.rows[i]
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return &r, nil
		}
	}
	return nil, utility.ErrNotFound
}

type fakeAdmins struct {
	mu   sync.Mutex
	rows []models.Admin
}

func (f *fakeAdmins) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if a.Email == strings.ToLower(email) {
			a := a
			return &a, nil
		}
	}
	return nil, utility.ErrNotFound
}

func (f *fakeAdmins) FindByID(_ context.Context, id primitive.ObjectID) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, utility.ErrNotFound
}

func (f *fakeAdmins) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

func (f *fakeAdmins) Create(_ context.Context, a *models.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.Email = strings.ToLower(a.Email)
	for _, existing := range f.rows {
		if existing.Email == a.Email {
			return utility.ErrDuplicate
		}
	}
	a.ID = primitive.NewObjectID()
	f.rows = append(f.rows, *a)
	return nil
}

type fakeFiles struct {
	mu      sync.Mutex
	keys    []string
	deleted []string
}

func (f *fakeFiles) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return utility.PublicURL("https://cdn.zeta.test", key), nil
}

func (f *fakeFiles) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFiles) KeyOf(url string) (string, bool) {
	return utility.KeyFromURL("https://cdn.zeta.test", url)
}
