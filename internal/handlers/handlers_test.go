package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	models "zetaexams/internal/models"
	"zetaexams/internal/utility"
)

func TestMain(m *testing.M) {
	utility.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type apiEnv struct {
	h         *Handler
	server    http.Handler
	questions *fakeQuestions
	tests     *fakeMockTests
	attempts  *fakeAttempts
	formulas  *fakeFormulas
	admins    *fakeAdmins
	token     string
}

func newEnv(t *testing.T) *apiEnv {
	t.Helper()
	e := &apiEnv{
		questions: &fakeQuestions{},
		tests:     newFakeMockTests(),
		attempts:  &fakeAttempts{},
		formulas:  &fakeFormulas{},
		admins:    &fakeAdmins{},
	}
	e.h = &Handler{
		Questions: e.questions,
		MockTests: e.tests,
		Attempts:  e.attempts,
		Formulas:  e.formulas,
		Admins:    e.admins,
		Tokens:    utility.NewTokenManager("test-secret", time.Hour),
		Now:       func() time.Time { return time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC) },
	}
	e.server = e.h.Routes([]string{"*"}, 0)

	admin := &models.Admin{Email: "root@zeta.io"}
	require.NoError(t, e.admins.Create(context.Background(), admin))
	token, err := e.h.Tokens.GenerateAdminToken(admin.ID.Hex(), admin.Email)
	require.NoError(t, err)
	e.token = token
	return e
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *apiEnv) do(t *testing.T, method, path string, body interface{}, auth bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func data[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func (e *apiEnv) seedTest(t *testing.T, name string, correct ...models.Option) *models.MockTest {
	t.Helper()
	test := &models.MockTest{TestName: name, Duration: 60, Marking: models.DefaultMarking(), TotalQuestions: len(correct)}
	for i, c := range correct {
		test.Questions = append(test.Questions, models.MockTestQuestion{
			SerialNumber:  i + 1,
			Question:      "Q",
			Choices:       models.Choices{OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d"},
			CorrectOption: c,
		})
	}
	require.NoError(t, e.tests.Create(context.Background(), test))
	return test
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	rec, env := e.do(t, "GET", "/", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Version, data[map[string]string](t, env)["version"])
}

func TestAdminAuthFlow(t *testing.T) {
	e := newEnv(t)
	e.admins.rows = nil
	creds := map[string]string{"email": "ops@zeta.io", "password": "sup3rsecret"}

	rec, env := e.do(t, "POST", "/api/auth/setup", creds, false)
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)

	rec, env = e.do(t, "POST", "/api/auth/setup", creds, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Admin already exists", env.Message)

	rec, env = e.do(t, "POST", "/api/auth/login", creds, false)
	require.Equal(t, http.StatusOK, rec.Code)
	login := data[struct {
		Token string `json:"token"`
		Admin struct {
			Email string `json:"email"`
		} `json:"admin"`
	}](t, env)
	assert.Equal(t, "ops@zeta.io", login.Admin.Email)
	require.NotEmpty(t, login.Token)

	e.token = login.Token
	rec, _ = e.do(t, "GET", "/api/auth/verify", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminSetupAfterBootstrap(t *testing.T) {
	e := newEnv(t)
	intruder := map[string]string{"email": "intruder@evil.io", "password": "letmein123"}

	rec, env := e.do(t, "POST", "/api/auth/setup", intruder, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Setup is complete, an admin token is required", env.Message)

	rec, _ = e.do(t, "POST", "/api/auth/login", intruder, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := e.token
	e.token = "garbage"
	rec, _ = e.do(t, "POST", "/api/auth/setup", intruder, true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Len(t, e.admins.rows, 1)

	e.token = token
	second := map[string]string{"email": "second@zeta.io", "password": "anotherpass"}
	rec, env = e.do(t, "POST", "/api/auth/setup", second, true)
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)
	rec, _ = e.do(t, "POST", "/api/auth/login", second, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminLoginRejected(t *testing.T) {
	e := newEnv(t)
	hash, err := utility.HashPassword("rightpass")
	require.NoError(t, err)
	require.NoError(t, e.admins.Create(context.Background(), &models.Admin{Email: "a@zeta.io", Password: hash}))

	tests := []struct {
		name  string
		creds map[string]string
		code  int
	}{
		{"wrong password", map[string]string{"email": "a@zeta.io", "password": "wrongpass"}, http.StatusUnauthorized},
		{"unknown email", map[string]string{"email": "b@zeta.io", "password": "rightpass"}, http.StatusUnauthorized},
		{"missing password", map[string]string{"email": "a@zeta.io"}, http.StatusBadRequest},
		{"bad email", map[string]string{"email": "nope", "password": "rightpass"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := e.do(t, "POST", "/api/auth/login", tt.creds, false)
			assert.Equal(t, tt.code, rec.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestAdminRoutesNeedToken(t *testing.T) {
	e := newEnv(t)
	paths := []struct{ method, path string }{
		{"POST", "/api/mocktests"},
		{"GET", "/api/mocktests/admin/all"},
		{"DELETE", "/api/mocktests/" + primitive.NewObjectID().Hex()},
		{"POST", "/api/questions/bulk"},
		{"POST", "/api/formulas"},
		{"POST", "/api/uploads"},
		{"GET", "/api/auth/verify"},
	}
	for _, p := range paths {
		rec, env := e.do(t, p.method, p.path, "{}", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, p.path)
		assert.Equal(t, "No token provided", env.Message)
	}

	e.token = "garbage"
	rec, env := e.do(t, "GET", "/api/mocktests/admin/all", nil, true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", env.Message)
}

func TestCreateMockTest(t *testing.T) {
	e := newEnv(t)
	body := map[string]interface{}{
		"testName": "Grand Test 1",
		"csvData":  "Q1#a#b#c#d#A#e#\nshort#line\nQ2#a#b#c#d#b#e#",
		"duration": 90,
	}
	rec, env := e.do(t, "POST", "/api/mocktests", body, true)
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)

	got := data[struct {
		Test    models.MockTestAdminSummary `json:"test"`
		Skipped int                         `json:"skipped"`
	}](t, env)
	assert.Equal(t, 2, got.Test.TotalQuestions)
	assert.Equal(t, 1, got.Skipped)

	stored, err := e.tests.Get(context.Background(), got.Test.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, stored.Duration)
	assert.Equal(t, 2, stored.TotalQuestions)
	assert.Equal(t, models.OptionB, stored.Questions[1].CorrectOption)

	rec, _ = e.do(t, "POST", "/api/mocktests", body, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "duplicate name")

	body["testName"] = "Empty"
	body["csvData"] = "nothing#useful"
	rec, _ = e.do(t, "POST", "/api/mocktests", body, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "no valid lines")

	rec, _ = e.do(t, "POST", "/api/mocktests", map[string]string{"csvData": "Q#a#b#c#d#A#e#"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing name")
}

func TestSubmitMockTest(t *testing.T) {
	e := newEnv(t)
	test := e.seedTest(t, "Weekly", models.OptionA, models.OptionB, models.OptionC, models.OptionD, models.OptionA)

	sub := models.Submission{
		Answers: []models.SubmittedAnswer{
			{QuestionNumber: 1, SelectedOption: "A"},
			{QuestionNumber: 2, SelectedOption: "B"},
			{QuestionNumber: 3, SelectedOption: "c"},
			{QuestionNumber: 4, SelectedOption: "A"},
			{QuestionNumber: 5, SelectedOption: "B"},
			{QuestionNumber: 42, SelectedOption: "A"},
		},
		TimeTaken: 37,
	}
	rec, env := e.do(t, "POST", "/api/mocktests/"+test.ID.Hex()+"/submit", sub, false)
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	assert.Equal(t, "Test submitted successfully", env.Message)

	got := data[struct {
		AttemptID string `json:"attemptId"`
		Result    struct {
			Score          float64 `json:"score"`
			TotalQuestions int     `json:"totalQuestions"`
			Attempted      int     `json:"attempted"`
			Correct        int     `json:"correct"`
			Incorrect      int     `json:"incorrect"`
			Ignored        int     `json:"ignored"`
			TimeTaken      int     `json:"timeTaken"`
		} `json:"result"`
	}](t, env)
	assert.Equal(t, 10.0, got.Result.Score)
	assert.Equal(t, 5, got.Result.TotalQuestions)
	assert.Equal(t, 6, got.Result.Attempted)
	assert.Equal(t, 3, got.Result.Correct)
	assert.Equal(t, 2, got.Result.Incorrect)
	assert.Equal(t, 1, got.Result.Ignored)
	assert.Equal(t, 37, got.Result.TimeTaken)

	require.Equal(t, 1, e.attempts.count())
	attempt := e.attempts.rows[0]
	assert.Equal(t, got.AttemptID, attempt.ID.Hex())
	assert.Equal(t, test.ID, attempt.TestID)
	assert.Equal(t, 10.0, attempt.Score)
	assert.Len(t, attempt.Answers, 5)
	assert.Equal(t, e.h.Now(), attempt.CompletedAt)
}

func TestSubmitMockTestIgnoresUnknownQuestionNumbers(t *testing.T) {
	e := newEnv(t)
	test := e.seedTest(t, "Weekly", models.OptionA, models.OptionB)

	sub := models.Submission{Answers: []models.SubmittedAnswer{
		{QuestionNumber: 1, SelectedOption: "A"},
		{QuestionNumber: 0, SelectedOption: "B"},
		{QuestionNumber: -3, SelectedOption: "C"},
	}}
	rec, env := e.do(t, "POST", "/api/mocktests/"+test.ID.Hex()+"/submit", sub, false)
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	got := data[struct {
		Result struct {
			Score     float64 `json:"score"`
			Attempted int     `json:"attempted"`
			Correct   int     `json:"correct"`
			Ignored   int     `json:"ignored"`
		} `json:"result"`
	}](t, env).Result
	assert.Equal(t, 4.0, got.Score)
	assert.Equal(t, 3, got.Attempted)
	assert.Equal(t, 1, got.Correct)
	assert.Equal(t, 2, got.Ignored)

	require.Equal(t, 1, e.attempts.count())
	assert.Equal(t, []models.AttemptAnswer{{QuestionNumber: 1, SelectedOption: "A", IsCorrect: true}}, e.attempts.rows[0].Answers)

	rec, env = e.do(t, "POST", "/api/mocktests/"+test.ID.Hex()+"/review", sub, false)
	assert.Equal(t, http.StatusOK, rec.Code, env.Message)
}

func TestSubmitMockTestErrors(t *testing.T) {
	e := newEnv(t)
	test := e.seedTest(t, "Weekly", models.OptionA)

	rec, _ := e.do(t, "POST", "/api/mocktests/"+primitive.NewObjectID().Hex()+"/submit", models.Submission{}, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = e.do(t, "POST", "/api/mocktests/not-hex/submit", models.Submission{}, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = e.do(t, "POST", "/api/mocktests/"+test.ID.Hex()+"/submit", "{not json", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = e.do(t, "POST", "/api/mocktests/"+test.ID.Hex()+"/submit", models.Submission{TimeTaken: -1}, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	e.attempts.err = assert.AnError
	rec, env := e.do(t, "POST", "/api/mocktests/"+test.ID.Hex()+"/submit", models.Submission{}, false)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", env.Message)
	assert.Zero(t, e.attempts.count())
}

func TestReviewMockTest(t *testing.T) {
	e := newEnv(t)
	test := e.seedTest(t, "Weekly", models.OptionA, models.OptionB)

	sub := models.Submission{Answers: []models.SubmittedAnswer{{QuestionNumber: 2, SelectedOption: "B"}}}
	rec, env := e.do(t, "POST", "/api/mocktests/"+test.ID.Hex()+"/review", sub, false)
	require.Equal(t, http.StatusOK, rec.Code)

	review := data[struct {
		Review struct {
			Items []struct {
				SerialNumber  int    `json:"serialNumber"`
				Status        string `json:"status"`
				CorrectOption string `json:"correctOption"`
			} `json:"items"`
			Percentage float64 `json:"percentage"`
		} `json:"review"`
	}](t, env).Review
	require.Len(t, review.Items, 2)
	assert.Equal(t, "unattempted", review.Items[0].Status)
	assert.Equal(t, "correct", review.Items[1].Status)
	assert.Equal(t, 50.0, review.Percentage)
	assert.Zero(t, e.attempts.count(), "review does not record an attempt")
}

func TestDeleteMockTestCascades(t *testing.T) {
	e := newEnv(t)
	doomed := e.seedTest(t, "Doomed", models.OptionA)
	kept := e.seedTest(t, "Kept", models.OptionA)
	for _, id := range []primitive.ObjectID{doomed.ID, doomed.ID, kept.ID} {
		require.NoError(t, e.attempts.Record(context.Background(), &models.Attempt{TestID: id}))
	}

	rec, env := e.do(t, "DELETE", "/api/mocktests/"+doomed.ID.Hex(), nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, data[map[string]int](t, env)["attemptsDeleted"])

	_, err := e.tests.Get(context.Background(), doomed.ID)
	assert.ErrorIs(t, err, utility.ErrNotFound)
	assert.Equal(t, 1, e.attempts.count())

	rec, _ = e.do(t, "DELETE", "/api/mocktests/"+doomed.ID.Hex(), nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMockTestWithoutAttempts(t *testing.T) {
	e := newEnv(t)
	empty := e.seedTest(t, "Empty", models.OptionA)
	other := e.seedTest(t, "Other", models.OptionB)
	for i := 0; i < 2; i++ {
		require.NoError(t, e.attempts.Record(context.Background(), &models.Attempt{TestID: other.ID}))
	}

	rec, env := e.do(t, "DELETE", "/api/mocktests/"+empty.ID.Hex(), nil, true)
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	assert.EqualValues(t, 0, data[map[string]int](t, env)["attemptsDeleted"])

	_, err := e.tests.Get(context.Background(), empty.ID)
	assert.ErrorIs(t, err, utility.ErrNotFound)
	_, err = e.tests.Get(context.Background(), other.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, e.attempts.count())
}

func TestMockTestListings(t *testing.T) {
	e := newEnv(t)
	test := e.seedTest(t, "Weekly", models.OptionA, models.OptionB)

	rec, env := e.do(t, "GET", "/api/mocktests", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	tests := data[map[string][]models.MockTest](t, env)["tests"]
	require.Len(t, tests, 1)
	assert.Empty(t, tests[0].Questions)

	rec, env = e.do(t, "GET", "/api/mocktests/admin/all", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := data[map[string][]models.MockTestAdminSummary](t, env)["tests"]
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].TotalQuestions)

	rec, env = e.do(t, "GET", "/api/mocktests/"+test.ID.Hex(), nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	full := data[map[string]models.MockTest](t, env)["test"]
	assert.Len(t, full.Questions, 2)

	require.NoError(t, e.attempts.Record(context.Background(), &models.Attempt{TestID: test.ID, Score: 4}))
	rec, env = e.do(t, "GET", "/api/mocktests/"+test.ID.Hex()+"/attempts", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, data[map[string][]models.Attempt](t, env)["attempts"], 1)
}

func bankLine(subject, chapter string) string {
	return strings.Join([]string{subject, chapter, "Q", "a", "b", "c", "d", "A", "exp"}, "#")
}

func TestBulkUploadQuestions(t *testing.T) {
	e := newEnv(t)
	csv := strings.Join([]string{bankLine("Physics", "Optics"), "bad#line", bankLine("Physics", "Optics")}, "\n")

	rec, env := e.do(t, "POST", "/api/questions/bulk", map[string]string{"csvData": csv}, true)
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	assert.Equal(t, "2 questions uploaded successfully", env.Message)
	assert.Equal(t, importerSummary{Count: 2, Skipped: 1}, data[importerSummary](t, env))

	rec, _ = e.do(t, "POST", "/api/questions/bulk", map[string]string{"csvData": bankLine("Physics", "Optics")}, true)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "0000003", e.questions.rows[2].QuestionID)
	assert.Equal(t, "Optics-3", e.questions.rows[2].SerialNumber)

	rec, _ = e.do(t, "POST", "/api/questions/bulk", map[string]string{"csvData": "bad#line"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type importerSummary struct {
	Count   int `json:"count"`
	Skipped int `json:"skipped"`
}

func TestBulkUploadQuestionsMultipart(t *testing.T) {
	e := newEnv(t)
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("csvFile", "bank.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte(bankLine("Biology", "Cells") + "\n" + bankLine("Chemistry", "Atoms")))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/questions/bulk", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, e.questions.rows, 2)
}

func TestQuestionQueries(t *testing.T) {
	e := newEnv(t)
	_, err := e.questions.InsertMany(context.Background(), []models.Question{
		{QuestionID: "0000001", SerialNumber: "Optics-1", Subject: "Physics", Chapter: "Optics"},
		{QuestionID: "0000002", SerialNumber: "Cells-1", Subject: "Biology", Chapter: "Cells"},
		{QuestionID: "0000003", SerialNumber: "Optics-2", Subject: "Physics", Chapter: "Optics"},
	})
	require.NoError(t, err)

	rec, env := e.do(t, "GET", "/api/questions?subject=Physics&limit=1&page=2", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	page := data[struct {
		Questions  []models.Question `json:"questions"`
		Pagination models.Pagination `json:"pagination"`
	}](t, env)
	require.Len(t, page.Questions, 1)
	assert.Equal(t, "0000003", page.Questions[0].QuestionID)
	assert.Equal(t, models.Pagination{Total: 2, Page: 2, Limit: 1, Pages: 2}, page.Pagination)

	rec, env = e.do(t, "GET", "/api/questions/chapters?subject=Physics", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Optics"}, data[map[string][]string](t, env)["chapters"])

	rec, _ = e.do(t, "GET", "/api/questions/chapters", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = e.do(t, "GET", "/api/questions/search?serialNumber=Cells-1", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0000002", data[map[string]models.Question](t, env)["question"].QuestionID)

	rec, _ = e.do(t, "GET", "/api/questions/search?questionId=9999999", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = e.do(t, "GET", "/api/questions/search", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditAndDeleteQuestion(t *testing.T) {
	e := newEnv(t)
	files := &fakeFiles{}
	e.h.Files = files
	_, err := e.questions.InsertMany(context.Background(), []models.Question{{
		QuestionID:       "0000001",
		Subject:          "Physics",
		Chapter:          "Optics",
		Question:         "Which lens converges light?",
		Choices:          models.Choices{OptionA: "convex", OptionB: "concave", OptionC: "plane", OptionD: "none"},
		CorrectOption:    models.OptionA,
		QuestionImageURL: "https://cdn.zeta.test/assets/questions/lens.png",
	}})
	require.NoError(t, err)
	id := e.questions.rows[0].ID.Hex()

	rec, env := e.do(t, "PUT", "/api/questions/"+id, map[string]string{"correctOption": "d"}, true)
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	assert.Equal(t, models.OptionD, e.questions.rows[0].CorrectOption)

	rejected := []map[string]string{
		{"correctOption": "Z"},
		{"optionD": "", "correctOption": "D"},
		{"optionB": "  ", "correctOption": "B"},
		{"question": "   "},
		{"subject": "History"},
	}
	for _, body := range rejected {
		rec, _ = e.do(t, "PUT", "/api/questions/"+id, body, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Equal(t, "none", e.questions.rows[0].OptionD)
	assert.Equal(t, models.OptionD, e.questions.rows[0].CorrectOption)
	assert.Equal(t, "Which lens converges light?", e.questions.rows[0].Question)

	rec, _ = e.do(t, "PUT", "/api/questions/"+primitive.NewObjectID().Hex(), map[string]string{"question": "x"}, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = e.do(t, "DELETE", "/api/questions/"+id, nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"assets/questions/lens.png"}, files.deleted)
	rec, _ = e.do(t, "DELETE", "/api/questions/"+id, nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFormulas(t *testing.T) {
	e := newEnv(t)
	files := &fakeFiles{}
	e.h.Files = files
	formula := map[string]string{"subject": "Physics", "chapter": "Optics", "pdfUrl": "https://cdn/optics.pdf"}

	rec, env := e.do(t, "POST", "/api/formulas", formula, true)
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)

	rec, _ = e.do(t, "POST", "/api/formulas", formula, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "duplicate subject and chapter")

	rec, _ = e.do(t, "POST", "/api/formulas", map[string]string{"subject": "Physics", "chapter": "Waves"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "pdfUrl is required")

	rec, env = e.do(t, "GET", "/api/formulas?subject=Physics&chapter=Optics", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://cdn/optics.pdf", data[map[string]models.Formula](t, env)["formula"].PdfURL)

	rec, _ = e.do(t, "GET", "/api/formulas?subject=Physics", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = e.do(t, "GET", "/api/formulas?subject=Physics&chapter=Waves", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	id := e.formulas.rows[0].ID.Hex()
	rec, _ = e.do(t, "PUT", "/api/formulas/"+id, map[string]string{"pdfUrl": "https://cdn.zeta.test/assets/formulas/v2.pdf"}, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://cdn.zeta.test/assets/formulas/v2.pdf", e.formulas.rows[0].PdfURL)

	rec, _ = e.do(t, "DELETE", "/api/formulas/"+id, nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, e.formulas.rows)
	assert.Equal(t, []string{"assets/formulas/v2.pdf"}, files.deleted)
}

func uploadRequest(t *testing.T, token, kind, name string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("kind", kind))
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, _ = part.Write(content)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/uploads", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadFile(t *testing.T) {
	e := newEnv(t)
	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, uploadRequest(t, e.token, utility.KindFormula, "optics.pdf", pdf))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	files := &fakeFiles{}
	e.h.Files = files
	rec = httptest.NewRecorder()
	e.server.ServeHTTP(rec, uploadRequest(t, e.token, utility.KindFormula, "optics.pdf", pdf))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, files.keys, 1)
	assert.Contains(t, rec.Body.String(), "https://cdn.zeta.test/assets/formulas/")

	rec = httptest.NewRecorder()
	e.server.ServeHTTP(rec, uploadRequest(t, e.token, "video", "clip.pdf", pdf))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMockTestStats(t *testing.T) {
	e := newEnv(t)
	test := e.seedTest(t, "Weekly", models.OptionA)
	other := e.seedTest(t, "Other", models.OptionA)
	for _, a := range []models.Attempt{
		{TestID: test.ID, Score: 20, TimeTaken: 30},
		{TestID: test.ID, Score: 12, TimeTaken: 50},
		{TestID: test.ID, Score: 12, TimeTaken: 40},
		{TestID: other.ID, Score: 99},
	} {
		a := a
		require.NoError(t, e.attempts.Record(context.Background(), &a))
	}

	rec, env := e.do(t, "GET", "/api/mocktests/"+test.ID.Hex()+"/stats?score=12", nil, false)
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	got := data[struct {
		Stats models.AttemptStats `json:"stats"`
		Rank  int64               `json:"rank"`
	}](t, env)
	assert.Equal(t, 3, got.Stats.Attempts)
	assert.Equal(t, 20.0, got.Stats.HighestScore)
	assert.Equal(t, 40.0, got.Stats.AverageTime)
	assert.EqualValues(t, 2, got.Rank, "ties share a rank")

	rec, env = e.do(t, "GET", "/api/mocktests/"+test.ID.Hex()+"/stats", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, string(env.Data), "rank")

	rec, _ = e.do(t, "GET", "/api/mocktests/"+test.ID.Hex()+"/stats?score=lots", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = e.do(t, "GET", "/api/mocktests/"+primitive.NewObjectID().Hex()+"/stats", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
