// Package client talks to the Zeta Exams REST API. It is what the zetactl
// command uses to list, take and administer mock tests.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"zetaexams/internal/importer"
	models "zetaexams/internal/models"
	"zetaexams/internal/scoring"
	"zetaexams/internal/utility"
)

const DefaultTimeout = 30 * time.Second

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError is a response the server marked as unsuccessful.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Unwrap lets callers match the same sentinels the server side uses.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return utility.ErrNotFound
	case http.StatusBadRequest:
		return utility.ErrValidation
	case http.StatusUnauthorized:
		return utility.ErrUnauthorized
	}
	return nil
}

type Client struct {
	rest *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{rest: rest}
}

// SetToken attaches an admin bearer token to every later request.
func (c *Client) SetToken(token string) {
	c.rest.SetAuthToken(token)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req := c.rest.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		if resp.IsError() {
			return &APIError{Status: resp.StatusCode(), Message: resp.Status()}
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if resp.IsError() || !env.Success {
		return &APIError{Status: resp.StatusCode(), Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}

// Login exchanges admin credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	creds := models.Credentials{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &out); err != nil {
		return "", err
	}
	c.SetToken(out.Token)
	return out.Token, nil
}

func (c *Client) ListTests(ctx context.Context) ([]models.MockTest, error) {
	var out struct {
		Tests []models.MockTest `json:"tests"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/mocktests", nil, &out); err != nil {
		return nil, err
	}
	return out.Tests, nil
}

func (c *Client) GetTest(ctx context.Context, id string) (*models.MockTest, error) {
	var out struct {
		Test *models.MockTest `json:"test"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/mocktests/"+id, nil, &out); err != nil {
		return nil, err
	}
	if out.Test == nil {
		return nil, fmt.Errorf("test %s: %w", id, utility.ErrNotFound)
	}
	return out.Test, nil
}

type SubmitResult struct {
	AttemptID string         `json:"attemptId"`
	Result    scoring.Result `json:"result"`
}

// Submit posts an attempt once. Failures are returned, never retried.
func (c *Client) Submit(ctx context.Context, id string, sub models.Submission) (*SubmitResult, error) {
	var out SubmitResult
	if err := c.do(ctx, http.MethodPost, "/api/mocktests/"+id+"/submit", sub, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Review(ctx context.Context, id string, answers []models.SubmittedAnswer) (*scoring.Review, error) {
	var out struct {
		Review scoring.Review `json:"review"`
	}
	sub := models.Submission{Answers: answers}
	if err := c.do(ctx, http.MethodPost, "/api/mocktests/"+id+"/review", sub, &out); err != nil {
		return nil, err
	}
	return &out.Review, nil
}

func (c *Client) ImportQuestions(ctx context.Context, csvData string) (importer.Summary, error) {
	var out importer.Summary
	body := map[string]string{"csvData": csvData}
	err := c.do(ctx, http.MethodPost, "/api/questions/bulk", body, &out)
	return out, err
}

type CreatedTest struct {
	Test    models.MockTestAdminSummary `json:"test"`
	Skipped int                         `json:"skipped"`
}

func (c *Client) CreateMockTest(ctx context.Context, req models.MockTestRequest) (*CreatedTest, error) {
	var out CreatedTest
	if err := c.do(ctx, http.MethodPost, "/api/mocktests", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminTests(ctx context.Context) ([]models.MockTestAdminSummary, error) {
	var out struct {
		Tests []models.MockTestAdminSummary `json:"tests"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/mocktests/admin/all", nil, &out); err != nil {
		return nil, err
	}
	return out.Tests, nil
}

// DeleteMockTest removes a test and reports how many attempts went with it.
func (c *Client) DeleteMockTest(ctx context.Context, id string) (int64, error) {
	var out struct {
		AttemptsDeleted int64 `json:"attemptsDeleted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/mocktests/"+id, nil, &out); err != nil {
		return 0, err
	}
	return out.AttemptsDeleted, nil
}

type TestStats struct {
	TestName string              `json:"testName"`
	Stats    models.AttemptStats `json:"stats"`
	Rank     int64               `json:"rank"`
}

// Stats fetches a test's attempt statistics and where score ranks among them.
func (c *Client) Stats(ctx context.Context, id string, score float64) (*TestStats, error) {
	var out TestStats
	path := fmt.Sprintf("/api/mocktests/%s/stats?score=%s", id, strconv.FormatFloat(score, 'f', -1, 64))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
