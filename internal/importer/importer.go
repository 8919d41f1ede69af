// Package importer turns '#' delimited text into question-bank items and mock
// test questions.
//
// Question bank line:
//
//	subject#chapter#question#A#B#C#D#correct#explanation[#questionImage[#explanationImage]]
//
// Mock test line:
//
//	question#A#B#C#D#correct#explanation[#questionImage[#explanationImage]]
//
// Lines with too few fields, or whose correct option is not a populated A-D
// option, are skipped and counted rather than failing the batch.
package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	models "zetaexams/internal/models"
	"zetaexams/internal/utility"
)

const (
	Delimiter          = "#"
	QuestionFieldCount = 9
	MockTestFieldCount = 8
	QuestionIDWidth    = 7
)

// Summary reports what an import did.
type Summary struct {
	Inserted int `json:"count"`
	Skipped  int `json:"skipped"`
}

func splitLines(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func fields(line string) []string {
	parts := strings.Split(line, Delimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func optional(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

// ParseQuestions parses question-bank lines. Identifiers and serial numbers are
// left empty; see AssignIdentifiers.
func ParseQuestions(text string) ([]models.Question, int) {
	var (
		out     []models.Question
		skipped int
	)
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p := fields(line)
		if len(p) < QuestionFieldCount {
			skipped++
			continue
		}
		q := models.Question{
			Subject:             p[0],
			Chapter:             p[1],
			Question:            p[2],
			Choices:             models.Choices{OptionA: p[3], OptionB: p[4], OptionC: p[5], OptionD: p[6]},
			CorrectOption:       models.Option(strings.ToUpper(p[7])),
			Explanation:         p[8],
			QuestionImageURL:    optional(p, 9),
			ExplanationImageURL: optional(p, 10),
		}
		if !models.ValidSubject(q.Subject) || q.Chapter == "" || q.Question == "" || !answerable(q.Choices, q.CorrectOption) {
			skipped++
			continue
		}
		out = append(out, q)
	}
	return out, skipped
}

// ParseMockTestQuestions parses mock test lines and numbers the kept questions
// 1..N in order.
func ParseMockTestQuestions(text string) ([]models.MockTestQuestion, int) {
	var (
		out     []models.MockTestQuestion
		skipped int
	)
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p := fields(line)
		if len(p) < MockTestFieldCount {
			skipped++
			continue
		}
		q := models.MockTestQuestion{
			SerialNumber:        len(out) + 1,
			Question:            p[0],
			Choices:             models.Choices{OptionA: p[1], OptionB: p[2], OptionC: p[3], OptionD: p[4]},
			CorrectOption:       models.Option(strings.ToUpper(p[5])),
			Explanation:         p[6],
			QuestionImageURL:    optional(p, 7),
			ExplanationImageURL: optional(p, 8),
		}
		if q.Question == "" || !answerable(q.Choices, q.CorrectOption) {
			skipped++
			continue
		}
		out = append(out, q)
	}
	return out, skipped
}

func answerable(c models.Choices, correct models.Option) bool {
	return correct.Valid() && c.Populated(correct)
}

// Bucket is the (subject, chapter) pair serial numbers are counted within.
type Bucket struct {
	Subject string
	Chapter string
}

// Buckets returns the distinct buckets touched by rows in first-seen order.
func Buckets(rows []models.Question) []Bucket {
	seen := make(map[Bucket]bool)
	var out []Bucket
	for _, q := range rows {
		b := Bucket{Subject: q.Subject, Chapter: q.Chapter}
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}

func FormatQuestionID(n int) string {
	return fmt.Sprintf("%0*d", QuestionIDWidth, n)
}

// ParseQuestionID reads a zero padded identifier. Non numeric ids count as 0.
func ParseQuestionID(id string) int {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return 0
	}
	return n
}

// AssignIdentifiers numbers rows in one sequential pass. Ids continue from
// lastID; serials continue from the existing count of each bucket.
func AssignIdentifiers(rows []models.Question, lastID int, existing map[Bucket]int) {
	counters := make(map[Bucket]int, len(existing))
	for b, n := range existing {
		counters[b] = n
	}
	for i := range rows {
		lastID++
		b := Bucket{Subject: rows[i].Subject, Chapter: rows[i].Chapter}
		counters[b]++
		rows[i].QuestionID = FormatQuestionID(lastID)
		rows[i].SerialNumber = fmt.Sprintf("%s-%d", rows[i].Chapter, counters[b])
	}
}

// QuestionBank is the storage the question import needs.
type QuestionBank interface {
	MaxQuestionID(ctx context.Context) (int, error)
	CountByBuckets(ctx context.Context, buckets []Bucket) (map[Bucket]int, error)
	InsertMany(ctx context.Context, questions []models.Question) (int, error)
}

// ImportQuestions parses text, numbers the rows against what bank already
// holds and inserts them as one batch. Text with no usable line is rejected.
func ImportQuestions(ctx context.Context, bank QuestionBank, text string, now time.Time) (Summary, error) {
	rows, skipped := ParseQuestions(text)
	if len(rows) == 0 {
		return Summary{Skipped: skipped}, fmt.Errorf("no valid questions found in CSV: %w", utility.ErrValidation)
	}

	lastID, err := bank.MaxQuestionID(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("read last question id: %w", err)
	}
	counts, err := bank.CountByBuckets(ctx, Buckets(rows))
	if err != nil {
		return Summary{}, fmt.Errorf("count chapter questions: %w", err)
	}

	AssignIdentifiers(rows, lastID, counts)
	for i := range rows {
		rows[i].CreatedAt = now
		rows[i].UpdatedAt = now
	}

	n, err := bank.InsertMany(ctx, rows)
	if err != nil {
		return Summary{}, fmt.Errorf("insert questions: %w", err)
	}
	return Summary{Inserted: n, Skipped: skipped}, nil
}

// BuildMockTest parses req.CSVData into a complete test document.
func BuildMockTest(req models.MockTestRequest, now time.Time) (*models.MockTest, int, error) {
	questions, skipped := ParseMockTestQuestions(req.CSVData)
	if len(questions) == 0 {
		return nil, skipped, fmt.Errorf("no valid questions found in CSV: %w", utility.ErrValidation)
	}
	test := &models.MockTest{
		TestName:       strings.TrimSpace(req.TestName),
		Duration:       req.Duration,
		TotalQuestions: req.TotalQuestions,
		Marking:        models.DefaultMarking(),
		Questions:      questions,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if test.Duration <= 0 {
		test.Duration = models.DefaultDuration
	}
	if test.TotalQuestions <= 0 {
		test.TotalQuestions = len(questions)
	}
	if req.Marking != nil {
		test.Marking = *req.Marking
	}
	return test, skipped, nil
}
