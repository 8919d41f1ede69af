package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"zetaexams/internal/client"
	models "zetaexams/internal/models"
	"zetaexams/internal/scoring"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type printer struct {
	out    io.Writer
	format string
}

func validFormat(f string) bool {
	return f == formatTable || f == formatJSON || f == formatYAML
}

// print writes v as JSON or YAML, or header and rows as a table.
func (p printer) print(v interface{}, header []string, rows [][]string) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(p.out)
		defer enc.Close()
		return enc.Encode(v)
	}
	table := tablewriter.NewWriter(p.out)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
	return nil
}

type testRow struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Duration  int    `json:"durationMinutes" yaml:"durationMinutes"`
	Questions int    `json:"questions" yaml:"questions"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
}

func (r testRow) cells() []string {
	return []string{r.ID, r.Name, strconv.Itoa(r.Duration), strconv.Itoa(r.Questions), r.CreatedAt}
}

var testHeader = []string{"ID", "Name", "Minutes", "Questions", "Created"}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func (p printer) tests(tests []models.MockTest) error {
	rows := make([]testRow, 0, len(tests))
	cells := make([][]string, 0, len(tests))
	for _, t := range tests {
		row := testRow{ID: t.ID.Hex(), Name: t.TestName, Duration: t.Duration, Questions: t.TotalQuestions, CreatedAt: stamp(t.CreatedAt)}
		rows = append(rows, row)
		cells = append(cells, row.cells())
	}
	return p.print(rows, testHeader, cells)
}

func (p printer) adminTests(tests []models.MockTestAdminSummary) error {
	rows := make([]testRow, 0, len(tests))
	cells := make([][]string, 0, len(tests))
	for _, t := range tests {
		row := testRow{ID: t.ID.Hex(), Name: t.TestName, Duration: t.Duration, Questions: t.TotalQuestions, CreatedAt: stamp(t.CreatedAt)}
		rows = append(rows, row)
		cells = append(cells, row.cells())
	}
	return p.print(rows, testHeader, cells)
}

type resultView struct {
	AttemptID   string  `json:"attemptId" yaml:"attemptId"`
	Score       float64 `json:"score" yaml:"score"`
	Total       int     `json:"totalQuestions" yaml:"totalQuestions"`
	Correct     int     `json:"correct" yaml:"correct"`
	Incorrect   int     `json:"incorrect" yaml:"incorrect"`
	Unattempted int     `json:"unattempted" yaml:"unattempted"`
	TimeTaken   int     `json:"timeTakenMinutes" yaml:"timeTakenMinutes"`
}

func (p printer) result(res *client.SubmitResult) error {
	v := resultView{
		AttemptID:   res.AttemptID,
		Score:       res.Result.Score,
		Total:       res.Result.TotalQuestions,
		Correct:     res.Result.Correct,
		Incorrect:   res.Result.Incorrect,
		Unattempted: res.Result.Unattempted,
		TimeTaken:   res.Result.TimeTaken,
	}
	rows := [][]string{
		{"Score", strconv.FormatFloat(v.Score, 'f', -1, 64)},
		{"Correct", strconv.Itoa(v.Correct)},
		{"Incorrect", strconv.Itoa(v.Incorrect)},
		{"Unattempted", strconv.Itoa(v.Unattempted)},
		{"Time taken (min)", strconv.Itoa(v.TimeTaken)},
	}
	return p.print(v, []string{"Result", fmt.Sprintf("Attempt %s", v.AttemptID)}, rows)
}

type reviewRow struct {
	Number   int    `json:"number" yaml:"number"`
	Selected string `json:"selected" yaml:"selected"`
	Correct  string `json:"correct" yaml:"correct"`
	Status   string `json:"status" yaml:"status"`
}

func (p printer) review(rv *scoring.Review) error {
	rows := make([]reviewRow, 0, len(rv.Items))
	cells := make([][]string, 0, len(rv.Items))
	for _, item := range rv.Items {
		selected := string(item.SelectedOption)
		if selected == "" {
			selected = "-"
		}
		row := reviewRow{Number: item.SerialNumber, Selected: selected, Correct: string(item.CorrectOption), Status: string(item.Status)}
		rows = append(rows, row)
		cells = append(cells, []string{strconv.Itoa(row.Number), row.Selected, row.Correct, row.Status})
	}
	return p.print(rows, []string{"#", "Yours", "Answer", "Result"}, cells)
}
