// Package scoring computes mock test results from a stored answer key.
// Everything here is pure: the same test and answers always give the same result.
package scoring

import (
	"math"
	"sort"

	models "zetaexams/internal/models"
)

type Status string

const (
	StatusCorrect     Status = "correct"
	StatusIncorrect   Status = "incorrect"
	StatusUnattempted Status = "unattempted"
)

// Result is the outcome of scoring one submission.
type Result struct {
	Score          float64                `json:"score"`
	TotalQuestions int                    `json:"totalQuestions"`
	Attempted      int                    `json:"attempted"`
	Correct        int                    `json:"correct"`
	Incorrect      int                    `json:"incorrect"`
	Unattempted    int                    `json:"unattempted"`
	Ignored        int                    `json:"ignored"`
	TimeTaken      int                    `json:"timeTaken"`
	Answers        []models.AttemptAnswer `json:"-"`
}

// Score marks answers against test. Answers are matched to questions by serial
// number; an answer whose number matches no question is ignored and only
// counted in Result.Ignored. Attempted counts every submitted number with a
// selection, matched or not. When a number appears more than once the last
// entry wins. Processed answers are returned ordered by question number.
func Score(test *models.MockTest, answers []models.SubmittedAnswer, timeTaken int) Result {
	res := Result{
		TotalQuestions: totalQuestions(test),
		TimeTaken:      timeTaken,
	}

	keys := make(map[int]models.Option, len(test.Questions))
	for _, q := range test.Questions {
		keys[q.SerialNumber] = q.CorrectOption
	}

	selected := make(map[int]models.Option, len(answers))
	submitted := make(map[int]bool, len(answers))
	for _, a := range answers {
		opt, _ := models.ParseOption(string(a.SelectedOption))
		submitted[a.QuestionNumber] = opt != models.OptionNone
		if _, ok := keys[a.QuestionNumber]; !ok {
			res.Ignored++
			continue
		}
		selected[a.QuestionNumber] = opt
	}
	for _, chosen := range submitted {
		if chosen {
			res.Attempted++
		}
	}

	numbers := make([]int, 0, len(selected))
	for n := range selected {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	res.Answers = make([]models.AttemptAnswer, 0, len(numbers))
	for _, n := range numbers {
		opt := selected[n]
		status := mark(keys[n], opt)
		switch status {
		case StatusCorrect:
			res.Score += test.Marking.Positive
			res.Correct++
		case StatusIncorrect:
			res.Score += test.Marking.Negative
			res.Incorrect++
		}
		res.Answers = append(res.Answers, models.AttemptAnswer{
			QuestionNumber: n,
			SelectedOption: opt,
			IsCorrect:      status == StatusCorrect,
		})
	}

	res.Unattempted = res.TotalQuestions - res.Correct - res.Incorrect
	if res.Unattempted < 0 {
		res.Unattempted = 0
	}
	return res
}

func mark(correct, selected models.Option) Status {
	switch {
	case selected == models.OptionNone:
		return StatusUnattempted
	case selected == correct:
		return StatusCorrect
	default:
		return StatusIncorrect
	}
}

func totalQuestions(test *models.MockTest) int {
	if test.TotalQuestions > 0 {
		return test.TotalQuestions
	}
	return len(test.Questions)
}

// ReviewItem replays the answer key for one question.
type ReviewItem struct {
	models.MockTestQuestion
	SelectedOption models.Option `json:"selectedOption"`
	IsCorrect      bool          `json:"isCorrect"`
	Status         Status        `json:"status"`
}

type Review struct {
	TestName    string       `json:"testName"`
	Items       []ReviewItem `json:"items"`
	Score       float64      `json:"score"`
	Correct     int          `json:"correct"`
	Incorrect   int          `json:"incorrect"`
	Unattempted int          `json:"unattempted"`
	Percentage  float64      `json:"percentage"`
}

// BuildReview walks every question of test in order and pairs it with the
// selection from answers, for rendering a result page.
func BuildReview(test *models.MockTest, answers []models.SubmittedAnswer) Review {
	selected := make(map[int]models.Option, len(answers))
	for _, a := range answers {
		opt, _ := models.ParseOption(string(a.SelectedOption))
		selected[a.QuestionNumber] = opt
	}

	rv := Review{TestName: test.TestName, Items: make([]ReviewItem, 0, len(test.Questions))}
	for _, q := range test.Questions {
		opt := selected[q.SerialNumber]
		status := mark(q.CorrectOption, opt)
		switch status {
		case StatusCorrect:
			rv.Correct++
			rv.Score += test.Marking.Positive
		case StatusIncorrect:
			rv.Incorrect++
			rv.Score += test.Marking.Negative
		default:
			rv.Unattempted++
		}
		rv.Items = append(rv.Items, ReviewItem{
			MockTestQuestion: q,
			SelectedOption:   opt,
			IsCorrect:        status == StatusCorrect,
			Status:           status,
		})
	}
	if n := len(test.Questions); n > 0 {
		rv.Percentage = math.Round(float64(rv.Correct)/float64(n)*10000) / 100
	}
	return rv
}
