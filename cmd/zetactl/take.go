package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"zetaexams/internal/client"
	models "zetaexams/internal/models"
	"zetaexams/internal/scoring"
	"zetaexams/internal/session"
)

var errQuit = errors.New("attempt abandoned")

// examAPI is the part of the API client an attempt needs.
type examAPI interface {
	GetTest(ctx context.Context, id string) (*models.MockTest, error)
	Submit(ctx context.Context, id string, sub models.Submission) (*client.SubmitResult, error)
	Review(ctx context.Context, id string, answers []models.SubmittedAnswer) (*scoring.Review, error)
	Stats(ctx context.Context, id string, score float64) (*client.TestStats, error)
}

const takeHelp = `Commands:
  a <A-D>   answer the current question
  c         clear the current answer
  n / p     next / previous question
  g <num>   go to question number
  f         flag or unflag the current question
  l         list the question palette
  s         submit
  q         quit without submitting
  h         this help`

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	purple = color.New(color.FgMagenta)
)

type attempt struct {
	test    *models.MockTest
	session *session.AttemptSession
	pos     int
	out     io.Writer
}

func (a *attempt) current() models.MockTestQuestion {
	return a.test.Questions[a.pos]
}

func (a *attempt) show() {
	q := a.current()
	header := fmt.Sprintf("\nQuestion %d of %d", a.pos+1, len(a.test.Questions))
	if a.session.Ledger().Flagged(q.SerialNumber) {
		header += " [flagged]"
	}
	cyan.Fprintln(a.out, header)
	fmt.Fprintln(a.out, q.Question)
	if q.QuestionImageURL != "" {
		fmt.Fprintf(a.out, "(image: %s)\n", q.QuestionImageURL)
	}

	selected, _ := a.session.Ledger().Answer(q.SerialNumber)
	for _, label := range models.Options {
		text := q.OptionText(label)
		if text == "" {
			continue
		}
		line := fmt.Sprintf("  %s) %s", label, text)
		if label == selected {
			green.Fprintln(a.out, line+"  <")
			continue
		}
		fmt.Fprintln(a.out, line)
	}
}

func (a *attempt) prompt() {
	fmt.Fprintf(a.out, "[%s left] > ", clock(a.session.Remaining()))
}

func clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func (a *attempt) palette() {
	ledger := a.session.Ledger()
	stats := ledger.Stats(len(a.test.Questions))
	fmt.Fprintf(a.out, "Answered %d, unattempted %d, flagged %d\n", stats.Answered, stats.Unattempted, stats.Flagged)
	for i, q := range a.test.Questions {
		cell := fmt.Sprintf("%3d ", q.SerialNumber)
		switch ledger.Status(q.SerialNumber) {
		case session.StatusAnswered:
			green.Fprint(a.out, cell)
		case session.StatusFlagged:
			yellow.Fprint(a.out, cell)
		case session.StatusAnsweredFlagged:
			purple.Fprint(a.out, cell)
		default:
			fmt.Fprint(a.out, cell)
		}
		if (i+1)%10 == 0 {
			fmt.Fprintln(a.out)
		}
	}
	fmt.Fprintln(a.out)
}

func (a *attempt) goTo(serial int) bool {
	for i, q := range a.test.Questions {
		if q.SerialNumber == serial {
			a.pos = i
			return true
		}
	}
	return false
}

// handle applies one input line and reports whether the attempt is over.
func (a *attempt) handle(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	q := a.current()
	ledger := a.session.Ledger()

	switch strings.ToLower(fields[0]) {
	case "a":
		if len(fields) < 2 {
			red.Fprintln(a.out, "usage: a <A-D>")
			return false, nil
		}
		opt, ok := models.ParseOption(fields[1])
		if !ok || !q.Populated(opt) {
			red.Fprintln(a.out, "choose one of the listed options")
			return false, nil
		}
		ledger.SetAnswer(q.SerialNumber, opt)
		green.Fprintf(a.out, "Question %d: %s\n", q.SerialNumber, opt)
	case "c":
		ledger.SetAnswer(q.SerialNumber, models.OptionNone)
		fmt.Fprintf(a.out, "Question %d cleared\n", q.SerialNumber)
	case "n":
		if a.pos < len(a.test.Questions)-1 {
			a.pos++
		}
		a.show()
	case "p":
		if a.pos > 0 {
			a.pos--
		}
		a.show()
	case "g":
		n := 0
		if len(fields) > 1 {
			n, _ = strconv.Atoi(fields[1])
		}
		if !a.goTo(n) {
			red.Fprintf(a.out, "no question %q\n", strings.Join(fields[1:], " "))
			return false, nil
		}
		a.show()
	case "f":
		if ledger.ToggleFlag(q.SerialNumber) {
			yellow.Fprintf(a.out, "Question %d flagged\n", q.SerialNumber)
		} else {
			fmt.Fprintf(a.out, "Question %d unflagged\n", q.SerialNumber)
		}
	case "l":
		a.palette()
	case "s":
		_, err := a.session.Submit(ctx)
		if errors.Is(err, session.ErrAlreadySubmitted) {
			return true, nil
		}
		return true, err
	case "q":
		return true, errQuit
	case "h", "?":
		fmt.Fprintln(a.out, takeHelp)
	default:
		red.Fprintf(a.out, "unknown command %q, h for help\n", fields[0])
	}
	return false, nil
}

func (a *attempt) loop(ctx context.Context, lines <-chan string, timerDone <-chan struct{}) error {
	for {
		a.prompt()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timerDone:
			yellow.Fprintln(a.out, "\nTime is up.")
			return nil
		case line, ok := <-lines:
			if !ok {
				line = "s"
			}
			done, err := a.handle(ctx, line)
			if done || err != nil {
				return err
			}
		}
	}
}

func readLines(ctx context.Context, in io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case out <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// minuteWarnings prints a notice the first time the clock drops to each mark.
type minuteWarnings struct {
	out   io.Writer
	marks []int
}

func (w *minuteWarnings) check(remaining int) {
	for len(w.marks) > 0 && remaining <= w.marks[0] {
		yellow.Fprintf(w.out, "\n%d minute(s) left\n", w.marks[0]/60)
		w.marks = w.marks[1:]
	}
}

// runTake loads a test, runs the timed attempt against in and out, then
// prints the result and the answer review. The attempt is submitted once:
// by the s command, when input ends, or when the timer runs out.
func runTake(ctx context.Context, api examAPI, id string, in io.Reader, out io.Writer, p printer, opts ...session.Option) error {
	test, err := api.GetTest(ctx, id)
	if err != nil {
		return err
	}
	if len(test.Questions) == 0 {
		return fmt.Errorf("test %s has no questions", id)
	}

	var (
		mu        sync.Mutex
		result    *client.SubmitResult
		submitted []models.SubmittedAnswer
	)
	submit := func(ctx context.Context, sub session.Submission) error {
		res, err := api.Submit(ctx, sub.TestID, models.Submission{Answers: sub.Answers, TimeTaken: sub.TimeTaken})
		if err != nil {
			return fmt.Errorf("submit attempt: %w", err)
		}
		mu.Lock()
		defer mu.Unlock()
		result, submitted = res, sub.Answers
		return nil
	}

	s := session.New(test, submit, opts...)
	a := &attempt{test: test, session: s, out: out}

	cyan.Fprintf(out, "%s: %d questions, %d minutes\n", test.TestName, len(test.Questions), test.Duration)
	fmt.Fprintf(out, "Marking: +%g / %g\n%s\n", test.Marking.Positive, test.Marking.Negative, takeHelp)
	s.Start()
	defer s.Reset()
	a.show()

	g, gctx := errgroup.WithContext(ctx)
	lines := readLines(gctx, in)
	timerDone := make(chan struct{})
	warnings := &minuteWarnings{out: out, marks: []int{5 * 60, 60}}
	g.Go(func() error {
		defer close(timerDone)
		return s.Run(gctx, warnings.check)
	})
	g.Go(func() error {
		return a.loop(gctx, lines, timerDone)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	mu.Lock()
	res, answers := result, submitted
	mu.Unlock()
	if res == nil {
		return errors.New("attempt ended without a result")
	}

	green.Fprintln(out, "\nTest submitted successfully")
	if err := p.result(res); err != nil {
		return err
	}
	if stats, err := api.Stats(ctx, id, res.Result.Score); err != nil {
		red.Fprintf(out, "Ranking unavailable: %v\n", err)
	} else {
		cyan.Fprintf(out, "Rank %d of %d attempts (highest %g, average %g)\n",
			stats.Rank, stats.Stats.Attempts, stats.Stats.HighestScore, stats.Stats.AverageScore)
	}
	review, err := api.Review(ctx, id, answers)
	if err != nil {
		return err
	}
	return p.review(review)
}
