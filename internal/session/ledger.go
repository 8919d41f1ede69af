package session

import (
	"sort"
	"sync"

	models "zetaexams/internal/models"
)

// Status is how a question appears in the palette.
type Status string

const (
	StatusUnattempted     Status = "unattempted"
	StatusAnswered        Status = "answered"
	StatusFlagged         Status = "flagged"
	StatusAnsweredFlagged Status = "answered-flagged"
)

// Ledger tracks the selections and review flags of one in-progress attempt.
// It does not check question numbers against the test; callers do.
type Ledger struct {
	mu      sync.RWMutex
	answers map[int]models.Option
	flagged map[int]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{
		answers: make(map[int]models.Option),
		flagged: make(map[int]struct{}),
	}
}

// SetAnswer records option for question n, replacing any earlier selection.
// OptionNone clears the selection.
func (l *Ledger) SetAnswer(n int, option models.Option) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if option == models.OptionNone {
		delete(l.answers, n)
		return
	}
	l.answers[n] = option
}

// Answer returns the selection for question n and whether there is one.
func (l *Ledger) Answer(n int) (models.Option, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	o, ok := l.answers[n]
	return o, ok
}

// ToggleFlag flips the review flag of question n and returns the new state.
func (l *Ledger) ToggleFlag(n int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.flagged[n]; ok {
		delete(l.flagged, n)
		return false
	}
	l.flagged[n] = struct{}{}
	return true
}

func (l *Ledger) Flagged(n int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.flagged[n]
	return ok
}

// Answers returns the current selections ordered by question number.
func (l *Ledger) Answers() []models.SubmittedAnswer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.SubmittedAnswer, 0, len(l.answers))
	for n, o := range l.answers {
		out = append(out, models.SubmittedAnswer{QuestionNumber: n, SelectedOption: o})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionNumber < out[j].QuestionNumber })
	return out
}

func (l *Ledger) Status(n int) Status {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, answered := l.answers[n]
	_, flagged := l.flagged[n]
	switch {
	case answered && flagged:
		return StatusAnsweredFlagged
	case answered:
		return StatusAnswered
	case flagged:
		return StatusFlagged
	}
	return StatusUnattempted
}

type Stats struct {
	Answered    int `json:"answered"`
	Unattempted int `json:"unattempted"`
	Flagged     int `json:"flagged"`
}

// Stats summarises the ledger against a test of total questions.
func (l *Ledger) Stats(total int) Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Stats{
		Answered:    len(l.answers),
		Unattempted: total - len(l.answers),
		Flagged:     len(l.flagged),
	}
}

// Reset empties both the selections and the flags.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.answers = make(map[int]models.Option)
	l.flagged = make(map[int]struct{})
}
