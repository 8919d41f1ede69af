// Package session holds the client side state of one timed mock test attempt:
// the answer ledger and the wall-clock timer that forces submission.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	models "zetaexams/internal/models"
)

// PollInterval is how often Run checks the clock.
const PollInterval = time.Second

var (
	ErrNotStarted       = errors.New("attempt has not started")
	ErrAlreadySubmitted = errors.New("attempt already submitted")
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Submission is what an attempt hands to the scoring endpoint.
type Submission struct {
	TestID    string
	Answers   []models.SubmittedAnswer
	TimeTaken int
	Expired   bool
}

// SubmitFunc delivers a submission. It is called at most once per attempt.
type SubmitFunc func(ctx context.Context, sub Submission) error

// AttemptSession owns the ledger and timer of a single attempt. It is built
// when a test is loaded and reset when the attempt ends.
type AttemptSession struct {
	mu        sync.Mutex
	clock     Clock
	interval  time.Duration
	submit    SubmitFunc
	testID    string
	duration  time.Duration
	questions int
	start     time.Time
	started   bool
	completed bool
	ledger    *Ledger
}

type Option func(*AttemptSession)

func WithClock(c Clock) Option {
	return func(s *AttemptSession) { s.clock = c }
}

func WithInterval(d time.Duration) Option {
	return func(s *AttemptSession) { s.interval = d }
}

// New creates a session for test. submit is invoked exactly once, either by
// Submit or when the timer runs out.
func New(test *models.MockTest, submit SubmitFunc, opts ...Option) *AttemptSession {
	s := &AttemptSession{
		clock:     systemClock{},
		interval:  PollInterval,
		submit:    submit,
		testID:    test.ID.Hex(),
		duration:  time.Duration(test.Duration) * time.Minute,
		questions: len(test.Questions),
		ledger:    NewLedger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AttemptSession) Ledger() *Ledger { return s.ledger }

func (s *AttemptSession) TestID() string { return s.testID }

func (s *AttemptSession) QuestionCount() int { return s.questions }

// Start clears any previous state and anchors the attempt at the current instant.
func (s *AttemptSession) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.start = s.clock.Now()
	s.started = true
}

// Reset drops the start time, the completion mark and the ledger.
func (s *AttemptSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *AttemptSession) resetLocked() {
	s.start = time.Time{}
	s.started = false
	s.completed = false
	s.ledger.Reset()
}

func (s *AttemptSession) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *AttemptSession) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Remaining returns the whole seconds left, which is negative once time is up.
func (s *AttemptSession) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked()
}

func (s *AttemptSession) remainingLocked() int {
	if !s.started {
		return int(s.duration / time.Second)
	}
	elapsed := int(s.clock.Now().Sub(s.start) / time.Second)
	return int(s.duration/time.Second) - elapsed
}

// ElapsedMinutes is the whole minutes since Start.
func (s *AttemptSession) ElapsedMinutes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return 0
	}
	return int(s.clock.Now().Sub(s.start) / time.Minute)
}

// Tick checks the clock once. While time remains it returns the seconds left.
// The first tick at or past zero submits the attempt; later ticks do nothing.
func (s *AttemptSession) Tick(ctx context.Context) (int, *Submission, error) {
	s.mu.Lock()
	if !s.started || s.completed {
		s.mu.Unlock()
		return 0, nil, nil
	}
	remaining := s.remainingLocked()
	if remaining > 0 {
		s.mu.Unlock()
		return remaining, nil, nil
	}
	sub := s.claimLocked(true)
	s.mu.Unlock()

	return 0, &sub, s.submit(ctx, sub)
}

// Submit ends the attempt on the user's request.
func (s *AttemptSession) Submit(ctx context.Context) (*Submission, error) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil, ErrNotStarted
	}
	if s.completed {
		s.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	sub := s.claimLocked(false)
	s.mu.Unlock()

	return &sub, s.submit(ctx, sub)
}

// claimLocked marks the attempt completed and snapshots the ledger, so only
// one caller ever reaches submit.
func (s *AttemptSession) claimLocked(expired bool) Submission {
	s.completed = true
	return Submission{
		TestID:    s.testID,
		Answers:   s.ledger.Answers(),
		TimeTaken: int(s.clock.Now().Sub(s.start) / time.Minute),
		Expired:   expired,
	}
}

// Run polls the timer until the attempt is submitted or ctx is done. onTick
// receives the seconds left after every poll that did not submit.
func (s *AttemptSession) Run(ctx context.Context, onTick func(remaining int)) error {
	if !s.Started() {
		return ErrNotStarted
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			remaining, sub, err := s.Tick(ctx)
			if sub != nil || err != nil {
				return err
			}
			if s.Completed() {
				return nil
			}
			if onTick != nil {
				onTick(remaining)
			}
		}
	}
}
