package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/aalvaropc/fitdemo/internal/domain"
	"github.com/aalvaropc/fitdemo/internal/ports"
)

var (
	ErrUnknownStep = errors.New("unknown step")
	ErrBusy        = errors.New("a run is already in progress")
)

// DefaultDelay is the pause before each step of a full demo.
const DefaultDelay = time.Second

const (
	demoStartTitle     = "Starting Full Demo"
	demoStartMessage   = "Running all demo steps automatically..."
	demoDoneTitle      = "Demo Complete"
	demoDoneMessage    = "All API endpoints tested successfully!"
	demoCancelledTitle = "Demo Cancelled"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sequencer runs demo steps against one session, either one at a time or as
// a full ordered batch. Only one run is active at any moment.
type Sequencer struct {
	steps   []domain.StepSpec
	index   map[string]int
	exec    ports.RequestExecutor
	session *domain.Session

	delay time.Duration
	sleep SleepFunc
	rand  domain.RandomSource
	now   func() time.Time
	creds domain.Credentials
	log   *slog.Logger

	busy atomic.Bool
}

var _ ports.DemoSequencer = (*Sequencer)(nil)

type SequencerOption func(*Sequencer)

func WithDelay(d time.Duration) SequencerOption {
	return func(s *Sequencer) { s.delay = d }
}

func WithSleep(fn SleepFunc) SequencerOption {
	return func(s *Sequencer) { s.sleep = fn }
}

func WithRand(r domain.RandomSource) SequencerOption {
	return func(s *Sequencer) { s.rand = r }
}

func WithNow(fn func() time.Time) SequencerOption {
	return func(s *Sequencer) { s.now = fn }
}

func WithCredentials(c domain.Credentials) SequencerOption {
	return func(s *Sequencer) { s.creds = c }
}

func WithLogger(l *slog.Logger) SequencerOption {
	return func(s *Sequencer) { s.log = l }
}

// NewSequencer copies steps; later changes to the slice are not observed.
func NewSequencer(steps []domain.StepSpec, exec ports.RequestExecutor, session *domain.Session, opts ...SequencerOption) *Sequencer {
	s := &Sequencer{
		steps:   append([]domain.StepSpec(nil), steps...),
		index:   make(map[string]int, len(steps)),
		exec:    exec,
		session: session,
		delay:   DefaultDelay,
		sleep:   sleepCtx,
		rand:    globalRand{},
		now:     time.Now,
		creds:   domain.DefaultConfig().Login,
		log:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for i, st := range s.steps {
		s.index[st.ID] = i
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Steps returns the ordered step list.
func (s *Sequencer) Steps() []domain.StepSpec {
	return append([]domain.StepSpec(nil), s.steps...)
}

func (s *Sequencer) Session() *domain.Session {
	return s.session
}

// Busy reports whether a step or a full demo is running.
func (s *Sequencer) Busy() bool {
	return s.busy.Load()
}

// RunStep runs exactly one step by id.
func (s *Sequencer) RunStep(ctx context.Context, id string) (domain.StepResult, error) {
	i, ok := s.index[id]
	if !ok {
		return domain.StepResult{}, fmt.Errorf("%w: %q", ErrUnknownStep, id)
	}
	if !s.busy.CompareAndSwap(false, true) {
		return domain.StepResult{}, ErrBusy
	}
	defer s.busy.Store(false)

	return s.runStep(ctx, s.steps[i]), nil
}

// RunFullDemo clears the log and runs every step in order, waiting the
// configured delay before each one. Failed steps never stop the batch; only
// context cancellation does.
func (s *Sequencer) RunFullDemo(ctx context.Context) (domain.DemoSummary, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return domain.DemoSummary{}, ErrBusy
	}
	defer s.busy.Store(false)

	log := s.session.Log()
	log.Clear()

	sum := domain.DemoSummary{
		SessionID: s.session.ID,
		Started:   s.now(),
		Steps:     make([]domain.StepResult, 0, len(s.steps)),
	}
	log.Append(demoStartTitle, demoStartMessage, true, domain.RecordMilestone)
	s.log.Info("demo.start", "session", s.session.ID, "steps", len(s.steps))

	for _, st := range s.steps {
		if err := s.sleep(ctx, s.delay); err != nil {
			log.Append(demoCancelledTitle, fmt.Sprintf("Stopped before %s: %v", st.Title, err), false, domain.RecordMilestone)
			sum.Finished = s.now()
			s.log.Warn("demo.cancelled", "session", s.session.ID, "before", st.ID, "err", err)
			return sum, err
		}

		res := s.runStep(ctx, st)
		if !res.Succeeded {
			sum.Failed++
		}
		sum.Steps = append(sum.Steps, res)
	}

	// Cancelled during the last step: no sleep is left to notice it.
	if err := ctx.Err(); err != nil {
		log.Append(demoCancelledTitle, fmt.Sprintf("Stopped after %d of %d steps: %v", len(sum.Steps), len(s.steps), err), false, domain.RecordMilestone)
		sum.Finished = s.now()
		s.log.Warn("demo.cancelled", "session", s.session.ID, "completed", len(sum.Steps), "err", err)
		return sum, err
	}

	msg := demoDoneMessage
	if sum.Failed > 0 {
		msg = fmt.Sprintf("%d of %d steps failed.", sum.Failed, len(s.steps))
	}
	log.Append(demoDoneTitle, msg, sum.Failed == 0, domain.RecordMilestone)
	sum.Finished = s.now()

	s.log.Info("demo.done",
		"session", s.session.ID,
		"steps", len(sum.Steps),
		"failed", sum.Failed,
		"duration_ms", sum.Finished.Sub(sum.Started).Milliseconds(),
	)
	return sum, nil
}

func (s *Sequencer) runStep(ctx context.Context, st domain.StepSpec) domain.StepResult {
	s.log.Debug("step.start", "session", s.session.ID, "step", st.ID)

	env := domain.PayloadEnv{
		Now:         s.now(),
		Rand:        s.rand,
		Credentials: s.creds,
	}
	out := s.exec.Execute(ctx, st.Request(env))

	res := domain.StepResult{
		StepID:    st.ID,
		Outcome:   out,
		Succeeded: out.Succeeded(),
		Status:    out.Status,
	}

	if st.ExtractToken == nil || out.Body == nil {
		return res
	}
	tok, ok := st.ExtractToken(out.Body)
	if !ok || !s.session.SetToken(tok) {
		return res
	}

	title := st.TokenTitle
	if title == "" {
		title = "Token Saved"
	}
	s.session.Log().Append(title, st.TokenMessage, true, domain.RecordToken)
	res.TokenSaved = true
	s.log.Info("token.saved", "session", s.session.ID, "step", st.ID)
	return res
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// globalRand adapts the math/rand/v2 top-level source.
type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }
