package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aalvaropc/fitdemo/internal/domain"
	"github.com/aalvaropc/fitdemo/internal/ports"
)

// fakeExecutor records requests and answers from a per-endpoint table.
// Like the real executor it appends exactly one record per call.
type fakeExecutor struct {
	session *domain.Session

	mu        sync.Mutex
	calls     []domain.Request
	tokens    []string
	responses map[string]any
	failing   map[string]bool
	block     chan struct{}
	onCall    func(domain.Request)
}

func newFakeExecutor(session *domain.Session) *fakeExecutor {
	return &fakeExecutor{
		session:   session,
		responses: map[string]any{},
		failing:   map[string]bool{},
	}
}

func (f *fakeExecutor) Execute(_ context.Context, req domain.Request) domain.Outcome {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.tokens = append(f.tokens, f.session.Token())
	body, fail := f.responses[req.Endpoint], f.failing[req.Endpoint]
	f.mu.Unlock()

	if f.onCall != nil {
		f.onCall(req)
	}

	if fail {
		rec := f.session.Log().Append(req.DisplayTitle(), "Error: boom", false, domain.RecordRequest)
		return domain.Outcome{Record: rec, Err: &domain.RunError{Kind: domain.RunErrorConn, Message: "boom"}}
	}
	rec := f.session.Log().Append(req.DisplayTitle(), "{}", true, domain.RecordRequest)
	return domain.Outcome{Record: rec, Body: body, Status: 200}
}

var _ ports.RequestExecutor = (*fakeExecutor)(nil)

type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

type fixedRand struct {
	n int
	f float64
}

func (r fixedRand) IntN(int) int     { return r.n }
func (r fixedRand) Float64() float64 { return r.f }

var fixedNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func newTestSequencer(t *testing.T, opts ...SequencerOption) (*Sequencer, *fakeExecutor, *recordingSleeper) {
	t.Helper()
	sess := domain.NewSession("s1", "http://api.test", domain.NewResultLog(domain.DefaultLogCapacity))
	exec := newFakeExecutor(sess)
	sl := &recordingSleeper{}
	base := []SequencerOption{
		WithSleep(sl.Sleep),
		WithRand(fixedRand{n: 0, f: 0.5}),
		WithNow(func() time.Time { return fixedNow }),
	}
	seq := NewSequencer(DefaultSteps(nil), exec, sess, append(base, opts...)...)
	return seq, exec, sl
}

func TestRunFullDemo_RunsAllStepsInOrderWithDelay(t *testing.T) {
	seq, exec, sl := newTestSequencer(t, WithDelay(250*time.Millisecond))

	sum, err := seq.RunFullDemo(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exec.calls) != 8 {
		t.Fatalf("expected 8 requests, got %d", len(exec.calls))
	}
	wantEndpoints := []string{
		"/auth/register", "/token", "/activities", "/activities",
		"/activities", "/activities/goals", "/activities/metrics", "/activities/leaderboard",
	}
	for i, want := range wantEndpoints {
		if exec.calls[i].Endpoint != want {
			t.Fatalf("call %d: expected %s, got %s", i, want, exec.calls[i].Endpoint)
		}
	}
	if len(sl.delays) != 8 {
		t.Fatalf("expected one wait per step, got %d", len(sl.delays))
	}
	for _, d := range sl.delays {
		if d != 250*time.Millisecond {
			t.Fatalf("unexpected delay %v", d)
		}
	}
	if sum.Failed != 0 || len(sum.Steps) != 8 || sum.SessionID != "s1" {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestRunFullDemo_LogHoldsMostRecentTen(t *testing.T) {
	seq, _, _ := newTestSequencer(t)

	seq.Session().Log().Append("stale", "x", true, domain.RecordRequest)
	if _, err := seq.RunFullDemo(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recs := seq.Session().Log().Records()
	if len(recs) != 10 {
		t.Fatalf("expected 10 records, got %d", len(recs))
	}
	if recs[0].Title != "Demo Complete" || recs[0].Kind != domain.RecordMilestone {
		t.Fatalf("expected Demo Complete first, got %+v", recs[0])
	}
	if recs[len(recs)-1].Title != "Starting Full Demo" {
		t.Fatalf("expected Starting Full Demo last, got %q", recs[len(recs)-1].Title)
	}
	for _, r := range recs {
		if r.Title == "stale" {
			t.Fatalf("expected log cleared at start")
		}
	}
}

func TestRunFullDemo_TokenPropagation(t *testing.T) {
	seq, exec, _ := newTestSequencer(t, WithDelay(0))
	exec.responses["/auth/register"] = map[string]any{"access": "tok-register", "refresh": "r"}
	exec.responses["/token"] = map[string]any{"access": "tok-login"}

	sum, err := seq.RunFullDemo(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if exec.tokens[0] != "" || exec.tokens[1] != "tok-register" {
		t.Fatalf("unexpected tokens before login: %v", exec.tokens[:2])
	}
	for i := 2; i < len(exec.tokens); i++ {
		if exec.tokens[i] != "tok-login" {
			t.Fatalf("call %d: expected tok-login, got %q", i, exec.tokens[i])
		}
	}
	if seq.Session().Token() != "tok-login" {
		t.Fatalf("expected session token tok-login, got %q", seq.Session().Token())
	}
	if !sum.Steps[0].TokenSaved || !sum.Steps[1].TokenSaved || sum.Steps[2].TokenSaved {
		t.Fatalf("unexpected TokenSaved flags %+v", sum.Steps[:3])
	}

	// 1 start + 8 requests + 2 token records + 1 complete = 12; the oldest two are evicted.
	recs := seq.Session().Log().Records()
	loginIdx := -1
	for i, r := range recs {
		if r.Title == "Token Updated" {
			loginIdx = i
		}
	}
	if loginIdx <= 0 {
		t.Fatalf("expected a Token Updated record, got %+v", recs)
	}
	if recs[loginIdx+1].Title != "POST /token" {
		t.Fatalf("expected token record right after the login request, got %q", recs[loginIdx+1].Title)
	}
	if recs[loginIdx].Kind != domain.RecordToken || recs[loginIdx].Payload != "New authentication token saved!" {
		t.Fatalf("unexpected token record %+v", recs[loginIdx])
	}
}

func TestRunStep_AbsentTokenKeepsExisting(t *testing.T) {
	seq, exec, _ := newTestSequencer(t)
	seq.Session().SetToken("existing")
	exec.responses["/token"] = map[string]any{"detail": "no access field"}

	res, err := seq.RunStep(context.Background(), StepLogin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TokenSaved {
		t.Fatalf("expected no token saved")
	}
	if seq.Session().Token() != "existing" {
		t.Fatalf("expected token unchanged, got %q", seq.Session().Token())
	}
	if seq.Session().Log().Len() != 1 {
		t.Fatalf("expected only the request record, got %d", seq.Session().Log().Len())
	}
}

func TestRunStep_EmptyTokenKeepsExisting(t *testing.T) {
	seq, exec, _ := newTestSequencer(t)
	seq.Session().SetToken("existing")
	exec.responses["/auth/register"] = map[string]any{"access": ""}

	if _, err := seq.RunStep(context.Background(), StepRegister); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seq.Session().Token() != "existing" {
		t.Fatalf("expected token unchanged, got %q", seq.Session().Token())
	}
}

func TestRunFullDemo_ContinuesAfterFailure(t *testing.T) {
	seq, exec, _ := newTestSequencer(t, WithDelay(0))
	exec.failing["/auth/register"] = true
	exec.failing["/activities/metrics"] = true

	sum, err := seq.RunFullDemo(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exec.calls) != 8 {
		t.Fatalf("expected all 8 steps to run, got %d", len(exec.calls))
	}
	if sum.Failed != 2 {
		t.Fatalf("expected 2 failures, got %d", sum.Failed)
	}
	first := seq.Session().Log().Records()[0]
	if first.Title != "Demo Complete" || first.Succeeded || first.Payload != "2 of 8 steps failed." {
		t.Fatalf("unexpected completion record %+v", first)
	}
}

func TestRunStep_UnknownStep(t *testing.T) {
	seq, exec, _ := newTestSequencer(t)

	_, err := seq.RunStep(context.Background(), "nope")
	if !errors.Is(err, ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}
	if len(exec.calls) != 0 || seq.Session().Log().Len() != 0 {
		t.Fatalf("expected no side effects")
	}
}

func TestRunStep_RunsOnlyOneStep(t *testing.T) {
	seq, exec, sl := newTestSequencer(t)

	res, err := seq.RunStep(context.Background(), StepCreateActivity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exec.calls) != 1 || !exec.calls[0].RequiresAuth {
		t.Fatalf("unexpected calls %+v", exec.calls)
	}
	if len(sl.delays) != 0 {
		t.Fatalf("single steps never wait, got %v", sl.delays)
	}
	if !res.Succeeded || res.StepID != StepCreateActivity || res.Status != 200 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSequencer_BusyRejectsConcurrentRuns(t *testing.T) {
	seq, exec, _ := newTestSequencer(t)
	exec.block = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := seq.RunStep(context.Background(), StepViewActivities)
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !seq.Busy() {
		if time.Now().After(deadline) {
			t.Fatalf("sequencer never became busy")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := seq.RunStep(context.Background(), StepViewMetrics); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy from RunStep, got %v", err)
	}
	if _, err := seq.RunFullDemo(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy from RunFullDemo, got %v", err)
	}

	close(exec.block)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seq.Busy() {
		t.Fatalf("expected busy flag released")
	}
}

func TestRunFullDemo_StopsOnContextCancel(t *testing.T) {
	seq, exec, _ := newTestSequencer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := seq.RunFullDemo(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(exec.calls) != 0 {
		t.Fatalf("expected no requests, got %d", len(exec.calls))
	}
	if sum.Started.IsZero() || sum.Finished.IsZero() {
		t.Fatalf("expected timestamps set, got %+v", sum)
	}
	if seq.Busy() {
		t.Fatalf("expected busy flag released")
	}
	recs := seq.Session().Log().Records()
	if len(recs) != 2 || recs[0].Title != "Demo Cancelled" {
		t.Fatalf("unexpected records %+v", recs)
	}
}

func TestRunFullDemo_CancelDuringLastStep(t *testing.T) {
	seq, exec, _ := newTestSequencer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exec.onCall = func(req domain.Request) {
		if req.Endpoint == "/activities/leaderboard" {
			cancel()
		}
	}

	sum, err := seq.RunFullDemo(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(sum.Steps) != 8 {
		t.Fatalf("expected every step to have run, got %d", len(sum.Steps))
	}
	recs := seq.Session().Log().Records()
	if recs[0].Title != "Demo Cancelled" || recs[0].Succeeded {
		t.Fatalf("expected a cancelled milestone on top, got %+v", recs[0])
	}
	for _, r := range recs {
		if r.Title == "Demo Complete" {
			t.Fatalf("expected no completion milestone after cancel")
		}
	}
}

func TestSleepCtx_InterruptedByCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := sleepCtx(ctx, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("sleep was not interrupted")
	}
}

func TestSteps_ReturnsCopy(t *testing.T) {
	seq, _, _ := newTestSequencer(t)

	steps := seq.Steps()
	steps[0].ID = "mutated"
	if seq.Steps()[0].ID != StepRegister {
		t.Fatalf("expected step list to be immutable")
	}
}
