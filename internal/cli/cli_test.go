package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aalvaropc/fitdemo/internal/domain"
	"github.com/aalvaropc/fitdemo/internal/infra/configfinder"
	"github.com/aalvaropc/fitdemo/internal/infra/mockapi"
	"github.com/aalvaropc/fitdemo/internal/usecase"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "fitdemo.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// --- command structure ---

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"run", "step", "steps", "init", "mock", "version"} {
		if !names[expected] {
			t.Errorf("expected subcommand %q to be registered", expected)
		}
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, flag := range []string{"config", "base-url", "delay", "debug"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected --%s persistent flag", flag)
		}
	}
}

func TestRunCmd_Flags(t *testing.T) {
	cmd := runCmd(&rootOptions{})
	if cmd.Use != "run" {
		t.Errorf("expected Use=run, got %q", cmd.Use)
	}
	if cmd.Flags().Lookup("format") == nil {
		t.Error("expected --format flag on run command")
	}
}

func TestStepCmd_RequiresOneArg(t *testing.T) {
	cmd := stepCmd(&rootOptions{})
	if err := cmd.Args(cmd, nil); err == nil {
		t.Error("expected error without a step id")
	}
	if err := cmd.Args(cmd, []string{"login"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInitCmd_Flags(t *testing.T) {
	cmd := initCmd()
	if cmd.Flags().Lookup("path") == nil {
		t.Error("expected --path flag on init command")
	}
	if cmd.Flags().Lookup("force") == nil {
		t.Error("expected --force flag on init command")
	}
}

func TestMockCmd_Flags(t *testing.T) {
	cmd := mockCmd(&rootOptions{})
	for _, flag := range []string{"addr", "seed-user", "seed-password", "no-seed"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on mock command", flag)
		}
	}
	if got := cmd.Flags().Lookup("addr").DefValue; got != ":8080" {
		t.Errorf("expected default addr :8080, got %q", got)
	}
}

// --- printRun ---

func TestPrintRun_JSON_ValidOutput(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	summary := domain.DemoSummary{
		SessionID: "abc123",
		Started:   now,
		Finished:  now.Add(100 * time.Millisecond),
		Steps:     []domain.StepResult{{StepID: "register", Succeeded: true, Status: 201, TokenSaved: true}},
	}
	records := []domain.ResultRecord{{ID: 1, Title: "POST /auth/register", Payload: "{}", Succeeded: true}}

	var buf bytes.Buffer
	if err := printRun(&buf, summary, records, "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var payload struct {
		Summary domain.DemoSummary    `json:"summary"`
		Records []domain.ResultRecord `json:"records"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if payload.Summary.SessionID != "abc123" {
		t.Errorf("expected session_id=abc123, got %q", payload.Summary.SessionID)
	}
	if len(payload.Records) != 1 || payload.Records[0].Title != "POST /auth/register" {
		t.Errorf("unexpected records: %+v", payload.Records)
	}
}

func TestPrintRun_Pretty_ContainsStepsAndRecords(t *testing.T) {
	summary := domain.DemoSummary{
		SessionID: "run-42",
		Started:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Finished:  time.Date(2024, 1, 1, 0, 0, 9, 0, time.UTC),
		Steps: []domain.StepResult{
			{StepID: "register", Succeeded: true, Status: 201, TokenSaved: true},
			{StepID: "view_metrics", Succeeded: false},
		},
		Failed: 1,
	}
	records := []domain.ResultRecord{
		{Title: "GET /activities/metrics", Payload: "Error: connection refused"},
	}

	var buf bytes.Buffer
	if err := printRun(&buf, summary, records, "pretty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"run-42", "Failed:   1/2", "register", "view_metrics", "saved", "201", "FAIL", "Error: connection refused"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in pretty output, got:\n%s", want, out)
		}
	}
}

func TestPrintRun_EmptyFormat_IsPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := printRun(&buf, domain.DemoSummary{}, nil, ""); err != nil {
		t.Fatalf("empty format should behave like pretty, got error: %v", err)
	}
}

func TestPrintRun_UnknownFormat_ReturnsError(t *testing.T) {
	var buf bytes.Buffer
	err := printRun(&buf, domain.DemoSummary{}, nil, "xml")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "xml") {
		t.Errorf("expected error to mention format, got: %v", err)
	}
}

func TestPrintRecords_IndentsPayload(t *testing.T) {
	var buf bytes.Buffer
	printRecords(&buf, []domain.ResultRecord{{Title: "Token Saved", Payload: "line1\nline2", Succeeded: true}})
	out := buf.String()
	if !strings.Contains(out, "[OK] Token Saved") {
		t.Errorf("expected title line, got:\n%s", out)
	}
	if !strings.Contains(out, "  line1\n  line2\n") {
		t.Errorf("expected indented payload, got:\n%s", out)
	}
}

// --- printSteps ---

func TestPrintSteps_ListsEverything(t *testing.T) {
	var buf bytes.Buffer
	printSteps(&buf, usecase.DefaultSteps(nil))
	out := buf.String()
	for _, want := range []string{"register", "view_leaderboard", "/activities/goals", "POST", "bearer"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in steps table, got:\n%s", want, out)
		}
	}
}

// --- resolveConfig ---

func TestResolveConfig_ExplicitPath(t *testing.T) {
	p := writeConfig(t, "fitdemo:\n  base_url: http://localhost:9999/api\n  delay: 0s\n")

	root, found, cfg, err := resolveConfig(configfinder.NewFinder(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Error("expected found=true")
	}
	if root != filepath.Dir(p) {
		t.Errorf("expected root %q, got %q", filepath.Dir(p), root)
	}
	if cfg.BaseURL != "http://localhost:9999/api" || cfg.Delay != 0 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestResolveConfig_ExplicitPathMissing(t *testing.T) {
	_, _, _, err := resolveConfig(configfinder.NewFinder(), filepath.Join(t.TempDir(), "nope.yaml"))
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestResolveConfig_InvalidFile(t *testing.T) {
	p := writeConfig(t, "fitdemo:\n  timeout: -1s\n")
	_, _, _, err := resolveConfig(configfinder.NewFinder(), p)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

type stubLocator struct {
	root string
	err  error
}

func (s stubLocator) FindRoot(string) (string, error) { return s.root, s.err }

func TestResolveConfig_UsesLocator(t *testing.T) {
	p := writeConfig(t, "fitdemo:\n  base_url: http://located/api\n")

	root, found, cfg, err := resolveConfig(stubLocator{root: filepath.Dir(p)}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || root != filepath.Dir(p) || cfg.BaseURL != "http://located/api" {
		t.Fatalf("unexpected result root=%q found=%v cfg=%+v", root, found, cfg)
	}
}

func TestResolveConfig_NotFoundFallsBackToDefaults(t *testing.T) {
	notFound := &domain.OpError{Op: "configfinder.find", Kind: domain.KindNotFound, Err: os.ErrNotExist}

	root, found, cfg, err := resolveConfig(stubLocator{err: notFound}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wd, _ := os.Getwd()
	if found || root != wd {
		t.Fatalf("expected defaults rooted at %q, got root=%q found=%v", wd, root, found)
	}
	if cfg.BaseURL != domain.DefaultConfig().BaseURL {
		t.Fatalf("expected default config, got %+v", cfg)
	}
}

func TestResolveConfig_LocatorErrorPropagates(t *testing.T) {
	boom := errors.New("permission denied")
	if _, _, _, err := resolveConfig(stubLocator{err: boom}, ""); !errors.Is(err, boom) {
		t.Fatalf("expected locator error, got %v", err)
	}
}

func TestLoadDemo_RecordsLogPath(t *testing.T) {
	p := writeConfig(t, "fitdemo:\n  delay: 0s\n")
	cmd := newRootCmd()

	d, err := loadDemo(cmd, &rootOptions{configPath: p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer d.Close()

	want := filepath.Join(filepath.Dir(p), ".fitdemo", "logs", "fitdemo.log")
	if d.logPath != want {
		t.Fatalf("expected log path %q, got %q", want, d.logPath)
	}
}

func TestApplyFlags_DelayOnlyWhenChanged(t *testing.T) {
	cmd := newRootCmd()
	opts := &rootOptions{baseURL: " http://override/api "}

	cfg := domain.DefaultConfig()
	applyFlags(cmd, opts, &cfg)
	if cfg.BaseURL != "http://override/api" {
		t.Errorf("expected base url override, got %q", cfg.BaseURL)
	}
	if cfg.Delay != time.Second {
		t.Errorf("expected default delay to survive, got %s", cfg.Delay)
	}

	if err := cmd.PersistentFlags().Set("delay", "250ms"); err != nil {
		t.Fatal(err)
	}
	opts.delay = 250 * time.Millisecond
	applyFlags(cmd, opts, &cfg)
	if cfg.Delay != 250*time.Millisecond {
		t.Errorf("expected delay override, got %s", cfg.Delay)
	}
}

// --- end to end ---

func newMockAPI(t *testing.T) *httptest.Server {
	t.Helper()
	api := mockapi.New(mockapi.WithBcryptCost(bcrypt.MinCost))
	if err := api.SeedUser("demo_user", "demo123456"); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestRunCommand_AgainstMockAPI(t *testing.T) {
	srv := newMockAPI(t)
	cfgPath := writeConfig(t, "fitdemo:\n  timeout: 5s\n")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{
		"--config", cfgPath,
		"--base-url", srv.URL + mockapi.Prefix,
		"--delay", "0s",
		"run", "--format", "json",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("run failed: %v\n%s", err, out.String())
	}

	var payload struct {
		Summary domain.DemoSummary    `json:"summary"`
		Records []domain.ResultRecord `json:"records"`
	}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out.String())
	}
	if payload.Summary.Failed != 0 || len(payload.Summary.Steps) != 8 {
		t.Fatalf("unexpected summary: %+v", payload.Summary)
	}
	if len(payload.Records) != domain.DefaultLogCapacity {
		t.Errorf("expected %d records, got %d", domain.DefaultLogCapacity, len(payload.Records))
	}
	if payload.Records[0].Title != "Demo Complete" {
		t.Errorf("expected Demo Complete first, got %q", payload.Records[0].Title)
	}
}

func TestStepCommand_UnauthenticatedFails(t *testing.T) {
	srv := newMockAPI(t)
	cfgPath := writeConfig(t, "fitdemo:\n  timeout: 5s\n")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "--base-url", srv.URL + mockapi.Prefix, "step", "view_metrics"})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "view_metrics") {
		t.Fatalf("expected step failure, got %v", err)
	}
	if !strings.Contains(out.String(), "Authentication credentials were not provided.") {
		t.Errorf("expected 401 body in output, got:\n%s", out.String())
	}
}

func TestStepCommand_UnknownStep(t *testing.T) {
	cfgPath := writeConfig(t, "fitdemo: {}\n")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "step", "nope"})

	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected unknown step error, got %v", err)
	}
}

func TestInitCommand_WritesConfig(t *testing.T) {
	tmp := t.TempDir()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"init", "--path", tmp})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "fitdemo.yaml")); err != nil {
		t.Errorf("expected fitdemo.yaml: %v", err)
	}
	if !strings.Contains(out.String(), "Initialized fitdemo project") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "fitdemo ") {
		t.Errorf("unexpected version output: %q", out.String())
	}
}

func TestDisplayAddr(t *testing.T) {
	cases := map[string]string{
		":8080":          "localhost:8080",
		"127.0.0.1:9000": "127.0.0.1:9000",
	}
	for in, want := range cases {
		if got := displayAddr(in); got != want {
			t.Errorf("displayAddr(%q) = %q, want %q", in, got, want)
		}
	}
}
