package httprunner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aalvaropc/fitdemo/internal/domain"
	"github.com/aalvaropc/fitdemo/internal/infra/httpclient"
	"github.com/aalvaropc/fitdemo/internal/ports"
)

const emptyPayload = "(empty)"

// Runner is the request executor bound to one demo session.
type Runner struct {
	exec    *httpclient.Executor
	session *domain.Session
	log     *slog.Logger
}

type Option func(*Runner)

func WithExecutor(e *httpclient.Executor) Option {
	return func(r *Runner) { r.exec = e }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

func New(session *domain.Session, opts ...Option) *Runner {
	r := &Runner{
		exec:    httpclient.NewExecutor(),
		session: session,
		log:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.RequestExecutor = (*Runner)(nil)

// Execute performs req and appends exactly one record to the session log.
func (r *Runner) Execute(ctx context.Context, req domain.Request) domain.Outcome {
	title := req.DisplayTitle()
	log := r.session.Log()

	httpReq, err := httpclient.BuildRequest(ctx, r.session.BaseURL(), r.session.Token(), req)
	if err != nil {
		return r.fail(title, &domain.RunError{Kind: domain.RunErrorUnknown, Message: err.Error()}, 0, 0)
	}

	resp, err := r.exec.Do(ctx, httpReq)
	if err != nil {
		return r.fail(title, domain.NewRunError(err), resp.Status, resp.Duration)
	}

	if resp.OK() {
		if len(bytes.TrimSpace(resp.BodyBytes)) == 0 {
			rec := log.Append(title, emptyPayload, true, domain.RecordRequest)
			r.logOK(req, resp)
			return domain.Outcome{Record: rec, Status: resp.Status, Latency: resp.Duration}
		}

		var body any
		if err := json.Unmarshal(resp.BodyBytes, &body); err != nil {
			re := &domain.RunError{
				Kind:    domain.RunErrorDecode,
				Message: fmt.Sprintf("invalid JSON response: %v", err),
			}
			return r.fail(title, re, resp.Status, resp.Duration)
		}

		rec := log.Append(title, pretty(body), true, domain.RecordRequest)
		r.logOK(req, resp)
		return domain.Outcome{Record: rec, Body: body, Status: resp.Status, Latency: resp.Duration}
	}

	rec := log.Append(title, errorPayload(resp), false, domain.RecordRequest)
	r.log.Warn("request.failed",
		"session", r.session.ID,
		"method", string(req.Method),
		"endpoint", req.Endpoint,
		"status", resp.Status,
		"latency_ms", resp.Duration.Milliseconds(),
	)
	return domain.Outcome{Record: rec, Status: resp.Status, Latency: resp.Duration}
}

func (r *Runner) fail(title string, re *domain.RunError, status int, lat time.Duration) domain.Outcome {
	rec := r.session.Log().Append(title, "Error: "+re.Message, false, domain.RecordRequest)
	r.log.Warn("request.error",
		"session", r.session.ID,
		"title", title,
		"kind", string(re.Kind),
		"message", re.Message,
		"status", status,
		"latency_ms", lat.Milliseconds(),
	)
	return domain.Outcome{Record: rec, Status: status, Latency: lat, Err: re}
}

func (r *Runner) logOK(req domain.Request, resp httpclient.ResponseData) {
	r.log.Debug("request.ok",
		"session", r.session.ID,
		"method", string(req.Method),
		"endpoint", req.Endpoint,
		"status", resp.Status,
		"latency_ms", resp.Duration.Milliseconds(),
		"truncated", resp.Truncated,
		"body_bytes", len(resp.BodyBytes),
	)
}

// errorPayload renders a non-2xx body: JSON when it parses, raw text otherwise.
func errorPayload(resp httpclient.ResponseData) string {
	raw := bytes.TrimSpace(resp.BodyBytes)
	if len(raw) == 0 {
		msg := fmt.Sprintf("HTTP %d %s", resp.Status, http.StatusText(resp.Status))
		if loc := resp.Headers.Get("Location"); loc != "" && resp.Status >= 300 && resp.Status < 400 {
			msg += " (Location: " + loc + ")"
		}
		return msg
	}
	var body any
	if err := json.Unmarshal(raw, &body); err == nil {
		return pretty(body)
	}
	return strings.TrimSpace(string(raw))
}

func pretty(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
