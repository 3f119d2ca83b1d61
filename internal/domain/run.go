package domain

import (
	"context"
	"errors"
	"net"
	"net/url"
	"os"
	"syscall"
)

// RunErrorKind is a high-level classification of transport failures.
type RunErrorKind string

const (
	RunErrorUnknown RunErrorKind = "unknown"
	RunErrorTimeout RunErrorKind = "timeout"
	RunErrorDNS     RunErrorKind = "dns"
	RunErrorConn    RunErrorKind = "connection"
	RunErrorDecode  RunErrorKind = "decode"
)

// RunError is a structured transport failure produced by the request executor.
type RunError struct {
	Kind    RunErrorKind
	Message string
}

func (e *RunError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// NewRunError classifies err and keeps its message.
func NewRunError(err error) *RunError {
	if err == nil {
		return nil
	}
	return &RunError{Kind: ClassifyRunError(err), Message: err.Error()}
}

// ClassifyRunError maps a transport error to a RunErrorKind.
func ClassifyRunError(err error) RunErrorKind {
	if err == nil {
		return RunErrorUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return RunErrorTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return RunErrorDNS
	}

	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return RunErrorTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.EPIPE) {
		return RunErrorConn
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return RunErrorTimeout
	}

	var oe *net.OpError
	if errors.As(err, &oe) {
		return RunErrorConn
	}

	return RunErrorUnknown
}
