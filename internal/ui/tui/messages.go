package tui

import (
	"time"

	"github.com/aalvaropc/fitdemo/internal/domain"
)

type stepDoneMsg struct {
	res domain.StepResult
	err error
}

type demoDoneMsg struct {
	summary domain.DemoSummary
	err     error
}

// tickMsg refreshes the result log while a run is in progress.
type tickMsg time.Time
