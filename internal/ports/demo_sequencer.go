package ports

import (
	"context"

	"github.com/aalvaropc/fitdemo/internal/domain"
)

// DemoSequencer is what interactive front ends drive.
type DemoSequencer interface {
	Steps() []domain.StepSpec
	Session() *domain.Session
	Busy() bool
	RunStep(ctx context.Context, id string) (domain.StepResult, error)
	RunFullDemo(ctx context.Context) (domain.DemoSummary, error)
}
