package ports

import (
	"context"

	"github.com/aalvaropc/fitdemo/internal/domain"
)

// RequestExecutor performs one request, records its outcome in the session log
// and never returns an error: every failure mode ends up in the record.
type RequestExecutor interface {
	Execute(ctx context.Context, req domain.Request) domain.Outcome
}
