package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/fitdemo/internal/ports"
)

const refreshInterval = 150 * time.Millisecond

func cmdRunStep(ctx context.Context, seq ports.DemoSequencer, id string) tea.Cmd {
	return func() tea.Msg {
		res, err := seq.RunStep(ctx, id)
		return stepDoneMsg{res: res, err: err}
	}
}

func cmdRunDemo(ctx context.Context, seq ports.DemoSequencer) tea.Cmd {
	return func() tea.Msg {
		summary, err := seq.RunFullDemo(ctx)
		return demoDoneMsg{summary: summary, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
