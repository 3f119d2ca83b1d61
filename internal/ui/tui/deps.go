package tui

import (
	"log/slog"

	"github.com/aalvaropc/fitdemo/internal/ports"
)

type Deps struct {
	Sequencer ports.DemoSequencer

	// ConfigRoot is where fitdemo.yaml was found, or the working directory.
	ConfigRoot  string
	ConfigFound bool

	// LogPath is shown in the status line when set.
	LogPath string

	Logger *slog.Logger
	Debug  bool
}
