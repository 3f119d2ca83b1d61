package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/fitdemo/internal/domain"
	"github.com/aalvaropc/fitdemo/internal/infra/configfinder"
)

type stepItem struct {
	spec domain.StepSpec
}

func (i stepItem) Title() string { return i.spec.Title }
func (i stepItem) Description() string {
	return string(i.spec.Method) + " " + i.spec.Endpoint + " · " + i.spec.Description
}
func (i stepItem) FilterValue() string { return i.spec.Title }

type model struct {
	theme Theme
	deps  Deps
	log   *slog.Logger

	steps  list.Model
	urlIn  textinput.Model
	width  int
	height int

	editingURL bool
	running    bool
	runLabel   string
	cancel     context.CancelFunc
	toast      string
}

func Run(deps Deps) error {
	if deps.Sequencer == nil {
		return errors.New("tui: nil sequencer")
	}
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, m.log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	specs := deps.Sequencer.Steps()
	items := make([]list.Item, 0, len(specs))
	for _, s := range specs {
		items = append(items, stepItem{spec: s})
	}

	l := list.New(items, list.NewDefaultDelegate(), 44, 20)
	l.Title = "Demo Steps"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	in := textinput.New()
	in.Placeholder = domain.DefaultConfig().BaseURL
	in.CharLimit = 300
	in.Prompt = "Base URL: "

	return model{
		theme:  t,
		deps:   deps,
		log:    log,
		steps:  l,
		urlIn:  in,
		width:  100,
		height: 30,
	}
}

func (m model) session() *domain.Session {
	return m.deps.Sequencer.Session()
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.steps.SetSize(m.listWidth(), max(msg.Height-10, 5))
		return m, nil

	case tickMsg:
		if m.running {
			return m, tick()
		}
		return m, nil

	case stepDoneMsg:
		m = m.finishRun(msg.err)
		if msg.err == nil && !msg.res.Succeeded {
			m.toast = fmt.Sprintf("%s failed (see result log)", msg.res.StepID)
		}
		return m, nil

	case demoDoneMsg:
		m = m.finishRun(msg.err)
		if msg.err == nil && msg.summary.Failed > 0 {
			m.toast = fmt.Sprintf("%d of %d steps failed", msg.summary.Failed, len(msg.summary.Steps))
		}
		return m, nil

	case tea.KeyMsg:
		if m.editingURL {
			return m.updateURL(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit

		case "enter":
			if m.running {
				return m, nil
			}
			it, ok := m.steps.SelectedItem().(stepItem)
			if !ok {
				return m, nil
			}
			return m.startRun(it.spec.Title, func(ctx context.Context) tea.Cmd {
				return cmdRunStep(ctx, m.deps.Sequencer, it.spec.ID)
			})

		case "a":
			if m.running {
				return m, nil
			}
			return m.startRun("Full demo", func(ctx context.Context) tea.Cmd {
				return cmdRunDemo(ctx, m.deps.Sequencer)
			})

		case "c":
			if m.running {
				return m, nil
			}
			m.session().Clear()
			m.toast = "Cleared token and results"
			m.log.Info("tui.clear", "session", m.session().ID)
			return m, nil

		case "u":
			if m.running {
				return m, nil
			}
			m.editingURL = true
			m.toast = ""
			m.urlIn.SetValue(m.session().BaseURL())
			m.urlIn.CursorEnd()
			return m, m.urlIn.Focus()

		case "x", "esc":
			if m.running && m.cancel != nil {
				m.cancel()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.steps, cmd = m.steps.Update(msg)
	return m, cmd
}

func (m model) updateURL(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		u := strings.TrimSpace(m.urlIn.Value())
		if u == "" {
			m.toast = "Base URL cannot be empty"
			return m, nil
		}
		m.session().SetBaseURL(u)
		m.editingURL = false
		m.urlIn.Blur()
		m.toast = "Base URL updated"
		m.log.Info("tui.base_url.changed", "session", m.session().ID, "base_url", u)
		return m, nil

	case "esc":
		m.editingURL = false
		m.urlIn.Blur()
		return m, nil

	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.urlIn, cmd = m.urlIn.Update(msg)
	return m, cmd
}

func (m model) startRun(label string, run func(ctx context.Context) tea.Cmd) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.running = true
	m.runLabel = label
	m.cancel = cancel
	m.toast = ""
	m.log.Debug("tui.run.start", "label", label, "debug", m.deps.Debug)
	return m, tea.Batch(run(ctx), tick())
}

func (m model) finishRun(err error) model {
	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
	m.cancel = nil
	m.runLabel = ""
	if err != nil {
		m.toast = userMessage(err)
		m.log.Warn("tui.run.failed", "err", err)
	}
	return m
}

func (m model) listWidth() int {
	return max(m.width/3, 30)
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("Fitness API Demo") + "\n" +
		m.theme.Subtitle.Render("Walk through the fitness tracker API, one request at a time") + "\n"

	var urlLine string
	if m.editingURL {
		urlLine = m.theme.Input.Render(m.urlIn.View())
	} else {
		urlLine = m.theme.Help.Render("Base URL: " + m.session().BaseURL())
	}

	status := m.statusLine()

	logWidth := max(m.width-m.listWidth()-12, 30)
	logHeight := max(m.height-12, 5)
	records := m.session().Log().Records()
	logPanel := m.theme.Card.Width(logWidth).Render(
		m.theme.Title.Render(fmt.Sprintf("Results (%d/%d)", len(records), m.session().Log().Cap())) + "\n\n" +
			renderRecords(m.theme, records, logWidth-2, logHeight),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.theme.Card.Render(m.steps.View()), " ", logPanel)

	var help string
	switch {
	case m.editingURL:
		help = "enter save • esc cancel"
	case m.running:
		help = "x cancel • q quit"
	default:
		help = "↑/↓ navigate • enter run step • a full demo • c clear • u edit URL • q quit"
	}

	out := header + "\n" + urlLine + "\n" + status + "\n\n" + body + "\n" + m.theme.Help.Render(help)
	if m.toast != "" {
		out += "\n" + m.theme.Toast.Render(m.toast)
	}
	return wrap.Render(out)
}

func (m model) statusLine() string {
	parts := make([]string, 0, 4)
	if m.session().Authenticated() {
		parts = append(parts, m.theme.AuthBadge.Render("Authenticated"))
	} else {
		parts = append(parts, m.theme.NoAuthBadge.Render("Not authenticated"))
	}
	if m.running {
		parts = append(parts, m.theme.BusyBadge.Render("Running: "+m.runLabel))
	}
	if m.deps.ConfigFound {
		parts = append(parts, m.theme.Help.Render("Config: "+filepath.Join(m.deps.ConfigRoot, configfinder.ConfigFile)))
	} else {
		parts = append(parts, m.theme.Help.Render("No "+configfinder.ConfigFile+" found, using defaults (fitdemo init)"))
	}
	if m.deps.LogPath != "" {
		parts = append(parts, m.theme.Help.Render("Log: "+m.deps.LogPath))
	}
	return strings.Join(parts, " ")
}
