package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vibecraft/cadbook/internal/adapters/driving/tui/components/status"
	"github.com/vibecraft/cadbook/internal/adapters/driving/tui/keymap"
	"github.com/vibecraft/cadbook/internal/adapters/driving/tui/messages"
	"github.com/vibecraft/cadbook/internal/adapters/driving/tui/styles"
	"github.com/vibecraft/cadbook/internal/core/domain"
)

const (
	// recentFailures is how many failures are listed when collapsed.
	recentFailures = 5

	maxProgressWidth = 60
)

// App is the batch progress model following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// cancel stops the batch run.
	cancel context.CancelFunc

	styles   *styles.Styles
	keymap   *keymap.KeyMap
	status   *status.Bar
	spinner  spinner.Model
	progress progress.Model

	root      string
	total     int
	done      int
	succeeded int
	failed    int

	// current is the file most recently handed to a worker.
	current string

	failures     []domain.FileOutcome
	showFailures bool

	stopping bool
	finished bool
	result   *domain.BatchResult
	err      error

	width int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a progress model. cancel is called when the user stops
// the run and may be nil.
func NewApp(cancel context.CancelFunc) *App {
	if cancel == nil {
		cancel = func() {}
	}
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	theme := s.Theme()

	return &App{
		cancel: cancel,
		styles: s,
		keymap: km,
		status: status.NewBar(s, km),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(s.Title),
		),
		progress: progress.New(
			progress.WithGradient(string(theme.ProgressStart), string(theme.ProgressEnd)),
			progress.WithWidth(maxProgressWidth),
		),
		width: 80,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		tea.SetWindowTitle("cadbook - batch"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.status.SetWidth(msg.Width)
		a.progress.Width = min(maxProgressWidth, max(10, msg.Width-4))
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if a.finished {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.BatchStarted:
		a.root = msg.Root
		a.total = msg.Total
		a.status.SetState(status.StateRunning)
		return a, nil

	case messages.FileStarted:
		a.current = msg.Source.Filename()
		if a.total == 0 {
			a.total = msg.Total
		}
		return a, nil

	case messages.FileFinished:
		a.done++
		if msg.Outcome.Succeeded {
			a.succeeded++
		} else {
			a.failed++
			a.failures = append(a.failures, msg.Outcome)
		}
		a.status.SetCounts(a.succeeded, a.failed)
		return a, nil

	case messages.BatchCompleted:
		return a.complete(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		if a.finished {
			return a, tea.Quit
		}
		if !a.stopping {
			a.stopping = true
			a.status.SetMessage("stopping after files in flight")
			a.cancel()
		}
	case key.Matches(msg, a.keymap.Failures):
		a.showFailures = !a.showFailures
	}
	return a, nil
}

// complete records the final result and exits the program.
func (a *App) complete(msg messages.BatchCompleted) (tea.Model, tea.Cmd) {
	a.finished = true
	a.result = msg.Result
	a.err = msg.Err

	switch {
	case msg.Result == nil && msg.Err != nil:
		a.status.SetState(status.StateError)
		a.status.SetMessage(msg.Err.Error())
	case msg.Err != nil || a.stopping:
		a.status.SetState(status.StateCancelled)
	default:
		a.status.SetState(status.StateDone)
	}
	if msg.Result != nil {
		a.succeeded = len(msg.Result.Successes)
		a.failed = len(msg.Result.Failures)
		a.done = msg.Result.Total()
		a.failures = msg.Result.FailedOutcomes()
		a.status.SetCounts(a.succeeded, a.failed)
	}
	return a, tea.Quit
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("cadbook batch"))
	if a.root != "" {
		b.WriteString(" ")
		b.WriteString(a.styles.Subtitle.Render(a.root))
	}
	b.WriteString("\n\n")

	b.WriteString(a.progress.ViewAs(a.Percent()))
	b.WriteString(a.styles.Muted.Render(fmt.Sprintf("  %d/%d", a.done, a.total)))
	b.WriteString("\n")

	if !a.finished && a.current != "" {
		b.WriteString(a.spinner.View())
		b.WriteString(" ")
		b.WriteString(a.styles.Normal.Render(a.current))
		b.WriteString("\n")
	}

	if len(a.failures) > 0 {
		b.WriteString("\n")
		b.WriteString(a.renderFailures())
	}

	b.WriteString("\n")
	b.WriteString(a.status.View())
	b.WriteString("\n")
	return b.String()
}

func (a *App) renderFailures() string {
	shown := a.failures
	if !a.showFailures && len(shown) > recentFailures {
		shown = shown[len(shown)-recentFailures:]
	}

	lines := make([]string, 0, len(shown)+1)
	for _, f := range shown {
		lines = append(lines, a.styles.Error.Render(
			fmt.Sprintf("  x %s (%s)", filepath.Base(f.Source), f.Kind),
		))
	}
	if hidden := len(a.failures) - len(shown); hidden > 0 {
		lines = append(lines, a.styles.Muted.Render(fmt.Sprintf("  ... %d more", hidden)))
	}
	return a.styles.Panel.Render(strings.Join(lines, "\n")) + "\n"
}

// Percent returns the completed fraction of the run.
func (a *App) Percent() float64 {
	if a.total == 0 {
		if a.finished {
			return 1
		}
		return 0
	}
	return float64(a.done) / float64(a.total)
}

// Result returns the final result once the batch has completed.
func (a *App) Result() *domain.BatchResult {
	return a.result
}

// Err returns the error the batch finished with.
func (a *App) Err() error {
	return a.err
}

// Finished reports whether the batch has completed.
func (a *App) Finished() bool {
	return a.finished
}

// Stopping reports whether the user asked to stop the run.
func (a *App) Stopping() bool {
	return a.stopping
}

// Counts returns the number of files that succeeded and failed so far.
func (a *App) Counts() (succeeded, failed int) {
	return a.succeeded, a.failed
}
