package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vibecraft/cadbook/internal/adapters/driving/tui/messages"
	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driving"
)

// programObserver forwards batch callbacks to a running program.
type programObserver struct {
	send func(tea.Msg)
}

// Ensure programObserver implements the observer port.
var _ driving.BatchObserver = (*programObserver)(nil)

func (o *programObserver) BatchStarted(root string, total int) {
	o.send(messages.BatchStarted{Root: root, Total: total})
}

func (o *programObserver) FileStarted(index, total int, source domain.SourceDocument) {
	o.send(messages.FileStarted{Index: index, Total: total, Source: source})
}

func (o *programObserver) FileFinished(outcome domain.FileOutcome, total int) {
	o.send(messages.FileFinished{Outcome: outcome, Total: total})
}

// BatchFinished is a no-op: completion is sent once Run has returned.
func (o *programObserver) BatchFinished(*domain.BatchResult) {}

type batchOutcome struct {
	result *domain.BatchResult
	err    error
}

// Run executes a batch while rendering its progress. Quitting the program
// cancels the batch; Run still waits for files in flight and returns the
// partial result.
func Run(
	ctx context.Context,
	ports *Ports,
	req driving.BatchRequest,
	opts ...tea.ProgramOption,
) (*domain.BatchResult, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := NewApp(cancel)
	p := tea.NewProgram(app, opts...)
	req.Observer = &programObserver{send: p.Send}

	done := make(chan batchOutcome, 1)
	go func() {
		result, err := ports.Batch.Run(ctx, req)
		p.Send(messages.BatchCompleted{Result: result, Err: err})
		done <- batchOutcome{result: result, err: err}
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		out := <-done
		return out.result, fmt.Errorf("tui: %w", err)
	}

	out := <-done
	return out.result, out.err
}
