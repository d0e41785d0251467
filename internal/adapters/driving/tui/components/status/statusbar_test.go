package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibecraft/cadbook/internal/adapters/driving/tui/keymap"
	"github.com/vibecraft/cadbook/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateDiscovering, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_Init(t *testing.T) {
	assert.Nil(t, NewBar(nil, nil).Init())
}

func TestStatusBar_Update(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_SetCounts(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetCounts(3, 1)

	ok, failed := bar.Counts()
	assert.Equal(t, 3, ok)
	assert.Equal(t, 1, failed)
}

func TestStatusBar_View_Discovering(t *testing.T) {
	bar := NewBar(nil, nil)

	view := bar.View()

	assert.Contains(t, view, "Discovering...")
	assert.Contains(t, view, "q: stop")
}

func TestStatusBar_View_Running(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateRunning)
	bar.SetCounts(2, 1)

	view := bar.View()

	assert.Contains(t, view, "Running")
	assert.Contains(t, view, "2 ok")
	assert.Contains(t, view, "1 failed")
	assert.Contains(t, view, "f: failures")
}

func TestStatusBar_View_Done(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateDone)
	bar.SetCounts(4, 0)

	view := bar.View()

	assert.Contains(t, view, "Done")
	assert.Contains(t, view, "4 ok")
	assert.NotContains(t, view, "q: stop")
}

func TestStatusBar_View_Cancelled(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateCancelled)

	assert.Contains(t, bar.View(), "Stopped")
}

func TestStatusBar_View_ErrorWithMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("root is unreadable")

	assert.Contains(t, bar.View(), "Error: root is unreadable")
}

func TestStatusBar_View_ErrorWithoutMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)

	assert.Contains(t, bar.View(), "Error")
}

func TestStatusBar_View_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(10)

	assert.NotEmpty(t, bar.View())
}
