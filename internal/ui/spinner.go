package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// SpinnerFrames defines the animation frames (◐ ◓ ◑ ◒) shared by every
// in-flight indicator, so spinners look the same wherever they appear.
var SpinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// Spinner is a minimal bubbletea spinner for marking work in flight. It
// renders the bare frame; callers apply their own styling. Compose it into
// a larger model and route spinner.TickMsg through Update.
type Spinner struct {
	model spinner.Model
}

// NewSpinner creates a spinner using the shared frame set.
func NewSpinner() Spinner {
	sp := spinner.New()
	sp.Spinner = SpinnerFrames
	return Spinner{model: sp}
}

// Tick returns the command that starts or continues the animation.
func (s Spinner) Tick() tea.Cmd {
	return s.model.Tick
}

// Update advances the animation on spinner tick messages and re-arms the
// next tick. Other messages pass through untouched.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		s.model, cmd = s.model.Update(tick)
		return s, cmd
	}
	return s, nil
}

// View renders the current frame.
func (s Spinner) View() string {
	return s.model.View()
}
