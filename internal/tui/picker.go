// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive fuzzy picker. It owns only
// keystroke handling and rendering; ranking is delegated to the match
// package on every keystroke so the picker and the non-interactive
// paths agree on ordering.
package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"shelf-cli/internal/match"
	"shelf-cli/internal/script"
)

// ErrCancelled is returned when the user dismisses the picker without
// choosing a function.
var ErrCancelled = errors.New("selection cancelled")

// defaultHeight is the number of candidate rows shown at once.
const defaultHeight = 10

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	fileStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	countStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// PickerOptions configures one picker session.
type PickerOptions struct {
	// Title is displayed above the query input.
	Title string
	// InitialQuery pre-fills the query input.
	InitialQuery string
	// Functions is the candidate corpus in discovery order.
	Functions []*script.Function
	// Height limits visible rows (0 for the default).
	Height int
}

// pickerModel is the bubbletea model for the picker.
type pickerModel struct {
	input     textinput.Model
	functions []*script.Function
	ranked    []match.Candidate
	cursor    int
	offset    int
	height    int
	title     string
	quitting  bool
	cancelled bool
	choice    *script.Function
}

func newPickerModel(opts PickerOptions) pickerModel {
	input := textinput.New()
	input.Placeholder = "Type to search..."
	input.Prompt = "> "
	input.SetValue(opts.InitialQuery)
	input.Focus()

	height := opts.Height
	if height <= 0 {
		height = defaultHeight
	}

	m := pickerModel{
		input:     input,
		functions: opts.Functions,
		height:    height,
		title:     opts.Title,
	}
	m.ranked = match.Rank(m.functions, input.Value())
	return m
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if len(m.ranked) == 0 {
				return m, nil
			}
			m.choice = m.ranked[m.cursor].Function
			m.quitting = true
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			m.scroll()
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.ranked)-1 {
				m.cursor++
			}
			m.scroll()
			return m, nil
		}
	case tea.WindowSizeMsg:
		if msg.Height > 4 && msg.Height-4 < m.height {
			m.height = msg.Height - 4
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		// Re-rank on every keystroke; the cursor resets to the top
		// because the previous selection may have moved or vanished.
		m.ranked = match.Rank(m.functions, m.input.Value())
		m.cursor = 0
		m.offset = 0
	}
	return m, cmd
}

// scroll keeps the cursor inside the visible window.
func (m *pickerModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(titleStyle.Render(m.title))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.ranked) == 0 {
		b.WriteString(descStyle.Render("  no matching function"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.offset + m.height
	if end > len(m.ranked) {
		end = len(m.ranked)
	}
	for i := m.offset; i < end; i++ {
		fn := m.ranked[i].Function
		line := fn.Name + " " + fileStyle.Render("("+fn.File.Name+")")
		if fn.Description != "" {
			line += "  " + descStyle.Render(fn.Description)
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▸ "))
			b.WriteString(selectedStyle.Render(fn.Name))
			b.WriteString(" " + fileStyle.Render("("+fn.File.Name+")"))
			if fn.Description != "" {
				b.WriteString("  " + descStyle.Render(fn.Description))
			}
		} else {
			b.WriteString("  ")
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(countStyle.Render(fmt.Sprintf("\n%d/%d", len(m.ranked), len(m.functions))))
	b.WriteString("\n")
	return b.String()
}

// Pick runs the interactive picker and returns the chosen function.
// Cancellation (esc, ctrl+c) returns ErrCancelled.
func Pick(opts PickerOptions) (*script.Function, error) {
	if len(opts.Functions) == 0 {
		return nil, ErrCancelled
	}

	program := tea.NewProgram(newPickerModel(opts), tea.WithOutput(os.Stderr))
	final, err := program.Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(pickerModel)
	if !ok || m.cancelled || m.choice == nil {
		return nil, ErrCancelled
	}
	return m.choice, nil
}

// IsInteractive reports whether both stdin and stderr are terminals,
// which is required for running the picker.
func IsInteractive() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stderr.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
