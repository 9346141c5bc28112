package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/wb/internal/model"
	"github.com/nikbrunner/wb/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	workspaceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// Action is what the user chose to do with the selected link.
type Action int

const (
	ActionOpen Action = iota
	ActionCopy
)

// Picker is a TUI for narrowing search results and selecting a link.
// Typing refines the fuzzy query live.
type Picker struct {
	state     *model.AppState
	input     textinput.Model
	results   []search.Result
	cursor    int
	selected  bool
	cancelled bool
	action    Action
	width     int
	height    int
}

// New creates a new Picker over the given state, seeded with a query.
func New(state *model.AppState, query string) Picker {
	input := textinput.New()
	input.Placeholder = "search links"
	input.SetValue(query)
	input.Focus()

	return Picker{
		state:   state,
		input:   input,
		results: search.Links(state, query),
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit

		case tea.KeyEnter:
			if len(p.results) > 0 {
				p.selected = true
				p.action = ActionOpen
				return p, tea.Quit
			}
			return p, nil

		case tea.KeyCtrlY:
			if len(p.results) > 0 {
				p.selected = true
				p.action = ActionCopy
				return p, tea.Quit
			}
			return p, nil

		case tea.KeyDown, tea.KeyCtrlN:
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}
			return p, nil

		case tea.KeyUp, tea.KeyCtrlP:
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		}
	}

	// Everything else edits the query
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.results = search.Links(p.state, p.input.Value())
	if p.cursor >= len(p.results) {
		p.cursor = 0
	}
	return p, cmd
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search (%d results)", len(p.results))))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")

	for i, result := range p.results {
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		title := style.Render(result.Link.Title)
		workspace := workspaceStyle.Render("[" + result.WorkspaceName + "]")
		url := urlStyle.Render(result.Link.URL)

		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, title, workspace))
		b.WriteString(fmt.Sprintf("   %s\n", url))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓: move  Enter: open  Ctrl+Y: copy URL  Esc: cancel"))

	return b.String()
}

// SelectedLink returns the selected link, or nil if cancelled.
func (p Picker) SelectedLink() *model.Link {
	if p.cancelled || !p.selected {
		return nil
	}
	if p.cursor < len(p.results) {
		return p.results[p.cursor].Link
	}
	return nil
}

// Action returns what to do with the selected link.
func (p Picker) Action() Action {
	return p.action
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
