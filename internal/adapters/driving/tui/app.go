// Package tui provides the interactive terminal interface for asking
// questions about uploaded documents.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/askdocs/internal/core/domain"
	"github.com/custodia-labs/askdocs/internal/core/ports/driving"
)

// Ports holds the services the TUI drives.
type Ports struct {
	QA       driving.QAService
	Document driving.DocumentService
}

// state tracks what the view is currently showing.
type state int

const (
	stateInput state = iota
	stateAsking
	stateAnswered
	stateError
)

// Styles bundles the lipgloss styles used by the app.
type Styles struct {
	Title      lipgloss.Style
	Prompt     lipgloss.Style
	Answer     lipgloss.Style
	Confidence lipgloss.Style
	Degraded   lipgloss.Style
	Sources    lipgloss.Style
	Error      lipgloss.Style
	Help       lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() *Styles {
	return &Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("105")),
		Prompt:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Answer:     lipgloss.NewStyle().PaddingLeft(2),
		Confidence: lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		Degraded:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Sources:    lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Italic(true),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Help:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// answerMsg carries a completed answer back to the update loop.
type answerMsg struct {
	answer domain.Answer
}

// errMsg carries a failed ask back to the update loop.
type errMsg struct {
	err error
}

// App is the bubbletea model for the ask interface.
type App struct {
	styles  *Styles
	ports   *Ports
	ctx     context.Context
	input   textinput.Model
	spinner spinner.Model

	state    state
	question string
	answer   domain.Answer
	err      error
	docCount int
	width    int
}

// NewApp creates the TUI application.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil || ports.QA == nil {
		return nil, fmt.Errorf("tui: qa service is required")
	}

	ti := textinput.New()
	ti.Placeholder = "Ask a question about your documents..."
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		styles:  DefaultStyles(),
		ports:   ports,
		ctx:     context.Background(),
		input:   ti,
		spinner: sp,
		state:   stateInput,
		width:   80,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init starts the input cursor blink and loads the document count.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.loadDocCount())
}

// docCountMsg carries the number of uploaded documents.
type docCountMsg struct {
	count int
}

func (a *App) loadDocCount() tea.Cmd {
	return func() tea.Msg {
		if a.ports.Document == nil {
			return docCountMsg{}
		}
		docs, err := a.ports.Document.List(a.ctx)
		if err != nil {
			return docCountMsg{}
		}
		return docCountMsg{count: len(docs)}
	}
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.input.Width = msg.Width - 8
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case docCountMsg:
		a.docCount = msg.count
		return a, nil

	case answerMsg:
		a.state = stateAnswered
		a.answer = msg.answer
		a.input.SetValue("")
		a.input.Focus()
		return a, a.loadDocCount()

	case errMsg:
		a.state = stateError
		a.err = msg.err
		a.input.Focus()
		return a, nil

	case spinner.TickMsg:
		if a.state != stateAsking {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return a, tea.Quit

	case tea.KeyEnter:
		if a.state == stateAsking {
			return a, nil
		}
		question := strings.TrimSpace(a.input.Value())
		if question == "" {
			return a, nil
		}
		a.state = stateAsking
		a.question = question
		a.err = nil
		return a, tea.Batch(a.spinner.Tick, a.performAsk(question))
	}

	if a.state == stateAsking {
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// performAsk runs the question through the QA service off the UI loop.
func (a *App) performAsk(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.ports.QA.Ask(a.ctx, question, 5)
		if err != nil {
			return errMsg{err: err}
		}
		return answerMsg{answer: answer}
	}
}

// View renders the interface.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("askdocs"))
	b.WriteString(a.styles.Prompt.Render(fmt.Sprintf("  %d documents", a.docCount)))
	b.WriteString("\n\n")
	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	switch a.state {
	case stateAsking:
		b.WriteString(a.spinner.View())
		b.WriteString(a.styles.Prompt.Render(" thinking..."))
		b.WriteString("\n")

	case stateAnswered:
		b.WriteString(a.styles.Prompt.Render("Q: " + a.question))
		b.WriteString("\n\n")
		b.WriteString(a.styles.Answer.Render(wrap(a.answer.Text, a.width-4)))
		b.WriteString("\n\n")
		b.WriteString(a.styles.Confidence.Render(fmt.Sprintf("Confidence: %.2f", a.answer.Confidence)))
		if a.answer.Degraded {
			b.WriteString("  ")
			b.WriteString(a.styles.Degraded.Render("degraded"))
		}
		b.WriteString("\n")
		if len(a.answer.Sources) > 0 {
			b.WriteString(a.styles.Sources.Render("Sources: " + strings.Join(a.answer.Sources, ", ")))
			b.WriteString("\n")
		}

	case stateError:
		b.WriteString(a.styles.Error.Render("Error: " + a.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("enter: ask • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

// wrap soft-wraps text to the given width, preserving paragraphs.
func wrap(text string, width int) string {
	if width < 20 {
		width = 20
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
