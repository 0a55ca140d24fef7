package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LineMsg appends one line to the log.
type LineMsg string

// StatusMsg replaces the footer status text.
type StatusMsg string

type Options struct {
	Title string
	// Scrollback caps retained lines; <= 0 keeps everything.
	Scrollback int
	Status     string
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type model struct {
	vp         viewport.Model
	ready      bool
	follow     bool
	lines      []string
	scrollback int
	title      string
	status     string
	width      int
	height     int
}

func newModel(opts Options) model {
	title := opts.Title
	if title == "" {
		title = "server"
	}
	return model{follow: true, scrollback: opts.Scrollback, title: title, status: opts.Status}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LineMsg:
		m.lines = append(m.lines, string(msg))
		if m.scrollback > 0 && len(m.lines) > m.scrollback {
			m.lines = append([]string(nil), m.lines[len(m.lines)-m.scrollback:]...)
		}
		m.refresh()
		return m, nil
	case StatusMsg:
		m.status = string(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := max(1, msg.Height-2)
		if !m.ready {
			m.vp = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = h
		}
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "G", "end":
			m.follow = true
			m.vp.GotoBottom()
			return m, nil
		}
	}
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	m.follow = m.vp.AtBottom()
	return m, cmd
}

func (m *model) refresh() {
	if !m.ready {
		return
	}
	m.vp.SetContent(strings.Join(m.lines, "\n"))
	if m.follow {
		m.vp.GotoBottom()
	}
}

func (m model) View() string {
	if !m.ready {
		return "starting…\n"
	}
	return titleStyle.Render(m.title) + "\n" + m.vp.View() + "\n" + m.footer()
}

func (m model) footer() string {
	left := footerStyle.Render("↑/↓ scroll • G follow • q quit")
	right := fmt.Sprintf("%d lines ", len(m.lines))
	if m.status != "" {
		right = statusStyle.Render(m.status) + " • " + right
	}
	space := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", space) + right
}

// Program is the display goroutine: a Bubble Tea program rendering the log.
// AppendLine and SetStatus block until the event loop takes the message, so
// producers should reach it through a display.Queue.
type Program struct {
	ctx context.Context
	p   *tea.Program
}

func NewProgram(ctx context.Context, opts Options, progOpts ...tea.ProgramOption) *Program {
	progOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, progOpts...)
	return &Program{ctx: ctx, p: tea.NewProgram(newModel(opts), progOpts...)}
}

func (p *Program) AppendLine(text string) { p.p.Send(LineMsg(text)) }

func (p *Program) SetStatus(text string) { p.p.Send(StatusMsg(text)) }

// Run blocks until the user quits or ctx is cancelled.
func (p *Program) Run() error {
	_, err := p.p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && p.ctx.Err() != nil {
		return nil
	}
	return err
}

// Quit asks the program to exit.
func (p *Program) Quit() { p.p.Quit() }
