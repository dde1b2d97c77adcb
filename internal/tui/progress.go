package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"slotting.dev/slotting/internal/engine"
)

// ProgressMsg carries a search snapshot into the spinner
type ProgressMsg engine.Progress

// SolveDoneMsg stops the spinner
type SolveDoneMsg struct{}

// SolveProgressModel is the bubbletea model for a running solve
type SolveProgressModel struct {
	title    string
	spinner  spinner.Model
	last     engine.Progress
	seen     bool
	done     bool
	quitting bool
	cancel   context.CancelFunc
}

// NewSolveProgressModel creates the spinner. cancel is called on ctrl+c.
func NewSolveProgressModel(title string, cancel context.CancelFunc) SolveProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return SolveProgressModel{title: title, spinner: s, cancel: cancel}
}

func (m SolveProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m SolveProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		m.last = engine.Progress(msg)
		m.seen = true

	case SolveDoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m SolveProgressModel) View() string {
	if m.done || m.quitting {
		return ""
	}
	line := fmt.Sprintf("%s %s", m.spinner.View(), bold.Render(m.title))
	if m.seen {
		line += "  " + ColorDim(FormatProgress(m.last))
	}
	return line + "\n"
}

// FormatProgress renders a snapshot on one line
func FormatProgress(p engine.Progress) string {
	parts := []string{
		fmt.Sprintf("nodes %d", p.Nodes),
		fmt.Sprintf("open %d", p.Open),
	}
	if p.HasIncumbent {
		parts = append(parts, fmt.Sprintf("incumbent %.2f", p.Incumbent))
	} else {
		parts = append(parts, "incumbent -")
	}
	if p.HasBound {
		parts = append(parts, fmt.Sprintf("bound %.2f", p.Bound))
	}
	if p.HasIncumbent && p.HasBound && p.Incumbent > p.Bound {
		gap := (p.Incumbent - p.Bound) / math.Max(math.Abs(p.Incumbent), 1e-12)
		parts = append(parts, fmt.Sprintf("gap %.1f%%", 100*gap))
	}
	parts = append(parts, p.Elapsed.Round(time.Millisecond).String())
	return strings.Join(parts, "  ")
}

// ProgressReporter shows search progress while a solve runs
type ProgressReporter interface {
	Update(p engine.Progress)
	Done()
}

// NewProgressReporter returns a spinner when prompts are allowed and a debug
// line logger otherwise. cancel aborts the solve when the user quits the spinner.
func NewProgressReporter(splog *Splog, title string, cancel context.CancelFunc) ProgressReporter {
	if checkInteractiveAllowed() == nil && !splog.IsQuiet() {
		return newSpinnerReporter(splog, title, cancel)
	}
	return &lineReporter{splog: splog}
}

type spinnerReporter struct {
	program *tea.Program
	splog   *Splog
	exited  chan struct{}
	once    sync.Once
}

func newSpinnerReporter(splog *Splog, title string, cancel context.CancelFunc) *spinnerReporter {
	r := &spinnerReporter{
		program: tea.NewProgram(NewSolveProgressModel(title, cancel), tea.WithOutput(splog.Writer())),
		splog:   splog,
		exited:  make(chan struct{}),
	}
	splog.SetQuiet(true)
	go func() {
		defer close(r.exited)
		if _, err := r.program.Run(); err != nil {
			splog.Logger().Debug("progress spinner stopped", "error", err)
		}
	}()
	return r
}

func (r *spinnerReporter) Update(p engine.Progress) {
	r.program.Send(ProgressMsg(p))
}

func (r *spinnerReporter) Done() {
	r.once.Do(func() {
		r.program.Send(SolveDoneMsg{})
		<-r.exited
		r.splog.SetQuiet(false)
	})
}

type lineReporter struct {
	splog *Splog
}

func (r *lineReporter) Update(p engine.Progress) {
	r.splog.Debug("%s", FormatProgress(p))
}

func (r *lineReporter) Done() {}
