// Package tui is the interactive editor: paste a submission, press ctrl+s
// and read the rendered report next to the code.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agusespa/javatutor/internal/agent"
	"github.com/agusespa/javatutor/internal/diagnose"
	"github.com/agusespa/javatutor/internal/render"
	"github.com/agusespa/javatutor/internal/types"
)

const (
	checkingMessage = "正在检查代码..."
	idleHelp        = "ctrl+s 检查 · tab 切换面板 · esc 退出"
)

// Checker runs one check. *agent.CheckAgent satisfies it.
type Checker interface {
	CheckNamed(ctx context.Context, name, source string) (*agent.CheckResult, error)
	Variant() types.Variant
}

type focus int

const (
	focusEditor focus = iota
	focusResults
)

type checkDoneMsg struct {
	result *agent.CheckResult
	err    error
}

type retryMsg struct {
	notice diagnose.RetryNotice
}

// RetryMsg wraps a retry notice for tea.Program.Send.
func RetryMsg(n diagnose.RetryNotice) tea.Msg {
	return retryMsg{notice: n}
}

type Options struct {
	Context   context.Context
	Checker   Checker
	Presenter *agent.Presenter
	// Disabled, when set, blocks checks and is shown as the reason.
	Disabled string
	Name     string
	Source   string
	Variant  types.Variant
}

type Model struct {
	ctx       context.Context
	checker   Checker
	presenter *agent.Presenter
	disabled  string
	name      string
	variant   types.Variant

	editor  textarea.Model
	results viewport.Model
	spin    spinner.Model
	focus   focus

	running bool
	status  string
	failed  bool
	report  string
	last    *agent.CheckResult

	width  int
	height int
	ready  bool
}

func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	editor := textarea.New()
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.Placeholder = "在此粘贴 Java 代码..."
	editor.SetValue(opts.Source)
	editor.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	variant := opts.Variant
	if opts.Checker != nil {
		variant = opts.Checker.Variant()
	}

	m := Model{
		ctx:       ctx,
		checker:   opts.Checker,
		presenter: opts.Presenter,
		disabled:  opts.Disabled,
		name:      opts.Name,
		variant:   variant,
		editor:    editor,
		results:   viewport.New(40, 10),
		spin:      spin,
	}
	if m.disabled != "" {
		m.status = m.disabled
		m.failed = true
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Running() bool {
	return m.running
}

func (m Model) Status() string {
	return m.status
}

func (m Model) Result() *agent.CheckResult {
	return m.last
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			return m.toggleFocus()
		case "ctrl+s":
			return m.startCheck()
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case retryMsg:
		if m.running {
			m.status = msg.notice.Message()
		}
		return m, nil

	case checkDoneMsg:
		m.running = false
		if msg.err != nil {
			m.failed = true
			m.status = agent.ErrorMessage(msg.err)
			m.results.SetContent(errorStyle.Render(m.status))
			return m, nil
		}
		m.failed = false
		m.last = msg.result
		if err := m.showResult(msg.result); err != nil {
			m.failed = true
			m.status = agent.ErrorMessage(err)
			return m, nil
		}
		m.status = m.presenter.Summary(msg.result)
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusEditor {
		m.editor, cmd = m.editor.Update(msg)
	} else {
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusEditor {
		m.focus = focusResults
		m.editor.Blur()
		return m, nil
	}
	m.focus = focusEditor
	return m, m.editor.Focus()
}

// startCheck ignores the trigger while a check is in flight.
func (m Model) startCheck() (tea.Model, tea.Cmd) {
	if m.disabled != "" {
		m.status = m.disabled
		m.failed = true
		return m, nil
	}
	if m.running || m.checker == nil {
		return m, nil
	}

	m.running = true
	m.failed = false
	m.status = checkingMessage

	checker, ctx, name, source := m.checker, m.ctx, m.name, m.editor.Value()
	run := func() tea.Msg {
		res, err := checker.CheckNamed(ctx, name, source)
		return checkDoneMsg{result: res, err: err}
	}
	return m, tea.Batch(m.spin.Tick, run)
}

func (m *Model) showResult(res *agent.CheckResult) error {
	md, err := m.presenter.Markdown(res)
	if err != nil {
		return err
	}
	m.report = md

	r, err := render.NewMarkdown(render.Options{TTY: true, Width: m.results.Width - 2})
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	m.results.SetContent(out)
	m.results.GotoTop()
	return nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	// title, status, help and two border rows
	panelHeight := max(height-5, 1)
	editorWidth := max(width/2-2, 1)
	resultsWidth := max(width-editorWidth-4, 1)

	m.editor.SetWidth(editorWidth)
	m.editor.SetHeight(panelHeight)
	m.results.Width = resultsWidth
	m.results.Height = panelHeight
	m.ready = true

	if m.last != nil {
		_ = m.showResult(m.last)
	}
}

func (m Model) View() string {
	title := titleStyle.Render(fmt.Sprintf("javatutor · %s", m.variant))

	editorPanel, resultsPanel := panelStyle, panelStyle
	if m.focus == focusEditor {
		editorPanel = focusedPanelStyle
	} else {
		resultsPanel = focusedPanelStyle
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		editorPanel.Render(m.editor.View()),
		resultsPanel.Render(m.results.View()),
	)

	var status string
	switch {
	case m.running:
		status = m.spin.View() + " " + statusStyle.Render(m.status)
	case m.failed:
		status = errorStyle.Render(m.status)
	default:
		status = statusStyle.Render(m.status)
	}

	return strings.Join([]string{title, body, status, helpStyle.Render(idleHelp)}, "\n")
}
