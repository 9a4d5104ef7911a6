package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	uiruntime "github.com/wippyai/ui-runtime"
	"github.com/wippyai/ui-runtime/runtime"
	"github.com/wippyai/ui-runtime/scheduler"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	dirtyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB454"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	goneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Strikethrough(true)

	treeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const eventLogDepth = 6

type inspectModel struct {
	rt   *runtime.Runtime
	app  *appProps
	root uiruntime.ScopeID

	order    []uiruntime.ScopeID
	selected int

	spin   spinner.Model
	events []string
}

type wakeMsg struct {
	m scheduler.Msg
}

func newInspectModel(rt *runtime.Runtime, root uiruntime.ScopeID, app *appProps) *inspectModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = pendingStyle

	order := append([]uiruntime.ScopeID{root}, app.children...)
	return &inspectModel{
		rt:    rt,
		app:   app,
		root:  root,
		order: order,
		spin:  sp,
	}
}

func (m *inspectModel) Init() tea.Cmd {
	return tea.Batch(m.waitForWake, m.spin.Tick)
}

// waitForWake blocks on the scheduler's wake channel and surfaces each
// notification as a tea message.
func (m *inspectModel) waitForWake() tea.Msg {
	return wakeMsg{m: <-m.rt.Scheduler().Wakes()}
}

func (m *inspectModel) logf(format string, args ...any) {
	m.events = append(m.events, fmt.Sprintf(format, args...))
	if len(m.events) > eventLogDepth {
		m.events = m.events[len(m.events)-eventLogDepth:]
	}
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case wakeMsg:
		if msg.m.Kind == scheduler.MsgSuspenseWoken {
			m.rt.HandleWake(msg.m)
			for _, id := range m.rt.ProcessDirty() {
				m.logf("wake re-rendered scope %d", id)
			}
		}
		return m, m.waitForWake

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *inspectModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.order)-1 {
			m.selected++
		}

	case "enter", "+":
		id := m.order[m.selected]
		s, ok := m.rt.Scope(id)
		if !ok {
			break
		}
		if c, ok := s.Props().(*counterProps); ok {
			c.Count++
			m.rt.MarkDirty(id)
			m.rt.ProcessDirty()
			m.logf("incremented %s to %d", c.Label, c.Count)
		}

	case "f":
		if m.app.feed == nil {
			break
		}
		m.app.feed.Restart()
		for _, id := range m.order {
			s, ok := m.rt.Scope(id)
			if ok && s.Props() == m.app.feed {
				m.rt.MarkDirty(id)
				m.rt.ProcessDirty()
				m.logf("feed restarted on scope %d", id)
			}
		}

	case "d":
		id := m.order[m.selected]
		m.rt.MarkDirty(id)
		m.logf("marked scope %d dirty", id)

	case "p":
		for _, id := range m.rt.ProcessDirty() {
			m.logf("re-rendered scope %d", id)
		}

	case "x":
		id := m.order[m.selected]
		if id == m.root {
			break
		}
		if _, ok := m.rt.Scope(id); ok {
			m.rt.RemoveScope(id)
			m.logf("removed scope %d", id)
		}
	}
	return m, nil
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Scope Inspector"))
	b.WriteString(fmt.Sprintf("  %d scopes live\n\n", m.rt.ScopeCount()))

	for i, id := range m.order {
		line := m.scopeLine(id)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if n := m.rt.Scheduler().LeafCount(); n > 0 {
		b.WriteString("\n")
		b.WriteString(m.spin.View())
		b.WriteString(pendingStyle.Render(fmt.Sprintf(" %d suspended", n)))
		b.WriteString("\n")
	}

	if tree := m.selectedTree(); tree != "" {
		b.WriteString("\n")
		b.WriteString(treeStyle.Render(strings.TrimRight(tree, "\n")))
		b.WriteString("\n")
	}

	if len(m.events) > 0 {
		b.WriteString("\n")
		for _, e := range m.events {
			b.WriteString(eventStyle.Render("• " + e))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter increment • d dirty • p process • f feed • x remove • q quit"))
	return b.String()
}

func (m *inspectModel) scopeLine(id uiruntime.ScopeID) string {
	s, ok := m.rt.Scope(id)
	if !ok {
		return goneStyle.Render(fmt.Sprintf("#%d (removed)", id))
	}

	line := fmt.Sprintf("#%-3d %-10s h=%d renders=%d", id, s.Name(), s.Height(), s.RenderCount())
	if m.rt.IsDirty(id) {
		line += dirtyStyle.Render("  dirty")
	}
	if ret, ok := s.CurrentFrame().Root().(*runtime.RenderReturn); ok && ret.Kind == runtime.RenderPending {
		line += pendingStyle.Render("  pending")
	}
	return line
}

func (m *inspectModel) selectedTree() string {
	s, ok := m.rt.Scope(m.order[m.selected])
	if !ok {
		return ""
	}
	ret, ok := s.CurrentFrame().Root().(*runtime.RenderReturn)
	if !ok {
		return ""
	}
	switch ret.Kind {
	case runtime.RenderReady:
		return formatTree(ret.Root, 0)
	case runtime.RenderPending:
		return fmt.Sprintf("suspended on leaf %d\n", ret.Leaf)
	default:
		return "<empty>\n"
	}
}

func runInteractive(counters int, feedDelay time.Duration) error {
	rt := runtime.New(scheduler.New())
	root, app := mountDemo(rt, counters, feedDelay)

	p := tea.NewProgram(newInspectModel(rt, root, app), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
