package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	bondreader "github.com/wippyai/bond-reader"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Search      key.Binding
	Quit        key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.ExpandAll, k.CollapseAll, k.Search, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "toggle")),
	ExpandAll:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
	CollapseAll: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse all")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// chrome is the number of lines around the viewport: title, info line and
// help or search prompt.
const chrome = 3

type browserModel struct {
	doc       *bondreader.Document
	root      *treeNode
	rows      []*treeNode
	viewport  viewport.Model
	help      help.Model
	search    textinput.Model
	status    string
	cursor    int
	ready     bool
	searching bool
}

func newBrowserModel(doc *bondreader.Document) *browserModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "label or value"
	ti.Width = 40

	m := &browserModel{
		doc:    doc,
		root:   buildTree(doc.Root),
		help:   help.New(),
		search: ti,
	}
	m.rows = m.root.visible()
	return m
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-chrome, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.help.Width = msg.Width
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			if n := m.rows[m.cursor]; len(n.children) > 0 {
				n.expanded = !n.expanded
			}
		case key.Matches(msg, keys.ExpandAll):
			m.root.setExpanded(true)
		case key.Matches(msg, keys.CollapseAll):
			m.root.setExpanded(false)
			m.root.expanded = true
			m.cursor = 0
		case key.Matches(msg, keys.Search):
			m.searching = true
			m.status = ""
			m.search.SetValue("")
			return m, m.search.Focus()
		}
		m.rows = m.root.visible()
		m.refresh()
	}
	return m, nil
}

func (m *browserModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.jumpTo(m.search.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// jumpTo expands the path to the next match of query and moves the
// cursor onto it.
func (m *browserModel) jumpTo(query string) {
	if query == "" {
		return
	}
	path := m.root.find(query, m.rows[m.cursor])
	if path == nil {
		m.status = fmt.Sprintf("no match for %q", query)
		return
	}
	for _, n := range path[:len(path)-1] {
		n.expanded = true
	}
	m.rows = m.root.visible()
	target := path[len(path)-1]
	for i, n := range m.rows {
		if n == target {
			m.cursor = i
			break
		}
	}
	m.status = ""
	m.refresh()
}

// refresh re-renders the rows into the viewport and scrolls so that the
// cursor stays visible.
func (m *browserModel) refresh() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for i, n := range m.rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderRow(n, i == m.cursor))
	}
	m.viewport.SetContent(b.String())

	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m *browserModel) renderRow(n *treeNode, selected bool) string {
	marker := "  "
	if len(n.children) > 0 {
		marker = "▸ "
		if n.expanded {
			marker = "▾ "
		}
	}
	indent := strings.Repeat("  ", n.depth)
	if selected {
		return selectedStyle.Render(indent + marker + n.label + ": " + n.summary)
	}
	return indent + marker + labelStyle.Render(n.label) + ": " + summaryStyle.Render(n.summary)
}

func (m *browserModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Bond Browser"))
	b.WriteString(" ")
	b.WriteString(m.doc.Name)
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	info := fmt.Sprintf("%d/%d • %s • %d bytes", m.cursor+1, len(m.rows), m.doc.Compression, m.doc.Consumed)
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(infoStyle.Render(info))
	}
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(m.help.View(keys))
	}
	return b.String()
}

func runInteractive(doc *bondreader.Document) error {
	p := tea.NewProgram(newBrowserModel(doc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
