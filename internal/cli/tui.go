package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tablescape/foodweb/pkg/disclosure"
	"github.com/tablescape/foodweb/pkg/foodgraph"
	"github.com/tablescape/foodweb/pkg/layout"
)

// =============================================================================
// Key Bindings
// =============================================================================

type exploreKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Continue key.Binding
	Back     key.Binding
	Category key.Binding
	AllCats  key.Binding
	Mode     key.Binding
	NonCore  key.Binding
	Regen    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultExploreKeys() exploreKeyMap {
	return exploreKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "focus node")),
		Continue: key.NewBinding(key.WithKeys("c", " "), key.WithHelp("c", "continue journey")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Category: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "toggle category")),
		AllCats:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all categories")),
		Mode:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "cycle mode")),
		NonCore:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "non-core nodes")),
		Regen:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "regen focus")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k exploreKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Continue, k.Select, k.Back, k.Mode, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k exploreKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.Continue, k.Category, k.AllCats},
		{k.Mode, k.NonCore, k.Regen},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// ExploreModel
// =============================================================================

// categoryOrder is the fixed order categories map onto the 1-9 keys.
func categoryOrder() []string {
	return append(append([]string{}, foodgraph.Groups...), foodgraph.GroupUncategorized)
}

// exploreModel is the bubbletea model for the explore command. It owns the
// disclosure state and translates key presses into transition events.
type exploreModel struct {
	graph  *foodgraph.Graph
	engine *layout.Engine
	st     disclosure.State
	focus  *layout.FocusLayout

	visible []*foodgraph.Node
	cursor  int

	keys   exploreKeyMap
	help   help.Model
	width  int
	height int
}

// newExploreModel creates the model with the journey layout computed and the
// view collapsed to the environment root.
func newExploreModel(g *foodgraph.Graph, engine *layout.Engine) exploreModel {
	m := exploreModel{
		graph:  g,
		engine: engine,
		st:     disclosure.NewState(),
		keys:   defaultExploreKeys(),
		help:   help.New(),
	}
	m.engine.Journey(g)
	m.refreshVisible()
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m.transition(disclosure.Resize{
			Width:  m.engine.Frame().Width,
			Height: m.engine.Frame().Height,
		}), nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Select):
			if len(m.visible) == 0 {
				return m, nil
			}
			return m.transition(disclosure.ClickNode{ID: m.visible[m.cursor].ID}), nil
		case key.Matches(msg, m.keys.Continue):
			return m.transition(disclosure.Continue{}), nil
		case key.Matches(msg, m.keys.Back):
			return m.transition(disclosure.ClickBackground{}), nil
		case key.Matches(msg, m.keys.AllCats):
			on := m.st.AllCategories() != disclosure.Checked
			return m.transition(disclosure.SetAllCategories{On: on}), nil
		case key.Matches(msg, m.keys.Mode):
			return m.transition(disclosure.SetMode{Mode: nextMode(m.st.Mode)}), nil
		case key.Matches(msg, m.keys.NonCore):
			return m.transition(disclosure.SetNonCore{Show: !m.st.ShowNonCore}), nil
		case key.Matches(msg, m.keys.Regen):
			return m.transition(disclosure.SetRegenFocus{On: !m.st.RegenFocus}), nil
		case key.Matches(msg, m.keys.Category):
			order := categoryOrder()
			idx := int(msg.String()[0] - '1')
			if idx >= 0 && idx < len(order) {
				return m.transition(disclosure.ToggleCategory{Group: order[idx]}), nil
			}
			return m, nil
		}
	}
	return m, nil
}

// transition runs one disclosure transition and executes its effects.
func (m exploreModel) transition(ev disclosure.Event) exploreModel {
	next, effects := disclosure.Transition(m.st, ev)
	m.st = next

	for _, eff := range effects {
		switch eff {
		case disclosure.EffectRecomputeJourney:
			// Only a resize recomputes the journey while still focused;
			// the focus pins then hold their positions through it.
			if !m.st.Focused() {
				m.focus = nil
				layout.ReleaseAll(m.graph)
			}
			m.engine.Journey(m.graph)
		case disclosure.EffectRecomputeFocus:
			f, err := m.engine.Focus(m.graph, m.st.FocusID, m.st.Mode == disclosure.ModeNegative)
			if err != nil {
				// Unknown node; drop the focus rather than crash.
				m.st.FocusID = ""
				m.focus = nil
				continue
			}
			m.focus = f
		case disclosure.EffectClearSelection:
			m.focus = nil
		}
	}

	m.refreshVisible()
	return m
}

// nextMode cycles default → regen → negative → default.
func nextMode(mode disclosure.Mode) disclosure.Mode {
	switch mode {
	case disclosure.ModeDefault:
		return disclosure.ModeRegen
	case disclosure.ModeRegen:
		return disclosure.ModeNegative
	default:
		return disclosure.ModeDefault
	}
}

// refreshVisible rebuilds the node list from the authoritative visible set
// and clamps the cursor.
func (m *exploreModel) refreshVisible() {
	set := m.st.VisibleNodes(m.graph)
	m.visible = m.visible[:0]
	for _, n := range m.graph.Nodes {
		if _, ok := set[n.ID]; ok {
			m.visible = append(m.visible, n)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// =============================================================================
// View
// =============================================================================

var (
	tuiSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	tuiDimmedStyle   = lipgloss.NewStyle().Foreground(colorDim)
	tuiGroupStyle    = lipgloss.NewStyle().Foreground(colorGray)
	tuiPanelStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Foodweb"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(m.statusLine()))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.nodeList(), " ", m.detailPanel()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// statusLine summarizes phase, mode, and toggles.
func (m exploreModel) statusLine() string {
	parts := []string{m.st.Phase.String()}
	if m.st.Focused() {
		parts[0] = "focus: " + m.st.FocusID
	}
	parts = append(parts, string(m.st.Mode))
	if !m.st.ShowNonCore {
		parts = append(parts, "core only")
	}
	if m.st.RegenFocus {
		parts = append(parts, "regen highlight")
	}
	parts = append(parts, fmt.Sprintf("%d/%d nodes", len(m.visible), len(m.graph.Nodes)))
	return strings.Join(parts, " · ")
}

// nodeList renders the visible nodes with the cursor.
func (m exploreModel) nodeList() string {
	if len(m.visible) == 0 {
		return tuiDimmedStyle.Render("no visible nodes (check category filters)")
	}

	var b strings.Builder
	for i, n := range m.visible {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		label := n.Label
		if n.Icon != "" {
			label = n.Icon + " " + label
		}
		line := cursor + label + "  " + tuiGroupStyle.Render(n.DisplayGroup())

		switch {
		case i == m.cursor:
			b.WriteString(tuiSelectedStyle.Render(line))
		case m.st.Dimmed(m.graph, n):
			b.WriteString(tuiDimmedStyle.Render(line))
		default:
			b.WriteString(tuiNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// detailPanel renders the detail text and connections for the cursor node,
// or the focus view's structure while focused.
func (m exploreModel) detailPanel() string {
	if len(m.visible) == 0 {
		return ""
	}
	n := m.visible[m.cursor]

	var b strings.Builder
	b.WriteString(StyleHighlight.Render(n.Label))
	b.WriteString("\n")

	if detail := n.DetailText(m.st.Mode == disclosure.ModeRegen); detail != "" {
		b.WriteString(StyleValue.Render(wrapText(detail, 46)))
		b.WriteString("\n")
	}

	if m.st.Focused() && m.focus != nil && n.ID == m.focus.Focus.ID {
		b.WriteString(m.focusSummary())
	} else {
		neighbors := m.graph.Neighbors(n.ID)
		if len(neighbors) > 0 {
			b.WriteString("\n")
			b.WriteString(tuiGroupStyle.Render("connections"))
			b.WriteString("\n")
			for _, nb := range neighbors {
				b.WriteString(tuiDimmedStyle.Render("  " + iconArrow + " " + nb.Label))
				b.WriteString("\n")
			}
		}
	}

	return tuiPanelStyle.Render(b.String())
}

// focusSummary lists the focus view's branches and example leaves.
func (m exploreModel) focusSummary() string {
	var b strings.Builder

	if len(m.focus.Left) > 0 {
		b.WriteString("\n")
		b.WriteString(tuiGroupStyle.Render("factors"))
		b.WriteString("\n")
		for _, n := range m.focus.Left {
			b.WriteString(tuiDimmedStyle.Render("  ← " + n.Label))
			b.WriteString("\n")
		}
	}
	if len(m.focus.Right) > 0 {
		b.WriteString("\n")
		b.WriteString(tuiGroupStyle.Render("connected"))
		b.WriteString("\n")
		for _, n := range m.focus.Right {
			b.WriteString(tuiDimmedStyle.Render("  → " + n.Label))
			b.WriteString("\n")
		}
	}
	if len(m.focus.Leaves) > 0 {
		b.WriteString("\n")
		b.WriteString(tuiGroupStyle.Render("examples"))
		b.WriteString("\n")
		for _, leaf := range m.focus.Leaves {
			b.WriteString(tuiDimmedStyle.Render("  · " + leaf.Label))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// wrapText soft-wraps s at width columns on word boundaries.
func wrapText(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			b.WriteString(line)
			b.WriteString("\n")
			line = w
			continue
		}
		line += " " + w
	}
	b.WriteString(line)
	return b.String()
}
