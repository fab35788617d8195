package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codescope/pkg/browse"
	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/graphview"
)

var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorGray)
	helpStyle        = lipgloss.NewStyle().Foreground(colorDim)
)

var tabLabels = map[dataset.Kind]string{dataset.KindClass: " classes ", dataset.KindMethod: " methods "}

// sortKeys maps number keys to sort fields per tab, in column order.
var sortKeys = map[dataset.Kind]map[string]browse.SortField{
	dataset.KindClass: {
		"1": browse.SortName, "2": browse.SortPackage, "3": browse.SortDependencies, "4": browse.SortImpact,
	},
	dataset.KindMethod: {
		"1": browse.SortName, "2": browse.SortClass, "3": browse.SortCalls, "4": browse.SortImpact,
	},
}

func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [source]",
		Short: "Browse classes and methods interactively",
		Long: `Browse opens a terminal view with a class tab and a method tab.

  tab        switch between classes and methods
  ↑/↓ j/k    move
  1-4        sort by column (again to flip direction)
  /          search, enter to apply, esc to cancel
  u          toggle unused only
  enter      details and graph neighborhood
  esc, q     back / quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ds, err := c.loadDataset(ctx, sourceArg(args))
			if err != nil {
				return err
			}
			dir, err := graphview.ParseDirection(c.Config().Graph.Direction)
			if err != nil {
				return err
			}
			proj := graphview.NewProjector(nil, nil, c.Logger)
			graphs := make(map[dataset.Kind]graphview.Graph, 2)
			for _, kind := range []dataset.Kind{dataset.KindClass, dataset.KindMethod} {
				if graphs[kind], err = proj.Graph(ctx, ds, kind, dir); err != nil {
					return err
				}
			}
			_, err = tea.NewProgram(newBrowseModel(ds, graphs), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// =============================================================================
// browseModel - Interactive class and method tables
// =============================================================================

type browseModel struct {
	ds     *dataset.Dataset
	states map[dataset.Kind]*graphview.State

	tab     dataset.Kind
	classQ  browse.ClassQuery
	methodQ browse.MethodQuery
	classes []browse.ClassRow
	methods []browse.MethodRow

	cursor int
	offset int
	height int

	searching bool
	input     string

	// detail is the rendered side panel; empty when the table is shown.
	detail string
}

func newBrowseModel(ds *dataset.Dataset, graphs map[dataset.Kind]graphview.Graph) browseModel {
	m := browseModel{
		ds:      ds,
		states:  make(map[dataset.Kind]*graphview.State, len(graphs)),
		tab:     dataset.KindClass,
		classQ:  browse.ClassQuery{Order: browse.DefaultClassOrder},
		methodQ: browse.MethodQuery{Order: browse.DefaultMethodOrder},
		height:  15,
	}
	for kind, g := range graphs {
		m.states[kind] = graphview.NewState(g)
	}
	m.refresh()
	return m
}

func (m *browseModel) refresh() {
	m.classes = browse.Classes(m.ds, m.classQ)
	m.methods = browse.Methods(m.ds, m.methodQ)
	if n := m.rowCount(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.clampOffset()
}

func (m browseModel) rowCount() int {
	if m.tab == dataset.KindClass {
		return len(m.classes)
	}
	return len(m.methods)
}

func (m *browseModel) clampOffset() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-10, 5)
		m.clampOffset()
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg), nil
		}
		if m.detail != "" {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "enter", "backspace":
				m.detail = ""
			}
			return m, nil
		}
		return m.updateTable(msg)
	}
	return m, nil
}

func (m browseModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "tab":
		if m.tab == dataset.KindClass {
			m.tab = dataset.KindMethod
		} else {
			m.tab = dataset.KindClass
		}
		m.cursor, m.offset = 0, 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.rowCount()-1 {
			m.cursor++
		}
	case "/":
		m.searching = true
		m.input = m.currentSearch()
	case "u":
		if m.tab == dataset.KindClass {
			m.classQ.UnusedOnly = !m.classQ.UnusedOnly
		} else {
			m.methodQ.UnusedOnly = !m.methodQ.UnusedOnly
		}
		m.refresh()
	case "enter":
		m.detail = m.renderDetail()
	default:
		if field, ok := sortKeys[m.tab][key]; ok {
			if m.tab == dataset.KindClass {
				m.classQ.Order = m.classQ.Order.Toggle(field)
			} else {
				m.methodQ.Order = m.methodQ.Order.Toggle(field)
			}
			m.refresh()
		}
	}
	m.clampOffset()
	return m, nil
}

func (m browseModel) updateSearch(msg tea.KeyMsg) browseModel {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		if m.tab == dataset.KindClass {
			m.classQ.Search = m.input
		} else {
			m.methodQ.Search = m.input
		}
		m.cursor, m.offset = 0, 0
		m.refresh()
	case tea.KeyEsc:
		m.searching = false
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.input += string(msg.Runes)
	}
	return m
}

func (m browseModel) currentSearch() string {
	if m.tab == dataset.KindClass {
		return m.classQ.Search
	}
	return m.methodQ.Search
}

// selectedID returns the id of the row under the cursor.
func (m browseModel) selectedID() (string, bool) {
	if m.tab == dataset.KindClass {
		if m.cursor < len(m.classes) {
			return m.classes[m.cursor].ID, true
		}
		return "", false
	}
	if m.cursor < len(m.methods) {
		return m.methods[m.cursor].FullName, true
	}
	return "", false
}

// renderDetail builds the side panel for the selected row, followed by its
// highlighted graph neighborhood.
func (m browseModel) renderDetail() string {
	id, ok := m.selectedID()
	if !ok {
		return ""
	}
	var b strings.Builder
	if m.tab == dataset.KindClass {
		d, err := browse.Class(m.ds, id)
		if err != nil {
			return err.Error()
		}
		printClassDetail(&b, d)
	} else {
		d, err := browse.Method(m.ds, id)
		if err != nil {
			return err.Error()
		}
		printMethodDetail(&b, d)
	}

	if st, ok := m.states[m.tab]; ok {
		var neighbors []string
		if st.Highlight(id) {
			for _, n := range graphview.EmphasizedIDs(st.View()) {
				if n != id {
					neighbors = append(neighbors, n)
				}
			}
		}
		printList(&b, "Graph neighborhood", neighbors)
	}
	return b.String()
}

func (m browseModel) View() string {
	var b strings.Builder

	for _, kind := range []dataset.Kind{dataset.KindClass, dataset.KindMethod} {
		label := tabLabels[kind]
		if kind == m.tab {
			b.WriteString(tabActiveStyle.Render(label))
		} else {
			b.WriteString(tabInactiveStyle.Render(label))
		}
	}
	b.WriteString("\n")

	if m.detail != "" {
		b.WriteString("\n")
		b.WriteString(m.detail)
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back  q quit"))
		return b.String()
	}

	order, search, unused := m.classQ.Order, m.classQ.Search, m.classQ.UnusedOnly
	if m.tab == dataset.KindMethod {
		order, search, unused = m.methodQ.Order, m.methodQ.Search, m.methodQ.UnusedOnly
	}
	status := "sort " + order.String()
	if search != "" {
		status += fmt.Sprintf("  search %q", search)
	}
	if unused {
		status += "  unused only"
	}
	b.WriteString(helpStyle.Render(status))
	b.WriteString("\n")

	end := min(m.offset+m.height, m.rowCount())
	if m.tab == dataset.KindClass {
		b.WriteString(classTable(m.classes[m.offset:end], m.cursor-m.offset).Render())
	} else {
		b.WriteString(methodTable(m.methods[m.offset:end], m.cursor-m.offset).Render())
	}
	b.WriteString("\n")

	if m.searching {
		b.WriteString(StyleTitle.Render("/") + " " + m.input + "█\n")
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("[%d/%d]  tab switch  1-4 sort  / search  u unused  ⏎ details  q quit",
		min(m.cursor+1, m.rowCount()), m.rowCount())))
	return b.String()
}
