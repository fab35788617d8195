package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codescope/pkg/browse"
	"github.com/matzehuels/codescope/pkg/dataset"
)

// tableFlags are shared by the classes and methods commands.
type tableFlags struct {
	unused  bool
	search  string
	sort    string
	desc    bool
	asc     bool
	limit   int
	show    string
	jsonOut bool
}

func (f *tableFlags) register(cmd *cobra.Command, sortHelp string) {
	cmd.Flags().BoolVar(&f.unused, "unused", false, "only show entries flagged unused")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "case-insensitive substring filter")
	cmd.Flags().StringVar(&f.sort, "sort", "", sortHelp)
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&f.asc, "asc", false, "sort ascending")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "show at most n rows (0 for all)")
	cmd.Flags().StringVar(&f.show, "show", "", "print the details of one entry by id")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "print JSON instead of a table")
	cmd.MarkFlagsMutuallyExclusive("asc", "desc")
}

func (f *tableFlags) direction() string {
	switch {
	case f.desc:
		return "desc"
	case f.asc:
		return "asc"
	}
	return ""
}

func (c *CLI) classesCommand() *cobra.Command {
	var f tableFlags
	cmd := &cobra.Command{
		Use:   "classes [source]",
		Short: "List classes with dependency counts and impact",
		Example: `  codescope classes data.json --unused
  codescope classes data.json --sort name --asc
  codescope classes data.json --show com.acme.util.Money`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := browse.ParseClassOrder(f.sort, f.direction())
			if err != nil {
				return err
			}
			ds, err := c.loadDataset(cmd.Context(), sourceArg(args))
			if err != nil {
				return err
			}
			if f.show != "" {
				d, err := browse.Class(ds, f.show)
				if err != nil {
					return err
				}
				if f.jsonOut {
					return writeJSON(c.Out, d)
				}
				printClassDetail(c.Out, d)
				return nil
			}
			rows := limitRows(browse.Classes(ds, browse.ClassQuery{UnusedOnly: f.unused, Search: f.search, Order: order}), f.limit)
			if f.jsonOut {
				return writeJSON(c.Out, rows)
			}
			fmt.Fprintln(c.Out, classTable(rows, -1).Render())
			printDetail(c.Out, "%d classes, sorted by %s", len(rows), order)
			return nil
		},
	}
	f.register(cmd, "sort field: name, package, dependencies (default), impact")
	_ = cmd.RegisterFlagCompletionFunc("sort", cobra.FixedCompletions([]string{"name", "package", "dependencies", "impact"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (c *CLI) methodsCommand() *cobra.Command {
	var f tableFlags
	cmd := &cobra.Command{
		Use:   "methods [source]",
		Short: "List methods with call counts and impact",
		Example: `  codescope methods data.json --search Order
  codescope methods data.json --show com.acme.service.OrderService.place`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := browse.ParseMethodOrder(f.sort, f.direction())
			if err != nil {
				return err
			}
			ds, err := c.loadDataset(cmd.Context(), sourceArg(args))
			if err != nil {
				return err
			}
			if f.show != "" {
				d, err := browse.Method(ds, f.show)
				if err != nil {
					return err
				}
				if f.jsonOut {
					return writeJSON(c.Out, d)
				}
				printMethodDetail(c.Out, d)
				return nil
			}
			rows := limitRows(browse.Methods(ds, browse.MethodQuery{UnusedOnly: f.unused, Search: f.search, Order: order}), f.limit)
			if f.jsonOut {
				return writeJSON(c.Out, rows)
			}
			fmt.Fprintln(c.Out, methodTable(rows, -1).Render())
			printDetail(c.Out, "%d methods, sorted by %s", len(rows), order)
			return nil
		},
	}
	f.register(cmd, "sort field: name, class, calls (default), impact")
	_ = cmd.RegisterFlagCompletionFunc("sort", cobra.FixedCompletions([]string{"name", "class", "calls", "impact"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (c *CLI) summaryCommand() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "summary [source]",
		Short: "Print entity counts and the impact severity breakdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := c.loadDataset(cmd.Context(), sourceArg(args))
			if err != nil {
				return err
			}
			s := browse.Summarize(ds)
			if jsonOut {
				return writeJSON(c.Out, s)
			}
			printSummary(c.Out, ds.Source, s)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	return cmd
}

// =============================================================================
// Rendering
// =============================================================================

// headerRow is the row index lipgloss tables pass for the header.
const headerRow = -1

// classTable renders rows; cursor marks a selected row, -1 for none.
func classTable(rows []browse.ClassRow, cursor int) *table.Table {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.SimpleName, r.PackageName, strconv.Itoa(r.Dependencies), yesNo(r.Unused), yesNo(r.Framework), impactCell(r.ImpactTotal, r.Bucket)}
	}
	return newTable(cursor, data, "Class", "Package", "Deps", "Unused", "Framework", "Impact")
}

func methodTable(rows []browse.MethodRow, cursor int) *table.Table {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.Name, r.ClassName, strconv.Itoa(r.CallCount), yesNo(r.Called), yesNo(r.Unused), impactCell(r.ImpactTotal, r.Bucket)}
	}
	return newTable(cursor, data, "Method", "Class", "Calls", "Called", "Unused", "Impact")
}

func newTable(cursor int, rows [][]string, headers ...string) *table.Table {
	selected := lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return styleHeader
			case row == cursor:
				return selected
			}
			return lipgloss.NewStyle()
		})
}

func impactCell(total int, b browse.Bucket) string {
	if total == 0 {
		return StyleDim.Render("0")
	}
	return fmt.Sprintf("%d %s", total, renderBucket(b))
}

func printClassDetail(w io.Writer, d *browse.ClassDetail) {
	fmt.Fprintln(w, StyleTitle.Render(d.Class.SimpleName))
	printKeyValue(w, "Id", d.Class.ID)
	printKeyValue(w, "Package", d.Class.PackageName)
	printKeyValue(w, "Unused", strconv.FormatBool(d.Class.Unused))
	printKeyValue(w, "Framework", strconv.FormatBool(d.Class.Framework))
	printKeyValue(w, "Test", strconv.FormatBool(d.Class.Test))
	if d.UnusedReason != "" {
		printKeyValue(w, "Unused because", d.UnusedReason)
	}
	printImpact(w, d.Impact, d.ImpactTotal, d.Bucket)

	deps := make([]string, len(d.Dependencies))
	for i, dep := range d.Dependencies {
		deps[i] = fmt.Sprintf("%s (%s)", dep.Target, dep.Type)
	}
	printList(w, "Depends on", deps)
	printList(w, "Used by", d.Dependents)
	printList(w, "Methods", d.Methods)
}

func printMethodDetail(w io.Writer, d *browse.MethodDetail) {
	fmt.Fprintln(w, StyleTitle.Render(d.ClassName+"."+d.Method.Name))
	printKeyValue(w, "Full name", d.Method.FullName)
	printKeyValue(w, "Declaring class", d.Method.DeclaringClass)
	printKeyValue(w, "Called", strconv.FormatBool(d.Method.Called))
	printKeyValue(w, "Unused", strconv.FormatBool(d.Method.Unused))
	printKeyValue(w, "Framework", strconv.FormatBool(d.Method.Framework))
	if d.UnusedReason != "" {
		printKeyValue(w, "Unused because", d.UnusedReason)
	}
	printImpact(w, d.Impact, d.ImpactTotal, d.Bucket)
	printList(w, "Calls", d.Method.Calls)
	printList(w, "Called by", d.CalledBy)
}

func printImpact(w io.Writer, imp *dataset.Impact, total int, b browse.Bucket) {
	if imp == nil {
		printKeyValue(w, "Impact", "none")
		return
	}
	printKeyValue(w, "Impact", fmt.Sprintf("%d %s, severity %s", total, renderBucket(b), renderSeverity(imp.ImpactRadius.SeverityLevel)))
	printList(w, "Directly affected", imp.ImpactRadius.DirectlyAffected)
	printList(w, "Indirectly affected", imp.ImpactRadius.IndirectlyAffected)
}

func printList(w io.Writer, title string, items []string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleHeader.Render(fmt.Sprintf("%s (%d)", title, len(items))))
	for _, it := range items {
		printDetail(w, "%s", it)
	}
}

func printSummary(w io.Writer, source string, s browse.Summary) {
	fmt.Fprintln(w, StyleTitle.Render("Code data")+" "+StyleDim.Render(source))
	printKeyValue(w, "Classes", fmt.Sprintf("%d (%d unused)", s.Classes, s.UnusedClasses))
	printKeyValue(w, "Methods", fmt.Sprintf("%d (%d unused)", s.Methods, s.UnusedMethods))
	printKeyValue(w, "Reported unused", fmt.Sprintf("%d classes, %d methods", s.ReportedUnusedClasses, s.ReportedUnusedMethods))
	printKeyValue(w, "Call graph", fmt.Sprintf("%d nodes, %d edges", s.CallGraphNodes, s.CallGraphEdges))

	parts := make([]string, 0, len(dataset.Severities))
	for _, sev := range dataset.Severities {
		parts = append(parts, fmt.Sprintf("%s %d", renderSeverity(sev), s.Severity[sev]))
	}
	printKeyValue(w, "Impact severity", strings.Join(parts, "  "))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func limitRows[T any](rows []T, n int) []T {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}
