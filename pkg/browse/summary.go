package browse

import "github.com/matzehuels/codescope/pkg/dataset"

// Summary is the dataset overview.
type Summary struct {
	Classes       int `json:"classes"`
	Methods       int `json:"methods"`
	UnusedClasses int `json:"unusedClasses"`
	UnusedMethods int `json:"unusedMethods"`
	// ReportedUnused counts the entries of the analyzer's unused-code
	// report, which may disagree with the per-entity flags.
	ReportedUnusedClasses int `json:"reportedUnusedClasses"`
	ReportedUnusedMethods int `json:"reportedUnusedMethods"`
	// Severity counts impact entries per severity level; every level is
	// present.
	Severity       map[dataset.Severity]int `json:"severity"`
	CallGraphNodes int                      `json:"callGraphNodes"`
	CallGraphEdges int                      `json:"callGraphEdges"`
}

// Summarize counts the dataset's entities.
func Summarize(ds *dataset.Dataset) Summary {
	d := ds.Data
	s := Summary{
		Classes:               len(d.Classes),
		Methods:               len(d.Methods),
		ReportedUnusedClasses: len(d.UnusedCode.Classes),
		ReportedUnusedMethods: len(d.UnusedCode.Methods),
		Severity:              make(map[dataset.Severity]int, len(dataset.Severities)),
		CallGraphNodes:        len(d.CallGraph.Nodes),
		CallGraphEdges:        len(d.CallGraph.Edges),
	}
	for _, c := range d.Classes {
		if c.Unused {
			s.UnusedClasses++
		}
	}
	for _, m := range d.Methods {
		if m.Unused {
			s.UnusedMethods++
		}
	}
	for _, sev := range dataset.Severities {
		s.Severity[sev] = 0
	}
	for _, imp := range d.ImpactAnalysis {
		sev := imp.ImpactRadius.SeverityLevel
		if sev == "" {
			sev = dataset.SeverityNone
		}
		s.Severity[sev]++
	}
	return s
}
