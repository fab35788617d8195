package dataset

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/codescope/pkg/cache"
)

// Dataset is a loaded, read-only code-data document plus lookup indexes.
//
// Revision is unique per load, so two loads of identical bytes still get
// distinct revisions; Hash is the content hash and is equal for identical
// bytes. In-memory memoization keys on Revision, persistent caches key on
// Hash.
type Dataset struct {
	Data     *CodeData
	Revision string
	Hash     string
	Source   string
	LoadedAt time.Time

	classes      map[string]int
	methods      map[string]int
	classImpact  map[string]int
	methodImpact map[string]int
}

// New wraps decoded data. raw is the document the data was decoded from and
// only feeds the content hash.
func New(data *CodeData, raw []byte, source string) *Dataset {
	if data == nil {
		data = &CodeData{}
		data.normalize()
	}
	ds := &Dataset{
		Data:         data,
		Revision:     uuid.NewString(),
		Hash:         cache.Hash(raw),
		Source:       source,
		LoadedAt:     time.Now(),
		classes:      make(map[string]int, len(data.Classes)),
		methods:      make(map[string]int, len(data.Methods)),
		classImpact:  make(map[string]int),
		methodImpact: make(map[string]int),
	}
	// First occurrence wins for duplicate ids.
	for i, c := range data.Classes {
		if _, ok := ds.classes[c.ID]; !ok {
			ds.classes[c.ID] = i
		}
	}
	for i, m := range data.Methods {
		if _, ok := ds.methods[m.FullName]; !ok {
			ds.methods[m.FullName] = i
		}
	}
	for i, imp := range data.ImpactAnalysis {
		switch imp.Type {
		case KindClass:
			if _, ok := ds.classImpact[imp.Class]; !ok && imp.Class != "" {
				ds.classImpact[imp.Class] = i
			}
		case KindMethod:
			if _, ok := ds.methodImpact[imp.Method]; !ok && imp.Method != "" {
				ds.methodImpact[imp.Method] = i
			}
		}
	}
	return ds
}

// UnusedClassReason returns the unused-code report's reason for class id.
func (d *Dataset) UnusedClassReason(id string) (string, bool) {
	for _, u := range d.Data.UnusedCode.Classes {
		if u.ID == id || u.FullName == id {
			return u.Reason, true
		}
	}
	return "", false
}

// UnusedMethodReason returns the unused-code report's reason for a method
// full name. Entries without an id match on className.methodName.
func (d *Dataset) UnusedMethodReason(fullName string) (string, bool) {
	for _, u := range d.Data.UnusedCode.Methods {
		if u.ID == fullName || u.ClassName+"."+u.MethodName == fullName {
			return u.Reason, true
		}
	}
	return "", false
}

// Class returns the class with the given id.
func (d *Dataset) Class(id string) (*Class, bool) {
	i, ok := d.classes[id]
	if !ok {
		return nil, false
	}
	return &d.Data.Classes[i], true
}

// Method returns the method with the given full name.
func (d *Dataset) Method(fullName string) (*Method, bool) {
	i, ok := d.methods[fullName]
	if !ok {
		return nil, false
	}
	return &d.Data.Methods[i], true
}

// ClassImpact returns the impact entry for a class.
func (d *Dataset) ClassImpact(id string) (*Impact, bool) {
	i, ok := d.classImpact[id]
	if !ok {
		return nil, false
	}
	return &d.Data.ImpactAnalysis[i], true
}

// MethodImpact returns the impact entry for a method.
func (d *Dataset) MethodImpact(fullName string) (*Impact, bool) {
	i, ok := d.methodImpact[fullName]
	if !ok {
		return nil, false
	}
	return &d.Data.ImpactAnalysis[i], true
}

// Graph returns the full graph for a node kind: [Dataset.ClassGraph] for
// classes, [Dataset.MethodGraph] otherwise.
func (d *Dataset) Graph(kind Kind) Graph {
	if kind == KindClass {
		return d.ClassGraph()
	}
	return d.MethodGraph()
}

// ClassGraph builds the class dependency graph from each class's dependsOn
// list. It never reads the call graph. Edge targets are not required to be
// known classes.
func (d *Dataset) ClassGraph() Graph {
	g := Graph{
		Nodes: make([]Node, 0, len(d.Data.Classes)),
		Edges: []Edge{},
	}
	for _, c := range d.Data.Classes {
		g.Nodes = append(g.Nodes, Node{ID: c.ID, Kind: KindClass})
		for _, dep := range c.DependsOn {
			g.Edges = append(g.Edges, Edge{From: c.ID, To: dep.Target})
		}
	}
	return g
}

// MethodGraph returns the call graph as delivered. Node kinds are kept, so
// the graph may still hold non-method nodes.
func (d *Dataset) MethodGraph() Graph {
	return d.Data.CallGraph
}

// ClassName resolves the simple name for a declaring class id: the class's
// simpleName when the class is known, else the last dot-separated segment.
func (d *Dataset) ClassName(declaringClass string) string {
	if c, ok := d.Class(declaringClass); ok && c.SimpleName != "" {
		return c.SimpleName
	}
	return LastSegment(declaringClass)
}

// LastSegment returns the part of id after its last dot.
func LastSegment(id string) string {
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == '.' {
			return id[i+1:]
		}
	}
	return id
}
