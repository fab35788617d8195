package browse

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/errors"
)

// ClassRow is one line of the class table.
type ClassRow struct {
	dataset.Class
	Dependencies int    `json:"dependencies"`
	ImpactTotal  int    `json:"impactTotal"`
	Bucket       Bucket `json:"bucket"`
}

// ClassQuery selects and orders class rows. A zero Order means
// [DefaultClassOrder].
type ClassQuery struct {
	UnusedOnly bool
	Search     string
	Order      Order
}

// Classes returns the filtered, sorted class table. Search matches the full
// name, simple name or package name.
func Classes(ds *dataset.Dataset, q ClassQuery) []ClassRow {
	order := q.Order
	if order.Field == "" {
		order = DefaultClassOrder
	}
	needle := strings.ToLower(q.Search)

	rows := []ClassRow{}
	for _, c := range ds.Data.Classes {
		if q.UnusedOnly && !c.Unused {
			continue
		}
		if needle != "" && !containsFold(needle, c.FullName, c.SimpleName, c.PackageName) {
			continue
		}
		total := impactTotal(ds.ClassImpact(c.ID))
		rows = append(rows, ClassRow{
			Class:        c,
			Dependencies: len(c.DependsOn),
			ImpactTotal:  total,
			Bucket:       BucketFor(total),
		})
	}

	slices.SortStableFunc(rows, func(a, b ClassRow) int {
		var c int
		switch order.Field {
		case SortDependencies:
			c = cmp.Compare(a.Dependencies, b.Dependencies)
		case SortImpact:
			c = cmp.Compare(a.ImpactTotal, b.ImpactTotal)
		case SortPackage:
			c = compareText(a.PackageName, b.PackageName)
		default:
			c = compareText(a.SimpleName, b.SimpleName)
		}
		return directed(c, order.Desc)
	})
	return rows
}

// ClassDetail is the side panel for one class.
type ClassDetail struct {
	Class        dataset.Class        `json:"class"`
	Dependencies []dataset.Dependency `json:"dependencies"`
	// Dependents lists the classes whose dependsOn names this class.
	Dependents []string `json:"dependents"`
	// Methods lists the full names of methods declared by this class.
	Methods []string `json:"methods"`
	// UnusedReason is the analyzer's explanation when it reported the
	// class as unused.
	UnusedReason string           `json:"unusedReason,omitempty"`
	Impact       *dataset.Impact  `json:"impact,omitempty"`
	Severity     dataset.Severity `json:"severity,omitempty"`
	ImpactTotal  int              `json:"impactTotal"`
	Bucket       Bucket           `json:"bucket"`
}

// Class returns the detail view for id, or a NOT_FOUND error.
func Class(ds *dataset.Dataset, id string) (*ClassDetail, error) {
	c, ok := ds.Class(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "class %q not found", id)
	}

	d := &ClassDetail{
		Class:        *c,
		Dependencies: c.DependsOn,
		Dependents:   []string{},
		Methods:      []string{},
	}
	if d.Dependencies == nil {
		d.Dependencies = []dataset.Dependency{}
	}
	for _, other := range ds.Data.Classes {
		for _, dep := range other.DependsOn {
			if dep.Target == id {
				d.Dependents = append(d.Dependents, other.ID)
				break
			}
		}
	}
	for _, m := range ds.Data.Methods {
		if m.DeclaringClass == id {
			d.Methods = append(d.Methods, m.FullName)
		}
	}
	d.UnusedReason, _ = ds.UnusedClassReason(id)
	if imp, ok := ds.ClassImpact(id); ok {
		d.Impact = imp
		d.Severity = imp.ImpactRadius.SeverityLevel
		d.ImpactTotal = imp.ImpactRadius.TotalImpact
	}
	d.Bucket = BucketFor(d.ImpactTotal)
	return d, nil
}
