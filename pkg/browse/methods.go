package browse

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/errors"
)

// MethodRow is one line of the method table. ClassName is the declaring
// class's simple name.
type MethodRow struct {
	dataset.Method
	ClassName   string `json:"className"`
	CallCount   int    `json:"callCount"`
	ImpactTotal int    `json:"impactTotal"`
	Bucket      Bucket `json:"bucket"`
}

// MethodQuery selects and orders method rows. A zero Order means
// [DefaultMethodOrder].
type MethodQuery struct {
	UnusedOnly bool
	Search     string
	Order      Order
}

// Methods returns the filtered, sorted method table. Search matches the
// method name, full name, class simple name or declaring class.
func Methods(ds *dataset.Dataset, q MethodQuery) []MethodRow {
	order := q.Order
	if order.Field == "" {
		order = DefaultMethodOrder
	}
	needle := strings.ToLower(q.Search)

	rows := []MethodRow{}
	for _, m := range ds.Data.Methods {
		if q.UnusedOnly && !m.Unused {
			continue
		}
		className := ds.ClassName(m.DeclaringClass)
		if needle != "" && !containsFold(needle, m.Name, m.FullName, className, m.DeclaringClass) {
			continue
		}
		total := impactTotal(ds.MethodImpact(m.FullName))
		rows = append(rows, MethodRow{
			Method:      m,
			ClassName:   className,
			CallCount:   len(m.Calls),
			ImpactTotal: total,
			Bucket:      BucketFor(total),
		})
	}

	slices.SortStableFunc(rows, func(a, b MethodRow) int {
		var c int
		switch order.Field {
		case SortCalls:
			c = cmp.Compare(a.CallCount, b.CallCount)
		case SortImpact:
			c = cmp.Compare(a.ImpactTotal, b.ImpactTotal)
		case SortClass:
			c = compareText(a.ClassName, b.ClassName)
		default:
			c = compareText(a.Name, b.Name)
		}
		return directed(c, order.Desc)
	})
	return rows
}

// MethodDetail is the side panel for one method.
type MethodDetail struct {
	Method    dataset.Method `json:"method"`
	ClassName string         `json:"className"`
	// Class is the declaring class when the dataset knows it.
	Class *dataset.Class `json:"class,omitempty"`
	// CalledBy lists callers found in the call graph, in edge order.
	CalledBy     []string         `json:"calledBy"`
	UnusedReason string           `json:"unusedReason,omitempty"`
	Impact       *dataset.Impact  `json:"impact,omitempty"`
	Severity     dataset.Severity `json:"severity,omitempty"`
	ImpactTotal  int              `json:"impactTotal"`
	Bucket       Bucket           `json:"bucket"`
}

// Method returns the detail view for a method full name, or a NOT_FOUND
// error.
func Method(ds *dataset.Dataset, fullName string) (*MethodDetail, error) {
	m, ok := ds.Method(fullName)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "method %q not found", fullName)
	}

	d := &MethodDetail{
		Method:    *m,
		ClassName: ds.ClassName(m.DeclaringClass),
		CalledBy:  []string{},
	}
	if c, ok := ds.Class(m.DeclaringClass); ok {
		d.Class = c
	}
	seen := make(map[string]bool)
	for _, e := range ds.MethodGraph().Edges {
		if e.To == fullName && !seen[e.From] {
			seen[e.From] = true
			d.CalledBy = append(d.CalledBy, e.From)
		}
	}
	d.UnusedReason, _ = ds.UnusedMethodReason(fullName)
	if imp, ok := ds.MethodImpact(fullName); ok {
		d.Impact = imp
		d.Severity = imp.ImpactRadius.SeverityLevel
		d.ImpactTotal = imp.ImpactRadius.TotalImpact
	}
	d.Bucket = BucketFor(d.ImpactTotal)
	return d, nil
}
