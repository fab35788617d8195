package browse

import (
	"strings"

	"github.com/matzehuels/codescope/pkg/errors"
)

// SortField names a table column.
type SortField string

const (
	SortName         SortField = "name"
	SortPackage      SortField = "package"
	SortDependencies SortField = "dependencies"
	SortClass        SortField = "class"
	SortCalls        SortField = "calls"
	SortImpact       SortField = "impact"
)

// Numeric reports whether the field sorts by a count.
func (f SortField) Numeric() bool {
	return f == SortDependencies || f == SortCalls || f == SortImpact
}

var (
	classFields  = []SortField{SortName, SortPackage, SortDependencies, SortImpact}
	methodFields = []SortField{SortName, SortClass, SortCalls, SortImpact}
)

// Order is a sort field and direction.
type Order struct {
	Field SortField `json:"field"`
	Desc  bool      `json:"desc"`
}

var (
	DefaultClassOrder  = Order{Field: SortDependencies, Desc: true}
	DefaultMethodOrder = Order{Field: SortCalls, Desc: true}
)

// Toggle returns the order after selecting field: the same field flips
// direction, a new field starts descending when numeric and ascending
// otherwise.
func (o Order) Toggle(field SortField) Order {
	if field == o.Field {
		return Order{Field: field, Desc: !o.Desc}
	}
	return Order{Field: field, Desc: field.Numeric()}
}

func (o Order) String() string {
	if o.Desc {
		return string(o.Field) + " desc"
	}
	return string(o.Field) + " asc"
}

// ParseClassOrder parses a class sort field and direction ("asc", "desc"
// or empty). Empty field gives [DefaultClassOrder]; empty direction gives
// the field's natural direction.
func ParseClassOrder(field, dir string) (Order, error) {
	return parseOrder(field, dir, classFields, DefaultClassOrder)
}

// ParseMethodOrder is [ParseClassOrder] for the method table.
func ParseMethodOrder(field, dir string) (Order, error) {
	return parseOrder(field, dir, methodFields, DefaultMethodOrder)
}

func parseOrder(field, dir string, allowed []SortField, def Order) (Order, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(field)))
	if f == "" {
		f = def.Field
	}
	valid := false
	for _, a := range allowed {
		valid = valid || a == f
	}
	if !valid {
		return Order{}, errors.New(errors.ErrCodeInvalidSort, "unknown sort field %q (must be one of %v)", field, allowed)
	}

	o := Order{Field: f, Desc: f.Numeric()}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "":
	case "asc":
		o.Desc = false
	case "desc":
		o.Desc = true
	default:
		return Order{}, errors.New(errors.ErrCodeInvalidSort, "unknown sort direction %q (must be asc or desc)", dir)
	}
	return o, nil
}

// compareText orders case-insensitively, falling back to byte order.
func compareText(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func directed(c int, desc bool) int {
	if desc {
		return -c
	}
	return c
}

func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
