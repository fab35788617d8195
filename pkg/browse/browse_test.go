package browse

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/errors"
)

func loadSample(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load(context.Background(), dataset.FileSource{Path: "../dataset/testdata/code-data.json"}, nil)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	return ds
}

func classNames(rows []ClassRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.SimpleName
	}
	return out
}

func methodNames(rows []MethodRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestClasses(t *testing.T) {
	ds := loadSample(t)

	tests := []struct {
		name string
		q    ClassQuery
		want []string
	}{
		{"default order", ClassQuery{}, []string{"OrderService", "OrderController", "OldReport", "OrderRepository", "Money"}},
		{"name asc", ClassQuery{Order: Order{Field: SortName}}, []string{"Money", "OldReport", "OrderController", "OrderRepository", "OrderService"}},
		{"name desc", ClassQuery{Order: Order{Field: SortName, Desc: true}}, []string{"OrderService", "OrderRepository", "OrderController", "OldReport", "Money"}},
		{"package asc", ClassQuery{Order: Order{Field: SortPackage}}, []string{"OrderController", "OldReport", "OrderRepository", "OrderService", "Money"}},
		{"impact desc", ClassQuery{Order: Order{Field: SortImpact, Desc: true}}, []string{"Money", "OrderRepository", "OrderController", "OrderService", "OldReport"}},
		{"unused only", ClassQuery{UnusedOnly: true}, []string{"OldReport"}},
		{"search simple name", ClassQuery{Search: "ORDER", Order: Order{Field: SortName}}, []string{"OrderController", "OrderRepository", "OrderService"}},
		{"search package", ClassQuery{Search: "legacy"}, []string{"OldReport"}},
		{"no match", ClassQuery{Search: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classNames(Classes(ds, tt.q)); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassRowImpact(t *testing.T) {
	ds := loadSample(t)
	for _, r := range Classes(ds, ClassQuery{}) {
		switch r.SimpleName {
		case "Money":
			if r.ImpactTotal != 3 || r.Bucket != BucketLow {
				t.Errorf("Money impact = %d %s", r.ImpactTotal, r.Bucket)
			}
		case "OrderService":
			if r.Dependencies != 2 || r.ImpactTotal != 0 {
				t.Errorf("OrderService row = %+v", r)
			}
		}
	}
}

func TestMethods(t *testing.T) {
	ds := loadSample(t)

	tests := []struct {
		name string
		q    MethodQuery
		want []string
	}{
		{"default order", MethodQuery{}, []string{"place", "create", "save", "add", "render"}},
		{"class asc", MethodQuery{Order: Order{Field: SortClass}}, []string{"add", "render", "create", "save", "place"}},
		{"name asc", MethodQuery{Order: Order{Field: SortName}}, []string{"add", "create", "place", "render", "save"}},
		{"impact desc", MethodQuery{Order: Order{Field: SortImpact, Desc: true}}, []string{"place", "create", "save", "add", "render"}},
		{"unused only", MethodQuery{UnusedOnly: true}, []string{"render"}},
		{"search class simple name", MethodQuery{Search: "money"}, []string{"add"}},
		{"search declaring class", MethodQuery{Search: "acme.repo"}, []string{"save"}},
		{"search method name", MethodQuery{Search: "PLA"}, []string{"place"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := methodNames(Methods(ds, tt.q)); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMethodClassNameFallback(t *testing.T) {
	data := &dataset.CodeData{
		Methods: []dataset.Method{{DeclaringClass: "org.other.Helper", Name: "run", FullName: "org.other.Helper.run"}},
	}
	rows := Methods(dataset.New(data, nil, "test"), MethodQuery{})
	if len(rows) != 1 || rows[0].ClassName != "Helper" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestOrderToggle(t *testing.T) {
	tests := []struct {
		from  Order
		field SortField
		want  Order
	}{
		{DefaultClassOrder, SortDependencies, Order{SortDependencies, false}},
		{DefaultClassOrder, SortName, Order{SortName, false}},
		{Order{SortName, false}, SortName, Order{SortName, true}},
		{Order{SortName, false}, SortImpact, Order{SortImpact, true}},
		{DefaultMethodOrder, SortClass, Order{SortClass, false}},
		{Order{SortClass, true}, SortCalls, Order{SortCalls, true}},
	}
	for _, tt := range tests {
		if got := tt.from.Toggle(tt.field); got != tt.want {
			t.Errorf("%v.Toggle(%s) = %v, want %v", tt.from, tt.field, got, tt.want)
		}
	}
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		field, dir string
		method     bool
		want       Order
		wantErr    bool
	}{
		{"", "", false, DefaultClassOrder, false},
		{"", "", true, DefaultMethodOrder, false},
		{"name", "", false, Order{SortName, false}, false},
		{"Impact", "", true, Order{SortImpact, true}, false},
		{"package", "desc", false, Order{SortPackage, true}, false},
		{"calls", "asc", true, Order{SortCalls, false}, false},
		{"calls", "", false, Order{}, true},
		{"package", "", true, Order{}, true},
		{"name", "sideways", false, Order{}, true},
	}
	for _, tt := range tests {
		parse := ParseClassOrder
		if tt.method {
			parse = ParseMethodOrder
		}
		got, err := parse(tt.field, tt.dir)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidSort) {
				t.Errorf("parse(%q, %q) err = %v, want INVALID_SORT", tt.field, tt.dir, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("parse(%q, %q) = %v, %v, want %v", tt.field, tt.dir, got, err, tt.want)
		}
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		total int
		want  Bucket
	}{
		{0, BucketLow},
		{5, BucketLow},
		{6, BucketMedium},
		{10, BucketMedium},
		{11, BucketHigh},
		{20, BucketHigh},
		{21, BucketCritical},
	}
	for _, tt := range tests {
		if got := BucketFor(tt.total); got != tt.want {
			t.Errorf("BucketFor(%d) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestClassDetail(t *testing.T) {
	ds := loadSample(t)
	d, err := Class(ds, "com.acme.util.Money")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(d.Dependents, []string{"com.acme.service.OrderService", "com.acme.legacy.OldReport"}) {
		t.Errorf("Dependents = %v", d.Dependents)
	}
	if !slices.Equal(d.Methods, []string{"com.acme.util.Money.add"}) {
		t.Errorf("Methods = %v", d.Methods)
	}
	if d.Impact == nil || d.Severity != dataset.SeverityLow || d.ImpactTotal != 3 {
		t.Errorf("impact = %+v severity %s", d.Impact, d.Severity)
	}

	repo, err := Class(ds, "com.acme.repo.OrderRepository")
	if err != nil {
		t.Fatal(err)
	}
	if repo.Dependencies == nil || len(repo.Dependencies) != 0 {
		t.Errorf("Dependencies = %#v, want empty", repo.Dependencies)
	}

	if old, _ := Class(ds, "com.acme.legacy.OldReport"); old == nil || old.UnusedReason != "No other classes depends on this class" {
		t.Errorf("OldReport detail = %+v", old)
	}

	if _, err := Class(ds, "com.acme.Nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown class err = %v", err)
	}
}

func TestMethodDetail(t *testing.T) {
	ds := loadSample(t)
	d, err := Method(ds, "com.acme.service.OrderService.place")
	if err != nil {
		t.Fatal(err)
	}
	if d.ClassName != "OrderService" || d.Class == nil {
		t.Errorf("class = %q %v", d.ClassName, d.Class)
	}
	if !slices.Equal(d.CalledBy, []string{"com.acme.api.OrderController.create"}) {
		t.Errorf("CalledBy = %v", d.CalledBy)
	}
	if d.ImpactTotal != 1 || d.Bucket != BucketLow {
		t.Errorf("impact = %d %s", d.ImpactTotal, d.Bucket)
	}

	if d.UnusedReason != "" {
		t.Errorf("UnusedReason = %q, want empty", d.UnusedReason)
	}

	old, err := Method(ds, "com.acme.legacy.OldReport.render")
	if err != nil {
		t.Fatal(err)
	}
	if old.UnusedReason == "" {
		t.Error("unused method has no reason")
	}

	if _, err := Method(ds, "nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown method err = %v", err)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(loadSample(t))
	if s.Classes != 5 || s.Methods != 5 || s.UnusedClasses != 1 || s.UnusedMethods != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.ReportedUnusedClasses != 1 || s.ReportedUnusedMethods != 1 {
		t.Errorf("report counts = %+v", s)
	}
	if s.Severity[dataset.SeverityLow] != 3 || s.Severity[dataset.SeverityCritical] != 0 || len(s.Severity) != len(dataset.Severities) {
		t.Errorf("severity = %v", s.Severity)
	}
	if s.CallGraphNodes != 4 || s.CallGraphEdges != 3 {
		t.Errorf("call graph = %d/%d", s.CallGraphNodes, s.CallGraphEdges)
	}

	empty := Summarize(dataset.New(nil, nil, "empty"))
	if empty.Classes != 0 || len(empty.Severity) != len(dataset.Severities) {
		t.Errorf("empty summary = %+v", empty)
	}
}
