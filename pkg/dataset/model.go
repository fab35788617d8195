package dataset

import (
	"fmt"
	"strings"

	"github.com/matzehuels/codescope/pkg/errors"
)

// Kind discriminates class-level from method-level graph entities.
type Kind string

const (
	KindClass  Kind = "class"
	KindMethod Kind = "method"
)

// ParseKind parses a node kind, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindClass:
		return KindClass, nil
	case KindMethod:
		return KindMethod, nil
	}
	return "", errors.New(errors.ErrCodeInvalidKind, "unknown node kind %q (must be class or method)", s)
}

// DependencyType is how a class refers to another.
type DependencyType string

const (
	DependencyImport    DependencyType = "IMPORT"
	DependencyReference DependencyType = "REFERENCE"
)

// Dependency is one outgoing class reference.
type Dependency struct {
	Target string         `json:"target"`
	Type   DependencyType `json:"type"`
}

// Class is an analyzed class. ID and FullName are the fully-qualified name.
type Class struct {
	ID          string       `json:"id"`
	FullName    string       `json:"fullName"`
	SimpleName  string       `json:"simpleName"`
	PackageName string       `json:"packageName"`
	Unused      bool         `json:"unused"`
	Framework   bool         `json:"framework"`
	Test        bool         `json:"test"`
	DependsOn   []Dependency `json:"dependsOn"`
}

// Method is an analyzed method. FullName is "declaringClass.name" and is the
// method's node id in the call graph.
type Method struct {
	DeclaringClass string   `json:"declaringClass"`
	Name           string   `json:"name"`
	FullName       string   `json:"fullName"`
	Called         bool     `json:"called"`
	Framework      bool     `json:"framework"`
	Test           bool     `json:"test"`
	Unused         bool     `json:"unused"`
	Calls          []string `json:"calls,omitempty"`
}

// UnusedClass is an entry of the unused-code report.
type UnusedClass struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Reason   string `json:"reason"`
}

// UnusedMethod is an entry of the unused-code report.
type UnusedMethod struct {
	ID         string `json:"id"`
	ClassName  string `json:"className"`
	MethodName string `json:"methodName"`
	Reason     string `json:"reason"`
}

// UnusedCode is the analyzer's unused-code report.
type UnusedCode struct {
	Classes []UnusedClass  `json:"classes"`
	Methods []UnusedMethod `json:"methods"`
}

// Severity buckets an impact radius.
type Severity string

const (
	SeverityNone     Severity = "NONE"
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Severities lists the severity levels from least to most severe.
var Severities = []Severity{SeverityNone, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// ImpactRadius is the externally computed set of entities affected by a
// change to one class or method.
type ImpactRadius struct {
	DirectlyAffected   []string `json:"directlyAffected"`
	IndirectlyAffected []string `json:"indirectlyAffected"`
	TotalImpact        int      `json:"totalImpact"`
	SeverityLevel      Severity `json:"severityLevel"`
}

// Impact is one entry of the impact analysis. Exactly one of Class and
// Method is set, matching Type.
type Impact struct {
	Class        string       `json:"class,omitempty"`
	Method       string       `json:"method,omitempty"`
	Type         Kind         `json:"type"`
	ImpactRadius ImpactRadius `json:"impactRadius"`
}

// Subject returns the id of the class or method the entry describes.
func (i Impact) Subject() string {
	if i.Type == KindMethod {
		return i.Method
	}
	return i.Class
}

// Node is a graph vertex. The wire format calls the kind "type".
type Node struct {
	ID   string `json:"id"`
	Kind Kind   `json:"type"`
}

// Edge is a directed graph edge. Duplicates are meaningful and kept.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// String returns "from->to".
func (e Edge) String() string { return fmt.Sprintf("%s->%s", e.From, e.To) }

// Graph is a node and edge list in input order.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// CodeData is the complete analysis document.
type CodeData struct {
	Classes        []Class    `json:"classes"`
	Methods        []Method   `json:"methods"`
	UnusedCode     UnusedCode `json:"unusedCode"`
	ImpactAnalysis []Impact   `json:"impactAnalysis"`
	CallGraph      Graph      `json:"callGraph"`
}
