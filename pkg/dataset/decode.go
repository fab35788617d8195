package dataset

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codescope/pkg/errors"
)

// Decode parses a code-data document.
//
// Decoding is tolerant per field: each top-level field (and each half of
// callGraph and unusedCode) that is absent, null or of the wrong shape
// decodes as empty, and the problem is logged at debug level. Decode only
// fails when raw is not a JSON object. Every slice in the result is non-nil,
// including each class's DependsOn.
//
// A nil logger discards the debug output.
func Decode(raw []byte, logger *log.Logger) (*CodeData, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		if err == nil {
			err = errors.New(errors.ErrCodeInvalidFormat, "document is null")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "code data is not a JSON object")
	}

	d := &CodeData{}
	field(logger, top, "classes", &d.Classes)
	field(logger, top, "methods", &d.Methods)
	field(logger, top, "impactAnalysis", &d.ImpactAnalysis)

	var unused map[string]json.RawMessage
	field(logger, top, "unusedCode", &unused)
	field(logger, unused, "classes", &d.UnusedCode.Classes)
	field(logger, unused, "methods", &d.UnusedCode.Methods)

	var cg map[string]json.RawMessage
	field(logger, top, "callGraph", &cg)
	field(logger, cg, "nodes", &d.CallGraph.Nodes)
	field(logger, cg, "edges", &d.CallGraph.Edges)

	d.normalize()
	return d, nil
}

// field decodes obj[name] into dst, leaving dst untouched when the field is
// missing or malformed.
func field[T any](logger *log.Logger, obj map[string]json.RawMessage, name string, dst *T) {
	raw, ok := obj[name]
	if !ok {
		logger.Debug("code data field missing", "field", name)
		return
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Debug("code data field malformed, treating as empty", "field", name, "err", err)
		return
	}
	*dst = v
}

func (d *CodeData) normalize() {
	d.Classes = nonNil(d.Classes)
	d.Methods = nonNil(d.Methods)
	d.ImpactAnalysis = nonNil(d.ImpactAnalysis)
	d.UnusedCode.Classes = nonNil(d.UnusedCode.Classes)
	d.UnusedCode.Methods = nonNil(d.UnusedCode.Methods)
	d.CallGraph.Nodes = nonNil(d.CallGraph.Nodes)
	d.CallGraph.Edges = nonNil(d.CallGraph.Edges)
	for i := range d.Classes {
		d.Classes[i].DependsOn = nonNil(d.Classes[i].DependsOn)
	}
	for i := range d.ImpactAnalysis {
		r := &d.ImpactAnalysis[i].ImpactRadius
		r.DirectlyAffected = nonNil(r.DirectlyAffected)
		r.IndirectlyAffected = nonNil(r.IndirectlyAffected)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
