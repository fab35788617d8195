// Package pkg holds codescope's libraries.
//
// # Overview
//
// Codescope reads one code-analysis document (classes, methods, a call
// graph, an unused-code report and an impact analysis) and presents it as
// sortable tables and as laid-out dependency graphs. The packages:
//
//  1. [dataset] - document model, decoding and sources (file, HTTP, MongoDB)
//  2. [browse] - class and method tables, detail panels and the summary
//  3. [graphview] - projection, layout, search and highlight of graph views
//  4. [dag] - the layered graph structure behind the layout
//  5. [pipeline] - view, filter and render orchestration with caching
//  6. [render] - DOT and SVG output
//  7. [cache] - file, Redis and null caches for layouts and artifacts
//
// # Data Flow
//
//	file / URL / MongoDB
//	         ↓
//	    [dataset] (load once, index, hash)
//	         ↓
//	    [graphview] (project, lay out, memoize)
//	         ↓
//	    search / highlight
//	         ↓
//	    [render] (JSON, DOT, SVG)
//
// Supporting packages: [errors] for coded errors, [observability] for
// metrics hooks and [buildinfo] for version stamping.
//
// [dataset]: github.com/matzehuels/codescope/pkg/dataset
// [browse]: github.com/matzehuels/codescope/pkg/browse
// [graphview]: github.com/matzehuels/codescope/pkg/graphview
// [dag]: github.com/matzehuels/codescope/pkg/dag
// [pipeline]: github.com/matzehuels/codescope/pkg/pipeline
// [render]: github.com/matzehuels/codescope/pkg/render
// [cache]: github.com/matzehuels/codescope/pkg/cache
// [errors]: github.com/matzehuels/codescope/pkg/errors
// [observability]: github.com/matzehuels/codescope/pkg/observability
// [buildinfo]: github.com/matzehuels/codescope/pkg/buildinfo
package pkg
