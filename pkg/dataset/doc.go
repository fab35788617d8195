// Package dataset loads the precomputed code-analysis document that
// codescope visualizes.
//
// # Document
//
// The document (code-data.json) holds classes, methods, an unused-code
// report, an impact analysis and a call graph. codescope never computes any
// of it. [Decode] is tolerant: a missing or malformed top-level field
// becomes an empty collection instead of failing the load.
//
// # Sources
//
//   - [FileSource]: a local file
//   - [HTTPSource]: one GET request; non-2xx is a failure
//   - [MongoSource]: the latest document of a MongoDB collection
//
// [Load] fetches exactly once. There is no retry; a failure is reported as
// an errors.ErrCodeFetchFailed error and the caller decides what to show.
//
// # Derived Graphs
//
// The class view's graph is built from each class's dependsOn list
// ([Dataset.ClassGraph]), never from the call graph. The method view uses
// the call graph as delivered ([Dataset.MethodGraph]).
package dataset
