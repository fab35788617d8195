// Package ordering arranges the nodes within each row of a layered graph to
// reduce edge crossings.
//
// # The Ordering Problem
//
// Once nodes are ranked and long edges are split by the transform package,
// every edge joins two adjacent rows. The order of nodes inside each row
// decides how many of those edges cross. Minimizing crossings is NP-hard;
// this package provides the barycenter heuristic, which is fast enough to
// run on every projection.
//
// # Usage
//
//	var orderer ordering.Orderer = ordering.Barycentric{Passes: 8}
//	orders := orderer.OrderRows(g) // map[row][]nodeID
//
// A reordering is only kept when it lowers [dag.CountCrossings], so the
// result is never worse than the insertion order of the graph.
package ordering
