// Package browse builds the sortable, filterable class and method tables
// and the per-entity detail views.
//
// Rows join each entity with its impact total. Filtering is an unused-only
// toggle plus a case-insensitive search; sorting is stable, so equal keys
// keep dataset order.
//
//	rows := browse.Classes(ds, browse.ClassQuery{Search: "order"})
//	order := browse.DefaultClassOrder.Toggle(browse.SortName) // name asc
package browse
