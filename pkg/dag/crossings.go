package dag

import (
	"maps"
	"slices"
)

// CountCrossings sums [CountLayerCrossings] over every pair of adjacent
// rows present in orders. A row missing from orders counts as empty.
func CountCrossings(g *DAG, orders map[int][]string) int {
	total := 0
	for _, r := range slices.Sorted(maps.Keys(orders)) {
		if next, ok := orders[r+1]; ok {
			total += CountLayerCrossings(g, orders[r], next)
		}
	}
	return total
}

// CountLayerCrossings counts crossing edges between an upper row and the
// row below it. Edges u1→v1 and u2→v2 cross when u1 is left of u2 and v1
// is right of v2, so listing lower positions in upper order and counting
// inversions gives the answer in O(E log E).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	pos := PosMap(lower)
	var targets []int
	for _, id := range upper {
		start := len(targets)
		for _, child := range g.Children(id) {
			if p, ok := pos[child]; ok {
				targets = append(targets, p)
			}
		}
		// Edges sharing a source never cross each other.
		slices.Sort(targets[start:])
	}
	return inversions(targets, make([]int, len(targets)))
}

// inversions counts pairs i<j with xs[i] > xs[j], sorting xs as it goes.
func inversions(xs, buf []int) int {
	if len(xs) < 2 {
		return 0
	}
	mid := len(xs) / 2
	n := inversions(xs[:mid], buf[:mid]) + inversions(xs[mid:], buf[mid:])

	merged := buf[:0]
	i, j := 0, mid
	for i < mid && j < len(xs) {
		if xs[j] < xs[i] {
			n += mid - i
			merged = append(merged, xs[j])
			j++
		} else {
			merged = append(merged, xs[i])
			i++
		}
	}
	merged = append(merged, xs[i:mid]...)
	merged = append(merged, xs[j:]...)
	copy(xs, merged)
	return n
}
