package bot

import "sort"

// centerOrder lists columns nearest the middle first. Columns at the same
// distance keep ascending order, which is also the tie-break between
// equally scored moves.
func centerOrder(columns int) []int {
	order := make([]int, columns)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return centerDistance(order[a], columns) < centerDistance(order[b], columns)
	})
	return order
}

// centerDistance is twice the distance to the board's middle, so even
// widths stay in integers.
func centerDistance(col, columns int) int {
	d := 2*col - (columns - 1)
	if d < 0 {
		return -d
	}
	return d
}

// preferredColumn reports whether a beats b under the tie-break: nearer
// the middle first, then the lower index.
func preferredColumn(a, b, columns int) bool {
	da, db := centerDistance(a, columns), centerDistance(b, columns)
	if da != db {
		return da < db
	}
	return a < b
}
