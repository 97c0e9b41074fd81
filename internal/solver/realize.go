package solver

import "sort"

// GaleRyser reports whether a 0/1 matrix with the given row and column sums exists.
func GaleRyser(rowSums, colSums []int) bool {
	total := 0
	for _, r := range rowSums {
		if r < 0 || r > len(colSums) {
			return false
		}
		total += r
	}
	for _, c := range colSums {
		if c < 0 || c > len(rowSums) {
			return false
		}
		total -= c
	}
	if total != 0 {
		return false
	}

	sorted := append([]int(nil), rowSums...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	prefix := 0
	for k := 1; k <= len(sorted); k++ {
		prefix += sorted[k-1]
		capacity := 0
		for _, c := range colSums {
			capacity += min(c, k)
		}
		if prefix > capacity {
			return false
		}
	}
	return true
}

// Realize builds a 0/1 matrix with the given row and column sums.
// Each column takes the rows with the most remaining demand; this greedy succeeds whenever
// GaleRyser holds.
func Realize(rowSums, colSums []int) ([][]bool, bool) {
	if !GaleRyser(rowSums, colSums) {
		return nil, false
	}
	remaining := append([]int(nil), rowSums...)
	assign := make([][]bool, len(rowSums))
	for i := range assign {
		assign[i] = make([]bool, len(colSums))
	}

	cols := make([]int, len(colSums))
	for j := range cols {
		cols[j] = j
	}
	sort.SliceStable(cols, func(a, b int) bool { return colSums[cols[a]] > colSums[cols[b]] })

	rows := make([]int, len(rowSums))
	for _, j := range cols {
		for i := range rows {
			rows[i] = i
		}
		sort.SliceStable(rows, func(a, b int) bool { return remaining[rows[a]] > remaining[rows[b]] })
		for _, i := range rows[:colSums[j]] {
			if remaining[i] == 0 {
				return nil, false
			}
			assign[i][j] = true
			remaining[i]--
		}
	}
	for _, r := range remaining {
		if r != 0 {
			return nil, false
		}
	}
	return assign, true
}
