package solver

import "testing"

func TestGaleRyser(t *testing.T) {
	tests := []struct {
		name string
		rows []int
		cols []int
		want bool
	}{
		{"empty", nil, nil, true},
		{"square ones", []int{1, 1, 1}, []int{1, 1, 1}, true},
		{"full", []int{2, 2}, []int{2, 2}, true},
		{"sum mismatch", []int{2, 1}, []int{1, 1}, false},
		{"row exceeds columns", []int{3}, []int{1, 1}, false},
		{"column shared by all rows", []int{1, 1}, []int{2, 0, 0}, true},
		{"column needs more rows than exist", []int{2}, []int{2, 0}, false},
		{"dominance violated", []int{2, 2, 0}, []int{3, 1, 0}, false},
		{"week", []int{5, 5, 3, 3, 3, 3, 3}, []int{3, 3, 3, 3, 3, 5, 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GaleRyser(tt.rows, tt.cols); got != tt.want {
				t.Errorf("GaleRyser(%v, %v) = %v, want %v", tt.rows, tt.cols, got, tt.want)
			}
		})
	}
}

func TestRealizeMatchesSums(t *testing.T) {
	rows := []int{5, 5, 3, 3, 3, 3, 3}
	cols := []int{3, 3, 3, 3, 3, 5, 5}

	assign, ok := Realize(rows, cols)
	if !ok {
		t.Fatal("Realize() failed on a realizable sequence")
	}

	colSums := make([]int, len(cols))
	for i, row := range assign {
		count := 0
		for j, on := range row {
			if on {
				count++
				colSums[j]++
			}
		}
		if count != rows[i] {
			t.Errorf("row %d has %d ones, want %d", i, count, rows[i])
		}
	}
	for j, sum := range colSums {
		if sum != cols[j] {
			t.Errorf("column %d has %d ones, want %d", j, sum, cols[j])
		}
	}
}

func TestRealizeRejectsUnrealizable(t *testing.T) {
	if _, ok := Realize([]int{2, 2, 0}, []int{3, 1, 0}); ok {
		t.Error("Realize() succeeded on an unrealizable sequence")
	}
}
