package util

import (
	"sort"

	"golang.org/x/exp/constraints"
)

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}

func Filter[A any](items []A, keep func(A) bool) []A {
	var res []A
	for _, v := range items {
		if keep(v) {
			res = append(res, v)
		}
	}
	return res
}

// Columns turns rows into columns. The result has as many columns as the
// shortest row; callers that care about ragged input check lengths first.
func Columns[A any](rows [][]A) [][]A {
	if len(rows) == 0 {
		return nil
	}
	width := len(rows[0])
	for _, row := range rows[1:] {
		width = Min(width, len(row))
	}

	res := make([][]A, width)
	for c := range res {
		col := make([]A, len(rows))
		for r, row := range rows {
			col[r] = row[c]
		}
		res[c] = col
	}
	return res
}
