package domain

import "slices"

// SortRows stably orders rows by the named columns, ascending. Keys that are
// not among cols are ignored.
func SortRows(cols []Column, rows []Row, keys []string) {
	idx := make([]int, 0, len(keys))
	for _, k := range keys {
		for i, c := range cols {
			if c.Name == k {
				idx = append(idx, i)
				break
			}
		}
	}
	if len(idx) == 0 {
		return
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		for _, i := range idx {
			if c := a[i].Compare(b[i]); c != 0 {
				return c
			}
		}
		return 0
	})
}
