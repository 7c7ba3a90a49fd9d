// Package partition splits an image's rows among workers.
package partition

import "go-gray/pkg/common"

// Rows splits [0, height) into contiguous ranges for n workers.
//
// Every worker but the last gets height/n rows; the last one takes the
// remainder, so it carries the extra load when height is not divisible by n.
// When n exceeds height the worker count is clamped to height so that no
// range is empty. n < 1 is treated as 1 and height <= 0 yields no ranges.
func Rows(height, n int) []common.RowRange {
	if height <= 0 {
		return nil
	}
	n = Workers(height, n)

	base := height / n
	ranges := make([]common.RowRange, n)
	for i := 0; i < n; i++ {
		start := i * base
		end := start + base
		if i == n-1 {
			end = height
		}
		ranges[i] = common.RowRange{Start: start, End: end}
	}
	return ranges
}

// Workers returns the effective worker count Rows uses for the given height.
func Workers(height, n int) int {
	if n < 1 {
		n = 1
	}
	if height > 0 && n > height {
		n = height
	}
	return n
}
