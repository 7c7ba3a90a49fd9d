package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gray/pkg/common"
)

func TestRowsEvenSplit(t *testing.T) {
	got := Rows(100, 4)
	want := []common.RowRange{{Start: 0, End: 25}, {Start: 25, End: 50}, {Start: 50, End: 75}, {Start: 75, End: 100}}
	assert.Equal(t, want, got)
}

func TestRowsRemainderGoesToLastWorker(t *testing.T) {
	got := Rows(10, 4)
	want := []common.RowRange{{Start: 0, End: 2}, {Start: 2, End: 4}, {Start: 4, End: 6}, {Start: 6, End: 10}}
	assert.Equal(t, want, got)
	assert.GreaterOrEqual(t, got[3].Len(), got[0].Len())
}

func TestRowsClampsWorkersToHeight(t *testing.T) {
	got := Rows(3, 8)
	require.Len(t, got, 3)
	for _, r := range got {
		assert.Equal(t, 1, r.Len())
	}
	assert.Equal(t, 3, Workers(3, 8))
}

func TestRowsDegenerateInputs(t *testing.T) {
	assert.Empty(t, Rows(0, 4))
	assert.Empty(t, Rows(-5, 4))
	assert.Equal(t, []common.RowRange{{Start: 0, End: 7}}, Rows(7, 0))
	assert.Equal(t, []common.RowRange{{Start: 0, End: 7}}, Rows(7, -3))
}

func TestRowsCompleteness(t *testing.T) {
	for h := 1; h <= 64; h++ {
		for n := 1; n <= 70; n++ {
			ranges := Rows(h, n)
			require.NotEmpty(t, ranges)

			next := 0
			for i, r := range ranges {
				require.Equalf(t, next, r.Start, "h=%d n=%d range %d starts with a gap or overlap", h, n, i)
				require.Lessf(t, r.Start, r.End, "h=%d n=%d range %d is empty", h, n, i)
				next = r.End
			}
			require.Equalf(t, h, next, "h=%d n=%d ranges do not cover every row", h, n)
		}
	}
}
