package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleIndicesFixedPositions(t *testing.T) {
	tests := []struct {
		total, quota int
		want         []int
	}{
		{10, 1, []int{0}},
		{10, 2, []int{0, 9}},
		{10, 3, []int{0, 5, 9}},
		{4, 3, []int{0, 2, 3}},
		{5, 4, []int{0, 1, 3, 4}},
		{9, 5, []int{0, 2, 4, 6, 8}},
		{2, 3, []int{0, 1}},
		{1, 2, []int{0}},
		{3, 3, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SampleIndices(tt.total, tt.quota), "total=%d quota=%d", tt.total, tt.quota)
	}
}

func TestSampleIndicesEmpty(t *testing.T) {
	assert.Nil(t, SampleIndices(0, 3))
	assert.Nil(t, SampleIndices(5, 0))
	assert.Nil(t, SampleIndices(-1, 2))
}

func TestSampleIndicesHeadAndTail(t *testing.T) {
	for quota := 1; quota <= 3; quota++ {
		for total := quota; total <= 60; total++ {
			got := SampleIndices(total, quota)
			require.Len(t, got, quota)
			assert.Equal(t, 0, got[0], "total=%d quota=%d", total, quota)
			if quota >= 2 {
				assert.Equal(t, total-1, got[len(got)-1], "total=%d quota=%d", total, quota)
			}
		}
	}
}

func TestSampleIndicesShortDocumentTakesAll(t *testing.T) {
	for quota := 1; quota <= 8; quota++ {
		for total := 1; total < quota; total++ {
			got := SampleIndices(total, quota)
			want := make([]int, total)
			for i := range want {
				want[i] = i
			}
			assert.Equal(t, want, got, "total=%d quota=%d", total, quota)
		}
	}
}

func TestSampleIndicesDistinctAscendingInRange(t *testing.T) {
	for quota := 1; quota <= 12; quota++ {
		for total := 1; total <= 80; total++ {
			got := SampleIndices(total, quota)
			assert.Len(t, got, min(total, quota))
			for i, idx := range got {
				assert.GreaterOrEqual(t, idx, 0)
				assert.Less(t, idx, total)
				if i > 0 {
					assert.Greater(t, idx, got[i-1], "total=%d quota=%d", total, quota)
				}
			}
		}
	}
}

func TestSampleIndicesDeterministic(t *testing.T) {
	first := SampleIndices(37, 6)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, SampleIndices(37, 6))
	}
}
