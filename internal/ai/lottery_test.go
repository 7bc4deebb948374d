package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLottery(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		roll    float64
		want    int
	}{
		{"second entry once the first is used up", []float64{3, 7}, 5, 1},
		{"first entry on a low roll", []float64{3, 7}, 1, 0},
		{"zero roll", []float64{3, 7}, 0, 0},
		{"boundary belongs to the next entry", []float64{3, 7}, 3, 1},
		{"non-positive weights never win", []float64{0, -2, 4}, 1, 2},
		{"roll past the total", []float64{3, 7, -1}, 10, 1},
		{"nothing to pick", []float64{0, -5}, 0, -1},
		{"empty", nil, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lottery(tt.weights, tt.roll))
		})
	}
}

func TestLotteryFollowsListOrder(t *testing.T) {
	weights := []float64{2, 2, 2}
	counts := make([]int, len(weights))
	for roll := 0.0; roll < 6; roll += 0.5 {
		counts[Lottery(weights, roll)]++
	}
	assert.Equal(t, []int{4, 4, 4}, counts)
}

func TestTotalWeightIgnoresNegatives(t *testing.T) {
	assert.Equal(t, 10.0, totalWeight([]float64{3, -4, 7, 0}))
}
