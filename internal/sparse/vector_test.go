package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromMap(t *testing.T) {
	v := FromMap(map[int]float64{4: 2, 1: 3, 2: 0})

	assert.Equal(t, []int{1, 4}, v.Indices)
	assert.Equal(t, []float64{3, 2}, v.Values)
	assert.Equal(t, 2, v.Len())
}

func TestVectorArithmetic(t *testing.T) {
	v := FromMap(map[int]float64{0: 3, 2: 4})

	assert.InDelta(t, 5.0, v.Norm(), 1e-12)
	assert.InDelta(t, 3*1+4*10, v.Dot([]float64{1, 100, 10}), 1e-12)

	dst := []float64{1, 1, 1}
	v.AddScaledTo(dst, 2)
	assert.Equal(t, []float64{7, 1, 9}, dst)

	v.Scale(0.5)
	assert.Equal(t, []float64{1.5, 0, 2}, v.Dense(3))
}
