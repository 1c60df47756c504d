package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 2.5, SafeDivide(5, 2))
	assert.Equal(t, 0.0, SafeDivide(5, 0))
	assert.Equal(t, 0.0, SafeDivide(0, 0))
	assert.Equal(t, 0.0, SafeDivide(-3, 0))
	assert.Equal(t, -1.5, SafeDivide(3, -2))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, mean(nil))
	assert.Equal(t, 4.0, mean([]float64{4}))
	assert.Equal(t, 3.0, mean([]float64{1, 3, 5}))
}

func TestStddev(t *testing.T) {
	assert.Equal(t, 0.0, stddev(nil))
	assert.Equal(t, 0.0, stddev([]float64{7}))
	// Sample stddev of {2, 4, 4, 4, 5, 5, 7, 9} is sqrt(32/7).
	assert.InDelta(t, 2.13809, stddev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-4)
	assert.Equal(t, 0.0, stddev([]float64{3, 3, 3}))
}
