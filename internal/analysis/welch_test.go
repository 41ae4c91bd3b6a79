package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i94cli/internal/errors"
)

func linearSample(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestWelchIdenticalSamples(t *testing.T) {
	a := linearSample(100, 1, 40)
	b := append([]float64(nil), a...)

	res, err := WelchTTest(a, b, 30)
	require.NoError(t, err)

	assert.InDelta(t, 0, res.Statistic, 1e-12)
	assert.InDelta(t, 1, res.PValue, 1e-12)
	assert.InDelta(t, 0, res.EffectSize, 1e-12)
	assert.LessOrEqual(t, res.CILow, 0.0)
	assert.GreaterOrEqual(t, res.CIHigh, 0.0)
}

func TestWelchSeparatedSamples(t *testing.T) {
	a := linearSample(100, 0.5, 50)
	b := linearSample(200, 0.5, 50)

	res, err := WelchTTest(a, b, 30)
	require.NoError(t, err)

	assert.Negative(t, res.Statistic)
	assert.Less(t, res.PValue, 0.001)
	assert.Less(t, res.CIHigh, 0.0, "CI of mean difference must exclude zero")
	assert.InDelta(t, -100, res.MeanA-res.MeanB, 1e-9)
	assert.Less(t, res.EffectSize, -1.0, "large standardized difference")
}

func TestWelchInsufficientSample(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
	}{
		{"sample A too small", linearSample(0, 1, 10), linearSample(0, 1, 40)},
		{"sample B too small", linearSample(0, 1, 40), linearSample(0, 1, 29)},
		{"both too small", linearSample(0, 1, 5), linearSample(0, 1, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := WelchTTest(tt.a, tt.b, 30)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeInsufficientSample))
		})
	}
}

func TestWelchDegreesOfFreedom(t *testing.T) {
	// equal sizes and variances collapse Welch-Satterthwaite to n1+n2-2
	a := linearSample(0, 1, 40)
	b := linearSample(10, 1, 40)

	res, err := WelchTTest(a, b, 30)
	require.NoError(t, err)
	assert.InDelta(t, 78, res.DF, 1e-9)
}

func TestWelchZeroVariance(t *testing.T) {
	flat := make([]float64, 40)
	for i := range flat {
		flat[i] = 42
	}
	shifted := make([]float64, 40)
	for i := range shifted {
		shifted[i] = 50
	}

	same, err := WelchTTest(flat, flat, 30)
	require.NoError(t, err)
	assert.Equal(t, 1.0, same.PValue)
	assert.Equal(t, 0.0, same.Statistic)

	diff, err := WelchTTest(flat, shifted, 30)
	require.NoError(t, err)
	assert.Equal(t, 0.0, diff.PValue)
	assert.True(t, math.IsInf(diff.Statistic, -1))
}
