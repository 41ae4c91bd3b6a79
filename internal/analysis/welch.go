package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"i94cli/internal/errors"
)

// TTestResult holds the outcome of a two-sample Welch test. The effect
// size (Cohen's d) is reported alongside the p-value because at this
// dataset's sample sizes a tiny difference is already "significant".
type TTestResult struct {
	MeanA      float64 `json:"mean_a"`
	MeanB      float64 `json:"mean_b"`
	NA         int     `json:"n_a"`
	NB         int     `json:"n_b"`
	Statistic  float64 `json:"statistic"`
	DF         float64 `json:"df"`
	PValue     float64 `json:"p_value"`
	CILow      float64 `json:"ci_low"` // 95% CI of mean(a)-mean(b)
	CIHigh     float64 `json:"ci_high"`
	EffectSize float64 `json:"effect_size"` // Cohen's d
}

// WelchTTest runs the unequal-variance two-sample location test between
// a and b (two-sided). Samples below minSample yield an
// INSUFFICIENT_SAMPLE error; the caller reports and skips, the run
// continues.
//
// Precondition (enforced by the calling pipeline, not here): both
// samples were drawn through the same Selection, so the month-range and
// category predicates behind them are identical to the ones used to
// justify the comparison.
func WelchTTest(a, b []float64, minSample int) (TTestResult, error) {
	if len(a) < minSample {
		return TTestResult{}, errors.NewInsufficientSampleError(
			"sample A below minimum size for Welch's t-test", len(a), minSample)
	}
	if len(b) < minSample {
		return TTestResult{}, errors.NewInsufficientSampleError(
			"sample B below minimum size for Welch's t-test", len(b), minSample)
	}

	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)
	na, nb := float64(len(a)), float64(len(b))

	res := TTestResult{
		MeanA: meanA, MeanB: meanB,
		NA: len(a), NB: len(b),
		EffectSize: cohensD(meanA, meanB, varA, varB, na, nb),
	}

	diff := meanA - meanB
	se := math.Sqrt(varA/na + varB/nb)

	if se == 0 {
		// Degenerate zero-variance samples: identical means are a
		// perfect non-result, different means an exact separation.
		res.DF = na + nb - 2
		if diff == 0 {
			res.Statistic = 0
			res.PValue = 1
		} else {
			res.Statistic = math.Inf(sign(diff))
			res.PValue = 0
			res.CILow, res.CIHigh = diff, diff
		}
		return res, nil
	}

	res.Statistic = diff / se
	res.DF = welchSatterthwaite(varA, varB, na, nb)

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: res.DF}
	res.PValue = 2 * dist.CDF(-math.Abs(res.Statistic))

	tCrit := dist.Quantile(0.975)
	res.CILow = diff - tCrit*se
	res.CIHigh = diff + tCrit*se

	return res, nil
}

// welchSatterthwaite approximates the degrees of freedom for unequal
// variances.
func welchSatterthwaite(varA, varB, na, nb float64) float64 {
	sa := varA / na
	sb := varB / nb
	num := (sa + sb) * (sa + sb)
	den := sa*sa/(na-1) + sb*sb/(nb-1)
	if den == 0 {
		return na + nb - 2
	}
	return num / den
}

// cohensD is the standardized mean difference with pooled variance
func cohensD(meanA, meanB, varA, varB, na, nb float64) float64 {
	pooled := ((na-1)*varA + (nb-1)*varB) / (na + nb - 2)
	if pooled == 0 {
		return 0
	}
	return (meanA - meanB) / math.Sqrt(pooled)
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
