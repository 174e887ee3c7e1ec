package curves

import (
	"gonum.org/v1/gonum/interp"
)

// Table 分段线性插值表，自变量超出范围时取端点值
func Table(xs, ys []float64) (Curve, error) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return nil, invalid("插值表长度 %d/%d", len(xs), len(ys))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, invalid("插值表自变量必须严格递增: %v", xs)
		}
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, err
	}
	return pl.Predict, nil
}

// TableEfficiency 只随转速变化的效率表
func TableEfficiency(rpms, effs []float64) (Surface, error) {
	for _, e := range effs {
		if e < 0 || e > 1 {
			return nil, invalid("效率 %v 不在 [0, 1]", e)
		}
	}
	c, err := Table(rpms, effs)
	if err != nil {
		return nil, err
	}
	return func(rpm, _ float64) float64 { return c(rpm) }, nil
}
