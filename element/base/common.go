package base

import (
	"fmt"
	"math"
	"powertrain/element"
	"powertrain/types"
)

// check 参数检查，按顺序返回第一个错误
type check struct {
	name string
	err  error
}

func (c *check) positive(key string, v float64) {
	if c.err == nil && !(v > 0) {
		c.err = fmt.Errorf("%w: %s %s = %v 必须大于 0", types.ErrInvalidParameter, c.name, key, v)
	}
}

func (c *check) nonNegative(key string, v float64) {
	if c.err == nil && !(v >= 0) {
		c.err = fmt.Errorf("%w: %s %s = %v 不能小于 0", types.ErrInvalidParameter, c.name, key, v)
	}
}

func (c *check) fraction(key string, v float64) {
	if c.err == nil && !(v > 0 && v <= 1) {
		c.err = fmt.Errorf("%w: %s %s = %v 不在 (0, 1]", types.ErrInvalidParameter, c.name, key, v)
	}
}

func (c *check) less(key1 string, v1 float64, key2 string, v2 float64) {
	if c.err == nil && !(v1 < v2) {
		c.err = fmt.Errorf("%w: %s %s = %v 必须小于 %s = %v", types.ErrInvalidParameter, c.name, key1, v1, key2, v2)
	}
}

func invalidf(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{types.ErrInvalidParameter}, a...)...)
}

// supplyTorque 输入功率上限对应的最大转矩
// 求解 (dt/J)·T² + (ω0 - TL·dt/J)·T - P·η = 0 的正根
func supplyTorque(w0, load, dt, inertia, maxInput, eff float64) float64 {
	if maxInput <= 0 || eff <= 0 {
		return 0
	}
	a := dt / inertia
	b := w0 - a*load
	c := maxInput * eff
	return (-b + math.Sqrt(b*b+4*a*c)) / (2 * a)
}

// rotate 转矩积分一个步长，返回转速(rad/s)和修正后的转矩
// 超过最高转速时转速保持在上限，转矩按上限反算
func rotate(w0, torque, load, friction, dt, inertia, minRpm, maxRpm float64) (float64, float64) {
	w1 := w0 + (torque-load-friction*w0)*dt/inertia
	if wmax := maxRpm * types.RPMToAngVel; w1 > wmax {
		w1 = wmax
		torque = load + friction*w0 + inertia*(wmax-w0)/dt
	}
	if wmin := minRpm * types.RPMToAngVel; w1 < wmin {
		w1 = wmin
	}
	return w1, torque
}

// inputPower 由输出功率计算输入功率，回收时为负
func inputPower(s element.Snapshot, c element.Consumption, pout float64) (float64, error) {
	if pout < 0 {
		er, err := c.ReverseEfficiency(s)
		return pout * er, err
	}
	if pout == 0 {
		return 0, nil
	}
	ef, err := c.ForwardEfficiency(s)
	if err != nil {
		return 0, err
	}
	if ef == 0 {
		return 0, fmt.Errorf("%w: 输出功率 %v 时效率为 0", types.ErrEfficiency, pout)
	}
	return pout / ef, nil
}

// scaleTorque 控制信号对应的转矩，负控制按下限缩放
func scaleTorque(control float64, l element.Limits, s element.Snapshot) float64 {
	if control >= 0 {
		return control * l.Max(element.QuantityTorque, s)
	}
	return -control * l.Min(element.QuantityTorque, s)
}

// curveLimit 曲线给出的对称转矩限制
func curveLimit(peak float64, curve func(float64) float64) element.Limit {
	return element.Limit{
		Absolute: element.AbsoluteLimit{Min: -peak, Max: peak},
		Relative: element.RelativeLimit{
			Max: func(s element.Snapshot) float64 { return curve(s.State.Output.Rpm) },
			Min: func(s element.Snapshot) float64 { return -curve(s.State.Output.Rpm) },
		},
	}
}
