package element

import (
	"fmt"
	"math"
	"powertrain/types"
)

// Quantity 受限的物理量
type Quantity uint8

const (
	QuantityTorque  Quantity = iota // 转矩(N·m)
	QuantityPower                   // 功率(W)
	QuantityRpm                     // 转速(rpm)
	QuantityCurrent                 // 电流(A)
	QuantityVoltage                 // 电压(V)
	QuantityFlow                    // 燃料流量
)

func (q Quantity) String() string {
	switch q {
	case QuantityTorque:
		return "torque"
	case QuantityPower:
		return "power"
	case QuantityRpm:
		return "rpm"
	case QuantityCurrent:
		return "current"
	case QuantityVoltage:
		return "voltage"
	case QuantityFlow:
		return "flow"
	}
	return fmt.Sprintf("Quantity(%d)", uint8(q))
}

// AbsoluteLimit 固定上下限
type AbsoluteLimit struct {
	Min float64
	Max float64
}

// Unbounded 无限制
func Unbounded() AbsoluteLimit { return AbsoluteLimit{math.Inf(-1), math.Inf(1)} }

// RelativeLimit 随状态变化的上下限，nil 表示不限
type RelativeLimit struct {
	Min func(Snapshot) float64
	Max func(Snapshot) float64
}

// Limit 组合限制
type Limit struct {
	Absolute AbsoluteLimit
	Relative RelativeLimit
}

// Range 固定范围的限制
func Range(lo, hi float64) Limit { return Limit{Absolute: AbsoluteLimit{lo, hi}} }

// Max 上限 = min(固定, 相对)
func (l Limit) Max(s Snapshot) float64 {
	m := l.Absolute.Max
	if l.Relative.Max != nil {
		m = math.Min(m, l.Relative.Max(s))
	}
	return m
}

// Min 下限 = max(固定, 相对)
func (l Limit) Min(s Snapshot) float64 {
	m := l.Absolute.Min
	if l.Relative.Min != nil {
		m = math.Max(m, l.Relative.Min(s))
	}
	return m
}

// Clamp 限制到范围内
func (l Limit) Clamp(s Snapshot, v float64) float64 {
	return math.Max(l.Min(s), math.Min(l.Max(s), v))
}

// Limits 物理量限制表
type Limits map[Quantity]Limit

// Max 上限，未设置为+Inf
func (ls Limits) Max(q Quantity, s Snapshot) float64 {
	if l, ok := ls[q]; ok {
		return l.Max(s)
	}
	return math.Inf(1)
}

// Min 下限，未设置为-Inf
func (ls Limits) Min(q Quantity, s Snapshot) float64 {
	if l, ok := ls[q]; ok {
		return l.Min(s)
	}
	return math.Inf(-1)
}

// Clamp 限制到范围内
func (ls Limits) Clamp(q Quantity, s Snapshot, v float64) float64 {
	if l, ok := ls[q]; ok {
		return l.Clamp(s, v)
	}
	return v
}

// Check 检查固定限制
func (ls Limits) Check(q Quantity, v float64) error {
	l, ok := ls[q]
	if !ok {
		return nil
	}
	if v > l.Absolute.Max+types.Epsilon {
		return fmt.Errorf("%w: %s = %v 大于上限 %v", types.ErrOutOfLimits, q, v, l.Absolute.Max)
	}
	if v < l.Absolute.Min-types.Epsilon {
		return fmt.Errorf("%w: %s = %v 小于下限 %v", types.ErrOutOfLimits, q, v, l.Absolute.Min)
	}
	return nil
}
