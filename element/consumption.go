package element

import (
	"fmt"
	"math"
	"powertrain/types"
)

// EfficiencyFunc 效率函数，取值[0,1]
type EfficiencyFunc func(s Snapshot) float64

// FlowFunc 燃料流量函数，液态L/s，气态kg/s
type FlowFunc func(s Snapshot) float64

// Constant 恒定效率
func Constant(e float64) EfficiencyFunc {
	return func(Snapshot) float64 { return e }
}

// Consumption 能量消耗模型
type Consumption struct {
	Forward EfficiencyFunc // 驱动效率
	Reverse EfficiencyFunc // 回收效率
	Fuel    FlowFunc       // 燃料流量，nil 表示耗电
}

// EnergyConsumption 电能消耗
func EnergyConsumption(forward, reverse EfficiencyFunc) Consumption {
	return Consumption{Forward: forward, Reverse: reverse}
}

// FuelConsumption 燃料消耗，流量 = 输出功率 / (效率 × 热值)
func FuelConsumption(eff EfficiencyFunc, fuel types.Fuel) Consumption {
	return Consumption{
		Forward: eff,
		Fuel: func(s Snapshot) float64 {
			e, p := eff(s), s.PowerOut()
			if e <= 0 || p <= 0 {
				return 0
			}
			return fuel.Amount(p / e)
		},
	}
}

func checkEfficiency(e float64) (float64, error) {
	if math.IsNaN(e) || e < 0 || e > 1 {
		return 0, fmt.Errorf("%w: 效率 %v 不在 [0, 1]", types.ErrEfficiency, e)
	}
	return e, nil
}

// ForwardEfficiency 驱动效率
func (c Consumption) ForwardEfficiency(s Snapshot) (float64, error) {
	if c.Forward == nil {
		return 1, nil
	}
	return checkEfficiency(c.Forward(s))
}

// ReverseEfficiency 回收效率
func (c Consumption) ReverseEfficiency(s Snapshot) (float64, error) {
	if c.Reverse == nil {
		return 1, nil
	}
	return checkEfficiency(c.Reverse(s))
}

// FuelConsumption 燃料流量
func (c Consumption) FuelConsumption(s Snapshot) (float64, error) {
	if c.Fuel == nil {
		return 0, nil
	}
	flow := c.Fuel(s)
	if math.IsNaN(flow) || flow < 0 {
		return 0, fmt.Errorf("%w: 燃料流量 %v 小于 0", types.ErrOutOfLimits, flow)
	}
	return flow, nil
}

// IsFuel 是否消耗燃料
func (c Consumption) IsFuel() bool { return c.Fuel != nil }

// Draw 一个步长内消耗的能量(J)或燃料(L/kg)，回收时为负
func (c Consumption) Draw(s Snapshot, dt float64) (float64, error) {
	if c.IsFuel() {
		flow, err := c.FuelConsumption(s)
		return flow * dt, err
	}
	p := s.PowerOut()
	if s.Recovering {
		er, err := c.ReverseEfficiency(s)
		if err != nil {
			return 0, err
		}
		return -math.Abs(p) * dt * er, nil
	}
	if p <= 0 {
		return 0, nil
	}
	ef, err := c.ForwardEfficiency(s)
	if err != nil {
		return 0, err
	}
	if ef == 0 {
		return 0, fmt.Errorf("%w: 输出功率 %v 时效率为 0", types.ErrEfficiency, p)
	}
	return p * dt / ef, nil
}
