package element

import (
	"fmt"
	"math"
	"powertrain/types"
)

// Converter 能量转换元件
type Converter struct {
	*Node
	Inertia     float64         // 转动惯量(kg·m²)
	Consumption Consumption     // 能量消耗
	Limits      Limits          // 限制
	Response    DynamicResponse // 动态响应
}

// Reversible 是否支持能量回收
func (c *Converter) Reversible() bool { return c.Response.Reversible() }

// DemandDriven 是否按下游需求工作
func (c *Converter) DemandDriven() bool { return c.ConfigPtr.DemandDriven }

// ControlRange 控制信号范围
func (c *Converter) ControlRange() (float64, float64) {
	if c.Reversible() {
		return -1, 1
	}
	return 0, 1
}

// Forward 正向传递，返回新快照，不修改元件状态
func (c *Converter) Forward(in ForwardInput) (Snapshot, error) {
	if !(in.Dt > 0) || math.IsInf(in.Dt, 0) {
		return c.Snap, fmt.Errorf("%w: 步长 %v 必须大于 0", types.ErrTimeStep, in.Dt)
	}
	lo, hi := c.ControlRange()
	if math.IsNaN(in.Control) || in.Control < lo || in.Control > hi {
		return c.Snap, fmt.Errorf("%w: 控制信号 %v 不在 [%v, %v]", types.ErrControlSignal, in.Control, lo, hi)
	}
	if in.DownstreamInertia < 0 {
		return c.Snap, fmt.Errorf("%w: 下游转动惯量 %v 小于 0", types.ErrInvalidParameter, in.DownstreamInertia)
	}
	in.Inertia = c.Inertia
	snap, err := c.Response.Forward(c.Snap, in, c.Consumption, c.Limits)
	if err != nil {
		return c.Snap, err
	}
	if err := c.check(snap); err != nil {
		return c.Snap, err
	}
	return snap, nil
}

// Reverse 能量回收，由输出端回流计算输入端
func (c *Converter) Reverse(s Snapshot) (Snapshot, error) {
	r, ok := c.Response.(ReverseResponse)
	if !ok || !r.Reversible() {
		return s, fmt.Errorf("%w: %s", types.ErrNotReversible, c.ID)
	}
	snap, err := r.Reverse(s, c.Consumption, c.Limits)
	if err != nil {
		return s, err
	}
	snap.Recovering = true
	return snap, nil
}

// Draw 快照对应的一个步长内的能量或燃料消耗
func (c *Converter) Draw(s Snapshot, dt float64) (float64, error) {
	return c.Consumption.Draw(s, dt)
}

func (c *Converter) check(s Snapshot) error {
	if err := c.Limits.Check(QuantityTorque, s.IO.Output.Torque); err != nil {
		return err
	}
	if err := c.Limits.Check(QuantityRpm, s.State.Output.Rpm); err != nil {
		return err
	}
	return c.Limits.Check(QuantityPower, s.PowerOut())
}
