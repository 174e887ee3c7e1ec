package element

import (
	"log/slog"
	"powertrain/types"
)

// PortValue 端口上的流量，按介质取对应的量
type PortValue struct {
	Medium  types.Medium // 介质
	Torque  float64      // 转矩(N·m)，机械
	Power   float64      // 功率(W)，电
	Voltage float64      // 电压(V)
	Current float64      // 电流(A)
	Flow    float64      // 燃料流量，液态L/s，气态kg/s
}

// PowerAt 端口功率(W)，机械端口需要转速
func (v PortValue) PowerAt(rpm float64) float64 {
	switch {
	case v.Medium == types.MediumMechanical:
		return v.Torque * rpm * types.RPMToAngVel
	case v.Medium.Is(types.MediumElectric):
		return v.Power
	case v.Medium.Is(types.MediumFuel):
		fuel, err := types.FuelOf(v.Medium)
		if err != nil {
			return 0
		}
		return fuel.Energy(v.Flow)
	}
	return 0
}

// IO 输入输出流量
type IO struct {
	Input  PortValue
	Output PortValue
}

// PortState 端口状态
type PortState struct {
	Rpm float64 // 转速(rpm)
}

// Internal 内部状态
type Internal struct {
	Temperature float64 // 温度(K)
	On          bool    // 开关
	Energy      float64 // 储存能量(J)
	Liters      float64 // 储存燃料(L)
	FuelMass    float64 // 储存燃料(kg)
}

// State 元件状态
type State struct {
	Internal Internal
	Input    PortState
	Output   PortState
}

// Snapshot 元件在某一时刻的流量和状态
type Snapshot struct {
	IO         IO
	State      State
	Recovering bool // 能量回收中
}

// NewSnapshot 零流量快照
func NewSnapshot(in, out *types.Port) Snapshot {
	snap := Snapshot{State: State{Internal: Internal{Temperature: types.DefaultTemperature}}}
	if in != nil {
		snap.IO.Input.Medium = in.Medium
	}
	if out != nil {
		snap.IO.Output.Medium = out.Medium
	}
	return snap
}

// PowerIn 输入功率(W)
func (s Snapshot) PowerIn() float64 { return s.IO.Input.PowerAt(s.State.Input.Rpm) }

// PowerOut 输出功率(W)
func (s Snapshot) PowerOut() float64 { return s.IO.Output.PowerAt(s.State.Output.Rpm) }

// ForwardEfficiency 输出功率/输入功率，没有输入时为0
func (s Snapshot) ForwardEfficiency() float64 {
	in := s.PowerIn()
	if in == 0 {
		return 0
	}
	return s.PowerOut() / in
}

// FuelConsumptionIn 输入燃料流量
func (s Snapshot) FuelConsumptionIn() float64 {
	if s.IO.Input.Medium.Is(types.MediumFuel) {
		return s.IO.Input.Flow
	}
	return 0
}

// LogValue 日志输出
func (s Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("rpm", s.State.Output.Rpm),
		slog.Float64("torque", s.IO.Output.Torque),
		slog.Float64("power_in", s.PowerIn()),
		slog.Float64("power_out", s.PowerOut()),
		slog.Float64("energy", s.State.Internal.Energy),
		slog.Bool("recovering", s.Recovering),
	)
}
