package base

import (
	"math"
	"powertrain/element"
	"powertrain/element/curves"
	"powertrain/types"
)

func engineConfig(name string, fuel types.Medium, eff, minEff float64) *element.Config {
	return &element.Config{
		Name:   name,
		Input:  types.InputPortOf(fuel),
		Output: types.OutputPortOf(types.MediumMechanical),
		ValueInit: []float64{
			float64(150),   // 0: 质量(kg)
			float64(0.2),   // 1: 转动惯量(kg·m²)
			float64(100e3), // 2: 最大功率(W)
			float64(800),   // 3: 怠速(rpm)
			float64(4500),  // 4: 最大功率转速(rpm)
			float64(6500),  // 5: 最高转速(rpm)
			eff,            // 6: 最高效率
			minEff,         // 7: 最低效率
			float64(0.01),  // 8: 阻尼系数(N·m·s/rad)
		},
		ValueName: []string{"mass", "inertia", "max_power", "idle_rpm", "peak_rpm", "max_rpm",
			"efficiency", "min_efficiency", "kf"},
	}
}

// 内燃机类型
var (
	GasolineEngineType  = element.AddElement(10, &Engine{engineConfig("gasoline_engine", types.MediumGasoline, types.GasolineEngineEfficiencyDefault, 0.10)})
	DieselEngineType    = element.AddElement(11, &Engine{engineConfig("diesel_engine", types.MediumDiesel, types.DieselEngineEfficiencyDefault, 0.15)})
	EthanolEngineType   = element.AddElement(12, &Engine{engineConfig("ethanol_engine", types.MediumEthanol, types.EthanolEngineEfficiencyDefault, 0.10)})
	MethanolEngineType  = element.AddElement(13, &Engine{engineConfig("methanol_engine", types.MediumMethanol, types.MethanolEngineEfficiencyDefault, 0.10)})
	BiodieselEngineType = element.AddElement(14, &Engine{engineConfig("biodiesel_engine", types.MediumBiodiesel, types.BiodieselEngineEfficiencyDefault, 0.15)})
	HydrogenEngineType  = element.AddElement(15, &Engine{engineConfig("hydrogen_engine", types.MediumHydrogen, types.HydrogenEngineEfficiencyDefault, 0.10)})
	MethaneEngineType   = element.AddElement(16, &Engine{engineConfig("methane_engine", types.MediumMethane, types.MethaneEngineEfficiencyDefault, 0.10)})
)

// Engine 内燃机，液态燃料按升计量，气态燃料按千克计量
type Engine struct{ *element.Config }

func (e Engine) Build(node *element.Node) (element.NodeFace, error) {
	v := check{name: e.Name}
	v.nonNegative("mass", node.GetFloat64(0))
	v.positive("inertia", node.GetFloat64(1))
	v.positive("max_power", node.GetFloat64(2))
	v.positive("idle_rpm", node.GetFloat64(3))
	v.less("idle_rpm", node.GetFloat64(3), "peak_rpm", node.GetFloat64(4))
	v.less("peak_rpm", node.GetFloat64(4), "max_rpm", node.GetFloat64(5))
	v.fraction("efficiency", node.GetFloat64(6))
	v.fraction("min_efficiency", node.GetFloat64(7))
	v.less("min_efficiency", node.GetFloat64(7), "efficiency", node.GetFloat64(6))
	v.nonNegative("kf", node.GetFloat64(8))
	if v.err != nil {
		return nil, v.err
	}
	fuel, err := types.FuelOf(e.Input.Medium)
	if err != nil {
		return nil, err
	}
	maxPower := node.GetFloat64(2)
	idle, peakRpm, maxRpm := node.GetFloat64(3), node.GetFloat64(4), node.GetFloat64(5)
	power, err := curves.ICEPower(
		curves.OperatingPoint{Rpm: idle, Power: 0.2 * maxPower},
		curves.OperatingPoint{Rpm: peakRpm, Power: maxPower},
		curves.OperatingPoint{Rpm: maxRpm + types.Epsilon, Power: 0.8 * maxPower},
	)
	if err != nil {
		return nil, err
	}
	torque := curves.TorqueFromPower(power, idle)
	// 最高效率点在最大功率转速、六成功率处
	eff, err := curves.GaussianEfficiency(node.GetFloat64(6),
		curves.OperatingPoint{Rpm: peakRpm, Power: 0.6 * maxPower},
		node.GetFloat64(7), 1/math.Pow(maxRpm-idle, 2), 1/math.Pow(maxPower, 2), idle-types.Epsilon, maxRpm+types.Epsilon)
	if err != nil {
		return nil, err
	}
	node.NodeMass = node.GetFloat64(0)
	peakTorque := math.Max(torque(idle), torque(peakRpm)) * 2
	return &element.Converter{
		Node:        node,
		Inertia:     node.GetFloat64(1),
		Consumption: element.FuelConsumption(eff.Efficiency(), fuel),
		Limits: element.Limits{
			element.QuantityTorque: element.Limit{
				Absolute: element.AbsoluteLimit{Min: 0, Max: peakTorque},
				Relative: element.RelativeLimit{Max: func(s element.Snapshot) float64 {
					return torque(s.State.Output.Rpm)
				}},
			},
			element.QuantityPower: element.Range(0, maxPower),
			element.QuantityRpm:   element.Range(idle, maxRpm),
		},
		Response: &iceResponse{idle: idle, maxRpm: maxRpm, kf: node.GetFloat64(8)},
	}, nil
}

// Reset 发动机以怠速启动
func (e Engine) Reset(value element.NodeFace) {
	e.Config.Reset(value)
	snap := value.Snapshot()
	snap.State.Output.Rpm = value.GetFloat64(3)
	snap.State.Internal.On = true
	value.SetSnapshot(snap)
}

// iceResponse 内燃机动态响应
type iceResponse struct {
	idle, maxRpm float64
	kf           float64
}

func (*iceResponse) Reversible() bool { return false }

func (r *iceResponse) Forward(s element.Snapshot, in element.ForwardInput, c element.Consumption, l element.Limits) (element.Snapshot, error) {
	inertia := in.TotalInertia()
	rpm0 := math.Max(s.State.Output.Rpm, r.idle)
	s.State.Output.Rpm = rpm0
	w0 := rpm0 * types.RPMToAngVel
	torque := l.Clamp(element.QuantityTorque, s, in.Control*l.Max(element.QuantityTorque, s))
	torque = math.Min(torque, supplyTorque(w0, in.LoadTorque+r.kf*w0, in.Dt, inertia, l.Max(element.QuantityPower, s), 1))
	// 燃料不足
	if in.Limited && torque > 0 {
		ef, err := c.ForwardEfficiency(s)
		if err != nil {
			return s, err
		}
		torque = math.Min(torque, supplyTorque(w0, in.LoadTorque+r.kf*w0, in.Dt, inertia, in.MaxInput, ef))
	}
	w1, torque := rotate(w0, torque, in.LoadTorque, r.kf, in.Dt, inertia, r.idle, r.maxRpm)
	out := s
	out.IO.Output.Torque = math.Max(torque, 0)
	out.State.Output.Rpm = w1 * types.AngVelToRPM
	out.State.Internal.On = true
	flow, err := c.FuelConsumption(out)
	if err != nil {
		return s, err
	}
	out.IO.Input.Flow = flow
	return out, nil
}
