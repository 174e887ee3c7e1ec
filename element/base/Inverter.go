package base

import (
	"math"
	"powertrain/element"
	"powertrain/types"
)

func electricConfig(name string, in, out types.Medium, eff float64) *element.Config {
	return &element.Config{
		Name:   name,
		Input:  types.InputPortOf(in),
		Output: types.OutputPortOf(out),
		ValueInit: []float64{
			float64(10),    // 0: 质量(kg)
			float64(200e3), // 1: 最大功率(W)
			eff,            // 2: 效率
			float64(400),   // 3: 输出电压(V)
		},
		ValueName:    []string{"mass", "max_power", "efficiency", "voltage"},
		DemandDriven: true,
	}
}

// 电力电子元件类型
var (
	InverterType  = element.AddElement(30, &Inverter{electricConfig("inverter", types.MediumElectricDC, types.MediumElectricAC, types.InverterEfficiencyDefault)})
	RectifierType = element.AddElement(31, &Inverter{electricConfig("rectifier", types.MediumElectricAC, types.MediumElectricDC, types.RectifierEfficiencyDefault)})
)

// Inverter 逆变器、整流器，按下游需求转换电能
type Inverter struct{ *element.Config }

func (i Inverter) Build(node *element.Node) (element.NodeFace, error) {
	v := check{name: i.Name}
	v.nonNegative("mass", node.GetFloat64(0))
	v.positive("max_power", node.GetFloat64(1))
	v.fraction("efficiency", node.GetFloat64(2))
	v.positive("voltage", node.GetFloat64(3))
	if v.err != nil {
		return nil, v.err
	}
	node.NodeMass = node.GetFloat64(0)
	return &element.Converter{
		Node:        node,
		Consumption: element.EnergyConsumption(element.Constant(node.GetFloat64(2)), nil),
		Limits: element.Limits{
			element.QuantityPower: element.Range(0, node.GetFloat64(1)),
		},
		Response: &demandResponse{voltage: node.GetFloat64(3)},
	}, nil
}

// demandResponse 按需元件：输出 = min(需求, 上限)，输入 = 输出 / 效率
type demandResponse struct{ voltage float64 }

func (*demandResponse) Reversible() bool { return false }

func (r *demandResponse) Forward(s element.Snapshot, in element.ForwardInput, c element.Consumption, l element.Limits) (element.Snapshot, error) {
	out := s
	pout := l.Clamp(element.QuantityPower, s, math.Max(in.Demand, 0)*math.Max(in.Control, 0))
	out.IO.Output.Power = pout
	ef, err := c.ForwardEfficiency(out)
	if err != nil {
		return s, err
	}
	if in.Limited {
		pout = math.Min(pout, math.Max(in.MaxInput, 0)*ef)
		out.IO.Output.Power = pout
	}
	pin, err := inputPower(out, c, pout)
	if err != nil {
		return s, err
	}
	out.IO.Input.Power = pin
	out.IO.Output.Voltage = r.voltage
	out.IO.Output.Current = pout / r.voltage
	out.State.Internal.On = pout > 0
	return out, nil
}
