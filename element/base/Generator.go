package base

import (
	"math"
	"powertrain/element"
	"powertrain/types"
)

// GeneratorType 定义元件
var GeneratorType element.NodeType = element.AddElement(3, &Generator{
	&element.Config{
		Name:   "generator",
		Input:  types.InputPortOf(types.MediumMechanical),
		Output: types.OutputPortOf(types.MediumElectricDC),
		ValueInit: []float64{
			float64(60),                      // 0: 质量(kg)
			float64(0.05),                    // 1: 转动惯量(kg·m²)
			float64(80e3),                    // 2: 最大功率(W)
			types.GeneratorEfficiencyDefault, // 3: 效率
			float64(400),                     // 4: 输出电压(V)
			float64(10000),                   // 5: 最高转速(rpm)
		},
		ValueName: []string{"mass", "inertia", "max_power", "efficiency", "voltage", "max_rpm"},
	},
})

// Generator 发电机，吸收上游机械功率的控制比例
type Generator struct{ *element.Config }

func (Generator) Build(node *element.Node) (element.NodeFace, error) {
	v := check{name: "generator"}
	v.nonNegative("mass", node.GetFloat64(0))
	v.nonNegative("inertia", node.GetFloat64(1))
	v.positive("max_power", node.GetFloat64(2))
	v.fraction("efficiency", node.GetFloat64(3))
	v.positive("voltage", node.GetFloat64(4))
	v.positive("max_rpm", node.GetFloat64(5))
	if v.err != nil {
		return nil, v.err
	}
	node.NodeMass = node.GetFloat64(0)
	eff := node.GetFloat64(3)
	return &element.Converter{
		Node:        node,
		Inertia:     node.GetFloat64(1),
		Consumption: element.EnergyConsumption(element.Constant(eff), nil),
		Limits: element.Limits{
			element.QuantityPower: element.Range(0, node.GetFloat64(2)),
			element.QuantityRpm:   element.Range(0, node.GetFloat64(5)),
		},
		Response: &generatorResponse{voltage: node.GetFloat64(4)},
	}, nil
}

// generatorResponse 发电机动态响应
type generatorResponse struct{ voltage float64 }

func (*generatorResponse) Reversible() bool { return false }

func (r *generatorResponse) Forward(s element.Snapshot, in element.ForwardInput, c element.Consumption, l element.Limits) (element.Snapshot, error) {
	out := s
	out.State.Input.Rpm = in.InputRpm
	out.State.Output.Rpm = 0
	// 吸收的机械转矩
	out.IO.Input.Torque = in.Control * math.Max(in.Input.Torque, 0)
	pmech := out.PowerIn()
	if pmax := l.Max(element.QuantityPower, s); pmech > 0 && pmech > pmax {
		out.IO.Input.Torque *= pmax / pmech
		pmech = pmax
	}
	ef, err := c.ForwardEfficiency(out)
	if err != nil {
		return s, err
	}
	pout := math.Max(pmech*ef, 0)
	if in.Limited {
		pout = math.Min(pout, math.Max(in.MaxInput, 0)*ef)
		out.IO.Input.Torque *= pout / math.Max(pmech*ef, types.Epsilon)
	}
	out.IO.Output.Power = pout
	out.IO.Output.Voltage = r.voltage
	out.IO.Output.Current = pout / r.voltage
	out.State.Internal.On = pout > 0
	return out, nil
}
