package base

import (
	"powertrain/element"
	"powertrain/types"
)

func gearConfig(name string, ratio float64) *element.Config {
	return &element.Config{
		Name:   name,
		Input:  types.InputPortOf(types.MediumMechanical),
		Output: types.OutputPortOf(types.MediumMechanical),
		ValueInit: []float64{
			float64(40),                 // 0: 质量(kg)
			ratio,                       // 1: 传动比
			types.GearEfficiencyDefault, // 2: 驱动效率
			types.GearEfficiencyDefault, // 3: 回收效率
			float64(0.01),               // 4: 转动惯量(kg·m²)
		},
		ValueName:  []string{"mass", "ratio", "efficiency", "reverse_efficiency", "inertia"},
		Reversible: true,
	}
}

// 齿轮元件类型
var (
	GearBoxType      = element.AddElement(40, &Gear{gearConfig("gearbox", 3.5)})
	DifferentialType = element.AddElement(41, &Gear{gearConfig("differential", 3.9)})
)

// Gear 齿轮：变速箱、差速器
// 正向 T_out = T_in·ratio·eff，rpm_out = rpm_in/ratio
type Gear struct{ *element.Config }

func (g Gear) Build(node *element.Node) (element.NodeFace, error) {
	v := check{name: g.Name}
	v.nonNegative("mass", node.GetFloat64(0))
	v.positive("ratio", node.GetFloat64(1))
	v.fraction("efficiency", node.GetFloat64(2))
	v.fraction("reverse_efficiency", node.GetFloat64(3))
	v.nonNegative("inertia", node.GetFloat64(4))
	if v.err != nil {
		return nil, v.err
	}
	node.NodeMass = node.GetFloat64(0)
	return &element.Converter{
		Node:    node,
		Inertia: node.GetFloat64(4),
		Consumption: element.EnergyConsumption(
			element.Constant(node.GetFloat64(2)), element.Constant(node.GetFloat64(3))),
		Response: &gearResponse{ratio: node.GetFloat64(1)},
	}, nil
}

// gearResponse 齿轮动态响应，没有自身动力
type gearResponse struct{ ratio float64 }

func (*gearResponse) Reversible() bool { return true }

func (r *gearResponse) Forward(s element.Snapshot, in element.ForwardInput, c element.Consumption, l element.Limits) (element.Snapshot, error) {
	out := s
	out.IO.Input.Torque = in.Input.Torque
	out.State.Input.Rpm = in.InputRpm
	ef, err := c.ForwardEfficiency(out)
	if err != nil {
		return s, err
	}
	out.IO.Output.Torque = in.Input.Torque * r.ratio * ef
	out.State.Output.Rpm = in.InputRpm / r.ratio
	out.State.Internal.On = in.Input.Torque != 0
	out.Recovering = false
	return out, nil
}

func (r *gearResponse) Reverse(s element.Snapshot, c element.Consumption, l element.Limits) (element.Snapshot, error) {
	er, err := c.ReverseEfficiency(s)
	if err != nil {
		return s, err
	}
	out := s
	out.IO.Input.Torque = s.IO.Output.Torque / r.ratio * er
	out.State.Input.Rpm = s.State.Output.Rpm * r.ratio
	return out, nil
}
