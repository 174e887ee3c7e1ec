package base

import (
	"math"
	"powertrain/element"
	"powertrain/element/curves"
	"powertrain/types"
)

// MotorType 定义元件
var MotorType element.NodeType = element.AddElement(1, &Motor{
	&element.Config{
		Name:   "electric_motor",
		Input:  types.InputPortOf(types.MediumElectricDC),
		Output: types.OutputPortOf(types.MediumMechanical),
		ValueInit: []float64{
			float64(80),                          // 0: 质量(kg)
			float64(0.05),                        // 1: 转动惯量(kg·m²)
			float64(150e3),                       // 2: 最大功率(W)
			float64(3000),                        // 3: 基速(rpm)
			float64(12000),                       // 4: 最高转速(rpm)
			types.ElectricMotorEfficiencyDefault, // 5: 驱动效率
			types.ElectricMotorEfficiencyDefault, // 6: 回收效率
			float64(400),                         // 7: 额定电压(V)
			float64(0),                           // 8: 效率模型 0恒定 1椭圆线性 2高斯
			float64(0.70),                        // 9: 最低效率
			float64(0),                           // 10: 最高效率点转速(rpm)，0取基速
			float64(0),                           // 11: 最高效率点功率(W)，0取最大功率一半
		},
		ValueName: []string{"mass", "inertia", "max_power", "base_rpm", "max_rpm", "efficiency",
			"reverse_efficiency", "voltage", "efficiency_model", "min_efficiency", "peak_rpm", "peak_power"},
		Reversible: true,
	},
})

// Motor 电机（效率图模型）
type Motor struct{ *element.Config }

func (Motor) Build(node *element.Node) (element.NodeFace, error) {
	v := check{name: "electric_motor"}
	v.nonNegative("mass", node.GetFloat64(0))
	v.positive("inertia", node.GetFloat64(1))
	v.positive("max_power", node.GetFloat64(2))
	v.positive("base_rpm", node.GetFloat64(3))
	v.less("base_rpm", node.GetFloat64(3), "max_rpm", node.GetFloat64(4))
	v.fraction("efficiency", node.GetFloat64(5))
	v.fraction("reverse_efficiency", node.GetFloat64(6))
	v.positive("voltage", node.GetFloat64(7))
	if v.err != nil {
		return nil, v.err
	}
	maxPower, baseRpm, maxRpm := node.GetFloat64(2), node.GetFloat64(3), node.GetFloat64(4)
	// 基速以下恒转矩
	peakTorque := maxPower / (baseRpm * types.RPMToAngVel)
	torque, err := curves.EMTorque(peakTorque, baseRpm, maxRpm+types.Epsilon)
	if err != nil {
		return nil, err
	}
	forward, err := motorEfficiency(node, maxPower, baseRpm, maxRpm)
	if err != nil {
		return nil, err
	}
	node.NodeMass = node.GetFloat64(0)
	return &element.Converter{
		Node:        node,
		Inertia:     node.GetFloat64(1),
		Consumption: element.EnergyConsumption(forward, element.Constant(node.GetFloat64(6))),
		Limits: element.Limits{
			element.QuantityTorque: curveLimit(peakTorque, torque),
			element.QuantityPower:  element.Range(-maxPower, maxPower),
			element.QuantityRpm:    element.Range(0, maxRpm),
		},
		Response: &emResponse{maxRpm: maxRpm, voltage: node.GetFloat64(7)},
	}, nil
}

func motorEfficiency(node *element.Node, maxPower, baseRpm, maxRpm float64) (element.EfficiencyFunc, error) {
	eff, minEff := node.GetFloat64(5), node.GetFloat64(9)
	peak := curves.OperatingPoint{Rpm: node.GetFloat64(10), Power: node.GetFloat64(11)}
	if peak.Rpm == 0 {
		peak.Rpm = baseRpm
	}
	if peak.Power == 0 {
		peak.Power = maxPower / 2
	}
	var surface curves.Surface
	var err error
	switch node.GetFloat64(8) {
	case 1:
		power, perr := curves.EMPower(maxPower, baseRpm, maxRpm+types.Epsilon)
		if perr != nil {
			return nil, perr
		}
		surface, err = curves.LinearEfficiency(eff, minEff, 0, maxRpm+types.Epsilon, power, peak, 1, 1)
	case 2:
		fr, fp := 1/math.Pow(maxRpm, 2), 1/math.Pow(maxPower, 2)
		surface, err = curves.GaussianEfficiency(eff, peak, minEff, fr, fp, 0, maxRpm+types.Epsilon)
	default:
		surface, err = curves.ConstantEfficiency(eff, 0, maxRpm+types.Epsilon)
	}
	if err != nil {
		return nil, err
	}
	return surface.Efficiency(), nil
}

// emResponse 电机动态响应
type emResponse struct {
	maxRpm  float64 // 最高转速(rpm)
	voltage float64 // 额定电压(V)
}

func (*emResponse) Reversible() bool { return true }

func (r *emResponse) Forward(s element.Snapshot, in element.ForwardInput, c element.Consumption, l element.Limits) (element.Snapshot, error) {
	inertia := in.TotalInertia()
	w0 := s.State.Output.Rpm * types.RPMToAngVel
	// 1. 控制信号对应的转矩
	torque := l.Clamp(element.QuantityTorque, s, scaleTorque(in.Control, l, s))
	if torque > 0 {
		torque = math.Min(torque, supplyTorque(w0, in.LoadTorque, in.Dt, inertia, l.Max(element.QuantityPower, s), 1))
	}
	// 2. 供给不足时限制转矩
	if in.Limited && torque > 0 {
		ef, err := c.ForwardEfficiency(s)
		if err != nil {
			return s, err
		}
		torque = math.Min(torque, supplyTorque(w0, in.LoadTorque, in.Dt, inertia, in.MaxInput, ef))
	}
	// 3. 转速积分，电机不反转
	w1, torque := rotate(w0, torque, in.LoadTorque, 0, in.Dt, inertia, 0, r.maxRpm)
	out := s
	out.IO.Output.Torque = torque
	out.State.Output.Rpm = w1 * types.AngVelToRPM
	out.State.Internal.On = torque != 0
	pout := torque * w1
	out.Recovering = pout < 0
	// 4. 输入功率
	pin, err := inputPower(out, c, pout)
	if err != nil {
		return s, err
	}
	r.setInput(&out, pin)
	return out, nil
}

func (r *emResponse) Reverse(s element.Snapshot, c element.Consumption, l element.Limits) (element.Snapshot, error) {
	er, err := c.ReverseEfficiency(s)
	if err != nil {
		return s, err
	}
	out := s
	out.IO.Output.Torque = l.Clamp(element.QuantityTorque, s, s.IO.Output.Torque)
	r.setInput(&out, -math.Abs(out.PowerOut())*er)
	return out, nil
}

func (r *emResponse) setInput(s *element.Snapshot, pin float64) {
	s.IO.Input.Power = pin
	s.IO.Input.Voltage = r.voltage
	s.IO.Input.Current = pin / r.voltage
}
