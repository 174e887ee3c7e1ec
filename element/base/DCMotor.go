package base

import (
	"math"
	"powertrain/element"
	"powertrain/types"
)

// DCMotorType 定义元件
var DCMotorType element.NodeType = element.AddElement(2, &DCMotor{
	&element.Config{
		Name:   "dc_motor",
		Input:  types.InputPortOf(types.MediumElectricDC),
		Output: types.OutputPortOf(types.MediumMechanical),
		ValueInit: []float64{
			float64(20),    // 0: 质量(kg)
			float64(0.01),  // 1: 转动惯量(kg·m²)
			float64(0.05),  // 2: 电枢电阻(Ω)
			float64(0.3),   // 3: 转矩常数(N·m/A)
			float64(0.3),   // 4: 反电动势常数(V·s/rad)
			float64(0.001), // 5: 阻尼系数(N·m·s/rad)
			float64(48),    // 6: 最大电压(V)
			float64(300),   // 7: 最大电流(A)
			float64(3000),  // 8: 最高转速(rpm)
		},
		ValueName:  []string{"mass", "inertia", "r", "kt", "ke", "kf", "max_voltage", "max_current", "max_rpm"},
		Reversible: true,
	},
})

// DCMotor 直流电机，一阶电枢模型 i = (v - ke·ω)/r，T = kt·i
type DCMotor struct{ *element.Config }

func (DCMotor) Build(node *element.Node) (element.NodeFace, error) {
	v := check{name: "dc_motor"}
	v.nonNegative("mass", node.GetFloat64(0))
	for i, name := range []string{"inertia", "r", "kt", "ke"} {
		v.positive(name, node.GetFloat64(i+1))
	}
	v.nonNegative("kf", node.GetFloat64(5))
	v.positive("max_voltage", node.GetFloat64(6))
	v.positive("max_current", node.GetFloat64(7))
	v.positive("max_rpm", node.GetFloat64(8))
	if v.err != nil {
		return nil, v.err
	}
	r := &dcResponse{
		r:      node.GetFloat64(2),
		kt:     node.GetFloat64(3),
		ke:     node.GetFloat64(4),
		kf:     node.GetFloat64(5),
		vmax:   node.GetFloat64(6),
		imax:   node.GetFloat64(7),
		maxRpm: node.GetFloat64(8),
	}
	node.NodeMass = node.GetFloat64(0)
	peak := r.kt * r.imax
	return &element.Converter{
		Node:        node,
		Inertia:     node.GetFloat64(1),
		Consumption: element.EnergyConsumption(dcForwardEfficiency, dcReverseEfficiency),
		Limits: element.Limits{
			element.QuantityTorque:  element.Range(-peak, peak),
			element.QuantityCurrent: element.Range(-r.imax, r.imax),
			element.QuantityRpm:     element.Range(0, r.maxRpm),
		},
		Response: r,
	}, nil
}

// 直流电机的效率由电枢模型决定
func dcForwardEfficiency(s element.Snapshot) float64 {
	pin, pout := s.PowerIn(), s.PowerOut()
	if pin <= 0 || pout <= 0 {
		return 1
	}
	return math.Min(pout/pin, 1)
}

func dcReverseEfficiency(s element.Snapshot) float64 {
	pin, pout := s.PowerIn(), s.PowerOut()
	if pout == 0 || pin >= 0 {
		return 0
	}
	return math.Min(math.Abs(pin/pout), 1)
}

// dcResponse 直流电机动态响应
type dcResponse struct {
	r, kt, ke, kf float64
	vmax, imax    float64
	maxRpm        float64
}

func (*dcResponse) Reversible() bool { return true }

func (r *dcResponse) Forward(s element.Snapshot, in element.ForwardInput, c element.Consumption, l element.Limits) (element.Snapshot, error) {
	w0 := s.State.Output.Rpm * types.RPMToAngVel
	emf := r.ke * w0
	volt := in.Control * r.vmax
	// 供给不足时降低电压，v·(v - ke·ω)/r = P
	if in.Limited && volt > 0 {
		volt = math.Min(volt, (emf+math.Sqrt(emf*emf+4*r.r*math.Max(in.MaxInput, 0)))/2)
	}
	current := l.Clamp(element.QuantityCurrent, s, (volt-emf)/r.r)
	w1, torque := rotate(w0, r.kt*current, in.LoadTorque, r.kf, in.Dt, in.TotalInertia(), 0, r.maxRpm)
	current = torque / r.kt
	volt = emf + current*r.r
	out := s
	out.IO.Output.Torque = torque
	out.State.Output.Rpm = w1 * types.AngVelToRPM
	out.State.Internal.On = current != 0
	out.IO.Input.Voltage = volt
	out.IO.Input.Current = current
	out.IO.Input.Power = volt * current
	out.Recovering = out.IO.Input.Power < 0
	return out, nil
}

func (r *dcResponse) Reverse(s element.Snapshot, c element.Consumption, l element.Limits) (element.Snapshot, error) {
	w := s.State.Output.Rpm * types.RPMToAngVel
	current := -math.Min(math.Abs(s.IO.Output.Torque)/r.kt, r.imax)
	volt := r.ke*w + current*r.r
	out := s
	out.IO.Input.Voltage = volt
	out.IO.Input.Current = current
	out.IO.Input.Power = math.Min(volt*current, 0)
	return out, nil
}
