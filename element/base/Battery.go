package base

import (
	"math"
	"powertrain/element"
	"powertrain/element/curves"
	"powertrain/types"
)

// batteryConfig 电池配置，specific 为质量能量密度(Wh/kg)，0 表示按 mass 参数给出质量
func batteryConfig(name string, specific float64, rechargeable bool) *Battery {
	config := &element.Config{
		Name:   name,
		Output: types.OutputPortOf(types.MediumElectricDC),
		ValueInit: []float64{
			float64(5e6),                   // 0: 标称能量(J)
			float64(1),                     // 1: 初始荷电状态
			float64(250e3),                 // 2: 最大功率(W)
			types.BatteryEfficiencyDefault, // 3: 充放电效率
			types.BatterySOHDefault,        // 4: 健康状态
			float64(400),                   // 5: 额定电压(V)
			float64(300),                   // 6: 质量(kg) 或 质量能量密度(Wh/kg)
		},
		ValueName: []string{"nominal_energy", "soc", "max_power", "efficiency", "soh", "voltage", "mass"},
	}
	if rechargeable {
		config.Input = types.InputPortOf(types.MediumElectricDC)
	}
	if specific > 0 {
		config.ValueInit[6] = specific
		config.ValueName[6] = "specific_energy"
	}
	return &Battery{Config: config, specific: specific > 0}
}

// 电池类型
var (
	BatteryType           = element.AddElement(50, batteryConfig("battery", 0, true))
	AlAirBatteryType      = element.AddElement(51, batteryConfig("al_air_battery", 1300, false))
	PbAcidBatteryType     = element.AddElement(52, batteryConfig("pb_acid_battery", 40, true))
	LiCoBatteryType       = element.AddElement(53, batteryConfig("lico_battery", 170, true))
	LiMnBatteryType       = element.AddElement(54, batteryConfig("limn_battery", 117.5, true))
	LiPhBatteryType       = element.AddElement(55, batteryConfig("liph_battery", 105, true))
	LiPoBatteryType       = element.AddElement(56, batteryConfig("lipo_battery", 180, true))
	NiCdBatteryType       = element.AddElement(57, batteryConfig("nicd_battery", 68.5, true))
	NiMHBatteryType       = element.AddElement(58, batteryConfig("nimh_battery", 90, true))
	SolidStateBatteryType = element.AddElement(59, batteryConfig("solid_state_battery", 350, true))
)

// Battery 电池
type Battery struct {
	*element.Config
	specific bool // 质量由能量密度计算
}

func (b Battery) Build(node *element.Node) (element.NodeFace, error) {
	v := check{name: b.Name}
	v.positive("nominal_energy", node.GetFloat64(0))
	v.nonNegative("soc", node.GetFloat64(1))
	v.positive("max_power", node.GetFloat64(2))
	v.fraction("efficiency", node.GetFloat64(3))
	v.fraction("soh", node.GetFloat64(4))
	v.positive("voltage", node.GetFloat64(5))
	if b.specific {
		v.positive("specific_energy", node.GetFloat64(6))
	} else {
		v.nonNegative("mass", node.GetFloat64(6))
	}
	if v.err != nil {
		return nil, v.err
	}
	if soc := node.GetFloat64(1); soc > 1 {
		return nil, invalidf("%s soc = %v 大于 1", b.Name, soc)
	}
	if b.specific {
		node.NodeMass = node.GetFloat64(0) / (node.GetFloat64(6) * types.WhToJoules)
	} else {
		node.NodeMass = node.GetFloat64(6)
	}
	voltage, maxPower := node.GetFloat64(5), node.GetFloat64(2)
	eff, err := curves.BatteryEfficiency(node.GetFloat64(3), maxPower/voltage+types.Epsilon)
	if err != nil {
		return nil, err
	}
	volt, err := curves.ConstantVoltage(voltage, maxPower/voltage+types.Epsilon)
	if err != nil {
		return nil, err
	}
	return &BatteryPack{Node: node, efficiency: eff, voltage: volt}, nil
}

func (b Battery) Reset(value element.NodeFace) {
	b.Config.Reset(value)
	pack := value.(*BatteryPack)
	snap := pack.Snapshot()
	snap.State.Internal.Energy = pack.GetFloat64(1) * pack.MaxEnergy()
	snap.State.Internal.On = true
	pack.SetSnapshot(snap)
}

// StartTick 清空上一步的流量，保留储存能量
func (b Battery) StartTick(value element.NodeFace) {
	snap := value.Snapshot()
	snap.IO = element.NewSnapshot(b.Input, b.Output).IO
	snap.Recovering = false
	value.SetSnapshot(snap)
}

// BatteryPack 电池实例
type BatteryPack struct {
	*element.Node
	efficiency curves.Curve // 电流 -> 效率
	voltage    curves.Curve // 电流 -> 电压
}

// NominalEnergy 标称能量(J)
func (b *BatteryPack) NominalEnergy() float64 { return b.GetFloat64(0) }

// MaxPower 最大功率(W)
func (b *BatteryPack) MaxPower() float64 { return b.GetFloat64(2) }

// SOH 健康状态
func (b *BatteryPack) SOH() float64 { return b.GetFloat64(4) }

// MaxEnergy 最大可储存能量 = 标称能量 × 健康状态
func (b *BatteryPack) MaxEnergy() float64 { return b.NominalEnergy() * b.SOH() }

// Energy 当前储存能量(J)
func (b *BatteryPack) Energy() float64 { return b.Snap.State.Internal.Energy }

// SOC 荷电状态
func (b *BatteryPack) SOC() float64 { return b.Energy() / b.NominalEnergy() / b.SOH() }

// Efficiency 功率对应的充放电效率，超过最大功率时为 0
func (b *BatteryPack) Efficiency(power float64) float64 {
	return b.efficiency(math.Abs(power) / b.GetFloat64(5))
}

// Rechargeable 有输入端口才能回充
func (b *BatteryPack) Rechargeable() bool { return b.ConfigPtr.Input != nil }

// Stored 当前储存能量(J)
func (b *BatteryPack) Stored() float64 { return b.Energy() }

// IsEmpty 能量耗尽
func (b *BatteryPack) IsEmpty() bool { return b.Energy() <= 0 }

// IsFull 能量已满
func (b *BatteryPack) IsFull() bool { return b.Energy() >= b.MaxEnergy() }

func (b *BatteryPack) setEnergy(e float64) {
	b.Snap.State.Internal.Energy = math.Max(0, math.Min(b.MaxEnergy(), e))
}

// Recharge 以功率 power 充电 dt 秒，储存 |power|·dt·e，结果限制在 [0, 最大能量]。
// 不检查最大功率，返回储存能量的增量
func (b *BatteryPack) Recharge(power, dt float64) float64 {
	before := b.Energy()
	b.setEnergy(before + math.Abs(power)*dt*b.GetFloat64(3))
	return b.Energy() - before
}

// Discharge 以功率 power 放电 dt 秒，消耗 |power|·dt/e，结果限制在 [0, 最大能量]。
// 不检查最大功率，返回储存能量的减少量
func (b *BatteryPack) Discharge(power, dt float64) float64 {
	before := b.Energy()
	b.setEnergy(before - math.Abs(power)*dt/b.GetFloat64(3))
	return before - b.Energy()
}

// Deliver 向外供给 amount(J)，受最大功率和储存能量限制，返回实际供给量
func (b *BatteryPack) Deliver(amount, dt float64) float64 {
	if amount <= 0 || dt <= 0 {
		return 0
	}
	amount = math.Min(amount, b.MaxPower()*dt)
	if e := b.Efficiency(amount / dt); e > 0 {
		amount = math.Min(amount, b.Energy()*e)
	} else {
		return 0
	}
	if amount <= 0 {
		return 0
	}
	b.Discharge(amount/dt, dt)
	out := &b.Snap.IO.Output
	out.Power += amount / dt
	out.Voltage = b.voltage(out.Power / b.GetFloat64(5))
	out.Current = out.Power / b.GetFloat64(5)
	return amount
}

// Absorb 回充 amount(J)，受最大功率和剩余容量限制，返回实际接收量
func (b *BatteryPack) Absorb(amount, dt float64) float64 {
	if !b.Rechargeable() || amount <= 0 || dt <= 0 {
		return 0
	}
	amount = math.Min(amount, b.MaxPower()*dt)
	e := b.Efficiency(amount / dt)
	if e <= 0 {
		return 0
	}
	amount = math.Min(amount, (b.MaxEnergy()-b.Energy())/e)
	if amount <= 0 {
		return 0
	}
	b.Recharge(amount/dt, dt)
	in := &b.Snap.IO.Input
	in.Power += amount / dt
	in.Voltage = b.GetFloat64(5)
	in.Current = in.Power / b.GetFloat64(5)
	b.Snap.Recovering = true
	return amount
}
