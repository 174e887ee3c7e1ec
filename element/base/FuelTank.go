package base

import (
	"math"
	"powertrain/element"
	"powertrain/types"
)

// tankConfig 油箱配置，液态燃料按升，气态燃料按千克
func tankConfig(name string, fuel types.Medium, mass, capacity float64) *Tank {
	return &Tank{&element.Config{
		Name:   name,
		Output: types.OutputPortOf(fuel),
		ValueInit: []float64{
			mass,     // 0: 油箱质量(kg)
			capacity, // 1: 容量(L 或 kg)
			capacity, // 2: 初始燃料量(L 或 kg)
		},
		ValueName: []string{"mass", "capacity", "fuel"},
	}}
}

// 油箱类型
var (
	GasolineTankType       = element.AddElement(60, tankConfig("gasoline_tank", types.MediumGasoline, 15, 60))
	DieselTankType         = element.AddElement(61, tankConfig("diesel_tank", types.MediumDiesel, 15, 60))
	EthanolTankType        = element.AddElement(62, tankConfig("ethanol_tank", types.MediumEthanol, 15, 60))
	MethanolTankType       = element.AddElement(63, tankConfig("methanol_tank", types.MediumMethanol, 15, 60))
	BiodieselTankType      = element.AddElement(64, tankConfig("biodiesel_tank", types.MediumBiodiesel, 15, 60))
	LiquidHydrogenTankType = element.AddElement(65, tankConfig("liquid_hydrogen_tank", types.MediumLiquidHydrogen, 60, 100))
	HydrogenTankType       = element.AddElement(66, tankConfig("hydrogen_tank", types.MediumHydrogen, 90, 6))
	MethaneTankType        = element.AddElement(67, tankConfig("methane_tank", types.MediumMethane, 50, 20))
)

// Tank 油箱
type Tank struct{ *element.Config }

func (t Tank) Build(node *element.Node) (element.NodeFace, error) {
	v := check{name: t.Name}
	v.nonNegative("mass", node.GetFloat64(0))
	v.positive("capacity", node.GetFloat64(1))
	v.nonNegative("fuel", node.GetFloat64(2))
	if v.err != nil {
		return nil, v.err
	}
	if fuel, capacity := node.GetFloat64(2), node.GetFloat64(1); fuel > capacity {
		return nil, invalidf("%s fuel = %v 大于容量 %v", t.Name, fuel, capacity)
	}
	fuel, err := types.FuelOf(t.Output.Medium)
	if err != nil {
		return nil, err
	}
	node.NodeMass = node.GetFloat64(0)
	return &FuelTank{Node: node, Fuel: fuel}, nil
}

func (t Tank) Reset(value element.NodeFace) {
	t.Config.Reset(value)
	tank := value.(*FuelTank)
	tank.set(tank.GetFloat64(2))
	tank.Snap.State.Internal.On = true
}

// StartTick 清空上一步的流量，保留燃料
func (t Tank) StartTick(value element.NodeFace) {
	snap := value.Snapshot()
	snap.IO = element.NewSnapshot(t.Input, t.Output).IO
	value.SetSnapshot(snap)
}

// FuelTank 油箱实例，不可回充
type FuelTank struct {
	*element.Node
	Fuel types.Fuel // 燃料
}

// Capacity 容量，液态为升，气态为千克
func (t *FuelTank) Capacity() float64 { return t.GetFloat64(1) }

// Amount 当前燃料量，液态为升，气态为千克
func (t *FuelTank) Amount() float64 {
	if t.Fuel.IsLiquid() {
		return t.Snap.State.Internal.Liters
	}
	return t.Snap.State.Internal.FuelMass
}

func (t *FuelTank) set(amount float64) {
	amount = math.Max(0, math.Min(t.Capacity(), amount))
	internal := &t.Snap.State.Internal
	if t.Fuel.IsLiquid() {
		internal.Liters = amount
		internal.FuelMass = t.Fuel.MassFromLiters(amount)
	} else {
		internal.FuelMass = amount
	}
	internal.Energy = t.Fuel.Energy(amount)
}

// FuelMass 燃料质量(kg)
func (t *FuelTank) FuelMass() float64 { return t.Snap.State.Internal.FuelMass }

// Mass 总质量 = 油箱质量 + 燃料质量
func (t *FuelTank) Mass() float64 { return t.NodeMass + t.FuelMass() }

// FilledPercentage 燃料量 / 容量
func (t *FuelTank) FilledPercentage() float64 { return t.Amount() / t.Capacity() }

// MaxEnergy 当前燃料对应的能量(J)
func (t *FuelTank) MaxEnergy() float64 { return t.Fuel.Energy(t.Amount()) }

// Rechargeable 油箱不能回充
func (t *FuelTank) Rechargeable() bool { return false }

// Stored 当前燃料量
func (t *FuelTank) Stored() float64 { return t.Amount() }

// IsEmpty 燃料耗尽
func (t *FuelTank) IsEmpty() bool { return t.Amount() <= 0 }

// IsFull 已加满
func (t *FuelTank) IsFull() bool { return t.Amount() >= t.Capacity() }

// Refill 加注燃料，返回实际加注量
func (t *FuelTank) Refill(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	before := t.Amount()
	t.set(before + amount)
	return t.Amount() - before
}

// Deliver 供给燃料，返回实际供给量
func (t *FuelTank) Deliver(amount, dt float64) float64 {
	if amount <= 0 || dt <= 0 {
		return 0
	}
	amount = math.Min(amount, t.Amount())
	t.set(t.Amount() - amount)
	t.Snap.IO.Output.Flow += amount / dt
	return amount
}

// Absorb 不接收能量
func (t *FuelTank) Absorb(amount, dt float64) float64 { return 0 }
