package base

import (
	"math"
	"powertrain/element"
	"powertrain/types"
	"testing"
)

func TestFuelTank(t *testing.T) {
	face, err := element.NewElementValue(GasolineTankType, "tank", map[string]float64{"fuel": 40})
	if err != nil {
		t.Fatalf("创建油箱失败: %v", err)
	}
	tank := face.(*FuelTank)
	if got := tank.Deliver(10, 1); got != 10 {
		t.Errorf("供给: 期望 10, 实际 %v", got)
	}
	if tank.Amount() != 30 || math.Abs(tank.FilledPercentage()-0.5) > 1e-9 {
		t.Errorf("剩余燃料: %v L, %v", tank.Amount(), tank.FilledPercentage())
	}
	fuelMass := 30 * types.LitersToCubicMeters * 742.9
	if math.Abs(tank.Mass()-15-fuelMass) > 1e-9 {
		t.Errorf("总质量: 期望 %v, 实际 %v", 15+fuelMass, tank.Mass())
	}
	if math.Abs(tank.Snapshot().IO.Output.Flow-10) > 1e-9 {
		t.Errorf("输出流量: 期望 10, 实际 %v", tank.Snapshot().IO.Output.Flow)
	}
	if got := tank.Refill(100); got != 30 || !tank.IsFull() {
		t.Errorf("加注: 期望 30, 实际 %v", got)
	}
	if got := tank.Deliver(100, 1); got != 60 || !tank.IsEmpty() {
		t.Errorf("供给不能超过储量: %v", got)
	}
	if tank.Absorb(1, 1) != 0 || tank.Rechargeable() {
		t.Errorf("油箱不可回充")
	}
}

func TestGaseousTank(t *testing.T) {
	face, err := element.NewElementValue(HydrogenTankType, "h2", nil)
	if err != nil {
		t.Fatalf("创建储氢罐失败: %v", err)
	}
	tank := face.(*FuelTank)
	if tank.FuelMass() != 6 || tank.Snapshot().State.Internal.Liters != 0 {
		t.Errorf("气态燃料按千克计量: %v kg", tank.FuelMass())
	}
	if math.Abs(tank.MaxEnergy()-6*130e6) > 1e-3 {
		t.Errorf("储存能量: 期望 %v, 实际 %v", 6*130e6, tank.MaxEnergy())
	}
	if _, err := element.NewElement("methane_tank", "ch4", map[string]float64{"fuel": 100}); err == nil {
		t.Errorf("燃料大于容量应返回错误")
	}
}
