package base

import (
	"math"
	"powertrain/element"
	"powertrain/types"
	"testing"
)

func newBattery(t *testing.T, eleType element.NodeType, value map[string]float64) *BatteryPack {
	t.Helper()
	face, err := element.NewElementValue(eleType, "bat", value)
	if err != nil {
		t.Fatalf("创建电池失败: %v", err)
	}
	return face.(*BatteryPack)
}

func TestBatteryConservation(t *testing.T) {
	b := newBattery(t, BatteryType, map[string]float64{"nominal_energy": 1e6, "soc": 0.5, "efficiency": 0.9})
	before := b.Energy()
	b.Recharge(1000, 1)
	b.Discharge(1000, 1)
	want := 1000 * 1 * (0.9 - 1/0.9)
	if math.Abs(b.Energy()-before-want) > 1e-6 {
		t.Errorf("能量变化: 期望 %v, 实际 %v", want, b.Energy()-before)
	}
}

func TestBatteryBounds(t *testing.T) {
	b := newBattery(t, BatteryType, map[string]float64{"nominal_energy": 1e6, "soc": 0.5, "soh": 0.8})
	if math.Abs(b.SOC()-0.5) > 1e-9 {
		t.Errorf("荷电状态: 期望 0.5, 实际 %v", b.SOC())
	}
	b.Recharge(100e3, 1000)
	if b.Energy() != b.MaxEnergy() || !b.IsFull() {
		t.Errorf("充电不能超过最大能量: %v > %v", b.Energy(), b.MaxEnergy())
	}
	if math.Abs(b.MaxEnergy()-0.8e6) > 1e-9 {
		t.Errorf("最大能量: 期望 %v, 实际 %v", 0.8e6, b.MaxEnergy())
	}
	b.Discharge(100e3, 1000)
	if b.Energy() != 0 || !b.IsEmpty() {
		t.Errorf("放电后能量应为0: %v", b.Energy())
	}
}

func TestBatteryOverPower(t *testing.T) {
	// 直接充放电不受最大功率限制，只限制储存能量
	b := newBattery(t, BatteryType, map[string]float64{"nominal_energy": 1e6, "soc": 0.5, "efficiency": 0.9})
	if removed := b.Discharge(1e7, 1); math.Abs(removed-0.5e6) > 1e-6 || b.Energy() != 0 {
		t.Errorf("超过最大功率放电: 减少 %v, 剩余 %v", removed, b.Energy())
	}
	if stored := b.Recharge(1e7, 1); math.Abs(stored-1e6) > 1e-6 || !b.IsFull() {
		t.Errorf("超过最大功率充电: 增加 %v, 能量 %v", stored, b.Energy())
	}
	b = newBattery(t, BatteryType, map[string]float64{"nominal_energy": 1e6, "soc": 0.5, "efficiency": 0.9})
	before := b.Energy()
	b.Recharge(300e3, 1)
	b.Discharge(300e3, 1)
	want := 300e3 * (0.9 - 1/0.9)
	if math.Abs(b.Energy()-before-want) > 1e-6 {
		t.Errorf("能量变化: 期望 %v, 实际 %v", want, b.Energy()-before)
	}
	// 对外供给仍受最大功率限制
	if got := b.Deliver(1e7, 1); math.Abs(got-250e3) > 1e-6 {
		t.Errorf("供给受最大功率限制: 期望 %v, 实际 %v", 250e3, got)
	}
}

func TestBatteryDeliver(t *testing.T) {
	b := newBattery(t, BatteryType, nil)
	got := b.Deliver(1e6, 1)
	if math.Abs(got-250e3) > 1e-6 {
		t.Errorf("供给受最大功率限制: 期望 %v, 实际 %v", 250e3, got)
	}
	if math.Abs(b.Snapshot().IO.Output.Power-250e3) > 1e-6 {
		t.Errorf("输出功率: 期望 %v, 实际 %v", 250e3, b.Snapshot().IO.Output.Power)
	}
	if want := 5e6 - 250e3/0.95; math.Abs(b.Energy()-want) > 1e-6 {
		t.Errorf("剩余能量: 期望 %v, 实际 %v", want, b.Energy())
	}
	// 回充
	before := b.Energy()
	got = b.Absorb(1e6, 1)
	if math.Abs(got-250e3) > 1e-6 {
		t.Errorf("回充受最大功率限制: 期望 %v, 实际 %v", 250e3, got)
	}
	if want := before + 250e3*0.95; math.Abs(b.Energy()-want) > 1e-6 {
		t.Errorf("回充后能量: 期望 %v, 实际 %v", want, b.Energy())
	}
	// 新的仿真步清空流量，保留能量
	energy := b.Energy()
	element.CallMark(element.MarkStartTick, []element.NodeFace{b})
	if b.Snapshot().IO.Output.Power != 0 || b.Snapshot().IO.Input.Power != 0 {
		t.Errorf("新仿真步应清空流量")
	}
	if b.Energy() != energy {
		t.Errorf("新仿真步不应改变能量: 期望 %v, 实际 %v", energy, b.Energy())
	}
}

func TestBatteryChemistry(t *testing.T) {
	b := newBattery(t, AlAirBatteryType, map[string]float64{"nominal_energy": 1300 * types.WhToJoules * 10})
	if math.Abs(b.Mass()-10) > 1e-9 {
		t.Errorf("质量由能量密度计算: 期望 10, 实际 %v", b.Mass())
	}
	if b.Rechargeable() {
		t.Errorf("铝空气电池不可回充")
	}
	if _, ok := b.Port(types.InputPort); ok {
		t.Errorf("不可回充电池没有输入端口")
	}
	if b.Absorb(1000, 1) != 0 {
		t.Errorf("不可回充电池不能接收能量")
	}
	lipo := newBattery(t, LiPoBatteryType, nil)
	if !lipo.Rechargeable() {
		t.Errorf("锂聚合物电池应可回充")
	}
	if _, err := element.NewElement("battery", "b", map[string]float64{"soc": 2}); err == nil {
		t.Errorf("荷电状态大于1应返回错误")
	}
}
