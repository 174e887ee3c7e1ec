package base

import (
	"math"
	"powertrain/element"
	"powertrain/types"
	"testing"
)

func TestFuelCell(t *testing.T) {
	fc, err := element.NewConverter(PEMFuelCellType, "fc", nil)
	if err != nil {
		t.Fatalf("创建燃料电池失败: %v", err)
	}
	if !fc.DemandDriven() || fc.Reversible() {
		t.Errorf("燃料电池按需工作且不可逆")
	}
	snap, err := fc.Forward(element.ForwardInput{Dt: 1, Control: 1, Demand: 10e3})
	if err != nil {
		t.Fatalf("正向传递失败: %v", err)
	}
	if snap.PowerOut() != 10e3 {
		t.Errorf("输出功率: 期望 10000, 实际 %v", snap.PowerOut())
	}
	if want := 10e3 / 0.60 / 130e6; math.Abs(snap.IO.Input.Flow-want) > 1e-12 {
		t.Errorf("氢气流量: 期望 %v, 实际 %v", want, snap.IO.Input.Flow)
	}
	if math.Abs(snap.PowerIn()-10e3/0.6) > 1e-6 {
		t.Errorf("燃料功率: 期望 %v, 实际 %v", 10e3/0.6, snap.PowerIn())
	}
	snap, err = fc.Forward(element.ForwardInput{Dt: 1, Control: 1, Demand: 500e3})
	if err != nil {
		t.Fatalf("正向传递失败: %v", err)
	}
	if snap.PowerOut() != 100e3 {
		t.Errorf("输出受最大功率限制: 期望 100000, 实际 %v", snap.PowerOut())
	}
	snap, err = fc.Forward(element.ForwardInput{Dt: 1, Control: 1, Demand: 80e3, Limited: true, MaxInput: 50e3})
	if err != nil {
		t.Fatalf("正向传递失败: %v", err)
	}
	if math.Abs(snap.PowerOut()-30e3) > 1e-6 {
		t.Errorf("供给不足: 期望 30000, 实际 %v", snap.PowerOut())
	}
}

func TestFuelCellMinPower(t *testing.T) {
	fc, err := element.NewConverter(DirectMethanolFuelCellType, "dmfc", map[string]float64{"min_power": 1e3})
	if err != nil {
		t.Fatalf("创建燃料电池失败: %v", err)
	}
	p, _ := fc.Port(types.InputPort)
	if p.Medium != types.MediumMethanol {
		t.Errorf("输入介质: 期望 %v, 实际 %v", types.MediumMethanol, p.Medium)
	}
	snap, err := fc.Forward(element.ForwardInput{Dt: 1, Control: 1, Demand: 500})
	if err != nil {
		t.Fatalf("正向传递失败: %v", err)
	}
	if snap.PowerOut() != 0 || snap.IO.Input.Flow != 0 || snap.State.Internal.On {
		t.Errorf("低于最小功率应关闭: %v", snap.PowerOut())
	}
}
