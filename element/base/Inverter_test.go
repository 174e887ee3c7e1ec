package base

import (
	"math"
	"powertrain/element"
	"powertrain/types"
	"testing"
)

func TestInverter(t *testing.T) {
	inv, err := element.NewConverter(InverterType, "inv", nil)
	if err != nil {
		t.Fatalf("创建逆变器失败: %v", err)
	}
	snap, err := inv.Forward(element.ForwardInput{Dt: 0.1, Control: 1, Demand: 20e3})
	if err != nil {
		t.Fatalf("正向传递失败: %v", err)
	}
	if want := 20e3 / types.InverterEfficiencyDefault; math.Abs(snap.PowerIn()-want) > 1e-6 {
		t.Errorf("输入功率: 期望 %v, 实际 %v", want, snap.PowerIn())
	}
	if math.Abs(snap.IO.Output.Current-20e3/400) > 1e-9 {
		t.Errorf("输出电流: 期望 %v, 实际 %v", 20e3/400, snap.IO.Output.Current)
	}
	draw, err := inv.Draw(snap, 0.1)
	if err != nil {
		t.Fatalf("能量消耗失败: %v", err)
	}
	if math.Abs(draw-snap.PowerIn()*0.1) > 1e-6 {
		t.Errorf("能量消耗: 期望 %v, 实际 %v", snap.PowerIn()*0.1, draw)
	}
}

func TestRectifierPorts(t *testing.T) {
	rect, err := element.NewConverter(RectifierType, "rect", nil)
	if err != nil {
		t.Fatalf("创建整流器失败: %v", err)
	}
	in, _ := rect.Port(types.InputPort)
	out, _ := rect.Port(types.OutputPort)
	if in.Medium != types.MediumElectricAC || out.Medium != types.MediumElectricDC {
		t.Errorf("整流器端口: %v -> %v", in, out)
	}
	inv, err := element.NewConverter(InverterType, "inv", nil)
	if err != nil {
		t.Fatalf("创建逆变器失败: %v", err)
	}
	if element.CreateLink(inv, types.OutputPort, rect, types.InputPort) == nil {
		t.Errorf("逆变器交流输出应能连接整流器输入")
	}
	if element.CreateLink(rect, types.OutputPort, inv, types.OutputPort) != nil {
		t.Errorf("输出端口之间不能连接")
	}
}
