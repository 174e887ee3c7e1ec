package types

import (
	"math"
	"testing"
)

func TestPortCompatible(t *testing.T) {
	media := []Medium{MediumElectricAC, MediumElectricDC, MediumMechanical, MediumGasoline, MediumHydrogen}
	dirs := []Direction{DirectionInput, DirectionOutput, DirectionBidirectional}
	for _, m1 := range media {
		for _, m2 := range media {
			for _, d1 := range dirs {
				for _, d2 := range dirs {
					p1, p2 := Port{d1, m1}, Port{d2, m2}
					if p1.IsCompatibleWith(p2) != p2.IsCompatibleWith(p1) {
						t.Errorf("兼容性不对称: %v %v", p1, p2)
					}
				}
			}
		}
	}
	in, out := Port{DirectionInput, MediumMechanical}, Port{DirectionOutput, MediumMechanical}
	if !in.IsCompatibleWith(out) {
		t.Errorf("输入输出应兼容")
	}
	if in.IsCompatibleWith(in) || out.IsCompatibleWith(out) {
		t.Errorf("同向端口不应兼容")
	}
	bi := Port{DirectionBidirectional, MediumMechanical}
	if !bi.IsCompatibleWith(in) || !bi.IsCompatibleWith(bi) {
		t.Errorf("双向端口应兼容")
	}
	if out.IsCompatibleWith(Port{DirectionInput, MediumElectricDC}) {
		t.Errorf("介质不同不应兼容")
	}
}

func TestMediumGroups(t *testing.T) {
	if !MediumGasoline.Is(MediumLiquidFuel) || MediumGasoline.Is(MediumGaseousFuel) {
		t.Errorf("汽油分组错误")
	}
	if !MediumHydrogen.Is(MediumGaseousFuel) || !MediumHydrogen.Is(MediumFuel) {
		t.Errorf("氢气分组错误")
	}
	if !MediumElectricDC.Is(MediumElectric) || MediumMechanical.Is(MediumFuel) {
		t.Errorf("电能分组错误")
	}
	m, err := ParseMedium("diesel")
	if err != nil || m != MediumDiesel {
		t.Errorf("解析介质失败: %v %v", m, err)
	}
	if _, err := ParseMedium("steam"); err == nil {
		t.Errorf("未知介质应返回错误")
	}
}

func TestLinkSet(t *testing.T) {
	ls := NewLinkSet()
	l := NewLink("battery", OutputPort, "motor", InputPort)
	if !ls.Add(l) {
		t.Fatalf("首次添加失败")
	}
	if ls.Add(l) || ls.Add(l.Reversed()) {
		t.Errorf("重复添加应无效")
	}
	if ls.Len() != 1 {
		t.Errorf("连接数量: 期望 1, 实际 %d", ls.Len())
	}
	ls.Add(NewLink("motor", OutputPort, DriveTrainID, InputPort))
	ops := ls.Opposites(Endpoint{"motor", InputPort})
	if len(ops) != 1 || ops[0] != (Endpoint{"battery", OutputPort}) {
		t.Errorf("对端错误: %v", ops)
	}
	if len(ls.OfElement("motor")) != 2 {
		t.Errorf("元件连接数量: 期望 2, 实际 %d", len(ls.OfElement("motor")))
	}
	if !ls.Links[1].IsDriveTrain() {
		t.Errorf("传动连接判断错误")
	}
}

func TestFuelEnergy(t *testing.T) {
	gasoline, err := FuelOf(MediumGasoline)
	if err != nil {
		t.Fatalf("查询燃料失败: %v", err)
	}
	// 1升汽油 = 0.7429 kg
	if math.Abs(gasoline.MassFromLiters(1)-0.7429) > 1e-9 {
		t.Errorf("质量: 期望 0.7429, 实际 %v", gasoline.MassFromLiters(1))
	}
	if math.Abs(gasoline.Amount(gasoline.Energy(2.5))-2.5) > 1e-9 {
		t.Errorf("能量往返换算错误")
	}
	h2, _ := FuelOf(MediumHydrogen)
	if h2.IsLiquid() || h2.Energy(1) != 130e6 {
		t.Errorf("氢气能量错误")
	}
	if _, err := FuelOf(MediumMechanical); err == nil {
		t.Errorf("机械介质不是燃料")
	}
}
