package base

import (
	"math"
	"powertrain/element"
	"powertrain/types"
	"testing"
)

func TestGenerator(t *testing.T) {
	g, err := element.NewConverter(GeneratorType, "gen", nil)
	if err != nil {
		t.Fatalf("创建发电机失败: %v", err)
	}
	snap, err := g.Forward(element.ForwardInput{
		Dt:       0.1,
		Control:  0.5,
		Input:    element.PortValue{Medium: types.MediumMechanical, Torque: 100},
		InputRpm: 3000,
	})
	if err != nil {
		t.Fatalf("正向传递失败: %v", err)
	}
	pmech := 50 * 3000 * types.RPMToAngVel
	if math.Abs(snap.PowerIn()-pmech) > 1e-6 {
		t.Errorf("吸收机械功率: 期望 %v, 实际 %v", pmech, snap.PowerIn())
	}
	if want := pmech * types.GeneratorEfficiencyDefault; math.Abs(snap.PowerOut()-want) > 1e-6 {
		t.Errorf("输出电功率: 期望 %v, 实际 %v", want, snap.PowerOut())
	}
	// 超过最大功率
	snap, err = g.Forward(element.ForwardInput{
		Dt:       0.1,
		Control:  1,
		Input:    element.PortValue{Medium: types.MediumMechanical, Torque: 1000},
		InputRpm: 3000,
	})
	if err != nil {
		t.Fatalf("正向传递失败: %v", err)
	}
	if math.Abs(snap.PowerIn()-80e3) > 1e-6 {
		t.Errorf("吸收功率受限: 期望 80000, 实际 %v", snap.PowerIn())
	}
}
