package drivetrain

import (
	"errors"
	"math"
	"powertrain/element"
	"powertrain/element/base"
	"powertrain/types"
	"testing"
)

func newDriveTrain(t *testing.T, drive WheelDrive) *DriveTrain {
	t.Helper()
	gb, err := element.NewConverter(base.GearBoxType, "gearbox", map[string]float64{"ratio": 2, "efficiency": 0.9, "mass": 30})
	if err != nil {
		t.Fatalf("创建变速箱失败: %v", err)
	}
	diff, err := element.NewConverter(base.DifferentialType, "differential", map[string]float64{"ratio": 4, "efficiency": 0.95, "mass": 20})
	if err != nil {
		t.Fatalf("创建差速器失败: %v", err)
	}
	wheel := Wheel{Radius: 0.3, Width: 0.2, Mass: 10, Pressure: 2.2e5}
	front, err := NewAxle(1, 20, 2, wheel)
	if err != nil {
		t.Fatalf("创建前轴失败: %v", err)
	}
	rear, err := NewAxle(0.5, 15, 2, wheel)
	if err != nil {
		t.Fatalf("创建后轴失败: %v", err)
	}
	d, err := New(front, rear, drive, gb, diff)
	if err != nil {
		t.Fatalf("创建传动系统失败: %v", err)
	}
	return d
}

func TestInertia(t *testing.T) {
	d := newDriveTrain(t, FrontWheelDrive)
	axle := 1 + 2*0.75*10*0.3*0.3
	if math.Abs(d.FrontAxle.Inertia()-axle) > 1e-12 {
		t.Errorf("前轴惯量: 期望 %v, 实际 %v", axle, d.FrontAxle.Inertia())
	}
	want := axle / (4 * 4) / (2 * 2)
	if math.Abs(d.Inertia()-want) > 1e-12 {
		t.Errorf("前驱折算惯量: 期望 %v, 实际 %v", want, d.Inertia())
	}
	front := d.Inertia()
	d.Drive = AllWheelDrive
	if d.Inertia() <= front {
		t.Errorf("四驱惯量应大于前驱: %v <= %v", d.Inertia(), front)
	}
	d.Drive = RearWheelDrive
	if want := d.RearAxle.Inertia() / 64; math.Abs(d.Inertia()-want) > 1e-12 {
		t.Errorf("后驱折算惯量: 期望 %v, 实际 %v", want, d.Inertia())
	}
	if want := (20 + 20.0) + (15 + 20.0) + 20 + 30; math.Abs(d.Mass()-want) > 1e-12 {
		t.Errorf("质量: 期望 %v, 实际 %v", want, d.Mass())
	}
}

func TestProcessDrive(t *testing.T) {
	d := newDriveTrain(t, FrontWheelDrive)
	in := d.Snapshot()
	in.IO.Input.Torque = 100
	in.State.Input.Rpm = 4000
	step, err := d.ProcessDrive(in, 0.1, 0, 0)
	if err != nil {
		t.Fatalf("驱动失败: %v", err)
	}
	if want := 100 * 2 * 0.9 * 4 * 0.95; math.Abs(step.DriveTrain.IO.Output.Torque-want) > 1e-9 {
		t.Errorf("车轮转矩: 期望 %v, 实际 %v", want, step.DriveTrain.IO.Output.Torque)
	}
	if want := 4000.0 / 8; math.Abs(step.DriveTrain.State.Output.Rpm-want) > 1e-9 {
		t.Errorf("车轮转速: 期望 %v, 实际 %v", want, step.DriveTrain.State.Output.Rpm)
	}
	if step.DriveTrain.IO.Input.Torque != 100 || step.DriveTrain.State.Input.Rpm != 4000 {
		t.Errorf("输入端应对应变速箱输入")
	}
	if math.Abs(step.GearBox.IO.Output.Torque-step.Differential.IO.Input.Torque) > 1e-12 {
		t.Errorf("变速箱输出应连接差速器输入")
	}
	// 计算不修改元件，Apply 写回
	if d.Snapshot().IO.Output.Torque != 0 {
		t.Errorf("ProcessDrive 不应修改状态")
	}
	d.Apply(step)
	if d.Snapshot().IO.Output.Torque != step.DriveTrain.IO.Output.Torque {
		t.Errorf("Apply 未写回状态")
	}
	d.Rollback()
	if d.Snapshot().IO.Output.Torque != 0 || d.GearBox.Snapshot().IO.Output.Torque != 0 {
		t.Errorf("回滚失败")
	}
	if _, err := d.ProcessDrive(in, 0, 0, 0); !errors.Is(err, types.ErrTimeStep) {
		t.Errorf("步长为0应返回错误: %v", err)
	}
}

func TestProcessRecover(t *testing.T) {
	d := newDriveTrain(t, RearWheelDrive)
	out := d.Snapshot()
	out.IO.Output.Torque = -400
	out.State.Output.Rpm = 500
	step, err := d.ProcessRecover(out, 0.1, 0, 0)
	if err != nil {
		t.Fatalf("回收失败: %v", err)
	}
	if want := 500.0 * 8; math.Abs(step.DriveTrain.State.Input.Rpm-want) > 1e-9 {
		t.Errorf("输入转速: 期望 %v, 实际 %v", want, step.DriveTrain.State.Input.Rpm)
	}
	// 回收功率小于车轮处功率
	wheel := math.Abs(step.DriveTrain.PowerOut())
	shaft := math.Abs(step.DriveTrain.PowerIn())
	if want := wheel * 0.97 * 0.97; math.Abs(shaft-want) > 1e-6 {
		t.Errorf("回收功率: 期望 %v, 实际 %v", want, shaft)
	}
	if !step.DriveTrain.Recovering {
		t.Errorf("回收时应标记 Recovering")
	}
}

func TestWheelDrive(t *testing.T) {
	for _, s := range []string{"front", "rear", "all"} {
		w, err := ParseWheelDrive(s)
		if err != nil || w.String() != s {
			t.Errorf("解析驱动方式 %q 失败: %v %v", s, w, err)
		}
	}
	if _, err := ParseWheelDrive("middle"); !errors.Is(err, types.ErrInvalidParameter) {
		t.Errorf("未知驱动方式应返回错误")
	}
	if _, err := NewAxle(1, 1, 1, Wheel{Radius: 0.3}); err == nil {
		t.Errorf("车轮数量小于2应返回错误")
	}
	d := newDriveTrain(t, FrontWheelDrive)
	if math.Abs(d.ReflectTorque(800)-100) > 1e-12 {
		t.Errorf("折算转矩: 期望 100, 实际 %v", d.ReflectTorque(800))
	}
	motor, err := element.NewConverter(base.MotorType, "m", nil)
	if err != nil {
		t.Fatalf("创建电机失败: %v", err)
	}
	if _, err := New(d.FrontAxle, d.RearAxle, FrontWheelDrive, motor, d.Differential); err == nil {
		t.Errorf("电机不能作为变速箱")
	}
}
