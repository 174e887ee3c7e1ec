// Package drivetrain 传动系统：变速箱、差速器和前后两根车轴
package drivetrain

import (
	"fmt"
	"powertrain/element"
	"powertrain/types"
	"strings"
)

// WheelDrive 驱动方式
type WheelDrive uint8

const (
	FrontWheelDrive WheelDrive = iota // 前驱
	RearWheelDrive                    // 后驱
	AllWheelDrive                     // 四驱
)

func (w WheelDrive) String() string {
	switch w {
	case FrontWheelDrive:
		return "front"
	case RearWheelDrive:
		return "rear"
	case AllWheelDrive:
		return "all"
	}
	return fmt.Sprintf("WheelDrive(%d)", uint8(w))
}

// ParseWheelDrive 解析驱动方式
func ParseWheelDrive(s string) (WheelDrive, error) {
	switch strings.ToLower(s) {
	case "front", "fwd":
		return FrontWheelDrive, nil
	case "rear", "rwd":
		return RearWheelDrive, nil
	case "all", "awd":
		return AllWheelDrive, nil
	}
	return 0, fmt.Errorf("%w: 未知驱动方式 %q", types.ErrInvalidParameter, s)
}

// Wheel 车轮
type Wheel struct {
	Radius   float64 // 半径(m)
	Width    float64 // 宽度(m)
	Mass     float64 // 质量(kg)
	Pressure float64 // 胎压(Pa)
}

// Inertia 厚圆环近似，质量集中在轮辋
func (w Wheel) Inertia() float64 { return 0.75 * w.Mass * w.Radius * w.Radius }

// Axle 车轴
type Axle struct {
	AxleInertia float64 // 车轴自身转动惯量(kg·m²)
	AxleMass    float64 // 车轴自身质量(kg)
	Wheels      int     // 车轮数量
	Wheel       Wheel
}

// NewAxle 创建车轴
func NewAxle(inertia, mass float64, wheels int, wheel Wheel) (Axle, error) {
	if !(inertia > 0) || !(mass > 0) {
		return Axle{}, fmt.Errorf("%w: 车轴惯量 %v 质量 %v 必须大于 0", types.ErrInvalidParameter, inertia, mass)
	}
	if wheels < 2 {
		return Axle{}, fmt.Errorf("%w: 车轮数量 %d 小于 2", types.ErrInvalidParameter, wheels)
	}
	if !(wheel.Radius > 0) || wheel.Mass < 0 {
		return Axle{}, fmt.Errorf("%w: 车轮半径 %v 质量 %v", types.ErrInvalidParameter, wheel.Radius, wheel.Mass)
	}
	return Axle{AxleInertia: inertia, AxleMass: mass, Wheels: wheels, Wheel: wheel}, nil
}

// Inertia 车轴和车轮的转动惯量
func (a Axle) Inertia() float64 { return a.AxleInertia + float64(a.Wheels)*a.Wheel.Inertia() }

// Mass 车轴和车轮的质量
func (a Axle) Mass() float64 { return a.AxleMass + float64(a.Wheels)*a.Wheel.Mass }

// DriveTrain 传动系统。变速箱输出在内部连接差速器输入，不经过整车连接。
// 快照输入端对应变速箱输入，输出端对应差速器输出。
type DriveTrain struct {
	FrontAxle    Axle
	RearAxle     Axle
	Drive        WheelDrive
	GearBox      *element.Converter
	Differential *element.Converter
	Snap         element.Snapshot
	OrigSnap     element.Snapshot
}

// New 创建传动系统，变速箱和差速器必须是可逆的机械齿轮元件
func New(front, rear Axle, drive WheelDrive, gearbox, differential *element.Converter) (*DriveTrain, error) {
	for _, g := range []*element.Converter{gearbox, differential} {
		if g == nil {
			return nil, fmt.Errorf("%w: 缺少齿轮元件", types.ErrInvalidParameter)
		}
		in, ok1 := g.Port(types.InputPort)
		out, ok2 := g.Port(types.OutputPort)
		if !ok1 || !ok2 || in.Medium != types.MediumMechanical || out.Medium != types.MediumMechanical {
			return nil, fmt.Errorf("%w: %s 不是机械传动元件", types.ErrIncompatiblePorts, g.ID)
		}
		if !g.Reversible() || g.ConfigPtr.ValueIndex("ratio") < 0 {
			return nil, fmt.Errorf("%w: %s 不是齿轮元件", types.ErrInvalidParameter, g.ID)
		}
	}
	if drive > AllWheelDrive {
		return nil, fmt.Errorf("%w: 驱动方式 %v", types.ErrInvalidParameter, drive)
	}
	d := &DriveTrain{
		FrontAxle:    front,
		RearAxle:     rear,
		Drive:        drive,
		GearBox:      gearbox,
		Differential: differential,
	}
	d.Reset()
	return d, nil
}

// ID 传动系统标识
func (d *DriveTrain) ID() types.ComponentID { return types.DriveTrainID }

// Port 传动系统两端都是双向机械端口
func (d *DriveTrain) Port(types.PortRole) types.Port {
	return *types.BidirectionalPortOf(types.MediumMechanical)
}

// Reversible 传动系统可回收
func (d *DriveTrain) Reversible() bool { return true }

// GearRatio 变速箱传动比
func (d *DriveTrain) GearRatio() float64 { return d.GearBox.Value("ratio") }

// DifferentialRatio 差速器传动比
func (d *DriveTrain) DifferentialRatio() float64 { return d.Differential.Value("ratio") }

// Ratio 总传动比
func (d *DriveTrain) Ratio() float64 { return d.GearRatio() * d.DifferentialRatio() }

// AxleInertia 驱动轴的转动惯量，四驱为两轴之和
func (d *DriveTrain) AxleInertia() float64 {
	switch d.Drive {
	case FrontWheelDrive:
		return d.FrontAxle.Inertia()
	case RearWheelDrive:
		return d.RearAxle.Inertia()
	}
	return d.FrontAxle.Inertia() + d.RearAxle.Inertia()
}

// Inertia 折算到输入轴的转动惯量 = 车轴惯量 / 差速器传动比² / 变速箱传动比²
func (d *DriveTrain) Inertia() float64 {
	gd, gg := d.DifferentialRatio(), d.GearRatio()
	return d.AxleInertia() / (gd * gd) / (gg * gg)
}

// Mass 质量 = 前轴 + 后轴 + 差速器 + 变速箱
func (d *DriveTrain) Mass() float64 {
	return d.FrontAxle.Mass() + d.RearAxle.Mass() + d.Differential.Mass() + d.GearBox.Mass()
}

// WheelRadius 驱动轮半径
func (d *DriveTrain) WheelRadius() float64 {
	if d.Drive == RearWheelDrive {
		return d.RearAxle.Wheel.Radius
	}
	return d.FrontAxle.Wheel.Radius
}

// ReflectTorque 车轮处转矩折算到输入轴
func (d *DriveTrain) ReflectTorque(wheelTorque float64) float64 { return wheelTorque / d.Ratio() }

// WheelSpeed 车速(m/s)
func (d *DriveTrain) WheelSpeed(wheelRpm float64) float64 {
	return wheelRpm * types.RPMToAngVel * d.WheelRadius()
}

// Snapshot 当前快照
func (d *DriveTrain) Snapshot() element.Snapshot { return d.Snap }

// Reset 恢复零流量
func (d *DriveTrain) Reset() {
	port := types.BidirectionalPortOf(types.MediumMechanical)
	d.Snap = element.NewSnapshot(port, port)
	element.CallMark(element.MarkReset, []element.NodeFace{d.GearBox, d.Differential})
	d.OrigSnap = d.Snap
}

// Update 保存状态
func (d *DriveTrain) Update() {
	d.OrigSnap = d.Snap
	element.CallMark(element.MarkUpdate, []element.NodeFace{d.GearBox, d.Differential})
}

// Rollback 恢复到上次保存的状态
func (d *DriveTrain) Rollback() {
	d.Snap = d.OrigSnap
	element.CallMark(element.MarkRollback, []element.NodeFace{d.GearBox, d.Differential})
}

// Step 传动系统一步的计算结果，由 Apply 写回
type Step struct {
	DriveTrain   element.Snapshot
	GearBox      element.Snapshot
	Differential element.Snapshot
}

// Apply 写回计算结果
func (d *DriveTrain) Apply(s Step) {
	d.Snap = s.DriveTrain
	d.GearBox.SetSnapshot(s.GearBox)
	d.Differential.SetSnapshot(s.Differential)
}

// ProcessDrive 驱动：输入转矩和转速先经过变速箱，再经过差速器
func (d *DriveTrain) ProcessDrive(snap element.Snapshot, dt, loadTorque, downstreamInertia float64) (Step, error) {
	gb, err := d.GearBox.Forward(element.ForwardInput{
		Dt:                dt,
		Control:           1,
		LoadTorque:        loadTorque,
		DownstreamInertia: downstreamInertia,
		Input:             snap.IO.Input,
		InputRpm:          snap.State.Input.Rpm,
	})
	if err != nil {
		return Step{}, fmt.Errorf("变速箱: %w", err)
	}
	diff, err := d.Differential.Forward(element.ForwardInput{
		Dt:                dt,
		Control:           1,
		LoadTorque:        loadTorque,
		DownstreamInertia: downstreamInertia,
		Input:             gb.IO.Output,
		InputRpm:          gb.State.Output.Rpm,
	})
	if err != nil {
		return Step{}, fmt.Errorf("差速器: %w", err)
	}
	return Step{DriveTrain: d.compose(snap, gb, diff, false), GearBox: gb, Differential: diff}, nil
}

// ProcessRecover 回收：车轮处转矩先经过差速器反向，再经过变速箱反向
func (d *DriveTrain) ProcessRecover(snap element.Snapshot, dt, loadTorque, upstreamInertia float64) (Step, error) {
	if !(dt > 0) {
		return Step{}, fmt.Errorf("%w: 步长 %v 必须大于 0", types.ErrTimeStep, dt)
	}
	if upstreamInertia < 0 {
		return Step{}, fmt.Errorf("%w: 上游转动惯量 %v 小于 0", types.ErrInvalidParameter, upstreamInertia)
	}
	ds := d.Differential.Snapshot()
	ds.IO.Output = snap.IO.Output
	ds.State.Output = snap.State.Output
	diff, err := d.Differential.Reverse(ds)
	if err != nil {
		return Step{}, fmt.Errorf("差速器: %w", err)
	}
	gs := d.GearBox.Snapshot()
	gs.IO.Output = diff.IO.Input
	gs.State.Output = diff.State.Input
	gb, err := d.GearBox.Reverse(gs)
	if err != nil {
		return Step{}, fmt.Errorf("变速箱: %w", err)
	}
	return Step{DriveTrain: d.compose(snap, gb, diff, true), GearBox: gb, Differential: diff}, nil
}

func (d *DriveTrain) compose(snap, gb, diff element.Snapshot, recovering bool) element.Snapshot {
	out := snap
	out.IO.Input = gb.IO.Input
	out.State.Input = gb.State.Input
	out.IO.Output = diff.IO.Output
	out.State.Output = diff.State.Output
	out.State.Internal = gb.State.Internal
	out.Recovering = recovering
	return out
}
