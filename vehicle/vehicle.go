// Package vehicle 整车：元件集合、连接、车身和传动系统
package vehicle

import (
	"fmt"
	"powertrain/drivetrain"
	"powertrain/element"
	"powertrain/message"
	"powertrain/types"
)

// Body 车身
type Body struct {
	Mass            float64 // 质量(kg)
	Height          float64 // 高度(m)
	Length          float64 // 长度(m)
	FrontArea       float64 // 迎风面积(m²)
	RearArea        float64 // 后部面积(m²)
	DragCoefficient float64 // 风阻系数
	AxleDistance    float64 // 轴距(m)
	CGLocation      float64 // 重心到前轴距离(m)
}

// Validate 检查车身参数
func (b Body) Validate() error {
	if !(b.Mass > 0) {
		return fmt.Errorf("%w: 车身质量 %v 必须大于 0", types.ErrInvalidParameter, b.Mass)
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"height", b.Height}, {"length", b.Length}, {"front_area", b.FrontArea}, {"rear_area", b.RearArea},
		{"drag_coefficient", b.DragCoefficient}, {"axle_distance", b.AxleDistance}, {"cg_location", b.CGLocation},
	}
	for _, f := range fields {
		if f.value < 0 {
			return fmt.Errorf("%w: 车身 %s = %v 小于 0", types.ErrInvalidParameter, f.name, f.value)
		}
	}
	if b.CGLocation > b.AxleDistance && b.AxleDistance > 0 {
		return fmt.Errorf("%w: 重心位置 %v 超出轴距 %v", types.ErrInvalidParameter, b.CGLocation, b.AxleDistance)
	}
	return nil
}

// Snapshot 整车状态
type Snapshot struct {
	Time           float64 // 时间(s)
	Throttle       float64 // 油门[0,1]
	Brake          float64 // 制动[0,1]
	LoadTorque     float64 // 折算到传动系统输入轴的负载转矩(N·m)
	TractiveTorque float64 // 车轮驱动转矩(N·m)
	Velocity       float64 // 车速(m/s)
	Position       float64 // 行驶距离(m)
	Acceleration   float64 // 加速度(m/s²)
}

// Vehicle 整车，元件按标识索引，连接只保存标识
type Vehicle struct {
	Context    *element.Context       // 全部元件，按添加顺序
	Sources    []element.Source       // 能量源
	Converters []*element.Converter   // 转换元件，按添加顺序仿真
	Body       Body                   // 车身
	DriveTrain *drivetrain.DriveTrain // 传动系统
	Links      *types.LinkSet         // 连接
	Requests   *message.Stack         // 请求栈
	Snap       Snapshot               // 整车状态
	OrigSnap   Snapshot               // 整车状态备份
}

// New 创建整车
func New(body Body, dt *drivetrain.DriveTrain) (*Vehicle, error) {
	if err := body.Validate(); err != nil {
		return nil, err
	}
	if dt == nil {
		return nil, fmt.Errorf("%w: 缺少传动系统", types.ErrInvalidParameter)
	}
	return &Vehicle{
		Context:    element.NewContext(),
		Body:       body,
		DriveTrain: dt,
		Links:      types.NewLinkSet(),
		Requests:   message.NewStack(),
	}, nil
}

// AddComponent 添加元件，重复添加同一元件无操作
func (v *Vehicle) AddComponent(c element.NodeFace) error {
	if c.GetID() == types.DriveTrainID {
		return fmt.Errorf("%w: %s 是保留标识", types.ErrInvalidParameter, c.GetID())
	}
	if old, ok := v.Context.Get(c.GetID()); ok {
		if old == c {
			return nil
		}
		return fmt.Errorf("%w: 元件标识 %s 重复", types.ErrInvalidParameter, c.GetID())
	}
	switch e := c.(type) {
	case *element.Converter:
		v.Converters = append(v.Converters, e)
	case element.Source:
		v.Sources = append(v.Sources, e)
	default:
		return fmt.Errorf("%w: %s 既不是转换元件也不是能量源", types.ErrUnknownType, c.GetID())
	}
	v.Context.Add(c)
	return nil
}

// Component 按标识查找元件
func (v *Vehicle) Component(id types.ComponentID) (element.NodeFace, bool) {
	return v.Context.Get(id)
}

// Converter 按标识查找转换元件
func (v *Vehicle) Converter(id types.ComponentID) (*element.Converter, bool) {
	c, ok := v.Context.Get(id)
	if !ok {
		return nil, false
	}
	conv, ok := c.(*element.Converter)
	return conv, ok
}

// Port 端点对应的端口，传动系统两端为双向机械端口
func (v *Vehicle) Port(e types.Endpoint) (types.Port, error) {
	if e.ID == types.DriveTrainID {
		return v.DriveTrain.Port(e.Role), nil
	}
	c, ok := v.Context.Get(e.ID)
	if !ok {
		return types.Port{}, fmt.Errorf("%w: %s", types.ErrUnknownComponent, e.ID)
	}
	p, ok := c.Port(e.Role)
	if !ok {
		return types.Port{}, fmt.Errorf("%w: %s 没有 %s 端口", types.ErrInvalidPort, e.ID, e.Role)
	}
	return p, nil
}

// AddLink 添加连接，两端必须存在且端口兼容，重复添加无操作
func (v *Vehicle) AddLink(l types.Link) error {
	p1, err := v.Port(l.From)
	if err != nil {
		return err
	}
	p2, err := v.Port(l.To)
	if err != nil {
		return err
	}
	if !p1.IsCompatibleWith(p2) {
		return fmt.Errorf("%w: %s(%s) 与 %s(%s)", types.ErrIncompatiblePorts, l.From, p1, l.To, p2)
	}
	v.Links.Add(l)
	return nil
}

// Connect 连接两个元件的端口
func (v *Vehicle) Connect(id1 types.ComponentID, role1 types.PortRole, id2 types.ComponentID, role2 types.PortRole) error {
	return v.AddLink(types.NewLink(id1, role1, id2, role2))
}

// ConnectDriveTrain 将元件的机械输出连接到传动系统
func (v *Vehicle) ConnectDriveTrain(id types.ComponentID) error {
	c, ok := v.Context.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrUnknownComponent, id)
	}
	l := element.CreateDriveTrainLink(c)
	if l == nil {
		return fmt.Errorf("%w: %s 没有机械输出", types.ErrIncompatiblePorts, id)
	}
	return v.AddLink(*l)
}

// TotalMass 整车质量 = 车身 + 元件 + 传动系统
func (v *Vehicle) TotalMass() float64 {
	mass := v.Body.Mass + v.DriveTrain.Mass()
	for _, c := range v.Context.Nodelist {
		mass += c.Mass()
	}
	return mass
}

// Reset 全部元件恢复初始状态
func (v *Vehicle) Reset() {
	v.Context.CallMark(element.MarkReset)
	v.DriveTrain.Reset()
	v.Requests.Reset()
	v.Snap = Snapshot{}
	v.OrigSnap = v.Snap
}

// StartTick 新的仿真步
func (v *Vehicle) StartTick() {
	v.Requests.Reset()
	v.Context.CallMark(element.MarkStartTick)
}

// Update 保存全部状态
func (v *Vehicle) Update() {
	v.Context.Update()
	v.DriveTrain.Update()
	v.OrigSnap = v.Snap
}

// Rollback 恢复到上次保存的状态
func (v *Vehicle) Rollback() {
	v.Context.Rollback()
	v.DriveTrain.Rollback()
	v.Snap = v.OrigSnap
}
