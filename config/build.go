package config

import (
	"fmt"
	"powertrain/drivetrain"
	"powertrain/element"
	"powertrain/element/base"
	"powertrain/road"
	"powertrain/simulation"
	"powertrain/types"
	"powertrain/vehicle"
)

// Build 按配置创建整车和仿真，opts 追加在配置生成的选项之后
func (c *Config) Build(opts ...simulation.Option) (*simulation.Simulation, error) {
	v, err := c.BuildVehicle()
	if err != nil {
		return nil, err
	}
	list := make([]simulation.Option, 0, len(opts)+3)
	if !c.Derived.Resolve {
		list = append(list, simulation.WithoutResolution())
	}
	if c.Derived.Brake != nil {
		list = append(list, simulation.WithBrake(c.Derived.Brake))
	}
	if r := c.Simulation.RoadLoad; r != nil {
		track, err := r.Track()
		if err != nil {
			return nil, err
		}
		list = append(list, simulation.WithRoad(track, r.Rolling))
	}
	list = append(list, opts...)
	s := c.Simulation
	return simulation.New(s.Name, s.TimeSteps, s.DeltaT, c.Derived.Throttle, v, list...)
}

// BuildVehicle 创建整车：传动系统、元件和连接
func (c *Config) BuildVehicle() (*vehicle.Vehicle, error) {
	dt, err := c.Vehicle.DriveTrain.Build()
	if err != nil {
		return nil, err
	}
	v, err := vehicle.New(c.Vehicle.Body.Body(), dt)
	if err != nil {
		return nil, err
	}
	for i, comp := range c.Components {
		if comp.Name == "" {
			return nil, fmt.Errorf("%w: 第 %d 个元件没有名称", types.ErrInvalidParameter, i)
		}
		node, err := element.NewElement(comp.Type, types.ComponentID(comp.Name), comp.Values)
		if err != nil {
			return nil, err
		}
		if err := v.AddComponent(node); err != nil {
			return nil, err
		}
	}
	for i, l := range c.Links {
		if err := l.connect(v); err != nil {
			return nil, fmt.Errorf("第 %d 个连接: %w", i, err)
		}
	}
	return v, nil
}

// Body 车身参数
func (b BodyConfig) Body() vehicle.Body {
	return vehicle.Body{
		Mass:            b.Mass,
		Height:          b.Height,
		Length:          b.Length,
		FrontArea:       b.FrontArea,
		RearArea:        b.RearArea,
		DragCoefficient: b.DragCoefficient,
		AxleDistance:    b.AxleDistance,
		CGLocation:      b.CGLocation,
	}
}

// Build 创建传动系统
func (d DriveTrainConfig) Build() (*drivetrain.DriveTrain, error) {
	drive, err := drivetrain.ParseWheelDrive(d.Drive)
	if err != nil {
		return nil, err
	}
	gb, err := element.NewConverter(base.GearBoxType, "gearbox", d.GearBox)
	if err != nil {
		return nil, err
	}
	diff, err := element.NewConverter(base.DifferentialType, "differential", d.Differential)
	if err != nil {
		return nil, err
	}
	front, err := d.FrontAxle.Axle()
	if err != nil {
		return nil, fmt.Errorf("前轴: %w", err)
	}
	rear, err := d.RearAxle.Axle()
	if err != nil {
		return nil, fmt.Errorf("后轴: %w", err)
	}
	return drivetrain.New(front, rear, drive, gb, diff)
}

// Axle 创建车轴
func (a AxleConfig) Axle() (drivetrain.Axle, error) {
	return drivetrain.NewAxle(a.Inertia, a.Mass, a.Wheels, drivetrain.Wheel{
		Radius:   a.Wheel.Radius,
		Width:    a.Wheel.Width,
		Mass:     a.Wheel.Mass,
		Pressure: a.Wheel.Pressure,
	})
}

func (l LinkConfig) connect(v *vehicle.Vehicle) error {
	if l.DriveTrain != "" {
		if l.From != nil || l.To != nil {
			return fmt.Errorf("%w: drive_train 不能与 from/to 同时使用", types.ErrInvalidParameter)
		}
		return v.ConnectDriveTrain(types.ComponentID(l.DriveTrain))
	}
	if l.From == nil || l.To == nil {
		return fmt.Errorf("%w: 缺少 from 或 to", types.ErrInvalidParameter)
	}
	from, err := l.From.Endpoint()
	if err != nil {
		return err
	}
	to, err := l.To.Endpoint()
	if err != nil {
		return err
	}
	return v.AddLink(types.Link{From: from, To: to})
}

// Endpoint 解析端点
func (e EndpointConfig) Endpoint() (types.Endpoint, error) {
	role, err := types.ParsePortRole(e.Port)
	if err != nil {
		return types.Endpoint{}, err
	}
	return types.Endpoint{ID: types.ComponentID(e.Component), Role: role}, nil
}

// Track 创建道路，没有路段时为平直道路
func (r RoadConfig) Track() (*road.Track, error) {
	if len(r.Segments) == 0 {
		surface, err := road.ParseSurface(r.Surface)
		if err != nil {
			return nil, err
		}
		return road.Flat(surface), nil
	}
	segments := make([]road.Segment, len(r.Segments))
	for i, s := range r.Segments {
		surface, err := road.ParseSurface(s.Surface)
		if err != nil {
			return nil, err
		}
		segments[i] = road.Segment{Length: s.Length, Grade: s.GradePercent, Surface: surface}
	}
	return road.NewTrack(r.BaseAltitude, segments...)
}
