// Package simulation 离散时间仿真：按步推进全部元件并记录历史
package simulation

import (
	"fmt"
	"log/slog"
	"math"
	"powertrain/drivetrain"
	"powertrain/element"
	"powertrain/road"
	"powertrain/types"
	"powertrain/vehicle"
)

// 记录类型
const (
	StateConverter  = "converter"   // 转换元件
	StateSource     = "source"      // 能量源
	StateDriveTrain = "drive_train" // 传动系统
)

// Record 单个元件的历史记录
type Record struct {
	Name          types.ComponentID  // 元件标识
	ComponentType string             // 元件类型名称
	StateType     string             // 记录类型
	States        []element.Snapshot // 每步一个快照
}

// RunError 仿真中止时的错误
type RunError struct {
	Tick        int               // 仿真步
	Time        float64           // 仿真时间(s)
	ComponentID types.ComponentID // 出错元件
	Err         error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("第 %d 步（时间 %.3fs）元件 %s: %v", e.Tick, e.Time, e.ComponentID, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Option 仿真选项
type Option func(*Simulation)

// WithLogger 日志
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithoutResolution 不自动向能量源请求，能量源不消耗
func WithoutResolution() Option {
	return func(s *Simulation) { s.resolve = false }
}

// WithBrake 每步的制动信号[0,1]
func WithBrake(brake []float64) Option {
	return func(s *Simulation) { s.Brake = brake }
}

// WithRoad 道路负载，rolling 为滚动阻力系数
func WithRoad(track *road.Track, rolling float64) Option {
	return func(s *Simulation) { s.track, s.rolling = track, rolling }
}

// WithObserver 每步完成后的回调
func WithObserver(call func(tick int, snap vehicle.Snapshot)) Option {
	return func(s *Simulation) { s.observer = call }
}

// Simulation 仿真
type Simulation struct {
	Name      string
	TimeSteps int                           // 步数
	Dt        float64                       // 步长(s)
	Control   []float64                     // 每步的油门信号[0,1]
	Brake     []float64                     // 每步的制动信号[0,1]，可为空
	Vehicle   *vehicle.Vehicle              // 整车
	History   map[types.ComponentID]*Record // 元件历史
	Order     []types.ComponentID           // 历史记录顺序
	Trace     []vehicle.Snapshot            // 整车历史
	Tick      int                           // 当前步
	logger    *slog.Logger                  // 日志
	resolve   bool                          // 自动处理请求
	track     *road.Track                   // 道路
	rolling   float64                       // 滚动阻力系数
	observer  func(int, vehicle.Snapshot)   // 每步回调
	tick      tickState                     // 当前步的中间状态
}

// tickState 一个仿真步内的中间状态
type tickState struct {
	throttle   float64                       // 油门
	brake      float64                       // 制动
	loadTorque float64                       // 传动系统输入轴负载转矩(N·m)
	done       map[types.ComponentID]bool    // 本步已计算的元件
	budget     map[types.ComponentID]float64 // 本步剩余可供给的输出(J)
	demand     map[types.ComponentID]float64 // 按需元件的需求功率(W)
	draw       map[types.ComponentID]float64 // 本步已从上游取得的能量(J)
	active     map[types.ComponentID]bool    // 正在计算的元件
}

// New 创建仿真，control 长度不少于 timeSteps
func New(name string, timeSteps int, dt float64, control []float64, v *vehicle.Vehicle, opts ...Option) (*Simulation, error) {
	if timeSteps <= 0 {
		return nil, fmt.Errorf("%w: 步数 %d 必须大于 0", types.ErrInvalidParameter, timeSteps)
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: 步长 %v 必须大于 0", types.ErrTimeStep, dt)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: 缺少整车", types.ErrInvalidParameter)
	}
	s := &Simulation{
		Name:      name,
		TimeSteps: timeSteps,
		Dt:        dt,
		Control:   control,
		Vehicle:   v,
		logger:    slog.Default(),
		resolve:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := checkSignal("油门", s.Control, timeSteps); err != nil {
		return nil, err
	}
	if s.Brake != nil {
		if err := checkSignal("制动", s.Brake, timeSteps); err != nil {
			return nil, err
		}
	}
	if s.rolling < 0 {
		return nil, fmt.Errorf("%w: 滚动阻力系数 %v 小于 0", types.ErrInvalidParameter, s.rolling)
	}
	return s, nil
}

func checkSignal(name string, signal []float64, timeSteps int) error {
	if len(signal) < timeSteps {
		return fmt.Errorf("%w: %s信号长度 %d 小于步数 %d", types.ErrControlSignal, name, len(signal), timeSteps)
	}
	for i, c := range signal[:timeSteps] {
		if math.IsNaN(c) || c < 0 || c > 1 {
			return fmt.Errorf("%w: 第 %d 步%s信号 %v 不在 [0, 1]", types.ErrControlSignal, i, name, c)
		}
	}
	return nil
}

// Time 第 tick 步结束时的仿真时间(s)
func (s *Simulation) Time(tick int) float64 { return float64(tick+1) * s.Dt }

// Simulate 从初始状态运行全部仿真步，loadTorque 为传动系统输入轴的恒定负载转矩。
// 出错时全部元件回滚到最后完成的一步，历史保留已完成的步。
func (s *Simulation) Simulate(loadTorque float64) error {
	v := s.Vehicle
	// 初始化所有元件状态
	v.Reset()
	s.initHistory()
	s.logger.Info("仿真开始", "name", s.Name, "time_steps", s.TimeSteps, "dt", s.Dt,
		"components", len(v.Context.Nodelist), "resolve", s.resolve)
	for tick := 0; tick < s.TimeSteps; tick++ {
		s.Tick = tick
		if id, err := s.step(tick, loadTorque); err != nil {
			// 丢弃本步的修改
			v.Rollback()
			s.logger.Error("仿真中止", "name", s.Name, "tick", tick, "component", id, "err", err)
			return &RunError{Tick: tick, Time: s.Time(tick), ComponentID: id, Err: err}
		}
		// 接受本步状态
		v.Update()
		s.record()
		if s.observer != nil {
			s.observer(tick, v.Snap)
		}
	}
	s.logger.Info("仿真结束", "name", s.Name, "time", s.Time(s.TimeSteps-1), "position", v.Snap.Position,
		"velocity", v.Snap.Velocity)
	return nil
}

// step 计算一个仿真步，出错时返回出错元件
func (s *Simulation) step(tick int, loadTorque float64) (types.ComponentID, error) {
	v := s.Vehicle
	v.StartTick()
	s.tick = tickState{
		throttle: s.Control[tick],
		done:     make(map[types.ComponentID]bool),
		budget:   make(map[types.ComponentID]float64),
		demand:   make(map[types.ComponentID]float64),
		draw:     make(map[types.ComponentID]float64),
		active:   make(map[types.ComponentID]bool),
	}
	if s.Brake != nil {
		s.tick.brake = s.Brake[tick]
	}
	s.tick.loadTorque = loadTorque + s.roadTorque()
	// 按添加顺序计算转换元件，自动处理请求时按需元件在被请求时计算
	for _, c := range v.Converters {
		if s.resolve && c.DemandDriven() {
			continue
		}
		if err := s.process(c); err != nil {
			return c.ID, err
		}
	}
	// 没有被请求的按需元件
	for _, c := range v.Converters {
		if err := s.process(c); err != nil {
			return c.ID, err
		}
	}
	// 未被使用的发电量回充能量源
	if s.resolve {
		for _, c := range v.Converters {
			if err := s.recharge(c); err != nil {
				return c.ID, err
			}
		}
	}
	if err := s.driveTrain(); err != nil {
		return types.DriveTrainID, err
	}
	s.updateVehicle(tick)
	return "", nil
}

// control 元件的控制信号
func (s *Simulation) control(c *element.Converter) float64 {
	if in, ok := c.Port(types.InputPort); ok && in.Medium == types.MediumMechanical {
		// 齿轮、发电机随上游转动
		return 1
	}
	if c.DemandDriven() {
		return 1
	}
	if c.Reversible() {
		return math.Max(-1, math.Min(1, s.tick.throttle-s.tick.brake))
	}
	return s.tick.throttle
}

// process 计算转换元件的一步，每步只计算一次
func (s *Simulation) process(c *element.Converter) error {
	if s.tick.done[c.ID] {
		return nil
	}
	s.tick.done[c.ID] = true
	s.tick.active[c.ID] = true
	defer delete(s.tick.active, c.ID)
	in, err := s.forwardInput(c)
	if err != nil {
		return err
	}
	snap, err := c.Forward(in)
	if err != nil {
		return err
	}
	draw, err := c.Draw(snap, s.Dt)
	if err != nil {
		return err
	}
	if s.resolve {
		snap, draw, err = s.supply(c, in, snap, draw, 0)
		if err != nil {
			return err
		}
	}
	backfill(&snap, draw, s.Dt)
	c.SetSnapshot(snap)
	s.tick.draw[c.ID] = draw
	if out, ok := c.Port(types.OutputPort); ok && out.Medium != types.MediumMechanical {
		s.tick.budget[c.ID] = math.Max(snap.PowerOut(), 0) * s.Dt
	}
	return nil
}

// forwardInput 收集上游流量、负载和转动惯量
func (s *Simulation) forwardInput(c *element.Converter) (element.ForwardInput, error) {
	in := element.ForwardInput{Dt: s.Dt, Control: s.control(c)}
	down, err := s.Vehicle.DownstreamInertia(c.ID)
	if err != nil {
		return in, err
	}
	in.DownstreamInertia = down + s.vehicleInertia(c)
	if out, ok := c.Port(types.OutputPort); ok && out.Medium == types.MediumMechanical {
		if in.LoadTorque, err = s.load(c.ID); err != nil {
			return in, err
		}
	}
	if c.DemandDriven() {
		in.Demand = s.demand(c)
	}
	if port, ok := c.Port(types.InputPort); ok && port.Medium == types.MediumMechanical {
		in.Input.Medium = types.MediumMechanical
		peers, err := s.Vehicle.FindSuppliers(c.ID, types.InputPort)
		if err != nil {
			return in, err
		}
		first := true
		for _, p := range peers {
			u, ok := p.Component.(*element.Converter)
			if !ok {
				continue
			}
			if err := s.process(u); err != nil {
				return in, err
			}
			snap := u.Snapshot()
			in.Input.Torque += snap.IO.Output.Torque
			if first {
				in.InputRpm, first = snap.State.Output.Rpm, false
			}
		}
	}
	return in, nil
}

// load 元件输出轴上的负载转矩
// 连接传动系统或没有下游时为本步负载，齿轮按传动比折算，发电机取其吸收的转矩
func (s *Simulation) load(id types.ComponentID) (float64, error) {
	peers, err := s.Vehicle.Consumers(id)
	if err != nil {
		return 0, err
	}
	if len(peers) == 0 {
		return s.tick.loadTorque, nil
	}
	total := 0.0
	for _, p := range peers {
		if p.IsDriveTrain() {
			total += s.tick.loadTorque
			continue
		}
		c, ok := p.Component.(*element.Converter)
		if !ok {
			continue
		}
		if ratio := c.Value("ratio"); c.Reversible() && ratio > 0 {
			sub, err := s.load(c.ID)
			if err != nil {
				return 0, err
			}
			total += sub / ratio
			continue
		}
		total += c.Snapshot().IO.Input.Torque
	}
	return total, nil
}

// demand 按需元件的需求功率，没有请求时取下游当前的输入功率
func (s *Simulation) demand(c *element.Converter) float64 {
	if d, ok := s.tick.demand[c.ID]; ok {
		return d
	}
	peers, err := s.Vehicle.Consumers(c.ID)
	if err != nil {
		return 0
	}
	total := 0.0
	for _, p := range peers {
		if p.Component != nil {
			total += math.Max(p.Component.Snapshot().PowerIn(), 0)
		}
	}
	return total
}

// vehicleInertia 有道路负载时，车身质量折算到驱动轴的转动惯量
func (s *Simulation) vehicleInertia(c *element.Converter) float64 {
	if s.track == nil {
		return 0
	}
	if ok, err := s.Vehicle.ReachesDriveTrain(c.ID); err != nil || !ok {
		return 0
	}
	dt := s.Vehicle.DriveTrain
	r, ratio := dt.WheelRadius(), dt.Ratio()
	return s.Vehicle.TotalMass() * r * r / (ratio * ratio)
}

// roadTorque 道路阻力折算到传动系统输入轴的转矩
func (s *Simulation) roadTorque() float64 {
	if s.track == nil {
		return 0
	}
	v := s.Vehicle
	r := road.Resistance{
		Mass:            v.TotalMass(),
		DragCoefficient: v.Body.DragCoefficient,
		FrontArea:       v.Body.FrontArea,
		Rolling:         s.rolling,
	}
	force := r.Forces(s.track, v.Snap.Position, v.Snap.Velocity).Total()
	return v.DriveTrain.ReflectTorque(force * v.DriveTrain.WheelRadius())
}

// backfill 按消耗量回填输入端流量
func backfill(snap *element.Snapshot, draw, dt float64) {
	in := &snap.IO.Input
	switch {
	case in.Medium.Is(types.MediumElectric):
		in.Power = draw / dt
		if in.Voltage != 0 {
			in.Current = in.Power / in.Voltage
		}
	case in.Medium.Is(types.MediumFuel):
		in.Flow = draw / dt
	}
}

// driveTrain 传动系统：驱动时正向计算，制动时由车轮反向计算
func (s *Simulation) driveTrain() error {
	v := s.Vehicle
	dt := v.DriveTrain
	peers, err := v.FindSuppliers(types.DriveTrainID, types.InputPort)
	if err != nil {
		return err
	}
	snap := dt.Snapshot()
	snap.IO.Input.Torque, snap.State.Input.Rpm = 0, 0
	first := true
	for _, p := range peers {
		if p.Component == nil {
			continue
		}
		out := p.Component.Snapshot()
		snap.IO.Input.Torque += out.IO.Output.Torque
		if first {
			snap.State.Input.Rpm, first = out.State.Output.Rpm, false
		}
	}
	var step drivetrain.Step
	if snap.IO.Input.Torque < 0 {
		ratio := dt.Ratio()
		snap.IO.Output.Torque = snap.IO.Input.Torque * ratio
		snap.State.Output.Rpm = snap.State.Input.Rpm / ratio
		step, err = dt.ProcessRecover(snap, s.Dt, s.tick.loadTorque, 0)
	} else {
		step, err = dt.ProcessDrive(snap, s.Dt, s.tick.loadTorque, 0)
	}
	if err != nil {
		return err
	}
	dt.Apply(step)
	return nil
}

// updateVehicle 更新整车状态
func (s *Simulation) updateVehicle(tick int) {
	v := s.Vehicle
	prev := v.Snap
	out := v.DriveTrain.Snapshot()
	next := vehicle.Snapshot{
		Time:           s.Time(tick),
		Throttle:       s.tick.throttle,
		Brake:          s.tick.brake,
		LoadTorque:     s.tick.loadTorque,
		TractiveTorque: out.IO.Output.Torque,
		Velocity:       v.DriveTrain.WheelSpeed(out.State.Output.Rpm),
	}
	if s.track != nil {
		// 超过附着力时车轮打滑
		r := road.Resistance{Mass: v.TotalMass()}
		limit := r.TractionLimit(s.track, prev.Position) * v.DriveTrain.WheelRadius()
		next.TractiveTorque = math.Max(-limit, math.Min(limit, next.TractiveTorque))
	}
	next.Acceleration = (next.Velocity - prev.Velocity) / s.Dt
	next.Position = prev.Position + next.Velocity*s.Dt
	v.Snap = next
}

// initHistory 清空历史，按转换元件、能量源、传动系统的顺序建立记录
func (s *Simulation) initHistory() {
	v := s.Vehicle
	s.History = make(map[types.ComponentID]*Record)
	s.Order = s.Order[:0]
	s.Trace = make([]vehicle.Snapshot, 0, s.TimeSteps)
	add := func(id types.ComponentID, componentType, stateType string) {
		s.History[id] = &Record{Name: id, ComponentType: componentType, StateType: stateType,
			States: make([]element.Snapshot, 0, s.TimeSteps)}
		s.Order = append(s.Order, id)
	}
	for _, c := range v.Converters {
		add(c.ID, c.Type().String(), StateConverter)
	}
	for _, src := range v.Sources {
		add(src.GetID(), src.Type().String(), StateSource)
	}
	add(types.DriveTrainID, "drive_train", StateDriveTrain)
}

// record 追加本步的全部快照
func (s *Simulation) record() {
	v := s.Vehicle
	for _, c := range v.Context.Nodelist {
		rec := s.History[c.GetID()]
		rec.States = append(rec.States, c.Snapshot())
	}
	rec := s.History[types.DriveTrainID]
	rec.States = append(rec.States, v.DriveTrain.Snapshot())
	s.Trace = append(s.Trace, v.Snap)
}

// States 元件的历史快照
func (s *Simulation) States(id types.ComponentID) []element.Snapshot {
	if rec, ok := s.History[id]; ok {
		return rec.States
	}
	return nil
}
