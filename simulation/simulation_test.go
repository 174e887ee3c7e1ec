package simulation

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"powertrain/drivetrain"
	"powertrain/element"
	"powertrain/element/base"
	"powertrain/road"
	"powertrain/types"
	"powertrain/vehicle"
	"testing"
)

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func newVehicle(t *testing.T) *vehicle.Vehicle {
	t.Helper()
	gb, err := element.NewConverter(base.GearBoxType, "gearbox", map[string]float64{"ratio": 2})
	if err != nil {
		t.Fatalf("创建变速箱失败: %v", err)
	}
	diff, err := element.NewConverter(base.DifferentialType, "differential", map[string]float64{"ratio": 4})
	if err != nil {
		t.Fatalf("创建差速器失败: %v", err)
	}
	axle, err := drivetrain.NewAxle(1, 20, 2, drivetrain.Wheel{Radius: 0.3, Width: 0.2, Mass: 10})
	if err != nil {
		t.Fatalf("创建车轴失败: %v", err)
	}
	dt, err := drivetrain.New(axle, axle, drivetrain.FrontWheelDrive, gb, diff)
	if err != nil {
		t.Fatalf("创建传动系统失败: %v", err)
	}
	v, err := vehicle.New(vehicle.Body{Mass: 1200, FrontArea: 2.2, DragCoefficient: 0.3}, dt)
	if err != nil {
		t.Fatalf("创建整车失败: %v", err)
	}
	return v
}

func add(t *testing.T, v *vehicle.Vehicle, nodeType element.NodeType, id types.ComponentID, value map[string]float64) element.NodeFace {
	t.Helper()
	c, err := element.NewElementValue(nodeType, id, value)
	if err != nil {
		t.Fatalf("创建元件 %s 失败: %v", id, err)
	}
	if err := v.AddComponent(c); err != nil {
		t.Fatalf("添加元件 %s 失败: %v", id, err)
	}
	return c
}

func connect(t *testing.T, v *vehicle.Vehicle, from, to types.ComponentID) {
	t.Helper()
	if err := v.Connect(from, types.OutputPort, to, types.InputPort); err != nil {
		t.Fatalf("连接 %s -> %s 失败: %v", from, to, err)
	}
}

func constant(n int, c float64) []float64 {
	list := make([]float64, n)
	for i := range list {
		list[i] = c
	}
	return list
}

// electricVehicle 电池 -> 电机
func electricVehicle(t *testing.T) *vehicle.Vehicle {
	t.Helper()
	v := newVehicle(t)
	add(t, v, base.BatteryType, "battery", map[string]float64{"nominal_energy": 5e6, "max_power": 250e3})
	add(t, v, base.MotorType, "motor", map[string]float64{"inertia": 20, "efficiency": 0.91})
	connect(t, v, "battery", "motor")
	return v
}

func TestElectricVehicle(t *testing.T) {
	v := electricVehicle(t)
	sim, err := New("ev", 800, 0.1, constant(800, 1), v, quiet, WithoutResolution())
	if err != nil {
		t.Fatalf("创建仿真失败: %v", err)
	}
	if err := sim.Simulate(100); err != nil {
		t.Fatalf("仿真失败: %v", err)
	}
	states := sim.States("motor")
	if len(states) != 800 {
		t.Fatalf("历史长度: 期望 800, 实际 %d", len(states))
	}
	prev := 0.0
	for i, s := range states {
		if s.State.Output.Rpm < prev-1e-9 {
			t.Fatalf("第 %d 步转速下降: %v < %v", i, s.State.Output.Rpm, prev)
		}
		prev = s.State.Output.Rpm
		if want := s.PowerOut() / 0.91; math.Abs(s.PowerIn()-want) > 1e-9*math.Max(1, want) {
			t.Fatalf("第 %d 步输入功率: 期望 %v, 实际 %v", i, want, s.PowerIn())
		}
	}
	// 达到最高转速后转矩等于负载
	last := states[len(states)-1]
	if math.Abs(last.IO.Output.Torque-100) > 1e-6 {
		t.Errorf("稳态转矩: 期望 100, 实际 %v", last.IO.Output.Torque)
	}
	// 不自动处理请求时能量源不消耗
	battery, _ := v.Component("battery")
	if battery.(*base.BatteryPack).SOC() != 1 {
		t.Errorf("能量源不应消耗: soc = %v", battery.(*base.BatteryPack).SOC())
	}
	rec := sim.History["motor"]
	if rec.ComponentType != "electric_motor" || rec.StateType != StateConverter {
		t.Errorf("记录类型错误: %s %s", rec.ComponentType, rec.StateType)
	}
}

func TestSourceDepletion(t *testing.T) {
	v := electricVehicle(t)
	sim, err := New("ev", 800, 0.1, constant(800, 1), v, quiet)
	if err != nil {
		t.Fatalf("创建仿真失败: %v", err)
	}
	if err := sim.Simulate(100); err != nil {
		t.Fatalf("仿真失败: %v", err)
	}
	battery := sim.States("battery")
	motor := sim.States("motor")
	used := 0.0
	for i := range motor {
		used += motor[i].PowerIn() * sim.Dt
		if i > 0 && battery[i].State.Internal.Energy > battery[i-1].State.Internal.Energy {
			t.Fatalf("第 %d 步电池能量增加", i)
		}
	}
	drop := 5e6 - battery[len(battery)-1].State.Internal.Energy
	if math.Abs(drop*0.95-used) > 1e-6*used {
		t.Errorf("能量守恒: 电池供给 %v, 电机消耗 %v", drop*0.95, used)
	}
	b, _ := v.Component("battery")
	if soc := b.(*base.BatteryPack).SOC(); soc > 1e-6 {
		t.Errorf("电池应耗尽: soc = %v", soc)
	}
	if p := motor[len(motor)-1].PowerOut(); p > 1 {
		t.Errorf("电池耗尽后电机输出: 期望 0, 实际 %v", p)
	}
}

func TestNestedRequest(t *testing.T) {
	v := newVehicle(t)
	add(t, v, base.MotorType, "motor", map[string]float64{"inertia": 20, "efficiency": 0.91})
	add(t, v, base.RectifierType, "rectifier", nil)
	add(t, v, base.InverterType, "inverter", nil)
	battery := add(t, v, base.BatteryType, "battery", nil).(*base.BatteryPack)
	connect(t, v, "battery", "inverter")
	connect(t, v, "inverter", "rectifier")
	connect(t, v, "rectifier", "motor")
	sim, err := New("chain", 1, 0.1, []float64{0.5}, v, quiet)
	if err != nil {
		t.Fatalf("创建仿真失败: %v", err)
	}
	if err := sim.Simulate(10); err != nil {
		t.Fatalf("仿真失败: %v", err)
	}
	draw := sim.States("motor")[0].PowerIn() * sim.Dt
	if draw <= 0 {
		t.Fatalf("电机应消耗电能: %v", draw)
	}
	want := draw / 0.97 / 0.97 / 0.95
	if got := battery.MaxEnergy() - battery.Energy(); math.Abs(got-want) > 1e-9*want {
		t.Errorf("电池能量减少: 期望 %v, 实际 %v", want, got)
	}
	if p := sim.States("rectifier")[0].PowerIn(); math.Abs(p-draw/sim.Dt/0.97) > 1e-6 {
		t.Errorf("整流器输入功率: 期望 %v, 实际 %v", draw/sim.Dt/0.97, p)
	}
	if n := v.Requests.Count(); n != 3 {
		t.Errorf("请求数量: 期望 3, 实际 %d", n)
	}
	if n := v.Requests.PendingCount(); n != 0 {
		t.Errorf("不应有未满足的请求: %d", n)
	}
}

func TestSharedSupplier(t *testing.T) {
	// 两个电机共用整流器的输出端
	v := newVehicle(t)
	add(t, v, base.MotorType, "m1", map[string]float64{"inertia": 20, "efficiency": 0.91})
	add(t, v, base.MotorType, "m2", map[string]float64{"inertia": 20, "efficiency": 0.91})
	add(t, v, base.RectifierType, "rectifier", nil)
	add(t, v, base.InverterType, "inverter", nil)
	battery := add(t, v, base.BatteryType, "battery", nil).(*base.BatteryPack)
	connect(t, v, "battery", "inverter")
	connect(t, v, "inverter", "rectifier")
	connect(t, v, "rectifier", "m1")
	connect(t, v, "rectifier", "m2")
	sim, err := New("shared", 5, 0.1, constant(5, 0.5), v, quiet)
	if err != nil {
		t.Fatalf("创建仿真失败: %v", err)
	}
	if err := sim.Simulate(10); err != nil {
		t.Fatalf("仿真失败: %v", err)
	}
	m1, m2 := sim.States("m1"), sim.States("m2")
	for i := range m1 {
		if m1[i].PowerIn() <= 0 {
			t.Fatalf("第 %d 步 m1 应消耗电能", i)
		}
		if math.Abs(m1[i].PowerIn()-m2[i].PowerIn()) > 1e-9*m1[i].PowerIn() {
			t.Errorf("第 %d 步输入功率: m1 %v, m2 %v", i, m1[i].PowerIn(), m2[i].PowerIn())
		}
		if math.Abs(m1[i].IO.Output.Torque-m2[i].IO.Output.Torque) > 1e-9 {
			t.Errorf("第 %d 步转矩: m1 %v, m2 %v", i, m1[i].IO.Output.Torque, m2[i].IO.Output.Torque)
		}
	}
	// 第一步电池供给两个电机的全部消耗
	draw := (m1[0].PowerIn() + m2[0].PowerIn()) * sim.Dt
	if p := sim.States("rectifier")[0].PowerIn(); math.Abs(p-draw/sim.Dt/0.97) > 1e-6 {
		t.Errorf("整流器输入功率: 期望 %v, 实际 %v", draw/sim.Dt/0.97, p)
	}
	energy := sim.States("battery")[0].State.Internal.Energy
	want := draw / 0.97 / 0.97 / 0.95
	if got := battery.MaxEnergy() - energy; math.Abs(got-want) > 1e-9*want {
		t.Errorf("电池能量减少: 期望 %v, 实际 %v", want, got)
	}
}

func TestFuelVehicle(t *testing.T) {
	v := newVehicle(t)
	tank := add(t, v, base.GasolineTankType, "tank", nil).(*base.FuelTank)
	add(t, v, base.GasolineEngineType, "engine", nil)
	connect(t, v, "tank", "engine")
	if err := v.ConnectDriveTrain("engine"); err != nil {
		t.Fatalf("连接传动系统失败: %v", err)
	}
	sim, err := New("ice", 100, 0.1, constant(100, 0.5), v, quiet)
	if err != nil {
		t.Fatalf("创建仿真失败: %v", err)
	}
	if err := sim.Simulate(20); err != nil {
		t.Fatalf("仿真失败: %v", err)
	}
	burned := 0.0
	for _, s := range sim.States("engine") {
		burned += s.FuelConsumptionIn() * sim.Dt
	}
	if burned <= 0 {
		t.Fatalf("发动机应消耗燃料")
	}
	if got := tank.Capacity() - tank.Amount(); math.Abs(got-burned) > 1e-9*burned {
		t.Errorf("燃料消耗: 期望 %v, 实际 %v", burned, got)
	}
	last := sim.Trace[len(sim.Trace)-1]
	if !(last.Velocity > 0) || !(last.Position > 0) {
		t.Errorf("车辆应前进: 车速 %v, 位置 %v", last.Velocity, last.Position)
	}
	dt := sim.States(types.DriveTrainID)
	if len(dt) != 100 || dt[len(dt)-1].IO.Output.Torque <= 0 {
		t.Errorf("传动系统应输出转矩")
	}
}

func TestRegenerativeBraking(t *testing.T) {
	v := electricVehicle(t)
	if err := v.ConnectDriveTrain("motor"); err != nil {
		t.Fatalf("连接传动系统失败: %v", err)
	}
	throttle := append(constant(50, 1), constant(20, 0)...)
	brake := append(constant(50, 0), constant(20, 1)...)
	sim, err := New("regen", 70, 0.1, throttle, v, quiet, WithBrake(brake))
	if err != nil {
		t.Fatalf("创建仿真失败: %v", err)
	}
	if err := sim.Simulate(100); err != nil {
		t.Fatalf("仿真失败: %v", err)
	}
	battery := sim.States("battery")
	motor := sim.States("motor")
	if e1, e0 := battery[50].State.Internal.Energy, battery[49].State.Internal.Energy; !(e1 > e0) {
		t.Errorf("制动时电池应回充: %v <= %v", e1, e0)
	}
	if !motor[50].Recovering || motor[50].PowerIn() >= 0 {
		t.Errorf("制动时电机应回收能量: %v", motor[50].PowerIn())
	}
	if !sim.States(types.DriveTrainID)[50].Recovering {
		t.Errorf("制动时传动系统应标记回收")
	}
	if sim.Trace[60].Brake != 1 || sim.Trace[60].Throttle != 0 {
		t.Errorf("整车状态应记录制动信号")
	}
}

func TestRoadLoad(t *testing.T) {
	v := electricVehicle(t)
	if err := v.ConnectDriveTrain("motor"); err != nil {
		t.Fatalf("连接传动系统失败: %v", err)
	}
	hill, err := road.NewTrack(0, road.Segment{Length: 1e6, Grade: 5})
	if err != nil {
		t.Fatalf("创建道路失败: %v", err)
	}
	run := func(opts ...Option) *Simulation {
		sim, err := New("road", 50, 0.1, constant(50, 0.5), v, append(opts, quiet)...)
		if err != nil {
			t.Fatalf("创建仿真失败: %v", err)
		}
		if err := sim.Simulate(0); err != nil {
			t.Fatalf("仿真失败: %v", err)
		}
		return sim
	}
	flat := run(WithRoad(road.Flat(road.DryAsphalt), 0.015))
	uphill := run(WithRoad(hill, 0.015))
	f, u := flat.Trace[49], uphill.Trace[49]
	if !(f.Velocity > u.Velocity) {
		t.Errorf("上坡车速应更低: 平路 %v, 上坡 %v", f.Velocity, u.Velocity)
	}
	if !(u.LoadTorque > f.LoadTorque) {
		t.Errorf("上坡负载应更大: 平路 %v, 上坡 %v", f.LoadTorque, u.LoadTorque)
	}
	for i := 1; i < len(flat.Trace); i++ {
		if flat.Trace[i].Position < flat.Trace[i-1].Position {
			t.Fatalf("第 %d 步位置后退", i)
		}
	}
}

func TestRunError(t *testing.T) {
	v := electricVehicle(t)
	if _, err := New("bad", 10, 0.1, constant(5, 1), v); !errors.Is(err, types.ErrControlSignal) {
		t.Errorf("控制信号长度不足应返回错误: %v", err)
	}
	if _, err := New("bad", 10, 0.1, constant(10, 1.5), v); !errors.Is(err, types.ErrControlSignal) {
		t.Errorf("控制信号超出范围应返回错误: %v", err)
	}
	if _, err := New("bad", 10, 0, constant(10, 1), v); !errors.Is(err, types.ErrTimeStep) {
		t.Errorf("步长为0应返回错误: %v", err)
	}
	// 机械环路在第一步中止
	add(t, v, base.GearBoxType, "g1", nil)
	add(t, v, base.GearBoxType, "g2", nil)
	connect(t, v, "g1", "g2")
	connect(t, v, "g2", "g1")
	sim, err := New("cycle", 10, 0.1, constant(10, 1), v, quiet)
	if err != nil {
		t.Fatalf("创建仿真失败: %v", err)
	}
	err = sim.Simulate(0)
	var runErr *RunError
	if !errors.As(err, &runErr) || !errors.Is(err, types.ErrCyclicLink) {
		t.Fatalf("应返回 RunError: %v", err)
	}
	if runErr.Tick != 0 || runErr.ComponentID != "g1" {
		t.Errorf("出错位置: 第 %d 步 %s", runErr.Tick, runErr.ComponentID)
	}
	if len(sim.States("motor")) != 0 {
		t.Errorf("出错的步不应记录历史")
	}
	b, _ := v.Component("battery")
	if b.(*base.BatteryPack).SOC() != 1 {
		t.Errorf("出错时应回滚")
	}
}

func TestDeterminism(t *testing.T) {
	v := electricVehicle(t)
	var ticks int
	sim, err := New("ev", 100, 0.1, constant(100, 0.8), v, quiet,
		WithObserver(func(int, vehicle.Snapshot) { ticks++ }))
	if err != nil {
		t.Fatalf("创建仿真失败: %v", err)
	}
	if err := sim.Simulate(50); err != nil {
		t.Fatalf("仿真失败: %v", err)
	}
	first := append([]element.Snapshot(nil), sim.States("motor")...)
	if err := sim.Simulate(50); err != nil {
		t.Fatalf("仿真失败: %v", err)
	}
	for i, s := range sim.States("motor") {
		if s != first[i] {
			t.Fatalf("第 %d 步结果不同", i)
		}
	}
	if ticks != 200 {
		t.Errorf("回调次数: 期望 200, 实际 %d", ticks)
	}
}
