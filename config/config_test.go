package config

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"powertrain/simulation"
	"powertrain/types"
	"testing"
)

var quiet = simulation.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func write(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vehicle.yaml")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("加载默认配置失败: %v", err)
	}
	if len(cfg.Components) != 2 || len(cfg.Links) != 2 {
		t.Fatalf("默认元件 %d 连接 %d", len(cfg.Components), len(cfg.Links))
	}
	if len(cfg.Derived.Throttle) != cfg.Simulation.TimeSteps || cfg.Derived.Throttle[0] != 1 {
		t.Errorf("油门信号错误: %d", len(cfg.Derived.Throttle))
	}
	if !cfg.Derived.Resolve || cfg.Derived.Brake != nil {
		t.Errorf("默认应自动处理请求且没有制动")
	}
	if math.Abs(cfg.Duration()-60) > 1e-9 {
		t.Errorf("时长: 期望 60, 实际 %v", cfg.Duration())
	}
	sim, err := cfg.Build(quiet)
	if err != nil {
		t.Fatalf("创建仿真失败: %v", err)
	}
	v := sim.Vehicle
	if len(v.Converters) != 1 || len(v.Sources) != 1 || v.Links.Len() != 2 {
		t.Errorf("整车元件 %d %d 连接 %d", len(v.Converters), len(v.Sources), v.Links.Len())
	}
	if v.DriveTrain.Ratio() != 8 {
		t.Errorf("传动比: 期望 8, 实际 %v", v.DriveTrain.Ratio())
	}
	if err := sim.Simulate(cfg.Simulation.LoadTorque); err != nil {
		t.Fatalf("仿真失败: %v", err)
	}
	if !(sim.Trace[len(sim.Trace)-1].Velocity > 0) {
		t.Errorf("车辆应加速")
	}
}

func TestOverride(t *testing.T) {
	path := write(t, `
vehicle:
  drive_train:
    gearbox:
      ratio: 3
simulation:
  name: ramp
  time_steps: 11
  throttle_ramp: [0, 1]
  brake: [0]
  resolve_requests: false
  road_load:
    rolling: 0.01
    segments:
      - {length: 100, grade_percent: 5, surface: wet_asphalt}
      - {length: 200, grade_percent: -2}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Vehicle.DriveTrain.GearBox["ratio"] != 3 || cfg.Vehicle.DriveTrain.GearBox["efficiency"] != 0.97 {
		t.Errorf("变速箱参数应按键合并: %v", cfg.Vehicle.DriveTrain.GearBox)
	}
	if len(cfg.Components) != 2 {
		t.Errorf("未覆盖的元件应保留默认值")
	}
	if len(cfg.Derived.Throttle) != 11 || math.Abs(cfg.Derived.Throttle[5]-0.5) > 1e-12 || cfg.Derived.Throttle[10] != 1 {
		t.Errorf("油门斜坡错误: %v", cfg.Derived.Throttle)
	}
	if len(cfg.Derived.Brake) != 11 || cfg.Derived.Resolve {
		t.Errorf("制动 %v 自动处理请求 %v", cfg.Derived.Brake, cfg.Derived.Resolve)
	}
	track, err := cfg.Simulation.RoadLoad.Track()
	if err != nil {
		t.Fatalf("创建道路失败: %v", err)
	}
	if track.Length() != 300 || math.Abs(track.Altitude(300)-1) > 1e-9 {
		t.Errorf("道路长度 %v 终点海拔 %v", track.Length(), track.Altitude(300))
	}
	sim, err := cfg.Build(quiet)
	if err != nil {
		t.Fatalf("创建仿真失败: %v", err)
	}
	if sim.TimeSteps != 11 || sim.Brake == nil {
		t.Errorf("仿真参数错误")
	}
	if err := sim.Simulate(cfg.Simulation.LoadTorque); err != nil {
		t.Fatalf("仿真失败: %v", err)
	}
}

func TestProfile(t *testing.T) {
	cfg, err := Load(write(t, "simulation:\n  time_steps: 4\n  throttle_profile: [0.2, 0.4]\n"))
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	want := []float64{0.2, 0.4, 0.4, 0.4}
	for i, w := range want {
		if cfg.Derived.Throttle[i] != w {
			t.Errorf("第 %d 步油门: 期望 %v, 实际 %v", i, w, cfg.Derived.Throttle[i])
		}
	}
}

func TestErrors(t *testing.T) {
	for _, c := range []struct {
		name string
		text string
		want error
	}{
		{"unknown type", "components:\n  - {name: x, type: warp_drive}\n", types.ErrUnknownType},
		{"unknown value", "components:\n  - {name: x, type: battery, values: {flux: 1}}\n", types.ErrInvalidParameter},
		{"bad port", "links:\n  - from: {component: battery, port: side}\n    to: {component: motor, port: input}\n", types.ErrInvalidParameter},
		{"missing end", "links:\n  - from: {component: battery, port: output}\n", types.ErrInvalidParameter},
		{"unknown component", "links:\n  - drive_train: engine\n", types.ErrUnknownComponent},
		{"bad drive", "vehicle:\n  drive_train:\n    drive: middle\n", types.ErrInvalidParameter},
		{"bad surface", "simulation:\n  road_load:\n    surface: lava\n", types.ErrInvalidParameter},
		{"bad signal", "simulation:\n  throttle: 2\n", types.ErrControlSignal},
	} {
		cfg, err := Load(write(t, c.text))
		if err != nil {
			t.Fatalf("%s: 加载配置失败: %v", c.name, err)
		}
		if _, err := cfg.Build(quiet); !errors.Is(err, c.want) {
			t.Errorf("%s: 期望 %v, 实际 %v", c.name, c.want, err)
		}
	}
	if _, err := Load(write(t, "simulation:\n  time_steps: 0\n")); !errors.Is(err, types.ErrInvalidParameter) {
		t.Errorf("步数为0应返回错误: %v", err)
	}
	if _, err := Load(write(t, "simulation:\n  throttle_ramp: [0, 0.5, 1]\n")); !errors.Is(err, types.ErrInvalidParameter) {
		t.Errorf("斜坡参数数量错误应返回错误: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("文件不存在应返回错误")
	}
	if _, err := Load(write(t, "simulation: [")); err == nil {
		t.Errorf("格式错误应返回错误")
	}
}

func TestWriteYAML(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("加载默认配置失败: %v", err)
	}
	cfg.Simulation.Name = "saved"
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("保存配置失败: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("读取保存的配置失败: %v", err)
	}
	if back.Simulation.Name != "saved" || len(back.Components) != len(cfg.Components) || len(back.Links) != len(cfg.Links) {
		t.Errorf("保存的配置不一致: %+v", back.Simulation)
	}
	if back.Components[0].Values["nominal_energy"] != 5e6 {
		t.Errorf("元件参数不一致: %v", back.Components[0].Values)
	}
}
