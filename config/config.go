// Package config 整车和仿真的 YAML 配置
package config

import (
	_ "embed"
	"fmt"
	"os"
	"powertrain/types"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config 全部配置
type Config struct {
	Vehicle    VehicleConfig     `yaml:"vehicle"`
	Components []ComponentConfig `yaml:"components"`
	Links      []LinkConfig      `yaml:"links"`
	Simulation SimulationConfig  `yaml:"simulation"`
	Output     OutputConfig      `yaml:"output"`

	// 加载后计算
	Derived DerivedConfig `yaml:"-"`
}

// VehicleConfig 整车
type VehicleConfig struct {
	Body       BodyConfig       `yaml:"body"`
	DriveTrain DriveTrainConfig `yaml:"drive_train"`
}

// BodyConfig 车身
type BodyConfig struct {
	Mass            float64 `yaml:"mass"`             // kg
	Height          float64 `yaml:"height"`           // m
	Length          float64 `yaml:"length"`           // m
	FrontArea       float64 `yaml:"front_area"`       // m²
	RearArea        float64 `yaml:"rear_area"`        // m²
	DragCoefficient float64 `yaml:"drag_coefficient"` // 风阻系数
	AxleDistance    float64 `yaml:"axle_distance"`    // m
	CGLocation      float64 `yaml:"cg_location"`      // 重心到前轴距离(m)
}

// DriveTrainConfig 传动系统，变速箱和差速器按参数名称覆盖默认值
type DriveTrainConfig struct {
	Drive        string             `yaml:"drive"` // front, rear, all
	GearBox      map[string]float64 `yaml:"gearbox"`
	Differential map[string]float64 `yaml:"differential"`
	FrontAxle    AxleConfig         `yaml:"front_axle"`
	RearAxle     AxleConfig         `yaml:"rear_axle"`
}

// AxleConfig 车轴
type AxleConfig struct {
	Inertia float64     `yaml:"inertia"` // kg·m²
	Mass    float64     `yaml:"mass"`    // kg
	Wheels  int         `yaml:"wheels"`
	Wheel   WheelConfig `yaml:"wheel"`
}

// WheelConfig 车轮
type WheelConfig struct {
	Radius   float64 `yaml:"radius"`   // m
	Width    float64 `yaml:"width"`    // m
	Mass     float64 `yaml:"mass"`     // kg
	Pressure float64 `yaml:"pressure"` // Pa
}

// ComponentConfig 元件，type 为注册的元件名称
type ComponentConfig struct {
	Name   string             `yaml:"name"`
	Type   string             `yaml:"type"`
	Values map[string]float64 `yaml:"values,omitempty"`
}

// EndpointConfig 连接端点
type EndpointConfig struct {
	Component string `yaml:"component"`
	Port      string `yaml:"port"` // input, output
}

// LinkConfig 连接，drive_train 把元件输出连接到传动系统
type LinkConfig struct {
	From       *EndpointConfig `yaml:"from,omitempty"`
	To         *EndpointConfig `yaml:"to,omitempty"`
	DriveTrain string          `yaml:"drive_train,omitempty"`
}

// SimulationConfig 仿真
type SimulationConfig struct {
	Name            string      `yaml:"name"`
	TimeSteps       int         `yaml:"time_steps"`
	DeltaT          float64     `yaml:"delta_t"`                    // s
	Throttle        float64     `yaml:"throttle"`                   // 恒定油门
	ThrottleRamp    []float64   `yaml:"throttle_ramp,omitempty"`    // [起始, 结束] 线性变化
	ThrottleProfile []float64   `yaml:"throttle_profile,omitempty"` // 每步油门，优先级最高
	Brake           []float64   `yaml:"brake,omitempty"`            // 每步制动
	LoadTorque      float64     `yaml:"load_torque"`                // 传动系统输入轴负载(N·m)
	ResolveRequests *bool       `yaml:"resolve_requests,omitempty"` // 自动向能量源请求，默认开启
	RoadLoad        *RoadConfig `yaml:"road_load,omitempty"`        // 道路负载，为空时不计算
}

// RoadConfig 道路
type RoadConfig struct {
	Rolling      float64         `yaml:"rolling"`       // 滚动阻力系数
	BaseAltitude float64         `yaml:"base_altitude"` // m
	Surface      string          `yaml:"surface"`       // 没有路段时的平直路面
	Segments     []SegmentConfig `yaml:"segments,omitempty"`
}

// SegmentConfig 路段
type SegmentConfig struct {
	Length       float64 `yaml:"length"`        // m
	GradePercent float64 `yaml:"grade_percent"` // %
	Surface      string  `yaml:"surface"`
}

// OutputConfig 结果输出
type OutputConfig struct {
	Dir  string `yaml:"dir"`
	JSON bool   `yaml:"json"`
	CSV  bool   `yaml:"csv"`
	HTML bool   `yaml:"html"`
	PNG  bool   `yaml:"png"`
}

// DerivedConfig 加载后计算的值
type DerivedConfig struct {
	Throttle []float64 // 每步油门
	Brake    []float64 // 每步制动，可为空
	Resolve  bool      // 自动处理请求
}

// Load 读取配置，先加载内置默认值，再用文件中出现的字段覆盖
// path 为空时只使用默认值
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("解析内置配置: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件: %w", err)
		}
		if err := Parse(data, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse 在已有配置上解析 YAML，列表整体替换，映射按键合并
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("解析配置文件: %w", err)
	}
	return nil
}

// computeDerived 计算每步的油门和制动信号
func (c *Config) computeDerived() error {
	s := &c.Simulation
	if s.TimeSteps <= 0 {
		return fmt.Errorf("%w: 步数 %d 必须大于 0", types.ErrInvalidParameter, s.TimeSteps)
	}
	n := s.TimeSteps
	switch {
	case len(s.ThrottleProfile) > 0:
		c.Derived.Throttle = extend(s.ThrottleProfile, n)
	case len(s.ThrottleRamp) > 0:
		if len(s.ThrottleRamp) != 2 {
			return fmt.Errorf("%w: throttle_ramp 需要 [起始, 结束] 两个值", types.ErrInvalidParameter)
		}
		c.Derived.Throttle = ramp(s.ThrottleRamp[0], s.ThrottleRamp[1], n)
	default:
		c.Derived.Throttle = ramp(s.Throttle, s.Throttle, n)
	}
	c.Derived.Brake = nil
	if len(s.Brake) > 0 {
		c.Derived.Brake = extend(s.Brake, n)
	}
	c.Derived.Resolve = s.ResolveRequests == nil || *s.ResolveRequests
	return nil
}

// ramp n 个从 from 线性变化到 to 的值
func ramp(from, to float64, n int) []float64 {
	list := make([]float64, n)
	if n == 1 || from == to {
		for i := range list {
			list[i] = from
		}
		return list
	}
	return floats.Span(list, from, to)
}

// extend 截断或用最后一个值补齐到 n 个
func extend(list []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, list)
	last := list[len(list)-1]
	for i := len(list); i < n; i++ {
		out[i] = last
	}
	return out
}

// Duration 仿真总时长(s)
func (c *Config) Duration() float64 {
	return float64(c.Simulation.TimeSteps) * c.Simulation.DeltaT
}

// WriteYAML 保存配置
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("序列化配置: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件: %w", err)
	}
	return nil
}
