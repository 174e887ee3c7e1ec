package debug

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
)

// ComponentSummary 单个元件的统计
type ComponentSummary struct {
	Name        string  // 元件标识
	MaxRpm      float64 // 最高转速(rpm)
	MaxPowerOut float64 // 最大输出功率(W)
	EnergyIn    float64 // 累计输入能量(J)
	EnergyOut   float64 // 累计输出能量(J)
	EnergyUsed  float64 // 首末两步储存能量之差(J)，减少为正
	FuelUsed    float64 // 首末两步燃料之差，液态L，气态kg
}

// Summary 仿真结果统计
type Summary struct {
	Name        string             // 仿真名称
	Ticks       int                // 完成步数
	Duration    float64            // 仿真时长(s)
	Distance    float64            // 行驶距离(m)
	MaxVelocity float64            // 最高车速(m/s)
	MinVelocity float64            // 最低车速(m/s)
	Components  []ComponentSummary // 元件统计
}

// Summarize 统计记录
func (r *Record) Summarize() Summary {
	s := Summary{Name: r.Name, Ticks: len(r.Time)}
	if len(r.Time) == 0 {
		return s
	}
	s.Duration = r.Time[len(r.Time)-1]
	velocity := make([]float64, len(r.Vehicle))
	for i, v := range r.Vehicle {
		velocity[i] = v.Velocity
	}
	if len(velocity) > 0 {
		s.MaxVelocity = floats.Max(velocity)
		s.MinVelocity = floats.Min(velocity)
		s.Distance = r.Vehicle[len(r.Vehicle)-1].Position
	}
	dt := r.Time[0]
	if len(r.Time) > 1 {
		dt = r.Time[1] - r.Time[0]
	}
	for i, name := range r.Components {
		in, out := Column(r.PowerIn, i), Column(r.PowerOut, i)
		energy, fuel := Column(r.Energy, i), Column(r.Fuel, i)
		s.Components = append(s.Components, ComponentSummary{
			Name:        name,
			MaxRpm:      floats.Max(Column(r.Rpm, i)),
			MaxPowerOut: floats.Max(out),
			EnergyIn:    floats.Sum(in) * dt,
			EnergyOut:   floats.Sum(out) * dt,
			EnergyUsed:  energy[0] - energy[len(energy)-1],
			FuelUsed:    fuel[0] - fuel[len(fuel)-1],
		})
	}
	return s
}

// Component 按标识查找元件统计
func (s Summary) Component(name string) (ComponentSummary, bool) {
	for _, c := range s.Components {
		if c.Name == name {
			return c, true
		}
	}
	return ComponentSummary{}, false
}

// LogValue 日志输出
func (s Summary) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("name", s.Name),
		slog.Int("ticks", s.Ticks),
		slog.Float64("duration", s.Duration),
		slog.Float64("distance", s.Distance),
		slog.Float64("max_velocity", s.MaxVelocity),
	}
	for _, c := range s.Components {
		attrs = append(attrs, slog.Group(c.Name,
			slog.Float64("max_rpm", c.MaxRpm),
			slog.Float64("max_power_out", c.MaxPowerOut),
			slog.Float64("energy_out", c.EnergyOut),
			slog.Float64("energy_used", c.EnergyUsed),
			slog.Float64("fuel_used", c.FuelUsed),
		))
	}
	return slog.GroupValue(attrs...)
}
