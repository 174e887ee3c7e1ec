// Package road 道路负载：坡度、滚动阻力和空气阻力
package road

import (
	"fmt"
	"math"
	"powertrain/types"
	"strings"

	"gonum.org/v1/gonum/interp"
)

// Surface 路面材料
type Surface uint8

const (
	DryAsphalt      Surface = iota // 干沥青
	WetAsphalt                     // 湿沥青
	IcyAsphalt                     // 结冰沥青
	DryConcrete                    // 干混凝土
	WetConcrete                    // 湿混凝土
	LooseGravel                    // 松散砾石
	CompactedGravel                // 压实砾石
	DryDirt                        // 干土路
	WetDirt                        // 湿土路
	HardPackedDirt                 // 硬土路
)

// surfaces 名称和静摩擦系数
var surfaces = []struct {
	name     string
	friction float64
}{
	{"dry_asphalt", 0.80},
	{"wet_asphalt", 0.50},
	{"icy_asphalt", 0.15},
	{"dry_concrete", 0.725},
	{"wet_concrete", 0.575},
	{"loose_gravel", 0.50},
	{"compacted_gravel", 0.60},
	{"dry_dirt", 0.60},
	{"wet_dirt", 0.40},
	{"hard_packed_dirt", 0.70},
}

func (s Surface) String() string {
	if int(s) < len(surfaces) {
		return surfaces[s].name
	}
	return fmt.Sprintf("Surface(%d)", uint8(s))
}

// ParseSurface 解析路面名称，空字符串为干沥青
func ParseSurface(name string) (Surface, error) {
	if name == "" {
		return DryAsphalt, nil
	}
	name = strings.ReplaceAll(strings.ToLower(name), " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	for i, s := range surfaces {
		if s.name == name {
			return Surface(i), nil
		}
	}
	return 0, fmt.Errorf("%w: 未知路面 %q", types.ErrInvalidParameter, name)
}

// StaticFriction 静摩擦系数
func (s Surface) StaticFriction() float64 {
	if int(s) < len(surfaces) {
		return surfaces[s].friction
	}
	return 0
}

// KineticFriction 动摩擦系数
func (s Surface) KineticFriction() float64 { return s.StaticFriction() * types.KineticPercentage }

// Segment 路段
type Segment struct {
	Length  float64 // 水平长度(m)
	Grade   float64 // 坡度(%)
	Surface Surface // 路面
}

// Angle 坡角(rad)
func (s Segment) Angle() float64 { return types.GradeToRadians(s.Grade) }

// Track 道路，由路段首尾相接组成
type Track struct {
	Segments     []Segment
	BaseAltitude float64 // 起点海拔(m)
	starts       []float64
	altitude     interp.PiecewiseLinear
}

// NewTrack 创建道路
func NewTrack(baseAltitude float64, segments ...Segment) (*Track, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: 道路没有路段", types.ErrInvalidParameter)
	}
	t := &Track{Segments: segments, BaseAltitude: baseAltitude}
	xs, ys := []float64{0}, []float64{baseAltitude}
	for i, s := range segments {
		if !(s.Length > 0) {
			return nil, fmt.Errorf("%w: 路段 %d 长度 %v 必须大于 0", types.ErrInvalidParameter, i, s.Length)
		}
		if int(s.Surface) >= len(surfaces) {
			return nil, fmt.Errorf("%w: 路段 %d 路面 %v", types.ErrInvalidParameter, i, s.Surface)
		}
		t.starts = append(t.starts, xs[len(xs)-1])
		xs = append(xs, xs[len(xs)-1]+s.Length)
		ys = append(ys, ys[len(ys)-1]+s.Length*s.Grade/100)
	}
	if err := t.altitude.Fit(xs, ys); err != nil {
		return nil, err
	}
	return t, nil
}

// Flat 平直道路
func Flat(surface Surface) *Track {
	t, err := NewTrack(0, Segment{Length: 1e9, Surface: surface})
	if err != nil {
		panic(err)
	}
	return t
}

// Length 总长度(m)
func (t *Track) Length() float64 {
	return t.starts[len(t.starts)-1] + t.Segments[len(t.Segments)-1].Length
}

// Segment 位置所在的路段，超出道路时取首尾路段
func (t *Track) Segment(position float64) Segment {
	for i := len(t.starts) - 1; i > 0; i-- {
		if position >= t.starts[i] {
			return t.Segments[i]
		}
	}
	return t.Segments[0]
}

// Altitude 位置处的海拔(m)
func (t *Track) Altitude(position float64) float64 { return t.altitude.Predict(position) }

// AirDensity 海拔对应的空气密度 ρ = 1.225·exp(-h/8500)
func AirDensity(altitude float64) float64 {
	return types.AirDensitySeaLevel * math.Exp(-altitude/types.ReferenceAltitude)
}

// Resistance 行驶阻力参数
type Resistance struct {
	Mass            float64 // 整车质量(kg)
	DragCoefficient float64 // 风阻系数
	FrontArea       float64 // 迎风面积(m²)
	Rolling         float64 // 滚动阻力系数
}

// Forces 行驶阻力分项(N)
type Forces struct {
	Grade   float64 // 坡度阻力
	Rolling float64 // 滚动阻力
	Aero    float64 // 空气阻力
}

// Total 合力
func (f Forces) Total() float64 { return f.Grade + f.Rolling + f.Aero }

// Forces 位置和车速对应的阻力 m·g·sinθ + Crr·m·g·cosθ + ½·ρ·Cd·A·v²
func (r Resistance) Forces(t *Track, position, velocity float64) Forces {
	theta := t.Segment(position).Angle()
	weight := r.Mass * types.Gravity
	rho := AirDensity(t.Altitude(position))
	return Forces{
		Grade:   weight * math.Sin(theta),
		Rolling: r.Rolling * weight * math.Cos(theta),
		Aero:    0.5 * rho * r.DragCoefficient * r.FrontArea * velocity * math.Abs(velocity),
	}
}

// TractionLimit 路面附着力上限(N)
func (r Resistance) TractionLimit(t *Track, position float64) float64 {
	s := t.Segment(position)
	return s.Surface.StaticFriction() * r.Mass * types.Gravity * math.Cos(s.Angle())
}
