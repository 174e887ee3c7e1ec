// Package debug 仿真结果的记录和输出
package debug

import (
	"encoding/json"
	"io"
	"log/slog"
	"powertrain/simulation"
	"powertrain/types"
	"powertrain/vehicle"
)

// Record 记录历史状态，数据列按 [步][元件] 排列
type Record struct {
	Name       string             // 仿真名称
	Components []string           // 元件列表
	Types      []string           // 元件类型
	Links      [][2]string        // 连接信息
	Time       []float64          // 时间列
	Rpm        [][]float64        // 输出转速列(rpm)
	Torque     [][]float64        // 输出转矩列(N·m)
	PowerIn    [][]float64        // 输入功率列(W)
	PowerOut   [][]float64        // 输出功率列(W)
	Energy     [][]float64        // 储存能量列(J)
	Fuel       [][]float64        // 燃料列，液态L，气态kg
	Vehicle    []vehicle.Snapshot // 整车状态列
}

// NewRecord 从仿真历史建立记录
func NewRecord(s *simulation.Simulation) *Record {
	r := &Record{}
	r.Init(s)
	for tick := range s.Trace {
		r.Update(s, tick)
	}
	return r
}

// Init 初始化元件列表和连接信息，顺序与仿真历史一致
func (r *Record) Init(s *simulation.Simulation) {
	v := s.Vehicle
	r.Name = s.Name
	r.Components = r.Components[:0]
	r.Types = r.Types[:0]
	for _, c := range v.Converters {
		r.Components = append(r.Components, string(c.ID))
		r.Types = append(r.Types, c.Type().String())
	}
	for _, src := range v.Sources {
		r.Components = append(r.Components, string(src.GetID()))
		r.Types = append(r.Types, src.Type().String())
	}
	r.Components = append(r.Components, string(types.DriveTrainID))
	r.Types = append(r.Types, simulation.StateDriveTrain)
	r.Links = r.Links[:0]
	for _, l := range v.Links.Links {
		r.Links = append(r.Links, [2]string{l.From.String(), l.To.String()})
	}
	r.Time, r.Vehicle = nil, nil
	r.Rpm, r.Torque, r.PowerIn, r.PowerOut, r.Energy, r.Fuel = nil, nil, nil, nil, nil, nil
}

// Update 记录第 tick 步的数据
func (r *Record) Update(s *simulation.Simulation, tick int) {
	m := len(r.Components)
	rpm, torque := make([]float64, m), make([]float64, m)
	in, out := make([]float64, m), make([]float64, m)
	energy, fuel := make([]float64, m), make([]float64, m)
	for i, name := range r.Components {
		states := s.States(types.ComponentID(name))
		if tick >= len(states) {
			continue
		}
		snap := states[tick]
		rpm[i] = snap.State.Output.Rpm
		torque[i] = snap.IO.Output.Torque
		in[i] = snap.PowerIn()
		out[i] = snap.PowerOut()
		energy[i] = snap.State.Internal.Energy
		fuel[i] = snap.State.Internal.Liters
		if fuel[i] == 0 {
			fuel[i] = snap.State.Internal.FuelMass
		}
	}
	r.Time = append(r.Time, s.Time(tick))
	r.Rpm = append(r.Rpm, rpm)
	r.Torque = append(r.Torque, torque)
	r.PowerIn = append(r.PowerIn, in)
	r.PowerOut = append(r.PowerOut, out)
	r.Energy = append(r.Energy, energy)
	r.Fuel = append(r.Fuel, fuel)
	if tick < len(s.Trace) {
		r.Vehicle = append(r.Vehicle, s.Trace[tick])
	} else {
		r.Vehicle = append(r.Vehicle, vehicle.Snapshot{Time: s.Time(tick)})
	}
}

// Index 元件在数据列中的位置，不存在时为 -1
func (r *Record) Index(id types.ComponentID) int {
	for i, name := range r.Components {
		if name == string(id) {
			return i
		}
	}
	return -1
}

// Column 取出某个元件的数据列
func Column(data [][]float64, i int) []float64 {
	col := make([]float64, len(data))
	for t, row := range data {
		if i >= 0 && i < len(row) {
			col[t] = row[i]
		}
	}
	return col
}

// Render 格式和输出内容
func (r *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(r) }

func (r *Record) Error(err error) { slog.Error("仿真记录", "name", r.Name, "err", err) }
