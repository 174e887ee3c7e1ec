package debug

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// ComponentRow 元件每步一行
type ComponentRow struct {
	Tick      int     `csv:"tick"`
	Time      float64 `csv:"time"`
	Component string  `csv:"component"`
	Type      string  `csv:"type"`
	Rpm       float64 `csv:"rpm"`
	Torque    float64 `csv:"torque"`
	PowerIn   float64 `csv:"power_in"`
	PowerOut  float64 `csv:"power_out"`
	Energy    float64 `csv:"energy"`
	Fuel      float64 `csv:"fuel"`
}

// VehicleRow 整车每步一行
type VehicleRow struct {
	Tick           int     `csv:"tick"`
	Time           float64 `csv:"time"`
	Throttle       float64 `csv:"throttle"`
	Brake          float64 `csv:"brake"`
	LoadTorque     float64 `csv:"load_torque"`
	TractiveTorque float64 `csv:"tractive_torque"`
	Velocity       float64 `csv:"velocity"`
	Position       float64 `csv:"position"`
	Acceleration   float64 `csv:"acceleration"`
}

// ComponentRows 按步展开元件数据
func (r *Record) ComponentRows() []ComponentRow {
	rows := make([]ComponentRow, 0, len(r.Time)*len(r.Components))
	for t, time := range r.Time {
		for i, name := range r.Components {
			rows = append(rows, ComponentRow{
				Tick:      t,
				Time:      time,
				Component: name,
				Type:      r.Types[i],
				Rpm:       r.Rpm[t][i],
				Torque:    r.Torque[t][i],
				PowerIn:   r.PowerIn[t][i],
				PowerOut:  r.PowerOut[t][i],
				Energy:    r.Energy[t][i],
				Fuel:      r.Fuel[t][i],
			})
		}
	}
	return rows
}

// VehicleRows 整车数据
func (r *Record) VehicleRows() []VehicleRow {
	rows := make([]VehicleRow, len(r.Vehicle))
	for t, s := range r.Vehicle {
		rows[t] = VehicleRow{
			Tick:           t,
			Time:           s.Time,
			Throttle:       s.Throttle,
			Brake:          s.Brake,
			LoadTorque:     s.LoadTorque,
			TractiveTorque: s.TractiveTorque,
			Velocity:       s.Velocity,
			Position:       s.Position,
			Acceleration:   s.Acceleration,
		}
	}
	return rows
}

// WriteCSV 输出元件数据
func WriteCSV(w io.Writer, r *Record) error {
	if err := gocsv.Marshal(r.ComponentRows(), w); err != nil {
		return fmt.Errorf("写入元件数据: %w", err)
	}
	return nil
}

// WriteVehicleCSV 输出整车数据
func WriteVehicleCSV(w io.Writer, r *Record) error {
	if err := gocsv.Marshal(r.VehicleRows(), w); err != nil {
		return fmt.Errorf("写入整车数据: %w", err)
	}
	return nil
}
