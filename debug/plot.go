package debug

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot 把 [步][序列] 数据画成折线图，全为零的序列跳过，格式由扩展名决定
func Plot(path, title, label string, time []float64, names []string, data [][]float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = label
	vs := make([]any, 0, 2*len(names))
	for i, name := range names {
		xys := make(plotter.XYs, len(data))
		used := false
		for t, row := range data {
			xys[t].X = time[t]
			if i < len(row) {
				xys[t].Y = row[i]
				used = used || row[i] != 0
			}
		}
		if used {
			vs = append(vs, name, xys)
		}
	}
	if len(vs) > 0 {
		if err := plotutil.AddLines(p, vs...); err != nil {
			return fmt.Errorf("绘制 %s: %w", title, err)
		}
	}
	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("保存 %s: %w", path, err)
	}
	return nil
}

// SavePlots 在目录下输出转速、功率、能量和整车曲线，返回文件列表
func (r *Record) SavePlots(dir string) ([]string, error) {
	vehicle := make([][]float64, len(r.Vehicle))
	for i, s := range r.Vehicle {
		vehicle[i] = []float64{s.Velocity, s.Acceleration}
	}
	list := []struct {
		file, title, label string
		names              []string
		data               [][]float64
	}{
		{"rpm.png", "speed", "rpm", r.Components, r.Rpm},
		{"power.png", "power out", "W", r.Components, r.PowerOut},
		{"energy.png", "stored energy", "J", r.Components, r.Energy},
		{"vehicle.png", "vehicle", "m/s, m/s^2", []string{"velocity", "acceleration"}, vehicle},
	}
	files := make([]string, 0, len(list))
	for _, p := range list {
		path := filepath.Join(dir, p.file)
		if err := Plot(path, p.title, p.label, r.Time, p.names, p.data); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}
