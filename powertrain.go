// Package powertrain 车辆动力系统能量流仿真：加载配置、运行仿真并输出结果
package powertrain

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"powertrain/config"
	"powertrain/debug"
	"powertrain/simulation"
)

// Powertrain 动力系统仿真器
type Powertrain struct {
	Config     *config.Config         // 配置
	Simulation *simulation.Simulation // 仿真
	Record     *debug.Record          // 仿真记录
	logger     *slog.Logger
}

// New 按配置创建仿真器，logger 为空时使用 slog.Default()
func New(cfg *config.Config, logger *slog.Logger) (*Powertrain, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sim, err := cfg.Build(simulation.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("创建仿真: %w", err)
	}
	return &Powertrain{Config: cfg, Simulation: sim, logger: logger}, nil
}

// Load 加载配置文件并创建仿真器，path 为空时使用内置配置
func Load(path string, logger *slog.Logger) (*Powertrain, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, logger)
}

// Simulate 运行仿真，出错时记录保留已完成的步
func (p *Powertrain) Simulate() error {
	err := p.Simulation.Simulate(p.Config.Simulation.LoadTorque)
	p.Record = debug.NewRecord(p.Simulation)
	var runErr *simulation.RunError
	if errors.As(err, &runErr) {
		p.logger.Warn("仿真提前结束", "tick", runErr.Tick, "component", runErr.ComponentID)
	}
	p.logger.Info("仿真结果", "summary", p.Record.Summarize())
	return err
}

// Summary 仿真结果统计
func (p *Powertrain) Summary() debug.Summary {
	if p.Record == nil {
		return debug.Summary{Name: p.Simulation.Name}
	}
	return p.Record.Summarize()
}

// Export 按输出配置写入结果，dir 为空时使用配置中的目录，返回写入的文件
func (p *Powertrain) Export(dir string) ([]string, error) {
	if p.Record == nil {
		return nil, fmt.Errorf("仿真尚未运行")
	}
	out := p.Config.Output
	if dir == "" {
		dir = out.Dir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建输出目录: %w", err)
	}
	var files []string
	write := func(name string, render func(f *os.File) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("创建 %s: %w", name, err)
		}
		if err := render(f); err != nil {
			f.Close()
			return fmt.Errorf("写入 %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		files = append(files, path)
		return nil
	}
	path := filepath.Join(dir, "config.yaml")
	if err := p.Config.WriteYAML(path); err != nil {
		return files, err
	}
	files = append(files, path)
	if out.JSON {
		if err := write("record.json", func(f *os.File) error { return p.Record.Render(f) }); err != nil {
			return files, err
		}
	}
	if out.CSV {
		if err := write("components.csv", func(f *os.File) error { return debug.WriteCSV(f, p.Record) }); err != nil {
			return files, err
		}
		if err := write("vehicle.csv", func(f *os.File) error { return debug.WriteVehicleCSV(f, p.Record) }); err != nil {
			return files, err
		}
	}
	if out.HTML {
		charts := &debug.Charts{Record: p.Record}
		if err := write("charts.html", func(f *os.File) error { return charts.Render(f) }); err != nil {
			return files, err
		}
	}
	if out.PNG {
		plots, err := p.Record.SavePlots(dir)
		files = append(files, plots...)
		if err != nil {
			return files, err
		}
	}
	p.logger.Info("结果已保存", "dir", dir, "files", len(files))
	return files, nil
}
