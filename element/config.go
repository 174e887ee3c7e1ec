package element

import (
	"powertrain/types"
	"slices"
	"strings"
)

// Config 元件配置结构体，存储元件的静态配置信息。
// 这些配置在元件注册时初始化，并在整个仿真过程中保持不变。
type Config struct {
	Name         string      // 元件名称（如 "electric_motor"）。
	Input        *types.Port // 输入端口，nil 表示没有。
	Output       *types.Port // 输出端口，nil 表示没有。
	ValueInit    []float64   // 参数初始值。
	ValueName    []string    // 参数名称。
	Reversible   bool        // 是否支持能量回收。
	DemandDriven bool        // 是否按下游需求工作（逆变器、整流器、燃料电池）。
}

// GetConfig 获取元件配置的指针。
func (config *Config) GetConfig() *Config { return config }

// GetName 元件名称。
func (config *Config) GetName() string { return strings.ToLower(config.Name) }

// ValueNum 获取元件的参数数量。
func (config *Config) ValueNum() int { return len(config.ValueInit) }

// ValueIndex 参数名称对应的索引，不存在返回-1。
func (config *Config) ValueIndex(name string) int {
	return slices.Index(config.ValueName, name)
}

// Port 获取端口配置。
func (config *Config) Port(role types.PortRole) *types.Port {
	if role == types.InputPort {
		return config.Input
	}
	return config.Output
}

// Values 参数名称到默认值的映射。
func (config *Config) Values() map[string]float64 {
	m := make(map[string]float64, len(config.ValueName))
	for i, name := range config.ValueName {
		m[name] = config.ValueInit[i]
	}
	return m
}

// 以下为默认实现，具体元件类型可以通过重写这些方法来实现自定义行为。

// Reset 恢复零流量快照。
func (config *Config) Reset(value NodeFace) {
	value.SetSnapshot(NewSnapshot(config.Input, config.Output))
}

// StartTick 仿真步开始时的回调（空实现）。
func (Config) StartTick(value NodeFace) {}
