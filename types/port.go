package types

import (
	"fmt"
	"strings"
)

// Direction 端口方向
type Direction uint8

const (
	DirectionInput         Direction = iota // 输入
	DirectionOutput                         // 输出
	DirectionBidirectional                  // 双向
)

func (d Direction) String() string {
	switch d {
	case DirectionInput:
		return "input"
	case DirectionOutput:
		return "output"
	case DirectionBidirectional:
		return "bidirectional"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Medium 能量交换介质
type Medium uint16

const (
	MediumElectricAC     Medium = (1 << iota) // 交流电
	MediumElectricDC                          // 直流电
	MediumMechanical                          // 机械
	MediumGasoline                            // 汽油
	MediumDiesel                              // 柴油
	MediumEthanol                             // 乙醇
	MediumMethanol                            // 甲醇
	MediumBiodiesel                           // 生物柴油
	MediumLiquidHydrogen                      // 液氢
	MediumHydrogen                            // 氢气
	MediumMethane                             // 甲烷
)

// 介质分组
const (
	MediumElectric    = MediumElectricAC | MediumElectricDC
	MediumLiquidFuel  = MediumGasoline | MediumDiesel | MediumEthanol | MediumMethanol | MediumBiodiesel | MediumLiquidHydrogen
	MediumGaseousFuel = MediumHydrogen | MediumMethane
	MediumFuel        = MediumLiquidFuel | MediumGaseousFuel
)

var mediumName = map[Medium]string{
	MediumElectricAC:     "electric_ac",
	MediumElectricDC:     "electric_dc",
	MediumMechanical:     "mechanical",
	MediumGasoline:       "gasoline",
	MediumDiesel:         "diesel",
	MediumEthanol:        "ethanol",
	MediumMethanol:       "methanol",
	MediumBiodiesel:      "biodiesel",
	MediumLiquidHydrogen: "liquid_hydrogen",
	MediumHydrogen:       "hydrogen",
	MediumMethane:        "methane",
}

// Is 是否属于分组
func (m Medium) Is(mask Medium) bool { return m != 0 && m&mask == m }

func (m Medium) String() string {
	if name, ok := mediumName[m]; ok {
		return name
	}
	return fmt.Sprintf("Medium(%d)", uint16(m))
}

// ParseMedium 按名称解析介质
func ParseMedium(name string) (Medium, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range mediumName {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: 未知介质 %q", ErrInvalidParameter, name)
}

// Port 端口
type Port struct {
	Direction Direction // 方向
	Medium    Medium    // 介质
}

// InputPortOf 创建输入端口
func InputPortOf(m Medium) *Port { return &Port{Direction: DirectionInput, Medium: m} }

// OutputPortOf 创建输出端口
func OutputPortOf(m Medium) *Port { return &Port{Direction: DirectionOutput, Medium: m} }

// BidirectionalPortOf 创建双向端口
func BidirectionalPortOf(m Medium) *Port { return &Port{Direction: DirectionBidirectional, Medium: m} }

// IsCompatibleWith 介质相同且方向可对接
func (p Port) IsCompatibleWith(other Port) bool {
	if p.Medium != other.Medium {
		return false
	}
	if p.Direction == DirectionBidirectional || other.Direction == DirectionBidirectional {
		return true
	}
	return p.Direction != other.Direction
}

// CanReceive 可作为请求端
func (p Port) CanReceive() bool { return p.Direction != DirectionOutput }

// CanSend 可作为供给端
func (p Port) CanSend() bool { return p.Direction != DirectionInput }

func (p Port) String() string { return p.Direction.String() + "/" + p.Medium.String() }
