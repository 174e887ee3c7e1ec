// Package curves 元件特性曲线：最大功率、最大转矩、效率
package curves

import (
	"fmt"
	"math"
	"powertrain/types"
)

// Curve 一元特性曲线
type Curve func(x float64) float64

// OperatingPoint 工况点
type OperatingPoint struct {
	Rpm   float64 // 转速(rpm)
	Power float64 // 功率(W)
}

func invalid(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{types.ErrInvalidParameter}, a...)...)
}

// ConstantPower [minRpm, maxRpm] 内恒定最大功率
func ConstantPower(maxPower, minRpm, maxRpm float64) (Curve, error) {
	if maxPower <= 0 || minRpm < 0 || maxRpm <= minRpm {
		return nil, invalid("恒功率曲线 功率 %v 转速 [%v, %v]", maxPower, minRpm, maxRpm)
	}
	return func(rpm float64) float64 {
		if rpm < minRpm || rpm > maxRpm {
			return 0
		}
		return maxPower
	}, nil
}

// LinearPower 两点之间线性变化的最大功率
func LinearPower(lo, hi OperatingPoint) (Curve, error) {
	if lo.Rpm < 0 || lo.Power < 0 || hi.Power < 0 || hi.Rpm <= lo.Rpm {
		return nil, invalid("线性功率曲线 %v -> %v", lo, hi)
	}
	slope := (hi.Power - lo.Power) / (hi.Rpm - lo.Rpm)
	return func(rpm float64) float64 {
		if rpm < lo.Rpm || rpm > hi.Rpm {
			return 0
		}
		return lo.Power + slope*(rpm-lo.Rpm)
	}, nil
}

// ICEPower 内燃机最大功率曲线，峰值两侧各用一段高斯曲线
func ICEPower(lo, peak, hi OperatingPoint) (Curve, error) {
	if peak.Rpm <= lo.Rpm || peak.Rpm >= hi.Rpm || lo.Power >= peak.Power || hi.Power >= peak.Power {
		return nil, invalid("内燃机功率曲线 %v %v %v", lo, peak, hi)
	}
	alpha1 := 1 / 2 / math.Pow(peak.Rpm-lo.Rpm, 2)
	k2 := (lo.Power - peak.Power) / (math.Exp(-0.5) - 1)
	k1 := peak.Power - k2
	alpha2 := 1 / 2 / math.Pow(peak.Rpm-hi.Rpm, 2)
	k4 := (hi.Power - peak.Power) / (math.Exp(-0.5) - 1)
	k3 := peak.Power - k4
	return func(rpm float64) float64 {
		if rpm < lo.Rpm || rpm > hi.Rpm {
			return 0
		}
		alpha, a, b := alpha1, k1, k2
		if rpm > peak.Rpm {
			alpha, a, b = alpha2, k3, k4
		}
		return a + b*math.Exp(-alpha*math.Pow(rpm-peak.Rpm, 2))
	}, nil
}

// EMPower 电机最大功率曲线，基速以下线性增长，之后恒定
func EMPower(maxPower, baseRpm, maxRpm float64) (Curve, error) {
	if maxPower <= 0 || baseRpm <= 0 || maxRpm <= baseRpm {
		return nil, invalid("电机功率曲线 功率 %v 基速 %v 最高转速 %v", maxPower, baseRpm, maxRpm)
	}
	return func(rpm float64) float64 {
		switch {
		case rpm < 0 || rpm > maxRpm:
			return 0
		case rpm <= baseRpm:
			return maxPower * rpm / baseRpm
		}
		return maxPower
	}, nil
}

// EMTorque 电机最大转矩曲线，基速以下恒转矩，基速到最高转速恒功率
func EMTorque(maxTorque, baseRpm, maxRpm float64) (Curve, error) {
	if maxTorque <= 0 || baseRpm <= 0 || maxRpm <= baseRpm {
		return nil, invalid("电机转矩曲线 转矩 %v 基速 %v 最高转速 %v", maxTorque, baseRpm, maxRpm)
	}
	return func(rpm float64) float64 {
		rpm = math.Abs(rpm)
		switch {
		case rpm > maxRpm:
			return 0
		case rpm <= baseRpm:
			return maxTorque
		}
		return maxTorque * baseRpm / rpm
	}, nil
}

// TorqueFromPower 由功率曲线得到转矩曲线，低于 minRpm 按 minRpm 计算
func TorqueFromPower(power Curve, minRpm float64) Curve {
	return func(rpm float64) float64 {
		w := math.Max(rpm, minRpm) * types.RPMToAngVel
		if w <= 0 {
			return 0
		}
		return power(math.Max(rpm, minRpm)) / w
	}
}
