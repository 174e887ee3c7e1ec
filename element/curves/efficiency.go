package curves

import (
	"math"
	"powertrain/element"
)

// Surface 效率曲面，自变量为转速(rpm)和功率(W)
type Surface func(rpm, power float64) float64

// Efficiency 按快照输出端取值
func (s Surface) Efficiency() element.EfficiencyFunc {
	return func(snap element.Snapshot) float64 {
		return s(math.Abs(snap.State.Output.Rpm), math.Abs(snap.PowerOut()))
	}
}

// ConstantEfficiency [minRpm, maxRpm] 内恒定效率，范围外为0
func ConstantEfficiency(e, minRpm, maxRpm float64) (Surface, error) {
	if e <= 0 || e > 1 || minRpm < 0 || maxRpm <= minRpm {
		return nil, invalid("恒效率 %v 转速 [%v, %v]", e, minRpm, maxRpm)
	}
	return func(rpm, _ float64) float64 {
		if rpm < minRpm || rpm > maxRpm {
			return 0
		}
		return e
	}, nil
}

// LinearEfficiency 椭圆距离线性衰减的效率曲面
// 最高效率点为 peak，maxPower 为最大功率曲线，falloff 控制功率和转速方向的衰减速度
func LinearEfficiency(maxEff, minEff, minRpm, maxRpm float64, maxPower Curve, peak OperatingPoint, powerFalloff, rpmFalloff float64) (Surface, error) {
	if maxEff <= 0 || maxEff > 1 || minEff <= 0 || minEff >= maxEff {
		return nil, invalid("效率范围 [%v, %v]", minEff, maxEff)
	}
	if minRpm < 0 || maxRpm <= minRpm || peak.Rpm <= minRpm || peak.Rpm >= maxRpm {
		return nil, invalid("转速范围 [%v, %v] 峰值 %v", minRpm, maxRpm, peak.Rpm)
	}
	powerRange := maxPower(peak.Rpm)
	if powerRange <= 0 {
		return nil, invalid("峰值转速 %v 最大功率为 0", peak.Rpm)
	}
	rpmRange := maxRpm - minRpm
	return func(rpm, power float64) float64 {
		if rpm < minRpm || rpm > maxRpm {
			return 0
		}
		dp := math.Abs(power-peak.Power) / powerRange * powerFalloff
		dr := math.Abs(rpm-peak.Rpm) / rpmRange * rpmFalloff
		return math.Max(maxEff*math.Max(0, 1-math.Hypot(dp, dr)), minEff)
	}, nil
}

// GaussianEfficiency 二维高斯效率曲面，电机的衰减系数应远小于内燃机
func GaussianEfficiency(maxEff float64, peak OperatingPoint, minEff, falloffRpm, falloffPower, minRpm, maxRpm float64) (Surface, error) {
	if maxEff <= 0 || maxEff > 1 || minEff <= 0 || minEff >= maxEff || falloffRpm <= 0 || falloffPower <= 0 {
		return nil, invalid("高斯效率 %v/%v 衰减 %v/%v", maxEff, minEff, falloffRpm, falloffPower)
	}
	if minRpm < 0 || maxRpm <= minRpm {
		return nil, invalid("转速范围 [%v, %v]", minRpm, maxRpm)
	}
	return func(rpm, power float64) float64 {
		if rpm < minRpm || rpm > maxRpm {
			return 0
		}
		x := -falloffRpm*math.Pow(rpm-peak.Rpm, 2) - falloffPower*math.Pow(power-peak.Power, 2)
		return math.Max(maxEff*math.Exp(x), minEff)
	}, nil
}
