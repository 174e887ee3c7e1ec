package curves

// BatteryEfficiency 电流在 [0, maxCurrent] 内恒定效率
func BatteryEfficiency(e, maxCurrent float64) (Curve, error) {
	if e <= 0 || e > 1 || maxCurrent <= 0 {
		return nil, invalid("电池效率 %v 最大电流 %v", e, maxCurrent)
	}
	return func(current float64) float64 {
		if current < 0 || current > maxCurrent {
			return 0
		}
		return e
	}, nil
}

// ConstantVoltage 电流在 [0, maxCurrent] 内恒定电压
func ConstantVoltage(v, maxCurrent float64) (Curve, error) {
	if v <= 0 || maxCurrent <= 0 {
		return nil, invalid("电池电压 %v 最大电流 %v", v, maxCurrent)
	}
	return func(current float64) float64 {
		if current < 0 || current > maxCurrent {
			return 0
		}
		return v
	}, nil
}

// FuelCellEfficiency 输出功率在 [minPower, maxPower] 内恒定效率
func FuelCellEfficiency(e, minPower, maxPower float64) (Curve, error) {
	if e <= 0 || e > 1 || minPower < 0 || maxPower <= minPower {
		return nil, invalid("燃料电池效率 %v 功率 [%v, %v]", e, minPower, maxPower)
	}
	return func(power float64) float64 {
		if power < minPower || power > maxPower {
			return 0
		}
		return e
	}, nil
}
