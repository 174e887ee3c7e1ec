package types

import "fmt"

// Fuel 燃料属性
type Fuel struct {
	Medium        Medium  // 介质
	EnergyDensity float64 // 能量密度(J/kg)
	Density       float64 // 质量密度(kg/m³)，气态燃料为0
}

// Fuels 燃料表
var Fuels = map[Medium]Fuel{
	MediumGasoline:       {MediumGasoline, 44.4e6, 742.9},
	MediumDiesel:         {MediumDiesel, 45.4e6, 830.0},
	MediumEthanol:        {MediumEthanol, 26.8e6, 789.0},
	MediumMethanol:       {MediumMethanol, 22.6e6, 791.3},
	MediumBiodiesel:      {MediumBiodiesel, 37.8e6, 874.7},
	MediumLiquidHydrogen: {MediumLiquidHydrogen, 130e6, 70.85},
	MediumHydrogen:       {MediumHydrogen, 130e6, 0},
	MediumMethane:        {MediumMethane, 53e6, 0},
}

// FuelOf 查询燃料
func FuelOf(m Medium) (Fuel, error) {
	if f, ok := Fuels[m]; ok {
		return f, nil
	}
	return Fuel{}, fmt.Errorf("%w: %s 不是燃料", ErrInvalidParameter, m)
}

// IsLiquid 液态燃料按升计量，气态燃料按千克计量
func (f Fuel) IsLiquid() bool { return f.Medium.Is(MediumLiquidFuel) }

// MassFromLiters 升 -> 千克
func (f Fuel) MassFromLiters(liters float64) float64 {
	return liters * LitersToCubicMeters * f.Density
}

// LitersFromMass 千克 -> 升
func (f Fuel) LitersFromMass(mass float64) float64 {
	if f.Density == 0 {
		return 0
	}
	return mass / f.Density * CubicMetersToLiters
}

// Energy 燃料量对应的能量(J)，液态按升、气态按千克
func (f Fuel) Energy(amount float64) float64 {
	if f.IsLiquid() {
		return f.MassFromLiters(amount) * f.EnergyDensity
	}
	return amount * f.EnergyDensity
}

// Amount 能量对应的燃料量，液态为升、气态为千克
func (f Fuel) Amount(energy float64) float64 {
	mass := energy / f.EnergyDensity
	if f.IsLiquid() {
		return f.LitersFromMass(mass)
	}
	return mass
}
