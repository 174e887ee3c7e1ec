package base

import (
	"math"
	"powertrain/element"
	"powertrain/element/curves"
	"powertrain/types"
)

func fuelCellConfig(name string, fuel types.Medium, eff float64) *element.Config {
	return &element.Config{
		Name:   name,
		Input:  types.InputPortOf(fuel),
		Output: types.OutputPortOf(types.MediumElectricDC),
		ValueInit: []float64{
			float64(50),    // 0: 质量(kg)
			float64(100e3), // 1: 最大功率(W)
			eff,            // 2: 效率
			float64(0),     // 3: 最小功率(W)
			float64(400),   // 4: 输出电压(V)
		},
		ValueName:    []string{"mass", "max_power", "efficiency", "min_power", "voltage"},
		DemandDriven: true,
	}
}

// 燃料电池类型
var (
	PEMFuelCellType             = element.AddElement(20, &FuelCell{fuelCellConfig("pem_fuel_cell", types.MediumHydrogen, 0.60)})
	DirectMethanolFuelCellType  = element.AddElement(21, &FuelCell{fuelCellConfig("direct_methanol_fuel_cell", types.MediumMethanol, 0.25)})
	AlkalineFuelCellType        = element.AddElement(22, &FuelCell{fuelCellConfig("alkaline_fuel_cell", types.MediumHydrogen, 0.65)})
	PhosphoricAcidFuelCellType  = element.AddElement(23, &FuelCell{fuelCellConfig("phosphoric_acid_fuel_cell", types.MediumHydrogen, 0.55)})
	MoltenCarbonateFuelCellType = element.AddElement(24, &FuelCell{fuelCellConfig("molten_carbonate_fuel_cell", types.MediumHydrogen, 0.55)})
	SolidOxideFuelCellType      = element.AddElement(25, &FuelCell{fuelCellConfig("solid_oxide_fuel_cell", types.MediumHydrogen, 0.62)})
)

// FuelCell 燃料电池，按下游需求输出电能并消耗燃料
type FuelCell struct{ *element.Config }

func (f FuelCell) Build(node *element.Node) (element.NodeFace, error) {
	v := check{name: f.Name}
	v.nonNegative("mass", node.GetFloat64(0))
	v.positive("max_power", node.GetFloat64(1))
	v.fraction("efficiency", node.GetFloat64(2))
	v.nonNegative("min_power", node.GetFloat64(3))
	v.less("min_power", node.GetFloat64(3), "max_power", node.GetFloat64(1))
	v.positive("voltage", node.GetFloat64(4))
	if v.err != nil {
		return nil, v.err
	}
	fuel, err := types.FuelOf(f.Input.Medium)
	if err != nil {
		return nil, err
	}
	maxPower, minPower := node.GetFloat64(1), node.GetFloat64(3)
	curve, err := curves.FuelCellEfficiency(node.GetFloat64(2), minPower, maxPower+types.Epsilon)
	if err != nil {
		return nil, err
	}
	node.NodeMass = node.GetFloat64(0)
	eff := func(s element.Snapshot) float64 { return curve(s.PowerOut()) }
	return &element.Converter{
		Node:        node,
		Consumption: element.FuelConsumption(eff, fuel),
		Limits: element.Limits{
			element.QuantityPower: element.Range(0, maxPower),
		},
		Response: &fuelCellResponse{minPower: minPower, voltage: node.GetFloat64(4)},
	}, nil
}

// fuelCellResponse 燃料电池动态响应，低于最小功率时关闭
type fuelCellResponse struct {
	minPower float64
	voltage  float64
}

func (*fuelCellResponse) Reversible() bool { return false }

func (r *fuelCellResponse) Forward(s element.Snapshot, in element.ForwardInput, c element.Consumption, l element.Limits) (element.Snapshot, error) {
	out := s
	pout := l.Clamp(element.QuantityPower, s, math.Max(in.Demand, 0)*math.Max(in.Control, 0))
	if pout < r.minPower {
		pout = 0
	}
	out.IO.Output.Power = pout
	if in.Limited && pout > 0 {
		ef, err := c.ForwardEfficiency(out)
		if err != nil {
			return s, err
		}
		pout = math.Min(pout, math.Max(in.MaxInput, 0)*ef)
		if pout < r.minPower {
			pout = 0
		}
		out.IO.Output.Power = pout
	}
	flow, err := c.FuelConsumption(out)
	if err != nil {
		return s, err
	}
	out.IO.Input.Flow = flow
	out.IO.Output.Voltage = r.voltage
	out.IO.Output.Current = pout / r.voltage
	out.State.Internal.On = pout > 0
	return out, nil
}
