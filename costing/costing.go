/*
Copyright © 2024 the Electrocoag authors.
This file is part of Electrocoag.

Electrocoag is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Electrocoag is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Electrocoag.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package costing prices a converged electrocoagulation reactor:
// capital cost correlations for the electrode stack, the DC power
// supply, and the reactor vessel, plus the specific energy consumption
// and levelized cost of the treated water. The functions here are pure
// reads of the model state; they may be re-evaluated any number of
// times without changing the flowsheet.
package costing

import (
	"fmt"
	"math"

	"github.com/ctessum/unit"
	"github.com/watermodel/electrocoag"
)

// Dollars is the unit dimension for costs.
var Dollars unit.Dimension

func init() {
	Dollars = unit.NewDimension("$")
}

// SecondsPerYear converts volumetric flow to annual production.
const SecondsPerYear = 365 * 24 * 60 * 60

// CostBasis collects the correlation constants and financial
// assumptions. All dollar figures share one price year; mixing bases
// from different years is the caller's responsibility.
type CostBasis struct {
	// ElectrodeUnitCost is the electrode metal price [$ kg⁻¹].
	ElectrodeUnitCost map[electrocoag.ElectrodeMaterial]float64
	// PowerSupplyBase and PowerSupplySlope give the power supply and
	// rectifier cost as a linear function of applied current
	// [$ and $ A⁻¹].
	PowerSupplyBase  float64
	PowerSupplySlope float64
	// Reactor vessel correlation: base·matFactor·V^exp with V in m³.
	// The base is the PVC coefficient, so the PVC material factor is 1.
	ReactorBase           float64
	ReactorMaterialFactor map[electrocoag.ReactorMaterial]float64
	ReactorExponent       float64
	// TICFactor converts purchased equipment cost to total installed
	// cost.
	TICFactor float64
	// ElectricityPrice [$ kWh⁻¹].
	ElectricityPrice float64
	// Utilization is the fraction of the year the plant runs.
	Utilization float64
	// MaintenanceFrac is the annual fixed operating cost as a fraction
	// of total installed capital.
	MaintenanceFrac float64
	// WACC and PlantLifetime [yr] set the capital recovery factor.
	WACC          float64
	PlantLifetime int
}

// DefaultCostBasis returns the 2020-dollar basis used throughout the
// package tests.
func DefaultCostBasis() CostBasis {
	return CostBasis{
		ElectrodeUnitCost: map[electrocoag.ElectrodeMaterial]float64{
			electrocoag.Aluminum: 2.23,
			electrocoag.Iron:     3.41,
		},
		PowerSupplyBase:  520000,
		PowerSupplySlope: 86.6667,
		ReactorBase:      53123.1,
		ReactorMaterialFactor: map[electrocoag.ReactorMaterial]float64{
			electrocoag.PVC:            1,
			electrocoag.StainlessSteel: 45.8408,
			electrocoag.CarbonSteel:    22.92,
		},
		ReactorExponent:  0.45,
		TICFactor:        2.0,
		ElectricityPrice: 0.07,
		Utilization:      0.9,
		MaintenanceFrac:  0.03,
		WACC:             0.093,
		PlantLifetime:    30,
	}
}

// CapitalCostElectrodes prices the electrode stack from its total area,
// plate thickness, and metal density.
func (b CostBasis) CapitalCostElectrodes(m *electrocoag.Model) (*unit.Unit, error) {
	price, ok := b.ElectrodeUnitCost[m.Config.ElectrodeMaterial]
	if !ok {
		return nil, fmt.Errorf("costing: no electrode unit cost for material %q",
			m.Config.ElectrodeMaterial)
	}
	mass := m.ElectrodeAreaTotal.Value * m.ElectrodeThick.Value *
		m.NumberElectrodePairs.Value * m.Config.ElectrodeMaterial.Density()
	return unit.New(price*mass, unit.Dimensions{Dollars: 1}), nil
}

// CapitalCostPowerSupply prices the DC power supply and rectifier. The
// correlation is linear in the applied current, not in the delivered
// power.
func (b CostBasis) CapitalCostPowerSupply(m *electrocoag.Model) *unit.Unit {
	return unit.New(b.PowerSupplyBase+b.PowerSupplySlope*m.AppliedCurrent.Value,
		unit.Dimensions{Dollars: 1})
}

// CapitalCostReactor prices the reactor vessel from its volume with a
// power-law correlation and a material factor.
func (b CostBasis) CapitalCostReactor(m *electrocoag.Model) (*unit.Unit, error) {
	f, ok := b.ReactorMaterialFactor[m.Config.ReactorMaterial]
	if !ok {
		return nil, fmt.Errorf("costing: no reactor material factor for %q",
			m.Config.ReactorMaterial)
	}
	c := b.ReactorBase * f * math.Pow(m.ReactorVolume.Value, b.ReactorExponent)
	return unit.New(c, unit.Dimensions{Dollars: 1}), nil
}

// CRF is the capital recovery factor for the basis WACC and plant
// lifetime.
func (b CostBasis) CRF() float64 {
	g := math.Pow(1+b.WACC, float64(b.PlantLifetime))
	return b.WACC * g / (g - 1)
}

// Report is the costed summary of a converged model.
type Report struct {
	// Purchased equipment costs [$].
	Electrodes  *unit.Unit
	PowerSupply *unit.Unit
	Reactor     *unit.Unit
	// TotalCapitalCost is the total installed cost, TICFactor times
	// the purchased sum [$].
	TotalCapitalCost *unit.Unit
	// SEC is the specific energy consumption per unit of treated
	// water [kWh m⁻³].
	SEC float64
	// AnnualWaterProduction [m³ yr⁻¹] at the basis utilization.
	AnnualWaterProduction float64
	// LCOW is the levelized cost of the treated water [$ m⁻³].
	LCOW float64
}

// Cost evaluates the full report against m, which should be converged;
// costing an unconverged model silently prices the last iterate.
func (b CostBasis) Cost(m *electrocoag.Model) (*Report, error) {
	electrodes, err := b.CapitalCostElectrodes(m)
	if err != nil {
		return nil, err
	}
	reactor, err := b.CapitalCostReactor(m)
	if err != nil {
		return nil, err
	}
	powerSupply := b.CapitalCostPowerSupply(m)

	total := unit.Mul(unit.Add(unit.Add(electrodes.Clone(), powerSupply.Clone()),
		reactor.Clone()), unit.New(b.TICFactor, unit.Dimless))

	qOut := m.Out.FlowVol() // [m³ s⁻¹]
	if qOut <= 0 {
		return nil, fmt.Errorf("costing: treated stream flow is %g m³/s", qOut)
	}
	// W / (m³ s⁻¹) is J m⁻³; 3.6e6 J per kWh.
	sec := m.PowerRequired.Value / qOut / 3.6e6
	annual := qOut * b.Utilization * SecondsPerYear

	annualCapital := b.CRF() * total.Value()
	annualMaintenance := b.MaintenanceFrac * total.Value()
	annualElectricity := b.ElectricityPrice * sec * annual
	lcow := (annualCapital + annualMaintenance + annualElectricity) / annual

	return &Report{
		Electrodes:            electrodes,
		PowerSupply:           powerSupply,
		Reactor:               reactor,
		TotalCapitalCost:      total,
		SEC:                   sec,
		AnnualWaterProduction: annual,
		LCOW:                  lcow,
	}, nil
}
