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

// Package nernst derives the cell overpotential from thermodynamic
// first principles: entropy-corrected reversible half-cell potentials,
// Butler–Volmer activation terms driven by the exchange current
// densities, and concentration contributions from the equilibrium
// hydroxide and metal-ion concentrations and the hydrogen partial
// pressure at the cathode. It adds ten parameters and two constraints
// relative to the fixed formulation; the overpotential and cell
// temperature become solved variables.
package nernst

import (
	"fmt"
	"math"

	"github.com/ctessum/unit"
	"github.com/watermodel/electrocoag"
)

// referenceTemperature is the standard-state temperature for the
// entropy corrections [K].
const referenceTemperature = 298.15

// Non-SI unit bases of the thermodynamic parameters. The per-mole basis
// of the entropy coefficients and the mol/L and atm bases of the
// equilibrium parameters are not expressible in SI dimensions; the
// units check reports them instead of pretending otherwise.
var (
	molarDim unit.Dimension // mol/L
	atmDim   unit.Dimension // standard atmosphere
	moleDim  unit.Dimension // amount of substance
)

func init() {
	molarDim = unit.NewDimension("molar")
	atmDim = unit.NewDimension("atm")
	moleDim = unit.NewDimension("mole")
}

// Params are the ten thermodynamic constants of the formulation.
type Params struct {
	// Standard half-cell potentials [V].
	AnodeCellPotentialStd   float64
	CathodeCellPotentialStd float64
	// Standard entropy changes [J/(mol·K)], used to correct the
	// half-cell potentials away from the reference temperature.
	AnodeEntropyChangeStd   float64
	CathodeEntropyChangeStd float64
	// Exchange current densities [A/m²].
	AnodicExchangeCurrentDensity   float64
	CathodicExchangeCurrentDensity float64
	// Equilibrium concentrations at the cathode surface [mol/L].
	CathodeConcMolHydroxide float64
	CathodeConcMolMetal     float64
	// Hydrogen partial pressure [atm].
	PartialPressureH2 float64
	// FracIncreaseTemperature is the fractional rise of the cell
	// temperature over the feed temperature from ohmic heating.
	FracIncreaseTemperature float64
}

// DefaultParams returns literature-ordinary constants for the given
// electrode material. The anode couple is Al³⁺/Al or Fe²⁺/Fe; the
// cathode is alkaline hydrogen evolution.
func DefaultParams(mat electrocoag.ElectrodeMaterial) Params {
	p := Params{
		CathodeCellPotentialStd:        -0.83,
		AnodeEntropyChangeStd:          -200,
		CathodeEntropyChangeStd:        -160,
		AnodicExchangeCurrentDensity:   1.0,
		CathodicExchangeCurrentDensity: 1.0,
		CathodeConcMolHydroxide:        1e-4,
		CathodeConcMolMetal:            1e-4,
		PartialPressureH2:              1.0,
		FracIncreaseTemperature:        0.05,
	}
	switch mat {
	case electrocoag.Iron:
		p.AnodeCellPotentialStd = -0.447
		p.AnodeEntropyChangeStd = -100
	default:
		p.AnodeCellPotentialStd = -1.66
	}
	return p
}

// Model fulfils the github.com/watermodel/electrocoag.OverpotentialModel
// interface.
type Model struct {
	P Params
}

// New returns a nernst overpotential formulation with the given
// parameters.
func New(p Params) *Model { return &Model{P: p} }

// Calculation returns electrocoag.OverpotentialNernst.
func (*Model) Calculation() electrocoag.OverpotentialCalculation {
	return electrocoag.OverpotentialNernst
}

// Build registers the ten parameters and the two constraints: the
// heated cell temperature and the combined overpotential equation.
// Relative to the fixed formulation the variable count is unchanged;
// the two constraints determine the overpotential and cell-temperature
// variables the caller would otherwise fix.
func (g *Model) Build(m *electrocoag.Model) error {
	sys := m.System()
	volt := unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2,
		unit.TimeDim: -3, unit.CurrentDim: -1}
	entropy := unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2,
		unit.TimeDim: -2, unit.TemperatureDim: -1, moleDim: -1}
	currentDensity := unit.Dimensions{unit.CurrentDim: 1, unit.LengthDim: -2}

	sys.NewParam("anode_cell_potential_std", unit.New(g.P.AnodeCellPotentialStd, volt))
	sys.NewParam("anode_entropy_change_std", unit.New(g.P.AnodeEntropyChangeStd, entropy))
	sys.NewParam("anodic_exchange_current_density", unit.New(g.P.AnodicExchangeCurrentDensity, currentDensity))
	sys.NewParam("cathodic_exchange_current_density", unit.New(g.P.CathodicExchangeCurrentDensity, currentDensity))
	sys.NewParam("cathode_cell_potential_std", unit.New(g.P.CathodeCellPotentialStd, volt))
	sys.NewParam("cathode_entropy_change_std", unit.New(g.P.CathodeEntropyChangeStd, entropy))
	sys.NewParam("cathode_conc_mol_hydroxide", unit.New(g.P.CathodeConcMolHydroxide, unit.Dimensions{molarDim: 1}))
	sys.NewParam("cathode_conc_mol_metal", unit.New(g.P.CathodeConcMolMetal, unit.Dimensions{molarDim: 1}))
	sys.NewParam("partial_pressure_H2", unit.New(g.P.PartialPressureH2, unit.Dimensions{atmDim: 1}))
	sys.NewParam("frac_increase_temperature", unit.New(g.P.FracIncreaseTemperature, unit.Dimless))

	sys.AddConstraint("eq_cell_temperature", func() float64 {
		return m.CellTemperature.Value -
			m.In.Temperature.Value*(1+g.P.FracIncreaseTemperature)
	})
	sys.AddConstraint("eq_overpotential", func() float64 {
		return m.Overpotential.Value - g.value(m)
	})
	return nil
}

// value evaluates the combined overpotential [V] at the model's cell
// temperature and current density.
func (g *Model) value(m *electrocoag.Model) float64 {
	T := m.CellTemperature.Value
	dT := T - referenceTemperature
	z := float64(m.Valence)
	zF := z * electrocoag.FaradayConstant
	twoF := 2 * electrocoag.FaradayConstant
	rt := electrocoag.GasConstant * T
	j := m.CurrentDensity.Value

	// Reversible half-cell potentials, entropy-corrected to the heated
	// cell temperature.
	anode := g.P.AnodeCellPotentialStd + g.P.AnodeEntropyChangeStd/zF*dT
	cathode := g.P.CathodeCellPotentialStd + g.P.CathodeEntropyChangeStd/twoF*dT

	// Butler–Volmer activation overpotentials.
	actAnode := 2 * rt / zF * math.Asinh(j/(2*g.P.AnodicExchangeCurrentDensity))
	actCathode := 2 * rt / twoF * math.Asinh(j/(2*g.P.CathodicExchangeCurrentDensity))

	// Concentration overpotentials from the equilibrium metal-ion
	// activity at the anode and the hydroxide/hydrogen couple at the
	// cathode, nondimensionalized against 1 mol/L and 1 atm.
	concAnode := rt / zF * math.Log(1/g.P.CathodeConcMolMetal)
	concCathode := rt / twoF * math.Log(1/
		(g.P.PartialPressureH2*g.P.CathodeConcMolHydroxide*g.P.CathodeConcMolHydroxide))

	return (cathode - anode) + actAnode + actCathode + concAnode + concCathode
}

// Initialize guesses the cell temperature from the feed temperature and
// the overpotential from the combined equation.
func (g *Model) Initialize(m *electrocoag.Model) error {
	if !m.CellTemperature.Fixed() {
		m.CellTemperature.Value = m.In.Temperature.Value * (1 + g.P.FracIncreaseTemperature)
	}
	if !m.Overpotential.Fixed() {
		m.Overpotential.Value = g.value(m)
	}
	return nil
}

// CheckUnits reports the unit bases of this formulation that are not
// expressible in SI dimensions: the per-mole entropy coefficients and
// the mol/L and atm references the logarithmic terms are
// nondimensionalized against. Dimensional consistency of the assembled
// expression therefore cannot be asserted mechanically and must be
// reviewed per instance.
func (g *Model) CheckUnits(m *electrocoag.Model) error {
	var mixed []string
	for _, p := range m.System().Params() {
		d := p.Value.Dimensions()
		if d[molarDim] != 0 || d[atmDim] != 0 || d[moleDim] != 0 {
			mixed = append(mixed, p.Name)
		}
	}
	if len(mixed) == 0 {
		return nil
	}
	return fmt.Errorf("nernst overpotential: parameters %v carry non-SI unit bases (mol/L, atm, per-mole); dimensional consistency must be checked per instance", mixed)
}
