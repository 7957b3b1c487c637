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

// Package regression computes the cell overpotential from a
// semi-empirical Tafel-type correlation,
//
//	η [mV] = k1·ln(j [mA/cm²]) + k2
//
// with literature-sourced coefficients k1 and k2 specific to the
// electrode and solution chemistry. The coefficients are only
// physically meaningful inside the current-density range they were fit
// to; the model does not enforce that range, so operating points
// outside it are extrapolations.
package regression

import (
	"math"

	"github.com/watermodel/electrocoag"
)

// Model fulfils the github.com/watermodel/electrocoag.OverpotentialModel
// interface. K1 and K2 are created by Build and must be fixed by the
// caller before solving.
type Model struct {
	K1 *electrocoag.Var // [mV]
	K2 *electrocoag.Var // [mV]
}

// New returns a regression overpotential formulation.
func New() *Model { return &Model{} }

// Calculation returns electrocoag.OverpotentialRegression.
func (*Model) Calculation() electrocoag.OverpotentialCalculation {
	return electrocoag.OverpotentialRegression
}

// Build adds the two coefficient variables and the correlation
// constraint. Relative to the fixed formulation this is +2 variables
// and +1 constraint; the overpotential variable is left free and
// determined by the correlation.
func (g *Model) Build(m *electrocoag.Model) error {
	sys := m.System()
	g.K1 = sys.NewVar("overpotential_k1", "mV", 0)
	g.K2 = sys.NewVar("overpotential_k2", "mV", 0)
	sys.AddConstraint("eq_overpotential", func() float64 {
		return m.Overpotential.Value - g.value(m)
	})
	return nil
}

// value evaluates the correlation at the model's current density,
// converting A/m² to mA/cm² and mV to V.
func (g *Model) value(m *electrocoag.Model) float64 {
	jmAcm2 := m.CurrentDensity.Value / 10
	return (g.K1.Value*math.Log(jmAcm2) + g.K2.Value) / 1000
}

// Initialize guesses the overpotential from the correlation.
func (g *Model) Initialize(m *electrocoag.Model) error {
	if !m.Overpotential.Fixed() {
		m.Overpotential.Value = g.value(m)
	}
	return nil
}

// CheckUnits succeeds: the correlation is defined in its own mV and
// mA/cm² bases and converted explicitly at the boundary.
func (*Model) CheckUnits(m *electrocoag.Model) error { return nil }
