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

// Package fixedop treats the cell overpotential as an exogenous
// constant. It is the minimal overpotential formulation: no extra
// variables, parameters, or constraints. The caller fixes the model's
// overpotential and cell-temperature variables directly.
package fixedop

import "github.com/watermodel/electrocoag"

// Model fulfils the github.com/watermodel/electrocoag.OverpotentialModel
// interface.
type Model struct{}

// New returns a fixed-overpotential formulation.
func New() *Model { return &Model{} }

// Calculation returns electrocoag.OverpotentialFixed.
func (*Model) Calculation() electrocoag.OverpotentialCalculation {
	return electrocoag.OverpotentialFixed
}

// Build adds nothing: the overpotential variable belongs to the core
// and is fixed by the caller.
func (*Model) Build(m *electrocoag.Model) error { return nil }

// Initialize does nothing; a fixed overpotential needs no guess.
func (*Model) Initialize(m *electrocoag.Model) error { return nil }

// CheckUnits always succeeds: a single fixed voltage is trivially
// consistent.
func (*Model) CheckUnits(m *electrocoag.Model) error { return nil }
