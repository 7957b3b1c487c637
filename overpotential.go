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

package electrocoag

// OverpotentialModel is an interface for cell overpotential
// formulations. One implementation is selected at model construction
// and never switched at runtime; each adds only its own variables,
// parameters, and constraints, so the degrees-of-freedom count stays
// exact and no dead variables clutter the solved model.
//
// The three implementations live in overpotential/fixedop,
// overpotential/regression, and overpotential/nernst.
type OverpotentialModel interface {
	// Calculation identifies the configuration variant this
	// formulation implements.
	Calculation() OverpotentialCalculation

	// Build adds the formulation's variables, parameters, and
	// constraints to the model's equation system. It is called once,
	// by New, after the stream and electrochemical cores are built.
	Build(m *Model) error

	// Initialize sets initial guesses for the variables this
	// formulation determines. It is called by Model.Initialize after
	// the streams and core guesses are in place.
	Initialize(m *Model) error

	// CheckUnits verifies the dimensional consistency of the
	// formulation's equations. The nernst branch mixes thermodynamic
	// unit bases (mol/L, atm) and reports them instead of assuming
	// consistency.
	CheckUnits(m *Model) error
}
