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

// Package properties is a minimal multicomponent aqueous property
// package: a declared solute list with molar masses and charges, a
// constant-density solution model, and the conductivity correlation the
// reactor model consumes. It plays the role of the thermodynamic
// property collaborator; phase equilibrium beyond a single liquid phase
// is out of scope.
package properties

import "fmt"

// Names of components with meaning to the reactor model.
const (
	// Water is the solvent component present in every stream.
	Water = "H2O"
	// TDS is the total-dissolved-solids surrogate used for conductivity
	// estimation. It must appear in every feed specification.
	TDS = "TDS"
)

// Molar mass of water [kg/mol].
const MolarMassWater = 18.01528e-3

// conductivityPerTDS is the slope of the linear conductivity estimate
// [S·m²/kg]: 75 kg/m³ of TDS gives 7.5 S/m, consistent with the common
// κ(µS/cm) ≈ TDS(mg/L) rule of thumb for mixed-salt waters.
const conductivityPerTDS = 0.1

// Component is one declared solute.
type Component struct {
	Name string
	// MW is the molar mass [kg/mol].
	MW float64
	// Charge is the ionic charge; zero for neutral or lumped solutes.
	Charge int
}

// Package holds an immutable component declaration set shared by the
// three stream states of a reactor model.
type Package struct {
	solutes []Component
	byName  map[string]Component

	// Density is the solution mass density [kg/m³], treated as constant
	// across the modeled composition range.
	Density float64
}

// New creates a property package from a solute declaration list. Water
// is always present as the solvent and may not be declared as a solute.
func New(solutes []Component) (*Package, error) {
	p := &Package{
		solutes: make([]Component, 0, len(solutes)),
		byName:  make(map[string]Component),
		Density: 1000,
	}
	for _, c := range solutes {
		if c.Name == Water {
			return nil, fmt.Errorf("properties: %s is the solvent and may not be declared as a solute", Water)
		}
		if c.MW <= 0 {
			return nil, fmt.Errorf("properties: component %q must have a positive molar mass", c.Name)
		}
		if _, ok := p.byName[c.Name]; ok {
			return nil, fmt.Errorf("properties: duplicate component %q", c.Name)
		}
		p.solutes = append(p.solutes, c)
		p.byName[c.Name] = c
	}
	return p, nil
}

// Solutes returns the declared solutes in declaration order.
func (p *Package) Solutes() []Component { return p.solutes }

// ComponentNames returns the solvent followed by the declared solutes.
func (p *Package) ComponentNames() []string {
	names := make([]string, 0, len(p.solutes)+1)
	names = append(names, Water)
	for _, c := range p.solutes {
		names = append(names, c.Name)
	}
	return names
}

// Component returns the declaration of the named component. The solvent
// is reported with its own molar mass and zero charge.
func (p *Package) Component(name string) (Component, bool) {
	if name == Water {
		return Component{Name: Water, MW: MolarMassWater}, true
	}
	c, ok := p.byName[name]
	return c, ok
}

// HasComponent reports whether the named component is declared.
func (p *Package) HasComponent(name string) bool {
	_, ok := p.Component(name)
	return ok
}

// MolarMass returns the molar mass of the named component [kg/mol], or
// zero if it is not declared.
func (p *Package) MolarMass(name string) float64 {
	c, _ := p.Component(name)
	return c.MW
}

// Conductivity estimates the ionic conductivity of the solution [S/m]
// from the TDS surrogate mass concentration [kg/m³].
func (p *Package) Conductivity(concTDS float64) float64 {
	return conductivityPerTDS * concTDS
}
