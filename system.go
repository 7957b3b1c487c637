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

import (
	"fmt"

	"github.com/ctessum/unit"
)

// Var is one model quantity determined by the equation system. A Var is
// either free (solved for) or fixed by the caller as a design or
// operating specification.
type Var struct {
	Name  string
	Units string
	Value float64

	fixed bool
}

// Fix sets the variable to val and marks it as a specification rather
// than an unknown.
func (v *Var) Fix(val float64) {
	v.Value = val
	v.fixed = true
}

// Unfix returns the variable to the set of unknowns, keeping its current
// value as the initial guess.
func (v *Var) Unfix() { v.fixed = false }

// Fixed reports whether the variable is a caller specification.
func (v *Var) Fixed() bool { return v.fixed }

func (v *Var) String() string {
	return fmt.Sprintf("%s = %g %s", v.Name, v.Value, v.Units)
}

// Param is a named constant of the equation system. Unlike a Var it is
// never solved for and does not enter the degrees-of-freedom count.
// Params carry their units so formulations can be checked for
// dimensional consistency.
type Param struct {
	Name  string
	Value *unit.Unit
}

// Constraint is one equation of the system, expressed as a residual that
// equals zero at a converged solution. Residual closures read the
// current values of the Vars and Params they couple.
type Constraint struct {
	Name     string
	Residual func() float64
}

// System is a declarative equation system: variables, parameters, and
// constraints registered during model construction. It has no solving
// logic of its own; package solve consumes it as a square residual
// system once the degrees of freedom reach zero.
type System struct {
	vars   []*Var
	byName map[string]*Var
	params []*Param
	cons   []*Constraint
}

// NewSystem returns an empty equation system.
func NewSystem() *System {
	return &System{byName: make(map[string]*Var)}
}

// NewVar registers a free variable with an initial guess and returns it.
// Variable names must be unique within the system.
func (s *System) NewVar(name, units string, guess float64) *Var {
	if _, ok := s.byName[name]; ok {
		panic(fmt.Sprintf("electrocoag: duplicate variable %q", name))
	}
	v := &Var{Name: name, Units: units, Value: guess}
	s.vars = append(s.vars, v)
	s.byName[name] = v
	return v
}

// NewParam registers a named constant and returns it.
func (s *System) NewParam(name string, value *unit.Unit) *Param {
	p := &Param{Name: name, Value: value}
	s.params = append(s.params, p)
	return p
}

// AddConstraint registers one equation by its residual closure.
func (s *System) AddConstraint(name string, residual func() float64) *Constraint {
	c := &Constraint{Name: name, Residual: residual}
	s.cons = append(s.cons, c)
	return c
}

// Vars returns all registered variables in registration order.
func (s *System) Vars() []*Var { return s.vars }

// Params returns all registered parameters in registration order.
func (s *System) Params() []*Param { return s.params }

// Constraints returns all registered constraints in registration order.
func (s *System) Constraints() []*Constraint { return s.cons }

// Var returns the variable with the given name, or nil.
func (s *System) Var(name string) *Var { return s.byName[name] }

// Free returns the variables not fixed by the caller, in registration
// order. These are the unknowns the solver determines.
func (s *System) Free() []*Var {
	var free []*Var
	for _, v := range s.vars {
		if !v.fixed {
			free = append(free, v)
		}
	}
	return free
}

// DegreesOfFreedom returns the number of free variables minus the number
// of constraints. It must be exactly zero before a solve is attempted;
// this is a structural property of the configured model, not a runtime
// discovery.
func (s *System) DegreesOfFreedom() int {
	return len(s.Free()) - len(s.cons)
}

// Residuals evaluates every constraint at the current variable values,
// reusing dst if it has sufficient capacity.
func (s *System) Residuals(dst []float64) []float64 {
	if cap(dst) < len(s.cons) {
		dst = make([]float64, len(s.cons))
	}
	dst = dst[:len(s.cons)]
	for i, c := range s.cons {
		dst[i] = c.Residual()
	}
	return dst
}
