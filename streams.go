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
	"github.com/watermodel/electrocoag/properties"
)

// Phase identifies a thermodynamic phase. Only the liquid phase is
// supported.
type Phase string

// Liquid is the single supported phase.
const Liquid Phase = "Liq"

// Default stream split fractions, overridable through the model params.
const (
	// defaultRemovalEfficiency is the fraction of each solute directed
	// to the sludge/waste stream.
	defaultRemovalEfficiency = 0.70
	// defaultWaterRecovery is the fraction of water recovered to the
	// treated stream.
	defaultWaterRecovery = 0.99
)

// StreamState is the state of one material stream: molar flow per
// (phase, component) plus temperature and pressure. Values are
// unconstrained until the caller fixes the feed state and the solver
// converges the balance equations.
type StreamState struct {
	name  string
	props *properties.Package
	flow  map[string]*Var

	Temperature *Var // [K]
	Pressure    *Var // [Pa]
}

func newStreamState(sys *System, props *properties.Package, name string) *StreamState {
	s := &StreamState{
		name:  name,
		props: props,
		flow:  make(map[string]*Var),
	}
	for _, comp := range props.ComponentNames() {
		s.flow[comp] = sys.NewVar(
			fmt.Sprintf("%s.flow_mol[%s,%s]", name, Liquid, comp), "mol/s", 0)
	}
	s.Temperature = sys.NewVar(name+".temperature", "K", 298.15)
	s.Pressure = sys.NewVar(name+".pressure", "Pa", 101325)
	return s
}

// Name returns the stream's name within the model ("in", "out", "waste").
func (s *StreamState) Name() string { return s.name }

// FlowMol returns the molar flow variable [mol/s] for the given phase
// and component, or nil if the phase is not liquid or the component is
// not declared.
func (s *StreamState) FlowMol(p Phase, comp string) *Var {
	if p != Liquid {
		return nil
	}
	return s.flow[comp]
}

// FlowMass returns the current mass flow of a component [kg/s].
func (s *StreamState) FlowMass(comp string) float64 {
	v := s.flow[comp]
	if v == nil {
		return 0
	}
	return v.Value * s.props.MolarMass(comp)
}

// FlowMassTotal returns the current total mass flow [kg/s].
func (s *StreamState) FlowMassTotal() float64 {
	var total float64
	for comp := range s.flow {
		total += s.FlowMass(comp)
	}
	return total
}

// FlowVol returns the current volumetric flow [m³/s] under the
// constant-density solution model.
func (s *StreamState) FlowVol() float64 {
	return s.FlowMassTotal() / s.props.Density
}

// ConcMass returns the current mass concentration of a component
// [kg/m³].
func (s *StreamState) ConcMass(comp string) float64 {
	q := s.FlowVol()
	if q == 0 {
		return 0
	}
	return s.FlowMass(comp) / q
}

// SetState fixes the stream to a feed specification: volumetric flow
// [m³/s], solute mass concentrations [kg/m³], temperature [K], and
// pressure [Pa]. The water flow is back-calculated from the solution
// density. This is how the target electrocoagulation dose is encoded:
// the EC-ion concentration of the feed is the dose.
func (s *StreamState) SetState(flowVol float64, conc map[string]float64, temperature, pressure float64) error {
	if flowVol <= 0 {
		return fmt.Errorf("electrocoag: stream %s: volumetric flow must be positive", s.name)
	}
	var soluteConc float64
	for comp, c := range conc {
		v := s.flow[comp]
		if v == nil {
			return fmt.Errorf("electrocoag: stream %s: component %q is not declared", s.name, comp)
		}
		if comp == properties.Water {
			return fmt.Errorf("electrocoag: stream %s: water flow is derived from the solution density, not specified", s.name)
		}
		v.Fix(c * flowVol / s.props.MolarMass(comp))
		soluteConc += c
	}
	if soluteConc >= s.props.Density {
		return fmt.Errorf("electrocoag: stream %s: solute concentrations exceed the solution density", s.name)
	}
	s.flow[properties.Water].Fix((s.props.Density - soluteConc) * flowVol / properties.MolarMassWater)
	s.Temperature.Fix(temperature)
	s.Pressure.Fix(pressure)
	return nil
}

// buildStreams creates the inlet, treated-outlet, and waste stream
// states and registers the constraints binding them: one exact balance
// per component, the solute-removal and water-recovery splits, and
// isothermal/isobaric outlet conditions. The reactor consumes no water
// and produces no new components; it only partitions flow.
func (m *Model) buildStreams() {
	m.In = newStreamState(m.sys, m.Props, "in")
	m.Out = newStreamState(m.sys, m.Props, "out")
	m.Waste = newStreamState(m.sys, m.Props, "waste")

	m.RemovalEfficiency = make(map[string]*Param)
	for _, c := range m.Props.Solutes() {
		m.RemovalEfficiency[c.Name] = m.sys.NewParam(
			fmt.Sprintf("removal_efficiency[%s]", c.Name),
			unit.New(defaultRemovalEfficiency, unit.Dimless))
	}
	m.WaterRecovery = m.sys.NewParam("water_recovery",
		unit.New(defaultWaterRecovery, unit.Dimless))

	for _, comp := range m.Props.ComponentNames() {
		in := m.In.FlowMol(Liquid, comp)
		out := m.Out.FlowMol(Liquid, comp)
		waste := m.Waste.FlowMol(Liquid, comp)
		m.sys.AddConstraint(fmt.Sprintf("eq_mass_balance[%s]", comp),
			func() float64 { return in.Value - out.Value - waste.Value })
	}
	for _, c := range m.Props.Solutes() {
		in := m.In.FlowMol(Liquid, c.Name)
		waste := m.Waste.FlowMol(Liquid, c.Name)
		removal := m.RemovalEfficiency[c.Name]
		m.sys.AddConstraint(fmt.Sprintf("eq_solute_removal[%s]", c.Name),
			func() float64 { return waste.Value - removal.Value.Value()*in.Value })
	}
	inWater := m.In.FlowMol(Liquid, properties.Water)
	outWater := m.Out.FlowMol(Liquid, properties.Water)
	m.sys.AddConstraint("eq_water_recovery", func() float64 {
		return outWater.Value - m.WaterRecovery.Value.Value()*inWater.Value
	})

	m.sys.AddConstraint("eq_isothermal_out", func() float64 {
		return m.Out.Temperature.Value - m.In.Temperature.Value
	})
	m.sys.AddConstraint("eq_isothermal_waste", func() float64 {
		return m.Waste.Temperature.Value - m.In.Temperature.Value
	})
	m.sys.AddConstraint("eq_isobaric_out", func() float64 {
		return m.Out.Pressure.Value - m.In.Pressure.Value
	})
	m.sys.AddConstraint("eq_isobaric_waste", func() float64 {
		return m.Waste.Pressure.Value - m.In.Pressure.Value
	})
}
