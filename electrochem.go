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

// Physical constants.
const (
	// FaradayConstant is the charge of one mole of electrons [C/mol].
	FaradayConstant = 96485.332
	// GasConstant is the molar gas constant [J/(mol·K)].
	GasConstant = 8.31446
)

// buildElectrochemistry registers the design variables, derived
// variables, parameters, and constraints of the electrochemical core.
// The constraints form a simultaneous system with the stream balances:
// stream composition depends on dissolution, which depends on current,
// which depends on the target dose encoded in the inlet. There is no
// feed-forward evaluation order.
func (m *Model) buildElectrochemistry() {
	sys := m.sys

	m.ElectrodeThick = sys.NewVar("electrode_thick", "m", 0.001)
	m.CurrentDensity = sys.NewVar("current_density", "A/m²", 100)
	m.ElectrolysisTime = sys.NewVar("electrolysis_time", "s", 30)
	m.NumberElectrodePairs = sys.NewVar("number_electrode_pairs", "", 1)
	m.ElectrodeGap = sys.NewVar("electrode_gap", "m", 0.01)
	m.CurrentEfficiency = sys.NewVar("current_efficiency", "", 1)

	m.ChargeLoadingRate = sys.NewVar("charge_loading_rate", "C/L", 100)
	m.AppliedCurrent = sys.NewVar("applied_current", "A", 1000)
	m.ElectrodeAreaTotal = sys.NewVar("electrode_area_total", "m²", 10)
	m.Conductivity = sys.NewVar("conductivity", "S/m", 1)
	m.OhmicResistance = sys.NewVar("ohmic_resistance", "Ω", 1e-3)
	m.ReactorVolume = sys.NewVar("reactor_volume", "m³", 1)
	m.Overpotential = sys.NewVar("overpotential", "V", 1)
	m.CellTemperature = sys.NewVar("cell_temperature", "K", 298.15)
	m.CellVoltage = sys.NewVar("cell_voltage", "V", 5)
	m.PowerRequired = sys.NewVar("power_required", "W", 1e4)

	mat := m.Config.ElectrodeMaterial
	sys.NewParam("mw_electrode_material",
		unit.New(mat.MolarMass(), unit.Dimensions{unit.MassDim: 1}))
	sys.NewParam("density_electrode_material",
		unit.New(mat.Density(), unit.KilogramPerMeter3))
	sys.NewParam("valence_electrode_material",
		unit.New(float64(m.Valence), unit.Dimless))

	ecIonIn := m.In.FlowMol(Liquid, m.ECIon)
	valence := float64(m.Valence)

	// Applied current is sized so that the Faraday dissolution rate
	// matches the target dose carried by the inlet. Current efficiency
	// above one represents additional chemical dissolution.
	sys.AddConstraint("eq_faraday_dissolution", func() float64 {
		return m.CurrentEfficiency.Value*m.AppliedCurrent.Value/(valence*FaradayConstant) -
			ecIonIn.Value
	})

	// Charge delivered per unit treated volume [C/L]; reported from the
	// dissolution-driven current, not an independent driver of it.
	sys.AddConstraint("eq_charge_loading_rate", func() float64 {
		return m.ChargeLoadingRate.Value*m.In.FlowVol()*1000 - m.AppliedCurrent.Value
	})

	sys.AddConstraint("eq_electrode_area_total", func() float64 {
		return m.ElectrodeAreaTotal.Value*m.CurrentDensity.Value - m.AppliedCurrent.Value
	})

	sys.AddConstraint("eq_conductivity", func() float64 {
		return m.Conductivity.Value - m.Props.Conductivity(m.In.ConcMass(properties.TDS))
	})

	// Single-cell ohmic resistance referenced to the total applied
	// current: gap over conductivity times the per-pair electrode area.
	sys.AddConstraint("eq_ohmic_resistance", func() float64 {
		return m.OhmicResistance.Value*m.Conductivity.Value*m.ElectrodeAreaTotal.Value -
			m.ElectrodeGap.Value*m.NumberElectrodePairs.Value
	})

	sys.AddConstraint("eq_reactor_volume", func() float64 {
		return m.ReactorVolume.Value - m.In.FlowVol()*m.ElectrolysisTime.Value
	})

	sys.AddConstraint("eq_cell_voltage", func() float64 {
		return m.CellVoltage.Value - m.Overpotential.Value -
			m.AppliedCurrent.Value*m.OhmicResistance.Value
	})

	sys.AddConstraint("eq_power_required", func() float64 {
		return m.PowerRequired.Value - m.CellVoltage.Value*m.AppliedCurrent.Value
	})
}

// Initialize propagates consistent initial guesses through the model in
// the documented order: the stream states first (the inlet must already
// be fixed via SetState), then the coupled electrochemical variables,
// whose initial residuals depend on physically plausible flow values.
// Fixed variables are never touched.
func (m *Model) Initialize() error {
	inWater := m.In.FlowMol(Liquid, properties.Water)
	if !inWater.Fixed() {
		return fmt.Errorf("electrocoag: inlet stream must be fixed before initialization")
	}

	for _, c := range m.Props.Solutes() {
		in := m.In.FlowMol(Liquid, c.Name).Value
		removal := m.RemovalEfficiency[c.Name].Value.Value()
		setGuess(m.Waste.FlowMol(Liquid, c.Name), removal*in)
		setGuess(m.Out.FlowMol(Liquid, c.Name), (1-removal)*in)
	}
	recovery := m.WaterRecovery.Value.Value()
	setGuess(m.Out.FlowMol(Liquid, properties.Water), recovery*inWater.Value)
	setGuess(m.Waste.FlowMol(Liquid, properties.Water), (1-recovery)*inWater.Value)
	for _, s := range []*StreamState{m.Out, m.Waste} {
		setGuess(s.Temperature, m.In.Temperature.Value)
		setGuess(s.Pressure, m.In.Pressure.Value)
	}

	flowVol := m.In.FlowVol()
	setGuess(m.Conductivity, m.Props.Conductivity(m.In.ConcMass(properties.TDS)))
	setGuess(m.AppliedCurrent,
		m.In.FlowMol(Liquid, m.ECIon).Value*float64(m.Valence)*FaradayConstant/
			m.CurrentEfficiency.Value)
	setGuess(m.ElectrodeAreaTotal, m.AppliedCurrent.Value/m.CurrentDensity.Value)
	setGuess(m.OhmicResistance,
		m.ElectrodeGap.Value*m.NumberElectrodePairs.Value/
			(m.Conductivity.Value*m.ElectrodeAreaTotal.Value))
	setGuess(m.ChargeLoadingRate, m.AppliedCurrent.Value/(flowVol*1000))
	setGuess(m.ReactorVolume, flowVol*m.ElectrolysisTime.Value)
	setGuess(m.CellTemperature, m.In.Temperature.Value)

	if err := m.op.Initialize(m); err != nil {
		return err
	}
	setGuess(m.CellVoltage,
		m.Overpotential.Value+m.AppliedCurrent.Value*m.OhmicResistance.Value)
	setGuess(m.PowerRequired, m.CellVoltage.Value*m.AppliedCurrent.Value)
	return nil
}

func setGuess(v *Var, val float64) {
	if !v.Fixed() {
		v.Value = val
	}
}

// SuggestedScaling returns per-name scaling factors for the solver,
// sized from the fixed feed state. The map covers both variables and
// constraints; names absent from it scale by one. It replaces any
// notion of globally registered scaling state: callers pass it
// explicitly through solve.Options.
func (m *Model) SuggestedScaling() map[string]float64 {
	s := map[string]float64{
		"applied_current":         1e-4,
		"power_required":          1e-5,
		"electrode_area_total":    1e-2,
		"ohmic_resistance":        1e3,
		"charge_loading_rate":     1e-2,
		"eq_power_required":       1e-5,
		"eq_electrode_area_total": 1e-4,
		"eq_charge_loading_rate":  1e-4,
	}
	for _, stream := range []*StreamState{m.In, m.Out, m.Waste} {
		for _, comp := range m.Props.ComponentNames() {
			v := stream.FlowMol(Liquid, comp)
			if v.Value > 0 {
				s[v.Name] = 1 / v.Value
			}
		}
		s[stream.Pressure.Name] = 1e-5
		s[stream.Temperature.Name] = 1e-2
	}
	return s
}
