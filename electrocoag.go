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

// Package electrocoag models the steady-state performance of an
// electrocoagulation water-treatment reactor. Given an influent
// composition and a target dose of the dissolving-electrode ion, it
// assembles a square nonlinear equation system coupling Faraday's-law
// electrode dissolution, Ohm's-law resistive voltage drop, an
// overpotential sub-model chosen at construction time, and exact
// component mass balance across an inlet, treated-outlet, and waste
// stream. The system is solved by an external solver (see package
// solve); converged results feed the capital and levelized cost
// correlations in package costing.
package electrocoag

import (
	"fmt"

	"github.com/watermodel/electrocoag/properties"
)

// Version gives the library version.
const Version = "0.1.0"

// ElectrodeMaterial is the material of the sacrificial electrodes.
type ElectrodeMaterial string

// Supported electrode materials.
const (
	Aluminum ElectrodeMaterial = "aluminum"
	Iron     ElectrodeMaterial = "iron"
)

// Ion returns the name of the cation produced by anodic dissolution of
// the electrode material.
func (e ElectrodeMaterial) Ion() string {
	switch e {
	case Aluminum:
		return "Al_3+"
	case Iron:
		return "Fe_2+"
	}
	return ""
}

// MolarMass returns the molar mass of the electrode material [kg/mol].
func (e ElectrodeMaterial) MolarMass() float64 {
	switch e {
	case Aluminum:
		return 26.98e-3
	case Iron:
		return 55.845e-3
	}
	return 0
}

// Density returns the density of the electrode material [kg/m³].
func (e ElectrodeMaterial) Density() float64 {
	switch e {
	case Aluminum:
		return 2710
	case Iron:
		return 7860
	}
	return 0
}

func (e ElectrodeMaterial) valid() bool { return e == Aluminum || e == Iron }

// ReactorMaterial is the material of construction of the reactor vessel.
// It only affects the vessel cost correlation.
type ReactorMaterial string

// Supported reactor materials.
const (
	PVC            ReactorMaterial = "pvc"
	StainlessSteel ReactorMaterial = "stainless_steel"
	CarbonSteel    ReactorMaterial = "carbon_steel"
)

func (r ReactorMaterial) valid() bool {
	return r == PVC || r == StainlessSteel || r == CarbonSteel
}

// OverpotentialCalculation selects which overpotential formulation is
// built into the equation system.
type OverpotentialCalculation string

// The three mutually exclusive overpotential formulations.
const (
	OverpotentialFixed      OverpotentialCalculation = "fixed"
	OverpotentialRegression OverpotentialCalculation = "regression"
	OverpotentialNernst     OverpotentialCalculation = "nernst"
)

// Config holds the construction-time configuration of a Model. It is
// validated once by New and must not be changed afterward.
type Config struct {
	ElectrodeMaterial        ElectrodeMaterial
	ReactorMaterial          ReactorMaterial
	OverpotentialCalculation OverpotentialCalculation

	// Dynamic and HasHoldup exist for flowsheet compatibility and must
	// both be false: only steady state is supported.
	Dynamic   bool
	HasHoldup bool
}

// DefaultConfig returns the default configuration: aluminum electrodes,
// PVC reactor, fixed overpotential, steady state.
func DefaultConfig() Config {
	return Config{
		ElectrodeMaterial:        Aluminum,
		ReactorMaterial:          PVC,
		OverpotentialCalculation: OverpotentialFixed,
	}
}

// ConfigurationError is an unrecoverable user-input error detected
// before any model variable is created. It is never retried; the caller
// must fix the feed or configuration.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return e.Reason }

func configErrorf(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// Model is one electrocoagulation reactor instance: three linked stream
// states, the electrochemical equation system, and the overpotential
// sub-model selected by the configuration. A Model is single-owner and
// must not be shared across concurrent solves.
type Model struct {
	Config Config

	// Props is the property package supplying the component list,
	// molar masses, charges, solution density, and the conductivity
	// correlation.
	Props *properties.Package

	// ECIon is the name of the dissolving-electrode cation found in the
	// feed component list, and Valence its declared charge.
	ECIon   string
	Valence int

	// The three stream states bound by mass-balance constraints.
	In, Out, Waste *StreamState

	// Design and operating variables, fixed by the caller before solving.
	ElectrodeThick       *Var // electrode thickness [m]
	CurrentDensity       *Var // [A/m²]
	ElectrolysisTime     *Var // residence time [s]
	NumberElectrodePairs *Var
	ElectrodeGap         *Var // [m]
	CurrentEfficiency    *Var // may exceed 1 for chemical dissolution

	// Derived variables, solved for.
	ChargeLoadingRate  *Var // [C/L]
	AppliedCurrent     *Var // [A]
	ElectrodeAreaTotal *Var // [m²]
	Conductivity       *Var // [S/m]
	OhmicResistance    *Var // [Ω]
	ReactorVolume      *Var // [m³]
	Overpotential      *Var // [V]
	CellTemperature    *Var // [K]
	CellVoltage        *Var // [V]
	PowerRequired      *Var // [W]

	// Stream split parameters.
	RemovalEfficiency map[string]*Param // fraction of each solute to waste
	WaterRecovery     *Param            // fraction of water to treated stream

	sys *System
	op  OverpotentialModel
}

// New validates the feed specification and, if it passes, constructs the
// model: stream states, electrochemical core, and the equation set of
// the configured overpotential sub-model. Validation failures return a
// *ConfigurationError before any variable exists.
func New(cfg Config, props *properties.Package, op OverpotentialModel) (*Model, error) {
	if cfg.Dynamic || cfg.HasHoldup {
		return nil, configErrorf("Electrocoagulation model is steady-state only; dynamic and holdup are not supported.")
	}
	if !cfg.ElectrodeMaterial.valid() {
		return nil, configErrorf("unknown electrode material %q", cfg.ElectrodeMaterial)
	}
	if !cfg.ReactorMaterial.valid() {
		return nil, configErrorf("unknown reactor material %q", cfg.ReactorMaterial)
	}
	if !props.HasComponent(properties.TDS) {
		return nil, configErrorf("TDS must be in feed stream for solution conductivity estimation.")
	}
	ion := cfg.ElectrodeMaterial.Ion()
	comp, ok := props.Component(ion)
	if !ok || comp.Charge == 0 {
		return nil, configErrorf("Electrode material ion must be in feed stream with concentration set to target electrocoagulation dose.")
	}
	if op == nil {
		return nil, configErrorf("no overpotential sub-model supplied")
	}
	if op.Calculation() != cfg.OverpotentialCalculation {
		return nil, configErrorf("overpotential sub-model %q does not match configured calculation %q",
			op.Calculation(), cfg.OverpotentialCalculation)
	}

	m := &Model{
		Config:  cfg,
		Props:   props,
		ECIon:   ion,
		Valence: comp.Charge,
		sys:     NewSystem(),
		op:      op,
	}
	m.buildStreams()
	m.buildElectrochemistry()
	if err := op.Build(m); err != nil {
		return nil, err
	}
	return m, nil
}

// System returns the model's equation system.
func (m *Model) System() *System { return m.sys }

// OverpotentialSubmodel returns the overpotential formulation this model
// was constructed with.
func (m *Model) OverpotentialSubmodel() OverpotentialModel { return m.op }

// CheckUnits verifies dimensional consistency of the model equations.
// The fixed and regression modes are consistent by construction; the
// nernst branch mixes thermodynamic unit bases and reports them.
func (m *Model) CheckUnits() error {
	return m.op.CheckUnits(m)
}
