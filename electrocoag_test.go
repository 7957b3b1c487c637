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

package electrocoag_test

import (
	"math"
	"strings"
	"testing"

	"github.com/watermodel/electrocoag"
	"github.com/watermodel/electrocoag/overpotential/fixedop"
	"github.com/watermodel/electrocoag/overpotential/nernst"
	"github.com/watermodel/electrocoag/overpotential/regression"
	"github.com/watermodel/electrocoag/properties"
	"github.com/watermodel/electrocoag/solve"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func aluminumProps(t *testing.T) *properties.Package {
	t.Helper()
	p, err := properties.New([]properties.Component{
		{Name: properties.TDS, MW: 31.4038218e-3},
		{Name: "Al_3+", MW: 29.98e-3, Charge: 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func ironProps(t *testing.T) *properties.Package {
	t.Helper()
	p, err := properties.New([]properties.Component{
		{Name: properties.TDS, MW: 31.4038218e-3},
		{Name: "Fe_2+", MW: 55.845e-3, Charge: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// fixDesign fixes the shared reactor design of the reference cases.
func fixDesign(m *electrocoag.Model, currentDensity, currentEfficiency, electrolysisTime float64) {
	m.ElectrodeThick.Fix(0.001)
	m.CurrentDensity.Fix(currentDensity)
	m.ElectrolysisTime.Fix(electrolysisTime)
	m.NumberElectrodePairs.Fix(10)
	m.ElectrodeGap.Fix(0.02)
	m.CurrentEfficiency.Fix(currentEfficiency)
}

func setFeed(t *testing.T, m *electrocoag.Model, concTDS float64, ion string) {
	t.Helper()
	err := m.In.SetState(0.0438, map[string]float64{
		properties.TDS: concTDS,
		ion:            0.1,
	}, 298, 101325)
	if err != nil {
		t.Fatal(err)
	}
}

func mustSolve(t *testing.T, m *electrocoag.Model) solve.Result {
	t.Helper()
	if dof := m.System().DegreesOfFreedom(); dof != 0 {
		t.Fatalf("%d degrees of freedom before solving", dof)
	}
	if err := m.Initialize(); err != nil {
		t.Fatal(err)
	}
	o := solve.DefaultOptions()
	o.Scaling = m.SuggestedScaling()
	res, err := solve.Solve(m.System(), o)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

// fixedAluminum builds the fixed-overpotential aluminum reference
// case: 75 kg/m³ TDS, 0.1 kg/m³ aluminum dose, 300 A/m².
func fixedAluminum(t *testing.T) *electrocoag.Model {
	t.Helper()
	m, err := electrocoag.New(electrocoag.DefaultConfig(), aluminumProps(t), fixedop.New())
	if err != nil {
		t.Fatal(err)
	}
	setFeed(t, m, 75, "Al_3+")
	fixDesign(m, 300, 1.66, 50)
	m.Overpotential.Fix(1.5)
	m.CellTemperature.Fix(298)
	return m
}

func TestNewValidation(t *testing.T) {
	cfg := electrocoag.DefaultConfig()

	p, err := properties.New([]properties.Component{
		{Name: "Al_3+", MW: 29.98e-3, Charge: 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = electrocoag.New(cfg, p, fixedop.New())
	if err == nil {
		t.Fatal("expected an error for a feed without TDS")
	}
	want := "TDS must be in feed stream for solution conductivity estimation."
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err, want)
	}
	if _, ok := err.(*electrocoag.ConfigurationError); !ok {
		t.Errorf("error %T is not a ConfigurationError", err)
	}

	p, err = properties.New([]properties.Component{
		{Name: properties.TDS, MW: 31.4038218e-3},
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = electrocoag.New(cfg, p, fixedop.New())
	if err == nil {
		t.Fatal("expected an error for a feed without the electrode ion")
	}
	want = "Electrode material ion must be in feed stream with concentration set to target electrocoagulation dose."
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err, want)
	}

	badCfg := cfg
	badCfg.ElectrodeMaterial = "copper"
	if _, err := electrocoag.New(badCfg, aluminumProps(t), fixedop.New()); err == nil {
		t.Error("expected an error for an unknown electrode material")
	}

	// The submodel must agree with the configured calculation.
	if _, err := electrocoag.New(cfg, aluminumProps(t), regression.New()); err == nil {
		t.Error("expected an error for a mismatched overpotential submodel")
	}
}

// TestStructure checks the variable, parameter, and constraint counts
// of the three formulations against each other.
func TestStructure(t *testing.T) {
	fixed, err := electrocoag.New(electrocoag.DefaultConfig(), aluminumProps(t), fixedop.New())
	if err != nil {
		t.Fatal(err)
	}

	regCfg := electrocoag.DefaultConfig()
	regCfg.OverpotentialCalculation = electrocoag.OverpotentialRegression
	reg, err := electrocoag.New(regCfg, aluminumProps(t), regression.New())
	if err != nil {
		t.Fatal(err)
	}

	nstCfg := electrocoag.DefaultConfig()
	nstCfg.OverpotentialCalculation = electrocoag.OverpotentialNernst
	nst, err := electrocoag.New(nstCfg, aluminumProps(t),
		nernst.New(nernst.DefaultParams(electrocoag.Aluminum)))
	if err != nil {
		t.Fatal(err)
	}

	nFixed := len(fixed.System().Vars())
	if n := len(reg.System().Vars()); n != nFixed+2 {
		t.Errorf("regression has %d variables, want %d", n, nFixed+2)
	}
	if n := len(nst.System().Vars()); n != nFixed {
		t.Errorf("nernst has %d variables, want %d", n, nFixed)
	}

	cFixed := len(fixed.System().Constraints())
	if n := len(reg.System().Constraints()); n != cFixed+1 {
		t.Errorf("regression has %d constraints, want %d", n, cFixed+1)
	}
	if n := len(nst.System().Constraints()); n != cFixed+2 {
		t.Errorf("nernst has %d constraints, want %d", n, cFixed+2)
	}

	pFixed := len(fixed.System().Params())
	if n := len(nst.System().Params()); n != pFixed+10 {
		t.Errorf("nernst has %d parameters, want %d", n, pFixed+10)
	}

	if v := fixed.System().Var("overpotential_k1"); v != nil {
		t.Error("fixed formulation should not create regression coefficients")
	}
	if v := reg.System().Var("overpotential_k1"); v == nil {
		t.Error("regression formulation should create overpotential_k1")
	}
}

func TestFixedAluminum(t *testing.T) {
	m := fixedAluminum(t)
	res := mustSolve(t, m)
	if res.Iterations > 10 {
		t.Errorf("took %d iterations", res.Iterations)
	}

	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"applied current", m.AppliedCurrent.Value, 25475.16},
		{"electrode area", m.ElectrodeAreaTotal.Value, 84.9172},
		{"conductivity", m.Conductivity.Value, 7.5},
		{"ohmic resistance", m.OhmicResistance.Value, 3.1403e-4},
		{"cell voltage", m.CellVoltage.Value, 9.5},
		{"power required", m.PowerRequired.Value, 242014},
		{"charge loading rate", m.ChargeLoadingRate.Value, 581.62},
		{"reactor volume", m.ReactorVolume.Value, 2.19},
	}
	for _, c := range cases {
		if different(c.got, c.want, 5e-3) {
			t.Errorf("%s = %g, want %g", c.name, c.got, c.want)
		}
	}

	streams := []struct {
		name string
		got  *electrocoag.Var
		want float64
	}{
		{"inlet water", m.In.FlowMol(electrocoag.Liquid, properties.Water), 2248.70},
		{"outlet water", m.Out.FlowMol(electrocoag.Liquid, properties.Water), 2226.21},
		{"waste water", m.Waste.FlowMol(electrocoag.Liquid, properties.Water), 22.487},
		{"inlet TDS", m.In.FlowMol(electrocoag.Liquid, properties.TDS), 104.605},
		{"outlet TDS", m.Out.FlowMol(electrocoag.Liquid, properties.TDS), 31.3815},
		{"waste TDS", m.Waste.FlowMol(electrocoag.Liquid, properties.TDS), 73.2236},
		{"inlet aluminum", m.In.FlowMol(electrocoag.Liquid, "Al_3+"), 0.1460974},
		{"outlet aluminum", m.Out.FlowMol(electrocoag.Liquid, "Al_3+"), 0.0438292},
		{"waste aluminum", m.Waste.FlowMol(electrocoag.Liquid, "Al_3+"), 0.1022682},
	}
	for _, c := range streams {
		if different(c.got.Value, c.want, 5e-3) {
			t.Errorf("%s = %g mol/s, want %g", c.name, c.got.Value, c.want)
		}
	}
}

func TestRegressionAluminum(t *testing.T) {
	cfg := electrocoag.DefaultConfig()
	cfg.OverpotentialCalculation = electrocoag.OverpotentialRegression
	op := regression.New()
	m, err := electrocoag.New(cfg, aluminumProps(t), op)
	if err != nil {
		t.Fatal(err)
	}
	setFeed(t, m, 7.5, "Al_3+")
	fixDesign(m, 30, 1.66, 5)
	m.CellTemperature.Fix(298)
	op.K1.Fix(430)
	op.K2.Fix(1000)

	mustSolve(t, m)

	if different(m.Overpotential.Value, 1.472403, 1e-4) {
		t.Errorf("overpotential = %g, want 1.472403", m.Overpotential.Value)
	}
	if different(m.ElectrodeAreaTotal.Value, 849.172, 5e-3) {
		t.Errorf("electrode area = %g, want 849.172", m.ElectrodeAreaTotal.Value)
	}
	if different(m.OhmicResistance.Value, 3.14031e-4, 5e-3) {
		t.Errorf("ohmic resistance = %g, want 3.14031e-4", m.OhmicResistance.Value)
	}
	if different(m.CellVoltage.Value, 9.47240, 5e-3) {
		t.Errorf("cell voltage = %g, want 9.47240", m.CellVoltage.Value)
	}
	if different(m.PowerRequired.Value, 241311, 5e-3) {
		t.Errorf("power required = %g, want 241311", m.PowerRequired.Value)
	}
}

func TestRegressionIron(t *testing.T) {
	cfg := electrocoag.DefaultConfig()
	cfg.ElectrodeMaterial = electrocoag.Iron
	cfg.ReactorMaterial = electrocoag.StainlessSteel
	cfg.OverpotentialCalculation = electrocoag.OverpotentialRegression
	op := regression.New()
	m, err := electrocoag.New(cfg, ironProps(t), op)
	if err != nil {
		t.Fatal(err)
	}
	setFeed(t, m, 7.5, "Fe_2+")
	fixDesign(m, 30, 1, 5)
	m.CellTemperature.Fix(298)
	op.K1.Fix(75)
	op.K2.Fix(600)

	mustSolve(t, m)

	if m.Valence != 2 {
		t.Errorf("valence = %d, want 2", m.Valence)
	}
	if different(m.Overpotential.Value, 0.6823959, 1e-4) {
		t.Errorf("overpotential = %g, want 0.6823959", m.Overpotential.Value)
	}
	if different(m.AppliedCurrent.Value, 15134.95, 5e-3) {
		t.Errorf("applied current = %g, want 15134.95", m.AppliedCurrent.Value)
	}
	if different(m.ElectrodeAreaTotal.Value, 504.498, 5e-3) {
		t.Errorf("electrode area = %g, want 504.498", m.ElectrodeAreaTotal.Value)
	}
	if different(m.OhmicResistance.Value, 5.28578e-4, 5e-3) {
		t.Errorf("ohmic resistance = %g, want 5.28578e-4", m.OhmicResistance.Value)
	}
	if different(m.CellVoltage.Value, 8.6824, 5e-3) {
		t.Errorf("cell voltage = %g, want 8.6824", m.CellVoltage.Value)
	}
	if different(m.ChargeLoadingRate.Value, 345.547, 5e-3) {
		t.Errorf("charge loading rate = %g, want 345.547", m.ChargeLoadingRate.Value)
	}
	if different(m.ReactorVolume.Value, 0.219, 5e-3) {
		t.Errorf("reactor volume = %g, want 0.219", m.ReactorVolume.Value)
	}
}

func TestNernstAluminum(t *testing.T) {
	cfg := electrocoag.DefaultConfig()
	cfg.OverpotentialCalculation = electrocoag.OverpotentialNernst
	m, err := electrocoag.New(cfg, aluminumProps(t),
		nernst.New(nernst.DefaultParams(electrocoag.Aluminum)))
	if err != nil {
		t.Fatal(err)
	}
	setFeed(t, m, 75, "Al_3+")
	fixDesign(m, 300, 1.66, 50)
	// The overpotential and cell temperature are solved, not fixed.

	mustSolve(t, m)

	if different(m.CellTemperature.Value, 298*1.05, 1e-6) {
		t.Errorf("cell temperature = %g, want %g", m.CellTemperature.Value, 298*1.05)
	}
	if different(m.Overpotential.Value, 1.4154140, 1e-4) {
		t.Errorf("overpotential = %g, want 1.4154140", m.Overpotential.Value)
	}
	if different(m.CellVoltage.Value, 9.4154140, 1e-3) {
		t.Errorf("cell voltage = %g, want 9.4154140", m.CellVoltage.Value)
	}
	if different(m.PowerRequired.Value, 239859, 5e-3) {
		t.Errorf("power required = %g, want 239859", m.PowerRequired.Value)
	}

	// The current draw and electrode sizing depend only on the dose,
	// so they match the fixed-overpotential case.
	fixed := fixedAluminum(t)
	mustSolve(t, fixed)
	if different(m.AppliedCurrent.Value, fixed.AppliedCurrent.Value, 5e-3) {
		t.Errorf("applied current = %g, fixed case gives %g",
			m.AppliedCurrent.Value, fixed.AppliedCurrent.Value)
	}
	if different(m.ElectrodeAreaTotal.Value, fixed.ElectrodeAreaTotal.Value, 5e-3) {
		t.Errorf("electrode area = %g, fixed case gives %g",
			m.ElectrodeAreaTotal.Value, fixed.ElectrodeAreaTotal.Value)
	}
}

// TestMassConservation checks that the converged split conserves every
// component exactly.
func TestMassConservation(t *testing.T) {
	m := fixedAluminum(t)
	mustSolve(t, m)

	for _, comp := range m.Props.ComponentNames() {
		in := m.In.FlowMol(electrocoag.Liquid, comp).Value
		out := m.Out.FlowMol(electrocoag.Liquid, comp).Value
		waste := m.Waste.FlowMol(electrocoag.Liquid, comp).Value
		if different(in, out+waste, 1e-8) {
			t.Errorf("%s: in %g, out+waste %g", comp, in, out+waste)
		}
		if out < 0 || waste < 0 {
			t.Errorf("%s: negative flow (out %g, waste %g)", comp, out, waste)
		}
	}

	if different(m.Out.Temperature.Value, m.In.Temperature.Value, 1e-10) ||
		different(m.Waste.Temperature.Value, m.In.Temperature.Value, 1e-10) {
		t.Error("outlet temperatures differ from the inlet")
	}
	if different(m.Out.Pressure.Value, m.In.Pressure.Value, 1e-10) ||
		different(m.Waste.Pressure.Value, m.In.Pressure.Value, 1e-10) {
		t.Error("outlet pressures differ from the inlet")
	}
}

func TestCheckUnits(t *testing.T) {
	m := fixedAluminum(t)
	if err := m.CheckUnits(); err != nil {
		t.Errorf("fixed formulation units: %v", err)
	}

	cfg := electrocoag.DefaultConfig()
	cfg.OverpotentialCalculation = electrocoag.OverpotentialNernst
	nst, err := electrocoag.New(cfg, aluminumProps(t),
		nernst.New(nernst.DefaultParams(electrocoag.Aluminum)))
	if err != nil {
		t.Fatal(err)
	}
	err = nst.CheckUnits()
	if err == nil {
		t.Fatal("expected the nernst formulation to report its non-SI unit bases")
	}
	for _, name := range []string{"cathode_conc_mol_metal", "partial_pressure_H2"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("units error %q does not name %s", err, name)
		}
	}
}
