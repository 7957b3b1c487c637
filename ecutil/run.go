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

// Package ecutil assembles electrocoagulation reactor models from
// scenario files and drives them through initialization, solution,
// costing, and reporting. It also holds the command-line interface.
package ecutil

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/watermodel/electrocoag"
	"github.com/watermodel/electrocoag/costing"
	"github.com/watermodel/electrocoag/overpotential/fixedop"
	"github.com/watermodel/electrocoag/overpotential/nernst"
	"github.com/watermodel/electrocoag/overpotential/regression"
	"github.com/watermodel/electrocoag/properties"
	"github.com/watermodel/electrocoag/solve"
)

// Log is the logger used by this package. Callers may replace it or
// adjust its level before running.
var Log = logrus.StandardLogger()

// electrodeMaterial maps the scenario spelling to the model enum.
func electrodeMaterial(name string) (electrocoag.ElectrodeMaterial, error) {
	switch name {
	case "aluminum":
		return electrocoag.Aluminum, nil
	case "iron":
		return electrocoag.Iron, nil
	}
	return "", fmt.Errorf("ecutil: unknown electrode material %q (want aluminum or iron)", name)
}

func reactorMaterial(name string) (electrocoag.ReactorMaterial, error) {
	switch name {
	case "pvc":
		return electrocoag.PVC, nil
	case "stainless_steel":
		return electrocoag.StainlessSteel, nil
	case "carbon_steel":
		return electrocoag.CarbonSteel, nil
	}
	return "", fmt.Errorf("ecutil: unknown reactor material %q (want pvc, stainless_steel, or carbon_steel)", name)
}

// BuildModel constructs the reactor model a scenario describes,
// without fixing any operating conditions.
func BuildModel(s *Scenario) (*electrocoag.Model, error) {
	solutes := make([]properties.Component, len(s.Solutes))
	for i, sol := range s.Solutes {
		solutes[i] = properties.Component{
			Name:   sol.Name,
			MW:     sol.MolarMass,
			Charge: sol.Charge,
		}
	}
	props, err := properties.New(solutes)
	if err != nil {
		return nil, err
	}

	cfg := electrocoag.DefaultConfig()
	if cfg.ElectrodeMaterial, err = electrodeMaterial(s.Design.ElectrodeMaterial); err != nil {
		return nil, err
	}
	if cfg.ReactorMaterial, err = reactorMaterial(s.Design.ReactorMaterial); err != nil {
		return nil, err
	}

	var op electrocoag.OverpotentialModel
	switch s.Overpotential.Calculation {
	case "fixed":
		cfg.OverpotentialCalculation = electrocoag.OverpotentialFixed
		op = fixedop.New()
	case "regression":
		cfg.OverpotentialCalculation = electrocoag.OverpotentialRegression
		op = regression.New()
	case "nernst":
		cfg.OverpotentialCalculation = electrocoag.OverpotentialNernst
		p := DefaultNernstParams(cfg.ElectrodeMaterial, s.Overpotential.Nernst)
		op = nernst.New(p)
	default:
		return nil, fmt.Errorf("ecutil: unknown overpotential calculation %q",
			s.Overpotential.Calculation)
	}

	return electrocoag.New(cfg, props, op)
}

// DefaultNernstParams merges a scenario's partial parameter overrides
// into the material defaults. A nil override keeps the defaults
// unchanged.
func DefaultNernstParams(mat electrocoag.ElectrodeMaterial, override *nernst.Params) nernst.Params {
	p := nernst.DefaultParams(mat)
	if override == nil {
		return p
	}
	if override.AnodeCellPotentialStd != 0 {
		p.AnodeCellPotentialStd = override.AnodeCellPotentialStd
	}
	if override.CathodeCellPotentialStd != 0 {
		p.CathodeCellPotentialStd = override.CathodeCellPotentialStd
	}
	if override.AnodeEntropyChangeStd != 0 {
		p.AnodeEntropyChangeStd = override.AnodeEntropyChangeStd
	}
	if override.CathodeEntropyChangeStd != 0 {
		p.CathodeEntropyChangeStd = override.CathodeEntropyChangeStd
	}
	if override.AnodicExchangeCurrentDensity != 0 {
		p.AnodicExchangeCurrentDensity = override.AnodicExchangeCurrentDensity
	}
	if override.CathodicExchangeCurrentDensity != 0 {
		p.CathodicExchangeCurrentDensity = override.CathodicExchangeCurrentDensity
	}
	if override.CathodeConcMolHydroxide != 0 {
		p.CathodeConcMolHydroxide = override.CathodeConcMolHydroxide
	}
	if override.CathodeConcMolMetal != 0 {
		p.CathodeConcMolMetal = override.CathodeConcMolMetal
	}
	if override.PartialPressureH2 != 0 {
		p.PartialPressureH2 = override.PartialPressureH2
	}
	if override.FracIncreaseTemperature != 0 {
		p.FracIncreaseTemperature = override.FracIncreaseTemperature
	}
	return p
}

// ApplyOperating fixes the feed state, the design variables, and the
// formulation-dependent degrees of freedom so that the system closes
// with zero degrees of freedom.
func ApplyOperating(m *electrocoag.Model, s *Scenario) error {
	if err := m.In.SetState(s.Feed.FlowVol, s.Feed.Concentration,
		s.Feed.Temperature, s.Feed.Pressure); err != nil {
		return err
	}

	m.ElectrodeThick.Fix(s.Design.ElectrodeThick)
	m.CurrentDensity.Fix(s.Design.CurrentDensity)
	m.ElectrolysisTime.Fix(s.Design.ElectrolysisTime)
	m.NumberElectrodePairs.Fix(s.Design.NumberElectrodePairs)
	m.ElectrodeGap.Fix(s.Design.ElectrodeGap)
	m.CurrentEfficiency.Fix(s.Design.CurrentEfficiency)

	cellT := s.Overpotential.CellTemperature
	if cellT == 0 {
		cellT = s.Feed.Temperature
	}
	switch s.Overpotential.Calculation {
	case "fixed":
		m.Overpotential.Fix(s.Overpotential.Value)
		m.CellTemperature.Fix(cellT)
	case "regression":
		g, ok := m.OverpotentialSubmodel().(*regression.Model)
		if !ok {
			return fmt.Errorf("ecutil: model was not built with the regression formulation")
		}
		g.K1.Fix(s.Overpotential.K1)
		g.K2.Fix(s.Overpotential.K2)
		m.CellTemperature.Fix(cellT)
	case "nernst":
		// Both the overpotential and the cell temperature are solved.
	}

	if dof := m.System().DegreesOfFreedom(); dof != 0 {
		return fmt.Errorf("ecutil: scenario %q leaves %d degrees of freedom", s.Name, dof)
	}
	return nil
}

// Result bundles the converged model with the solver outcome and the
// costing report, when enabled.
type Result struct {
	Model  *electrocoag.Model
	Solve  solve.Result
	Report *costing.Report
}

// Run builds, initializes, solves, and optionally costs a scenario.
func Run(s *Scenario) (*Result, error) {
	log := Log.WithField("scenario", s.Name)

	m, err := BuildModel(s)
	if err != nil {
		return nil, err
	}
	if err := ApplyOperating(m, s); err != nil {
		return nil, err
	}
	if err := m.Initialize(); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"variables":   len(m.System().Free()),
		"constraints": len(m.System().Constraints()),
	}).Info("initialized model")

	o := solve.DefaultOptions()
	if s.Solver.MaxIterations > 0 {
		o.MaxIterations = s.Solver.MaxIterations
	}
	if s.Solver.Tolerance > 0 {
		o.Tolerance = s.Solver.Tolerance
	}
	if s.Solver.Damping > 0 {
		o.Damping = s.Solver.Damping
	}
	o.Scaling = m.SuggestedScaling()

	sr, err := solve.Solve(m.System(), o)
	if err != nil {
		if bad := solve.BadlyScaledVars(m.System(), o.Scaling, 1e-6, 1e6); len(bad) > 0 {
			log.WithField("variables", bad).Warn("badly scaled variables at failure")
		}
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"iterations": sr.Iterations,
		"residual":   sr.ResidualNorm,
	}).Info("solved")

	res := &Result{Model: m, Solve: sr}
	if s.Costing.Enabled {
		basis := costBasis(s)
		if res.Report, err = basis.Cost(m); err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"totalCapitalCost": res.Report.TotalCapitalCost.Value(),
			"LCOW":             res.Report.LCOW,
		}).Info("costed")
	}
	return res, nil
}

// costBasis applies a scenario's financial overrides to the default
// basis.
func costBasis(s *Scenario) costing.CostBasis {
	b := costing.DefaultCostBasis()
	if s.Costing.ElectricityPrice > 0 {
		b.ElectricityPrice = s.Costing.ElectricityPrice
	}
	if s.Costing.Utilization > 0 {
		b.Utilization = s.Costing.Utilization
	}
	if s.Costing.WACC > 0 {
		b.WACC = s.Costing.WACC
	}
	if s.Costing.PlantLifetime > 0 {
		b.PlantLifetime = s.Costing.PlantLifetime
	}
	return b
}
