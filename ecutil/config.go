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

package ecutil

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/watermodel/electrocoag/overpotential/nernst"
)

// Scenario is one reactor case as read from a TOML scenario file:
// the feed, the dissolved components, the reactor design, the
// overpotential formulation limits, and the costing and solver
// settings.
type Scenario struct {
	// Name labels the scenario in reports and log output.
	Name string

	Feed          FeedConfig
	Solutes       []SoluteConfig
	Design        DesignConfig
	Overpotential OverpotentialConfig
	Costing       CostingConfig
	Solver        SolverConfig
	Output        OutputConfig
}

// FeedConfig is the influent state.
type FeedConfig struct {
	// FlowVol is the volumetric flow rate [m³ s⁻¹].
	FlowVol float64
	// Temperature [K] and Pressure [Pa].
	Temperature float64
	Pressure    float64
	// Concentration maps solute name to mass concentration [kg m⁻³].
	// It must contain "TDS" and the electrode material's ion, the
	// latter at the target electrocoagulation dose.
	Concentration map[string]float64
}

// SoluteConfig declares one dissolved component of the feed.
type SoluteConfig struct {
	Name string
	// MolarMass [kg mol⁻¹].
	MolarMass float64
	// Charge is nonzero for ionic components.
	Charge int
}

// DesignConfig holds the user-fixed design variables.
type DesignConfig struct {
	// ElectrodeMaterial is "aluminum" or "iron"; ReactorMaterial is
	// "pvc", "stainless_steel", or "carbon_steel".
	ElectrodeMaterial string
	ReactorMaterial   string
	// ElectrodeThick [m], CurrentDensity [A m⁻²], ElectrolysisTime
	// [s], ElectrodeGap [m].
	ElectrodeThick       float64
	CurrentDensity       float64
	ElectrolysisTime     float64
	NumberElectrodePairs float64
	ElectrodeGap         float64
	// CurrentEfficiency is dimensionless; values above 1 represent
	// chemical dissolution alongside the electrochemical.
	CurrentEfficiency float64
}

// OverpotentialConfig selects and parameterizes the overpotential
// formulation.
type OverpotentialConfig struct {
	// Calculation is "fixed", "regression", or "nernst".
	Calculation string
	// Value is the fixed overpotential [V]; used only by "fixed".
	Value float64
	// K1 and K2 are the regression coefficients [mV]; used only by
	// "regression".
	K1 float64
	K2 float64
	// CellTemperature [K] is fixed by the user under "fixed" and
	// "regression"; zero means the feed temperature. Ignored under
	// "nernst", which computes it.
	CellTemperature float64
	// Nernst holds the thermodynamic constants; zero-valued means the
	// material defaults.
	Nernst *nernst.Params
}

// CostingConfig switches costing on and overrides basis financials.
// Zero-valued overrides keep the defaults.
type CostingConfig struct {
	Enabled          bool
	ElectricityPrice float64
	Utilization      float64
	WACC             float64
	PlantLifetime    int
}

// SolverConfig bounds the Newton iteration; zero values take the
// solver defaults.
type SolverConfig struct {
	MaxIterations int
	Tolerance     float64
	Damping       float64
}

// OutputConfig names the result files; empty entries are skipped.
// Paths may contain environment variables.
type OutputConfig struct {
	ReportFile string
	XLSXFile   string
	PlotFile   string
}

// LoadScenario reads a scenario from a TOML file. Environment
// variables in the path are expanded first.
func LoadScenario(filename string) (*Scenario, error) {
	s := new(Scenario)
	f, err := os.Open(os.ExpandEnv(filename))
	if err != nil {
		return nil, fmt.Errorf("ecutil: opening scenario file: %v", err)
	}
	defer f.Close()
	if _, err := toml.NewDecoder(f).Decode(s); err != nil {
		return nil, fmt.Errorf("ecutil: parsing scenario file %s: %v", filename, err)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scenario) check() error {
	if s.Feed.FlowVol <= 0 {
		return fmt.Errorf("ecutil: scenario %q: feed flow must be positive, got %g",
			s.Name, s.Feed.FlowVol)
	}
	if len(s.Solutes) == 0 {
		return fmt.Errorf("ecutil: scenario %q: no solutes declared", s.Name)
	}
	for _, sol := range s.Solutes {
		if sol.MolarMass <= 0 {
			return fmt.Errorf("ecutil: scenario %q: solute %s needs a positive molar mass",
				s.Name, sol.Name)
		}
	}
	switch s.Overpotential.Calculation {
	case "fixed", "regression", "nernst":
	default:
		return fmt.Errorf(
			"ecutil: scenario %q: unknown overpotential calculation %q (want fixed, regression, or nernst)",
			s.Name, s.Overpotential.Calculation)
	}
	return nil
}
