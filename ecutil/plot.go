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

	"github.com/watermodel/electrocoag"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PolarizationCurve evaluates cell voltage against current density on
// a solved model, holding the electrode area, ohmic resistance, and
// cell temperature at their converged values. The overpotential is
// re-evaluated at each sweep point through the formulation's own
// equation; under the fixed formulation the overpotential term is
// constant and the curve is a straight ohmic line.
func PolarizationCurve(m *electrocoag.Model, jMin, jMax float64, n int) (plotter.XYs, error) {
	if n < 2 {
		return nil, fmt.Errorf("ecutil: polarization curve needs at least 2 points, got %d", n)
	}
	if jMin <= 0 || jMax <= jMin {
		return nil, fmt.Errorf("ecutil: bad current density sweep [%g, %g]", jMin, jMax)
	}

	var opCon *electrocoag.Constraint
	for _, c := range m.System().Constraints() {
		if c.Name == "eq_overpotential" {
			opCon = c
			break
		}
	}

	jSave := m.CurrentDensity.Value
	defer func() { m.CurrentDensity.Value = jSave }()

	pts := make(plotter.XYs, n)
	for i := range pts {
		j := jMin + (jMax-jMin)*float64(i)/float64(n-1)
		m.CurrentDensity.Value = j
		eta := m.Overpotential.Value
		if opCon != nil {
			// The residual is overpotential minus the formulation's
			// value, so the value is recoverable without re-solving.
			eta = m.Overpotential.Value - opCon.Residual()
		}
		current := j * m.ElectrodeAreaTotal.Value
		pts[i].X = j
		pts[i].Y = eta + current*m.OhmicResistance.Value
	}
	return pts, nil
}

// PlotPolarization draws the polarization curve of a solved model to
// an image file. The current density sweep spans half to double the
// design point with n points.
func PlotPolarization(filename string, s *Scenario, m *electrocoag.Model, n int) error {
	j := m.CurrentDensity.Value
	pts, err := PolarizationCurve(m, j/2, 2*j, n)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = s.Name
	p.X.Label.Text = "Current density (A/m²)"
	p.Y.Label.Text = "Cell voltage (V)"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("ecutil: building polarization line: %v", err)
	}
	p.Add(line)

	design := plotter.XYs{{X: j, Y: m.CellVoltage.Value}}
	scatter, err := plotter.NewScatter(design)
	if err != nil {
		return fmt.Errorf("ecutil: building design point marker: %v", err)
	}
	p.Add(scatter)
	p.Legend.Add("design point", scatter)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, os.ExpandEnv(filename)); err != nil {
		return fmt.Errorf("ecutil: saving polarization plot: %v", err)
	}
	return nil
}
