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
	"io"
	"os"
	"text/tabwriter"

	"github.com/tealeg/xlsx"
	"github.com/watermodel/electrocoag"
)

// reactorRows lists the reactor-level variables a report shows, in
// order.
var reactorRows = []struct{ name, label, units string }{
	{"applied_current", "Applied current", "A"},
	{"cell_voltage", "Cell voltage", "V"},
	{"overpotential", "Overpotential", "V"},
	{"ohmic_resistance", "Ohmic resistance", "ohm"},
	{"conductivity", "Conductivity", "S/m"},
	{"electrode_area_total", "Total electrode area", "m2"},
	{"reactor_volume", "Reactor volume", "m3"},
	{"cell_temperature", "Cell temperature", "K"},
	{"charge_loading_rate", "Charge loading rate", "C/L"},
	{"power_required", "Power required", "W"},
}

// WriteReport writes a plain-text summary of a solved (and possibly
// costed) scenario.
func WriteReport(w io.Writer, s *Scenario, res *Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Scenario:\t%s\n", s.Name)
	fmt.Fprintf(tw, "Solver:\t%s in %d iterations (residual %.3g)\n",
		res.Solve.Status, res.Solve.Iterations, res.Solve.ResidualNorm)
	fmt.Fprintln(tw)

	sys := res.Model.System()
	fmt.Fprintln(tw, "Reactor\t\t")
	for _, r := range reactorRows {
		v := sys.Var(r.name)
		if v == nil {
			continue
		}
		fmt.Fprintf(tw, "  %s\t%.6g\t%s\n", r.label, v.Value, r.units)
	}
	fmt.Fprintln(tw)

	for _, st := range []*electrocoag.StreamState{res.Model.In, res.Model.Out, res.Model.Waste} {
		fmt.Fprintf(tw, "Stream %s\t%.6g\tm3/s\n", st.Name(), st.FlowVol())
		for _, comp := range res.Model.Props.ComponentNames() {
			fmt.Fprintf(tw, "  %s\t%.6g\tmol/s\n", comp,
				st.FlowMol(electrocoag.Liquid, comp).Value)
		}
	}

	if res.Report != nil {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Costing\t\t")
		fmt.Fprintf(tw, "  Electrodes\t%.6g\t$\n", res.Report.Electrodes.Value())
		fmt.Fprintf(tw, "  Power supply\t%.6g\t$\n", res.Report.PowerSupply.Value())
		fmt.Fprintf(tw, "  Reactor vessel\t%.6g\t$\n", res.Report.Reactor.Value())
		fmt.Fprintf(tw, "  Total installed\t%.6g\t$\n", res.Report.TotalCapitalCost.Value())
		fmt.Fprintf(tw, "  SEC\t%.6g\tkWh/m3\n", res.Report.SEC)
		fmt.Fprintf(tw, "  Annual production\t%.6g\tm3/yr\n", res.Report.AnnualWaterProduction)
		fmt.Fprintf(tw, "  LCOW\t%.6g\t$/m3\n", res.Report.LCOW)
	}
	return tw.Flush()
}

// WriteReportFile writes the plain-text summary to a file, expanding
// environment variables in the path.
func WriteReportFile(filename string, s *Scenario, res *Result) error {
	f, err := os.Create(os.ExpandEnv(filename))
	if err != nil {
		return fmt.Errorf("ecutil: creating report file: %v", err)
	}
	defer f.Close()
	return WriteReport(f, s, res)
}

// WriteXLSX writes the solved variable table and costing summary to a
// Microsoft Excel file.
func WriteXLSX(filename string, s *Scenario, res *Result) error {
	f := xlsx.NewFile()

	vs, err := f.AddSheet("Variables")
	if err != nil {
		return fmt.Errorf("ecutil: adding xlsx sheet: %v", err)
	}
	hdr := vs.AddRow()
	for _, h := range []string{"Name", "Value", "Units", "Fixed"} {
		hdr.AddCell().Value = h
	}
	for _, v := range res.Model.System().Vars() {
		row := vs.AddRow()
		row.AddCell().Value = v.Name
		row.AddCell().SetFloat(v.Value)
		row.AddCell().Value = v.Units
		row.AddCell().SetBool(v.Fixed())
	}

	if res.Report != nil {
		cs, err := f.AddSheet("Costing")
		if err != nil {
			return fmt.Errorf("ecutil: adding xlsx sheet: %v", err)
		}
		add := func(label string, value float64, units string) {
			row := cs.AddRow()
			row.AddCell().Value = label
			row.AddCell().SetFloat(value)
			row.AddCell().Value = units
		}
		add("Capital cost, electrodes", res.Report.Electrodes.Value(), "$")
		add("Capital cost, power supply", res.Report.PowerSupply.Value(), "$")
		add("Capital cost, reactor vessel", res.Report.Reactor.Value(), "$")
		add("Total installed cost", res.Report.TotalCapitalCost.Value(), "$")
		add("Specific energy consumption", res.Report.SEC, "kWh/m3")
		add("Annual water production", res.Report.AnnualWaterProduction, "m3/yr")
		add("Levelized cost of water", res.Report.LCOW, "$/m3")
	}

	if err := f.Save(os.ExpandEnv(filename)); err != nil {
		return fmt.Errorf("ecutil: saving xlsx file: %v", err)
	}
	return nil
}
