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

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/watermodel/electrocoag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the command
	// line.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "loglevel",
			usage: `
              loglevel sets the logging verbosity: debug, info, warn,
              or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "scenario",
			usage: `
              scenario specifies the TOML scenario file describing the
              feed, the reactor design, and the overpotential
              formulation. The path may contain environment variables.`,
			shorthand:  "s",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), curveCmd.Flags()},
		},
		{
			name: "report",
			usage: `
              report overrides the scenario's plain-text report output
              path. An empty value keeps the scenario's setting.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "xlsx",
			usage: `
              xlsx overrides the scenario's Excel report output path.
              An empty value keeps the scenario's setting.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "plot",
			usage: `
              plot specifies the output path of the polarization curve
              image. The format is taken from the file extension.`,
			defaultVal: "polarization.png",
			flagsets:   []*pflag.FlagSet{curveCmd.Flags()},
		},
		{
			name: "points",
			usage: `
              points specifies the number of current density sweep
              points in the polarization curve.`,
			defaultVal: 50,
			flagsets:   []*pflag.FlagSet{curveCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ELECTROCOAG")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(curveCmd)
}

// setConfig finds and reads in the configuration file, if there is
// one, and applies the logging level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("electrocoag: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return fmt.Errorf("electrocoag: %v", err)
	}
	Log.SetLevel(level)
	return nil
}

// loadScenario reads the scenario named by the --scenario flag.
func loadScenario() (*Scenario, error) {
	path := Cfg.GetString("scenario")
	if path == "" {
		return nil, fmt.Errorf("electrocoag: a scenario file must be given with --scenario")
	}
	return LoadScenario(path)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "electrocoag",
	Short: "A steady-state electrocoagulation reactor model.",
	Long: `Electrocoag sizes and prices a steady-state electrocoagulation
water-treatment reactor from an influent composition and a target
dose of the dissolving-electrode ion.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'ELECTROCOAG_var' where 'var'
is the name of the variable to be set. Many configuration variables are
additionally allowed to contain environment variables within them.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of Electrocoag.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Electrocoag v%s\n", electrocoag.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Solve a reactor scenario.",
	Long: `run builds the reactor model a scenario describes, solves it to
steady state, prices it when the scenario enables costing, and writes
the configured reports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScenario()
		if err != nil {
			return err
		}
		if p := Cfg.GetString("report"); p != "" {
			s.Output.ReportFile = p
		}
		if p := Cfg.GetString("xlsx"); p != "" {
			s.Output.XLSXFile = p
		}

		res, err := Run(s)
		if err != nil {
			return err
		}
		if s.Output.ReportFile != "" {
			if err := WriteReportFile(s.Output.ReportFile, s, res); err != nil {
				return err
			}
		}
		if s.Output.XLSXFile != "" {
			if err := WriteXLSX(s.Output.XLSXFile, s, res); err != nil {
				return err
			}
		}
		return WriteReport(os.Stdout, s, res)
	},
	DisableAutoGenTag: true,
}

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Plot the polarization curve of a scenario.",
	Long: `curve solves a scenario and draws the cell voltage against
current density around the design point, holding the converged
electrode area and ohmic resistance.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScenario()
		if err != nil {
			return err
		}
		res, err := Run(s)
		if err != nil {
			return err
		}
		out := Cfg.GetString("plot")
		if s.Output.PlotFile != "" && !cmd.Flags().Changed("plot") {
			out = s.Output.PlotFile
		}
		n, err := cast.ToIntE(Cfg.Get("points"))
		if err != nil {
			return fmt.Errorf("electrocoag: parsing points: %v", err)
		}
		return PlotPolarization(out, s, res.Model, n)
	},
	DisableAutoGenTag: true,
}
