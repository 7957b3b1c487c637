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

package solve

import (
	"math"
	"testing"

	"github.com/watermodel/electrocoag"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func TestSolveNonlinear(t *testing.T) {
	sys := electrocoag.NewSystem()
	x := sys.NewVar("x", "", 1)
	y := sys.NewVar("y", "", 0.5)
	sys.AddConstraint("circle", func() float64 {
		return x.Value*x.Value + y.Value*y.Value - 4
	})
	sys.AddConstraint("diagonal", func() float64 {
		return x.Value - y.Value
	})

	res, err := Solve(sys, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != Converged {
		t.Fatalf("status: %s", res.Status)
	}
	want := math.Sqrt2
	if different(x.Value, want, 1e-8) || different(y.Value, want, 1e-8) {
		t.Errorf("got (%g, %g), want (%g, %g)", x.Value, y.Value, want, want)
	}
}

func TestSolveFixedVarsStay(t *testing.T) {
	sys := electrocoag.NewSystem()
	a := sys.NewVar("a", "", 3)
	a.Fix(3)
	b := sys.NewVar("b", "", 0)
	sys.AddConstraint("linear", func() float64 {
		return b.Value - 2*a.Value
	})

	res, err := Solve(sys, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != Converged {
		t.Fatalf("status: %s", res.Status)
	}
	if a.Value != 3 {
		t.Errorf("fixed variable moved to %g", a.Value)
	}
	if different(b.Value, 6, 1e-10) {
		t.Errorf("b = %g, want 6", b.Value)
	}
}

func TestSolveNotSquare(t *testing.T) {
	sys := electrocoag.NewSystem()
	sys.NewVar("x", "", 1)
	sys.NewVar("y", "", 1)
	sys.AddConstraint("only", func() float64 { return 0 })

	res, err := Solve(sys, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for a non-square system")
	}
	if res.Status != NotSquare {
		t.Errorf("status: %s", res.Status)
	}
}

func TestSolveScaling(t *testing.T) {
	// Badly conditioned without scaling: one variable near 1e8, one
	// near 1e-8.
	sys := electrocoag.NewSystem()
	big := sys.NewVar("big", "", 5e7)
	small := sys.NewVar("small", "", 5e-8)
	sys.AddConstraint("eq_big", func() float64 {
		return big.Value - 1e8
	})
	sys.AddConstraint("eq_small", func() float64 {
		return 1e8 * (small.Value - 1e-8)
	})

	o := DefaultOptions()
	o.Scaling = map[string]float64{
		"big": 1e-8, "small": 1e8, "eq_big": 1e-8, "eq_small": 1e-8,
	}
	res, err := Solve(sys, o)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != Converged {
		t.Fatalf("status: %s", res.Status)
	}
	if different(big.Value, 1e8, 1e-6) || different(small.Value, 1e-8, 1e-6) {
		t.Errorf("got (%g, %g)", big.Value, small.Value)
	}
}

func TestBadlyScaledVars(t *testing.T) {
	sys := electrocoag.NewSystem()
	sys.NewVar("ok", "", 1)
	sys.NewVar("huge", "", 1e9)
	names := BadlyScaledVars(sys, nil, 1e-6, 1e6)
	if len(names) != 1 || names[0] != "huge" {
		t.Errorf("got %v, want [huge]", names)
	}
}
