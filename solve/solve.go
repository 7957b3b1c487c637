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

// Package solve closes square equation systems with a damped Newton
// iteration over a finite-difference Jacobian. Free variables are the
// unknowns; fixed variables and parameters stay where the caller set
// them. The systems this package is built for are small (tens of
// equations) so a dense direct solve of the Newton step is adequate.
package solve

import (
	"fmt"
	"math"

	"github.com/watermodel/electrocoag"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Status classifies the outcome of a Newton solve.
type Status int

const (
	// Invalid means Solve has not run.
	Invalid Status = iota
	// Converged means the scaled residual infinity norm fell below the
	// tolerance.
	Converged
	// MaxIterationsExceeded means the iteration budget ran out first.
	MaxIterationsExceeded
	// SingularSystem means the Jacobian could not be factorized,
	// usually a sign of a structurally redundant constraint or an
	// unscaled variable wandering to zero.
	SingularSystem
	// NotSquare means the number of free variables and the number of
	// constraints disagree; check DegreesOfFreedom before solving.
	NotSquare
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case MaxIterationsExceeded:
		return "maximum iterations exceeded"
	case SingularSystem:
		return "singular system"
	case NotSquare:
		return "system is not square"
	default:
		return "invalid"
	}
}

// Options control the Newton iteration.
type Options struct {
	// MaxIterations bounds the number of Newton steps. Zero means 50.
	MaxIterations int
	// Tolerance is the convergence threshold on the infinity norm of
	// the scaled residual vector. Zero means 1e-9.
	Tolerance float64
	// Damping multiplies every Newton step; it must be in (0, 1].
	// Zero means 1 (full steps).
	Damping float64
	// Scaling holds per-name multiplicative factors applied to
	// residuals and, inversely, to variables when judging convergence
	// and conditioning. Names not present scale by 1.
	Scaling map[string]float64
}

// DefaultOptions are full Newton steps at tolerance 1e-9.
func DefaultOptions() Options {
	return Options{MaxIterations: 50, Tolerance: 1e-9, Damping: 1}
}

// Result reports how a solve ended.
type Result struct {
	Status       Status
	Iterations   int
	ResidualNorm float64
}

// Solve drives the free variables of sys to a root of its constraint
// residuals. On success the variable values hold the solution; on
// failure they hold the last iterate, which is often still useful for
// diagnosis.
func Solve(sys *electrocoag.System, o Options) (Result, error) {
	if o.MaxIterations <= 0 {
		o.MaxIterations = 50
	}
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-9
	}
	if o.Damping <= 0 || o.Damping > 1 {
		o.Damping = 1
	}

	free := sys.Free()
	cons := sys.Constraints()
	n := len(free)
	if n != len(cons) {
		return Result{Status: NotSquare}, fmt.Errorf(
			"solve: %d free variables but %d constraints (degrees of freedom %d)",
			n, len(cons), sys.DegreesOfFreedom())
	}
	if n == 0 {
		return Result{Status: Converged}, nil
	}

	conScale := make([]float64, n)
	for i, c := range cons {
		conScale[i] = scaleFor(o.Scaling, c.Name)
	}
	varScale := make([]float64, n)
	for i, v := range free {
		varScale[i] = scaleFor(o.Scaling, v.Name)
	}

	r := make([]float64, n)
	rs := make([]float64, n)
	jac := mat.NewDense(n, n, nil)
	step := mat.NewVecDense(n, nil)
	res := Result{}

	scaledResidual := func() float64 {
		sys.Residuals(r)
		for i := range r {
			rs[i] = r[i] * conScale[i]
		}
		return floats.Norm(rs, math.Inf(1))
	}

	for res.Iterations = 0; res.Iterations < o.MaxIterations; res.Iterations++ {
		res.ResidualNorm = scaledResidual()
		if res.ResidualNorm < o.Tolerance {
			res.Status = Converged
			return res, nil
		}

		// Forward-difference Jacobian in the scaled space.
		for jc, v := range free {
			h := fdStep(v.Value)
			orig := v.Value
			v.Value = orig + h
			sys.Residuals(rs)
			v.Value = orig
			for ir := range rs {
				jac.Set(ir, jc, (rs[ir]-r[ir])*conScale[ir]/(h*varScale[jc]))
			}
		}

		b := mat.NewVecDense(n, nil)
		for i := range r {
			b.SetVec(i, -r[i]*conScale[i])
		}
		if err := step.SolveVec(jac, b); err != nil {
			res.Status = SingularSystem
			return res, fmt.Errorf("solve: Newton step at iteration %d: %w",
				res.Iterations, err)
		}
		for i, v := range free {
			v.Value += o.Damping * step.AtVec(i) / varScale[i]
		}
	}
	res.ResidualNorm = scaledResidual()
	res.Status = MaxIterationsExceeded
	return res, fmt.Errorf("solve: residual %g after %d iterations",
		res.ResidualNorm, res.Iterations)
}

// fdStep picks a forward-difference perturbation relative to the
// current magnitude of x.
func fdStep(x float64) float64 {
	const rel = 1e-7
	h := rel * math.Abs(x)
	if h < rel {
		h = rel
	}
	return h
}

func scaleFor(scaling map[string]float64, name string) float64 {
	if s, ok := scaling[name]; ok && s > 0 {
		return s
	}
	return 1
}

// BadlyScaledVars lists free variables whose scaled magnitude lies
// outside [lo, hi], which is usually why a Newton solve stalls. It is
// a diagnostic aid; the returned names are sorted by system order.
func BadlyScaledVars(sys *electrocoag.System, scaling map[string]float64, lo, hi float64) []string {
	var out []string
	for _, v := range sys.Free() {
		m := math.Abs(v.Value) * scaleFor(scaling, v.Name)
		if m != 0 && (m < lo || m > hi) {
			out = append(out, v.Name)
		}
	}
	return out
}
