// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package newton finds real roots of differentiable functions with Newton's method.
package newton

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrZeroDerivative is returned when an iterate lands on a stationary point,
	// where the Newton step is undefined.
	ErrZeroDerivative = errors.New("zero derivative, no solution found")
	// ErrIterationLimitExceeded is returned when no iterate converged within MaxIter steps.
	ErrIterationLimitExceeded = errors.New("exceeded maximum iterations, no solution found")
)

// Func is a real function of one variable.
type Func interface {
	Evaluate(x float64) float64
}

// Params configures a root search.
type Params struct {
	// X0 is the starting guess.
	X0 float64
	// Epsilon is the convergence tolerance on |f(x)|.
	Epsilon float64
	// MaxIter bounds the number of iterations.
	MaxIter uint64
}

// Result is a converged root search.
type Result struct {
	Root float64
	// Iterations is the number of Newton steps taken before convergence.
	Iterations uint64
}

// FindRoot searches for a root of f starting at params.X0, using df as the
// derivative of f. The iterate x is accepted once |f(x)| < params.Epsilon.
//
// The convergence test happens at the start of each iteration, so a
// MaxIter of zero always fails with ErrIterationLimitExceeded.
func FindRoot(f, df Func, params Params) (Result, error) {
	xn := params.X0
	for n := uint64(0); n < params.MaxIter; n++ {
		fxn := f.Evaluate(xn)
		if math.Abs(fxn) < params.Epsilon {
			return Result{Root: xn, Iterations: n}, nil
		}

		dfxn := df.Evaluate(xn)
		if dfxn == 0 {
			return Result{}, fmt.Errorf("%w (iteration %d, x=%v)", ErrZeroDerivative, n, xn)
		}
		xn -= fxn / dfxn
	}
	return Result{}, fmt.Errorf("%w (max %d, last x=%v)", ErrIterationLimitExceeded, params.MaxIter, xn)
}
