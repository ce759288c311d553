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

// Package polynomial implements real polynomials with float64 coefficients.
//
// Coefficients are stored lowest degree first, so the polynomial
// c[0] + c[1]*x + ... + c[n]*x^n is represented as []float64{c[0], ..., c[n]}.
// A Polynomial is immutable once constructed and may be shared between
// goroutines.
package polynomial

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// ErrInvalidPolynomial is returned when a polynomial is constructed without coefficients.
var ErrInvalidPolynomial = errors.New("polynomial must have at least one coefficient")

// Polynomial is a real polynomial of degree len(coefficients) - 1.
type Polynomial struct {
	coefficients []float64

	derivOnce sync.Once
	deriv     *Polynomial
}

// New creates a polynomial from coefficients given in increasing power order.
// The slice is copied.
func New(coefficients []float64) (*Polynomial, error) {
	if len(coefficients) == 0 {
		return nil, ErrInvalidPolynomial
	}

	c := make([]float64, len(coefficients))
	copy(c, coefficients)
	return &Polynomial{coefficients: c}, nil
}

// FromBytes creates a polynomial whose coefficients are the values of b.
func FromBytes(b []byte) (*Polynomial, error) {
	c := make([]float64, len(b))
	for i, v := range b {
		c[i] = float64(v)
	}
	return New(c)
}

// Constant returns the degree-0 polynomial with the single coefficient v.
func Constant(v float64) *Polynomial {
	return &Polynomial{coefficients: []float64{v}}
}

// Degree returns the degree of the polynomial.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// Coefficients returns a copy of the coefficients, lowest degree first.
func (p *Polynomial) Coefficients() []float64 {
	c := make([]float64, len(p.coefficients))
	copy(c, p.coefficients)
	return c
}

// Evaluate returns the value of the polynomial at x.
func (p *Polynomial) Evaluate(x float64) float64 {
	// Horner's scheme: c[0] + x(c[1] + x(c[2] + ...)).
	result := p.coefficients[len(p.coefficients)-1]
	for i := len(p.coefficients) - 2; i >= 0; i-- {
		result = result*x + p.coefficients[i]
	}
	return result
}

// Derivative returns the derivative of the polynomial. It is computed on
// first use and cached. The derivative of a constant is the zero
// polynomial, which has degree 0.
func (p *Polynomial) Derivative() *Polynomial {
	p.derivOnce.Do(func() {
		if len(p.coefficients) == 1 {
			p.deriv = Constant(0)
			return
		}
		c := make([]float64, len(p.coefficients)-1)
		for i := 1; i < len(p.coefficients); i++ {
			c[i-1] = p.coefficients[i] * float64(i)
		}
		p.deriv = &Polynomial{coefficients: c}
	})
	return p.deriv
}

// Subtract returns p - q. The degree of the result is the larger of the two
// degrees; no trailing zero coefficients are trimmed.
func (p *Polynomial) Subtract(q *Polynomial) *Polynomial {
	n := max(len(p.coefficients), len(q.coefficients))
	c := make([]float64, n)
	copy(c, p.coefficients)
	for i, v := range q.coefficients {
		c[i] -= v
	}
	return &Polynomial{coefficients: c}
}

// Equal reports whether p and q have identical coefficient slices.
func (p *Polynomial) Equal(q *Polynomial) bool {
	if p == nil || q == nil {
		return p == q
	}
	if len(p.coefficients) != len(q.coefficients) {
		return false
	}
	for i := range p.coefficients {
		if p.coefficients[i] != q.coefficients[i] {
			return false
		}
	}
	return true
}

// String formats the polynomial for diagnostics, e.g. "3 + x^1 - 2x^3".
func (p *Polynomial) String() string {
	var sb strings.Builder
	for i := 1; i < len(p.coefficients); i++ {
		c := p.coefficients[i]
		if c == 0 {
			continue
		}
		if c > 0 {
			sb.WriteString(" + ")
		} else {
			sb.WriteString(" - ")
		}
		if math.Abs(c) != 1 {
			sb.WriteString(formatCoefficient(math.Abs(c)))
		}
		fmt.Fprintf(&sb, "x^%d", i)
	}

	terms := sb.String()
	if p.coefficients[0] != 0 {
		return formatCoefficient(p.coefficients[0]) + terms
	}
	switch {
	case terms == "":
		return "0"
	case strings.HasPrefix(terms, " - "):
		return "-" + terms[3:]
	default:
		return terms[3:]
	}
}

func formatCoefficient(c float64) string {
	return strconv.FormatFloat(c, 'g', -1, 64)
}
