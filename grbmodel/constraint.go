// Copyright 2026 The grb Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package grbmodel

import (
	"fmt"
	"math"
)

// ConstraintBuilder accumulates the weighted terms of a linear constraint.
//
// Errors are recorded rather than returned: the first misuse (mismatched lengths, variables
// from different models, non-finite weights) is kept and surfaced when the resulting
// Constraint is added to a model. Nothing reaches the engine in that case.
type ConstraintBuilder struct {
	vars    []VarIndex
	weights []float64
	err     error
}

// NewConstraint starts an empty left-hand side.
func NewConstraint() *ConstraintBuilder {
	return &ConstraintBuilder{}
}

func (b *ConstraintBuilder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *ConstraintBuilder) add(v VarIndex, w float64) {
	if len(b.vars) > 0 && v.model != b.vars[0].model {
		b.setErr(mixedModelsErrorf("grb: variable %v does not belong to the model of %v", v, b.vars[0]))
		return
	}
	if math.IsNaN(w) || math.IsInf(w, 0) {
		b.setErr(fmt.Errorf("grb: weight %v for variable %v: %w", w, v, ErrInvalidArgument))
		return
	}
	b.vars = append(b.vars, v)
	b.weights = append(b.weights, w)
}

// Sum adds every variable with weight 1.
func (b *ConstraintBuilder) Sum(vars ...VarIndex) *ConstraintBuilder {
	for _, v := range vars {
		b.add(v, 1)
	}
	return b
}

// WeightedSum adds vars[i] with weight weights[i]. The two lists must have the same length.
func (b *ConstraintBuilder) WeightedSum(vars []VarIndex, weights []float64) *ConstraintBuilder {
	if len(vars) != len(weights) {
		b.setErr(fmt.Errorf("grb: %d variables and %d weights: %w", len(vars), len(weights), ErrLengthMismatch))
		return b
	}
	for i, v := range vars {
		b.add(v, weights[i])
	}
	return b
}

// Plus adds a single term.
func (b *ConstraintBuilder) Plus(v VarIndex, weight float64) *ConstraintBuilder {
	b.add(v, weight)
	return b
}

func (b *ConstraintBuilder) build(sense ConstraintType, rhs float64) Constraint {
	c := Constraint{
		vars:    append([]VarIndex(nil), b.vars...),
		weights: append([]float64(nil), b.weights...),
		sense:   sense,
		rhs:     rhs,
		err:     b.err,
	}
	if c.err == nil && math.IsNaN(rhs) {
		c.err = fmt.Errorf("grb: right-hand side is NaN: %w", ErrInvalidArgument)
	}
	return c
}

// Equals returns the constraint `lhs == rhs`.
func (b *ConstraintBuilder) Equals(rhs float64) Constraint {
	return b.build(Equal, rhs)
}

// IsGreaterThan returns the constraint `lhs >= rhs`.
func (b *ConstraintBuilder) IsGreaterThan(rhs float64) Constraint {
	return b.build(GreaterEqual, rhs)
}

// IsLessThan returns the constraint `lhs <= rhs`.
func (b *ConstraintBuilder) IsLessThan(rhs float64) Constraint {
	return b.build(LessEqual, rhs)
}

// Constraint is a complete linear constraint ready to be added to a Model. It does not
// share storage with the builder that produced it.
type Constraint struct {
	vars    []VarIndex
	weights []float64
	sense   ConstraintType
	rhs     float64
	name    string
	err     error
}

// WithName returns a copy of the constraint carrying `name`.
func (c Constraint) WithName(name string) Constraint {
	c.name = name
	return c
}

// Sense returns the constraint's comparison.
func (c Constraint) Sense() ConstraintType {
	return c.sense
}

// RHS returns the right-hand side.
func (c Constraint) RHS() float64 {
	return c.rhs
}

// Len returns the number of terms.
func (c Constraint) Len() int {
	return len(c.vars)
}

// Err returns the first error recorded while building the constraint, if any.
func (c Constraint) Err() error {
	return c.err
}

func (c Constraint) String() string {
	s := ""
	for i, v := range c.vars {
		if i > 0 {
			s += " + "
		}
		s += fmt.Sprintf("%g %v", c.weights[i], v)
	}
	if s == "" {
		s = "0"
	}
	return fmt.Sprintf("%s %v %g", s, c.sense, c.rhs)
}
