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

	"github.com/grbkit/grb/engine"
)

// Inf is the bound value meaning "unbounded" for the engine.
const Inf = engine.Infinity

type (
	// VarIndex identifies a variable of the Model that issued it. Its zero value belongs to no
	// model.
	VarIndex struct {
		pos   int32
		model uint64
	}
	// ConIndex identifies a linear constraint of the Model that issued it.
	ConIndex struct {
		pos   int32
		model uint64
	}
)

// Index returns the zero-based position of the variable in its model.
func (v VarIndex) Index() int {
	return int(v.pos)
}

func (v VarIndex) String() string {
	return fmt.Sprintf("x%d", v.pos)
}

// Index returns the zero-based position of the constraint in its model.
func (c ConIndex) Index() int {
	return int(c.pos)
}

func (c ConIndex) String() string {
	return fmt.Sprintf("c%d", c.pos)
}

// VariableType is the kind of a variable together with its bounds. Use Binary or one of the
// constructor functions; the zero value is invalid.
type VariableType struct {
	code   byte
	lb, ub float64
}

// Binary is a variable restricted to {0, 1}.
var Binary = VariableType{code: engine.Binary, lb: 0, ub: 1}

// Continuous returns the type of a real variable in [lb, ub].
func Continuous(lb, ub float64) VariableType {
	return VariableType{code: engine.Continuous, lb: lb, ub: ub}
}

// Integer returns the type of an integer variable in [lb, ub].
func Integer(lb, ub float64) VariableType {
	return VariableType{code: engine.Integer, lb: lb, ub: ub}
}

// SemiContinuous returns the type of a variable that is either 0 or in [lb, ub].
func SemiContinuous(lb, ub float64) VariableType {
	return VariableType{code: engine.SemiContinuous, lb: lb, ub: ub}
}

// SemiInteger returns the type of an integer variable that is either 0 or in [lb, ub].
func SemiInteger(lb, ub float64) VariableType {
	return VariableType{code: engine.SemiInteger, lb: lb, ub: ub}
}

// Bounds returns the lower and upper bound passed to the engine.
func (t VariableType) Bounds() (lb, ub float64) {
	return t.lb, t.ub
}

// Code returns the engine's single-character type code.
func (t VariableType) Code() byte {
	return t.code
}

func (t VariableType) valid() bool {
	switch t.code {
	case engine.Binary, engine.Continuous, engine.Integer, engine.SemiContinuous, engine.SemiInteger:
		return !math.IsNaN(t.lb) && !math.IsNaN(t.ub)
	}
	return false
}

func (t VariableType) String() string {
	name := map[byte]string{
		engine.Binary:         "Binary",
		engine.Continuous:     "Continuous",
		engine.Integer:        "Integer",
		engine.SemiContinuous: "SemiContinuous",
		engine.SemiInteger:    "SemiInteger",
	}[t.code]
	switch {
	case name == "":
		return "Invalid"
	case t.code == engine.Binary:
		return name
	}
	return fmt.Sprintf("%s[%g, %g]", name, t.lb, t.ub)
}

// ConstraintType is the sense of a linear constraint.
type ConstraintType byte

// Constraint senses.
const (
	LessEqual    = ConstraintType(engine.LessEqual)
	GreaterEqual = ConstraintType(engine.GreaterEqual)
	Equal        = ConstraintType(engine.Equal)
)

func (c ConstraintType) String() string {
	switch c {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "=="
	}
	return "invalid"
}

// ObjectiveType is the optimization direction.
type ObjectiveType int32

// Optimization directions, with the engine's ModelSense values.
const (
	Minimize ObjectiveType = 1
	Maximize ObjectiveType = -1
)

func (o ObjectiveType) String() string {
	switch o {
	case Minimize:
		return "Minimize"
	case Maximize:
		return "Maximize"
	}
	return "invalid"
}

// Status is how a solve terminated. It is distinct from a failed engine call: a solve that
// proves infeasibility returns a Solution with status Infeasible and no error.
type Status int32

// Termination statuses as reported by the engine's Status attribute.
const (
	StatusLoaded         Status = 1
	StatusOptimal        Status = 2
	StatusInfeasible     Status = 3
	StatusInfOrUnbd      Status = 4
	StatusUnbounded      Status = 5
	StatusCutoff         Status = 6
	StatusIterationLimit Status = 7
	StatusNodeLimit      Status = 8
	StatusTimeLimit      Status = 9
	StatusSolutionLimit  Status = 10
	StatusInterrupted    Status = 11
	StatusNumeric        Status = 12
	StatusSuboptimal     Status = 13
	StatusInProgress     Status = 14
	StatusUserObjLimit   Status = 15
	StatusWorkLimit      Status = 16
	StatusMemLimit       Status = 17
)

var statusNames = []string{
	"Unknown", "Loaded", "Optimal", "Infeasible", "InfOrUnbd", "Unbounded", "Cutoff",
	"IterationLimit", "NodeLimit", "TimeLimit", "SolutionLimit", "Interrupted", "Numeric",
	"Suboptimal", "InProgress", "UserObjLimit", "WorkLimit", "MemLimit",
}

func (s Status) String() string {
	if s > 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// IsOptimal reports whether the solve proved optimality.
func (s Status) IsOptimal() bool {
	return s == StatusOptimal
}

// IsInfeasible reports whether the model was shown to have no feasible point, or to be
// infeasible or unbounded.
func (s Status) IsInfeasible() bool {
	return s == StatusInfeasible || s == StatusInfOrUnbd
}

// IsLimit reports whether the solve stopped on a resource limit or interruption.
func (s Status) IsLimit() bool {
	switch s {
	case StatusIterationLimit, StatusNodeLimit, StatusTimeLimit, StatusSolutionLimit,
		StatusInterrupted, StatusUserObjLimit, StatusWorkLimit, StatusMemLimit:
		return true
	}
	return false
}
