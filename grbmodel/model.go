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

// Package grbmodel provides a safe modeling layer over a Gurobi-style optimization engine.
//
// An Env owns engine parameters and creates Models. Variables and linear constraints added to
// a Model are identified by VarIndex and ConIndex values that are only valid for that Model.
// Structural changes are queued by the engine and take effect on Update, Optimize or Write,
// but indices are assigned immediately in the order elements are added.
//
// Every failed engine call is returned as an *Error carrying the engine's message. Misuse that
// can be detected locally, such as mismatched list lengths or elements from another model, is
// rejected before the engine is called.
package grbmodel

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	log "github.com/golang/glog"
	"github.com/grbkit/grb/engine"
)

// modelIDs issues the tags that tie indices to the model that created them.
var modelIDs atomic.Uint64

// Model is an optimization model: variables, linear constraints, an objective direction and
// warm-start values. A Model is closed explicitly with Close, or by closing its Env.
type Model struct {
	env    *Env
	handle engine.ModelHandle
	// errEnv is the model's own environment, where the engine records model errors.
	errEnv engine.EnvHandle
	id     uint64
	name   string

	numVars, numCons int
	// generation changes whenever a Solution may no longer describe the model.
	generation uint64
}

// NewModel creates an empty model named `name` in `env`. The model copies the environment's
// parameters at creation time.
func NewModel(env *Env, name string) (*Model, error) {
	if err := env.valid(); err != nil {
		return nil, err
	}
	h, code := env.eng.NewModel(env.handle, name)
	if err := check(env.eng, env.handle, "NewModel", code); err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("grb: NewModel returned no model: %w", ErrInvalidHandle)
	}
	m := &Model{
		env:    env,
		handle: h,
		errEnv: env.eng.ModelEnv(h),
		id:     modelIDs.Add(1),
		name:   name,
	}
	if m.errEnv == nil {
		m.errEnv = env.handle
	}
	env.models[m] = struct{}{}
	log.V(1).Infof("grb: created model %q", name)
	return m, nil
}

func (m *Model) valid() error {
	if m == nil || m.handle == nil || m.env.handle == nil {
		return ErrInvalidHandle
	}
	return nil
}

func (m *Model) check(op string, code engine.Code) error {
	return check(m.env.eng, m.errEnv, op, code)
}

// Env returns the environment the model was created from.
func (m *Model) Env() *Env {
	return m.env
}

// Name returns the model name given at creation.
func (m *Model) Name() string {
	return m.name
}

// NumVars returns the number of variables added so far, including ones not yet committed by
// Update.
func (m *Model) NumVars() int {
	return m.numVars
}

// NumConstraints returns the number of constraints added so far, including ones not yet
// committed by Update.
func (m *Model) NumConstraints() int {
	return m.numCons
}

// Close releases the model. It is safe to call Close more than once, and after the parent
// Env was closed.
func (m *Model) Close() {
	if m == nil || m.handle == nil {
		return
	}
	m.env.eng.FreeModel(m.handle)
	m.handle = nil
	m.errEnv = nil
	delete(m.env.models, m)
	log.V(1).Infof("grb: released model %q", m.name)
}

// AddVar adds an unnamed variable with objective coefficient `obj`.
func (m *Model) AddVar(obj float64, vtype VariableType) (VarIndex, error) {
	return m.AddNamedVar("", obj, vtype)
}

// AddNamedVar adds a variable and returns its index. Indices are assigned sequentially from 0.
func (m *Model) AddNamedVar(name string, obj float64, vtype VariableType) (VarIndex, error) {
	if err := m.valid(); err != nil {
		return VarIndex{}, err
	}
	if !vtype.valid() {
		return VarIndex{}, fmt.Errorf("grb: variable type %v: %w", vtype, ErrInvalidArgument)
	}
	if m.numVars == math.MaxInt32 {
		return VarIndex{}, fmt.Errorf("grb: too many variables: %w", ErrInvalidArgument)
	}
	lb, ub := vtype.Bounds()
	if err := m.check("AddVar", m.env.eng.AddVar(m.handle, obj, lb, ub, vtype.Code(), name)); err != nil {
		return VarIndex{}, err
	}
	v := VarIndex{pos: int32(m.numVars), model: m.id}
	m.numVars++
	m.generation++
	return v, nil
}

// AddCon adds a linear constraint and returns its index. Errors recorded while building the
// constraint, and variables belonging to another model, are reported without calling the
// engine.
func (m *Model) AddCon(c Constraint) (ConIndex, error) {
	if err := m.valid(); err != nil {
		return ConIndex{}, err
	}
	if c.err != nil {
		return ConIndex{}, c.err
	}
	switch c.sense {
	case LessEqual, GreaterEqual, Equal:
	default:
		return ConIndex{}, fmt.Errorf("grb: constraint sense %v: %w", c.sense, ErrInvalidArgument)
	}
	ind := make([]int32, len(c.vars))
	for i, v := range c.vars {
		if v.model != m.id {
			return ConIndex{}, mixedModelsErrorf("grb: constraint variable %v does not belong to model %q", v, m.name)
		}
		ind[i] = v.pos
	}
	if err := m.check("AddConstr", m.env.eng.AddConstr(m.handle, ind, c.weights, byte(c.sense), c.rhs, c.name)); err != nil {
		return ConIndex{}, err
	}
	ci := ConIndex{pos: int32(m.numCons), model: m.id}
	m.numCons++
	m.generation++
	return ci, nil
}

// SetObjectiveType sets the optimization direction.
func (m *Model) SetObjectiveType(o ObjectiveType) error {
	if err := m.valid(); err != nil {
		return err
	}
	if o != Minimize && o != Maximize {
		return fmt.Errorf("grb: objective type %d: %w", int32(o), ErrInvalidArgument)
	}
	if err := m.check("SetIntAttr", m.env.eng.SetIntAttr(m.handle, engine.AttrModelSense, int32(o))); err != nil {
		return err
	}
	m.generation++
	return nil
}

// ObjectiveType returns the optimization direction recorded by the engine.
func (m *Model) ObjectiveType() (ObjectiveType, error) {
	if err := m.valid(); err != nil {
		return 0, err
	}
	v, code := m.env.eng.GetIntAttr(m.handle, engine.AttrModelSense)
	if err := m.check("GetIntAttr", code); err != nil {
		return 0, err
	}
	return ObjectiveType(v), nil
}

// Update commits queued changes to the engine.
func (m *Model) Update() error {
	if err := m.valid(); err != nil {
		return err
	}
	return m.check("UpdateModel", m.env.eng.UpdateModel(m.handle))
}

// checkVar verifies that `v` was issued by this model.
func (m *Model) checkVar(v VarIndex) error {
	if v.model != m.id {
		return mixedModelsErrorf("grb: variable %v does not belong to model %q", v, m.name)
	}
	return nil
}

// InitialValues assigns warm-start values, vals[i] to vars[i], one call at a time and in order.
// The two lists must have equal lengths and every variable must belong to the model; otherwise
// nothing is assigned. If the engine rejects an assignment, the returned *PartialError
// reports how many assignments completed, and later ones are not attempted.
func (m *Model) InitialValues(vars []VarIndex, vals []float64) error {
	if err := m.valid(); err != nil {
		return &PartialError{Err: err}
	}
	if len(vars) != len(vals) {
		return &PartialError{Err: fmt.Errorf("grb: %d variables and %d values: %w", len(vars), len(vals), ErrLengthMismatch)}
	}
	for _, v := range vars {
		if err := m.checkVar(v); err != nil {
			return &PartialError{Err: err}
		}
	}
	for i, v := range vars {
		code := m.env.eng.SetDblAttrElement(m.handle, engine.AttrStart, v.pos, vals[i])
		if err := m.check("SetDblAttrElement", code); err != nil {
			return &PartialError{Completed: i, Err: err}
		}
	}
	return nil
}

// InitialValuesRange assigns warm-start values to the contiguous variables first..last
// (inclusive) in a single call. `vals` must hold exactly last-first+1 values; last may be
// the variable just before first, for an empty range.
func (m *Model) InitialValuesRange(first, last VarIndex, vals []float64) error {
	if err := m.valid(); err != nil {
		return err
	}
	if err := m.checkVar(first); err != nil {
		return err
	}
	if err := m.checkVar(last); err != nil {
		return err
	}
	if last.pos < first.pos-1 {
		return fmt.Errorf("grb: range %v..%v is reversed: %w", first, last, ErrInvalidArgument)
	}
	if n := int(last.pos-first.pos) + 1; len(vals) != n {
		return fmt.Errorf("grb: %d values for %d variables: %w", len(vals), n, ErrLengthMismatch)
	}
	return m.check("SetDblAttrArray", m.env.eng.SetDblAttrArray(m.handle, engine.AttrStart, first.pos, vals))
}

// InitialValue returns the warm-start value of `v`. Only variables committed by Update,
// Optimize or Write can be read.
func (m *Model) InitialValue(v VarIndex) (float64, error) {
	if err := m.valid(); err != nil {
		return 0, err
	}
	if err := m.checkVar(v); err != nil {
		return 0, err
	}
	x, code := m.env.eng.GetDblAttrElement(m.handle, engine.AttrStart, v.pos)
	if err := m.check("GetDblAttrElement", code); err != nil {
		return 0, err
	}
	return x, nil
}

// SetTimeLimit bounds the solve time of this model.
func (m *Model) SetTimeLimit(d time.Duration) error {
	return m.SetFloatParam(engine.ParamTimeLimit, d.Seconds())
}

// SetIntParam sets an integer parameter on this model only.
func (m *Model) SetIntParam(name string, value int) error {
	if err := m.valid(); err != nil {
		return err
	}
	return setIntParam(m.env.eng, m.errEnv, name, value)
}

// SetFloatParam sets a floating-point parameter on this model only.
func (m *Model) SetFloatParam(name string, value float64) error {
	if err := m.valid(); err != nil {
		return err
	}
	return setFloatParam(m.env.eng, m.errEnv, name, value)
}

// SetStringParam sets a string parameter on this model only.
func (m *Model) SetStringParam(name, value string) error {
	if err := m.valid(); err != nil {
		return err
	}
	return setStringParam(m.env.eng, m.errEnv, name, value)
}

// Optimize solves the model. A solve that ends without an optimal solution (infeasible, time
// limit, ...) is not an error: inspect Solution.Status. Any Solution obtained earlier from
// this model becomes stale.
func (m *Model) Optimize() (*Solution, error) {
	if err := m.valid(); err != nil {
		return nil, err
	}
	m.generation++
	if err := m.check("Optimize", m.env.eng.Optimize(m.handle)); err != nil {
		return nil, err
	}
	status, code := m.env.eng.GetIntAttr(m.handle, engine.AttrStatus)
	if err := m.check("GetIntAttr", code); err != nil {
		return nil, err
	}
	log.V(1).Infof("grb: model %q: optimize finished with status %v", m.name, Status(status))
	return &Solution{model: m, generation: m.generation, status: Status(status)}, nil
}

// Write exports the model to `path`; the file extension selects the format (e.g. ".lp").
func (m *Model) Write(path string) error {
	if err := m.valid(); err != nil {
		return err
	}
	return m.check("Write", m.env.eng.Write(m.handle, path))
}
