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

// Package enginetest provides an in-memory engine.Engine for tests.
//
// The fake follows the native library's observable contract closely enough to exercise the
// modeling layer: structural changes are queued until UpdateModel, Optimize or Write; models
// record errors on their own environment copy; attributes and parameters are validated by
// name, type and range. It additionally offers fault injection, call counting and release
// bookkeeping.
//
// Optimize enumerates every assignment of finite-domain integral variables (binary, integer
// and semi-integer with finite bounds, plus fixed continuous variables), which is enough for the
// small models used in tests. Ties between optimal assignments are broken in favour of the
// lexicographically largest one.
package enginetest

import (
	"fmt"
	"math"
	"sync"
	"unsafe"

	log "github.com/golang/glog"
	"github.com/grbkit/grb/engine"
)

// Names of the engine calls, as accepted by FailAfter and Calls.
const (
	OpLoadEnv           = "LoadEnv"
	OpNewModel          = "NewModel"
	OpAddVar            = "AddVar"
	OpAddConstr         = "AddConstr"
	OpGetIntAttr        = "GetIntAttr"
	OpSetIntAttr        = "SetIntAttr"
	OpGetDblAttr        = "GetDblAttr"
	OpSetDblAttr        = "SetDblAttr"
	OpGetDblAttrArray   = "GetDblAttrArray"
	OpSetDblAttrArray   = "SetDblAttrArray"
	OpGetDblAttrElement = "GetDblAttrElement"
	OpSetDblAttrElement = "SetDblAttrElement"
	OpSetIntParam       = "SetIntParam"
	OpSetDblParam       = "SetDblParam"
	OpSetStrParam       = "SetStrParam"
	OpUpdateModel       = "UpdateModel"
	OpOptimize          = "Optimize"
	OpWrite             = "Write"
)

// Solve status values reported through the Status attribute.
const (
	statusLoaded     int32 = 1
	statusOptimal    int32 = 2
	statusInfeasible int32 = 3
	statusTimeLimit  int32 = 9
)

// undefined is the value of attributes that were never set.
const undefined = 1e101

// DefaultMaxAssignments bounds the search space explored by Optimize.
const DefaultMaxAssignments = 1 << 20

type paramSpec struct {
	typ      engine.ParamType
	min, max float64
	def      any
}

var params = map[string]paramSpec{
	engine.ParamThreads:      {typ: engine.ParamInt, min: 0, max: 1024, def: int32(0)},
	engine.ParamOutputFlag:   {typ: engine.ParamInt, min: 0, max: 1, def: int32(1)},
	engine.ParamLogToConsole: {typ: engine.ParamInt, min: 0, max: 1, def: int32(1)},
	engine.ParamTimeLimit:    {typ: engine.ParamFloat, min: 0, max: math.Inf(1), def: math.Inf(1)},
	engine.ParamMIPGap:       {typ: engine.ParamFloat, min: 0, max: math.Inf(1), def: 1e-4},
	"LogFile":                {typ: engine.ParamString, def: ""},
}

type env struct {
	id      int
	params  map[string]any
	lastErr string
	freed   bool
	// owner is set for the copy held by a model.
	owner *model
	// models counts live models created from this environment.
	models int
}

type variable struct {
	name   string
	obj    float64
	lb, ub float64
	vtype  byte
}

type constr struct {
	name  string
	ind   []int32
	val   []float64
	sense byte
	rhs   float64
}

type model struct {
	id     int
	parent *env
	env    *env
	name   string
	freed  bool

	vars        []variable
	pendingVars []variable
	cons        []constr
	pendingCons []constr
	sense       int32
	start       []float64

	status   int32
	solved   bool
	x        []float64
	objVal   float64
	runtime  float64
	solCount int32
}

type fault struct {
	after int
	code  engine.Code
}

// Engine is an in-memory engine.Engine. The zero value is not usable; call New.
// Methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	nextID int
	envs   map[*env]struct{}
	models map[*model]struct{}

	calls  map[string]int
	faults map[string][]fault

	dropErrorText   bool
	doubleFrees     int
	outOfOrderFrees int

	// MaxAssignments bounds the number of assignments Optimize may enumerate.
	MaxAssignments int
}

var _ engine.Engine = (*Engine)(nil)

// New returns an empty fake engine.
func New() *Engine {
	return &Engine{
		envs:           make(map[*env]struct{}),
		models:         make(map[*model]struct{}),
		calls:          make(map[string]int),
		faults:         make(map[string][]fault),
		MaxAssignments: DefaultMaxAssignments,
	}
}

// FailAfter makes the call `op` fail with `code` once `n` further calls to it have succeeded.
// Several faults may be queued for the same call; each fires once.
func (e *Engine) FailAfter(op string, n int, code engine.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.faults[op] = append(e.faults[op], fault{after: e.calls[op] + n, code: code})
}

// DropErrorText makes ErrorMsg report that no error text is available.
func (e *Engine) DropErrorText(drop bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dropErrorText = drop
}

// Calls returns how many times `op` was invoked, including failed invocations.
func (e *Engine) Calls(op string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[op]
}

// TotalCalls returns the number of status-returning calls made so far.
func (e *Engine) TotalCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		n += c
	}
	return n
}

// LiveEnvs returns the number of environments that were loaded and not yet freed.
func (e *Engine) LiveEnvs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.envs)
}

// LiveModels returns the number of models that were created and not yet freed.
func (e *Engine) LiveModels() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.models)
}

// DoubleFrees returns the number of release calls made on already released handles.
func (e *Engine) DoubleFrees() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doubleFrees
}

// OutOfOrderFrees returns the number of environments released while models created from them
// were still alive.
func (e *Engine) OutOfOrderFrees() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outOfOrderFrees
}

// Param returns the current value of a parameter on the environment `h`.
func (e *Engine) Param(h engine.EnvHandle, name string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := toEnv(h).params[name]
	return v, ok
}

// enter counts the call and reports an injected fault, if one is due.
func (e *Engine) enter(op string) (engine.Code, bool) {
	n := e.calls[op]
	e.calls[op] = n + 1
	fs := e.faults[op]
	for i, f := range fs {
		if f.after == n {
			e.faults[op] = append(fs[:i:i], fs[i+1:]...)
			return f.code, true
		}
	}
	return engine.OK, false
}

func toEnv(h engine.EnvHandle) *env {
	return (*env)(unsafe.Pointer(h))
}

func toModel(h engine.ModelHandle) *model {
	return (*model)(unsafe.Pointer(h))
}

func (en *env) fail(code engine.Code, format string, a ...any) engine.Code {
	en.lastErr = fmt.Sprintf(format, a...)
	log.V(2).Infof("enginetest: env %d: error %d: %s", en.id, code, en.lastErr)
	return code
}

func (e *Engine) newEnv() *env {
	e.nextID++
	en := &env{id: e.nextID, params: make(map[string]any, len(params))}
	for name, p := range params {
		en.params[name] = p.def
	}
	return en
}

// LoadEnv implements engine.Engine. On failure the environment is still returned so that its
// error text can be read, and it must be freed.
func (e *Engine) LoadEnv(logFile string) (engine.EnvHandle, engine.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()

	en := e.newEnv()
	en.params["LogFile"] = logFile
	e.envs[en] = struct{}{}
	if code, ok := e.enter(OpLoadEnv); ok {
		return engine.EnvHandle(unsafe.Pointer(en)), en.fail(code, "injected failure loading environment")
	}
	return engine.EnvHandle(unsafe.Pointer(en)), engine.OK
}

// NewModel implements engine.Engine.
func (e *Engine) NewModel(h engine.EnvHandle, name string) (engine.ModelHandle, engine.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if h == nil {
		return nil, engine.ErrorNullArgument
	}
	parent := toEnv(h)
	if code, ok := e.enter(OpNewModel); ok {
		return nil, parent.fail(code, "injected failure creating model %q", name)
	}
	if parent.freed {
		return nil, engine.ErrorNullArgument
	}

	e.nextID++
	m := &model{id: e.nextID, parent: parent, name: name, sense: 1, status: statusLoaded}
	m.env = e.newEnv()
	m.env.owner = m
	for k, v := range parent.params {
		m.env.params[k] = v
	}
	parent.models++
	e.models[m] = struct{}{}
	return engine.ModelHandle(unsafe.Pointer(m)), engine.OK
}

// ModelEnv implements engine.Engine.
func (e *Engine) ModelEnv(h engine.ModelHandle) engine.EnvHandle {
	if h == nil {
		return nil
	}
	return engine.EnvHandle(unsafe.Pointer(toModel(h).env))
}

// ErrorMsg implements engine.Engine.
func (e *Engine) ErrorMsg(h engine.EnvHandle) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if h == nil || e.dropErrorText {
		return "", false
	}
	return toEnv(h).lastErr, true
}

// live validates a model handle and counts the call.
func (e *Engine) live(h engine.ModelHandle, op string) (*model, engine.Code) {
	if h == nil {
		return nil, engine.ErrorNullArgument
	}
	m := toModel(h)
	if code, ok := e.enter(op); ok {
		return nil, m.env.fail(code, "injected failure in %s", op)
	}
	if m.freed {
		return nil, engine.ErrorNullArgument
	}
	return m, engine.OK
}

// invalidate discards solution information after a modification.
func (m *model) invalidate() {
	m.solved = false
	m.x = nil
	m.solCount = 0
	m.status = statusLoaded
}

func (m *model) pendingVarCount() int {
	return len(m.vars) + len(m.pendingVars)
}

// commit applies queued structural changes.
func (m *model) commit() {
	m.vars = append(m.vars, m.pendingVars...)
	m.cons = append(m.cons, m.pendingCons...)
	m.pendingVars = nil
	m.pendingCons = nil
}

// AddVar implements engine.Engine.
func (e *Engine) AddVar(h engine.ModelHandle, obj, lb, ub float64, vtype byte, name string) engine.Code {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, code := e.live(h, OpAddVar)
	if code != engine.OK {
		return code
	}
	switch vtype {
	case engine.Binary, engine.Continuous, engine.Integer, engine.SemiContinuous, engine.SemiInteger:
	default:
		return m.env.fail(engine.ErrorInvalidArgument, "invalid variable type %q", vtype)
	}
	if lb > ub {
		return m.env.fail(engine.ErrorInvalidArgument, "lower bound %v exceeds upper bound %v", lb, ub)
	}
	m.pendingVars = append(m.pendingVars, variable{name: name, obj: obj, lb: lb, ub: ub, vtype: vtype})
	m.start = append(m.start, undefined)
	m.invalidate()
	return engine.OK
}

// AddConstr implements engine.Engine.
func (e *Engine) AddConstr(h engine.ModelHandle, ind []int32, val []float64, sense byte, rhs float64, name string) engine.Code {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, code := e.live(h, OpAddConstr)
	if code != engine.OK {
		return code
	}
	if len(ind) != len(val) {
		return m.env.fail(engine.ErrorInvalidArgument, "%d indices for %d values", len(ind), len(val))
	}
	switch sense {
	case engine.LessEqual, engine.GreaterEqual, engine.Equal:
	default:
		return m.env.fail(engine.ErrorInvalidArgument, "invalid constraint sense %q", sense)
	}
	for _, i := range ind {
		if i < 0 || int(i) >= m.pendingVarCount() {
			return m.env.fail(engine.ErrorIndexOutOfRange, "variable index %d out of range", i)
		}
	}
	m.pendingCons = append(m.pendingCons, constr{
		name:  name,
		ind:   append([]int32(nil), ind...),
		val:   append([]float64(nil), val...),
		sense: sense,
		rhs:   rhs,
	})
	m.invalidate()
	return engine.OK
}

// GetIntAttr implements engine.Engine.
func (e *Engine) GetIntAttr(h engine.ModelHandle, name string) (int32, engine.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, code := e.live(h, OpGetIntAttr)
	if code != engine.OK {
		return 0, code
	}
	switch name {
	case engine.AttrModelSense:
		return m.sense, engine.OK
	case engine.AttrStatus:
		return m.status, engine.OK
	case engine.AttrSolCount:
		return m.solCount, engine.OK
	case engine.AttrNumVars:
		return int32(len(m.vars)), engine.OK
	case engine.AttrNumConstrs:
		return int32(len(m.cons)), engine.OK
	}
	return 0, m.env.fail(engine.ErrorUnknownAttribute, "unknown integer attribute %q", name)
}

// SetIntAttr implements engine.Engine.
func (e *Engine) SetIntAttr(h engine.ModelHandle, name string, value int32) engine.Code {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, code := e.live(h, OpSetIntAttr)
	if code != engine.OK {
		return code
	}
	switch name {
	case engine.AttrModelSense:
		if value != 1 && value != -1 {
			return m.env.fail(engine.ErrorValueOutOfRange, "invalid model sense %d", value)
		}
		m.sense = value
		m.invalidate()
		return engine.OK
	case engine.AttrStatus, engine.AttrSolCount, engine.AttrNumVars, engine.AttrNumConstrs:
		return m.env.fail(engine.ErrorInvalidArgument, "attribute %q is read-only", name)
	}
	return m.env.fail(engine.ErrorUnknownAttribute, "unknown integer attribute %q", name)
}

// GetDblAttr implements engine.Engine.
func (e *Engine) GetDblAttr(h engine.ModelHandle, name string) (float64, engine.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, code := e.live(h, OpGetDblAttr)
	if code != engine.OK {
		return 0, code
	}
	switch name {
	case engine.AttrObjVal:
		if !m.solved {
			return 0, m.env.fail(engine.ErrorDataNotAvailable, "unable to retrieve attribute %q", name)
		}
		return m.objVal, engine.OK
	case engine.AttrRuntime:
		return m.runtime, engine.OK
	}
	return 0, m.env.fail(engine.ErrorUnknownAttribute, "unknown double attribute %q", name)
}

// SetDblAttr implements engine.Engine.
func (e *Engine) SetDblAttr(h engine.ModelHandle, name string, value float64) engine.Code {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, code := e.live(h, OpSetDblAttr)
	if code != engine.OK {
		return code
	}
	switch name {
	case engine.AttrObjVal, engine.AttrRuntime:
		return m.env.fail(engine.ErrorInvalidArgument, "attribute %q is read-only", name)
	}
	return m.env.fail(engine.ErrorUnknownAttribute, "unknown double attribute %q", name)
}

// varArray resolves a per-variable array attribute for a read of [start, start+n).
func (m *model) varArray(name string, start, n int) ([]float64, engine.Code) {
	switch name {
	case engine.AttrX:
		if !m.solved {
			return nil, m.env.fail(engine.ErrorDataNotAvailable, "unable to retrieve attribute %q", name)
		}
		if start < 0 || start+n > len(m.x) {
			return nil, m.env.fail(engine.ErrorIndexOutOfRange, "index out of range for attribute %q", name)
		}
		return m.x[start : start+n], engine.OK
	case engine.AttrStart:
		if start < 0 || start+n > len(m.vars) {
			return nil, m.env.fail(engine.ErrorIndexOutOfRange, "index out of range for attribute %q", name)
		}
		return m.start[start : start+n], engine.OK
	}
	return nil, m.env.fail(engine.ErrorUnknownAttribute, "unknown double attribute %q", name)
}

// setStart writes warm-start values for [start, start+len(vals)). Pending variables may be set.
func (m *model) setStart(name string, start int, vals []float64) engine.Code {
	switch name {
	case engine.AttrStart:
	case engine.AttrX:
		return m.env.fail(engine.ErrorInvalidArgument, "attribute %q is read-only", name)
	default:
		return m.env.fail(engine.ErrorUnknownAttribute, "unknown double attribute %q", name)
	}
	if start < 0 || start+len(vals) > m.pendingVarCount() {
		return m.env.fail(engine.ErrorIndexOutOfRange, "index out of range for attribute %q", name)
	}
	copy(m.start[start:], vals)
	return engine.OK
}

// GetDblAttrArray implements engine.Engine.
func (e *Engine) GetDblAttrArray(h engine.ModelHandle, name string, start int32, values []float64) engine.Code {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, code := e.live(h, OpGetDblAttrArray)
	if code != engine.OK {
		return code
	}
	src, code := m.varArray(name, int(start), len(values))
	if code != engine.OK {
		return code
	}
	copy(values, src)
	return engine.OK
}

// SetDblAttrArray implements engine.Engine.
func (e *Engine) SetDblAttrArray(h engine.ModelHandle, name string, start int32, values []float64) engine.Code {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, code := e.live(h, OpSetDblAttrArray)
	if code != engine.OK {
		return code
	}
	return m.setStart(name, int(start), values)
}

// GetDblAttrElement implements engine.Engine.
func (e *Engine) GetDblAttrElement(h engine.ModelHandle, name string, element int32) (float64, engine.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, code := e.live(h, OpGetDblAttrElement)
	if code != engine.OK {
		return 0, code
	}
	src, code := m.varArray(name, int(element), 1)
	if code != engine.OK {
		return 0, code
	}
	return src[0], engine.OK
}

// SetDblAttrElement implements engine.Engine.
func (e *Engine) SetDblAttrElement(h engine.ModelHandle, name string, element int32, value float64) engine.Code {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, code := e.live(h, OpSetDblAttrElement)
	if code != engine.OK {
		return code
	}
	return m.setStart(name, int(element), []float64{value})
}

// setParam validates and stores a parameter value.
func (e *Engine) setParam(h engine.EnvHandle, op, name string, typ engine.ParamType, value any, num float64) engine.Code {
	if h == nil {
		return engine.ErrorNullArgument
	}
	en := toEnv(h)
	if code, ok := e.enter(op); ok {
		return en.fail(code, "injected failure setting parameter %q", name)
	}
	if en.freed {
		return engine.ErrorNullArgument
	}
	p, ok := params[name]
	if !ok || p.typ != typ {
		return en.fail(engine.ErrorUnknownParameter, "unknown parameter %q", name)
	}
	if typ != engine.ParamString && (num < p.min || num > p.max) {
		return en.fail(engine.ErrorValueOutOfRange, "value %v out of range for parameter %q", value, name)
	}
	en.params[name] = value
	return engine.OK
}

// SetIntParam implements engine.Engine.
func (e *Engine) SetIntParam(h engine.EnvHandle, name string, value int32) engine.Code {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setParam(h, OpSetIntParam, name, engine.ParamInt, value, float64(value))
}

// SetDblParam implements engine.Engine.
func (e *Engine) SetDblParam(h engine.EnvHandle, name string, value float64) engine.Code {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setParam(h, OpSetDblParam, name, engine.ParamFloat, value, value)
}

// SetStrParam implements engine.Engine.
func (e *Engine) SetStrParam(h engine.EnvHandle, name string, value string) engine.Code {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setParam(h, OpSetStrParam, name, engine.ParamString, value, 0)
}

// ParamType implements engine.Engine.
func (e *Engine) ParamType(h engine.EnvHandle, name string) engine.ParamType {
	p, ok := params[name]
	if !ok {
		return engine.ParamUnknown
	}
	return p.typ
}

// UpdateModel implements engine.Engine.
func (e *Engine) UpdateModel(h engine.ModelHandle) engine.Code {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, code := e.live(h, OpUpdateModel)
	if code != engine.OK {
		return code
	}
	m.commit()
	return engine.OK
}

// Optimize implements engine.Engine.
func (e *Engine) Optimize(h engine.ModelHandle) engine.Code {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, code := e.live(h, OpOptimize)
	if code != engine.OK {
		return code
	}
	m.commit()
	return e.solve(m)
}

// Write implements engine.Engine.
func (e *Engine) Write(h engine.ModelHandle, path string) engine.Code {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, code := e.live(h, OpWrite)
	if code != engine.OK {
		return code
	}
	m.commit()
	return m.write(path)
}

// FreeModel implements engine.Engine.
func (e *Engine) FreeModel(h engine.ModelHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if h == nil {
		return
	}
	m := toModel(h)
	if m.freed {
		e.doubleFrees++
		log.Errorf("enginetest: model %d released twice", m.id)
		return
	}
	m.freed = true
	m.env.freed = true
	m.parent.models--
	delete(e.models, m)
}

// FreeEnv implements engine.Engine.
func (e *Engine) FreeEnv(h engine.EnvHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if h == nil {
		return
	}
	en := toEnv(h)
	if en.freed {
		e.doubleFrees++
		log.Errorf("enginetest: environment %d released twice", en.id)
		return
	}
	if en.models > 0 {
		e.outOfOrderFrees++
		log.Errorf("enginetest: environment %d released with %d live models", en.id, en.models)
	}
	en.freed = true
	delete(e.envs, en)
}
