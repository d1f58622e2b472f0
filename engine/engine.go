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

// Package engine defines the call surface of the native optimization engine.
//
// The `Engine` interface is the Go rendition of the engine's C function table: every method
// corresponds to exactly one native call, takes opaque handles, and reports failure through an
// integer `Code` where 0 means success. Nothing in this package interprets results; the
// `grbmodel` package owns handle lifetimes and translates codes into errors.
//
// Concrete engines register themselves with `Register`, usually from an `init` function, so
// that importing them for side effects is enough to make them the default:
//
//	import _ "github.com/grbkit/grb/engine/gurobi"
package engine

import (
	"sync"
	"unsafe"
)

type (
	// EnvHandle is an opaque engine environment. The zero value is invalid.
	EnvHandle unsafe.Pointer
	// ModelHandle is an opaque engine model. The zero value is invalid.
	ModelHandle unsafe.Pointer
)

// Code is the integer result code returned by every status-returning engine call.
type Code int32

// OK is the engine's universal success code.
const OK Code = 0

// Engine error codes, as defined by the native library.
const (
	ErrorOutOfMemory            Code = 10001
	ErrorNullArgument           Code = 10002
	ErrorInvalidArgument        Code = 10003
	ErrorUnknownAttribute       Code = 10004
	ErrorDataNotAvailable       Code = 10005
	ErrorIndexOutOfRange        Code = 10006
	ErrorUnknownParameter       Code = 10007
	ErrorValueOutOfRange        Code = 10008
	ErrorNoLicense              Code = 10009
	ErrorSizeLimitExceeded      Code = 10010
	ErrorCallback               Code = 10011
	ErrorFileRead               Code = 10012
	ErrorFileWrite              Code = 10013
	ErrorNumeric                Code = 10014
	ErrorIISNotInfeasible       Code = 10015
	ErrorNotForMIP              Code = 10016
	ErrorOptimizationInProgress Code = 10017
	ErrorDuplicates             Code = 10018
	ErrorNodefile               Code = 10019
	ErrorQNotPSD                Code = 10020
	ErrorQCPEqualityConstraint  Code = 10021
	ErrorNetwork                Code = 10022
	ErrorJobRejected            Code = 10023
	ErrorNotSupported           Code = 10024
	ErrorExceed2BNonzeros       Code = 10025
	ErrorInvalidPiecewiseObj    Code = 10026
	ErrorUpdateModeChange       Code = 10027
	ErrorCloud                  Code = 10028
	ErrorModelModification      Code = 10029
	ErrorCSWorker               Code = 10030
	ErrorTuneModelTypes         Code = 10031
	ErrorSecurity               Code = 10032
)

// Attribute names used by this module.
const (
	AttrModelSense = "ModelSense"
	AttrStart      = "Start"
	AttrObjVal     = "ObjVal"
	AttrX          = "X"
	AttrStatus     = "Status"
	AttrSolCount   = "SolCount"
	AttrRuntime    = "Runtime"
	AttrNumVars    = "NumVars"
	AttrNumConstrs = "NumConstrs"
)

// Parameter names used by this module.
const (
	ParamThreads      = "Threads"
	ParamTimeLimit    = "TimeLimit"
	ParamOutputFlag   = "OutputFlag"
	ParamLogToConsole = "LogToConsole"
	ParamMIPGap       = "MIPGap"
)

// Variable type codes.
const (
	Binary         byte = 'B'
	Continuous     byte = 'C'
	Integer        byte = 'I'
	SemiContinuous byte = 'S'
	SemiInteger    byte = 'N'
)

// Constraint sense codes.
const (
	LessEqual    byte = '<'
	GreaterEqual byte = '>'
	Equal        byte = '='
)

// ParamType is the declared type of an engine parameter.
type ParamType int

// Parameter types as reported by `Engine.ParamType`.
const (
	ParamUnknown ParamType = -1
	ParamInt     ParamType = 1
	ParamFloat   ParamType = 2
	ParamString  ParamType = 3
)

// Infinity is the engine's bound value for "no bound".
const Infinity = 1e100

// Engine is the native function table. Implementations are not required to be safe for
// concurrent use on the same handle.
type Engine interface {
	// LoadEnv creates an environment. `logFile` may be empty.
	LoadEnv(logFile string) (EnvHandle, Code)
	// NewModel creates an empty model named `name` inside `env`.
	NewModel(env EnvHandle, name string) (ModelHandle, Code)
	// ModelEnv returns the environment that records errors for calls made on `m`.
	ModelEnv(m ModelHandle) EnvHandle
	// ErrorMsg returns the text of the last error recorded on `env`. The boolean is false when
	// the engine has no text to give.
	ErrorMsg(env EnvHandle) (string, bool)

	AddVar(m ModelHandle, obj, lb, ub float64, vtype byte, name string) Code
	AddConstr(m ModelHandle, ind []int32, val []float64, sense byte, rhs float64, name string) Code

	GetIntAttr(m ModelHandle, name string) (int32, Code)
	SetIntAttr(m ModelHandle, name string, value int32) Code
	GetDblAttr(m ModelHandle, name string) (float64, Code)
	SetDblAttr(m ModelHandle, name string, value float64) Code
	// GetDblAttrArray fills `values` with the attribute for elements [start, start+len(values)).
	GetDblAttrArray(m ModelHandle, name string, start int32, values []float64) Code
	// SetDblAttrArray sets the attribute for elements [start, start+len(values)).
	SetDblAttrArray(m ModelHandle, name string, start int32, values []float64) Code
	GetDblAttrElement(m ModelHandle, name string, element int32) (float64, Code)
	SetDblAttrElement(m ModelHandle, name string, element int32, value float64) Code

	SetIntParam(env EnvHandle, name string, value int32) Code
	SetDblParam(env EnvHandle, name string, value float64) Code
	SetStrParam(env EnvHandle, name string, value string) Code
	ParamType(env EnvHandle, name string) ParamType

	// UpdateModel applies pending structural changes.
	UpdateModel(m ModelHandle) Code
	// Optimize blocks until the engine terminates.
	Optimize(m ModelHandle) Code
	// Write serializes the model to `path`; the format follows the file extension.
	Write(m ModelHandle, path string) Code

	FreeModel(m ModelHandle)
	FreeEnv(env EnvHandle)
}

var (
	registryMu sync.Mutex
	registered Engine
)

// Register makes `e` the engine returned by Default. The last registration wins.
func Register(e Engine) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registered = e
}

// Default returns the registered engine, or nil if none was linked in.
func Default() Engine {
	registryMu.Lock()
	defer registryMu.Unlock()
	return registered
}
