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

//go:build gurobi && cgo

package gurobi

/*
#cgo linux LDFLAGS: -lgurobi110
#cgo darwin LDFLAGS: -lgurobi110
#cgo windows LDFLAGS: -lgurobi110

#include <stdlib.h> // for free
#include "gurobi_c.h"
*/
import "C"

import (
	"unsafe"

	"github.com/grbkit/grb/engine"
)

// Available reports whether the native library was linked into this binary.
const Available = true

func init() {
	engine.Register(Engine{})
}

// Engine calls the Gurobi C library. It is stateless; all state lives behind the handles.
type Engine struct{}

var _ engine.Engine = Engine{}

func cenv(h engine.EnvHandle) *C.GRBenv {
	return (*C.GRBenv)(unsafe.Pointer(h))
}

func cmodel(h engine.ModelHandle) *C.GRBmodel {
	return (*C.GRBmodel)(unsafe.Pointer(h))
}

// cname returns a C copy of `s`, or nil for the empty string. The caller frees it.
func cname(s string) *C.char {
	if s == "" {
		return nil
	}
	return C.CString(s)
}

func free(p *C.char) {
	if p != nil {
		C.free(unsafe.Pointer(p))
	}
}

// LoadEnv implements engine.Engine.
func (Engine) LoadEnv(logFile string) (engine.EnvHandle, engine.Code) {
	cLog := cname(logFile)
	defer free(cLog)

	var env *C.GRBenv
	code := C.GRBloadenv(&env, cLog)
	return engine.EnvHandle(unsafe.Pointer(env)), engine.Code(code)
}

// NewModel implements engine.Engine.
func (Engine) NewModel(env engine.EnvHandle, name string) (engine.ModelHandle, engine.Code) {
	cName := cname(name)
	defer free(cName)

	var model *C.GRBmodel
	code := C.GRBnewmodel(cenv(env), &model, cName, 0, nil, nil, nil, nil, nil)
	return engine.ModelHandle(unsafe.Pointer(model)), engine.Code(code)
}

// ModelEnv implements engine.Engine.
func (Engine) ModelEnv(m engine.ModelHandle) engine.EnvHandle {
	return engine.EnvHandle(unsafe.Pointer(C.GRBgetenv(cmodel(m))))
}

// ErrorMsg implements engine.Engine.
func (Engine) ErrorMsg(env engine.EnvHandle) (string, bool) {
	if env == nil {
		return "", false
	}
	msg := C.GRBgeterrormsg(cenv(env))
	if msg == nil {
		return "", false
	}
	return C.GoString(msg), true
}

// AddVar implements engine.Engine.
func (Engine) AddVar(m engine.ModelHandle, obj, lb, ub float64, vtype byte, name string) engine.Code {
	cName := cname(name)
	defer free(cName)

	return engine.Code(C.GRBaddvar(cmodel(m), 0, nil, nil,
		C.double(obj), C.double(lb), C.double(ub), C.char(vtype), cName))
}

// AddConstr implements engine.Engine.
func (Engine) AddConstr(m engine.ModelHandle, ind []int32, val []float64, sense byte, rhs float64, name string) engine.Code {
	if len(ind) != len(val) {
		return engine.ErrorInvalidArgument
	}
	cName := cname(name)
	defer free(cName)

	var pInd *C.int
	var pVal *C.double
	if len(ind) > 0 {
		pInd = (*C.int)(unsafe.Pointer(&ind[0]))
		pVal = (*C.double)(unsafe.Pointer(&val[0]))
	}
	return engine.Code(C.GRBaddconstr(cmodel(m), C.int(len(ind)), pInd, pVal,
		C.char(sense), C.double(rhs), cName))
}

// GetIntAttr implements engine.Engine.
func (Engine) GetIntAttr(m engine.ModelHandle, name string) (int32, engine.Code) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var v C.int
	code := C.GRBgetintattr(cmodel(m), cName, &v)
	return int32(v), engine.Code(code)
}

// SetIntAttr implements engine.Engine.
func (Engine) SetIntAttr(m engine.ModelHandle, name string, value int32) engine.Code {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	return engine.Code(C.GRBsetintattr(cmodel(m), cName, C.int(value)))
}

// GetDblAttr implements engine.Engine.
func (Engine) GetDblAttr(m engine.ModelHandle, name string) (float64, engine.Code) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var v C.double
	code := C.GRBgetdblattr(cmodel(m), cName, &v)
	return float64(v), engine.Code(code)
}

// SetDblAttr implements engine.Engine.
func (Engine) SetDblAttr(m engine.ModelHandle, name string, value float64) engine.Code {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	return engine.Code(C.GRBsetdblattr(cmodel(m), cName, C.double(value)))
}

// GetDblAttrArray implements engine.Engine.
func (Engine) GetDblAttrArray(m engine.ModelHandle, name string, start int32, values []float64) engine.Code {
	if len(values) == 0 {
		return engine.OK
	}
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	return engine.Code(C.GRBgetdblattrarray(cmodel(m), cName, C.int(start), C.int(len(values)),
		(*C.double)(unsafe.Pointer(&values[0]))))
}

// SetDblAttrArray implements engine.Engine.
func (Engine) SetDblAttrArray(m engine.ModelHandle, name string, start int32, values []float64) engine.Code {
	if len(values) == 0 {
		return engine.OK
	}
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	return engine.Code(C.GRBsetdblattrarray(cmodel(m), cName, C.int(start), C.int(len(values)),
		(*C.double)(unsafe.Pointer(&values[0]))))
}

// GetDblAttrElement implements engine.Engine.
func (Engine) GetDblAttrElement(m engine.ModelHandle, name string, element int32) (float64, engine.Code) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var v C.double
	code := C.GRBgetdblattrelement(cmodel(m), cName, C.int(element), &v)
	return float64(v), engine.Code(code)
}

// SetDblAttrElement implements engine.Engine.
func (Engine) SetDblAttrElement(m engine.ModelHandle, name string, element int32, value float64) engine.Code {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	return engine.Code(C.GRBsetdblattrelement(cmodel(m), cName, C.int(element), C.double(value)))
}

// SetIntParam implements engine.Engine.
func (Engine) SetIntParam(env engine.EnvHandle, name string, value int32) engine.Code {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	return engine.Code(C.GRBsetintparam(cenv(env), cName, C.int(value)))
}

// SetDblParam implements engine.Engine.
func (Engine) SetDblParam(env engine.EnvHandle, name string, value float64) engine.Code {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	return engine.Code(C.GRBsetdblparam(cenv(env), cName, C.double(value)))
}

// SetStrParam implements engine.Engine.
func (Engine) SetStrParam(env engine.EnvHandle, name string, value string) engine.Code {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	cVal := C.CString(value)
	defer C.free(unsafe.Pointer(cVal))

	return engine.Code(C.GRBsetstrparam(cenv(env), cName, cVal))
}

// ParamType implements engine.Engine.
func (Engine) ParamType(env engine.EnvHandle, name string) engine.ParamType {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	switch t := engine.ParamType(C.GRBgetparamtype(cenv(env), cName)); t {
	case engine.ParamInt, engine.ParamFloat, engine.ParamString:
		return t
	default:
		return engine.ParamUnknown
	}
}

// UpdateModel implements engine.Engine.
func (Engine) UpdateModel(m engine.ModelHandle) engine.Code {
	return engine.Code(C.GRBupdatemodel(cmodel(m)))
}

// Optimize implements engine.Engine.
func (Engine) Optimize(m engine.ModelHandle) engine.Code {
	return engine.Code(C.GRBoptimize(cmodel(m)))
}

// Write implements engine.Engine.
func (Engine) Write(m engine.ModelHandle, path string) engine.Code {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	return engine.Code(C.GRBwrite(cmodel(m), cPath))
}

// FreeModel implements engine.Engine.
func (Engine) FreeModel(m engine.ModelHandle) {
	C.GRBfreemodel(cmodel(m))
}

// FreeEnv implements engine.Engine.
func (Engine) FreeEnv(env engine.EnvHandle) {
	C.GRBfreeenv(cenv(env))
}
