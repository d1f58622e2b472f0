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
	"io"
	"math"
	"os"
	"sort"

	log "github.com/golang/glog"
	"github.com/grbkit/grb/engine"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ApplyParams reads a JSON object of parameter settings and applies them to the environment,
// for example:
//
//	{"Threads": 4, "TimeLimit": 30, "MIPGap": 0.01, "OutputFlag": false}
//
// Each value is converted to the type the engine declares for the parameter: integer
// parameters accept whole numbers and booleans, floating-point parameters accept numbers and
// string parameters accept strings. Parameters are applied in name order and the first
// failure stops the process.
func (env *Env) ApplyParams(r io.Reader) error {
	if err := env.valid(); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("grb: reading parameters: %w", err)
	}
	params := &structpb.Struct{}
	if err := protojson.Unmarshal(data, params); err != nil {
		return fmt.Errorf("grb: parsing parameters: %w", err)
	}

	names := make([]string, 0, len(params.GetFields()))
	for name := range params.GetFields() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := env.applyParam(name, params.GetFields()[name]); err != nil {
			return err
		}
	}
	log.V(1).Infof("grb: applied %d parameters", len(names))
	return nil
}

// ApplyParamsFile applies the parameter file at `path`; see ApplyParams.
func (env *Env) ApplyParamsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("grb: %w", err)
	}
	defer f.Close()
	return env.ApplyParams(f)
}

func (env *Env) applyParam(name string, v *structpb.Value) error {
	typ := env.eng.ParamType(env.handle, name)
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		switch typ {
		case engine.ParamInt:
			n := k.NumberValue
			if n != math.Trunc(n) {
				return fmt.Errorf("grb: parameter %q expects an integer, got %v: %w", name, n, ErrInvalidArgument)
			}
			if n < math.MinInt32 || n > math.MaxInt32 {
				return fmt.Errorf("grb: parameter %q: %v does not fit in 32 bits: %w", name, n, ErrInvalidArgument)
			}
			return env.SetIntParam(name, int(n))
		case engine.ParamFloat:
			return env.SetFloatParam(name, k.NumberValue)
		}
	case *structpb.Value_BoolValue:
		if typ == engine.ParamInt {
			v := 0
			if k.BoolValue {
				v = 1
			}
			return env.SetIntParam(name, v)
		}
	case *structpb.Value_StringValue:
		if typ == engine.ParamString {
			return env.SetStringParam(name, k.StringValue)
		}
	}
	if typ == engine.ParamUnknown {
		return fmt.Errorf("grb: unknown parameter %q: %w", name, ErrInvalidArgument)
	}
	return fmt.Errorf("grb: parameter %q: unsupported value %v: %w", name, v.AsInterface(), ErrInvalidArgument)
}
