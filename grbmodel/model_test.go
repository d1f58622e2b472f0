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
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	log "github.com/golang/glog"
	"github.com/grbkit/grb/engine"
	"github.com/grbkit/grb/engine/enginetest"
)

func Example() {
	env, err := NewEnv(WithEngine(enginetest.New()))
	if err != nil {
		log.Fatalf("NewEnv returned with error %v", err)
	}
	defer env.Close()

	model, err := NewModel(env, "mip1")
	if err != nil {
		log.Fatalf("NewModel returned with error %v", err)
	}
	defer model.Close()

	x, _ := model.AddVar(1, Binary)
	y, _ := model.AddVar(1, Binary)
	z, _ := model.AddVar(1, Binary)

	if _, err := model.AddCon(NewConstraint().WeightedSum([]VarIndex{x, y, z}, []float64{1, 2, 3}).IsLessThan(4)); err != nil {
		log.Fatalf("AddCon returned with error %v", err)
	}
	if _, err := model.AddCon(NewConstraint().Sum(x, y).IsGreaterThan(1)); err != nil {
		log.Fatalf("AddCon returned with error %v", err)
	}
	if err := model.SetObjectiveType(Maximize); err != nil {
		log.Fatalf("SetObjectiveType returned with error %v", err)
	}

	sol, err := model.Optimize()
	if err != nil {
		log.Fatalf("Optimize returned with error %v", err)
	}
	obj, err := sol.Value()
	if err != nil {
		log.Fatalf("Value returned with error %v", err)
	}
	vals, err := sol.Variables(x, z)
	if err != nil {
		log.Fatalf("Variables returned with error %v", err)
	}

	fmt.Println("Status:", sol.Status())
	fmt.Println("Objective:", obj)
	fmt.Println("Values:", vals)
	// Output:
	// Status: Optimal
	// Objective: 2
	// Values: [1 1 0]
}

func newTestEnv(t *testing.T) (*enginetest.Engine, *Env) {
	t.Helper()
	eng := enginetest.New()
	env, err := NewEnv(WithEngine(eng))
	if err != nil {
		t.Fatalf("NewEnv() returned with unexpected error %v", err)
	}
	t.Cleanup(env.Close)
	return eng, env
}

func newTestModel(t *testing.T) (*enginetest.Engine, *Model) {
	t.Helper()
	eng, env := newTestEnv(t)
	m, err := NewModel(env, "test")
	if err != nil {
		t.Fatalf("NewModel() returned with unexpected error %v", err)
	}
	return eng, m
}

func mustVars(t *testing.T, m *Model, n int, vtype VariableType) []VarIndex {
	t.Helper()
	var vars []VarIndex
	for i := 0; i < n; i++ {
		v, err := m.AddVar(1, vtype)
		if err != nil {
			t.Fatalf("AddVar() returned with unexpected error %v", err)
		}
		vars = append(vars, v)
	}
	return vars
}

// buildMIP1 creates: maximize x + y + z s.t. x + 2y + 3z <= 4, x + y >= 1, binary x, y, z.
func buildMIP1(t *testing.T, m *Model) (x, y, z VarIndex) {
	t.Helper()
	var err error
	if x, err = m.AddNamedVar("x", 1, Binary); err != nil {
		t.Fatalf("AddNamedVar() returned with unexpected error %v", err)
	}
	if y, err = m.AddNamedVar("y", 1, Binary); err != nil {
		t.Fatalf("AddNamedVar() returned with unexpected error %v", err)
	}
	if z, err = m.AddNamedVar("z", 1, Binary); err != nil {
		t.Fatalf("AddNamedVar() returned with unexpected error %v", err)
	}
	c0 := NewConstraint().WeightedSum([]VarIndex{x, y, z}, []float64{1, 2, 3}).IsLessThan(4).WithName("c0")
	if _, err := m.AddCon(c0); err != nil {
		t.Fatalf("AddCon() returned with unexpected error %v", err)
	}
	if _, err := m.AddCon(NewConstraint().Sum(x, y).IsGreaterThan(1).WithName("c1")); err != nil {
		t.Fatalf("AddCon() returned with unexpected error %v", err)
	}
	if err := m.SetObjectiveType(Maximize); err != nil {
		t.Fatalf("SetObjectiveType() returned with unexpected error %v", err)
	}
	return x, y, z
}

func TestModel_RoundTrip(t *testing.T) {
	_, m := newTestModel(t)
	x, _, z := buildMIP1(t, m)

	sol, err := m.Optimize()
	if err != nil {
		t.Fatalf("Optimize() returned with unexpected error %v", err)
	}
	if got, want := sol.Status(), StatusOptimal; got != want {
		t.Errorf("Status() = %v, want %v", got, want)
	}
	if !sol.HasSolution() {
		t.Errorf("HasSolution() = false, want true")
	}
	obj, err := sol.Value()
	if err != nil {
		t.Fatalf("Value() returned with unexpected error %v", err)
	}
	if obj != 2.0 {
		t.Errorf("Value() = %v, want 2", obj)
	}
	got, err := sol.Variables(x, z)
	if err != nil {
		t.Fatalf("Variables() returned with unexpected error %v", err)
	}
	if diff := cmp.Diff([]float64{1, 1, 0}, got); diff != "" {
		t.Errorf("Variables() returned with unexpected diff (-want+got):\n%s", diff)
	}
	if v, err := sol.Variable(z); err != nil || v != 0 {
		t.Errorf("Variable(z) = %v, %v, want 0, nil", v, err)
	}
	if _, err := sol.Runtime(); err != nil {
		t.Errorf("Runtime() returned with unexpected error %v", err)
	}
}

func TestModel_SequentialIndices(t *testing.T) {
	_, m := newTestModel(t)
	vars := mustVars(t, m, 3, Binary)
	for i, v := range vars {
		if got := v.Index(); got != i {
			t.Errorf("vars[%d].Index() = %v, want %v", i, got, i)
		}
	}
	for i := 0; i < 2; i++ {
		c, err := m.AddCon(NewConstraint().Sum(vars...).IsLessThan(2))
		if err != nil {
			t.Fatalf("AddCon() returned with unexpected error %v", err)
		}
		if got := c.Index(); got != i {
			t.Errorf("AddCon() index = %v, want %v", got, i)
		}
	}
	if got, want := m.NumVars(), 3; got != want {
		t.Errorf("NumVars() = %v, want %v", got, want)
	}
	if got, want := m.NumConstraints(), 2; got != want {
		t.Errorf("NumConstraints() = %v, want %v", got, want)
	}
}

func TestModel_AddVarErrors(t *testing.T) {
	eng, m := newTestModel(t)

	before := eng.TotalCalls()
	if _, err := m.AddVar(0, VariableType{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("AddVar(zero type) = %v, want %v", err, ErrInvalidArgument)
	}
	if got := eng.TotalCalls(); got != before {
		t.Errorf("TotalCalls() = %v after rejected AddVar, want %v", got, before)
	}

	_, err := m.AddVar(0, Integer(5, 1))
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("AddVar(Integer(5, 1)) = %v, want *Error", err)
	}
	if gerr.Code != engine.ErrorInvalidArgument || gerr.Msg == "" || gerr.Op != "AddVar" {
		t.Errorf("AddVar(Integer(5, 1)) = %#v, want code %v with a message", gerr, engine.ErrorInvalidArgument)
	}

	v, err := m.AddVar(0, Integer(1, 5))
	if err != nil {
		t.Fatalf("AddVar() returned with unexpected error %v", err)
	}
	if got := v.Index(); got != 0 {
		t.Errorf("Index() after failed AddVar = %v, want 0", got)
	}
}

func TestModel_AddConErrors(t *testing.T) {
	eng, env := newTestEnv(t)
	m1, err := NewModel(env, "m1")
	if err != nil {
		t.Fatalf("NewModel() returned with unexpected error %v", err)
	}
	m2, err := NewModel(env, "m2")
	if err != nil {
		t.Fatalf("NewModel() returned with unexpected error %v", err)
	}
	x1 := mustVars(t, m1, 2, Binary)
	x2 := mustVars(t, m2, 1, Binary)

	for _, test := range []struct {
		name  string
		model *Model
		con   Constraint
		want  error
	}{
		{
			name:  "ForeignVariable",
			model: m2,
			con:   NewConstraint().Sum(x1...).IsLessThan(1),
			want:  ErrMixedModels,
		},
		{
			name:  "MixedBuilder",
			model: m1,
			con:   NewConstraint().Sum(x1[0], x2[0]).IsLessThan(1),
			want:  ErrMixedModels,
		},
		{
			name:  "WeightedSumLengths",
			model: m1,
			con:   NewConstraint().WeightedSum(x1, []float64{1}).Equals(1),
			want:  ErrLengthMismatch,
		},
		{
			name:  "NaNWeight",
			model: m1,
			con:   NewConstraint().Plus(x1[0], math.NaN()).Equals(1),
			want:  ErrInvalidArgument,
		},
		{
			name:  "ZeroConstraint",
			model: m1,
			con:   Constraint{},
			want:  ErrInvalidArgument,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			before := eng.Calls(enginetest.OpAddConstr)
			if _, err := test.model.AddCon(test.con); !errors.Is(err, test.want) {
				t.Errorf("AddCon() = %v, want %v", err, test.want)
			}
			if got := eng.Calls(enginetest.OpAddConstr); got != before {
				t.Errorf("Calls(AddConstr) = %v, want %v", got, before)
			}
		})
	}
}

func TestConstraintBuilder(t *testing.T) {
	x := VarIndex{pos: 0, model: 7}
	y := VarIndex{pos: 1, model: 7}
	z := VarIndex{pos: 2, model: 7}

	for _, test := range []struct {
		name  string
		build func() Constraint
		want  Constraint
	}{
		{
			name:  "Sum",
			build: func() Constraint { return NewConstraint().Sum(x, y).IsGreaterThan(1) },
			want:  Constraint{vars: []VarIndex{x, y}, weights: []float64{1, 1}, sense: GreaterEqual, rhs: 1},
		},
		{
			name: "WeightedSumPlus",
			build: func() Constraint {
				return NewConstraint().WeightedSum([]VarIndex{x, y}, []float64{1, 2}).Plus(z, 3).IsLessThan(4)
			},
			want: Constraint{vars: []VarIndex{x, y, z}, weights: []float64{1, 2, 3}, sense: LessEqual, rhs: 4},
		},
		{
			name:  "Named",
			build: func() Constraint { return NewConstraint().Plus(z, -1).Equals(0).WithName("fix") },
			want:  Constraint{vars: []VarIndex{z}, weights: []float64{-1}, sense: Equal, rhs: 0, name: "fix"},
		},
		{
			name:  "Empty",
			build: func() Constraint { return NewConstraint().Equals(0) },
			want:  Constraint{vars: []VarIndex{}, weights: []float64{}, sense: Equal},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := test.build()
			opts := []cmp.Option{cmp.AllowUnexported(Constraint{}, VarIndex{}), cmpopts.EquateEmpty()}
			if diff := cmp.Diff(test.want, got, opts...); diff != "" {
				t.Errorf("build() returned with unexpected diff (-want+got):\n%s", diff)
			}
		})
	}
}

func TestConstraintBuilder_KeepsFirstError(t *testing.T) {
	x := VarIndex{pos: 0, model: 1}
	other := VarIndex{pos: 0, model: 2}
	c := NewConstraint().WeightedSum([]VarIndex{x}, nil).Sum(x, other).IsLessThan(1)
	if !errors.Is(c.Err(), ErrLengthMismatch) {
		t.Errorf("Err() = %v, want %v", c.Err(), ErrLengthMismatch)
	}
	if errors.Is(c.Err(), ErrMixedModels) {
		t.Errorf("Err() = %v, want only the first error", c.Err())
	}
}

func TestModel_InitialValues(t *testing.T) {
	eng, m := newTestModel(t)
	vars := mustVars(t, m, 3, Binary)

	if err := m.InitialValues(vars, []float64{1, 0, 1}); err != nil {
		t.Fatalf("InitialValues() returned with unexpected error %v", err)
	}
	if got := eng.Calls(enginetest.OpSetDblAttrElement); got != 3 {
		t.Errorf("Calls(SetDblAttrElement) = %v, want 3", got)
	}
	if err := m.Update(); err != nil {
		t.Fatalf("Update() returned with unexpected error %v", err)
	}
	var got []float64
	for _, v := range vars {
		x, err := m.InitialValue(v)
		if err != nil {
			t.Fatalf("InitialValue() returned with unexpected error %v", err)
		}
		got = append(got, x)
	}
	if diff := cmp.Diff([]float64{1, 0, 1}, got); diff != "" {
		t.Errorf("InitialValue() returned with unexpected diff (-want+got):\n%s", diff)
	}
}

func TestModel_InitialValuesLengthMismatch(t *testing.T) {
	eng, m := newTestModel(t)
	vars := mustVars(t, m, 3, Binary)

	before := eng.TotalCalls()
	err := m.InitialValues(vars, []float64{1, 0})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("InitialValues() = %v, want %v", err, ErrLengthMismatch)
	}
	var perr *PartialError
	if !errors.As(err, &perr) || perr.Completed != 0 {
		t.Errorf("InitialValues() = %#v, want *PartialError with 0 completed", err)
	}
	if got := eng.TotalCalls(); got != before {
		t.Errorf("TotalCalls() = %v, want %v", got, before)
	}
}

func TestModel_InitialValuesPartialFailure(t *testing.T) {
	for k := 0; k < 3; k++ {
		t.Run(fmt.Sprintf("FailAt%d", k), func(t *testing.T) {
			eng, m := newTestModel(t)
			vars := mustVars(t, m, 4, Binary)
			eng.FailAfter(enginetest.OpSetDblAttrElement, k, engine.ErrorIndexOutOfRange)

			err := m.InitialValues(vars, []float64{1, 1, 1, 1})
			var perr *PartialError
			if !errors.As(err, &perr) {
				t.Fatalf("InitialValues() = %v, want *PartialError", err)
			}
			if perr.Completed != k {
				t.Errorf("Completed = %v, want %v", perr.Completed, k)
			}
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("InitialValues() = %v, want %v", err, ErrIndexOutOfRange)
			}
			if got, want := eng.Calls(enginetest.OpSetDblAttrElement), k+1; got != want {
				t.Errorf("Calls(SetDblAttrElement) = %v, want %v", got, want)
			}
		})
	}
}

func TestModel_InitialValuesRange(t *testing.T) {
	eng, m := newTestModel(t)
	vars := mustVars(t, m, 3, Binary)

	before := eng.TotalCalls()
	if err := m.InitialValuesRange(vars[0], vars[2], []float64{1, 0}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("InitialValuesRange(2 values) = %v, want %v", err, ErrLengthMismatch)
	}
	if err := m.InitialValuesRange(vars[2], vars[0], []float64{1, 0, 1}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("InitialValuesRange(reversed) = %v, want %v", err, ErrInvalidArgument)
	}
	if err := m.InitialValuesRange(vars[1], vars[0], []float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("InitialValuesRange(empty range, 1 value) = %v, want %v", err, ErrLengthMismatch)
	}
	if got := eng.TotalCalls(); got != before {
		t.Errorf("TotalCalls() = %v after rejected ranges, want %v", got, before)
	}

	if err := m.InitialValuesRange(vars[1], vars[0], nil); err != nil {
		t.Errorf("InitialValuesRange(empty range) returned with unexpected error %v", err)
	}

	if err := m.InitialValuesRange(vars[1], vars[2], []float64{1, 0}); err != nil {
		t.Fatalf("InitialValuesRange() returned with unexpected error %v", err)
	}
	if got := eng.Calls(enginetest.OpSetDblAttrArray); got != 2 {
		t.Errorf("Calls(SetDblAttrArray) = %v, want 2", got)
	}
	if err := m.Update(); err != nil {
		t.Fatalf("Update() returned with unexpected error %v", err)
	}
	if got, err := m.InitialValue(vars[1]); err != nil || got != 1 {
		t.Errorf("InitialValue(vars[1]) = %v, %v, want 1, nil", got, err)
	}
}

func TestModel_InitialValuesForeignVariable(t *testing.T) {
	eng, env := newTestEnv(t)
	m1, _ := NewModel(env, "m1")
	m2, _ := NewModel(env, "m2")
	x1 := mustVars(t, m1, 1, Binary)
	x2 := mustVars(t, m2, 1, Binary)

	before := eng.TotalCalls()
	if err := m1.InitialValues([]VarIndex{x1[0], x2[0]}, []float64{1, 1}); !errors.Is(err, ErrMixedModels) {
		t.Errorf("InitialValues() = %v, want %v", err, ErrMixedModels)
	}
	if err := m1.InitialValuesRange(x1[0], x2[0], []float64{1}); !errors.Is(err, ErrMixedModels) {
		t.Errorf("InitialValuesRange() = %v, want %v", err, ErrMixedModels)
	}
	if got := eng.TotalCalls(); got != before {
		t.Errorf("TotalCalls() = %v, want %v", got, before)
	}
}

func TestModel_Infeasible(t *testing.T) {
	_, m := newTestModel(t)
	vars := mustVars(t, m, 2, Binary)
	if _, err := m.AddCon(NewConstraint().Sum(vars...).IsGreaterThan(3)); err != nil {
		t.Fatalf("AddCon() returned with unexpected error %v", err)
	}
	sol, err := m.Optimize()
	if err != nil {
		t.Fatalf("Optimize() returned with unexpected error %v", err)
	}
	if got := sol.Status(); got != StatusInfeasible || !got.IsInfeasible() {
		t.Errorf("Status() = %v, want %v", got, StatusInfeasible)
	}
	if sol.HasSolution() {
		t.Errorf("HasSolution() = true, want false")
	}
	if _, err := sol.Value(); !errors.Is(err, ErrDataNotAvailable) {
		t.Errorf("Value() = %v, want %v", err, ErrDataNotAvailable)
	}
}

func TestModel_EmptyModel(t *testing.T) {
	for _, test := range []struct {
		name       string
		cons       []Constraint
		wantStatus Status
	}{
		{name: "NoConstraints", wantStatus: StatusOptimal},
		{name: "ConstantHolds", cons: []Constraint{NewConstraint().IsLessThan(4)}, wantStatus: StatusOptimal},
		{name: "ConstantFails", cons: []Constraint{NewConstraint().IsGreaterThan(1)}, wantStatus: StatusInfeasible},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, m := newTestModel(t)
			for _, c := range test.cons {
				if _, err := m.AddCon(c); err != nil {
					t.Fatalf("AddCon(%v) returned with unexpected error %v", c, err)
				}
			}
			sol, err := m.Optimize()
			if err != nil {
				t.Fatalf("Optimize() returned with unexpected error %v", err)
			}
			if got := sol.Status(); got != test.wantStatus {
				t.Errorf("Status() = %v, want %v", got, test.wantStatus)
			}
			if test.wantStatus != StatusOptimal {
				return
			}
			if got, err := sol.Value(); err != nil || got != 0 {
				t.Errorf("Value() = %v, %v, want 0, nil", got, err)
			}
		})
	}
}

func TestModel_TimeLimit(t *testing.T) {
	for _, test := range []struct {
		name    string
		onEnv   bool
		onModel bool
	}{
		{name: "Env", onEnv: true},
		{name: "Model", onModel: true},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, env := newTestEnv(t)
			if test.onEnv {
				if err := env.SetTimeLimit(0); err != nil {
					t.Fatalf("Env.SetTimeLimit() returned with unexpected error %v", err)
				}
			}
			m, err := NewModel(env, "limited")
			if err != nil {
				t.Fatalf("NewModel() returned with unexpected error %v", err)
			}
			if test.onModel {
				if err := m.SetTimeLimit(0); err != nil {
					t.Fatalf("Model.SetTimeLimit() returned with unexpected error %v", err)
				}
			}
			buildMIP1(t, m)
			sol, err := m.Optimize()
			if err != nil {
				t.Fatalf("Optimize() returned with unexpected error %v", err)
			}
			if got := sol.Status(); got != StatusTimeLimit || !got.IsLimit() {
				t.Errorf("Status() = %v, want %v", got, StatusTimeLimit)
			}
			if sol.HasSolution() {
				t.Errorf("HasSolution() = true, want false")
			}
		})
	}
}

func TestSolution_Stale(t *testing.T) {
	_, m := newTestModel(t)
	x, _, _ := buildMIP1(t, m)

	first, err := m.Optimize()
	if err != nil {
		t.Fatalf("Optimize() returned with unexpected error %v", err)
	}
	second, err := m.Optimize()
	if err != nil {
		t.Fatalf("Optimize() returned with unexpected error %v", err)
	}
	if _, err := first.Value(); !errors.Is(err, ErrStaleSolution) {
		t.Errorf("first.Value() = %v, want %v", err, ErrStaleSolution)
	}
	if _, err := second.Value(); err != nil {
		t.Errorf("second.Value() returned with unexpected error %v", err)
	}

	if _, err := m.AddVar(0, Binary); err != nil {
		t.Fatalf("AddVar() returned with unexpected error %v", err)
	}
	if _, err := second.Variable(x); !errors.Is(err, ErrStaleSolution) {
		t.Errorf("Variable() after AddVar = %v, want %v", err, ErrStaleSolution)
	}

	third, err := m.Optimize()
	if err != nil {
		t.Fatalf("Optimize() returned with unexpected error %v", err)
	}
	m.Close()
	if _, err := third.Value(); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Value() after Close = %v, want %v", err, ErrInvalidHandle)
	}
}

func TestSolution_ForeignVariable(t *testing.T) {
	_, env := newTestEnv(t)
	m1, _ := NewModel(env, "m1")
	m2, _ := NewModel(env, "m2")
	buildMIP1(t, m1)
	y := mustVars(t, m2, 1, Binary)[0]

	sol, err := m1.Optimize()
	if err != nil {
		t.Fatalf("Optimize() returned with unexpected error %v", err)
	}
	if _, err := sol.Variable(y); !errors.Is(err, ErrMixedModels) {
		t.Errorf("Variable() = %v, want %v", err, ErrMixedModels)
	}
}

func TestLifecycle(t *testing.T) {
	for _, test := range []struct {
		name  string
		close func(env *Env, m *Model)
	}{
		{
			name:  "ModelThenEnv",
			close: func(env *Env, m *Model) { m.Close(); env.Close() },
		},
		{
			name:  "EnvOnly",
			close: func(env *Env, _ *Model) { env.Close() },
		},
		{
			name:  "EnvThenModel",
			close: func(env *Env, m *Model) { env.Close(); m.Close() },
		},
		{
			name:  "Repeated",
			close: func(env *Env, m *Model) { m.Close(); m.Close(); env.Close(); env.Close() },
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			eng := enginetest.New()
			env, err := NewEnv(WithEngine(eng))
			if err != nil {
				t.Fatalf("NewEnv() returned with unexpected error %v", err)
			}
			m, err := NewModel(env, "lifecycle")
			if err != nil {
				t.Fatalf("NewModel() returned with unexpected error %v", err)
			}
			mustVars(t, m, 2, Binary)

			test.close(env, m)

			if got := eng.DoubleFrees(); got != 0 {
				t.Errorf("DoubleFrees() = %v, want 0", got)
			}
			if got := eng.OutOfOrderFrees(); got != 0 {
				t.Errorf("OutOfOrderFrees() = %v, want 0", got)
			}
			if got := eng.LiveEnvs() + eng.LiveModels(); got != 0 {
				t.Errorf("live handles = %v, want 0", got)
			}
			if _, err := m.AddVar(0, Binary); !errors.Is(err, ErrInvalidHandle) {
				t.Errorf("AddVar() after close = %v, want %v", err, ErrInvalidHandle)
			}
			if err := env.SetThreads(1); !errors.Is(err, ErrInvalidHandle) {
				t.Errorf("SetThreads() after close = %v, want %v", err, ErrInvalidHandle)
			}
			if _, err := NewModel(env, "late"); !errors.Is(err, ErrInvalidHandle) {
				t.Errorf("NewModel() after close = %v, want %v", err, ErrInvalidHandle)
			}
		})
	}
}

func TestNewEnv_Errors(t *testing.T) {
	if engine.Default() == nil {
		if _, err := NewEnv(); !errors.Is(err, ErrNoEngine) {
			t.Errorf("NewEnv() = %v, want %v", err, ErrNoEngine)
		}
	}

	eng := enginetest.New()
	eng.FailAfter(enginetest.OpLoadEnv, 0, engine.ErrorNoLicense)
	if _, err := NewEnv(WithEngine(eng)); !errors.Is(err, ErrNoLicense) {
		t.Errorf("NewEnv() = %v, want %v", err, ErrNoLicense)
	}
	if got := eng.LiveEnvs(); got != 0 {
		t.Errorf("LiveEnvs() after failed NewEnv = %v, want 0", got)
	}

	if _, err := NewModel(nil, "orphan"); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("NewModel(nil) = %v, want %v", err, ErrInvalidHandle)
	}
}

func TestEnv_SetThreads(t *testing.T) {
	eng := enginetest.New()
	var envs []*Env
	for i := 0; i < 2; i++ {
		env, err := NewEnv(WithEngine(eng))
		if err != nil {
			t.Fatalf("NewEnv() returned with unexpected error %v", err)
		}
		defer env.Close()
		envs = append(envs, env)
	}
	if err := envs[1].SetThreads(3); err != nil {
		t.Fatalf("SetThreads() before any model returned with unexpected error %v", err)
	}
	other, err := NewModel(envs[1], "other")
	if err != nil {
		t.Fatalf("NewModel() returned with unexpected error %v", err)
	}
	otherVars := mustVars(t, other, 3, Binary)
	if err := envs[0].SetThreads(2); err != nil {
		t.Fatalf("SetThreads() before any model returned with unexpected error %v", err)
	}
	for i, v := range otherVars {
		if got := v.Index(); got != i {
			t.Errorf("otherVars[%d].Index() = %v after SetThreads on another env, want %v", i, got, i)
		}
	}
	if got := other.NumVars(); got != len(otherVars) {
		t.Errorf("NumVars() = %v after SetThreads on another env, want %v", got, len(otherVars))
	}
	if v, err := other.AddVar(0, Binary); err != nil || v.Index() != len(otherVars) {
		t.Errorf("AddVar() = %v, %v, want index %v", v.Index(), err, len(otherVars))
	}
	for i, env := range envs {
		if got, _ := eng.Param(env.handle, engine.ParamThreads); got != int32(i+2) {
			t.Errorf("env %d: Threads = %v, want %v", i, got, i+2)
		}
	}

	m, err := NewModel(envs[0], "threads")
	if err != nil {
		t.Fatalf("NewModel() returned with unexpected error %v", err)
	}
	if got, _ := eng.Param(m.errEnv, engine.ParamThreads); got != int32(2) {
		t.Errorf("model Threads = %v, want 2", got)
	}

	if err := envs[0].SetThreads(-1); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("SetThreads(-1) = %v, want %v", err, ErrValueOutOfRange)
	}
	if err := envs[0].SetIntParam(engine.ParamThreads, 1<<40); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetIntParam(1<<40) = %v, want %v", err, ErrInvalidArgument)
	}
	if err := envs[0].SetFloatParam(engine.ParamThreads, 2); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("SetFloatParam(Threads) = %v, want %v", err, ErrUnknownParameter)
	}
}

func TestModel_ErrorMessages(t *testing.T) {
	eng, m := newTestModel(t)

	err := m.Write("")
	var gerr *Error
	if !errors.As(err, &gerr) || gerr.Msg == "" {
		t.Errorf("Write(\"\") = %v, want *Error with a message", err)
	}
	if errors.Is(err, ErrNoErrorMessage) {
		t.Errorf("Write(\"\") = %v, want an engine message", err)
	}

	eng.DropErrorText(true)
	err = m.Write("")
	if !errors.Is(err, ErrNoErrorMessage) {
		t.Errorf("Write(\"\") without error text = %v, want %v", err, ErrNoErrorMessage)
	}
	if !errors.As(err, &gerr) || gerr.Code != engine.ErrorNullArgument {
		t.Errorf("Write(\"\") without error text = %v, want code %v", err, engine.ErrorNullArgument)
	}
}

func TestError_Is(t *testing.T) {
	for _, test := range []struct {
		code   engine.Code
		target error
		want   bool
	}{
		{engine.ErrorDataNotAvailable, ErrDataNotAvailable, true},
		{engine.ErrorIndexOutOfRange, ErrIndexOutOfRange, true},
		{engine.ErrorNoLicense, ErrNoLicense, true},
		{engine.ErrorValueOutOfRange, ErrUnknownParameter, false},
		{engine.ErrorOutOfMemory, ErrNoErrorMessage, false},
	} {
		err := error(&Error{Op: "Op", Code: test.code, Msg: "msg"})
		if got := errors.Is(err, test.target); got != test.want {
			t.Errorf("errors.Is(code %d, %v) = %v, want %v", test.code, test.target, got, test.want)
		}
	}
}

func TestModel_Write(t *testing.T) {
	_, m := newTestModel(t)
	buildMIP1(t, m)

	path := filepath.Join(t.TempDir(), "mip1.lp")
	if err := m.Write(path); err != nil {
		t.Fatalf("Write() returned with unexpected error %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() returned with unexpected error %v", err)
	}
	want := `\ Model test
Maximize
 x + y + z
Subject To
 c0: x + 2 y + 3 z <= 4
 c1: x + y >= 1
Bounds
Binaries
 x y z
End
`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("Write() returned with unexpected diff (-want+got):\n%s", diff)
	}

	if err := m.Write(filepath.Join(t.TempDir(), "mip1.xyz")); !errors.Is(err, ErrFileWrite) {
		t.Errorf("Write(.xyz) = %v, want %v", err, ErrFileWrite)
	}
}

func TestModel_ObjectiveType(t *testing.T) {
	_, m := newTestModel(t)
	if got, err := m.ObjectiveType(); err != nil || got != Minimize {
		t.Errorf("ObjectiveType() = %v, %v, want %v, nil", got, err, Minimize)
	}
	if err := m.SetObjectiveType(Maximize); err != nil {
		t.Fatalf("SetObjectiveType() returned with unexpected error %v", err)
	}
	if got, err := m.ObjectiveType(); err != nil || got != Maximize {
		t.Errorf("ObjectiveType() = %v, %v, want %v, nil", got, err, Maximize)
	}
	if err := m.SetObjectiveType(ObjectiveType(3)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetObjectiveType(3) = %v, want %v", err, ErrInvalidArgument)
	}
}

func TestModel_NonBinaryTypes(t *testing.T) {
	_, m := newTestModel(t)
	// minimize 3a - b with a integer in [1, 3], b semi-integer in {0} or [2, 4], a + b <= 5.
	a, err := m.AddVar(3, Integer(1, 3))
	if err != nil {
		t.Fatalf("AddVar() returned with unexpected error %v", err)
	}
	b, err := m.AddVar(-1, SemiInteger(2, 4))
	if err != nil {
		t.Fatalf("AddVar() returned with unexpected error %v", err)
	}
	c, err := m.AddVar(0, Continuous(0.5, 0.5))
	if err != nil {
		t.Fatalf("AddVar() returned with unexpected error %v", err)
	}
	if _, err := m.AddCon(NewConstraint().Sum(a, b, c).IsLessThan(5)); err != nil {
		t.Fatalf("AddCon() returned with unexpected error %v", err)
	}
	sol, err := m.Optimize()
	if err != nil {
		t.Fatalf("Optimize() returned with unexpected error %v", err)
	}
	got, err := sol.Variables(a, c)
	if err != nil {
		t.Fatalf("Variables() returned with unexpected error %v", err)
	}
	if diff := cmp.Diff([]float64{1, 3, 0.5}, got); diff != "" {
		t.Errorf("Variables() returned with unexpected diff (-want+got):\n%s", diff)
	}
}

func TestTypes_String(t *testing.T) {
	for _, test := range []struct {
		got  fmt.Stringer
		want string
	}{
		{Binary, "Binary"},
		{Integer(0, 10), "Integer[0, 10]"},
		{SemiContinuous(1, 2.5), "SemiContinuous[1, 2.5]"},
		{VariableType{}, "Invalid"},
		{StatusOptimal, "Optimal"},
		{StatusTimeLimit, "TimeLimit"},
		{Status(99), "Status(99)"},
		{Maximize, "Maximize"},
		{LessEqual, "<="},
		{NewConstraint().Plus(VarIndex{pos: 1}, 2).IsGreaterThan(1), "2 x1 >= 1"},
	} {
		if got := test.got.String(); got != test.want {
			t.Errorf("String() = %q, want %q", got, test.want)
		}
	}
}

func TestSolution_Runtime(t *testing.T) {
	_, m := newTestModel(t)
	buildMIP1(t, m)
	sol, err := m.Optimize()
	if err != nil {
		t.Fatalf("Optimize() returned with unexpected error %v", err)
	}
	d, err := sol.Runtime()
	if err != nil {
		t.Fatalf("Runtime() returned with unexpected error %v", err)
	}
	if d < 0 || d > time.Minute {
		t.Errorf("Runtime() = %v, want a small non-negative duration", d)
	}
}
