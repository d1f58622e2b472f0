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

package gurobi_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/grbkit/grb/engine"
	_ "github.com/grbkit/grb/engine/gurobi"
	"github.com/grbkit/grb/grbmodel"
)

func newEnv(t *testing.T) *grbmodel.Env {
	t.Helper()
	env, err := grbmodel.NewEnv()
	if err != nil {
		t.Skipf("Gurobi environment unavailable: %v", err)
	}
	t.Cleanup(env.Close)
	if err := env.SetOutput(false); err != nil {
		t.Fatalf("SetOutput() returned with unexpected error %v", err)
	}
	return env
}

func TestGurobi_RoundTrip(t *testing.T) {
	env := newEnv(t)
	m, err := grbmodel.NewModel(env, "mip1")
	if err != nil {
		t.Fatalf("NewModel() returned with unexpected error %v", err)
	}
	defer m.Close()

	var vars []grbmodel.VarIndex
	for i := 0; i < 3; i++ {
		v, err := m.AddVar(1, grbmodel.Binary)
		if err != nil {
			t.Fatalf("AddVar() returned with unexpected error %v", err)
		}
		vars = append(vars, v)
	}
	if _, err := m.AddCon(grbmodel.NewConstraint().WeightedSum(vars, []float64{1, 2, 3}).IsLessThan(4)); err != nil {
		t.Fatalf("AddCon() returned with unexpected error %v", err)
	}
	if _, err := m.AddCon(grbmodel.NewConstraint().Sum(vars[0], vars[1]).IsGreaterThan(1)); err != nil {
		t.Fatalf("AddCon() returned with unexpected error %v", err)
	}
	if err := m.SetObjectiveType(grbmodel.Maximize); err != nil {
		t.Fatalf("SetObjectiveType() returned with unexpected error %v", err)
	}

	sol, err := m.Optimize()
	if err != nil {
		t.Fatalf("Optimize() returned with unexpected error %v", err)
	}
	obj, err := sol.Value()
	if err != nil {
		t.Fatalf("Value() returned with unexpected error %v", err)
	}
	if obj != 2 {
		t.Errorf("Value() = %v, want 2", obj)
	}
	got, err := sol.Variables(vars[0], vars[2])
	if err != nil {
		t.Fatalf("Variables() returned with unexpected error %v", err)
	}
	if diff := cmp.Diff([]float64{1, 1, 0}, got); diff != "" {
		t.Errorf("Variables() returned with unexpected diff (-want+got):\n%s", diff)
	}
}

func TestGurobi_Errors(t *testing.T) {
	env := newEnv(t)
	if err := env.SetThreads(-5); !errors.Is(err, grbmodel.ErrValueOutOfRange) {
		t.Errorf("SetThreads(-5) = %v, want %v", err, grbmodel.ErrValueOutOfRange)
	}
	if err := env.SetIntParam("NoSuchParameter", 1); !errors.Is(err, grbmodel.ErrUnknownParameter) {
		t.Errorf("SetIntParam(unknown) = %v, want %v", err, grbmodel.ErrUnknownParameter)
	}
	if got := engine.Default(); got == nil {
		t.Errorf("Default() = nil, want the linked engine")
	}

	m, err := grbmodel.NewModel(env, "empty")
	if err != nil {
		t.Fatalf("NewModel() returned with unexpected error %v", err)
	}
	defer m.Close()
	sol, err := m.Optimize()
	if err != nil {
		t.Fatalf("Optimize() returned with unexpected error %v", err)
	}
	v, err := m.AddVar(0, grbmodel.Binary)
	if err != nil {
		t.Fatalf("AddVar() returned with unexpected error %v", err)
	}
	if _, err := sol.Variable(v); !errors.Is(err, grbmodel.ErrStaleSolution) {
		t.Errorf("Variable() on stale solution = %v, want %v", err, grbmodel.ErrStaleSolution)
	}
}
