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

// [START program]
// The simple_mip command is an example of a simple mixed integer program.
package main

import (
	"fmt"

	log "github.com/golang/glog"
	"github.com/grbkit/grb/engine/enginetest"
	"github.com/grbkit/grb/engine/gurobi"
	"github.com/grbkit/grb/grbmodel"
)

func newEnv() (*grbmodel.Env, error) {
	if !gurobi.Available {
		log.Warning("built without the gurobi tag; solving with the in-memory engine")
		return grbmodel.NewEnv(grbmodel.WithEngine(enginetest.New()))
	}
	return grbmodel.NewEnv()
}

func simpleMIP() error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("failed to load the environment: %w", err)
	}
	defer env.Close()

	model, err := grbmodel.NewModel(env, "mip1")
	if err != nil {
		return fmt.Errorf("failed to create the model: %w", err)
	}
	defer model.Close()

	x, err := model.AddNamedVar("x", 1, grbmodel.Binary)
	if err != nil {
		return err
	}
	y, err := model.AddNamedVar("y", 1, grbmodel.Binary)
	if err != nil {
		return err
	}
	z, err := model.AddNamedVar("z", 1, grbmodel.Binary)
	if err != nil {
		return err
	}

	// x + 2y + 3z <= 4
	c0 := grbmodel.NewConstraint().WeightedSum([]grbmodel.VarIndex{x, y, z}, []float64{1, 2, 3}).IsLessThan(4)
	if _, err := model.AddCon(c0.WithName("c0")); err != nil {
		return err
	}
	// x + y >= 1
	if _, err := model.AddCon(grbmodel.NewConstraint().Sum(x, y).IsGreaterThan(1).WithName("c1")); err != nil {
		return err
	}
	if err := model.SetObjectiveType(grbmodel.Maximize); err != nil {
		return err
	}

	sol, err := model.Optimize()
	if err != nil {
		return fmt.Errorf("failed to solve the model: %w", err)
	}

	switch {
	case sol.HasSolution():
		obj, err := sol.Value()
		if err != nil {
			return err
		}
		vals, err := sol.Variables(x, z)
		if err != nil {
			return err
		}
		fmt.Printf("Objective: %v\n", obj)
		fmt.Printf("x = %v\n", vals[0])
		fmt.Printf("y = %v\n", vals[1])
		fmt.Printf("z = %v\n", vals[2])
	default:
		fmt.Printf("No solution found (status %v).\n", sol.Status())
	}

	return nil
}

func main() {
	if err := simpleMIP(); err != nil {
		log.Exitf("simpleMIP returned with error: %v", err)
	}
}

// [END program]
