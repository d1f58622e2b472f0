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

// The time_limit command is an example of setting a time limit on the model.
package main

import (
	"fmt"
	"time"

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

func solveWithTimeLimit() error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("failed to load the environment: %w", err)
	}
	defer env.Close()

	// Sets a time limit of 10 seconds for every model created from env.
	if err := env.SetTimeLimit(10 * time.Second); err != nil {
		return err
	}

	model, err := grbmodel.NewModel(env, "time_limit")
	if err != nil {
		return fmt.Errorf("failed to create the model: %w", err)
	}
	defer model.Close()

	var vars []grbmodel.VarIndex
	for _, name := range []string{"x", "y", "z"} {
		v, err := model.AddNamedVar(name, 1, grbmodel.Integer(0, 2))
		if err != nil {
			return err
		}
		vars = append(vars, v)
	}
	x, y, z := vars[0], vars[1], vars[2]
	if _, err := model.AddCon(grbmodel.NewConstraint().Sum(x, y).IsLessThan(3)); err != nil {
		return err
	}

	// Solve.
	sol, err := model.Optimize()
	if err != nil {
		return fmt.Errorf("failed to solve the model: %w", err)
	}

	fmt.Printf("Status: %v\n", sol.Status())

	if sol.IsOptimal() {
		for _, v := range []grbmodel.VarIndex{x, y, z} {
			val, err := sol.Variable(v)
			if err != nil {
				return err
			}
			fmt.Printf(" %v = %v\n", v, val)
		}
	}
	if rt, err := sol.Runtime(); err == nil {
		fmt.Printf("Runtime: %v\n", rt)
	}

	return nil
}

func main() {
	if err := solveWithTimeLimit(); err != nil {
		log.Exitf("solveWithTimeLimit returned with error: %v", err)
	}
}
