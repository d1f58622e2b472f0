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
// The warm_start command is an example of giving the solver initial values for the variables.
package main

import (
	"errors"
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

func warmStart() error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("failed to load the environment: %w", err)
	}
	defer env.Close()

	model, err := grbmodel.NewModel(env, "warm_start")
	if err != nil {
		return fmt.Errorf("failed to create the model: %w", err)
	}
	defer model.Close()

	var vars []grbmodel.VarIndex
	for i, name := range []string{"x", "y", "z"} {
		v, err := model.AddNamedVar(name, float64(i+1), grbmodel.Integer(0, 2))
		if err != nil {
			return err
		}
		vars = append(vars, v)
	}
	x, y, z := vars[0], vars[1], vars[2]

	// x > y
	if _, err := model.AddCon(grbmodel.NewConstraint().Plus(x, 1).Plus(y, -1).IsGreaterThan(1)); err != nil {
		return err
	}
	if err := model.SetObjectiveType(grbmodel.Maximize); err != nil {
		return err
	}

	// Initial values: x <- 1, y <- 0, z <- 2. Assignments stop at the first rejected one.
	if err := model.InitialValues([]grbmodel.VarIndex{x, y, z}, []float64{1, 0, 2}); err != nil {
		var perr *grbmodel.PartialError
		if errors.As(err, &perr) {
			log.Warningf("only %d initial values were set: %v", perr.Completed, perr.Err)
		} else {
			return err
		}
	}
	// The same values for the whole range in a single call.
	if err := model.InitialValuesRange(x, z, []float64{1, 0, 2}); err != nil {
		return err
	}

	sol, err := model.Optimize()
	if err != nil {
		return fmt.Errorf("failed to solve the model: %w", err)
	}

	fmt.Printf("Status: %v\n", sol.Status())

	if sol.IsOptimal() {
		vals, err := sol.Variables(x, z)
		if err != nil {
			return err
		}
		fmt.Printf(" x = %v\n", vals[0])
		fmt.Printf(" y = %v\n", vals[1])
		fmt.Printf(" z = %v\n", vals[2])
	}

	return nil
}

func main() {
	if err := warmStart(); err != nil {
		log.Exitf("warmStart returned with error: %v", err)
	}
}

// [END program]
