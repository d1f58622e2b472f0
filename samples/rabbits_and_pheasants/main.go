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

// The rabbits_and_pheasants command solves the rabbits and pheasants problem: 20 heads and 56
// legs.
package main

import (
	"fmt"

	log "github.com/golang/glog"
	"github.com/grbkit/grb/engine/enginetest"
	"github.com/grbkit/grb/engine/gurobi"
	"github.com/grbkit/grb/grbmodel"
)

const (
	numAnimals = 20
	numLegs    = 56
)

func newEnv() (*grbmodel.Env, error) {
	if !gurobi.Available {
		log.Warning("built without the gurobi tag; solving with the in-memory engine")
		return grbmodel.NewEnv(grbmodel.WithEngine(enginetest.New()))
	}
	return grbmodel.NewEnv()
}

func rabbitsAndPheasants() error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("failed to load the environment: %w", err)
	}
	defer env.Close()

	model, err := grbmodel.NewModel(env, "rabbits_and_pheasants")
	if err != nil {
		return fmt.Errorf("failed to create the model: %w", err)
	}
	defer model.Close()

	allAnimals := grbmodel.Integer(0, numAnimals)
	rabbits, err := model.AddNamedVar("rabbits", 0, allAnimals)
	if err != nil {
		return err
	}
	pheasants, err := model.AddNamedVar("pheasants", 0, allAnimals)
	if err != nil {
		return err
	}

	if _, err := model.AddCon(grbmodel.NewConstraint().Sum(rabbits, pheasants).Equals(numAnimals)); err != nil {
		return err
	}
	if _, err := model.AddCon(grbmodel.NewConstraint().Plus(rabbits, 4).Plus(pheasants, 2).Equals(numLegs)); err != nil {
		return err
	}

	sol, err := model.Optimize()
	if err != nil {
		return fmt.Errorf("failed to solve the model: %w", err)
	}

	switch {
	case sol.HasSolution():
		vals, err := sol.Variables(rabbits, pheasants)
		if err != nil {
			return err
		}
		fmt.Printf("There are %v rabbits and %v pheasants.\n", vals[0], vals[1])
	default:
		fmt.Println("No solution found.")
	}

	return nil
}

func main() {
	if err := rabbitsAndPheasants(); err != nil {
		log.Exitf("rabbitsAndPheasants returned with error: %v", err)
	}
}
