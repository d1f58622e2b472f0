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

// The grbsolve command builds a small mixed integer program, solves it and prints the result.
//
//	grbsolve -threads=2 -time_limit=30s -params=params.json -write=mip1.lp
//
// Without the gurobi build tag the in-memory test engine is used.
package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/golang/glog"
	"github.com/grbkit/grb/engine/enginetest"
	"github.com/grbkit/grb/engine/gurobi"
	"github.com/grbkit/grb/grbmodel"
)

var (
	threads   = flag.Int("threads", 0, "Number of solver threads; 0 lets the engine decide.")
	timeLimit = flag.Duration("time_limit", 0, "Solve time limit; 0 means no limit.")
	params    = flag.String("params", "", "JSON file of engine parameters, e.g. {\"MIPGap\": 0.01}.")
	write     = flag.String("write", "", "If set, export the model to this file; the extension selects the format.")
	logFile   = flag.String("log_file", "", "If set, the engine appends its log to this file.")
	output    = flag.Bool("output", false, "Whether the engine prints its own log.")
)

func newEnv() (*grbmodel.Env, error) {
	opts := []grbmodel.EnvOption{grbmodel.WithLogFile(*logFile)}
	if !gurobi.Available {
		log.Warning("built without the gurobi tag; solving with the in-memory engine")
		opts = append(opts, grbmodel.WithEngine(enginetest.New()))
	}
	env, err := grbmodel.NewEnv(opts...)
	if err != nil {
		return nil, err
	}
	if err := configure(env); err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

// configure applies the command-line flags, then the parameter file, which takes precedence.
func configure(env *grbmodel.Env) error {
	if err := env.SetOutput(*output); err != nil {
		return err
	}
	if err := env.SetThreads(*threads); err != nil {
		return err
	}
	if *timeLimit > 0 {
		if err := env.SetTimeLimit(*timeLimit); err != nil {
			return err
		}
	}
	if *params != "" {
		if err := env.ApplyParamsFile(*params); err != nil {
			return err
		}
	}
	return nil
}

func solve() error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("failed to set up the environment: %w", err)
	}
	defer env.Close()

	model, err := grbmodel.NewModel(env, "mip1")
	if err != nil {
		return fmt.Errorf("failed to create the model: %w", err)
	}
	defer model.Close()

	var vars []grbmodel.VarIndex
	for _, name := range []string{"x", "y", "z"} {
		v, err := model.AddNamedVar(name, 1, grbmodel.Binary)
		if err != nil {
			return err
		}
		vars = append(vars, v)
	}
	cons := []grbmodel.Constraint{
		grbmodel.NewConstraint().WeightedSum(vars, []float64{1, 2, 3}).IsLessThan(4).WithName("c0"),
		grbmodel.NewConstraint().Sum(vars[0], vars[1]).IsGreaterThan(1).WithName("c1"),
	}
	for _, c := range cons {
		if _, err := model.AddCon(c); err != nil {
			return fmt.Errorf("failed to add constraint %v: %w", c, err)
		}
	}
	if err := model.SetObjectiveType(grbmodel.Maximize); err != nil {
		return err
	}

	if *write != "" {
		if err := model.Write(*write); err != nil {
			return fmt.Errorf("failed to write the model: %w", err)
		}
		log.Infof("wrote model to %s", *write)
	}

	sol, err := model.Optimize()
	if err != nil {
		return fmt.Errorf("failed to solve the model: %w", err)
	}
	fmt.Printf("Status: %v\n", sol.Status())
	if !sol.HasSolution() {
		return nil
	}
	obj, err := sol.Value()
	if err != nil {
		return err
	}
	vals, err := sol.Variables(vars[0], vars[len(vars)-1])
	if err != nil {
		return err
	}
	fmt.Printf("Objective: %v\n", obj)
	for i, v := range vars {
		fmt.Printf("  %v = %v\n", v, vals[i])
	}
	if rt, err := sol.Runtime(); err == nil {
		fmt.Fprintf(os.Stderr, "solved in %v\n", rt)
	}
	return nil
}

func main() {
	flag.Parse()
	if err := solve(); err != nil {
		log.Exitf("grbsolve returned with error: %v", err)
	}
}
