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

// The nqueens command solves the N-queens problem as a binary program.
package main

import (
	"flag"
	"fmt"

	log "github.com/golang/glog"
	"github.com/grbkit/grb/engine/enginetest"
	"github.com/grbkit/grb/engine/gurobi"
	"github.com/grbkit/grb/grbmodel"
)

// The in-memory engine enumerates 2^(n*n) assignments, so keep the default small.
var boardSize = flag.Int("board_size", 4, "Number of rows and columns of the board.")

func newEnv() (*grbmodel.Env, error) {
	if !gurobi.Available {
		log.Warning("built without the gurobi tag; solving with the in-memory engine")
		return grbmodel.NewEnv(grbmodel.WithEngine(enginetest.New()))
	}
	return grbmodel.NewEnv()
}

func nQueens(n int) error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("failed to load the environment: %w", err)
	}
	defer env.Close()

	model, err := grbmodel.NewModel(env, "nqueens")
	if err != nil {
		return fmt.Errorf("failed to create the model: %w", err)
	}
	defer model.Close()

	// queens[r][c] is 1 when a queen stands on row r, column c.
	queens := make([][]grbmodel.VarIndex, n)
	for r := range queens {
		queens[r] = make([]grbmodel.VarIndex, n)
		for c := range queens[r] {
			v, err := model.AddNamedVar(fmt.Sprintf("q_%d_%d", r, c), 0, grbmodel.Binary)
			if err != nil {
				return err
			}
			queens[r][c] = v
		}
	}

	// Exactly one queen per row and per column.
	for i := 0; i < n; i++ {
		row := grbmodel.NewConstraint()
		col := grbmodel.NewConstraint()
		for j := 0; j < n; j++ {
			row.Plus(queens[i][j], 1)
			col.Plus(queens[j][i], 1)
		}
		if _, err := model.AddCon(row.Equals(1).WithName(fmt.Sprintf("row_%d", i))); err != nil {
			return err
		}
		if _, err := model.AddCon(col.Equals(1).WithName(fmt.Sprintf("col_%d", i))); err != nil {
			return err
		}
	}

	// At most one queen per diagonal.
	for d := -(n - 2); d <= n-2; d++ {
		diag1 := grbmodel.NewConstraint()
		diag2 := grbmodel.NewConstraint()
		for r := 0; r < n; r++ {
			if c := r + d; c >= 0 && c < n {
				diag1.Plus(queens[r][c], 1)
			}
			if c := n - 1 - r - d; c >= 0 && c < n {
				diag2.Plus(queens[r][c], 1)
			}
		}
		if _, err := model.AddCon(diag1.IsLessThan(1)); err != nil {
			return err
		}
		if _, err := model.AddCon(diag2.IsLessThan(1)); err != nil {
			return err
		}
	}

	sol, err := model.Optimize()
	if err != nil {
		return fmt.Errorf("failed to solve the model: %w", err)
	}

	fmt.Printf("Status: %v\n", sol.Status())
	if !sol.HasSolution() {
		return nil
	}

	fmt.Printf("Solution:\n")
	for r := 0; r < n; r++ {
		vals, err := sol.Variables(queens[r][0], queens[r][n-1])
		if err != nil {
			return err
		}
		for _, v := range vals {
			if v > 0.5 {
				fmt.Print("Q")
			} else {
				fmt.Print("_")
			}
		}
		fmt.Println()
	}

	return nil
}

func main() {
	flag.Parse()
	if err := nQueens(*boardSize); err != nil {
		log.Exitf("nQueens returned with error: %v", err)
	}
}
