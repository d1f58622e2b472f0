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

package enginetest

import (
	"math"
	"time"

	log "github.com/golang/glog"
	"github.com/grbkit/grb/engine"
)

// feasTol is the absolute tolerance used for constraint checks and objective comparisons.
const feasTol = 1e-9

// maxExactInt is the largest magnitude at which every integer is a float64.
const maxExactInt = 1 << 53

// domain returns the values `v` may take, in descending order.
func (e *Engine) domain(m *model, i int, v variable) ([]float64, engine.Code) {
	lb, ub := v.lb, v.ub
	switch v.vtype {
	case engine.Binary:
		lb, ub = math.Max(lb, 0), math.Min(ub, 1)
	case engine.Continuous, engine.SemiContinuous:
		if lb != ub {
			return nil, m.env.fail(engine.ErrorNotSupported, "variable %d: continuous ranges are not supported", i)
		}
		if v.vtype == engine.SemiContinuous && lb != 0 {
			return []float64{lb, 0}, engine.OK
		}
		return []float64{lb}, engine.OK
	}
	if math.Abs(lb) > maxExactInt || math.Abs(ub) > maxExactInt {
		return nil, m.env.fail(engine.ErrorNotSupported, "variable %d: unbounded integer variables are not supported", i)
	}
	d := newIntDomain(boundsInterval(lb, ub))
	if v.vtype == engine.SemiInteger {
		d = newIntDomain(append(d.intervals, interval{0, 0})...)
	}
	if d.size() > int64(e.MaxAssignments) {
		return nil, m.env.fail(engine.ErrorSizeLimitExceeded, "variable %d: domain too large", i)
	}
	return d.descending(), engine.OK
}

func feasible(cons []constr, x []float64) bool {
	for _, c := range cons {
		lhs := 0.0
		for k, i := range c.ind {
			lhs += c.val[k] * x[i]
		}
		switch c.sense {
		case engine.LessEqual:
			if lhs > c.rhs+feasTol {
				return false
			}
		case engine.GreaterEqual:
			if lhs < c.rhs-feasTol {
				return false
			}
		case engine.Equal:
			if math.Abs(lhs-c.rhs) > feasTol {
				return false
			}
		}
	}
	return true
}

func objective(vars []variable, x []float64) float64 {
	obj := 0.0
	for i, v := range vars {
		obj += v.obj * x[i]
	}
	return obj
}

// solve enumerates all assignments and records the best feasible one on `m`.
func (e *Engine) solve(m *model) engine.Code {
	begin := time.Now()
	defer func() { m.runtime = time.Since(begin).Seconds() }()
	m.invalidate()

	n := len(m.vars)
	domains := make([][]float64, n)
	total := 1
	for i, v := range m.vars {
		d, code := e.domain(m, i, v)
		if code != engine.OK {
			return code
		}
		if len(d) == 0 {
			m.status = statusInfeasible
			return engine.OK
		}
		domains[i] = d
		total *= len(d)
		if total > e.MaxAssignments {
			return m.env.fail(engine.ErrorSizeLimitExceeded, "model has more than %d assignments", e.MaxAssignments)
		}
	}

	var deadline time.Time
	limit, _ := m.env.params[engine.ParamTimeLimit].(float64)
	// Limits beyond what a time.Duration can hold never expire.
	hasDeadline := limit < float64(math.MaxInt64/int64(time.Second))
	if hasDeadline {
		deadline = begin.Add(time.Duration(limit * float64(time.Second)))
	}

	x := make([]float64, n)
	pos := make([]int, n)
	for i := range x {
		x[i] = domains[i][0]
	}
	var best []float64
	found := false
	bestObj := 0.0
	timedOut := false
	for {
		if hasDeadline && !time.Now().Before(deadline) {
			timedOut = true
			break
		}
		if feasible(m.cons, x) {
			obj := objective(m.vars, x)
			if !found || float64(m.sense)*(obj-bestObj) < -feasTol {
				best = append(best[:0], x...)
				bestObj = obj
				found = true
			}
		}
		k := n - 1
		for ; k >= 0; k-- {
			pos[k]++
			if pos[k] < len(domains[k]) {
				x[k] = domains[k][pos[k]]
				break
			}
			pos[k] = 0
			x[k] = domains[k][0]
		}
		if k < 0 {
			break
		}
	}

	switch {
	case found:
		m.solved = true
		m.x = append([]float64{}, best...)
		m.objVal = bestObj
		m.solCount = 1
		m.status = statusOptimal
	default:
		m.status = statusInfeasible
	}
	if timedOut {
		m.status = statusTimeLimit
	}
	log.V(1).Infof("enginetest: model %d: status %d after %d assignments", m.id, m.status, total)
	return engine.OK
}
