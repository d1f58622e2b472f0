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
	"time"

	"github.com/grbkit/grb/engine"
)

// Solution is a read-only view of the results of one Optimize call. It stays usable until
// the model is modified, optimized again or closed; after that every query returns
// ErrStaleSolution or ErrInvalidHandle.
type Solution struct {
	model      *Model
	generation uint64
	status     Status
}

func (s *Solution) valid() error {
	if err := s.model.valid(); err != nil {
		return err
	}
	if s.generation != s.model.generation {
		return ErrStaleSolution
	}
	return nil
}

// Status returns how the solve terminated.
func (s *Solution) Status() Status {
	return s.status
}

// IsOptimal reports whether the solve proved optimality.
func (s *Solution) IsOptimal() bool {
	return s.status.IsOptimal()
}

// SolCount returns the number of solutions found.
func (s *Solution) SolCount() (int, error) {
	if err := s.valid(); err != nil {
		return 0, err
	}
	n, code := s.model.env.eng.GetIntAttr(s.model.handle, engine.AttrSolCount)
	if err := s.model.check("GetIntAttr", code); err != nil {
		return 0, err
	}
	return int(n), nil
}

// HasSolution reports whether variable values can be read.
func (s *Solution) HasSolution() bool {
	n, err := s.SolCount()
	return err == nil && n > 0
}

// Value returns the objective value of the best solution found.
func (s *Solution) Value() (float64, error) {
	if err := s.valid(); err != nil {
		return 0, err
	}
	v, code := s.model.env.eng.GetDblAttr(s.model.handle, engine.AttrObjVal)
	if err := s.model.check("GetDblAttr", code); err != nil {
		return 0, err
	}
	return v, nil
}

// Variables returns the values of the contiguous variables first..last (inclusive) in the
// best solution found.
func (s *Solution) Variables(first, last VarIndex) ([]float64, error) {
	if err := s.valid(); err != nil {
		return nil, err
	}
	m := s.model
	if err := m.checkVar(first); err != nil {
		return nil, err
	}
	if err := m.checkVar(last); err != nil {
		return nil, err
	}
	if last.pos < first.pos {
		return nil, fmt.Errorf("grb: range %v..%v is reversed: %w", first, last, ErrInvalidArgument)
	}
	vals := make([]float64, last.pos-first.pos+1)
	if err := m.check("GetDblAttrArray", m.env.eng.GetDblAttrArray(m.handle, engine.AttrX, first.pos, vals)); err != nil {
		return nil, err
	}
	return vals, nil
}

// Variable returns the value of `v` in the best solution found.
func (s *Solution) Variable(v VarIndex) (float64, error) {
	if err := s.valid(); err != nil {
		return 0, err
	}
	m := s.model
	if err := m.checkVar(v); err != nil {
		return 0, err
	}
	x, code := m.env.eng.GetDblAttrElement(m.handle, engine.AttrX, v.pos)
	if err := m.check("GetDblAttrElement", code); err != nil {
		return 0, err
	}
	return x, nil
}

// Runtime returns the wall-clock time the engine spent in Optimize.
func (s *Solution) Runtime() (time.Duration, error) {
	if err := s.valid(); err != nil {
		return 0, err
	}
	sec, code := s.model.env.eng.GetDblAttr(s.model.handle, engine.AttrRuntime)
	if err := s.model.check("GetDblAttr", code); err != nil {
		return 0, err
	}
	return time.Duration(sec * float64(time.Second)), nil
}
