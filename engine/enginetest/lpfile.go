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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grbkit/grb/engine"
)

func (m *model) varName(i int32) string {
	if n := m.vars[i].name; n != "" {
		return n
	}
	return fmt.Sprintf("C%d", i)
}

func formatNum(f float64) string {
	switch {
	case f >= engine.Infinity:
		return "+inf"
	case f <= -engine.Infinity:
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// writeTerms appends ` + c x` terms, skipping zero coefficients.
func writeTerms(b *strings.Builder, m *model, ind []int32, val []float64) {
	first := true
	for k, i := range ind {
		c := val[k]
		if c == 0 {
			continue
		}
		sign := "+"
		if c < 0 {
			sign, c = "-", -c
		}
		if first && sign == "+" {
			b.WriteString(" ")
		} else {
			fmt.Fprintf(b, " %s ", sign)
		}
		first = false
		if c != 1 {
			fmt.Fprintf(b, "%s ", formatNum(c))
		}
		b.WriteString(m.varName(i))
	}
	if first {
		b.WriteString(" 0")
	}
}

// lpText renders the committed model in LP format.
func (m *model) lpText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\\ Model %s\n", m.name)
	if m.sense < 0 {
		b.WriteString("Maximize\n")
	} else {
		b.WriteString("Minimize\n")
	}
	var objInd []int32
	var objVal []float64
	for i, v := range m.vars {
		objInd = append(objInd, int32(i))
		objVal = append(objVal, v.obj)
	}
	writeTerms(&b, m, objInd, objVal)
	b.WriteString("\nSubject To\n")
	for r, c := range m.cons {
		name := c.name
		if name == "" {
			name = fmt.Sprintf("R%d", r)
		}
		fmt.Fprintf(&b, " %s:", name)
		writeTerms(&b, m, c.ind, c.val)
		op := map[byte]string{engine.LessEqual: "<=", engine.GreaterEqual: ">=", engine.Equal: "="}[c.sense]
		fmt.Fprintf(&b, " %s %s\n", op, formatNum(c.rhs))
	}
	b.WriteString("Bounds\n")
	var binaries, generals, semis []string
	for i, v := range m.vars {
		name := m.varName(int32(i))
		switch v.vtype {
		case engine.Binary:
			binaries = append(binaries, name)
			continue
		case engine.Integer:
			generals = append(generals, name)
		case engine.SemiContinuous, engine.SemiInteger:
			semis = append(semis, name)
			if v.vtype == engine.SemiInteger {
				generals = append(generals, name)
			}
		}
		if v.lb == 0 && v.ub >= engine.Infinity {
			continue
		}
		fmt.Fprintf(&b, " %s <= %s <= %s\n", formatNum(v.lb), name, formatNum(v.ub))
	}
	for _, sec := range []struct {
		title string
		names []string
	}{{"Binaries", binaries}, {"Generals", generals}, {"Semi-Continuous", semis}} {
		if len(sec.names) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s\n %s\n", sec.title, strings.Join(sec.names, " "))
	}
	b.WriteString("End\n")
	return b.String()
}

// write serializes the model. Only the LP format is supported.
func (m *model) write(path string) engine.Code {
	if path == "" {
		return m.env.fail(engine.ErrorNullArgument, "empty file name")
	}
	if ext := filepath.Ext(path); ext != ".lp" {
		return m.env.fail(engine.ErrorFileWrite, "unknown file type for file '%s'", path)
	}
	if err := os.WriteFile(path, []byte(m.lpText()), 0o644); err != nil {
		return m.env.fail(engine.ErrorFileWrite, "unable to write file '%s': %v", path, err)
	}
	return engine.OK
}
