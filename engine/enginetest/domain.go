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
	"sort"
)

// interval is the closed integer interval `[lo,hi]`. It is empty when lo > hi.
type interval struct {
	lo, hi int64
}

func (i interval) size() int64 {
	if i.lo > i.hi {
		return 0
	}
	return i.hi - i.lo + 1
}

// intDomain is a sorted list of disjoint, non-adjacent intervals: the integer values a
// variable may take.
type intDomain struct {
	intervals []interval
}

// join sorts the intervals and merges the ones that overlap or touch.
func (d *intDomain) join() {
	var itvs []interval
	for _, v := range d.intervals {
		if v.lo <= v.hi {
			itvs = append(itvs, v)
		}
	}
	d.intervals = itvs
	if len(d.intervals) == 0 {
		return
	}
	sort.Slice(d.intervals, func(i, j int) bool {
		if d.intervals[i].lo != d.intervals[j].lo {
			return d.intervals[i].lo < d.intervals[j].lo
		}
		return d.intervals[i].hi < d.intervals[j].hi
	})
	joined := []interval{d.intervals[0]}
	for _, next := range d.intervals[1:] {
		last := &joined[len(joined)-1]
		if last.hi+1 >= next.lo {
			if last.hi < next.hi {
				last.hi = next.hi
			}
		} else {
			joined = append(joined, next)
		}
	}
	d.intervals = joined
}

// newIntDomain returns the union of `intervals`, which need not be sorted.
func newIntDomain(intervals ...interval) intDomain {
	d := intDomain{intervals: append([]interval(nil), intervals...)}
	d.join()
	return d
}

// boundsInterval returns the integers within [lb, ub].
func boundsInterval(lb, ub float64) interval {
	return interval{int64(math.Ceil(lb)), int64(math.Floor(ub))}
}

// size returns the number of values, saturating at math.MaxInt64.
func (d intDomain) size() int64 {
	var n int64
	for _, i := range d.intervals {
		s := i.size()
		if n > math.MaxInt64-s {
			return math.MaxInt64
		}
		n += s
	}
	return n
}

// descending returns every value of the domain from largest to smallest.
func (d intDomain) descending() []float64 {
	vals := make([]float64, 0, d.size())
	for k := len(d.intervals) - 1; k >= 0; k-- {
		for x := d.intervals[k].hi; ; x-- {
			vals = append(vals, float64(x))
			if x == d.intervals[k].lo {
				break
			}
		}
	}
	return vals
}
