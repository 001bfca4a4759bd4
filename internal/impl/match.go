// Copyright 2025 Florian Zenker (flo@znkr.io)
//
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

package impl

import "znkr.io/htmldiff/internal/edits"

// BuildIndex returns the positions in target of every distinct element in probe, in ascending
// order. Elements of probe that don't occur in target map to an empty list.
func BuildIndex[T comparable](probe, target []T) map[T][]int {
	index := make(map[T][]int, len(probe))
	for _, v := range probe {
		if _, ok := index[v]; !ok {
			index[v] = nil
		}
	}
	for t, v := range target {
		if ts, ok := index[v]; ok {
			index[v] = append(ts, t)
		}
	}
	return index
}

// FindMatch finds the longest matching block in x[smin:smax] and y[tmin:tmax]. The index must map
// the elements of x to their positions in y, see [BuildIndex].
//
// Of all longest matching blocks, FindMatch returns the one that starts earliest in x and, of
// those, the one that starts earliest in y. If there's no matching element in the given ranges,
// FindMatch returns false.
func FindMatch[T comparable](x, y []T, index map[T][]int, smin, smax, tmin, tmax int) (edits.Match, bool) {
	var best edits.Match

	// During an iteration of the loop, runs[t] is the length of the longest matching block that
	// ends with x[s-1] and y[t].
	var runs map[int]int
	for s := smin; s < smax; s++ {
		next := make(map[int]int)
		for _, t := range index[x[s]] {
			if t < tmin {
				continue
			}
			if t >= tmax {
				break
			}
			n := runs[t-1] + 1
			next[t] = n
			if n > best.N {
				best = edits.Match{S: s - n + 1, T: t - n + 1, N: n}
			}
		}
		runs = next
	}
	return best, best.N > 0
}

// Align finds all matching blocks between x and y.
//
// It uses FindMatch to find the longest matching block and then recursively finds the matching
// blocks before and after it. The result is ascending in both x and y. Note that this doesn't
// necessarily result in the least number of edits, it's possible that a shorter match would have
// allowed for more matches in total.
func Align[T comparable](x, y []T) []edits.Match {
	index := BuildIndex(x, y)
	var matches []edits.Match
	var align func(smin, smax, tmin, tmax int)
	align = func(smin, smax, tmin, tmax int) {
		match, ok := FindMatch(x, y, index, smin, smax, tmin, tmax)
		if !ok {
			return
		}
		if smin < match.S && tmin < match.T {
			align(smin, match.S, tmin, match.T)
		}
		matches = append(matches, match)
		if s, t := match.S+match.N, match.T+match.N; s < smax && t < tmax {
			align(s, smax, t, tmax)
		}
	}
	align(0, len(x), 0, len(y))
	return matches
}
