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

// Package edits contains the internal edits representation that's produced from the matching
// blocks and is then translated to a user facing API.
package edits

import (
	"fmt"
)

// Kind is the kind of an edit.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Kind -linecomment
type Kind uint8

const (
	Equal   Kind = iota // equal
	Insert              // insert
	Delete              // delete
	Replace             // replace
)

// Match describes a matching block: x[S:S+N] == y[T:T+N].
type Match struct {
	S, T int // Start in x and y.
	N    int // Number of matching elements.
}

// Edit describes a single edit operation on token ranges.
//
//   - For Equal, x[S0:S1] == y[T0:T1].
//   - For Insert, S0 == S1 and y[T0:T1] is inserted at x[S0].
//   - For Delete, T0 == T1 and x[S0:S1] is deleted.
//   - For Replace, x[S0:S1] is replaced by y[T0:T1].
type Edit struct {
	Kind   Kind
	S0, S1 int // Range in x.
	T0, T1 int // Range in y.
}

// Derive translates matching blocks into edits that cover x[0:n] and y[0:m] without gaps.
//
// The matches must be ascending and non-overlapping in both x and y.
func Derive(n, m int, matches []Match) []Edit {
	var es []Edit
	s, t := 0, 0 // current position in x and y
	derive := func(match Match) {
		// Classify the gap between the current position and the match.
		var kind Kind
		switch inS, inT := s == match.S, t == match.T; {
		case inS && inT:
			kind = Equal // no gap
		case inS:
			kind = Insert
		case inT:
			kind = Delete
		default:
			kind = Replace
		}
		if kind != Equal {
			es = append(es, Edit{kind, s, match.S, t, match.T})
		}
		if match.N > 0 {
			es = append(es, Edit{Equal, match.S, match.S + match.N, match.T, match.T + match.N})
		}
		s, t = match.S+match.N, match.T+match.N
	}
	for _, match := range matches {
		derive(match)
	}
	// The sentinel flushes everything after the last match.
	derive(Match{n, m, 0})
	return es
}

// Normalize merges edits to avoid spurious fragmentation: A replace absorbs directly following
// replaces and a directly following equal edit of a single token, if isSpace reports that the
// token in x at that position is a single white space character.
func Normalize(es []Edit, isSpace func(s int) bool) []Edit {
	if len(es) == 0 {
		return es
	}
	out := make([]Edit, 0, len(es))
	for _, e := range es {
		if len(out) > 0 {
			last := &out[len(out)-1]
			if last.Kind == Replace && (e.Kind == Replace || e.Kind == Equal && e.S1-e.S0 == 1 && isSpace(e.S0)) {
				last.S1, last.T1 = e.S1, e.T1
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// Validate checks that es covers x[0:n] and y[0:m] exactly once, in order, and that every edit is
// well formed for its kind.
func Validate(es []Edit, n, m int) error {
	s, t := 0, 0
	for i, e := range es {
		if e.S0 != s || e.T0 != t {
			return fmt.Errorf("edit %d (%v) starts at (%d, %d), want (%d, %d)", i, e.Kind, e.S0, e.T0, s, t)
		}
		ns, nt := e.S1-e.S0, e.T1-e.T0
		var ok bool
		switch e.Kind {
		case Equal:
			ok = ns > 0 && ns == nt
		case Insert:
			ok = ns == 0 && nt > 0
		case Delete:
			ok = ns > 0 && nt == 0
		case Replace:
			ok = ns > 0 && nt > 0
		}
		if !ok {
			return fmt.Errorf("edit %d (%v) has invalid ranges [%d,%d) [%d,%d)", i, e.Kind, e.S0, e.S1, e.T0, e.T1)
		}
		s, t = e.S1, e.T1
	}
	if s != n || t != m {
		return fmt.Errorf("edits end at (%d, %d), want (%d, %d)", s, t, n, m)
	}
	return nil
}
