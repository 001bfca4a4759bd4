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

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/htmldiff/internal/byteview"
	"znkr.io/htmldiff/internal/config"
	"znkr.io/htmldiff/internal/edits"
)

func TestOperations(t *testing.T) {
	tests := []struct {
		name string
		x, y string
		want []edits.Edit
	}{
		{
			name: "empty",
			want: nil,
		},
		{
			name: "x-empty",
			x:    "",
			y:    "x",
			want: []edits.Edit{{Kind: edits.Insert, S0: 0, S1: 0, T0: 0, T1: 1}},
		},
		{
			name: "y-empty",
			x:    "x y",
			y:    "",
			want: []edits.Edit{{Kind: edits.Delete, S0: 0, S1: 3, T0: 0, T1: 0}},
		},
		{
			name: "replaced-word",
			x:    "this is original text",
			y:    "this is new text",
			want: []edits.Edit{
				{Kind: edits.Equal, S0: 0, S1: 4, T0: 0, T1: 4},
				{Kind: edits.Replace, S0: 4, S1: 5, T0: 4, T1: 5},
				{Kind: edits.Equal, S0: 5, S1: 7, T0: 5, T1: 7},
			},
		},
		{
			name: "inserted-word-in-tag",
			x:    "<p>hello</p>",
			y:    "<p>hello world</p>",
			want: []edits.Edit{
				{Kind: edits.Equal, S0: 0, S1: 2, T0: 0, T1: 2},
				{Kind: edits.Insert, S0: 2, S1: 2, T0: 2, T1: 4},
				{Kind: edits.Equal, S0: 2, S1: 3, T0: 4, T1: 5},
			},
		},
		{
			name: "deleted-word",
			x:    "a b c",
			y:    "a c",
			want: []edits.Edit{
				{Kind: edits.Equal, S0: 0, S1: 2, T0: 0, T1: 2},
				{Kind: edits.Delete, S0: 2, S1: 4, T0: 2, T1: 2},
				{Kind: edits.Equal, S0: 4, S1: 5, T0: 2, T1: 3},
			},
		},
		{
			name: "space-merged-into-replace",
			x:    "a b",
			y:    "x y",
			want: []edits.Edit{
				{Kind: edits.Replace, S0: 0, S1: 3, T0: 0, T1: 3},
			},
		},
		{
			name: "nothing-in-common",
			x:    "foo",
			y:    "bar",
			want: []edits.Edit{
				{Kind: edits.Replace, S0: 0, S1: 1, T0: 0, T1: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := NewSequence(byteview.From(tt.x), config.Default)
			y := NewSequence(byteview.From(tt.y), config.Default)
			got := Operations(x, y)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Operations(...) differs [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestOperationsInvalidInput(t *testing.T) {
	seq := NewSequence(byteview.From("text"), config.Default)
	tests := []struct {
		name string
		x, y *Sequence
	}{
		{"x-nil", nil, seq},
		{"y-nil", seq, nil},
		{"both-nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrInvalidInput) {
					t.Errorf("Operations(...) panicked with %v, want ErrInvalidInput", r)
				}
			}()
			Operations(tt.x, tt.y)
		})
	}
}

// Coverage is checked inside of Operations, this makes sure that it's also true for the edits
// before they are normalized.
func TestDeriveCoverage(t *testing.T) {
	words := []string{"a", "b", " ", "  ", "<p>", "</p>", ",", "c"}
	rng := rand.New(rand.NewPCG(3, 4))
	gen := func() string {
		var sb strings.Builder
		for range rng.IntN(30) {
			sb.WriteString(words[rng.IntN(len(words))])
		}
		return sb.String()
	}
	for range 500 {
		x := NewSequence(byteview.From(gen()), config.Default)
		y := NewSequence(byteview.From(gen()), config.Default)
		es := edits.Derive(x.Len(), y.Len(), Align(x.Tokens, y.Tokens))
		if err := edits.Validate(es, x.Len(), y.Len()); err != nil {
			t.Fatalf("Derive(...) for %q and %q: %v", x.Input, y.Input, err)
		}
		for _, e := range es {
			if e.Kind != edits.Equal {
				continue
			}
			for i := range e.S1 - e.S0 {
				if x.Tokens[e.S0+i] != y.Tokens[e.T0+i] {
					t.Fatalf("equal edit %v for %q and %q has different tokens", e, x.Input, y.Input)
				}
			}
		}
		Operations(x, y)
	}
}

func TestSequence(t *testing.T) {
	q := NewSequence(byteview.From("<p>hi, you</p>"), config.Default)
	if q.Len() != 6 {
		t.Fatalf("Len() = %v, want 6", q.Len())
	}
	gotOffsets := make([]int, q.Len()+1)
	for i := range gotOffsets {
		gotOffsets[i] = q.Offset(i)
	}
	wantOffsets := []int{0, 3, 5, 6, 7, 10, 14}
	if diff := cmp.Diff(wantOffsets, gotOffsets); diff != "" {
		t.Errorf("offsets differ [-want,+got]:\n%s", diff)
	}
	if got := q.Text(1, 5).String(); got != "hi, you" {
		t.Errorf("Text(1, 5) = %q, want %q", got, "hi, you")
	}
}
