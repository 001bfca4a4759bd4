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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/htmldiff/internal/edits"
)

func TestBuildIndex(t *testing.T) {
	probe := []string{"a", "b", "a", "z"}
	target := []string{"b", "a", "c", "a", "b"}
	got := BuildIndex(probe, target)
	want := map[string][]int{
		"a": {1, 3},
		"b": {0, 4},
		"z": nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildIndex(...) differs [-want,+got]:\n%s", diff)
	}
}

func TestFindMatch(t *testing.T) {
	tests := []struct {
		name                   string
		x, y                   string
		smin, smax, tmin, tmax int // tmax and smax are len(x) and len(y) if zero
		want                   edits.Match
		wantOK                 bool
	}{
		{
			name: "no-match",
			x:    "a",
			y:    "b",
		},
		{
			name:   "identical",
			x:      "abc",
			y:      "abc",
			want:   edits.Match{S: 0, T: 0, N: 3},
			wantOK: true,
		},
		{
			name:   "tie-leftmost-in-x",
			x:      "abcab",
			y:      "ab",
			want:   edits.Match{S: 0, T: 0, N: 2},
			wantOK: true,
		},
		{
			name:   "tie-leftmost-in-y",
			x:      "a",
			y:      "baa",
			want:   edits.Match{S: 0, T: 1, N: 1},
			wantOK: true,
		},
		{
			name:   "longest-not-prefix",
			x:      "ab",
			y:      "acab",
			want:   edits.Match{S: 0, T: 2, N: 2},
			wantOK: true,
		},
		{
			name:   "restricted-range",
			x:      "abc",
			y:      "abc",
			smin:   1,
			smax:   3,
			tmin:   0,
			tmax:   2,
			want:   edits.Match{S: 1, T: 1, N: 1},
			wantOK: true,
		},
		{
			name: "restricted-range-no-match",
			x:    "abc",
			y:    "abc",
			smin: 2,
			smax: 3,
			tmin: 0,
			tmax: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := strings.Split(tt.x, ""), strings.Split(tt.y, "")
			smax, tmax := tt.smax, tt.tmax
			if smax == 0 {
				smax = len(x)
			}
			if tmax == 0 {
				tmax = len(y)
			}
			got, ok := FindMatch(x, y, BuildIndex(x, y), tt.smin, smax, tt.tmin, tmax)
			if ok != tt.wantOK {
				t.Fatalf("FindMatch(...) ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindMatch(...) differs [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestAlign(t *testing.T) {
	tests := []struct {
		name string
		x, y []string
		want []edits.Match
	}{
		{
			name: "empty",
			want: nil,
		},
		{
			name: "x-empty",
			y:    []string{"foo"},
			want: nil,
		},
		{
			name: "identical",
			x:    []string{"foo", " ", "bar"},
			y:    []string{"foo", " ", "bar"},
			want: []edits.Match{{S: 0, T: 0, N: 3}},
		},
		{
			name: "replaced-word",
			x:    []string{"this", " ", "is", " ", "original", " ", "text"},
			y:    []string{"this", " ", "is", " ", "new", " ", "text"},
			want: []edits.Match{{S: 0, T: 0, N: 4}, {S: 5, T: 5, N: 2}},
		},
		{
			name: "ABCABBA_to_CBABAC",
			x:    strings.Split("ABCABBA", ""),
			y:    strings.Split("CBABAC", ""),
			want: []edits.Match{{S: 0, T: 2, N: 2}, {S: 2, T: 5, N: 1}},
		},
		{
			name: "left-and-right",
			x:    strings.Split("xabcyz", ""),
			y:    strings.Split("zxwabcz", ""),
			want: []edits.Match{{S: 0, T: 1, N: 1}, {S: 1, T: 3, N: 3}, {S: 5, T: 6, N: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Align(tt.x, tt.y)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Align(...) differs [-want,+got]:\n%s", diff)
			}
		})
	}
}
