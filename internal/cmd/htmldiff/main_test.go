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

package main

import (
	"bytes"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"znkr.io/htmldiff/internal/unmarkup"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		x, y string
		opts options
		want string
	}{
		{
			name: "markup",
			x:    "<p>hello</p>",
			y:    "<p>hello world</p>",
			want: "<p>hello<ins> world</ins></p>",
		},
		{
			name: "markup-validate",
			x:    "<p>this is original text</p>",
			y:    "<p>this is new text</p>",
			opts: options{validate: true},
			want: "<p>this is <ins>new</ins><del>original</del> text</p>",
		},
		{
			name: "identical",
			x:    "<p>same</p>",
			y:    "<p>same</p>",
			want: "<p>same</p>",
		},
		{
			name: "ins-only",
			x:    "a",
			y:    "b",
			opts: options{ins: "mark"},
			want: "<mark>b</mark><del>a</del>",
		},
		{
			name: "ins-and-del",
			x:    "a",
			y:    "b",
			opts: options{ins: "mark", del: "s", validate: true},
			want: "<mark>b</mark><s>a</s>",
		},
		{
			name: "color",
			x:    "a",
			y:    "b",
			opts: options{color: true, validate: true},
			want: "\033[32mb\033[0m\033[31ma\033[0m",
		},
		{
			name: "unicode-words",
			x:    "naïve",
			y:    "naïf",
			opts: options{unicodeWords: true},
			want: "<ins>naïf</ins><del>naïve</del>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.x = writeFile(t, "x.html", tt.x)
			opts.y = writeFile(t, "y.html", tt.y)

			var stdout bytes.Buffer
			require.NoError(t, run(opts, &stdout, discard))
			require.Equal(t, tt.want, stdout.String())
		})
	}
}

func TestRunTxtar(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := writeFile(t, "in.txtar", "comment\n-- x --\n<p>a</p>\n-- y --\n<p>b</p>\n")

	var stdout bytes.Buffer
	require.NoError(t, run(options{txtar: path, validate: true}, &stdout, discard))
	require.Equal(t, "<p><ins>b</ins><del>a</del></p>\n", stdout.String())
}

func TestRunJSON(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := options{
		x:    writeFile(t, "x.html", "a b c"),
		y:    writeFile(t, "y.html", "a c"),
		json: true,
	}

	var stdout bytes.Buffer
	require.NoError(t, run(opts, &stdout, discard))
	require.JSONEq(t, `[
		{"type": "equal", "text": "a ", "beforeStartPosition": 0, "beforeEndPosition": 1, "afterStartPosition": 0, "afterEndPosition": 1, "length": 2},
		{"type": "delete", "text": "b ", "beforeStartPosition": 2, "beforeEndPosition": 3, "length": 2, "afterPosition": 2},
		{"type": "equal", "text": "c", "beforeStartPosition": 4, "beforeEndPosition": 4, "afterStartPosition": 2, "afterEndPosition": 2, "length": 1}
	]`, stdout.String())
}

func TestRunJSONDoesNotEscapeHTML(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := options{
		x:    writeFile(t, "x.html", "<p>a</p>"),
		y:    writeFile(t, "y.html", "<p>a</p>"),
		json: true,
	}

	var stdout bytes.Buffer
	require.NoError(t, run(opts, &stdout, discard))
	require.Contains(t, stdout.String(), `"text": "<p>a</p>"`)
}

func TestRunErrors(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	x := writeFile(t, "x.html", "a")
	y := writeFile(t, "y.html", "b")
	missingSection := writeFile(t, "in.txtar", "-- x --\na\n")

	t.Run("json-and-color", func(t *testing.T) {
		err := run(options{x: x, y: y, json: true, color: true}, io.Discard, discard)
		require.ErrorIs(t, err, errConflictingFlags)
	})
	t.Run("color-and-tags", func(t *testing.T) {
		err := run(options{x: x, y: y, color: true, del: "s"}, io.Discard, discard)
		require.ErrorIs(t, err, errConflictingFlags)
	})
	t.Run("missing-file", func(t *testing.T) {
		err := run(options{x: x, y: filepath.Join(t.TempDir(), "missing.html")}, io.Discard, discard)
		require.ErrorIs(t, err, fs.ErrNotExist)
	})
	t.Run("validation-ambiguous", func(t *testing.T) {
		marked := writeFile(t, "marked.html", "<ins>a</ins>")
		err := run(options{x: marked, y: y, validate: true}, io.Discard, discard)
		require.ErrorIs(t, err, unmarkup.ErrAmbiguous)
	})
	t.Run("missing-txtar-section", func(t *testing.T) {
		err := run(options{txtar: missingSection}, io.Discard, discard)
		require.ErrorContains(t, err, "sections x and y are required")
	})
}
