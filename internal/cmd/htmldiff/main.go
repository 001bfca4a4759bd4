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

// htmldiff is a small CLI to compare two HTML files and print the difference.
//
// By default, the output is the markup of the second file with changes wrapped in <ins> and
// <del>. With -json, the output is the list of change records instead.
//
//	htmldiff [flags] <before> <after>
//	htmldiff [flags] -txtar <file>
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/tools/txtar"
	"znkr.io/htmldiff"
	"znkr.io/htmldiff/color"
	"znkr.io/htmldiff/internal/config"
	"znkr.io/htmldiff/internal/unmarkup"
)

type options struct {
	x, y         string
	txtar        string
	json         bool
	color        bool
	ins, del     string
	unicodeWords bool
	validate     bool
	verbose      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.txtar, "txtar", "", "use txtar file with sections x and y instead of two input files")
	flag.BoolVar(&opts.json, "json", false, "print change records as JSON instead of markup")
	flag.BoolVar(&opts.color, "color", false, "highlight changes with terminal colors instead of tags")
	flag.StringVar(&opts.ins, "ins", "", "element name for inserted text (default ins)")
	flag.StringVar(&opts.del, "del", "", "element name for deleted text (default del)")
	flag.BoolVar(&opts.unicodeWords, "unicode-words", false, "treat all Unicode letters and digits as word characters")
	flag.BoolVar(&opts.validate, "validate", false, "check that both inputs can be recovered from the markup")
	flag.BoolVar(&opts.verbose, "v", false, "enable debug logging")
	flag.Parse()

	if opts.txtar != "" {
		if flag.CommandLine.NArg() != 0 {
			fmt.Fprintf(os.Stderr, "error: usage: htmldiff [flags] -txtar <file>\n")
			os.Exit(1)
		}
	} else {
		if flag.CommandLine.NArg() != 2 {
			fmt.Fprintf(os.Stderr, "error: usage: htmldiff [flags] <before> <after>\n")
			os.Exit(1)
		}
		opts.x = flag.CommandLine.Arg(0)
		opts.y = flag.CommandLine.Arg(1)
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(opts, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var errConflictingFlags = errors.New("conflicting flags")

func run(opts options, stdout io.Writer, logger *slog.Logger) error {
	if opts.json && (opts.color || opts.ins != "" || opts.del != "") {
		return fmt.Errorf("%w: -json can't be combined with -color, -ins or -del", errConflictingFlags)
	}
	if opts.color && (opts.ins != "" || opts.del != "") {
		return fmt.Errorf("%w: -color can't be combined with -ins or -del", errConflictingFlags)
	}

	x, y, err := readInputs(opts)
	if err != nil {
		return err
	}
	logger.Debug("read inputs", "before", len(x), "after", len(y))

	if opts.json {
		var hopts []htmldiff.Option
		if opts.unicodeWords {
			hopts = append(hopts, htmldiff.UnicodeWords())
		}
		start := time.Now()
		records := htmldiff.Diff(x, y, hopts...)
		logger.Debug("computed records", "records", len(records), "duration", time.Since(start))

		enc := json.NewEncoder(stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("writing records: %w", err)
		}
		return nil
	}

	hopts := markupOptions(opts)
	start := time.Now()
	out := htmldiff.Markup(x, y, hopts...)
	logger.Debug("computed markup", "bytes", len(out), "duration", time.Since(start))

	if opts.validate {
		cfg := config.FromOptions(hopts, config.UnicodeWords|config.Tags|config.TerminalColors)
		if err := unmarkup.Check(string(x), string(y), string(out), cfg); err != nil {
			return fmt.Errorf("validating markup: %w", err)
		}
		logger.Debug("markup validated")
	}

	if _, err := stdout.Write(out); err != nil {
		return fmt.Errorf("writing markup: %w", err)
	}
	return nil
}

func markupOptions(opts options) []htmldiff.Option {
	var hopts []htmldiff.Option
	if opts.unicodeWords {
		hopts = append(hopts, htmldiff.UnicodeWords())
	}
	if opts.ins != "" || opts.del != "" {
		ins, del := opts.ins, opts.del
		if ins == "" {
			ins = "ins"
		}
		if del == "" {
			del = "del"
		}
		hopts = append(hopts, htmldiff.Tags(ins, del))
	}
	if opts.color {
		hopts = append(hopts, htmldiff.TerminalColors(color.Inserts(32), color.Deletes(31)))
	}
	return hopts
}

func readInputs(opts options) (x, y []byte, err error) {
	if opts.txtar != "" {
		ar, err := txtar.ParseFile(opts.txtar)
		if err != nil {
			return nil, nil, fmt.Errorf("reading txtar: %w", err)
		}
		var foundX, foundY bool
		for _, f := range ar.Files {
			switch f.Name {
			case "x":
				x, foundX = f.Data, true
			case "y":
				y, foundY = f.Data, true
			}
		}
		if !foundX || !foundY {
			return nil, nil, fmt.Errorf("txtar %s: sections x and y are required", opts.txtar)
		}
		return x, y, nil
	}

	x, err = os.ReadFile(opts.x)
	if err != nil {
		return nil, nil, fmt.Errorf("reading before: %w", err)
	}
	y, err = os.ReadFile(opts.y)
	if err != nil {
		return nil, nil, fmt.Errorf("reading after: %w", err)
	}
	return x, y, nil
}
