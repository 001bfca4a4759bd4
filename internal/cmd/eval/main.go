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

// eval validates htmldiff against the history of a git repository. For every HTML file changed
// in a commit, it renders the markup, checks that both versions can be recovered from it, and
// checks that the change records cover both versions.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"znkr.io/htmldiff"
	"znkr.io/htmldiff/internal/cmd/eval/internal/git"
	"znkr.io/htmldiff/internal/config"
	"znkr.io/htmldiff/internal/unmarkup"
)

type options struct {
	repo     string
	sample   int
	parallel int
	stats    string
	exts     string
	validate bool
}

func main() {
	var opts options
	flag.StringVar(&opts.repo, "repo", "", "repository to use for evaluation")
	flag.IntVar(&opts.sample, "sample", 0, "if >0, sample commits to the value of the flag")
	flag.IntVar(&opts.parallel, "parallel", runtime.GOMAXPROCS(0), "number of evaluations to run in parallel")
	flag.StringVar(&opts.stats, "stats", "", "file to store stats in")
	flag.StringVar(&opts.exts, "ext", ".html,.htm,.xhtml", "comma separated list of file extensions to evaluate")
	flag.BoolVar(&opts.validate, "validate", true, "if validation should be performed")
	flag.Parse()

	if len(flag.CommandLine.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected command line arguments: %v\n", flag.CommandLine.Args())
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(&opts, logger); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var bars = []string{
	" ",
	"▏",
	"▎",
	"▍",
	"▌",
	"▋",
	"▊",
	"▉",
	"█",
}

type note struct {
	prefix string
	msg    string
}

type result struct {
	commitID string
	file     string
	variant  string
	N, M     int
	D        int
	duration time.Duration
}

type change struct {
	commitID string
	filename string
	old, new string
}

var variants = map[string][]htmldiff.Option{
	"default":       nil,
	"unicode-words": {htmldiff.UnicodeWords()},
}

func run(opts *options, logger *slog.Logger) error {
	start := time.Now()
	notes := make(chan note)
	done := make(chan struct{})
	var commitsDone atomic.Int64
	var processed atomic.Int64
	var failures atomic.Int64

	var stats *os.File
	if opts.stats != "" {
		var err error
		stats, err = os.Create(opts.stats)
		if err != nil {
			return fmt.Errorf("creating stats file: %w", err)
		}
		defer stats.Close()
	}

	repo, err := git.Open(opts.repo)
	if err != nil {
		return fmt.Errorf("opening git repository: %w", err)
	}

	commitIDs, err := repo.RevList()
	if err != nil {
		return fmt.Errorf("reading rev-list: %w", err)
	}

	// Sample commits
	if opts.sample > 0 && opts.sample < len(commitIDs) {
		picked := make(map[int]struct{}, opts.sample)
		sample := make([]string, 0, opts.sample)
		for len(sample) < opts.sample {
			i := rand.IntN(len(commitIDs))
			if _, ok := picked[i]; ok {
				continue
			}
			sample = append(sample, commitIDs[i])
			picked[i] = struct{}{}
		}
		commitIDs = sample
	}
	logger.Info("starting evaluation", "repo", opts.repo, "commits", len(commitIDs), "parallel", opts.parallel)

	// Read changed files.
	exts := strings.Split(opts.exts, ",")
	changes := make(chan change)
	var changesWG sync.WaitGroup
	chunkSize := max(1, len(commitIDs)/(4*runtime.GOMAXPROCS(0)))
	for chunk := range slices.Chunk(commitIDs, chunkSize) {
		changesWG.Add(1)
		go func() {
			defer changesWG.Done()
			for _, commitID := range chunk {
				files, err := repo.DiffTree(commitID, exts)
				if err != nil {
					notes <- note{
						prefix: commitID,
						msg:    fmt.Sprintf("error processing commit: %v", err),
					}
				}
				for _, file := range files {
					repo.Read([]string{file.OldID, file.NewID}, func(res []string) {
						changes <- change{
							commitID: commitID,
							filename: file.Name,
							old:      res[0],
							new:      res[1],
						}
					})
				}
				commitsDone.Add(1)
			}
		}()
	}

	// Evaluate changes.
	var processWG sync.WaitGroup
	var results chan result
	if opts.stats != "" {
		results = make(chan result)
	}
	for range opts.parallel {
		processWG.Add(1)
		go func() {
			defer processWG.Done()
			for c := range changes {
				old, new := trim(c.old, c.new)
				for variant, hopts := range variants {
					start := time.Now()
					records := htmldiff.Diff(c.old, c.new, hopts...)
					duration := time.Since(start)
					if results != nil {
						d := 0
						for _, r := range records {
							if r.Op != htmldiff.Equal {
								d++
							}
						}
						results <- result{
							commitID: c.commitID,
							file:     c.filename,
							variant:  variant,
							N:        len(old),
							M:        len(new),
							D:        d,
							duration: duration,
						}
					}

					if opts.validate {
						prefix := c.commitID + ":" + c.filename + ":" + variant
						if err := checkRecords(c.old, c.new, records); err != nil {
							failures.Add(1)
							notes <- note{prefix: prefix, msg: err.Error()}
						}
						markup := htmldiff.Markup(c.old, c.new, hopts...)
						cfg := config.FromOptions(hopts, config.UnicodeWords)
						// Files that use <ins> or <del> themselves can't be checked.
						if err := unmarkup.Check(c.old, c.new, markup, cfg); err != nil && !errors.Is(err, unmarkup.ErrAmbiguous) {
							failures.Add(1)
							notes <- note{prefix: prefix, msg: err.Error()}
						}
					}
				}
				processed.Add(1)
			}
		}()
	}

	// Render progress
	var ioWG sync.WaitGroup
	render := func() {
		const width = 60
		commits := commitsDone.Load()
		processed := processed.Load()
		progress := 1.0
		if len(commitIDs) > 0 {
			progress = float64(commits) / float64(len(commitIDs))
		}
		whole := int(progress * width)
		remainder := math.Mod(progress*width, 1)
		last := bars[max(0, min(len(bars)-1, int(remainder*float64(len(bars)))))]
		if width-whole < 1 {
			last = ""
		}
		bar := strings.Repeat(bars[len(bars)-1], whole) + last
		var commitsPerSec, procPerSec int
		if commits > 0 {
			commitsPerSec = int((time.Duration(commits) * time.Second) / time.Since(start))
		}
		if processed > 0 {
			procPerSec = int((time.Duration(processed) * time.Second) / time.Since(start))
		}
		fmt.Printf("\r[%-*s] % 3.1f%% (%d commits/s, %d files/s) ", width, bar, 100*progress, commitsPerSec, procPerSec)
	}
	ioWG.Add(1)
	go func() {
		defer ioWG.Done()
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case note := <-notes:
				fmt.Printf("\r%s: %s\n", note.prefix, note.msg)
				render()

			case <-ticker.C:
				render()

			case <-done:
				render()
				fmt.Printf("\n")
				return
			}
		}
	}()
	var statsWG sync.WaitGroup
	if opts.stats != "" {
		statsWG.Add(1)
		go func() {
			defer statsWG.Done()
			w := bufio.NewWriter(stats)
			w.WriteString("commit_id,file,variant,N,M,D,duration_ns\n")
			for result := range results {
				_, err := fmt.Fprintf(w, "%s,%s,%s,%d,%d,%d,%d\n", result.commitID, result.file, result.variant, result.N, result.M, result.D, result.duration.Nanoseconds())
				if err != nil {
					notes <- note{
						prefix: result.commitID + ":" + result.file,
						msg:    fmt.Sprintf("failed to write stats: %v", err),
					}
				}
			}
			if err := w.Flush(); err != nil {
				notes <- note{
					prefix: "",
					msg:    fmt.Sprintf("failed to flush stats: %v", err),
				}
			}
		}()
	}

	// Shutdown
	changesWG.Wait()
	repo.Close()
	close(changes)
	processWG.Wait()
	if results != nil {
		close(results)
	}
	statsWG.Wait()
	close(done)
	ioWG.Wait()

	logger.Info("evaluation finished",
		"commits", commitsDone.Load(),
		"files", processed.Load(),
		"failures", failures.Load(),
		"duration", time.Since(start))
	if n := failures.Load(); n > 0 {
		return fmt.Errorf("%d validation failures", n)
	}
	return nil
}

// trim removes the common prefix and suffix of old and new.
func trim(old, new string) (string, string) {
	for len(old) > 0 && len(new) > 0 && old[0] == new[0] {
		old = old[1:]
		new = new[1:]
	}
	for len(old) > 0 && len(new) > 0 && old[len(old)-1] == new[len(new)-1] {
		old = old[:len(old)-1]
		new = new[:len(new)-1]
	}
	return old, new
}

// checkRecords verifies that records are positioned correctly and reconstruct old and new.
func checkRecords(old, new string, records []htmldiff.Record) error {
	var before, after strings.Builder
	at := func(s string, start, end int, want string) error {
		if start < 0 || end+1 > len(s) || start > end+1 || s[start:end+1] != want {
			return fmt.Errorf("record text %q not found at [%d,%d]", want, start, end)
		}
		return nil
	}
	for _, r := range records {
		var err error
		switch r.Op {
		case htmldiff.Equal:
			err = at(old, r.BeforeStart, r.BeforeEnd, r.Text)
			if err == nil {
				err = at(new, r.AfterStart, r.AfterEnd, r.Text)
			}
			before.WriteString(r.Text)
			after.WriteString(r.Text)
		case htmldiff.Insert:
			err = at(new, r.AfterStart, r.AfterEnd, r.Text)
			after.WriteString(r.Text)
		case htmldiff.Delete:
			err = at(old, r.BeforeStart, r.BeforeEnd, r.Text)
			before.WriteString(r.Text)
		case htmldiff.Replace:
			err = at(old, r.BeforeStart, r.BeforeEnd, r.OldText)
			if err == nil {
				err = at(new, r.AfterStart, r.AfterEnd, r.NewText)
			}
			before.WriteString(r.OldText)
			after.WriteString(r.NewText)
		default:
			panic("never reached")
		}
		if err != nil {
			return fmt.Errorf("%v record: %w", r.Op, err)
		}
	}
	if before.String() != old {
		return fmt.Errorf("records don't reconstruct old version")
	}
	if after.String() != new {
		return fmt.Errorf("records don't reconstruct new version")
	}
	return nil
}
