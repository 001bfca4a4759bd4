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

// Package unmarkup reverses the markup produced by htmldiff.Markup. It's used to validate the
// markup in tests and in the htmldiff command.
package unmarkup

import (
	"errors"
	"fmt"
	"strings"

	"znkr.io/htmldiff/internal/byteview"
	"znkr.io/htmldiff/internal/config"
	"znkr.io/htmldiff/internal/tokenize"
)

type state int

const (
	outside state = iota
	inIns
	inDel
)

// Split splits markup into the before and after text. Text that's wrapped as inserted only goes
// to after, text that's wrapped as deleted only goes to before, and everything else goes to both.
//
// Split can't tell wrappers from the same sequences in the original inputs. If an input already
// contains <ins> or <del> elements, they are read as wrappers as well.
//
// Tags in changed regions are never wrapped, which means that they end up in both before and
// after. Use StripTags to compare only the text.
func Split(markup string, cfg config.Config) (before, after string) {
	var bb, ab strings.Builder
	s := outside
	for len(markup) > 0 {
		switch s {
		case outside:
			i, n := strings.Index(markup, cfg.InsOpen), len(cfg.InsOpen)
			next := inIns
			if j := strings.Index(markup, cfg.DelOpen); j >= 0 && (i < 0 || j < i) {
				i, n, next = j, len(cfg.DelOpen), inDel
			}
			if i < 0 {
				i, n, next = len(markup), 0, outside
			}
			bb.WriteString(markup[:i])
			ab.WriteString(markup[:i])
			markup, s = markup[i+n:], next
		case inIns:
			i, n := closing(markup, cfg.InsClose)
			ab.WriteString(markup[:i])
			markup, s = markup[i+n:], outside
		case inDel:
			i, n := closing(markup, cfg.DelClose)
			bb.WriteString(markup[:i])
			markup, s = markup[i+n:], outside
		default:
			panic("never reached")
		}
	}
	return bb.String(), ab.String()
}

// closing returns the position and the length of end in s. An unterminated wrapper extends to
// the end of s.
func closing(s, end string) (int, int) {
	if i := strings.Index(s, end); i >= 0 {
		return i, len(end)
	}
	return len(s), 0
}

// StripTags removes all tags from s.
func StripTags(s string, cfg config.Config) string {
	var sb strings.Builder
	for _, tok := range tokenize.Tokenize(byteview.From(s), cfg.UnicodeWords) {
		if !tokenize.IsTag(tok.String()) {
			sb.WriteString(tok.String())
		}
	}
	return sb.String()
}

var (
	// ErrMismatch is returned by Check if the markup doesn't reproduce the inputs.
	ErrMismatch = errors.New("markup doesn't match inputs")

	// ErrAmbiguous is returned by Check if an input contains the wrapper sequences itself.
	ErrAmbiguous = errors.New("input contains wrapper sequences")
)

// Check verifies that the text of before and after, ignoring tags, is recovered from markup.
//
// Inputs that contain cfg.InsOpen or cfg.DelOpen can't be checked, Check returns an error wrapping
// ErrAmbiguous for them.
func Check(before, after, markup string, cfg config.Config) error {
	for _, in := range []string{before, after} {
		if strings.Contains(in, cfg.InsOpen) || strings.Contains(in, cfg.DelOpen) {
			return fmt.Errorf("%w: %q or %q", ErrAmbiguous, cfg.InsOpen, cfg.DelOpen)
		}
	}
	gotBefore, gotAfter := Split(markup, cfg)
	if got, want := StripTags(gotBefore, cfg), StripTags(before, cfg); got != want {
		return fmt.Errorf("%w: before recovered as %q, want %q", ErrMismatch, got, want)
	}
	if got, want := StripTags(gotAfter, cfg), StripTags(after, cfg); got != want {
		return fmt.Errorf("%w: after recovered as %q, want %q", ErrMismatch, got, want)
	}
	return nil
}
