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

// Package impl implements the comparison of tokenized HTML: matching blocks are found by
// repeatedly searching for the longest common run of tokens and are then translated into edits.
package impl

import (
	"errors"
	"fmt"

	"znkr.io/htmldiff/internal/byteview"
	"znkr.io/htmldiff/internal/config"
	"znkr.io/htmldiff/internal/edits"
	"znkr.io/htmldiff/internal/tokenize"
)

// ErrInvalidInput is used to panic when Operations is called without both sequences.
var ErrInvalidInput = errors.New("htmldiff: invalid input")

// Sequence is a tokenized input.
type Sequence struct {
	Input   byteview.ByteView
	Tokens  []byteview.ByteView
	offsets []int // offsets[i] is the start of Tokens[i] in Input, offsets[len(Tokens)] == Input.Len()
}

// NewSequence tokenizes in.
func NewSequence(in byteview.ByteView, cfg config.Config) *Sequence {
	tokens := tokenize.Tokenize(in, cfg.UnicodeWords)
	offsets := make([]int, len(tokens)+1)
	for i, tok := range tokens {
		offsets[i+1] = offsets[i] + tok.Len()
	}
	return &Sequence{
		Input:   in,
		Tokens:  tokens,
		offsets: offsets,
	}
}

// Len returns the number of tokens.
func (q *Sequence) Len() int { return len(q.Tokens) }

// Offset returns the byte offset of token i in the input. Offset(Len()) is the length of the
// input.
func (q *Sequence) Offset(i int) int { return q.offsets[i] }

// Text returns the concatenation of the tokens [i, j).
func (q *Sequence) Text(i, j int) byteview.ByteView {
	return q.Input.Slice(q.offsets[i], q.offsets[j])
}

// Operations compares x and y and returns the edits necessary to convert from one to the other.
//
// The edits cover both sequences completely. Operations panics with an error wrapping
// ErrInvalidInput if x or y is nil.
func Operations(x, y *Sequence) []edits.Edit {
	switch {
	case x == nil:
		panic(fmt.Errorf("%w: missing before sequence", ErrInvalidInput))
	case y == nil:
		panic(fmt.Errorf("%w: missing after sequence", ErrInvalidInput))
	}

	matches := Align(x.Tokens, y.Tokens)
	es := edits.Derive(x.Len(), y.Len(), matches)
	es = edits.Normalize(es, func(s int) bool {
		return tokenize.IsSingleWhitespace(x.Tokens[s].String())
	})
	if err := edits.Validate(es, x.Len(), y.Len()); err != nil {
		panic(fmt.Errorf("Operations: validate failed with %v", err))
	}
	return es
}
