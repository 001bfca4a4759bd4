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

// Package tokenize splits HTML into the tokens that are compared by the diff algorithm.
//
// Tokenization is lexical: every input is accepted and the concatenation of all tokens is always
// identical to the input. There are three kinds of tokens:
//
//   - tags, everything from '<' up to and including the next '>',
//   - whitespace runs, a maximal sequence of white space characters,
//   - words, a maximal sequence of word characters, or a single character that is neither a word
//     character nor white space (e.g. punctuation).
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"znkr.io/htmldiff/internal/byteview"
)

type mode int

const (
	modeChar mode = iota
	modeWhitespace
	modeTag
)

// Tokenize splits v into tokens. If unicodeWords is set, all Unicode letters and digits are word
// characters, otherwise only ASCII letters and digits, '_', '#' and '@' are.
func Tokenize(v byteview.ByteView, unicodeWords bool) []byteview.ByteView {
	s := v.String()

	var tokens []byteview.ByteView
	start := 0    // start of the current token
	m := modeChar // current mode
	word := false // in modeChar, whether the current token is a run of word characters
	flush := func(end int) {
		if end > start {
			tokens = append(tokens, v.Slice(start, end))
		}
		start = end
	}

	for i, r := range s {
		if r == '<' {
			flush(i)
			m = modeTag
			continue
		}
		switch m {
		case modeTag:
			if r == '>' {
				flush(i + 1)
				m, word = modeChar, false
			}
		case modeWhitespace:
			if !unicode.IsSpace(r) {
				flush(i)
				m, word = modeChar, isWordChar(r, unicodeWords)
			}
		case modeChar:
			switch {
			case unicode.IsSpace(r):
				flush(i)
				m = modeWhitespace
			case isWordChar(r, unicodeWords):
				if !word {
					flush(i)
					word = true
				}
			default:
				flush(i)
				word = false
			}
		default:
			panic("never reached")
		}
	}
	flush(len(s))
	return tokens
}

func isWordChar(r rune, unicodeWords bool) bool {
	switch {
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return true
	case r == '_', r == '#', r == '@':
		return true
	case unicodeWords:
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	default:
		return false
	}
}

// IsTag reports whether tok is an HTML tag, optionally surrounded by white space.
func IsTag(tok string) bool {
	tok = strings.TrimSpace(tok)
	if len(tok) < 3 || tok[0] != '<' || tok[len(tok)-1] != '>' {
		return false
	}
	return strings.IndexByte(tok[1:len(tok)-1], '>') < 0
}

// IsSingleWhitespace reports whether tok consists of exactly one white space character.
func IsSingleWhitespace(tok string) bool {
	r, n := utf8.DecodeRuneInString(tok)
	return n > 0 && n == len(tok) && unicode.IsSpace(r)
}
