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

package htmldiff

import (
	"bytes"
	"encoding/json"

	"znkr.io/htmldiff/internal/byteview"
	"znkr.io/htmldiff/internal/config"
	"znkr.io/htmldiff/internal/edits"
	"znkr.io/htmldiff/internal/impl"
	"znkr.io/htmldiff/internal/tokenize"
)

// Op describes an edit operation.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Op -linecomment
type Op int

const (
	Equal   Op = iota // equal
	Insert            // insert
	Delete            // delete
	Replace           // replace
)

// Record describes a single change between before and after, positioned in the original inputs.
//
// All positions are byte offsets, end positions are inclusive. Lengths are in bytes too, so for
// non-ASCII input they differ from the number of characters (runes). Which fields are set depends
// on Op:
//
//   - Equal: Text, BeforeStart, BeforeEnd, AfterStart, AfterEnd, Length.
//   - Insert: Text, AfterStart, AfterEnd, Length, and BeforePosition, the position in before at
//     which Text was inserted.
//   - Delete: Text, BeforeStart, BeforeEnd, Length, and AfterPosition, the position in after at
//     which Text was removed.
//   - Replace: OldText, NewText, BeforeStart, BeforeEnd, AfterStart, AfterEnd, OldLength,
//     NewLength.
type Record struct {
	Op Op

	Text             string // Equal, inserted or deleted text.
	OldText, NewText string // Replaced text in before and replacement in after.

	BeforeStart, BeforeEnd int // Range in before.
	AfterStart, AfterEnd   int // Range in after.
	BeforePosition         int // Position in before for Insert.
	AfterPosition          int // Position in after for Delete.

	Length               int // Length of Text.
	OldLength, NewLength int // Length of OldText and NewText.
}

// MarshalJSON encodes r as a JSON object with a "type" field and the fields that are set for
// r.Op. Field names are in camel case, positions have a "Position" suffix (e.g.
// "beforeStartPosition"). HTML characters in texts aren't escaped. Note that json.Marshal escapes
// them again, use a json.Encoder with SetEscapeHTML(false) to keep them.
func (r Record) MarshalJSON() ([]byte, error) {
	switch r.Op {
	case Equal:
		return marshal(struct {
			Type        string `json:"type"`
			Text        string `json:"text"`
			BeforeStart int    `json:"beforeStartPosition"`
			BeforeEnd   int    `json:"beforeEndPosition"`
			AfterStart  int    `json:"afterStartPosition"`
			AfterEnd    int    `json:"afterEndPosition"`
			Length      int    `json:"length"`
		}{r.Op.String(), r.Text, r.BeforeStart, r.BeforeEnd, r.AfterStart, r.AfterEnd, r.Length})
	case Insert:
		return marshal(struct {
			Type           string `json:"type"`
			Text           string `json:"text"`
			AfterStart     int    `json:"afterStartPosition"`
			AfterEnd       int    `json:"afterEndPosition"`
			Length         int    `json:"length"`
			BeforePosition int    `json:"beforePosition"`
		}{r.Op.String(), r.Text, r.AfterStart, r.AfterEnd, r.Length, r.BeforePosition})
	case Delete:
		return marshal(struct {
			Type          string `json:"type"`
			Text          string `json:"text"`
			BeforeStart   int    `json:"beforeStartPosition"`
			BeforeEnd     int    `json:"beforeEndPosition"`
			Length        int    `json:"length"`
			AfterPosition int    `json:"afterPosition"`
		}{r.Op.String(), r.Text, r.BeforeStart, r.BeforeEnd, r.Length, r.AfterPosition})
	case Replace:
		return marshal(struct {
			Type        string `json:"type"`
			OldText     string `json:"oldText"`
			NewText     string `json:"newText"`
			BeforeStart int    `json:"beforeStartPosition"`
			BeforeEnd   int    `json:"beforeEndPosition"`
			AfterStart  int    `json:"afterStartPosition"`
			AfterEnd    int    `json:"afterEndPosition"`
			OldLength   int    `json:"oldLength"`
			NewLength   int    `json:"newLength"`
		}{r.Op.String(), r.OldText, r.NewText, r.BeforeStart, r.BeforeEnd, r.AfterStart, r.AfterEnd, r.OldLength, r.NewLength})
	default:
		return nil, &json.UnsupportedValueError{Str: r.Op.String()}
	}
}

// marshal encodes v like json.Marshal, but without escaping HTML characters.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Diff compares the HTML in before and after and returns the changes necessary to convert from one
// to the other.
//
// The records cover both inputs completely and in order. If before and after are identical, the
// result is a single Equal record.
//
// The following option is supported: [UnicodeWords]
//
// Important: The output is not guaranteed to be stable and may change with minor version upgrades.
// DO NOT rely on the output being stable.
func Diff[T string | []byte](before, after T, opts ...Option) []Record {
	cfg := config.FromOptions(opts, config.UnicodeWords)
	x, y := byteview.From(before), byteview.From(after)

	// Record texts must not alias a []byte input.
	text := byteview.ByteView.String
	if _, ok := any(before).([]byte); ok {
		text = byteview.ByteView.Clone
	}

	if x == y {
		n := x.Len()
		return []Record{{
			Op:          Equal,
			Text:        text(x),
			BeforeStart: 0,
			BeforeEnd:   n - 1,
			AfterStart:  0,
			AfterEnd:    n - 1,
			Length:      n,
		}}
	}

	sx, sy := impl.NewSequence(x, cfg), impl.NewSequence(y, cfg)
	return records(sx, sy, impl.Operations(sx, sy), text)
}

func records(x, y *impl.Sequence, es []edits.Edit, text func(byteview.ByteView) string) []Record {
	out := make([]Record, 0, len(es))
	for _, e := range es {
		s0, s1 := x.Offset(e.S0), x.Offset(e.S1)
		t0, t1 := y.Offset(e.T0), y.Offset(e.T1)
		switch e.Kind {
		case edits.Equal:
			out = append(out, Record{
				Op:          Equal,
				Text:        text(x.Text(e.S0, e.S1)),
				BeforeStart: s0,
				BeforeEnd:   s1 - 1,
				AfterStart:  t0,
				AfterEnd:    t1 - 1,
				Length:      s1 - s0,
			})
		case edits.Insert:
			out = append(out, Record{
				Op:             Insert,
				Text:           text(y.Text(e.T0, e.T1)),
				AfterStart:     t0,
				AfterEnd:       t1 - 1,
				Length:         t1 - t0,
				BeforePosition: s0,
			})
		case edits.Delete:
			out = append(out, Record{
				Op:            Delete,
				Text:          text(x.Text(e.S0, e.S1)),
				BeforeStart:   s0,
				BeforeEnd:     s1 - 1,
				Length:        s1 - s0,
				AfterPosition: t0,
			})
		case edits.Replace:
			out = append(out, Record{
				Op:          Replace,
				OldText:     text(x.Text(e.S0, e.S1)),
				NewText:     text(y.Text(e.T0, e.T1)),
				BeforeStart: s0,
				BeforeEnd:   s1 - 1,
				AfterStart:  t0,
				AfterEnd:    t1 - 1,
				OldLength:   s1 - s0,
				NewLength:   t1 - t0,
			})
		default:
			panic("never reached")
		}
	}
	return out
}

// Markup compares the HTML in before and after and returns after with inserted text wrapped in
// <ins> and deleted text from before wrapped in <del>. Replaced text is rendered as the insertion
// followed by the deletion.
//
// Tags are never wrapped. If a change contains tags, only the text between them is wrapped and
// the tags are emitted as they are. This keeps the nesting of the output intact. If before and
// after are identical, Markup returns before.
//
// The following options are supported: [UnicodeWords], [Tags], [TerminalColors]
//
// Important: The output is not guaranteed to be stable and may change with minor version upgrades.
// DO NOT rely on the output being stable.
func Markup[T string | []byte](before, after T, opts ...Option) T {
	cfg := config.FromOptions(opts, config.UnicodeWords|config.Tags|config.TerminalColors)
	x, y := byteview.From(before), byteview.From(after)
	if x == y {
		return before
	}

	sx, sy := impl.NewSequence(x, cfg), impl.NewSequence(y, cfg)
	var b byteview.Builder[T]
	b.Grow(max(x.Len(), y.Len()))
	for _, e := range impl.Operations(sx, sy) {
		switch e.Kind {
		case edits.Equal:
			b.WriteByteView(sx.Text(e.S0, e.S1))
		case edits.Insert:
			wrap(&b, sy.Tokens[e.T0:e.T1], cfg.InsOpen, cfg.InsClose)
		case edits.Delete:
			wrap(&b, sx.Tokens[e.S0:e.S1], cfg.DelOpen, cfg.DelClose)
		case edits.Replace:
			wrap(&b, sy.Tokens[e.T0:e.T1], cfg.InsOpen, cfg.InsClose)
			wrap(&b, sx.Tokens[e.S0:e.S1], cfg.DelOpen, cfg.DelClose)
		default:
			panic("never reached")
		}
	}
	return b.Build()
}

// wrap writes tokens to b and encloses every run of tokens that aren't tags in open and end.
func wrap[T string | []byte](b *byteview.Builder[T], tokens []byteview.ByteView, open, end string) {
	for i := 0; i < len(tokens); {
		j := i
		for j < len(tokens) && !tokenize.IsTag(tokens[j].String()) {
			j++
		}
		if j > i {
			b.WriteString(open)
			for _, tok := range tokens[i:j] {
				b.WriteByteView(tok)
			}
			b.WriteString(end)
		}
		for i = j; i < len(tokens) && tokenize.IsTag(tokens[i].String()); i++ {
			b.WriteByteView(tokens[i])
		}
	}
}
