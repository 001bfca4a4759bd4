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
	"znkr.io/htmldiff/color"
	"znkr.io/htmldiff/internal/config"
)

// Option configures the behavior of comparison functions.
type Option = config.Option

// UnicodeWords treats all Unicode letters and digits as word characters. By default, only ASCII
// letters and digits, '_', '#', and '@' are word characters and every other character that isn't
// white space is a word of its own.
func UnicodeWords() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.UnicodeWords = true
		return config.UnicodeWords
	}
}

// Tags sets the names of the elements that are used to wrap inserted and deleted text in
// [Markup]. The defaults are "ins" and "del". The names must be plain element names without
// attributes.
func Tags(ins, del string) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.InsOpen, cfg.InsClose = "<"+ins+">", "</"+ins+">"
		cfg.DelOpen, cfg.DelClose = "<"+del+">", "</"+del+">"
		return config.Tags
	}
}

// TerminalColors wraps inserted and deleted text in [Markup] with ANSI escape sequences instead of
// elements. Inserts are green and deletes are red, unless configured otherwise.
//
// This option can't be combined with [Tags].
func TerminalColors(opts ...color.Option) Option {
	cc := config.DefaultColors
	for _, opt := range opts {
		opt(&cc)
	}
	return func(cfg *config.Config) config.Flag {
		cfg.InsOpen, cfg.InsClose = cc.Insert, cc.Reset
		cfg.DelOpen, cfg.DelClose = cc.Delete, cc.Reset
		return config.TerminalColors
	}
}
