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

// Package config provides shared configuration mechanisms for packages this module.
//
// This package is an implementation detail, the configuration surface for users is provided via
// htmldiff.Option.
package config

// Config collects all configurable parameters for comparison functions in this module.
type Config struct {
	// If set, Unicode letters and digits are part of words. Otherwise only ASCII letters, digits,
	// '_', '#' and '@' are.
	UnicodeWords bool

	// Opening and closing sequences used to wrap inserted and deleted text in markup.
	InsOpen, InsClose string
	DelOpen, DelClose string
}

// Default is the default configuration.
var Default = Config{
	UnicodeWords: false,
	InsOpen:      "<ins>",
	InsClose:     "</ins>",
	DelOpen:      "<del>",
	DelClose:     "</del>",
}

// Flag describes a single config entry. This is used to detect if configurations are being set
// that are not supported by a function.
type Flag int

const (
	UnicodeWords Flag = 1 << iota
	Tags
	TerminalColors
)

// Option is the mechanism used to expose the configuration to users.
type Option func(*Config) Flag

// FromOptions creates a configuration from a set of options.
func FromOptions(opts []Option, allowed Flag) Config {
	cfg := Default
	var set Flag
	for _, opt := range opts {
		flag := opt(&cfg)
		if flag & ^allowed != 0 {
			panic("Option " + printFlag(flag) + " not allowed here")
		}
		set |= flag
	}
	if set&Tags != 0 && set&TerminalColors != 0 {
		panic("htmldiff.Tags and htmldiff.TerminalColors are mutually exclusive")
	}
	return cfg
}

func printFlag(flag Flag) string {
	switch flag {
	case UnicodeWords:
		return "htmldiff.UnicodeWords"
	case Tags:
		return "htmldiff.Tags"
	case TerminalColors:
		return "htmldiff.TerminalColors"
	default:
		panic("never reached")
	}
}

// ColorConfig collects the SGR sequences used for terminal output.
type ColorConfig struct {
	Insert string
	Delete string
	Reset  string
}

// DefaultColors are the colors used when no color options are provided.
var DefaultColors = ColorConfig{
	Insert: "\033[32m",
	Delete: "\033[31m",
	Reset:  "\033[0m",
}
