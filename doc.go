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

// Package htmldiff compares two HTML documents word by word.
//
// Inputs are split into tags, runs of white space, and words. The comparison finds the longest
// common run of tokens and recursively repeats this for the text before and after that run. The
// result is a sequence of equal, inserted, deleted and replaced ranges. Tags are never split.
//
// The main functions are [Diff], which returns positioned records of every change, and [Markup],
// which renders the changes as HTML with <ins> and <del> elements.
//
// Positions in [Record] are byte offsets into the original inputs. End positions are inclusive,
// i.e. the text of a record is input[start:end+1].
//
// Performance: The worst case complexity is O(N·M) time where N and M are the number of tokens
// in the inputs. Inputs with many repeated tokens are the most expensive. The algorithm doesn't
// guarantee a minimal diff, but it tends to produce diffs that are easy to read.
//
// All functions are safe for concurrent use.
package htmldiff
