// Copyright (c) 2025-present deep.rent GmbH (https://deep.rent)
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

// Package quote provides utility functions for working with quoted strings
// in command-line input.
package quote

import (
	"regexp"
	"unicode"
)

// Remove strips a single layer of surrounding single or double quotes from a
// string. If the string is not quoted or too short, it is returned unchanged.
func Remove(s string) string {
	if len(s) < 2 {
		return s
	}
	// Check for a matching pair of quotes.
	switch s[0] {
	case '"':
		if s[len(s)-1] == '"' {
			return s[1 : len(s)-1]
		}
	case '\'':
		if s[len(s)-1] == '\'' {
			return s[1 : len(s)-1]
		}
	}
	// Return the original string if no matching quotes are found.
	return s
}

// Fields splits s around runs of whitespace, keeping quoted substrings
// together. Quotes remain part of the fields; use Remove to strip them.
func Fields(s string) []string {
	var (
		out  []string
		cur  []rune
		q    rune
		open bool
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range s {
		switch {
		case open && r == q:
			open = false
			cur = append(cur, r)
		case !open && (r == '\'' || r == '"'):
			open = true
			q = r
			cur = append(cur, r)
		case !open && unicode.IsSpace(r):
			flush()
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return out
}

// Regions returns the index pairs of quoted substrings in s, in order.
// Each pair holds the indices of the opening and closing quote characters.
func Regions(s string) [][2]int {
	var (
		regions [][2]int
		start   = -1
		q       byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if start == -1 {
			if c == '\'' || c == '"' {
				start = i
				q = c
			}
		} else if c == q {
			regions = append(regions, [2]int{start, i})
			start = -1
		}
	}
	return regions
}

// Split divides s at each match of re that falls outside a quoted region.
// A non-positive limit splits at every such match; otherwise at most limit-1
// splits are made. Like regexp.Split, an input without matches yields a
// single field containing s.
func Split(s string, re *regexp.Regexp, limit int) []string {
	regions := Regions(s)
	inQuotes := func(lo, hi int) bool {
		for _, r := range regions {
			if lo > r[0] && hi <= r[1] {
				return true
			}
		}
		return false
	}
	var out []string
	last := 0
	for _, m := range re.FindAllStringIndex(s, -1) {
		if m[0] < last || m[1] == m[0] {
			continue
		}
		if inQuotes(m[0], m[1]) {
			continue
		}
		if limit > 0 && len(out) == limit-1 {
			break
		}
		out = append(out, s[last:m[0]])
		last = m[1]
	}
	return append(out, s[last:])
}
