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

// Package casing converts camelCase identifiers to the kebab-case and
// lowercase forms conventional on the command line.
package casing

import (
	"strings"
	"unicode"
)

// Kebab converts a camelCase string to a lowercase kebab-case string.
//
// For example, "dryRun" is converted to "dry-run", and so is "DRYRun". Note
// that digits do not induce transitions, so "ipv6" stays "ipv6".
func Kebab(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 5)
	runes := []rune(s)
	for i, r := range runes {
		// Insert a dash before a capital letter starting a new word.
		if i != 0 {
			q := runes[i-1]
			if (unicode.IsLower(q) &&
				// Case 1: Lowercase to uppercase transition ("dryRun").
				unicode.IsUpper(r)) ||
				(unicode.IsUpper(q) &&
					// Case 2: Acronym to new word transition ("DRYRun").
					unicode.IsUpper(r) &&
					i+1 < len(runes) &&
					unicode.IsLower(runes[i+1])) {
				b.WriteRune('-')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
