// Package tag parses struct tags of the form "name,opt1,key:value,...".
// The first segment names the tagged member; the remaining comma-separated
// segments are options, either bare flags or key:value pairs. Values may be
// quoted to protect commas and colons.
package tag

import (
	"iter"
	"strings"
	"unicode"

	"github.com/deep-rent/cling/internal/quote"
)

// Tag is a parsed struct tag.
type Tag struct {
	// Name is the first comma-separated segment of the tag.
	Name string
	opts string
}

// Parse splits a raw tag string into its name and option segments.
func Parse(s string) *Tag {
	name, opts, _ := strings.Cut(s, ",")
	return &Tag{
		Name: name,
		opts: opts,
	}
}

// Names splits the name segment on whitespace. Command-line grammars use
// this to declare several option names in one tag ("-v --verbose").
func (t *Tag) Names() []string {
	return strings.Fields(t.Name)
}

// Opts iterates over the option segments as key/value pairs. Bare flags
// yield an empty value. Quoted values have their quotes removed.
func (t *Tag) Opts() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		rest := t.opts
		// Scan through the rest of the string until it's completely consumed.
		for rest != "" {
			// Trim leading space from the rest of the string.
			rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
			if rest == "" {
				break
			}

			// Find the end of the current option part by finding the next
			// comma that is not inside quotes.
			end := -1
			inQuote := false
			var q rune
			for i, r := range rest {
				if r == q {
					inQuote = false
					q = 0
				} else if !inQuote && (r == '\'' || r == '"') {
					inQuote = true
					q = r
				} else if !inQuote && r == ',' {
					end = i
					break
				}
			}

			var part string
			if end == -1 {
				// This is the last option part.
				part = rest
				rest = ""
			} else {
				part = rest[:end]
				rest = rest[end+1:]
			}

			// Now, parse the individual part (e.g., "default:'foo,bar'").
			k, v, found := strings.Cut(part, ":")
			if found {
				v = quote.Remove(v)
			}
			if !yield(strings.TrimRightFunc(k, unicode.IsSpace), v) {
				return
			}
		}
	}
}
