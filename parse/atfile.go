package parse

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/deep-rent/cling/internal/quote"
)

// expandAtFiles replaces every @file token with the tokens read from that
// file, recursively. A token starting with "@@" is passed through with one
// "@" stripped, and a reference to a file that does not exist stays in the
// input verbatim. Lines starting with the comment byte are skipped, and
// quoted substrings within a line stay together as one token.
func expandAtFiles(args []string, comment byte) ([]string, error) {
	e := &expander{comment: comment, seen: make(map[string]bool)}
	return e.expand(args)
}

type expander struct {
	comment byte
	seen    map[string]bool
}

func (e *expander) expand(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, tok := range args {
		switch {
		case strings.HasPrefix(tok, "@@"):
			out = append(out, tok[1:])
		case len(tok) > 1 && tok[0] == '@':
			expanded, err := e.expandFile(tok)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		default:
			out = append(out, tok)
		}
	}
	return out, nil
}

func (e *expander) expandFile(tok string) ([]string, error) {
	path := tok[1:]
	data, err := os.ReadFile(path)
	if err != nil {
		// Unreadable references stay in the input; the parser decides
		// whether they match anything.
		return []string{tok}, nil
	}
	if e.seen[path] {
		return nil, fmt.Errorf("parse: cyclic argument file reference %q", path)
	}
	e.seen[path] = true
	defer delete(e.seen, path)

	var toks []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == e.comment {
			continue
		}
		toks = append(toks, quote.Fields(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse: reading argument file %q: %w", path, err)
	}
	return e.expand(toks)
}
