// Package suggest ranks candidate spellings for a mistyped word. It is used
// to propose corrections for unknown option names and subcommands.
//
// Similarity is measured as the cosine of the angle between character-bigram
// frequency vectors, so two words score higher the more adjacent character
// pairs they share. Comparison is case-insensitive.
package suggest

import (
	"math"
	"sort"
	"strings"
)

// Similarity returns the cosine similarity of the bigram frequency vectors
// of a and b, a value in [0,1]. Words that share no bigram score 0.
func Similarity(a, b string) float64 {
	va := bigrams(a)
	vb := bigrams(b)
	if len(va) == 0 || len(vb) == 0 {
		return 0
	}
	var dot, na, nb float64
	for g, n := range va {
		na += float64(n) * float64(n)
		if m, ok := vb[g]; ok {
			dot += float64(n) * float64(m)
		}
	}
	for _, m := range vb {
		nb += float64(m) * float64(m)
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Rank returns the candidates that bear any similarity to word, ordered from
// most to least similar. Candidates scoring 0 are omitted. Ties keep their
// input order.
func Rank(word string, candidates []string) []string {
	type scored struct {
		word  string
		score float64
	}
	var hits []scored
	for _, c := range candidates {
		if s := Similarity(word, c); s > 0 {
			hits = append(hits, scored{word: c, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.word
	}
	return out
}

// Best returns at most n of the highest-ranked candidates for word.
func Best(word string, candidates []string, n int) []string {
	ranked := Rank(word, candidates)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// bigrams counts the adjacent rune pairs of the lower-cased word.
func bigrams(s string) map[string]int {
	runes := []rune(strings.ToLower(s))
	if len(runes) < 2 {
		return nil
	}
	v := make(map[string]int, len(runes)-1)
	for i := 0; i+1 < len(runes); i++ {
		v[string(runes[i:i+2])]++
	}
	return v
}
