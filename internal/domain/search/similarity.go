package search

import (
	"math"
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// Tokenize lowercases the text and splits it into alphanumeric word tokens,
// dropping single characters.
func Tokenize(text string) []string {
	tokens := []string{}
	for _, tok := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(tok) < 2 {
			continue
		}
		tokens = append(tokens, tok)
	}

	return tokens
}

// Similarity returns the cosine similarity of the term-frequency vectors of
// two texts, in [0, 1]. It is symmetric and deterministic.
func Similarity(a, b string) float64 {
	va := termFrequencies(Tokenize(a))
	vb := termFrequencies(Tokenize(b))
	if len(va) == 0 || len(vb) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for term, fa := range va {
		normA += fa * fa
		if fb, ok := vb[term]; ok {
			dot += fa * fb
		}
	}
	for _, fb := range vb {
		normB += fb * fb
	}

	if dot == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func termFrequencies(tokens []string) map[string]float64 {
	freq := map[string]float64{}
	for _, tok := range tokens {
		freq[tok]++
	}

	return freq
}
