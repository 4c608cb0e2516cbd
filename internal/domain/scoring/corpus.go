package scoring

import (
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/questboard/backend/internal/domain/search"
	"github.com/questboard/backend/internal/repository"
)

// Corpus is an immutable snapshot of document frequencies over the stored
// quest texts. Readers always see a complete snapshot; rebuilds swap the
// whole corpus at once.
type Corpus struct {
	version int64
	docs    int
	docFreq map[string]int
}

func BuildCorpus(version int64, texts []repository.QuestText) *Corpus {
	corpus := &Corpus{
		version: version,
		docs:    len(texts),
		docFreq: map[string]int{},
	}

	for _, text := range texts {
		seen := map[string]bool{}
		for _, term := range search.Tokenize(text.Title + " " + text.Description) {
			if seen[term] {
				continue
			}

			seen[term] = true
			corpus.docFreq[term]++
		}
	}

	return corpus
}

func (c *Corpus) Version() int64 {
	if c == nil {
		return 0
	}

	return c.version
}

func (c *Corpus) Empty() bool {
	return c == nil || c.docs == 0
}

// IDF uses smoothed inverse document frequency so unseen terms still carry
// weight instead of dividing by zero.
func (c *Corpus) IDF(term string) float64 {
	if c.Empty() {
		return 0
	}

	return math.Log(float64(1+c.docs)/float64(1+c.docFreq[term])) + 1
}

// Vectorize builds the tf-idf weight vector of a text under this corpus.
func (c *Corpus) Vectorize(text string) map[string]float64 {
	tokens := search.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	counts := map[string]int{}
	for _, token := range tokens {
		counts[token]++
	}

	vector := make(map[string]float64, len(counts))
	for term, count := range counts {
		vector[term] = float64(count) / float64(len(tokens)) * c.IDF(term)
	}

	return vector
}

// sortedTerms fixes the accumulation order so floating-point sums never
// depend on map iteration.
func sortedTerms(vector map[string]float64) []string {
	terms := maps.Keys(vector)
	slices.Sort(terms)
	return terms
}

func cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for _, term := range sortedTerms(a) {
		weight := a[term]
		normA += weight * weight
		if other, ok := b[term]; ok {
			dot += weight * other
		}
	}

	for _, term := range sortedTerms(b) {
		normB += b[term] * b[term]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
