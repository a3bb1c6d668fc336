package sof

import (
	"math"
	"strings"
	"unicode"
)

// ClassifierModel names the similarity model reported in extraction metadata.
const ClassifierModel = "token-cosine-v1"

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "by": true, "for": true,
	"from": true, "hrs": true, "in": true, "lt": true, "of": true, "on": true,
	"the": true, "then": true, "to": true, "with": true,
}

type synonym struct {
	text   string
	label  string
	vector map[string]float64
	norm   float64
}

// Classifier maps a line of text to the ontology label whose synonym is
// most similar under bag-of-stems cosine similarity.
type Classifier struct {
	synonyms []synonym
	size     int
}

// NewClassifier builds a classifier over ontology. Every label is also
// matched as its own synonym.
func NewClassifier(ontology *LabelSet) *Classifier {
	c := &Classifier{size: ontology.Len()}
	seen := map[string]bool{}
	for _, label := range ontology.Keys {
		for _, s := range append(append([]string{}, ontology.Get(label)...), label) {
			if seen[s] {
				continue
			}
			seen[s] = true
			vec := termVector(s)
			if len(vec) == 0 {
				continue
			}
			c.synonyms = append(c.synonyms, synonym{text: s, label: label, vector: vec, norm: norm(vec)})
		}
	}
	return c
}

// OntologySize returns the number of labels.
func (c *Classifier) OntologySize() int {
	return c.size
}

// Classify returns the best label, its score in [0, 1] and the synonym that
// matched. ok is false for blank text or when nothing overlaps.
func (c *Classifier) Classify(text string) (label string, score float64, matched string, ok bool) {
	q := termVector(text)
	if len(q) == 0 {
		return "", 0, "", false
	}
	qn := norm(q)
	best := -1
	for i, s := range c.synonyms {
		var dot float64
		for term, w := range s.vector {
			dot += w * q[term]
		}
		sim := dot / (qn * s.norm)
		if best < 0 || sim > score {
			best, score = i, sim
		}
	}
	if best < 0 || score == 0 {
		return "", 0, "", false
	}
	return c.synonyms[best].label, score, c.synonyms[best].text, true
}

func termVector(text string) map[string]float64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	vec := map[string]float64{}
	for _, w := range words {
		if stopWords[w] {
			continue
		}
		vec[stem(w)]++
	}
	return vec
}

func norm(vec map[string]float64) float64 {
	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// stem removes one common English suffix so that inflections such as
// commence, commenced and commencing share a term.
func stem(w string) string {
	for _, suffix := range []string{"ing", "ed", "es", "e", "s"} {
		if len(w)-len(suffix) < 3 || !strings.HasSuffix(w, suffix) {
			continue
		}
		w = strings.TrimSuffix(w, suffix)
		if (suffix == "ing" || suffix == "ed") && len(w) > 3 && w[len(w)-1] == w[len(w)-2] {
			w = w[:len(w)-1]
		}
		return w
	}
	return w
}
