package services

import (
	"sort"
	"strings"
	"unicode"

	"symptom-checker-server/internal/models"
)

// Field weights for symptom text relevance.
const (
	nameWeight       = 5
	synonymWeight    = 3
	searchTextWeight = 1

	// Terms at least this long also match as a word prefix, so "tired"
	// finds "tiredness".
	minPrefixTerm = 3
)

// tokenize lowercases s and splits it on anything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func searchTerms(search string) []string {
	terms := tokenize(search)
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0]
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func termHits(term string, tokens []string) int {
	hits := 0
	for _, tok := range tokens {
		if tok == term || (len(term) >= minPrefixTerm && strings.HasPrefix(tok, term)) {
			hits++
		}
	}
	return hits
}

// relevance scores a symptom against the search terms. Zero means no term
// matched any indexed field.
func relevance(s *models.Symptom, terms []string) int {
	name := tokenize(s.Name)
	var synonyms []string
	for _, syn := range s.Synonyms {
		synonyms = append(synonyms, tokenize(syn)...)
	}
	text := tokenize(s.SearchableText)

	score := 0
	for _, term := range terms {
		score += nameWeight * termHits(term, name)
		score += synonymWeight * termHits(term, synonyms)
		score += searchTextWeight * termHits(term, text)
	}
	return score
}

// rankBySearch keeps symptoms with positive relevance, ordered by relevance
// desc, common desc, name asc, id asc.
func rankBySearch(candidates []*models.Symptom, search string) []*models.Symptom {
	terms := searchTerms(search)
	if len(terms) == 0 {
		return []*models.Symptom{}
	}

	type scored struct {
		symptom *models.Symptom
		score   int
	}
	hits := make([]scored, 0, len(candidates))
	for _, s := range candidates {
		if score := relevance(s, terms); score > 0 {
			hits = append(hits, scored{symptom: s, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.symptom.Common != b.symptom.Common {
			return a.symptom.Common
		}
		if a.symptom.Name != b.symptom.Name {
			return a.symptom.Name < b.symptom.Name
		}
		return a.symptom.ID < b.symptom.ID
	})

	out := make([]*models.Symptom, len(hits))
	for i, h := range hits {
		out[i] = h.symptom
	}
	return out
}
