package fuzzy

import (
	"strings"
)

// LevenshteinDistance calculates the edit distance between two strings:
// how many single-character edits (insertions, deletions, substitutions)
// are required to change one into the other.
func LevenshteinDistance(s1, s2 string) int {
	s1 = normalizeString(s1)
	s2 = normalizeString(s2)

	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}
	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			d[i][j] = min3(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[m][n]
}

// FuzzyMatch checks if query fuzzy-matches text within a given threshold
// (maximum allowed edit distance per word).
func FuzzyMatch(query, text string, threshold int) bool {
	query = normalizeString(query)
	text = normalizeString(text)

	if strings.Contains(text, query) {
		return true
	}

	words := strings.Fields(text)
	for _, word := range words {
		if LevenshteinDistance(query, word) <= threshold {
			return true
		}
		if strings.HasPrefix(word, query) {
			return true
		}
	}

	if len(text) < 50 {
		distance := LevenshteinDistance(query, text)
		maxDistance := threshold + len(query)/5
		if distance <= maxDistance {
			return true
		}
	}

	return false
}

// CalculateRelevanceScore scores how relevant a reading is to a query.
// Higher score = more relevant. Searches the content kind label and the
// brief text more heavily than the full text.
func CalculateRelevanceScore(query, kind, brief, full string) float64 {
	query = normalizeString(query)
	score := 0.0

	kindNorm := normalizeString(strings.ReplaceAll(kind, "_", " "))
	if strings.Contains(kindNorm, query) {
		score += 100.0
		if containsWord(kindNorm, query) {
			score += 50.0
		}
	}

	briefNorm := normalizeString(brief)
	if strings.Contains(briefNorm, query) {
		score += 80.0
		if containsWord(briefNorm, query) {
			score += 30.0
		}
	} else {
		for _, word := range strings.Fields(briefNorm) {
			dist := LevenshteinDistance(query, word)
			if dist <= 2 {
				score += 40.0 - float64(dist)*12
			}
			if strings.HasPrefix(word, query) {
				score += 35.0
			}
		}
	}

	fullNorm := normalizeString(full)
	if strings.Contains(fullNorm, query) {
		score += 60.0
	}

	return score
}

// FuzzyMatchReading checks if a reading matches the query.
func FuzzyMatchReading(query, kind, brief, full string) bool {
	// Typo tolerance threshold based on query length
	threshold := 2
	if len(query) <= 3 {
		threshold = 1
	} else if len(query) >= 8 {
		threshold = 3
	}

	if FuzzyMatch(query, strings.ReplaceAll(kind, "_", " "), threshold) {
		return true
	}
	if FuzzyMatch(query, brief, threshold) {
		return true
	}

	// Only the head of the full text, for performance
	if len(full) > 0 {
		snippet := full
		if len(snippet) > 500 {
			snippet = snippet[:500]
		}
		if FuzzyMatch(query, snippet, threshold) {
			return true
		}
	}

	return false
}

// Helper functions

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// normalizeString converts to lowercase and collapses whitespace
func normalizeString(s string) string {
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// containsWord checks if text contains query as a whole word
func containsWord(text, query string) bool {
	words := strings.Fields(text)
	for _, word := range words {
		if word == query {
			return true
		}
	}
	return false
}
