// Package match resolves loosely typed artist names against known artists.
package match

import (
	"strings"
	"unicode"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

// MinArtistSimilarity is the lowest normalized similarity accepted as a match.
const MinArtistSimilarity = 0.75

var noiseTokens = map[string]struct{}{
	"the":       {},
	"feat":      {},
	"featuring": {},
	"ft":        {},
	"official":  {},
	"band":      {},
}

// Normalize lowercases the input, drops bracketed segments, punctuation and
// filler tokens, and collapses whitespace.
func Normalize(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	lower := strings.ToLower(input)
	tokens := strings.Fields(cleanSeparators(stripBracketedSegments(lower)))

	cleaned := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, drop := noiseTokens[token]; drop {
			continue
		}
		cleaned = append(cleaned, token)
	}
	if len(cleaned) == 0 {
		return strings.Join(tokens, " ")
	}
	return strings.Join(cleaned, " ")
}

// Similarity is 1 - levenshtein(a, b) / max(len(a), len(b)) over runes.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(a, b))/float64(maxLen)
}

// BestArtist returns the artist whose normalized name is closest to name.
// ok is false when nothing reaches MinArtistSimilarity.
func BestArtist(name string, artists []domain.Artist) (best domain.Artist, score float64, ok bool) {
	target := Normalize(name)
	if target == "" {
		return domain.Artist{}, 0, false
	}

	for _, a := range artists {
		s := Similarity(target, Normalize(a.Name))
		if s > score {
			best, score = a, s
		}
	}
	if score < MinArtistSimilarity {
		return domain.Artist{}, score, false
	}
	return best, score, true
}

func stripBracketedSegments(input string) string {
	var out strings.Builder
	depth := 0
	for _, r := range input {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				out.WriteRune(r)
			}
		}
	}
	return out.String()
}

func cleanSeparators(input string) string {
	var out strings.Builder
	lastSpace := false
	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			out.WriteRune(' ')
			lastSpace = true
		}
	}
	return out.String()
}

func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
