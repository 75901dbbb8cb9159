package verify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxKeywords = 10

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	trailingJunk    = regexp.MustCompile(`[\s\-–—:]+$`)
	wordPattern     = regexp.MustCompile(`[A-Za-z][\p{L}\p{N}_\-']+`)
	stopWords       = map[string]struct{}{}
	stopWordsSource = []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
		"is", "are", "was", "were", "be", "been", "being", "have", "has", "had", "do", "does",
		"did", "will", "would", "could", "should", "breaking", "news", "update", "report", "says",
		"after", "from", "as", "over", "under", "into", "than", "then", "new", "old", "amid",
		"amidst", "vs", "vs.",
	}
)

func init() {
	for _, w := range stopWordsSource {
		stopWords[w] = struct{}{}
	}
}

// Normalize collapses whitespace and strips trailing dashes, colons and
// spaces that vary between outlets.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	cleaned := strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	return trailingJunk.ReplaceAllString(cleaned, "")
}

func isStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// ExtractKeywords returns up to ten lower-cased search terms ordered by
// usefulness: proper nouns, then adjacent-word phrases, then single words.
func ExtractKeywords(text string) []string {
	tokens := wordPattern.FindAllString(text, -1)
	if len(tokens) == 0 {
		return nil
	}

	var unigrams []string
	var properNouns []string
	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		if !isStopWord(lower) && utf8.RuneCountInString(lower) > 2 {
			unigrams = append(unigrams, lower)
		}
		first, _ := utf8.DecodeRuneInString(tok)
		if unicode.IsUpper(first) && !isStopWord(lower) {
			properNouns = append(properNouns, lower)
		}
	}

	bigrams := make([]string, 0, len(unigrams))
	for i := 0; i+1 < len(unigrams); i++ {
		bigrams = append(bigrams, unigrams[i]+" "+unigrams[i+1])
	}

	out := make([]string, 0, maxKeywords)
	seen := make(map[string]struct{}, maxKeywords)
	for _, tier := range [][]string{properNouns, bigrams, unigrams} {
		for _, term := range tier {
			if len(out) == maxKeywords {
				return out
			}
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			out = append(out, term)
		}
	}
	return out
}

// searchQuery joins the three strongest keywords, falling back to the first
// three words of the headline when nothing survives extraction.
func searchQuery(headline string, keywords []string) string {
	if len(keywords) == 0 {
		return strings.Join(firstN(strings.Fields(headline), 3), " ")
	}
	return strings.Join(firstN(keywords, 3), " ")
}
