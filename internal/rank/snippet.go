package rank

import (
	"strings"
	"unicode"
)

// SnippetWords is the fixed window size for a result snippet.
const SnippetWords = 30

// Marker renders a matched word for the caller; the REPL uses ANSI bold-red,
// the HTTP path wraps it in single quotes, mirroring the forCli bool branch
// in the source this was ported from.
type Marker func(word string) string

// AnsiBoldRed wraps a matched word in ANSI bold-red escapes for terminal
// output.
func AnsiBoldRed(word string) string { return "\033[1;31m" + word + "\033[0m" }

// QuoteMark wraps a matched word in single quotes for non-terminal output.
func QuoteMark(word string) string { return "'" + word + "'" }

// Snippet produces a SnippetWords-word window over text maximizing the
// number of distinct queryTerms it contains, with "... " / " ..." boundary
// markers and matched words rendered via mark.
func Snippet(text string, queryTerms []string, mark Marker) string {
	qTerms := make(map[string]struct{}, len(queryTerms))
	for _, t := range queryTerms {
		qTerms[t] = struct{}{}
	}

	docWords := strings.Fields(text)
	if len(docWords) == 0 {
		return ""
	}

	bestStart := 0
	maxScore := -1
	for i := 0; i <= len(docWords)-SnippetWords; i++ {
		found := make(map[string]struct{})
		end := i + SnippetWords
		if end > len(docWords) {
			end = len(docWords)
		}
		for j := i; j < end; j++ {
			w := normalizeWord(docWords[j])
			if _, ok := qTerms[w]; ok {
				found[w] = struct{}{}
			}
		}
		if len(found) > maxScore {
			maxScore = len(found)
			bestStart = i
		}
	}
	if maxScore <= 0 {
		bestStart = 0
	}

	var sb strings.Builder
	if bestStart > 0 {
		sb.WriteString("... ")
	}
	end := bestStart + SnippetWords
	if end > len(docWords) {
		end = len(docWords)
	}
	for i := bestStart; i < end; i++ {
		w := docWords[i]
		if _, ok := qTerms[normalizeWord(w)]; ok {
			sb.WriteString(mark(w))
		} else {
			sb.WriteString(w)
		}
		sb.WriteByte(' ')
	}
	if end < len(docWords) {
		sb.WriteString("...")
	}
	return sb.String()
}

// normalizeWord lowercases w and strips surrounding punctuation for
// comparison against query terms.
func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimFunc(w, unicode.IsPunct))
}
