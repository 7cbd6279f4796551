package analyze

import "strings"

// stem applies the Porter stemming algorithm (steps 1a-5) to a lowercase word.
// Words of length <= 2 are returned unchanged.
func stem(w string) string {
	if len(w) <= 2 {
		return w
	}
	s := w

	// Step 1a
	switch {
	case ends(s, "sses"):
		s = replace(s, "sses", "ss")
	case ends(s, "ies"):
		s = replace(s, "ies", "i")
	case !ends(s, "ss") && ends(s, "s"):
		s = s[:len(s)-1]
	}

	// Step 1b
	flagged := false
	switch {
	case ends(s, "eed"):
		if measure(s[:len(s)-3]) > 0 {
			s = replace(s, "eed", "ee")
		}
	case ends(s, "ed"):
		t := s[:len(s)-2]
		if hasVowel(t) {
			s = t
			flagged = true
		}
	case ends(s, "ing"):
		t := s[:len(s)-3]
		if hasVowel(t) {
			s = t
			flagged = true
		}
	}
	if flagged {
		switch {
		case ends(s, "at") || ends(s, "bl") || ends(s, "iz"):
			s += "e"
		case doubleConsonant(s) && !strings.HasSuffix(s, "l") && !strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "z"):
			s = s[:len(s)-1]
		case measure(s) == 1 && cvc(s):
			s += "e"
		}
	}

	// Step 1c
	if ends(s, "y") && hasVowel(s[:len(s)-1]) {
		s = replace(s, "y", "i")
	}

	// Step 2
	s = applySuffixRules(s, step2Rules, func(stem string) bool { return measure(stem) > 0 })

	// Step 3
	s = applySuffixRules(s, step3Rules, func(stem string) bool { return measure(stem) > 0 })

	// Step 4
	for _, suf := range step4Suffixes {
		if ends(s, suf) {
			t := s[:len(s)-len(suf)]
			if measure(t) > 1 {
				if suf == "ion" {
					if len(t) > 0 && (t[len(t)-1] == 's' || t[len(t)-1] == 't') {
						s = t
					}
				} else {
					s = t
				}
			}
			break
		}
	}

	// Step 5
	if ends(s, "e") {
		t := s[:len(s)-1]
		mm := measure(t)
		if mm > 1 || (mm == 1 && !cvc(t)) {
			s = t
		}
	}
	if measure(s) > 1 && doubleConsonant(s) && strings.HasSuffix(s, "l") {
		s = s[:len(s)-1]
	}

	return s
}

type suffixRule struct {
	suffix, replacement string
}

var step2Rules = []suffixRule{
	{"ational", "ate"}, {"tional", "tion"}, {"enci", "ence"},
	{"anci", "ance"}, {"izer", "ize"}, {"abli", "able"},
	{"alli", "al"}, {"entli", "ent"}, {"eli", "e"}, {"ousli", "ous"},
	{"ization", "ize"}, {"ation", "ate"}, {"ator", "ate"},
	{"alism", "al"}, {"iveness", "ive"}, {"fulness", "ful"},
	{"ousness", "ous"}, {"aliti", "al"}, {"iviti", "ive"}, {"biliti", "ble"},
}

var step3Rules = []suffixRule{
	{"icate", "ic"}, {"ative", ""}, {"alize", "al"},
	{"iciti", "ic"}, {"ical", "ic"}, {"ful", ""}, {"ness", ""},
}

var step4Suffixes = []string{
	"al", "ance", "ence", "er", "ic", "able", "ible", "ant",
	"ement", "ment", "ent", "ion", "ou", "ism", "ate", "iti",
	"ous", "ive", "ize",
}

// applySuffixRules finds the first matching suffix rule and replaces it, only
// when the remaining stem passes cond; it stops at the first rule whose
// suffix matches regardless of cond, mirroring the original's break-on-match.
func applySuffixRules(s string, rules []suffixRule, cond func(string) bool) string {
	for _, r := range rules {
		if ends(s, r.suffix) {
			t := s[:len(s)-len(r.suffix)]
			if cond(t) {
				s = t + r.replacement
			}
			break
		}
	}
	return s
}

func ends(w, suf string) bool {
	return strings.HasSuffix(w, suf)
}

func replace(w, suf, repl string) string {
	return w[:len(w)-len(suf)] + repl
}

// isConsonant reports whether the byte at index i in w is a consonant,
// treating 'y' as a consonant at the start of w or after a vowel, and as a
// vowel after a consonant.
func isConsonant(w string, i int) bool {
	c := w[i]
	if c == 'a' || c == 'e' || c == 'i' || c == 'o' || c == 'u' {
		return false
	}
	if c == 'y' {
		if i == 0 {
			return true
		}
		return !isConsonant(w, i-1)
	}
	return true
}

// measure computes the Porter "m" value: the number of vowel-sequence
// followed-by-consonant-sequence pairs in w.
func measure(w string) int {
	m, i, n := 0, 0, len(w)
	for i < n && isConsonant(w, i) {
		i++
	}
	for i < n {
		for i < n && !isConsonant(w, i) {
			i++
		}
		if i >= n {
			break
		}
		m++
		for i < n && isConsonant(w, i) {
			i++
		}
	}
	return m
}

func hasVowel(w string) bool {
	for i := range w {
		if !isConsonant(w, i) {
			return true
		}
	}
	return false
}

// doubleConsonant reports whether w ends in a double consonant (e.g. "tt").
func doubleConsonant(w string) bool {
	n := len(w)
	return n >= 2 && w[n-1] == w[n-2] && isConsonant(w, n-1)
}

// cvc reports whether w ends in consonant-vowel-consonant, where the final
// consonant is not w, x, or y.
func cvc(w string) bool {
	n := len(w)
	return n >= 3 && isConsonant(w, n-1) && !isConsonant(w, n-2) && isConsonant(w, n-3) &&
		w[n-1] != 'w' && w[n-1] != 'x' && w[n-1] != 'y'
}
