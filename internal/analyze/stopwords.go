package analyze

// stopwords is the 81-word English stopword set used consistently across the
// indexer, batch query, and hybrid query paths.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "as": {}, "is": {}, "was": {}, "are": {}, "were": {}, "been": {},
	"be": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {}, "might": {},
	"must": {}, "shall": {}, "can": {}, "need": {}, "it": {}, "its": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "i": {}, "you": {},
	"he": {}, "she": {}, "we": {}, "they": {}, "what": {}, "which": {},
	"who": {}, "whom": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"all": {}, "each": {}, "every": {}, "both": {}, "few": {}, "more": {},
	"most": {}, "other": {}, "some": {}, "such": {}, "no": {}, "nor": {},
	"not": {}, "only": {}, "own": {}, "same": {}, "so": {}, "than": {},
	"too": {}, "very": {}, "just": {}, "also": {}, "now": {},
}

func isStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}
