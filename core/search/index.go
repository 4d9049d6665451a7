package search

import (
	"sort"
	"strings"

	"github.com/ekurt/qurancorpus/core/corpus"
)

// posting identifies one (verse, translation) text containing a token.
// trIdx 0 is the primary translation; registry translators follow 1-based,
// so sorting by (verseIdx, trIdx) reproduces the naive scan order.
type posting struct {
	verseIdx int
	trIdx    int
}

// translationIndex maps lowercased whitespace tokens of every translation
// text to the postings containing them. It is built once at load time and
// read-only afterwards.
type translationIndex struct {
	tokens map[string][]posting
}

// buildTranslationIndex indexes the primary translation and every registry
// translator over the verse table.
func buildTranslationIndex(c *corpus.Corpus) *translationIndex {
	idx := &translationIndex{tokens: make(map[string][]posting)}
	seen := make(map[string]posting) // dedup token within one text

	add := func(text string, p posting) {
		for k := range seen {
			delete(seen, k)
		}
		for _, tok := range strings.Fields(strings.ToLower(text)) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = p
			idx.tokens[tok] = append(idx.tokens[tok], p)
		}
	}

	for verseIdx, v := range c.Verses() {
		if text, ok := c.Translation(v.Ref); ok {
			add(text, posting{verseIdx: verseIdx, trIdx: 0})
		}
		for i, tr := range c.Translators() {
			if text, ok := tr.Verses[v.Ref]; ok {
				add(text, posting{verseIdx: verseIdx, trIdx: i + 1})
			}
		}
	}
	return idx
}

// lookup finds every translation text containing lowerQuery as a substring
// by walking the vocabulary: the union of postings of all tokens containing
// the query. Results are emitted in scan order and truncated to limit.
//
// This is exact for whitespace-free queries only; callers route queries
// containing whitespace to the linear scan instead.
func (idx *translationIndex) lookup(c *corpus.Corpus, lowerQuery string, limit int) []Match {
	hits := make(map[posting]struct{})
	for tok, postings := range idx.tokens {
		if !strings.Contains(tok, lowerQuery) {
			continue
		}
		for _, p := range postings {
			hits[p] = struct{}{}
		}
	}
	if len(hits) == 0 {
		return nil
	}

	ordered := make([]posting, 0, len(hits))
	for p := range hits {
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].verseIdx != ordered[j].verseIdx {
			return ordered[i].verseIdx < ordered[j].verseIdx
		}
		return ordered[i].trIdx < ordered[j].trIdx
	})
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	verses := c.Verses()
	translators := c.Translators()
	matches := make([]Match, 0, len(ordered))
	for _, p := range ordered {
		ref := verses[p.verseIdx].Ref
		var code, text string
		if p.trIdx == 0 {
			code = c.PrimaryTranslator()
			text, _ = c.Translation(ref)
		} else {
			tr := translators[p.trIdx-1]
			code = tr.Code
			text = tr.Verses[ref]
		}
		matches = append(matches, translationMatch(ref, code, text))
	}
	return matches
}
