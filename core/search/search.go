// Package search locates verses matching a query string under word, root,
// and lemma modes over the loaded corpus snapshot.
//
// All scans run against immutable data and are safe for concurrent use.
// Result ordering is deterministic: corpus order (sura, verse, position)
// within a pass, and in word mode translation hits always precede Arabic
// hits regardless of limit.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ekurt/qurancorpus/core/corpus"
	"github.com/ekurt/qurancorpus/core/errors"
)

// Mode selects the search strategy.
type Mode int

const (
	// ModeWord scans translation text case-insensitively, then Arabic text exactly.
	ModeWord Mode = iota
	// ModeRoot matches the query exactly against root index keys.
	ModeRoot
	// ModeLemma substring-matches morphology segment lemmas.
	ModeLemma
)

// ParseMode maps a request string to a Mode. Unknown values fall back to
// word mode, matching the default of the query parameter.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "root":
		return ModeRoot
	case "lemma":
		return ModeLemma
	default:
		return ModeWord
	}
}

func (m Mode) String() string {
	switch m {
	case ModeRoot:
		return "root"
	case ModeLemma:
		return "lemma"
	default:
		return "word"
	}
}

const (
	// DefaultLimit applies when the caller passes a non-positive limit.
	DefaultLimit = 50
	// MaxLimit bounds response size; larger requested limits are capped,
	// not rejected.
	MaxLimit = 500
	// MinQueryLen is the minimum query length in runes after trimming.
	MinQueryLen = 2
)

// Match is one search hit.
type Match struct {
	Reference string `json:"reference"`
	Sura      int    `json:"sura"`
	Verse     int    `json:"verse"`

	// Type tags where the hit came from: "translation", "arabic",
	// "root", or "lemma".
	Type string `json:"type"`

	Translator string `json:"translator,omitempty"`
	Text       string `json:"text,omitempty"`
	Word       string `json:"word,omitempty"`
	Root       string `json:"root,omitempty"`
	Lemma      string `json:"lemma,omitempty"`
	Position   int    `json:"position,omitempty"`
}

// Engine answers search queries over one corpus snapshot.
type Engine struct {
	c     *corpus.Corpus
	index *translationIndex
}

// New builds a search engine, including the translation inverted index,
// for the given snapshot.
func New(c *corpus.Corpus) *Engine {
	return &Engine{
		c:     c,
		index: buildTranslationIndex(c),
	}
}

// Search runs a query under the given mode. The query must be at least
// MinQueryLen runes after trimming; limit is clamped to MaxLimit. Zero
// matches is an empty result, not an error.
func (e *Engine) Search(query string, mode Mode, limit int) ([]Match, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLen {
		return nil, errors.NewValidation("q", "query must be at least 2 characters")
	}
	limit = ClampLimit(limit)

	switch mode {
	case ModeRoot:
		return e.searchRoot(query, limit), nil
	case ModeLemma:
		return e.searchLemma(query, limit), nil
	default:
		return e.searchWord(query, limit), nil
	}
}

// ClampLimit applies the default and the server-side ceiling.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// searchRoot is an exact lookup against the root index. The stored
// reference order is preserved, duplicates included.
func (e *Engine) searchRoot(root string, limit int) []Match {
	refs, ok := e.c.Root(root)
	if !ok {
		return []Match{}
	}
	if len(refs) > limit {
		refs = refs[:limit]
	}
	matches := make([]Match, 0, len(refs))
	for _, ref := range refs {
		m := Match{
			Reference: ref.String(),
			Sura:      ref.Sura,
			Verse:     ref.Verse,
			Type:      "root",
			Root:      root,
		}
		// Best-effort surface annotation from the morphology rows of
		// the verse, when a segment carries the queried root.
		for _, seg := range e.c.Morphology(ref) {
			if seg.Root == root {
				m.Word = seg.Surface
				m.Lemma = seg.Lemma
				break
			}
		}
		matches = append(matches, m)
	}
	return matches
}

// searchWord runs the two word-mode passes: translations first
// (case-insensitive), then Arabic text (exact) while below the limit.
func (e *Engine) searchWord(query string, limit int) []Match {
	matches := e.searchTranslations(query, limit)

	// The Arabic pass only runs while the accumulated count is below the
	// limit; translation hits always come first.
	if len(matches) < limit {
		remaining := limit - len(matches)
		for _, v := range e.c.Verses() {
			if !strings.Contains(v.Arabic, query) {
				continue
			}
			matches = append(matches, Match{
				Reference: v.Ref.String(),
				Sura:      v.Ref.Sura,
				Verse:     v.Ref.Verse,
				Type:      "arabic",
				Text:      v.Arabic,
			})
			remaining--
			if remaining == 0 {
				break
			}
		}
	}
	if matches == nil {
		matches = []Match{}
	}
	return matches
}

// searchTranslations scans translation text case-insensitively. Queries
// without whitespace go through the inverted index; the index walks the
// vocabulary instead of every verse text and yields the identical result
// set (a whitespace-free substring of a text always lies inside a single
// whitespace-delimited token). Whitespace here must mean exactly what the
// tokenizer's strings.Fields means: any Unicode space, not just ASCII.
func (e *Engine) searchTranslations(query string, limit int) []Match {
	lower := strings.ToLower(query)
	if strings.IndexFunc(lower, unicode.IsSpace) < 0 {
		return e.index.lookup(e.c, lower, limit)
	}
	return e.scanTranslations(lower, limit)
}

// scanTranslations is the naive linear pass: verses in corpus order, the
// primary translation before registry translators within each verse.
func (e *Engine) scanTranslations(lowerQuery string, limit int) []Match {
	var matches []Match
	translators := e.c.Translators()
	for _, v := range e.c.Verses() {
		if text, ok := e.c.Translation(v.Ref); ok {
			if strings.Contains(strings.ToLower(text), lowerQuery) {
				matches = append(matches, translationMatch(v.Ref, e.c.PrimaryTranslator(), text))
				if len(matches) == limit {
					return matches
				}
			}
		}
		for _, tr := range translators {
			text, ok := tr.Verses[v.Ref]
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(text), lowerQuery) {
				matches = append(matches, translationMatch(v.Ref, tr.Code, text))
				if len(matches) == limit {
					return matches
				}
			}
		}
	}
	return matches
}

func translationMatch(ref corpus.VerseRef, translator, text string) Match {
	return Match{
		Reference:  ref.String(),
		Sura:       ref.Sura,
		Verse:      ref.Verse,
		Type:       "translation",
		Translator: translator,
		Text:       text,
	}
}

// searchLemma substring-matches segment lemmas across all verses,
// returning segment-level hits in corpus order.
func (e *Engine) searchLemma(query string, limit int) []Match {
	matches := []Match{}
	for _, v := range e.c.Verses() {
		for _, seg := range e.c.Morphology(v.Ref) {
			if !strings.Contains(seg.Lemma, query) {
				continue
			}
			matches = append(matches, Match{
				Reference: v.Ref.String(),
				Sura:      v.Ref.Sura,
				Verse:     v.Ref.Verse,
				Type:      "lemma",
				Word:      seg.Surface,
				Root:      seg.Root,
				Lemma:     seg.Lemma,
				Position:  seg.Position,
			})
			if len(matches) == limit {
				return matches
			}
		}
	}
	return matches
}

// FilterSegments returns segment hits matching an exact POS tag and/or an
// exact root, in corpus order. Empty filters match everything.
func (e *Engine) FilterSegments(posTag, root string, limit int) []Match {
	limit = ClampLimit(limit)
	matches := []Match{}
	for _, v := range e.c.Verses() {
		for _, seg := range e.c.Morphology(v.Ref) {
			if posTag != "" && seg.POSTag != posTag {
				continue
			}
			if root != "" && seg.Root != root {
				continue
			}
			matches = append(matches, Match{
				Reference: v.Ref.String(),
				Sura:      v.Ref.Sura,
				Verse:     v.Ref.Verse,
				Type:      "morphology",
				Word:      seg.Surface,
				Root:      seg.Root,
				Lemma:     seg.Lemma,
				Position:  seg.Position,
			})
			if len(matches) == limit {
				return matches
			}
		}
	}
	return matches
}
