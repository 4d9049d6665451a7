// Package engine is the query façade: the only entry point the transport
// layer calls. It wires admission control, the reference index, the search
// engine, and the verse composer, and returns typed results or typed
// failure kinds — never user-facing messages or status codes.
package engine

import (
	"sort"

	"github.com/ekurt/qurancorpus/core/corpus"
	"github.com/ekurt/qurancorpus/core/errors"
	"github.com/ekurt/qurancorpus/core/ratelimit"
	"github.com/ekurt/qurancorpus/core/search"
)

// Engine answers all corpus queries over one immutable snapshot.
type Engine struct {
	corpus  *corpus.Corpus
	search  *search.Engine
	limiter *ratelimit.Limiter
}

// New wires a snapshot and a limiter into an engine. The search index is
// built here, before serving begins.
func New(c *corpus.Corpus, l *ratelimit.Limiter) *Engine {
	return &Engine{
		corpus:  c,
		search:  search.New(c),
		limiter: l,
	}
}

// Corpus exposes the underlying snapshot for read-only use.
func (e *Engine) Corpus() *corpus.Corpus {
	return e.corpus
}

// Admit consults the rate limiter for clientID against the wall clock.
func (e *Engine) Admit(clientID string) bool {
	return e.limiter.AdmitNow(clientID)
}

// Limiter exposes the limiter, for transport-layer headers.
func (e *Engine) Limiter() *ratelimit.Limiter {
	return e.limiter
}

// GetVerse returns the fully enriched record for (sura, verse).
func (e *Engine) GetVerse(sura, verse int) (*corpus.VerseRecord, error) {
	ref := corpus.VerseRef{Sura: sura, Verse: verse}
	if !ref.Valid() {
		return nil, errors.NewValidation("reference", "sura must be 1..114 and verse positive")
	}
	return e.corpus.ComposeFull(ref)
}

// SurahResult is the surah metadata with its ordered verses.
type SurahResult struct {
	Surah      int               `json:"surah"`
	Name       string            `json:"name"`
	VerseCount int               `json:"verse_count"`
	Verses     []SurahVerseEntry `json:"verses"`
}

// SurahVerseEntry is one verse row of a surah listing.
type SurahVerseEntry struct {
	VerseNumber int    `json:"verse_number"`
	Reference   string `json:"reference"`
	Text        string `json:"text"`
}

// GetSurah returns a surah's metadata and its verses in verse order.
func (e *Engine) GetSurah(number int) (*SurahResult, error) {
	if number < 1 || number > corpus.SuraCount {
		return nil, errors.NewValidation("surah", "must be between 1 and 114")
	}
	info, ok := e.corpus.SurahInfo(number)
	if !ok {
		return nil, errors.NewNotFound("surah", "")
	}
	verses := e.corpus.VersesOf(number)
	entries := make([]SurahVerseEntry, len(verses))
	for i, v := range verses {
		entries[i] = SurahVerseEntry{
			VerseNumber: v.Ref.Verse,
			Reference:   v.Ref.String(),
			Text:        v.Arabic,
		}
	}
	return &SurahResult{
		Surah:      number,
		Name:       info.Name,
		VerseCount: info.VerseCount,
		Verses:     entries,
	}, nil
}

// Search runs a query under a mode string ("word", "root", "lemma";
// anything else defaults to word).
func (e *Engine) Search(query, mode string, limit int) ([]search.Match, error) {
	return e.search.Search(query, search.ParseMode(mode), limit)
}

// GetMorphology returns the ordered morphology segments of (sura, verse).
// A verse without morphology rows is not found, matching the segment-level
// contract; graceful fallback segmentation belongs to GetVerse.
func (e *Engine) GetMorphology(sura, verse int) ([]corpus.MorphologySegment, error) {
	ref := corpus.VerseRef{Sura: sura, Verse: verse}
	if !e.corpus.Has(ref) {
		return nil, errors.NewNotFound("verse", ref.String())
	}
	segs := e.corpus.Morphology(ref)
	if len(segs) == 0 {
		if !e.corpus.Available(corpus.DatasetMorphology) {
			return nil, errors.NewUnavailable(corpus.DatasetMorphology)
		}
		return nil, errors.NewNotFound("morphology", ref.String())
	}
	return segs, nil
}

// RootResult is a root's reference list with composed verse records.
type RootResult struct {
	Root       string                `json:"root"`
	Count      int                   `json:"count"`
	References []string              `json:"references"`
	Verses     []*corpus.VerseRecord `json:"verses"`
}

// GetRoot returns the occurrences of a root together with the composed
// records of the verses they occur in (deduplicated, corpus order).
func (e *Engine) GetRoot(root string) (*RootResult, error) {
	refs, ok := e.corpus.Root(root)
	if !ok {
		return nil, errors.NewNotFound("root", root)
	}
	result := &RootResult{
		Root:       root,
		Count:      len(refs),
		References: make([]string, len(refs)),
	}
	seen := make(map[corpus.VerseRef]bool, len(refs))
	for i, ref := range refs {
		result.References[i] = ref.String()
		if seen[ref] {
			continue
		}
		seen[ref] = true
		rec, err := e.corpus.Compose(ref)
		if err != nil {
			// The index only holds refs present in the verse table.
			return nil, errors.Wrap(errors.ErrInternal, "composing root verse")
		}
		result.Verses = append(result.Verses, rec)
	}
	return result, nil
}

// ListRoots returns up to limit root strings in sorted order.
func (e *Engine) ListRoots(limit int) []string {
	keys := e.corpus.RootKeys()
	limit = search.ClampLimit(limit)
	if len(keys) > limit {
		keys = keys[:limit]
	}
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// TranslationEntry is one translator's text for a verse.
type TranslationEntry struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
	Text string `json:"text"`
}

// GetTranslations returns every translation covering (sura, verse), the
// primary single-meal table first, then registry order.
func (e *Engine) GetTranslations(sura, verse int) ([]TranslationEntry, error) {
	ref := corpus.VerseRef{Sura: sura, Verse: verse}
	if !e.corpus.Has(ref) {
		return nil, errors.NewNotFound("verse", ref.String())
	}
	var entries []TranslationEntry
	if text, ok := e.corpus.Translation(ref); ok {
		entries = append(entries, TranslationEntry{
			Code: e.corpus.PrimaryTranslator(),
			Text: text,
		})
	}
	for _, tr := range e.corpus.Translators() {
		if text, ok := tr.Verses[ref]; ok {
			entries = append(entries, TranslationEntry{
				Code: tr.Code,
				Name: tr.Name,
				Text: text,
			})
		}
	}
	if len(entries) == 0 {
		return nil, errors.NewNotFound("translation", ref.String())
	}
	return entries, nil
}

// GetWordByWord returns the per-position gloss list of (sura, verse).
func (e *Engine) GetWordByWord(sura, verse int) ([]corpus.WordGloss, error) {
	ref := corpus.VerseRef{Sura: sura, Verse: verse}
	if !e.corpus.Has(ref) {
		return nil, errors.NewNotFound("verse", ref.String())
	}
	glosses := e.corpus.WordByWord(ref)
	if len(glosses) == 0 {
		if !e.corpus.Available(corpus.DatasetWordByWord) {
			return nil, errors.NewUnavailable(corpus.DatasetWordByWord)
		}
		return nil, errors.NewNotFound("word-by-word gloss", ref.String())
	}
	return glosses, nil
}

// FilterMorphology returns segment hits filtered by exact POS tag and/or
// exact root.
func (e *Engine) FilterMorphology(posTag, root string, limit int) []search.Match {
	return e.search.FilterSegments(posTag, root, limit)
}

// WordFrequency returns up to limit entries of the frequency table,
// descending by count.
func (e *Engine) WordFrequency(limit int) []corpus.WordCount {
	return e.corpus.Frequency(search.ClampLimit(limit))
}

// ExportRecord is one verse of a plain export.
type ExportRecord struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// Export returns plain records for a single verse (verse > 0) or a whole
// sura (verse == 0).
func (e *Engine) Export(sura, verse int) ([]ExportRecord, error) {
	if sura < 1 || sura > corpus.SuraCount {
		return nil, errors.NewValidation("surah", "must be between 1 and 114")
	}
	if verse > 0 {
		ref := corpus.VerseRef{Sura: sura, Verse: verse}
		v, ok := e.corpus.Lookup(ref)
		if !ok {
			return nil, errors.NewNotFound("verse", ref.String())
		}
		return []ExportRecord{{Reference: ref.String(), Text: v.Arabic}}, nil
	}
	verses := e.corpus.VersesOf(sura)
	if len(verses) == 0 {
		return nil, errors.NewNotFound("surah", "")
	}
	records := make([]ExportRecord, len(verses))
	for i, v := range verses {
		records[i] = ExportRecord{Reference: v.Ref.String(), Text: v.Arabic}
	}
	return records, nil
}

// GetStatistics reports per-dataset counts for the snapshot.
func (e *Engine) GetStatistics() corpus.Statistics {
	return e.corpus.Stats()
}

// TopRoots returns the limit roots with the most occurrences, descending,
// ties broken alphabetically.
func (e *Engine) TopRoots(limit int) []RootCount {
	keys := e.corpus.RootKeys()
	counts := make([]RootCount, 0, len(keys))
	for _, root := range keys {
		refs, _ := e.corpus.Root(root)
		counts = append(counts, RootCount{Root: root, Count: len(refs)})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	limit = search.ClampLimit(limit)
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// RootCount is one row of a root occurrence ranking.
type RootCount struct {
	Root  string `json:"root"`
	Count int    `json:"count"`
}
