package corpus

import (
	"github.com/ekurt/qurancorpus/core/errors"
)

// VerseRecord is one enriched verse: the primary verse joined with every
// dataset that has data for its reference. Optional datasets that are
// missing leave their fields empty; only a missing primary verse is an error.
type VerseRecord struct {
	Reference string `json:"reference"`
	Sura      int    `json:"sura"`
	Verse     int    `json:"verse"`
	Arabic    string `json:"arabic"`
	SurahName string `json:"surah_name,omitempty"`

	// Translations maps translator code to text for every translator
	// covering this verse, the primary single-meal table included.
	Translations map[string]string `json:"translations,omitempty"`

	Transliteration string `json:"transliteration,omitempty"`
	Tafsir          string `json:"tafsir,omitempty"`

	// HasMorphology is false when the verse has no morphology rows; Words
	// then carries the bare whitespace segmentation.
	HasMorphology bool        `json:"has_morphology"`
	SegmentCount  int         `json:"segment_count,omitempty"`
	Words         []WordEntry `json:"words,omitempty"`
}

// WordEntry is one surface token of a verse, positionally joined with its
// morphology segment and word-by-word gloss.
//
// The join is best-effort: the morphology dataset segments clitics apart
// while the surface text splits on whitespace, so the two sequences may
// have different lengths. Tokens beyond the shorter sequence keep empty
// fields; segments beyond the token count are dropped.
type WordEntry struct {
	Position   int    `json:"position"`
	Arabic     string `json:"arabic"`
	Buckwalter string `json:"buckwalter,omitempty"`
	Root       string `json:"root,omitempty"`
	Lemma      string `json:"lemma,omitempty"`
	POSTag     string `json:"pos_tag,omitempty"`
	Gloss      string `json:"gloss,omitempty"`
}

// Compose returns the enriched record for ref: verse, surah name, and all
// translations covering it. The only failure is a reference absent from
// the primary verse table.
func (c *Corpus) Compose(ref VerseRef) (*VerseRecord, error) {
	v, ok := c.Lookup(ref)
	if !ok {
		return nil, errors.NewNotFound("verse", ref.String())
	}

	rec := &VerseRecord{
		Reference: ref.String(),
		Sura:      ref.Sura,
		Verse:     ref.Verse,
		Arabic:    v.Arabic,
		SurahName: v.SurahName,
	}
	if rec.SurahName == "" {
		if s, ok := c.SurahInfo(ref.Sura); ok {
			rec.SurahName = s.Name
		}
	}

	translations := make(map[string]string)
	if t, ok := c.Translation(ref); ok {
		translations[c.primaryCode] = t
	}
	for _, tr := range c.translators {
		if t, ok := tr.Verses[ref]; ok {
			translations[tr.Code] = t
		}
	}
	if len(translations) > 0 {
		rec.Translations = translations
	}
	return rec, nil
}

// ComposeFull returns the record of Compose with every optional dataset
// folded in: transliteration, tafsir, and the positional word join of
// morphology and word-by-word glosses. Partial data is not a failure.
func (c *Corpus) ComposeFull(ref VerseRef) (*VerseRecord, error) {
	rec, err := c.Compose(ref)
	if err != nil {
		return nil, err
	}

	if t, ok := c.Transliteration(ref); ok {
		rec.Transliteration = t
	}
	if t, ok := c.Tafsir(ref); ok {
		rec.Tafsir = t
	}

	segs := c.Morphology(ref)
	glosses := c.WordByWord(ref)
	rec.HasMorphology = len(segs) > 0
	rec.SegmentCount = len(segs)
	rec.Words = alignWords(rec.Arabic, segs, glosses)
	return rec, nil
}

// alignWords joins surface tokens with morphology segments and glosses by
// position index. The result always has exactly one entry per surface token.
func alignWords(arabic string, segs []MorphologySegment, glosses []WordGloss) []WordEntry {
	tokens := ArabicTokens(arabic)
	if len(tokens) == 0 {
		return nil
	}
	words := make([]WordEntry, len(tokens))
	for i, tok := range tokens {
		w := WordEntry{
			Position: i + 1,
			Arabic:   tok,
		}
		if i < len(segs) {
			w.Buckwalter = segs[i].Buckwalter
			w.Root = segs[i].Root
			w.Lemma = segs[i].Lemma
			w.POSTag = segs[i].POSTag
		}
		if i < len(glosses) {
			w.Gloss = glosses[i].Gloss
		}
		words[i] = w
	}
	return words
}
