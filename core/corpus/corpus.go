// Package corpus holds the immutable in-memory corpus snapshot: the primary
// verse table, the VerseRef-keyed reference index, every secondary dataset,
// and the verse composer that joins them.
//
// The snapshot is built once by New before serving begins and never mutated
// afterwards, so concurrent reads need no locking.
package corpus

import (
	"sort"
	"strings"
)

// Corpus is the read-only corpus snapshot.
type Corpus struct {
	verses []Verse          // corpus order: sura ascending, verse ascending
	byRef  map[VerseRef]int // reference index: ref -> offset into verses
	bySura map[int][]int    // sura -> ordered offsets into verses

	surahs map[int]SurahInfo

	primaryCode string
	translation map[VerseRef]string
	translators []Translator

	morphology      map[VerseRef][]MorphologySegment
	wordByWord      map[VerseRef][]WordGloss
	transliteration map[VerseRef]string
	tafsir          map[VerseRef]string

	roots     map[string][]VerseRef
	rootOrder []string // sorted root keys

	frequency []WordCount

	checksums map[string]string
	failed    map[string]string
}

// New builds the corpus snapshot from loader-supplied datasets. Secondary
// rows whose reference is absent from the verse table are dropped and
// counted in the report; construction never fails on partial data.
func New(ds Datasets) (*Corpus, BuildReport) {
	c := &Corpus{
		verses:          make([]Verse, 0, len(ds.Verses)),
		byRef:           make(map[VerseRef]int, len(ds.Verses)),
		bySura:          make(map[int][]int),
		surahs:          make(map[int]SurahInfo, len(ds.Surahs)),
		primaryCode:     ds.PrimaryTranslator,
		translation:     make(map[VerseRef]string, len(ds.Translation)),
		morphology:      make(map[VerseRef][]MorphologySegment, len(ds.Morphology)),
		wordByWord:      make(map[VerseRef][]WordGloss, len(ds.WordByWord)),
		transliteration: make(map[VerseRef]string, len(ds.Transliteration)),
		tafsir:          make(map[VerseRef]string, len(ds.Tafsir)),
		roots:           make(map[string][]VerseRef, len(ds.Roots)),
		frequency:       ds.Frequency,
		checksums:       ds.Checksums,
		failed:          ds.Failed,
	}
	if c.primaryCode == "" {
		c.primaryCode = "diyanet"
	}

	var report BuildReport

	// Primary verse table. Rows with invalid references or duplicate keys
	// are rejected here so request handling never sees them.
	for _, v := range ds.Verses {
		if !v.Ref.Valid() {
			continue
		}
		if _, dup := c.byRef[v.Ref]; dup {
			continue
		}
		c.byRef[v.Ref] = 0
		c.verses = append(c.verses, v)
	}
	// Corpus order regardless of source ordering. Search scans and the
	// inverted index iterate this slice and inherit its ordering.
	sort.Slice(c.verses, func(i, j int) bool {
		return c.verses[i].Ref.Less(c.verses[j].Ref)
	})
	for idx, v := range c.verses {
		c.byRef[v.Ref] = idx
		c.bySura[v.Ref.Sura] = append(c.bySura[v.Ref.Sura], idx)
	}

	for _, s := range ds.Surahs {
		if s.Number >= 1 && s.Number <= SuraCount {
			c.surahs[s.Number] = s
		}
	}

	for ref, text := range ds.Translation {
		if _, ok := c.byRef[ref]; !ok {
			report.DroppedTranslations++
			continue
		}
		c.translation[ref] = text
	}

	c.translators = make([]Translator, 0, len(ds.Translators))
	for _, tr := range ds.Translators {
		kept := Translator{
			Code:      tr.Code,
			Name:      tr.Name,
			ShortName: tr.ShortName,
			Verses:    make(map[VerseRef]string, len(tr.Verses)),
		}
		for ref, text := range tr.Verses {
			if _, ok := c.byRef[ref]; !ok {
				report.DroppedTranslations++
				continue
			}
			kept.Verses[ref] = text
		}
		// A translator covering no surviving verse contributes nothing;
		// keeping it would inflate the registry and the statistics.
		if len(kept.Verses) == 0 {
			continue
		}
		c.translators = append(c.translators, kept)
	}

	for ref, segs := range ds.Morphology {
		if _, ok := c.byRef[ref]; !ok {
			report.DroppedMorphology++
			continue
		}
		ordered := append([]MorphologySegment(nil), segs...)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Position < ordered[j].Position
		})
		c.morphology[ref] = ordered
	}

	for ref, glosses := range ds.WordByWord {
		if _, ok := c.byRef[ref]; !ok {
			report.DroppedWordByWord++
			continue
		}
		ordered := append([]WordGloss(nil), glosses...)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Position < ordered[j].Position
		})
		c.wordByWord[ref] = ordered
	}

	for ref, text := range ds.Transliteration {
		if _, ok := c.byRef[ref]; !ok {
			report.DroppedTransliteration++
			continue
		}
		c.transliteration[ref] = text
	}

	for ref, text := range ds.Tafsir {
		if _, ok := c.byRef[ref]; !ok {
			report.DroppedTafsir++
			continue
		}
		c.tafsir[ref] = text
	}

	for root, refs := range ds.Roots {
		kept := make([]VerseRef, 0, len(refs))
		for _, ref := range refs {
			if _, ok := c.byRef[ref]; !ok {
				report.DroppedRootRefs++
				continue
			}
			kept = append(kept, ref)
		}
		if len(kept) > 0 {
			c.roots[root] = kept
		}
	}
	c.rootOrder = make([]string, 0, len(c.roots))
	for root := range c.roots {
		c.rootOrder = append(c.rootOrder, root)
	}
	sort.Strings(c.rootOrder)

	return c, report
}

// Lookup returns the verse for ref, if present.
func (c *Corpus) Lookup(ref VerseRef) (Verse, bool) {
	idx, ok := c.byRef[ref]
	if !ok {
		return Verse{}, false
	}
	return c.verses[idx], true
}

// Has reports corpus membership of ref without copying the verse.
func (c *Corpus) Has(ref VerseRef) bool {
	_, ok := c.byRef[ref]
	return ok
}

// VersesOf returns the verses of a sura ordered by verse number.
func (c *Corpus) VersesOf(sura int) []Verse {
	idxs := c.bySura[sura]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]Verse, len(idxs))
	for i, idx := range idxs {
		out[i] = c.verses[idx]
	}
	return out
}

// SurahInfo returns the metadata for sura number n, if present.
func (c *Corpus) SurahInfo(n int) (SurahInfo, bool) {
	s, ok := c.surahs[n]
	return s, ok
}

// Verses returns the full verse table in corpus order. The returned slice
// is shared; callers must not modify it.
func (c *Corpus) Verses() []Verse {
	return c.verses
}

// PrimaryTranslator returns the code of the single-meal translation table.
func (c *Corpus) PrimaryTranslator() string {
	return c.primaryCode
}

// Translation returns the primary translation of ref, if present.
func (c *Corpus) Translation(ref VerseRef) (string, bool) {
	t, ok := c.translation[ref]
	return t, ok
}

// Translators returns the multi-translation registry in registry order.
func (c *Corpus) Translators() []Translator {
	return c.translators
}

// Morphology returns the ordered morphology segments of ref.
func (c *Corpus) Morphology(ref VerseRef) []MorphologySegment {
	return c.morphology[ref]
}

// WordByWord returns the ordered word-by-word glosses of ref.
func (c *Corpus) WordByWord(ref VerseRef) []WordGloss {
	return c.wordByWord[ref]
}

// Transliteration returns the transliteration of ref, if present.
func (c *Corpus) Transliteration(ref VerseRef) (string, bool) {
	t, ok := c.transliteration[ref]
	return t, ok
}

// Tafsir returns the tafsir text of ref, if present.
func (c *Corpus) Tafsir(ref VerseRef) (string, bool) {
	t, ok := c.tafsir[ref]
	return t, ok
}

// Root returns the verse references recorded for a root, in corpus
// insertion order, duplicates preserved.
func (c *Corpus) Root(root string) ([]VerseRef, bool) {
	refs, ok := c.roots[root]
	return refs, ok
}

// RootKeys returns all root strings in sorted order. The returned slice is
// shared; callers must not modify it.
func (c *Corpus) RootKeys() []string {
	return c.rootOrder
}

// Frequency returns up to limit entries of the word frequency table,
// which is pre-sorted descending by count.
func (c *Corpus) Frequency(limit int) []WordCount {
	if limit <= 0 || limit > len(c.frequency) {
		limit = len(c.frequency)
	}
	return c.frequency[:limit]
}

// Available reports whether a dataset loaded and is non-empty.
func (c *Corpus) Available(dataset string) bool {
	if _, failed := c.failed[dataset]; failed {
		return false
	}
	switch dataset {
	case DatasetVerses:
		return len(c.verses) > 0
	case DatasetSurahs:
		return len(c.surahs) > 0
	case DatasetTranslations:
		return len(c.translation) > 0 || len(c.translators) > 0
	case DatasetMorphology:
		return len(c.morphology) > 0
	case DatasetTransliteration:
		return len(c.transliteration) > 0
	case DatasetTafsir:
		return len(c.tafsir) > 0
	case DatasetWordByWord:
		return len(c.wordByWord) > 0
	case DatasetRoots:
		return len(c.roots) > 0
	case DatasetFrequency:
		return len(c.frequency) > 0
	default:
		return false
	}
}

// Stats computes per-dataset counts for the snapshot.
func (c *Corpus) Stats() Statistics {
	segments := 0
	for _, segs := range c.morphology {
		segments += len(segs)
	}
	glosses := 0
	for _, g := range c.wordByWord {
		glosses += len(g)
	}
	translators := len(c.translators)
	if len(c.translation) > 0 {
		translators++
	}
	available := make(map[string]bool)
	for _, name := range []string{
		DatasetVerses, DatasetSurahs, DatasetTranslations, DatasetMorphology,
		DatasetTransliteration, DatasetTafsir, DatasetWordByWord,
		DatasetRoots, DatasetFrequency,
	} {
		available[name] = c.Available(name)
	}
	return Statistics{
		TotalVerses:          len(c.verses),
		TotalSurahs:          len(c.surahs),
		TotalTranslators:     translators,
		TotalSegments:        segments,
		TotalGlosses:         glosses,
		TotalRoots:           len(c.roots),
		TransliteratedVerses: len(c.transliteration),
		TafsirVerses:         len(c.tafsir),
		FrequencyWords:       len(c.frequency),
		Available:            available,
		Checksums:            c.checksums,
	}
}

// ArabicTokens splits a verse's Arabic text on whitespace. This is the
// surface segmentation the composer aligns morphology against.
func ArabicTokens(text string) []string {
	return strings.Fields(text)
}
