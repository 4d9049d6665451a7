package corpus

// Verse is one row of the primary verse table. Immutable after load.
type Verse struct {
	Ref       VerseRef `json:"ref"`
	Arabic    string   `json:"arabic"`
	SurahName string   `json:"surah_name,omitempty"`
}

// SurahInfo describes one sura.
type SurahInfo struct {
	Number     int    `json:"number"`
	Name       string `json:"name"`
	VerseCount int    `json:"verse_count"`
}

// Translator is one entry of the multi-translation registry.
// A translator need not cover every verse.
type Translator struct {
	Code      string              `json:"code"`
	Name      string              `json:"name"`
	ShortName string              `json:"short_name,omitempty"`
	Verses    map[VerseRef]string `json:"-"`
}

// MorphologySegment is one morphological segment of a verse. Positions are
// 1-based and ordered; the segment count is independent of the whitespace
// token count of the Arabic text (segmentation schemes differ), so the two
// are reconciled positionally, never by length equality.
type MorphologySegment struct {
	Position       int    `json:"position"`
	Surface        string `json:"surface"`
	Buckwalter     string `json:"buckwalter,omitempty"`
	Root           string `json:"root,omitempty"`
	Lemma          string `json:"lemma,omitempty"`
	POSTag         string `json:"pos_tag,omitempty"`
	POSDescription string `json:"pos_description,omitempty"`
	Features       string `json:"features,omitempty"`
}

// WordGloss is one word-by-word gloss entry, 1-based position.
type WordGloss struct {
	Position int    `json:"position"`
	Gloss    string `json:"gloss"`
}

// WordCount is one row of the word frequency table.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Dataset names used for availability flags, checksums, and statistics.
const (
	DatasetVerses          = "verses"
	DatasetSurahs          = "surahs"
	DatasetTranslations    = "translations"
	DatasetMorphology      = "morphology"
	DatasetTransliteration = "transliteration"
	DatasetTafsir          = "tafsir"
	DatasetWordByWord      = "wordbyword"
	DatasetRoots           = "roots"
	DatasetFrequency       = "frequency"
)

// Datasets carries the already-parsed structured data a loader hands to New.
// A dataset that failed to load arrives empty, with its name recorded in
// Failed; the corpus flags it unavailable instead of aborting construction.
type Datasets struct {
	Verses []Verse
	Surahs []SurahInfo

	// PrimaryTranslator is the code under which Translation entries are
	// reported (the single-meal table of the source data).
	PrimaryTranslator string
	Translation       map[VerseRef]string
	Translators       []Translator

	Morphology      map[VerseRef][]MorphologySegment
	WordByWord      map[VerseRef][]WordGloss
	Transliteration map[VerseRef]string
	Tafsir          map[VerseRef]string

	// Roots maps root strings to verse references in corpus insertion
	// order. Duplicates are preserved: callers may rely on occurrence counts.
	Roots map[string][]VerseRef

	// Frequency is pre-sorted descending by count.
	Frequency []WordCount

	// Checksums holds per-dataset content hashes recorded by the loader.
	Checksums map[string]string

	// Failed records datasets whose source could not be parsed.
	Failed map[string]string
}

// BuildReport summarizes what New dropped while building the snapshot.
// Secondary rows keyed against references absent from the verse table are
// rejected at build time instead of surfacing as missing-key errors later.
type BuildReport struct {
	DroppedTranslations    int
	DroppedMorphology      int
	DroppedWordByWord      int
	DroppedTransliteration int
	DroppedTafsir          int
	DroppedRootRefs        int
}

// Statistics reports per-dataset counts for the loaded snapshot.
type Statistics struct {
	TotalVerses          int               `json:"total_verses"`
	TotalSurahs          int               `json:"total_suras"`
	TotalTranslators     int               `json:"total_translators"`
	TotalSegments        int               `json:"total_morphology_segments"`
	TotalGlosses         int               `json:"total_word_glosses"`
	TotalRoots           int               `json:"total_roots"`
	TransliteratedVerses int               `json:"transliterated_verses"`
	TafsirVerses         int               `json:"tafsir_verses"`
	FrequencyWords       int               `json:"frequency_words"`
	Available            map[string]bool   `json:"available"`
	Checksums            map[string]string `json:"checksums,omitempty"`
}
