package loader

import (
	"database/sql"
	"fmt"

	"github.com/ekurt/qurancorpus/core/corpus"
)

// loadVersesDB reads the primary verse table in corpus order.
func loadVersesDB(db *sql.DB) ([]corpus.Verse, error) {
	rows, err := db.Query(`
		SELECT sura, aya, text_simple
		FROM tanzil_texts
		ORDER BY sura, aya`)
	if err != nil {
		return nil, fmt.Errorf("querying verses: %w", err)
	}
	defer rows.Close()

	var verses []corpus.Verse
	for rows.Next() {
		var sura, aya int
		var text string
		if err := rows.Scan(&sura, &aya, &text); err != nil {
			return nil, fmt.Errorf("scanning verse row: %w", err)
		}
		verses = append(verses, corpus.Verse{
			Ref:    corpus.VerseRef{Sura: sura, Verse: aya},
			Arabic: text,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading verse rows: %w", err)
	}
	return verses, nil
}

// loadSurahsDB reads the surah metadata table.
func loadSurahsDB(db *sql.DB) ([]corpus.SurahInfo, error) {
	rows, err := db.Query(`
		SELECT sura_number, sura_name_turkish, verse_count
		FROM sura_info
		ORDER BY sura_number`)
	if err != nil {
		return nil, fmt.Errorf("querying surahs: %w", err)
	}
	defer rows.Close()

	var surahs []corpus.SurahInfo
	for rows.Next() {
		var s corpus.SurahInfo
		if err := rows.Scan(&s.Number, &s.Name, &s.VerseCount); err != nil {
			return nil, fmt.Errorf("scanning surah row: %w", err)
		}
		surahs = append(surahs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading surah rows: %w", err)
	}
	return surahs, nil
}

// loadTranslationsDB reads the single-meal table and the multi-translation
// registry. A missing registry table is tolerated: translator names then
// fall back to their codes.
func loadTranslationsDB(db *sql.DB) (map[corpus.VerseRef]string, []corpus.Translator, int, error) {
	primary := make(map[corpus.VerseRef]string)
	rows, err := db.Query(`SELECT surah, verse, meal FROM diyanet_meal`)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("querying primary translation: %w", err)
	}
	for rows.Next() {
		var sura, verse int
		var text string
		if err := rows.Scan(&sura, &verse, &text); err != nil {
			rows.Close()
			return nil, nil, 0, fmt.Errorf("scanning primary translation row: %w", err)
		}
		primary[corpus.VerseRef{Sura: sura, Verse: verse}] = text
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, nil, 0, fmt.Errorf("reading primary translation rows: %w", err)
	}
	rows.Close()

	// Registry metadata (optional table)
	names := make(map[string]corpus.Translator)
	var order []string
	if metaRows, err := db.Query(`SELECT translator_id, name, short_name FROM translators ORDER BY translator_id`); err == nil {
		for metaRows.Next() {
			var tr corpus.Translator
			if err := metaRows.Scan(&tr.Code, &tr.Name, &tr.ShortName); err != nil {
				metaRows.Close()
				return nil, nil, 0, fmt.Errorf("scanning translator row: %w", err)
			}
			names[tr.Code] = tr
			order = append(order, tr.Code)
		}
		metaRows.Close()
	}

	trRows, err := db.Query(`
		SELECT sura, verse, translator_id, text
		FROM enhanced_translations
		ORDER BY translator_id, sura, verse`)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("querying translations: %w", err)
	}
	defer trRows.Close()

	byCode := make(map[string]map[corpus.VerseRef]string)
	total := len(primary)
	for trRows.Next() {
		var sura, verse int
		var code, text string
		if err := trRows.Scan(&sura, &verse, &code, &text); err != nil {
			return nil, nil, 0, fmt.Errorf("scanning translation row: %w", err)
		}
		verses, ok := byCode[code]
		if !ok {
			verses = make(map[corpus.VerseRef]string)
			byCode[code] = verses
			if _, known := names[code]; !known {
				names[code] = corpus.Translator{Code: code, Name: code}
				order = append(order, code)
			}
		}
		verses[corpus.VerseRef{Sura: sura, Verse: verse}] = text
		total++
	}
	if err := trRows.Err(); err != nil {
		return nil, nil, 0, fmt.Errorf("reading translation rows: %w", err)
	}

	translators := make([]corpus.Translator, 0, len(byCode))
	for _, code := range order {
		verses, ok := byCode[code]
		if !ok {
			continue
		}
		tr := names[code]
		tr.Verses = verses
		translators = append(translators, tr)
	}
	return primary, translators, total, nil
}

// loadMorphologyDB reads the morphology segments, ordered within each verse.
func loadMorphologyDB(db *sql.DB) (map[corpus.VerseRef][]corpus.MorphologySegment, int, error) {
	rows, err := db.Query(`
		SELECT sura, verse, word_number, segment_arabic, segment_transliteration,
		       pos_tag, pos_description, root, lemma, features
		FROM morphology_segments
		ORDER BY sura, verse, word_number`)
	if err != nil {
		return nil, 0, fmt.Errorf("querying morphology: %w", err)
	}
	defer rows.Close()

	morph := make(map[corpus.VerseRef][]corpus.MorphologySegment)
	total := 0
	for rows.Next() {
		var sura, verse int
		var seg corpus.MorphologySegment
		var translit, posDesc, root, lemma, features sql.NullString
		if err := rows.Scan(&sura, &verse, &seg.Position, &seg.Surface, &translit,
			&seg.POSTag, &posDesc, &root, &lemma, &features); err != nil {
			return nil, 0, fmt.Errorf("scanning morphology row: %w", err)
		}
		seg.Buckwalter = translit.String
		seg.POSDescription = posDesc.String
		seg.Root = root.String
		seg.Lemma = lemma.String
		seg.Features = features.String
		ref := corpus.VerseRef{Sura: sura, Verse: verse}
		morph[ref] = append(morph[ref], seg)
		total++
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading morphology rows: %w", err)
	}
	return morph, total, nil
}

// loadRefTextDB reads any (surah, verse, text) table into a ref-keyed map.
func loadRefTextDB(db *sql.DB, query string) (map[corpus.VerseRef]string, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}
	defer rows.Close()

	m := make(map[corpus.VerseRef]string)
	for rows.Next() {
		var sura, verse int
		var text string
		if err := rows.Scan(&sura, &verse, &text); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		m[corpus.VerseRef{Sura: sura, Verse: verse}] = text
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return m, nil
}

// loadWordByWordDB reads the per-position gloss table.
func loadWordByWordDB(db *sql.DB) (map[corpus.VerseRef][]corpus.WordGloss, int, error) {
	rows, err := db.Query(`
		SELECT sura, verse, position, gloss
		FROM word_by_word
		ORDER BY sura, verse, position`)
	if err != nil {
		return nil, 0, fmt.Errorf("querying word-by-word: %w", err)
	}
	defer rows.Close()

	m := make(map[corpus.VerseRef][]corpus.WordGloss)
	total := 0
	for rows.Next() {
		var sura, verse int
		var g corpus.WordGloss
		if err := rows.Scan(&sura, &verse, &g.Position, &g.Gloss); err != nil {
			return nil, 0, fmt.Errorf("scanning word-by-word row: %w", err)
		}
		ref := corpus.VerseRef{Sura: sura, Verse: verse}
		m[ref] = append(m[ref], g)
		total++
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading word-by-word rows: %w", err)
	}
	return m, total, nil
}
