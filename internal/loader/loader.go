// Package loader parses the raw dataset sources into the structured tables
// the corpus snapshot is built from.
//
// Loading is all-or-nothing per dataset: a source that fails to parse
// yields an empty table flagged unavailable, never a partial one, and does
// not abort the load of other datasets. Datasets load in parallel through
// a bounded worker pool; after Load returns, nothing reads the sources again.
package loader

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ekurt/qurancorpus/core/corpus"
	"github.com/ekurt/qurancorpus/internal/logging"
)

// Config names the dataset sources.
type Config struct {
	// DBPath is the corpus SQLite database (translations, morphology,
	// transliteration, tafsir, word-by-word glosses, surah metadata).
	DBPath string

	// VersesXML optionally overrides the verse table with a Tanzil-format
	// XML file. When empty, verses come from the database.
	VersesXML string

	// RootsPath and FrequencyPath are text files (optionally .xz).
	RootsPath     string
	FrequencyPath string

	// PrimaryTranslator is the code assigned to the single-meal table.
	PrimaryTranslator string
}

// loadResult is one dataset's outcome: an assign closure applied to the
// Datasets under construction, or an error.
type loadResult struct {
	name   string
	rows   int
	took   time.Duration
	assign func(*corpus.Datasets)
	err    error
}

// Load parses every configured source and returns the datasets ready for
// corpus.New. It never fails as a whole; per-dataset failures are recorded
// in Datasets.Failed.
func Load(cfg Config) corpus.Datasets {
	ds := corpus.Datasets{
		PrimaryTranslator: cfg.PrimaryTranslator,
		Checksums:         make(map[string]string),
		Failed:            make(map[string]string),
	}

	var db *sql.DB
	if cfg.DBPath != "" {
		var err error
		db, err = sql.Open("sqlite", cfg.DBPath+"?mode=ro")
		if err != nil {
			logging.DatasetFailed("database", err, "path", cfg.DBPath)
			db = nil
		} else {
			defer db.Close()
		}
	}

	jobs := buildJobs(cfg, db)

	results := runJobs(jobs, func(j loadJob) loadResult {
		start := time.Now()
		assign, rows, err := j.run()
		return loadResult{
			name:   j.name,
			rows:   rows,
			took:   time.Since(start),
			assign: assign,
			err:    err,
		}
	})
	for _, res := range results {
		if res.err != nil {
			ds.Failed[res.name] = res.err.Error()
			logging.DatasetFailed(res.name, res.err)
			continue
		}
		res.assign(&ds)
		logging.DatasetLoaded(res.name, res.rows, res.took)
	}

	recordChecksums(cfg, &ds)
	return ds
}

// loadJob is one dataset load: run returns the assign closure and row count.
type loadJob struct {
	name string
	run  func() (func(*corpus.Datasets), int, error)
}

func buildJobs(cfg Config, db *sql.DB) []loadJob {
	var jobs []loadJob

	if cfg.VersesXML != "" {
		jobs = append(jobs, loadJob{name: corpus.DatasetVerses, run: func() (func(*corpus.Datasets), int, error) {
			verses, err := loadTanzilXML(cfg.VersesXML)
			if err != nil {
				return nil, 0, err
			}
			return func(ds *corpus.Datasets) { ds.Verses = verses }, len(verses), nil
		}})
	} else if db != nil {
		jobs = append(jobs, loadJob{name: corpus.DatasetVerses, run: func() (func(*corpus.Datasets), int, error) {
			verses, err := loadVersesDB(db)
			if err != nil {
				return nil, 0, err
			}
			return func(ds *corpus.Datasets) { ds.Verses = verses }, len(verses), nil
		}})
	}

	if db != nil {
		jobs = append(jobs,
			loadJob{name: corpus.DatasetSurahs, run: func() (func(*corpus.Datasets), int, error) {
				surahs, err := loadSurahsDB(db)
				if err != nil {
					return nil, 0, err
				}
				return func(ds *corpus.Datasets) { ds.Surahs = surahs }, len(surahs), nil
			}},
			loadJob{name: corpus.DatasetTranslations, run: func() (func(*corpus.Datasets), int, error) {
				primary, translators, rows, err := loadTranslationsDB(db)
				if err != nil {
					return nil, 0, err
				}
				return func(ds *corpus.Datasets) {
					ds.Translation = primary
					ds.Translators = translators
				}, rows, nil
			}},
			loadJob{name: corpus.DatasetMorphology, run: func() (func(*corpus.Datasets), int, error) {
				morph, rows, err := loadMorphologyDB(db)
				if err != nil {
					return nil, 0, err
				}
				return func(ds *corpus.Datasets) { ds.Morphology = morph }, rows, nil
			}},
			loadJob{name: corpus.DatasetTransliteration, run: func() (func(*corpus.Datasets), int, error) {
				m, err := loadRefTextDB(db, "SELECT surah, verse, transliteration FROM transliteration")
				if err != nil {
					return nil, 0, err
				}
				return func(ds *corpus.Datasets) { ds.Transliteration = m }, len(m), nil
			}},
			loadJob{name: corpus.DatasetTafsir, run: func() (func(*corpus.Datasets), int, error) {
				m, err := loadRefTextDB(db, "SELECT surah, verse, tafsir FROM tafsir")
				if err != nil {
					return nil, 0, err
				}
				return func(ds *corpus.Datasets) { ds.Tafsir = m }, len(m), nil
			}},
			loadJob{name: corpus.DatasetWordByWord, run: func() (func(*corpus.Datasets), int, error) {
				m, rows, err := loadWordByWordDB(db)
				if err != nil {
					return nil, 0, err
				}
				return func(ds *corpus.Datasets) { ds.WordByWord = m }, rows, nil
			}},
		)
	}

	if cfg.RootsPath != "" {
		jobs = append(jobs, loadJob{name: corpus.DatasetRoots, run: func() (func(*corpus.Datasets), int, error) {
			roots, err := loadRootsFile(cfg.RootsPath)
			if err != nil {
				return nil, 0, err
			}
			return func(ds *corpus.Datasets) { ds.Roots = roots }, len(roots), nil
		}})
	}
	if cfg.FrequencyPath != "" {
		jobs = append(jobs, loadJob{name: corpus.DatasetFrequency, run: func() (func(*corpus.Datasets), int, error) {
			freq, err := loadFrequencyFile(cfg.FrequencyPath)
			if err != nil {
				return nil, 0, err
			}
			return func(ds *corpus.Datasets) { ds.Frequency = freq }, len(freq), nil
		}})
	}

	return jobs
}

// recordChecksums hashes every configured source file.
func recordChecksums(cfg Config, ds *corpus.Datasets) {
	sources := map[string]string{
		"database":              cfg.DBPath,
		corpus.DatasetVerses:    cfg.VersesXML,
		corpus.DatasetRoots:     cfg.RootsPath,
		corpus.DatasetFrequency: cfg.FrequencyPath,
	}
	for name, path := range sources {
		if path == "" {
			continue
		}
		sum, err := fileChecksum(path)
		if err != nil {
			continue
		}
		ds.Checksums[name] = sum
	}
}
