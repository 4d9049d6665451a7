package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ekurt/qurancorpus/core/corpus"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const tanzilSample = `<?xml version="1.0" encoding="UTF-8"?>
<quran>
  <sura index="1" name="الفاتحة">
    <aya index="1" text="بسم الله الرحمن الرحيم"/>
    <aya index="2" text="الحمد لله رب العالمين"/>
  </sura>
  <sura index="2" name="البقرة">
    <aya index="1" text="الم"/>
  </sura>
</quran>
`

func TestLoadTanzilXML(t *testing.T) {
	path := writeFile(t, "quran.xml", tanzilSample)

	verses, err := loadTanzilXML(path)
	if err != nil {
		t.Fatalf("loadTanzilXML: %v", err)
	}
	if len(verses) != 3 {
		t.Fatalf("verse count = %d, want 3", len(verses))
	}
	first := verses[0]
	if first.Ref != (corpus.VerseRef{Sura: 1, Verse: 1}) {
		t.Errorf("first ref = %v", first.Ref)
	}
	if first.Arabic != "بسم الله الرحمن الرحيم" {
		t.Errorf("first text = %q", first.Arabic)
	}
	if first.SurahName != "الفاتحة" {
		t.Errorf("first surah name = %q", first.SurahName)
	}
	if verses[2].Ref.Sura != 2 {
		t.Errorf("third ref = %v", verses[2].Ref)
	}
}

func TestLoadTanzilXMLBadIndex(t *testing.T) {
	path := writeFile(t, "bad.xml", `<quran><sura index="x" name="s"><aya index="1" text="t"/></sura></quran>`)
	if _, err := loadTanzilXML(path); err == nil {
		t.Error("non-numeric sura index should fail")
	}
}

func TestLoadTanzilXMLEmpty(t *testing.T) {
	path := writeFile(t, "empty.xml", `<quran></quran>`)
	if _, err := loadTanzilXML(path); err == nil {
		t.Error("verse-free document should fail")
	}
}

func TestLoadRootsFile(t *testing.T) {
	path := writeFile(t, "roots.txt", "# comment\n\nرحم\t1:1 1:1 2:5\nحمد\t1:2\n")

	roots, err := loadRootsFile(path)
	if err != nil {
		t.Fatalf("loadRootsFile: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("root count = %d, want 2", len(roots))
	}
	refs := roots["رحم"]
	if len(refs) != 3 {
		t.Fatalf("رحم refs = %d, want 3 (duplicates preserved)", len(refs))
	}
	if refs[0] != refs[1] {
		t.Errorf("duplicate refs differ: %v vs %v", refs[0], refs[1])
	}
	if refs[2] != (corpus.VerseRef{Sura: 2, Verse: 5}) {
		t.Errorf("third ref = %v", refs[2])
	}
}

func TestLoadRootsFileMalformed(t *testing.T) {
	tests := []string{
		"رحم 1:1\n",      // space instead of tab
		"رحم\t150:1\n",   // out-of-range sura
		"\t1:1\n",        // empty root
		"رحم\tnot-a-ref", // unparseable ref
	}
	for _, content := range tests {
		path := writeFile(t, "roots.txt", content)
		if _, err := loadRootsFile(path); err == nil {
			t.Errorf("content %q should fail", content)
		}
	}
}

func TestLoadFrequencyFile(t *testing.T) {
	// Source order is ascending; the loader must sort descending.
	path := writeFile(t, "freq.txt", "رب\t980\nالله\t2153\nقال\t529\n")

	freq, err := loadFrequencyFile(path)
	if err != nil {
		t.Fatalf("loadFrequencyFile: %v", err)
	}
	if len(freq) != 3 {
		t.Fatalf("entry count = %d, want 3", len(freq))
	}
	if freq[0].Word != "الله" || freq[0].Count != 2153 {
		t.Errorf("top entry = %+v", freq[0])
	}
	for i := 1; i < len(freq); i++ {
		if freq[i].Count > freq[i-1].Count {
			t.Errorf("not descending at %d: %+v", i, freq)
		}
	}
}

func TestLoadFrequencyFileMalformed(t *testing.T) {
	for _, content := range []string{"الله x\n", "الله\t-3\n", "الله\tx\n"} {
		path := writeFile(t, "freq.txt", content)
		if _, err := loadFrequencyFile(path); err == nil {
			t.Errorf("content %q should fail", content)
		}
	}
}

func TestLoadRecordsFailures(t *testing.T) {
	xml := writeFile(t, "quran.xml", tanzilSample)

	ds := Load(Config{
		VersesXML: xml,
		RootsPath: filepath.Join(t.TempDir(), "missing-roots.txt"),
	})

	if len(ds.Verses) != 3 {
		t.Errorf("verse count = %d, want 3", len(ds.Verses))
	}
	if _, failed := ds.Failed[corpus.DatasetRoots]; !failed {
		t.Error("missing roots file should be recorded in Failed")
	}
	if len(ds.Roots) != 0 {
		t.Errorf("failed dataset should stay empty, got %d roots", len(ds.Roots))
	}
	// The verses checksum is recorded for the readable source.
	if ds.Checksums[corpus.DatasetVerses] == "" {
		t.Error("verses checksum missing")
	}
	if ds.Checksums[corpus.DatasetRoots] != "" {
		t.Error("unreadable source should have no checksum")
	}
}

func TestRunJobsExecutesEveryJob(t *testing.T) {
	jobs := make([]int, 30)
	for i := range jobs {
		jobs[i] = i
	}
	results := runJobs(jobs, func(j int) int { return j * 2 })
	if len(results) != len(jobs) {
		t.Fatalf("result count = %d, want %d", len(results), len(jobs))
	}
	sum := 0
	for _, r := range results {
		sum += r
	}
	if want := 29 * 30; sum != want {
		t.Errorf("result sum = %d, want %d", sum, want)
	}

	if got := runJobs(nil, func(j int) int { return j }); got != nil {
		t.Errorf("no jobs should yield no results, got %v", got)
	}
}

func TestFileChecksumStable(t *testing.T) {
	path := writeFile(t, "data.txt", "content")
	a, err := fileChecksum(path)
	if err != nil {
		t.Fatalf("fileChecksum: %v", err)
	}
	b, err := fileChecksum(path)
	if err != nil {
		t.Fatalf("fileChecksum: %v", err)
	}
	if a == "" || a != b {
		t.Errorf("checksums differ: %q vs %q", a, b)
	}

	other := writeFile(t, "other.txt", "different")
	c, err := fileChecksum(other)
	if err != nil {
		t.Fatalf("fileChecksum: %v", err)
	}
	if c == a {
		t.Error("different content produced the same checksum")
	}
}
