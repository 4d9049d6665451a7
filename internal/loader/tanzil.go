package loader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/antchfx/xmlquery"

	"github.com/ekurt/qurancorpus/core/corpus"
)

// loadTanzilXML parses a Tanzil-format quran XML file:
//
//	<quran>
//	  <sura index="1" name="...">
//	    <aya index="1" text="..."/>
//	  </sura>
//	</quran>
func loadTanzilXML(path string) ([]corpus.Verse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := xmlquery.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var verses []corpus.Verse
	for _, sura := range xmlquery.Find(doc, "//sura") {
		suraIdx, err := strconv.Atoi(sura.SelectAttr("index"))
		if err != nil {
			return nil, fmt.Errorf("sura with non-numeric index %q", sura.SelectAttr("index"))
		}
		suraName := sura.SelectAttr("name")
		for _, aya := range xmlquery.Find(sura, "aya") {
			ayaIdx, err := strconv.Atoi(aya.SelectAttr("index"))
			if err != nil {
				return nil, fmt.Errorf("sura %d: aya with non-numeric index %q", suraIdx, aya.SelectAttr("index"))
			}
			verses = append(verses, corpus.Verse{
				Ref:       corpus.VerseRef{Sura: suraIdx, Verse: ayaIdx},
				Arabic:    aya.SelectAttr("text"),
				SurahName: suraName,
			})
		}
	}
	if len(verses) == 0 {
		return nil, fmt.Errorf("%s contains no verses", path)
	}
	return verses, nil
}
