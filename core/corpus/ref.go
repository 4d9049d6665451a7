package corpus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ekurt/qurancorpus/core/errors"
)

// SuraCount is the number of suras in the corpus.
const SuraCount = 114

// VerseRef is the canonical (sura, verse) key identifying one verse.
// All cross-table joins use this key; it is computed once at load time
// and only looked up afterwards.
type VerseRef struct {
	Sura  int `json:"sura"`
	Verse int `json:"verse"`
}

// String returns the canonical "sura:verse" form.
func (r VerseRef) String() string {
	return fmt.Sprintf("%d:%d", r.Sura, r.Verse)
}

// Valid reports whether the reference is structurally valid
// (sura in 1..114, verse positive). It does not check corpus membership.
func (r VerseRef) Valid() bool {
	return r.Sura >= 1 && r.Sura <= SuraCount && r.Verse >= 1
}

// Less orders references by corpus order (sura, then verse).
func (r VerseRef) Less(other VerseRef) bool {
	if r.Sura != other.Sura {
		return r.Sura < other.Sura
	}
	return r.Verse < other.Verse
}

// ParseRef parses a "sura:verse" string into a VerseRef.
func ParseRef(s string) (VerseRef, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return VerseRef{}, errors.NewValidation("reference", "must be in sura:verse form")
	}
	sura, err := strconv.Atoi(parts[0])
	if err != nil {
		return VerseRef{}, errors.NewValidation("reference", "sura must be an integer")
	}
	verse, err := strconv.Atoi(parts[1])
	if err != nil {
		return VerseRef{}, errors.NewValidation("reference", "verse must be an integer")
	}
	ref := VerseRef{Sura: sura, Verse: verse}
	if !ref.Valid() {
		return VerseRef{}, errors.NewValidation("reference", fmt.Sprintf("out of range: %s", ref))
	}
	return ref, nil
}
