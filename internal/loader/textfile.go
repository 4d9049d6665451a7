package loader

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/ekurt/qurancorpus/core/corpus"
)

// openMaybeXZ opens path for reading, transparently decompressing .xz files.
// The returned closer always closes the underlying file.
func openMaybeXZ(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".xz") {
		return f, nil
	}
	r, err := xz.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening xz stream: %w", err)
	}
	return &xzReadCloser{r: r, f: f}, nil
}

type xzReadCloser struct {
	r io.Reader
	f *os.File
}

func (x *xzReadCloser) Read(p []byte) (int, error) { return x.r.Read(p) }
func (x *xzReadCloser) Close() error               { return x.f.Close() }

// loadRootsFile parses the root index file. Each line is a root followed by
// a tab and a space-separated list of sura:verse references:
//
//	ربب	1:2 2:5 2:5 3:9
//
// Duplicate references are kept; occurrence counts matter. Blank lines and
// lines starting with '#' are skipped.
func loadRootsFile(path string) (map[string][]corpus.VerseRef, error) {
	rc, err := openMaybeXZ(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()

	roots := make(map[string][]corpus.VerseRef)
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		root, rest, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("%s:%d: missing tab separator", path, lineNo)
		}
		root = strings.TrimSpace(root)
		if root == "" {
			return nil, fmt.Errorf("%s:%d: empty root", path, lineNo)
		}
		for _, field := range strings.Fields(rest) {
			ref, err := corpus.ParseRef(field)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			roots[root] = append(roots[root], ref)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return roots, nil
}

// loadFrequencyFile parses the word frequency file. Each line is a word, a
// tab, and a count. The result is sorted descending by count regardless of
// source order; ties keep file order.
func loadFrequencyFile(path string) ([]corpus.WordCount, error) {
	rc, err := openMaybeXZ(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()

	var freq []corpus.WordCount
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, countStr, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("%s:%d: missing tab separator", path, lineNo)
		}
		count, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil || count < 0 {
			return nil, fmt.Errorf("%s:%d: bad count %q", path, lineNo, countStr)
		}
		freq = append(freq, corpus.WordCount{Word: strings.TrimSpace(word), Count: count})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	sort.SliceStable(freq, func(i, j int) bool { return freq[i].Count > freq[j].Count })
	return freq, nil
}

// fileChecksum returns the hex BLAKE3 digest of the file at path.
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
