package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"hfscanner/internal/cache"
	"hfscanner/internal/classify"
	"hfscanner/internal/risk"
)

var (
	errTooLarge = errors.New("file exceeds size limit")
	errNotText  = errors.New("file is not valid UTF-8 text")
)

// ScanFile reads path and classifies its call sites. maxSize bounds the file
// size in bytes (0 means unbounded). On any error the counts are zero; callers
// that only need counts may ignore the error.
func ScanFile(path string, maxSize int64) (risk.Counts, error) {
	f, err := os.Open(path)
	if err != nil {
		return risk.Counts{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return risk.Counts{}, err
	}
	return scanOpened(f, info, maxSize)
}

func scanOpened(f *os.File, info os.FileInfo, maxSize int64) (risk.Counts, error) {
	if maxSize > 0 && info.Size() > maxSize {
		return risk.Counts{}, fmt.Errorf("%w (%d > %d bytes)", errTooLarge, info.Size(), maxSize)
	}

	var r io.Reader = f
	if maxSize > 0 {
		// The file may grow between Stat and Read.
		r = io.LimitReader(f, maxSize+1)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return risk.Counts{}, err
	}
	if maxSize > 0 && int64(len(b)) > maxSize {
		return risk.Counts{}, errTooLarge
	}
	if !utf8.Valid(b) {
		return risk.Counts{}, errNotText
	}
	return classify.Classify(string(b)), nil
}

// scanCached is ScanFile backed by c. Only successful reads are remembered.
func scanCached(c *cache.Cache, path string, maxSize int64) (counts risk.Counts, hit bool, err error) {
	if c == nil {
		counts, err = ScanFile(path, maxSize)
		return counts, false, err
	}

	f, err := os.Open(path)
	if err != nil {
		c.Remove(path)
		return risk.Counts{}, false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		c.Remove(path)
		return risk.Counts{}, false, err
	}
	if cached, ok := c.Get(path, info); ok {
		return cached, true, nil
	}

	counts, err = scanOpened(f, info, maxSize)
	if err != nil {
		c.Remove(path)
		return risk.Counts{}, false, err
	}
	c.Set(path, info, counts)
	return counts, false, nil
}
