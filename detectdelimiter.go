package twinstudy

import (
	"bytes"

	"github.com/csimplestring/go-csv/detector"
)

// Delimiters that a tabular input may plausibly use. The detector will
// happily nominate letters or digits on short files, so its answer is
// restricted to these.
var knownDelimiters = map[rune]struct{}{
	',':  {},
	'\t': {},
	';':  {},
	'|':  {},
}

// DetermineDelimiter returns the single most likely rune that delimits the
// values in sample, assuming a CSV-like file. If nothing plausible is found,
// fallback is returned.
func DetermineDelimiter(sample []byte, fallback rune) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(bytes.NewReader(sample), '"')

	for _, v := range delimiters {
		if len(v) != 1 {
			continue
		}
		if _, ok := knownDelimiters[rune(v[0])]; ok {
			return rune(v[0])
		}
	}

	// Fall back to whichever known delimiter is most common in the header.
	header := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		header = sample[:i]
	}
	best, bestCount := fallback, 0
	for _, r := range []rune{',', '\t', ';', '|'} {
		if n := bytes.Count(header, []byte(string(r))); n > bestCount {
			best, bestCount = r, n
		}
	}

	return best
}
