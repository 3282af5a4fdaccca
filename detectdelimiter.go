package chipqc

import (
	"bytes"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in a sample sheet, assuming a CSV-like file. Files named *.tsv are
// always tab-delimited.
func DetermineDelimiter(name string, head []byte) rune {
	if strings.HasSuffix(strings.ToLower(TrimCompressionSuffix(name)), ".tsv") {
		return '\t'
	}

	d := detector.New()
	delimiters := d.DetectDelimiter(bytes.NewReader(head), '"')

	for _, candidate := range delimiters {
		if len(candidate) == 0 {
			continue
		}
		switch r := rune(candidate[0]); r {
		case ',', '\t', ';', '|':
			return r
		}
	}

	return ','
}
