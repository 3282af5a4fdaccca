package ingest

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/carbocation/chipqc"
)

// ErrInvalidInputFormat means the input is neither a sample sheet nor an
// aggregate QC object. Nothing is extracted when this happens.
var ErrInvalidInputFormat = errors.New("invalid input format")

// Mode is the shape of the input.
type Mode int

const (
	ModeInvalid Mode = iota
	ModeSheet
	ModeAggregate
)

func (m Mode) String() string {
	switch m {
	case ModeSheet:
		return "multi-file-sheet"
	case ModeAggregate:
		return "single-aggregate"
	}

	return "invalid"
}

var (
	sheetSuffixes     = []string{".csv", ".tsv"}
	aggregateSuffixes = []string{".json"}
)

// Resolve classifies the input reference by its suffix, ignoring a trailing
// compression suffix.
func Resolve(input string) (Mode, error) {
	ext := strings.ToLower(path.Ext(chipqc.TrimCompressionSuffix(input)))

	for _, suffix := range sheetSuffixes {
		if ext == suffix {
			return ModeSheet, nil
		}
	}

	for _, suffix := range aggregateSuffixes {
		if ext == suffix {
			return ModeAggregate, nil
		}
	}

	return ModeInvalid, fmt.Errorf("%w: %q must end in one of %v (sample sheet) or %v (aggregate QC object)", ErrInvalidInputFormat, input, sheetSuffixes, aggregateSuffixes)
}
