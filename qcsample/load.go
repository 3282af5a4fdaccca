package qcsample

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/carbocation/chipqc"
)

// ErrHandleLoad is returned when a referenced QC file cannot be read or
// decoded. It is always fatal for the run.
var ErrHandleLoad = errors.New("handle load failure")

// LoadSample reads one per-sample QC file.
func LoadSample(o *chipqc.Opener, path string) (*Sample, error) {
	out := &Sample{}
	if err := load(o, path, out); err != nil {
		return nil, err
	}

	return out, nil
}

// LoadExperiment reads a pre-aggregated multi-sample QC file.
func LoadExperiment(o *chipqc.Opener, path string) (*Experiment, error) {
	out := &Experiment{}
	if err := load(o, path, out); err != nil {
		return nil, err
	}

	for i, s := range out.Samples {
		if s == nil {
			return nil, fmt.Errorf("%w: %s: sample %d is null", ErrHandleLoad, path, i)
		}
	}

	return out, nil
}

func load(o *chipqc.Opener, path string, dst interface{}) error {
	data, err := o.ReadAll(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrHandleLoad, path, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrHandleLoad, path, err)
	}

	log.Println("Loaded", path)

	return nil
}
