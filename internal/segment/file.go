package segment

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSegment is one entry of a segments file. Times are strings so the
// file can use any form timecode.Parse accepts.
type fileSegment struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type segmentsFile struct {
	Segments []fileSegment `yaml:"segments"`
}

// LoadFile reads a YAML segments file:
//
//	segments:
//	  - start: "00:01:02"
//	    end: "00:01:10"
//
// The result is not validated; pass it to Validate.
func LoadFile(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read segments %s: %w", path, err)
	}
	var f segmentsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse segments %s: %w", path, err)
	}
	specs := make([]string, 0, len(f.Segments))
	for _, s := range f.Segments {
		specs = append(specs, s.Start+"-"+s.End)
	}
	segs, err := ParseList(specs)
	if err != nil {
		return nil, fmt.Errorf("segments %s: %w", path, err)
	}
	return segs, nil
}

// Collect gathers segments from -s specs followed by the optional file.
func Collect(specs []string, file string) ([]Segment, error) {
	segs, err := ParseList(specs)
	if err != nil {
		return nil, err
	}
	if file != "" {
		more, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		segs = append(segs, more...)
	}
	return segs, nil
}
