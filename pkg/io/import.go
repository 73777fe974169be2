package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/workcard/pkg/errors"
	"github.com/matzehuels/workcard/pkg/record"
)

type recordFile struct {
	Records []record.Work `json:"records" yaml:"records"`
}

// ReadJSON decodes a list of records, or an object with a "records" list,
// from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]record.Work, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty record file")
	}

	if data[0] == '[' {
		var recs []record.Work
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode records")
		}
		return recs, nil
	}
	var f recordFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode records")
	}
	return f.Records, nil
}

// ReadYAML is [ReadJSON] for YAML input.
func ReadYAML(r io.Reader) ([]record.Work, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidInput, "empty record file")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode records")
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}

	switch root.Kind {
	case yaml.SequenceNode:
		var recs []record.Work
		if err := root.Decode(&recs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode records")
		}
		return recs, nil
	case yaml.MappingNode:
		var f recordFile
		if err := root.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode records")
		}
		return f.Records, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "record file must hold a list or a records mapping")
	}
}

// ImportRecords reads the record file at path, choosing the decoder by its
// extension.
func ImportRecords(path string) ([]record.Work, error) {
	var read func(io.Reader) ([]record.Work, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		read = ReadJSON
	case ".yaml", ".yml":
		read = ReadYAML
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported record file %s: want .json, .yaml or .yml", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	recs, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}
