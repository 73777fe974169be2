package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/workcard/pkg/store"
)

// WriteManifest writes entries to w as JSON lines, one card per line.
func WriteManifest(entries []store.Entry, w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	}
	return nil
}

// ExportManifest writes entries to a file at path.
// This is a convenience wrapper around [WriteManifest] for file-based output.
func ExportManifest(entries []store.Entry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteManifest(entries, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
