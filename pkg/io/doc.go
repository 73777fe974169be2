// Package io reads work records from files and writes render manifests.
//
// # Record Files
//
// Records come from JSON or YAML files. Either format holds a list of
// records, or an object whose "records" key holds the list:
//
//	[
//	  {
//	    "id": 42,
//	    "title": "Dark Dancer",
//	    "cover_url": "https://img.example.com/42.jpg",
//	    "author": "anka",
//	    "category": "二次元",
//	    "views": 12345,
//	    "popularity": 678,
//	    "created_at": "2025-02-17T09:30:00Z"
//	  }
//	]
//
// The same data in YAML:
//
//	records:
//	  - id: 42
//	    title: Dark Dancer
//	    cover_url: https://img.example.com/42.jpg
//
// Field names are those of [record.Work]. Decoding does not validate
// records; the renderer does that per record so that one bad entry does not
// reject a whole file.
//
// # Import
//
// Use [ImportRecords] to read a file, picking the decoder by extension
// (.json, .yaml, .yml), or [ReadJSON] and [ReadYAML] for any io.Reader:
//
//	recs, err := io.ImportRecords("works.yaml")
//
// # Manifest Export
//
// After a batch, [ExportManifest] writes one JSON line per card so that
// downstream tools can pick up paths and detail links without scanning the
// output directory.
//
// [record.Work]: github.com/matzehuels/workcard/pkg/record.Work
package io
