package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeIngestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestReadIngestFileArray(t *testing.T) {
	path := writeIngestFile(t, `[
		{"doi": "10.1/a", "title": "One", "authors": [{"given": "Jane", "family": "Smith"}]},
		{"doi": "10.1/b", "title": "Two"}
	]`)

	docs, err := readIngestFile(path)
	if err != nil {
		t.Fatalf("readIngestFile failed: %v", err)
	}
	if len(docs) != 2 || docs[0].DOI != "10.1/a" {
		t.Fatalf("unexpected documents: %#v", docs)
	}
	if len(docs[0].Authors) != 1 || docs[0].Authors[0].Family != "Smith" {
		t.Fatalf("unexpected authors: %#v", docs[0].Authors)
	}
}

func TestReadIngestFileSingleDocument(t *testing.T) {
	path := writeIngestFile(t, `{"doi": "10.1/a", "title": "One"}`)

	docs, err := readIngestFile(path)
	if err != nil {
		t.Fatalf("readIngestFile failed: %v", err)
	}
	if len(docs) != 1 || docs[0].DOI != "10.1/a" {
		t.Fatalf("unexpected documents: %#v", docs)
	}
}

func TestReadIngestFileRejectsMissingDOI(t *testing.T) {
	path := writeIngestFile(t, `[{"title": "No DOI"}]`)
	if _, err := readIngestFile(path); err == nil {
		t.Fatal("expected error for a record without a DOI")
	}
}

func TestReadIngestFileRejectsGarbage(t *testing.T) {
	path := writeIngestFile(t, `not json`)
	if _, err := readIngestFile(path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
