package main

import (
	"strings"
	"testing"
)

func TestDefaultAlignments(t *testing.T) {
	aligns := defaultAlignments([]string{"DOI", "Title", "Authors", "Curated"})
	expected := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight}
	for i, align := range aligns {
		if align != expected[i] {
			t.Fatalf("column %d alignment = %v, want %v", i, align, expected[i])
		}
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"DOI", "Title"},
		[][]string{{"10.1/a"}},
		nil)
	if !strings.Contains(out, "10.1/a") {
		t.Fatalf("expected row content in output:\n%s", out)
	}
}
