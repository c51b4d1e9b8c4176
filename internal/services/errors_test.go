package services_test

import (
	"errors"
	"fmt"
	"testing"

	"curator/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := fmt.Errorf("boom")
	err := services.Wrap(services.ErrDirectoryUnavailable, "people", "search", "request failed", base)
	if !errors.Is(err, services.ErrDirectoryUnavailable) {
		t.Fatalf("expected marker to survive wrapping: %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected original error to survive wrapping: %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "match", "decide", "", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestAbortClassification(t *testing.T) {
	unavailable := services.Wrap(services.ErrDirectoryUnavailable, "people", "search", "", nil)
	if !services.AbortsDOI(unavailable) {
		t.Fatal("directory unavailable should abort the DOI")
	}
	if services.AbortsBatch(unavailable) {
		t.Fatal("directory unavailable should not abort the batch")
	}

	abort := services.Wrap(services.ErrUserAbort, "review", "confirm", "", nil)
	if !services.AbortsBatch(abort) {
		t.Fatal("user abort should stop the batch")
	}
}
