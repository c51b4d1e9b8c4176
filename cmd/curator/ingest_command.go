package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"curator/internal/doistore"
)

// ingestDocument is the JSON shape accepted by `curator ingest`: the DOI
// registry fields a curation batch needs, one document per record.
type ingestDocument struct {
	DOI       string            `json:"doi"`
	Title     string            `json:"title"`
	Journal   string            `json:"journal"`
	Published string            `json:"published"`
	Authors   []doistore.Author `json:"authors"`
}

func newIngestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest FILE",
		Short: "Load DOI records from a JSON file into the local store",
		Long: `Reads a JSON array of DOI documents (or a single document) and upserts
them into the local store. Re-ingesting an existing DOI refreshes its
metadata without touching curated author fields.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := readIngestFile(args[0])
			if err != nil {
				return err
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			for _, doc := range docs {
				rec := &doistore.Record{
					DOI:       doc.DOI,
					Title:     doc.Title,
					Journal:   doc.Journal,
					Published: doc.Published,
					Authors:   doc.Authors,
				}
				if err := store.Upsert(cmd.Context(), rec); err != nil {
					return fmt.Errorf("ingest %s: %w", doc.DOI, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ingested %d record(s)\n", len(docs))
			return nil
		},
	}
}

func readIngestFile(path string) ([]ingestDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ingest file: %w", err)
	}

	var docs []ingestDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		var single ingestDocument
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("parse ingest file: %w", err)
		}
		docs = []ingestDocument{single}
	}

	for i, doc := range docs {
		if doistore.NormalizeDOI(doc.DOI) == "" {
			return nil, fmt.Errorf("record %d has no DOI", i+1)
		}
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no records found in %s", path)
	}
	return docs, nil
}
