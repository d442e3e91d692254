// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianConsolidate/cmd/consolidator/config"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/datatypes"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/engine"
)

// runBatch consolidates a single document from a JSON file.
//
// # Description
//
// Reads a ConsolidateRequest from --input, runs one consolidation pass with
// the configured store and embedder, and writes the ConsolidateResponse to
// --output (stdout by default). No HTTP server is started and no metrics
// are exported.
//
// # Examples
//
//	consolidator run --input spans.json
//	consolidator run -i spans.json -o merged.json --no-semantic
func runBatch(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Error loading the config: %v", err)
	}

	logger := buildLogger(cfg.Logging)
	defer logger.Close()

	data, err := os.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("Error reading the input file: %v", err)
	}

	var request datatypes.ConsolidateRequest
	if err := json.Unmarshal(data, &request); err != nil {
		log.Fatalf("Error parsing the input file: %v", err)
	}
	if err := request.Validate(); err != nil {
		log.Fatalf("Invalid input: %v", err)
	}

	store, err := openStore(cfg.Weights)
	if err != nil {
		log.Fatalf("Error opening the weight store: %v", err)
	}
	defer store.Close()

	embedder, err := buildEmbedder(cfg.Embeddings)
	if err != nil {
		log.Fatalf("Error building the embedding backend: %v", err)
	}
	if noSemantic {
		embedder = nil
	}

	eng := engine.New(store, embedder, cfg.Engine.ToEngine())

	runID := uuid.NewString()
	entities, report := eng.Consolidate(context.Background(), request.SourceText, request.ModelSpans)
	slog.Info("consolidation complete",
		"run_id", runID,
		"input_spans", report.InputSpans,
		"output_spans", len(entities),
		"conflicts", report.Conflicts,
		"semantic_merges", report.SemanticMerges)

	response := datatypes.ConsolidateResponse{
		RunID:    runID,
		Entities: entities,
		Report:   report,
	}

	out := os.Stdout
	if outputPath != "" {
		out, err = os.Create(outputPath)
		if err != nil {
			log.Fatalf("Error creating the output file: %v", err)
		}
		defer out.Close()
	}

	encoder := json.NewEncoder(out)
	if prettyPrint {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(response); err != nil {
		log.Fatalf("Error writing the result: %v", err)
	}
}
