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
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath  string // Path to the yaml config; "" selects the default
	inputPath   string // Input JSON for the run command
	outputPath  string // Output JSON for the run command; "" means stdout
	prettyPrint bool   // Indent the run command's JSON output
	noSemantic  bool   // Disable the semantic pass regardless of config
	noWatch     bool   // Disable config hot reload for serve

	rootCmd = &cobra.Command{
		Use:   "consolidator",
		Short: "A cli to run and manage the Aleutian entity consolidation service",
		Long: `Consolidator merges entity spans produced by multiple recognizer
				models into a single de-duplicated view, resolving label
				disagreements and arbitrating overlaps with learned
				per-model reliability weights.`,
	}

	// --- Service ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the consolidation HTTP service",
		Run:   runServe, // Defined in cmd_serve.go
	}

	// --- Batch ---
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Consolidate spans from a JSON file and print the result",
		Run:   runBatch, // Defined in cmd_run.go
	}

	// --- Weights ---
	weightsCmd = &cobra.Command{
		Use:   "weights",
		Short: "Inspect and adjust per-model reliability counters",
	}
	weightsShowCmd = &cobra.Command{
		Use:   "show [model] [label]",
		Short: "Show the counters and smoothed weight for a model/label pair",
		Args:  cobra.ExactArgs(2),
		Run:   runWeightsShow, // Defined in cmd_weights.go
	}
	weightsConfirmCmd = &cobra.Command{
		Use:   "confirm [model] [label]",
		Short: "Record a confirmation for a model/label pair",
		Args:  cobra.ExactArgs(2),
		Run:   runWeightsConfirm, // Defined in cmd_weights.go
	}
	weightsRejectCmd = &cobra.Command{
		Use:   "reject [model] [label]",
		Short: "Record a rejection for a model/label pair",
		Args:  cobra.ExactArgs(2),
		Run:   runWeightsReject, // Defined in cmd_weights.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the config file (default ~/.aleutian/consolidator.yaml)")

	serveCmd.Flags().BoolVar(&noWatch, "no-watch", false,
		"Disable hot reload of engine thresholds on config change")

	runCmd.Flags().StringVarP(&inputPath, "input", "i", "",
		"Input JSON file with source_text and model_spans (required)")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write the result to a file instead of stdout")
	runCmd.Flags().BoolVar(&prettyPrint, "pretty", true,
		"Indent the JSON output")
	runCmd.Flags().BoolVar(&noSemantic, "no-semantic", false,
		"Skip the semantic merge pass even if an embedder is configured")
	_ = runCmd.MarkFlagRequired("input")

	weightsCmd.AddCommand(weightsShowCmd)
	weightsCmd.AddCommand(weightsConfirmCmd)
	weightsCmd.AddCommand(weightsRejectCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(weightsCmd)
}
