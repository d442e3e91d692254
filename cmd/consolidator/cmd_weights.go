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
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianConsolidate/cmd/consolidator/config"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/weights"
)

// withStore loads the config, opens the counter store, runs fn, and closes
// the store. The weights commands share this scaffolding.
func withStore(fn func(ctx context.Context, store weights.Store)) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Error loading the config: %v", err)
	}

	store, err := openStore(cfg.Weights)
	if err != nil {
		log.Fatalf("Error opening the weight store: %v", err)
	}
	defer store.Close()

	fn(context.Background(), store)
}

// runWeightsShow prints the counters and smoothed weight for a pair.
func runWeightsShow(cmd *cobra.Command, args []string) {
	model, label := args[0], args[1]
	withStore(func(ctx context.Context, store weights.Store) {
		counts, err := store.GetCounts(ctx, model, label)
		if errors.Is(err, weights.ErrNotFound) {
			fmt.Printf("No feedback recorded for %s/%s; weight defaults to %.2f\n",
				model, label, weights.DefaultWeight)
			return
		}
		if err != nil {
			log.Fatalf("Error reading the counters: %v", err)
		}
		fmt.Printf("%s/%s: confirmations=%d rejections=%d weight=%.4f\n",
			model, label, counts.Confirmations, counts.Rejections, weights.Smoothed(counts))
	})
}

// runWeightsConfirm records a confirmation for a pair.
func runWeightsConfirm(cmd *cobra.Command, args []string) {
	model, label := args[0], args[1]
	withStore(func(ctx context.Context, store weights.Store) {
		if err := store.Confirm(ctx, model, label); err != nil {
			log.Fatalf("Error recording the confirmation: %v", err)
		}
		counts, err := store.GetCounts(ctx, model, label)
		if err != nil {
			log.Fatalf("Error reading the counters back: %v", err)
		}
		fmt.Printf("Confirmed %s/%s: weight is now %.4f\n",
			model, label, weights.Smoothed(counts))
	})
}

// runWeightsReject records a rejection for a pair.
func runWeightsReject(cmd *cobra.Command, args []string) {
	model, label := args[0], args[1]
	withStore(func(ctx context.Context, store weights.Store) {
		if err := store.Reject(ctx, model, label); err != nil {
			log.Fatalf("Error recording the rejection: %v", err)
		}
		counts, err := store.GetCounts(ctx, model, label)
		if err != nil {
			log.Fatalf("Error reading the counters back: %v", err)
		}
		fmt.Printf("Rejected %s/%s: weight is now %.4f\n",
			model, label, weights.Smoothed(counts))
	})
}
