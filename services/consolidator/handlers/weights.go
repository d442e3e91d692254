// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/datatypes"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/weights"
)

// HandleWeightFeedback records one reviewer judgment in the counter store.
//
// POST /v1/weights/feedback
//
// This is the write side of the reliability weights: the engine only ever
// reads the counters.
func HandleWeightFeedback(store weights.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleWeightFeedback")
		defer span.End()

		var request datatypes.FeedbackRequest
		if err := c.BindJSON(&request); err != nil {
			span.RecordError(err)
			slog.Error("Failed to bind feedback request JSON", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := request.Validate(); err != nil {
			span.RecordError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var err error
		if request.Confirmed {
			err = store.Confirm(ctx, request.Model, request.Label)
		} else {
			err = store.Reject(ctx, request.Model, request.Label)
		}
		if err != nil {
			span.RecordError(err)
			slog.Error("Failed to record weight feedback",
				"model", request.Model, "label", request.Label, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record feedback"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "recorded"})
	}
}

// HandleGetWeight returns the counters and smoothed weight for a
// (model, label) pair.
//
// GET /v1/weights/:model/:label
//
// Pairs with no history return the neutral default rather than 404; that
// mirrors what the engine would use.
func HandleGetWeight(store weights.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleGetWeight")
		defer span.End()

		model := c.Param("model")
		label := c.Param("label")

		counts, err := store.GetCounts(ctx, model, label)
		if err != nil && !errors.Is(err, weights.ErrNotFound) {
			span.RecordError(err)
			slog.Error("Failed to read weight counters",
				"model", model, "label", label, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read counters"})
			return
		}

		c.JSON(http.StatusOK, datatypes.WeightResponse{
			Model:         model,
			Label:         label,
			Confirmations: counts.Confirmations,
			Rejections:    counts.Rejections,
			Weight:        weights.Smoothed(counts),
		})
	}
}
