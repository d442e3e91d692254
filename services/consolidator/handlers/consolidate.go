// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers contains the Gin HTTP handlers of the consolidator
// service.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/datatypes"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/engine"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/telemetry"
)

var tracer = otel.Tracer("aleutian.consolidator.handlers")

// HandleConsolidate consolidates the span lists of several recognizer
// models over one document.
//
// POST /v1/consolidate
//
// The engine itself never fails; a non-200 response only means the request
// body was malformed.
func HandleConsolidate(eng *engine.Engine, metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleConsolidate")
		defer span.End()

		var request datatypes.ConsolidateRequest
		if err := c.BindJSON(&request); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to bind consolidate request JSON", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := request.Validate(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Invalid consolidate request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		runID := uuid.New().String()
		span.SetAttributes(
			attribute.String("run_id", runID),
			attribute.Int("models", len(request.ModelSpans)),
		)

		start := time.Now()
		entities, report := eng.Consolidate(ctx, request.SourceText, request.ModelSpans)
		elapsed := time.Since(start)

		metrics.RecordRun(ctx, report, len(entities), elapsed)
		slog.Info("Consolidation run completed",
			"run_id", runID,
			"models", len(request.ModelSpans),
			"spans_in", report.InputSpans,
			"spans_out", len(entities),
			"conflicts", report.Conflicts,
			"duration_ms", elapsed.Milliseconds(),
		)

		c.JSON(http.StatusOK, datatypes.ConsolidateResponse{
			RunID:    runID,
			Entities: entities,
			Report:   report,
		})
	}
}
