// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package consolidator wires the entity-consolidation service: HTTP
// routing, the consolidation engine, the reliability-weight store, the
// optional embedding backend, and observability.
//
// # Usage
//
//	cfg := consolidator.Config{Port: 12310, WeightsPath: "/var/lib/consolidator"}
//	svc, err := consolidator.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//	svc.Run()
package consolidator

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/embedding"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/engine"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/routes"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/telemetry"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/weights"
)

// Service defines the contract for the consolidator service.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and should
// only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	Router() *gin.Engine

	// Engine returns the consolidation engine, for config hot reload.
	Engine() *engine.Engine

	// Close releases the weight store and other resources.
	Close() error
}

// Config configures the consolidator service.
type Config struct {
	// Port is the HTTP listen port.
	Port int

	// WeightsPath is the directory for the BadgerDB counter store.
	// Ignored when InMemoryWeights is true.
	WeightsPath string

	// InMemoryWeights uses a non-persistent counter store. For testing.
	InMemoryWeights bool

	// Embedder is the embedding backend for the semantic pass. Nil
	// disables the pass.
	Embedder embedding.Embedder

	// Engine holds the consolidation policy thresholds.
	Engine engine.Config

	// Metrics enables otel metrics registration. The telemetry stack must
	// be initialized first (telemetry.Init).
	Metrics bool
}

// service is the default Service implementation.
type service struct {
	config  Config
	router  *gin.Engine
	engine  *engine.Engine
	store   weights.Store
	metrics *telemetry.Metrics
}

// New creates a fully wired consolidator service.
//
// # Description
//
// Opens the counter store, builds the engine, and registers all routes on
// a Gin router with otel middleware. The returned service owns the store;
// callers must Close it.
func New(cfg Config) (Service, error) {
	storeCfg := weights.DefaultBadgerConfig(cfg.WeightsPath)
	if cfg.InMemoryWeights {
		storeCfg = weights.InMemoryBadgerConfig()
	}
	store, err := weights.OpenBadger(storeCfg)
	if err != nil {
		return nil, fmt.Errorf("consolidator: open weight store: %w", err)
	}

	eng := engine.New(store, cfg.Embedder, cfg.Engine)

	var metrics *telemetry.Metrics
	if cfg.Metrics {
		metrics, err = telemetry.NewMetrics()
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("consolidator: create metrics: %w", err)
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("consolidator"))
	routes.SetupRoutes(router, eng, store, metrics)

	return &service{
		config:  cfg,
		router:  router,
		engine:  eng,
		store:   store,
		metrics: metrics,
	}, nil
}

// Run starts the HTTP server and blocks until it stops.
func (s *service) Run() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting consolidator service", "addr", addr)
	if err := s.router.Run(addr); err != nil {
		return fmt.Errorf("consolidator: server error: %w", err)
	}
	return nil
}

// Router returns the configured Gin engine.
func (s *service) Router() *gin.Engine {
	return s.router
}

// Engine returns the consolidation engine.
func (s *service) Engine() *engine.Engine {
	return s.engine
}

// Close releases the weight store.
func (s *service) Close() error {
	return s.store.Close()
}
