// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package consolidator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/datatypes"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/engine"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, err := New(Config{
		Port:            0,
		InMemoryWeights: true,
		Engine:          engine.DefaultConfig(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestServiceHealthRoute(t *testing.T) {
	svc := newTestService(t)

	w := httptest.NewRecorder()
	svc.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServiceMetricsRoute(t *testing.T) {
	svc := newTestService(t)

	w := httptest.NewRecorder()
	svc.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServiceConsolidateEndToEnd(t *testing.T) {
	svc := newTestService(t)

	// Teach the store that M2 is unreliable for Drug, then consolidate a
	// pair where M2's raw score would otherwise win.
	feedback := []string{
		`{"model": "M2", "label": "Drug", "confirmed": false}`,
		`{"model": "M2", "label": "Drug", "confirmed": false}`,
		`{"model": "M2", "label": "Drug", "confirmed": false}`,
	}
	for _, body := range feedback {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/weights/feedback", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		svc.Router().ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	// M1 (neutral 0.5 weight): 0.8*0.5 = 0.40.
	// M2 (3 rejections, weight 0.2): 0.9*0.2 = 0.18. M1 wins.
	body := `{
		"source_text": "prescribed aspirin twice daily",
		"model_spans": {
			"M1": [{"text": "aspirin", "label": "Drug", "score": 0.8, "start": 11, "end": 18}],
			"M2": [{"text": "aspirin twice", "label": "Drug", "score": 0.9, "start": 11, "end": 24}]
		}
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/consolidate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	svc.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.ConsolidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entities, 1)

	got := resp.Entities[0]
	assert.Equal(t, "Drug", got.Label)
	assert.Equal(t, 11, got.Start)
	assert.Equal(t, 24, got.End)
	assert.Equal(t, []string{"M1", "M2"}, got.Models)
	// M1's 0.8 base score, boosted for the two-model agreement.
	assert.InDelta(t, 0.8+0.15*0.2, got.Score, 1e-9)
}

func TestServiceEngineHotReload(t *testing.T) {
	svc := newTestService(t)

	next := engine.DefaultConfig()
	next.JaccardThreshold = 0.9
	svc.Engine().SetConfig(next)

	assert.Equal(t, 0.9, svc.Engine().Config().JaccardThreshold)
}
