// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command consolidator runs the entity-consolidation service.
//
// # Usage
//
//	# Start the HTTP service
//	consolidator serve
//
//	# One-shot batch consolidation of a JSON document
//	consolidator run --input spans.json
//
//	# Inspect or adjust reliability counters
//	consolidator weights show M1 Condition
//	consolidator weights confirm M1 Condition
//
// Configuration lives at ~/.aleutian/consolidator.yaml and is created with
// defaults on first run. The serve command hot-reloads engine thresholds
// when the file changes.
package main

import (
	"log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
