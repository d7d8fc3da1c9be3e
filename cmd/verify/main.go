// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Command verify loads a JSON-RPC-shaped inclusion proof fixture (the
// format NEAR's EXPERIMENTAL_light_client_proof endpoint returns) and runs
// it through the inclusion verifier, printing a per-hop report. Fetching
// the fixture from a live node is explicitly out of this program's scope;
// it only parses and checks what it's handed.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"near-light-verifier/config"
	"near-light-verifier/logging"
	"near-light-verifier/types"
	"near-light-verifier/verifier"
)

func main() {
	fixturePath := flag.String("fixture", "testdata/basic_proof_mainnet.json", "path to a JSON-encoded BasicProof")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	logger, err := logging.NewLogger(&logging.Config{
		Level:      level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		Structured: cfg.Logging.Structured,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}

	proof, err := loadProof(*fixturePath)
	if err != nil {
		logger.Error("failed to load fixture", logging.Field{Key: "path", Value: *fixturePath}, logging.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}

	checker := verifier.NewChecker(types.NewMetrics())
	report, ok := checker.Check(proof)
	for _, hop := range report.Hops {
		logger.Info("verification hop",
			logging.Field{Key: "hop", Value: hop.Name},
			logging.Field{Key: "ok", Value: hop.Ok},
			logging.Field{Key: "err", Value: hop.Err},
		)
	}
	logger.Info("verification complete",
		logging.Field{Key: "block_hash", Value: report.BlockHash.String()},
		logging.Field{Key: "verified", Value: ok},
	)
	metrics := checker.Metrics()
	logger.Info("inclusion metrics",
		logging.Field{Key: "checks", Value: metrics.InclusionChecks},
		logging.Field{Key: "verified", Value: metrics.InclusionVerified},
	)

	if !ok {
		os.Exit(1)
	}
}

// loadProof reads and decodes a BasicProof from a JSON file in NEAR's
// EXPERIMENTAL_light_client_proof response shape.
func loadProof(path string) (types.BasicProof, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.BasicProof{}, fmt.Errorf("reading fixture: %w", err)
	}

	var proof types.BasicProof
	if err := json.Unmarshal(data, &proof); err != nil {
		return types.BasicProof{}, fmt.Errorf("parsing fixture: %w", err)
	}
	return proof, nil
}
