// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package verifier

import "near-light-verifier/hash"

// Hop represents a single step in an inclusion-proof verification: one
// Merkle fold or hash equality check, recorded so a failed proof can be
// diagnosed without re-running the verifier under a debugger.
type Hop struct {
	Name    string            // e.g. "OutcomeBlockHashMatchesHeader", "OutcomeInBlock", "BlockInHistory"
	Inputs  map[string]hash.Hash
	Outputs map[string]hash.Hash
	Ok      bool   // whether this hop's check passed
	Err     string // failure detail, empty when Ok
}

// Report is the complete diagnostic trail of an inclusion-proof check.
type Report struct {
	BlockHash hash.Hash // the header hash the proof claims to include
	Hops      []Hop     // every hop evaluated, in order
	Verified  bool      // overall result: all hops Ok
}
