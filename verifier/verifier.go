// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package verifier checks inclusion proofs: that an execution outcome is
// committed to a block, and that block is committed to the light client's
// trusted block history. The two checks are kept as separate functions,
// VerifyOutcome and VerifyBlock, so each Merkle layer can be exercised and
// reported on independently, matching the rest of the codebase's
// per-hop-diagnostic style.
package verifier

import (
	"near-light-verifier/hash"
	"near-light-verifier/merkle"
	"near-light-verifier/types"
)

// VerifyOutcome checks that op's execution outcome is included under
// outcomeRoot: first computing the outcome leaf as hash_borsh(to_hashes(id))
// — a single SHA-256 over the Borsh-encoded sequence of id/status/logs/
// receipts/gas hashes, not a pairwise fold — then folding that leaf through
// op.Proof to a per-shard outcome subtree root, re-hashing that root
// (hash_borsh) and folding it through outcomeRootProof to the block's
// committed outcome_root.
func VerifyOutcome(op types.OutcomeProof, outcomeRootProof []types.MerklePathItem, outcomeRoot hash.Hash) (Hop, bool) {
	leaf := hash.HashBorshSlice(op.Outcome.ToHashes(op.ID))

	subtreeRoot := merkle.ComputeRoot(leaf, types.ToMerklePath(op.Proof))
	rehashed := hash.HashBorshHash(subtreeRoot)
	got := merkle.ComputeRoot(rehashed, types.ToMerklePath(outcomeRootProof))

	ok := got == outcomeRoot
	hop := Hop{
		Name:    "OutcomeInBlock",
		Inputs:  map[string]hash.Hash{"leaf": leaf, "outcome_root": outcomeRoot},
		Outputs: map[string]hash.Hash{"computed_outcome_root": got},
		Ok:      ok,
	}
	if !ok {
		hop.Err = "folded outcome root does not match block's committed outcome_root"
	}
	return hop, ok
}

// VerifyBlock checks that headerHash is included in the light client's
// trusted block history by folding it through blockProof to headBlockRoot.
func VerifyBlock(headerHash hash.Hash, blockProof []types.MerklePathItem, headBlockRoot hash.Hash) (Hop, bool) {
	got := merkle.ComputeRoot(headerHash, types.ToMerklePath(blockProof))
	ok := got == headBlockRoot

	hop := Hop{
		Name:    "BlockInHistory",
		Inputs:  map[string]hash.Hash{"header_hash": headerHash, "head_block_root": headBlockRoot},
		Outputs: map[string]hash.Hash{"computed_head_block_root": got},
		Ok:      ok,
	}
	if !ok {
		hop.Err = "folded block root does not match the trusted head_block_root"
	}
	return hop, ok
}

// InclusionProofVerify checks a Basic proof in full: the outcome proof's
// claimed block hash must match the header it is paired with, the outcome
// itself must be included in that header's outcome_root, and the header
// must be included in the light client's trusted block history.
func InclusionProofVerify(proof types.BasicProof) bool {
	_, ok := Verify(proof)
	return ok
}

// Verify runs the same checks as InclusionProofVerify but returns the full
// diagnostic Report alongside the bool result.
func Verify(proof types.BasicProof) (Report, bool) {
	header := types.Header{
		PrevBlockHash: proof.BlockHeaderLite.PrevBlockHash,
		InnerRestHash: proof.BlockHeaderLite.InnerRestHash,
		InnerLite:     proof.BlockHeaderLite.InnerLite,
	}
	headerHash := header.Hash()

	report := Report{BlockHash: headerHash}

	blockHashMatches := proof.OutcomeProof.BlockHash == headerHash
	report.Hops = append(report.Hops, Hop{
		Name:    "OutcomeBlockHashMatchesHeader",
		Inputs:  map[string]hash.Hash{"outcome_proof.block_hash": proof.OutcomeProof.BlockHash, "header_hash": headerHash},
		Ok:      blockHashMatches,
		Err:     errIfFalse(blockHashMatches, "outcome_proof.block_hash does not match block_header_lite.hash()"),
	})
	if !blockHashMatches {
		return report, false
	}

	outcomeHop, outcomeOK := VerifyOutcome(proof.OutcomeProof, proof.OutcomeRootProof, proof.BlockHeaderLite.InnerLite.OutcomeRoot)
	report.Hops = append(report.Hops, outcomeHop)
	if !outcomeOK {
		return report, false
	}

	blockHop, blockOK := VerifyBlock(headerHash, proof.BlockProof, proof.HeadBlockRoot)
	report.Hops = append(report.Hops, blockHop)
	if !blockOK {
		return report, false
	}

	report.Verified = true
	return report, true
}

func errIfFalse(ok bool, msg string) string {
	if ok {
		return ""
	}
	return msg
}

// Checker wraps Verify with inclusion-check metrics, the same way
// lightclient.Client wraps the sync predicates: Verify itself stays a pure
// function of its input, and the bookkeeping a production caller wants
// around it lives in this thin stateful shell.
type Checker struct {
	metrics *types.Metrics
}

// NewChecker builds a Checker recording into metrics.
func NewChecker(metrics *types.Metrics) *Checker {
	return &Checker{metrics: metrics}
}

// Check runs Verify and records the attempt and, on success, the inclusion
// verification in the Checker's metrics.
func (c *Checker) Check(proof types.BasicProof) (Report, bool) {
	c.metrics.RecordInclusionCheck()
	report, ok := Verify(proof)
	if ok {
		c.metrics.RecordInclusionVerified()
	}
	return report, ok
}

// Metrics returns a copy of the Checker's inclusion-check metrics.
func (c *Checker) Metrics() *types.Metrics {
	m := *c.metrics
	return &m
}
