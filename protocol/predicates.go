// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package protocol implements the light client's core verification
// predicates: epoch-boundary checks, block producer set validation, ed25519
// approval verification, and stake-weighted super-majority accounting.
// Every function here is pure and synchronous — no I/O, no global state —
// so they can be fuzzed and property-tested directly.
package protocol

import (
	"crypto/ed25519"

	"github.com/holiman/uint256"

	protoerrors "near-light-verifier/errors"
	"near-light-verifier/hash"
	"near-light-verifier/types"
)

// EnsureNotAlreadyVerified rejects a candidate height that does not strictly
// advance past the current head.
func EnsureNotAlreadyVerified(currentHeight, candidateHeight types.BlockHeight) error {
	if candidateHeight <= currentHeight {
		return protoerrors.New(protoerrors.CodeBlockAlreadyVerified, "candidate height does not exceed current head").
			WithContext("current_height", uint64(currentHeight)).
			WithContext("candidate_height", uint64(candidateHeight))
	}
	return nil
}

// EnsureEpochIsCurrentOrNext rejects a candidate block whose epoch id is
// neither the current epoch nor the epoch immediately following it.
func EnsureEpochIsCurrentOrNext(currentEpochID, nextEpochID, candidateEpochID types.EpochId) error {
	if candidateEpochID != currentEpochID && candidateEpochID != nextEpochID {
		return protoerrors.New(protoerrors.CodeBlockNotCurrentOrNextEpoch, "candidate block's epoch is neither current nor next").
			WithContext("candidate_epoch_id", hash.Hash(candidateEpochID).String())
	}
	return nil
}

// EnsureIfNextEpochContainsNextBPs rejects a block that crosses into the
// next epoch (candidateEpochID == nextEpochID) without carrying the block
// producer set for the epoch after that.
func EnsureIfNextEpochContainsNextBPs(nextEpochID, candidateEpochID types.EpochId, nextBPs []types.ValidatorStake) error {
	if candidateEpochID == nextEpochID && nextBPs == nil {
		return protoerrors.New(protoerrors.CodeNextBPsInvalid, "block crosses into next epoch but carries no next_bps")
	}
	return nil
}

// EnsureNextBPsIsValid rejects a next_bps whose canonical hash does not
// match the candidate block's committed next_bp_hash.
func EnsureNextBPsIsValid(nextBPs []types.ValidatorStake, nextBPHash hash.Hash) error {
	if nextBPs == nil {
		return nil
	}
	got := types.NextBPHash(nextBPs)
	if got != nextBPHash {
		return protoerrors.New(protoerrors.CodeNextBPsInvalid, "next_bps does not hash to next_bp_hash").
			WithContext("computed", got.String()).
			WithContext("expected", nextBPHash.String())
	}
	return nil
}

// ReconstructApprovalMessage rebuilds the exact byte sequence a block
// producer signs when approving blockView: the Borsh encoding of
// ApprovalInner::Endorsement(next_block_hash) followed by the little-endian
// u64 encoding of (height + 2).
//
// next_block_hash = combine_hash(next_block_inner_hash, new_head.hash())
// where new_head is the Header described by blockView itself.
func ReconstructApprovalMessage(blockView types.LightClientBlockView) []byte {
	newHead := blockView.Header()
	nextBlockHash := hash.CombineHash(blockView.NextBlockInnerHash, newHead.Hash())

	approval := types.ApprovalInner{NextBlockHash: nextBlockHash}
	enc := hash.NewEncoder(64)
	enc.Value(approval)
	enc.U64(uint64(blockView.InnerLite.Height) + 2)
	return enc.Bytes()
}

// ValidateSignature verifies a single block producer's approval. sig is nil
// when the producer did not submit an approval at all, which is reported
// distinctly from a present-but-invalid signature so callers and tests can
// tell "didn't sign" from "signed wrong."
func ValidateSignature(publicKey types.PublicKey, sig *types.Signature, message []byte) error {
	if sig == nil {
		return protoerrors.ErrValidatorNotSigned
	}
	if !ed25519.Verify(publicKey[:], message, sig[:]) {
		return protoerrors.New(protoerrors.CodeSignatureInvalid, "ed25519 signature verification failed")
	}
	return nil
}

// ValidateSignatures folds over the zip of approvals and the epoch's block
// producers, capped at maxSeats pairs, accumulating each producer's stake
// into Total and, for every validly-signed approval, into Approved. A
// missing or invalid signature contributes only to Total, never to
// Approved; it does not abort the fold. Callers pass types.NumBlockProducerSeats
// for maxSeats unless a configured override applies. The stake sum is
// overflow-checked and panics if it exceeds 256 bits.
func ValidateSignatures(approvals []*types.Signature, blockProducers []types.ValidatorStake, message []byte, maxSeats int) types.StakeInfo {
	n := len(approvals)
	if len(blockProducers) < n {
		n = len(blockProducers)
	}
	if n > maxSeats {
		n = maxSeats
	}

	var total, approved uint256.Int
	for i := 0; i < n; i++ {
		if _, overflow := total.AddOverflow(&total, &blockProducers[i].Stake); overflow {
			panic("protocol: total stake overflows 256 bits")
		}
		if err := ValidateSignature(blockProducers[i].PublicKey, approvals[i], message); err == nil {
			approved.Add(&approved, &blockProducers[i].Stake)
		}
	}
	return types.StakeInfo{Total: total, Approved: approved}
}

// EnsureStakeIsSufficient rejects a StakeInfo whose approved stake does not
// strictly exceed two-thirds of total stake. The threshold is computed as
// (total / 3) * 2 with integer division applied before multiplication,
// matching the reference implementation's exact rounding.
func EnsureStakeIsSufficient(info types.StakeInfo) error {
	var three, two uint256.Int
	three.SetUint64(3)
	two.SetUint64(2)

	var threshold uint256.Int
	threshold.Div(&info.Total, &three)
	threshold.Mul(&threshold, &two)

	if info.Approved.Cmp(&threshold) <= 0 {
		return protoerrors.New(protoerrors.CodeNotEnoughApprovedStake, "approved stake does not exceed two-thirds threshold").
			WithContext("total", info.Total.String()).
			WithContext("approved", info.Approved.String()).
			WithContext("threshold", threshold.String())
	}
	return nil
}
