// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package lightclient

import (
	"crypto/ed25519"
	stderrors "errors"
	"testing"
	"time"

	"github.com/holiman/uint256"

	"near-light-verifier/cache"
	"near-light-verifier/config"
	protoerrors "near-light-verifier/errors"
	"near-light-verifier/hash"
	"near-light-verifier/protocol"
	"near-light-verifier/types"
)

func newTestCache(t *testing.T) *cache.SyncCache {
	t.Helper()
	return cache.NewSyncCache(time.Minute, 10)
}

// scenario bundles a trusted head, its current epoch's block producers, and
// a candidate next block that a super-majority of those producers approve.
type scenario struct {
	head   types.Header
	bps    []types.ValidatorStake
	block  types.LightClientBlockView
}

// buildScenario constructs a head at currentEpoch/nextEpoch and a candidate
// block in candidateEpoch, signed by enough of bps to clear two-thirds
// stake. When withNextBPs is set, the block carries a next_bps set whose
// hash matches next_bp_hash; otherwise next_bps is nil.
func buildScenario(t *testing.T, candidateEpoch types.EpochId, withNextBPs bool) scenario {
	t.Helper()

	currentEpoch := types.EpochId(hash.Sum([]byte("epoch-0")))
	nextEpoch := types.EpochId(hash.Sum([]byte("epoch-1")))

	head := types.Header{
		PrevBlockHash: hash.Sum([]byte("genesis")),
		InnerRestHash: hash.Sum([]byte("genesis-rest")),
		InnerLite: types.InnerLite{
			Height:      100,
			EpochID:     currentEpoch,
			NextEpochID: nextEpoch,
		},
	}

	type signer struct {
		pub  ed25519.PublicKey
		priv ed25519.PrivateKey
	}
	signers := make([]signer, 4)
	bps := make([]types.ValidatorStake, 4)
	for i := range signers {
		pub, priv, err := ed25519.GenerateKey(nil)
		if err != nil {
			t.Fatalf("GenerateKey: %v", err)
		}
		signers[i] = signer{pub: pub, priv: priv}
		var pk types.PublicKey
		copy(pk[:], pub)
		bps[i] = types.ValidatorStake{
			AccountID: "validator",
			PublicKey: pk,
			Stake:     *uint256.NewInt(100),
		}
	}

	var nextBPs []types.ValidatorStake
	var nextBPHash hash.Hash
	if withNextBPs {
		nextBPs = []types.ValidatorStake{
			{AccountID: "epoch2-validator", PublicKey: types.PublicKey{9}, Stake: *uint256.NewInt(1)},
		}
		nextBPHash = types.NextBPHash(nextBPs)
	}

	block := types.LightClientBlockView{
		PrevBlockHash:      head.Hash(),
		NextBlockInnerHash: hash.Sum([]byte("next-block-inner")),
		InnerRestHash:      hash.Sum([]byte("block-1-rest")),
		InnerLite: types.InnerLite{
			Height:      101,
			EpochID:     candidateEpoch,
			NextEpochID: types.EpochId(hash.Sum([]byte("epoch-2"))),
			NextBPHash:  nextBPHash,
		},
		NextBPs: nextBPs,
	}

	message := protocol.ReconstructApprovalMessage(block)
	approvals := make([]*types.Signature, len(signers))
	for i, s := range signers {
		var sig types.Signature
		copy(sig[:], ed25519.Sign(s.priv, message))
		approvals[i] = &sig
	}
	block.ApprovalsAfterNext = approvals

	return scenario{head: head, bps: bps, block: block}
}

func TestSyncAdvancesWithinCurrentEpoch(t *testing.T) {
	s := buildScenario(t, types.EpochId(hash.Sum([]byte("epoch-0"))), false)

	client := NewClient()
	synced, err := client.Sync(s.head, s.bps, s.block)
	if err != nil {
		t.Fatalf("expected sync to succeed, got %v", err)
	}
	if synced.NewHead.InnerLite.Height != s.block.InnerLite.Height {
		t.Fatalf("new head height = %d, want %d", synced.NewHead.InnerLite.Height, s.block.InnerLite.Height)
	}
	if synced.NextBPs != nil {
		t.Fatal("expected no next_bps when staying within the current epoch")
	}
}

func TestSyncAcrossEpochBoundaryCarriesNextBPs(t *testing.T) {
	nextEpoch := types.EpochId(hash.Sum([]byte("epoch-1")))
	s := buildScenario(t, nextEpoch, true)

	client := NewClient()
	synced, err := client.Sync(s.head, s.bps, s.block)
	if err != nil {
		t.Fatalf("expected sync to succeed, got %v", err)
	}
	if synced.NextBPs == nil {
		t.Fatal("expected next_bps to be carried across the epoch boundary")
	}
	if synced.NextEpochID != s.head.InnerLite.NextEpochID {
		t.Fatalf("NextEpochID = %x, want %x", synced.NextEpochID, s.head.InnerLite.NextEpochID)
	}
}

func TestSyncRejectsNonAdvancingHeight(t *testing.T) {
	s := buildScenario(t, types.EpochId(hash.Sum([]byte("epoch-0"))), false)
	s.block.InnerLite.Height = s.head.InnerLite.Height

	client := NewClient()
	_, err := client.Sync(s.head, s.bps, s.block)
	if !stderrors.Is(err, protoerrors.ErrBlockAlreadyVerified) {
		t.Fatalf("expected ErrBlockAlreadyVerified, got %v", err)
	}
}

func TestSyncRejectsWrongEpoch(t *testing.T) {
	s := buildScenario(t, types.EpochId(hash.Sum([]byte("some-other-epoch"))), false)

	client := NewClient()
	_, err := client.Sync(s.head, s.bps, s.block)
	if !stderrors.Is(err, protoerrors.ErrBlockNotCurrentOrNextEpoch) {
		t.Fatalf("expected ErrBlockNotCurrentOrNextEpoch, got %v", err)
	}
}

func TestSyncRejectsMissingNextBPsAtEpochBoundary(t *testing.T) {
	nextEpoch := types.EpochId(hash.Sum([]byte("epoch-1")))
	s := buildScenario(t, nextEpoch, false)

	client := NewClient()
	_, err := client.Sync(s.head, s.bps, s.block)
	if !stderrors.Is(err, protoerrors.ErrNextBPsInvalid) {
		t.Fatalf("expected ErrNextBPsInvalid, got %v", err)
	}
}

func TestSyncRejectsInsufficientStake(t *testing.T) {
	s := buildScenario(t, types.EpochId(hash.Sum([]byte("epoch-0"))), false)
	// Drop all but one approval so stake falls well below two-thirds.
	for i := 1; i < len(s.block.ApprovalsAfterNext); i++ {
		s.block.ApprovalsAfterNext[i] = nil
	}

	client := NewClient()
	_, err := client.Sync(s.head, s.bps, s.block)
	if !stderrors.Is(err, protoerrors.ErrNotEnoughApprovedStake) {
		t.Fatalf("expected ErrNotEnoughApprovedStake, got %v", err)
	}
}

func TestSyncHonorsConfiguredBlockProducerSeatCap(t *testing.T) {
	s := buildScenario(t, types.EpochId(hash.Sum([]byte("epoch-0"))), false)
	// Drop the first signer's approval: with the full bps set the other
	// three still clear two-thirds, but a seat cap of 1 considers only this
	// one unsigned pair.
	s.block.ApprovalsAfterNext[0] = nil

	cfg := config.DefaultConfig()
	cfg.Protocol.NumBlockProducerSeats = 1

	client := NewClient(WithMaxBlockProducerSeats(cfg.Protocol.NumBlockProducerSeats))
	_, err := client.Sync(s.head, s.bps, s.block)
	if !stderrors.Is(err, protoerrors.ErrNotEnoughApprovedStake) {
		t.Fatalf("expected ErrNotEnoughApprovedStake under a seat cap of 1, got %v", err)
	}
}

func TestSyncResultIsMemoizedByCache(t *testing.T) {
	s := buildScenario(t, types.EpochId(hash.Sum([]byte("epoch-0"))), false)

	client := NewClient(WithCache(newTestCache(t)))
	first, err := client.Sync(s.head, s.bps, s.block)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	second, err := client.Sync(s.head, s.bps, s.block)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if first.NewHead.Hash() != second.NewHead.Hash() {
		t.Fatal("memoized sync should return the same new head")
	}
}
