// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package types holds the wire and domain value types the light client
// verifies: block headers, validator stake sets, and the Merkle-anchored
// inclusion proof. Every type here is an immutable value; none of them do
// I/O or hold a mutex, matching the purely-synchronous contract the
// protocol and lightclient packages build on.
package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/mr-tron/base58"

	"near-light-verifier/hash"
	"near-light-verifier/merkle"
)

// NumBlockProducerSeats caps the number of (approval, block producer) pairs
// considered during signature validation.
// Extra entries beyond this count are ignored rather than rejected.
const NumBlockProducerSeats = 50

// BlockHeight is a block's ordinal height.
type BlockHeight uint64

// MarshalBorsh encodes height as a little-endian u64.
func (h BlockHeight) MarshalBorsh(enc *hash.Encoder) {
	enc.U64(uint64(h))
}

// EpochId identifies an epoch by the hash of its first block.
type EpochId hash.Hash

// MarshalBorsh inlines the 32-byte epoch id with no length prefix.
func (e EpochId) MarshalBorsh(enc *hash.Encoder) {
	enc.Fixed(e[:])
}

// PublicKey is an ed25519 public key.
type PublicKey [32]byte

// MarshalBorsh encodes the discriminant-tagged ED25519 variant (tag 0)
// followed by the raw 32-byte key, matching NEAR's PublicKey sum type.
func (k PublicKey) MarshalBorsh(enc *hash.Encoder) {
	enc.Discriminant(0)
	enc.Fixed(k[:])
}

// Signature is an ed25519 signature. It is verified directly against its raw
// bytes (see protocol.ValidateSignature) and never itself Borsh-encoded: no
// hash in this protocol commits to an approval signature.
type Signature [64]byte

// ValidatorStake is one block producer's identity, signing key, and stake
// weight for a given epoch.
type ValidatorStake struct {
	AccountID string
	PublicKey PublicKey
	Stake     uint256.Int
}

// validatorStakeWire mirrors NEAR's JSON-RPC field names for ValidatorStake,
// with stake rendered as the decimal string the wire format uses instead of
// uint256's default hex encoding.
type validatorStakeWire struct {
	AccountID string    `json:"account_id"`
	PublicKey PublicKey `json:"public_key"`
	Stake     string    `json:"stake"`
}

// MarshalJSON renders v the way NEAR's JSON-RPC does.
func (v ValidatorStake) MarshalJSON() ([]byte, error) {
	return json.Marshal(validatorStakeWire{
		AccountID: v.AccountID,
		PublicKey: v.PublicKey,
		Stake:     v.Stake.String(),
	})
}

// UnmarshalJSON parses v from NEAR's JSON-RPC representation.
func (v *ValidatorStake) UnmarshalJSON(data []byte) error {
	var wire validatorStakeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	var stake uint256.Int
	if wire.Stake != "" {
		if err := stake.SetFromDecimal(wire.Stake); err != nil {
			return fmt.Errorf("types: parsing validator stake %q: %w", wire.Stake, err)
		}
	}
	v.AccountID = wire.AccountID
	v.PublicKey = wire.PublicKey
	v.Stake = stake
	return nil
}

// MarshalBorsh encodes (account_id, public_key, stake) in declaration order:
// a length-prefixed UTF-8 string, the tagged public key, and the stake as a
// fixed 16-byte little-endian u128.
func (v ValidatorStake) MarshalBorsh(enc *hash.Encoder) {
	enc.String(v.AccountID)
	enc.Value(v.PublicKey)
	enc.Fixed(stakeToU128LE(v.Stake))
}

// stakeToU128LE renders a stake value as a little-endian 16-byte u128. Stake
// values are validator weights and are expected to fit in 128 bits; this is
// an encoding helper, not a general-purpose uint256 truncation.
func stakeToU128LE(v uint256.Int) []byte {
	be := v.Bytes32() // big-endian, zero-padded to 32 bytes
	out := make([]byte, 16)
	for i := 0; i < 16; i++ {
		out[i] = be[31-i]
	}
	return out
}

// InnerLite is the portion of a block header that carries the fields the
// light client reasons about directly: height, epoch boundaries, the
// outcome root, and the next epoch's block-producer-set commitment.
type InnerLite struct {
	Height           BlockHeight `json:"height"`
	EpochID          EpochId     `json:"epoch_id"`
	NextEpochID      EpochId     `json:"next_epoch_id"`
	PrevStateRoot    hash.Hash   `json:"prev_state_root"`
	OutcomeRoot      hash.Hash   `json:"outcome_root"`
	TimestampNanosec uint64      `json:"timestamp_nanosec,string"`
	NextBPHash       hash.Hash   `json:"next_bp_hash"`
	BlockMerkleRoot  hash.Hash   `json:"block_merkle_root"`
}

// MarshalBorsh encodes InnerLite's fields in declaration order.
func (il InnerLite) MarshalBorsh(enc *hash.Encoder) {
	enc.Value(il.Height)
	enc.Value(il.EpochID)
	enc.Value(il.NextEpochID)
	enc.Fixed(il.PrevStateRoot[:])
	enc.Fixed(il.OutcomeRoot[:])
	enc.U64(il.TimestampNanosec)
	enc.Fixed(il.NextBPHash[:])
	enc.Fixed(il.BlockMerkleRoot[:])
}

// Hash returns hash_borsh(inner_lite).
func (il InnerLite) Hash() hash.Hash {
	return hash.HashBorsh(il)
}

// Header is the minimal block header the light client reasons about: the
// previous block's hash, the hash of the remaining (non-lite) header
// fields, and InnerLite.
type Header struct {
	PrevBlockHash hash.Hash `json:"prev_block_hash"`
	InnerRestHash hash.Hash `json:"inner_rest_hash"`
	InnerLite     InnerLite `json:"inner_lite"`
}

// Hash computes combine_hash(combine_hash(hash(inner_lite), inner_rest_hash), prev_block_hash).
func (h Header) Hash() hash.Hash {
	innerLiteHash := h.InnerLite.Hash()
	withRest := hash.CombineHash(innerLiteHash, h.InnerRestHash)
	return hash.CombineHash(withRest, h.PrevBlockHash)
}

// ApprovalInner is the value signed by a block producer approving a block;
// this codebase only needs the Endorsement variant.
type ApprovalInner struct {
	NextBlockHash hash.Hash
}

// MarshalBorsh encodes the Endorsement(hash) sum-type variant: discriminant
// byte 0 followed by the 32-byte next-block hash.
func (a ApprovalInner) MarshalBorsh(enc *hash.Encoder) {
	enc.Discriminant(0)
	enc.Fixed(a.NextBlockHash[:])
}

// LightClientBlockView is what a light client is handed to advance its head:
// the candidate header, the approvals collected from the current epoch's
// block producers on the block at height+2, and, at an epoch boundary, the
// next epoch's block producer set.
type LightClientBlockView struct {
	PrevBlockHash      hash.Hash        `json:"prev_block_hash"`
	NextBlockInnerHash hash.Hash        `json:"next_block_inner_hash"`
	InnerLite          InnerLite        `json:"inner_lite"`
	InnerRestHash      hash.Hash        `json:"inner_rest_hash"`
	NextBPs            []ValidatorStake `json:"next_bps"`
	ApprovalsAfterNext []*Signature     `json:"approvals_after_next"`
}

// Header reconstructs the Header this view describes.
func (v LightClientBlockView) Header() Header {
	return Header{
		PrevBlockHash: v.PrevBlockHash,
		InnerRestHash: v.InnerRestHash,
		InnerLite:     v.InnerLite,
	}
}

// NextBPHash returns hash_borsh(next_bps) when next_bps is present, for
// comparison against InnerLite.NextBPHash.
func NextBPHash(nextBPs []ValidatorStake) hash.Hash {
	enc := hash.NewEncoder(256)
	hash.Slice[ValidatorStake](enc, nextBPs)
	return hash.Sum(enc.Bytes())
}

// Direction mirrors merkle.Direction for the JSON wire format, which spells
// directions as the strings "Left"/"Right".
type Direction = merkle.Direction

// MerklePathItem is the JSON-wire form of a merkle.PathItem.
type MerklePathItem struct {
	Hash      hash.Hash `json:"hash"`
	Direction Direction `json:"direction"`
}

// ToMerklePath converts a slice of wire MerklePathItem into merkle.PathItem.
func ToMerklePath(items []MerklePathItem) []merkle.PathItem {
	out := make([]merkle.PathItem, len(items))
	for i, it := range items {
		out[i] = merkle.PathItem{Hash: it.Hash, Direction: it.Direction}
	}
	return out
}

// ExecutionStatus is the outcome of executing a receipt. Only the fields
// needed to reproduce the canonical outcome hash are modeled.
type ExecutionStatus struct {
	SuccessReceiptID *hash.Hash
	Failure          bool
}

// executionStatusWire mirrors NEAR's single-key-object encoding of the
// ExecutionStatus sum type: {"SuccessReceiptId": "..."} or {"Failure": {}}.
type executionStatusWire struct {
	SuccessReceiptID *hash.Hash             `json:"SuccessReceiptId,omitempty"`
	Failure          map[string]interface{} `json:"Failure,omitempty"`
}

// MarshalJSON renders s the way NEAR's JSON-RPC does. A bare success with
// no follow-on receipt is rendered as the string "SuccessValue", the only
// other variant this codebase's canonical hash distinguishes.
func (s ExecutionStatus) MarshalJSON() ([]byte, error) {
	switch {
	case s.SuccessReceiptID != nil:
		return json.Marshal(executionStatusWire{SuccessReceiptID: s.SuccessReceiptID})
	case s.Failure:
		return []byte(`{"Failure":{}}`), nil
	default:
		return json.Marshal("SuccessValue")
	}
}

// UnmarshalJSON parses s from NEAR's JSON-RPC representation. Any variant
// other than SuccessReceiptId/Failure is treated as a bare success with no
// follow-on receipt, since that's the only other case this codebase's
// canonical hash distinguishes.
func (s *ExecutionStatus) UnmarshalJSON(data []byte) error {
	var wire executionStatusWire
	if err := json.Unmarshal(data, &wire); err == nil && (wire.SuccessReceiptID != nil || wire.Failure != nil) {
		s.SuccessReceiptID = wire.SuccessReceiptID
		s.Failure = wire.Failure != nil
		return nil
	}
	s.SuccessReceiptID = nil
	s.Failure = false
	return nil
}

// ExecutionOutcome is the portion of a transaction/receipt's outcome that is
// committed to the outcome Merkle tree.
type ExecutionOutcome struct {
	Logs        []string        `json:"logs"`
	ReceiptIDs  []hash.Hash     `json:"receipt_ids"`
	GasBurnt    uint64          `json:"gas_burnt"`
	TokensBurnt string          `json:"tokens_burnt"`
	ExecutorID  string          `json:"executor_id"`
	Status      ExecutionStatus `json:"status"`
}

// OutcomeProof pairs an id with the outcome executing under it and the
// Merkle path from the outcome's leaf hash to the per-shard outcome root.
type OutcomeProof struct {
	BlockHash hash.Hash        `json:"block_hash"`
	ID        hash.Hash        `json:"id"`
	Outcome   ExecutionOutcome `json:"outcome"`
	Proof     []MerklePathItem `json:"proof"`
}

// BasicProof is the Basic variant of an inclusion proof: a transaction or
// receipt outcome's inclusion in a block, plus that block's inclusion in
// the light client's trusted block history.
type BasicProof struct {
	HeadBlockRoot    hash.Hash        `json:"head_block_root"`
	OutcomeProof     OutcomeProof     `json:"outcome_proof"`
	OutcomeRootProof []MerklePathItem `json:"outcome_root_proof"`
	BlockHeaderLite  struct {
		PrevBlockHash hash.Hash `json:"prev_block_hash"`
		InnerRestHash hash.Hash `json:"inner_rest_hash"`
		InnerLite     InnerLite `json:"inner_lite"`
	} `json:"block_header_lite"`
	BlockProof []MerklePathItem `json:"block_proof"`
}

// stringListMarshaler Borsh-encodes a variable array of UTF-8 strings.
type stringListMarshaler []string

func (l stringListMarshaler) MarshalBorsh(enc *hash.Encoder) {
	enc.U32(uint32(len(l)))
	for _, s := range l {
		enc.String(s)
	}
}

// hashListMarshaler Borsh-encodes a variable array of fixed 32-byte hashes.
type hashListMarshaler []hash.Hash

func (l hashListMarshaler) MarshalBorsh(enc *hash.Encoder) {
	enc.U32(uint32(len(l)))
	for _, h := range l {
		enc.Fixed(h[:])
	}
}

// MarshalBorsh encodes the ExecutionStatus sum type: tag 0 carrying the
// success receipt id, tag 1 for an execution failure, tag 2 for a bare
// success with no follow-on receipt.
func (s ExecutionStatus) MarshalBorsh(enc *hash.Encoder) {
	switch {
	case s.SuccessReceiptID != nil:
		enc.Discriminant(0)
		enc.Fixed(s.SuccessReceiptID[:])
	case s.Failure:
		enc.Discriminant(1)
	default:
		enc.Discriminant(2)
	}
}

// gasTokensExecutor is the Borsh tuple (gas_burnt, tokens_burnt, executor_id)
// from ExecutionOutcome, encoded together as the flattening's final hash.
type gasTokensExecutor struct {
	GasBurnt    uint64
	TokensBurnt string
	ExecutorID  string
}

func (g gasTokensExecutor) MarshalBorsh(enc *hash.Encoder) {
	enc.U64(g.GasBurnt)
	enc.String(g.TokensBurnt)
	enc.String(g.ExecutorID)
}

// ToHashes produces the canonical flattening of an outcome keyed by id: the
// id itself followed by one hash_borsh digest per remaining field group
// (status, logs, receipt ids, and the gas/tokens/executor tuple).
func (o ExecutionOutcome) ToHashes(id hash.Hash) []hash.Hash {
	return []hash.Hash{
		id,
		hash.HashBorsh(o.Status),
		hash.HashBorsh(stringListMarshaler(o.Logs)),
		hash.HashBorsh(hashListMarshaler(o.ReceiptIDs)),
		hash.HashBorsh(gasTokensExecutor{
			GasBurnt:    o.GasBurnt,
			TokensBurnt: o.TokensBurnt,
			ExecutorID:  o.ExecutorID,
		}),
	}
}

// StakeInfo reports the total stake available in an epoch and the portion
// of it that signed off on a candidate block.
type StakeInfo struct {
	Total    uint256.Int
	Approved uint256.Int
}

// Synced is the result of a successful sync step: the new trusted head and,
// when the synced block crossed an epoch boundary, the block producer set
// for the epoch after next, tagged with the epoch it belongs to.
type Synced struct {
	NewHead     Header
	NextEpochID EpochId
	NextBPs     []ValidatorStake
}

// MarshalJSON renders k as NEAR-style base58.
func (k PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(base58.Encode(k[:]))
}

// UnmarshalJSON parses k from a base58 string. A leading "ed25519:" prefix,
// as NEAR's own JSON-RPC emits, is tolerated and stripped.
func (k *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimPrefix(s, "ed25519:")
	decoded, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("types: decoding base58 public key: %w", err)
	}
	if len(decoded) != 32 {
		return fmt.Errorf("types: base58 public key has %d bytes, want 32", len(decoded))
	}
	copy(k[:], decoded)
	return nil
}

// MarshalJSON renders s as NEAR-style base58.
func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(base58.Encode(s[:]))
}

// UnmarshalJSON parses s from a base58 string, tolerating a leading
// "ed25519:" prefix.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	str = strings.TrimPrefix(str, "ed25519:")
	decoded, err := base58.Decode(str)
	if err != nil {
		return fmt.Errorf("types: decoding base58 signature: %w", err)
	}
	if len(decoded) != 64 {
		return fmt.Errorf("types: base58 signature has %d bytes, want 64", len(decoded))
	}
	copy(s[:], decoded)
	return nil
}

// MarshalJSON renders e as NEAR-style base58.
func (e EpochId) MarshalJSON() ([]byte, error) {
	return hash.Hash(e).MarshalJSON()
}

// UnmarshalJSON parses e from a base58 string.
func (e *EpochId) UnmarshalJSON(data []byte) error {
	return (*hash.Hash)(e).UnmarshalJSON(data)
}
