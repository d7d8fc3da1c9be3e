// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package types

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"

	"near-light-verifier/hash"
)

func TestHeaderHashIsThreeWayCombine(t *testing.T) {
	var h Header
	h.PrevBlockHash = hash.Sum([]byte("prev"))
	h.InnerRestHash = hash.Sum([]byte("rest"))
	h.InnerLite = InnerLite{Height: 5}

	got := h.Hash()

	innerLiteHash := h.InnerLite.Hash()
	withRest := hash.CombineHash(innerLiteHash, h.InnerRestHash)
	want := hash.CombineHash(withRest, h.PrevBlockHash)

	if got != want {
		t.Fatalf("Header.Hash() = %s, want %s", got, want)
	}
}

func TestNextBPHashIsDeterministic(t *testing.T) {
	bps := []ValidatorStake{
		{AccountID: "alice.near", PublicKey: PublicKey{1}, Stake: *uint256.NewInt(100)},
		{AccountID: "bob.near", PublicKey: PublicKey{2}, Stake: *uint256.NewInt(200)},
	}

	h1 := NextBPHash(bps)
	h2 := NextBPHash(bps)
	if h1 != h2 {
		t.Fatal("NextBPHash should be deterministic across calls")
	}

	reordered := []ValidatorStake{bps[1], bps[0]}
	if NextBPHash(reordered) == h1 {
		t.Fatal("NextBPHash should be order-sensitive")
	}
}

func TestValidatorStakeMarshalBorshLayout(t *testing.T) {
	v := ValidatorStake{
		AccountID: "a",
		PublicKey: PublicKey{},
		Stake:     *uint256.NewInt(1),
	}
	enc := hash.NewEncoder(64)
	v.MarshalBorsh(enc)
	b := enc.Bytes()

	// u32 length prefix (1) + "a" + discriminant(1) + 32 key bytes + 16 stake bytes
	wantLen := 4 + 1 + 1 + 32 + 16
	if len(b) != wantLen {
		t.Fatalf("encoded length = %d, want %d", len(b), wantLen)
	}
}

func TestHashJSONRoundTrip(t *testing.T) {
	h := hash.Sum([]byte("round trip"))
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got hash.Hash
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != h {
		t.Fatalf("round trip = %s, want %s", got, h)
	}
}

func TestPublicKeyUnmarshalJSONStripsPrefix(t *testing.T) {
	var want PublicKey
	want[0] = 0xaa
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var withPrefix string
	if err := json.Unmarshal(data, &withPrefix); err != nil {
		t.Fatalf("unmarshal to string: %v", err)
	}
	prefixed, err := json.Marshal("ed25519:" + withPrefix)
	if err != nil {
		t.Fatalf("Marshal prefixed: %v", err)
	}

	var got PublicKey
	if err := json.Unmarshal(prefixed, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}
