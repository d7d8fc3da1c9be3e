// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package merkle implements Merkle path verification against the combine-hash
// algebra in package hash. A path item tagged Right is hashed on the right
// of the running accumulator, Left on the left.
package merkle

import (
	"encoding/json"
	"fmt"

	"near-light-verifier/hash"
)

// Direction indicates which side of combine_hash a path item's hash occupies
// relative to the running accumulator.
type Direction uint8

const (
	// Left means the uncle hash is combined as combine_hash(uncle, acc).
	Left Direction = iota
	// Right means the uncle hash is combined as combine_hash(acc, uncle).
	Right
)

// MarshalJSON renders d the way NEAR's JSON-RPC does: the strings "Left" or
// "Right".
func (d Direction) MarshalJSON() ([]byte, error) {
	if d == Left {
		return json.Marshal("Left")
	}
	return json.Marshal("Right")
}

// UnmarshalJSON parses d from "Left" or "Right".
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Left":
		*d = Left
	case "Right":
		*d = Right
	default:
		return fmt.Errorf("merkle: unknown direction %q", s)
	}
	return nil
}

// PathItem is one step of a Merkle inclusion path: an uncle hash and the
// side it sits on relative to the accumulator being folded.
type PathItem struct {
	Hash      hash.Hash
	Direction Direction
}

// ComputeRoot folds leaf through path left to right, producing the Merkle
// root the path claims to prove inclusion under.
//
//	acc := leaf
//	for each item in path:
//	    acc = combine_hash(item.hash, acc)   if item.direction == Left
//	    acc = combine_hash(acc, item.hash)   if item.direction == Right
func ComputeRoot(leaf hash.Hash, path []PathItem) hash.Hash {
	acc := leaf
	for _, item := range path {
		switch item.Direction {
		case Left:
			acc = hash.CombineHash(item.Hash, acc)
		default:
			acc = hash.CombineHash(acc, item.Hash)
		}
	}
	return acc
}

// VerifyHash reports whether folding leaf through path reproduces root.
func VerifyHash(root hash.Hash, path []PathItem, leaf hash.Hash) bool {
	return ComputeRoot(leaf, path) == root
}
