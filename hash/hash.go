// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package hash implements the deterministic, Borsh-compatible byte encoding
// and SHA-256 hashing kernel the rest of the light client builds on. Every
// Merkle root, next-bp-hash, and approval signature in this codebase is
// computed against the exact byte layout produced here; changing this file
// silently invalidates every hash comparison elsewhere.
package hash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// Hash is the closed codomain of every hashing operation in this package: a
// fixed 32-byte SHA-256 digest. Equality is bytewise.
type Hash [32]byte

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// MarshalJSON renders h the way NEAR's JSON-RPC does: base58 of the raw
// bytes.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(base58.Encode(h[:]))
}

// UnmarshalJSON parses h from a base58 string.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("hash: decoding base58: %w", err)
	}
	if len(decoded) != 32 {
		return fmt.Errorf("hash: base58 value has %d bytes, want 32", len(decoded))
	}
	copy(h[:], decoded)
	return nil
}

// String returns the lowercase hex encoding of h.
func (h Hash) String() string {
	const hextable = "0123456789abcdef"
	buf := make([]byte, 64)
	for i, b := range h {
		buf[i*2] = hextable[b>>4]
		buf[i*2+1] = hextable[b&0x0f]
	}
	return string(buf)
}

// Marshaler is implemented by any value that knows how to write its own
// canonical Borsh-compatible encoding. Structs built from this package's
// Encoder primitives automatically produce byte-exact little-endian output
// (fixed arrays inlined, variable arrays u32-length-prefixed); there is no reflection-based fallback because the
// concrete wire layout of every protocol type must be reviewable by hand.
type Marshaler interface {
	MarshalBorsh(enc *Encoder)
}

// Encoder accumulates a Borsh-compatible byte stream. The zero value is
// ready to use.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder with capacity hint n.
func NewEncoder(n int) *Encoder {
	return &Encoder{buf: make([]byte, 0, n)}
}

// Bytes returns the accumulated encoding.
func (e *Encoder) Bytes() []byte { return e.buf }

// Fixed appends a fixed-size byte array inlined without any length prefix.
func (e *Encoder) Fixed(b []byte) {
	e.buf = append(e.buf, b...)
}

// U8 appends a single byte.
func (e *Encoder) U8(v uint8) {
	e.buf = append(e.buf, v)
}

// Bool appends a boolean as a single 0x00/0x01 byte.
func (e *Encoder) Bool(v bool) {
	if v {
		e.U8(1)
	} else {
		e.U8(0)
	}
}

// U32 appends a little-endian uint32.
func (e *Encoder) U32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
}

// U64 appends a little-endian uint64.
func (e *Encoder) U64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
}

// VarBytes appends a variable-length byte slice as a u32 length prefix
// followed by the raw bytes.
func (e *Encoder) VarBytes(b []byte) {
	e.U32(uint32(len(b)))
	e.buf = append(e.buf, b...)
}

// String appends a UTF-8 string the same way as VarBytes: u32 length prefix,
// then the raw bytes.
func (e *Encoder) String(s string) {
	e.VarBytes([]byte(s))
}

// Discriminant appends a sum-type tag byte. Variants are numbered from zero
// in declaration order, matching Borsh enum encoding.
func (e *Encoder) Discriminant(tag uint8) {
	e.U8(tag)
}

// Value delegates to v's own MarshalBorsh, letting structs nest without the
// caller needing to know their internal layout.
func (e *Encoder) Value(v Marshaler) {
	v.MarshalBorsh(e)
}

// Slice encodes a variable-length array of Marshaler values: a u32 length
// prefix followed by each element's own encoding concatenated in order.
func Slice[T Marshaler](e *Encoder, items []T) {
	e.U32(uint32(len(items)))
	for _, it := range items {
		it.MarshalBorsh(e)
	}
}

// Option encodes optional<T> as a single tag byte (0x00 absent, 0x01
// present) followed by the inner encoding when present.
func Option[T Marshaler](e *Encoder, v *T) {
	if v == nil {
		e.U8(0)
		return
	}
	e.U8(1)
	(*v).MarshalBorsh(e)
}

// Encode returns the canonical Borsh-compatible encoding of v.
func Encode(v Marshaler) []byte {
	enc := NewEncoder(64)
	v.MarshalBorsh(enc)
	return enc.Bytes()
}

// Sum returns the SHA-256 digest of data.
func Sum(data []byte) Hash {
	return sha256.Sum256(data)
}

// HashBorsh returns hash(encode(v)): SHA-256 of v's canonical Borsh encoding.
func HashBorsh(v Marshaler) Hash {
	return Sum(Encode(v))
}

// fixedHash adapts a Hash so it can be passed through the generic Marshaler
// machinery (e.g. inside CombineHash's tuple encoding) without every caller
// needing its own wrapper type.
type fixedHash Hash

func (h fixedHash) MarshalBorsh(enc *Encoder) { enc.Fixed(h[:]) }

// hashPair is the Borsh tuple (Hash, Hash): two 32-byte fixed arrays
// concatenated with no padding or length prefix, per §4.A.
type hashPair struct {
	a, b Hash
}

func (p hashPair) MarshalBorsh(enc *Encoder) {
	enc.Fixed(p.a[:])
	enc.Fixed(p.b[:])
}

// CombineHash computes combine_hash(a, b) := hash_borsh((a, b)), equivalently
// SHA-256 of the 64-byte concatenation a‖b.
func CombineHash(a, b Hash) Hash {
	return HashBorsh(hashPair{a, b})
}

// HashBorshHash returns hash_borsh(h): SHA-256 of h's raw 32 bytes. Used
// where the protocol re-hashes an intermediate Merkle root before folding
// it into the next layer.
func HashBorshHash(h Hash) Hash {
	return HashBorsh(fixedHash(h))
}

// hashList adapts a slice of Hash for Borsh Vec<Hash> encoding: a u32 length
// prefix followed by each hash's raw 32 bytes concatenated in order.
type hashList []Hash

func (hs hashList) MarshalBorsh(enc *Encoder) {
	enc.U32(uint32(len(hs)))
	for _, h := range hs {
		enc.Fixed(h[:])
	}
}

// HashBorshSlice returns hash_borsh(hashes): SHA-256 of the Borsh-encoded
// Vec<Hash> (a u32 length prefix followed by each hash's raw bytes). This is
// a single digest over the whole sequence, not a pairwise combine_hash fold;
// it's how a flattened sequence of field hashes collapses into one leaf.
func HashBorshSlice(hashes []Hash) Hash {
	return HashBorsh(hashList(hashes))
}
