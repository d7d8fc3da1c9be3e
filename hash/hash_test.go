// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestCombineHashMatchesManualConcatenation(t *testing.T) {
	a := Sum([]byte("left"))
	b := Sum([]byte("right"))

	got := CombineHash(a, b)

	var concat [64]byte
	copy(concat[:32], a[:])
	copy(concat[32:], b[:])
	want := sha256.Sum256(concat[:])

	if got != Hash(want) {
		t.Fatalf("CombineHash = %s, want %s", got, Hash(want))
	}
}

func TestCombineHashIsOrderSensitive(t *testing.T) {
	a := Sum([]byte("a"))
	b := Sum([]byte("b"))

	if CombineHash(a, b) == CombineHash(b, a) {
		t.Fatal("CombineHash(a, b) should differ from CombineHash(b, a)")
	}
}

func TestEncoderU32LittleEndian(t *testing.T) {
	enc := NewEncoder(4)
	enc.U32(1)
	got := enc.Bytes()
	want := []byte{1, 0, 0, 0}
	if string(got) != string(want) {
		t.Fatalf("U32(1) = %v, want %v", got, want)
	}
}

func TestEncoderU64LittleEndian(t *testing.T) {
	enc := NewEncoder(8)
	enc.U64(0x0102030405060708)
	got := enc.Bytes()
	want := []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	if string(got) != string(want) {
		t.Fatalf("U64 = %v, want %v", got, want)
	}
}

func TestEncoderVarBytesLengthPrefixed(t *testing.T) {
	enc := NewEncoder(8)
	enc.VarBytes([]byte{0xaa, 0xbb})
	got := enc.Bytes()
	want := []byte{2, 0, 0, 0, 0xaa, 0xbb}
	if string(got) != string(want) {
		t.Fatalf("VarBytes = %v, want %v", got, want)
	}
}

type optionalThing struct {
	v uint8
}

func (o optionalThing) MarshalBorsh(enc *Encoder) { enc.U8(o.v) }

func TestOptionEncodesTagByte(t *testing.T) {
	enc := NewEncoder(2)
	Option[optionalThing](enc, nil)
	if got := enc.Bytes(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("Option(nil) = %v, want [0]", got)
	}

	enc = NewEncoder(2)
	v := optionalThing{v: 7}
	Option[optionalThing](enc, &v)
	if got := enc.Bytes(); len(got) != 2 || got[0] != 1 || got[1] != 7 {
		t.Fatalf("Option(&v) = %v, want [1 7]", got)
	}
}

func TestHashStringIsLowercaseHex(t *testing.T) {
	h := Sum([]byte("x"))
	s := h.String()
	if len(s) != 64 {
		t.Fatalf("String() length = %d, want 64", len(s))
	}
	if want := hex.EncodeToString(h[:]); s != want {
		t.Fatalf("String() = %s, want %s", s, want)
	}
}

func TestHashIsZero(t *testing.T) {
	var h Hash
	if !h.IsZero() {
		t.Fatal("zero-value Hash should report IsZero")
	}
	h[0] = 1
	if h.IsZero() {
		t.Fatal("non-zero Hash should not report IsZero")
	}
}
