// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package merkle

import (
	"testing"

	"near-light-verifier/hash"
)

func TestComputeRootEmptyPathReturnsLeaf(t *testing.T) {
	leaf := hash.Sum([]byte("leaf"))
	got := ComputeRoot(leaf, nil)
	if got != leaf {
		t.Fatalf("ComputeRoot with empty path should return the leaf unchanged")
	}
}

func TestComputeRootSingleLeftStep(t *testing.T) {
	leaf := hash.Sum([]byte("leaf"))
	sibling := hash.Sum([]byte("sibling"))

	got := ComputeRoot(leaf, []PathItem{{Hash: sibling, Direction: Left}})
	want := hash.CombineHash(sibling, leaf)
	if got != want {
		t.Fatalf("left step: got %s, want %s", got, want)
	}
}

func TestComputeRootSingleRightStep(t *testing.T) {
	leaf := hash.Sum([]byte("leaf"))
	sibling := hash.Sum([]byte("sibling"))

	got := ComputeRoot(leaf, []PathItem{{Hash: sibling, Direction: Right}})
	want := hash.CombineHash(leaf, sibling)
	if got != want {
		t.Fatalf("right step: got %s, want %s", got, want)
	}
}

func TestComputeRootMultiStepFoldsLeftToRight(t *testing.T) {
	leaf := hash.Sum([]byte("leaf"))
	a := hash.Sum([]byte("a"))
	b := hash.Sum([]byte("b"))

	path := []PathItem{
		{Hash: a, Direction: Right},
		{Hash: b, Direction: Left},
	}

	got := ComputeRoot(leaf, path)
	step1 := hash.CombineHash(leaf, a)
	want := hash.CombineHash(b, step1)
	if got != want {
		t.Fatalf("multi-step fold: got %s, want %s", got, want)
	}
}

func TestVerifyHashMatchesRoot(t *testing.T) {
	leaf := hash.Sum([]byte("leaf"))
	sibling := hash.Sum([]byte("sibling"))
	path := []PathItem{{Hash: sibling, Direction: Left}}
	root := ComputeRoot(leaf, path)

	if !VerifyHash(root, path, leaf) {
		t.Fatal("VerifyHash should accept the matching root")
	}
}

func TestVerifyHashRejectsTamperedLeaf(t *testing.T) {
	leaf := hash.Sum([]byte("leaf"))
	sibling := hash.Sum([]byte("sibling"))
	path := []PathItem{{Hash: sibling, Direction: Left}}
	root := ComputeRoot(leaf, path)

	tampered := hash.Sum([]byte("not-the-leaf"))
	if VerifyHash(root, path, tampered) {
		t.Fatal("VerifyHash should reject a tampered leaf")
	}
}

func TestVerifyHashRejectsWrongDirection(t *testing.T) {
	leaf := hash.Sum([]byte("leaf"))
	sibling := hash.Sum([]byte("sibling"))
	root := ComputeRoot(leaf, []PathItem{{Hash: sibling, Direction: Left}})

	wrongPath := []PathItem{{Hash: sibling, Direction: Right}}
	if VerifyHash(root, wrongPath, leaf) {
		t.Fatal("VerifyHash should be direction-sensitive")
	}
}
