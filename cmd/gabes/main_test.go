//
// main_test.go
//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package main

import "testing"

func TestPickSchemeDefaultsToClassical(t *testing.T) {
	name, err := pickScheme(false, false, false, false, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if name != "cl" {
		t.Fatalf("got %q, want %q", name, "cl")
	}
}

func TestPickSchemeRejectsMultipleFlags(t *testing.T) {
	_, err := pickScheme(true, false, false, true, false, false)
	if err == nil {
		t.Fatal("expected an error when two scheme flags are set")
	}
}

func TestPickSchemeReturnsTheChosenOne(t *testing.T) {
	name, err := pickScheme(false, false, false, false, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if name != "fle" {
		t.Fatalf("got %q, want %q", name, "fle")
	}
}

func TestParseOwnedInputsEmpty(t *testing.T) {
	owned, err := parseOwnedInputs("", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(owned) != 0 {
		t.Fatalf("expected no owned inputs, got %v", owned)
	}
}

func TestParseOwnedInputsMatchesIdsToBits(t *testing.T) {
	owned, err := parseOwnedInputs("A,B,C", "101")
	if err != nil {
		t.Fatal(err)
	}
	if owned["A"] != true || owned["B"] != false || owned["C"] != true {
		t.Fatalf("got %v", owned)
	}
}

func TestParseOwnedInputsRejectsLengthMismatch(t *testing.T) {
	if _, err := parseOwnedInputs("A,B", "1"); err == nil {
		t.Fatal("expected an error when -b and -i lengths differ")
	}
}

func TestParseOwnedInputsRejectsNonBinaryBits(t *testing.T) {
	if _, err := parseOwnedInputs("A", "2"); err == nil {
		t.Fatal("expected an error for a non-binary -b digit")
	}
}

func TestRunRenderRequiresCircFile(t *testing.T) {
	err := run(false, false, true, "", "", "", "", false, false, false, false, false, false, false)
	if err == nil {
		t.Fatal("expected an error when -r is given without -c")
	}
}
