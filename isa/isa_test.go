package isa

import "testing"

func TestLoadStoreOffsetTablesDisagree(t *testing.T) {
	// The func codes 2, 3 and 4 must carry different meanings in the two
	// tables; that's the whole point of keeping them separate.
	if off, ok := LoadOffset(2); !ok || off != 0 {
		t.Fatalf("load func 2 = %d,%v want 0,true (LBU)", off, ok)
	}
	if off, ok := StoreOffset(2); !ok || off != 2 {
		t.Fatalf("store func 2 = %d,%v want 2,true", off, ok)
	}
	if off, ok := LoadOffset(3); !ok || off != 2 {
		t.Fatalf("load func 3 = %d,%v want 2,true", off, ok)
	}
	if off, ok := StoreOffset(3); !ok || off != 4 {
		t.Fatalf("store func 3 = %d,%v want 4,true", off, ok)
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	for _, off := range []int32{0, 2, 4, 6, -2, -4} {
		fn, ok := OffsetToLoadFunc(off)
		if !ok {
			t.Fatalf("OffsetToLoadFunc(%d) not ok", off)
		}
		got, ok := LoadOffset(fn)
		if !ok || int32(got) != off {
			t.Fatalf("round trip for offset %d: got %d,%v", off, got, ok)
		}
	}
	if _, ok := OffsetToLoadFunc(3); ok {
		t.Fatalf("offset 3 has no short-form load encoding")
	}
}

func TestBranchCondRoundTrip(t *testing.T) {
	for m := range branchMnemonics {
		cond, ok := BranchCond(m)
		if !ok {
			t.Fatalf("BranchCond(%s) not ok", m)
		}
		back, ok := CondMnemonic(cond)
		if !ok || back != m {
			t.Fatalf("CondMnemonic(%d) = %s,%v want %s", cond, back, ok, m)
		}
	}
}

func TestRegisterAliasesCoverBothSpellings(t *testing.T) {
	cases := map[string]uint8{
		"R0": 0, "ZERO": 0,
		"R1": 1, "RA": 1,
		"R2": 2, "SP": 2,
		"R15": 15, "S3": 15,
	}
	for name, want := range cases {
		got, ok := RegisterAliases[name]
		if !ok || got != want {
			t.Fatalf("RegisterAliases[%s] = %d,%v want %d", name, got, ok, want)
		}
	}
}

func TestInstructionSize(t *testing.T) {
	if InstructionSize("ADD") != 2 {
		t.Fatalf("ADD should be a short-form instruction")
	}
	if InstructionSize("LIX") != 4 {
		t.Fatalf("LIX should be an extended-form instruction")
	}
	if InstructionSize("JAL") != 4 {
		t.Fatalf("JAL is rewritten to JALX and must be sized as extended")
	}
}
