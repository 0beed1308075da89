package encoder

import (
	"encoding/hex"
	"strings"
	"testing"

	"sampo/parser"
)

func assemble(t *testing.T, src string) []byte {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	image, err := Encode(prog)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return image
}

func hexBytes(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

func TestScenario1AddiHalt(t *testing.T) {
	image := assemble(t, "ADDI R4,5\nHALT\n")
	if got, want := hexBytes(image), "0554" + "00E1"; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestShortFormIsTwoBytes(t *testing.T) {
	image := assemble(t, "NOP\n")
	if len(image) != 2 {
		t.Fatalf("NOP should encode to 2 bytes, got %d", len(image))
	}
}

func TestExtendedFormIsFourBytes(t *testing.T) {
	image := assemble(t, "LIX R4,0x1234\n")
	if len(image) != 4 {
		t.Fatalf("LIX should encode to 4 bytes, got %d", len(image))
	}
}

func TestForwardAndBackwardReferencesMatch(t *testing.T) {
	forward := assemble(t, "J target\ntarget:\nNOP\n")
	backward := assemble(t, "start:\nJ start\n")
	// The two J programs differ in total length and in jump distance, so
	// only their sizes are checked here.
	if len(forward) != 4 || len(backward) != 2 {
		t.Fatalf("unexpected lengths: forward=%d backward=%d", len(forward), len(backward))
	}
	// One program names the same label before and after its definition;
	// both immediate words must carry the same address.
	both := assemble(t, "LIX R4,mid\nmid:\nLIX R5,mid\n")
	if fwd, back := hexBytes(both[2:4]), hexBytes(both[6:8]); fwd != back {
		t.Fatalf("forward reference encoded %s, backward reference %s", fwd, back)
	}
}

func TestOrgZeroPads(t *testing.T) {
	image := assemble(t, ".org 0x4\nNOP\n")
	if len(image) != 6 {
		t.Fatalf("expected 4 bytes of padding + 2 byte NOP, got %d", len(image))
	}
	for i := 0; i < 4; i++ {
		if image[i] != 0 {
			t.Fatalf("expected zero padding at byte %d, got %02X", i, image[i])
		}
	}
}

func TestAddiRangeBoundaries(t *testing.T) {
	if _, err := Encode(mustParse(t, "ADDI R4,127\n")); err != nil {
		t.Fatalf("ADDI 127 should be accepted: %v", err)
	}
	if _, err := Encode(mustParse(t, "ADDI R4,-128\n")); err != nil {
		t.Fatalf("ADDI -128 should be accepted: %v", err)
	}
	if _, err := Encode(mustParse(t, "ADDI R4,128\n")); err == nil {
		t.Fatalf("ADDI 128 should be rejected")
	}
	if _, err := Encode(mustParse(t, "ADDI R4,-129\n")); err == nil {
		t.Fatalf("ADDI -129 should be rejected")
	}
}

func TestBranchRelocationBoundaries(t *testing.T) {
	forwardOK := "BEQ target\n" + strings.Repeat("NOP\n", 127) + "target:\n"
	if _, err := Encode(mustParse(t, forwardOK)); err != nil {
		t.Fatalf("+127-word forward branch should be accepted: %v", err)
	}
	forwardTooFar := "BEQ target\n" + strings.Repeat("NOP\n", 128) + "target:\n"
	if _, err := Encode(mustParse(t, forwardTooFar)); err == nil {
		t.Fatalf("+128-word forward branch should be rejected")
	}

	backwardOK := "target:\n" + strings.Repeat("NOP\n", 126) + "BEQ target\n"
	if _, err := Encode(mustParse(t, backwardOK)); err != nil {
		t.Fatalf("-127-word backward branch should be accepted: %v", err)
	}
	backwardTooFar := "target:\n" + strings.Repeat("NOP\n", 127) + "BEQ target\n"
	if _, err := Encode(mustParse(t, backwardTooFar)); err == nil {
		t.Fatalf("-128-word backward branch should be rejected")
	}
}

func TestJumpRelocationBoundaries(t *testing.T) {
	ok := "J target\n" + strings.Repeat("NOP\n", 2047) + "target:\n"
	if _, err := Encode(mustParse(t, ok)); err != nil {
		t.Fatalf("+2047-word jump should be accepted: %v", err)
	}
	tooFar := "J target\n" + strings.Repeat("NOP\n", 2048) + "target:\n"
	if _, err := Encode(mustParse(t, tooFar)); err == nil {
		t.Fatalf("+2048-word jump should be rejected")
	}
}

func TestUndefinedSymbolFails(t *testing.T) {
	if _, err := Encode(mustParse(t, "J missing\n")); err == nil {
		t.Fatalf("expected an undefined-symbol error")
	}
}

func mustParse(t *testing.T, src string) *parser.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	return prog
}
