package disasm

import (
	"strings"
	"testing"

	"sampo/encoder"
	"sampo/parser"
)

type flatMem []byte

func (m flatMem) ReadWord(addr uint16) uint16 {
	return uint16(m[addr]) | uint16(m[addr+1])<<8
}

func assembleTo(t *testing.T, src string) flatMem {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	image, err := encoder.Encode(prog)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf := make(flatMem, 65536)
	copy(buf, image)
	return buf
}

func TestDisassembleShortForms(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"ADD R1,R2,R3\n", "ADD R1,R2,R3"},
		{"ADDI R4,5\n", "ADDI R4,5"},
		{"LW R4,2(R5)\n", "LW R4,2(R5)"},
		{"LB R4,(R5)\n", "LB R4,(R5)"},
		{"SW (R5+4),R6\n", "SW 4(R5),R6"},
		{"JR RA\n", "JR R1"},
		{"HALT\n", "HALT"},
		{"EXX\n", "EXX"},
	}
	for _, c := range cases {
		mem := assembleTo(t, c.src)
		text, length := Disassemble(mem, 0)
		if length != 2 {
			t.Fatalf("%q: length = %d, want 2", c.src, length)
		}
		if text != c.want {
			t.Fatalf("%q: disassembled to %q, want %q", c.src, text, c.want)
		}
	}
}

func TestDisassembleExtendedForms(t *testing.T) {
	mem := assembleTo(t, "LIX R4,0x1234\n")
	text, length := Disassemble(mem, 0)
	if length != 4 {
		t.Fatalf("LIX length = %d, want 4", length)
	}
	if !strings.Contains(text, "0x1234") {
		t.Fatalf("LIX disassembly %q missing immediate", text)
	}
}

func TestDisassembleLui(t *testing.T) {
	mem := assembleTo(t, "LUI R4,7\n")
	text, _ := Disassemble(mem, 0)
	if text != "LUI R4,7" {
		t.Fatalf("got %q", text)
	}
}
