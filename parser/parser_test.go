package parser

import "testing"

func parse(t *testing.T, src string) *Program {
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return prog
}

func TestLabelAndInstruction(t *testing.T) {
	prog := parse(t, "loop:\n\tADDI R4,1\n\tJ loop\n")
	if len(prog.Statements) != 3 {
		t.Fatalf("got %d statements, want 3: %+v", len(prog.Statements), prog.Statements)
	}
	if prog.Statements[0].Kind != StmtLabel || prog.Statements[0].Label != "loop" {
		t.Fatalf("statement 0: %+v", prog.Statements[0])
	}
	if prog.Statements[1].Mnemonic != "ADDI" || len(prog.Statements[1].Operands) != 2 {
		t.Fatalf("statement 1: %+v", prog.Statements[1])
	}
	if prog.Statements[2].Operands[0].Kind != OperandLabel || prog.Statements[2].Operands[0].Label != "loop" {
		t.Fatalf("statement 2: %+v", prog.Statements[2])
	}
}

func TestIndirectOperandForms(t *testing.T) {
	prog := parse(t, "LW R4,4(R5)\nSW (R6-2),R7\n")
	lw := prog.Statements[0]
	if lw.Operands[1].Kind != OperandIndirect || lw.Operands[1].Reg != 5 || lw.Operands[1].Imm != 4 {
		t.Fatalf("LW operand: %+v", lw.Operands[1])
	}
	sw := prog.Statements[1]
	if sw.Operands[0].Kind != OperandIndirect || sw.Operands[0].Reg != 6 || sw.Operands[0].Imm != -2 {
		t.Fatalf("SW operand: %+v", sw.Operands[0])
	}
}

func TestDirectiveArgs(t *testing.T) {
	prog := parse(t, ".org 0x100\n.equ COUNT, 10\n.db 1,2,3\n.dw label\n")
	if prog.Statements[0].Directive != "org" || prog.Statements[0].Args[0].Num != 0x100 {
		t.Fatalf("org: %+v", prog.Statements[0])
	}
	equ := prog.Statements[1]
	if equ.Args[0].Str != "COUNT" || equ.Args[1].Num != 10 {
		t.Fatalf("equ: %+v", equ)
	}
	db := prog.Statements[2]
	if len(db.Args) != 3 || db.Args[2].Num != 3 {
		t.Fatalf("db: %+v", db)
	}
	dw := prog.Statements[3]
	if dw.Args[0].Kind != ArgIdent || dw.Args[0].Str != "label" {
		t.Fatalf("dw: %+v", dw)
	}
}

func TestNoOperandInstruction(t *testing.T) {
	prog := parse(t, "LDIR\n")
	if prog.Statements[0].Mnemonic != "LDIR" || len(prog.Statements[0].Operands) != 0 {
		t.Fatalf("got %+v", prog.Statements[0])
	}
}

func TestNegativeImmediateOperand(t *testing.T) {
	prog := parse(t, "ADDI R4,-1\n")
	op := prog.Statements[0].Operands[1]
	if op.Kind != OperandImmediate || op.Imm != -1 {
		t.Fatalf("got %+v", op)
	}
}
