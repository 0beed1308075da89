// Package encoder lowers a parsed program into a flat little-endian byte
// image: a two-pass symbol-resolving code generator that picks a 16-bit
// short form or 32-bit extended form per mnemonic and patches forward
// references through a fixup list recorded during emission.
package encoder

import (
	"fmt"

	"sampo/isa"
	"sampo/parser"
)

// FixupKind distinguishes the three relocation kinds the encoder records.
type FixupKind int

const (
	Absolute16 FixupKind = iota
	Relative8
	Relative12
)

type fixup struct {
	address uint16
	symbol  string
	kind    FixupKind
}

// Encoder holds the mutable state of one assemble call: the running
// program counter, the symbol table, the growing output image and the
// pending relocation list. A fresh Encoder is built per call to Encode;
// nothing survives between assembles.
type Encoder struct {
	origin  uint16
	pc      uint32
	symbols map[string]uint16
	output  []byte
	fixups  []fixup
}

// Encode assembles prog into a flat byte image, or returns the first
// error encountered. It is deterministic: the same program always
// produces the same bytes.
func Encode(prog *parser.Program) ([]byte, error) {
	e := &Encoder{symbols: make(map[string]uint16)}
	if err := e.pass1(prog); err != nil {
		return nil, err
	}
	if err := e.pass2(prog); err != nil {
		return nil, err
	}
	if err := e.applyFixups(); err != nil {
		return nil, err
	}
	return e.output, nil
}

func (e *Encoder) pass1(prog *parser.Program) error {
	e.pc = 0
	origin := uint32(0)
	for _, stmt := range prog.Statements {
		switch stmt.Kind {
		case parser.StmtLabel:
			e.symbols[stmt.Label] = uint16(e.pc)
		case parser.StmtDirective:
			switch stmt.Directive {
			case "org":
				if len(stmt.Args) != 1 {
					return fmt.Errorf("line %d: .org expects one argument", stmt.Line)
				}
				e.pc = uint32(stmt.Args[0].Num)
				origin = e.pc
			case "equ":
				if len(stmt.Args) != 2 {
					return fmt.Errorf("line %d: .equ expects name, value", stmt.Line)
				}
				e.symbols[stmt.Args[0].Str] = uint16(stmt.Args[1].Num)
			case "db":
				for _, a := range stmt.Args {
					if a.Kind == parser.ArgString {
						e.pc += uint32(len(a.Str))
					} else {
						e.pc++
					}
				}
			case "dw":
				e.pc += uint32(len(stmt.Args)) * 2
			case "ascii":
				if len(stmt.Args) != 1 {
					return fmt.Errorf("line %d: .ascii expects one string", stmt.Line)
				}
				e.pc += uint32(len(stmt.Args[0].Str))
			case "asciz":
				if len(stmt.Args) != 1 {
					return fmt.Errorf("line %d: .asciz expects one string", stmt.Line)
				}
				e.pc += uint32(len(stmt.Args[0].Str)) + 1
			default:
				return fmt.Errorf("line %d: unknown directive .%s", stmt.Line, stmt.Directive)
			}
		case parser.StmtInstruction:
			size := isa.InstructionSize(stmt.Mnemonic)
			if (stmt.Mnemonic == "INI" || stmt.Mnemonic == "OUTI") && len(stmt.Operands) == 2 &&
				stmt.Operands[1].Kind == parser.OperandImmediate &&
				stmt.Operands[1].Imm >= 0 && stmt.Operands[1].Imm <= 15 {
				// a port that fits the 4-bit field is emitted in short form
				size = 2
			}
			e.pc += uint32(size)
		}
	}
	e.origin = uint16(origin)
	return nil
}

func (e *Encoder) zeroPadTo(target uint32) {
	for uint32(len(e.output)) < target {
		e.output = append(e.output, 0)
	}
}

func (e *Encoder) emitByte(b byte) {
	e.zeroPadTo(uint32(e.pc))
	if uint32(len(e.output)) == uint32(e.pc) {
		e.output = append(e.output, b)
	} else {
		e.output[e.pc] = b
	}
	e.pc++
}

func (e *Encoder) emitWord(w uint16) {
	e.emitByte(byte(w))
	e.emitByte(byte(w >> 8))
}

func (e *Encoder) recordFixup(address uint16, symbol string, kind FixupKind) {
	e.fixups = append(e.fixups, fixup{address: address, symbol: symbol, kind: kind})
}

func (e *Encoder) pass2(prog *parser.Program) error {
	e.pc = uint32(e.origin)
	e.zeroPadTo(e.pc)

	for _, stmt := range prog.Statements {
		switch stmt.Kind {
		case parser.StmtLabel:
			// already recorded in pass 1
		case parser.StmtDirective:
			if err := e.emitDirective(stmt); err != nil {
				return err
			}
		case parser.StmtInstruction:
			if err := e.emitInstruction(stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Encoder) emitDirective(stmt parser.Statement) error {
	switch stmt.Directive {
	case "org":
		e.pc = uint32(stmt.Args[0].Num)
		e.zeroPadTo(e.pc)
	case "equ":
		// no bytes emitted
	case "db":
		for _, a := range stmt.Args {
			switch a.Kind {
			case parser.ArgString:
				for _, c := range []byte(a.Str) {
					e.emitByte(c)
				}
			default:
				e.emitByte(byte(a.Num))
			}
		}
	case "dw":
		for _, a := range stmt.Args {
			switch a.Kind {
			case parser.ArgIdent:
				addr := uint16(e.pc)
				e.emitWord(0)
				e.recordFixup(addr, a.Str, Absolute16)
			default:
				e.emitWord(uint16(a.Num))
			}
		}
	case "ascii":
		for _, c := range []byte(stmt.Args[0].Str) {
			e.emitByte(c)
		}
	case "asciz":
		for _, c := range []byte(stmt.Args[0].Str) {
			e.emitByte(c)
		}
		e.emitByte(0)
	default:
		return fmt.Errorf("line %d: unknown directive .%s", stmt.Line, stmt.Directive)
	}
	return nil
}

func (e *Encoder) applyFixups() error {
	for _, f := range e.fixups {
		target, ok := e.symbols[f.symbol]
		if !ok {
			return fmt.Errorf("undefined symbol %q", f.symbol)
		}
		switch f.kind {
		case Absolute16:
			e.output[f.address] = byte(target)
			e.output[f.address+1] = byte(target >> 8)
		case Relative8:
			pcAfter := int32(f.address) + 2
			offset := (int32(target) - pcAfter) / 2
			if offset < -127 || offset > 127 {
				return fmt.Errorf("relative branch to %q out of range (%d words)", f.symbol, offset)
			}
			e.output[f.address] = byte(int8(offset))
		case Relative12:
			pcAfter := int32(f.address) + 2
			offset := (int32(target) - pcAfter) / 2
			if offset < -2047 || offset > 2047 {
				return fmt.Errorf("jump to %q out of range (%d words)", f.symbol, offset)
			}
			existing := uint16(e.output[f.address]) | uint16(e.output[f.address+1])<<8
			patched := (existing & 0xF000) | (uint16(offset) & 0x0FFF)
			e.output[f.address] = byte(patched)
			e.output[f.address+1] = byte(patched >> 8)
		}
	}
	return nil
}
