// Package disasm is the read-only inverse of cpu's decoder: given a
// memory image and an address, it names the instruction and reports its
// byte length. It must agree with cpu on every bit pattern — the two
// packages are built from the same isa tables for exactly that reason.
package disasm

import (
	"fmt"

	"sampo/isa"
)

// Memory is the minimal read surface disasm needs; cpu.CPU satisfies it
// directly, and tests can supply a bare byte slice wrapper.
type Memory interface {
	ReadWord(addr uint16) uint16
}

var regNames = [16]string{
	"R0", "R1", "R2", "R3", "R4", "R5", "R6", "R7",
	"R8", "R9", "R10", "R11", "R12", "R13", "R14", "R15",
}

// Disassemble returns the mnemonic text for the instruction at addr and
// its length in bytes (2 or 4). It never mutates mem.
func Disassemble(mem Memory, addr uint16) (text string, length int) {
	word := mem.ReadWord(addr)
	op := word >> 12
	rd := uint8(word >> 8 & 0xF)
	rs1 := uint8(word >> 4 & 0xF)
	fn := uint8(word & 0xF)

	switch op {
	case isa.OpAdd:
		return fmt.Sprintf("ADD %s,%s,%s", regNames[rd], regNames[rs1], regNames[fn]), 2
	case isa.OpSub:
		return fmt.Sprintf("SUB %s,%s,%s", regNames[rd], regNames[rs1], regNames[fn]), 2
	case isa.OpAnd:
		return fmt.Sprintf("AND %s,%s,%s", regNames[rd], regNames[rs1], regNames[fn]), 2
	case isa.OpOr:
		return fmt.Sprintf("OR %s,%s,%s", regNames[rd], regNames[rs1], regNames[fn]), 2
	case isa.OpXor:
		return fmt.Sprintf("XOR %s,%s,%s", regNames[rd], regNames[rs1], regNames[fn]), 2
	case isa.OpAddi:
		imm := int8(byte(word))
		return fmt.Sprintf("ADDI %s,%d", regNames[rd], imm), 2
	case isa.OpLoad:
		return disasmLoad(rd, rs1, fn), 2
	case isa.OpStore:
		return disasmStore(rd, rs1, fn), 2
	case isa.OpBranch:
		mnemonic, _ := isa.CondMnemonic(uint16(rd))
		off := int8(byte(word))
		return fmt.Sprintf("%s %d", mnemonic, off), 2
	case isa.OpJump:
		return disasmJump(rd, rs1, word), 2
	case isa.OpShift:
		return disasmShift(rd, rs1, fn), 2
	case isa.OpMulDiv:
		return disasmMulDiv(rd, rs1, fn), 2
	case isa.OpMisc:
		return disasmMisc(rd, rs1, fn), 2
	case isa.OpIO:
		return disasmIO(rd, rs1, fn), 2
	case isa.OpSystem:
		return disasmSystem(rd, word), 2
	case isa.OpExtended:
		imm := mem.ReadWord(addr + 2)
		return disasmExtended(rd, rs1, fn, imm), 4
	}
	return fmt.Sprintf(".word 0x%04X", word), 2
}

func disasmLoad(rd, rs1, fn uint8) string {
	if fn == isa.LoadFuncLUI {
		return fmt.Sprintf("LUI %s,%d", regNames[rd], rs1)
	}
	off, ok := isa.LoadOffset(uint16(fn))
	if !ok {
		return fmt.Sprintf(".word 0x6%01X%01X%01X", rd, rs1, fn)
	}
	switch fn {
	case isa.LoadFuncLB:
		return fmt.Sprintf("LB %s,(%s)", regNames[rd], regNames[rs1])
	case isa.LoadFuncLBU:
		return fmt.Sprintf("LBU %s,(%s)", regNames[rd], regNames[rs1])
	default:
		return fmt.Sprintf("LW %s,%d(%s)", regNames[rd], off, regNames[rs1])
	}
}

func disasmStore(rs, rs1, fn uint8) string {
	off, ok := isa.StoreOffset(uint16(fn))
	if !ok {
		return fmt.Sprintf(".word 0x7%01X%01X%01X", rs, rs1, fn)
	}
	if fn == isa.StoreFuncSB {
		return fmt.Sprintf("SB %d(%s),%s", off, regNames[rs1], regNames[rs])
	}
	return fmt.Sprintf("SW %d(%s),%s", off, regNames[rs1], regNames[rs])
}

func disasmJump(rd, rs1 uint8, word uint16) string {
	switch {
	case word&0x0F0F == 0x0F00:
		return fmt.Sprintf("JR %s", regNames[rs1])
	case word&0xF == 0x1 && rd != 0:
		return fmt.Sprintf("JALR %s,%s", regNames[rd], regNames[rs1])
	default:
		off := int32(int16(word<<4)) >> 4
		return fmt.Sprintf("J %d", off)
	}
}

var shiftNames = map[uint8]string{
	isa.ShiftSLL1: "SLL", isa.ShiftSRL1: "SRL", isa.ShiftSRA1: "SRA",
	isa.ShiftROL1: "ROL", isa.ShiftROR1: "ROR", isa.ShiftRCL1: "RCL",
	isa.ShiftRCR1: "RCR", isa.ShiftSWAP: "SWAP",
	isa.ShiftSLL4: "SLL4", isa.ShiftSRL4: "SRL4", isa.ShiftSRA4: "SRA4", isa.ShiftROL4: "ROL4",
	isa.ShiftSLL8: "SLL8", isa.ShiftSRL8: "SRL8", isa.ShiftSRA8: "SRA8", isa.ShiftROL8: "ROL8",
}

func disasmShift(rd, rs1, fn uint8) string {
	name, ok := shiftNames[fn]
	if !ok {
		name = fmt.Sprintf(".shift%X", fn)
	}
	return fmt.Sprintf("%s %s,%s", name, regNames[rd], regNames[rs1])
}

var mulDivNames = map[uint8]string{
	isa.MulDivMUL: "MUL", isa.MulDivMULH: "MULH", isa.MulDivMULHU: "MULHU",
	isa.MulDivDIV: "DIV", isa.MulDivDIVU: "DIVU", isa.MulDivREM: "REM", isa.MulDivREMU: "REMU",
}

func disasmMulDiv(rd, rs1, fn uint8) string {
	if fn == isa.MulDivDAA {
		return fmt.Sprintf("DAA %s", regNames[rd])
	}
	name, ok := mulDivNames[fn]
	if !ok {
		name = fmt.Sprintf(".muldiv%X", fn)
	}
	return fmt.Sprintf("%s %s,%s", name, regNames[rd], regNames[rs1])
}

func disasmMisc(rd, rs1, fn uint8) string {
	switch fn {
	case isa.MiscPUSH:
		return fmt.Sprintf("PUSH %s", regNames[rs1])
	case isa.MiscPOP:
		return fmt.Sprintf("POP %s", regNames[rd])
	case isa.MiscCMP:
		return fmt.Sprintf("CMP %s,%s", regNames[rd], regNames[rs1])
	case isa.MiscTEST:
		return fmt.Sprintf("TEST %s,%s", regNames[rd], regNames[rs1])
	case isa.MiscMOV:
		return fmt.Sprintf("MOV %s,%s", regNames[rd], regNames[rs1])
	case isa.MiscLDI:
		return "LDI"
	case isa.MiscLDD:
		return "LDD"
	case isa.MiscLDIR:
		return "LDIR"
	case isa.MiscLDDR:
		return "LDDR"
	case isa.MiscCPIR:
		return "CPIR"
	case isa.MiscFILL:
		return "FILL"
	case isa.MiscEXX:
		return "EXX"
	case isa.MiscGETF:
		return fmt.Sprintf("GETF %s", regNames[rd])
	case isa.MiscSETF:
		return fmt.Sprintf("SETF %s", regNames[rs1])
	default:
		return fmt.Sprintf(".misc%X", fn)
	}
}

func disasmIO(rd, rs1, fn uint8) string {
	switch fn {
	case isa.IOIn:
		return fmt.Sprintf("IN %s,(%s)", regNames[rd], regNames[rs1])
	case isa.IOOut:
		return fmt.Sprintf("OUT (%s),%s", regNames[rd], regNames[rs1])
	case isa.IOIni:
		return fmt.Sprintf("INI %s,%d", regNames[rd], rs1)
	case isa.IOOuti:
		return fmt.Sprintf("OUTI %s,%d", regNames[rd], rs1)
	default:
		return fmt.Sprintf(".io%X", fn)
	}
}

func disasmSystem(sub uint8, word uint16) string {
	switch sub {
	case isa.SysNOP:
		return "NOP"
	case isa.SysHALT:
		return "HALT"
	case isa.SysDI:
		return "DI"
	case isa.SysEI:
		return "EI"
	case isa.SysRETI:
		return "RETI"
	case isa.SysSWI:
		return fmt.Sprintf("SWI %d", byte(word))
	case isa.SysSCF:
		return "SCF"
	case isa.SysCCF:
		return "CCF"
	default:
		return fmt.Sprintf(".sys%X", sub)
	}
}

func disasmExtended(rd, rs1, fn uint8, imm uint16) string {
	switch fn {
	case isa.ExtADDIX:
		return fmt.Sprintf("ADDIX %s,%s,%d", regNames[rd], regNames[rs1], imm)
	case isa.ExtSUBIX:
		return fmt.Sprintf("SUBIX %s,%s,%d", regNames[rd], regNames[rs1], imm)
	case isa.ExtANDIX:
		return fmt.Sprintf("ANDIX %s,%s,0x%04X", regNames[rd], regNames[rs1], imm)
	case isa.ExtORIX:
		return fmt.Sprintf("ORIX %s,%s,0x%04X", regNames[rd], regNames[rs1], imm)
	case isa.ExtXORIX:
		if imm == 0xFFFF {
			return fmt.Sprintf("NOT %s,%s", regNames[rd], regNames[rs1])
		}
		return fmt.Sprintf("XORIX %s,%s,0x%04X", regNames[rd], regNames[rs1], imm)
	case isa.ExtLWX:
		return fmt.Sprintf("LWX %s,%d(%s)", regNames[rd], int16(imm), regNames[rs1])
	case isa.ExtSWX:
		return fmt.Sprintf("SWX %d(%s),%s", int16(imm), regNames[rs1], regNames[rd])
	case isa.ExtLIX:
		return fmt.Sprintf("LIX %s,0x%04X", regNames[rd], imm)
	case isa.ExtJX:
		return fmt.Sprintf("JX 0x%04X", imm)
	case isa.ExtJALX:
		if rd == 1 {
			return fmt.Sprintf("JAL 0x%04X", imm)
		}
		return fmt.Sprintf("JALX %s,0x%04X", regNames[rd], imm)
	case isa.ExtCMPIX:
		return fmt.Sprintf("CMPIX %s,%d", regNames[rd], imm)
	case isa.ExtINX:
		return fmt.Sprintf("INX %s,%d", regNames[rd], imm)
	case isa.ExtOUTX:
		return fmt.Sprintf("OUTX %s,%d", regNames[rs1], imm)
	case isa.ExtSLLX:
		return fmt.Sprintf("SLLX %s,%s,%d", regNames[rd], regNames[rs1], imm)
	case isa.ExtSRLX:
		return fmt.Sprintf("SRLX %s,%s,%d", regNames[rd], regNames[rs1], imm)
	case isa.ExtSRAX:
		return fmt.Sprintf("SRAX %s,%s,%d", regNames[rd], regNames[rs1], imm)
	default:
		return fmt.Sprintf(".ext%X 0x%04X", fn, imm)
	}
}
