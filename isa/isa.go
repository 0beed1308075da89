// Package isa is the single source of truth for the Sampo instruction set:
// opcode families, sub-function tables, register aliases and branch
// condition codes. encoder, cpu and disasm all read from here so the two
// halves of the shared contract (what the encoder emits, what the decoder
// runs) cannot drift apart the way two hand-duplicated switches would.
package isa

// Primary opcode (top nibble of the first word).
const (
	OpAdd      = 0x0
	OpSub      = 0x1
	OpAnd      = 0x2
	OpOr       = 0x3
	OpXor      = 0x4
	OpAddi     = 0x5
	OpLoad     = 0x6
	OpStore    = 0x7
	OpBranch   = 0x8
	OpJump     = 0x9
	OpShift    = 0xA
	OpMulDiv   = 0xB
	OpMisc     = 0xC
	OpIO       = 0xD
	OpSystem   = 0xE
	OpExtended = 0xF
)

// Load family (op 0x6) sub-functions.
const (
	LoadFuncLW0   = 0x0
	LoadFuncLB    = 0x1
	LoadFuncLBU   = 0x2
	LoadFuncLWp2  = 0x3
	LoadFuncLWp4  = 0x4
	LoadFuncLWp6  = 0x5
	LoadFuncLWm2  = 0x6
	LoadFuncLWm4  = 0x7
	LoadFuncLUI   = 0x8
)

// Store family (op 0x7) sub-functions. Six funcs total — there is no store
// equivalent of LBU.
const (
	StoreFuncSW0  = 0x0
	StoreFuncSB   = 0x1
	StoreFuncSWp2 = 0x2
	StoreFuncSWp4 = 0x3
	StoreFuncSWp6 = 0x4
	StoreFuncSWm2 = 0x5
	StoreFuncSWm4 = 0x6
)

// LoadOffset returns the byte displacement for a short-load sub-function,
// and whether func is a recognized load func (LUI excluded — it has no
// displacement, it synthesizes a value).
func LoadOffset(fn uint16) (offset int16, ok bool) {
	switch fn {
	case LoadFuncLW0, LoadFuncLB, LoadFuncLBU:
		return 0, true
	case LoadFuncLWp2:
		return 2, true
	case LoadFuncLWp4:
		return 4, true
	case LoadFuncLWp6:
		return 6, true
	case LoadFuncLWm2:
		return -2, true
	case LoadFuncLWm4:
		return -4, true
	default:
		return 0, false
	}
}

// StoreOffset returns the byte displacement for a short-store sub-function.
func StoreOffset(fn uint16) (offset int16, ok bool) {
	switch fn {
	case StoreFuncSW0, StoreFuncSB:
		return 0, true
	case StoreFuncSWp2:
		return 2, true
	case StoreFuncSWp4:
		return 4, true
	case StoreFuncSWp6:
		return 6, true
	case StoreFuncSWm2:
		return -2, true
	case StoreFuncSWm4:
		return -4, true
	default:
		return 0, false
	}
}

// OffsetToLoadFunc is the encoder-side inverse of LoadOffset, used by LW's
// displacement-form operands. Only the offsets in the small-offset table
// are representable in short form.
func OffsetToLoadFunc(offset int32) (fn uint16, ok bool) {
	switch offset {
	case 0:
		return LoadFuncLW0, true
	case 2:
		return LoadFuncLWp2, true
	case 4:
		return LoadFuncLWp4, true
	case 6:
		return LoadFuncLWp6, true
	case -2:
		return LoadFuncLWm2, true
	case -4:
		return LoadFuncLWm4, true
	default:
		return 0, false
	}
}

// OffsetToStoreFunc is the encoder-side inverse of StoreOffset.
func OffsetToStoreFunc(offset int32) (fn uint16, ok bool) {
	switch offset {
	case 0:
		return StoreFuncSW0, true
	case 2:
		return StoreFuncSWp2, true
	case 4:
		return StoreFuncSWp4, true
	case 6:
		return StoreFuncSWp6, true
	case -2:
		return StoreFuncSWm2, true
	case -4:
		return StoreFuncSWm4, true
	default:
		return 0, false
	}
}

// Branch conditions (op 0x8, Rd field).
const (
	CondEQ = 0x0
	CondNE = 0x1
	CondLT = 0x2
	CondGE = 0x3
	CondLTU = 0x4
	CondGEU = 0x5
	CondMI = 0x6
	CondPL = 0x7
	CondVS = 0x8
	CondVC = 0x9
	CondCS = 0xA
	CondCC = 0xB
	CondGT = 0xC
	CondLE = 0xD
	CondHI = 0xE
	CondLS = 0xF
)

var branchMnemonics = map[string]uint16{
	"BEQ": CondEQ, "BNE": CondNE, "BLT": CondLT, "BGE": CondGE,
	"BLTU": CondLTU, "BGEU": CondGEU, "BMI": CondMI, "BPL": CondPL,
	"BVS": CondVS, "BVC": CondVC, "BCS": CondCS, "BCC": CondCC,
	"BGT": CondGT, "BLE": CondLE, "BHI": CondHI, "BLS": CondLS,
}

var condMnemonics = map[uint16]string{}

func init() {
	for m, c := range branchMnemonics {
		condMnemonics[c] = m
	}
}

// BranchCond returns the 4-bit condition code for a branch mnemonic.
func BranchCond(mnemonic string) (cond uint16, ok bool) {
	c, ok := branchMnemonics[mnemonic]
	return c, ok
}

// CondMnemonic is the disassembler-side inverse of BranchCond.
func CondMnemonic(cond uint16) (string, bool) {
	m, ok := condMnemonics[cond]
	return m, ok
}

// Shift family (op 0xA) sub-functions.
const (
	ShiftSLL1 = 0x0
	ShiftSRL1 = 0x1
	ShiftSRA1 = 0x2
	ShiftROL1 = 0x3
	ShiftROR1 = 0x4
	ShiftRCL1 = 0x5
	ShiftRCR1 = 0x6
	ShiftSWAP = 0x7
	ShiftSLL4 = 0x8
	ShiftSRL4 = 0x9
	ShiftSRA4 = 0xA
	ShiftROL4 = 0xB
	ShiftSLL8 = 0xC
	ShiftSRL8 = 0xD
	ShiftSRA8 = 0xE
	ShiftROL8 = 0xF
)

// Mul/Div/DAA family (op 0xB) sub-functions.
const (
	MulDivMUL   = 0x0
	MulDivMULH  = 0x1
	MulDivMULHU = 0x2
	MulDivDIV   = 0x3
	MulDivDIVU  = 0x4
	MulDivREM   = 0x5
	MulDivREMU  = 0x6
	MulDivDAA   = 0x7
)

// Stack/misc/block family (op 0xC) sub-functions.
const (
	MiscPUSH = 0x0
	MiscPOP  = 0x1
	MiscCMP  = 0x2
	MiscTEST = 0x3
	MiscMOV  = 0x4
	MiscLDI  = 0x5
	MiscLDD  = 0x6
	MiscLDIR = 0x7
	MiscLDDR = 0x8
	MiscCPIR = 0x9
	MiscFILL = 0xA
	MiscEXX  = 0xB
	MiscGETF = 0xC
	MiscSETF = 0xD
)

// I/O family (op 0xD) sub-functions.
const (
	IOIni = 0x0 // short form, literal 4-bit port (dead code for real ports > 15)
	IOOuti = 0x1
	IOIn  = 0x2
	IOOut = 0x3
)

// System family (op 0xE) sub-functions (dispatched on Rd field).
const (
	SysNOP  = 0x0
	SysHALT = 0x1
	SysDI   = 0x2
	SysEI   = 0x3
	SysRETI = 0x4
	SysSWI  = 0x5
	SysSCF  = 0x6
	SysCCF  = 0x7
)

// Extended family (op 0xF) sub-functions (low nibble of the header word).
const (
	ExtADDIX = 0x0
	ExtSUBIX = 0x1
	ExtANDIX = 0x2
	ExtORIX  = 0x3
	ExtXORIX = 0x4
	ExtLWX   = 0x5
	ExtSWX   = 0x6
	ExtLIX   = 0x7
	ExtJX    = 0x8
	ExtJALX  = 0x9
	ExtCMPIX = 0xA
	ExtINX   = 0xB
	ExtOUTX  = 0xC
	ExtSLLX  = 0xD
	ExtSRLX  = 0xE
	ExtSRAX  = 0xF
)

// Flags byte bit positions.
const (
	FlagN = 0x80 // Negative
	FlagZ = 0x40 // Zero
	FlagC = 0x20 // Carry
	FlagV = 0x10 // Overflow
	FlagH = 0x08 // Half-carry (BCD)
	FlagI = 0x04 // Interrupt enable
)

// RegisterAliases maps every spelling a register operand may take, in
// upper case, to its register-file index: R0-R15 and the ABI names.
var RegisterAliases = map[string]uint8{
	"R0": 0, "ZERO": 0,
	"R1": 1, "RA": 1,
	"R2": 2, "SP": 2,
	"R3": 3, "GP": 3,
	"R4": 4, "A0": 4,
	"R5": 5, "A1": 5,
	"R6": 6, "A2": 6,
	"R7": 7, "A3": 7,
	"R8": 8, "T0": 8,
	"R9": 9, "T1": 9,
	"R10": 10, "T2": 10,
	"R11": 11, "T3": 11,
	"R12": 12, "S0": 12,
	"R13": 13, "S1": 13,
	"R14": 14, "S2": 14,
	"R15": 15, "S3": 15,
}

// Extended-form mnemonics always encode as 4 bytes, including the ones
// that are short-form names but are rewritten to an extended encoding
// (JAL -> JALX with Rd=1, NOT -> XORIX with 0xFFFF). INI and OUTI are
// listed at their extended size (INX/OUTX); the encoder sizes them at 2
// bytes when the port fits in 4 bits and the short form is emitted.
var ExtendedMnemonics = map[string]bool{
	"LIX": true, "ADDIX": true, "SUBIX": true, "ANDIX": true, "ORIX": true,
	"XORIX": true, "LWX": true, "SWX": true, "JX": true, "JALX": true,
	"CMPIX": true, "INX": true, "OUTX": true, "SLLX": true, "SRLX": true,
	"SRAX": true, "INI": true, "OUTI": true, "JAL": true, "NOT": true,
}

// InstructionSize returns the byte length an instance of mnemonic occupies
// in the output image: 2 for short form, 4 for extended form.
func InstructionSize(mnemonic string) int {
	if ExtendedMnemonics[mnemonic] {
		return 4
	}
	return 2
}
