// Package cpu implements the Sampo fetch-decode-execute engine: a
// 16-register file with a bank-switched alternate set for indices 4-11,
// a flags byte, 64 KiB of byte-addressable memory, a 256-entry I/O port
// space, and a single-threaded step loop.
//
// Registers
//	R0        hardwired to zero, writes are discarded
//	R1 (RA)   link register convention, written by JAL/JALX
//	R2 (SP)   stack pointer convention, used by PUSH/POP/RETI/SWI
//	R4..R11   shadowed by an alternate bank, swapped wholesale by EXX
//
// Flags byte
//	N 0x80  Z 0x40  C 0x20  V 0x10  H 0x08  I 0x04
//
// Memory is little-endian and wraps modulo 2^16; no access ever traps.
// Port 0x80 is a status register whose TX-ready bit always reads high;
// port 0x81 is the UART data port (§6 of the external interfaces). The
// CPU core holds the TX and RX byte queues itself so the introspection
// surface (drain, send_key) has somewhere to act on; unlike a direct
// console binary, the core never prints — draining and displaying is a
// host concern.
package cpu

import "fmt"

const (
	MemSize  = 1 << 16
	NumRegs  = 16
	NumPorts = 256

	ResetSP = 0xFFFE
	ResetPC = 0x0100

	PortStatus = 0x80
	PortData   = 0x81
)

// RunState is the result of one Step call.
type RunState int

const (
	Running RunState = iota
	Halted
)

func (s RunState) String() string {
	if s == Halted {
		return "Halted"
	}
	return "Running"
}

// CPU holds all mutable machine state. Nothing outside this struct is
// needed to resume execution: Step is a pure function of CPU plus the
// memory it owns.
type CPU struct {
	regs    [NumRegs]uint16
	altBank [8]uint16 // shadows regs[4..11]

	flags  uint8
	pc     uint16
	halted bool

	mem   [MemSize]byte
	ports [NumPorts]byte

	txBuf []byte
	rxBuf []byte

	cycles uint64
}

// New returns a CPU in its post-reset state: zeroed memory, SP = 0xFFFE,
// PC = 0x0100, port 0x80 = 0x02.
func New() *CPU {
	c := &CPU{}
	c.Reset()
	return c
}

// Reset restores the post-construction state without touching loaded
// memory contents — callers that want a clean memory image should
// construct a fresh CPU instead.
func (c *CPU) Reset() {
	c.regs = [NumRegs]uint16{}
	c.altBank = [8]uint16{}
	c.flags = 0
	c.regs[2] = ResetSP
	c.pc = ResetPC
	c.halted = false
	c.ports[PortStatus] = 0x02
	c.txBuf = c.txBuf[:0]
	c.rxBuf = c.rxBuf[:0]
	c.cycles = 0
}

// LoadProgram writes image into memory starting at address 0 and sets PC
// to the address of the first non-zero word, matching the loader's
// entry-point convention for a raw, unframed binary.
func (c *CPU) LoadProgram(image []byte) {
	for i := range c.mem {
		c.mem[i] = 0
	}
	copy(c.mem[:], image)

	entry := uint16(ResetPC)
	for addr := 0; addr+1 < len(c.mem); addr += 2 {
		if c.mem[addr] != 0 || c.mem[addr+1] != 0 {
			entry = uint16(addr)
			break
		}
	}
	c.pc = entry
}

// --- Introspection surface -------------------------------------------

func (c *CPU) PC() uint16      { return c.pc }
func (c *CPU) SetPC(v uint16)  { c.pc = v }
func (c *CPU) Flags() uint8    { return c.flags }
func (c *CPU) Halted() bool    { return c.halted }
func (c *CPU) Cycles() uint64  { return c.cycles }

func (c *CPU) Reg(i uint8) uint16 {
	if i == 0 {
		return 0
	}
	return c.regs[i&0xF]
}

func (c *CPU) SetReg(i uint8, v uint16) {
	if i == 0 {
		return
	}
	c.regs[i&0xF] = v
}

func (c *CPU) ReadByte(addr uint16) byte { return c.mem[addr] }

func (c *CPU) WriteByte(addr uint16, v byte) { c.mem[addr] = v }

func (c *CPU) ReadWord(addr uint16) uint16 {
	lo := c.mem[addr]
	hi := c.mem[addr+1]
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) WriteWord(addr uint16, v uint16) {
	c.mem[addr] = byte(v)
	c.mem[addr+1] = byte(v >> 8)
}

// SendKey pushes a byte into the RX queue that port 0x81 reads drain.
func (c *CPU) SendKey(b byte) {
	c.rxBuf = append(c.rxBuf, b)
}

// DrainSerial returns and clears everything written to the TX port since
// the last drain.
func (c *CPU) DrainSerial() []byte {
	out := c.txBuf
	c.txBuf = nil
	return out
}

// --- Internal helpers --------------------------------------------------

func (c *CPU) fetchWord() uint16 {
	w := c.ReadWord(c.pc)
	c.pc += 2
	return w
}

func (c *CPU) regField(i uint16) uint8 { return uint8(i & 0xF) }

func (c *CPU) portRead(port byte) byte {
	switch port {
	case PortStatus:
		return 0x02
	case PortData:
		if len(c.rxBuf) == 0 {
			return 0
		}
		b := c.rxBuf[0]
		c.rxBuf = c.rxBuf[1:]
		return b
	default:
		return c.ports[port]
	}
}

func (c *CPU) portWrite(port byte, v byte) {
	switch port {
	case PortData:
		c.txBuf = append(c.txBuf, v)
	default:
		c.ports[port] = v
	}
}

func (c *CPU) setFlagsAdd(result uint16, carry, overflow bool) {
	c.flags = 0
	if result == 0 {
		c.flags |= flagZ
	}
	if result&0x8000 != 0 {
		c.flags |= flagN
	}
	if carry {
		c.flags |= flagC
	}
	if overflow {
		c.flags |= flagV
	}
}

func (c *CPU) setFlagsLogic(result uint16) {
	c.flags &^= flagZ | flagN | flagC | flagV
	if result == 0 {
		c.flags |= flagZ
	}
	if result&0x8000 != 0 {
		c.flags |= flagN
	}
}

const (
	flagN = 0x80
	flagZ = 0x40
	flagC = 0x20
	flagV = 0x10
	flagH = 0x08
	flagI = 0x04
)

// errUnknownOpcode is returned defensively; a well-formed image produced
// by this repository's own encoder can never reach it.
func errUnknownOpcode(word uint16) error {
	return fmt.Errorf("unknown opcode/sub-function for instruction word 0x%04X", word)
}
