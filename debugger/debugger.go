// Package debugger is a terminal REPL over the CPU's introspection
// surface: single-step, run-to-breakpoint, memory/register dump, and
// live key injection into the serial RX queue. It is a consumer of
// cpu.CPU, not part of the core — the core stays usable headless (cpu
// never imports this package; the non-interactive runner in cmd/semu
// uses only WatchKeys from it).
package debugger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"sampo/cpu"
	"sampo/disasm"
)

// Debugger drives a cpu.CPU from a line-oriented command loop, printing
// state to out and reading commands from in.
type Debugger struct {
	CPU *cpu.CPU

	in  *bufio.Reader
	out io.Writer

	breakpoints map[uint16]struct{}
	maxSteps    int
}

// New returns a Debugger over c, reading commands from stdin and
// writing to stdout.
func New(c *cpu.CPU) *Debugger {
	return &Debugger{
		CPU:         c,
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		breakpoints: make(map[uint16]struct{}),
		maxSteps:    50000,
	}
}

// Run starts the command loop. It returns when the user quits, input
// ends, the CPU halts under "n"/"next" or "r"/"run", or a step fails.
func (d *Debugger) Run() error {
	fmt.Fprintln(d.out, "Commands: n/next, r/run, b <addr>, d [addr], x <addr> [len], reg, q/quit")
	d.printState()

	for {
		fmt.Fprint(d.out, "\n-> ")
		line, err := d.in.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "n", "next":
			if d.step() {
				return nil
			}
		case "r", "run":
			if d.runUntilStopped() {
				return nil
			}
		case "b", "break":
			d.toggleBreak(fields[1:])
		case "d", "dis":
			d.disassemble(fields[1:])
		case "x", "mem":
			d.dumpMemory(fields[1:])
		case "reg", "r16":
			d.printState()
		case "q", "quit":
			return nil
		default:
			fmt.Fprintf(d.out, "unknown command %q\n", fields[0])
		}
	}
}

func (d *Debugger) step() (quit bool) {
	state, err := d.CPU.Step()
	if err != nil {
		fmt.Fprintln(d.out, "error:", err)
		return true
	}
	d.printState()
	if state == cpu.Halted {
		fmt.Fprintln(d.out, "halted")
		return true
	}
	return false
}

func (d *Debugger) runUntilStopped() (quit bool) {
	for i := 0; i < d.maxSteps; i++ {
		if _, hit := d.breakpoints[d.CPU.PC()]; hit && i > 0 {
			fmt.Fprintln(d.out, "breakpoint")
			d.printState()
			return false
		}
		state, err := d.CPU.Step()
		if err != nil {
			fmt.Fprintln(d.out, "error:", err)
			return true
		}
		if state == cpu.Halted {
			d.printState()
			fmt.Fprintln(d.out, "halted")
			return true
		}
	}
	fmt.Fprintf(d.out, "stopped after %d steps without halting\n", d.maxSteps)
	d.printState()
	return false
}

func (d *Debugger) toggleBreak(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(d.out, "usage: b <addr>")
		return
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		fmt.Fprintln(d.out, "bad address:", err)
		return
	}
	if _, ok := d.breakpoints[addr]; ok {
		delete(d.breakpoints, addr)
		fmt.Fprintf(d.out, "breakpoint cleared at 0x%04X\n", addr)
	} else {
		d.breakpoints[addr] = struct{}{}
		fmt.Fprintf(d.out, "breakpoint set at 0x%04X\n", addr)
	}
}

func (d *Debugger) disassemble(args []string) {
	addr := d.CPU.PC()
	if len(args) >= 1 {
		a, err := parseAddr(args[0])
		if err != nil {
			fmt.Fprintln(d.out, "bad address:", err)
			return
		}
		addr = a
	}
	for i := 0; i < 8; i++ {
		text, length := disasm.Disassemble(d.CPU, addr)
		fmt.Fprintf(d.out, "0x%04X  %s\n", addr, text)
		addr += uint16(length)
	}
}

func (d *Debugger) dumpMemory(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(d.out, "usage: x <addr> [len]")
		return
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		fmt.Fprintln(d.out, "bad address:", err)
		return
	}
	length := 16
	if len(args) >= 2 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			length = n
		}
	}
	for i := 0; i < length; i += 16 {
		fmt.Fprintf(d.out, "0x%04X ", addr+uint16(i))
		for j := 0; j < 16 && i+j < length; j++ {
			fmt.Fprintf(d.out, "%02X ", d.CPU.ReadByte(addr+uint16(i+j)))
		}
		fmt.Fprintln(d.out)
	}
}

func (d *Debugger) printState() {
	flags := d.CPU.Flags()
	fmt.Fprintf(d.out, "PC=0x%04X SP=0x%04X flags=%s cycles=%d\n",
		d.CPU.PC(), d.CPU.Reg(2), flagString(flags), d.CPU.Cycles())
	for i := 0; i < 16; i += 4 {
		fmt.Fprintf(d.out, "  R%-2d=%04X R%-2d=%04X R%-2d=%04X R%-2d=%04X\n",
			i, d.CPU.Reg(uint8(i)), i+1, d.CPU.Reg(uint8(i+1)),
			i+2, d.CPU.Reg(uint8(i+2)), i+3, d.CPU.Reg(uint8(i+3)))
	}
	if tx := d.CPU.DrainSerial(); len(tx) > 0 {
		fmt.Fprintf(d.out, "serial: %q\n", string(tx))
	}
}

func flagString(f uint8) string {
	bits := "NZCVHI"
	masks := []uint8{0x80, 0x40, 0x20, 0x10, 0x08, 0x04}
	out := make([]byte, 6)
	for i, m := range masks {
		if f&m != 0 {
			out[i] = bits[i]
		} else {
			out[i] = '-'
		}
	}
	return string(out)
}

func parseAddr(s string) (uint16, error) {
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// WatchKeys puts the terminal into raw mode for the duration of fn and
// forwards every byte read from stdin into the CPU's RX queue via
// SendKey, so the running program can read live keystrokes off port
// 0x81 without the terminal's line buffering getting in the way. Callers
// that don't need live key injection (e.g. scripted test runs) simply
// don't call it.
func WatchKeys(c *cpu.CPU, fn func()) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fn()
		return nil
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enabling raw terminal mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	done := make(chan struct{})
	go func() {
		buf := make([]byte, 1)
		for {
			select {
			case <-done:
				return
			default:
			}
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				return
			}
			c.SendKey(buf[0])
		}
	}()

	fn()
	close(done)
	return nil
}
