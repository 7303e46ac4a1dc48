// Package cpu implements a cycle-accurate emulator of the Western Design
// Center W65C02S, an 8-bit CMOS microprocessor with a 16-bit address bus.
//
// The emulator reproduces the bus transactions, register contents and flag
// updates of a physical W65C02S cycle for cycle. It does not model memory,
// peripherals or interrupt sources itself; a host embeds a Chip and drives
// it forward through RunCycles, RunInstructions or StepInstruction while
// supplying a Bus for the two memory hooks and optionally Nmi/Irq sources.
package cpu

// RegA returns the accumulator register.
func (c *Chip) RegA() uint8 { return c.A }

// SetA sets the accumulator register directly, bypassing any flag update.
func (c *Chip) SetA(v uint8) { c.A = v }

// RegX returns the X register.
func (c *Chip) RegX() uint8 { return c.X }

// SetX sets the X register directly.
func (c *Chip) SetX(v uint8) { c.X = v }

// RegY returns the Y register.
func (c *Chip) RegY() uint8 { return c.Y }

// SetY sets the Y register directly.
func (c *Chip) SetY(v uint8) { c.Y = v }

// RegS returns the stack pointer.
func (c *Chip) RegS() uint8 { return c.S }

// SetS sets the stack pointer directly.
func (c *Chip) SetS(v uint8) { c.S = v }

// RegPC returns the program counter.
func (c *Chip) RegPC() uint16 { return c.PC }

// SetPC sets the program counter directly.
func (c *Chip) SetPC(v uint16) { c.PC = v }

// RegP returns the status register, with the two bits that are wired high
// on the real part always reading as set.
func (c *Chip) RegP() uint8 { return c.P | pA1 | pB }

// SetP sets the status register directly. The two always-high bits are
// forced set, and the IRQ mask is refreshed immediately since it depends
// on the I flag.
func (c *Chip) SetP(v uint8) {
	c.P = v | pA1 | pB
	c.irqUpdateMask()
}

// installHook reports whether a hook of kind k may be installed under this
// Chip's Config, mirroring the capability-boolean contract of a
// compile-time-gated hook registration.
func (c *Chip) installHook(k HookKind) bool {
	return c.cfg.hookEnabled(k)
}

// InstallBRKHook installs a callback invoked whenever a BRK instruction is
// decoded, receiving the signature byte that followed the opcode. It
// returns false without installing anything if HookBRK was not enabled in
// Config.
func (c *Chip) InstallBRKHook(f func(signature uint8) bool) bool {
	if !c.installHook(HookBRK) {
		return false
	}
	c.hookBRK = f
	return true
}

// InstallSTPHook installs a callback invoked whenever an STP instruction
// is decoded. It returns false without installing anything if HookSTP was
// not enabled in Config.
func (c *Chip) InstallSTPHook(f func() bool) bool {
	if !c.installHook(HookSTP) {
		return false
	}
	c.hookSTP = f
	return true
}

// InstallEOIHook installs a callback invoked after every completed
// instruction (interrupt entries excluded). It returns false without
// installing anything if HookEOI was not enabled in Config.
func (c *Chip) InstallEOIHook(f func()) bool {
	if !c.installHook(HookEOI) {
		return false
	}
	c.hookEOI = f
	return true
}
