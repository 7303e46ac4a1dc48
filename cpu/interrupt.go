package cpu

// irqUpdateMask recomputes which latched interrupt sources are currently
// unmasked, based on the live I flag. Called whenever P changes.
func (c *Chip) irqUpdateMask() {
	c.intMask = stateNMI
	if c.P&pI == 0 {
		c.intMask |= stateIRQ
	}
}

// sampleTrig folds the current pin state into intTrig: NMI is an edge
// already latched by Nmi() and stays latched until serviced; IRQ is a
// level and is latched fresh from irqLine on every sample.
func (c *Chip) sampleTrig() {
	if c.irqLine {
		c.intTrig |= stateIRQ
	} else {
		c.intTrig &^= stateIRQ
	}
}

// irqLatch samples pending interrupts immediately, for addressing modes
// that may still take another cycle after the sample point (most modes,
// sampled right after the operand fetch, and the modes that run a
// "prerun" sample before their first mode cycle).
func (c *Chip) irqLatch() {
	c.sampleTrig()
	c.latchIntoState()
}

// irqLatchSlow is irqLatch called one cycle later than usual, for modes
// whose last cycle is a penalty/decimal cycle that defers the boundary
// sample point by one cycle relative to the plain case.
func (c *Chip) irqLatchSlow() {
	c.sampleTrig()
	c.latchIntoState()
}

func (c *Chip) latchIntoState() {
	pending := c.intTrig & c.intMask
	c.cpuState = c.cpuState&^stateIRQWithMode | (c.cpuState & stateRunModeMask) | pending
}

// prerunLatch samples interrupts before the first mode cycle runs, for
// the addressing modes whose canonical sample point precedes any bus
// activity of their own: IMPLIED, IMPLIED_X, IMPLIED_Y, IMMEDIATE and
// RELATIVE.
func (c *Chip) prerunLatch() {
	switch c.mode {
	case modeImplied, modeImpliedX, modeImpliedY, modeImmediate, modeRelative:
		c.irqLatch()
	}
}

// pendingInterrupt reports which interrupt, if any, has priority to enter
// this cycle: RESET over NMI over IRQ.
type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingReset
	pendingNMI
	pendingIRQ
)

func (c *Chip) pendingInterrupt() pendingKind {
	if c.cpuState&stateRunModeMask == stateReset {
		return pendingReset
	}
	if c.cpuState&stateNMI != 0 {
		return pendingNMI
	}
	if c.cpuState&stateIRQ != 0 {
		return pendingIRQ
	}
	return pendingNone
}

// handleInterrupt forces the shared BRK-shaped entry sequence when an
// interrupt (or reset) is pending, by decoding the synthetic opcode 0 and
// marking which source is in flight. Returns true if an interrupt was
// entered.
func (c *Chip) handleInterrupt() bool {
	switch c.pendingInterrupt() {
	case pendingReset:
		c.inRst = true
		c.inNmi = false
		c.inIrq = false
		c.cpuState = c.cpuState&^(stateRunModeMask|stateNMI|stateIRQ) | stateRun
		c.intTrig &^= stateNMI | stateIRQ
		c.P |= pA1 | pB
	case pendingNMI:
		c.inNmi = true
		c.cpuState &^= stateNMI
		c.intTrig &^= stateNMI
	case pendingIRQ:
		c.inIrq = true
		c.cpuState &^= stateIRQ
		c.intTrig &^= stateIRQ
	default:
		return false
	}
	c.decode(0)
	return true
}

// Nmi latches a falling edge on the non-maskable interrupt line. NMI
// cannot be masked or cancelled once latched; it is serviced as soon as
// the current instruction boundary allows.
func (c *Chip) Nmi(asserted bool) {
	if asserted && !c.nmiLine {
		c.intTrig |= stateNMI
		c.wakeFromWait()
	}
	c.nmiLine = asserted
}

// Irq sets the level of the maskable interrupt line. Unlike Nmi, it can be
// cancelled (the line is a level, not a latch): intTrig's IRQ bit tracks
// irqLine directly, the way sampleTrig would fold it in, so it stays
// current even while the chip is halted in WAI with no mode cycle running
// to sample it.
func (c *Chip) Irq(asserted bool) {
	c.irqLine = asserted
	if asserted {
		c.intTrig |= stateIRQ
		c.wakeFromWait()
	} else {
		c.intTrig &^= stateIRQ
	}
}

// IrqCancel is an alias for Irq(false), named for parity with hosts that
// model IRQ as a pulse rather than a level.
func (c *Chip) IrqCancel() {
	c.Irq(false)
}

// Reset requests a RESET sequence at the next instruction boundary.
func (c *Chip) Reset() {
	c.cpuState = c.cpuState&^stateRunModeMask | stateReset
}

// SetOverflow sets V directly, modeling the W65C02S's dedicated SO pin.
func (c *Chip) SetOverflow() {
	c.P |= pV
}

// wakeFromWait resumes from WAI the moment an interrupt source asserts,
// latching it into cpuState immediately rather than waiting for the next
// mode-cycle's sample point, since WAI has no mode cycles left to run one.
func (c *Chip) wakeFromWait() {
	if c.cpuState&stateRunModeMask == stateWait {
		c.cpuState = c.cpuState&^stateRunModeMask | stateRun
		c.irqLatch()
	}
}

// IsWaiting reports whether the chip is halted in WAI.
func (c *Chip) IsWaiting() bool {
	return c.cpuState&stateRunModeMask == stateWait
}

// IsStopped reports whether the chip is halted in STP.
func (c *Chip) IsStopped() bool {
	return c.cpuState&stateRunModeMask == stateStop
}
