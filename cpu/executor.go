package cpu

// tick runs exactly one bus cycle: either the opcode fetch that starts a
// new instruction (or a forced interrupt entry), or the next cycle of the
// mode sequence already in flight. Every public run entry point is built
// on repeated calls to this one primitive, which is what makes the
// cycle-granular and instruction-granular executors produce identical bus
// traces for the same total number of cycles.
func (c *Chip) tick() error {
	if c.cfg.Irq != nil {
		c.Irq(c.cfg.Irq.Raised())
	}
	if c.cfg.Nmi != nil {
		c.Nmi(c.cfg.Nmi.Raised())
	}

	if mode := c.cpuState & stateRunModeMask; mode == stateWait {
		if c.intTrig == 0 {
			c.read(c.PC)
			c.bumpCycle()
			return nil
		}
		c.cpuState = c.cpuState&^stateRunModeMask | stateRun
		c.irqLatch()
	} else if mode == stateStop {
		c.read(c.PC)
		c.bumpCycle()
		return nil
	}

	if c.fetchPending {
		entered := c.handleInterrupt()
		if !entered {
			opc := c.read(c.PC)
			c.decode(opc)
			c.PC++
		}
		c.prerunLatch()
		c.fetchPending = false
		c.bumpCycle()
		if c.mode == modeImplied1C {
			c.fetchPending = true
			c.handleEndOfInstruction()
		}
		return nil
	}

	c.cycl++
	done, err := c.runMode()
	c.bumpCycle()
	if err != nil {
		return err
	}
	if done {
		c.fetchPending = true
		c.handleEndOfInstruction()
	}
	return nil
}

func (c *Chip) bumpCycle() {
	if c.cfg.Counter == CounterFine {
		c.totalCycles++
	} else {
		c.pendingCycles++
	}
}

func (c *Chip) flushCoarseCycles() {
	if c.cfg.Counter == CounterCoarse {
		c.totalCycles += c.pendingCycles
		c.pendingCycles = 0
	}
}

func (c *Chip) handleEndOfInstruction() {
	c.totalInstructions++
	if c.hookEOI != nil && !(c.mode == modeStackBRK && !c.take) {
		c.hookEOI()
	}
}

func (c *Chip) runReentrant(f func() error) (err error) {
	if c.running {
		return InvalidCPUState{"Tick called reentrantly"}
	}
	c.running = true
	defer func() {
		if r := recover(); r != nil {
			if uo, ok := r.(UnreachableOperation); ok {
				err = uo
				return
			}
			panic(r)
		}
	}()
	defer func() { c.running = false }()
	err = f()
	c.flushCoarseCycles()
	return err
}

// RunCycles advances the chip by exactly n cycles under ExecutorCycle, or
// by n cycles rounded up to the next instruction boundary under
// ExecutorInstruction.
func (c *Chip) RunCycles(n uint64) error {
	return c.runReentrant(func() error {
		for i := uint64(0); i < n; i++ {
			if err := c.tick(); err != nil {
				return err
			}
		}
		if c.cfg.Executor == ExecutorInstruction {
			for !c.fetchPending {
				if err := c.tick(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// StepInstruction finishes any instruction already in flight, then runs
// exactly one more instruction to completion.
func (c *Chip) StepInstruction() error {
	return c.runReentrant(func() error {
		for !c.fetchPending {
			if err := c.tick(); err != nil {
				return err
			}
		}
		for {
			if err := c.tick(); err != nil {
				return err
			}
			if c.fetchPending {
				return nil
			}
		}
	})
}

// RunInstructions runs n complete instructions. If finishExisting is true,
// any instruction already in flight is completed first, uncounted;
// otherwise the in-flight instruction (if any) is left untouched and
// counted as the first of the n once it completes.
func (c *Chip) RunInstructions(n uint64, finishExisting bool) error {
	return c.runReentrant(func() error {
		if finishExisting {
			for !c.fetchPending {
				if err := c.tick(); err != nil {
					return err
				}
			}
		}
		for i := uint64(0); i < n; i++ {
			for {
				if err := c.tick(); err != nil {
					return err
				}
				if c.fetchPending {
					break
				}
			}
		}
		return nil
	})
}

// GetCycleCount returns the number of bus cycles run so far.
func (c *Chip) GetCycleCount() uint64 {
	return c.totalCycles + c.pendingCycles
}

// GetInstructionCount returns the number of completed instructions,
// excluding interrupt entry sequences.
func (c *Chip) GetInstructionCount() uint64 {
	return c.totalInstructions
}

// ResetCycleCount zeroes the cycle counter.
func (c *Chip) ResetCycleCount() {
	c.totalCycles = 0
	c.pendingCycles = 0
}

// ResetInstructionCount zeroes the instruction counter.
func (c *Chip) ResetInstructionCount() {
	c.totalInstructions = 0
}
