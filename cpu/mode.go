package cpu

// This file implements the per-addressing-mode bus cycle sequences. Each
// mode method is called once per bus cycle with c.cycl already advanced to
// the cycle number being serviced (1 is the first cycle after the opcode
// fetch). It returns whether the instruction is complete on this cycle.

func operIsStore(op oper) bool {
	switch op {
	case operSTA, operSTX, operSTY, operSTZ:
		return true
	}
	return false
}

// storeRegValue returns the value a store-family operation writes to
// memory.
func (c *Chip) storeRegValue(op oper) uint8 {
	switch op {
	case operSTA:
		return c.A
	case operSTX:
		return c.X
	case operSTY:
		return c.Y
	case operSTZ:
		return 0
	default:
		panic(UnreachableOperation{Mode: c.mode, Oper: op})
	}
}

// loadOperand dispatches every addressing mode's non-store operation
// against a fetched or addressed value v, writing results back into
// registers and flags directly.
func (c *Chip) loadOperand(op oper, v uint8) {
	switch op {
	case operNOP:
	case operAND, operEOR, operORA, operADC, operSBC:
		c.operAlu(op, v)
	case operCMP:
		c.operCmp(c.A, v)
	case operCPX:
		c.operCmp(c.X, v)
	case operCPY:
		c.operCmp(c.Y, v)
	case operBIT:
		c.operBit(c.A, v)
	case operLDA:
		c.A = v
		c.updateFlagsNZ(v)
	case operLDX:
		c.X = v
		c.updateFlagsNZ(v)
	case operLDY:
		c.Y = v
		c.updateFlagsNZ(v)
	default:
		panic(UnreachableOperation{Mode: c.mode, Oper: op})
	}
}

// loadImmediate is loadOperand restricted to the operations immediate mode
// may reach; BIT #imm only ever updates Z, unlike the memory form.
func (c *Chip) loadImmediate(op oper, v uint8) {
	if op == operBIT {
		c.operBitImm(c.A, v)
		return
	}
	c.loadOperand(op, v)
}

func (c *Chip) runMode() (bool, error) {
	switch c.mode {
	case modeImplied:
		return c.modeImplied()
	case modeImpliedX:
		return c.modeImpliedX()
	case modeImpliedY:
		return c.modeImpliedY()
	case modeImmediate:
		return c.modeImmediate()
	case modeRelative:
		return c.modeRelative()
	case modeRelativeBit:
		return c.modeRelativeBit()
	case modeZeropage:
		return c.modeZeropage()
	case modeZeropageX:
		return c.modeZeropageIndexed(&c.X)
	case modeZeropageY:
		return c.modeZeropageIndexed(&c.Y)
	case modeZeropageBit:
		return c.modeZeropageBit()
	case modeAbsolute:
		return c.modeAbsolute()
	case modeAbsoluteX:
		return c.modeAbsoluteIndexed(&c.X)
	case modeAbsoluteY:
		return c.modeAbsoluteIndexed(&c.Y)
	case modeZeropageIndirect:
		return c.modeZeropageIndirect()
	case modeZeropageIndirectX:
		return c.modeZeropageIndirectX()
	case modeZeropageIndirectY:
		return c.modeZeropageIndirectY()
	case modeAbsoluteIndirect:
		return c.modeAbsoluteIndirect()
	case modeAbsoluteIndirectX:
		return c.modeAbsoluteIndirectX()
	case modeAbsoluteJump:
		return c.modeAbsoluteJump()
	case modeRMWZeropage:
		return c.modeRMWZeropage()
	case modeRMWZeropageX:
		return c.modeRMWZeropageX()
	case modeSubroutine:
		return c.modeSubroutine()
	case modeReturnSub:
		return c.modeReturnSub()
	case modeRMWAbsolute:
		return c.modeRMWAbsolute()
	case modeRMWAbsoluteX:
		return c.modeRMWAbsoluteX()
	case modeNOP5C:
		return c.modeNOP5C()
	case modeIntWaitStop:
		return c.modeIntWaitStop()
	case modeStackPush:
		return c.modeStackPush()
	case modeStackPull:
		return c.modeStackPull()
	case modeStackBRK:
		return c.modeStackBRK()
	case modeStackRTI:
		return c.modeStackRTI()
	case modeImplied1C:
		return c.modeImplied1C()
	default:
		return true, UnreachableOperation{Mode: c.mode, Oper: c.oper}
	}
}

func (c *Chip) modeImplied1C() (bool, error) {
	return true, nil
}

func (c *Chip) modeImplied() (bool, error) {
	c.read(c.PC)
	switch c.oper {
	case operCLV:
		c.P &^= pV
	case operCLC:
		c.P &^= pC
	case operSEC:
		c.P |= pC
	case operCLI:
		c.P &^= pI
		c.irqUpdateMask()
	case operSEI:
		c.P |= pI
		c.irqUpdateMask()
	case operCLD:
		c.P &^= pD
	case operSED:
		c.P |= pD
	case operTAX:
		c.X = c.A
		c.updateFlagsNZ(c.X)
	case operTXA:
		c.A = c.X
		c.updateFlagsNZ(c.A)
	case operTAY:
		c.Y = c.A
		c.updateFlagsNZ(c.Y)
	case operTYA:
		c.A = c.Y
		c.updateFlagsNZ(c.A)
	case operTSX:
		c.X = c.S
		c.updateFlagsNZ(c.X)
	case operTXS:
		c.S = c.X
	case operNOP:
	case operASL, operROL, operLSR, operROR, operINC, operDEC:
		c.A = c.operRMW(c.oper, c.A)
	default:
		return true, UnreachableOperation{Mode: c.mode, Oper: c.oper}
	}
	c.irqLatch()
	return true, nil
}

func (c *Chip) modeImpliedX() (bool, error) {
	c.read(c.PC)
	switch c.oper {
	case operINC:
		c.X++
	case operDEC:
		c.X--
	default:
		return true, UnreachableOperation{Mode: c.mode, Oper: c.oper}
	}
	c.updateFlagsNZ(c.X)
	c.irqLatch()
	return true, nil
}

func (c *Chip) modeImpliedY() (bool, error) {
	c.read(c.PC)
	switch c.oper {
	case operINC:
		c.Y++
	case operDEC:
		c.Y--
	default:
		return true, UnreachableOperation{Mode: c.mode, Oper: c.oper}
	}
	c.updateFlagsNZ(c.Y)
	c.irqLatch()
	return true, nil
}

func (c *Chip) modeImmediate() (bool, error) {
	switch c.cycl {
	case 1:
		v := c.read(c.PC)
		c.PC++
		c.loadImmediate(c.oper, v)
		c.take = c.decimalPenalty(c.oper)
		if !c.take {
			return true, nil
		}
		return false, nil
	default:
		c.commitDecimalFlags()
		c.read(c.PC)
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) fetchZeropageAddr() uint8 {
	addr := c.read(c.PC)
	c.PC++
	return addr
}

func (c *Chip) modeZeropage() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		ea := uint16(c.tr[0])
		if operIsStore(c.oper) {
			c.write(ea, c.storeRegValue(c.oper))
		} else {
			v := c.read(ea)
			c.loadOperand(c.oper, v)
		}
		c.take = c.decimalPenalty(c.oper)
		if !c.take {
			c.irqLatchSlow()
			return true, nil
		}
		return false, nil
	default:
		c.commitDecimalFlags()
		c.read(uint16(c.tr[0]))
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeZeropageIndexed(idx *uint8) (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.read(uint16(c.tr[0]))
		c.tr[0] += *idx
		return false, nil
	case 3:
		ea := uint16(c.tr[0])
		if operIsStore(c.oper) {
			c.write(ea, c.storeRegValue(c.oper))
		} else {
			v := c.read(ea)
			c.loadOperand(c.oper, v)
		}
		c.take = c.decimalPenalty(c.oper)
		if !c.take {
			c.irqLatchSlow()
			return true, nil
		}
		return false, nil
	default:
		c.commitDecimalFlags()
		c.read(uint16(c.tr[0]))
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeAbsolute() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.tr[1] = c.fetchZeropageAddr()
		return false, nil
	case 3:
		ea := get16(c.tr[0], c.tr[1])
		if operIsStore(c.oper) {
			c.write(ea, c.storeRegValue(c.oper))
		} else {
			v := c.read(ea)
			c.loadOperand(c.oper, v)
		}
		c.take = c.decimalPenalty(c.oper)
		if !c.take {
			c.irqLatchSlow()
			return true, nil
		}
		return false, nil
	default:
		c.commitDecimalFlags()
		c.read(get16(c.tr[0], c.tr[1]))
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeAbsoluteIndexed(idx *uint8) (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.tr[1] = c.fetchZeropageAddr()
		c.tr[4] = overflow8(c.tr[0], *idx)
		return false, nil
	case 3:
		if c.tr[4] == 0 && !operIsStore(c.oper) {
			ea := get16(c.tr[0]+*idx, c.tr[1])
			v := c.read(ea)
			c.loadOperand(c.oper, v)
			c.irqLatchSlow()
			return true, nil
		}
		c.read(get16(c.tr[0]+*idx, c.tr[1]))
		return false, nil
	default:
		ea := get16(c.tr[0]+*idx, c.tr[1]+c.tr[4])
		if operIsStore(c.oper) {
			c.write(ea, c.storeRegValue(c.oper))
		} else {
			v := c.read(ea)
			c.loadOperand(c.oper, v)
		}
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeZeropageIndirect() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[2] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.tr[0] = c.read(uint16(c.tr[2]))
		return false, nil
	case 3:
		c.tr[1] = c.read(uint16(c.tr[2] + 1))
		return false, nil
	default:
		ea := get16(c.tr[0], c.tr[1])
		if operIsStore(c.oper) {
			c.write(ea, c.storeRegValue(c.oper))
		} else {
			v := c.read(ea)
			c.loadOperand(c.oper, v)
		}
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeZeropageIndirectX() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[2] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.read(uint16(c.tr[2]))
		c.tr[2] += c.X
		return false, nil
	case 3:
		c.tr[0] = c.read(uint16(c.tr[2]))
		return false, nil
	case 4:
		c.tr[1] = c.read(uint16(c.tr[2] + 1))
		return false, nil
	default:
		ea := get16(c.tr[0], c.tr[1])
		if operIsStore(c.oper) {
			c.write(ea, c.storeRegValue(c.oper))
		} else {
			v := c.read(ea)
			c.loadOperand(c.oper, v)
		}
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeZeropageIndirectY() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[2] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.tr[0] = c.read(uint16(c.tr[2]))
		return false, nil
	case 3:
		c.tr[1] = c.read(uint16(c.tr[2] + 1))
		c.tr[4] = overflow8(c.tr[0], c.Y)
		return false, nil
	case 4:
		if c.tr[4] == 0 && !operIsStore(c.oper) {
			ea := get16(c.tr[0]+c.Y, c.tr[1])
			v := c.read(ea)
			c.loadOperand(c.oper, v)
			c.irqLatchSlow()
			return true, nil
		}
		c.read(get16(c.tr[0]+c.Y, c.tr[1]))
		return false, nil
	default:
		ea := get16(c.tr[0]+c.Y, c.tr[1]+c.tr[4])
		if operIsStore(c.oper) {
			c.write(ea, c.storeRegValue(c.oper))
		} else {
			v := c.read(ea)
			c.loadOperand(c.oper, v)
		}
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeAbsoluteJump() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	default:
		c.tr[1] = c.fetchZeropageAddr()
		c.PC = get16(c.tr[0], c.tr[1])
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeAbsoluteIndirect() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.tr[1] = c.fetchZeropageAddr()
		return false, nil
	case 3:
		c.read(get16(c.tr[0], c.tr[1]))
		return false, nil
	case 4:
		c.tr[2] = c.read(get16(c.tr[0], c.tr[1]))
		return false, nil
	default:
		c.tr[3] = c.read(get16(c.tr[0], c.tr[1]) + 1)
		c.PC = get16(c.tr[2], c.tr[3])
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeAbsoluteIndirectX() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.tr[1] = c.fetchZeropageAddr()
		return false, nil
	case 3:
		ptr := get16(c.tr[0], c.tr[1]) + uint16(c.X)
		c.tr[0] = uint8(ptr)
		c.tr[1] = uint8(ptr >> 8)
		c.read(get16(c.tr[0], c.tr[1]))
		return false, nil
	case 4:
		c.tr[2] = c.read(get16(c.tr[0], c.tr[1]))
		return false, nil
	default:
		c.tr[3] = c.read(get16(c.tr[0]+1, c.tr[1]))
		c.PC = get16(c.tr[2], c.tr[3])
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeZeropageBit() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.tr[1] = c.read(uint16(c.tr[0]))
		return false, nil
	case 3:
		c.write(uint16(c.tr[0]), c.tr[1])
		return false, nil
	default:
		c.write(uint16(c.tr[0]), bitSet(c.oper, c.tr[1]))
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeRelative() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		c.take = c.branchTaken(c.oper)
		if !c.take {
			c.irqLatch()
			return true, nil
		}
		return false, nil
	case 2:
		oldPC := c.PC
		target := oldPC + uint16(int16(int8(c.tr[0])))
		c.tr[1] = uint8(target)
		c.tr[2] = uint8(target >> 8)
		c.read(uint16(oldPC&0xFF00) | uint16(c.tr[1]))
		if uint8(oldPC>>8) == c.tr[2] {
			c.PC = target
			c.irqLatchSlow()
			return true, nil
		}
		return false, nil
	default:
		c.PC = get16(c.tr[1], c.tr[2])
		c.read(c.PC)
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeRelativeBit() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.tr[1] = c.read(uint16(c.tr[0]))
		return false, nil
	case 3:
		c.read(uint16(c.tr[0]))
		return false, nil
	case 4:
		c.tr[3] = c.fetchZeropageAddr()
		c.take = bitBranchTaken(c.oper, c.tr[1])
		if !c.take {
			c.irqLatch()
			return true, nil
		}
		return false, nil
	case 5:
		oldPC := c.PC
		target := oldPC + uint16(int16(int8(c.tr[3])))
		c.tr[1] = uint8(target)
		c.tr[2] = uint8(target >> 8)
		c.read(uint16(oldPC&0xFF00) | uint16(c.tr[1]))
		if uint8(oldPC>>8) == c.tr[2] {
			c.PC = target
			c.irqLatchSlow()
			return true, nil
		}
		return false, nil
	default:
		c.PC = get16(c.tr[1], c.tr[2])
		c.read(c.PC)
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeRMWZeropage() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.tr[1] = c.read(uint16(c.tr[0]))
		return false, nil
	case 3:
		c.write(uint16(c.tr[0]), c.tr[1])
		return false, nil
	default:
		c.write(uint16(c.tr[0]), c.operRMW(c.oper, c.tr[1]))
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeRMWZeropageX() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.read(uint16(c.tr[0]))
		c.tr[0] += c.X
		return false, nil
	case 3:
		c.tr[1] = c.read(uint16(c.tr[0]))
		return false, nil
	case 4:
		c.write(uint16(c.tr[0]), c.tr[1])
		return false, nil
	default:
		c.write(uint16(c.tr[0]), c.operRMW(c.oper, c.tr[1]))
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeRMWAbsolute() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.tr[1] = c.fetchZeropageAddr()
		return false, nil
	case 3:
		c.tr[2] = c.read(get16(c.tr[0], c.tr[1]))
		return false, nil
	case 4:
		c.write(get16(c.tr[0], c.tr[1]), c.tr[2])
		return false, nil
	default:
		c.write(get16(c.tr[0], c.tr[1]), c.operRMW(c.oper, c.tr[2]))
		c.irqLatchSlow()
		return true, nil
	}
}

// fastRMWAbsX reports whether this RMW absolute,X access may skip the
// spurious write-back cycle: true only for INC/DEC without a page cross.
func fastRMWAbsX(op oper, cross bool) bool {
	return !cross && (op == operINC || op == operDEC)
}

func (c *Chip) modeRMWAbsoluteX() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.tr[1] = c.fetchZeropageAddr()
		c.tr[4] = overflow8(c.tr[0], c.X)
		return false, nil
	case 3:
		c.read(get16(c.tr[0]+c.X, c.tr[1]))
		return false, nil
	case 4:
		ea := get16(c.tr[0]+c.X, c.tr[1]+c.tr[4])
		c.tr[2] = c.read(ea)
		if fastRMWAbsX(c.oper, c.tr[4] != 0) {
			c.write(ea, c.operRMW(c.oper, c.tr[2]))
			c.irqLatchSlow()
			return true, nil
		}
		return false, nil
	case 5:
		ea := get16(c.tr[0]+c.X, c.tr[1]+c.tr[4])
		c.write(ea, c.tr[2])
		return false, nil
	default:
		ea := get16(c.tr[0]+c.X, c.tr[1]+c.tr[4])
		c.write(ea, c.operRMW(c.oper, c.tr[2]))
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeSubroutine() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.read(stackAddr(c.S))
		return false, nil
	case 3:
		c.push(uint8(c.PC >> 8))
		return false, nil
	case 4:
		c.push(uint8(c.PC))
		return false, nil
	default:
		c.tr[1] = c.fetchZeropageAddr()
		c.PC = get16(c.tr[0], c.tr[1])
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeReturnSub() (bool, error) {
	switch c.cycl {
	case 1:
		c.read(c.PC)
		return false, nil
	case 2:
		c.read(stackAddr(c.S))
		return false, nil
	case 3:
		c.tr[0] = c.pull()
		return false, nil
	case 4:
		c.tr[1] = c.pull()
		return false, nil
	default:
		c.PC = get16(c.tr[0], c.tr[1])
		c.read(c.PC)
		c.PC++
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeStackPush() (bool, error) {
	switch c.cycl {
	case 1:
		c.read(c.PC)
		return false, nil
	default:
		var v uint8
		switch c.oper {
		case operPHP:
			v = c.P | pA1 | pB
		case operPHA:
			v = c.A
		case operPHX:
			v = c.X
		case operPHY:
			v = c.Y
		default:
			return true, UnreachableOperation{Mode: c.mode, Oper: c.oper}
		}
		c.push(v)
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeStackPull() (bool, error) {
	switch c.cycl {
	case 1:
		c.read(c.PC)
		return false, nil
	case 2:
		c.read(stackAddr(c.S))
		return false, nil
	default:
		v := c.pull()
		switch c.oper {
		case operPLP:
			c.P = v | pA1 | pB
			c.irqUpdateMask()
		case operPLA:
			c.A = v
			c.updateFlagsNZ(c.A)
		case operPLX:
			c.X = v
			c.updateFlagsNZ(c.X)
		case operPLY:
			c.Y = v
			c.updateFlagsNZ(c.Y)
		default:
			return true, UnreachableOperation{Mode: c.mode, Oper: c.oper}
		}
		c.irqLatchSlow()
		return true, nil
	}
}

func (c *Chip) modeStackRTI() (bool, error) {
	switch c.cycl {
	case 1:
		c.read(c.PC)
		return false, nil
	case 2:
		c.read(stackAddr(c.S))
		return false, nil
	case 3:
		c.P = c.pull() | pA1 | pB
		c.irqUpdateMask()
		return false, nil
	case 4:
		c.tr[0] = c.pull()
		return false, nil
	default:
		c.tr[1] = c.pull()
		c.PC = get16(c.tr[0], c.tr[1])
		c.irqLatchSlow()
		return true, nil
	}
}

// modeStackBRK services BRK, and the shared NMI/IRQ/RESET entry sequence
// the executor forces by decoding opcode 0 when handleInterrupt finds a
// pending request. take distinguishes a real BRK instruction (PC already
// advanced past the signature byte, B pushed set) from a hardware
// interrupt entry (PC unchanged, B pushed clear).
func (c *Chip) modeStackBRK() (bool, error) {
	switch c.cycl {
	case 1:
		v := c.read(c.PC)
		c.take = c.oper == operBRK && !c.inNmi && !c.inIrq && !c.inRst
		if c.take {
			c.PC++
			if c.hookBRK != nil {
				c.hookBRK(v)
			}
		}
		return false, nil
	case 2:
		if c.inRst {
			c.read(stackAddr(c.S))
		} else {
			c.push(uint8(c.PC >> 8))
		}
		if c.inRst {
			c.S--
		}
		return false, nil
	case 3:
		if c.inRst {
			c.read(stackAddr(c.S))
			c.S--
		} else {
			c.push(uint8(c.PC))
		}
		return false, nil
	case 4:
		flags := c.P | pA1
		if c.take {
			flags |= pB
		} else {
			flags &^= pB
		}
		if c.inRst {
			c.read(stackAddr(c.S))
			c.S--
		} else {
			c.push(flags)
		}
		return false, nil
	case 5:
		// An NMI edge arriving while an IRQ-vectored sequence is already
		// in flight hijacks it here, before the vector is read.
		if c.intTrig&stateNMI != 0 && c.inIrq {
			c.cpuState &^= stateNMI
			c.intTrig &^= stateNMI
			c.inIrq = false
			c.inNmi = true
		}
		c.P |= pI
		c.irqUpdateMask()
		vec := c.vectorAddr()
		c.tr[0] = c.read(vec)
		return false, nil
	default:
		vec := c.vectorAddr()
		c.tr[1] = c.read(vec + 1)
		c.PC = get16(c.tr[0], c.tr[1])
		if !c.take {
			c.totalInstructions--
		}
		c.inRst = false
		c.inNmi = false
		c.inIrq = false
		return true, nil
	}
}

func (c *Chip) vectorAddr() uint16 {
	switch {
	case c.inRst:
		return VectorReset
	case c.inNmi:
		return VectorNMI
	default:
		return VectorIRQ
	}
}

func (c *Chip) modeNOP5C() (bool, error) {
	switch c.cycl {
	case 1:
		c.tr[0] = c.fetchZeropageAddr()
		return false, nil
	case 2:
		c.tr[1] = c.fetchZeropageAddr()
		return false, nil
	case 3, 4, 5, 6:
		c.read(get16(c.tr[0], c.tr[1]))
		return false, nil
	default:
		c.tr[1] = 0xFF
		c.tr[0] = 0xFF
		c.read(get16(c.tr[0], c.tr[1]))
		return true, nil
	}
}

func (c *Chip) modeIntWaitStop() (bool, error) {
	c.take = c.oper == operSTP
	switch c.cycl {
	case 1:
		c.read(c.PC)
		if c.take && c.hookSTP != nil {
			c.hookSTP()
		}
		return false, nil
	case 2:
		if !c.take {
			c.cpuState = c.cpuState&^stateRunModeMask | stateWait
			return true, nil
		}
		c.read(c.PC)
		return false, nil
	default:
		c.cpuState = c.cpuState&^stateRunModeMask | stateStop
		return true, nil
	}
}
