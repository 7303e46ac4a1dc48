package cpu

// mode identifies the addressing-mode cycle sequence an opcode follows.
type mode uint8

const (
	modeImplied mode = iota
	modeImpliedX
	modeImpliedY
	modeImmediate
	modeRelative
	modeRelativeBit
	modeZeropage
	modeZeropageX
	modeZeropageY
	modeZeropageBit
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeZeropageIndirect
	modeZeropageIndirectX
	modeZeropageIndirectY
	modeAbsoluteIndirect
	modeAbsoluteIndirectX
	modeAbsoluteJump
	modeRMWZeropage
	modeRMWZeropageX
	modeSubroutine
	modeReturnSub
	modeRMWAbsolute
	modeRMWAbsoluteX
	modeNOP5C
	modeIntWaitStop
	modeStackPush
	modeStackPull
	modeStackBRK
	modeStackRTI
	modeImplied1C
)

// oper identifies the operation an opcode performs, interpreted in the
// context of its mode. A handful of named values below are shared between
// modes that never dispatch them the same way (e.g. operPHP and operPLP
// both encode the flags-register special case of their respective stack
// mode), which mirrors the source emulator's mode-relative numbering
// without reusing raw integers across unrelated operations.
type oper uint8

const (
	operNOP oper = iota
	operAND
	operEOR
	operORA
	operADC
	operSBC
	operCMP
	operCPX
	operCPY
	operBIT
	operLDA
	operLDX
	operLDY
	operSTA
	operSTX
	operSTY
	operSTZ

	operDEC
	operINC
	operASL
	operROL
	operLSR
	operROR
	operTSB
	operTRB

	operCLV
	operCLC
	operSEC
	operCLI
	operSEI
	operCLD
	operSED
	operTAX
	operTXA
	operTAY
	operTYA
	operTSX
	operTXS

	operBPL
	operBMI
	operBVC
	operBVS
	operBCC
	operBCS
	operBNE
	operBEQ
	operBRA

	operPHP
	operPHA
	operPHX
	operPHY
	operPLP
	operPLA
	operPLX
	operPLY

	operWAI
	operSTP

	operJMP
	operJSR
	operRTS
	operBRK
	operRTI
)

// operBitBase marks the start of the 16 RMB/SMB/BBR/BBS operation tags,
// encoded as a zero-page bit index (low 3 bits) and a set-vs-branch-taken
// sense selector (bit 3), exactly as the opcode's mnemonic table groups
// them in columns 0x7 and 0xF of each row.
const operBitBase oper = 0x40

func bitOper(index uint8, sense bool) oper {
	v := operBitBase + oper(index&0x7)
	if sense {
		v += 8
	}
	return v
}

func (o oper) bitIndex() uint8 { return uint8(o-operBitBase) & 0x7 }
func (o oper) bitSense() bool  { return uint8(o-operBitBase)&0x8 != 0 }

// modes maps each opcode byte to its addressing-mode cycle sequence.
var modes = [256]mode{
	/*00*/ modeStackBRK, modeZeropageIndirectX, modeImmediate, modeImplied1C,
	/*04*/ modeRMWZeropage, modeZeropage, modeRMWZeropage, modeZeropageBit,
	/*08*/ modeStackPush, modeImmediate, modeImplied, modeImplied1C,
	/*0C*/ modeRMWAbsolute, modeAbsolute, modeRMWAbsolute, modeRelativeBit,

	/*10*/ modeRelative, modeZeropageIndirectY, modeZeropageIndirect, modeImplied1C,
	/*14*/ modeRMWZeropage, modeZeropageX, modeRMWZeropageX, modeZeropageBit,
	/*18*/ modeImplied, modeAbsoluteY, modeImplied, modeImplied1C,
	/*1C*/ modeRMWAbsolute, modeAbsoluteX, modeRMWAbsoluteX, modeRelativeBit,

	/*20*/ modeSubroutine, modeZeropageIndirectX, modeImmediate, modeImplied1C,
	/*24*/ modeZeropage, modeZeropage, modeRMWZeropage, modeZeropageBit,
	/*28*/ modeStackPull, modeImmediate, modeImplied, modeImplied1C,
	/*2C*/ modeAbsolute, modeAbsolute, modeRMWAbsolute, modeRelativeBit,

	/*30*/ modeRelative, modeZeropageIndirectY, modeZeropageIndirect, modeImplied1C,
	/*34*/ modeZeropageX, modeZeropageX, modeRMWZeropageX, modeZeropageBit,
	/*38*/ modeImplied, modeAbsoluteY, modeImplied, modeImplied1C,
	/*3C*/ modeAbsoluteX, modeAbsoluteX, modeRMWAbsoluteX, modeRelativeBit,

	/*40*/ modeStackRTI, modeZeropageIndirectX, modeImmediate, modeImplied1C,
	/*44*/ modeZeropage, modeZeropage, modeRMWZeropage, modeZeropageBit,
	/*48*/ modeStackPush, modeImmediate, modeImplied, modeImplied1C,
	/*4C*/ modeAbsoluteJump, modeAbsolute, modeRMWAbsolute, modeRelativeBit,

	/*50*/ modeRelative, modeZeropageIndirectY, modeZeropageIndirect, modeImplied1C,
	/*54*/ modeZeropageX, modeZeropageX, modeRMWZeropageX, modeZeropageBit,
	/*58*/ modeImplied, modeAbsoluteY, modeStackPush, modeImplied1C,
	/*5C*/ modeNOP5C, modeAbsoluteX, modeRMWAbsoluteX, modeRelativeBit,

	/*60*/ modeReturnSub, modeZeropageIndirectX, modeImmediate, modeImplied1C,
	/*64*/ modeZeropage, modeZeropage, modeRMWZeropage, modeZeropageBit,
	/*68*/ modeStackPull, modeImmediate, modeImplied, modeImplied1C,
	/*6C*/ modeAbsoluteIndirect, modeAbsolute, modeRMWAbsolute, modeRelativeBit,

	/*70*/ modeRelative, modeZeropageIndirectY, modeZeropageIndirect, modeImplied1C,
	/*74*/ modeZeropageX, modeZeropageX, modeRMWZeropageX, modeZeropageBit,
	/*78*/ modeImplied, modeAbsoluteY, modeStackPull, modeImplied1C,
	/*7C*/ modeAbsoluteIndirectX, modeAbsoluteX, modeRMWAbsoluteX, modeRelativeBit,

	/*80*/ modeRelative, modeZeropageIndirectX, modeImmediate, modeImplied1C,
	/*84*/ modeZeropage, modeZeropage, modeZeropage, modeZeropageBit,
	/*88*/ modeImpliedY, modeImmediate, modeImplied, modeImplied1C,
	/*8C*/ modeAbsolute, modeAbsolute, modeAbsolute, modeRelativeBit,

	/*90*/ modeRelative, modeZeropageIndirectY, modeZeropageIndirect, modeImplied1C,
	/*94*/ modeZeropageX, modeZeropageX, modeZeropageY, modeZeropageBit,
	/*98*/ modeImplied, modeAbsoluteY, modeImplied, modeImplied1C,
	/*9C*/ modeAbsolute, modeAbsoluteX, modeAbsoluteX, modeRelativeBit,

	/*A0*/ modeImmediate, modeZeropageIndirectX, modeImmediate, modeImplied1C,
	/*A4*/ modeZeropage, modeZeropage, modeZeropage, modeZeropageBit,
	/*A8*/ modeImplied, modeImmediate, modeImplied, modeImplied1C,
	/*AC*/ modeAbsolute, modeAbsolute, modeAbsolute, modeRelativeBit,

	/*B0*/ modeRelative, modeZeropageIndirectY, modeZeropageIndirect, modeImplied1C,
	/*B4*/ modeZeropageX, modeZeropageX, modeZeropageY, modeZeropageBit,
	/*B8*/ modeImplied, modeAbsoluteY, modeImplied, modeImplied1C,
	/*BC*/ modeAbsoluteX, modeAbsoluteX, modeAbsoluteY, modeRelativeBit,

	/*C0*/ modeImmediate, modeZeropageIndirectX, modeImmediate, modeImplied1C,
	/*C4*/ modeZeropage, modeZeropage, modeRMWZeropage, modeZeropageBit,
	/*C8*/ modeImpliedY, modeImmediate, modeImpliedX, modeIntWaitStop,
	/*CC*/ modeAbsolute, modeAbsolute, modeRMWAbsolute, modeRelativeBit,

	/*D0*/ modeRelative, modeZeropageIndirectY, modeZeropageIndirect, modeImplied1C,
	/*D4*/ modeZeropageX, modeZeropageX, modeRMWZeropageX, modeZeropageBit,
	/*D8*/ modeImplied, modeAbsoluteY, modeStackPush, modeIntWaitStop,
	/*DC*/ modeAbsolute, modeAbsoluteX, modeRMWAbsoluteX, modeRelativeBit,

	/*E0*/ modeImmediate, modeZeropageIndirectX, modeImmediate, modeImplied1C,
	/*E4*/ modeZeropage, modeZeropage, modeRMWZeropage, modeZeropageBit,
	/*E8*/ modeImpliedX, modeImmediate, modeImplied, modeImplied1C,
	/*EC*/ modeAbsolute, modeAbsolute, modeRMWAbsolute, modeRelativeBit,

	/*F0*/ modeRelative, modeZeropageIndirectY, modeZeropageIndirect, modeImplied1C,
	/*F4*/ modeZeropageX, modeZeropageX, modeRMWZeropageX, modeZeropageBit,
	/*F8*/ modeImplied, modeAbsoluteY, modeStackPull, modeImplied1C,
	/*FC*/ modeAbsolute, modeAbsoluteX, modeRMWAbsoluteX, modeRelativeBit,
}

// opers maps each opcode byte to its operation tag, interpreted according
// to the mode that the same slot in modes assigns it.
var opers = [256]oper{
	/*00*/ operBRK, operORA, operNOP, operNOP,
	/*04*/ operTSB, operORA, operASL, bitOper(0, false),
	/*08*/ operPHP, operORA, operASL, operNOP,
	/*0C*/ operTSB, operORA, operASL, bitOper(0, false),

	/*10*/ operBPL, operORA, operORA, operNOP,
	/*14*/ operTRB, operORA, operASL, bitOper(1, false),
	/*18*/ operCLC, operORA, operINC, operNOP,
	/*1C*/ operTRB, operORA, operASL, bitOper(1, false),

	/*20*/ operJSR, operAND, operNOP, operNOP,
	/*24*/ operBIT, operAND, operROL, bitOper(2, false),
	/*28*/ operPLP, operAND, operROL, operNOP,
	/*2C*/ operBIT, operAND, operROL, bitOper(2, false),

	/*30*/ operBMI, operAND, operAND, operNOP,
	/*34*/ operBIT, operAND, operROL, bitOper(3, false),
	/*38*/ operSEC, operAND, operDEC, operNOP,
	/*3C*/ operBIT, operAND, operROL, bitOper(3, false),

	/*40*/ operRTI, operEOR, operNOP, operNOP,
	/*44*/ operNOP, operEOR, operLSR, bitOper(4, false),
	/*48*/ operPHA, operEOR, operLSR, operNOP,
	/*4C*/ operJMP, operEOR, operLSR, bitOper(4, false),

	/*50*/ operBVC, operEOR, operEOR, operNOP,
	/*54*/ operNOP, operEOR, operLSR, bitOper(5, false),
	/*58*/ operCLI, operEOR, operPHY, operNOP,
	/*5C*/ operNOP, operEOR, operLSR, bitOper(5, false),

	/*60*/ operRTS, operADC, operNOP, operNOP,
	/*64*/ operSTZ, operADC, operROR, bitOper(6, false),
	/*68*/ operPLA, operADC, operROR, operNOP,
	/*6C*/ operJMP, operADC, operROR, bitOper(6, false),

	/*70*/ operBVS, operADC, operADC, operNOP,
	/*74*/ operSTZ, operADC, operROR, bitOper(7, false),
	/*78*/ operSEI, operADC, operPLY, operNOP,
	/*7C*/ operJMP, operADC, operROR, bitOper(7, false),

	/*80*/ operBRA, operSTA, operNOP, operNOP,
	/*84*/ operSTY, operSTA, operSTX, bitOper(0, true),
	/*88*/ operDEC, operBIT, operTXA, operNOP,
	/*8C*/ operSTY, operSTA, operSTX, bitOper(0, true),

	/*90*/ operBCC, operSTA, operSTA, operNOP,
	/*94*/ operSTY, operSTA, operSTX, bitOper(1, true),
	/*98*/ operTYA, operSTA, operTXS, operNOP,
	/*9C*/ operSTZ, operSTA, operSTZ, bitOper(1, true),

	/*A0*/ operLDY, operLDA, operLDX, operNOP,
	/*A4*/ operLDY, operLDA, operLDX, bitOper(2, true),
	/*A8*/ operTAY, operLDA, operTAX, operNOP,
	/*AC*/ operLDY, operLDA, operLDX, bitOper(2, true),

	/*B0*/ operBCS, operLDA, operLDA, operNOP,
	/*B4*/ operLDY, operLDA, operLDX, bitOper(3, true),
	/*B8*/ operCLV, operLDA, operTSX, operNOP,
	/*BC*/ operLDY, operLDA, operLDX, bitOper(3, true),

	/*C0*/ operCPY, operCMP, operNOP, operNOP,
	/*C4*/ operCPY, operCMP, operDEC, bitOper(4, true),
	/*C8*/ operINC, operCMP, operDEC, operWAI,
	/*CC*/ operCPY, operCMP, operDEC, bitOper(4, true),

	/*D0*/ operBNE, operCMP, operCMP, operNOP,
	/*D4*/ operNOP, operCMP, operDEC, bitOper(5, true),
	/*D8*/ operCLD, operCMP, operPHX, operSTP,
	/*DC*/ operNOP, operCMP, operDEC, bitOper(5, true),

	/*E0*/ operCPX, operSBC, operNOP, operNOP,
	/*E4*/ operCPX, operSBC, operINC, bitOper(6, true),
	/*E8*/ operINC, operSBC, operNOP, operNOP,
	/*EC*/ operCPX, operSBC, operINC, bitOper(6, true),

	/*F0*/ operBEQ, operSBC, operSBC, operNOP,
	/*F4*/ operNOP, operSBC, operINC, bitOper(7, true),
	/*F8*/ operSED, operSBC, operPLX, operNOP,
	/*FC*/ operNOP, operSBC, operINC, bitOper(7, true),
}

// decode loads the mode and oper tags for opcode ir and resets the
// per-instruction cycle index. Called exactly once, on the cycle that
// fetches an opcode byte (including the synthesized zero byte used to
// force the BRK sequence shape for NMI/IRQ/RESET entry).
func (c *Chip) decode(ir uint8) {
	c.mode = modes[ir]
	c.oper = opers[ir]
	c.cycl = 0
}
