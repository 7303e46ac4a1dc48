package cpu

import (
	"fmt"

	"github.com/jmchacon/w65c02s/irq"
)

// Bus is the narrow memory interface the CPU core calls on every bus cycle,
// including spurious reads. A host's memory map implementation satisfies
// this directly; memory.Bank already does.
type Bus interface {
	// Read returns the data byte stored at addr. Invoked exactly once per
	// emulated bus read cycle, including internally "spurious" reads.
	Read(addr uint16) uint8
	// Write updates addr with val. Invoked exactly once per emulated bus
	// write cycle.
	Write(addr uint16, val uint8)
}

// openBus is substituted when no Bus is supplied to Init: reads return 0xFF
// and writes are discarded, matching the open-bus behavior of an
// unconnected data bus.
type openBus struct{}

func (openBus) Read(uint16) uint8    { return 0xFF }
func (openBus) Write(uint16, uint8) {}

// Counter selects when the cycle counter is updated.
type Counter int

const (
	// CounterFine updates totalCycles after every bus cycle.
	CounterFine Counter = iota
	// CounterCoarse accumulates cycles internally and only updates
	// totalCycles when a run/step call returns.
	CounterCoarse
)

// Executor selects whether a run call may suspend mid-instruction.
type Executor int

const (
	// ExecutorCycle allows RunCycles to return mid-instruction and resume
	// at the same internal cycle on the next call, with no difference in
	// the resulting bus trace versus running the same total cycles in one
	// call.
	ExecutorCycle Executor = iota
	// ExecutorInstruction always runs whole instructions; RunCycles may
	// overshoot the requested budget by up to one instruction minus one
	// cycle.
	ExecutorInstruction
)

// HookKind enumerates the optional observer hooks a Config may enable.
type HookKind int

const (
	HookBRK HookKind = iota
	HookSTP
	HookEOI
)

// Config describes a CPU instance's runtime configuration: the reified
// build-flag matrix of the original coarse/fine and hook-enablement
// switches.
type Config struct {
	Counter  Counter
	Executor Executor
	// Hooks enumerates which hook kinds may be installed. Installing a
	// hook of a kind not present here is a no-op that reports false,
	// mirroring the "feature compiled out" contract of the source this
	// emulator is modeled on.
	Hooks []HookKind
	// Bus supplies the two memory hooks. If nil, reads return 0xFF and
	// writes are discarded.
	Bus Bus
	// Irq and Nmi are optional polled interrupt sources, checked once per
	// tick the way irq.Sender sources are checked elsewhere in this
	// lineage. Hosts may instead (or additionally) drive Nmi()/Irq()
	// procedurally.
	Irq irq.Sender
	Nmi irq.Sender
}

func (c Config) hookEnabled(k HookKind) bool {
	for _, h := range c.Hooks {
		if h == k {
			return true
		}
	}
	return false
}

// run-mode values packed into the low 2 bits of cpuState.
const (
	stateRun   = 0
	stateReset = 1
	stateWait  = 2
	stateStop  = 3

	stateRunModeMask = 0x3
	stateIRQ         = 0x4 // also used as the IRQ bit of intTrig
	stateNMI         = 0x8 // also used as the NMI bit of intTrig
	stateIRQWithMode = 0xF
)

// P flag bits.
const (
	pN  = uint8(0x80)
	pV  = uint8(0x40)
	pA1 = uint8(0x20) // always reads as 1
	pB  = uint8(0x10) // always reads as 1, sometimes pushed as 0
	pD  = uint8(0x08)
	pI  = uint8(0x04)
	pZ  = uint8(0x02)
	pC  = uint8(0x01)
)

// Vector addresses.
const (
	VectorNMI   = uint16(0xFFFA)
	VectorReset = uint16(0xFFFC)
	VectorIRQ   = uint16(0xFFFE)

	stackPage = uint16(0x0100)
)

// Chip is a single W65C02S instance. All mutable state lives here; two
// Chips never share hidden state, and the zero value is not ready for use
// (call Init).
type Chip struct {
	// Architectural registers.
	PC uint16
	A  uint8
	X  uint8
	Y  uint8
	S  uint8
	P  uint8

	// pAdj shadows the flags computed during a BCD ADC/SBC, committed into
	// P on the decimal penalty cycle.
	pAdj uint8

	// tr holds the five scratch registers used to carry values between
	// cycles of a single instruction.
	tr [5]uint8

	cpuState uint8
	intTrig  uint8
	intMask  uint8

	// nmiLine is the last NMI level passed to Nmi(), used to detect the
	// asserting edge; irqLine is the current level of the IRQ pin.
	nmiLine bool
	irqLine bool

	inRst bool
	inNmi bool
	inIrq bool

	totalCycles       uint64
	totalInstructions uint64
	pendingCycles     uint64 // accumulator used only when cfg.Counter == CounterCoarse

	mode mode
	oper oper
	cycl int
	take bool
	// fetchPending is true at an instruction boundary, when the next tick
	// must fetch and decode a new opcode rather than continue a mode's
	// cycle sequence.
	fetchPending bool

	running bool // reentrancy guard: true while a run/step call is in flight

	cfg      Config
	bus      Bus
	hookBRK  func(uint8) bool
	hookSTP  func() bool
	hookEOI  func()
}

// InvalidCPUState reports a host contract violation or an internal
// inconsistency that should never occur with a valid opcode stream.
type InvalidCPUState struct {
	Reason string
}

func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// UnreachableOperation reports an operation tag encountered outside the set
// an addressing mode allows for it; this can only happen from a corrupted
// decode table, never from a valid opcode byte.
type UnreachableOperation struct {
	Mode mode
	Oper oper
}

func (e UnreachableOperation) Error() string {
	return fmt.Sprintf("unreachable operation %d for mode %d", e.Oper, e.Mode)
}

// Init creates a new Chip in RESET-pending run-mode. Registers are
// undefined except for the flag bits that always read as 1; PC is
// undefined until the first RESET entry completes. The host must call
// RunCycles/RunInstructions/StepInstruction to drive the RESET sequence
// before relying on any register value.
func Init(cfg Config) *Chip {
	c := &Chip{
		cfg:          cfg,
		bus:          cfg.Bus,
		fetchPending: true,
	}
	if c.bus == nil {
		c.bus = openBus{}
	}
	c.P = pA1 | pB
	c.cpuState = stateReset
	c.irqUpdateMask()
	return c
}

func (c *Chip) read(addr uint16) uint8 {
	return c.bus.Read(addr)
}

func (c *Chip) write(addr uint16, v uint8) {
	c.bus.Write(addr, v)
}

func stackAddr(s uint8) uint16 {
	return stackPage | uint16(s)
}

func (c *Chip) push(v uint8) {
	c.write(stackAddr(c.S), v)
	c.S--
}

func (c *Chip) pull() uint8 {
	c.S++
	return c.read(stackAddr(c.S))
}

func get16(lo, hi uint8) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

// overflow8 reports whether adding b to a's low byte carries out of the
// low 8 bits, i.e. whether an indexed address crossed a page boundary.
func overflow8(a, b uint8) uint8 {
	if uint16(a)+uint16(b) > 0xFF {
		return 1
	}
	return 0
}
