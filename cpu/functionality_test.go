package cpu

import (
	"testing"

	"github.com/go-test/deep"
)

// busOp is one recorded bus transaction, used by tracingMemory to build a
// full cycle-by-cycle trace for comparison against a hand-derived sequence.
type busOp struct {
	write bool
	addr  uint16
	val   uint8
}

type tracingMemory struct {
	flatMemory
	trace []busOp
}

func (t *tracingMemory) Read(addr uint16) uint8 {
	v := t.flatMemory.Read(addr)
	t.trace = append(t.trace, busOp{addr: addr, val: v})
	return v
}

func (t *tracingMemory) Write(addr uint16, v uint8) {
	t.flatMemory.Write(addr, v)
	t.trace = append(t.trace, busOp{write: true, addr: addr, val: v})
}

func newTracingChip(t *testing.T, resetVector uint16) (*Chip, *tracingMemory) {
	t.Helper()
	mem := &tracingMemory{}
	mem.setVector(VectorReset, resetVector)
	mem.setVector(VectorNMI, 0x8000)
	mem.setVector(VectorIRQ, 0x9000)
	c := Init(Config{Bus: mem})
	if err := c.RunInstructions(1, true); err != nil {
		t.Fatalf("reset: %v", err)
	}
	mem.trace = nil
	return c, mem
}

func TestTraceLDAThenADC(t *testing.T) {
	c, mem := newTracingChip(t, 0x2000)
	mem.addr[0x2000] = 0xA9 // LDA #$05
	mem.addr[0x2001] = 0x05
	mem.addr[0x2002] = 0x69 // ADC #$03
	mem.addr[0x2003] = 0x03
	if err := c.RunInstructions(2, false); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []busOp{
		{addr: 0x2000, val: 0xA9},
		{addr: 0x2001, val: 0x05},
		{addr: 0x2002, val: 0x69},
		{addr: 0x2003, val: 0x03},
	}
	if diff := deep.Equal(mem.trace, want); diff != nil {
		t.Errorf("trace diff: %v", diff)
	}
	if got, want := c.RegA(), uint8(0x08); got != want {
		t.Errorf("A = %#02x, want %#02x", got, want)
	}
}

func TestTraceResetSequence(t *testing.T) {
	mem := &tracingMemory{}
	mem.setVector(VectorReset, 0x4000)
	c := Init(Config{Bus: mem})
	if err := c.RunInstructions(1, true); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got, want := len(mem.trace), 6; got != want {
		t.Fatalf("reset bus transactions = %d, want %d", got, want)
	}
	for i, op := range mem.trace[:3] {
		if op.write {
			t.Errorf("trace[%d] unexpectedly a write: %+v", i, op)
		}
	}
	if got, want := mem.trace[4].addr, VectorReset; got != want {
		t.Errorf("vector low fetch addr = %#04x, want %#04x", got, want)
	}
	if got, want := mem.trace[5].addr, VectorReset+1; got != want {
		t.Errorf("vector high fetch addr = %#04x, want %#04x", got, want)
	}
	if got, want := c.RegPC(), uint16(0x4000); got != want {
		t.Errorf("PC = %#04x, want %#04x", got, want)
	}
	if got, want := c.GetCycleCount(), uint64(7); got != want {
		t.Errorf("cycle count = %d, want %d", got, want)
	}
}

// TestCycleAndInstructionExecutorsAgree checks the documented property that
// running N cycles one at a time and running whole instructions produce
// identical bus traces for the same total cycle budget.
func TestCycleAndInstructionExecutorsAgree(t *testing.T) {
	prog := func(mem *tracingMemory) {
		mem.addr[0x2000] = 0xA9 // LDA #$7F
		mem.addr[0x2001] = 0x7F
		mem.addr[0x2002] = 0x18 // CLC
		mem.addr[0x2003] = 0x69 // ADC #$01
		mem.addr[0x2004] = 0x01
		mem.addr[0x2005] = 0x85 // STA $10
		mem.addr[0x2006] = 0x10
	}

	cycleChip, cycleMem := newTracingChip(t, 0x2000)
	prog(cycleMem)
	if err := cycleChip.RunCycles(9); err != nil {
		t.Fatalf("RunCycles: %v", err)
	}

	instrChip, instrMem := newTracingChip(t, 0x2000)
	prog(instrMem)
	if err := instrChip.RunInstructions(4, false); err != nil {
		t.Fatalf("RunInstructions: %v", err)
	}

	if diff := deep.Equal(cycleMem.trace, instrMem.trace); diff != nil {
		t.Errorf("trace diverged between executors: %v", diff)
	}
	if diff := deep.Equal(cycleChip.A, instrChip.A); diff != nil {
		t.Errorf("A diverged: %v", diff)
	}
}

func TestTraceWAIThenIRQEntersHandler(t *testing.T) {
	c, mem := newTracingChip(t, 0x2000)
	mem.addr[0x2000] = 0x58 // CLI
	mem.addr[0x2001] = 0xCB // WAI
	mem.addr[0x9000] = 0xEA // IRQ vector target
	if err := c.RunInstructions(2, false); err != nil {
		t.Fatalf("CLI+WAI: %v", err)
	}
	if !c.IsWaiting() {
		t.Fatalf("expected WAI halt")
	}
	mem.trace = nil
	c.Irq(true)
	if err := c.StepInstruction(); err != nil {
		t.Fatalf("StepInstruction into IRQ: %v", err)
	}
	if got, want := c.RegPC(), uint16(0x9000); got != want {
		t.Errorf("PC after IRQ entry = %#04x, want %#04x", got, want)
	}
	if got := c.RegP() & pI; got == 0 {
		t.Errorf("I not set after IRQ entry")
	}
}

func TestTraceStackWraparoundAcrossPushes(t *testing.T) {
	c, mem := newTracingChip(t, 0x2000)
	c.SetS(0x01)
	mem.addr[0x2000] = 0x48 // PHA
	mem.addr[0x2001] = 0x48 // PHA
	mem.addr[0x2002] = 0x48 // PHA
	c.SetA(0xAA)
	if err := c.RunInstructions(3, false); err != nil {
		t.Fatalf("PHA x3: %v", err)
	}
	if got, want := c.RegS(), uint8(0xFE); got != want {
		t.Errorf("S after wraparound pushes = %#02x, want %#02x", got, want)
	}
	if got, want := mem.Read(stackAddr(0x00)), uint8(0xAA); got != want {
		t.Errorf("wrapped push at page boundary = %#02x, want %#02x", got, want)
	}
}

func TestTraceDecimalSBCBorrow(t *testing.T) {
	c, mem := newTracingChip(t, 0x2000)
	mem.addr[0x2000] = 0xF8 // SED
	mem.addr[0x2001] = 0x38 // SEC
	mem.addr[0x2002] = 0xA9 // LDA #$10
	mem.addr[0x2003] = 0x10
	mem.addr[0x2004] = 0xE9 // SBC #$01
	mem.addr[0x2005] = 0x01
	if err := c.RunInstructions(4, false); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := c.RegA(), uint8(0x09); got != want {
		t.Errorf("A after decimal SBC = %#02x, want %#02x", got, want)
	}
	if c.RegP()&pC == 0 {
		t.Errorf("C should remain set, no borrow needed")
	}
}

func TestTraceBBRSkipsBranchWhenBitSet(t *testing.T) {
	c, mem := newTracingChip(t, 0x2000)
	mem.addr[0x20] = 0x01 // bit 0 set
	mem.addr[0x2000] = 0x0F // BBR0 (operBitBase, sense=false)
	mem.addr[0x2001] = 0x20
	mem.addr[0x2002] = 0x10
	if err := c.StepInstruction(); err != nil {
		t.Fatalf("BBR0: %v", err)
	}
	if got, want := c.RegPC(), uint16(0x2003); got != want {
		t.Errorf("PC after not-taken BBR0 = %#04x, want %#04x", got, want)
	}
}
