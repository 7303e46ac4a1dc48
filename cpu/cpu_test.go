package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
)

// flatMemory is a 64K byte-addressable RAM used as the bus in tests.
type flatMemory struct {
	addr [65536]uint8
}

func (r *flatMemory) Read(addr uint16) uint8     { return r.addr[addr] }
func (r *flatMemory) Write(addr uint16, v uint8) { r.addr[addr] = v }

func (r *flatMemory) setVector(addr uint16, target uint16) {
	r.addr[addr] = uint8(target)
	r.addr[addr+1] = uint8(target >> 8)
}

func newTestChip(t *testing.T, cfg Config, resetVector uint16) (*Chip, *flatMemory) {
	t.Helper()
	mem := &flatMemory{}
	mem.setVector(VectorReset, resetVector)
	mem.setVector(VectorNMI, 0x8000)
	mem.setVector(VectorIRQ, 0x9000)
	cfg.Bus = mem
	c := Init(cfg)
	if err := c.RunInstructions(1, true); err != nil {
		t.Fatalf("reset sequence: %v", err)
	}
	return c, mem
}

func TestReset(t *testing.T) {
	c, _ := newTestChip(t, Config{}, 0x2000)
	if got, want := c.RegPC(), uint16(0x2000); got != want {
		t.Errorf("PC after reset = %#04x, want %#04x", got, want)
	}
	if got := c.RegP() & pI; got == 0 {
		t.Errorf("P.I not set after reset")
	}
	if got, want := c.GetCycleCount(), uint64(7); got != want {
		t.Errorf("cycle count after reset = %d, want %d", got, want)
	}
}

func TestLDAImmediateAndFlags(t *testing.T) {
	c, mem := newTestChip(t, Config{}, 0x2000)
	mem.addr[0x2000] = 0xA9 // LDA #$00
	mem.addr[0x2001] = 0x00
	start := c.GetCycleCount()
	if err := c.StepInstruction(); err != nil {
		t.Fatalf("StepInstruction: %v", err)
	}
	if got, want := c.RegA(), uint8(0); got != want {
		t.Errorf("A = %#02x, want %#02x", got, want)
	}
	if c.RegP()&pZ == 0 {
		t.Errorf("Z not set for LDA #0")
	}
	if got, want := c.GetCycleCount()-start, uint64(2); got != want {
		t.Errorf("LDA #i took %d cycles, want %d", got, want)
	}
}

// TestADCDecimalFlagDelay exercises 99+01 in BCD, which carries out of both
// nibbles: the binary sum 0x9A is negative and nonzero, while the
// decimal-corrected result 0x00 is neither. A is written with the
// decimal-corrected value on ADC's operand cycle, but N/Z keep reporting
// the binary result for that cycle and only pick up the decimal correction
// on the extra penalty cycle one bus cycle later.
func TestADCDecimalFlagDelay(t *testing.T) {
	c, mem := newTestChip(t, Config{}, 0x2000)
	mem.addr[0x2000] = 0xF8 // SED
	mem.addr[0x2001] = 0x18 // CLC
	mem.addr[0x2002] = 0xA9 // LDA #$99
	mem.addr[0x2003] = 0x99
	mem.addr[0x2004] = 0x69 // ADC #$01
	mem.addr[0x2005] = 0x01
	mem.addr[0x2006] = 0xEA // NOP
	for i := 0; i < 3; i++ {
		if err := c.StepInstruction(); err != nil {
			t.Fatalf("setup step %d: %v", i, err)
		}
	}
	start := c.GetCycleCount()

	if err := c.RunCycles(2); err != nil {
		t.Fatalf("ADC opcode fetch and operand cycle: %v", err)
	}
	if got, want := c.RegA(), uint8(0x00); got != want {
		t.Errorf("A after ADC operand cycle = %#02x, want %#02x", got, want)
	}
	if c.RegP()&pN == 0 {
		t.Errorf("N clear after ADC operand cycle, want set (binary result still live)")
	}
	if c.RegP()&pZ != 0 {
		t.Errorf("Z set after ADC operand cycle, want clear (binary result still live)")
	}
	if c.RegP()&pC == 0 {
		t.Errorf("C clear after ADC operand cycle, want set (decimal carry commits immediately)")
	}

	if err := c.RunCycles(1); err != nil {
		t.Fatalf("ADC decimal-penalty cycle: %v", err)
	}
	if got, want := c.GetCycleCount()-start, uint64(3); got != want {
		t.Errorf("decimal ADC #imm took %d cycles, want %d", got, want)
	}
	if got, want := c.RegA(), uint8(0x00); got != want {
		t.Errorf("A after decimal ADC = %#02x, want %#02x", got, want)
	}
	if c.RegP()&pN != 0 {
		t.Errorf("N set after decimal-penalty cycle, want clear")
	}
	if c.RegP()&pZ == 0 {
		t.Errorf("Z clear after decimal-penalty cycle, want set")
	}
	if c.RegP()&pC == 0 {
		t.Errorf("C clear after decimal-penalty cycle, want set")
	}
}

func TestBranchCycleCounts(t *testing.T) {
	tests := []struct {
		name   string
		pc     uint16
		offset uint8
		clc    bool
		want   uint64
	}{
		{"not taken", 0x2000, 0x10, false, 2},
		{"taken same page", 0x2000, 0x10, true, 3},
		{"taken crosses page", 0x20F0, 0x20, true, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, mem := newTestChip(t, Config{}, tc.pc)
			mem.addr[tc.pc] = 0x90 // BCC
			mem.addr[tc.pc+1] = tc.offset
			if !tc.clc {
				mem.addr[tc.pc] = 0xB0 // BCS, not taken since C is 0 after reset
			}
			start := c.GetCycleCount()
			if err := c.StepInstruction(); err != nil {
				t.Fatalf("StepInstruction: %v", err)
			}
			if got := c.GetCycleCount() - start; got != tc.want {
				t.Errorf("branch took %d cycles, want %d", got, tc.want)
			}
		})
	}
}

func TestJSRPushesReturnAddrMinusOne(t *testing.T) {
	c, mem := newTestChip(t, Config{}, 0x2000)
	mem.addr[0x2000] = 0x20 // JSR $3000
	mem.addr[0x2001] = 0x00
	mem.addr[0x2002] = 0x30
	sp := c.RegS()
	if err := c.StepInstruction(); err != nil {
		t.Fatalf("JSR: %v", err)
	}
	if got, want := c.RegPC(), uint16(0x3000); got != want {
		t.Errorf("PC after JSR = %#04x, want %#04x", got, want)
	}
	pcl := mem.Read(stackAddr(sp - 1))
	pch := mem.Read(stackAddr(sp))
	if got, want := get16(pcl, pch), uint16(0x2002); got != want {
		t.Errorf("pushed return addr = %#04x, want %#04x", got, want)
	}
	if got, want := c.RegS(), sp-2; got != want {
		t.Errorf("S after JSR = %#02x, want %#02x", got, want)
	}
}

func TestJSRThenRTSRoundTrips(t *testing.T) {
	c, mem := newTestChip(t, Config{}, 0x2000)
	mem.addr[0x2000] = 0x20 // JSR $3000
	mem.addr[0x2001] = 0x00
	mem.addr[0x2002] = 0x30
	mem.addr[0x3000] = 0x60 // RTS
	if err := c.StepInstruction(); err != nil {
		t.Fatalf("JSR: %v", err)
	}
	if err := c.StepInstruction(); err != nil {
		t.Fatalf("RTS: %v", err)
	}
	if got, want := c.RegPC(), uint16(0x2003); got != want {
		t.Errorf("PC after RTS = %#04x, want %#04x", got, want)
	}
}

func TestStackWraparound(t *testing.T) {
	c, _ := newTestChip(t, Config{}, 0x2000)
	c.SetS(0x00)
	c.push(0x42)
	if got, want := c.RegS(), uint8(0xFF); got != want {
		t.Errorf("S after push at 0 = %#02x, want %#02x", got, want)
	}
	if got := c.pull(); got != 0x42 {
		t.Errorf("pulled %#02x, want 0x42", got)
	}
}

func TestWAIWakesOnIRQWhenUnmasked(t *testing.T) {
	c, mem := newTestChip(t, Config{}, 0x2000)
	mem.addr[0x2000] = 0x58 // CLI
	mem.addr[0x2001] = 0xCB // WAI
	mem.addr[0x9000] = 0xEA // IRQ handler: NOP
	mem.addr[0x9001] = 0xEA
	if err := c.RunInstructions(2, false); err != nil {
		t.Fatalf("CLI+WAI: %v", err)
	}
	if !c.IsWaiting() {
		t.Fatalf("expected chip to be waiting after WAI")
	}
	c.Irq(true)
	if err := c.RunCycles(1); err != nil {
		t.Fatalf("RunCycles after IRQ: %v", err)
	}
	if c.IsWaiting() {
		t.Errorf("chip still waiting after IRQ raised with I clear")
	}
}

func TestBBSEncodingAndBranch(t *testing.T) {
	c, mem := newTestChip(t, Config{}, 0x2000)
	mem.addr[0x10] = 0x80 // bit 7 set
	mem.addr[0x2000] = 0xFF
	mem.addr[0x2001] = 0x10
	mem.addr[0x2002] = 0x05
	if err := c.StepInstruction(); err != nil {
		t.Fatalf("BBS7: %v", err)
	}
	if got, want := c.RegPC(), uint16(0x2008); got != want {
		t.Errorf("PC after taken BBS7 = %#04x, want %#04x", got, want)
	}
}

func TestRegPSpewRoundTrip(t *testing.T) {
	c, _ := newTestChip(t, Config{}, 0x2000)
	c.SetP(0x00)
	if got, want := c.RegP(), pA1|pB; got != want {
		t.Errorf("SetP/RegP round trip = %s, want %s", spew.Sdump(got), spew.Sdump(want))
	}
	c.SetP(0xFF)
	if got, want := c.RegP(), uint8(0xFF); got != want {
		t.Errorf("SetP(0xFF)/RegP round trip = %#02x, want %#02x", got, want)
	}
}

func TestDecodeTablesAgreeWithMnemonicGrid(t *testing.T) {
	spot := []struct {
		op   uint8
		mode mode
		oper oper
	}{
		{0x00, modeStackBRK, operBRK},
		{0xEA, modeImplied, operNOP},
		{0xC9, modeImmediate, operCMP},
		{0x4C, modeAbsoluteJump, operJMP},
		{0x6C, modeAbsoluteIndirect, operJMP},
		{0x20, modeSubroutine, operJSR},
		{0x60, modeReturnSub, operRTS},
		{0xCB, modeIntWaitStop, operWAI},
		{0xDB, modeIntWaitStop, operSTP},
	}
	for _, s := range spot {
		c := &Chip{}
		c.decode(s.op)
		if diff := deep.Equal(c.mode, s.mode); diff != nil {
			t.Errorf("opcode %#02x mode diff: %v", s.op, diff)
		}
		if diff := deep.Equal(c.oper, s.oper); diff != nil {
			t.Errorf("opcode %#02x oper diff: %v", s.op, diff)
		}
	}
}
