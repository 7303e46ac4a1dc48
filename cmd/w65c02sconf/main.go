// Command w65c02sconf runs and traces W65C02S instruction streams against a
// flat memory image, for conformance-testing a decode table or instruction
// sequence against known-good cycle counts and register state.
package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmchacon/w65c02s/cpu"
	"github.com/jmchacon/w65c02s/internal/tracewindow"
	"github.com/jmchacon/w65c02s/memory"
)

const version = "0.1.0"

// tracingBus forwards every bus transaction to a recorder callback after
// delegating to the wrapped memory.Bank, the same decorator shape
// cpu/functionality_test.go's tracingMemory uses in-package.
type tracingBus struct {
	bank    memory.Bank
	cycle   func() uint64
	record  func(tracewindow.Event)
}

func (t *tracingBus) Read(addr uint16) uint8 {
	v := t.bank.Read(addr)
	if t.record != nil {
		t.record(tracewindow.Event{Cycle: t.cycle(), Addr: addr, Val: v})
	}
	return v
}

func (t *tracingBus) Write(addr uint16, v uint8) {
	t.bank.Write(addr, v)
	if t.record != nil {
		t.record(tracewindow.Event{Cycle: t.cycle(), Addr: addr, Val: v, Write: true})
	}
}

func loadImage(path string, loadAddr uint16, resetVector uint16) (memory.Bank, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't load image: %w", err)
	}
	bank, err := memory.New8BitRAMBank(1<<16, nil)
	if err != nil {
		return nil, err
	}
	for i, b := range data {
		bank.Write(loadAddr+uint16(i), b)
	}
	bank.Write(cpu.VectorReset, uint8(resetVector))
	bank.Write(cpu.VectorReset+1, uint8(resetVector>>8))
	return bank, nil
}

func newRunCmd() *cobra.Command {
	var (
		loadAddr    uint16
		resetVector uint16
		cycles      uint64
		instrs      uint64
	)
	cmd := &cobra.Command{
		Use:   "run [image]",
		Short: "Run a flat binary image and print final register state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := loadImage(args[0], loadAddr, resetVector)
			if err != nil {
				return err
			}
			c := cpu.Init(cpu.Config{Bus: bank})
			if err := c.RunInstructions(1, true); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			if instrs > 0 {
				if err := c.RunInstructions(instrs, false); err != nil {
					return fmt.Errorf("run: %w", err)
				}
			} else if cycles > 0 {
				if err := c.RunCycles(cycles); err != nil {
					return fmt.Errorf("run: %w", err)
				}
			}
			printRegisters(c)
			return nil
		},
	}
	cmd.Flags().Uint16Var(&loadAddr, "load", 0x0000, "Address to load the image at")
	cmd.Flags().Uint16Var(&resetVector, "pc", 0x0000, "Reset vector to install (where execution starts)")
	cmd.Flags().Uint64Var(&cycles, "cycles", 0, "Number of cycles to run")
	cmd.Flags().Uint64Var(&instrs, "instructions", 0, "Number of instructions to run (overrides --cycles)")
	return cmd
}

func newTraceCmd() *cobra.Command {
	var (
		loadAddr    uint16
		resetVector uint16
		instrs      uint64
		useWindow   bool
	)
	cmd := &cobra.Command{
		Use:   "trace [image]",
		Short: "Run a flat binary image, printing (or rendering) every bus cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := loadImage(args[0], loadAddr, resetVector)
			if err != nil {
				return err
			}

			var win *tracewindow.Window
			if useWindow {
				win, err = tracewindow.Open(32)
				if err != nil {
					return fmt.Errorf("trace window: %w", err)
				}
				defer win.Close()
			}

			var c *cpu.Chip
			record := func(ev tracewindow.Event) {
				if win != nil {
					win.Push(ev)
					return
				}
				mark := "R"
				if ev.Write {
					mark = "W"
				}
				fmt.Printf("%06d %s %04x %02x\n", ev.Cycle, mark, ev.Addr, ev.Val)
			}
			bus := &tracingBus{bank: bank, record: record, cycle: func() uint64 { return c.GetCycleCount() }}
			c = cpu.Init(cpu.Config{Bus: bus})

			if err := c.RunInstructions(1, true); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			for i := uint64(0); instrs == 0 || i < instrs; i++ {
				if err := c.StepInstruction(); err != nil {
					return fmt.Errorf("step: %w", err)
				}
				if win != nil {
					if err := win.Render(); err != nil {
						return fmt.Errorf("render: %w", err)
					}
					if win.PumpEvents() {
						break
					}
				}
				if instrs == 0 && c.IsStopped() {
					break
				}
			}
			printRegisters(c)
			return nil
		},
	}
	cmd.Flags().Uint16Var(&loadAddr, "load", 0x0000, "Address to load the image at")
	cmd.Flags().Uint16Var(&resetVector, "pc", 0x0000, "Reset vector to install (where execution starts)")
	cmd.Flags().Uint64Var(&instrs, "instructions", 1, "Number of instructions to run (0 runs until STP)")
	cmd.Flags().BoolVar(&useWindow, "trace-window", false, "Render the bus trace in a live SDL2 window instead of stdout")
	return cmd
}

func printRegisters(c *cpu.Chip) {
	fmt.Printf("PC=%04x A=%02x X=%02x Y=%02x S=%02x P=%02x cycles=%d instructions=%d\n",
		c.RegPC(), c.RegA(), c.RegX(), c.RegY(), c.RegS(), c.RegP(), c.GetCycleCount(), c.GetInstructionCount())
}

func main() {
	root := &cobra.Command{
		Use:   "w65c02sconf",
		Short: "Conformance runner for the W65C02S emulator core",
	}
	root.AddCommand(newRunCmd(), newTraceCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print the conformance runner's version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version)
			return nil
		},
	})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
