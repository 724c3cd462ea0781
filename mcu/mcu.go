package mcu

import (
	"errors"
	"fmt"
)

// PCWidth selects how many bytes a return address occupies on the stack.
type PCWidth uint8

const (
	// PC16 pushes 16-bit return addresses (parts with up to 128 KiB flash).
	PC16 PCWidth = iota
	// PC24 pushes 24-bit return addresses and adds the RAMPZ and EIND
	// extension registers to the machine state.
	PC24
)

// ReturnBytes is the stack footprint of one return address.
func (w PCWidth) ReturnBytes() int {
	if w == PC24 {
		return 3
	}
	return 2
}

func (w PCWidth) String() string {
	switch w {
	case PC16:
		return "pc16"
	case PC24:
		return "pc24"
	default:
		return "unknown"
	}
}

// Status register bits.
const (
	FlagC uint8 = 1 << iota
	FlagZ
	FlagN
	FlagV
	FlagS
	FlagH
	FlagT
	// FlagI is the global interrupt enable. Interrupts are taken only
	// between handler dispatches and only while this bit is set.
	FlagI
)

// Vector identifies an interrupt source. Lower vectors win when several
// sources are pending at once.
type Vector uint8

const (
	VectorReset Vector = iota
	VectorWatchdog
	VectorTimer0Compare
	numVectors
)

// Address is the fixed flash address a vector dispatches to.
func (v Vector) Address() uint32 {
	return uint32(v) * 4
}

func (v Vector) String() string {
	switch v {
	case VectorReset:
		return "reset"
	case VectorWatchdog:
		return "watchdog"
	case VectorTimer0Compare:
		return "timer0 compare"
	default:
		return "unknown"
	}
}

// Handler is machine code bound at a flash address. A handler runs to
// completion on each dispatch; control transfers made through Call, Ret or
// Reti take effect after it returns.
type Handler func(*Machine)

var (
	ErrUnmappedPC    = errors.New("mcu: no code at program counter")
	ErrUnboundVector = errors.New("mcu: unbound interrupt vector")
	ErrWatchdogReset = errors.New("mcu: watchdog reset")
)

// Config describes the simulated part.
type Config struct {
	ClockHz       uint32
	RAMBytes      int // power of two
	PC            PCWidth
	CyclesPerStep uint32
}

const (
	defaultClockHz       = 16_000_000
	defaultRAMBytes      = 4096
	defaultCyclesPerStep = 32
)

// Machine is a single simulated MCU. Register and memory state is exported
// so that code running on the machine can use it the way firmware uses the
// real register file. A Machine is not safe for concurrent use.
type Machine struct {
	R    [32]uint8
	SREG uint8
	SP   uint16
	PC   uint32

	// RAMPZ and EIND exist only on PC24 parts and stay zero otherwise.
	RAMPZ uint8
	EIND  uint8

	RAM []byte

	// PortB is an 8-bit output latch, one LED per bit.
	PortB uint8

	Timer0   Timer0
	Watchdog Watchdog
	UART0    UART

	width      PCWidth
	clockHz    uint32
	stepCost   uint32
	mask       uint16
	cycles     uint64
	handlers   map[uint32]Handler
	resetLatch bool
}

// New builds a machine and applies a power-on reset.
func New(cfg Config) (*Machine, error) {
	if cfg.ClockHz == 0 {
		cfg.ClockHz = defaultClockHz
	}
	if cfg.RAMBytes == 0 {
		cfg.RAMBytes = defaultRAMBytes
	}
	if cfg.CyclesPerStep == 0 {
		cfg.CyclesPerStep = defaultCyclesPerStep
	}
	if cfg.RAMBytes < 256 || cfg.RAMBytes > 1<<16 || cfg.RAMBytes&(cfg.RAMBytes-1) != 0 {
		return nil, fmt.Errorf("mcu: ram size %d: want a power of two in [256, 65536]", cfg.RAMBytes)
	}
	if cfg.PC != PC16 && cfg.PC != PC24 {
		return nil, fmt.Errorf("mcu: unknown pc width %d", cfg.PC)
	}

	m := &Machine{
		RAM:      make([]byte, cfg.RAMBytes),
		width:    cfg.PC,
		clockHz:  cfg.ClockHz,
		stepCost: cfg.CyclesPerStep,
		mask:     uint16(cfg.RAMBytes - 1),
		handlers: make(map[uint32]Handler),
	}
	m.Watchdog.clockHz = cfg.ClockHz
	m.Reset()
	return m, nil
}

// PCWidth reports the part's return address width.
func (m *Machine) PCWidth() PCWidth { return m.width }

// ClockHz reports the core clock frequency.
func (m *Machine) ClockHz() uint32 { return m.clockHz }

// Cycles reports total cycles executed since the last reset.
func (m *Machine) Cycles() uint64 { return m.cycles }

// TopOfRAM is the highest data address, where the power-on stack starts.
func (m *Machine) TopOfRAM() uint16 { return m.mask }

// Reset applies a power-on reset. Attached handlers survive, everything
// else returns to its initial state.
func (m *Machine) Reset() {
	m.R = [32]uint8{}
	m.SREG = 0
	m.RAMPZ = 0
	m.EIND = 0
	m.SP = m.mask
	m.PC = VectorReset.Address()
	m.PortB = 0
	m.cycles = 0
	m.resetLatch = false
	for i := range m.RAM {
		m.RAM[i] = 0
	}
	m.Timer0.reset()
	m.Watchdog.reset()
}

// Push stores one byte at SP and moves SP down.
func (m *Machine) Push(b uint8) {
	m.RAM[m.SP&m.mask] = b
	m.SP--
}

// Pop moves SP up and reads the byte there.
func (m *Machine) Pop() uint8 {
	m.SP++
	return m.RAM[m.SP&m.mask]
}

// pushPC pushes a return address, low byte first, so the matching pop
// order runs from the address's top byte down.
func (m *Machine) pushPC(addr uint32) {
	m.Push(uint8(addr))
	m.Push(uint8(addr >> 8))
	if m.width == PC24 {
		m.Push(uint8(addr >> 16))
	}
}

func (m *Machine) popPC() uint32 {
	var addr uint32
	if m.width == PC24 {
		addr = uint32(m.Pop()) << 16
	}
	addr |= uint32(m.Pop()) << 8
	addr |= uint32(m.Pop())
	return addr
}

// Call pushes the current PC and jumps to addr. The transfer becomes
// visible at the next dispatch, so a handler calling Call must return
// immediately afterwards.
func (m *Machine) Call(addr uint32) {
	m.pushPC(m.PC)
	m.PC = addr
}

// PushReturn pushes addr as a return address, the way Call records its
// resumption point, without transferring control.
func (m *Machine) PushReturn(addr uint32) {
	m.pushPC(addr)
}

// Ret pops a return address into PC.
func (m *Machine) Ret() {
	m.PC = m.popPC()
}

// Reti pops a return address into PC and sets the global interrupt enable.
func (m *Machine) Reti() {
	m.PC = m.popPC()
	m.SREG |= FlagI
}

// Attach binds a handler at a flash address. A nil handler unbinds it.
func (m *Machine) Attach(addr uint32, h Handler) {
	if h == nil {
		delete(m.handlers, addr)
		return
	}
	m.handlers[addr] = h
}

// AddCycles advances the cycle counter and clocks the peripherals.
// Handlers may call it to account for extra simulated work.
func (m *Machine) AddCycles(n uint32) {
	m.cycles += uint64(n)
	m.Timer0.advance(n)
	if m.Watchdog.advance(n) {
		m.resetLatch = true
	}
}

func (m *Machine) pendingVector() (Vector, bool) {
	if m.Watchdog.interruptPending() {
		return VectorWatchdog, true
	}
	if m.Timer0.interruptPending() {
		return VectorTimer0Compare, true
	}
	return 0, false
}

// Step executes one dispatch: if interrupts are enabled and a source is
// pending, the machine vectors to it first (pushing the return address and
// clearing the interrupt enable), then the handler at PC runs.
func (m *Machine) Step() error {
	if m.resetLatch {
		return ErrWatchdogReset
	}

	if m.SREG&FlagI != 0 {
		if v, ok := m.pendingVector(); ok {
			if m.handlers[v.Address()] == nil {
				return fmt.Errorf("%w: %s", ErrUnboundVector, v)
			}
			m.pushPC(m.PC)
			m.SREG &^= FlagI
			m.acknowledge(v)
			m.PC = v.Address()
		}
	}

	h := m.handlers[m.PC]
	if h == nil {
		return fmt.Errorf("%w: %#06x", ErrUnmappedPC, m.PC)
	}
	h(m)
	m.AddCycles(m.stepCost)

	if m.resetLatch {
		return ErrWatchdogReset
	}
	return nil
}

// acknowledge clears the hardware pending flag the way vector entry does.
func (m *Machine) acknowledge(v Vector) {
	switch v {
	case VectorWatchdog:
		m.Watchdog.acknowledge()
	case VectorTimer0Compare:
		m.Timer0.acknowledge()
	}
}

// Run steps the machine until at least the given number of cycles has
// elapsed or an error stops it. It reports the cycles actually consumed.
func (m *Machine) Run(cycles uint64) (uint64, error) {
	start := m.cycles
	for m.cycles-start < cycles {
		if err := m.Step(); err != nil {
			return m.cycles - start, err
		}
	}
	return m.cycles - start, nil
}
