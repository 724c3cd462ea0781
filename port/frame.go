package port

import "ember/mcu"

// Canary bytes written above each fresh frame. They mark the stack's far
// end in a raw memory dump.
const (
	canary1 = 0x11
	canary2 = 0x22
	canary3 = 0x33
)

// debugFill is the value parked in a register slot that carries no
// argument. The hex digits spell the register number, so a dump of an
// untouched frame reads straight back to register names.
func debugFill(r int) uint8 {
	return uint8(r/10<<4 | r%10)
}

// MinStackBytes is the smallest stack region that safely holds one task:
// canaries, one full suspended activation plus its reti trampoline, and
// room for a nested return address when a voluntary switch races the tick
// interrupt.
func MinStackBytes(w mcu.PCWidth) int {
	return 3 + LayoutFor(w).StackBytes() + 2*w.ReturnBytes() + 8
}

// InitStack seeds a fresh task stack with the exact image Restore consumes
// and returns the stack pointer to record in the task's control block.
//
// top is the highest byte of the task's stack region. entry is the task
// code address; the frame keeps only its low 16 bits and, on PC24 parts,
// forces the third return-address byte to zero, so task code must sit in
// the low 64 KiB. param lands in r24:r25, the argument register pair.
// The region is not checked for room; a frame written over a short region
// corrupts whatever sits below it, exactly as on the real part.
func InitStack(m *mcu.Machine, top uint16, entry uint32, param uint16) uint16 {
	saved := m.SP
	m.SP = top

	m.Push(canary1)
	m.Push(canary2)
	m.Push(canary3)

	m.Push(uint8(entry))
	m.Push(uint8(entry >> 8))
	if m.PCWidth() == mcu.PC24 {
		m.Push(0)
	}

	m.Push(0)         // r0
	m.Push(mcu.FlagI) // tasks start with interrupts enabled
	if m.PCWidth() == mcu.PC24 {
		m.Push(0) // rampz
		m.Push(0) // eind
	}
	m.Push(0) // r1, the fixed zero register
	for r := 2; r < 32; r++ {
		switch r {
		case 24:
			m.Push(uint8(param))
		case 25:
			m.Push(uint8(param >> 8))
		default:
			m.Push(debugFill(r))
		}
	}

	sp := m.SP
	m.SP = saved
	return sp
}
