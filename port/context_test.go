package port

import (
	"testing"

	"ember/mcu"
)

type testTCB struct {
	sp uint16
}

func (t *testTCB) StackPointer() uint16      { return t.sp }
func (t *testTCB) SetStackPointer(sp uint16) { t.sp = sp }

// seedFrameState puts live machine state into exactly the shape a fresh
// frame describes, so a Save can be compared byte for byte against
// InitStack's image.
func seedFrameState(m *mcu.Machine, param uint16) {
	m.R[0] = 0
	m.R[1] = 0
	for r := 2; r < 32; r++ {
		m.R[r] = debugFill(r)
	}
	m.R[24] = uint8(param)
	m.R[25] = uint8(param >> 8)
	m.SREG = mcu.FlagI
	m.RAMPZ = 0
	m.EIND = 0
}

func TestSaveMatchesInitStack(t *testing.T) {
	for _, w := range []mcu.PCWidth{mcu.PC16, mcu.PC24} {
		built := newFrameMachine(t, w)
		top := built.TopOfRAM()
		builtSP := InitStack(built, top, 0x0456, 0xBEEF)

		live := newFrameMachine(t, w)
		seedFrameState(live, 0xBEEF)
		live.PC = 0x0456
		live.SP = top - 3 // canaries sit above the frame proper
		live.Call(0x0800)

		var tcb testTCB
		Save(live, &tcb)

		if tcb.sp != builtSP {
			t.Fatalf("%s: saved sp = %d, built sp = %d", w, tcb.sp, builtSP)
		}
		for addr := int(builtSP) + 1; addr <= int(top)-3; addr++ {
			if live.RAM[addr] != built.RAM[addr] {
				t.Fatalf("%s: frame byte at %d = %#02x, built %#02x",
					w, addr, live.RAM[addr], built.RAM[addr])
			}
		}
	}
}

func TestSaveCapturesFlagsThenMasks(t *testing.T) {
	m := newFrameMachine(t, mcu.PC16)
	m.SP = m.TopOfRAM()
	m.SREG = mcu.FlagI | mcu.FlagC | mcu.FlagZ

	var tcb testTCB
	Save(m, &tcb)

	if m.SREG&mcu.FlagI != 0 {
		t.Fatalf("machine SREG = %#02x after Save, want interrupt enable clear", m.SREG)
	}
	if m.SREG != mcu.FlagC|mcu.FlagZ {
		t.Fatalf("machine SREG = %#02x after Save, want other flags kept", m.SREG)
	}

	f, _ := LayoutFor(mcu.PC16).Field("sreg")
	saved := m.RAM[tcb.sp+uint16(f.Offset)]
	if saved != mcu.FlagI|mcu.FlagC|mcu.FlagZ {
		t.Fatalf("saved sreg = %#02x, want the pre-mask flags %#02x",
			saved, mcu.FlagI|mcu.FlagC|mcu.FlagZ)
	}
}

func TestSaveZeroesR1ForTheSwitchPath(t *testing.T) {
	m := newFrameMachine(t, mcu.PC16)
	m.SP = m.TopOfRAM()
	m.R[1] = 0x5A

	var tcb testTCB
	Save(m, &tcb)

	if m.R[1] != 0 {
		t.Fatalf("r1 = %#02x after Save, want 0", m.R[1])
	}
	f, _ := LayoutFor(mcu.PC16).Field("r1")
	if got := m.RAM[tcb.sp+uint16(f.Offset)]; got != 0x5A {
		t.Fatalf("saved r1 = %#02x, want 0x5a", got)
	}
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	for _, w := range []mcu.PCWidth{mcu.PC16, mcu.PC24} {
		m := newFrameMachine(t, w)
		m.SP = m.TopOfRAM()

		var want [32]uint8
		for r := 0; r < 32; r++ {
			want[r] = uint8(r*7 + 3)
		}
		m.R = want
		m.SREG = 0xAA
		m.RAMPZ = 0x03
		m.EIND = 0x01
		spBefore := m.SP

		var tcb testTCB
		Save(m, &tcb)

		m.R = [32]uint8{}
		m.SREG = 0
		m.RAMPZ = 0xFF
		m.EIND = 0xFF

		Restore(m, &tcb)

		if m.R != want {
			t.Fatalf("%s: registers differ after round trip: got %v, want %v", w, m.R, want)
		}
		if m.SREG != 0xAA {
			t.Fatalf("%s: SREG = %#02x after round trip, want 0xaa", w, m.SREG)
		}
		if w == mcu.PC24 {
			if m.RAMPZ != 0x03 || m.EIND != 0x01 {
				t.Fatalf("rampz/eind = %#02x/%#02x after round trip, want 0x03/0x01", m.RAMPZ, m.EIND)
			}
		}
		if m.SP != spBefore {
			t.Fatalf("%s: SP = %d after round trip, want %d", w, m.SP, spBefore)
		}
	}
}

func TestRestoreThenRetEntersTask(t *testing.T) {
	m := newFrameMachine(t, mcu.PC16)
	top := m.TopOfRAM()
	tcb := testTCB{sp: InitStack(m, top, 0x0456, 0xBEEF)}

	Restore(m, &tcb)
	m.Ret()

	if m.PC != 0x0456 {
		t.Fatalf("PC = %#06x after Restore+Ret, want 0x000456", m.PC)
	}
	if m.R[24] != 0xEF || m.R[25] != 0xBE {
		t.Fatalf("r24:r25 = %#02x:%#02x, want 0xef:0xbe", m.R[24], m.R[25])
	}
	if m.SREG != mcu.FlagI {
		t.Fatalf("SREG = %#02x, want interrupts enabled", m.SREG)
	}
	if want := top - 3; m.SP != want {
		t.Fatalf("SP = %d after entering the task, want %d", m.SP, want)
	}
}

func TestContextSwapKeepsTasksApart(t *testing.T) {
	m := newFrameMachine(t, mcu.PC16)
	top := m.TopOfRAM()
	a := &testTCB{sp: InitStack(m, top, 0x0100, 0)}
	b := &testTCB{sp: InitStack(m, top-192, 0x0200, 0)}

	// Run task a: land in it, change a register, get preempted.
	Restore(m, a)
	m.Ret()
	m.R[2] = 0xAA
	m.Call(0x0800) // any trap address; pushes a's resume point
	Save(m, a)

	// Task b starts from its fresh frame.
	Restore(m, b)
	if m.R[2] != debugFill(2) {
		t.Fatalf("task b sees r2 = %#02x, want its own %#02x", m.R[2], debugFill(2))
	}
	m.R[2] = 0xBB
	m.Ret()
	m.Call(0x0800)
	Save(m, b)

	// Back to a: its register and its resume point come back.
	Restore(m, a)
	if m.R[2] != 0xAA {
		t.Fatalf("task a sees r2 = %#02x after swap, want 0xaa", m.R[2])
	}
	m.Ret()
	if m.PC != 0x0100 {
		t.Fatalf("task a resumes at %#06x, want 0x000100", m.PC)
	}
}
