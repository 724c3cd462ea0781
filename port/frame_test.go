package port

import (
	"testing"

	"ember/mcu"
)

func newFrameMachine(t *testing.T, w mcu.PCWidth) *mcu.Machine {
	t.Helper()
	m, err := mcu.New(mcu.Config{PC: w, RAMBytes: 1024})
	if err != nil {
		t.Fatalf("mcu.New() error = %v, want nil", err)
	}
	return m
}

func TestInitStackImagePC16(t *testing.T) {
	m := newFrameMachine(t, mcu.PC16)
	top := m.TopOfRAM()

	sp := InitStack(m, top, 0x0456, 0xBEEF)

	if want := top - 38; sp != want {
		t.Fatalf("InitStack() = %d, want %d", sp, want)
	}

	if m.RAM[top] != 0x11 || m.RAM[top-1] != 0x22 || m.RAM[top-2] != 0x33 {
		t.Fatalf("canaries = %#02x %#02x %#02x, want 0x11 0x22 0x33",
			m.RAM[top], m.RAM[top-1], m.RAM[top-2])
	}
	if m.RAM[top-3] != 0x56 || m.RAM[top-4] != 0x04 {
		t.Fatalf("entry bytes = %#02x %#02x, want 0x56 0x04", m.RAM[top-3], m.RAM[top-4])
	}

	l := LayoutFor(mcu.PC16)
	slot := func(name string) uint8 {
		t.Helper()
		f, ok := l.Field(name)
		if !ok {
			t.Fatalf("layout has no field %s", name)
		}
		return m.RAM[sp+uint16(f.Offset)]
	}

	if got := slot("r0"); got != 0 {
		t.Fatalf("r0 slot = %#02x, want 0", got)
	}
	if got := slot("sreg"); got != mcu.FlagI {
		t.Fatalf("sreg slot = %#02x, want %#02x", got, mcu.FlagI)
	}
	if got := slot("r1"); got != 0 {
		t.Fatalf("r1 slot = %#02x, want 0", got)
	}
	if got := slot("r24"); got != 0xEF {
		t.Fatalf("r24 slot = %#02x, want 0xef", got)
	}
	if got := slot("r25"); got != 0xBE {
		t.Fatalf("r25 slot = %#02x, want 0xbe", got)
	}
	for _, tc := range []struct {
		name string
		want uint8
	}{
		{"r2", 0x02}, {"r9", 0x09}, {"r10", 0x10}, {"r13", 0x13},
		{"r23", 0x23}, {"r26", 0x26}, {"r31", 0x31},
	} {
		if got := slot(tc.name); got != tc.want {
			t.Fatalf("%s slot = %#02x, want %#02x", tc.name, got, tc.want)
		}
	}
}

func TestInitStackImagePC24(t *testing.T) {
	m := newFrameMachine(t, mcu.PC24)
	top := m.TopOfRAM()

	// An entry above 64 KiB: only its low 16 bits survive and the third
	// return-address byte is forced to zero.
	sp := InitStack(m, top, 0x01ABCD, 0x0001)

	if want := top - 41; sp != want {
		t.Fatalf("InitStack() = %d, want %d", sp, want)
	}
	if m.RAM[top-3] != 0xCD || m.RAM[top-4] != 0xAB || m.RAM[top-5] != 0x00 {
		t.Fatalf("entry bytes = %#02x %#02x %#02x, want 0xcd 0xab 0x00",
			m.RAM[top-3], m.RAM[top-4], m.RAM[top-5])
	}

	l := LayoutFor(mcu.PC24)
	for _, name := range []string{"rampz", "eind"} {
		f, _ := l.Field(name)
		if got := m.RAM[sp+uint16(f.Offset)]; got != 0 {
			t.Fatalf("%s slot = %#02x, want 0", name, got)
		}
	}
}

func TestInitStackLeavesMachineSPAlone(t *testing.T) {
	m := newFrameMachine(t, mcu.PC16)
	m.SP = 0x0123

	InitStack(m, m.TopOfRAM()-100, 0x0456, 0)

	if m.SP != 0x0123 {
		t.Fatalf("machine SP = %#04x after InitStack, want 0x0123", m.SP)
	}
}

func TestMinStackBytesCoversOneActivation(t *testing.T) {
	for _, w := range []mcu.PCWidth{mcu.PC16, mcu.PC24} {
		min := MinStackBytes(w)
		need := 3 + LayoutFor(w).StackBytes() + 2*w.ReturnBytes()
		if min < need {
			t.Fatalf("%s: MinStackBytes() = %d, want at least %d", w, min, need)
		}
	}
}
