package port

import (
	"strconv"

	"ember/mcu"
)

// LayoutVersion identifies the saved-context byte order. It changes only if
// the save order changes, so recorded frames can never be misread.
const LayoutVersion = 1

// Field is one slot of the saved context.
type Field struct {
	Name string
	// Offset is the slot's distance above the recorded stack pointer:
	// the byte lives at RAM[sp+Offset].
	Offset int
	Width  int
}

// Layout is the byte-for-byte description of a suspended task's register
// image for one return-address width. Fields appear in push order, first
// pushed first. Save, Restore and InitStack are all bound to it.
type Layout struct {
	Version int
	PC      mcu.PCWidth
	Fields  []Field
}

// LayoutFor returns the saved-context layout for a part.
func LayoutFor(w mcu.PCWidth) Layout {
	names := make([]string, 0, 35)
	names = append(names, "r0", "sreg")
	if w == mcu.PC24 {
		names = append(names, "rampz", "eind")
	}
	names = append(names, "r1")
	for r := 2; r < 32; r++ {
		names = append(names, "r"+strconv.Itoa(r))
	}

	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = Field{Name: name, Offset: len(names) - i, Width: 1}
	}
	return Layout{Version: LayoutVersion, PC: w, Fields: fields}
}

// FrameBytes is the size of the register image, excluding the return
// address beneath it.
func (l Layout) FrameBytes() int { return len(l.Fields) }

// StackBytes is the stack footprint of one suspended activation: the
// register image plus the return address it sits on.
func (l Layout) StackBytes() int { return l.FrameBytes() + l.PC.ReturnBytes() }

// Field looks up a slot by name.
func (l Layout) Field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
