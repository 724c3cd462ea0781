package port

import "ember/mcu"

// TCB is the port's view of a task control block: the one field the switch
// path owns, the saved stack pointer. The scheduler core owns everything
// else about a task.
type TCB interface {
	StackPointer() uint16
	SetStackPointer(uint16)
}

// Save pushes the running task's full register image onto its stack and
// records the resulting stack pointer in tcb.
//
// The status register is captured before the global interrupt enable drops,
// so the saved flags keep the task's enable bit while the switch path runs
// masked. On the way out r1 is forced back to zero for the scheduler code
// that runs next.
func Save(m *mcu.Machine, tcb TCB) {
	m.Push(m.R[0])
	flags := m.SREG
	m.SREG &^= mcu.FlagI
	m.Push(flags)
	if m.PCWidth() == mcu.PC24 {
		m.Push(m.RAMPZ)
		m.Push(m.EIND)
	}
	m.Push(m.R[1])
	m.R[1] = 0
	for r := 2; r < 32; r++ {
		m.Push(m.R[r])
	}
	tcb.SetStackPointer(m.SP)
}

// Restore loads the stack pointer recorded in tcb and pops the register
// image Save pushed, in exact mirror order. The popped status register
// brings the incoming task's interrupt enable back with it; the return
// address left on top of the stack belongs to that task.
func Restore(m *mcu.Machine, tcb TCB) {
	m.SP = tcb.StackPointer()
	for r := 31; r >= 2; r-- {
		m.R[r] = m.Pop()
	}
	m.R[1] = m.Pop()
	if m.PCWidth() == mcu.PC24 {
		m.EIND = m.Pop()
		m.RAMPZ = m.Pop()
	}
	m.SREG = m.Pop()
	m.R[0] = m.Pop()
}
