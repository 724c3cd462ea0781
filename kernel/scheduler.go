package kernel

import (
	"fmt"

	"ember/mcu"
	"ember/port"
)

// Scheduler is a round-robin core over a fixed task table. It hands the
// switching layer the current control block and a reschedule decision;
// everything register-level stays on the other side of that line.
type Scheduler struct {
	m *mcu.Machine
	p *port.Port

	tasks [maxTasks]TCB
	count TaskID
	cur   TaskID
	ticks uint64

	nextStackTop uint16
}

// New creates a scheduler carving task stacks downward from the top of
// the machine's RAM.
func New(m *mcu.Machine) *Scheduler {
	return &Scheduler{m: m, nextStackTop: m.TopOfRAM()}
}

// SetPort binds the switching layer. Start and the blocking calls need
// it; task creation does not.
func (s *Scheduler) SetPort(p *port.Port) {
	s.p = p
}

// CreateTask registers a task and seeds its stack. entry is the machine
// address of the task's code, param lands in the task's argument
// registers, stackBytes is the region carved for it below the previous
// task's stack.
func (s *Scheduler) CreateTask(name string, entry uint32, param uint16, stackBytes int) (TaskID, error) {
	if s.count >= maxTasks {
		return 0, ErrTaskTableFull
	}
	if min := port.MinStackBytes(s.m.PCWidth()); stackBytes < min {
		return 0, fmt.Errorf("%w: %s wants %d bytes, minimum %d", ErrStackTooSmall, name, stackBytes, min)
	}
	top := s.nextStackTop
	if int(top)-stackBytes+1 < stackFloor {
		return 0, fmt.Errorf("%w: %s wants %d bytes", ErrNoStackRoom, name, stackBytes)
	}

	id := s.count
	s.count++
	s.tasks[id] = TCB{
		name:  name,
		entry: entry,
		state: StateReady,
		sp:    port.InitStack(s.m, top, entry, param),
	}
	s.nextStackTop = top - uint16(stackBytes)
	return id, nil
}

// Start marks the first task running and drops into it through the
// switching layer. It returns once the machine stands in task code.
func (s *Scheduler) Start() error {
	if s.p == nil {
		return ErrNoPort
	}
	if s.count == 0 {
		return ErrNoTasks
	}
	s.tasks[s.cur].state = StateRunning
	return s.p.StartScheduler()
}

// CurrentTCB returns the control block of the running task.
func (s *Scheduler) CurrentTCB() port.TCB {
	return &s.tasks[s.cur]
}

// SwitchContext picks the next ready task after the current one. When
// nothing else is ready the current task keeps the processor, so a
// system where every task can sleep needs one task that never does.
func (s *Scheduler) SwitchContext() {
	if s.count == 0 {
		return
	}
	if s.tasks[s.cur].state == StateRunning {
		s.tasks[s.cur].state = StateReady
	}
	for i := TaskID(1); i <= s.count; i++ {
		id := (s.cur + i) % s.count
		if s.tasks[id].state == StateReady {
			s.cur = id
			s.tasks[id].state = StateRunning
			return
		}
	}
}

// IncrementTick advances the time base, wakes sleepers whose deadline
// passed, and asks for a reschedule. The time slice is one tick.
func (s *Scheduler) IncrementTick() bool {
	s.ticks++
	for i := TaskID(0); i < s.count; i++ {
		t := &s.tasks[i]
		if t.state == StateSleeping && t.wakeAt <= s.ticks {
			t.state = StateReady
		}
	}
	return true
}

// Yield gives up the rest of the current time slice.
func (s *Scheduler) Yield() {
	s.p.Yield()
}

// Sleep suspends the current task for at least ticks tick periods.
func (s *Scheduler) Sleep(ticks uint32) {
	if ticks > 0 {
		t := &s.tasks[s.cur]
		t.state = StateSleeping
		t.wakeAt = s.ticks + uint64(ticks)
	}
	s.p.Yield()
}

// Ticks returns the tick count since Start.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

// Current returns the running task's ID.
func (s *Scheduler) Current() TaskID {
	return s.cur
}

// Snapshot lists the task table for display.
func (s *Scheduler) Snapshot() []TaskInfo {
	out := make([]TaskInfo, 0, s.count)
	for i := TaskID(0); i < s.count; i++ {
		out = append(out, TaskInfo{ID: i, Name: s.tasks[i].name, Entry: s.tasks[i].entry, State: s.tasks[i].state})
	}
	return out
}
