package kernel

import "errors"

const (
	maxTasks = 8

	// stackFloor is the lowest RAM address task stacks may reach; the
	// bytes below it stay for globals and the startup frame.
	stackFloor = 0x0100
)

// TaskID names a slot in the task table.
type TaskID uint8

// TaskState tracks where a task stands with the scheduler.
type TaskState uint8

const (
	StateFree TaskState = iota
	StateReady
	StateRunning
	StateSleeping
)

func (st TaskState) String() string {
	switch st {
	case StateFree:
		return "free"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateSleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

var (
	ErrTaskTableFull = errors.New("kernel: task table full")
	ErrStackTooSmall = errors.New("kernel: stack below minimum")
	ErrNoStackRoom   = errors.New("kernel: no RAM left for a stack")
	ErrNoTasks       = errors.New("kernel: no tasks created")
	ErrNoPort        = errors.New("kernel: no port bound")
)

// TCB is one task's control block. The scheduler owns the table; the
// switching layer reads and writes only the saved stack pointer.
type TCB struct {
	name   string
	entry  uint32
	sp     uint16
	state  TaskState
	wakeAt uint64
}

func (t *TCB) StackPointer() uint16 { return t.sp }

func (t *TCB) SetStackPointer(sp uint16) { t.sp = sp }

func (t *TCB) Name() string { return t.name }

func (t *TCB) State() TaskState { return t.state }

// TaskInfo is a display-friendly row of the task table.
type TaskInfo struct {
	ID    TaskID
	Name  string
	Entry uint32
	State TaskState
}
