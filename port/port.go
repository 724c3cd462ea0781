package port

import (
	"errors"
	"fmt"

	"ember/mcu"
)

// Core is what the port needs from the scheduler it serves. The core owns
// the task table and is the only writer of the current-task selection; the
// port reads it through CurrentTCB and never reaches past this interface.
type Core interface {
	// CurrentTCB returns the control block of the task considered
	// running. The port reads it fresh before and after every switch
	// decision, never caching the result.
	CurrentTCB() TCB
	// SwitchContext picks the next task to run. It is called with the
	// outgoing context already saved and interrupts masked, and must not
	// touch machine registers.
	SwitchContext()
	// IncrementTick advances the core's time base by one tick and
	// reports whether a switch is wanted.
	IncrementTick() bool
}

// Config fixes the port's behavior for the lifetime of a scheduler run.
type Config struct {
	Source     TickSource
	TickRateHz uint32

	// Preemptive lets the tick interrupt swap tasks. When false the tick
	// only keeps time and every switch is a voluntary Yield.
	Preemptive bool

	// WatchdogPeriodMillis names an exact menu period for TickWatchdog.
	// Zero derives the nearest menu entry from TickRateHz.
	WatchdogPeriodMillis uint32

	// WatchdogResetSafety arms the watchdog's reset backstop beside its
	// interrupt. The tick entry rearms it each tick, so a system that
	// stops taking tick interrupts resets instead of hanging.
	WatchdogResetSafety bool

	// YieldAddress is the flash address the yield trap binds to. Zero
	// picks a default just past the vector table. The port also binds the
	// reti trap four bytes above it.
	YieldAddress uint32

	// OnSecond, when set, runs on the tick completing each second of
	// achieved-rate time, with the uptime second count.
	OnSecond func(seconds uint32)
}

const defaultYieldAddress = 0x000c

// Port glues one scheduler core to one machine.
type Port struct {
	m    *mcu.Machine
	core Core
	cfg  Config
	plan TickPlan

	yieldAddr      uint32
	retiAddr       uint32
	started        bool
	ticksLeftInSec uint32
	seconds        uint32
}

// New validates the configuration and resolves the tick plan. Unachievable
// tick configurations fail here, before anything touches the hardware.
func New(m *mcu.Machine, core Core, cfg Config) (*Port, error) {
	if m == nil {
		return nil, errors.New("port: nil machine")
	}
	if core == nil {
		return nil, errors.New("port: nil core")
	}

	plan, err := ResolveTick(m.ClockHz(), cfg.TickRateHz, cfg.Source, cfg.WatchdogPeriodMillis, cfg.WatchdogResetSafety)
	if err != nil {
		return nil, err
	}

	yieldAddr := cfg.YieldAddress
	if yieldAddr == 0 {
		yieldAddr = defaultYieldAddress
	}
	if yieldAddr < defaultYieldAddress {
		return nil, fmt.Errorf("port: yield address %#06x inside the vector table", yieldAddr)
	}

	return &Port{m: m, core: core, cfg: cfg, plan: plan, yieldAddr: yieldAddr, retiAddr: yieldAddr + 4}, nil
}

// Plan reports the resolved tick configuration.
func (p *Port) Plan() TickPlan { return p.plan }

// TickRateHz reports the rate the time base actually advances at.
func (p *Port) TickRateHz() uint32 { return p.plan.AchievedHz }

// YieldAddress reports where the yield trap is bound.
func (p *Port) YieldAddress() uint32 { return p.yieldAddr }

// UptimeSeconds reports whole seconds of achieved-rate time since the
// scheduler started.
func (p *Port) UptimeSeconds() uint32 { return p.seconds }

// StartScheduler arms the tick source and drops into the first task: the
// task's context is restored and the simulated return lands in its code.
// At the machine level control never comes back to this frame; the caller
// owns the step loop, so on the host StartScheduler returns once the
// machine is standing inside the first task.
//
// The core's CurrentTCB must already name a task with a seeded stack.
func (p *Port) StartScheduler() error {
	if p.started {
		return errors.New("port: scheduler already started")
	}

	p.m.SREG &^= mcu.FlagI
	p.m.Attach(p.yieldAddr, p.yieldEntry)
	p.m.Attach(p.retiAddr, p.retiEntry)
	p.m.Attach(p.plan.Vector().Address(), p.tickEntry)
	p.plan.arm(p.m)
	p.ticksLeftInSec = p.plan.AchievedHz
	p.started = true

	Restore(p.m, p.core.CurrentTCB())
	p.m.Ret()
	return nil
}

// EndScheduler silences the tick source. Task state and the current
// selection are left exactly as they stand.
func (p *Port) EndScheduler() {
	p.plan.disarm(p.m)
	p.started = false
}

// Yield traps into the scheduler from task code. The calling handler must
// return immediately afterwards so the trap can dispatch.
func (p *Port) Yield() {
	p.m.Call(p.yieldAddr)
}
