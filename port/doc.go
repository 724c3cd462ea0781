// Package port adapts a scheduler core to the mcu machine: saved-context layout, stack frame seeding, context save/restore, tick sources, and the scheduler entry/exit protocol.
package port
