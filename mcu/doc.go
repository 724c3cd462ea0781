// Package mcu simulates a small AVR-class 8-bit microcontroller: 32 registers, a status register, a downward stack in data RAM, and tick-capable peripherals.
package mcu
