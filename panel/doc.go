// Package panel renders the machine's visible peripherals: the UART
// stream into a terminal band and the task table into a status strip,
// on a desktop window or headless.
package panel
