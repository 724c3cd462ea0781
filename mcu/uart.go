package mcu

// UART is a transmit-only serial port. Written bytes accumulate until the
// host side drains them.
type UART struct {
	tx []byte
}

// WriteByte transmits one byte.
func (u *UART) WriteByte(b byte) {
	u.tx = append(u.tx, b)
}

// WriteString transmits every byte of s.
func (u *UART) WriteString(s string) {
	u.tx = append(u.tx, s...)
}

// Write transmits p. It implements io.Writer so handlers can print
// through fmt.
func (u *UART) Write(p []byte) (int, error) {
	u.tx = append(u.tx, p...)
	return len(p), nil
}

// Pending reports how many bytes wait for the host.
func (u *UART) Pending() int { return len(u.tx) }

// Drain hands the buffered bytes to the host and clears the buffer.
func (u *UART) Drain() []byte {
	if len(u.tx) == 0 {
		return nil
	}
	out := u.tx
	u.tx = nil
	return out
}
