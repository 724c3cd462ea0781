package panel

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// region exposes a horizontal band of the framebuffer as a display.
// Pixels, fills, and scrolls stay inside the band, so the terminal
// cannot smear the status strip stacked below it.
type region struct {
	fb   *framebuffer
	top  int
	rows int
}

func newRegion(fb *framebuffer, top, rows int) *region {
	return &region{fb: fb, top: top, rows: rows}
}

func (d *region) Size() (x, y int16) {
	return int16(d.fb.width), int16(d.rows)
}

func (d *region) SetPixel(x, y int16, c color.RGBA) {
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= d.fb.width || iy < 0 || iy >= d.rows {
		return
	}
	pixel := rgb565(c.R, c.G, c.B)
	off := (d.top+iy)*d.fb.stride + ix*2
	d.fb.buf[off] = byte(pixel)
	d.fb.buf[off+1] = byte(pixel >> 8)
}

func (d *region) Display() error { return nil }

func (d *region) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	x0 := clampInt(int(x), 0, d.fb.width)
	y0 := clampInt(int(y), 0, d.rows)
	x1 := clampInt(int(x)+int(width), 0, d.fb.width)
	y1 := clampInt(int(y)+int(height), 0, d.rows)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := rgb565(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)

	for py := y0; py < y1; py++ {
		row := (d.top + py) * d.fb.stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			d.fb.buf[off] = lo
			d.fb.buf[off+1] = hi
		}
	}
	return nil
}

// ScrollUp shifts the band's content up by the given number of pixel
// lines and clears the exposed bottom area.
func (d *region) ScrollUp(lines int16, bg color.RGBA) error {
	n := int(lines)
	if n <= 0 {
		return nil
	}
	if n >= d.rows {
		return d.FillRectangle(0, 0, int16(d.fb.width), int16(d.rows), bg)
	}

	stride := d.fb.stride
	dst := d.top * stride
	src := (d.top + n) * stride
	length := (d.rows - n) * stride
	copy(d.fb.buf[dst:dst+length], d.fb.buf[src:src+length])

	return d.FillRectangle(0, int16(d.rows-n), int16(d.fb.width), int16(n), bg)
}

func (d *region) SetScroll(line int16) {}

func (d *region) SetRotation(rotation drivers.Rotation) error { return nil }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
