package panel

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// drawFault paints a whole-surface report of why the machine stopped,
// black on white so a halted run is unmistakable. The surface keeps
// showing it until the window closes.
func (pn *Panel) drawFault(err error) {
	pn.fb.ClearRGB(255, 255, 255)

	font := &proggy.TinySZ8pt7b
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 {
		return
	}

	lines := []string{
		"machine halted:",
		fmt.Sprintf("  %v", err),
		"",
		fmt.Sprintf("cycles %d", pn.m.Cycles()),
	}
	if pn.p != nil {
		lines = append(lines, fmt.Sprintf("uptime %ds", pn.p.UptimeSeconds()))
	}
	lines = append(lines, "", "tasks:")
	for _, ti := range pn.s.Snapshot() {
		lines = append(lines, fmt.Sprintf("  %d %s @%#06x %s", ti.ID, ti.Name, ti.Entry, ti.State))
	}

	d := newRegion(pn.fb, 0, pn.fb.height)
	fg := color.RGBA{R: 0, G: 0, B: 0, A: 255}
	cols := int16(pn.fb.width) / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := int16(0)
	for _, line := range lines {
		for {
			if int(y)+fontHeight > pn.fb.height {
				return
			}
			chunk, rest := takeRunes(line, cols)
			drawX := int16(2)
			for _, r := range chunk {
				tinyfont.DrawChar(d, font, drawX, y+fontOffset, r, fg)
				drawX += fontWidth
			}
			y += fontHeight
			if rest == "" {
				break
			}
			line = strings.TrimLeft(rest, " ")
		}
	}
}

// takeRunes splits s after at most n runes.
func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
