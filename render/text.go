package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Text writes str at column x, row y and returns the number of columns used.
// Wide runes take two cells; output is clipped at the screen edge
func Text(s tcell.Screen, x, y int, str string, style tcell.Style) int {
	w, h := s.Size()
	if y < 0 || y >= h {
		return 0
	}
	col := x
	for _, r := range str {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > w {
			break
		}
		if col >= 0 {
			s.SetContent(col, y, r, nil, style)
		}
		col += rw
	}
	return col - x
}

// Centered writes str horizontally centered on row y
func Centered(s tcell.Screen, y int, str string, style tcell.Style) {
	w, _ := s.Size()
	x := (w - runewidth.StringWidth(str)) / 2
	Text(s, max(x, 0), y, str, style)
}

// Fill paints every cell of the w×h rectangle at x,y with r
func Fill(s tcell.Screen, x, y, w, h int, r rune, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			s.SetContent(col, row, r, nil, style)
		}
	}
}
