// Package demo contains small programs that exercise the host, awaitables and scenes.
package demo

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cadence/render"
)

// label is a centered line of text drawn through a sprite
type label struct {
	text   string
	row    int // negative rows count from the bottom
	style  tcell.Style
	sprite *render.Sprite[tcell.Screen]
}

func newLabel(d *render.Drawer[tcell.Screen], text string, row int, style tcell.Style) *label {
	l := &label{text: text, row: row, style: style}
	l.sprite = render.NewSprite(d, l.draw, render.LayerUI, true)
	return l
}

func (l *label) draw(s tcell.Screen) {
	_, h := s.Size()
	row := l.row
	if row < 0 {
		row += h
	}
	render.Centered(s, row, l.text, l.style)
}

func (l *label) Set(text string) {
	l.text = text
}

func (l *label) Close() {
	l.sprite.Close()
}
