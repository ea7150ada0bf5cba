package events

import (
	"github.com/gdamore/tcell/v2"
)

// FromTcell tags a terminal event with its topic. The tcell value is kept as payload
func FromTcell(ev tcell.Event) Event {
	out := Event{Payload: ev, When: ev.When()}
	switch ev.(type) {
	case *tcell.EventKey:
		out.Topic = TopicKey
	case *tcell.EventMouse:
		out.Topic = TopicMouse
	case *tcell.EventResize:
		out.Topic = TopicResize
	case *tcell.EventPaste:
		out.Topic = TopicPaste
	case *tcell.EventFocus:
		out.Topic = TopicFocus
	case *tcell.EventInterrupt:
		out.Topic = TopicInterrupt
	case *tcell.EventError:
		out.Topic = TopicError
	default:
		out.Topic = TopicUser
	}
	return out
}

// Key returns the key payload, or nil for non-key events
func (e Event) Key() *tcell.EventKey {
	k, _ := e.Payload.(*tcell.EventKey)
	return k
}

// Mouse returns the mouse payload, or nil for non-mouse events
func (e Event) Mouse() *tcell.EventMouse {
	m, _ := e.Payload.(*tcell.EventMouse)
	return m
}

// KeyIs builds a filter accepting key events for the given key code
func KeyIs(key tcell.Key) Filter {
	return func(ev Event) bool {
		k := ev.Key()
		return k != nil && k.Key() == key
	}
}

// RuneIs builds a filter accepting key events that typed r
func RuneIs(r rune) Filter {
	return func(ev Event) bool {
		k := ev.Key()
		return k != nil && k.Key() == tcell.KeyRune && k.Rune() == r
	}
}

// ButtonsDown builds a filter accepting mouse events with any of mask pressed
func ButtonsDown(mask tcell.ButtonMask) Filter {
	return func(ev Event) bool {
		m := ev.Mouse()
		return m != nil && m.Buttons()&mask != 0
	}
}
