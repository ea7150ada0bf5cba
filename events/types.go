package events

import (
	"strconv"
	"time"
)

// Topic is the tag an event is routed by
type Topic int

const (
	// TopicKey is a key press
	// Source: terminal input | Payload: *tcell.EventKey
	TopicKey Topic = iota + 1

	// TopicMouse covers button presses, releases and motion
	// Source: terminal input | Payload: *tcell.EventMouse
	TopicMouse

	// TopicResize signals a terminal size change
	// Source: terminal input | Payload: *tcell.EventResize
	TopicResize

	// TopicPaste marks the start or end of a bracketed paste
	// Source: terminal input | Payload: *tcell.EventPaste
	TopicPaste

	// TopicFocus signals the terminal gaining or losing focus
	// Source: terminal input | Payload: *tcell.EventFocus
	TopicFocus

	// TopicInterrupt is a wakeup posted through the screen's event queue
	// Source: tcell.Screen.PostEvent | Payload: *tcell.EventInterrupt
	TopicInterrupt

	// TopicError reports a terminal error
	// Source: terminal input | Payload: *tcell.EventError
	TopicError

	// TopicUser is the first tag free for application-defined events
	TopicUser Topic = 1 << 10
)

// InputTopics lists every topic produced by user interaction
var InputTopics = []Topic{TopicKey, TopicMouse, TopicPaste}

var topicNames = map[Topic]string{
	TopicKey:       "Key",
	TopicMouse:     "Mouse",
	TopicResize:    "Resize",
	TopicPaste:     "Paste",
	TopicFocus:     "Focus",
	TopicInterrupt: "Interrupt",
	TopicError:     "Error",
}

// String returns the topic name, or "User+N" for application topics
func (t Topic) String() string {
	if name, ok := topicNames[t]; ok {
		return name
	}
	if t >= TopicUser {
		return "User+" + strconv.Itoa(int(t-TopicUser))
	}
	return "Topic(" + strconv.Itoa(int(t)) + ")"
}

// Event is one tagged occurrence carried unmodified from the host to subscribers
type Event struct {
	Topic   Topic
	Payload any
	When    time.Time
}
