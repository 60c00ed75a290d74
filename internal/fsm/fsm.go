// Package fsm defines the request/response loop states for both processes.
package fsm

import "fmt"

type State string

type Event string

// Server loop states.
const (
	StateListening  State = "listening"
	StateProcessing State = "processing"
)

// Client loop states.
const (
	StateAwaitingInput State = "awaiting_input"
	StateSending       State = "sending"
	StateAwaitingReply State = "awaiting_reply"
	StateRendering     State = "rendering"
)

// Terminal states shared by both loops.
const (
	StateClosed State = "closed"
	StateFailed State = "failed"
)

const (
	EventReceived  Event = "received"
	EventReplied   Event = "replied"
	EventMove      Event = "move"
	EventIgnore    Event = "ignore"
	EventSent      Event = "sent"
	EventReply     Event = "reply"
	EventRendered  Event = "rendered"
	EventDiscarded Event = "discarded"
	EventQuit      Event = "quit"
	EventFail      Event = "fail"
)

func Transition(current State, event Event) (State, error) {
	if current == StateClosed || current == StateFailed {
		return current, invalidTransition(current, event)
	}
	if event == EventFail {
		return StateFailed, nil
	}

	switch current {
	case StateListening:
		switch event {
		case EventReceived:
			return StateProcessing, nil
		case EventQuit:
			return StateClosed, nil
		}
	case StateProcessing:
		switch event {
		case EventReplied:
			return StateListening, nil
		}
	case StateAwaitingInput:
		switch event {
		case EventMove:
			return StateSending, nil
		case EventIgnore:
			return StateAwaitingInput, nil
		case EventQuit:
			return StateClosed, nil
		}
	case StateSending:
		switch event {
		case EventSent:
			return StateAwaitingReply, nil
		}
	case StateAwaitingReply:
		switch event {
		case EventReply:
			return StateRendering, nil
		}
	case StateRendering:
		switch event {
		case EventRendered, EventDiscarded:
			return StateAwaitingInput, nil
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
	return current, invalidTransition(current, event)
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
