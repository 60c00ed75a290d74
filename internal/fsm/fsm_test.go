package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionServerCycle(t *testing.T) {
	next, err := Transition(StateListening, EventReceived)
	require.NoError(t, err)
	require.Equal(t, StateProcessing, next)

	next, err = Transition(next, EventReplied)
	require.NoError(t, err)
	require.Equal(t, StateListening, next)

	next, err = Transition(next, EventQuit)
	require.NoError(t, err)
	require.Equal(t, StateClosed, next)
}

func TestTransitionClientCycle(t *testing.T) {
	s := StateAwaitingInput
	for _, step := range []struct {
		event Event
		want  State
	}{
		{EventIgnore, StateAwaitingInput},
		{EventMove, StateSending},
		{EventSent, StateAwaitingReply},
		{EventReply, StateRendering},
		{EventRendered, StateAwaitingInput},
		{EventMove, StateSending},
		{EventSent, StateAwaitingReply},
		{EventReply, StateRendering},
		{EventDiscarded, StateAwaitingInput},
		{EventQuit, StateClosed},
	} {
		next, err := Transition(s, step.event)
		require.NoError(t, err, "%s --(%s)", s, step.event)
		require.Equal(t, step.want, next)
		s = next
	}
}

func TestTransitionFailFromLiveStates(t *testing.T) {
	states := []State{StateListening, StateProcessing, StateAwaitingInput, StateSending, StateAwaitingReply, StateRendering}
	for _, state := range states {
		next, err := Transition(state, EventFail)
		require.NoError(t, err)
		require.Equal(t, StateFailed, next)
	}
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	tests := []struct {
		name  string
		state State
		event Event
	}{
		{name: "listening replied", state: StateListening, event: EventReplied},
		{name: "processing received", state: StateProcessing, event: EventReceived},
		{name: "processing quit", state: StateProcessing, event: EventQuit},
		{name: "input sent", state: StateAwaitingInput, event: EventSent},
		{name: "sending quit", state: StateSending, event: EventQuit},
		{name: "awaiting reply move", state: StateAwaitingReply, event: EventMove},
		{name: "awaiting reply quit", state: StateAwaitingReply, event: EventQuit},
		{name: "rendering move", state: StateRendering, event: EventMove},
		{name: "closed move", state: StateClosed, event: EventMove},
		{name: "failed fail", state: StateFailed, event: EventFail},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Equal(t, tc.state, next)
			require.Error(t, err)
			require.Contains(t, err.Error(), "invalid transition")
		})
	}
}

func TestTransitionUnknownState(t *testing.T) {
	next, err := Transition(State("mystery"), EventMove)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown state")
	require.Equal(t, State("mystery"), next)
}
