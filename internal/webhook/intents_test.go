package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hiteshrepo/voice-trivia/internal/session"
)

func TestEventForRequest(t *testing.T) {
	tests := []struct {
		name string
		req  TurnRequest
		want session.Event
	}{
		{
			name: "start",
			req:  TurnRequest{Intent: IntentStart},
			want: session.StartEvent{},
		},
		{
			name: "restart maps to start",
			req:  TurnRequest{Intent: IntentRestart},
			want: session.StartEvent{},
		},
		{
			name: "repeat",
			req:  TurnRequest{Intent: IntentRepeat},
			want: session.RepeatEvent{},
		},
		{
			name: "quit",
			req:  TurnRequest{Intent: IntentQuit},
			want: session.QuitEvent{},
		},
		{
			name: "replay yes",
			req:  TurnRequest{Intent: IntentReplayYes},
			want: session.YesEvent{},
		},
		{
			name: "quit yes",
			req:  TurnRequest{Intent: IntentQuitYes},
			want: session.YesEvent{},
		},
		{
			name: "replay no",
			req:  TurnRequest{Intent: IntentReplayNo},
			want: session.NoEvent{},
		},
		{
			name: "quit no",
			req:  TurnRequest{Intent: IntentQuitNo},
			want: session.NoEvent{},
		},
		{
			name: "no input",
			req:  TurnRequest{Intent: IntentNoInput},
			want: session.NoInputEvent{},
		},
		{
			name: "fallback intent",
			req:  TurnRequest{Intent: IntentUnknown, RawInput: "mumble"},
			want: session.UnknownEvent{Raw: "mumble"},
		},
		{
			name: "unrecognized intent",
			req:  TurnRequest{Intent: "something.new", RawInput: "mumble"},
			want: session.UnknownEvent{Raw: "mumble"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, eventForRequest(tc.req))
		})
	}
}

func TestEventForRequestAnswerArguments(t *testing.T) {
	req := TurnRequest{
		Intent:   IntentValue,
		RawInput: "number two",
		Arguments: map[string]string{
			"number": "2",
			"answer": "London",
		},
	}
	ev, ok := eventForRequest(req).(session.AnswerEvent)
	assert.True(t, ok)
	assert.Equal(t, "number two", ev.Raw)
	assert.Equal(t, "London", ev.Choice)
	if assert.NotNil(t, ev.Ctx.Number) {
		assert.Equal(t, 2, *ev.Ctx.Number)
	}
	assert.Nil(t, ev.Ctx.Any)
	assert.Nil(t, ev.Ctx.Ordinal)
}

func TestEventForRequestOrdinal(t *testing.T) {
	req := TurnRequest{
		Intent:    IntentOrdinal,
		RawInput:  "the third one",
		Arguments: map[string]string{"ordinal": "3"},
	}
	ev, ok := eventForRequest(req).(session.AnswerEvent)
	assert.True(t, ok)
	if assert.NotNil(t, ev.Ctx.Ordinal) {
		assert.Equal(t, 3, *ev.Ctx.Ordinal)
	}
}

func TestEventForRequestPositional(t *testing.T) {
	ev, ok := eventForRequest(TurnRequest{Intent: IntentLast, RawInput: "the last one"}).(session.AnswerEvent)
	assert.True(t, ok)
	assert.True(t, ev.Ctx.Last)
	assert.False(t, ev.Ctx.Middle)

	ev, ok = eventForRequest(TurnRequest{Intent: IntentMiddle, RawInput: "the middle one"}).(session.AnswerEvent)
	assert.True(t, ok)
	assert.True(t, ev.Ctx.Middle)
	assert.False(t, ev.Ctx.Last)
}

func TestIntArgIgnoresGarbage(t *testing.T) {
	assert.Nil(t, intArg(map[string]string{"number": "two"}, "number"))
	assert.Nil(t, intArg(map[string]string{"number": ""}, "number"))
	assert.Nil(t, intArg(map[string]string{}, "number"))
}
