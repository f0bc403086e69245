package session

// Event is one inbound turn, already classified by the platform's intent
// layer and mapped to a typed value. The sealed interface plus the
// exhaustive switch in the engine replaces the string-keyed handler map a
// fulfillment webhook would otherwise grow: an unhandled kind fails to
// compile instead of silently dropping.
type Event interface {
	event()
}

// StartEvent opens a conversation or starts a fresh round.
type StartEvent struct{}

// AnswerEvent carries the user's attempt at the current question. Raw is
// the full utterance; Choice is the platform-extracted answer argument if
// present; Ctx carries any numeric argument the platform recognized.
type AnswerEvent struct {
	Raw    string
	Choice string
	Ctx    AnswerContext
}

// UnknownEvent is input the intent classifier could not place.
type UnknownEvent struct {
	Raw string
}

// NoInputEvent is a platform timeout; handled like unmatched input.
type NoInputEvent struct{}

// RepeatEvent asks for the current question again.
type RepeatEvent struct{}

// QuitEvent ends the session immediately.
type QuitEvent struct{}

// YesEvent and NoEvent answer a pending confirmation.
type YesEvent struct{}
type NoEvent struct{}

func (StartEvent) event()   {}
func (AnswerEvent) event()  {}
func (UnknownEvent) event() {}
func (NoInputEvent) event() {}
func (RepeatEvent) event()  {}
func (QuitEvent) event()    {}
func (YesEvent) event()     {}
func (NoEvent) event()      {}

// AnswerContext is the one place numeric answer arguments land. Voice
// platforms deliver "the number the user said" under several argument
// names depending on which intent fired; the resolution precedence is
// fixed here instead of scattered through handlers: Number, then Any,
// then Ordinal, then the Last/Middle positional shortcuts.
type AnswerContext struct {
	Number  *int
	Any     *int
	Ordinal *int
	Last    bool
	Middle  bool
}

// Resolve produces the 1-based option number, if any. Last and Middle are
// request-level conveniences resolved against the presented set size.
func (c AnswerContext) Resolve(optionCount int) (int, bool) {
	switch {
	case c.Number != nil:
		return *c.Number, true
	case c.Any != nil:
		return *c.Any, true
	case c.Ordinal != nil:
		return *c.Ordinal, true
	case c.Last:
		return optionCount, true
	case c.Middle:
		return optionCount/2 + 1, true
	}
	return 0, false
}
