package webhook

import (
	"strconv"

	"github.com/hiteshrepo/voice-trivia/internal/session"
)

// Intent names delivered by the voice platform. The mapping below is the
// only place intent strings exist; everything past it works on typed
// events.
const (
	IntentStart      = "trivia.start"
	IntentRestart    = "trivia.restart"
	IntentValue      = "trivia.choice.value"
	IntentAnswer     = "trivia.choice.answer"
	IntentOrdinal    = "trivia.choice.ordinal"
	IntentLast       = "trivia.choice.last"
	IntentMiddle     = "trivia.choice.middle"
	IntentRepeat     = "trivia.question.repeat"
	IntentUnknown    = "trivia.unknown"
	IntentQuit       = "trivia.quit"
	IntentReplayYes  = "trivia.restart.yes"
	IntentReplayNo   = "trivia.restart.no"
	IntentQuitYes    = "trivia.quit.yes"
	IntentQuitNo     = "trivia.quit.no"
	IntentNoInput    = "no_input"
)

// Argument names used by the answer intents. Precedence across them is
// owned by session.AnswerContext.
const (
	argNumber  = "number"
	argAny     = "any"
	argOrdinal = "ordinal"
	argAnswer  = "answer"
)

// eventForRequest maps an inbound intent to its typed event. Anything
// unrecognized — including the platform's own fallback intent — becomes an
// UnknownEvent and rides the fallback escalation path.
func eventForRequest(req TurnRequest) session.Event {
	switch req.Intent {
	case IntentStart, IntentRestart:
		return session.StartEvent{}
	case IntentValue, IntentAnswer, IntentOrdinal:
		return session.AnswerEvent{
			Raw:    req.RawInput,
			Choice: req.Arguments[argAnswer],
			Ctx:    answerContext(req.Arguments, false, false),
		}
	case IntentLast:
		return session.AnswerEvent{
			Raw: req.RawInput,
			Ctx: answerContext(req.Arguments, true, false),
		}
	case IntentMiddle:
		return session.AnswerEvent{
			Raw: req.RawInput,
			Ctx: answerContext(req.Arguments, false, true),
		}
	case IntentRepeat:
		return session.RepeatEvent{}
	case IntentQuit:
		return session.QuitEvent{}
	case IntentReplayYes, IntentQuitYes:
		return session.YesEvent{}
	case IntentReplayNo, IntentQuitNo:
		return session.NoEvent{}
	case IntentNoInput:
		return session.NoInputEvent{}
	}
	return session.UnknownEvent{Raw: req.RawInput}
}

func answerContext(args map[string]string, last, middle bool) session.AnswerContext {
	return session.AnswerContext{
		Number:  intArg(args, argNumber),
		Any:     intArg(args, argAny),
		Ordinal: intArg(args, argOrdinal),
		Last:    last,
		Middle:  middle,
	}
}

func intArg(args map[string]string, name string) *int {
	raw, ok := args[name]
	if !ok || raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
