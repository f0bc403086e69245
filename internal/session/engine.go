package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hiteshrepo/voice-trivia/internal/history"
	"github.com/hiteshrepo/voice-trivia/internal/matcher"
	"github.com/hiteshrepo/voice-trivia/internal/prompt"
	"github.com/hiteshrepo/voice-trivia/internal/question"
)

// Decision is the engine's verdict for one turn: the prompt text to speak,
// the staged no-input reprompts, and whether the conversation ends here.
type Decision struct {
	Text       string   `json:"text"`
	Reprompts  []string `json:"reprompts,omitempty"`
	EndSession bool     `json:"end_session"`
}

// Engine is the per-turn state machine. Each turn is one synchronous
// computation: state in, event in, decision and updated state out. The
// engine itself holds no per-conversation data.
type Engine struct {
	questions   *question.Service
	matcher     *matcher.Matcher
	history     history.Store
	prompts     *prompt.Provider
	rng         question.Rand
	roundLength int
	logger      zerolog.Logger
}

func NewEngine(
	questions *question.Service,
	m *matcher.Matcher,
	historyStore history.Store,
	prompts *prompt.Provider,
	rng question.Rand,
	roundLength int,
	logger zerolog.Logger,
) *Engine {
	if roundLength < 1 {
		roundLength = 1
	}
	return &Engine{
		questions:   questions,
		matcher:     m,
		history:     historyStore,
		prompts:     prompts,
		rng:         rng,
		roundLength: roundLength,
		logger:      logger,
	}
}

// HandleTurn routes one inbound event. Every failure mode resolves to a
// user-visible decision; nothing propagates past the turn boundary.
func (e *Engine) HandleTurn(ctx context.Context, st State, ev Event) (Decision, State) {
	switch ev := ev.(type) {
	case StartEvent:
		return e.startRound(ctx, st, false)
	case AnswerEvent:
		return e.handleAnswer(ctx, st, ev)
	case UnknownEvent:
		return e.handleUnmatched(ctx, st, ev.Raw, true)
	case NoInputEvent:
		return e.handleUnmatched(ctx, st, "", false)
	case RepeatEvent:
		return e.handleRepeat(ctx, st)
	case QuitEvent:
		return e.quit(st)
	case YesEvent:
		return e.handleConfirm(ctx, st, true)
	case NoEvent:
		return e.handleConfirm(ctx, st, false)
	}
	e.logger.Error().Str("conversation_id", st.ConversationID).Msg("unhandled event kind")
	return e.apology(&st), st
}

// startRound reads history, selects questions, persists the updated
// history, and asks the first question. replay distinguishes a play-again
// round from a fresh conversation.
func (e *Engine) startRound(ctx context.Context, st State, replay bool) (Decision, State) {
	pool, err := e.questions.Pool(ctx)
	if err != nil {
		e.logger.Error().Err(err).Msg("question pool unavailable")
		return e.apology(&st), st
	}

	hist, found, err := e.history.Get(ctx, st.UserKey)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_key", st.UserKey).Msg("history read failed, treating as new user")
		hist, found = history.UserHistory{}, false
	}
	returning := found && hist.Visits > 0

	selected, updated, err := question.Select(pool, hist, e.roundLength, e.rng, e.logger)
	if err != nil {
		e.logger.Error().Err(err).Msg("question selection failed")
		return e.apology(&st), st
	}

	updated.Visits = hist.Visits + 1
	// Best effort: a lost history write means at worst a repeated question
	// next visit, which selection tolerates anyway.
	if err := e.history.Update(ctx, st.UserKey, updated); err != nil {
		e.logger.Warn().Err(err).Str("user_key", st.UserKey).Msg("history write failed")
	}

	st = State{
		ConversationID: st.ConversationID,
		UserKey:        st.UserKey,
		RoundLength:    len(selected),
		QuestionOrder:  selected,
	}

	q := pool[selected[0]]
	if !e.presentQuestion(&st, q) {
		return e.apology(&st), st
	}

	var greeting string
	switch {
	case replay:
		greeting = e.pick(&st, prompt.ReplayLeadIn)
	case returning:
		greeting = e.pick(&st, prompt.WelcomeBack)
	default:
		greeting = e.pick(&st, prompt.Introduction)
	}

	roundsStarted.Inc()
	return e.ask(&st, greeting, q), st
}

func (e *Engine) handleAnswer(ctx context.Context, st State, ev AnswerEvent) (Decision, State) {
	if !st.Active() {
		return e.apology(&st), st
	}

	switch st.Phase {
	case PhaseAwaitingQuitConfirm:
		// The user is past confirming; close out.
		return e.terminate(&st, e.pick(&st, prompt.QuitClose))

	case PhaseAwaitingReplayConfirm:
		if st.FallbackCount > 0 {
			return e.terminate(&st, e.pick(&st, prompt.QuitClose))
		}
		if ev.Raw != "" && ev.Raw == st.LastRawInput {
			// Same utterance twice with no progress: escalate like a fallback.
			st.FallbackCount++
			st.Phase = PhaseAwaitingQuitConfirm
			fallbackEscalations.WithLabelValues("2").Inc()
			return e.respond(&st, e.pick(&st, prompt.QuitConfirm)), st
		}
		st.LastRawInput = ev.Raw
		return e.escalate(&st)
	}

	if len(st.Presented) == 0 {
		e.logger.Error().Str("conversation_id", st.ConversationID).Msg("answer received with no presented answers")
		return e.apology(&st), st
	}

	st.LastRawInput = ev.Raw

	// Spoken input that names an answer outright beats the platform's
	// extracted number: "7" is the answer Seven when a synonym says so,
	// not option seven.
	if idx, ok := e.matcher.ResolveExact(ev.Raw, st.Presented); ok {
		return e.resolvedAnswer(ctx, &st, idx)
	}

	// An out-of-range number is not an answer attempt; let the full
	// matching chain have a go at the raw input instead.
	if n, ok := ev.Ctx.Resolve(len(st.Presented)); ok && n >= 1 && n <= len(st.Presented) {
		return e.resolvedAnswer(ctx, &st, n-1)
	}

	if idx, ok := e.matcher.Resolve(ctx, ev.Raw, st.Presented); ok {
		return e.resolvedAnswer(ctx, &st, idx)
	}
	if ev.Choice != "" && ev.Choice != ev.Raw {
		if idx, ok := e.matcher.Resolve(ctx, ev.Choice, st.Presented); ok {
			return e.resolvedAnswer(ctx, &st, idx)
		}
	}

	// The matcher already ran fuzzy and token matching; go straight to
	// escalation.
	return e.escalate(&st)
}

// resolvedAnswer scores a matched answer and either advances to the next
// question or closes the round.
func (e *Engine) resolvedAnswer(ctx context.Context, st *State, idx int) (Decision, State) {
	correct := idx == st.CorrectIndex
	if correct {
		st.Score++
	}
	st.FallbackCount = 0
	answersResolved.WithLabelValues(strconv.FormatBool(correct)).Inc()

	var feedback string
	if correct {
		feedback = e.pick(st, prompt.CorrectFeedback)
	} else {
		reveal := fmt.Sprintf(e.pick(st, prompt.CorrectAnswerReveal), st.Presented[st.CorrectIndex].DisplayText())
		feedback = e.pick(st, prompt.WrongFeedback) + " " + reveal
	}

	if st.CurrentQuestion == st.RoundLength-1 {
		var summary string
		switch st.Score {
		case st.RoundLength:
			summary = fmt.Sprintf(e.pick(st, prompt.AllCorrect), st.Score)
		case 0:
			summary = e.pick(st, prompt.NoneCorrect)
		default:
			summary = fmt.Sprintf(e.pick(st, prompt.SomeCorrect), st.Score, st.RoundLength)
		}
		st.Phase = PhaseAwaitingReplayConfirm
		return e.respond(st, join(feedback, summary, e.pick(st, prompt.ReplayQuestion))), *st
	}

	st.CurrentQuestion++
	q, ok := e.currentQuestion(ctx, st)
	if !ok {
		return e.apology(st), *st
	}
	if !e.presentQuestion(st, q) {
		return e.apology(st), *st
	}

	var leadIn string
	switch {
	case st.CurrentQuestion == st.RoundLength-1:
		leadIn = e.pick(st, prompt.FinalRoundLeadIn)
	case st.CurrentQuestion%2 == 1:
		leadIn = fmt.Sprintf(e.pick(st, prompt.RoundLeadIn), st.CurrentQuestion+1)
	case correct:
		leadIn = e.pick(st, prompt.NextQuestionLeadIn)
	default:
		leadIn = e.pick(st, prompt.QuestionLeadIn)
	}

	return e.ask(st, join(feedback, leadIn), q), *st
}

// handleUnmatched drives fallback escalation. For input the classifier gave
// up on, the presented answers get one last fuzzy-plus-token pass before
// the counter advances.
func (e *Engine) handleUnmatched(ctx context.Context, st State, raw string, tryRecover bool) (Decision, State) {
	if !st.Active() {
		return e.apology(&st), st
	}
	if raw != "" {
		st.LastRawInput = raw
	}

	if tryRecover && st.awaitingAnswer() && len(st.Presented) > 0 && raw != "" {
		if idx, ok := e.matcher.RecoverLastResort(raw, st.Presented); ok {
			return e.resolvedAnswer(ctx, &st, idx)
		}
	}

	return e.escalate(&st)
}

// escalate advances the fallback counter: reprompt, then quit-confirm, then
// a terminal close.
func (e *Engine) escalate(st *State) (Decision, State) {
	st.FallbackCount++
	fallbackEscalations.WithLabelValues(strconv.Itoa(min(st.FallbackCount, 3))).Inc()

	switch {
	case st.FallbackCount == 1:
		return e.respond(st, e.pick(st, prompt.Reprompt)), *st
	case st.FallbackCount == 2:
		st.Phase = PhaseAwaitingQuitConfirm
		return e.respond(st, e.pick(st, prompt.QuitConfirm)), *st
	default:
		return e.terminate(st, e.pick(st, prompt.Closing))
	}
}

func (e *Engine) handleRepeat(ctx context.Context, st State) (Decision, State) {
	if !st.Active() {
		return e.apology(&st), st
	}
	st.FallbackCount = 0

	switch st.Phase {
	case PhaseAwaitingReplayConfirm:
		return e.respond(&st, e.pick(&st, prompt.ReplayQuestion)), st
	case PhaseAwaitingQuitConfirm:
		return e.respond(&st, e.pick(&st, prompt.QuitConfirm)), st
	}

	q, ok := e.currentQuestion(ctx, &st)
	if !ok || len(st.Presented) == 0 {
		return e.apology(&st), st
	}
	return e.ask(&st, e.pick(&st, prompt.RepeatLeadIn), q), st
}

func (e *Engine) handleConfirm(ctx context.Context, st State, affirmative bool) (Decision, State) {
	switch st.Phase {
	case PhaseAwaitingReplayConfirm:
		if affirmative {
			return e.startRound(ctx, st, true)
		}
		return e.terminate(&st, e.pick(&st, prompt.QuitClose))

	case PhaseAwaitingQuitConfirm:
		if affirmative {
			return e.terminate(&st, e.pick(&st, prompt.QuitClose))
		}
		st.FallbackCount = 0
		q, ok := e.currentQuestion(ctx, &st)
		if !ok || len(st.Presented) == 0 {
			return e.apology(&st), st
		}
		st.Phase = answerPhase(q)
		return e.ask(&st, e.pick(&st, prompt.RepeatLeadIn), q), st

	case PhaseAwaitingAnswer, PhaseTrueFalsePending:
		// A bare yes/no is not an answer to a quiz question.
		return e.escalate(&st)
	}
	return e.apology(&st), st
}

func (e *Engine) quit(st State) (Decision, State) {
	if st.RoundLength == 0 {
		return e.terminate(&st, e.pick(&st, prompt.QuitClose))
	}
	text := fmt.Sprintf(e.pick(&st, prompt.ScoreClose), st.Score, st.RoundLength)
	return e.terminate(&st, text)
}

// currentQuestion resolves the pool entry for the state's current slot.
func (e *Engine) currentQuestion(ctx context.Context, st *State) (question.Question, bool) {
	pool, err := e.questions.Pool(ctx)
	if err != nil {
		e.logger.Error().Err(err).Msg("question pool unavailable")
		return question.Question{}, false
	}
	if st.CurrentQuestion >= len(st.QuestionOrder) {
		e.logger.Error().Int("current", st.CurrentQuestion).Msg("current question out of round range")
		return question.Question{}, false
	}
	index := st.QuestionOrder[st.CurrentQuestion]
	if index < 0 || index >= len(pool) {
		e.logger.Error().Int("index", index).Int("pool", len(pool)).Msg("question index out of pool range")
		return question.Question{}, false
	}
	return pool[index], true
}

// presentQuestion builds and installs the presented answer set.
func (e *Engine) presentQuestion(st *State, q question.Question) bool {
	presented, correctIndex, err := question.BuildAnswerSet(q, e.rng)
	if err != nil {
		e.logger.Error().Err(err).Str("question_id", q.ID).Msg("cannot build answer set")
		return false
	}
	st.Presented = presented
	st.CorrectIndex = correctIndex
	st.Phase = answerPhase(q)
	return true
}

// ask renders the question prompt: lead-in, question text, then the
// presented options ("A, B, or C."); true/false questions get the framing
// prompt instead of an option list.
func (e *Engine) ask(st *State, leadIn string, q question.Question) Decision {
	var text string
	if q.IsTrueFalse {
		text = join(leadIn, fmt.Sprintf(e.pick(st, prompt.TrueFalseFrame), q.Prompt))
	} else {
		text = join(leadIn, q.Prompt, optionList(st.Presented))
	}
	return e.respond(st, text)
}

func (e *Engine) respond(st *State, text string) Decision {
	return Decision{
		Text:      text,
		Reprompts: e.noInputPrompts(),
	}
}

func (e *Engine) terminate(st *State, text string) (Decision, State) {
	st.Phase = PhaseTerminated
	return Decision{Text: text, EndSession: true}, *st
}

func (e *Engine) apology(st *State) Decision {
	st.Phase = PhaseTerminated
	return Decision{Text: e.pick(st, prompt.Apology), EndSession: true}
}

// pick draws a themed prompt, avoiding the previous one.
func (e *Engine) pick(st *State, t prompt.Type) string {
	text := e.prompts.Random(t, st.LastPrompt)
	st.LastPrompt = text
	return text
}

func (e *Engine) noInputPrompts() []string {
	return []string{
		e.prompts.Random(prompt.NoInput1, ""),
		e.prompts.Random(prompt.NoInput2, ""),
		e.prompts.Random(prompt.NoInput3, ""),
	}
}

func answerPhase(q question.Question) Phase {
	if q.IsTrueFalse {
		return PhaseTrueFalsePending
	}
	return PhaseAwaitingAnswer
}

func optionList(presented []question.Answer) string {
	parts := make([]string, 0, len(presented))
	for _, a := range presented {
		parts = append(parts, a.DisplayText())
	}
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0] + "."
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", or " + parts[len(parts)-1] + "."
}

func join(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
