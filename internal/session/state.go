package session

import (
	"github.com/hiteshrepo/voice-trivia/internal/question"
)

// Phase is where a conversation stands in the quiz flow.
type Phase string

const (
	PhaseAwaitingAnswer        Phase = "awaiting_answer"
	PhaseTrueFalsePending      Phase = "true_false_pending"
	PhaseAwaitingReplayConfirm Phase = "awaiting_replay_confirm"
	PhaseAwaitingQuitConfirm   Phase = "awaiting_quit_confirm"
	PhaseTerminated            Phase = "terminated"
)

// State is all per-conversation mutable data. It is created at round start,
// passed into and returned from every turn, and discarded when the
// conversation ends. Nothing is shared between turns beyond what the store
// persists. CorrectIndex always indexes a valid position in Presented while
// a phase expects an answer.
type State struct {
	ConversationID string `json:"conversation_id"`
	UserKey        string `json:"user_key"`

	RoundLength     int   `json:"round_length"`
	QuestionOrder   []int `json:"question_order"`
	CurrentQuestion int   `json:"current_question"`
	Score           int   `json:"score"`

	Presented    []question.Answer `json:"presented"`
	CorrectIndex int               `json:"correct_index"`

	FallbackCount int    `json:"fallback_count"`
	Phase         Phase  `json:"phase"`
	LastRawInput  string `json:"last_raw_input"`
	LastPrompt    string `json:"last_prompt"`
}

// Active reports whether the session can still accept quiz input.
func (s State) Active() bool {
	switch s.Phase {
	case PhaseAwaitingAnswer, PhaseTrueFalsePending, PhaseAwaitingReplayConfirm, PhaseAwaitingQuitConfirm:
		return true
	}
	return false
}

// awaitingAnswer reports whether the current phase expects a quiz answer.
func (s State) awaitingAnswer() bool {
	return s.Phase == PhaseAwaitingAnswer || s.Phase == PhaseTrueFalsePending
}
