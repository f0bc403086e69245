package webhook

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	httperrors "github.com/hiteshrepo/voice-trivia/pkg/http/errors"

	"github.com/hiteshrepo/voice-trivia/internal/session"
)

// TurnRequest is one inbound turn from the voice platform: the classified
// intent, the raw utterance, and any arguments the platform extracted.
type TurnRequest struct {
	ConversationID string            `json:"conversation_id"`
	UserKey        string            `json:"user_key"`
	Intent         string            `json:"intent"`
	RawInput       string            `json:"raw_input"`
	Arguments      map[string]string `json:"arguments"`
}

// TurnResponse carries the decision back to the platform. Text is plain
// prompt text; speech markup is the platform's concern.
type TurnResponse struct {
	Text       string   `json:"text"`
	Reprompts  []string `json:"reprompts,omitempty"`
	EndSession bool     `json:"end_session"`
	Score      int      `json:"score"`
}

// Handler terminates the platform webhook: verify, parse, run the engine,
// persist, respond.
type Handler struct {
	engine    *session.Engine
	sessions  session.Store
	jwtSecret []byte
	logger    zerolog.Logger
}

func NewHandler(engine *session.Engine, sessions session.Store, jwtSecret []byte, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// HandleTurn serves POST /v1/turns.
func (h *Handler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "POST only")
		return
	}
	if err := h.authorize(r); err != nil {
		h.logger.Warn().Err(err).Msg("rejected unauthenticated turn")
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "invalid platform token")
		return
	}

	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "malformed turn payload")
		return
	}
	if req.ConversationID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "conversation_id is required", "conversation_id")
		return
	}
	if req.UserKey == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "user_key is required", "user_key")
		return
	}
	if req.Intent == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "intent is required", "intent")
		return
	}

	ctx := r.Context()
	turnsTotal.WithLabelValues(req.Intent).Inc()

	st, err := h.sessions.Get(ctx, req.ConversationID)
	if err != nil {
		h.logger.Error().Err(err).Str("conversation_id", req.ConversationID).Msg("session load failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, "session store unavailable")
		return
	}
	if st == nil {
		st = &session.State{
			ConversationID: req.ConversationID,
			UserKey:        req.UserKey,
		}
	}

	decision, next := h.engine.HandleTurn(ctx, *st, eventForRequest(req))

	if next.Phase == session.PhaseTerminated {
		if err := h.sessions.Delete(ctx, req.ConversationID); err != nil {
			h.logger.Warn().Err(err).Str("conversation_id", req.ConversationID).Msg("session delete failed")
		}
	} else if err := h.sessions.Put(ctx, next); err != nil {
		// The turn already happened; answer the user and let the next turn
		// restart the conversation if the state is gone.
		h.logger.Error().Err(err).Str("conversation_id", req.ConversationID).Msg("session persist failed")
	}

	if decision.EndSession {
		sessionsEnded.Inc()
	}

	h.logger.Info().
		Str("conversation_id", req.ConversationID).
		Str("intent", req.Intent).
		Str("phase", string(next.Phase)).
		Int("score", next.Score).
		Bool("end_session", decision.EndSession).
		Msg("turn handled")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(TurnResponse{
		Text:       decision.Text,
		Reprompts:  decision.Reprompts,
		EndSession: decision.EndSession,
		Score:      next.Score,
	})
}

// authorize verifies the platform-signed bearer token. An empty secret
// disables verification for local development.
func (h *Handler) authorize(r *http.Request) error {
	if len(h.jwtSecret) == 0 {
		return nil
	}
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return fmt.Errorf("missing bearer token")
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return h.jwtSecret, nil
	})
	if err != nil {
		return fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}
