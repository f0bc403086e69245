package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httperrors "github.com/hiteshrepo/voice-trivia/pkg/http/errors"

	"github.com/hiteshrepo/voice-trivia/internal/history"
	"github.com/hiteshrepo/voice-trivia/internal/matcher"
	"github.com/hiteshrepo/voice-trivia/internal/prompt"
	"github.com/hiteshrepo/voice-trivia/internal/question"
	"github.com/hiteshrepo/voice-trivia/internal/session"
)

type stubPoolSource struct {
	pool []question.Question
}

func (s *stubPoolSource) FetchPool(ctx context.Context) ([]question.Question, error) {
	return s.pool, nil
}

type stubHistory struct {
	hists map[string]history.UserHistory
}

func (s *stubHistory) Get(ctx context.Context, userKey string) (history.UserHistory, bool, error) {
	hist, found := s.hists[userKey]
	return hist, found, nil
}

func (s *stubHistory) Update(ctx context.Context, userKey string, hist history.UserHistory) error {
	s.hists[userKey] = hist
	return nil
}

type memorySessions struct {
	states  map[string]session.State
	getErr  error
	deletes int
}

func newMemorySessions() *memorySessions {
	return &memorySessions{states: map[string]session.State{}}
}

func (m *memorySessions) Get(ctx context.Context, conversationID string) (*session.State, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	st, ok := m.states[conversationID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (m *memorySessions) Put(ctx context.Context, st session.State) error {
	m.states[st.ConversationID] = st
	return nil
}

func (m *memorySessions) Delete(ctx context.Context, conversationID string) error {
	m.deletes++
	delete(m.states, conversationID)
	return nil
}

func testEngine() *session.Engine {
	pool := []question.Question{{
		ID:     "q-france",
		Prompt: "What is the capital of France?",
		Answers: []question.Answer{
			{Text: "Paris", Synonyms: []string{"Paris"}},
			{Text: "London", Synonyms: []string{"London"}},
			{Text: "Berlin", Synonyms: []string{"Berlin"}},
		},
	}}
	svc := question.NewService(&stubPoolSource{pool: pool}, time.Minute, zerolog.Nop())
	return session.NewEngine(
		svc,
		matcher.New(nil, zerolog.Nop()),
		&stubHistory{hists: map[string]history.UserHistory{}},
		prompt.NewProvider(rand.New(rand.NewSource(1))),
		rand.New(rand.NewSource(1)),
		1,
		zerolog.Nop(),
	)
}

func newTestHandler(sessions session.Store, secret []byte) *Handler {
	return NewHandler(testEngine(), sessions, secret, zerolog.Nop())
}

func doTurn(t *testing.T, h *Handler, req TurnRequest, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/v1/turns", bytes.NewReader(body))
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.HandleTurn(w, r)
	return w
}

func TestHandleTurnStart(t *testing.T) {
	sessions := newMemorySessions()
	h := newTestHandler(sessions, nil)

	w := doTurn(t, h, TurnRequest{
		ConversationID: "c1",
		UserKey:        "u1",
		Intent:         IntentStart,
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp TurnResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Text)
	assert.Contains(t, resp.Text, "What is the capital of France?")
	assert.Len(t, resp.Reprompts, 3)
	assert.False(t, resp.EndSession)

	saved, ok := sessions.states["c1"]
	require.True(t, ok)
	assert.Equal(t, "u1", saved.UserKey)
	assert.Len(t, saved.Presented, 3)
}

func TestHandleTurnFullExchange(t *testing.T) {
	sessions := newMemorySessions()
	h := newTestHandler(sessions, nil)

	doTurn(t, h, TurnRequest{ConversationID: "c1", UserKey: "u1", Intent: IntentStart}, nil)

	n := sessions.states["c1"].CorrectIndex + 1
	w := doTurn(t, h, TurnRequest{
		ConversationID: "c1",
		UserKey:        "u1",
		Intent:         IntentValue,
		RawInput:       "number something",
		Arguments:      map[string]string{"number": strconv.Itoa(n)},
	}, nil)

	var resp TurnResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Score)
	assert.False(t, resp.EndSession)
	assert.Equal(t, session.PhaseAwaitingReplayConfirm, sessions.states["c1"].Phase)
}

func TestHandleTurnQuitDeletesSession(t *testing.T) {
	sessions := newMemorySessions()
	h := newTestHandler(sessions, nil)

	doTurn(t, h, TurnRequest{ConversationID: "c1", UserKey: "u1", Intent: IntentStart}, nil)

	w := doTurn(t, h, TurnRequest{ConversationID: "c1", UserKey: "u1", Intent: IntentQuit}, nil)

	var resp TurnResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.EndSession)
	assert.Equal(t, 1, sessions.deletes)
	assert.NotContains(t, sessions.states, "c1")
}

func TestHandleTurnMethodNotAllowed(t *testing.T) {
	h := newTestHandler(newMemorySessions(), nil)

	r := httptest.NewRequest(http.MethodGet, "/v1/turns", nil)
	w := httptest.NewRecorder()
	h.HandleTurn(w, r)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleTurnValidation(t *testing.T) {
	h := newTestHandler(newMemorySessions(), nil)

	tests := []struct {
		name string
		req  TurnRequest
	}{
		{name: "missing conversation_id", req: TurnRequest{UserKey: "u1", Intent: IntentStart}},
		{name: "missing user_key", req: TurnRequest{ConversationID: "c1", Intent: IntentStart}},
		{name: "missing intent", req: TurnRequest{ConversationID: "c1", UserKey: "u1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doTurn(t, h, tc.req, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp httperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, httperrors.ErrCodeMissingField, resp.Error)
			assert.NotEmpty(t, resp.Field)
		})
	}
}

func TestHandleTurnMalformedBody(t *testing.T) {
	h := newTestHandler(newMemorySessions(), nil)

	r := httptest.NewRequest(http.MethodPost, "/v1/turns", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	h.HandleTurn(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp httperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, httperrors.ErrCodeInvalidRequest, resp.Error)
}

func TestHandleTurnSessionStoreFailure(t *testing.T) {
	sessions := newMemorySessions()
	sessions.getErr = errors.New("connection refused")
	h := newTestHandler(sessions, nil)

	w := doTurn(t, h, TurnRequest{ConversationID: "c1", UserKey: "u1", Intent: IntentStart}, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp httperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, httperrors.ErrCodeUpstreamError, resp.Error)
}

func TestHandleTurnAuthorization(t *testing.T) {
	secret := []byte("platform-secret")
	h := newTestHandler(newMemorySessions(), secret)
	req := TurnRequest{ConversationID: "c1", UserKey: "u1", Intent: IntentStart}

	w := doTurn(t, h, req, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp httperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, httperrors.ErrCodeUnauthorized, resp.Error)

	w = doTurn(t, h, req, map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	wrong, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	w = doTurn(t, h, req, map[string]string{"Authorization": "Bearer " + wrong})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	valid, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{}).SignedString(secret)
	require.NoError(t, err)
	w = doTurn(t, h, req, map[string]string{"Authorization": "Bearer " + valid})
	assert.Equal(t, http.StatusOK, w.Code)
}
