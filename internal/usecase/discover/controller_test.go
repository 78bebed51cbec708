package discover

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PeterBarbas/leaply-sub001/internal/config"
	"github.com/PeterBarbas/leaply-sub001/internal/domain"
)

type stubClient struct {
	reply string
	err   error
	calls []CompletionRequest
}

func (s *stubClient) Complete(_ context.Context, req CompletionRequest) (string, error) {
	s.calls = append(s.calls, req)
	return s.reply, s.err
}

func newController(t *testing.T, client Client) *Controller {
	t.Helper()
	roles, err := config.LoadRoles("")
	require.NoError(t, err)
	return NewController(client, roles, config.Config{Model: "test-model", MaxCompletionTokens: 100}, zap.NewNop())
}

func transcriptOf(n int) domain.Transcript {
	var t domain.Transcript
	for i := 0; i < n; i++ {
		t = t.Append(fmt.Sprintf("question %d?", i+1), fmt.Sprintf("answer %d", i+1))
	}
	return t
}

func TestController_NextAction(t *testing.T) {
	cases := []struct {
		name    string
		turns   int
		reply   string
		want    domain.Action
		wantErr error
	}{
		{
			name:  "ask",
			turns: 1,
			reply: `{"action":"ask","question":"Do you like numbers?"}`,
			want:  domain.Ask{Question: "Do you like numbers?"},
		},
		{
			name:  "ask inferred without action field",
			turns: 0,
			reply: `{"question":"What do you study?"}`,
			want:  domain.Ask{Question: "What do you study?"},
		},
		{
			name:  "fenced recommend normalises role spelling",
			turns: 3,
			reply: "```json\n{\"action\":\"recommend\",\"status\":\"supported\",\"role_title\":\"data & analytics\",\"rationale\":\"Loves numbers.\",\"confidence\":0.8}\n```",
			want: domain.Recommend{
				Status:     domain.StatusSupported,
				RoleTitle:  "Data & Analytics",
				Rationale:  "Loves numbers.",
				Confidence: ptr(0.8),
			},
		},
		{
			name:  "unsupported uses rationale as guidance",
			turns: 2,
			reply: `{"action":"recommend","status":"unsupported","rationale":"Medicine is outside our corporate tracks."}`,
			want: domain.Recommend{
				Status:               domain.StatusUnsupported,
				Rationale:            "Medicine is outside our corporate tracks.",
				MessageIfUnsupported: "Medicine is outside our corporate tracks.",
			},
		},
		{name: "neither shape", turns: 1, reply: `{"foo":"bar"}`, wantErr: ErrMalformedGenerationOutput},
		{name: "not json", turns: 1, reply: `I think you should be a PM`, wantErr: ErrMalformedGenerationOutput},
		{name: "empty reply", turns: 1, reply: "  ", wantErr: ErrMalformedGenerationOutput},
		{name: "ask without question", turns: 1, reply: `{"action":"ask"}`, wantErr: ErrMalformedGenerationOutput},
		{name: "supported without role", turns: 1, reply: `{"action":"recommend","status":"supported"}`, wantErr: ErrMalformedGenerationOutput},
		{name: "unsupported without guidance", turns: 1, reply: `{"action":"recommend","status":"unsupported"}`, wantErr: ErrMalformedGenerationOutput},
		{name: "unknown status", turns: 1, reply: `{"action":"recommend","status":"maybe","role_title":"Finance"}`, wantErr: ErrMalformedGenerationOutput},
		{name: "confidence out of range", turns: 1, reply: `{"action":"recommend","status":"supported","role_title":"Finance","confidence":1.5}`, wantErr: ErrMalformedGenerationOutput},
		{name: "role outside supported set", turns: 1, reply: `{"action":"recommend","status":"supported","role_title":"Astronaut"}`, wantErr: ErrMalformedGenerationOutput},
		{name: "ask at question ceiling", turns: domain.MaxQuestions, reply: `{"action":"ask","question":"One more?"}`, wantErr: ErrMalformedGenerationOutput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &stubClient{reply: tc.reply}
			got, err := newController(t, client).NextAction(context.Background(), transcriptOf(tc.turns))
			require.Len(t, client.calls, 1)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestController_FinalTurnAlwaysRecommends(t *testing.T) {
	replies := []string{
		`{"action":"ask","question":"Anything else?"}`,
		`{"action":"recommend","status":"supported","role_title":"Marketing","rationale":"Creative."}`,
	}
	for _, reply := range replies {
		client := &stubClient{reply: reply}
		action, err := newController(t, client).NextAction(context.Background(), transcriptOf(domain.MaxQuestions))
		if err != nil {
			assert.ErrorIs(t, err, ErrMalformedGenerationOutput)
			continue
		}
		assert.IsType(t, domain.Recommend{}, action)
		assert.Contains(t, client.calls[0].Messages[0].Text, "final turn")
	}
}

func TestController_RejectsInvalidTranscriptWithoutCalling(t *testing.T) {
	cases := []struct {
		name       string
		transcript domain.Transcript
	}{
		{name: "too long", transcript: transcriptOf(domain.MaxQuestions + 1)},
		{name: "empty answer", transcript: domain.Transcript{{Question: "Why?", Answer: "  "}}},
		{name: "empty question", transcript: domain.Transcript{{Question: "", Answer: "because"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &stubClient{reply: `{"action":"ask","question":"x"}`}
			_, err := newController(t, client).NextAction(context.Background(), tc.transcript)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, client.calls)
		})
	}
}

func TestController_ClientErrorIsMalformed(t *testing.T) {
	boom := errors.New("connection reset")
	client := &stubClient{err: boom}
	_, err := newController(t, client).NextAction(context.Background(), nil)
	assert.ErrorIs(t, err, ErrMalformedGenerationOutput)
	assert.ErrorIs(t, err, boom)
}

func TestController_Request(t *testing.T) {
	client := &stubClient{reply: `{"action":"ask","question":"Next?"}`}
	_, err := newController(t, client).NextAction(context.Background(), nil)
	require.NoError(t, err)

	req := client.calls[0]
	assert.Equal(t, "test-model", req.Model)
	assert.Equal(t, 100, req.MaxCompletionTokens)
	assert.True(t, req.JSON)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Text, "Sales / Business Development")
	assert.Contains(t, req.Messages[0].Text, "at most 8 questions")
	assert.Contains(t, req.Messages[0].Text, "0.75")
	assert.NotContains(t, req.Messages[0].Text, "final turn")
	assert.Equal(t, RoleUser, req.Messages[1].Role)
	assert.Equal(t, "[]", req.Messages[1].Text)

	client = &stubClient{reply: `{"action":"ask","question":"Next?"}`}
	transcript := domain.Transcript{{Question: "Hi?", Answer: "I like \"code\""}}
	_, err = newController(t, client).NextAction(context.Background(), transcript)
	require.NoError(t, err)

	var sent domain.Transcript
	require.NoError(t, json.Unmarshal([]byte(client.calls[0].Messages[1].Text), &sent))
	assert.Equal(t, transcript, sent)
	assert.True(t, strings.HasPrefix(client.calls[0].Messages[1].Text, `[{"q":`))
}

func ptr(f float64) *float64 { return &f }
