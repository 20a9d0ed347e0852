package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordReset(t *testing.T) {
	msg, err := PasswordReset("sara@example.com", "https://example.ir", "abc123")
	require.NoError(t, err)
	assert.Equal(t, ResetSubject, msg.Subject)
	assert.Equal(t, "sara@example.com", msg.To)
	assert.Contains(t, msg.HTML, `href="https://example.ir/reset-password?token=abc123"`)
}

func TestWelcome_EscapesName(t *testing.T) {
	msg, err := Welcome("a@example.com", "<b>سارا</b>", "https://example.ir")
	require.NoError(t, err)
	assert.Equal(t, WelcomeSubject, msg.Subject)
	assert.Contains(t, msg.HTML, "&lt;b&gt;سارا&lt;/b&gt; عزیز")
}

func TestRelaySender(t *testing.T) {
	var got Message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got.To == "reject@example.com" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewRelaySender(srv.URL, "key-1", "no-reply@example.ir")
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Send(context.Background(), Message{To: "sara@example.com", Subject: "s", HTML: "<p>x</p>"}))
	assert.Equal(t, "Bearer key-1", auth)
	assert.Equal(t, "no-reply@example.ir", got.From)
	assert.Equal(t, "sara@example.com", got.To)

	err := s.Send(context.Background(), Message{To: "reject@example.com"})
	assert.ErrorIs(t, err, ErrRelayRejected)
}

func TestNewSender_FallsBackToLog(t *testing.T) {
	s := NewSender("", "", "")
	_, ok := s.(LogSender)
	assert.True(t, ok)
	assert.NoError(t, s.Send(context.Background(), Message{To: "x@example.com"}))
}
