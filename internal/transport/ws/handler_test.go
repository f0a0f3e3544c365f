package ws

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chairs/internal/app"
	"chairs/internal/domain"
)

type wireMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newTestHub(t *testing.T) *app.GameHub {
	t.Helper()

	opts := app.DefaultHubOptions()
	opts.Game.LapDuration = 10 * time.Second
	opts.Game.RemovalDelay = time.Hour
	hub := app.NewGameHub(opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(hub.Close)
	return hub
}

func dial(t *testing.T, ts *httptest.Server, roomCode string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?roomCode=" + roomCode
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads frames until a message of the wanted type arrives. Queued messages
// may share one frame separated by newlines.
func readUntil(t *testing.T, conn *websocket.Conn, want MessageType) wireMessage {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", want)

		for _, line := range bytes.Split(data, []byte{'\n'}) {
			var msg wireMessage
			require.NoError(t, json.Unmarshal(line, &msg))
			if msg.Type == want {
				return msg
			}
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, msgType MessageType) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(&ClientMessage{Type: msgType}))
}

func TestConnectRequiresRoomCode(t *testing.T) {
	ts := httptest.NewServer(NewHandler(newTestHub(t), slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp2, err := http.Get(ts.URL + "/ws?roomCode=NOPE99")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestConnectedGreeting(t *testing.T) {
	hub := newTestHub(t)
	session, err := hub.CreateTable()
	require.NoError(t, err)

	ts := httptest.NewServer(NewHandler(hub, slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer ts.Close()

	conn := dial(t, ts, strings.ToLower(session.GetRoomCode()))
	msg := readUntil(t, conn, MsgConnected)

	var payload ConnectedPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.NotEmpty(t, payload.ClientID)
	assert.Equal(t, session.GetRoomCode(), payload.RoomCode)
	assert.Equal(t, domain.PhaseIdle, payload.State.Phase)
	assert.Len(t, payload.Palette, domain.ChairCount)

	require.Eventually(t, func() bool { return session.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestIntentsOverWebSocket(t *testing.T) {
	hub := newTestHub(t)
	session, err := hub.CreateTable()
	require.NoError(t, err)

	ts := httptest.NewServer(NewHandler(hub, slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer ts.Close()

	conn := dial(t, ts, session.GetRoomCode())
	readUntil(t, conn, MsgConnected)
	require.Eventually(t, func() bool { return session.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)

	send(t, conn, MsgStartMusic)
	trace := readUntil(t, conn, MsgTrace)
	var event domain.GameEvent
	require.NoError(t, json.Unmarshal(trace.Payload, &event))
	assert.Equal(t, domain.EventMusicStarted, event.Type)
	assert.Equal(t, domain.PhasePlaying, session.GetPhase())

	// Only the sender hears about a rejected intent
	send(t, conn, MsgStartMusic)
	errMsg := readUntil(t, conn, MsgError)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(errMsg.Payload, &payload))
	assert.Equal(t, ErrCodeInvalidTransition, payload.Code)

	send(t, conn, MsgReset)
	require.Eventually(t, func() bool { return session.GetPhase() == domain.PhaseIdle }, time.Second, 10*time.Millisecond)
}

func TestPingAndUnknownMessage(t *testing.T) {
	hub := newTestHub(t)
	session, err := hub.CreateTable()
	require.NoError(t, err)

	ts := httptest.NewServer(NewHandler(hub, slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer ts.Close()

	conn := dial(t, ts, session.GetRoomCode())
	readUntil(t, conn, MsgConnected)

	send(t, conn, MsgPing)
	readUntil(t, conn, MsgPong)

	send(t, conn, MessageType("dance"))
	errMsg := readUntil(t, conn, MsgError)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(errMsg.Payload, &payload))
	assert.Equal(t, ErrCodeInvalidMessage, payload.Code)
}

func TestDisconnectUnregisters(t *testing.T) {
	hub := newTestHub(t)
	session, err := hub.CreateTable()
	require.NoError(t, err)

	ts := httptest.NewServer(NewHandler(hub, slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer ts.Close()

	conn := dial(t, ts, session.GetRoomCode())
	readUntil(t, conn, MsgConnected)
	require.Eventually(t, func() bool { return session.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return session.GetClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
